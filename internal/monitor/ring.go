package monitor

import "sync"

// Ring is a fixed-capacity rolling history of samples. Once full, pushing a
// new sample evicts the oldest. Safe for concurrent use.
type Ring[T any] struct {
	mu       sync.RWMutex
	data     []T
	capacity int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{
		data:     make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a sample, evicting the oldest when at capacity.
func (r *Ring[T]) Push(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.data) >= r.capacity {
		copy(r.data, r.data[1:])
		r.data[len(r.data)-1] = v
		return
	}
	r.data = append(r.data, v)
}

// Latest returns the most recent sample, if any.
func (r *Ring[T]) Latest() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.data) == 0 {
		var zero T
		return zero, false
	}
	return r.data[len(r.data)-1], true
}

// Snapshot returns a copy of the history in insertion order.
func (r *Ring[T]) Snapshot() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(r.data))
	copy(out, r.data)
	return out
}

// Len returns the number of stored samples.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
