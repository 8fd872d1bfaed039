package monitor

import (
	"sync"
	"testing"
)

func TestRingEviction(t *testing.T) {
	ring := NewRing[int](3)

	for i := 1; i <= 5; i++ {
		ring.Push(i)
	}

	if ring.Len() != 3 {
		t.Fatalf("Expected length 3, got %d", ring.Len())
	}

	snap := ring.Snapshot()
	want := []int{3, 4, 5}
	for i, v := range want {
		if snap[i] != v {
			t.Errorf("Expected %v at %d, got %v", v, i, snap[i])
		}
	}
}

func TestRingLatest(t *testing.T) {
	ring := NewRing[string](2)

	if _, ok := ring.Latest(); ok {
		t.Error("Expected no latest sample on empty ring")
	}

	ring.Push("a")
	ring.Push("b")
	ring.Push("c")

	latest, ok := ring.Latest()
	if !ok || latest != "c" {
		t.Errorf("Expected latest c, got %q (ok=%v)", latest, ok)
	}
}

func TestRingSnapshotIsCopy(t *testing.T) {
	ring := NewRing[int](4)
	ring.Push(1)
	ring.Push(2)

	snap := ring.Snapshot()
	snap[0] = 99

	again := ring.Snapshot()
	if again[0] != 1 {
		t.Errorf("Snapshot mutation leaked into ring: %v", again)
	}
}

func TestRingConcurrent(t *testing.T) {
	ring := NewRing[int](16)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ring.Push(n)
				ring.Latest()
				ring.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	if ring.Len() != 16 {
		t.Errorf("Expected full ring, got %d", ring.Len())
	}
}
