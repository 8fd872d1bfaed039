package registry

import (
	"fmt"
	"sync"
	"time"

	"rustpanel/internal/domain"
	"rustpanel/internal/monitor"
	"rustpanel/internal/rcon"
	"rustpanel/internal/ws"
)

// ListEntry is a definition overlaid with best-effort liveness from the
// instance's latest cached snapshot. Building it never touches the network.
type ListEntry struct {
	domain.Instance
	Online  bool `json:"online"`
	Players int  `json:"players"`
}

// Registry is the single source of truth mapping instance id to definition
// and, for Ready instances, a runtime. Definitions and runtimes are guarded
// by separate locks so slow provisioning writes never block unrelated reads.
// Neither lock is ever held across I/O.
type Registry struct {
	defMu sync.RWMutex
	defs  []domain.Instance

	rtMu     sync.RWMutex
	runtimes map[string]*Runtime
}

func New(defs []domain.Instance) *Registry {
	return &Registry{
		defs:     defs,
		runtimes: make(map[string]*Runtime),
	}
}

// Definition returns a copy of the instance definition, or ErrNotFound.
func (r *Registry) Definition(id string) (domain.Instance, error) {
	r.defMu.RLock()
	defer r.defMu.RUnlock()
	for i := range r.defs {
		if r.defs[i].ID == id {
			return cloneInstance(r.defs[i]), nil
		}
	}
	return domain.Instance{}, fmt.Errorf("instance %q: %w", id, domain.ErrNotFound)
}

// Definitions returns copies of all definitions in registration order.
func (r *Registry) Definitions() []domain.Instance {
	r.defMu.RLock()
	defer r.defMu.RUnlock()
	out := make([]domain.Instance, len(r.defs))
	for i := range r.defs {
		out[i] = cloneInstance(r.defs[i])
	}
	return out
}

// DynamicDefinitions returns copies of the dynamic-origin definitions, the
// set that gets persisted to servers.json.
func (r *Registry) DynamicDefinitions() []domain.Instance {
	r.defMu.RLock()
	defer r.defMu.RUnlock()
	var out []domain.Instance
	for i := range r.defs {
		if r.defs[i].Origin == domain.OriginDynamic {
			out = append(out, cloneInstance(r.defs[i]))
		}
	}
	return out
}

// List returns every definition overlaid with online state and player count
// from the latest cached game snapshot.
func (r *Registry) List() []ListEntry {
	defs := r.Definitions()
	entries := make([]ListEntry, 0, len(defs))
	for _, def := range defs {
		entry := ListEntry{Instance: def}
		if mon, err := r.Monitor(def.ID); err == nil {
			if snap, ok := mon.History.Latest(); ok {
				entry.Online = snap.Online
				entry.Players = snap.Players
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Add appends a new definition. Ids are unique across origins.
func (r *Registry) Add(def domain.Instance) error {
	r.defMu.Lock()
	defer r.defMu.Unlock()
	for i := range r.defs {
		if r.defs[i].ID == def.ID {
			return fmt.Errorf("instance %q already exists: %w", def.ID, domain.ErrInvalidOperation)
		}
	}
	r.defs = append(r.defs, def)
	return nil
}

// SetStatus transitions an instance's lifecycle status and appends a
// timestamped message to its status log. Unknown ids are ignored; the
// provisioning pipeline may outlive a deleted instance.
func (r *Registry) SetStatus(id string, status domain.Status, message string) {
	r.defMu.Lock()
	defer r.defMu.Unlock()
	for i := range r.defs {
		if r.defs[i].ID == id {
			r.defs[i].Status = status
			line := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), message)
			r.defs[i].StatusLog = append(r.defs[i].StatusLog, line)
			return
		}
	}
}

// RegisterRuntime attaches a freshly built runtime. Called exactly once per
// instance: at the end of successful provisioning, or at startup for each
// pre-existing Ready instance.
func (r *Registry) RegisterRuntime(id string, rt *Runtime) {
	r.rtMu.Lock()
	defer r.rtMu.Unlock()
	r.runtimes[id] = rt
}

// Rcon returns the instance's RCON client. Absence means "not currently
// controllable", not an invalid id.
func (r *Registry) Rcon(id string) (*rcon.Client, error) {
	rt, err := r.runtime(id)
	if err != nil {
		return nil, err
	}
	return rt.Rcon, nil
}

// Monitor returns the instance's metric history handle.
func (r *Registry) Monitor(id string) (*monitor.GameMonitor, error) {
	rt, err := r.runtime(id)
	if err != nil {
		return nil, err
	}
	return rt.Monitor, nil
}

// OpLock returns the per-instance mutex serializing all process-management
// actions, manual or scheduled.
func (r *Registry) OpLock(id string) (*sync.Mutex, error) {
	rt, err := r.runtime(id)
	if err != nil {
		return nil, err
	}
	return rt.OpLock, nil
}

// Hub returns the instance's console hub.
func (r *Registry) Hub(id string) (*ws.Hub, error) {
	rt, err := r.runtime(id)
	if err != nil {
		return nil, err
	}
	return rt.Hub, nil
}

func (r *Registry) runtime(id string) (*Runtime, error) {
	r.rtMu.RLock()
	defer r.rtMu.RUnlock()
	rt, ok := r.runtimes[id]
	if !ok {
		return nil, fmt.Errorf("runtime for %q: %w", id, domain.ErrNotFound)
	}
	return rt, nil
}

// Remove deletes a dynamic instance: its runtime's background tasks are
// cancelled, the RCON connection closed, and the definition dropped. Static
// instances are undeletable.
func (r *Registry) Remove(id string) error {
	r.defMu.Lock()
	idx := -1
	for i := range r.defs {
		if r.defs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.defMu.Unlock()
		return fmt.Errorf("instance %q: %w", id, domain.ErrNotFound)
	}
	if r.defs[idx].Origin == domain.OriginStatic {
		r.defMu.Unlock()
		return fmt.Errorf("instance %q is static: %w", id, domain.ErrInvalidOperation)
	}
	r.defs = append(r.defs[:idx], r.defs[idx+1:]...)
	r.defMu.Unlock()

	r.rtMu.Lock()
	rt, ok := r.runtimes[id]
	if ok {
		delete(r.runtimes, id)
	}
	r.rtMu.Unlock()

	if ok {
		rt.Shutdown()
	}
	return nil
}

func cloneInstance(def domain.Instance) domain.Instance {
	out := def
	out.StatusLog = append([]string(nil), def.StatusLog...)
	return out
}
