package registry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"rustpanel/internal/domain"
)

func staticDef(id string) domain.Instance {
	return domain.Instance{
		ID:     id,
		Name:   "static " + id,
		Type:   domain.TypeVanilla,
		Origin: domain.OriginStatic,
		Status: domain.StatusReady,
	}
}

func dynamicDef(id string) domain.Instance {
	return domain.Instance{
		ID:     id,
		Name:   "dynamic " + id,
		Type:   domain.TypeVanilla,
		Origin: domain.OriginDynamic,
		Status: domain.StatusInstalling,
	}
}

func TestDefinitionNotFound(t *testing.T) {
	r := New(nil)

	_, err := r.Definition("nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAddRejectsDuplicate(t *testing.T) {
	r := New([]domain.Instance{staticDef("a")})

	err := r.Add(dynamicDef("a"))
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Errorf("Expected ErrInvalidOperation for duplicate id, got %v", err)
	}
}

func TestDefinitionReturnsCopy(t *testing.T) {
	r := New([]domain.Instance{staticDef("a")})

	def, err := r.Definition("a")
	if err != nil {
		t.Fatalf("Definition failed: %v", err)
	}
	def.Name = "mutated"
	def.StatusLog = append(def.StatusLog, "junk")

	again, _ := r.Definition("a")
	if again.Name != "static a" || len(again.StatusLog) != 0 {
		t.Errorf("Caller mutation leaked into registry: %+v", again)
	}
}

func TestSetStatusAppendsTimestampedLog(t *testing.T) {
	r := New([]domain.Instance{dynamicDef("a")})

	r.SetStatus("a", domain.StatusDownloading, "Downloading game server files")

	def, _ := r.Definition("a")
	if def.Status != domain.StatusDownloading {
		t.Errorf("Status not updated: %s", def.Status)
	}
	if len(def.StatusLog) != 1 {
		t.Fatalf("Expected 1 log line, got %d", len(def.StatusLog))
	}
	line := def.StatusLog[0]
	if !strings.Contains(line, "Downloading game server files") || !strings.HasPrefix(line, "[") {
		t.Errorf("Log line not timestamped: %q", line)
	}

	// Unknown id is a no-op, not a panic.
	r.SetStatus("missing", domain.StatusError, "whatever")
}

func TestRuntimeHandlesAbsentUntilRegistered(t *testing.T) {
	def := dynamicDef("a")
	r := New([]domain.Instance{def})

	if _, err := r.Rcon("a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound before runtime, got %v", err)
	}
	if _, err := r.OpLock("a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound before runtime, got %v", err)
	}

	rt := NewRuntime(def, "127.0.0.1", 4, time.Hour)
	t.Cleanup(rt.Shutdown)
	r.RegisterRuntime("a", rt)

	if _, err := r.Rcon("a"); err != nil {
		t.Errorf("Expected rcon handle, got %v", err)
	}
	if _, err := r.Monitor("a"); err != nil {
		t.Errorf("Expected monitor handle, got %v", err)
	}
	if _, err := r.Hub("a"); err != nil {
		t.Errorf("Expected hub handle, got %v", err)
	}
}

func TestRemoveStaticRejected(t *testing.T) {
	r := New([]domain.Instance{staticDef("s")})

	err := r.Remove("s")
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Errorf("Expected ErrInvalidOperation, got %v", err)
	}
	if _, err := r.Definition("s"); err != nil {
		t.Errorf("Static instance must survive remove attempt: %v", err)
	}
}

func TestRemoveDynamicSheddingRuntime(t *testing.T) {
	def := dynamicDef("d")
	def.Status = domain.StatusReady
	r := New([]domain.Instance{def})
	r.RegisterRuntime("d", NewRuntime(def, "127.0.0.1", 4, time.Hour))

	if err := r.Remove("d"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := r.Definition("d"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Definition should be gone, got %v", err)
	}
	if _, err := r.Rcon("d"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Runtime should be gone, got %v", err)
	}
}

func TestDynamicDefinitionsFiltersStatic(t *testing.T) {
	r := New([]domain.Instance{staticDef("s"), dynamicDef("d1"), dynamicDef("d2")})

	dyn := r.DynamicDefinitions()
	if len(dyn) != 2 {
		t.Fatalf("Expected 2 dynamic definitions, got %d", len(dyn))
	}
	for _, def := range dyn {
		if def.Origin != domain.OriginDynamic {
			t.Errorf("Static definition leaked: %+v", def)
		}
	}
}

func TestListWithoutRuntimesIsOffline(t *testing.T) {
	r := New([]domain.Instance{staticDef("s")})

	entries := r.List()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Online || entries[0].Players != 0 {
		t.Errorf("Instance without runtime must list offline: %+v", entries[0])
	}
}
