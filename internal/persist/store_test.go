package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rustpanel/internal/domain"
)

func TestInstancesRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	defs := []domain.Instance{
		{
			ID:        "a",
			Name:      "first",
			Type:      domain.TypeVanilla,
			Origin:    domain.OriginDynamic,
			Status:    domain.StatusReady,
			GamePort:  28015,
			RconPort:  28016,
			StatusLog: []string{"[t] created"},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
		{
			ID:     "b",
			Name:   "second",
			Type:   domain.TypeModded,
			Origin: domain.OriginDynamic,
			Status: domain.StatusError,
		},
	}

	if err := store.SaveInstances(defs); err != nil {
		t.Fatalf("SaveInstances failed: %v", err)
	}

	loaded := store.LoadInstances()
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 instances, got %d", len(loaded))
	}
	if loaded[0].ID != "a" || loaded[1].ID != "b" {
		t.Errorf("Order not preserved: %+v", loaded)
	}
	if loaded[0].GamePort != 28015 || len(loaded[0].StatusLog) != 1 {
		t.Errorf("Fields not preserved: %+v", loaded[0])
	}
}

func TestJobsRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	next := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	jobs := []domain.Job{{
		ID:         "j1",
		Name:       "nightly",
		InstanceID: "a",
		Action:     domain.ActionRestart,
		Enabled:    true,
		Schedule:   "04:00",
		NextRun:    &next,
	}}

	if err := store.SaveJobs(jobs); err != nil {
		t.Fatalf("SaveJobs failed: %v", err)
	}

	loaded := store.LoadJobs()
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 job, got %d", len(loaded))
	}
	if loaded[0].NextRun == nil || !loaded[0].NextRun.Equal(next) {
		t.Errorf("NextRun not preserved: %v", loaded[0].NextRun)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	store := NewStore(t.TempDir())

	if defs := store.LoadInstances(); len(defs) != 0 {
		t.Errorf("Expected no instances from empty dir, got %d", len(defs))
	}
	if jobs := store.LoadJobs(); len(jobs) != 0 {
		t.Errorf("Expected no jobs from empty dir, got %d", len(jobs))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "servers.json"), []byte("{broken"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	store := NewStore(dir)
	if defs := store.LoadInstances(); defs != nil {
		t.Errorf("Expected nil from corrupt file, got %+v", defs)
	}
}
