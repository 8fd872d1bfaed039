package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"rustpanel/internal/domain"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Monitor.PollIntervalSecs != 5 || cfg.Monitor.HistorySize != 720 {
		t.Errorf("Unexpected monitor defaults: %+v", cfg.Monitor)
	}
	if cfg.Provisioning.PortRangeStart != 28015 || cfg.Provisioning.PortOffset != 10 {
		t.Errorf("Unexpected provisioning defaults: %+v", cfg.Provisioning)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Errorf("config.json was not written: %v", err)
	}
}

func TestLoadConfigFillsMissingFields(t *testing.T) {
	dir := t.TempDir()

	partial := map[string]interface{}{
		"port": 9000,
	}
	data, _ := json.Marshal(partial)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Explicit port lost: %d", cfg.Port)
	}
	if cfg.Monitor.HistorySize != 720 {
		t.Errorf("Missing fields not defaulted: %+v", cfg.Monitor)
	}
	if cfg.ServersPath == "" {
		t.Error("ServersPath not defaulted")
	}
}

func TestStaticDefinitions(t *testing.T) {
	cfg := &Config{
		ServersPath: "/srv/rust",
		Instances: []StaticInstance{
			{ID: "main", Name: "Main", Type: "modded", GamePort: 28015, RconPort: 28016, RconPassword: "pw"},
			{ID: "other", Name: "Other", Type: "bogus", GamePort: 28025, RconPort: 28026},
		},
	}

	defs := cfg.StaticDefinitions()
	if len(defs) != 2 {
		t.Fatalf("Expected 2 definitions, got %d", len(defs))
	}

	if defs[0].Origin != domain.OriginStatic || defs[0].Status != domain.StatusReady {
		t.Errorf("Static instance must be ready and static-origin: %+v", defs[0])
	}
	if defs[0].Type != domain.TypeModded {
		t.Errorf("Type not carried: %s", defs[0].Type)
	}
	// Unknown types degrade to vanilla.
	if defs[1].Type != domain.TypeVanilla {
		t.Errorf("Expected vanilla fallback, got %s", defs[1].Type)
	}
	if defs[0].BasePath != "/srv/rust" {
		t.Errorf("BasePath not defaulted from ServersPath: %s", defs[0].BasePath)
	}
}
