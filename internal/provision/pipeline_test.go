package provision

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"rustpanel/internal/domain"
	"rustpanel/internal/gsm"
	"rustpanel/internal/persist"
	"rustpanel/internal/registry"
)

type fakeFetcher struct {
	responses map[string][]byte
	errs      map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if data, ok := f.responses[url]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("unexpected fetch of %s", url)
}

type scriptedRunner struct {
	mu     sync.Mutex
	calls  [][]string
	failOn string
}

func (r *scriptedRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string{name}, args...))
	r.mu.Unlock()

	for _, arg := range args {
		if r.failOn != "" && arg == r.failOn {
			return "partial output", "boom", fmt.Errorf("exit 1: %w", gsm.ErrProcessFailed)
		}
	}
	return "ok", "", nil
}

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		f.Write([]byte(content))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func newTestPipeline(t *testing.T, def domain.Instance, runner gsm.Runner, fetcher Fetcher) (*Pipeline, *registry.Registry) {
	t.Helper()

	reg := registry.New(nil)
	if err := reg.Add(def); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	return &Pipeline{
		Registry:     reg,
		Store:        persist.NewStore(t.TempDir()),
		Runner:       runner,
		Fetcher:      fetcher,
		RconHost:     "127.0.0.1",
		HistorySize:  4,
		PollInterval: time.Hour,
		LinuxGSMURL:  "http://lgsm.test/linuxgsm.sh",
		OxideURL:     "http://oxide.test/rust.zip",
	}, reg
}

func vanillaDef(t *testing.T) domain.Instance {
	t.Helper()
	return domain.Instance{
		ID:           "v1",
		Name:         "vanilla one",
		Type:         domain.TypeVanilla,
		Origin:       domain.OriginDynamic,
		Status:       domain.StatusInstalling,
		GamePort:     28015,
		RconPort:     28016,
		QueryPort:    27015,
		MaxPlayers:   50,
		WorldSize:    3500,
		Seed:         12345,
		Hostname:     "Vanilla One",
		RconPassword: "pw",
		BasePath:     t.TempDir(),
	}
}

func TestProvisionVanilla(t *testing.T) {
	def := vanillaDef(t)
	runner := &scriptedRunner{}
	fetcher := &fakeFetcher{responses: map[string][]byte{
		"http://lgsm.test/linuxgsm.sh": []byte("#!/bin/bash\n"),
	}}

	p, reg := newTestPipeline(t, def, runner, fetcher)
	p.Provision(def)

	got, err := reg.Definition(def.ID)
	if err != nil {
		t.Fatalf("Definition failed: %v", err)
	}
	if got.Status != domain.StatusReady {
		t.Fatalf("Expected ready, got %s (log: %v)", got.Status, got.StatusLog)
	}

	// Ready instances get a runtime attached.
	if _, err := reg.Rcon(def.ID); err != nil {
		t.Errorf("Expected runtime after provisioning: %v", err)
	}

	// The bootstrap script was written and the install commands ran.
	if _, err := os.Stat(def.Dir() + "/linuxgsm.sh"); err != nil {
		t.Errorf("linuxgsm.sh not written: %v", err)
	}
	foundInstall := false
	for _, call := range runner.calls {
		for _, arg := range call {
			if arg == "auto-install" {
				foundInstall = true
			}
		}
	}
	if !foundInstall {
		t.Errorf("auto-install never ran: %v", runner.calls)
	}

	// server.cfg carries the instance settings.
	cfg, err := os.ReadFile(def.ConfigPath())
	if err != nil {
		t.Fatalf("server.cfg not written: %v", err)
	}
	for _, want := range []string{"server.hostname", "rcon.port 28016", `rcon.password "pw"`, "server.port 28015"} {
		if !strings.Contains(string(cfg), want) {
			t.Errorf("server.cfg missing %q:\n%s", want, cfg)
		}
	}
}

func TestProvisionModdedInstallsOxide(t *testing.T) {
	def := vanillaDef(t)
	def.ID = "m1"
	def.Type = domain.TypeModded

	runner := &scriptedRunner{}
	fetcher := &fakeFetcher{responses: map[string][]byte{
		"http://lgsm.test/linuxgsm.sh": []byte("#!/bin/bash\n"),
		"http://oxide.test/rust.zip": makeZip(t, map[string]string{
			"RustDedicated_Data/Managed/Oxide.Core.dll": "dll bytes",
		}),
	}}

	p, reg := newTestPipeline(t, def, runner, fetcher)
	p.Provision(def)

	got, _ := reg.Definition(def.ID)
	if got.Status != domain.StatusReady {
		t.Fatalf("Expected ready, got %s (log: %v)", got.Status, got.StatusLog)
	}

	extracted := def.ServerFilesDir() + "/RustDedicated_Data/Managed/Oxide.Core.dll"
	if _, err := os.Stat(extracted); err != nil {
		t.Errorf("Oxide archive not extracted: %v", err)
	}
}

func TestProvisionModFailureIsTerminal(t *testing.T) {
	def := vanillaDef(t)
	def.ID = "m2"
	def.Type = domain.TypeModded

	runner := &scriptedRunner{}
	fetcher := &fakeFetcher{
		responses: map[string][]byte{
			"http://lgsm.test/linuxgsm.sh": []byte("#!/bin/bash\n"),
		},
		errs: map[string]error{
			"http://oxide.test/rust.zip": errors.New("umod is down"),
		},
	}

	p, reg := newTestPipeline(t, def, runner, fetcher)
	p.Provision(def)

	got, _ := reg.Definition(def.ID)
	if got.Status != domain.StatusError {
		t.Fatalf("Expected error status, got %s", got.Status)
	}

	// No runtime gets attached to a failed instance.
	if _, err := reg.Rcon(def.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected no runtime, got %v", err)
	}
}

func TestProvisionInstallFailureCapturesOutput(t *testing.T) {
	def := vanillaDef(t)
	def.ID = "f1"

	runner := &scriptedRunner{failOn: "auto-install"}
	fetcher := &fakeFetcher{responses: map[string][]byte{
		"http://lgsm.test/linuxgsm.sh": []byte("#!/bin/bash\n"),
	}}

	p, reg := newTestPipeline(t, def, runner, fetcher)
	p.Provision(def)

	got, _ := reg.Definition(def.ID)
	if got.Status != domain.StatusError {
		t.Fatalf("Expected error status, got %s", got.Status)
	}

	log := strings.Join(got.StatusLog, "\n")
	if !strings.Contains(log, "STDOUT") || !strings.Contains(log, "partial output") {
		t.Errorf("Status log missing captured output:\n%s", log)
	}
	if !strings.Contains(log, "boom") {
		t.Errorf("Status log missing stderr:\n%s", log)
	}
}

func TestProvisionStatusProgression(t *testing.T) {
	def := vanillaDef(t)
	def.ID = "p1"

	runner := &scriptedRunner{}
	fetcher := &fakeFetcher{responses: map[string][]byte{
		"http://lgsm.test/linuxgsm.sh": []byte("#!/bin/bash\n"),
	}}

	p, reg := newTestPipeline(t, def, runner, fetcher)
	p.Provision(def)

	got, _ := reg.Definition(def.ID)
	log := strings.Join(got.StatusLog, "\n")
	for _, marker := range []string{"LinuxGSM", "game server files", "configuration", "complete"} {
		if !strings.Contains(log, marker) {
			t.Errorf("Status log missing %q:\n%s", marker, log)
		}
	}
}

func TestProvisionReadyStatusImpliesRuntime(t *testing.T) {
	def := vanillaDef(t)
	def.ID = "r1"

	runner := &scriptedRunner{}
	fetcher := &fakeFetcher{responses: map[string][]byte{
		"http://lgsm.test/linuxgsm.sh": []byte("#!/bin/bash\n"),
	}}

	p, reg := newTestPipeline(t, def, runner, fetcher)

	done := make(chan struct{})
	go func() {
		p.Provision(def)
		close(done)
	}()

	// The instant the status reads ready, the runtime handles must already
	// resolve; there is no window where one is visible without the other.
	deadline := time.After(5 * time.Second)
	for {
		got, err := reg.Definition(def.ID)
		if err != nil {
			t.Fatalf("Definition failed: %v", err)
		}
		if got.Status == domain.StatusReady {
			if _, err := reg.Rcon(def.ID); err != nil {
				t.Fatalf("Status ready but no runtime: %v", err)
			}
			break
		}
		if got.Status == domain.StatusError {
			t.Fatalf("Provisioning failed (log: %v)", got.StatusLog)
		}
		select {
		case <-deadline:
			t.Fatalf("Provisioning never reached ready (log: %v)", got.StatusLog)
		default:
			time.Sleep(time.Millisecond)
		}
	}
	<-done
}

func TestExtractZipRejectsEscape(t *testing.T) {
	data := makeZip(t, map[string]string{"../evil.txt": "nope"})

	if err := extractZip(data, t.TempDir()); err == nil {
		t.Error("Expected zip-slip rejection")
	}
}
