// Package provision builds brand-new instances end to end: directory,
// LinuxGSM bootstrap, game files, optional mod framework, configuration.
// The whole pipeline runs detached; callers get an immediate "installing"
// answer and poll the instance's status log for progress.
package provision

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rustpanel/internal/domain"
	"rustpanel/internal/gsm"
	"rustpanel/internal/persist"
	"rustpanel/internal/registry"
)

const (
	defaultLinuxGSMURL = "https://linuxgsm.sh"
	defaultOxideURL    = "https://umod.org/games/rust/download"
)

// Pipeline provisions new instances. One Provision call runs as one
// detached goroutine; concurrent provisions are safe because port and
// directory allocation are disjoint.
type Pipeline struct {
	Registry *registry.Registry
	Store    *persist.Store
	Runner   gsm.Runner
	Fetcher  Fetcher

	// Runtime wiring for the instance once it reaches Ready.
	RconHost     string
	HistorySize  int
	PollInterval time.Duration

	// Overridable in tests.
	LinuxGSMURL string
	OxideURL    string
}

// Provision drives the instance through the full state machine. It is meant
// to be spawned with `go p.Provision(def)`. Failures are recorded in the
// instance's own status log, not returned; the caller already got its
// acknowledgment. Error is terminal: no retry, no rollback, the partial
// directory tree is left for inspection.
func (p *Pipeline) Provision(def domain.Instance) {
	ctx := context.Background()
	dir := def.Dir()

	log.Printf("provisioning %q (%s) in %s", def.ID, def.Type, dir)

	// Install the LinuxGSM toolchain.
	p.Registry.SetStatus(def.ID, domain.StatusInstalling, "Creating server directory")
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.fail(def.ID, "create directory", "", err.Error())
		return
	}

	p.Registry.SetStatus(def.ID, domain.StatusInstalling, "Downloading LinuxGSM bootstrap")
	script, err := p.Fetcher.Fetch(ctx, p.linuxGSMURL())
	if err != nil {
		p.fail(def.ID, "fetch linuxgsm.sh", "", err.Error())
		return
	}
	scriptPath := filepath.Join(dir, "linuxgsm.sh")
	if err := os.WriteFile(scriptPath, script, 0755); err != nil {
		p.fail(def.ID, "write linuxgsm.sh", "", err.Error())
		return
	}

	if !p.step(ctx, def.ID, domain.StatusInstalling, "Installing LinuxGSM",
		dir, "bash", scriptPath, "rustserver") {
		return
	}

	// Install the game server files. This is the long one.
	if !p.step(ctx, def.ID, domain.StatusDownloading, "Downloading game server files (this may take a while)",
		dir, def.ScriptPath(), "auto-install") {
		return
	}

	// Install Oxide for modded instances.
	if def.Type == domain.TypeModded {
		p.Registry.SetStatus(def.ID, domain.StatusInstallingMods, "Installing Oxide framework")
		archive, err := p.Fetcher.Fetch(ctx, p.oxideURL())
		if err != nil {
			p.fail(def.ID, "fetch Oxide archive", "", err.Error())
			return
		}
		if err := extractZip(archive, def.ServerFilesDir()); err != nil {
			p.fail(def.ID, "extract Oxide archive", "", err.Error())
			return
		}
		p.Registry.SetStatus(def.ID, domain.StatusInstallingMods, "Oxide installed")
	}

	// Render the server configuration.
	p.Registry.SetStatus(def.ID, domain.StatusConfiguring, "Writing server configuration")
	cfgPath := def.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		p.fail(def.ID, "create cfg directory", "", err.Error())
		return
	}
	if err := os.WriteFile(cfgPath, []byte(renderServerCfg(def)), 0644); err != nil {
		p.fail(def.ID, "write server.cfg", "", err.Error())
		return
	}

	// Attach the runtime before flipping the status: a Ready instance must
	// always have live handles.
	rt := registry.NewRuntime(def, p.RconHost, p.HistorySize, p.PollInterval)
	p.Registry.RegisterRuntime(def.ID, rt)
	p.Registry.SetStatus(def.ID, domain.StatusReady, "Provisioning complete")

	if err := p.Store.SaveInstances(p.Registry.DynamicDefinitions()); err != nil {
		log.Printf("could not persist instances after provisioning %q: %v", def.ID, err)
	}

	log.Printf("instance %q provisioned", def.ID)
}

// step runs one external command; on failure it records the bounded output
// and flips the instance to Error. Returns false when the pipeline must halt.
func (p *Pipeline) step(ctx context.Context, id string, status domain.Status, message, dir, name string, args ...string) bool {
	p.Registry.SetStatus(id, status, message)

	stdout, stderr, err := p.Runner.Run(ctx, dir, name, args...)
	if err != nil {
		p.fail(id, message, stdout, stderr+"\n"+err.Error())
		return false
	}
	if out := strings.TrimSpace(stdout); out != "" {
		p.Registry.SetStatus(id, status, gsm.Tail(out, 500))
	}
	return true
}

func (p *Pipeline) fail(id, step, stdout, stderr string) {
	msg := fmt.Sprintf("%s failed\nSTDOUT: %s\nSTDERR: %s",
		step, gsm.Tail(strings.TrimSpace(stdout), 2000), gsm.Tail(strings.TrimSpace(stderr), 2000))
	p.Registry.SetStatus(id, domain.StatusError, msg)
	log.Printf("provisioning %q: %s failed", id, step)

	if err := p.Store.SaveInstances(p.Registry.DynamicDefinitions()); err != nil {
		log.Printf("could not persist instances after failure of %q: %v", id, err)
	}
}

func (p *Pipeline) linuxGSMURL() string {
	if p.LinuxGSMURL != "" {
		return p.LinuxGSMURL
	}
	return defaultLinuxGSMURL
}

func (p *Pipeline) oxideURL() string {
	if p.OxideURL != "" {
		return p.OxideURL
	}
	return defaultOxideURL
}

func renderServerCfg(def domain.Instance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "server.hostname %q\n", def.Hostname)
	fmt.Fprintf(&b, "server.seed %q\n", fmt.Sprint(def.Seed))
	fmt.Fprintf(&b, "server.worldsize %q\n", fmt.Sprint(def.WorldSize))
	fmt.Fprintf(&b, "server.maxplayers %q\n", fmt.Sprint(def.MaxPlayers))
	fmt.Fprintf(&b, "rcon.ip 0.0.0.0\n")
	fmt.Fprintf(&b, "rcon.port %d\n", def.RconPort)
	fmt.Fprintf(&b, "rcon.password %q\n", def.RconPassword)
	fmt.Fprintf(&b, "rcon.web 1\n")
	fmt.Fprintf(&b, "server.queryport %d\n", def.QueryPort)
	fmt.Fprintf(&b, "server.port %d\n", def.GamePort)
	return b.String()
}

// extractZip unpacks an in-memory archive under destDir, refusing entries
// that would escape it.
func extractZip(data []byte, destDir string) error {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}

	for _, file := range reader.File {
		target := filepath.Join(destDir, file.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes destination", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		src, err := file.Open()
		if err != nil {
			return err
		}
		dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
		if err != nil {
			src.Close()
			return err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
