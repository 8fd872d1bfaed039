package gsm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rustpanel/internal/domain"
)

// Controller runs LinuxGSM actions against instances. Callers must hold the
// instance's exclusive-operation lock around every call.
type Controller struct {
	runner Runner
}

func NewController(runner Runner) *Controller {
	return &Controller{runner: runner}
}

// Command runs the instance's LinuxGSM script with the given action (start,
// stop, restart, update, backup, ...) and returns the combined output.
func (c *Controller) Command(ctx context.Context, def domain.Instance, action string) (string, error) {
	stdout, stderr, err := c.runner.Run(ctx, def.Dir(), def.ScriptPath(), action)
	output := stdout
	if stderr != "" {
		output = strings.TrimRight(output, "\n") + "\n" + stderr
	}
	if err != nil {
		return output, fmt.Errorf("%s: %w", action, err)
	}
	return output, nil
}

// Wipe stops the instance, deletes its world files and starts it again. A
// map wipe removes save and map files; a full wipe also removes the player
// databases (blueprints, bans). An optional new seed is written into
// server.cfg between stop and start.
func (c *Controller) Wipe(ctx context.Context, def domain.Instance, full bool, seed string) (string, error) {
	var report []string

	if out, err := c.Command(ctx, def, "stop"); err != nil {
		report = append(report, "stop failed: "+err.Error())
	} else {
		report = append(report, strings.TrimSpace(out))
	}

	deleted, err := DeleteWorldFiles(def.WorldDir(), full)
	if err != nil {
		report = append(report, "wipe: "+err.Error())
	}
	if len(deleted) == 0 {
		report = append(report, "deleted: none")
	} else {
		report = append(report, "deleted: "+strings.Join(deleted, ", "))
	}

	if seed != "" {
		if err := UpdateSeed(def.ConfigPath(), seed); err != nil {
			report = append(report, "seed update failed: "+err.Error())
		} else {
			report = append(report, "seed set to "+seed)
		}
	}

	out, err := c.Command(ctx, def, "start")
	report = append(report, strings.TrimSpace(out))
	if err != nil {
		return strings.Join(report, "\n"), err
	}
	return strings.Join(report, "\n"), nil
}

// wipe suffix allowlist: world state only, never configs or plugins.
var (
	mapSuffixes  = []string{".sav", ".map"}
	fullSuffixes = []string{".sav", ".map", ".db"}
)

// DeleteWorldFiles removes world-state files from dir. Only files matching
// the suffix allowlist are touched. Returns the deleted file names.
func DeleteWorldFiles(dir string, full bool) ([]string, error) {
	suffixes := mapSuffixes
	if full {
		suffixes = fullSuffixes
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading world dir: %w", err)
	}

	var deleted []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				if err := os.Remove(filepath.Join(dir, name)); err == nil {
					deleted = append(deleted, name)
				}
				break
			}
		}
	}
	return deleted, nil
}

// UpdateSeed rewrites the server.seed line in server.cfg, appending one if
// missing.
func UpdateSeed(cfgPath, seed string) error {
	content, err := os.ReadFile(cfgPath)
	if err != nil {
		return err
	}

	lines := strings.Split(string(content), "\n")
	found := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "server.seed") {
			lines[i] = fmt.Sprintf("server.seed %q", seed)
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, fmt.Sprintf("server.seed %q", seed))
	}

	return os.WriteFile(cfgPath, []byte(strings.Join(lines, "\n")), 0644)
}
