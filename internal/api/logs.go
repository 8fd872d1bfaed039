package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rustpanel/internal/domain"
)

const defaultLogLines = 200

// handleTailLog returns the last N lines of one of the instance's log
// files. The kind path segment selects from a fixed allowlist; arbitrary
// paths are never accepted here.
func (api *Server) handleTailLog(w http.ResponseWriter, r *http.Request) {
	def, err := api.Registry.Definition(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var logPath string
	kind := r.PathValue("kind")
	switch kind {
	case "console":
		logPath = def.ConsoleLogPath()
	case "script":
		logPath = def.ScriptLogPath()
	case "oxide":
		logPath = filepath.Join(def.ServerFilesDir(), "oxide", "logs", "oxide.log")
	default:
		writeError(w, fmt.Errorf("unknown log %q: %w", kind, domain.ErrInvalidOperation))
		return
	}

	lines := defaultLogLines
	if raw := r.URL.Query().Get("lines"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			lines = n
		}
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"lines": []string{}})
			return
		}
		writeError(w, err)
		return
	}

	all := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lines": all})
}
