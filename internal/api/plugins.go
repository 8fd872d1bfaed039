package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rustpanel/internal/domain"
)

type Plugin struct {
	Name     string    `json:"name"`
	File     string    `json:"file"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// moddedInstance resolves an instance that can carry Oxide plugins.
func (api *Server) moddedInstance(id string) (domain.Instance, error) {
	def, err := api.Registry.Definition(id)
	if err != nil {
		return domain.Instance{}, err
	}
	if def.Type != domain.TypeModded {
		return domain.Instance{}, fmt.Errorf("instance %q is not modded: %w", id, domain.ErrInvalidOperation)
	}
	return def, nil
}

func (api *Server) handleListPlugins(w http.ResponseWriter, r *http.Request) {
	def, err := api.moddedInstance(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := os.ReadDir(def.PluginsDir())
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, []Plugin{})
			return
		}
		writeError(w, err)
		return
	}

	plugins := make([]Plugin, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".cs") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		plugins = append(plugins, Plugin{
			Name:     strings.TrimSuffix(entry.Name(), ".cs"),
			File:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	writeJSON(w, http.StatusOK, plugins)
}

type InstallPluginRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// handleInstallPlugin downloads a plugin source file and asks Oxide to
// load it. The name defaults to the final URL path segment.
func (api *Server) handleInstallPlugin(w http.ResponseWriter, r *http.Request) {
	def, err := api.moddedInstance(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req InstallPluginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "URL required", http.StatusBadRequest)
		return
	}

	name := req.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(req.URL), ".cs")
	}
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) {
		writeError(w, fmt.Errorf("invalid plugin name %q: %w", name, domain.ErrInvalidOperation))
		return
	}

	source, err := api.Pipeline.Fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := os.MkdirAll(def.PluginsDir(), 0755); err != nil {
		writeError(w, err)
		return
	}
	if err := os.WriteFile(filepath.Join(def.PluginsDir(), name+".cs"), source, 0644); err != nil {
		writeError(w, err)
		return
	}

	// Best effort: the server may be offline, the plugin still installs.
	output := ""
	if client, err := api.Registry.Rcon(def.ID); err == nil {
		output, _ = client.OxideLoad(r.Context(), name)
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": name, "output": output})
}

func (api *Server) handleDeletePlugin(w http.ResponseWriter, r *http.Request) {
	def, err := api.moddedInstance(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	name := r.PathValue("name")
	if strings.ContainsAny(name, `/\`) {
		writeError(w, fmt.Errorf("invalid plugin name %q: %w", name, domain.ErrInvalidOperation))
		return
	}

	if client, err := api.Registry.Rcon(def.ID); err == nil {
		client.OxideUnload(r.Context(), name)
	}

	path := filepath.Join(def.PluginsDir(), name+".cs")
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			writeError(w, fmt.Errorf("plugin %q: %w", name, domain.ErrNotFound))
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *Server) handleReloadPlugin(w http.ResponseWriter, r *http.Request) {
	def, err := api.moddedInstance(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	client, err := api.Registry.Rcon(def.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	output, err := client.OxideReload(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}
