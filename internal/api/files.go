package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rustpanel/internal/domain"
)

type FileEntry struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	IsDir    bool      `json:"isDir"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// resolvePath maps a request path onto the instance's directory, rejecting
// anything that would escape it.
func (api *Server) resolvePath(id, reqPath string) (string, error) {
	def, err := api.Registry.Definition(id)
	if err != nil {
		return "", err
	}

	root := filepath.Clean(def.Dir())
	target := filepath.Clean(filepath.Join(root, reqPath))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes server directory: %w", reqPath, domain.ErrInvalidOperation)
	}
	return target, nil
}

func (api *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" {
		reqPath = "/"
	}

	target, err := api.resolvePath(r.PathValue("id"), reqPath)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, fmt.Errorf("path %q: %w", reqPath, domain.ErrNotFound))
			return
		}
		writeError(w, err)
		return
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileEntry{
			Name:     entry.Name(),
			Path:     filepath.Join(reqPath, entry.Name()),
			IsDir:    entry.IsDir(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].IsDir != files[j].IsDir {
			return files[i].IsDir
		}
		return files[i].Name < files[j].Name
	})

	writeJSON(w, http.StatusOK, files)
}

func (api *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" {
		http.Error(w, "Missing path", http.StatusBadRequest)
		return
	}

	target, err := api.resolvePath(r.PathValue("id"), reqPath)
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, fmt.Errorf("path %q: %w", reqPath, domain.ErrNotFound))
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write(content)
}

func (api *Server) handleWriteFile(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" {
		http.Error(w, "Missing path", http.StatusBadRequest)
		return
	}

	target, err := api.resolvePath(r.PathValue("id"), reqPath)
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	if err := os.WriteFile(target, content, 0644); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (api *Server) handleMakeDir(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, "Missing path", http.StatusBadRequest)
		return
	}

	target, err := api.resolvePath(r.PathValue("id"), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := os.MkdirAll(target, 0755); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (api *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	if reqPath == "" {
		http.Error(w, "Missing path", http.StatusBadRequest)
		return
	}

	target, err := api.resolvePath(r.PathValue("id"), reqPath)
	if err != nil {
		writeError(w, err)
		return
	}

	// Deleting the server root from the file manager is never intended.
	def, _ := api.Registry.Definition(r.PathValue("id"))
	if target == filepath.Clean(def.Dir()) {
		writeError(w, fmt.Errorf("refusing to delete server root: %w", domain.ErrInvalidOperation))
		return
	}

	if err := os.RemoveAll(target); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
