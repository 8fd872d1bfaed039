package api

import (
	"net/http"
	"strconv"
)

// handleSystemMetrics returns the host metric history, newest last. The
// optional ?limit= query caps the number of samples.
func (api *Server) handleSystemMetrics(w http.ResponseWriter, r *http.Request) {
	snaps := api.SystemMonitor.History.Snapshot()
	writeJSON(w, http.StatusOK, trim(snaps, r))
}

// handleGameMetrics returns one instance's metric history.
func (api *Server) handleGameMetrics(w http.ResponseWriter, r *http.Request) {
	mon, err := api.Registry.Monitor(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trim(mon.History.Snapshot(), r))
}

func trim[T any](snaps []T, r *http.Request) []T {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit < len(snaps) {
			return snaps[len(snaps)-limit:]
		}
	}
	return snaps
}
