package api

import (
	"encoding/json"
	"net/http"

	"rustpanel/internal/sched"
)

func (api *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Scheduler.Jobs())
}

func (api *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req sched.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	job, err := api.Scheduler.Create(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (api *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req sched.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	job, err := api.Scheduler.Update(r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (api *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := api.Scheduler.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *Server) handleToggleSchedule(w http.ResponseWriter, r *http.Request) {
	job, err := api.Scheduler.Toggle(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
