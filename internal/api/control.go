package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rustpanel/internal/domain"
)

// CommandResult is the response shape for every process-management action.
type CommandResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Output  string `json:"output"`
}

func (api *Server) handleStartServer(w http.ResponseWriter, r *http.Request) {
	api.runAction(w, r, "start")
}

func (api *Server) handleStopServer(w http.ResponseWriter, r *http.Request) {
	api.runAction(w, r, "stop")
}

func (api *Server) handleRestartServer(w http.ResponseWriter, r *http.Request) {
	api.runAction(w, r, "restart")
}

func (api *Server) handleUpdateServer(w http.ResponseWriter, r *http.Request) {
	api.runAction(w, r, "update")
}

func (api *Server) handleBackupServer(w http.ResponseWriter, r *http.Request) {
	api.runAction(w, r, "backup")
}

// runAction executes one LinuxGSM action under the instance's exclusive
// operation lock. A second action on the same instance blocks until the
// first finishes.
func (api *Server) runAction(w http.ResponseWriter, r *http.Request, action string) {
	id := r.PathValue("id")

	def, err := api.controllable(id)
	if err != nil {
		writeError(w, err)
		return
	}

	lock, err := api.Registry.OpLock(id)
	if err != nil {
		writeError(w, err)
		return
	}

	lock.Lock()
	output, err := api.GSM.Command(r.Context(), def, action)
	lock.Unlock()

	result := CommandResult{Success: err == nil, Action: action, Output: output}
	if err != nil {
		result.Output = output + "\n" + err.Error()
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *Server) handleSaveServer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	client, err := api.Registry.Rcon(id)
	if err != nil {
		writeError(w, err)
		return
	}

	output, err := client.Save(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CommandResult{Success: true, Action: "save", Output: output})
}

type WipeRequest struct {
	Full bool   `json:"full"`
	Seed string `json:"seed"`
}

// handleWipeServer stops the server, deletes world state and starts it
// again. Full wipes also remove the player databases.
func (api *Server) handleWipeServer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req WipeRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	def, err := api.controllable(id)
	if err != nil {
		writeError(w, err)
		return
	}

	lock, err := api.Registry.OpLock(id)
	if err != nil {
		writeError(w, err)
		return
	}

	action := "wipe_map"
	if req.Full {
		action = "wipe_full"
	}

	lock.Lock()
	output, err := api.GSM.Wipe(r.Context(), def, req.Full, req.Seed)
	lock.Unlock()

	result := CommandResult{Success: err == nil, Action: action, Output: output}
	if err != nil {
		result.Output = output + "\n" + err.Error()
	}
	writeJSON(w, http.StatusOK, result)
}

type CommandRequest struct {
	Command string `json:"command"`
}

// handleCommand runs one raw RCON command and returns the response body.
func (api *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Command == "" {
		http.Error(w, "Command required", http.StatusBadRequest)
		return
	}

	client, err := api.Registry.Rcon(id)
	if err != nil {
		writeError(w, err)
		return
	}

	output, err := client.Execute(r.Context(), req.Command)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}

// controllable resolves an instance that is allowed to receive process
// actions: it must exist and be Ready.
func (api *Server) controllable(id string) (domain.Instance, error) {
	def, err := api.Registry.Definition(id)
	if err != nil {
		return domain.Instance{}, err
	}
	if def.Status != domain.StatusReady {
		return domain.Instance{}, fmt.Errorf("instance %q is %s: %w",
			id, def.Status, domain.ErrInvalidOperation)
	}
	return def, nil
}
