package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"rustpanel/internal/domain"
	"rustpanel/internal/provision"
)

type CreateServerRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Hostname   string `json:"hostname"`
	MaxPlayers int    `json:"maxPlayers"`
	WorldSize  int    `json:"worldSize"`
	Seed       int    `json:"seed"`
}

func (api *Server) handleListServers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.Registry.List())
}

func (api *Server) handleGetServer(w http.ResponseWriter, r *http.Request) {
	def, err := api.Registry.Definition(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// handleCreateServer allocates ports and an id, registers the definition
// and kicks off provisioning in the background. The response is immediate;
// progress is exposed through the status endpoint.
func (api *Server) handleCreateServer(w http.ResponseWriter, r *http.Request) {
	var req CreateServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Name required", http.StatusBadRequest)
		return
	}

	instanceType := domain.InstanceType(req.Type)
	if instanceType != domain.TypeVanilla && instanceType != domain.TypeModded {
		http.Error(w, "Type must be vanilla or modded", http.StatusBadRequest)
		return
	}

	if len(api.Registry.DynamicDefinitions()) >= api.Config.Provisioning.MaxInstances {
		writeError(w, fmt.Errorf("instance limit (%d) reached: %w",
			api.Config.Provisioning.MaxInstances, domain.ErrInvalidOperation))
		return
	}

	prov := api.Config.Provisioning
	ports, err := provision.AllocatePorts(api.Registry.Definitions(),
		prov.PortRangeStart, prov.PortRangeEnd, prov.PortOffset)
	if err != nil {
		writeError(w, err)
		return
	}

	hostname := req.Hostname
	if hostname == "" {
		hostname = req.Name
	}
	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = 100
	}
	worldSize := req.WorldSize
	if worldSize == 0 {
		worldSize = 3500
	}

	def := domain.Instance{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Type:         instanceType,
		Origin:       domain.OriginDynamic,
		Status:       domain.StatusInstalling,
		GamePort:     ports.Game,
		RconPort:     ports.Rcon,
		QueryPort:    ports.Query,
		MaxPlayers:   maxPlayers,
		WorldSize:    worldSize,
		Seed:         req.Seed,
		Hostname:     hostname,
		RconPassword: generatePassword(),
		BasePath:     api.Config.ServersPath,
		CreatedAt:    time.Now().UTC(),
	}

	if err := api.Registry.Add(def); err != nil {
		writeError(w, err)
		return
	}
	if err := api.Persist.SaveInstances(api.Registry.DynamicDefinitions()); err != nil {
		writeError(w, err)
		return
	}

	go api.Pipeline.Provision(def)

	writeJSON(w, http.StatusAccepted, def)
}

func (api *Server) handleDeleteServer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := api.Registry.Remove(id); err != nil {
		writeError(w, err)
		return
	}
	if err := api.Persist.SaveInstances(api.Registry.DynamicDefinitions()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleServerStatus returns the lifecycle status and the accumulated
// status log, the polling target during provisioning.
func (api *Server) handleServerStatus(w http.ResponseWriter, r *http.Request) {
	def, err := api.Registry.Definition(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":        def.ID,
		"status":    def.Status,
		"statusLog": def.StatusLog,
	})
}

func generatePassword() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
