package api

import (
	"encoding/json"
	"net/http"
)

func (api *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	client, err := api.Registry.Rcon(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	players, err := client.PlayerList(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

type PlayerActionRequest struct {
	Reason string `json:"reason"`
}

func (api *Server) handleKickPlayer(w http.ResponseWriter, r *http.Request) {
	client, err := api.Registry.Rcon(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req PlayerActionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Reason == "" {
		req.Reason = "Kicked by admin"
	}

	output, err := client.Kick(r.Context(), r.PathValue("steamId"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}

func (api *Server) handleBanPlayer(w http.ResponseWriter, r *http.Request) {
	client, err := api.Registry.Rcon(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req PlayerActionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Reason == "" {
		req.Reason = "Banned by admin"
	}

	output, err := client.Ban(r.Context(), r.PathValue("steamId"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}

func (api *Server) handleUnbanPlayer(w http.ResponseWriter, r *http.Request) {
	client, err := api.Registry.Rcon(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	output, err := client.Unban(r.Context(), r.PathValue("steamId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}
