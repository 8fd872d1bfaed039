package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"rustpanel/internal/app"
	"rustpanel/internal/config"
	"rustpanel/internal/domain"
	"rustpanel/internal/gsm"
	"rustpanel/internal/monitor"
	"rustpanel/internal/persist"
	"rustpanel/internal/provision"
	"rustpanel/internal/rcon"
	"rustpanel/internal/registry"
	"rustpanel/internal/sched"
	"rustpanel/internal/storage"
)

type Server struct {
	Config        *config.Config
	Store         *storage.GormStore
	Persist       *persist.Store
	Registry      *registry.Registry
	GSM           *gsm.Controller
	Pipeline      *provision.Pipeline
	Scheduler     *sched.Scheduler
	SystemMonitor *monitor.SystemMonitor
	JWTSecret     string
}

func NewAPIServer(container *app.Container) *Server {
	return &Server{
		Config:        container.Config,
		Store:         container.Store,
		Persist:       container.Persist,
		Registry:      container.Registry,
		GSM:           container.GSM,
		Pipeline:      container.Pipeline,
		Scheduler:     container.Scheduler,
		SystemMonitor: container.SystemMonitor,
		JWTSecret:     container.JWTSecret,
	}
}

func (api *Server) Start(listenAddr string) error {
	handler := api.corsMiddleware(api.Routes())

	fmt.Printf("API listening on http://%s\n", listenAddr)
	return http.ListenAndServe(listenAddr, handler)
}

// Routes builds the full route table. Everything except login and first-run
// setup requires a valid token.
func (api *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", api.handleLogin)
	mux.HandleFunc("POST /auth/logout", api.handleLogout)
	mux.HandleFunc("POST /auth/setup", api.handleSetup)
	mux.HandleFunc("GET /auth/setup-required", api.handleSetupRequired)

	protected := http.NewServeMux()

	protected.HandleFunc("GET /auth/me", api.handleMe)

	protected.HandleFunc("GET /servers", api.handleListServers)
	protected.HandleFunc("POST /servers", api.handleCreateServer)
	protected.HandleFunc("GET /servers/{id}", api.handleGetServer)
	protected.HandleFunc("DELETE /servers/{id}", api.handleDeleteServer)
	protected.HandleFunc("GET /servers/{id}/status", api.handleServerStatus)

	protected.HandleFunc("POST /servers/{id}/start", api.handleStartServer)
	protected.HandleFunc("POST /servers/{id}/stop", api.handleStopServer)
	protected.HandleFunc("POST /servers/{id}/restart", api.handleRestartServer)
	protected.HandleFunc("POST /servers/{id}/update", api.handleUpdateServer)
	protected.HandleFunc("POST /servers/{id}/backup", api.handleBackupServer)
	protected.HandleFunc("POST /servers/{id}/save", api.handleSaveServer)
	protected.HandleFunc("POST /servers/{id}/wipe", api.handleWipeServer)
	protected.HandleFunc("POST /servers/{id}/command", api.handleCommand)

	protected.HandleFunc("GET /servers/{id}/players", api.handleListPlayers)
	protected.HandleFunc("POST /servers/{id}/players/{steamId}/kick", api.handleKickPlayer)
	protected.HandleFunc("POST /servers/{id}/players/{steamId}/ban", api.handleBanPlayer)
	protected.HandleFunc("POST /servers/{id}/players/{steamId}/unban", api.handleUnbanPlayer)

	protected.HandleFunc("GET /servers/{id}/metrics", api.handleGameMetrics)
	protected.HandleFunc("GET /system/metrics", api.handleSystemMetrics)

	protected.HandleFunc("GET /servers/{id}/logs/{kind}", api.handleTailLog)

	protected.HandleFunc("GET /servers/{id}/files", api.handleListFiles)
	protected.HandleFunc("GET /servers/{id}/files/content", api.handleReadFile)
	protected.HandleFunc("PUT /servers/{id}/files/content", api.handleWriteFile)
	protected.HandleFunc("POST /servers/{id}/files/mkdir", api.handleMakeDir)
	protected.HandleFunc("DELETE /servers/{id}/files", api.handleDeleteFile)

	protected.HandleFunc("GET /servers/{id}/plugins", api.handleListPlugins)
	protected.HandleFunc("POST /servers/{id}/plugins", api.handleInstallPlugin)
	protected.HandleFunc("DELETE /servers/{id}/plugins/{name}", api.handleDeletePlugin)
	protected.HandleFunc("POST /servers/{id}/plugins/{name}/reload", api.handleReloadPlugin)

	protected.HandleFunc("GET /schedules", api.handleListSchedules)
	protected.HandleFunc("POST /schedules", api.handleCreateSchedule)
	protected.HandleFunc("PUT /schedules/{id}", api.handleUpdateSchedule)
	protected.HandleFunc("DELETE /schedules/{id}", api.handleDeleteSchedule)
	protected.HandleFunc("POST /schedules/{id}/toggle", api.handleToggleSchedule)

	protected.HandleFunc("GET /ws/servers/{id}/console", api.handleConsole)
	protected.HandleFunc("GET /ws/monitor", api.handleMonitorSocket)

	mux.Handle("/", api.AuthMiddleware(protected, "", api.JWTSecret))

	return mux
}

func (api *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

// writeError maps the error taxonomy onto HTTP statuses: unknown ids are
// 404, rejected operations 400, unreachable game servers 502, and RCON
// command timeouts 504.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, rcon.ErrConnection):
		status = http.StatusBadGateway
	case errors.Is(err, rcon.ErrTimeout):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
