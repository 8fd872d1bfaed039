package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"rustpanel/internal/monitor"
)

// handleConsole attaches a live console session to the instance's hub.
// Messages typed by the viewer are executed over RCON; unsolicited server
// output is broadcast to every attached viewer.
func (api *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	hub, err := api.Registry.Hub(id)
	if err != nil {
		writeError(w, err)
		return
	}
	client, err := api.Registry.Rcon(id)
	if err != nil {
		writeError(w, err)
		return
	}

	// The handler returns as soon as the session pumps are spawned, which
	// cancels the request context; commands typed later need their own.
	hub.ServeWS(w, r, func(command string) (string, error) {
		return client.Execute(context.Background(), command)
	})
}

var monitorUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const monitorPushInterval = 5 * time.Second

// MonitorPush is one frame on the live monitor socket.
type MonitorPush struct {
	System  *monitor.SystemSnapshot `json:"system,omitempty"`
	Servers []ServerMetrics         `json:"servers"`
}

type ServerMetrics struct {
	ID   string                `json:"id"`
	Game *monitor.GameSnapshot `json:"game,omitempty"`
}

// handleMonitorSocket streams the latest host and per-instance snapshots
// until the client disconnects.
func (api *Server) handleMonitorSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := monitorUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Drain control frames so pings and close messages get handled.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(monitorPushInterval)
	defer ticker.Stop()

	for {
		push := api.buildMonitorPush()
		if err := conn.WriteJSON(push); err != nil {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (api *Server) buildMonitorPush() MonitorPush {
	push := MonitorPush{Servers: []ServerMetrics{}}

	if snap, ok := api.SystemMonitor.History.Latest(); ok {
		push.System = &snap
	}

	for _, def := range api.Registry.Definitions() {
		metrics := ServerMetrics{ID: def.ID}
		if mon, err := api.Registry.Monitor(def.ID); err == nil {
			if snap, ok := mon.History.Latest(); ok {
				metrics.Game = &snap
			}
		}
		push.Servers = append(push.Servers, metrics)
	}
	return push
}
