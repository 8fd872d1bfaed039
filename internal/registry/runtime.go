package registry

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"rustpanel/internal/domain"
	"rustpanel/internal/monitor"
	"rustpanel/internal/rcon"
	"rustpanel/internal/ws"
)

// Runtime holds the live handles of a Ready instance: an RCON client, the
// metric history, the exclusive-operation lock, and the console hub. The
// metric collector runs until Shutdown.
type Runtime struct {
	Rcon    *rcon.Client
	Monitor *monitor.GameMonitor
	OpLock  *sync.Mutex
	Hub     *ws.Hub

	cancel context.CancelFunc
}

// NewRuntime builds a runtime for an instance and starts its background
// tasks: the console hub loop and the periodic game collector. The RCON
// client is not connected here; it connects lazily on first use.
func NewRuntime(def domain.Instance, rconHost string, historySize int, pollInterval time.Duration) *Runtime {
	client := rcon.NewClient(rconAddr(rconHost, def.RconPort), def.RconPassword)
	hub := ws.NewHub(historySize)

	// Chat lines and other server-initiated frames go to the console
	// viewers instead of being dropped.
	client.SetStrayHandler(func(f rcon.Frame) {
		hub.Broadcast([]byte(f.Message))
	})

	mon := monitor.NewGameMonitor(historySize)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run()
	go mon.Run(ctx, client, pollInterval)

	return &Runtime{
		Rcon:    client,
		Monitor: mon,
		OpLock:  &sync.Mutex{},
		Hub:     hub,
		cancel:  cancel,
	}
}

// Shutdown cancels the collector, stops the console hub and closes the RCON
// connection.
func (rt *Runtime) Shutdown() {
	if rt.cancel != nil {
		rt.cancel()
	}
	if rt.Hub != nil {
		rt.Hub.Stop()
	}
	if rt.Rcon != nil {
		rt.Rcon.Close()
	}
}

func rconAddr(host string, port int) string {
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
