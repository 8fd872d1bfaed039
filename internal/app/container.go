// Package app wires the long-lived components together for the API server
// and the entrypoint.
package app

import (
	"rustpanel/internal/config"
	"rustpanel/internal/gsm"
	"rustpanel/internal/monitor"
	"rustpanel/internal/persist"
	"rustpanel/internal/provision"
	"rustpanel/internal/registry"
	"rustpanel/internal/sched"
	"rustpanel/internal/storage"
)

type Container struct {
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
