package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"rustpanel/internal/api"
	"rustpanel/internal/app"
	"rustpanel/internal/config"
	"rustpanel/internal/domain"
	"rustpanel/internal/gsm"
	"rustpanel/internal/monitor"
	"rustpanel/internal/persist"
	"rustpanel/internal/provision"
	"rustpanel/internal/registry"
	"rustpanel/internal/sched"
	"rustpanel/internal/storage"
)

func main() {
	fmt.Println("Starting Rust panel daemon...")

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("Error getting user config directory: %v", err)
	}
	configDir := filepath.Join(userConfigDir, "rustpanel")

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	fmt.Printf("Using database: %s\n", cfg.DatabasePath)
	fmt.Printf("Using servers directory: %s\n", cfg.ServersPath)

	if err := os.MkdirAll(cfg.ServersPath, 0755); err != nil {
		log.Fatalf("Fatal: Could not create directory '%s': %v", cfg.ServersPath, err)
	}

	store, err := storage.NewGormStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Fatal: Could not connect to DB: %v", err)
	}

	secret := config.LoadOrGenerateSecret(configDir)

	persistStore := persist.NewStore(configDir)

	// Static instances from config.json first, then the provisioned ones
	// that survived a restart.
	defs := cfg.StaticDefinitions()
	defs = append(defs, persistStore.LoadInstances()...)
	reg := registry.New(defs)

	pollInterval := time.Duration(cfg.Monitor.PollIntervalSecs) * time.Second
	historySize := cfg.Monitor.HistorySize

	for _, def := range defs {
		if def.Status == domain.StatusReady {
			rt := registry.NewRuntime(def, cfg.RconHost, historySize, pollInterval)
			reg.RegisterRuntime(def.ID, rt)
		}
	}

	controller := gsm.NewController(gsm.ExecRunner{})

	pipeline := &provision.Pipeline{
		Registry:     reg,
		Store:        persistStore,
		Runner:       gsm.ExecRunner{},
		Fetcher:      provision.NewHTTPFetcher(),
		RconHost:     cfg.RconHost,
		HistorySize:  historySize,
		PollInterval: pollInterval,
	}

	scheduler := sched.New(reg, controller, persistStore)
	sysMon := monitor.NewSystemMonitor(historySize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sysMon.Run(ctx, pollInterval)
	go scheduler.Run(ctx)

	container := &app.Container{
		Config:        cfg,
		Store:         store,
		Persist:       persistStore,
		Registry:      reg,
		GSM:           controller,
		Pipeline:      pipeline,
		Scheduler:     scheduler,
		SystemMonitor: sysMon,
		JWTSecret:     secret,
	}

	apiServer := api.NewAPIServer(container)

	listenAddr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	if err := apiServer.Start(listenAddr); err != nil {
		log.Fatalf("API Error: %v", err)
	}
}
