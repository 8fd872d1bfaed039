package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"rustpanel/internal/domain"
)

const (
	defaultConfigName   = "config.json"
	defaultServersDir   = "servers"
	defaultDatabaseFile = "panel.db"
	defaultHost         = "0.0.0.0"
	defaultPort         = 8080

	defaultPollIntervalSecs = 5
	defaultHistorySize      = 720

	defaultPortRangeStart = 28015
	defaultPortRangeEnd   = 28915
	defaultPortOffset     = 10
	defaultMaxInstances   = 10
)

type MonitorConfig struct {
	PollIntervalSecs int `json:"poll_interval_secs"`
	HistorySize      int `json:"history_size"`
}

type ProvisioningConfig struct {
	PortRangeStart int `json:"port_range_start"`
	PortRangeEnd   int `json:"port_range_end"`
	PortOffset     int `json:"port_offset"`
	MaxInstances   int `json:"max_instances"`
}

// StaticInstance is a server the operator manages outside the panel.
// The panel attaches RCON and monitoring to it but never provisions,
// starts from scratch, or deletes it.
type StaticInstance struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	GamePort     int    `json:"game_port"`
	RconPort     int    `json:"rcon_port"`
	QueryPort    int    `json:"query_port"`
	RconPassword string `json:"rcon_password"`
	BasePath     string `json:"base_path"`
}

type Config struct {
	Host         string             `json:"host"`
	Port         int                `json:"port"`
	ServersPath  string             `json:"servers_path"`
	DatabasePath string             `json:"database_path"`
	RconHost     string             `json:"rcon_host"`
	Monitor      MonitorConfig      `json:"monitor"`
	Provisioning ProvisioningConfig `json:"provisioning"`
	Instances    []StaticInstance   `json:"instances"`
}

func LoadConfig(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, defaultConfigName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath, configDir)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg, configDir)

	return &cfg, nil
}

func applyDefaults(cfg *Config, configDir string) {
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.ServersPath == "" {
		cfg.ServersPath = filepath.Join(configDir, defaultServersDir)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(configDir, defaultDatabaseFile)
	}
	if cfg.RconHost == "" {
		cfg.RconHost = "127.0.0.1"
	}
	if cfg.Monitor.PollIntervalSecs == 0 {
		cfg.Monitor.PollIntervalSecs = defaultPollIntervalSecs
	}
	if cfg.Monitor.HistorySize == 0 {
		cfg.Monitor.HistorySize = defaultHistorySize
	}
	if cfg.Provisioning.PortRangeStart == 0 {
		cfg.Provisioning.PortRangeStart = defaultPortRangeStart
	}
	if cfg.Provisioning.PortRangeEnd == 0 {
		cfg.Provisioning.PortRangeEnd = defaultPortRangeEnd
	}
	if cfg.Provisioning.PortOffset == 0 {
		cfg.Provisioning.PortOffset = defaultPortOffset
	}
	if cfg.Provisioning.MaxInstances == 0 {
		cfg.Provisioning.MaxInstances = defaultMaxInstances
	}
}

func createDefaultConfig(configPath, configDir string) (*Config, error) {
	cfg := Config{}
	applyDefaults(&cfg, configDir)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// StaticDefinitions converts the configured static servers into full
// instance definitions.
func (c *Config) StaticDefinitions() []domain.Instance {
	defs := make([]domain.Instance, 0, len(c.Instances))
	for _, s := range c.Instances {
		t := domain.InstanceType(s.Type)
		if t != domain.TypeModded {
			t = domain.TypeVanilla
		}
		base := s.BasePath
		if base == "" {
			base = c.ServersPath
		}
		defs = append(defs, domain.Instance{
			ID:           s.ID,
			Name:         s.Name,
			Type:         t,
			Origin:       domain.OriginStatic,
			Status:       domain.StatusReady,
			GamePort:     s.GamePort,
			RconPort:     s.RconPort,
			QueryPort:    s.QueryPort,
			RconPassword: s.RconPassword,
			BasePath:     base,
		})
	}
	return defs
}
