package domain

import (
	"path/filepath"
	"time"
)

// InstanceType distinguishes a plain dedicated server from one running the
// Oxide mod framework.
type InstanceType string

const (
	TypeVanilla InstanceType = "vanilla"
	TypeModded  InstanceType = "modded"
)

// Origin records whether an instance came from config.json or was created
// through the provisioning API.
type Origin string

const (
	OriginStatic  Origin = "static"
	OriginDynamic Origin = "dynamic"
)

// Status is the provisioning lifecycle state of an instance. Only Ready
// instances have a runtime attached.
type Status string

const (
	StatusInstalling     Status = "installing"
	StatusDownloading    Status = "downloading"
	StatusInstallingMods Status = "installing_mods"
	StatusConfiguring    Status = "configuring"
	StatusReady          Status = "ready"
	StatusError          Status = "error"
)

// Instance is the definition of one managed game server. The registry owns
// these; everything handed out to callers is a copy.
type Instance struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         InstanceType `json:"type"`
	Origin       Origin       `json:"origin"`
	Status       Status       `json:"status"`
	StatusLog    []string     `json:"statusLog"`
	GamePort     int          `json:"gamePort"`
	RconPort     int          `json:"rconPort"`
	QueryPort    int          `json:"queryPort"`
	MaxPlayers   int          `json:"maxPlayers"`
	WorldSize    int          `json:"worldSize"`
	Seed         int          `json:"seed"`
	Hostname     string       `json:"hostname"`
	RconPassword string       `json:"-"`
	BasePath     string       `json:"basePath"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Dir is the root of the instance's LinuxGSM installation.
func (i *Instance) Dir() string {
	return filepath.Join(i.BasePath, "rustserver-"+i.ID)
}

// ScriptPath is the LinuxGSM control script for this instance.
func (i *Instance) ScriptPath() string {
	return filepath.Join(i.Dir(), "rustserver")
}

// ServerFilesDir holds the installed game files.
func (i *Instance) ServerFilesDir() string {
	return filepath.Join(i.Dir(), "serverfiles")
}

// WorldDir holds the save, map and database files that wipes operate on.
func (i *Instance) WorldDir() string {
	return filepath.Join(i.ServerFilesDir(), "server", "rustserver")
}

// ConfigPath is the server.cfg rendered during provisioning.
func (i *Instance) ConfigPath() string {
	return filepath.Join(i.WorldDir(), "cfg", "server.cfg")
}

// PluginsDir holds Oxide plugin sources.
func (i *Instance) PluginsDir() string {
	return filepath.Join(i.ServerFilesDir(), "oxide", "plugins")
}

// PluginConfigDir holds per-plugin JSON configs.
func (i *Instance) PluginConfigDir() string {
	return filepath.Join(i.ServerFilesDir(), "oxide", "config")
}

// ConsoleLogPath is the LinuxGSM console log.
func (i *Instance) ConsoleLogPath() string {
	return filepath.Join(i.Dir(), "log", "console", "rustserver-console.log")
}

// ScriptLogPath is the LinuxGSM script log.
func (i *Instance) ScriptLogPath() string {
	return filepath.Join(i.Dir(), "log", "script", "rustserver-script.log")
}

// User is a panel account. Passwords are bcrypt hashes and never serialized.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`
}
