package sdk

import "time"

type Server struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Origin     string    `json:"origin"`
	Status     string    `json:"status"`
	StatusLog  []string  `json:"statusLog"`
	GamePort   int       `json:"gamePort"`
	RconPort   int       `json:"rconPort"`
	QueryPort  int       `json:"queryPort"`
	MaxPlayers int       `json:"maxPlayers"`
	WorldSize  int       `json:"worldSize"`
	Seed       int       `json:"seed"`
	Hostname   string    `json:"hostname"`
	Online     bool      `json:"online"`
	Players    int       `json:"players"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateServerRequest struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Hostname   string `json:"hostname,omitempty"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
	WorldSize  int    `json:"worldSize,omitempty"`
	Seed       int    `json:"seed,omitempty"`
}

type ServerStatus struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	StatusLog []string `json:"statusLog"`
}

type CommandResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Output  string `json:"output"`
}

type Player struct {
	SteamID          string  `json:"SteamID"`
	DisplayName      string  `json:"DisplayName"`
	Address          string  `json:"Address"`
	Ping             int     `json:"Ping"`
	ConnectedSeconds float64 `json:"ConnectedSeconds"`
	Health           float64 `json:"Health"`
	ViolationLevel   float64 `json:"VoiationLevel"`
}

type Schedule struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	InstanceID string     `json:"instanceId"`
	Action     string     `json:"action"`
	Enabled    bool       `json:"enabled"`
	Schedule   string     `json:"schedule"`
	Payload    string     `json:"payload"`
	LastRun    *time.Time `json:"lastRun"`
	NextRun    *time.Time `json:"nextRun"`
	CreatedAt  time.Time  `json:"created_at"`
}

type CreateScheduleRequest struct {
	Name       string `json:"name"`
	InstanceID string `json:"instanceId"`
	Action     string `json:"action"`
	Schedule   string `json:"schedule"`
	Payload    string `json:"payload,omitempty"`
}

type SystemSnapshot struct {
	Timestamp   time.Time `json:"timestamp"`
	CPUPercent  float64   `json:"cpuPercent"`
	MemTotal    uint64    `json:"memTotal"`
	MemUsed     uint64    `json:"memUsed"`
	MemPercent  float64   `json:"memPercent"`
	DiskTotal   uint64    `json:"diskTotal"`
	DiskUsed    uint64    `json:"diskUsed"`
	DiskPercent float64   `json:"diskPercent"`
}

type GameSnapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	Online     bool      `json:"online"`
	Players    int       `json:"players"`
	MaxPlayers int       `json:"maxPlayers"`
	Queued     int       `json:"queued"`
	FPS        float64   `json:"fps"`
	Entities   int64     `json:"entities"`
	Uptime     int64     `json:"uptime"`
	MapName    string    `json:"mapName"`
	Hostname   string    `json:"hostname"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
