package monitor

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"rustpanel/internal/rcon"
)

// SystemSnapshot is one sample of host-level metrics.
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

// GameSnapshot is one sample of a single game server's state, polled over
// RCON. Online is false when the poll failed; all other fields are then zero.
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

// SystemMonitor holds the host metric history.
type SystemMonitor struct {
	History *Ring[SystemSnapshot]
}

func NewSystemMonitor(historySize int) *SystemMonitor {
	return &SystemMonitor{History: NewRing[SystemSnapshot](historySize)}
}

// Run polls host metrics at the given interval until ctx is cancelled.
func (m *SystemMonitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.History.Push(collectSystem())
		}
	}
}

func collectSystem() SystemSnapshot {
	snap := SystemSnapshot{Timestamp: time.Now().UTC()}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotal = vm.Total
		snap.MemUsed = vm.Used
		snap.MemPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		snap.DiskTotal = du.Total
		snap.DiskUsed = du.Used
		snap.DiskPercent = du.UsedPercent
	}
	return snap
}

// GameMonitor holds one instance's metric history.
type GameMonitor struct {
	History *Ring[GameSnapshot]
}

func NewGameMonitor(historySize int) *GameMonitor {
	return &GameMonitor{History: NewRing[GameSnapshot](historySize)}
}

// Run polls the instance over RCON at the given interval until ctx is
// cancelled. Poll failures degrade to an offline snapshot; they never stop
// the loop, and the client reconnects on the next poll.
func (m *GameMonitor) Run(ctx context.Context, client *rcon.Client, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.History.Push(pollGame(ctx, client))
		}
	}
}

func pollGame(ctx context.Context, client *rcon.Client) GameSnapshot {
	info, err := client.ServerInfo(ctx)
	if err != nil {
		return GameSnapshot{Timestamp: time.Now().UTC(), Online: false}
	}
	return GameSnapshot{
		Timestamp:  time.Now().UTC(),
		Online:     true,
		Players:    info.Players,
		MaxPlayers: info.MaxPlayers,
		Queued:     info.Queued,
		FPS:        info.Framerate,
		Entities:   info.EntityCount,
		Uptime:     info.Uptime,
		MapName:    info.Map,
		Hostname:   info.Hostname,
	}
}
