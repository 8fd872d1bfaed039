package domain

import "time"

// Action is a scheduled maintenance action. The catalogue is closed; the
// scheduler matches it exhaustively.
type Action string

const (
	ActionRestart     Action = "restart"
	ActionUpdate      Action = "update"
	ActionBackup      Action = "backup"
	ActionWipeMap     Action = "wipe_map"
	ActionWipeFull    Action = "wipe_full"
	ActionRconCommand Action = "rcon_command"
	ActionAnnounce    Action = "announce"
)

// ValidAction reports whether a is part of the catalogue.
func ValidAction(a Action) bool {
	switch a {
	case ActionRestart, ActionUpdate, ActionBackup, ActionWipeMap,
		ActionWipeFull, ActionRconCommand, ActionAnnounce:
		return true
	}
	return false
}

// Job is a recurring maintenance task against one instance.
// Schedule is "HH:MM" for daily (UTC) or "<Weekday> HH:MM" for weekly.
// Payload carries the command for rcon_command and the message for announce.
type Job struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	InstanceID string     `json:"instanceId"`
	Action     Action     `json:"action"`
	Enabled    bool       `json:"enabled"`
	Schedule   string     `json:"schedule"`
	Payload    string     `json:"payload,omitempty"`
	LastRun    *time.Time `json:"last_run,omitempty"`
	NextRun    *time.Time `json:"next_run,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
