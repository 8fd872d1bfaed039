package rcon

import (
	"context"
	"encoding/json"
	"fmt"
)

// ServerInfo is the decoded result of the "serverinfo" command.
type ServerInfo struct {
	Hostname    string  `json:"Hostname"`
	Players     int     `json:"Players"`
	MaxPlayers  int     `json:"MaxPlayers"`
	Queued      int     `json:"Queued"`
	Joining     int     `json:"Joining"`
	EntityCount int64   `json:"EntityCount"`
	Framerate   float64 `json:"Framerate"`
	Uptime      int64   `json:"Uptime"`
	Map         string  `json:"Map"`
	GameTime    string  `json:"GameTime"`
	Seed        int     `json:"Seed"`
	WorldSize   int     `json:"WorldSize"`
}

// Player is one entry from the "playerlist" command.
type Player struct {
	SteamID          string  `json:"SteamID"`
	DisplayName      string  `json:"DisplayName"`
	Address          string  `json:"Address"`
	Ping             int     `json:"Ping"`
	ConnectedSeconds float64 `json:"ConnectedSeconds"`
	Health           float64 `json:"Health"`
	ViolationLevel   float64 `json:"VoiationLevel"`
}

// ServerInfo runs "serverinfo" and decodes the JSON payload. A response that
// arrives but does not decode fails with ErrParse, never ErrConnection.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	raw, err := c.Execute(ctx, "serverinfo")
	if err != nil {
		return nil, err
	}
	var info ServerInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("serverinfo: %w: %v", ErrParse, err)
	}
	return &info, nil
}

// PlayerList runs "playerlist" and decodes the JSON array.
func (c *Client) PlayerList(ctx context.Context) ([]Player, error) {
	raw, err := c.Execute(ctx, "playerlist")
	if err != nil {
		return nil, err
	}
	var players []Player
	if err := json.Unmarshal([]byte(raw), &players); err != nil {
		return nil, fmt.Errorf("playerlist: %w: %v", ErrParse, err)
	}
	return players, nil
}

// Kick removes a player by Steam ID or name.
func (c *Client) Kick(ctx context.Context, target, reason string) (string, error) {
	return c.Execute(ctx, fmt.Sprintf("kick %s %q", target, reason))
}

// Ban bans a player by Steam ID or name.
func (c *Client) Ban(ctx context.Context, target, reason string) (string, error) {
	return c.Execute(ctx, fmt.Sprintf("ban %s %q", target, reason))
}

// Unban lifts a ban by Steam ID.
func (c *Client) Unban(ctx context.Context, steamID string) (string, error) {
	return c.Execute(ctx, fmt.Sprintf("unban %s", steamID))
}

// Say broadcasts a chat message to all players.
func (c *Client) Say(ctx context.Context, message string) (string, error) {
	return c.Execute(ctx, fmt.Sprintf("say %q", message))
}

// Save triggers a world save.
func (c *Client) Save(ctx context.Context) (string, error) {
	return c.Execute(ctx, "server.save")
}

// OxideLoad loads an Oxide plugin by name.
func (c *Client) OxideLoad(ctx context.Context, plugin string) (string, error) {
	return c.Execute(ctx, fmt.Sprintf("oxide.load %s", plugin))
}

// OxideUnload unloads an Oxide plugin by name.
func (c *Client) OxideUnload(ctx context.Context, plugin string) (string, error) {
	return c.Execute(ctx, fmt.Sprintf("oxide.unload %s", plugin))
}

// OxideReload reloads an Oxide plugin by name.
func (c *Client) OxideReload(ctx context.Context, plugin string) (string, error) {
	return c.Execute(ctx, fmt.Sprintf("oxide.reload %s", plugin))
}
