package sdk

import "fmt"

func (c *Client) Login(username, password string) (string, error) {
	var resp LoginResponse
	err := c.post("/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) ListServers() ([]Server, error) {
	var servers []Server
	err := c.get("/servers", &servers)
	return servers, err
}

func (c *Client) GetServer(id string) (*Server, error) {
	var server Server
	err := c.get("/servers/"+id, &server)
	return &server, err
}

func (c *Client) GetServerStatus(id string) (*ServerStatus, error) {
	var status ServerStatus
	err := c.get(fmt.Sprintf("/servers/%s/status", id), &status)
	return &status, err
}

func (c *Client) CreateServer(req CreateServerRequest) (*Server, error) {
	var server Server
	err := c.post("/servers", req, &server)
	return &server, err
}

func (c *Client) DeleteServer(id string) error {
	return c.delete(fmt.Sprintf("/servers/%s", id))
}

func (c *Client) serverAction(id, action string) (*CommandResult, error) {
	var result CommandResult
	err := c.post(fmt.Sprintf("/servers/%s/%s", id, action), nil, &result)
	return &result, err
}

func (c *Client) StartServer(id string) (*CommandResult, error) {
	return c.serverAction(id, "start")
}

func (c *Client) StopServer(id string) (*CommandResult, error) {
	return c.serverAction(id, "stop")
}

func (c *Client) RestartServer(id string) (*CommandResult, error) {
	return c.serverAction(id, "restart")
}

func (c *Client) UpdateServer(id string) (*CommandResult, error) {
	return c.serverAction(id, "update")
}

func (c *Client) BackupServer(id string) (*CommandResult, error) {
	return c.serverAction(id, "backup")
}

func (c *Client) SaveServer(id string) (*CommandResult, error) {
	return c.serverAction(id, "save")
}

func (c *Client) WipeServer(id string, full bool, seed string) (*CommandResult, error) {
	var result CommandResult
	err := c.post(fmt.Sprintf("/servers/%s/wipe", id), map[string]interface{}{
		"full": full,
		"seed": seed,
	}, &result)
	return &result, err
}

func (c *Client) RunCommand(id, command string) (string, error) {
	var resp struct {
		Output string `json:"output"`
	}
	err := c.post(fmt.Sprintf("/servers/%s/command", id), map[string]string{
		"command": command,
	}, &resp)
	return resp.Output, err
}

func (c *Client) ListPlayers(id string) ([]Player, error) {
	var players []Player
	err := c.get(fmt.Sprintf("/servers/%s/players", id), &players)
	return players, err
}

func (c *Client) KickPlayer(id, steamID, reason string) error {
	return c.post(fmt.Sprintf("/servers/%s/players/%s/kick", id, steamID),
		map[string]string{"reason": reason}, nil)
}

func (c *Client) BanPlayer(id, steamID, reason string) error {
	return c.post(fmt.Sprintf("/servers/%s/players/%s/ban", id, steamID),
		map[string]string{"reason": reason}, nil)
}

func (c *Client) UnbanPlayer(id, steamID string) error {
	return c.post(fmt.Sprintf("/servers/%s/players/%s/unban", id, steamID), nil, nil)
}

func (c *Client) SystemMetrics(limit int) ([]SystemSnapshot, error) {
	path := "/system/metrics"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var snaps []SystemSnapshot
	err := c.get(path, &snaps)
	return snaps, err
}

func (c *Client) GameMetrics(id string, limit int) ([]GameSnapshot, error) {
	path := fmt.Sprintf("/servers/%s/metrics", id)
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var snaps []GameSnapshot
	err := c.get(path, &snaps)
	return snaps, err
}
