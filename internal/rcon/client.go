package rcon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var (
	// ErrConnection is a transport or handshake failure; the next Execute
	// will attempt a fresh connection.
	ErrConnection = errors.New("rcon: connection error")

	// ErrTimeout means the command was sent but no matching response arrived
	// within the command timeout. The connection itself stays up.
	ErrTimeout = errors.New("rcon: command timed out")

	// ErrParse means the server answered but the payload could not be decoded
	// as the expected structure. Kept distinct from ErrConnection because it
	// signals protocol drift, not downtime.
	ErrParse = errors.New("rcon: unparseable response")
)

const (
	commandTimeout   = 10 * time.Second
	handshakeTimeout = 5 * time.Second
	clientName       = "WebRcon"
)

// Frame is an inbound RCON message from the game server.
type Frame struct {
	Identifier int32  `json:"Identifier"`
	Message    string `json:"Message"`
	Type       string `json:"Type"`
}

type request struct {
	Identifier int32  `json:"Identifier"`
	Message    string `json:"Message"`
	Name       string `json:"Name"`
}

type result struct {
	message string
	err     error
}

// Client is a WebSocket RCON client for one game server. The server speaks
// JSON frames over ws://host:port/<password>; responses are correlated to
// requests by identifier, so any number of Execute calls may be in flight
// at once. A lost connection is re-established lazily by the next Execute.
type Client struct {
	addr     string
	password string

	nextID atomic.Int32

	// dialMu serializes Connect and Close end to end. Two lazy reconnects
	// racing each other would otherwise both dial, and the losing
	// connection would be dropped without being closed.
	dialMu sync.Mutex

	// mu guards conn and pending together: reconnection must never race a
	// write against a half-torn-down connection.
	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[int32]chan result

	// stray, when set, receives inbound frames that match no pending request
	// (chat lines, console output). Unset, such frames are dropped.
	stray func(Frame)
}

// NewClient builds a client for the RCON endpoint at addr ("host:port").
// No connection is made until Connect or the first Execute.
func NewClient(addr, password string) *Client {
	return &Client{
		addr:     addr,
		password: password,
		pending:  make(map[int32]chan result),
	}
}

// SetStrayHandler routes unmatched inbound frames to fn instead of dropping
// them. Must be called before the first Connect.
func (c *Client) SetStrayHandler(fn func(Frame)) {
	c.mu.Lock()
	c.stray = fn
	c.mu.Unlock()
}

// Connected reports whether the client currently holds a live connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect tears down any existing connection, fails every pending request
// with ErrConnection, and dials a fresh WebSocket. A background reader is
// started that routes responses to their pending requests. Concurrent
// Connect calls run one at a time; at most one connection is ever live.
func (c *Client) Connect() error {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.failPendingLocked()
	c.mu.Unlock()

	// The password rides in the URL; never log the full target.
	url := fmt.Sprintf("ws://%s/%s", c.addr, c.password)

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("dial ws://%s: %w", c.addr, ErrConnection)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// Close shuts the connection down and fails all pending requests. Used when
// an instance is deleted.
func (c *Client) Close() {
	c.dialMu.Lock()
	defer c.dialMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.failPendingLocked()
}

// failPendingLocked completes every outstanding request with ErrConnection.
// Callers must hold mu.
func (c *Client) failPendingLocked() {
	for id, ch := range c.pending {
		ch <- result{err: ErrConnection}
		delete(c.pending, id)
	}
}

// readLoop parses inbound frames and completes the matching pending request.
// It is the sole resolver of completions. It exits when the connection it
// was started for dies; a later reconnect starts a new loop.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[frame.Identifier]
		if ok {
			delete(c.pending, frame.Identifier)
		}
		stray := c.stray
		c.mu.Unlock()

		if ok {
			ch <- result{message: frame.Message}
		} else if stray != nil {
			stray(frame)
		}
	}

	// Only clean up if our connection is still the current one; a Connect
	// racing this exit has already replaced it and failed the old pending set.
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.failPendingLocked()
	}
	c.mu.Unlock()
}

// Execute sends a command and waits up to the command timeout for the
// correlated response. If the client is not connected it connects first and
// propagates any failure as ErrConnection.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	if !c.Connected() {
		if err := c.Connect(); err != nil {
			return "", err
		}
	}

	id := c.nextID.Add(1)
	ch := make(chan result, 1)

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return "", fmt.Errorf("send %q: %w", command, ErrConnection)
	}
	c.pending[id] = ch
	err := c.conn.WriteJSON(request{Identifier: id, Message: command, Name: clientName})
	if err != nil {
		delete(c.pending, id)
		c.conn.Close()
		c.conn = nil
		c.mu.Unlock()
		return "", fmt.Errorf("send %q: %w", command, ErrConnection)
	}
	c.mu.Unlock()

	select {
	case r := <-ch:
		return r.message, r.err
	case <-time.After(commandTimeout):
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return "", fmt.Errorf("command %q: %w", command, ErrTimeout)
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return "", ctx.Err()
	}
}
