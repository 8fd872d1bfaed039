package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans console traffic out to every attached viewer of one instance.
// Unsolicited RCON frames (chat, console output) are broadcast to all
// viewers; command responses go only to the session that issued them. A
// bounded history is replayed to newly attached viewers.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}

	history    [][]byte
	maxHistory int
}

func NewHub(maxHistory int) *Hub {
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		maxHistory: maxHistory,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			for _, msg := range h.history {
				select {
				case client.send <- msg:
				default:
				}
			}

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			if h.maxHistory > 0 {
				h.history = append(h.history, message)
				if len(h.history) > h.maxHistory {
					h.history = h.history[1:]
				}
			}
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-h.stop:
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.history = nil
			return
		}
	}
}

// Broadcast queues a message for every attached viewer. Safe to call after
// Stop; the message is then discarded.
func (h *Hub) Broadcast(message []byte) {
	msg := append([]byte(nil), message...)
	select {
	case h.broadcast <- msg:
	case <-h.stop:
	}
}

// Stop detaches all viewers and ends the hub loop.
func (h *Hub) Stop() {
	close(h.stop)
}

// ServeWS upgrades the request and attaches a viewer. Text messages from the
// viewer are passed to exec (an RCON round trip); the result is delivered to
// that viewer only.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, exec func(string) (string, error)) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("console upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
		exec: exec,
	}

	select {
	case h.register <- client:
	case <-h.stop:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
