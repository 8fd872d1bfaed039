package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, hub *Hub, exec func(string) (string, error)) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, exec)
	}))
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWithDeadline(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	return string(message)
}

func TestBroadcastReachesViewer(t *testing.T) {
	hub := NewHub(16)
	go hub.Run()
	defer hub.Stop()

	conn := dialTestHub(t, hub, nil)

	// Registration races the broadcast; give the hub a beat.
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast([]byte("server output line"))

	if got := readWithDeadline(t, conn); got != "server output line" {
		t.Errorf("Expected broadcast, got %q", got)
	}
}

func TestCommandReplyGoesToSender(t *testing.T) {
	hub := NewHub(16)
	go hub.Run()
	defer hub.Stop()

	exec := func(cmd string) (string, error) {
		return "result:" + cmd, nil
	}

	sender := dialTestHub(t, hub, exec)
	watcher := dialTestHub(t, hub, exec)
	time.Sleep(50 * time.Millisecond)

	if err := sender.WriteMessage(websocket.TextMessage, []byte("status")); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}

	if got := readWithDeadline(t, sender); got != "result:status" {
		t.Errorf("Sender expected reply, got %q", got)
	}

	// The watcher must not receive the private reply.
	watcher.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, msg, err := watcher.ReadMessage(); err == nil {
		t.Errorf("Watcher received private reply %q", msg)
	}
}

func TestHistoryReplayOnAttach(t *testing.T) {
	hub := NewHub(8)
	go hub.Run()
	defer hub.Stop()

	hub.Broadcast([]byte("line 1"))
	hub.Broadcast([]byte("line 2"))
	time.Sleep(50 * time.Millisecond)

	conn := dialTestHub(t, hub, nil)

	if got := readWithDeadline(t, conn); got != "line 1" {
		t.Errorf("Expected first history line, got %q", got)
	}
	if got := readWithDeadline(t, conn); got != "line 2" {
		t.Errorf("Expected second history line, got %q", got)
	}
}

func TestHistoryIsBounded(t *testing.T) {
	hub := NewHub(2)
	go hub.Run()
	defer hub.Stop()

	hub.Broadcast([]byte("old"))
	hub.Broadcast([]byte("mid"))
	hub.Broadcast([]byte("new"))
	time.Sleep(50 * time.Millisecond)

	conn := dialTestHub(t, hub, nil)

	if got := readWithDeadline(t, conn); got != "mid" {
		t.Errorf("Expected oldest line evicted, got %q", got)
	}
	if got := readWithDeadline(t, conn); got != "new" {
		t.Errorf("Expected newest line last, got %q", got)
	}
}

func TestBroadcastAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(4)
	go hub.Run()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.Broadcast([]byte("dropped"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Broadcast blocked after Stop")
	}
}
