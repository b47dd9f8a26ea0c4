package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestSession creates a session without a connection; only the queue is used.
func newTestSession(queueSize int) *wsSession {
	return newSession(nil, queueSize)
}

func dialHub(t *testing.T, hub *WebSocketHub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(Logging(http.HandlerFunc(hub.ServeWS)))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func waitForSessions(t *testing.T, hub *WebSocketHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.SessionCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d sessions, got %d", want, hub.SessionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketHub_AttachDetach(t *testing.T) {
	hub := NewWebSocketHub()
	s := newTestSession(10)

	hub.attach(s)
	if hub.SessionCount() != 1 {
		t.Errorf("Expected 1 session, got %d", hub.SessionCount())
	}

	hub.detach(s)
	hub.detach(s) // Idempotent
	if hub.SessionCount() != 0 {
		t.Errorf("Expected 0 sessions, got %d", hub.SessionCount())
	}

	select {
	case <-s.closed:
	default:
		t.Error("Expected detached session to be closed")
	}
}

func TestWebSocketSession_EnqueueAfterClose(t *testing.T) {
	s := newTestSession(10)
	s.close()
	s.close()

	if s.enqueue([]byte(`{}`)) {
		t.Error("Closed session must not accept messages")
	}
	if len(s.queue) != 0 {
		t.Errorf("Expected empty queue, got %d", len(s.queue))
	}
}

func TestWebSocketHub_DropsSlowSession(t *testing.T) {
	hub := NewWebSocketHub()
	slow, fast := newTestSession(1), newTestSession(10)
	hub.attach(slow)
	hub.attach(fast)

	slow.queue <- []byte("first")
	hub.Broadcast(MessageColorChange, ColorChange{Type: ChangeModified, ColorID: "a"})

	if hub.SessionCount() != 1 {
		t.Errorf("Expected slow session to be dropped, got %d sessions", hub.SessionCount())
	}
	if len(fast.queue) != 1 {
		t.Errorf("Fast session should still receive, queue has %d", len(fast.queue))
	}
}

func TestWebSocketHub_OnColorChange(t *testing.T) {
	hub := NewWebSocketHub()
	a, b := newTestSession(10), newTestSession(10)
	hub.attach(a)
	hub.attach(b)

	hub.OnColorChange(ColorChange{Type: ChangeCreated, ColorID: "abc", Path: "colors/abc.json"})

	for i, s := range []*wsSession{a, b} {
		select {
		case msg := <-s.queue:
			var received struct {
				Type string      `json:"type"`
				Data ColorChange `json:"data"`
			}
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("Failed to unmarshal message: %v", err)
			}
			if received.Type != MessageColorChange {
				t.Errorf("session %d: Type = %q, want %q", i, received.Type, MessageColorChange)
			}
			if received.Data.ColorID != "abc" || received.Data.Type != ChangeCreated {
				t.Errorf("session %d: unexpected data %+v", i, received.Data)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("session %d did not receive message", i)
		}
	}
}

func TestWebSocketHub_ServeWS(t *testing.T) {
	hub := NewWebSocketHub()
	conn := dialHub(t, hub)
	defer conn.Close()

	var welcome WebSocketMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("Failed to read welcome: %v", err)
	}
	if welcome.Type != MessageConnected {
		t.Errorf("Type = %q, want %q", welcome.Type, MessageConnected)
	}

	hub.OnColorChange(ColorChange{Type: ChangeDeleted, ColorID: "xyz"})

	var msg WebSocketMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read change: %v", err)
	}
	if msg.Type != MessageColorChange {
		t.Errorf("Type = %q, want %q", msg.Type, MessageColorChange)
	}
}

func TestWebSocketHub_BrowserDisconnectDetaches(t *testing.T) {
	hub := NewWebSocketHub()
	conn := dialHub(t, hub)

	var welcome WebSocketMessage
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("Failed to read welcome: %v", err)
	}
	waitForSessions(t, hub, 1)

	conn.Close()
	waitForSessions(t, hub, 0)
}
