package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingInterval  = 30 * time.Second
	maxInbound    = 512
	sendQueueSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message types sent to browsers.
const (
	MessageConnected   = "connected"
	MessageColorChange = "color_change"
)

// WebSocketMessage is the JSON envelope of every frame sent to browsers.
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WebSocketHub fans color change events out to connected browser sessions.
type WebSocketHub struct {
	mu       sync.Mutex
	sessions map[*wsSession]struct{}
}

// NewWebSocketHub creates a hub with no sessions.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{sessions: make(map[*wsSession]struct{})}
}

// wsSession is one browser connection. The queue is never closed; closed
// signals the writer to say goodbye and release the connection.
type wsSession struct {
	conn   *websocket.Conn
	queue  chan []byte
	closed chan struct{}
	once   sync.Once
}

func newSession(conn *websocket.Conn, queueSize int) *wsSession {
	return &wsSession{
		conn:   conn,
		queue:  make(chan []byte, queueSize),
		closed: make(chan struct{}),
	}
}

func (s *wsSession) close() {
	s.once.Do(func() { close(s.closed) })
}

// enqueue reports false when the session is closed or its queue is full.
func (s *wsSession) enqueue(data []byte) bool {
	select {
	case <-s.closed:
		return false
	default:
	}

	select {
	case s.queue <- data:
		return true
	default:
		return false
	}
}

// OnColorChange implements ColorChangeSubscriber.
func (h *WebSocketHub) OnColorChange(change ColorChange) {
	h.Broadcast(MessageColorChange, change)
}

// Broadcast queues a typed message for every session. Sessions that cannot
// keep up are detached.
func (h *WebSocketHub) Broadcast(msgType string, payload any) {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		log.Printf("Failed to marshal %s message: %v", msgType, err)
		return
	}

	for _, s := range h.snapshot() {
		if !s.enqueue(data) {
			log.Printf("Dropping websocket session that fell behind")
			h.detach(s)
		}
	}
}

func encodeMessage(msgType string, payload any) ([]byte, error) {
	return json.Marshal(WebSocketMessage{Type: msgType, Data: payload})
}

func (h *WebSocketHub) snapshot() []*wsSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*wsSession, 0, len(h.sessions))
	for s := range h.sessions {
		out = append(out, s)
	}
	return out
}

func (h *WebSocketHub) attach(s *wsSession) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	wsConnectionsActive.Inc()
}

// detach forgets the session and tells its writer to stop. Repeat calls are no-ops.
func (h *WebSocketHub) detach(s *wsSession) {
	h.mu.Lock()
	_, ok := h.sessions[s]
	delete(h.sessions, s)
	h.mu.Unlock()

	if ok {
		wsConnectionsActive.Dec()
		s.close()
	}
}

// SessionCount returns the number of attached sessions.
func (h *WebSocketHub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ServeWS upgrades the request and serves the session until the browser
// goes away. Reads happen on the handler goroutine; writes on their own.
func (h *WebSocketHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s := newSession(conn, sendQueueSize)
	if data, err := encodeMessage(MessageConnected, map[string]string{"message": "Live color updates enabled"}); err == nil {
		s.enqueue(data)
	}

	h.attach(s)
	go s.writeLoop()

	s.readLoop()
	h.detach(s)
}

// readLoop discards inbound frames; it exists to process pongs and notice
// the peer closing.
func (s *wsSession) readLoop() {
	s.conn.SetReadLimit(maxInbound)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}

// writeLoop owns all writes to the connection and closes it on exit, which
// also unblocks readLoop.
func (s *wsSession) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-s.closed:
			goodbye := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			s.conn.WriteControl(websocket.CloseMessage, goodbye, time.Now().Add(writeWait))
			return
		case data := <-s.queue:
			if err := s.write(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *wsSession) write(messageType int, data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}
