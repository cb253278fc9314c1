package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yacobolo/themesync"
)

// Event is a message pushed to /events subscribers
type Event struct {
	Type  string                `json:"type"` // "connected" or "change"
	Theme string                `json:"theme,omitempty"`
	Files []themesync.FileEvent `json:"files,omitempty"`
	At    time.Time             `json:"at"`
}

// connWithMutex serializes writes to one websocket connection
type connWithMutex struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub tracks websocket subscribers and broadcasts events to them
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]*connWithMutex
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{connections: make(map[*websocket.Conn]*connWithMutex)}
}

// Add registers a connection
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn] = &connWithMutex{conn: conn}
}

// Remove forgets a connection
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, conn)
}

// Len returns the number of subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Broadcast sends ev to every subscriber, dropping connections that fail
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	conns := make([]*connWithMutex, 0, len(h.connections))
	for _, cwm := range h.connections {
		conns = append(conns, cwm)
	}
	h.mu.RUnlock()

	for _, cwm := range conns {
		cwm.mu.Lock()
		err := cwm.conn.WriteJSON(ev)
		cwm.mu.Unlock()

		if err != nil {
			h.Remove(cwm.conn)
			_ = cwm.conn.Close()
		}
	}
}

// send writes ev to a single registered connection
func (h *Hub) send(conn *websocket.Conn, ev Event) error {
	h.mu.RLock()
	cwm, ok := h.connections[conn]
	h.mu.RUnlock()
	if !ok {
		return conn.WriteJSON(ev)
	}

	cwm.mu.Lock()
	defer cwm.mu.Unlock()
	return cwm.conn.WriteJSON(ev)
}

// handleEvents upgrades to a websocket and keeps the subscriber until the
// client goes away. Client messages are ignored.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}
	s.hub.Add(conn)
	defer func() {
		s.hub.Remove(conn)
		_ = conn.Close()
	}()

	hello := Event{Type: "connected", At: time.Now()}
	if current, err := s.engine.CurrentTheme(); err == nil {
		hello.Theme = current.ID
	}
	if err := s.hub.send(conn, hello); err != nil {
		return
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
