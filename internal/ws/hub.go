// Package ws owns the live notification channel: a registry of
// authenticated WebSocket connections keyed by user id, constructed
// once at server startup and passed by reference to whoever needs to
// push (never a module-level singleton).
package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

// conn wraps a socket with its liveness flag and a write lock
// (gorilla allows one concurrent writer per connection).
type conn struct {
	ws    *websocket.Conn
	mu    sync.Mutex
	alive bool
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}

// Hub maps user ids to their live connection. A user has at most one
// connection: a new bind replaces (and closes) the previous one.
// Connections that have not authenticated yet are held in anon so the
// ping sweep liveness-checks them too.
type Hub struct {
	mu    sync.Mutex
	conns map[uint64]*conn
	anon  map[*conn]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{conns: make(map[uint64]*conn), anon: make(map[*conn]struct{}), log: log}
}

// track registers a connection before it authenticates; bind moves it
// under its user id.
func (h *Hub) track(c *conn) {
	h.mu.Lock()
	h.anon[c] = struct{}{}
	h.mu.Unlock()
}

// drop removes a connection that never authenticated.
func (h *Hub) drop(c *conn) {
	h.mu.Lock()
	delete(h.anon, c)
	h.mu.Unlock()
}

func (h *Hub) bind(userID uint64, c *conn) {
	h.mu.Lock()
	delete(h.anon, c)
	prev := h.conns[userID]
	h.conns[userID] = c
	h.mu.Unlock()
	if prev != nil {
		_ = prev.ws.Close()
	}
}

// unbind removes the mapping only if it still points at c, so a
// reconnect racing a close never drops the fresh connection.
func (h *Hub) unbind(userID uint64, c *conn) {
	h.mu.Lock()
	if h.conns[userID] == c {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
}

// Send pushes v to the user's live connection if one exists. Returns
// false when the user is not connected or the write failed; delivery
// is best-effort either way.
func (h *Hub) Send(userID uint64, v any) bool {
	h.mu.Lock()
	c := h.conns[userID]
	h.mu.Unlock()
	if c == nil {
		return false
	}
	if err := c.writeJSON(v); err != nil {
		h.log.Warn("ws: push failed", zap.Uint64("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

// Connected reports whether the user currently holds a connection.
func (h *Hub) Connected(userID uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conns[userID] != nil
}

// RunPinger sweeps all connections on a fixed interval, terminating
// any that did not answer the previous ping. Stops when done closes.
func (h *Hub) RunPinger(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.sweep()
		}
	}
}

func (h *Hub) sweep() {
	// A user id of 0 marks a connection that has not authenticated.
	h.mu.Lock()
	conns := make(map[*conn]uint64, len(h.conns)+len(h.anon))
	for id, c := range h.conns {
		conns[c] = id
	}
	for c := range h.anon {
		conns[c] = 0
	}
	h.mu.Unlock()

	for c, id := range conns {
		c.mu.Lock()
		alive := c.alive
		c.alive = false
		c.mu.Unlock()
		if !alive {
			h.log.Info("ws: terminating unresponsive connection", zap.Uint64("user_id", id))
			_ = c.ws.Close()
			if id == 0 {
				h.drop(c)
			} else {
				h.unbind(id, c)
			}
			continue
		}
		_ = c.ping()
	}
}
