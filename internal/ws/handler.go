package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: false,
	CheckOrigin:       func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type   string `json:"type"`
	UserID uint64 `json:"userId"`
}

// Handler upgrades the request and runs the connection's read loop.
// The first meaningful message must be {type:"auth", userId}; until a
// connection authenticates it receives no targeted pushes.
func (h *Hub) Handler(c echo.Context) error {
	sock, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil // Upgrade already wrote the handshake error
	}

	cn := &conn{ws: sock, alive: true}
	sock.SetPongHandler(func(string) error {
		cn.mu.Lock()
		cn.alive = true
		cn.mu.Unlock()
		return nil
	})
	h.track(cn)

	var userID uint64
	defer func() {
		if userID != 0 {
			h.unbind(userID, cn)
		} else {
			h.drop(cn)
		}
		_ = sock.Close()
	}()

	for {
		_, raw, err := sock.ReadMessage()
		if err != nil {
			return nil
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.log.Debug("ws: discarding malformed message", zap.Error(err))
			continue
		}

		if msg.Type == "auth" {
			if msg.UserID == 0 {
				_ = cn.writeJSON(map[string]any{
					"type":      "auth_error",
					"message":   "Error de autenticación",
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				continue
			}
			userID = msg.UserID
			h.bind(userID, cn)
			_ = cn.writeJSON(map[string]any{
				"type":      "auth_success",
				"message":   "Usuario autenticado para notificaciones",
				"userId":    userID,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			continue
		}

		// Non-auth messages are echoed back, as the original protocol does.
		_ = cn.writeJSON(map[string]any{
			"type":      "echo",
			"data":      json.RawMessage(raw),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
