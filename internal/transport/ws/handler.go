package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/paircall/paircall/internal/signal"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  maxMessageSize,
	WriteBufferSize: maxMessageSize,

	// The browser clients live on another origin; CORS for the HTTP surface
	// is handled at the router, and the room code is the shared secret here.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades plain-websocket clients and wires them into the core.
// Unlike Socket.IO sockets these connections carry no transport-assigned
// identity, so the server mints one.
func Handler(core *signal.Core, logger *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warnw("ws upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		c := newClient(uuid.NewString(), conn, core, logger)
		core.Connect(c.id, c.sender)

		go c.writePump()
		go c.readPump()
	}
}
