package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/paircall/paircall/internal/signal"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers fit in well
	// under 64 KB.
	maxMessageSize = 64 * 1024
)

// envelope is the wire format on the plain-websocket endpoint: the event
// name plus its payload, which stays raw on the way in (the core decodes it)
// and is any marshalable value on the way out.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type client struct {
	id     string
	conn   *websocket.Conn
	core   *signal.Core
	logger *zap.SugaredLogger

	// sendq is drained by writePump; Sender drops instead of blocking the
	// orchestrator when a client cannot keep up.
	sendq chan outbound
}

func newClient(id string, conn *websocket.Conn, core *signal.Core, logger *zap.SugaredLogger) *client {
	return &client{
		id:     id,
		conn:   conn,
		core:   core,
		logger: logger,
		sendq:  make(chan outbound, 64),
	}
}

// sender adapts the client to the orchestrator's Sender contract.
func (c *client) sender(event string, payload any) {
	select {
	case c.sendq <- outbound{Event: event, Data: payload}:
	default:
		c.logger.Warnw("dropping event for slow client", "connId", c.id, "event", event)
	}
}

// readPump pumps inbound events into the core. It is the sole reader on the
// connection and owns disconnect notification.
func (c *client) readPump() {
	defer func() {
		c.core.Disconnect(c.id)
		close(c.sendq)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env envelope
		if err := c.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnw("ws read error", "connId", c.id, "error", err)
			}
			return
		}
		if env.Event == "" {
			continue
		}
		c.core.Dispatch(c.id, env.Event, env.Data)
	}
}

// writePump drains sendq onto the wire and keeps the connection alive with
// pings. One writer per connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendq:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warnw("ws write error", "connId", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
