package socketio

import (
	"encoding/json"
	"net/http"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"go.uber.org/zap"

	"github.com/paircall/paircall/internal/infrastructure/configs"
	"github.com/paircall/paircall/internal/signal"
)

// Server hosts the Socket.IO v4 endpoint: websocket with polling fallback,
// which is what the browser clients speak. Socket ids double as connection
// ids in the core.
type Server struct {
	io      *socket.Server
	handler http.Handler
}

func NewServer(core *signal.Core, cfg configs.HTTPConfig, logger *zap.SugaredLogger) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetCors(&types.Cors{
		Origin:      corsOrigin(cfg.AllowedOrigins),
		Credentials: true,
	})
	opts.SetAllowEIO3(true)

	io := socket.NewServer(nil, opts)

	io.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		connID := string(client.Id())

		core.Connect(connID, func(event string, payload any) {
			if payload == nil {
				client.Emit(event)
				return
			}
			client.Emit(event, payload)
		})

		for _, event := range signal.ClientEvents {
			event := event
			client.On(event, func(args ...any) {
				core.Dispatch(connID, event, rawData(args))
			})
		}

		client.On("disconnect", func(...any) {
			core.Disconnect(connID)
		})
	})

	logger.Infow("socket.io transport ready", "transports", "websocket,polling")

	return &Server{
		io:      io,
		handler: io.ServeHandler(opts),
	}
}

// Handler is mounted under /socket.io/ by the router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Close() {
	s.io.Close(nil)
}

func corsOrigin(origins []string) any {
	if len(origins) == 0 {
		return "*"
	}
	if len(origins) == 1 {
		return origins[0]
	}
	return origins
}

// rawData normalizes the first event argument back into raw JSON for the
// core, which parses payloads itself. The socket.io library hands decoded
// values, so this is a marshal round-trip, not a parse.
func rawData(args []any) json.RawMessage {
	if len(args) == 0 {
		return nil
	}
	switch v := args[0].(type) {
	case json.RawMessage:
		return v
	case string:
		if json.Valid([]byte(v)) {
			return json.RawMessage(v)
		}
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return nil
	}
	return raw
}
