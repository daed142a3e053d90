package health

import (
	"net/http"
	"time"

	"github.com/paircall/paircall/internal/infrastructure/json"
	"github.com/paircall/paircall/internal/signal"
)

var startTime = time.Now()

// Snapshotter provides the read-only core view; the handler never mutates
// room state.
type Snapshotter interface {
	Snapshot() signal.Snapshot
}

type Handler struct {
	core    Snapshotter
	version string
}

func NewHandler(core Snapshotter, version string) *Handler {
	return &Handler{core: core, version: version}
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	snap := h.core.Snapshot()

	json.Write(w, http.StatusOK, healthResponse{
		Status:      "OK",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(startTime).Round(time.Second).String(),
		ActiveUsers: snap.ActiveConnections,
		ActiveRooms: len(snap.Rooms),
		Version:     h.version,
		Features:    []string{"room-codes", "webrtc", "screen-share"},
		Rooms:       snap.Rooms,
	})
}
