package rooms

import (
	"net/http"

	"github.com/paircall/paircall/internal/infrastructure/json"
	"github.com/paircall/paircall/internal/signal"
)

type Snapshotter interface {
	Snapshot() signal.Snapshot
}

type Handler struct {
	core Snapshotter
}

func NewHandler(core Snapshotter) *Handler {
	return &Handler{core: core}
}

// GetRooms lists active rooms. Observational only: joins happen over the
// signaling transports, never through HTTP.
func (h *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	snap := h.core.Snapshot()
	json.Write(w, http.StatusOK, roomsResponse{Rooms: snap.Rooms})
}
