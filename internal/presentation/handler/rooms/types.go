package rooms

import "github.com/paircall/paircall/internal/signal"

type roomsResponse struct {
	Rooms []signal.RoomInfo `json:"rooms"`
}
