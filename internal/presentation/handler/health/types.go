package health

import "github.com/paircall/paircall/internal/signal"

type healthResponse struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Uptime      string            `json:"uptime"`
	ActiveUsers int               `json:"activeUsers"`
	ActiveRooms int               `json:"activeRooms"`
	Version     string            `json:"version"`
	Features    []string          `json:"features"`
	Rooms       []signal.RoomInfo `json:"rooms"`
}
