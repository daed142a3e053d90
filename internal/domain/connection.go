package domain

import "time"

// Connection is one live transport session. The ID comes from the transport
// (Socket.IO socket id, or a server-assigned uuid for plain websockets);
// Token is an ephemeral per-connection identity issued at connect time.
type Connection struct {
	ID          string    `json:"id"`
	Token       string    `json:"token"`
	Name        string    `json:"name"`
	RoomCode    string    `json:"roomCode,omitempty"`
	ConnectedAt time.Time `json:"connectedAt"`
}
