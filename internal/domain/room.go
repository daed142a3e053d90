package domain

import (
	"errors"
	"strings"
	"time"
)

// MaxOccupants is the hard cap per room. The whole call model is 1:1, so
// this is a constant rather than configuration.
const MaxOccupants = 2

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomExists    = errors.New("room already exists")
	ErrRoomFull      = errors.New("room is full")
	ErrCodeExhausted = errors.New("unable to generate a free room code")
)

// Room is a two-party call session, keyed by its share code.
type Room struct {
	Code          string    `json:"code"`
	Occupants     []string  `json:"occupants"`
	CreatedBy     string    `json:"createdBy"`
	CreatedByName string    `json:"createdByName"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewRoom(code, creatorID, creatorName string) *Room {
	return &Room{
		Code:          code,
		Occupants:     []string{creatorID},
		CreatedBy:     creatorID,
		CreatedByName: creatorName,
		CreatedAt:     time.Now(),
	}
}

func (r *Room) IsFull() bool {
	return len(r.Occupants) >= MaxOccupants
}

func (r *Room) HasOccupant(connID string) bool {
	for _, id := range r.Occupants {
		if id == connID {
			return true
		}
	}
	return false
}

// Other returns the occupant that is not connID, or "" when alone.
func (r *Room) Other(connID string) string {
	for _, id := range r.Occupants {
		if id != connID {
			return id
		}
	}
	return ""
}

func (r *Room) RemoveOccupant(connID string) {
	kept := r.Occupants[:0]
	for _, id := range r.Occupants {
		if id != connID {
			kept = append(kept, id)
		}
	}
	r.Occupants = kept
}

// NormalizeCode maps user input onto the stored form: codes are stored
// uppercase, and people type them from a screen or say them out loud.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
