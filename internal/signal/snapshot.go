package signal

import (
	"sort"
	"time"

	"github.com/paircall/paircall/internal/domain"
)

// RoomInfo is the read-only view of one room exposed to the HTTP surface.
type RoomInfo struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	UserCount int       `json:"userCount"`
	MaxUsers  int       `json:"maxUsers"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

type Snapshot struct {
	ActiveConnections int
	Rooms             []RoomInfo
}

// Snapshot returns a point-in-time view of the core state. The read runs
// inside the dispatch loop, so it observes no half-applied transitions.
func (c *Core) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	select {
	case c.snapshots <- reply:
		return <-reply
	case <-c.done:
		return Snapshot{}
	}
}

func (c *Core) snapshot() Snapshot {
	snap := Snapshot{
		ActiveConnections: c.registry.Len(),
		Rooms:             make([]RoomInfo, 0, c.store.Len()),
	}
	c.store.Each(func(room *domain.Room) {
		snap.Rooms = append(snap.Rooms, RoomInfo{
			ID:        room.Code,
			Code:      room.Code,
			UserCount: len(room.Occupants),
			MaxUsers:  domain.MaxOccupants,
			CreatedAt: room.CreatedAt,
			CreatedBy: room.CreatedByName,
		})
	})
	sort.Slice(snap.Rooms, func(i, j int) bool {
		return snap.Rooms[i].Code < snap.Rooms[j].Code
	})
	return snap
}
