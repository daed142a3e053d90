package signal

import (
	"github.com/paircall/paircall/internal/domain"
)

// LeaveState reports what a leave did to the room.
type LeaveState int

const (
	// LeaveUnknown: the room did not exist.
	LeaveUnknown LeaveState = iota
	// LeaveDeleted: the leaver was the last occupant, room removed.
	LeaveDeleted
	// LeaveOneRemaining: exactly one occupant survives.
	LeaveOneRemaining
)

// Store maps active room codes to sessions. Like the registry it is owned by
// the Core loop; all access is serialized through Run.
type Store struct {
	rooms map[string]*domain.Room
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]*domain.Room)}
}

func (s *Store) Has(code string) bool {
	_, ok := s.rooms[domain.NormalizeCode(code)]
	return ok
}

func (s *Store) Get(code string) (*domain.Room, bool) {
	room, ok := s.rooms[domain.NormalizeCode(code)]
	return room, ok
}

// Create stores a new single-occupant room. An existing code is an invariant
// violation (the generator pre-checks collisions), never an overwrite.
func (s *Store) Create(code, creatorID, creatorName string) (*domain.Room, error) {
	code = domain.NormalizeCode(code)
	if _, exists := s.rooms[code]; exists {
		return nil, domain.ErrRoomExists
	}
	room := domain.NewRoom(code, creatorID, creatorName)
	s.rooms[code] = room
	return room, nil
}

func (s *Store) Join(code, connID string) (*domain.Room, error) {
	room, ok := s.rooms[domain.NormalizeCode(code)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	if room.IsFull() {
		return nil, domain.ErrRoomFull
	}
	room.Occupants = append(room.Occupants, connID)
	return room, nil
}

// Leave removes connID from the room. Empty rooms are deleted synchronously;
// a surviving occupant is reported so the caller can arm the expiry timer.
func (s *Store) Leave(code, connID string) (LeaveState, string) {
	code = domain.NormalizeCode(code)
	room, ok := s.rooms[code]
	if !ok {
		return LeaveUnknown, ""
	}
	room.RemoveOccupant(connID)
	switch len(room.Occupants) {
	case 0:
		delete(s.rooms, code)
		return LeaveDeleted, ""
	case 1:
		return LeaveOneRemaining, room.Occupants[0]
	default:
		// Cannot happen while MaxOccupants is 2; treat as still occupied.
		return LeaveOneRemaining, room.Occupants[0]
	}
}

func (s *Store) Delete(code string) {
	delete(s.rooms, domain.NormalizeCode(code))
}

func (s *Store) Len() int {
	return len(s.rooms)
}

func (s *Store) Each(fn func(*domain.Room)) {
	for _, room := range s.rooms {
		fn(room)
	}
}
