package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paircall/paircall/internal/domain"
)

func TestStoreCreateRejectsDuplicates(t *testing.T) {
	s := NewStore()

	room, err := s.Create("AB12CD", "conn-a", "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"conn-a"}, room.Occupants)
	assert.Equal(t, "Alice", room.CreatedByName)

	_, err = s.Create("ab12cd", "conn-b", "Bob")
	assert.ErrorIs(t, err, domain.ErrRoomExists)
	assert.Equal(t, 1, s.Len())
}

func TestStoreJoinCapacity(t *testing.T) {
	s := NewStore()
	_, err := s.Create("AB12CD", "conn-a", "Alice")
	require.NoError(t, err)

	room, err := s.Join("AB12CD", "conn-b")
	require.NoError(t, err)
	assert.True(t, room.IsFull())

	_, err = s.Join("AB12CD", "conn-c")
	assert.ErrorIs(t, err, domain.ErrRoomFull)

	room, _ = s.Get("AB12CD")
	assert.Len(t, room.Occupants, domain.MaxOccupants)
}

func TestStoreJoinNormalizesLookup(t *testing.T) {
	s := NewStore()
	_, err := s.Create("AB12CD", "conn-a", "Alice")
	require.NoError(t, err)

	_, err = s.Join(" ab12cd\n", "conn-b")
	assert.NoError(t, err)

	_, err = s.Join("ZZ99ZZ", "conn-c")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestStoreLeaveStates(t *testing.T) {
	s := NewStore()
	_, err := s.Create("AB12CD", "conn-a", "Alice")
	require.NoError(t, err)
	_, err = s.Join("AB12CD", "conn-b")
	require.NoError(t, err)

	state, other := s.Leave("AB12CD", "conn-a")
	assert.Equal(t, LeaveOneRemaining, state)
	assert.Equal(t, "conn-b", other)
	assert.Equal(t, 1, s.Len())

	state, _ = s.Leave("ab12cd", "conn-b")
	assert.Equal(t, LeaveDeleted, state)
	assert.Equal(t, 0, s.Len())

	state, _ = s.Leave("AB12CD", "conn-b")
	assert.Equal(t, LeaveUnknown, state)
}
