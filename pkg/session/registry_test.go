package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/duel-server/internal/color"
)

func TestAssignRoleOrder(t *testing.T) {
	r := NewRegistry()

	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.Equal(t, RoleWhite, r.AssignRole(a))
	assert.Equal(t, RoleBlack, r.AssignRole(b))
	assert.Equal(t, RoleSpectator, r.AssignRole(c))
	assert.True(t, r.BothSeated())
}

func TestSeatOfAndSideOf(t *testing.T) {
	r := NewRegistry()

	a, b := uuid.New(), uuid.New()
	r.AssignRole(a)
	r.AssignRole(b)

	seat, ok := r.SeatOf(color.White)
	require.True(t, ok)
	assert.Equal(t, a, seat)

	seat, ok = r.SeatOf(color.Black)
	require.True(t, ok)
	assert.Equal(t, b, seat)

	assert.Equal(t, RoleWhite, r.SideOf(a))
	assert.Equal(t, RoleBlack, r.SideOf(b))
	assert.Equal(t, RoleSpectator, r.SideOf(uuid.New()))
}

func TestReleaseVacatesSeat(t *testing.T) {
	r := NewRegistry()

	a, b := uuid.New(), uuid.New()
	r.AssignRole(a)
	r.AssignRole(b)

	r.Release(a)

	_, ok := r.SeatOf(color.White)
	assert.False(t, ok)
	assert.False(t, r.BothSeated())
	assert.Equal(t, RoleSpectator, r.SideOf(a))

	// Black seat untouched
	seat, ok := r.SeatOf(color.Black)
	require.True(t, ok)
	assert.Equal(t, b, seat)
}

func TestReleaseIsIdempotent(t *testing.T) {
	r := NewRegistry()

	a := uuid.New()
	r.AssignRole(a)

	r.Release(a)
	r.Release(a)
	r.Release(uuid.New()) // spectator release is a no-op

	_, ok := r.SeatOf(color.White)
	assert.False(t, ok)
}

func TestVacatedSeatClaimedByNextConnection(t *testing.T) {
	r := NewRegistry()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r.AssignRole(a)
	r.AssignRole(b)

	r.Release(a)

	// The white seat is free again, so the next connection gets it
	assert.Equal(t, RoleWhite, r.AssignRole(c))

	seat, ok := r.SeatOf(color.White)
	require.True(t, ok)
	assert.Equal(t, c, seat)
}

func TestReset(t *testing.T) {
	r := NewRegistry()

	r.AssignRole(uuid.New())
	r.AssignRole(uuid.New())
	require.True(t, r.BothSeated())

	r.Reset()

	assert.False(t, r.BothSeated())
	assert.Equal(t, RoleWhite, r.AssignRole(uuid.New()))
}
