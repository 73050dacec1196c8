// Package session tracks which connection owns which seat
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tecu23/duel-server/internal/color"
)

// Role is what a connection is allowed to do in the game
type Role string

// A connection is either one of the two players or a spectator
const (
	RoleWhite     Role = "white"
	RoleBlack     Role = "black"
	RoleSpectator Role = "spectator"
)

// Color returns the seat color for a player role
func (r Role) Color() (color.Color, bool) {
	switch r {
	case RoleWhite:
		return color.White, true
	case RoleBlack:
		return color.Black, true
	default:
		return color.None, false
	}
}

// Registry owns the two player seats. The first connection to ask for a
// role gets white, the second gets black, everyone after that spectates.
// A seat released by a disconnect is claimable by the next connection.
type Registry struct {
	mu    sync.RWMutex
	white uuid.UUID
	black uuid.UUID
}

// NewRegistry creates a registry with both seats empty
func NewRegistry() *Registry {
	return &Registry{}
}

// AssignRole seats the connection in the first empty seat, white before
// black, and returns the resulting role. Deterministic, no retries.
func (r *Registry) AssignRole(id uuid.UUID) Role {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.white == uuid.Nil {
		r.white = id
		return RoleWhite
	}

	if r.black == uuid.Nil {
		r.black = id
		return RoleBlack
	}

	return RoleSpectator
}

// Release vacates the seat held by the connection. No-op for spectators
// and already-vacated seats.
func (r *Registry) Release(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.white == id {
		r.white = uuid.Nil
	}

	if r.black == id {
		r.black = uuid.Nil
	}
}

// SeatOf returns the connection occupying the given side, if any
func (r *Registry) SeatOf(c color.Color) (uuid.UUID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var id uuid.UUID
	if c == color.White {
		id = r.white
	} else {
		id = r.black
	}

	return id, id != uuid.Nil
}

// SideOf returns the role the connection currently holds
func (r *Registry) SideOf(id uuid.UUID) Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id == uuid.Nil {
		return RoleSpectator
	}

	switch id {
	case r.white:
		return RoleWhite
	case r.black:
		return RoleBlack
	default:
		return RoleSpectator
	}
}

// BothSeated reports whether both player seats are occupied
func (r *Registry) BothSeated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.white != uuid.Nil && r.black != uuid.Nil
}

// Reset vacates both seats
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.white = uuid.Nil
	r.black = uuid.Nil
}
