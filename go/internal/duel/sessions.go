package duel

import (
	"golang.org/x/time/rate"
)

// Session binds a live connection to a room and role. The directory
// holds exactly one entry per live connection: created on any
// create/join/spectate, erased unconditionally on disconnect.
type Session struct {
	RoomCode   string
	PlayerName string
	Role       Role

	// limiter enforces the submission cooldown for this connection.
	// It dies with the session, so reconnecting resets the cooldown.
	limiter *rate.Limiter
}

// sessionDirectory owns the connection-to-room binding. It carries no
// lock of its own; every access happens under the Coordinator's mutex.
type sessionDirectory struct {
	byConn   map[string]*Session
	cooldown rate.Limit
}

func newSessionDirectory(cooldown rate.Limit) *sessionDirectory {
	return &sessionDirectory{
		byConn:   make(map[string]*Session),
		cooldown: cooldown,
	}
}

func (d *sessionDirectory) add(connID, roomCode, playerName string, role Role) *Session {
	s := &Session{
		RoomCode:   roomCode,
		PlayerName: playerName,
		Role:       role,
		limiter:    rate.NewLimiter(d.cooldown, 1),
	}
	d.byConn[connID] = s
	return s
}

func (d *sessionDirectory) get(connID string) (*Session, bool) {
	s, ok := d.byConn[connID]
	return s, ok
}

func (d *sessionDirectory) remove(connID string) {
	delete(d.byConn, connID)
}

func (d *sessionDirectory) count() int {
	return len(d.byConn)
}
