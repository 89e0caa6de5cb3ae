package duel

import (
	"time"

	"github.com/mcdev12/codeduel/go/internal/challenge"
)

// Role identifies what a connection is doing in a room.
type Role string

const (
	RoleHost      Role = "host"
	RoleOpponent  Role = "opponent"
	RoleSpectator Role = "spectator"
)

// Opposite returns the other player role. Only meaningful for host and
// opponent.
func (r Role) Opposite() Role {
	if r == RoleHost {
		return RoleOpponent
	}
	return RoleHost
}

// Status is the room lifecycle state. Transitions are one-way:
// waiting -> active -> finished.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Winner is the verdict of a finished match.
type Winner string

const (
	WinnerHost     Winner = "host"
	WinnerOpponent Winner = "opponent"
	WinnerDraw     Winner = "draw"
)

// DefaultLanguage is the language every player starts in.
const DefaultLanguage = "javascript"

// PlayerState is the per-player half of a room.
type PlayerState struct {
	Name             string
	ConnID           string
	Code             string
	Language         string
	Mana             int
	TestResults      *TestRunResult
	PowerUpsUnlocked bool

	// submitting guards against two overlapping executions for the
	// same player. Set before the execution call, cleared when it
	// resolves, success or failure.
	submitting bool
}

func newPlayerState(name, connID string, ch *challenge.Challenge) *PlayerState {
	return &PlayerState{
		Name:     name,
		ConnID:   connID,
		Code:     ch.StarterFor(DefaultLanguage),
		Language: DefaultLanguage,
		Mana:     maxMana,
	}
}

const maxMana = 100

// Room is the unit of match state: two player slots, a spectator set,
// sabotage activations, and the game clock. All mutation goes through
// the Coordinator under its lock.
type Room struct {
	Code       string
	Challenge  *challenge.Challenge
	Host       *PlayerState
	Opponent   *PlayerState
	Spectators map[string]struct{}

	Status     Status
	TimeLeft   int
	Winner     Winner
	WinReason  string
	StartedAt  *time.Time
	FinishedAt *time.Time

	// Sabotages maps acting role -> effect id -> activation time.
	// Effects are never cleared server-side; expiry is driven by the
	// presentation layer's duration table.
	Sabotages map[Role]map[string]time.Time

	clock *clockHandle
}

func newRoom(code string, ch *challenge.Challenge, hostName, hostConnID string) *Room {
	return &Room{
		Code:       code,
		Challenge:  ch,
		Host:       newPlayerState(hostName, hostConnID, ch),
		Spectators: make(map[string]struct{}),
		Status:     StatusWaiting,
		TimeLeft:   ch.TimeLimit,
		Sabotages: map[Role]map[string]time.Time{
			RoleHost:     make(map[string]time.Time),
			RoleOpponent: make(map[string]time.Time),
		},
	}
}

// IsFull reports whether the opponent slot is taken.
func (r *Room) IsFull() bool {
	return r.Opponent != nil
}

func (r *Room) addOpponent(name, connID string, now time.Time) {
	r.Opponent = newPlayerState(name, connID, r.Challenge)
	r.Status = StatusActive
	r.StartedAt = &now
}

// playerByConn returns the player bound to a connection, or nil for
// spectators and strangers.
func (r *Room) playerByConn(connID string) (Role, *PlayerState) {
	if r.Host != nil && r.Host.ConnID == connID {
		return RoleHost, r.Host
	}
	if r.Opponent != nil && r.Opponent.ConnID == connID {
		return RoleOpponent, r.Opponent
	}
	return "", nil
}

// player returns the player in a given role, nil if the slot is empty.
func (r *Room) player(role Role) *PlayerState {
	switch role {
	case RoleHost:
		return r.Host
	case RoleOpponent:
		return r.Opponent
	}
	return nil
}

// memberConnIDs returns every connection bound to the room, excluding
// at most one sender.
func (r *Room) memberConnIDs(exclude string) []string {
	ids := make([]string, 0, 2+len(r.Spectators))
	if r.Host != nil && r.Host.ConnID != exclude {
		ids = append(ids, r.Host.ConnID)
	}
	if r.Opponent != nil && r.Opponent.ConnID != exclude {
		ids = append(ids, r.Opponent.ConnID)
	}
	for id := range r.Spectators {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	return ids
}

// PlayerSummary is the public view of one player.
type PlayerSummary struct {
	Name             string `json:"name"`
	PowerUpsUnlocked bool   `json:"powerUpsUnlocked"`
}

// GameStateView is the public view of the match clock and verdict.
type GameStateView struct {
	Status    Status     `json:"status"`
	TimeLeft  int        `json:"timeLeft"`
	Winner    *Winner    `json:"winner"`
	WinReason string     `json:"winReason,omitempty"`
	StartedAt *time.Time `json:"startedAt"`
}

// RoomSummary is the shape returned for listings and on creation/join.
// Test cases and starter code are withheld.
type RoomSummary struct {
	RoomCode       string           `json:"roomCode"`
	Challenge      challenge.Public `json:"challenge"`
	Host           PlayerSummary    `json:"host"`
	Opponent       *PlayerSummary   `json:"opponent"`
	SpectatorCount int              `json:"spectatorCount"`
	GameState      GameStateView    `json:"gameState"`
	PlayerCount    int              `json:"playerCount"`
}

// Summary builds the public room view.
func (r *Room) Summary() RoomSummary {
	s := RoomSummary{
		RoomCode:       r.Code,
		Challenge:      r.Challenge.Public(),
		Host:           PlayerSummary{Name: r.Host.Name, PowerUpsUnlocked: r.Host.PowerUpsUnlocked},
		SpectatorCount: len(r.Spectators),
		GameState:      r.gameStateView(),
		PlayerCount:    1,
	}
	if r.Opponent != nil {
		s.Opponent = &PlayerSummary{Name: r.Opponent.Name, PowerUpsUnlocked: r.Opponent.PowerUpsUnlocked}
		s.PlayerCount = 2
	}
	return s
}

func (r *Room) gameStateView() GameStateView {
	view := GameStateView{
		Status:    r.Status,
		TimeLeft:  r.TimeLeft,
		WinReason: r.WinReason,
		StartedAt: r.StartedAt,
	}
	if r.Winner != "" {
		w := r.Winner
		view.Winner = &w
	}
	return view
}
