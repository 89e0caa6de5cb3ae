package duel

import (
	"github.com/mcdev12/codeduel/go/internal/challenge"
)

// Event is one outbound wire message. The gateway wraps it in a
// {event, data} envelope before sending.
type Event struct {
	Name string
	Data any
}

// Emitter delivers events to individual connections. Emit must never
// block: a slow consumer is the transport layer's problem.
type Emitter interface {
	Emit(connID string, event Event)
}

// Server-originated event names.
const (
	EventRoomCreated           = "room-created"
	EventRoomJoined            = "room-joined"
	EventOpponentJoined        = "opponent-joined"
	EventSpectateStarted       = "spectate-started"
	EventSpectatorCountUpdated = "spectator-count-updated"
	EventOpponentCodeUpdate    = "opponent-code-update"
	EventLanguageChanged       = "language-changed"
	EventSabotageReceived      = "sabotage-received"
	EventSabotageActivated     = "sabotage-activated"
	EventTestResults           = "test-results"
	EventPowerUpsUnlocked      = "power-ups-unlocked"
	EventOpponentSubmitted     = "opponent-submitted"
	EventActiveRoomsList       = "active-rooms-list"
	EventTimeUpdate            = "time-update"
	EventGameOver              = "game-over"
	EventPlayerLeft            = "player-left"
	EventError                 = "error"
)

type RoomCreatedPayload struct {
	RoomCode string      `json:"roomCode"`
	Room     RoomSummary `json:"room"`
}

type RoomJoinedPayload struct {
	RoomCode     string               `json:"roomCode"`
	Room         RoomSummary          `json:"room"`
	Challenge    *challenge.Challenge `json:"challenge"`
	OpponentName string               `json:"opponentName"`
}

type OpponentJoinedPayload struct {
	Opponent  PlayerSummary `json:"opponent"`
	GameState GameStateView `json:"gameState"`
}

type SpectateStartedPayload struct {
	RoomCode       string               `json:"roomCode"`
	Challenge      *challenge.Challenge `json:"challenge"`
	HostCode       string               `json:"hostCode"`
	OpponentCode   string               `json:"opponentCode"`
	HostName       string               `json:"hostName"`
	OpponentName   string               `json:"opponentName"`
	GameState      GameStateView        `json:"gameState"`
	SpectatorCount int                  `json:"spectatorCount"`
}

type SpectatorCountPayload struct {
	Count int `json:"count"`
}

type OpponentCodeUpdatePayload struct {
	Code string `json:"code"`
	Role Role   `json:"role"`
}

type LanguageChangedPayload struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type SabotageReceivedPayload struct {
	SabotageID string `json:"sabotageId"`
}

type SabotageActivatedPayload struct {
	SabotageID  string `json:"sabotageId"`
	ActivatedBy Role   `json:"activatedBy"`
}

type TestResultsPayload struct {
	Results          *TestRunResult `json:"results"`
	PowerUpsUnlocked bool           `json:"powerUpsUnlocked,omitempty"`
	Error            string         `json:"error,omitempty"`
}

type PowerUpsUnlockedPayload struct {
	Message string `json:"message"`
}

type OpponentSubmittedPayload struct {
	PassedTests int  `json:"passedTests"`
	TotalTests  int  `json:"totalTests"`
	AllPassed   bool `json:"allPassed"`
}

type ActiveRoomsPayload struct {
	Rooms []RoomSummary `json:"rooms"`
}

type TimeUpdatePayload struct {
	TimeLeft int `json:"timeLeft"`
}

type GameOverPayload struct {
	Winner      Winner      `json:"winner"`
	WinReason   string      `json:"winReason"`
	FinalScores FinalScores `json:"finalScores"`
}

type PlayerLeftPayload struct {
	LeftPlayer Role   `json:"leftPlayer"`
	Winner     Winner `json:"winner"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
