package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/codeduel/go/internal/challenge"
	"github.com/mcdev12/codeduel/go/internal/duel"
)

// Coordinator defines what the gateway needs from the match
// coordinator.
type Coordinator interface {
	CreateRoom(connID, playerName string, custom *challenge.CustomDefinition) error
	JoinRoom(connID, roomCode, playerName string) error
	Spectate(connID, roomCode string) error
	UpdateCode(connID, code string)
	ChangeLanguage(connID, language string)
	ActivateSabotage(connID, sabotageID string, manaCost int) error
	SubmitCode(ctx context.Context, connID, code, language string) error
	ActiveRooms() []duel.RoomSummary
	HandleDisconnect(connID string)
}

// Client-originated event names.
const (
	eventCreateRoom       = "create-room"
	eventJoinRoom         = "join-room"
	eventSpectateRoom     = "spectate-room"
	eventCodeUpdate       = "code-update"
	eventChangeLanguage   = "change-language"
	eventActivateSabotage = "activate-sabotage"
	eventSubmitCode       = "submit-code"
	eventGetActiveRooms   = "get-active-rooms"
)

type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type createRoomPayload struct {
	PlayerName      string                      `json:"playerName"`
	CustomChallenge *challenge.CustomDefinition `json:"customChallenge"`
}

type joinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type spectateRoomPayload struct {
	RoomCode string `json:"roomCode"`
}

type codeUpdatePayload struct {
	Code string `json:"code"`
}

type changeLanguagePayload struct {
	Language string `json:"language"`
}

type activateSabotagePayload struct {
	SabotageID string `json:"sabotageId"`
	ManaCost   int    `json:"manaCost"`
}

type submitCodePayload struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Handler dispatches inbound client events to the coordinator and
// serves the WebSocket upgrade endpoint.
type Handler struct {
	manager *Manager
	game    Coordinator
}

// NewHandler wires a handler to a manager and registers it as the
// manager's message sink.
func NewHandler(manager *Manager, game Coordinator) *Handler {
	h := &Handler{manager: manager, game: game}
	manager.SetSink(h)
	return h
}

// RegisterRoutes registers the WebSocket route with an HTTP mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleConnection)
}

// HandleConnection upgrades an HTTP request to a WebSocket.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.UpgradeConnection(w, r); err != nil {
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
	}
}

// HandleMessage routes one inbound envelope. Every rejection from the
// coordinator goes back to the originating connection only, as an
// `error` event.
func (h *Handler) HandleMessage(connID string, raw []byte) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.reject(connID, "Malformed message")
		return
	}

	var err error
	switch env.Event {
	case eventCreateRoom:
		var p createRoomPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = h.game.CreateRoom(connID, p.PlayerName, p.CustomChallenge)
		}

	case eventJoinRoom:
		var p joinRoomPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = h.game.JoinRoom(connID, p.RoomCode, p.PlayerName)
		}

	case eventSpectateRoom:
		var p spectateRoomPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = h.game.Spectate(connID, p.RoomCode)
		}

	case eventCodeUpdate:
		var p codeUpdatePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			h.game.UpdateCode(connID, p.Code)
		}

	case eventChangeLanguage:
		var p changeLanguagePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			h.game.ChangeLanguage(connID, p.Language)
		}

	case eventActivateSabotage:
		var p activateSabotagePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = h.game.ActivateSabotage(connID, p.SabotageID, p.ManaCost)
		}

	case eventSubmitCode:
		var p submitCodePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			// Execution takes seconds; running it off the read pump
			// keeps this connection responsive (and its pings alive)
			// while the tests run. The coordinator's submission lock
			// and cooldown make reentry safe.
			go func() {
				if submitErr := h.game.SubmitCode(context.Background(), connID, p.Code, p.Language); submitErr != nil {
					h.reject(connID, submitErr.Error())
				}
			}()
		}

	case eventGetActiveRooms:
		h.manager.Emit(connID, duel.Event{
			Name: duel.EventActiveRoomsList,
			Data: duel.ActiveRoomsPayload{Rooms: h.game.ActiveRooms()},
		})

	default:
		log.Debug().Str("connection_id", connID).Str("event", env.Event).Msg("unknown client event")
		return
	}

	if err != nil {
		h.reject(connID, err.Error())
	}
}

// HandleDisconnect forwards transport-level disconnects.
func (h *Handler) HandleDisconnect(connID string) {
	h.game.HandleDisconnect(connID)
}

func (h *Handler) reject(connID, message string) {
	h.manager.Emit(connID, duel.Event{
		Name: duel.EventError,
		Data: duel.ErrorPayload{Message: message},
	})
}
