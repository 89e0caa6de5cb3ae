package duel

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/mcdev12/codeduel/go/internal/challenge"
)

// Config holds the coordinator's tunables.
type Config struct {
	// SubmitCooldown is the minimum interval between accepted
	// submissions from one connection.
	SubmitCooldown time.Duration
	// MaxCodeSize bounds submitted source length in characters.
	MaxCodeSize int
	// MaxNameLength bounds player display names.
	MaxNameLength int
	// CleanupGrace is how long a finished room lingers before it is
	// eligible for deletion.
	CleanupGrace time.Duration
	// SweepInterval is the period of the finished-room janitor.
	SweepInterval time.Duration
	// ManaRegen is the per-tick mana regeneration for each player.
	ManaRegen int
}

// DefaultConfig returns production settings.
func DefaultConfig() Config {
	return Config{
		SubmitCooldown: 2 * time.Second,
		MaxCodeSize:    50000,
		MaxNameLength:  20,
		CleanupGrace:   30 * time.Second,
		SweepInterval:  30 * time.Second,
		ManaRegen:      2,
	}
}

// Coordinator owns all match state: the room store, the session
// directory, and the per-room game clocks. Every mutation happens
// under mu; the only operation that spans a suspension point is code
// execution, which runs with the lock released and the per-player
// submission flag held.
type Coordinator struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions *sessionDirectory

	catalog *challenge.Catalog
	runner  CodeRunner
	emitter Emitter
	clock   clockwork.Clock
	cfg     Config

	battlesCompleted int
	startedAt        time.Time
}

// NewCoordinator wires the coordinator. The emitter's Emit must be
// non-blocking; it is called with the coordinator lock held.
func NewCoordinator(catalog *challenge.Catalog, runner CodeRunner, emitter Emitter, clock clockwork.Clock, cfg Config) *Coordinator {
	return &Coordinator{
		rooms:     make(map[string]*Room),
		sessions:  newSessionDirectory(rate.Every(cfg.SubmitCooldown)),
		catalog:   catalog,
		runner:    runner,
		emitter:   emitter,
		clock:     clock,
		cfg:       cfg,
		startedAt: clock.Now(),
	}
}

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var roomCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// generateRoomCode returns a 6-character code not currently in use.
// Collisions are vanishingly rare at this scale, so a retry loop is
// enough; it cannot fail.
func (c *Coordinator) generateRoomCode() string {
	for {
		var b strings.Builder
		for i := 0; i < 6; i++ {
			b.WriteByte(roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))])
		}
		code := b.String()
		if _, taken := c.rooms[code]; !taken {
			return code
		}
	}
}

// CreateRoom creates a room with the caller as host. A usable custom
// challenge definition overrides the catalog pick.
func (c *Coordinator) CreateRoom(connID, playerName string, custom *challenge.CustomDefinition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var ch *challenge.Challenge
	if custom.Usable() {
		ch = challenge.Normalize(custom)
	} else {
		ch = c.catalog.Random()
	}

	code := c.generateRoomCode()
	room := newRoom(code, ch, playerName, connID)
	c.rooms[code] = room
	c.sessions.add(connID, code, playerName, RoleHost)

	c.emitter.Emit(connID, Event{EventRoomCreated, RoomCreatedPayload{
		RoomCode: code,
		Room:     room.Summary(),
	}})

	log.Info().
		Str("room", code).
		Str("player", playerName).
		Str("challenge", ch.ID).
		Bool("custom", custom.Usable()).
		Msg("room created")
	return nil
}

// JoinRoom fills the opponent slot, flips the room to active, and
// starts its game clock.
func (c *Coordinator) JoinRoom(connID, roomCode, playerName string) error {
	if !roomCodePattern.MatchString(roomCode) {
		return ErrInvalidRoomCode
	}
	if strings.TrimSpace(playerName) == "" {
		return ErrNameRequired
	}
	if len(playerName) > c.cfg.MaxNameLength {
		return ErrNameTooLong
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomCode]
	if !ok {
		return ErrRoomNotFound
	}
	if room.IsFull() {
		return ErrRoomFull
	}

	room.addOpponent(playerName, connID, c.clock.Now())
	c.sessions.add(connID, roomCode, playerName, RoleOpponent)
	c.startClock(room)

	c.emitter.Emit(room.Host.ConnID, Event{EventOpponentJoined, OpponentJoinedPayload{
		Opponent:  PlayerSummary{Name: playerName},
		GameState: room.gameStateView(),
	}})
	c.emitter.Emit(connID, Event{EventRoomJoined, RoomJoinedPayload{
		RoomCode:     roomCode,
		Room:         room.Summary(),
		Challenge:    room.Challenge,
		OpponentName: room.Host.Name,
	}})

	log.Info().Str("room", roomCode).Str("player", playerName).Msg("opponent joined, match active")
	return nil
}

// Spectate attaches the caller to a room's spectator set. There is no
// capacity limit.
func (c *Coordinator) Spectate(connID, roomCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomCode]
	if !ok {
		return ErrRoomNotFound
	}

	room.Spectators[connID] = struct{}{}
	c.sessions.add(connID, roomCode, "", RoleSpectator)

	opponentCode := ""
	opponentName := "Waiting..."
	if room.Opponent != nil {
		opponentCode = room.Opponent.Code
		opponentName = room.Opponent.Name
	}
	c.emitter.Emit(connID, Event{EventSpectateStarted, SpectateStartedPayload{
		RoomCode:       roomCode,
		Challenge:      room.Challenge,
		HostCode:       room.Host.Code,
		OpponentCode:   opponentCode,
		HostName:       room.Host.Name,
		OpponentName:   opponentName,
		GameState:      room.gameStateView(),
		SpectatorCount: len(room.Spectators),
	}})
	c.broadcast(room, Event{EventSpectatorCountUpdated, SpectatorCountPayload{Count: len(room.Spectators)}}, "")

	log.Info().Str("room", roomCode).Str("conn", connID).Msg("spectator joined")
	return nil
}

// UpdateCode stores a player's editor contents (last-write-wins) and
// relays them to everyone else in the room.
func (c *Coordinator) UpdateCode(connID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, role, player := c.playerFor(connID)
	if player == nil {
		return
	}

	player.Code = code
	c.broadcast(room, Event{EventOpponentCodeUpdate, OpponentCodeUpdatePayload{
		Code: code,
		Role: role,
	}}, connID)
}

// ChangeLanguage switches a player's language and resets their editor
// to that language's starter code.
func (c *Coordinator) ChangeLanguage(connID, language string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, role, player := c.playerFor(connID)
	if player == nil {
		return
	}

	player.Language = language
	player.Code = room.Challenge.StarterFor(language)

	c.emitter.Emit(connID, Event{EventLanguageChanged, LanguageChangedPayload{
		Language: language,
		Code:     player.Code,
	}})

	log.Info().Str("room", room.Code).Str("role", string(role)).Str("language", language).Msg("language changed")
}

// ActivateSabotage spends mana to fire a named effect at the opposing
// player. Requires unlocked power-ups; insufficient mana is a silent
// no-op, matching the client's own gating.
func (c *Coordinator) ActivateSabotage(connID, sabotageID string, manaCost int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, role, player := c.playerFor(connID)
	if player == nil {
		return nil
	}
	if _, known := SabotageByID(sabotageID); !known {
		return nil
	}
	if !player.PowerUpsUnlocked {
		return ErrPowerUpsLocked
	}
	if player.Mana < manaCost {
		return nil
	}

	player.Mana -= manaCost
	room.Sabotages[role][sabotageID] = c.clock.Now()

	if victim := room.player(role.Opposite()); victim != nil {
		c.emitter.Emit(victim.ConnID, Event{EventSabotageReceived, SabotageReceivedPayload{
			SabotageID: sabotageID,
		}})
	}
	for spectatorID := range room.Spectators {
		c.emitter.Emit(spectatorID, Event{EventSabotageActivated, SabotageActivatedPayload{
			SabotageID:  sabotageID,
			ActivatedBy: role,
		}})
	}

	log.Info().Str("room", room.Code).Str("role", string(role)).Str("sabotage", sabotageID).Msg("sabotage activated")
	return nil
}

// ActiveRooms returns summaries of rooms still accepting players or
// in play, for the lobby listing.
func (c *Coordinator) ActiveRooms() []RoomSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RoomSummary, 0, len(c.rooms))
	for _, room := range c.rooms {
		if room.Status == StatusWaiting || room.Status == StatusActive {
			out = append(out, room.Summary())
		}
	}
	return out
}

// AllRooms returns summaries of every room, finished included.
func (c *Coordinator) AllRooms() []RoomSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RoomSummary, 0, len(c.rooms))
	for _, room := range c.rooms {
		out = append(out, room.Summary())
	}
	return out
}

// HandleDisconnect tears down a connection's binding. A departing
// spectator shrinks the count; a departing player forfeits the match.
func (c *Coordinator) HandleDisconnect(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions.get(connID)
	// The entry is erased unconditionally, whatever else happens.
	c.sessions.remove(connID)
	if !ok {
		return
	}

	room, exists := c.rooms[sess.RoomCode]
	if !exists {
		return
	}

	if sess.Role == RoleSpectator {
		delete(room.Spectators, connID)
		c.broadcast(room, Event{EventSpectatorCountUpdated, SpectatorCountPayload{Count: len(room.Spectators)}}, "")
		log.Info().Str("room", room.Code).Str("conn", connID).Msg("spectator left")
		return
	}

	// A player abandoned the match: the other side wins immediately.
	c.finishByAbandonment(room, sess.Role)
}

// finishByAbandonment is called with mu held.
func (c *Coordinator) finishByAbandonment(room *Room, leftRole Role) {
	room.Status = StatusFinished
	room.Winner = Winner(leftRole.Opposite())
	now := c.clock.Now()
	room.FinishedAt = &now

	if room.clock != nil {
		room.clock.Stop()
		room.clock = nil
	}

	c.broadcast(room, Event{EventPlayerLeft, PlayerLeftPayload{
		LeftPlayer: leftRole,
		Winner:     room.Winner,
	}}, "")

	code := room.Code
	c.clock.AfterFunc(c.cfg.CleanupGrace, func() {
		c.reapRoom(code)
	})

	log.Info().Str("room", code).Str("left", string(leftRole)).Str("winner", string(room.Winner)).Msg("player left, match forfeited")
}

// reapRoom deletes a room after its grace delay, unless spectators are
// still attached; lingering rooms are picked up by the janitor sweep
// once their spectators leave.
func (c *Coordinator) reapRoom(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[code]
	if !ok {
		return
	}
	if len(room.Spectators) > 0 {
		log.Info().Str("room", code).Int("spectators", len(room.Spectators)).Msg("room kept, spectators attached")
		return
	}
	delete(c.rooms, code)
	log.Info().Str("room", code).Msg("room deleted")
}

// Run drives the finished-room janitor until the context is done.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := c.clock.NewTicker(c.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("coordinator janitor stopping")
			return
		case <-ticker.Chan():
			c.sweepFinishedRooms()
		}
	}
}

// sweepFinishedRooms deletes finished rooms whose grace delay has
// elapsed and whose spectator set has emptied since the grace check.
func (c *Coordinator) sweepFinishedRooms() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	for code, room := range c.rooms {
		if room.Status != StatusFinished || room.FinishedAt == nil {
			continue
		}
		if len(room.Spectators) > 0 {
			continue
		}
		if now.Sub(*room.FinishedAt) >= c.cfg.CleanupGrace {
			delete(c.rooms, code)
			log.Info().Str("room", code).Msg("room deleted by sweep")
		}
	}
}

// Stats is the health endpoint's view of the coordinator.
type Stats struct {
	Rooms            int     `json:"rooms"`
	Connections      int     `json:"connections"`
	BattlesCompleted int     `json:"battlesCompleted"`
	UptimeSeconds    float64 `json:"uptime"`
}

// CurrentStats snapshots the process-wide counters.
func (c *Coordinator) CurrentStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Rooms:            len(c.rooms),
		Connections:      c.sessions.count(),
		BattlesCompleted: c.battlesCompleted,
		UptimeSeconds:    c.clock.Since(c.startedAt).Seconds(),
	}
}

// playerFor resolves a connection to its room and player slot.
// Returns a nil player for unknown connections and spectators.
// Callers must hold mu.
func (c *Coordinator) playerFor(connID string) (*Room, Role, *PlayerState) {
	sess, ok := c.sessions.get(connID)
	if !ok || sess.Role == RoleSpectator {
		return nil, "", nil
	}
	room, ok := c.rooms[sess.RoomCode]
	if !ok {
		return nil, "", nil
	}
	role, player := room.playerByConn(connID)
	return room, role, player
}

// broadcast fans an event out to every member of a room except the
// optional excluded sender. Callers must hold mu.
func (c *Coordinator) broadcast(room *Room, event Event, exclude string) {
	for _, connID := range room.memberConnIDs(exclude) {
		c.emitter.Emit(connID, event)
	}
}
