package duel

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// clockHandle is the only way to stop a running game clock. Stop is
// idempotent, so the time-zero path and the abandonment path can race
// without a double close. A room never holds two live handles.
type clockHandle struct {
	stop chan struct{}
	once sync.Once
}

func (h *clockHandle) Stop() {
	h.once.Do(func() {
		close(h.stop)
	})
}

// startClock launches the per-room ticking task. Called with mu held,
// at the moment the room turns active.
func (c *Coordinator) startClock(room *Room) {
	handle := &clockHandle{stop: make(chan struct{})}
	room.clock = handle
	go c.runClock(room.Code, handle)
	log.Debug().Str("room", room.Code).Msg("game clock started")
}

// runClock ticks once per second until the match ends or the handle is
// stopped. It holds no room state of its own: every tick re-resolves
// the room by code, so a tick after deletion is a safe no-op.
func (c *Coordinator) runClock(roomCode string, handle *clockHandle) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stop:
			return
		case <-ticker.Chan():
			if done := c.tick(roomCode); done {
				handle.Stop()
				return
			}
		}
	}
}

// tick advances one room by one second: countdown, time broadcast,
// mana regeneration, and end-of-match resolution at zero. Returns true
// when the clock should stop.
func (c *Coordinator) tick(roomCode string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomCode]
	if !ok {
		return true
	}
	if room.Status != StatusActive {
		return true
	}

	if room.TimeLeft > 0 {
		room.TimeLeft--
	}
	c.broadcast(room, Event{EventTimeUpdate, TimeUpdatePayload{TimeLeft: room.TimeLeft}}, "")

	regenMana(room.Host, c.cfg.ManaRegen)
	regenMana(room.Opponent, c.cfg.ManaRegen)

	if room.TimeLeft > 0 {
		return false
	}

	c.finishByTimeout(room)
	return true
}

// finishByTimeout resolves the match when the countdown reaches zero.
// Called with mu held.
func (c *Coordinator) finishByTimeout(room *Room) {
	room.Status = StatusFinished
	now := c.clock.Now()
	room.FinishedAt = &now
	room.clock = nil

	opponentName := ""
	var opponentResults *TestRunResult
	if room.Opponent != nil {
		opponentName = room.Opponent.Name
		opponentResults = room.Opponent.TestResults
	}
	verdict := ResolveWinner(room.Host.Name, opponentName, room.Host.TestResults, opponentResults)
	room.Winner = verdict.Winner
	room.WinReason = verdict.WinReason

	c.battlesCompleted++

	c.broadcast(room, Event{EventGameOver, GameOverPayload{
		Winner:      verdict.Winner,
		WinReason:   verdict.WinReason,
		FinalScores: verdict.FinalScores,
	}}, "")

	code := room.Code
	c.clock.AfterFunc(c.cfg.CleanupGrace, func() {
		c.reapRoom(code)
	})

	log.Info().
		Str("room", code).
		Str("winner", string(verdict.Winner)).
		Str("reason", verdict.WinReason).
		Msg("match finished")
}

func regenMana(p *PlayerState, amount int) {
	if p == nil {
		return
	}
	p.Mana += amount
	if p.Mana > maxMana {
		p.Mana = maxMana
	}
}
