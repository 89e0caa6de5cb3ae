package duel

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/codeduel/go/clients/piston"
	"github.com/mcdev12/codeduel/go/internal/challenge"
)

// CodeRunner executes one piece of code against one stdin. A failed
// execution comes back as a result record, never a Go error, so it
// aggregates like any other outcome.
type CodeRunner interface {
	Execute(ctx context.Context, code, language, stdin string) piston.ExecutionResult
}

// TestCaseResult is the detail row for one test case.
type TestCaseResult struct {
	TestCase       int     `json:"testCase"`
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expectedOutput"`
	ActualOutput   string  `json:"actualOutput"`
	Passed         bool    `json:"passed"`
	Error          string  `json:"error,omitempty"`
	Time           float64 `json:"time"`
}

// TestRunResult aggregates one submission's outcome across all test
// cases, in submission order.
type TestRunResult struct {
	TotalTests  int              `json:"totalTests"`
	PassedTests int              `json:"passedTests"`
	FailedTests int              `json:"failedTests"`
	AllPassed   bool             `json:"allPassed"`
	Results     []TestCaseResult `json:"results"`
}

// SubmitCode runs a player's code against the room's test cases.
// Rejections (cooldown, validation, in-flight lock) return an error
// and change no state; execution-service failure is surfaced to the
// player as a result event, not an error.
func (c *Coordinator) SubmitCode(ctx context.Context, connID, code, language string) error {
	c.mu.Lock()

	sess, ok := c.sessions.get(connID)
	if !ok || sess.Role == RoleSpectator {
		c.mu.Unlock()
		return nil
	}
	room, ok := c.rooms[sess.RoomCode]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	role, player := room.playerByConn(connID)
	if player == nil {
		c.mu.Unlock()
		return nil
	}

	// The cooldown token is only meant to be spent on an accepted
	// submission, so the reservation is cancelled on every rejection
	// path below.
	now := c.clock.Now()
	reservation := sess.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		c.mu.Unlock()
		wait := int(math.Ceil(delay.Seconds()))
		return fmt.Errorf("Please wait %ds before submitting again", wait)
	}

	if reject := validateSubmission(code, language, c.cfg.MaxCodeSize); reject != nil {
		reservation.CancelAt(now)
		c.mu.Unlock()
		return reject
	}

	if player.submitting {
		reservation.CancelAt(now)
		c.mu.Unlock()
		return ErrAlreadySubmitting
	}

	player.submitting = true
	roomCode := sess.RoomCode
	testCases := room.Challenge.TestCases
	c.mu.Unlock()

	log.Info().Str("room", roomCode).Str("role", string(role)).Str("language", language).Msg("submission accepted")

	// Execution spans seconds; the lock is released for the duration
	// and the submitting flag is what keeps reentry out.
	results, execErr := c.runTestCases(ctx, code, language, testCases)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-resolve everything: the room may have finished or been
	// deleted, and the player may have disconnected, while we were
	// executing. The flag is cleared in every reachable state.
	room, ok = c.rooms[roomCode]
	if !ok {
		return nil
	}
	_, player = room.playerByConn(connID)
	if player == nil {
		return nil
	}
	player.submitting = false

	if execErr != nil {
		log.Error().Err(execErr).Str("room", roomCode).Str("role", string(role)).Msg("submission execution failed")
		c.emitter.Emit(connID, Event{EventTestResults, TestResultsPayload{
			Results: nil,
			Error:   execErr.Error(),
		}})
		return nil
	}

	player.TestResults = results

	if results.AllPassed && !player.PowerUpsUnlocked {
		player.PowerUpsUnlocked = true
		c.emitter.Emit(connID, Event{EventPowerUpsUnlocked, PowerUpsUnlockedPayload{
			Message: "All tests passed! Power-ups unlocked!",
		}})
		log.Info().Str("room", roomCode).Str("role", string(role)).Msg("power-ups unlocked")
	}

	c.emitter.Emit(connID, Event{EventTestResults, TestResultsPayload{
		Results:          results,
		PowerUpsUnlocked: player.PowerUpsUnlocked,
	}})

	if other := room.player(role.Opposite()); other != nil {
		c.emitter.Emit(other.ConnID, Event{EventOpponentSubmitted, OpponentSubmittedPayload{
			PassedTests: results.PassedTests,
			TotalTests:  results.TotalTests,
			AllPassed:   results.AllPassed,
		}})
	}

	return nil
}

func validateSubmission(code, language string, maxCodeSize int) error {
	if len(code) == 0 {
		return ErrEmptyCode
	}
	if len(code) > maxCodeSize {
		return ErrCodeTooLong
	}
	if !challenge.IsSupported(strings.ToLower(language)) {
		return ErrInvalidLanguage
	}
	return nil
}

// runTestCases executes the submission once per test case, strictly in
// order, building the aggregate incrementally. A test passes only when
// the execution succeeded and the trimmed outputs match exactly.
func (c *Coordinator) runTestCases(ctx context.Context, code, language string, testCases []challenge.TestCase) (*TestRunResult, error) {
	run := &TestRunResult{
		TotalTests: len(testCases),
		Results:    make([]TestCaseResult, 0, len(testCases)),
	}

	for i, tc := range testCases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("execution cancelled: %w", err)
		}

		result := c.runner.Execute(ctx, code, language, tc.Input)

		actual := strings.TrimSpace(result.Stdout)
		expected := strings.TrimSpace(tc.ExpectedOutput)
		passed := result.Success && actual == expected
		if passed {
			run.PassedTests++
		}

		run.Results = append(run.Results, TestCaseResult{
			TestCase:       i + 1,
			Input:          tc.Input,
			ExpectedOutput: expected,
			ActualOutput:   actual,
			Passed:         passed,
			Error:          result.Error,
			Time:           result.Time,
		})
	}

	run.FailedTests = run.TotalTests - run.PassedTests
	run.AllPassed = run.PassedTests == run.TotalTests && run.TotalTests > 0
	return run, nil
}
