package duel

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/codeduel/go/clients/piston"
)

func TestSubmitCodeValidation(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		language string
		expected error
	}{
		{"empty code", "", "javascript", ErrEmptyCode},
		{"oversized code", strings.Repeat("a", 50001), "javascript", ErrCodeTooLong},
		{"unsupported language", "print(1)", "brainfuck", ErrInvalidLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCoordinator(t, nil)
			code := createRoom(t, c, "conn-1")

			err := c.SubmitCode(context.Background(), "conn-1", tt.code, tt.language)
			assert.ErrorIs(t, err, tt.expected)

			// A rejected submission spends no cooldown.
			assert.NoError(t, c.SubmitCode(context.Background(), "conn-1", "ok", "javascript"))
			assert.NotNil(t, c.rooms[code].Host.TestResults)
		})
	}
}

func TestSubmitCodeLanguageCaseInsensitive(t *testing.T) {
	c, _, _ := newTestCoordinator(t, nil)
	createRoom(t, c, "conn-1")
	assert.NoError(t, c.SubmitCode(context.Background(), "conn-1", "ok", "JavaScript"))
}

func TestSubmitCodeCooldown(t *testing.T) {
	c, fc, _ := newTestCoordinator(t, nil)
	createRoom(t, c, "conn-1")

	require.NoError(t, c.SubmitCode(context.Background(), "conn-1", "ok", "javascript"))

	err := c.SubmitCode(context.Background(), "conn-1", "ok", "javascript")
	require.Error(t, err)
	assert.Equal(t, "Please wait 2s before submitting again", err.Error())

	// More rejected retries do not push the window out.
	fc.Advance(time.Second)
	require.Error(t, c.SubmitCode(context.Background(), "conn-1", "ok", "javascript"))

	fc.Advance(time.Second)
	assert.NoError(t, c.SubmitCode(context.Background(), "conn-1", "ok", "javascript"))
}

func TestSubmitCodeUnknownConnAndSpectator(t *testing.T) {
	c, _, rec := newTestCoordinator(t, nil)
	code := createRoom(t, c, "conn-1")
	require.NoError(t, c.Spectate("spec-1", code))

	assert.NoError(t, c.SubmitCode(context.Background(), "ghost", "ok", "javascript"))
	assert.NoError(t, c.SubmitCode(context.Background(), "spec-1", "ok", "javascript"))
	assert.Equal(t, 0, rec.count("spec-1", EventTestResults))
}

func TestSubmitCodeAggregatesResults(t *testing.T) {
	// Passes the first two cases, garbles the third.
	runner := runnerFunc(func(_ context.Context, _, _, stdin string) piston.ExecutionResult {
		if stdin == "gamma" {
			return piston.ExecutionResult{Success: true, Status: "Accepted", Stdout: "wrong"}
		}
		return piston.ExecutionResult{Success: true, Status: "Accepted", Stdout: stdin + "\n"}
	})
	c, _, rec := newTestCoordinator(t, runner)
	code := createRoom(t, c, "conn-1")
	require.NoError(t, c.JoinRoom("conn-2", code, "Bob"))
	c.rooms[code].clock.Stop()

	require.NoError(t, c.SubmitCode(context.Background(), "conn-1", "solution", "javascript"))

	results := c.rooms[code].Host.TestResults
	require.NotNil(t, results)
	assert.Equal(t, 3, results.TotalTests)
	assert.Equal(t, 2, results.PassedTests)
	assert.Equal(t, 1, results.FailedTests)
	assert.False(t, results.AllPassed)
	require.Len(t, results.Results, 3)
	assert.Equal(t, 1, results.Results[0].TestCase)
	assert.True(t, results.Results[0].Passed, "trailing whitespace is trimmed before comparing")
	assert.False(t, results.Results[2].Passed)
	assert.Equal(t, "wrong", results.Results[2].ActualOutput)

	evt, ok := rec.last("conn-1", EventTestResults)
	require.True(t, ok)
	assert.Equal(t, results, evt.Data.(TestResultsPayload).Results)

	notified, ok := rec.last("conn-2", EventOpponentSubmitted)
	require.True(t, ok)
	payload := notified.Data.(OpponentSubmittedPayload)
	assert.Equal(t, 2, payload.PassedTests)
	assert.Equal(t, 3, payload.TotalTests)
	assert.False(t, payload.AllPassed)

	assert.False(t, c.rooms[code].Host.submitting)
}

func TestSubmitCodeFailedExecutionCounts(t *testing.T) {
	runner := runnerFunc(func(_ context.Context, _, _, _ string) piston.ExecutionResult {
		return piston.ExecutionResult{Success: false, Status: "Runtime Error", Stderr: "boom", Error: "boom"}
	})
	c, _, _ := newTestCoordinator(t, runner)
	code := createRoom(t, c, "conn-1")

	require.NoError(t, c.SubmitCode(context.Background(), "conn-1", "solution", "javascript"))

	results := c.rooms[code].Host.TestResults
	require.NotNil(t, results)
	assert.Equal(t, 0, results.PassedTests)
	assert.Equal(t, 3, results.FailedTests)
	assert.Equal(t, "boom", results.Results[0].Error)
}

func TestSubmitCodeUnlocksPowerUps(t *testing.T) {
	c, fc, rec := newTestCoordinator(t, nil)
	code := createRoom(t, c, "conn-1")

	require.NoError(t, c.SubmitCode(context.Background(), "conn-1", "solution", "javascript"))

	host := c.rooms[code].Host
	assert.True(t, host.PowerUpsUnlocked)
	assert.Equal(t, 1, rec.count("conn-1", EventPowerUpsUnlocked))

	evt, _ := rec.last("conn-1", EventTestResults)
	assert.True(t, evt.Data.(TestResultsPayload).PowerUpsUnlocked)

	// A second full pass does not announce the unlock again.
	fc.Advance(2 * time.Second)
	require.NoError(t, c.SubmitCode(context.Background(), "conn-1", "solution", "javascript"))
	assert.Equal(t, 1, rec.count("conn-1", EventPowerUpsUnlocked))
	assert.True(t, host.PowerUpsUnlocked)
}

func TestSubmitCodeRejectsOverlappingRuns(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	runner := runnerFunc(func(_ context.Context, _, _, stdin string) piston.ExecutionResult {
		if stdin == "alpha" {
			close(entered)
			<-release
		}
		return piston.ExecutionResult{Success: true, Status: "Accepted", Stdout: stdin}
	})
	c, fc, _ := newTestCoordinator(t, runner)
	code := createRoom(t, c, "conn-1")

	done := make(chan error, 1)
	go func() {
		done <- c.SubmitCode(context.Background(), "conn-1", "solution", "javascript")
	}()
	<-entered

	// The first run is still executing; step past the cooldown so the
	// in-flight guard is what rejects.
	fc.Advance(2 * time.Second)
	err := c.SubmitCode(context.Background(), "conn-1", "solution", "javascript")
	assert.ErrorIs(t, err, ErrAlreadySubmitting)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.rooms[code].Host.submitting)
}

func TestSubmitCodeCancelled(t *testing.T) {
	c, _, rec := newTestCoordinator(t, nil)
	createRoom(t, c, "conn-1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.SubmitCode(ctx, "conn-1", "solution", "javascript"))

	evt, ok := rec.last("conn-1", EventTestResults)
	require.True(t, ok)
	payload := evt.Data.(TestResultsPayload)
	assert.Nil(t, payload.Results)
	assert.Contains(t, payload.Error, "execution cancelled")
}

func TestSubmitCodeRoomDeletedDuringRun(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	runner := runnerFunc(func(_ context.Context, _, _, stdin string) piston.ExecutionResult {
		once.Do(func() { close(entered) })
		<-release
		return piston.ExecutionResult{Success: true, Status: "Accepted", Stdout: stdin}
	})
	c, _, rec := newTestCoordinator(t, runner)
	code := createRoom(t, c, "conn-1")

	done := make(chan error, 1)
	go func() {
		done <- c.SubmitCode(context.Background(), "conn-1", "solution", "javascript")
	}()
	<-entered

	c.mu.Lock()
	delete(c.rooms, code)
	c.mu.Unlock()

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 0, rec.count("conn-1", EventTestResults))
}
