package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "3001", config.Server.Port)
	assert.Equal(t, "*", config.Server.CORSOrigin)
	assert.Empty(t, config.Piston.URL)
	assert.Equal(t, 2, config.Match.SubmitCooldownSeconds)
	assert.Equal(t, 30, config.Match.CleanupGraceSeconds)
	assert.Equal(t, 30, config.Match.SweepIntervalSeconds)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
  cors_origin: "https://duel.example.com"
piston:
  url: "http://piston.internal:2000/api/v2/piston"
match:
  submit_cooldown_seconds: 5
  cleanup_grace_seconds: 60
`), 0o644))

	config, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", config.Server.Port)
	assert.Equal(t, "https://duel.example.com", config.Server.CORSOrigin)
	assert.Equal(t, "http://piston.internal:2000/api/v2/piston", config.Piston.URL)
	assert.Equal(t, 5, config.Match.SubmitCooldownSeconds)
	assert.Equal(t, 60, config.Match.CleanupGraceSeconds)
	assert.Equal(t, 30, config.Match.SweepIntervalSeconds, "missing keys keep defaults")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("SUBMIT_COOLDOWN_SECONDS", "7")
	t.Setenv("CLEANUP_GRACE_SECONDS", "not a number")

	config, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8088", config.Server.Port)
	assert.Equal(t, 7, config.Match.SubmitCooldownSeconds)
	assert.Equal(t, 30, config.Match.CleanupGraceSeconds, "unparseable env values are ignored")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestMatchConfig(t *testing.T) {
	config, err := loadConfig("")
	require.NoError(t, err)
	config.Match.SubmitCooldownSeconds = 3

	mc := config.matchConfig()
	assert.Equal(t, 3*time.Second, mc.SubmitCooldown)
	assert.Equal(t, 30*time.Second, mc.CleanupGrace)
	assert.Equal(t, 50000, mc.MaxCodeSize, "compiled-in limits survive translation")
}
