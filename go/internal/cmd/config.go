package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/codeduel/go/internal/duel"
)

// Config is the server configuration, loaded from an optional YAML
// file with environment variable overrides on top.
type Config struct {
	Server struct {
		Port       string `yaml:"port"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
	Piston struct {
		URL string `yaml:"url"`
	} `yaml:"piston"`
	Match struct {
		SubmitCooldownSeconds int `yaml:"submit_cooldown_seconds"`
		CleanupGraceSeconds   int `yaml:"cleanup_grace_seconds"`
		SweepIntervalSeconds  int `yaml:"sweep_interval_seconds"`
	} `yaml:"match"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Env overrides win over the file, defaults fill the rest.
	config.Server.Port = getEnv("PORT", defaultString(config.Server.Port, "3001"))
	config.Server.CORSOrigin = getEnv("CORS_ORIGIN", defaultString(config.Server.CORSOrigin, "*"))
	config.Piston.URL = getEnv("PISTON_API_URL", config.Piston.URL)
	config.Match.SubmitCooldownSeconds = getEnvAsInt("SUBMIT_COOLDOWN_SECONDS", defaultInt(config.Match.SubmitCooldownSeconds, 2))
	config.Match.CleanupGraceSeconds = getEnvAsInt("CLEANUP_GRACE_SECONDS", defaultInt(config.Match.CleanupGraceSeconds, 30))
	config.Match.SweepIntervalSeconds = getEnvAsInt("SWEEP_INTERVAL_SECONDS", defaultInt(config.Match.SweepIntervalSeconds, 30))

	return &config, nil
}

// matchConfig translates the file/env settings into coordinator
// tunables, keeping the compiled-in defaults for everything else.
func (c *Config) matchConfig() duel.Config {
	cfg := duel.DefaultConfig()
	cfg.SubmitCooldown = time.Duration(c.Match.SubmitCooldownSeconds) * time.Second
	cfg.CleanupGrace = time.Duration(c.Match.CleanupGraceSeconds) * time.Second
	cfg.SweepInterval = time.Duration(c.Match.SweepIntervalSeconds) * time.Second
	return cfg
}

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func defaultInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}
