// Package config provides configuration parsing for sushiforbots clients.
// It defines the standard environment variables read by bots and the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names
const (
	// EnvServer is the host:port of the game server's line protocol
	EnvServer = "SUSHIGO_SERVER"

	// EnvAPI is the base URL of the HTTP admin API
	EnvAPI = "SUSHIGO_API"

	// EnvGame specifies the game to join
	EnvGame = "SUSHIGO_GAME"

	// EnvName is the player name used when joining
	EnvName = "SUSHIGO_NAME"

	// EnvSeed provides a random seed for deterministic testing
	EnvSeed = "SUSHIGO_SEED"

	// EnvTimeout is the per-operation network timeout, either a Go
	// duration ("45s") or whole seconds ("45")
	EnvTimeout = "SUSHIGO_TIMEOUT"
)

const (
	DefaultGameID  = "default"
	DefaultTimeout = 30 * time.Second
)

// BotConfig holds configuration parsed from environment variables
type BotConfig struct {
	// Server is the host:port to dial
	Server string

	// APIURL is the admin API base URL (optional)
	APIURL string

	// GameID is the target game to join (defaults to "default")
	GameID string

	// Name is the player name (optional)
	Name string

	// Seed is the random seed for deterministic behavior (0 means not set)
	Seed int64

	// Timeout is the per-operation network deadline
	Timeout time.Duration
}

// FromEnv parses configuration from environment variables and fills in
// defaults. Returns an error if required variables are missing or invalid.
func FromEnv() (*BotConfig, error) {
	cfg, err := Lookup()
	if err != nil {
		return nil, err
	}
	if cfg.Server == "" {
		return nil, fmt.Errorf("%s environment variable is required", EnvServer)
	}
	if cfg.GameID == "" {
		cfg.GameID = DefaultGameID
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg, nil
}

// Lookup reads each environment variable independently. Unset variables
// leave their field at the zero value, so callers can overlay only what
// was actually set.
func Lookup() (*BotConfig, error) {
	cfg := &BotConfig{
		Server: os.Getenv(EnvServer),
		APIURL: os.Getenv(EnvAPI),
		GameID: os.Getenv(EnvGame),
		Name:   os.Getenv(EnvName),
	}

	if seedStr := os.Getenv(EnvSeed); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}

	if timeoutStr := os.Getenv(EnvTimeout); timeoutStr != "" {
		timeout, err := ParseTimeout(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvTimeout, err)
		}
		cfg.Timeout = timeout
	}

	return cfg, nil
}

// ParseTimeout accepts whole seconds ("45") or a Go duration ("500ms").
// The result must be positive.
func ParseTimeout(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", secs)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}
