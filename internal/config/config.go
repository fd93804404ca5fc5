// Package config loads the CLI's HCL configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	sdkconfig "github.com/lox/sushiforbots/sdk/config"
)

// Config represents the complete CLI configuration
type Config struct {
	Server ServerSettings
	Player PlayerSettings
	Log    LogSettings
}

// ServerSettings contains server connection settings
type ServerSettings struct {
	Address string
	API     string
	Timeout time.Duration
}

// serverBlock is the file form of ServerSettings. The timeout accepts
// whole seconds (45) or a duration string ("500ms").
type serverBlock struct {
	Address string `hcl:"address,optional"`
	API     string `hcl:"api,optional"`
	Timeout string `hcl:"timeout,optional"`
}

// PlayerSettings contains bot settings
type PlayerSettings struct {
	Game     string `hcl:"game,optional"`
	Name     string `hcl:"name,optional"`
	Strategy string `hcl:"strategy,optional"`
	Weights  string `hcl:"weights,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// LogSettings contains logging settings
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// fileConfig mirrors Config with every block optional.
type fileConfig struct {
	Server *serverBlock    `hcl:"server,block"`
	Player *PlayerSettings `hcl:"player,block"`
	Log    *LogSettings    `hcl:"log,block"`
}

var (
	validLogLevels  = map[string]log.Level{"debug": log.DebugLevel, "info": log.InfoLevel, "warn": log.WarnLevel, "error": log.ErrorLevel}
	validStrategies = map[string]bool{"first": true, "random": true, "priority": true}
)

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerSettings{
			Address: "localhost:7878",
			API:     "http://localhost:7878",
			Timeout: sdkconfig.DefaultTimeout,
		},
		Player: PlayerSettings{
			Game:     sdkconfig.DefaultGameID,
			Strategy: "priority",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load reads an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if s := fc.Server; s != nil {
		cfg.Server.Address = orDefault(s.Address, cfg.Server.Address)
		cfg.Server.API = orDefault(s.API, cfg.Server.API)
		if s.Timeout != "" {
			timeout, err := sdkconfig.ParseTimeout(s.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid server timeout: %w", err)
			}
			cfg.Server.Timeout = timeout
		}
	}
	if p := fc.Player; p != nil {
		cfg.Player.Game = orDefault(p.Game, cfg.Player.Game)
		cfg.Player.Name = p.Name
		cfg.Player.Strategy = orDefault(p.Strategy, cfg.Player.Strategy)
		cfg.Player.Weights = p.Weights
		cfg.Player.Seed = p.Seed
	}
	if l := fc.Log; l != nil {
		cfg.Log.Level = orDefault(l.Level, cfg.Log.Level)
		cfg.Log.File = l.File
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ApplyEnv overlays the variables that were set. Zero fields in env are
// treated as unset; see sdkconfig.Lookup.
func (c *Config) ApplyEnv(env *sdkconfig.BotConfig) {
	if env == nil {
		return
	}
	c.Server.Address = orDefault(env.Server, c.Server.Address)
	c.Server.API = orDefault(env.APIURL, c.Server.API)
	c.Player.Game = orDefault(env.GameID, c.Player.Game)
	c.Player.Name = orDefault(env.Name, c.Player.Name)
	if env.Seed != 0 {
		c.Player.Seed = env.Seed
	}
	if env.Timeout != 0 {
		c.Server.Timeout = env.Timeout
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Player.Game == "" {
		return fmt.Errorf("game is required")
	}
	if _, ok := validLogLevels[c.Log.Level]; !ok {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if !validStrategies[c.Player.Strategy] {
		return fmt.Errorf("invalid strategy: %s", c.Player.Strategy)
	}
	if c.Player.Weights != "" && c.Player.Strategy != "priority" {
		return fmt.Errorf("weights only apply to the priority strategy")
	}
	return nil
}

// Timeout returns the per-operation network timeout
func (c *Config) Timeout() time.Duration {
	return c.Server.Timeout
}

// Logger builds a logger at the configured level writing to w
func (c *Config) Logger(w io.Writer) *log.Logger {
	logger := log.New(w)
	level, ok := validLogLevels[c.Log.Level]
	if !ok {
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	logger.SetReportTimestamp(true)
	return logger
}
