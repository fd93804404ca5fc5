package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/lox/sushiforbots/internal/config"
	"github.com/lox/sushiforbots/internal/display"
	sdkconfig "github.com/lox/sushiforbots/sdk/config"
	"github.com/muesli/termenv"
)

// Globals are flags shared by every command. Set flags override the
// environment, which overrides the config file.
type Globals struct {
	Config   string `short:"c" default:"sushiforbots.hcl" type:"path" help:"Path to HCL configuration file"`
	Server   string `help:"Server address (host:port)"`
	API      string `help:"Admin API base URL"`
	LogLevel string `help:"Log level (debug|info|warn|error)"`
	NoColor  bool   `help:"Disable colored output"`
}

// load resolves the effective configuration.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env, err := sdkconfig.Lookup()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)

	if g.Server != "" {
		cfg.Server.Address = g.Server
	}
	if g.API != "" {
		cfg.Server.API = g.API
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logger opens the configured log destination. The returned closer must be
// called when the command finishes.
func (g *Globals) logger(cfg *config.Config) (*log.Logger, func(), error) {
	if cfg.Log.File == "" {
		return cfg.Logger(os.Stderr), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return cfg.Logger(f), func() { _ = f.Close() }, nil
}

func (g *Globals) printer(w io.Writer) *display.Printer {
	if g.NoColor || os.Getenv("NO_COLOR") != "" {
		return display.New(w, display.Plain())
	}
	return display.New(w, termenv.WithColorCache(true))
}

// setupSignalHandler creates a context that is cancelled on interrupt signals
func setupSignalHandler(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

// playerName returns the configured name or a generated one.
func playerName(name, prefix string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s-%04d", prefix, rand.IntN(10000))
}
