package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/sushiforbots/internal/config"
	"github.com/lox/sushiforbots/internal/display"
	"github.com/lox/sushiforbots/internal/fileutil"
	"github.com/lox/sushiforbots/sdk/client"
)

type BotCmd struct {
	Game      string `help:"Game to join (defaults to the configured game)"`
	Name      string `help:"Player name (defaults to the configured name or a generated one)"`
	Strategy  string `help:"Strategy (first|random|priority)"`
	Weights   string `type:"path" help:"YAML weight file for the priority strategy"`
	Rejoin    string `help:"Rejoin token from an earlier connection"`
	TokenFile string `type:"path" help:"Save the rejoin token to this file once the game starts"`
	Resume    bool   `help:"Rejoin with the token saved in --token-file"`
	Rounds    bool   `help:"Print every round's score breakdown"`
}

func (c *BotCmd) Run(g *Globals) error {
	if c.Resume && c.TokenFile == "" {
		return fmt.Errorf("--resume needs --token-file")
	}
	rejoin := c.Rejoin
	if c.Resume {
		token, err := fileutil.LoadToken(c.TokenFile)
		if err != nil {
			return err
		}
		rejoin = token
	}

	cfg, err := g.load()
	if err != nil {
		return err
	}
	if err := applyPlayerFlags(cfg, c.Strategy, c.Weights); err != nil {
		return err
	}

	logger, closeLog, err := g.logger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	strategy, err := newStrategy(cfg.Player, 0)
	if err != nil {
		return err
	}
	name := playerName(firstNonEmpty(c.Name, cfg.Player.Name), cfg.Player.Strategy)

	hooks := strategyHooks(strategy)
	if c.TokenFile != "" {
		inner := hooks.OnGameStart
		hooks.OnGameStart = func(state client.GameState) {
			if inner != nil {
				inner(state)
			}
			if state.RejoinToken == "" {
				return
			}
			if err := fileutil.SaveToken(c.TokenFile, state.RejoinToken); err != nil {
				logger.Warn("Failed to save rejoin token", "error", err)
			}
		}
	}

	session, err := connect(ctx, cfg, strategy, logger.With("player", name), client.WithHooks(hooks))
	if err != nil {
		return err
	}

	var state client.GameState
	if rejoin != "" {
		state, err = session.ResumeGame(ctx, rejoin, name)
	} else {
		state, err = session.RunGame(ctx, firstNonEmpty(c.Game, cfg.Player.Game), name)
	}
	if errors.Is(err, client.ErrCancelled) {
		return nil
	}
	if err != nil {
		if state.RejoinToken != "" && c.TokenFile == "" {
			logger.Warn("Game interrupted, resume with --rejoin", "token", state.RejoinToken)
		}
		return err
	}

	printResult(g.printer(os.Stdout), state, c.Rounds)
	return nil
}

type TournamentCmd struct {
	ID       string `arg:"" help:"Tournament to enter"`
	Name     string `help:"Player name (defaults to the configured name or a generated one)"`
	Strategy string `help:"Strategy (first|random|priority)"`
	Weights  string `type:"path" help:"YAML weight file for the priority strategy"`
}

func (c *TournamentCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if err := applyPlayerFlags(cfg, c.Strategy, c.Weights); err != nil {
		return err
	}

	logger, closeLog, err := g.logger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	strategy, err := newStrategy(cfg.Player, 0)
	if err != nil {
		return err
	}
	name := playerName(firstNonEmpty(c.Name, cfg.Player.Name), cfg.Player.Strategy)

	p := g.printer(os.Stdout)
	session, err := connect(ctx, cfg, strategy, logger.With("player", name),
		client.WithHooks(tournamentHooks(strategy, p)))
	if err != nil {
		return err
	}

	state, err := session.RunTournament(ctx, c.ID, name)
	if errors.Is(err, client.ErrCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	p.Print(fmt.Sprintf("Tournament %s won by %s\n", c.ID, state.TournamentWinner))
	return nil
}

// strategyHooks returns the hooks the strategy relies on, if any, so the
// CLI can chain its own callbacks onto them.
func strategyHooks(strategy client.Strategy) client.Hooks {
	if hp, ok := strategy.(client.HookProvider); ok {
		return hp.Hooks()
	}
	return client.Hooks{}
}

// tournamentHooks prints each finished match.
func tournamentHooks(strategy client.Strategy, p *display.Printer) client.Hooks {
	hooks := strategyHooks(strategy)
	inner := hooks.OnGameEnd
	hooks.OnGameEnd = func(state client.GameState) {
		if inner != nil {
			inner(state)
		}
		p.Print(p.Scoreboard(state))
	}
	return hooks
}

func connect(ctx context.Context, cfg *config.Config, strategy client.Strategy, logger *log.Logger, opts ...client.Option) (*client.Session, error) {
	conn, err := client.Dial(ctx, cfg.Server.Address, client.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Server.Address, err)
	}
	opts = append([]client.Option{client.WithLogger(logger)}, opts...)
	return client.NewSession(conn, strategy, opts...), nil
}

func printResult(p *display.Printer, state client.GameState, rounds bool) {
	if rounds {
		for _, round := range slices.Sorted(maps.Keys(state.RoundScores)) {
			p.Print(p.RoundTable(round, state.RoundScores[round]))
		}
	}
	p.Print(p.Scoreboard(state))
	p.Print(p.Outcome(state) + "\n")
}

func applyPlayerFlags(cfg *config.Config, strategy, weights string) error {
	if strategy != "" {
		cfg.Player.Strategy = strategy
	}
	if weights != "" {
		cfg.Player.Weights = weights
	}
	return cfg.Validate()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
