package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/lox/sushiforbots/sdk/client"
	"golang.org/x/sync/errgroup"
)

type SwarmCmd struct {
	Game     string `help:"Game to join (defaults to the configured game)"`
	Count    int    `short:"n" default:"4" help:"Number of bots to run"`
	Prefix   string `default:"bot" help:"Name prefix; bots are named <prefix>-<n>"`
	Strategy string `help:"Strategy (first|random|priority)"`
	Weights  string `type:"path" help:"YAML weight file for the priority strategy"`
}

func (c *SwarmCmd) Run(g *Globals) error {
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1")
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

	game := firstNonEmpty(c.Game, cfg.Player.Game)
	logger.Info("Starting swarm", "game", game, "count", c.Count, "strategy", cfg.Player.Strategy)

	var (
		mu      sync.Mutex
		results []client.GameState
	)
	group, gctx := errgroup.WithContext(ctx)
	for i := range c.Count {
		strategy, err := newStrategy(cfg.Player, i)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s-%d", c.Prefix, i+1)

		group.Go(func() error {
			session, err := connect(gctx, cfg, strategy, logger.With("player", name))
			if err != nil {
				return err
			}
			state, err := session.RunGame(gctx, game, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			mu.Lock()
			results = append(results, state)
			mu.Unlock()
			return nil
		})
	}

	err = group.Wait()
	if errors.Is(err, client.ErrCancelled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}

	// Every bot saw the same final scores; the first is enough.
	if len(results) > 0 {
		p := g.printer(os.Stdout)
		p.Print(p.Scoreboard(results[0]))
	}
	return nil
}
