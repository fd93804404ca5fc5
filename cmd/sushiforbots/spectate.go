package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/lox/sushiforbots/sdk/spectate"
)

type SpectateCmd struct {
	ID         string `arg:"" help:"Game or tournament to watch"`
	Tournament bool   `help:"Watch a tournament instead of a game"`
	Limit      int    `help:"Stop after N events (0 for unlimited)"`
	Raw        bool   `help:"Print raw JSON frames"`
}

func (c *SpectateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger, closeLog, err := g.logger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	target := spectate.Target{Kind: spectate.Game, ID: c.ID}
	if c.Tournament {
		target.Kind = spectate.Tournament
	}
	logger.Info("Watching", "kind", target.Kind, "id", target.ID, "api", cfg.Server.API)

	seen := 0
	err = spectate.Watch(ctx, cfg.Server.API, target, func(ev spectate.Event) error {
		if c.Raw {
			fmt.Fprintln(os.Stdout, string(ev.Raw))
		} else {
			logger.Info("Event", "type", ev.Type, "data", ev.Data)
		}
		seen++
		if c.Limit > 0 && seen >= c.Limit {
			return spectate.ErrStop
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
