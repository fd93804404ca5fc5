package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/sushiforbots/internal/config"
	"github.com/lox/sushiforbots/protocol"
	"github.com/lox/sushiforbots/sdk/admin"
	"github.com/lox/sushiforbots/sdk/client"
)

const adminTimeout = 15 * time.Second

type GamesCmd struct {
	Lobby bool `help:"Ask the game server over the line protocol instead of the admin API"`
}

func (c *GamesCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()

	var games []protocol.GameInfo
	if c.Lobby {
		games, err = lobbyGames(ctx, cfg)
	} else {
		games, err = admin.New(cfg.Server.API).ListGames(ctx)
	}
	if err != nil {
		return err
	}

	p := g.printer(os.Stdout)
	p.Print(p.Games(games))
	return nil
}

func lobbyGames(ctx context.Context, cfg *config.Config) ([]protocol.GameInfo, error) {
	conn, err := client.Dial(ctx, cfg.Server.Address, client.WithTimeout(cfg.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Server.Address, err)
	}
	session := client.NewSession(conn, nil)
	defer session.Close()
	return session.ListGames(ctx)
}

type TournamentsCmd struct{}

func (c *TournamentsCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()

	tournaments, err := admin.New(cfg.Server.API).ListTournaments(ctx)
	if err != nil {
		return err
	}
	if len(tournaments) == 0 {
		fmt.Println("no tournaments")
		return nil
	}
	for _, t := range tournaments {
		fmt.Printf("%-12s %-10s %d/%d players, matches of %d\n", t.ID, t.Status, t.PlayerCount, t.MaxPlayers, t.MatchSize)
	}
	return nil
}

type CreateGameCmd struct {
	MaxPlayers int `default:"4" help:"Maximum players (2-5)"`
}

func (c *CreateGameCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()

	created, err := admin.New(cfg.Server.API).CreateGame(ctx, c.MaxPlayers)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, created)
}

type CreateTournamentCmd struct {
	MaxPlayers int `default:"8" help:"Maximum entrants"`
	MatchSize  int `default:"2" help:"Players per match"`
}

func (c *CreateTournamentCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()

	created, err := admin.New(cfg.Server.API).CreateTournament(ctx, c.MaxPlayers, c.MatchSize)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, created)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
