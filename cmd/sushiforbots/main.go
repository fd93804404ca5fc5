package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version          kong.VersionFlag    `short:"v" help:"Show version"`
	Bot              BotCmd              `cmd:"" help:"Play one game with a built-in strategy"`
	Tournament       TournamentCmd       `cmd:"" help:"Enter a tournament and play every assigned match"`
	Swarm            SwarmCmd            `cmd:"" help:"Fill a game with several bots at once"`
	Games            GamesCmd            `cmd:"" help:"List games on the server"`
	Tournaments      TournamentsCmd      `cmd:"" help:"List tournaments on the server"`
	CreateGame       CreateGameCmd       `cmd:"create-game" help:"Create a game through the admin API"`
	CreateTournament CreateTournamentCmd `cmd:"create-tournament" help:"Create a tournament through the admin API"`
	Spectate         SpectateCmd         `cmd:"" help:"Stream live events for a game or tournament"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sushiforbots"),
		kong.Description("Sushi Go bot client and server tooling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
