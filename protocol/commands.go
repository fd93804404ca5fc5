package protocol

import "strconv"

// Command is a client command. The set of implementations is closed.
type Command interface {
	clientCommand()
}

type (
	// JoinCommand joins a game lobby: JOIN <game_id> <name>.
	JoinCommand struct {
		GameID string
		Name   string
	}
	// RejoinCommand resumes a game with a rejoin token.
	RejoinCommand struct {
		Token string
	}
	// ReadyCommand marks the player ready to start.
	ReadyCommand struct{}
	// PlayCommand plays one card by hand index.
	PlayCommand struct {
		Index int
	}
	// ChopsticksCommand plays two cards in one turn.
	ChopsticksCommand struct {
		First  int
		Second int
	}
	// StatusCommand requests a STATUS snapshot.
	StatusCommand struct{}
	// GamesCommand requests the GAMES listing.
	GamesCommand struct{}
	// LeaveCommand leaves the current game.
	LeaveCommand struct{}
	// HelpCommand requests the server's help text.
	HelpCommand struct{}
	// JoinTournamentCommand enters a tournament: TOURNEY <id> <name>.
	JoinTournamentCommand struct {
		TournamentID string
		Name         string
	}
	// JoinMatchCommand joins an assigned tournament match: TJOIN <token>.
	JoinMatchCommand struct {
		Token string
	}
)

func (JoinCommand) clientCommand()           {}
func (RejoinCommand) clientCommand()         {}
func (ReadyCommand) clientCommand()          {}
func (PlayCommand) clientCommand()           {}
func (ChopsticksCommand) clientCommand()     {}
func (StatusCommand) clientCommand()         {}
func (GamesCommand) clientCommand()          {}
func (LeaveCommand) clientCommand()          {}
func (HelpCommand) clientCommand()           {}
func (JoinTournamentCommand) clientCommand() {}
func (JoinMatchCommand) clientCommand()      {}

// Format renders a command as a single line without the trailing newline.
func Format(cmd Command) string {
	switch c := cmd.(type) {
	case JoinCommand:
		return "JOIN " + c.GameID + " " + c.Name
	case RejoinCommand:
		return "REJOIN " + c.Token
	case ReadyCommand:
		return "READY"
	case PlayCommand:
		return "PLAY " + strconv.Itoa(c.Index)
	case ChopsticksCommand:
		return "CHOPSTICKS " + strconv.Itoa(c.First) + " " + strconv.Itoa(c.Second)
	case StatusCommand:
		return "STATUS"
	case GamesCommand:
		return "GAMES"
	case LeaveCommand:
		return "LEAVE"
	case HelpCommand:
		return "HELP"
	case JoinTournamentCommand:
		return "TOURNEY " + c.TournamentID + " " + c.Name
	case JoinMatchCommand:
		return "TJOIN " + c.Token
	default:
		panic("protocol: unknown command type")
	}
}
