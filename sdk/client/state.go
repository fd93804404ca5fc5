package client

import (
	"maps"
	"slices"
	"time"

	"github.com/lox/sushiforbots/protocol"
)

// Phase is the lifecycle position of the current game.
type Phase int

const (
	PhaseLobby Phase = iota
	PhasePlaying
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// PhaseFromString maps the server's phase names ("waiting" is accepted as
// lobby) to a Phase.
func PhaseFromString(s string) (Phase, bool) {
	switch s {
	case "lobby", "waiting":
		return PhaseLobby, true
	case "playing":
		return PhasePlaying, true
	case "ended", "finished":
		return PhaseEnded, true
	default:
		return 0, false
	}
}

// GameState is the session's view of the game and, when playing a
// tournament, of the current match. It is mutated only through Update.
type GameState struct {
	GameID      string
	PlayerID    int
	RejoinToken string
	PlayerName  string

	Phase       Phase
	Round       int
	Turn        int
	PlayerCount int
	MaxPlayers  int
	MoveTimeout time.Duration
	Players     []string

	Hand        []protocol.HandCard
	LastPlays   []protocol.Play
	RoundScores map[int]map[string]protocol.RoundScore

	FinalScores      map[string]int
	Winners          []string
	NextGameID       string
	TournamentWinner string

	TournamentID    string
	TournamentToken string
	MatchToken      string
	MatchRound      int
	Opponent        string
}

// NewGameState returns an empty state in the lobby phase.
func NewGameState(name string) *GameState {
	return &GameState{
		PlayerName:  name,
		RoundScores: make(map[int]map[string]protocol.RoundScore),
	}
}

// Update folds one server message into the state.
func (s *GameState) Update(msg protocol.Message) {
	switch m := msg.(type) {
	case protocol.Welcome:
		s.GameID = m.GameID
		s.PlayerID = m.PlayerID
		s.RejoinToken = m.RejoinToken
		s.Phase = PhaseLobby

	case protocol.Rejoined:
		s.GameID = m.GameID
		s.PlayerID = m.PlayerID
		s.Phase = PhaseLobby

	case protocol.PlayerJoined:
		if !slices.Contains(s.Players, m.Name) {
			s.Players = append(s.Players, m.Name)
		}
		s.PlayerCount = m.PlayerCount
		s.MaxPlayers = m.MaxPlayers

	case protocol.PlayerLeft:
		s.Players = slices.DeleteFunc(s.Players, func(name string) bool {
			return name == m.Name
		})
		s.PlayerCount = len(s.Players)

	case protocol.GameStart:
		s.Phase = PhasePlaying
		s.Round = 0
		s.Turn = 0
		s.PlayerCount = m.PlayerCount
		s.MoveTimeout = m.MoveTimeout

	case protocol.RoundStart:
		s.Round = m.Round
		s.Turn = 0
		s.LastPlays = nil

	case protocol.Hand:
		s.Hand = m.Cards
		s.Turn++

	case protocol.TurnResult:
		s.LastPlays = m.Plays

	case protocol.RoundEnd:
		if s.RoundScores == nil {
			s.RoundScores = make(map[int]map[string]protocol.RoundScore)
		}
		// A repeated round number overwrites the earlier breakdown.
		s.RoundScores[m.Round] = m.Scores

	case protocol.GameEnd:
		s.Phase = PhaseEnded
		s.FinalScores = m.FinalScores
		s.Winners = m.Winners
		s.NextGameID = m.NextGameID
		if m.TournamentWinner != "" {
			s.TournamentWinner = m.TournamentWinner
		}

	case protocol.Status:
		if m.Status.GameID != "" {
			s.GameID = m.Status.GameID
		}
		if phase, ok := PhaseFromString(m.Status.Phase); ok {
			s.Phase = phase
		}
		s.Round = m.Status.Round
		s.Turn = m.Status.Turn

	case protocol.TournamentWelcome:
		s.TournamentID = m.TournamentID
		s.TournamentToken = m.RejoinToken

	case protocol.TournamentRejoined:
		s.TournamentID = m.TournamentID
		if m.MatchToken != "" {
			s.MatchToken = m.MatchToken
		}

	case protocol.TournamentMatchAssigned:
		s.TournamentID = m.TournamentID
		s.MatchToken = m.MatchToken
		s.MatchRound = m.Round
		s.Opponent = m.Opponent
		s.resetGame()

	case protocol.TournamentComplete:
		s.TournamentWinner = m.Winner

	case protocol.Ok, protocol.Created, protocol.Waiting, protocol.GamesList,
		protocol.TournamentPlayerJoined:
	}
}

// resetGame clears every game-scoped field ahead of a new match. Identity
// and tournament fields are kept.
func (s *GameState) resetGame() {
	s.Phase = PhaseLobby
	s.Round = 0
	s.Turn = 0
	s.Hand = nil
	s.LastPlays = nil
	s.RoundScores = make(map[int]map[string]protocol.RoundScore)
	s.FinalScores = nil
	s.Winners = nil
	s.NextGameID = ""
}

// clearGame drops the identity and progress of a game that was never
// joined successfully.
func (s *GameState) clearGame() {
	s.GameID = ""
	s.PlayerID = 0
	s.RejoinToken = ""
	s.Players = nil
	s.PlayerCount = 0
	s.MaxPlayers = 0
	s.resetGame()
}

// Clone returns a deep copy that shares no memory with s.
func (s *GameState) Clone() GameState {
	c := *s
	c.Players = slices.Clone(s.Players)
	c.Hand = slices.Clone(s.Hand)
	c.Winners = slices.Clone(s.Winners)
	c.FinalScores = maps.Clone(s.FinalScores)

	if s.LastPlays != nil {
		c.LastPlays = make([]protocol.Play, len(s.LastPlays))
		for i, p := range s.LastPlays {
			c.LastPlays[i] = protocol.Play{Player: p.Player, Cards: slices.Clone(p.Cards)}
		}
	}
	if s.RoundScores != nil {
		c.RoundScores = make(map[int]map[string]protocol.RoundScore, len(s.RoundScores))
		for round, scores := range s.RoundScores {
			c.RoundScores[round] = maps.Clone(scores)
		}
	}
	return c
}

// Score returns the player's final score, falling back to the sum of the
// round totals while the game is still running.
func (s *GameState) Score(name string) int {
	if score, ok := s.FinalScores[name]; ok {
		return score
	}
	total := 0
	for _, scores := range s.RoundScores {
		total += scores[name].Total
	}
	return total
}

// Won reports whether the player is among the winners of the finished game.
func (s *GameState) Won() bool {
	return slices.Contains(s.Winners, s.PlayerName)
}
