package protocol

import "time"

// Server keywords, the first token of every server line.
const (
	KeywordOK                 = "OK"
	KeywordError              = "ERROR"
	KeywordWelcome            = "WELCOME"
	KeywordRejoined           = "REJOINED"
	KeywordCreated            = "CREATED"
	KeywordJoined             = "JOINED"
	KeywordLeft               = "LEFT"
	KeywordGameStart          = "GAME_START"
	KeywordRoundStart         = "ROUND_START"
	KeywordHand               = "HAND"
	KeywordWaiting            = "WAITING"
	KeywordPlayed             = "PLAYED"
	KeywordRoundEnd           = "ROUND_END"
	KeywordGameEnd            = "GAME_END"
	KeywordStatus             = "STATUS"
	KeywordGames              = "GAMES"
	KeywordTournamentWelcome  = "TOURNAMENT_WELCOME"
	KeywordTournamentRejoined = "TOURNAMENT_REJOINED"
	KeywordTournamentJoined   = "TOURNAMENT_JOINED"
	KeywordTournamentMatch    = "TOURNAMENT_MATCH"
	KeywordTournamentComplete = "TOURNAMENT_COMPLETE"
	byeOpponent               = "BYE"
)

// Message is a parsed server line. The set of implementations is closed.
type Message interface {
	// Keyword returns the wire keyword the message was parsed from.
	Keyword() string
	serverMessage()
}

// Ok acknowledges a command, optionally with details.
type Ok struct {
	Details string
}

// Welcome confirms a JOIN.
type Welcome struct {
	GameID      string
	PlayerID    int
	RejoinToken string
}

// Rejoined confirms a REJOIN.
type Rejoined struct {
	GameID   string
	PlayerID int
}

// Created announces a newly created game.
type Created struct {
	GameID string
}

// PlayerJoined announces a player entering the lobby.
type PlayerJoined struct {
	Name        string
	PlayerCount int
	MaxPlayers  int
}

// PlayerLeft announces a player leaving the lobby.
type PlayerLeft struct {
	Name string
}

// GameStart is sent once every player is ready.
type GameStart struct {
	PlayerCount int
	MoveTimeout time.Duration
}

// RoundStart begins one of the three rounds.
type RoundStart struct {
	Round int
}

// Hand carries the cards to choose from this turn. It is the only message
// that requires a reply.
type Hand struct {
	Cards []HandCard
}

// Waiting lists players who have not submitted yet.
type Waiting struct {
	Players []string
}

// TurnResult reveals what every player played.
type TurnResult struct {
	Plays []Play
}

// RoundScore is one player's score breakdown for a round.
type RoundScore struct {
	MakiPoints     int `json:"maki_points"`
	TempuraPoints  int `json:"tempura_points"`
	SashimiPoints  int `json:"sashimi_points"`
	DumplingPoints int `json:"dumpling_points"`
	NigiriPoints   int `json:"nigiri_points"`
	Total          int `json:"total"`
}

// RoundEnd carries the per-player breakdown for a finished round.
type RoundEnd struct {
	Round  int
	Scores map[string]RoundScore
}

// GameEnd carries the final outcome.
type GameEnd struct {
	FinalScores      map[string]int
	Winners          []string
	NextGameID       string
	TournamentWinner string
}

// PlayerStatus is one entry in a STATUS snapshot.
type PlayerStatus struct {
	Name         string `json:"name"`
	HasSubmitted bool   `json:"has_submitted"`
	Puddings     int    `json:"puddings"`
	MakiCount    int    `json:"maki_count"`
}

// GameStatus is the payload of a STATUS reply.
type GameStatus struct {
	GameID          string         `json:"game_id"`
	Phase           string         `json:"phase"`
	Round           int            `json:"round"`
	Turn            int            `json:"turn"`
	Players         []PlayerStatus `json:"players"`
	YourPlayedCards []string       `json:"your_played_cards"`
	YourPuddings    int            `json:"your_puddings"`
	YourChopsticks  int            `json:"your_chopsticks"`
	YourWasabiSlots int            `json:"your_wasabi_slots"`
}

// Status is the reply to STATUS.
type Status struct {
	Status GameStatus
}

// GameInfo summarises a game in a GAMES listing.
type GameInfo struct {
	ID          string `json:"id"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Status      string `json:"status"`
}

// GamesList is the reply to GAMES.
type GamesList struct {
	Games []GameInfo
}

// TournamentWelcome confirms a TOURNEY.
type TournamentWelcome struct {
	TournamentID string
	PlayerCount  int
	MaxPlayers   int
	RejoinToken  string
}

// TournamentRejoined confirms a tournament rejoin.
type TournamentRejoined struct {
	TournamentID string
	Name         string
	MatchToken   string
}

// TournamentPlayerJoined announces another entrant.
type TournamentPlayerJoined struct {
	TournamentID string
	Name         string
	PlayerCount  int
	MaxPlayers   int
}

// TournamentMatchAssigned assigns the next match. Opponent is empty when
// none was given; Bye is set when the server sent the BYE sentinel.
type TournamentMatchAssigned struct {
	TournamentID string
	MatchToken   string
	Round        int
	Opponent     string
	Bye          bool
}

// TournamentComplete ends the tournament.
type TournamentComplete struct {
	TournamentID string
	Winner       string
}

func (Ok) Keyword() string                      { return KeywordOK }
func (Welcome) Keyword() string                 { return KeywordWelcome }
func (Rejoined) Keyword() string                { return KeywordRejoined }
func (Created) Keyword() string                 { return KeywordCreated }
func (PlayerJoined) Keyword() string            { return KeywordJoined }
func (PlayerLeft) Keyword() string              { return KeywordLeft }
func (GameStart) Keyword() string               { return KeywordGameStart }
func (RoundStart) Keyword() string              { return KeywordRoundStart }
func (Hand) Keyword() string                    { return KeywordHand }
func (Waiting) Keyword() string                 { return KeywordWaiting }
func (TurnResult) Keyword() string              { return KeywordPlayed }
func (RoundEnd) Keyword() string                { return KeywordRoundEnd }
func (GameEnd) Keyword() string                 { return KeywordGameEnd }
func (Status) Keyword() string                  { return KeywordStatus }
func (GamesList) Keyword() string               { return KeywordGames }
func (TournamentWelcome) Keyword() string       { return KeywordTournamentWelcome }
func (TournamentRejoined) Keyword() string      { return KeywordTournamentRejoined }
func (TournamentPlayerJoined) Keyword() string  { return KeywordTournamentJoined }
func (TournamentMatchAssigned) Keyword() string { return KeywordTournamentMatch }
func (TournamentComplete) Keyword() string      { return KeywordTournamentComplete }

func (Ok) serverMessage()                      {}
func (Welcome) serverMessage()                 {}
func (Rejoined) serverMessage()                {}
func (Created) serverMessage()                 {}
func (PlayerJoined) serverMessage()            {}
func (PlayerLeft) serverMessage()              {}
func (GameStart) serverMessage()               {}
func (RoundStart) serverMessage()              {}
func (Hand) serverMessage()                    {}
func (Waiting) serverMessage()                 {}
func (TurnResult) serverMessage()              {}
func (RoundEnd) serverMessage()                {}
func (GameEnd) serverMessage()                 {}
func (Status) serverMessage()                  {}
func (GamesList) serverMessage()               {}
func (TournamentWelcome) serverMessage()       {}
func (TournamentRejoined) serverMessage()      {}
func (TournamentPlayerJoined) serverMessage()  {}
func (TournamentMatchAssigned) serverMessage() {}
func (TournamentComplete) serverMessage()      {}
