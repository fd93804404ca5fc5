package client

import (
	"testing"
	"time"

	"github.com/lox/sushiforbots/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyLines(t *testing.T, s *GameState, lines ...string) {
	t.Helper()
	for _, line := range lines {
		msg, err := protocol.Parse(line)
		require.NoError(t, err, "line %q", line)
		s.Update(msg)
	}
}

func TestUpdateIdentity(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s, "WELCOME game1 2 tok_abc")

	assert.Equal(t, "game1", s.GameID)
	assert.Equal(t, 2, s.PlayerID)
	assert.Equal(t, "tok_abc", s.RejoinToken)
	assert.Equal(t, PhaseLobby, s.Phase)

	s.Phase = PhasePlaying
	applyLines(t, s, "REJOINED game1 2")
	assert.Equal(t, PhaseLobby, s.Phase)
	assert.Equal(t, "tok_abc", s.RejoinToken)
}

func TestUpdateRoster(t *testing.T) {
	s := NewGameState("Alice")

	t.Run("join is idempotent", func(t *testing.T) {
		applyLines(t, s, "JOINED Alice 1/4", "JOINED Bob 2/4", "JOINED Alice 2/4")
		assert.Equal(t, []string{"Alice", "Bob"}, s.Players)
		assert.Equal(t, 2, s.PlayerCount)
		assert.Equal(t, 4, s.MaxPlayers)
	})

	t.Run("leave recomputes count from roster", func(t *testing.T) {
		applyLines(t, s, "JOINED Carol 3/4", "LEFT Bob")
		assert.Equal(t, []string{"Alice", "Carol"}, s.Players)
		assert.Equal(t, 2, s.PlayerCount)

		applyLines(t, s, "LEFT Nobody")
		assert.Equal(t, 2, s.PlayerCount)
	})
}

func TestUpdateGameFlow(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s,
		"WELCOME g1 0 tok",
		"GAME_START 2 300",
	)
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 0, s.Round)
	assert.Equal(t, 300*time.Millisecond, s.MoveTimeout)
	assert.Equal(t, 2, s.PlayerCount)

	applyLines(t, s,
		"ROUND_START 1",
		"HAND 0:Tempura 1:Squid Nigiri",
		"PLAYED Alice:SQD; Bob:TMP",
		"HAND 0:Tempura",
	)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 2, s.Turn)
	assert.Equal(t, []protocol.HandCard{{Index: 0, Card: protocol.Tempura}}, s.Hand)
	assert.Len(t, s.LastPlays, 2)

	applyLines(t, s, "ROUND_START 2")
	assert.Equal(t, 0, s.Turn)
	assert.Nil(t, s.LastPlays)

	applyLines(t, s, `ROUND_END 2 {"Alice":{"total":7},"Bob":{"total":4}}`)
	assert.Equal(t, 7, s.Score("Alice"))

	applyLines(t, s, `GAME_END {"Alice":25,"Bob":18} WINNER:Alice NEXT:game_2`)
	assert.Equal(t, PhaseEnded, s.Phase)
	assert.Equal(t, map[string]int{"Alice": 25, "Bob": 18}, s.FinalScores)
	assert.Equal(t, "game_2", s.NextGameID)
	assert.True(t, s.Won())
	assert.Equal(t, 25, s.Score("Alice"))
}

func TestDuplicateRoundEndOverwrites(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s,
		`ROUND_END 1 {"Alice":{"total":5}}`,
		`ROUND_END 1 {"Alice":{"total":9}}`,
	)
	require.Len(t, s.RoundScores, 1)
	assert.Equal(t, 9, s.RoundScores[1]["Alice"].Total)
}

func TestRoundScoresOnlyGrowWithinAGame(t *testing.T) {
	s := NewGameState("Alice")
	for round, line := range []string{
		`ROUND_END 1 {"Alice":{"total":1}}`,
		`ROUND_END 2 {"Alice":{"total":2}}`,
		`ROUND_END 3 {"Alice":{"total":3}}`,
	} {
		applyLines(t, s, line)
		assert.Len(t, s.RoundScores, round+1)
	}
	assert.Equal(t, 6, s.Score("Alice"))
}

func TestMatchAssignmentResetsGame(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s,
		"TOURNAMENT_WELCOME t1 1/4 ttok",
		"TOURNAMENT_MATCH t1 m1 1 Bob",
		"WELCOME g1 0 tok",
		"GAME_START 2 300",
		"ROUND_START 3",
		"HAND 0:Tempura",
		"PLAYED Alice:TMP; Bob:EGG",
		`ROUND_END 3 {"Alice":{"total":5}}`,
		`GAME_END {"Alice":5,"Bob":1} WINNER:Alice NEXT:g9`,
	)
	require.Equal(t, PhaseEnded, s.Phase)

	applyLines(t, s, "TOURNAMENT_MATCH t1 m2 2 Carol")

	assert.Equal(t, PhaseLobby, s.Phase)
	assert.Empty(t, s.Hand)
	assert.Empty(t, s.LastPlays)
	assert.Zero(t, s.Round)
	assert.Zero(t, s.Turn)
	assert.Empty(t, s.RoundScores)
	assert.Nil(t, s.FinalScores)
	assert.Nil(t, s.Winners)
	assert.Empty(t, s.NextGameID)

	assert.Equal(t, "t1", s.TournamentID)
	assert.Equal(t, "ttok", s.TournamentToken)
	assert.Equal(t, "m2", s.MatchToken)
	assert.Equal(t, 2, s.MatchRound)
	assert.Equal(t, "Carol", s.Opponent)
	assert.Equal(t, "Alice", s.PlayerName)
}

func TestByeClearsOpponent(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s, "TOURNAMENT_MATCH t1 m1 1 Bob", "TOURNAMENT_MATCH t1 m2 2 BYE")
	assert.Empty(t, s.Opponent)
	assert.Equal(t, "m2", s.MatchToken)
}

func TestTournamentCompleteKeepsPhase(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s, "GAME_START 2 300", "TOURNAMENT_COMPLETE t1 Alice")
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, "Alice", s.TournamentWinner)
}

func TestPhaseIsMonotoneAcrossMatches(t *testing.T) {
	game := []string{
		"WELCOME g 0 tok",
		"OK",
		"GAME_START 2 300",
		"ROUND_START 1",
		"HAND 0:Tempura",
		"PLAYED Alice:TMP; Bob:EGG",
		`ROUND_END 1 {"Alice":{"total":0}}`,
		`GAME_END {"Alice":0,"Bob":1} WINNER:Bob`,
	}
	lines := []string{"TOURNAMENT_WELCOME t1 1/4 ttok"}
	matches := 3
	for i := 0; i < matches; i++ {
		lines = append(lines, "TOURNAMENT_MATCH t1 m 1 Bob")
		lines = append(lines, game...)
	}
	lines = append(lines, "TOURNAMENT_COMPLETE t1 Bob")

	s := NewGameState("Alice")
	rewinds := 0
	prev := s.Phase
	for _, line := range lines {
		applyLines(t, s, line)
		if s.Phase < prev {
			require.Equal(t, PhaseLobby, s.Phase, "only a rewind to lobby is allowed")
			rewinds++
		}
		prev = s.Phase
	}
	assert.Equal(t, matches-1, rewinds)
}

func TestUpdateStatus(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s, `STATUS {"game_id":"g7","phase":"playing","round":2,"turn":4}`)
	assert.Equal(t, "g7", s.GameID)
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, 4, s.Turn)

	applyLines(t, s, `STATUS {"game_id":"g7","phase":"mystery","round":2,"turn":5}`)
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 5, s.Turn)
}

func TestNoOpMessages(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s, "WELCOME g1 0 tok")
	before := s.Clone()

	applyLines(t, s,
		"OK",
		"CREATED g2",
		"WAITING Bob",
		`GAMES [{"id":"g2","player_count":0,"max_players":4,"status":"waiting"}]`,
		"TOURNAMENT_JOINED t1 Bob 2/4",
	)
	assert.Equal(t, before, s.Clone())
}

func TestCloneIsDeep(t *testing.T) {
	s := NewGameState("Alice")
	applyLines(t, s,
		"JOINED Alice 1/2",
		"HAND 0:Tempura",
		"PLAYED Alice:TMP,WAS",
		`ROUND_END 1 {"Alice":{"total":5}}`,
		`GAME_END {"Alice":5} WINNER:Alice`,
	)

	c := s.Clone()
	c.Players[0] = "Mallory"
	c.Hand[0].Card = protocol.Pudding
	c.LastPlays[0].Cards[0] = protocol.Pudding
	c.RoundScores[1]["Alice"] = protocol.RoundScore{Total: 99}
	c.FinalScores["Alice"] = 99
	c.Winners[0] = "Mallory"

	assert.Equal(t, "Alice", s.Players[0])
	assert.Equal(t, protocol.Tempura, s.Hand[0].Card)
	assert.Equal(t, protocol.Tempura, s.LastPlays[0].Cards[0])
	assert.Equal(t, 5, s.RoundScores[1]["Alice"].Total)
	assert.Equal(t, 5, s.FinalScores["Alice"])
	assert.Equal(t, "Alice", s.Winners[0])
}

func TestPhaseFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Phase
		ok   bool
	}{
		{"lobby", PhaseLobby, true},
		{"waiting", PhaseLobby, true},
		{"playing", PhasePlaying, true},
		{"ended", PhaseEnded, true},
		{"finished", PhaseEnded, true},
		{"paused", PhaseLobby, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := PhaseFromString(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
