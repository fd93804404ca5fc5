package priority

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/sushiforbots/protocol"
	"github.com/lox/sushiforbots/sdk/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hand(cards ...protocol.Card) []protocol.HandCard {
	h := make([]protocol.HandCard, len(cards))
	for i, c := range cards {
		h[i] = protocol.HandCard{Index: i, Card: c}
	}
	return h
}

func TestChooseHighestWeight(t *testing.T) {
	tests := []struct {
		name string
		hand []protocol.HandCard
		want int
	}{
		{"sashimi beats tempura", hand(protocol.Tempura, protocol.Sashimi, protocol.Maki3), 1},
		{"nigiri beats maki", hand(protocol.Maki3, protocol.EggNigiri), 1},
		{"ties go to the earliest", hand(protocol.Wasabi, protocol.Pudding), 0},
		{"chopsticks last", hand(protocol.Chopsticks, protocol.Maki1), 1},
		{"single card", hand(protocol.Chopsticks), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice, err := New().ChooseCard(tt.hand, client.GameState{})
			require.NoError(t, err)
			assert.False(t, choice.Chopsticks())
			assert.Equal(t, tt.want, choice.First)
		})
	}
}

func TestChopsticksTracking(t *testing.T) {
	s := New()
	hooks := s.Hooks()
	state := client.GameState{PlayerName: "Alice"}
	good := hand(protocol.Maki1, protocol.Sashimi, protocol.Tempura)

	choice, err := s.ChooseCard(good, state)
	require.NoError(t, err)
	assert.False(t, choice.Chopsticks(), "no chopsticks on the table yet")

	hooks.OnRoundStart(1, state)
	hooks.OnTurnResult([]protocol.Play{
		{Player: "Bob", Cards: []protocol.Card{protocol.Chopsticks}},
		{Player: "Alice", Cards: []protocol.Card{protocol.Chopsticks}},
	}, state)

	choice, err = s.ChooseCard(good, state)
	require.NoError(t, err)
	require.True(t, choice.Chopsticks())
	assert.Equal(t, client.UseChopsticks(1, 2), choice)

	// Two weak cards are not worth the chopsticks.
	choice, err = s.ChooseCard(hand(protocol.Maki1, protocol.Sashimi, protocol.Wasabi), state)
	require.NoError(t, err)
	assert.Equal(t, client.PlayCard(1), choice)

	hooks.OnTurnResult([]protocol.Play{
		{Player: "Alice", Cards: []protocol.Card{protocol.Sashimi, protocol.Tempura}},
	}, state)
	choice, err = s.ChooseCard(good, state)
	require.NoError(t, err)
	assert.False(t, choice.Chopsticks(), "chopsticks were spent")

	hooks.OnTurnResult([]protocol.Play{
		{Player: "Alice", Cards: []protocol.Card{protocol.Chopsticks}},
	}, state)
	hooks.OnRoundStart(2, state)
	choice, err = s.ChooseCard(good, state)
	require.NoError(t, err)
	assert.False(t, choice.Chopsticks(), "the table is cleared between rounds")
}

func TestParseWeights(t *testing.T) {
	s, err := Parse([]byte(`
weights:
  MK3: 20
  CHP: 12
chopsticks_threshold: 3
`))
	require.NoError(t, err)
	assert.Equal(t, 20, s.Weight(protocol.Maki3))
	assert.Equal(t, 12, s.Weight(protocol.Chopsticks))
	assert.Equal(t, 10, s.Weight(protocol.Sashimi))
	assert.Equal(t, 3, s.threshold)

	// Defaults are untouched by an override.
	assert.Equal(t, 4, DefaultWeights[protocol.Maki3])

	_, err = Parse([]byte("weights:\n  XXX: 1\n"))
	assert.ErrorIs(t, err, protocol.ErrUnknownCard)

	_, err = Parse([]byte("weights: [1, 2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  EGG: 11\n"), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 11, s.Weight(protocol.EggNigiri))
	assert.Equal(t, DefaultChopsticksThreshold, s.threshold)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
