package random

import (
	rand "math/rand/v2"

	"github.com/lox/sushiforbots/internal/randutil"
	"github.com/lox/sushiforbots/protocol"
	"github.com/lox/sushiforbots/sdk/client"
)

// Strategy plays a uniformly random card from the hand
type Strategy struct {
	rng *rand.Rand
}

// New seeds the generator from seed, or from the clock when seed is zero.
func New(seed int64) *Strategy {
	return &Strategy{rng: randutil.New(seed)}
}

func (s *Strategy) ChooseCard(hand []protocol.HandCard, _ client.GameState) (client.Choice, error) {
	return client.PlayCard(hand[s.rng.IntN(len(hand))].Index), nil
}

// Check it implements the client.Strategy interface
var _ client.Strategy = (*Strategy)(nil)
