// Package priority implements a bot that ranks cards by a fixed weight
// table and cashes in chopsticks when two good cards are on offer.
package priority

import (
	"fmt"
	"os"

	"github.com/lox/sushiforbots/protocol"
	"github.com/lox/sushiforbots/sdk/client"
	"gopkg.in/yaml.v3"
)

// DefaultWeights ranks sets and nigiri above maki, and chopsticks last.
var DefaultWeights = map[protocol.Card]int{
	protocol.Sashimi:      10,
	protocol.Tempura:      9,
	protocol.SquidNigiri:  8,
	protocol.SalmonNigiri: 7,
	protocol.EggNigiri:    6,
	protocol.Dumpling:     5,
	protocol.Maki3:        4,
	protocol.Maki2:        3,
	protocol.Maki1:        2,
	protocol.Wasabi:       1,
	protocol.Pudding:      1,
	protocol.Chopsticks:   0,
}

// DefaultChopsticksThreshold is the weight both cards must reach before
// chopsticks are spent on them.
const DefaultChopsticksThreshold = 7

// Config is the weight file format. Weights are keyed by card code.
type Config struct {
	Weights             map[string]int `yaml:"weights"`
	ChopsticksThreshold *int           `yaml:"chopsticks_threshold"`
}

// Strategy is the weighted-priority bot.
type Strategy struct {
	weights   map[protocol.Card]int
	threshold int

	// chopsticks counts chopsticks on our side of the table this round.
	chopsticks int
}

// New returns a strategy using DefaultWeights.
func New() *Strategy {
	weights := make(map[protocol.Card]int, len(DefaultWeights))
	for card, w := range DefaultWeights {
		weights[card] = w
	}
	return &Strategy{weights: weights, threshold: DefaultChopsticksThreshold}
}

// Load reads a YAML weight file and overlays it on the defaults.
func Load(path string) (*Strategy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse overlays YAML weights on the defaults.
func Parse(data []byte) (*Strategy, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse weights YAML: %w", err)
	}

	s := New()
	for code, w := range cfg.Weights {
		card, err := protocol.CardFromCode(code)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		s.weights[card] = w
	}
	if cfg.ChopsticksThreshold != nil {
		s.threshold = *cfg.ChopsticksThreshold
	}
	return s, nil
}

// Weight returns the priority of a card.
func (s *Strategy) Weight(card protocol.Card) int {
	return s.weights[card]
}

// ChooseCard plays the highest weighted card, earliest in the hand on ties.
// With chopsticks on the table and a second card at or above the threshold
// it plays both.
func (s *Strategy) ChooseCard(hand []protocol.HandCard, _ client.GameState) (client.Choice, error) {
	if len(hand) == 0 {
		return client.Choice{}, fmt.Errorf("empty hand")
	}

	best, second := -1, -1
	for i, hc := range hand {
		w := s.weights[hc.Card]
		switch {
		case best < 0 || w > s.weights[hand[best].Card]:
			best, second = i, best
		case second < 0 || w > s.weights[hand[second].Card]:
			second = i
		}
	}

	if s.chopsticks > 0 && second >= 0 &&
		s.weights[hand[best].Card] >= s.threshold &&
		s.weights[hand[second].Card] >= s.threshold {
		return client.UseChopsticks(hand[best].Index, hand[second].Index), nil
	}
	return client.PlayCard(hand[best].Index), nil
}

// Hooks tracks our chopsticks from the revealed plays.
func (s *Strategy) Hooks() client.Hooks {
	return client.Hooks{
		OnRoundStart: func(int, client.GameState) {
			s.chopsticks = 0
		},
		OnTurnResult: func(plays []protocol.Play, state client.GameState) {
			for _, p := range plays {
				if p.Player != state.PlayerName {
					continue
				}
				switch {
				case len(p.Cards) > 1:
					// Spending chopsticks returns them to the hand.
					s.chopsticks = max(0, s.chopsticks-1)
				case len(p.Cards) == 1 && p.Cards[0] == protocol.Chopsticks:
					s.chopsticks++
				}
			}
		},
	}
}

var (
	_ client.Strategy     = (*Strategy)(nil)
	_ client.HookProvider = (*Strategy)(nil)
)
