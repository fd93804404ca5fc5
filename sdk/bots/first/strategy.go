// Package first is the simplest possible bot: it always plays the card in
// the lowest hand position.
package first

import (
	"github.com/lox/sushiforbots/protocol"
	"github.com/lox/sushiforbots/sdk/client"
)

type Strategy struct{}

func New() *Strategy {
	return &Strategy{}
}

func (*Strategy) ChooseCard(hand []protocol.HandCard, _ client.GameState) (client.Choice, error) {
	lowest := hand[0].Index
	for _, hc := range hand[1:] {
		lowest = min(lowest, hc.Index)
	}
	return client.PlayCard(lowest), nil
}

var _ client.Strategy = (*Strategy)(nil)
