package client

import (
	"fmt"

	"github.com/lox/sushiforbots/protocol"
)

// Strategy picks the card (or pair of cards) to play for a hand.
type Strategy interface {
	// ChooseCard is called once per HAND with the cards on offer and a
	// snapshot that already reflects the hand.
	ChooseCard(hand []protocol.HandCard, state GameState) (Choice, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(hand []protocol.HandCard, state GameState) (Choice, error)

func (f StrategyFunc) ChooseCard(hand []protocol.HandCard, state GameState) (Choice, error) {
	return f(hand, state)
}

// Choice is a strategy's answer: a single hand index, or two indices when
// cashing in chopsticks.
type Choice struct {
	First      int
	Second     int
	chopsticks bool
}

// PlayCard plays the card at index.
func PlayCard(index int) Choice {
	return Choice{First: index}
}

// UseChopsticks plays two cards in one turn.
func UseChopsticks(first, second int) Choice {
	return Choice{First: first, Second: second, chopsticks: true}
}

// Chopsticks reports whether the choice plays two cards.
func (c Choice) Chopsticks() bool {
	return c.chopsticks
}

// Command converts the choice to the command sent to the server.
func (c Choice) Command() protocol.Command {
	if c.chopsticks {
		return protocol.ChopsticksCommand{First: c.First, Second: c.Second}
	}
	return protocol.PlayCommand{Index: c.First}
}

func (c Choice) String() string {
	if c.chopsticks {
		return fmt.Sprintf("chopsticks %d+%d", c.First, c.Second)
	}
	return fmt.Sprintf("play %d", c.First)
}

// Hooks are optional lifecycle callbacks. Each receives a snapshot taken
// after the triggering message was applied. Nil fields are skipped.
type Hooks struct {
	OnGameStart          func(state GameState)
	OnRoundStart         func(round int, state GameState)
	OnTurnResult         func(plays []protocol.Play, state GameState)
	OnRoundEnd           func(round int, state GameState)
	OnGameEnd            func(state GameState)
	OnMatchAssigned      func(match protocol.TournamentMatchAssigned, state GameState)
	OnTournamentComplete func(winner string, state GameState)
}

// HookProvider is implemented by strategies that also want lifecycle
// callbacks. NewSession installs them unless WithHooks overrides.
type HookProvider interface {
	Hooks() Hooks
}
