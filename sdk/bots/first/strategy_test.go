package first

import (
	"testing"

	"github.com/lox/sushiforbots/protocol"
	"github.com/lox/sushiforbots/sdk/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaysLowestIndex(t *testing.T) {
	hand := []protocol.HandCard{
		{Index: 3, Card: protocol.Sashimi},
		{Index: 1, Card: protocol.Wasabi},
		{Index: 2, Card: protocol.Tempura},
	}
	choice, err := New().ChooseCard(hand, client.GameState{})
	require.NoError(t, err)
	assert.Equal(t, client.PlayCard(1), choice)
}
