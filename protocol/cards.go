package protocol

import (
	"errors"
	"fmt"
)

// ErrUnknownCard is returned when a code or display name does not match any card.
var ErrUnknownCard = errors.New("unknown card")

// Card is one of the twelve Sushi Go card kinds.
type Card int

const (
	Tempura Card = iota
	Sashimi
	Dumpling
	Maki1
	Maki2
	Maki3
	EggNigiri
	SalmonNigiri
	SquidNigiri
	Pudding
	Wasabi
	Chopsticks
)

// Category groups cards by how they score.
type Category int

const (
	CategoryNigiri Category = iota
	CategoryMaki
	CategorySetCollection
	CategoryModifier
	CategoryUtility
)

// String returns the category name
func (c Category) String() string {
	switch c {
	case CategoryNigiri:
		return "nigiri"
	case CategoryMaki:
		return "maki"
	case CategorySetCollection:
		return "set-collection"
	case CategoryModifier:
		return "modifier"
	case CategoryUtility:
		return "utility"
	default:
		return "unknown"
	}
}

type cardInfo struct {
	code     string
	name     string
	category Category
	points   int
	maki     int
}

// Indexed by Card.
var catalog = [...]cardInfo{
	Tempura:      {code: "TMP", name: "Tempura", category: CategorySetCollection},
	Sashimi:      {code: "SSH", name: "Sashimi", category: CategorySetCollection},
	Dumpling:     {code: "DMP", name: "Dumpling", category: CategorySetCollection},
	Maki1:        {code: "MK1", name: "Maki Roll (1)", category: CategoryMaki, maki: 1},
	Maki2:        {code: "MK2", name: "Maki Roll (2)", category: CategoryMaki, maki: 2},
	Maki3:        {code: "MK3", name: "Maki Roll (3)", category: CategoryMaki, maki: 3},
	EggNigiri:    {code: "EGG", name: "Egg Nigiri", category: CategoryNigiri, points: 1},
	SalmonNigiri: {code: "SAL", name: "Salmon Nigiri", category: CategoryNigiri, points: 2},
	SquidNigiri:  {code: "SQD", name: "Squid Nigiri", category: CategoryNigiri, points: 3},
	Pudding:      {code: "PUD", name: "Pudding", category: CategorySetCollection},
	Wasabi:       {code: "WAS", name: "Wasabi", category: CategoryModifier},
	Chopsticks:   {code: "CHP", name: "Chopsticks", category: CategoryUtility},
}

var (
	cardsByCode = make(map[string]Card, len(catalog))
	cardsByName = make(map[string]Card, len(catalog))
)

func init() {
	for i, info := range catalog {
		cardsByCode[info.code] = Card(i)
		cardsByName[info.name] = Card(i)
	}
}

// AllCards returns every card kind in catalog order.
func AllCards() []Card {
	cards := make([]Card, len(catalog))
	for i := range catalog {
		cards[i] = Card(i)
	}
	return cards
}

// Valid reports whether c is one of the twelve kinds.
func (c Card) Valid() bool {
	return c >= 0 && int(c) < len(catalog)
}

// Code returns the three-letter protocol code (e.g. "TMP").
func (c Card) Code() string {
	if !c.Valid() {
		return "???"
	}
	return catalog[c].code
}

// Name returns the display name used in HAND messages (e.g. "Maki Roll (3)").
func (c Card) Name() string {
	if !c.Valid() {
		return fmt.Sprintf("Card(%d)", int(c))
	}
	return catalog[c].name
}

// String returns the display name
func (c Card) String() string {
	return c.Name()
}

// Category returns the scoring category of the card.
func (c Card) Category() Category {
	if !c.Valid() {
		return -1
	}
	return catalog[c].category
}

// Points returns the immediate score for nigiri, zero for everything else.
func (c Card) Points() int {
	if !c.Valid() {
		return 0
	}
	return catalog[c].points
}

// MakiCount returns the number of maki icons on the card.
func (c Card) MakiCount() int {
	if !c.Valid() {
		return 0
	}
	return catalog[c].maki
}

// IsNigiri reports whether the card is a nigiri.
func (c Card) IsNigiri() bool {
	return c.Category() == CategoryNigiri
}

// CardFromCode parses a three-letter code like "TMP".
func CardFromCode(code string) (Card, error) {
	if c, ok := cardsByCode[code]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: code %q", ErrUnknownCard, code)
}

// CardFromName parses a display name like "Salmon Nigiri".
func CardFromName(name string) (Card, error) {
	if c, ok := cardsByName[name]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("%w: name %q", ErrUnknownCard, name)
}

// HandCard is a card at a position in the player's current hand.
type HandCard struct {
	Index int
	Card  Card
}

// Play is one player's revealed cards for a turn.
type Play struct {
	Player string
	Cards  []Card
}
