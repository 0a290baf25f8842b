// Package card defines the 40-card Italian deck used by Briscola.
package card

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Cuori Suit = iota
	Quadri
	Fiori
	Picche
)

// Suits lists every suit in deck construction order
var Suits = [...]Suit{Cuori, Quadri, Fiori, Picche}

// String returns the Italian name of the suit
func (s Suit) String() string {
	switch s {
	case Cuori:
		return "Cuori"
	case Quadri:
		return "Quadri"
	case Fiori:
		return "Fiori"
	case Picche:
		return "Picche"
	default:
		return "?"
	}
}

// Symbol returns the French suit symbol
func (s Suit) Symbol() string {
	switch s {
	case Cuori:
		return "♥"
	case Quadri:
		return "♦"
	case Fiori:
		return "♣"
	case Picche:
		return "♠"
	default:
		return "?"
	}
}

// Letter returns the single-letter code used by the compact notation
func (s Suit) Letter() byte {
	switch s {
	case Cuori:
		return 'c'
	case Quadri:
		return 'q'
	case Fiori:
		return 'f'
	case Picche:
		return 'p'
	default:
		return '?'
	}
}

// IsRed returns true for Cuori and Quadri
func (s Suit) IsRed() bool {
	return s == Cuori || s == Quadri
}

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return s >= Cuori && s <= Picche
}

// Rank is the face value of a card, 1 through 10
type Rank int

const (
	MinRank Rank = 1
	MaxRank Rank = 10
)

// Valid reports whether r is within 1..10
func (r Rank) Valid() bool {
	return r >= MinRank && r <= MaxRank
}

// Points returns the score carried by a card of this rank
func (r Rank) Points() int {
	switch r {
	case 1:
		return 11
	case 3:
		return 10
	case 10:
		return 4
	case 9:
		return 3
	case 8:
		return 2
	default:
		return 0
	}
}

// Card is an immutable rank/suit pair
type Card struct {
	Rank Rank
	Suit Suit
}

// New creates a card
func New(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Points returns the point value of the card
func (c Card) Points() int {
	return c.Rank.Points()
}

// Valid reports whether both rank and suit are in range
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// String returns the compact notation, e.g. "1c" or "10f"
func (c Card) String() string {
	return strconv.Itoa(int(c.Rank)) + string(c.Suit.Letter())
}

// Name returns the long form, e.g. "1 di Cuori"
func (c Card) Name() string {
	return fmt.Sprintf("%d di %s", c.Rank, c.Suit)
}

// TotalPoints sums the point values of cards
func TotalPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// ParseSuit converts a suit letter or name into a Suit
func ParseSuit(s string) (Suit, error) {
	switch strings.ToLower(s) {
	case "c", "cuori":
		return Cuori, nil
	case "q", "quadri":
		return Quadri, nil
	case "f", "fiori":
		return Fiori, nil
	case "p", "picche":
		return Picche, nil
	}
	return 0, fmt.Errorf("invalid suit: %q", s)
}

// ParseCard parses the compact notation: one or two rank digits followed by a suit letter
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	rank, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || !Rank(rank).Valid() {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}

	suit, err := ParseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, err)
	}

	return New(Rank(rank), suit), nil
}

// ParseCards parses a whitespace or comma separated list of cards
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error; intended for tests
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
