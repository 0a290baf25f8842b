// Package deck builds and deals the Briscola deck.
package deck

import (
	rand "math/rand/v2"

	"github.com/lox/briscola/internal/card"
)

// Size is the number of cards in a full Briscola deck
const Size = 40

// TrimmedCard is removed from the deck in three-player games. It carries no
// points, so the deck still totals 120.
var TrimmedCard = card.New(2, card.Cuori)

// Deck represents an ordered pile of cards. Index 0 is the top of the deck.
type Deck struct {
	cards []card.Card
	rng   *rand.Rand
}

// New creates a freshly shuffled deck for the given number of players.
// Three-player decks drop TrimmedCard before shuffling. playerCount must
// already be validated by the caller.
func New(rng *rand.Rand, playerCount int) *Deck {
	if rng == nil {
		panic("rng is required for deck creation")
	}
	if playerCount < 2 || playerCount > 4 {
		panic("player count must be between 2 and 4")
	}

	d := &Deck{
		cards: make([]card.Card, 0, Size),
		rng:   rng,
	}

	for _, suit := range card.Suits {
		for rank := card.MinRank; rank <= card.MaxRank; rank++ {
			c := card.New(rank, suit)
			if playerCount == 3 && c == TrimmedCard {
				continue
			}
			d.cards = append(d.cards, c)
		}
	}

	d.Shuffle()
	return d
}

// FromCards creates a deck with a fixed card order, top first. Used to replay
// a known deal.
func FromCards(cards []card.Card) *Deck {
	d := &Deck{cards: make([]card.Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	if d.rng == nil {
		return
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}

	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// DealN deals up to n cards from the deck
func (d *Deck) DealN(n int) []card.Card {
	n = min(n, len(d.cards))

	cards := make([]card.Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards
}

// RevealTrump takes the top card and places it face up at the bottom of the
// deck, where it will be the last card drawn. Its suit is the trump suit.
func (d *Deck) RevealTrump() (card.Card, bool) {
	c, ok := d.Deal()
	if !ok {
		return card.Card{}, false
	}
	d.cards = append(d.cards, c)
	return c, true
}

// Peek returns the top card without removing it
func (d *Deck) Peek() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	return d.cards[0], true
}

// Bottom returns the last card of the deck without removing it
func (d *Deck) Bottom() (card.Card, bool) {
	if len(d.cards) == 0 {
		return card.Card{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// IsEmpty returns true if the deck has no cards left
func (d *Deck) IsEmpty() bool {
	return len(d.cards) == 0
}

// Cards returns a copy of the remaining cards, top first
func (d *Deck) Cards() []card.Card {
	cards := make([]card.Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

// Points returns the point total of the remaining cards
func (d *Deck) Points() int {
	return card.TotalPoints(d.cards)
}
