// Package trick resolves a single Briscola trick.
//
// Only a trump or a card of the led suit can take a trick. Between two cards
// that can compete, the higher point value wins and equal points fall back to
// the higher rank, which orders the zero-point cards 7 > 6 > 5 > 4 > 2.
package trick

import "github.com/lox/briscola/internal/card"

// Play is a card placed on the table by a player
type Play struct {
	Player string
	Card   card.Card
}

// Result describes the outcome of a trick
type Result struct {
	Index  int // Position of the winning play within the trick
	Player string
	Card   card.Card
	Points int // Sum of every card on the table, awarded to the winner
}

// Beats reports whether candidate takes the trick from the current best card
func Beats(candidate, best card.Card, trump card.Suit) bool {
	if candidate.Suit == trump && best.Suit != trump {
		return true
	}
	if candidate.Suit != best.Suit {
		// Off-suit cards never win, and a trump best can only fall to a higher trump.
		return false
	}
	if candidate.Points() != best.Points() {
		return candidate.Points() > best.Points()
	}
	return candidate.Rank > best.Rank
}

// Evaluate scans the plays left to right and returns the winner. It panics on
// an empty trick; callers only evaluate complete tables.
func Evaluate(plays []Play, trump card.Suit) Result {
	if len(plays) == 0 {
		panic("trick: cannot evaluate an empty trick")
	}

	best := 0
	points := 0
	for i, p := range plays {
		points += p.Card.Points()
		if i > 0 && Beats(p.Card, plays[best].Card, trump) {
			best = i
		}
	}

	return Result{
		Index:  best,
		Player: plays[best].Player,
		Card:   plays[best].Card,
		Points: points,
	}
}

// EvaluateCards is Evaluate for anonymous cards
func EvaluateCards(cards []card.Card, trump card.Suit) Result {
	plays := make([]Play, len(cards))
	for i, c := range cards {
		plays[i] = Play{Card: c}
	}
	return Evaluate(plays, trump)
}
