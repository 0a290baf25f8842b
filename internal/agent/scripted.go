package agent

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/game"
	"github.com/lox/briscola/internal/trick"
)

// lowValue is the most a card can be worth and still count as cheap
const lowValue = 4

// Scripted plays a fixed heuristic:
//   - leading, or facing a cheap trump: play the cheapest card
//   - otherwise take the trick with the cheapest card of the winning suit
//     that beats it, if there is one
//   - failing that, against a cheap non-trump play the cheapest card
//     (spending a cheap trump if the table holds points), and against a
//     valuable card cut with the cheapest trump that wins
type Scripted struct {
	name   string
	logger *log.Logger
}

// NewScripted creates a scripted agent. A nil logger disables logging.
func NewScripted(name string, logger *log.Logger) *Scripted {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Scripted{name: name, logger: logger.WithPrefix("agent").With("player", name)}
}

func (s *Scripted) Name() string { return s.name }

func (s *Scripted) Observe(game.Observation) {}

func (s *Scripted) Act(_ context.Context, turn game.PlayTurnData) (int, error) {
	cards, err := hand(turn)
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		return 0, fmt.Errorf("%s has no cards to play", s.name)
	}
	trump, err := turn.Trump.Card()
	if err != nil {
		return 0, fmt.Errorf("trump: %w", err)
	}
	table := make([]card.Card, len(turn.Table))
	for i, v := range turn.Table {
		if table[i], err = v.Card(); err != nil {
			return 0, fmt.Errorf("table card %d: %w", i, err)
		}
	}

	choice, reason := Choose(cards, table, trump.Suit)
	s.logger.Debug("Scripted decision", "card", cards[choice].Name(), "reason", reason)
	return choice, nil
}

// Choose applies the scripted heuristic and returns the index of the card
// to play from hand along with a short reason
func Choose(hand, table []card.Card, trump card.Suit) (int, string) {
	if len(table) == 0 {
		return cheapest(hand, trump, nil), "lead cheapest"
	}

	best := table[trick.EvaluateCards(table, trump).Index]
	bestIsTrump := best.Suit == trump

	if bestIsTrump && best.Points() <= lowValue {
		return cheapest(hand, trump, nil), "cheap trump on table"
	}

	if !bestIsTrump {
		sameSuit := func(c card.Card) bool { return c.Suit == best.Suit && trick.Beats(c, best, trump) }
		if i := cheapest(hand, trump, sameSuit); i >= 0 {
			return i, "strozza"
		}
	}

	switch {
	case !bestIsTrump && best.Points() == 0 && card.TotalPoints(table) == 0:
		return cheapest(hand, trump, nil), "nothing to win"
	case !bestIsTrump && best.Points() <= lowValue:
		cheapTrump := func(c card.Card) bool { return c.Suit == trump && c.Points() <= lowValue }
		if i := cheapest(hand, trump, cheapTrump); i >= 0 {
			return i, "cut with cheap trump"
		}
		return cheapest(hand, trump, nil), "no cheap trump"
	}

	winner := func(c card.Card) bool { return trick.Beats(c, best, trump) }
	if i := cheapest(hand, trump, winner); i >= 0 {
		return i, "cut valuable card"
	}
	return cheapest(hand, trump, nil), "cannot win"
}

// cheapest returns the index of the lowest card in hand that satisfies
// keep, or -1. Cards are ordered by points, then non-trump first, then rank.
func cheapest(hand []card.Card, trump card.Suit, keep func(card.Card) bool) int {
	idx := make([]int, 0, len(hand))
	for i, c := range hand {
		if keep == nil || keep(c) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return -1
	}

	isTrump := func(c card.Card) int {
		if c.Suit == trump {
			return 1
		}
		return 0
	}
	return slices.MinFunc(idx, func(a, b int) int {
		ca, cb := hand[a], hand[b]
		return cmp.Or(
			cmp.Compare(ca.Points(), cb.Points()),
			cmp.Compare(isTrump(ca), isTrump(cb)),
			cmp.Compare(ca.Rank, cb.Rank),
			cmp.Compare(a, b),
		)
	})
}
