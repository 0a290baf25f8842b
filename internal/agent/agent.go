// Package agent provides the decision makers that sit on the other side of
// the game's observation/action contract.
package agent

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/game"
)

// Agent chooses a card whenever the game asks it to play
type Agent interface {
	Name() string

	// Observe receives every broadcast observation of the game
	Observe(obs game.Observation)

	// Act returns the 0-based index of the card to play from turn.Hand
	Act(ctx context.Context, turn game.PlayTurnData) (int, error)
}

// Kind names an automated agent implementation
type Kind string

const (
	KindRandom   Kind = "random"
	KindScripted Kind = "scripted"
	KindHuman    Kind = "human"
)

// ParseKind converts a configuration string into a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindRandom, KindScripted, KindHuman:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown agent kind %q", s)
}

// New builds an automated agent. Human agents need an input source and are
// built with NewHuman or NewPrompt instead.
func New(kind Kind, name string, rng *rand.Rand, logger *log.Logger) (Agent, error) {
	switch kind {
	case KindRandom:
		if rng == nil {
			return nil, fmt.Errorf("random agent %s needs a random source", name)
		}
		return NewRandom(name, rng), nil
	case KindScripted:
		return NewScripted(name, logger), nil
	case KindHuman:
		return nil, fmt.Errorf("human agent %s must be built with an input source", name)
	}
	return nil, fmt.Errorf("unknown agent kind %q", kind)
}

// hand converts the card views of a turn back into cards
func hand(turn game.PlayTurnData) ([]card.Card, error) {
	cards := make([]card.Card, len(turn.Hand))
	for i, v := range turn.Hand {
		c, err := v.Card()
		if err != nil {
			return nil, fmt.Errorf("hand card %d: %w", i, err)
		}
		cards[i] = c
	}
	return cards, nil
}

// Random plays a uniformly random card from its hand
type Random struct {
	name string
	rng  *rand.Rand
}

// NewRandom creates a random agent drawing from rng
func NewRandom(name string, rng *rand.Rand) *Random {
	return &Random{name: name, rng: rng}
}

func (r *Random) Name() string { return r.name }

func (r *Random) Observe(game.Observation) {}

func (r *Random) Act(_ context.Context, turn game.PlayTurnData) (int, error) {
	if len(turn.Hand) == 0 {
		return 0, fmt.Errorf("%s has no cards to play", r.name)
	}
	return r.rng.IntN(len(turn.Hand)), nil
}
