package game

import (
	"fmt"

	"github.com/lox/briscola/internal/trick"
)

// RewardKind selects the per-trick reward formula
type RewardKind string

const (
	// RewardBaseline pays the trick's points to its winner
	RewardBaseline RewardKind = "baseline"

	// RewardShaped pays the winner the points it gained beyond its own card
	// and charges every loser for the card it gave away
	RewardShaped RewardKind = "shaped"
)

// DefaultRoundBonus is paid to the winner of a round
const DefaultRoundBonus = 100

// Rewards maps player names to the reward earned on one transition
type Rewards map[string]float64

// RewardPolicy configures the reward signal exposed to learning agents
type RewardPolicy struct {
	Kind       RewardKind
	W1         float64 // Shaped: weight on the winner's net gain
	W2         float64 // Shaped: weight on each loser's spent card
	RoundBonus float64
}

// DefaultRewardPolicy returns the baseline policy with the standard round bonus
func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{
		Kind:       RewardBaseline,
		W1:         1,
		W2:         1,
		RoundBonus: DefaultRoundBonus,
	}
}

// ShapedRewardPolicy returns a shaped policy with the given weights
func ShapedRewardPolicy(w1, w2 float64) RewardPolicy {
	return RewardPolicy{
		Kind:       RewardShaped,
		W1:         w1,
		W2:         w2,
		RoundBonus: DefaultRoundBonus,
	}
}

// ParseRewardKind converts a configuration string into a RewardKind
func ParseRewardKind(s string) (RewardKind, error) {
	switch RewardKind(s) {
	case RewardBaseline, RewardShaped:
		return RewardKind(s), nil
	case "":
		return RewardBaseline, nil
	}
	return "", fmt.Errorf("unknown reward policy %q", s)
}

// Validate checks that the policy can be used
func (p RewardPolicy) Validate() error {
	if _, err := ParseRewardKind(string(p.Kind)); err != nil {
		return err
	}
	if p.RoundBonus < 0 {
		return fmt.Errorf("round bonus must not be negative")
	}
	return nil
}

// TrickRewards computes the reward of every player for a resolved trick.
// plays must be the cards exactly as they were on the table.
func (p RewardPolicy) TrickRewards(plays []trick.Play, result trick.Result) Rewards {
	rewards := make(Rewards, len(plays))
	for i, play := range plays {
		won := i == result.Index
		switch p.Kind {
		case RewardShaped:
			spent := float64(play.Card.Points())
			if won {
				rewards[play.Player] = (float64(result.Points) - spent) * p.W1
			} else {
				rewards[play.Player] = -spent * p.W2
			}
		default:
			if won {
				rewards[play.Player] = float64(result.Points)
			} else {
				rewards[play.Player] = 0
			}
		}
	}
	return rewards
}

// RoundRewards pays the round bonus to winner. An empty winner means the
// round was tied and nobody is paid.
func (p RewardPolicy) RoundRewards(players []*Player, winner string) Rewards {
	rewards := make(Rewards, len(players))
	for _, pl := range players {
		if winner != "" && pl.Name == winner {
			rewards[pl.Name] = p.RoundBonus
		} else {
			rewards[pl.Name] = 0
		}
	}
	return rewards
}
