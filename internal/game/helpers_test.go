package game

import (
	rand "math/rand/v2"
	"testing"

	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/deck"
	"github.com/stretchr/testify/require"
)

// stackedDeck returns a deck factory whose deck starts with the given cards,
// followed by every other card in construction order. Deal order for n
// players is: pass one to each player starting with the leader, three times,
// then the trump card.
func stackedDeck(top string) DeckFactory {
	return func(_ *rand.Rand, players int) *deck.Deck {
		first := card.MustParseCards(top)
		used := make(map[card.Card]bool, len(first))
		for _, c := range first {
			used[c] = true
		}

		cards := append([]card.Card(nil), first...)
		for _, s := range card.Suits {
			for r := card.MinRank; r <= card.MaxRank; r++ {
				c := card.New(r, s)
				if used[c] || (players == 3 && c == deck.TrimmedCard) {
					continue
				}
				cards = append(cards, c)
			}
		}
		return deck.FromCards(cards)
	}
}

type policy func(data PlayTurnData) int

func firstCard(PlayTurnData) int { return 0 }

func randomCard(rng *rand.Rand) policy {
	return func(data PlayTurnData) int { return rng.IntN(len(data.Hand)) }
}

type stepRecord struct {
	obs     Observation
	rewards Rewards
	done    bool
}

// playGame drives g from Reset to GameOver and returns every observation
func playGame(t *testing.T, g *Game, choose policy) []stepRecord {
	t.Helper()

	records := []stepRecord{{obs: g.Reset()}}
	for i := 0; ; i++ {
		require.Less(t, i, 100000, "game did not terminate")

		var action *Action
		last := records[len(records)-1].obs
		if data, ok := last.Data.(PlayTurnData); ok {
			action = NewPlayAction(data.PlayerName, choose(data))
		}

		obs, rewards, done, err := g.Step(action)
		require.NoError(t, err)
		records = append(records, stepRecord{obs: obs, rewards: rewards, done: done})
		if done {
			return records
		}
	}
}

func mustNew(t *testing.T, names []string, opts ...Option) *Game {
	t.Helper()
	g, err := New(names, opts...)
	require.NoError(t, err)
	return g
}

// stepTo steps with no action until the next observation has the given event
func stepTo(t *testing.T, g *Game, event State) Observation {
	t.Helper()
	for range 10 {
		obs, _, _, err := g.Step(nil)
		require.NoError(t, err)
		if obs.Event == event {
			return obs
		}
	}
	t.Fatalf("never reached %s", event)
	return Observation{}
}

func requireInvariantPanic(t *testing.T, invariant string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		v, ok := r.(*InvariantViolation)
		require.True(t, ok, "panic value %T is not an *InvariantViolation", r)
		require.Equal(t, invariant, v.Invariant)
	}()
	fn()
}
