package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/briscola/internal/deck"
)

// DefaultRoundsToWin is the number of round wins that ends a game
const DefaultRoundsToWin = 3

// DeckFactory builds the deck for a new round
type DeckFactory func(rng *rand.Rand, playerCount int) *deck.Deck

// Option configures a Game during creation.
type Option func(*gameConfig)

// gameConfig holds all configuration for creating a game.
type gameConfig struct {
	seed        int64
	seeded      bool
	rng         *rand.Rand
	roundsToWin int
	rewards     RewardPolicy
	logger      *log.Logger
	newDeck     DeckFactory
}

func defaultConfig() *gameConfig {
	return &gameConfig{
		roundsToWin: DefaultRoundsToWin,
		rewards:     DefaultRewardPolicy(),
		newDeck:     deck.New,
	}
}

// WithSeed seeds the game's private random source. Two games created with the
// same seed and fed the same actions play out identically.
func WithSeed(seed int64) Option {
	return func(c *gameConfig) {
		c.seed = seed
		c.seeded = true
		c.rng = nil
	}
}

// WithRNG hands the game an existing random source. The source must not be
// shared with another game.
func WithRNG(rng *rand.Rand) Option {
	return func(c *gameConfig) {
		c.rng = rng
		c.seeded = false
	}
}

// WithRoundsToWin sets how many round wins end the game.
// Default is 3 if not specified.
func WithRoundsToWin(n int) Option {
	return func(c *gameConfig) {
		c.roundsToWin = n
	}
}

// WithRewardPolicy selects how per-transition rewards are computed.
func WithRewardPolicy(p RewardPolicy) Option {
	return func(c *gameConfig) {
		c.rewards = p
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *gameConfig) {
		c.logger = logger
	}
}

// WithDeckFactory overrides how each round's deck is built.
// Tests use it to supply a known card order.
func WithDeckFactory(f DeckFactory) Option {
	return func(c *gameConfig) {
		c.newDeck = f
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
