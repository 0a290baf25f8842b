package match

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/briscola/internal/game"
)

// DefaultMaxRetries is how many invalid actions an agent may submit for one
// turn before the driver plays its first card
const DefaultMaxRetries = 3

// Option configures a Match during creation.
type Option func(*config)

type config struct {
	maxRetries  int
	turnTimeout time.Duration
	clock       quartz.Clock
	logger      *log.Logger
	observers   []Observer
	gameOpts    []game.Option
}

func defaultConfig() *config {
	return &config{
		maxRetries: DefaultMaxRetries,
		clock:      quartz.NewReal(),
	}
}

// WithMaxRetries sets how many invalid actions are tolerated per turn.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		c.maxRetries = n
	}
}

// WithTurnTimeout bounds how long an agent may think. An agent that runs
// out of time forfeits the choice and plays its first card. Zero disables
// the limit.
func WithTurnTimeout(d time.Duration) Option {
	return func(c *config) {
		c.turnTimeout = d
	}
}

// WithClock sets the clock used for turn timeouts and timing.
func WithClock(clock quartz.Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithLogger sets the logger for the match and its game.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithObserver adds an observer that sees every observation, including the
// private PlayTurn ones.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observers = append(c.observers, o)
	}
}

// WithGameOptions passes options through to the underlying game.
func WithGameOptions(opts ...game.Option) Option {
	return func(c *config) {
		c.gameOpts = append(c.gameOpts, opts...)
	}
}
