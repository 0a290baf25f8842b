// Package match drives a game between agents: it delivers observations,
// collects actions and keeps score.
package match

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/game"
	"github.com/lox/briscola/internal/gameid"
	"github.com/lox/briscola/internal/randutil"
)

// Observer watches a match
type Observer interface {
	OnObservation(obs game.Observation)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(obs game.Observation)

func (f ObserverFunc) OnObservation(obs game.Observation) { f(obs) }

// RoundSummary records how a round ended
type RoundSummary struct {
	Round   int                  `json:"round"`
	Winner  string               `json:"winner"` // Empty when tied
	Players []game.PlayerSummary `json:"players"`
}

// Result is the outcome of a completed match
type Result struct {
	ID        string               `json:"id"`
	Seed      int64                `json:"seed"`
	Winner    string               `json:"winner"`
	Rounds    []RoundSummary       `json:"rounds"`
	Tricks    int                  `json:"tricks"`
	Rewards   game.Rewards         `json:"rewards"`
	Retries   int                  `json:"retries"`   // Invalid actions that were retried
	Fallbacks int                  `json:"fallbacks"` // Turns played for an agent after retries or timeout
	Duration  time.Duration        `json:"duration"`
	Final     []game.PlayerSummary `json:"final"`
}

// TiedRounds counts the rounds that ended without a winner
func (r *Result) TiedRounds() int {
	n := 0
	for _, round := range r.Rounds {
		if round.Winner == "" {
			n++
		}
	}
	return n
}

// Match is one game between a fixed set of agents
type Match struct {
	game   *game.Game
	agents map[string]agent.Agent
	order  []agent.Agent
	cfg    *config
	logger *log.Logger
	id     string
}

// New seats the agents, in order, at a new game. Agent names must be unique.
func New(agents []agent.Agent, opts ...Option) (*Match, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.maxRetries < 0 {
		return nil, fmt.Errorf("max retries must not be negative")
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	names := make([]string, len(agents))
	byName := make(map[string]agent.Agent, len(agents))
	for i, a := range agents {
		names[i] = a.Name()
		byName[a.Name()] = a
	}

	gameOpts := append([]game.Option{game.WithLogger(logger.WithPrefix("game"))}, cfg.gameOpts...)
	g, err := game.New(names, gameOpts...)
	if err != nil {
		return nil, err
	}

	id := gameid.NewGenerator(cfg.clock, randutil.New(^g.Seed())).Generate()
	return &Match{
		game:   g,
		agents: byName,
		order:  agents,
		cfg:    cfg,
		logger: logger.WithPrefix("match").With("match_id", id),
		id:     id,
	}, nil
}

// ID returns the identifier of the match
func (m *Match) ID() string { return m.id }

// Game returns the underlying game
func (m *Match) Game() *game.Game { return m.game }

// Run plays the game to completion. It returns early if ctx is cancelled or
// an agent fails with an error other than an invalid choice.
func (m *Match) Run(ctx context.Context) (*Result, error) {
	start := m.cfg.clock.Now()
	result := &Result{
		ID:      m.id,
		Seed:    m.game.Seed(),
		Rewards: make(game.Rewards, len(m.order)),
	}
	for _, a := range m.order {
		result.Rewards[a.Name()] = 0
	}

	m.logger.Info("Match started", "players", len(m.order), "seed", result.Seed)

	obs := m.game.Reset()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.deliver(obs)

		var (
			next    game.Observation
			rewards game.Rewards
			done    bool
			err     error
		)
		if turn, ok := obs.Data.(game.PlayTurnData); ok {
			next, rewards, err = m.playTurn(ctx, turn, result)
		} else {
			next, rewards, done, err = m.game.Step(nil)
		}
		if err != nil {
			return nil, err
		}

		for name, r := range rewards {
			result.Rewards[name] += r
		}
		switch data := next.Data.(type) {
		case game.ShowTurnEndData:
			result.Tricks++
		case game.RoundEndData:
			result.Rounds = append(result.Rounds, RoundSummary{
				Round:   data.Round,
				Winner:  data.RoundWinner,
				Players: data.Players,
			})
		case game.GameOverData:
			result.Winner = data.GameWinner
			result.Final = data.Players
		}

		if done {
			m.deliver(next)
			result.Duration = m.cfg.clock.Since(start)
			m.logger.Info("Match over",
				"winner", result.Winner,
				"rounds", len(result.Rounds),
				"duration", result.Duration)
			return result, nil
		}
		obs = next
	}
}

func (m *Match) deliver(obs game.Observation) {
	for _, o := range m.cfg.observers {
		o.OnObservation(obs)
	}
	if !obs.Broadcast {
		return
	}
	for _, a := range m.order {
		a.Observe(obs)
	}
}

// playTurn asks the agent on turn for a card until the game accepts one
func (m *Match) playTurn(ctx context.Context, turn game.PlayTurnData, result *Result) (game.Observation, game.Rewards, error) {
	a, ok := m.agents[turn.PlayerName]
	if !ok {
		return game.Observation{}, nil, fmt.Errorf("no agent seated as %s", turn.PlayerName)
	}
	logger := m.logger.With("player", turn.PlayerName)

	for attempt := 0; ; attempt++ {
		var choice int
		if attempt > m.cfg.maxRetries {
			logger.Warn("Too many invalid actions, playing first card", "attempts", attempt)
			result.Fallbacks++
		} else {
			var err error
			choice, err = m.ask(ctx, a, turn)
			switch {
			case errors.Is(err, errTurnTimeout):
				logger.Warn("Agent timed out, playing first card", "timeout", m.cfg.turnTimeout)
				choice = 0
				result.Fallbacks++
			case err != nil:
				return game.Observation{}, nil, fmt.Errorf("agent %s: %w", turn.PlayerName, err)
			}
		}

		obs, rewards, _, err := m.game.Step(game.NewPlayAction(turn.PlayerName, choice))
		if err == nil {
			return obs, rewards, nil
		}
		if !errors.Is(err, game.ErrInvalidAction) {
			return game.Observation{}, nil, err
		}
		logger.Debug("Invalid action", "card", choice, "error", err)
		result.Retries++
	}
}

var errTurnTimeout = errors.New("turn timed out")

// ask runs the agent, bounded by the turn timeout when one is set
func (m *Match) ask(ctx context.Context, a agent.Agent, turn game.PlayTurnData) (int, error) {
	if m.cfg.turnTimeout <= 0 {
		return a.Act(ctx, turn)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	timedOut := make(chan struct{})
	timer := m.cfg.clock.AfterFunc(m.cfg.turnTimeout, func() { close(timedOut) }, "match", "turn")
	defer timer.Stop()

	type answer struct {
		choice int
		err    error
	}
	answers := make(chan answer, 1)
	go func() {
		choice, err := a.Act(ctx, turn)
		answers <- answer{choice, err}
	}()

	select {
	case ans := <-answers:
		return ans.choice, ans.err
	case <-timedOut:
		return 0, errTurnTimeout
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
