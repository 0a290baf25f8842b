// Package simulator plays many independent games between automated agents
// and aggregates the outcome.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/game"
	"github.com/lox/briscola/internal/match"
	"github.com/lox/briscola/internal/randutil"
	"github.com/lox/briscola/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Seat is one automated player in every simulated game
type Seat struct {
	Name string
	Kind agent.Kind
}

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Seed        int64
	Seats       []Seat
	Parallelism int  // Defaults to GOMAXPROCS
	Rotate      bool // Rotate seat order every game to remove leader bias
	RoundsToWin int  // Zero uses the game default
	Rewards     game.RewardPolicy
	TurnTimeout time.Duration
	Logger      *log.Logger
	Clock       quartz.Clock
}

// Report is the outcome of a simulation run
type Report struct {
	Seed      int64
	Stats     *statistics.Statistics
	Retries   int
	Fallbacks int
	Elapsed   time.Duration
}

// GamesPerSecond returns the simulation throughput
func (r *Report) GamesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Stats.Games) / r.Elapsed.Seconds()
}

// Simulator runs Briscola game simulations
type Simulator struct {
	config Config
	logger *log.Logger
	clock  quartz.Clock
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", config.Games)
	}
	if n := len(config.Seats); n < 2 || n > 4 {
		return nil, fmt.Errorf("simulation needs 2 to 4 seats, got %d", n)
	}
	for _, seat := range config.Seats {
		if seat.Kind == agent.KindHuman {
			return nil, fmt.Errorf("seat %s: human agents cannot be simulated", seat.Name)
		}
		if _, err := agent.ParseKind(string(seat.Kind)); err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat.Name, err)
		}
	}
	if config.Rewards.Kind == "" {
		config.Rewards = game.DefaultRewardPolicy()
	}
	if err := config.Rewards.Validate(); err != nil {
		return nil, err
	}
	if config.Parallelism <= 0 {
		config.Parallelism = runtime.GOMAXPROCS(0)
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Simulator{
		config: config,
		logger: logger.WithPrefix("simulator"),
		clock:  clock,
	}, nil
}

type gameOutcome struct {
	result    statistics.GameResult
	retries   int
	fallbacks int
}

// Run plays every game and returns the aggregated report. Games run in
// parallel but results are folded in game order, so a seed always produces
// the same report.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	start := s.clock.Now()
	outcomes := make([]gameOutcome, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallelism)
	for i := range s.config.Games {
		g.Go(func() error {
			outcome, err := s.playGame(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, randutil.Derive(s.config.Seed, i), err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Seed:  s.config.Seed,
		Stats: &statistics.Statistics{},
	}
	for _, o := range outcomes {
		report.Stats.Add(o.result)
		report.Retries += o.retries
		report.Fallbacks += o.fallbacks
	}
	report.Elapsed = s.clock.Since(start)

	if err := report.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete",
		"games", report.Stats.Games,
		"rounds", report.Stats.TotalRounds,
		"elapsed", report.Elapsed)
	return report, nil
}

// seats returns the seating for game i
func (s *Simulator) seats(i int) []Seat {
	seats := s.config.Seats
	if !s.config.Rotate {
		return seats
	}
	shift := i % len(seats)
	return append(seats[shift:len(seats):len(seats)], seats[:shift]...)
}

func (s *Simulator) playGame(ctx context.Context, i int) (gameOutcome, error) {
	seed := randutil.Derive(s.config.Seed, i)

	seats := s.seats(i)
	agents := make([]agent.Agent, len(seats))
	for j, seat := range seats {
		a, err := agent.New(seat.Kind, seat.Name, randutil.New(randutil.Derive(^seed, j)), s.logger)
		if err != nil {
			return gameOutcome{}, err
		}
		agents[j] = a
	}

	gameOpts := []game.Option{game.WithSeed(seed), game.WithRewardPolicy(s.config.Rewards)}
	if s.config.RoundsToWin > 0 {
		gameOpts = append(gameOpts, game.WithRoundsToWin(s.config.RoundsToWin))
	}
	m, err := match.New(agents,
		match.WithClock(s.clock),
		match.WithLogger(s.logger),
		match.WithTurnTimeout(s.config.TurnTimeout),
		match.WithGameOptions(gameOpts...),
	)
	if err != nil {
		return gameOutcome{}, err
	}

	result, err := m.Run(ctx)
	if err != nil {
		return gameOutcome{}, err
	}
	s.logger.Debug("Game finished", "game", i+1, "seed", seed, "winner", result.Winner, "rounds", len(result.Rounds))

	return gameOutcome{
		result:    toGameResult(result),
		retries:   result.Retries,
		fallbacks: result.Fallbacks,
	}, nil
}

func toGameResult(r *match.Result) statistics.GameResult {
	out := statistics.GameResult{
		Seed:        r.Seed,
		Winner:      r.Winner,
		Rounds:      len(r.Rounds),
		TiedRounds:  r.TiedRounds(),
		Tricks:      r.Tricks,
		RoundWins:   make(map[string]int),
		RoundPoints: make(map[string][]int),
		Rewards:     make(map[string]float64, len(r.Rewards)),
	}
	for name, reward := range r.Rewards {
		out.Rewards[name] = reward
	}
	for _, round := range r.Rounds {
		if round.Winner != "" {
			out.RoundWins[round.Winner]++
		}
		for _, p := range round.Players {
			out.RoundPoints[p.Name] = append(out.RoundPoints[p.Name], p.RoundPoints)
		}
	}
	return out
}
