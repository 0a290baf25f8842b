package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/config"
	"github.com/lox/briscola/internal/fileutil"
	"github.com/lox/briscola/internal/simulator"
)

// SimulateCmd runs many bot-only games and reports the statistics
type SimulateCmd struct {
	Games       int      `short:"n" help:"Number of games (defaults to config)"`
	Seed        *int64   `help:"Base seed; game i uses seed+i (defaults to config, then the clock)"`
	Players     []string `short:"p" help:"Seats as name=kind, e.g. Alice=scripted,Bob=random (defaults to config)"`
	Parallelism int      `help:"Games played at once (defaults to config, then GOMAXPROCS)"`
	Rotate      bool     `help:"Rotate seats every game"`
	RoundsToWin int      `help:"Round wins needed to take a game (defaults to config)"`
	Out         string   `short:"o" type:"path" help:"Write a JSON summary to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.Games > 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Parallelism > 0 {
		cfg.Simulation.Parallelism = c.Parallelism
	}
	if c.RoundsToWin > 0 {
		cfg.Game.RoundsToWin = c.RoundsToWin
	}
	if len(c.Players) > 0 {
		if cfg.Players, err = parseSeats(c.Players); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closeLog, err := setupLogger(cfg.Log, false)
	if err != nil {
		return err
	}
	defer closeLog()

	policy, err := cfg.RewardPolicy()
	if err != nil {
		return err
	}
	timeout, err := cfg.TurnTimeout()
	if err != nil {
		return err
	}

	clock := quartz.NewReal()
	seed := resolveSeed(c.Seed, cfg, clock)
	sim, err := simulator.New(simulator.Config{
		Games:       cfg.Simulation.Games,
		Seed:        seed,
		Seats:       seats(cfg.Players, logger),
		Parallelism: cfg.Simulation.Parallelism,
		Rotate:      c.Rotate || cfg.Simulation.Rotate,
		RoundsToWin: cfg.Game.RoundsToWin,
		Rewards:     policy,
		TurnTimeout: timeout,
		Logger:      logger,
		Clock:       clock,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting simulation", "games", cfg.Simulation.Games, "seed", seed)

	ctx, cancel := signalContext()
	defer cancel()

	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	if g.NoColor {
		simulator.PrintPlainSummary(os.Stdout, report)
	} else {
		simulator.PrintSummary(os.Stdout, report)
	}

	if c.Out != "" {
		if err := fileutil.WriteJSONAtomic(c.Out, report.Summary()); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		logger.Info("Wrote summary", "file", c.Out)
	}
	return nil
}

// parseSeats parses name=kind pairs
func parseSeats(args []string) ([]config.PlayerConfig, error) {
	players := make([]config.PlayerConfig, 0, len(args))
	for _, arg := range args {
		name, kind, ok := strings.Cut(arg, "=")
		name, kind = strings.TrimSpace(name), strings.TrimSpace(kind)
		if !ok || name == "" || kind == "" {
			return nil, fmt.Errorf("invalid seat %q, expected name=kind", arg)
		}
		players = append(players, config.PlayerConfig{Name: name, Agent: kind})
	}
	return players, nil
}

// seats converts configured players to simulator seats. A configured human
// is replaced by the scripted agent.
func seats(players []config.PlayerConfig, logger *log.Logger) []simulator.Seat {
	out := make([]simulator.Seat, len(players))
	for i, p := range players {
		kind := agent.Kind(p.Agent)
		if kind == agent.KindHuman {
			logger.Info("Seating scripted agent for human player", "player", p.Name)
			kind = agent.KindScripted
		}
		out[i] = simulator.Seat{Name: p.Name, Kind: kind}
	}
	return out
}
