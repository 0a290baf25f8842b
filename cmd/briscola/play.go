package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/config"
	"github.com/lox/briscola/internal/game"
	"github.com/lox/briscola/internal/match"
	"github.com/lox/briscola/internal/randutil"
	"github.com/lox/briscola/internal/tui"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

// PlayCmd plays one interactive game
type PlayCmd struct {
	Seed        *int64 `help:"Deterministic game seed (defaults to config, then the clock)"`
	RoundsToWin int    `help:"Round wins needed to take the game (defaults to config)"`
	Prompt      bool   `help:"Use a line prompt instead of the full-screen interface"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if c.RoundsToWin > 0 {
		cfg.Game.RoundsToWin = c.RoundsToWin
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	human, ok := cfg.Human()
	if !ok {
		return errors.New("play needs a player with agent = \"human\"; use simulate for bot-only games")
	}

	logger, closeLog, err := setupLogger(cfg.Log, !c.Prompt)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := resolveSeed(c.Seed, cfg, quartz.NewReal())
	logger.Info("Starting game", "seed", seed, "players", cfg.Names())

	ctx, cancel := signalContext()
	defer cancel()

	if c.Prompt {
		seat := agent.NewPrompt(human.Name, os.Stdin, os.Stdout)
		m, err := newMatch(cfg, seed, seat, logger)
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render(" Briscola "))
		fmt.Printf("Seed %d\n\n", seed)
		result, err := m.Run(ctx)
		if errors.Is(err, agent.ErrQuit) {
			fmt.Println("Bye!")
			return nil
		}
		if err != nil {
			return err
		}
		printResult(os.Stdout, result, human.Name)
		return nil
	}

	model := tui.New(human.Name, logger)
	m, err := newMatch(cfg, seed, model.Agent(), logger)
	if err != nil {
		return err
	}
	return runTUI(ctx, model, m, human.Name)
}

// runTUI runs the match in the background while the program owns the
// terminal
func runTUI(ctx context.Context, model *tui.Model, m *match.Match, human string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	type outcome struct {
		result *match.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := m.Run(ctx)
		done <- outcome{result, err}
		program.Send(tui.MatchOverMsg{Err: err})
	}()

	_, progErr := program.Run()
	cancel()
	out := <-done

	if progErr != nil && !errors.Is(progErr, tea.ErrProgramKilled) {
		return fmt.Errorf("interface failed: %w", progErr)
	}
	switch {
	case out.err == nil:
		printResult(os.Stdout, out.result, human)
	case errors.Is(out.err, agent.ErrQuit), errors.Is(out.err, context.Canceled):
		fmt.Println("Game abandoned.")
	default:
		return out.err
	}
	return nil
}

// newMatch seats the configured agents with the human in its place
func newMatch(cfg *config.Config, seed int64, human agent.Agent, logger *log.Logger) (*match.Match, error) {
	agents := make([]agent.Agent, len(cfg.Players))
	for i, p := range cfg.Players {
		if p.Name == human.Name() {
			agents[i] = human
			continue
		}
		kind, err := agent.ParseKind(p.Agent)
		if err != nil {
			return nil, err
		}
		a, err := agent.New(kind, p.Name, randutil.New(randutil.Derive(^seed, i)), logger)
		if err != nil {
			return nil, err
		}
		agents[i] = a
	}

	policy, err := cfg.RewardPolicy()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.TurnTimeout()
	if err != nil {
		return nil, err
	}

	opts := []match.Option{
		match.WithLogger(logger),
		match.WithTurnTimeout(timeout),
		match.WithGameOptions(
			game.WithSeed(seed),
			game.WithRoundsToWin(cfg.Game.RoundsToWin),
			game.WithRewardPolicy(policy),
		),
	}
	if cfg.Game.MaxRetries != nil {
		opts = append(opts, match.WithMaxRetries(*cfg.Game.MaxRetries))
	}
	return match.New(agents, opts...)
}

func printResult(w io.Writer, result *match.Result, human string) {
	winner := result.Winner
	if winner == human {
		winner = "You"
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(" %s won the game ", winner)))
	for _, r := range result.Rounds {
		name := r.Winner
		if name == "" {
			name = "tie"
		}
		fmt.Fprintf(w, "Round %d: %s\n", r.Round, name)
	}
	fmt.Fprintf(w, "Seed %d, match %s\n", result.Seed, result.ID)
}
