package simulator

import (
	"bytes"
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seats(kinds ...agent.Kind) []Seat {
	names := []string{"Alice", "Bob", "Carol", "Dave"}
	out := make([]Seat, len(kinds))
	for i, k := range kinds {
		out[i] = Seat{Name: names[i], Kind: k}
	}
	return out
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config Config
	}{
		{"no games", Config{Seats: seats(agent.KindRandom, agent.KindRandom)}},
		{"one seat", Config{Games: 1, Seats: seats(agent.KindRandom)}},
		{"five seats", Config{Games: 1, Seats: append(seats(agent.KindRandom, agent.KindRandom, agent.KindRandom, agent.KindRandom), Seat{"Eve", agent.KindRandom})}},
		{"human seat", Config{Games: 1, Seats: seats(agent.KindHuman, agent.KindRandom)}},
		{"unknown kind", Config{Games: 1, Seats: seats("genius", agent.KindRandom)}},
		{"bad reward", Config{Games: 1, Seats: seats(agent.KindRandom, agent.KindRandom), Rewards: game.RewardPolicy{Kind: "greedy"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.config)
			assert.Error(t, err)
		})
	}
}

func TestRunAggregatesGames(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{
		Games:       40,
		Seed:        7,
		Seats:       seats(agent.KindScripted, agent.KindRandom),
		Parallelism: 4,
		Clock:       quartz.NewMock(t),
	})
	require.NoError(t, err)

	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, report.Stats.Validate())

	stats := report.Stats
	assert.Equal(t, 40, stats.Games)
	assert.Equal(t, 20*stats.TotalRounds, stats.Tricks)
	assert.GreaterOrEqual(t, stats.Rounds.Mean(), float64(game.DefaultRoundsToWin))
	assert.Equal(t, stats.Games, stats.Players["Alice"].Wins+stats.Players["Bob"].Wins)
	assert.Greater(t, stats.Players["Alice"].Wins, stats.Players["Bob"].Wins, "scripted should beat random")
	assert.Zero(t, report.Retries)
	assert.Zero(t, report.Elapsed, "mock clock does not move")
	assert.Zero(t, report.GamesPerSecond())
}

func TestRunIsReproducible(t *testing.T) {
	t.Parallel()

	run := func(parallelism int) Summary {
		sim, err := New(Config{
			Games:       12,
			Seed:        2024,
			Seats:       seats(agent.KindRandom, agent.KindScripted, agent.KindRandom),
			Parallelism: parallelism,
			Rotate:      true,
			Rewards:     game.ShapedRewardPolicy(1, 0.5),
			Clock:       quartz.NewMock(t),
		})
		require.NoError(t, err)
		report, err := sim.Run(context.Background())
		require.NoError(t, err)
		return report.Summary()
	}

	assert.Equal(t, run(1), run(6))
}

func TestRotateSeats(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{Games: 1, Seats: seats(agent.KindRandom, agent.KindRandom, agent.KindRandom), Rotate: true})
	require.NoError(t, err)

	leaders := make([]string, 4)
	for i := range leaders {
		leaders[i] = sim.seats(i)[0].Name
	}
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Alice"}, leaders)
	assert.Equal(t, "Alice", sim.config.Seats[0].Name, "rotation must not modify the configured order")
}

func TestRoundsToWin(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{
		Games:       10,
		Seed:        1,
		Seats:       seats(agent.KindRandom, agent.KindRandom, agent.KindRandom, agent.KindRandom),
		RoundsToWin: 1,
		Clock:       quartz.NewMock(t),
	})
	require.NoError(t, err)

	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10*report.Stats.TotalRounds, report.Stats.Tricks)
	for _, name := range report.Stats.Names() {
		p := report.Stats.Players[name]
		assert.Equal(t, p.Wins, p.RoundWins, "the only decided round wins the game")
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{Games: 5, Seats: seats(agent.KindRandom, agent.KindRandom)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	sim, err := New(Config{Games: 3, Seed: 11, Seats: seats(agent.KindScripted, agent.KindScripted), Clock: quartz.NewMock(t)})
	require.NoError(t, err)
	report, err := sim.Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintPlainSummary(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "=== SIMULATION ===")
	assert.Contains(t, out, "Games played: 3 (seed 11)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "points/round")
	assert.NotContains(t, out, "\x1b[", "plain output has no escape codes")

	summary := report.Summary()
	require.Len(t, summary.Players, 2)
	assert.Equal(t, 3, summary.Players[0].Wins+summary.Players[1].Wins)
}
