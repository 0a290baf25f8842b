package tui

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel() *Model {
	return New("You", log.New(io.Discard))
}

func views(s string) []game.CardView {
	cards := card.MustParseCards(s)
	out := make([]game.CardView, len(cards))
	for i, c := range cards {
		out[i] = game.ViewOf(c)
	}
	return out
}

func turn() game.PlayTurnData {
	return game.PlayTurnData{
		PlayerName: "You",
		Hand:       views("1c 7p 10f"),
		Trump:      game.ViewOf(card.New(3, card.Fiori)),
		Table:      views("2q"),
	}
}

func enter(m *Model, value string) {
	m.input.SetValue(value)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestPlayCard(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	m.Update(turnMsg(turn()))
	require.NotNil(t, m.turn)

	enter(m, "2")
	select {
	case choice := <-m.choices:
		assert.Equal(t, 1, choice, "input is 1-based")
	default:
		t.Fatal("no choice sent")
	}
	assert.Nil(t, m.turn)
	assert.Empty(t, m.input.Value())
}

func TestRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		status string
	}{
		{"zero", "0", "between 1 and 3"},
		{"too high", "4", "between 1 and 3"},
		{"word", "ace", "between 1 and 3"},
		{"empty", "", "between 1 and 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newTestModel()
			m.Update(turnMsg(turn()))
			enter(m, tt.input)

			assert.Contains(t, m.status, tt.status)
			assert.NotNil(t, m.turn, "turn stays open")
			assert.Empty(t, m.choices)
		})
	}

	m := newTestModel()
	enter(m, "1")
	assert.Contains(t, m.status, "Not your turn")
	assert.Empty(t, m.choices)
}

func TestEventsUpdateState(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	players := []game.PlayerSummary{{Name: "You"}, {Name: "Bot"}}
	m.Update(eventMsg(game.Observation{
		Event:     game.NewRound,
		Broadcast: true,
		Data: game.NewRoundData{
			Round:   2,
			Players: players,
			Trump:   game.ViewOf(card.New(1, card.Picche)),
			Leader:  "Bot",
		},
	}))

	assert.Equal(t, 2, m.round)
	require.NotNil(t, m.trump)
	assert.Equal(t, "Picche", m.trump.Suit)
	assert.Equal(t, players, m.scores)
	require.Len(t, m.Log(), 1)

	m.Update(eventMsg(game.Observation{
		Event:     game.ShowTurnEnd,
		Broadcast: true,
		Data:      game.ShowTurnEndData{Players: []string{"Bot", "You"}, Winner: "You", Points: 11, Table: views("1p 2p")},
	}))
	assert.Zero(t, players[0].RoundPoints, "scores are copied")
	assert.Equal(t, 11, m.scores[0].RoundPoints)
	assert.Len(t, m.Log(), 2)
}

func TestQuitClosesChoices(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	_, ok := <-m.choices
	assert.False(t, ok)

	// Quitting twice must not panic on the closed channel.
	enter(m, "q")
}

func TestHumanAgentRoundTrip(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := newTestModel()
	type answer struct {
		choice int
		err    error
	}
	answers := make(chan answer, 1)
	go func() {
		choice, err := m.Agent().Act(ctx, turn())
		answers <- answer{choice, err}
	}()

	// Run the command the model issues to pick up the turn.
	msg := m.waitForTurn()()
	m.Update(msg)
	enter(m, "3")

	got := <-answers
	require.NoError(t, got.err)
	assert.Equal(t, 2, got.choice)

	go func() {
		_, err := m.Agent().Act(ctx, turn())
		answers <- answer{err: err}
	}()
	m.Update(m.waitForTurn()())
	enter(m, "quit")
	got = <-answers
	assert.True(t, errors.Is(got.err, agent.ErrQuit))
}

func TestMatchOverAndView(t *testing.T) {
	t.Parallel()

	m := newTestModel()
	assert.Equal(t, "Loading...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(turnMsg(turn()))
	view := m.View()
	assert.Contains(t, view, "Hand:")
	assert.Contains(t, view, "Briscola")

	m.Update(MatchOverMsg{Err: errors.New("boom")})
	assert.True(t, m.over)
	assert.Contains(t, m.status, "boom")
	assert.Contains(t, m.View(), "Game over")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestFormatCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		card string
		want string
	}{
		{"1c", "A♥"},
		{"7q", "7♦"},
		{"8f", "F♣"},
		{"9p", "C♠"},
		{"10c", "R♥"},
	}
	for _, tt := range tests {
		assert.Contains(t, formatCard(views(tt.card)[0]), tt.want)
	}
}
