package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/lox/briscola/internal/game"
)

// EventBuffer is how many observations a Human holds for a slow front end
const EventBuffer = 64

// ErrQuit is returned when a human leaves the game
var ErrQuit = errors.New("player quit")

// Human relays turns to an interactive front end and waits for its choice.
// Turns are sent on Turns; the front end answers with a 0-based index on
// the choices channel. Closing the choices channel quits the game.
type Human struct {
	name    string
	turns   chan game.PlayTurnData
	events  chan game.Observation
	choices <-chan int
	logger  *log.Logger
	dropped atomic.Int64
}

// NewHuman creates a human agent answering from choices. A nil logger
// disables logging.
func NewHuman(name string, choices <-chan int, logger *log.Logger) *Human {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Human{
		name:    name,
		turns:   make(chan game.PlayTurnData, 1),
		events:  make(chan game.Observation, EventBuffer),
		choices: choices,
		logger:  logger.WithPrefix("agent").With("player", name),
	}
}

func (h *Human) Name() string { return h.name }

// Turns delivers each turn the human must play
func (h *Human) Turns() <-chan game.PlayTurnData { return h.turns }

// Events delivers broadcast observations. Observations are dropped, and
// logged at warn level, when the front end falls behind by more than
// EventBuffer.
func (h *Human) Events() <-chan game.Observation { return h.events }

// Dropped returns how many observations were discarded
func (h *Human) Dropped() int { return int(h.dropped.Load()) }

func (h *Human) Observe(obs game.Observation) {
	select {
	case h.events <- obs:
	default:
		n := h.dropped.Add(1)
		h.logger.Warn("Dropped observation, front end is not keeping up",
			"event", obs.Event, "buffer", EventBuffer, "dropped", n)
	}
}

func (h *Human) Act(ctx context.Context, turn game.PlayTurnData) (int, error) {
	select {
	case h.turns <- turn:
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case choice, ok := <-h.choices:
		if !ok {
			return 0, ErrQuit
		}
		return choice, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Prompt is a human playing through a line-oriented terminal. Cards are
// chosen by their 1-based position in the hand.
type Prompt struct {
	name      string
	in        *bufio.Scanner
	out       io.Writer
	formatter *game.EventFormatter
}

// NewPrompt creates a prompt agent reading choices from in and writing the
// game narrative to out
func NewPrompt(name string, in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		name:      name,
		in:        bufio.NewScanner(in),
		out:       out,
		formatter: game.NewEventFormatter(game.FormattingOptions{Perspective: name}),
	}
}

func (p *Prompt) Name() string { return p.name }

func (p *Prompt) Observe(obs game.Observation) {
	fmt.Fprintln(p.out, p.formatter.Format(obs))
}

func (p *Prompt) Act(ctx context.Context, turn game.PlayTurnData) (int, error) {
	fmt.Fprintf(p.out, "Briscola: %s\n", game.FormatCard(turn.Trump))
	if len(turn.Table) > 0 {
		fmt.Fprintf(p.out, "Table: %s\n", game.FormatCards(turn.Table))
	}
	for i, c := range turn.Hand {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, game.FormatCard(c))
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintf(p.out, "%s, choose a card [1-%d]: ", p.name, len(turn.Hand))
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, fmt.Errorf("failed to read choice: %w", err)
			}
			return 0, ErrQuit
		}

		line := strings.TrimSpace(p.in.Text())
		if line == "q" || line == "quit" {
			return 0, ErrQuit
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(turn.Hand) {
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d\n", len(turn.Hand))
			continue
		}
		return n - 1, nil
	}
}
