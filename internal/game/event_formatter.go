package game

import (
	"fmt"
	"strings"
)

// FormattingOptions controls how observations are rendered as text
type FormattingOptions struct {
	Perspective string // Player name rendered as "You"
	ShowHand    bool   // Include the hand in PlayTurn lines
}

// EventFormatter turns observations into the human-readable lines used by the
// CLI, the TUI log and debug output
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Describe renders an observation with default options
func Describe(obs Observation) string {
	return NewEventFormatter(FormattingOptions{}).Format(obs)
}

func (ef *EventFormatter) name(player string) string {
	if ef.opts.Perspective != "" && player == ef.opts.Perspective {
		return "You"
	}
	return player
}

// Format renders a single observation
func (ef *EventFormatter) Format(obs Observation) string {
	switch data := obs.Data.(type) {
	case GameStartData:
		names := make([]string, len(data.Players))
		for i, p := range data.Players {
			names[i] = ef.name(p.Name)
		}
		return fmt.Sprintf("*** Briscola start *** players: %s", strings.Join(names, ", "))

	case NewRoundData:
		return fmt.Sprintf("*** Round %d *** briscola: %s, %s leads", data.Round, FormatCard(data.Trump), ef.name(data.Leader))

	case PlayTurnData:
		line := fmt.Sprintf("Trick %d: %s to play", data.Turn, ef.name(data.PlayerName))
		if ef.opts.ShowHand {
			line += fmt.Sprintf(" [hand: %s]", FormatCards(data.Hand))
		}
		return line

	case ShowTurnActionData:
		return fmt.Sprintf("%s plays %s", ef.name(data.PlayerName), FormatCard(data.Card))

	case ShowTurnEndData:
		return fmt.Sprintf("Trick %d to %s for %d points (%s)", data.Turn, ef.name(data.Winner), data.Points, FormatCards(data.Table))

	case RoundEndData:
		winner := "tied, no winner"
		if data.RoundWinner != "" {
			winner = "won by " + ef.name(data.RoundWinner)
		}
		return fmt.Sprintf("*** Round %d %s *** %s", data.Round, winner, ef.formatScores(data.Players, false))

	case GameOverData:
		return fmt.Sprintf("*** Game over after %d rounds *** winner: %s (%s)", data.Round, ef.name(data.GameWinner), ef.formatScores(data.Players, true))
	}
	return obs.Event.String()
}

func (ef *EventFormatter) formatScores(players []PlayerSummary, wins bool) string {
	parts := make([]string, len(players))
	for i, p := range players {
		if wins {
			parts[i] = fmt.Sprintf("%s: %d", ef.name(p.Name), p.RoundWins)
		} else {
			parts[i] = fmt.Sprintf("%s: %d pts, %d wins", ef.name(p.Name), p.RoundPoints, p.RoundWins)
		}
	}
	return strings.Join(parts, "; ")
}

// FormatCard renders a card view as "1 di Cuori"
func FormatCard(v CardView) string {
	return fmt.Sprintf("%d di %s", v.Rank, v.Suit)
}

// FormatCards renders a list of card views separated by commas
func FormatCards(views []CardView) string {
	parts := make([]string, len(views))
	for i, v := range views {
		parts[i] = FormatCard(v)
	}
	return strings.Join(parts, ", ")
}
