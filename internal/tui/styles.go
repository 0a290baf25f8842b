package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/briscola/internal/card"
	"github.com/lox/briscola/internal/game"
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true)

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	TrumpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	focusColor  = lipgloss.Color("#04B575")
	borderColor = lipgloss.Color("#626262")
)

// formatCard renders a card in its suit colour, e.g. "3♥"
func formatCard(v game.CardView) string {
	c, err := v.Card()
	if err != nil {
		return ErrorStyle.Render("??")
	}
	text := rankLabel(c.Rank) + c.Suit.Symbol()
	if c.Suit.IsRed() {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

func rankLabel(r card.Rank) string {
	switch r {
	case 1:
		return "A"
	case 8:
		return "F" // Fante
	case 9:
		return "C" // Cavallo
	case 10:
		return "R" // Re
	}
	return string(rune('0' + int(r)))
}
