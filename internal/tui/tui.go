// Package tui is a Bubble Tea front end for a human playing a match.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/briscola/internal/agent"
	"github.com/lox/briscola/internal/game"
)

// Model is the Bubble Tea model for one human seat
type Model struct {
	human     *agent.Human
	choices   chan int
	closeOnce sync.Once
	formatter *game.EventFormatter
	logger    *log.Logger

	// UI components
	logViewport viewport.Model
	input       textinput.Model

	// State
	gameLog     []string
	turn        *game.PlayTurnData
	trump       *game.CardView
	round       int
	scores      []game.PlayerSummary
	status      string
	over        bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool
}

type turnMsg game.PlayTurnData

type eventMsg game.Observation

// MatchOverMsg tells the model that the match driver has returned
type MatchOverMsg struct {
	Err error
}

// New creates a model for the human seated as name
func New(name string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Card number to play"
	ti.Focus()
	ti.CharLimit = 8
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	choices := make(chan int, 1)
	return &Model{
		human:       agent.NewHuman(name, choices, logger),
		choices:     choices,
		formatter:   game.NewEventFormatter(game.FormattingOptions{Perspective: name}),
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
		focusedPane: 1,
	}
}

// Agent returns the agent to seat at the match
func (m *Model) Agent() agent.Agent { return m.human }

// Init starts listening to the human agent
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForTurn(), m.waitForEvent())
}

func (m *Model) waitForTurn() tea.Cmd {
	turns := m.human.Turns()
	return func() tea.Msg {
		return turnMsg(<-turns)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.human.Events()
	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

// quit leaves the game. The pending Act returns agent.ErrQuit.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.closeOnce.Do(func() { close(m.choices) })
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case turnMsg:
		turn := game.PlayTurnData(msg)
		m.turn = &turn
		m.trump = &turn.Trump
		m.status = ""
		cmds = append(cmds, m.waitForTurn())

	case eventMsg:
		m.applyEvent(game.Observation(msg))
		cmds = append(cmds, m.waitForEvent())

	case MatchOverMsg:
		m.over = true
		m.turn = nil
		if msg.Err != nil {
			m.status = ErrorStyle.Render("Match aborted: " + msg.Err.Error())
		}
		m.input.Placeholder = "Enter to exit"

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.input.Focus()
			} else {
				m.focusedPane = 0
				m.input.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				value := strings.TrimSpace(m.input.Value())
				m.input.SetValue("")
				if cmd := m.submit(value); cmd != nil {
					return m, cmd
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles a line of input
func (m *Model) submit(value string) tea.Cmd {
	switch strings.ToLower(value) {
	case "q", "quit":
		return m.quit()
	}
	if m.over {
		return m.quit()
	}
	if m.turn == nil {
		m.status = WarningStyle.Render("Not your turn")
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > len(m.turn.Hand) {
		m.status = ErrorStyle.Render(fmt.Sprintf("Please enter a number between 1 and %d", len(m.turn.Hand)))
		return nil
	}

	m.logger.Debug("Playing card", "index", n-1)
	m.choices <- n - 1
	m.turn = nil
	m.status = ""
	return nil
}

func (m *Model) applyEvent(obs game.Observation) {
	switch data := obs.Data.(type) {
	case game.GameStartData:
		m.scores = nil
	case game.NewRoundData:
		m.round = data.Round
		m.trump = &data.Trump
		m.scores = append([]game.PlayerSummary(nil), data.Players...)
	case game.ShowTurnEndData:
		for i := range m.scores {
			if m.scores[i].Name == data.Winner {
				m.scores[i].RoundPoints += data.Points
			}
		}
	case game.RoundEndData:
		m.scores = data.Players
	case game.GameOverData:
		m.scores = data.Players
	}
	m.AddLogEntry(m.formatter.Format(obs))
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the game log
func (m *Model) Log() []string {
	return append([]string(nil), m.gameLog...)
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.paneColor(1)).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1)).
		Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)
	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.paneColor(0)).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

func (m *Model) paneColor(pane int) lipgloss.Color {
	if m.focusedPane == pane {
		return focusColor
	}
	return borderColor
}

func (m *Model) renderSidebarPane() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" Round %d ", m.round)))
	b.WriteString("\n\n")
	if m.trump != nil {
		b.WriteString(TrumpStyle.Render("Briscola: "))
		b.WriteString(formatCard(*m.trump))
		b.WriteString("\n\n")
	}
	if len(m.scores) > 0 {
		b.WriteString(InfoStyle.Render("Player     pts  wins"))
		b.WriteString("\n")
		for _, p := range m.scores {
			fmt.Fprintf(&b, "%-10s %3d  %4d\n", p.Name, p.RoundPoints, p.RoundWins)
		}
	}
	return b.String()
}

func (m *Model) renderActionPane() string {
	var b strings.Builder

	switch {
	case m.turn != nil:
		if len(m.turn.Table) > 0 {
			b.WriteString(HandInfoStyle.Render("Table: "))
			b.WriteString(formatCards(m.turn.Table))
			b.WriteString("\n")
		}
		b.WriteString(HandInfoStyle.Render("Hand:  "))
		for i, c := range m.turn.Hand {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%d) %s", i+1, formatCard(c))
		}
		b.WriteString("\n")
	case m.over:
		b.WriteString(SuccessStyle.Render("Game over"))
		b.WriteString("\n")
	default:
		b.WriteString(HandInfoStyle.Render("Waiting..."))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")

	help := "Tab to scroll log • Enter to play • q to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	b.WriteString(InfoStyle.Render(help))
	return b.String()
}

func formatCards(views []game.CardView) string {
	parts := make([]string, len(views))
	for i, v := range views {
		parts[i] = formatCard(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
