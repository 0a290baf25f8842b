package simulator

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// PrintSummary writes a human readable summary of the report. Colour is used
// only when w is a terminal that supports it.
func PrintSummary(w io.Writer, r *Report) {
	renderer := lipgloss.NewRenderer(w)
	printSummary(w, renderer, r)
}

// PrintPlainSummary writes the summary without any styling
func PrintPlainSummary(w io.Writer, r *Report) {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(termenv.Ascii)
	printSummary(w, renderer, r)
}

func printSummary(w io.Writer, renderer *lipgloss.Renderer, r *Report) {
	heading := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	name := renderer.NewStyle().Bold(true).Width(12)
	good := renderer.NewStyle().Foreground(lipgloss.Color("10"))
	dim := renderer.NewStyle().Faint(true)

	stats := r.Stats
	var b strings.Builder

	fmt.Fprintln(&b, heading.Render("=== SIMULATION ==="))
	fmt.Fprintf(&b, "Games played: %d (seed %d)\n", stats.Games, r.Seed)
	fmt.Fprintf(&b, "Rounds: %d total, %.2f per game (median %.0f, max %.0f)\n",
		stats.TotalRounds, stats.Rounds.Mean(), stats.Rounds.Median(), stats.Rounds.Percentile(1))
	if stats.TotalRounds > 0 {
		fmt.Fprintf(&b, "Tied rounds: %d (%.1f%%)\n",
			stats.TiedRounds, float64(stats.TiedRounds)/float64(stats.TotalRounds)*100)
	}
	fmt.Fprintf(&b, "Tricks: %d\n", stats.Tricks)
	if r.Retries > 0 || r.Fallbacks > 0 {
		fmt.Fprintf(&b, "Invalid actions retried: %d, turns forced: %d\n", r.Retries, r.Fallbacks)
	}
	fmt.Fprintln(&b, dim.Render(fmt.Sprintf("Elapsed %s (%.1f games/sec)", r.Elapsed, r.GamesPerSecond())))

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heading.Render("=== PLAYERS ==="))
	best := ""
	for _, n := range stats.Names() {
		if best == "" || stats.Players[n].Wins > stats.Players[best].Wins {
			best = n
		}
	}
	for _, n := range stats.Names() {
		p := stats.Players[n]
		low, high := p.WinRateCI95()
		line := fmt.Sprintf("%d wins (%.1f%%, 95%% CI [%.1f%%, %.1f%%]), %d rounds won",
			p.Wins, p.WinRate()*100, low*100, high*100, p.RoundWins)
		if n == best {
			line = good.Render(line)
		}
		fmt.Fprintf(&b, "%s %s\n", name.Render(n), line)

		pLow, pHigh := p.RoundPoints.ConfidenceInterval95()
		fmt.Fprintf(&b, "%s points/round %.2f ± %.2f (CI [%.2f, %.2f]), reward/game %.2f\n",
			name.Render(""), p.RoundPoints.Mean(), p.RoundPoints.StdDev(), pLow, pHigh, p.Reward.Mean())
	}

	fmt.Fprint(w, b.String())
}

// PlayerSummary is the exported view of one player's statistics
type PlayerSummary struct {
	Name            string     `json:"name"`
	Wins            int        `json:"wins"`
	WinRate         float64    `json:"win_rate"`
	WinRateCI95     [2]float64 `json:"win_rate_ci95"`
	RoundWins       int        `json:"round_wins"`
	RoundPointsMean float64    `json:"round_points_mean"`
	RoundPointsSD   float64    `json:"round_points_stddev"`
	RewardMean      float64    `json:"reward_mean"`
}

// Summary is the exported form of a report, written by `simulate --out`
type Summary struct {
	Seed           int64           `json:"seed"`
	Games          int             `json:"games"`
	Rounds         int             `json:"rounds"`
	TiedRounds     int             `json:"tied_rounds"`
	Tricks         int             `json:"tricks"`
	Retries        int             `json:"retries"`
	Fallbacks      int             `json:"fallbacks"`
	ElapsedSeconds float64         `json:"elapsed_seconds"`
	Players        []PlayerSummary `json:"players"`
}

// Summary condenses the report for export
func (r *Report) Summary() Summary {
	stats := r.Stats
	s := Summary{
		Seed:           r.Seed,
		Games:          stats.Games,
		Rounds:         stats.TotalRounds,
		TiedRounds:     stats.TiedRounds,
		Tricks:         stats.Tricks,
		Retries:        r.Retries,
		Fallbacks:      r.Fallbacks,
		ElapsedSeconds: r.Elapsed.Seconds(),
	}
	for _, n := range stats.Names() {
		p := stats.Players[n]
		low, high := p.WinRateCI95()
		s.Players = append(s.Players, PlayerSummary{
			Name:            n,
			Wins:            p.Wins,
			WinRate:         p.WinRate(),
			WinRateCI95:     [2]float64{low, high},
			RoundWins:       p.RoundWins,
			RoundPointsMean: p.RoundPoints.Mean(),
			RoundPointsSD:   p.RoundPoints.StdDev(),
			RewardMean:      p.Reward.Mean(),
		})
	}
	return s
}
