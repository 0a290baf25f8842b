// Package statistics aggregates the results of many simulated games.
package statistics

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// PointsPerRound is the number of card points captured in every round
const PointsPerRound = 120

// Sample accumulates a stream of values
type Sample struct {
	N      int
	Sum    float64
	SumSq  float64   // Sum of squares for variance calculation
	Values []float64 // Kept for median/percentile calculation
}

// Add records a value
func (s *Sample) Add(x float64) {
	s.N++
	s.Sum += x
	s.SumSq += x * x
	s.Values = append(s.Values, x)
}

// Merge folds another sample into s
func (s *Sample) Merge(o *Sample) {
	s.N += o.N
	s.Sum += o.Sum
	s.SumSq += o.SumSq
	s.Values = append(s.Values, o.Values...)
}

// Mean returns the arithmetic mean
func (s *Sample) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance
func (s *Sample) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.N)*mean*mean) / float64(s.N-1)
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Sample) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Sample) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median value
func (s *Sample) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0),
// interpolating between neighbours
func (s *Sample) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// GameResult is the outcome of one game as seen by the simulator
type GameResult struct {
	Seed        int64
	Winner      string
	Rounds      int
	TiedRounds  int
	Tricks      int
	RoundWins   map[string]int
	RoundPoints map[string][]int // Points per round, in round order
	Rewards     map[string]float64
}

// PlayerStats tracks one player across games
type PlayerStats struct {
	Games       int
	Wins        int
	RoundWins   int
	RoundPoints Sample // One value per round played
	Reward      Sample // Total reward per game
}

// WinRate returns the fraction of games won
func (p *PlayerStats) WinRate() float64 {
	if p.Games == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.Games)
}

// WinRateCI95 returns the normal-approximation 95% interval of the win rate
func (p *PlayerStats) WinRateCI95() (float64, float64) {
	if p.Games == 0 {
		return 0, 0
	}
	rate := p.WinRate()
	margin := 1.96 * math.Sqrt(rate*(1-rate)/float64(p.Games))
	return math.Max(rate-margin, 0), math.Min(rate+margin, 1)
}

// Statistics tracks aggregate results of a simulation
type Statistics struct {
	Games       int
	TotalRounds int
	TiedRounds  int
	Tricks      int
	Rounds      Sample // Rounds per game
	Players     map[string]*PlayerStats
}

func (s *Statistics) player(name string) *PlayerStats {
	if s.Players == nil {
		s.Players = make(map[string]*PlayerStats)
	}
	p, ok := s.Players[name]
	if !ok {
		p = &PlayerStats{}
		s.Players[name] = p
	}
	return p
}

// Add incorporates a game result
func (s *Statistics) Add(r GameResult) {
	s.Games++
	s.TotalRounds += r.Rounds
	s.TiedRounds += r.TiedRounds
	s.Tricks += r.Tricks
	s.Rounds.Add(float64(r.Rounds))

	for name, points := range r.RoundPoints {
		p := s.player(name)
		p.Games++
		p.RoundWins += r.RoundWins[name]
		p.Reward.Add(r.Rewards[name])
		for _, pts := range points {
			p.RoundPoints.Add(float64(pts))
		}
		if name == r.Winner {
			p.Wins++
		}
	}
}

// Merge folds the results of another run into s
func (s *Statistics) Merge(o *Statistics) {
	s.Games += o.Games
	s.TotalRounds += o.TotalRounds
	s.TiedRounds += o.TiedRounds
	s.Tricks += o.Tricks
	s.Rounds.Merge(&o.Rounds)
	for name, op := range o.Players {
		p := s.player(name)
		p.Games += op.Games
		p.Wins += op.Wins
		p.RoundWins += op.RoundWins
		p.RoundPoints.Merge(&op.RoundPoints)
		p.Reward.Merge(&op.Reward)
	}
}

// Names returns the player names in sorted order
func (s *Statistics) Names() []string {
	names := make([]string, 0, len(s.Players))
	for name := range s.Players {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the accounting is consistent
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if s.Rounds.N != s.Games {
		return fmt.Errorf("rounds sample size (%d) does not match games (%d)", s.Rounds.N, s.Games)
	}

	wins, roundWins := 0, 0
	points := 0.0
	for name, p := range s.Players {
		if p.Games != s.Games {
			return fmt.Errorf("player %s played %d of %d games", name, p.Games, s.Games)
		}
		if p.RoundPoints.N != s.TotalRounds {
			return fmt.Errorf("player %s has %d round scores for %d rounds", name, p.RoundPoints.N, s.TotalRounds)
		}
		wins += p.Wins
		roundWins += p.RoundWins
		points += p.RoundPoints.Sum
	}

	if wins != s.Games {
		return fmt.Errorf("total wins (%d) does not match games (%d)", wins, s.Games)
	}
	if roundWins+s.TiedRounds != s.TotalRounds {
		return fmt.Errorf("round wins (%d) plus ties (%d) do not match rounds (%d)", roundWins, s.TiedRounds, s.TotalRounds)
	}
	if want := float64(PointsPerRound * s.TotalRounds); math.Abs(points-want) > 1e-6 {
		return fmt.Errorf("points ledger mismatch: captured %.0f of %.0f", points, want)
	}
	return nil
}
