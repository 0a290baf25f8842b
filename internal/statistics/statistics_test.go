package statistics

import (
	"math"
	"testing"
)

func TestSample_Empty(t *testing.T) {
	s := &Sample{}

	if s.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty sample, got %f", s.Mean())
	}
	if s.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty sample, got %f", s.Variance())
	}
	if s.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty sample, got %f", s.StdError())
	}
	if s.Median() != 0 {
		t.Errorf("Expected median of 0 for empty sample, got %f", s.Median())
	}
	if s.Percentile(0.9) != 0 {
		t.Errorf("Expected percentile of 0 for empty sample, got %f", s.Percentile(0.9))
	}
}

func TestSample_MultipleValues(t *testing.T) {
	s := &Sample{}
	for _, x := range []float64{1, -2, 3, 0, -1} {
		s.Add(x)
	}

	if math.Abs(s.Mean()-0.2) > 1e-9 {
		t.Errorf("Expected mean of 0.2, got %f", s.Mean())
	}
	// Sum of squared deviations: 0.64+4.84+7.84+0.04+1.44 = 14.8
	if math.Abs(s.Variance()-3.7) > 1e-9 {
		t.Errorf("Expected variance of 3.7, got %f", s.Variance())
	}
	if s.Median() != 0 {
		t.Errorf("Expected median of 0, got %f", s.Median())
	}
	if got := s.Percentile(0.25); got != -1 {
		t.Errorf("Expected P25 of -1, got %f", got)
	}
	if got := s.Percentile(1); got != 3 {
		t.Errorf("Expected P100 of 3, got %f", got)
	}

	low, high := s.ConfidenceInterval95()
	if low >= s.Mean() || high <= s.Mean() {
		t.Errorf("Interval [%f, %f] does not contain the mean", low, high)
	}
}

func TestSample_Merge(t *testing.T) {
	a, b, all := &Sample{}, &Sample{}, &Sample{}
	for i, x := range []float64{4, 8, 15, 16, 23, 42} {
		all.Add(x)
		if i%2 == 0 {
			a.Add(x)
		} else {
			b.Add(x)
		}
	}
	a.Merge(b)

	if a.N != all.N || a.Sum != all.Sum || a.SumSq != all.SumSq {
		t.Errorf("Merged sample %+v differs from %+v", a, all)
	}
	if a.Median() != all.Median() {
		t.Errorf("Expected median %f, got %f", all.Median(), a.Median())
	}
}

func game(seed int64, winner string, rounds [][2]int) GameResult {
	r := GameResult{
		Seed:        seed,
		Winner:      winner,
		Rounds:      len(rounds),
		RoundWins:   map[string]int{},
		RoundPoints: map[string][]int{},
		Rewards:     map[string]float64{},
	}
	for _, pts := range rounds {
		r.RoundPoints["A"] = append(r.RoundPoints["A"], pts[0])
		r.RoundPoints["B"] = append(r.RoundPoints["B"], pts[1])
		switch {
		case pts[0] > pts[1]:
			r.RoundWins["A"]++
		case pts[1] > pts[0]:
			r.RoundWins["B"]++
		default:
			r.TiedRounds++
		}
		r.Rewards["A"] += float64(pts[0])
		r.Rewards["B"] += float64(pts[1])
	}
	return r
}

func TestStatistics_AddAndValidate(t *testing.T) {
	s := &Statistics{}
	s.Add(game(1, "A", [][2]int{{70, 50}, {80, 40}, {61, 59}}))
	s.Add(game(2, "B", [][2]int{{60, 60}, {30, 90}, {70, 50}, {10, 110}, {20, 100}}))

	if err := s.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if s.Games != 2 || s.TotalRounds != 8 || s.TiedRounds != 1 {
		t.Errorf("Unexpected totals: games=%d rounds=%d ties=%d", s.Games, s.TotalRounds, s.TiedRounds)
	}
	if s.Rounds.Mean() != 4 {
		t.Errorf("Expected 4 rounds per game, got %f", s.Rounds.Mean())
	}

	a := s.Players["A"]
	if a.Wins != 1 || a.RoundWins != 4 || a.WinRate() != 0.5 {
		t.Errorf("Unexpected stats for A: %+v", a)
	}
	low, high := a.WinRateCI95()
	if low < 0 || high > 1 || low > 0.5 || high < 0.5 {
		t.Errorf("Win rate interval [%f, %f] is malformed", low, high)
	}

	if names := s.Names(); len(names) != 2 || names[0] != "A" {
		t.Errorf("Unexpected names %v", names)
	}
}

func TestStatistics_ValidateDetectsMismatch(t *testing.T) {
	s := &Statistics{}
	if err := s.Validate(); err == nil {
		t.Error("Expected error for empty statistics")
	}

	s.Add(game(1, "A", [][2]int{{70, 50}, {80, 40}, {90, 30}}))
	s.Players["A"].RoundPoints.Sum -= 10
	if err := s.Validate(); err == nil {
		t.Error("Expected points ledger mismatch")
	}

	s = &Statistics{}
	s.Add(game(1, "nobody", [][2]int{{70, 50}}))
	if err := s.Validate(); err == nil {
		t.Error("Expected win count mismatch")
	}
}

func TestStatistics_Merge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	g1 := game(1, "A", [][2]int{{70, 50}, {80, 40}, {61, 59}})
	g2 := game(2, "B", [][2]int{{40, 80}, {30, 90}, {50, 70}})
	a.Add(g1)
	b.Add(g2)
	all.Add(g1)
	all.Add(g2)

	a.Merge(b)
	if err := a.Validate(); err != nil {
		t.Fatalf("Merged statistics invalid: %v", err)
	}
	for _, name := range all.Names() {
		if a.Players[name].Wins != all.Players[name].Wins {
			t.Errorf("%s wins: got %d, want %d", name, a.Players[name].Wins, all.Players[name].Wins)
		}
		if a.Players[name].RoundPoints.Mean() != all.Players[name].RoundPoints.Mean() {
			t.Errorf("%s mean points differ", name)
		}
	}
}
