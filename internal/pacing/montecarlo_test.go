package pacing

import (
	"testing"

	"github.com/xtding233/codefall/internal/problem"
)

func simParams(t *testing.T) SimParams {
	t.Helper()
	cat, err := problem.Default()
	if err != nil {
		t.Fatal(err)
	}
	return SimParams{
		Catalogue:           cat,
		Tuning:              DefaultTuning(),
		Spawns:              60,
		SolveProb:           map[int]float64{1: 0.9, 2: 0.7, 3: 0.5},
		DefaultSolveProb:    0.5,
		PointsPerDifficulty: 2,
		Seed:                99,
	}
}

func TestRunMonteCarloDeterministic(t *testing.T) {
	p := simParams(t)
	a, err := RunMonteCarlo(p, 50)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunMonteCarlo(p, 50)
	if err != nil {
		t.Fatal(err)
	}
	if a.FinalAverage.Mean != b.FinalAverage.Mean || a.SolveRate.Mean != b.SolveRate.Mean {
		t.Fatalf("same seed produced different results: %+v vs %+v", a.FinalAverage, b.FinalAverage)
	}
	if a.FinalAverage.Mean < 1 || a.FinalAverage.Mean > 3 {
		t.Fatalf("mean final average %v outside catalogue range", a.FinalAverage.Mean)
	}
	if a.FinalAverage.P50 > a.FinalAverage.P90 || a.FinalAverage.P90 > a.FinalAverage.P99 {
		t.Fatalf("percentiles out of order: %+v", a.FinalAverage)
	}
	if a.Fallbacks != 0 {
		t.Fatalf("fallbacks = %d, want 0", a.Fallbacks)
	}
}

func TestRunMonteCarloSkillRaisesPace(t *testing.T) {
	strong := simParams(t)
	strong.SolveProb = map[int]float64{1: 1, 2: 1, 3: 1}
	weak := simParams(t)
	weak.SolveProb = map[int]float64{1: 0, 2: 0, 3: 0}

	s, err := RunMonteCarlo(strong, 100)
	if err != nil {
		t.Fatal(err)
	}
	w, err := RunMonteCarlo(weak, 100)
	if err != nil {
		t.Fatal(err)
	}
	if s.FinalAverage.Mean <= w.FinalAverage.Mean {
		t.Fatalf("a perfect player should face harder problems: strong=%v weak=%v",
			s.FinalAverage.Mean, w.FinalAverage.Mean)
	}
	if s.SolveRate.Mean != 1 || w.SolveRate.Mean != 0 {
		t.Fatalf("solve rates = %v / %v", s.SolveRate.Mean, w.SolveRate.Mean)
	}
}

func TestRunMonteCarloRejectsBadProbability(t *testing.T) {
	p := simParams(t)
	p.DefaultSolveProb = 2
	if _, err := RunMonteCarlo(p, 1); err == nil {
		t.Fatalf("expected error for probability > 1")
	}
	p = simParams(t)
	p.SolveProb = map[int]float64{1: -1}
	if _, err := RunMonteCarlo(p, 3); err == nil {
		t.Fatalf("expected error for negative per-difficulty probability")
	}
}

func TestCalcStats(t *testing.T) {
	s := calcStats([]float64{1, 2, 3, 4})
	if s.Mean != 2.5 || s.Var != 1.25 || s.P50 != 2.5 {
		t.Fatalf("stats = %+v", s)
	}
	if e := calcStats(nil); e.Mean != 0 || e.Samples != nil {
		t.Fatalf("empty input should give zero stats")
	}
}
