package pacing

import (
	"math"
	"sort"

	"github.com/xtding233/codefall/internal/problem"
)

// SimParams describes one pacing simulation: a simulated player facing a
// fresh generator for a fixed number of spawns.
type SimParams struct {
	Catalogue *problem.Catalogue
	Tuning    Tuning

	// Spawns is the number of problems generated per trial.
	Spawns int
	// SolveProb is the player's chance to solve a problem of each difficulty.
	// Difficulties missing from the map use DefaultSolveProb.
	SolveProb        map[int]float64
	DefaultSolveProb float64
	// PointsPerDifficulty is added to the score per solve, times the difficulty.
	PointsPerDifficulty int

	Seed uint64
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []float64 `json:"-"`
}

// SimResult holds per-trial distributions.
type SimResult struct {
	FinalAverage  Stats // rolling average difficulty after the last spawn
	MaxDifficulty Stats // hardest problem generated in the trial
	SolveRate     Stats // fraction of spawns the player solved
	Fallbacks     int   // roulette fallbacks across all trials; expected 0
}

// calcStats computes mean/variance/percentiles for samples.
func calcStats(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

func (p SimParams) solveProb(d int) float64 {
	if v, ok := p.SolveProb[d]; ok {
		return v
	}
	return p.DefaultSolveProb
}

type trialResult struct {
	finalAvg  float64
	maxDiff   int
	solveRate float64
	fallbacks int
}

// simulateOne plays one trial. Selection and the player share one seeded stream.
func simulateOne(p SimParams, trial int) (trialResult, error) {
	rng := NewSeededRNG(p.Seed + uint64(trial))
	g, err := NewGenerator(p.Catalogue, p.Tuning, rng)
	if err != nil {
		return trialResult{}, err
	}
	score, solved, maxDiff := 0, 0, 0
	for i := 0; i < p.Spawns; i++ {
		pr := g.SelectAndRecordProblem(score)
		if pr.Difficulty > maxDiff {
			maxDiff = pr.Difficulty
		}
		hit, err := Draw(p.solveProb(pr.Difficulty), rng)
		if err != nil {
			return trialResult{}, err
		}
		if hit {
			g.RecordSolved(pr)
			score += p.PointsPerDifficulty * pr.Difficulty
			solved++
		} else {
			g.RecordFailed(pr)
		}
	}
	res := trialResult{finalAvg: g.AverageDifficulty(), maxDiff: maxDiff, fallbacks: g.Fallbacks()}
	if p.Spawns > 0 {
		res.solveRate = float64(solved) / float64(p.Spawns)
	}
	return res, nil
}

// RunMonteCarlo repeats trials and returns summary stats.
func RunMonteCarlo(p SimParams, trials int) (SimResult, error) {
	if trials <= 0 {
		return SimResult{}, nil
	}
	if err := validateProb(p.DefaultSolveProb); err != nil {
		return SimResult{}, err
	}
	avgs := make([]float64, trials)
	maxes := make([]float64, trials)
	rates := make([]float64, trials)
	var out SimResult
	for i := 0; i < trials; i++ {
		r, err := simulateOne(p, i)
		if err != nil {
			return SimResult{}, err
		}
		avgs[i] = r.finalAvg
		maxes[i] = float64(r.maxDiff)
		rates[i] = r.solveRate
		out.Fallbacks += r.fallbacks
	}
	out.FinalAverage = calcStats(avgs)
	out.MaxDifficulty = calcStats(maxes)
	out.SolveRate = calcStats(rates)
	return out, nil
}
