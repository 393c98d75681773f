package pacing

import (
	"math"

	"github.com/xtding233/codefall/internal/problem"
)

// ProblemStats counts what happened to one catalogue entry during a game.
type ProblemStats struct {
	TimesSelected  int `json:"timesSelected"`
	TimesSucceeded int `json:"timesSucceeded"`
	TimesFailed    int `json:"timesFailed"`
}

// Generator picks the next problem with feedback-weighted roulette selection
// and derives spawn speed from the rolling average difficulty.
// It is not safe for concurrent use; one game loop owns it.
type Generator struct {
	cat     *problem.Catalogue
	tuning  Tuning
	rng     RandomSource
	stats   []ProblemStats  // indexed by problem id
	boosts  map[int]float64 // difficulty -> multiplicative weight, >= 1
	history *History
	average float64

	fallbacks int
}

// NewGenerator creates a generator over cat. A nil rng uses DefaultRNG.
func NewGenerator(cat *problem.Catalogue, tuning Tuning, rng RandomSource) (*Generator, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, problem.ErrEmptyCatalogue
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	g := &Generator{
		cat:     cat,
		tuning:  tuning,
		rng:     rng,
		stats:   make([]ProblemStats, cat.Len()),
		boosts:  make(map[int]float64),
		history: NewHistory(tuning.HistorySize),
		average: 1,
	}
	for _, d := range cat.Difficulties() {
		g.boosts[d] = 1
	}
	return g, nil
}

// AverageDifficulty is the mean of the last HistorySize generated difficulties (1 before any).
func (g *Generator) AverageDifficulty() float64 { return g.average }

// ComputeBaseSpeed returns the fall speed for a problem of the given difficulty
// under the current rolling average. It has no side effects.
func (g *Generator) ComputeBaseSpeed(difficulty int) float64 {
	t := g.tuning
	mult := t.SpeedFloor + (g.average-1)*t.SpeedPerAverage
	return t.BaseSpeed + float64(difficulty)*t.SpeedPerDifficulty*mult
}

// Weights returns the normalized selection probability of every catalogue
// entry, in catalogue order, for the given score. For an entry with
// difficulty d the raw weight is
//
//	1/(1+selected)^2
//	* boost[d]
//	* (1 + (d-1)*TierBonus)                          if score >= ScoreThreshold*(d-1)
//	* FailureDecay^failed
//	* (1 + min(NoveltyCap, len(history)/2)*NoveltyStep) if never selected
//
// It has no side effects.
func (g *Generator) Weights(score int) []float64 {
	t := g.tuning
	novelty := 1 + float64(min(t.NoveltyCap, g.history.Len()/2))*t.NoveltyStep

	out := make([]float64, g.cat.Len())
	var total float64
	for i, p := range g.cat.All() {
		s := g.stats[i]
		d := p.Difficulty

		w := 1 / math.Pow(float64(1+s.TimesSelected), 2)
		w *= g.boost(d)
		if float64(score) >= t.ScoreThreshold*float64(d-1) {
			w *= 1 + float64(d-1)*t.TierBonus
		}
		if s.TimesFailed > 0 {
			w *= math.Pow(t.FailureDecay, float64(s.TimesFailed))
		}
		if s.TimesSelected == 0 {
			w *= novelty
		}
		out[i] = w
		total += w
	}
	if total > 0 && !math.IsInf(total, 0) {
		for i := range out {
			out[i] /= total
		}
	}
	return out
}

// SelectAndRecordProblem draws the next problem for the given score, counts
// the selection and folds its difficulty into the rolling average.
//
// Roulette walk: the first entry whose cumulative probability reaches the
// draw wins. If rounding leaves the draw unclaimed, the first catalogue entry
// is returned; Fallbacks counts how often that happened.
func (g *Generator) SelectAndRecordProblem(score int) problem.Problem {
	weights := g.Weights(score)
	r := g.rng.Float64()

	chosen := -1
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		chosen = 0
		g.fallbacks++
	}

	g.stats[chosen].TimesSelected++
	p, _ := g.cat.At(chosen)
	g.history.Push(p.Difficulty)
	g.average = g.history.Mean()
	return p
}

// RecordSolved makes the next tier up more likely and clears the failure
// suppression of p. Problems outside the catalogue only affect the boost.
func (g *Generator) RecordSolved(p problem.Problem) {
	if p.Difficulty < g.cat.MaxDifficulty() {
		next := p.Difficulty + 1
		g.boosts[next] = g.boost(next) * g.tuning.SolveBoost
	}
	if id, ok := g.cat.Lookup(p); ok {
		g.stats[id].TimesSucceeded++
		g.stats[id].TimesFailed = 0
	}
}

// RecordFailed damps every tier above p's difficulty, never below 1, and
// counts the failure against p.
func (g *Generator) RecordFailed(p problem.Problem) {
	for d, b := range g.boosts {
		if d > p.Difficulty {
			g.boosts[d] = math.Max(1, b*g.tuning.FailDamping)
		}
	}
	if id, ok := g.cat.Lookup(p); ok {
		g.stats[id].TimesFailed++
	}
}

func (g *Generator) boost(d int) float64 {
	if b, ok := g.boosts[d]; ok {
		return b
	}
	return 1
}

// Boost returns the current weight multiplier of difficulty tier d (1 if untouched).
func (g *Generator) Boost(d int) float64 { return g.boost(d) }

// Boosts returns a copy of every tier's multiplier.
func (g *Generator) Boosts() map[int]float64 {
	out := make(map[int]float64, len(g.boosts))
	for d, b := range g.boosts {
		out[d] = b
	}
	return out
}

// Stats returns the counters of catalogue entry id.
func (g *Generator) Stats(id int) (ProblemStats, bool) {
	if id < 0 || id >= len(g.stats) {
		return ProblemStats{}, false
	}
	return g.stats[id], true
}

// History returns the rolling window, oldest first.
func (g *Generator) History() []int { return g.history.Values() }

func (g *Generator) Fallbacks() int { return g.fallbacks }
func (g *Generator) Catalogue() *problem.Catalogue { return g.cat }
func (g *Generator) Tuning() Tuning { return g.tuning }
