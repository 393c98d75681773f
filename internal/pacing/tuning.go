package pacing

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTuning = errors.New("invalid pacing tuning")

// Tuning holds every constant of the selection and pacing formulas.
// Speed is BaseSpeed + d*SpeedPerDifficulty*(SpeedFloor + (avg-1)*SpeedPerAverage);
// selection weights are described on Generator.Weights.
type Tuning struct {
	BaseSpeed          float64 `yaml:"base_speed"`
	SpeedPerDifficulty float64 `yaml:"speed_per_difficulty"`
	SpeedFloor         float64 `yaml:"speed_floor"`
	SpeedPerAverage    float64 `yaml:"speed_per_average"`

	ScoreThreshold float64 `yaml:"score_threshold"`
	TierBonus      float64 `yaml:"tier_bonus"`
	FailureDecay   float64 `yaml:"failure_decay"`
	NoveltyStep    float64 `yaml:"novelty_step"`
	NoveltyCap     int     `yaml:"novelty_cap"`
	HistorySize    int     `yaml:"history_size"`

	SolveBoost  float64 `yaml:"solve_boost"`  // applied to tier d+1 on solve
	FailDamping float64 `yaml:"fail_damping"` // applied to tiers > d on fail, floored at 1
}

// DefaultTuning returns the stock game constants.
func DefaultTuning() Tuning {
	return Tuning{
		BaseSpeed:          5,
		SpeedPerDifficulty: 2,
		SpeedFloor:         0.8,
		SpeedPerAverage:    0.6,
		ScoreThreshold:     10,
		TierBonus:          0.5,
		FailureDecay:       0.8,
		NoveltyStep:        0.5,
		NoveltyCap:         5,
		HistorySize:        10,
		SolveBoost:         1.2,
		FailDamping:        0.7,
	}
}

// Validate rejects tunings that would produce non-positive weights or an empty window.
func (t Tuning) Validate() error {
	var errs []string
	if t.HistorySize < 1 {
		errs = append(errs, "history_size must be >= 1")
	}
	if t.NoveltyCap < 0 {
		errs = append(errs, "novelty_cap must be >= 0")
	}
	if t.ScoreThreshold < 0 {
		errs = append(errs, "score_threshold must be >= 0")
	}
	if t.TierBonus < 0 || t.NoveltyStep < 0 {
		errs = append(errs, "tier_bonus and novelty_step must be >= 0")
	}
	if !(t.FailureDecay > 0 && t.FailureDecay <= 1) {
		errs = append(errs, "failure_decay must be in (0,1]")
	}
	if t.SolveBoost < 1 {
		errs = append(errs, "solve_boost must be >= 1")
	}
	if !(t.FailDamping > 0 && t.FailDamping <= 1) {
		errs = append(errs, "fail_damping must be in (0,1]")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTuning, strings.Join(errs, "; "))
	}
	return nil
}
