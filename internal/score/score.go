// Package score tracks points and the kill combo.
package score

import "time"

const (
	DefaultComboTimeout = 2500 * time.Millisecond
	DefaultMaxCombo     = 5
	// PointsPerDifficulty is the base value of a kill, times the difficulty.
	PointsPerDifficulty = 2
)

// Tracker holds the score of one run.
type Tracker struct {
	Score int `json:"score"`
	Combo int `json:"combo"`

	timeout  time.Duration
	maxCombo int
	lastKill time.Time
}

// NewTracker returns a tracker at combo 1. Non-positive arguments take the defaults.
func NewTracker(timeout time.Duration, maxCombo int) *Tracker {
	if timeout <= 0 {
		timeout = DefaultComboTimeout
	}
	if maxCombo <= 0 {
		maxCombo = DefaultMaxCombo
	}
	return &Tracker{Combo: 1, timeout: timeout, maxCombo: maxCombo}
}

// Tick drops the combo back to 1 when the last kill is older than the timeout.
func (t *Tracker) Tick(now time.Time) {
	if !t.lastKill.IsZero() && now.Sub(t.lastKill) > t.timeout {
		t.Combo = 1
	}
}

// Award scores a kill of the given difficulty and returns the points added.
func (t *Tracker) Award(difficulty int, now time.Time) int {
	t.Tick(now)
	pts := PointsPerDifficulty * difficulty * t.Combo
	t.Score += pts
	t.lastKill = now
	t.Combo = min(t.Combo+1, t.maxCombo)
	return pts
}

func (t *Tracker) LastKill() time.Time { return t.lastKill }
