// Package store archives finished runs and serves the leaderboard.
package store

import (
	"context"
	"errors"
	"sort"
	"time"
)

// DefaultLeaderboardLimit applies when Leaderboard is asked for limit <= 0.
const DefaultLeaderboardLimit = 20

var ErrInvalidRun = errors.New("invalid run: session id required")

// Run is one finished game.
type Run struct {
	SessionID         string        `json:"sessionId"`
	Player            string        `json:"player"`
	Score             int           `json:"score"`
	MaxDifficulty     int           `json:"maxDifficulty"`
	AverageDifficulty float64       `json:"averageDifficulty"`
	Survived          time.Duration `json:"survivedMs"`
	EndedAt           time.Time     `json:"endedAt"`
}

// Store persists runs. Implementations must be safe for concurrent use.
type Store interface {
	// SaveRun records r. Saving the same SessionID twice keeps the first run.
	SaveRun(ctx context.Context, r Run) error

	// Leaderboard returns the best runs: score desc, then survived desc,
	// then earliest EndedAt.
	Leaderboard(ctx context.Context, limit int) ([]Run, error)

	Close() error
}

// rank orders runs the way Leaderboard returns them.
func rank(runs []Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		a, b := runs[i], runs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Survived != b.Survived {
			return a.Survived > b.Survived
		}
		return a.EndedAt.Before(b.EndedAt)
	})
}
