package store

import (
	"context"
	"sync"
)

// memory keeps runs in a map; state is lost on restart.
type memory struct {
	mu   sync.RWMutex
	runs map[string]Run // keyed by SessionID
}

// NewMemoryStore constructs an in-process Store.
func NewMemoryStore() Store {
	return &memory{runs: make(map[string]Run)}
}

func (m *memory) SaveRun(ctx context.Context, r Run) error {
	if r.SessionID == "" {
		return ErrInvalidRun
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[r.SessionID]; !ok {
		m.runs[r.SessionID] = r
	}
	return nil
}

func (m *memory) Leaderboard(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	m.mu.RLock()
	out := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	m.mu.RUnlock()

	rank(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Close() error { return nil }
