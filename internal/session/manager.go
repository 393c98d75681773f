package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xtding233/codefall/internal/arena"
	"github.com/xtding233/codefall/internal/config"
	"github.com/xtding233/codefall/internal/pacing"
	"github.com/xtding233/codefall/internal/problem"
	"github.com/xtding233/codefall/internal/score"
	"github.com/xtding233/codefall/internal/store"
)

// Manager creates and looks up sessions. New sessions use the params current
// at creation; SetParams never touches running games.
type Manager struct {
	cat   *problem.Catalogue
	store store.Store

	mu       sync.RWMutex
	params   config.Params
	sessions map[string]*Session

	newRNG func() pacing.RandomSource
	now    func() time.Time
}

func NewManager(cat *problem.Catalogue, params config.Params, st store.Store) *Manager {
	if st == nil {
		st = store.NewMemoryStore()
	}
	return &Manager{
		cat:      cat,
		store:    st,
		params:   params,
		sessions: make(map[string]*Session),
		newRNG:   pacing.DefaultRNG,
		now:      time.Now,
	}
}

// WithRNG replaces the per-session random source factory.
func (m *Manager) WithRNG(f func() pacing.RandomSource) *Manager {
	m.newRNG = f
	return m
}

// WithClock replaces the clock used for session start times.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) Params() config.Params {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params
}

func (m *Manager) SetParams(p config.Params) {
	m.mu.Lock()
	m.params = p
	m.mu.Unlock()
	log.Info().Str("version", p.Version).Msg("session params updated")
}

func (m *Manager) Catalogue() *problem.Catalogue { return m.cat }

// Create starts a new game for player.
func (m *Manager) Create(player string) (*Session, error) {
	params := m.Params()
	gen, err := pacing.NewGenerator(m.cat, params.Tuning, m.newRNG())
	if err != nil {
		return nil, err
	}
	planner, err := arena.NewSpawnPlanner(gen, m.cat, params.Spawn, m.newRNG())
	if err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	now := m.now()
	s := &Session{
		id:       id,
		player:   player,
		gen:      gen,
		planner:  planner,
		score:    score.NewTracker(params.ComboTimeout, params.MaxCombo),
		lives:    params.Lives,
		started:  now,
		lastTick: now,
		lastSeen: now,
		archive:  m.archive,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	log.Info().Str("session", id).Str("player", player).Msg("session created")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions that finished more than FinishedRetention before now
// or have seen no call for longer than IdleTimeout, and returns how many went.
func (m *Manager) Sweep(now time.Time) int {
	p := m.Params()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		finished := s.over() && now.Sub(s.ended) > p.FinishedRetention
		idle := now.Sub(s.lastSeen) > p.IdleTimeout
		lost := s.over() && !s.archived && s.archive != nil
		s.mu.Unlock()
		if !finished && !idle {
			continue
		}
		if lost {
			log.Warn().Str("session", id).Msg("dropping session whose run was never archived")
		}
		delete(m.sessions, id)
		n++
	}
	return n
}

func (m *Manager) Leaderboard(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = m.Params().LeaderboardLimit
	}
	return m.store.Leaderboard(ctx, limit)
}

func (m *Manager) archive(ctx context.Context, r store.Run) error {
	if err := m.store.SaveRun(ctx, r); err != nil {
		log.Error().Err(err).Str("session", r.SessionID).Msg("archive run")
		return fmt.Errorf("archive run: %w", err)
	}
	log.Info().
		Str("session", r.SessionID).
		Int("score", r.Score).
		Int("maxDifficulty", r.MaxDifficulty).
		Dur("survived", r.Survived).
		Msg("run archived")
	return nil
}

func newID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
