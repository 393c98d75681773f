// Package session runs games on behalf of remote clients. A Session owns a
// generator, the spawn planner that draws from it and a score tracker; the
// Manager owns the sessions.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xtding233/codefall/internal/arena"
	"github.com/xtding233/codefall/internal/pacing"
	"github.com/xtding233/codefall/internal/problem"
	"github.com/xtding233/codefall/internal/score"
	"github.com/xtding233/codefall/internal/store"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrGameOver         = errors.New("game over")
	ErrProblemNotActive = errors.New("problem is not on screen")
	ErrFieldFull        = errors.New("field is full")
	ErrNoRoom           = errors.New("no room to spawn")
)

// Issued is a problem handed to the client with its ship's spawn box and fall speed.
type Issued struct {
	Problem problem.Problem `json:"problem"`
	Speed   float64         `json:"speed"`
	Average float64         `json:"averageDifficulty"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
}

// Award is the result of a solve. ImpactIn is how many seconds the laser
// takes to reach the ship, 0 if it would miss.
type Award struct {
	Points   int     `json:"points"`
	Score    int     `json:"score"`
	Combo    int     `json:"combo"`
	ImpactIn float64 `json:"impactIn"`
}

type EscapeResult struct {
	Failed   []int `json:"failed"`
	Lives    int   `json:"lives"`
	GameOver bool  `json:"gameOver"`
}

// Snapshot is a read-only view of a session. Ship positions and Passed are
// as of the last NextProblem, Solved or Escaped call.
type Snapshot struct {
	ID                string          `json:"id"`
	Player            string          `json:"player"`
	Score             int             `json:"score"`
	Combo             int             `json:"combo"`
	Lives             int             `json:"lives"`
	GameOver          bool            `json:"gameOver"`
	AverageDifficulty float64         `json:"averageDifficulty"`
	MaxDifficulty     int             `json:"maxDifficulty"`
	Boosts            map[int]float64 `json:"boosts"`
	History           []int           `json:"history"`
	Active            []int           `json:"active"`
	Enemies           []arena.Enemy   `json:"enemies"`
	Passed            []int           `json:"passed"`
	StartedAt         time.Time       `json:"startedAt"`
	EndedAt           *time.Time      `json:"endedAt,omitempty"`
}

// Session is safe for concurrent use; every call is serialized.
type Session struct {
	mu sync.Mutex

	id      string
	player  string
	gen     *pacing.Generator
	planner *arena.SpawnPlanner
	score   *score.Tracker
	lives   int

	enemies []*arena.Enemy // on screen, in spawn order
	maxDiff int

	started  time.Time
	ended    time.Time
	lastTick time.Time // enemies have fallen up to here
	lastSeen time.Time

	archive  func(context.Context, store.Run) error
	archived bool
}

func (s *Session) ID() string { return s.id }

// NextProblem spawns the next ship for the current score. It fails with
// ErrFieldFull when the configured number of ships is already on screen and
// with ErrNoRoom when every spawn attempt found no spot or drew a problem that
// is already falling.
func (s *Session) NextProblem(now time.Time) (Issued, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over() {
		return Issued{}, ErrGameOver
	}
	s.touch(now)
	s.score.Tick(now)
	if len(s.enemies) >= s.planner.Config().MaxEnemies {
		return Issued{}, ErrFieldFull
	}
	e, ok := s.planner.Spawn(s.score.Score, s.enemies)
	if !ok {
		return Issued{}, ErrNoRoom
	}
	s.enemies = append(s.enemies, e)
	s.maxDiff = max(s.maxDiff, e.Problem.Difficulty)
	return Issued{
		Problem: e.Problem,
		Speed:   e.Speed,
		Average: s.gen.AverageDifficulty(),
		X:       e.X,
		Y:       e.Y,
		Width:   e.Width,
		Height:  e.Height,
	}, nil
}

// Solved scores an on-screen problem and takes it off screen.
func (s *Session) Solved(id int, now time.Time) (Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over() {
		return Award{}, ErrGameOver
	}
	s.touch(now)
	i := s.find(id)
	if i < 0 {
		return Award{}, ErrProblemNotActive
	}
	e := s.enemies[i]
	s.gen.RecordSolved(e.Problem)
	pts := s.score.Award(e.Problem.Difficulty, now)
	aw := Award{Points: pts, Score: s.score.Score, Combo: s.score.Combo}
	cfg := s.planner.Config()
	if secs, ok := arena.Intercept(cfg.Muzzle(), *e, cfg.Width, cfg.Height); ok {
		aw.ImpactIn = secs
	}
	s.removeAt(i)
	return aw, nil
}

// Escaped reports that ships got past the player. Every listed on-screen
// problem is recorded as failed and cleared; an empty list means all of
// them. It costs one life, and the run is archived when the last one goes.
// If archiving failed, calling Escaped again on the finished game retries it.
func (s *Session) Escaped(ctx context.Context, ids []int, now time.Time) (EscapeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over() {
		if s.archived || s.archive == nil {
			return EscapeResult{}, ErrGameOver
		}
		return EscapeResult{Failed: []int{}, GameOver: true}, s.archiveOnce(ctx)
	}
	s.touch(now)
	if len(ids) == 0 {
		ids = s.activeIDs()
	}
	failed := []int{}
	for _, id := range ids {
		i := s.find(id)
		if i < 0 {
			continue
		}
		s.gen.RecordFailed(s.enemies[i].Problem)
		s.removeAt(i)
		failed = append(failed, id)
	}
	s.lives--
	res := EscapeResult{Failed: failed, Lives: s.lives}
	if s.lives <= 0 {
		s.ended = now
		res.GameOver = true
		if err := s.archiveOnce(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:                s.id,
		Player:            s.player,
		Score:             s.score.Score,
		Combo:             s.score.Combo,
		Lives:             s.lives,
		GameOver:          s.over(),
		AverageDifficulty: s.gen.AverageDifficulty(),
		MaxDifficulty:     s.maxDiff,
		Boosts:            s.gen.Boosts(),
		History:           s.gen.History(),
		Active:            s.activeIDs(),
		Enemies:           make([]arena.Enemy, len(s.enemies)),
		Passed:            []int{},
		StartedAt:         s.started,
	}
	line := s.planner.Config().PlayerLine()
	for i, e := range s.enemies {
		snap.Enemies[i] = *e
		if e.Passed(line) {
			snap.Passed = append(snap.Passed, e.Problem.ID)
		}
	}
	if !s.ended.IsZero() {
		e := s.ended
		snap.EndedAt = &e
	}
	return snap
}

// Run is the archive record of the session so far.
func (s *Session) Run() store.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run()
}

func (s *Session) run() store.Run {
	end := s.ended
	if end.IsZero() {
		end = s.started
	}
	return store.Run{
		SessionID:         s.id,
		Player:            s.player,
		Score:             s.score.Score,
		MaxDifficulty:     s.maxDiff,
		AverageDifficulty: s.gen.AverageDifficulty(),
		Survived:          end.Sub(s.started),
		EndedAt:           end,
	}
}

// archiveOnce saves the run; a failed save leaves it unarchived so it can be retried.
func (s *Session) archiveOnce(ctx context.Context) error {
	if s.archived || s.archive == nil {
		return nil
	}
	if err := s.archive(ctx, s.run()); err != nil {
		return err
	}
	s.archived = true
	return nil
}

func (s *Session) over() bool { return s.lives <= 0 }

// touch marks activity and lets the ships fall to now.
func (s *Session) touch(now time.Time) {
	s.lastSeen = now
	if dt := now.Sub(s.lastTick).Seconds(); dt > 0 {
		for _, e := range s.enemies {
			e.Advance(dt)
		}
		s.lastTick = now
	}
}

func (s *Session) find(id int) int {
	for i, e := range s.enemies {
		if e.Problem.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) removeAt(i int) {
	s.enemies = append(s.enemies[:i], s.enemies[i+1:]...)
}

func (s *Session) activeIDs() []int {
	ids := make([]int, len(s.enemies))
	for i, e := range s.enemies {
		ids[i] = e.Problem.ID
	}
	return ids
}
