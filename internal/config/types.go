// types.go
package config

import (
	"time"

	"github.com/xtding233/codefall/internal/arena"
	"github.com/xtding233/codefall/internal/pacing"
)

// Raw config loaded from YAML. Pointer fields stay nil when a file omits them
// so a profile only overrides what it sets.
type RawConfig struct {
	Version string         `yaml:"version"`
	Pacing  PacingConfig   `yaml:"pacing"`
	Spawn   *SpawnConfig   `yaml:"spawn,omitempty"`
	Session *SessionConfig `yaml:"session,omitempty"`
	Server  *ServerConfig  `yaml:"server,omitempty"`
	Notes   string         `yaml:"notes,omitempty"`
}

type PacingConfig struct {
	BaseSpeed          *float64 `yaml:"base_speed"`
	SpeedPerDifficulty *float64 `yaml:"speed_per_difficulty"`
	SpeedFloor         *float64 `yaml:"speed_floor"`
	SpeedPerAverage    *float64 `yaml:"speed_per_average"`
	ScoreThreshold     *float64 `yaml:"score_threshold"`
	TierBonus          *float64 `yaml:"tier_bonus"`
	FailureDecay       *float64 `yaml:"failure_decay"`
	NoveltyStep        *float64 `yaml:"novelty_step"`
	NoveltyCap         *int     `yaml:"novelty_cap"`
	HistorySize        *int     `yaml:"history_size"`
	SolveBoost         *float64 `yaml:"solve_boost"`
	FailDamping        *float64 `yaml:"fail_damping"`
}

type SpawnConfig struct {
	Width             *float64  `yaml:"width"`
	Height            *float64  `yaml:"height"`
	MinDistances      []float64 `yaml:"min_distances"`
	Attempts          *int      `yaml:"attempts"`
	PlacementAttempts *int      `yaml:"placement_attempts"`
	MaxEnemies        *int      `yaml:"max_enemies"`
}

type SessionConfig struct {
	Lives        *int           `yaml:"lives"`
	ComboTimeout *time.Duration `yaml:"combo_timeout"`
	MaxCombo     *int           `yaml:"max_combo"`
}

type ServerConfig struct {
	TokenTTL         *time.Duration `yaml:"token_ttl"`
	LeaderboardLimit *int           `yaml:"leaderboard_limit"`
	ReloadInterval   *time.Duration `yaml:"reload_interval"`

	// IdleTimeout drops sessions nobody has touched for this long.
	IdleTimeout       *time.Duration `yaml:"idle_timeout"`
	FinishedRetention *time.Duration `yaml:"finished_retention"`
}

// Params is the resolved configuration the service runs with.
type Params struct {
	Tuning pacing.Tuning
	Spawn  arena.SpawnConfig

	Lives        int
	ComboTimeout time.Duration
	MaxCombo     int

	TokenTTL         time.Duration
	LeaderboardLimit int
	ReloadInterval   time.Duration

	IdleTimeout       time.Duration
	FinishedRetention time.Duration

	Version string // effective config version for tracing
}

// DefaultParams is what an empty configuration resolves to.
func DefaultParams() Params {
	return Params{
		Tuning:           pacing.DefaultTuning(),
		Spawn:            arena.DefaultSpawnConfig(),
		Lives:            3,
		ComboTimeout:     2500 * time.Millisecond,
		MaxCombo:         5,
		TokenTTL:         24 * time.Hour,
		LeaderboardLimit: 20,
		ReloadInterval:   2 * time.Second,

		IdleTimeout:       24 * time.Hour,
		FinishedRetention: time.Hour,
	}
}
