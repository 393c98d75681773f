package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates the default and profile files under one directory.
type Paths struct {
	BaseDir string // e.g. ./config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "profiles", profile+".yaml")
}

// Files lists the paths that make up a profile, for watching.
func (p Paths) Files(profile string) []string {
	if profile == "" {
		return []string{p.DefaultPath()}
	}
	return []string{p.DefaultPath(), p.ProfilePath(profile)}
}

// Loader reads YAML configs and merges default → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile name, "" for default only
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → profile (profile optional).
// It returns the merged RawConfig without validation.
func (l *Loader) LoadMerged(profile string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[profile]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if profile != "" {
		profCfg, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %q: %w", profile, err)
		}
		merged = mergeRaw(defCfg, profCfg)
	}

	l.mu.Lock()
	l.cache[profile] = merged
	l.mu.Unlock()
	return merged, nil
}

// Resolve loads, validates and resolves a profile.
func (l *Loader) Resolve(profile string) (RawConfig, Params, error) {
	raw, err := l.LoadMerged(profile)
	if err != nil {
		return RawConfig{}, Params{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return raw, Params{}, err
	}
	p, err := Resolve(raw)
	return raw, p, err
}

// Invalidate clears the cache. Call after the watcher reports a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// readYAML loads a YAML file. Missing files return a zero config, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func pick[T any](a, b *T) *T {
	if b != nil {
		v := *b
		return &v
	}
	return a
}

// mergeRaw overlays b on a: every field b sets wins. Slices are replaced, not appended.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	ap, bp := a.Pacing, b.Pacing
	out.Pacing = PacingConfig{
		BaseSpeed:          pick(ap.BaseSpeed, bp.BaseSpeed),
		SpeedPerDifficulty: pick(ap.SpeedPerDifficulty, bp.SpeedPerDifficulty),
		SpeedFloor:         pick(ap.SpeedFloor, bp.SpeedFloor),
		SpeedPerAverage:    pick(ap.SpeedPerAverage, bp.SpeedPerAverage),
		ScoreThreshold:     pick(ap.ScoreThreshold, bp.ScoreThreshold),
		TierBonus:          pick(ap.TierBonus, bp.TierBonus),
		FailureDecay:       pick(ap.FailureDecay, bp.FailureDecay),
		NoveltyStep:        pick(ap.NoveltyStep, bp.NoveltyStep),
		NoveltyCap:         pick(ap.NoveltyCap, bp.NoveltyCap),
		HistorySize:        pick(ap.HistorySize, bp.HistorySize),
		SolveBoost:         pick(ap.SolveBoost, bp.SolveBoost),
		FailDamping:        pick(ap.FailDamping, bp.FailDamping),
	}

	switch {
	case a.Spawn == nil && b.Spawn != nil:
		c := *b.Spawn
		out.Spawn = &c
	case a.Spawn != nil && b.Spawn != nil:
		c := SpawnConfig{
			Width:             pick(a.Spawn.Width, b.Spawn.Width),
			Height:            pick(a.Spawn.Height, b.Spawn.Height),
			MinDistances:      a.Spawn.MinDistances,
			Attempts:          pick(a.Spawn.Attempts, b.Spawn.Attempts),
			PlacementAttempts: pick(a.Spawn.PlacementAttempts, b.Spawn.PlacementAttempts),
			MaxEnemies:        pick(a.Spawn.MaxEnemies, b.Spawn.MaxEnemies),
		}
		if len(b.Spawn.MinDistances) > 0 {
			c.MinDistances = append([]float64(nil), b.Spawn.MinDistances...)
		}
		out.Spawn = &c
	}

	switch {
	case a.Session == nil && b.Session != nil:
		c := *b.Session
		out.Session = &c
	case a.Session != nil && b.Session != nil:
		out.Session = &SessionConfig{
			Lives:        pick(a.Session.Lives, b.Session.Lives),
			ComboTimeout: pick(a.Session.ComboTimeout, b.Session.ComboTimeout),
			MaxCombo:     pick(a.Session.MaxCombo, b.Session.MaxCombo),
		}
	}

	switch {
	case a.Server == nil && b.Server != nil:
		c := *b.Server
		out.Server = &c
	case a.Server != nil && b.Server != nil:
		out.Server = &ServerConfig{
			TokenTTL:         pick(a.Server.TokenTTL, b.Server.TokenTTL),
			LeaderboardLimit: pick(a.Server.LeaderboardLimit, b.Server.LeaderboardLimit),
			ReloadInterval:   pick(a.Server.ReloadInterval, b.Server.ReloadInterval),

			IdleTimeout:       pick(a.Server.IdleTimeout, b.Server.IdleTimeout),
			FinishedRetention: pick(a.Server.FinishedRetention, b.Server.FinishedRetention),
		}
	}

	return out
}
