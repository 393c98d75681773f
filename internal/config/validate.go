package config

import (
	"fmt"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig and reports all of them at once.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	pc := cfg.Pacing
	if pc.HistorySize != nil && *pc.HistorySize < 1 {
		errs = append(errs, "pacing.history_size must be >= 1")
	}
	if pc.NoveltyCap != nil && *pc.NoveltyCap < 0 {
		errs = append(errs, "pacing.novelty_cap must be >= 0")
	}
	if pc.BaseSpeed != nil && *pc.BaseSpeed < 0 {
		errs = append(errs, "pacing.base_speed must be >= 0")
	}
	if pc.ScoreThreshold != nil && *pc.ScoreThreshold < 0 {
		errs = append(errs, "pacing.score_threshold must be >= 0")
	}
	if pc.FailureDecay != nil && !(*pc.FailureDecay > 0 && *pc.FailureDecay <= 1) {
		errs = append(errs, "pacing.failure_decay must be in (0,1]")
	}
	if pc.FailDamping != nil && !(*pc.FailDamping > 0 && *pc.FailDamping <= 1) {
		errs = append(errs, "pacing.fail_damping must be in (0,1]")
	}
	if pc.SolveBoost != nil && *pc.SolveBoost < 1 {
		errs = append(errs, "pacing.solve_boost must be >= 1")
	}

	if s := cfg.Spawn; s != nil {
		if s.Width != nil && *s.Width <= 40 {
			errs = append(errs, "spawn.width must be > 40")
		}
		if s.Height != nil && *s.Height <= 0 {
			errs = append(errs, "spawn.height must be > 0")
		}
		for i, d := range s.MinDistances {
			if d < 0 {
				errs = append(errs, fmt.Sprintf("spawn.min_distances[%d] must be >= 0", i))
			}
		}
		if s.Attempts != nil && *s.Attempts < 1 {
			errs = append(errs, "spawn.attempts must be >= 1")
		}
		if s.MaxEnemies != nil && *s.MaxEnemies < 1 {
			errs = append(errs, "spawn.max_enemies must be >= 1")
		}
	}

	if s := cfg.Session; s != nil {
		if s.Lives != nil && *s.Lives < 1 {
			errs = append(errs, "session.lives must be >= 1")
		}
		if s.ComboTimeout != nil && *s.ComboTimeout <= 0 {
			errs = append(errs, "session.combo_timeout must be > 0")
		}
		if s.MaxCombo != nil && *s.MaxCombo < 1 {
			errs = append(errs, "session.max_combo must be >= 1")
		}
	}

	if s := cfg.Server; s != nil {
		if s.TokenTTL != nil && *s.TokenTTL <= 0 {
			errs = append(errs, "server.token_ttl must be > 0")
		}
		if s.LeaderboardLimit != nil && *s.LeaderboardLimit < 1 {
			errs = append(errs, "server.leaderboard_limit must be >= 1")
		}
		if s.ReloadInterval != nil && *s.ReloadInterval <= 0 {
			errs = append(errs, "server.reload_interval must be > 0")
		}
		if s.IdleTimeout != nil && *s.IdleTimeout <= 0 {
			errs = append(errs, "server.idle_timeout must be > 0")
		}
		if s.FinishedRetention != nil && *s.FinishedRetention < 0 {
			errs = append(errs, "server.finished_retention must be >= 0")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
