// resolve.go
package config

// Resolver turns a profile name into runnable parameters.
type Resolver interface {
	// Returns merged RawConfig and resolved Params
	Resolve(profile string) (RawConfig, Params, error)
}

var _ Resolver = (*Loader)(nil)

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Resolve fills DefaultParams with whatever raw sets and validates the result.
func Resolve(raw RawConfig) (Params, error) {
	p := DefaultParams()
	p.Version = raw.Version

	t, rp := &p.Tuning, raw.Pacing
	set(&t.BaseSpeed, rp.BaseSpeed)
	set(&t.SpeedPerDifficulty, rp.SpeedPerDifficulty)
	set(&t.SpeedFloor, rp.SpeedFloor)
	set(&t.SpeedPerAverage, rp.SpeedPerAverage)
	set(&t.ScoreThreshold, rp.ScoreThreshold)
	set(&t.TierBonus, rp.TierBonus)
	set(&t.FailureDecay, rp.FailureDecay)
	set(&t.NoveltyStep, rp.NoveltyStep)
	set(&t.NoveltyCap, rp.NoveltyCap)
	set(&t.HistorySize, rp.HistorySize)
	set(&t.SolveBoost, rp.SolveBoost)
	set(&t.FailDamping, rp.FailDamping)

	if s := raw.Spawn; s != nil {
		set(&p.Spawn.Width, s.Width)
		set(&p.Spawn.Height, s.Height)
		set(&p.Spawn.Attempts, s.Attempts)
		set(&p.Spawn.PlacementAttempts, s.PlacementAttempts)
		set(&p.Spawn.MaxEnemies, s.MaxEnemies)
		if len(s.MinDistances) > 0 {
			p.Spawn.MinDistances = append([]float64(nil), s.MinDistances...)
		}
	}
	if s := raw.Session; s != nil {
		set(&p.Lives, s.Lives)
		set(&p.ComboTimeout, s.ComboTimeout)
		set(&p.MaxCombo, s.MaxCombo)
	}
	if s := raw.Server; s != nil {
		set(&p.TokenTTL, s.TokenTTL)
		set(&p.LeaderboardLimit, s.LeaderboardLimit)
		set(&p.ReloadInterval, s.ReloadInterval)
		set(&p.IdleTimeout, s.IdleTimeout)
		set(&p.FinishedRetention, s.FinishedRetention)
	}

	if err := p.Tuning.Validate(); err != nil {
		return Params{}, err
	}
	if err := p.Spawn.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
