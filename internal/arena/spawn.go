package arena

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/xtding233/codefall/internal/geometry"
	"github.com/xtding233/codefall/internal/problem"
)

// Pacer is the part of the problem generator the spawner needs.
type Pacer interface {
	SelectAndRecordProblem(score int) problem.Problem
	ComputeBaseSpeed(difficulty int) float64
}

type SpawnConfig struct {
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	MinDistances []float64 `json:"minDistances"` // tried in order, loosest last
	Attempts     int       `json:"attempts"`
	MaxEnemies   int       `json:"maxEnemies"`
	// PlacementAttempts is passed to FindNonOverlappingPosition per distance.
	PlacementAttempts int `json:"placementAttempts"`
}

// playerInset is how far above the bottom edge the player ship sits:
// the 80px console plus a 50px gap.
const playerInset = 130.0

// PlayerLine is the y a ship's top must cross to get past the player.
func (c SpawnConfig) PlayerLine() float64 { return c.Height - playerInset }

// Muzzle is where the player's lasers start.
func (c SpawnConfig) Muzzle() geometry.Point {
	return geometry.Point{X: c.Width / 2, Y: c.PlayerLine()}
}

func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		Width:             800,
		Height:            600,
		MinDistances:      []float64{120, 80, 40},
		Attempts:          5,
		MaxEnemies:        3,
		PlacementAttempts: geometry.DefaultMaxAttempts,
	}
}

var ErrInvalidSpawn = errors.New("invalid spawn config")

func (c SpawnConfig) Validate() error {
	var errs []string
	if c.Width <= 2*geometry.Margin {
		errs = append(errs, fmt.Sprintf("width must exceed %v", 2*geometry.Margin))
	}
	if c.Height <= 0 {
		errs = append(errs, "height must be > 0")
	}
	if len(c.MinDistances) == 0 {
		errs = append(errs, "minDistances must not be empty")
	}
	for i, d := range c.MinDistances {
		if d < 0 {
			errs = append(errs, fmt.Sprintf("minDistances[%d] must be >= 0", i))
		}
	}
	if c.Attempts < 1 {
		errs = append(errs, "attempts must be >= 1")
	}
	if c.MaxEnemies < 1 {
		errs = append(errs, "maxEnemies must be >= 1")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSpawn, strings.Join(errs, "; "))
	}
	return nil
}

// SpawnPlanner picks a spot and a problem for the next ship.
type SpawnPlanner struct {
	pacer Pacer
	cfg   SpawnConfig
	rng   geometry.RandomSource

	// slot is the footprint used while searching for a position: the
	// widest ship the catalogue can produce, so any problem fits the spot.
	slotW, slotH float64
}

func NewSpawnPlanner(pacer Pacer, cat *problem.Catalogue, cfg SpawnConfig, rng geometry.RandomSource) (*SpawnPlanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil || cat.Len() == 0 {
		return nil, problem.ErrEmptyCatalogue
	}
	sp := &SpawnPlanner{pacer: pacer, cfg: cfg, rng: rng}
	for _, p := range cat.All() {
		w, h := MeasureEnemy(p)
		sp.slotW = math.Max(sp.slotW, w+2*HitboxPadding)
		sp.slotH = math.Max(sp.slotH, h+2*HitboxPadding)
	}
	return sp, nil
}

// Position runs the min-distance schedule against the active ships' hitboxes.
func (sp *SpawnPlanner) Position(active []*Enemy) (geometry.Point, bool) {
	existing := make([]geometry.Rectangle, len(active))
	for i, e := range active {
		existing[i] = e.Hitbox()
	}
	for _, d := range sp.cfg.MinDistances {
		p, ok := geometry.FindNonOverlappingPosition(sp.cfg.Width, sp.cfg.Height, sp.slotW, sp.slotH,
			existing, d, sp.cfg.PlacementAttempts, sp.rng)
		if ok {
			return p, true
		}
	}
	return geometry.Point{}, false
}

// Spawn returns the next ship, or false when the field is full or every
// attempt failed to find room or drew a problem that is already on screen.
// Every drawn problem counts as selected, including skipped duplicates.
func (sp *SpawnPlanner) Spawn(score int, active []*Enemy) (*Enemy, bool) {
	if len(active) >= sp.cfg.MaxEnemies {
		return nil, false
	}
	onScreen := make(map[int]struct{}, len(active))
	for _, e := range active {
		onScreen[e.Problem.ID] = struct{}{}
	}
	for attempt := 0; attempt < sp.cfg.Attempts; attempt++ {
		pos, ok := sp.Position(active)
		if !ok {
			continue
		}
		p := sp.pacer.SelectAndRecordProblem(score)
		if _, dup := onScreen[p.ID]; dup {
			continue
		}
		e := NewEnemy(p, pos.X, 0, sp.pacer.ComputeBaseSpeed(p.Difficulty))
		e.Y = -e.Height
		return e, true
	}
	return nil, false
}

func (sp *SpawnPlanner) Config() SpawnConfig { return sp.cfg }
