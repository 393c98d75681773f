package arena

import (
	"math"
	"testing"

	"github.com/xtding233/codefall/internal/geometry"
	"github.com/xtding233/codefall/internal/pacing"
	"github.com/xtding233/codefall/internal/problem"
)

type constRNG float64

func (c constRNG) Float64() float64 { return float64(c) }

// stubPacer hands out the same problem every time.
type stubPacer struct {
	p     problem.Problem
	calls int
}

func (s *stubPacer) SelectAndRecordProblem(int) problem.Problem { s.calls++; return s.p }
func (s *stubPacer) ComputeBaseSpeed(d int) float64 { return float64(10 * d) }

func testCatalogue(t *testing.T) *problem.Catalogue {
	t.Helper()
	c, err := problem.NewCatalogue([]problem.Problem{
		{Question: "Sum a and b", Difficulty: 1, Vars: []problem.Var{{Name: "a", Type: "number"}}, TestCases: []problem.TestCase{{Expected: 1}}},
		{Question: "Reverse s", Difficulty: 2, Vars: []problem.Var{{Name: "s", Type: "string"}}, TestCases: []problem.TestCase{{Expected: ""}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestMeasureEnemy(t *testing.T) {
	p := problem.Problem{Question: "abcd", Vars: []problem.Var{{Name: "a", Type: "number"}}}
	w, h := MeasureEnemy(p)
	if math.Abs(w-(9*7.2+40)) > 1e-9 {
		t.Fatalf("width = %v, want vars line to dominate", w)
	}
	if h != 115 {
		t.Fatalf("height = %v, want 115", h)
	}
}

func TestHitboxIsPaddedVisualBox(t *testing.T) {
	e := NewEnemy(problem.Problem{Question: "x"}, 100, 50, 10)
	v, hb := e.VisualBounds(), e.Hitbox()
	if hb.X != v.X-15 || hb.Y != v.Y-15 || hb.Width != v.Width+30 || hb.Height != v.Height+30 {
		t.Fatalf("hitbox %+v is not visual %+v padded by 15", hb, v)
	}
	e.Advance(0.5)
	if e.Y != 55 {
		t.Fatalf("Y after advance = %v, want 55", e.Y)
	}
	if !e.Passed(54) || e.Passed(55) {
		t.Fatalf("Passed is strict on the player line")
	}
}

func TestLaserHitsHitboxButNotVisualBox(t *testing.T) {
	e := NewEnemy(problem.Problem{Question: "x"}, 100, 100, 0)
	// a vertical beam 10px left of the drawn box, inside the padding
	l := NewLaser(geometry.Point{X: 90, Y: 150}, geometry.Point{X: 90, Y: 1000})
	if geometry.DoesLineIntersectRectangle(l.Segment(), e.VisualBounds()) {
		t.Fatalf("beam should miss the visual box")
	}
	if !l.HitsEnemy(e) {
		t.Fatalf("beam should hit the padded hitbox")
	}

	far := NewLaser(geometry.Point{X: 60, Y: 150}, geometry.Point{X: 60, Y: 1000})
	if far.HitsEnemy(e) {
		t.Fatalf("beam outside the padding should miss")
	}
}

func TestLaserMotion(t *testing.T) {
	l := NewLaser(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 0, Y: 100})
	if math.Abs(l.DX) > 1e-9 || math.Abs(l.DY-LaserSpeed) > 1e-9 {
		t.Fatalf("velocity = (%v,%v), want (0,%v)", l.DX, l.DY, LaserSpeed)
	}
	seg := l.Segment()
	if math.Abs(geometry.Distance(seg.Start, seg.End)-LaserLength) > 1e-9 {
		t.Fatalf("segment length = %v", geometry.Distance(seg.Start, seg.End))
	}
	l.Advance(0.1)
	if math.Abs(l.Y-50) > 1e-9 {
		t.Fatalf("Y = %v after 0.1s, want 50", l.Y)
	}
	if !l.Offscreen(800, 40) || l.Offscreen(800, 600) {
		t.Fatalf("offscreen check wrong at %v,%v", l.X, l.Y)
	}
}

func TestSpawnRespectsCap(t *testing.T) {
	pacer := &stubPacer{p: problem.Problem{ID: 1, Question: "q", Difficulty: 1}}
	sp, err := NewSpawnPlanner(pacer, testCatalogue(t), DefaultSpawnConfig(), constRNG(0.5))
	if err != nil {
		t.Fatal(err)
	}
	active := []*Enemy{
		NewEnemy(problem.Problem{ID: 5}, 5000, 0, 1),
		NewEnemy(problem.Problem{ID: 6}, 6000, 0, 1),
		NewEnemy(problem.Problem{ID: 7}, 7000, 0, 1),
	}
	if _, ok := sp.Spawn(0, active); ok {
		t.Fatalf("spawn should refuse a full field")
	}
	if pacer.calls != 0 {
		t.Fatalf("a full field must not draw problems, drew %d", pacer.calls)
	}
}

func TestSpawnSkipsProblemsOnScreen(t *testing.T) {
	dup := problem.Problem{ID: 0, Question: "Sum a and b", Difficulty: 1}
	pacer := &stubPacer{p: dup}
	sp, err := NewSpawnPlanner(pacer, testCatalogue(t), DefaultSpawnConfig(), constRNG(0.5))
	if err != nil {
		t.Fatal(err)
	}
	active := []*Enemy{NewEnemy(dup, 5000, 0, 1)}
	if _, ok := sp.Spawn(0, active); ok {
		t.Fatalf("spawn should give up when every draw is already on screen")
	}
	if pacer.calls != DefaultSpawnConfig().Attempts {
		t.Fatalf("draws = %d, want one per attempt", pacer.calls)
	}
}

func TestSpawnPlacesAboveViewport(t *testing.T) {
	p := problem.Problem{ID: 1, Question: "Reverse s", Difficulty: 2}
	sp, err := NewSpawnPlanner(&stubPacer{p: p}, testCatalogue(t), DefaultSpawnConfig(), constRNG(0.5))
	if err != nil {
		t.Fatal(err)
	}
	e, ok := sp.Spawn(0, nil)
	if !ok {
		t.Fatalf("empty field should always accept a spawn")
	}
	if e.Y != -e.Height || e.Speed != 20 || e.Problem.ID != 1 {
		t.Fatalf("unexpected enemy %+v", e)
	}
	if e.X < geometry.Margin {
		t.Fatalf("x = %v left of margin", e.X)
	}
}

func TestPositionFallsBackThroughSchedule(t *testing.T) {
	sp, err := NewSpawnPlanner(&stubPacer{}, testCatalogue(t), DefaultSpawnConfig(), constRNG(0.5))
	if err != nil {
		t.Fatal(err)
	}
	free, ok := sp.Position(nil)
	if !ok {
		t.Fatal("no position on an empty field")
	}
	// hitbox sits 100px to the right of the only candidate: 120 fails, 80 passes
	blocker := NewEnemy(problem.Problem{ID: 9}, free.X+100+HitboxPadding, 0, 1)
	got, ok := sp.Position([]*Enemy{blocker})
	if !ok || got != free {
		t.Fatalf("Position = %v,%v; want %v via the looser distance", got, ok, free)
	}

	// 30px away is too close for every distance in the schedule
	blocker.X = free.X + 30 + HitboxPadding
	if _, ok := sp.Position([]*Enemy{blocker}); ok {
		t.Fatalf("expected no position when closer than the loosest distance")
	}
}

func TestSpawnWithGenerator(t *testing.T) {
	cat, err := problem.Default()
	if err != nil {
		t.Fatal(err)
	}
	rng := pacing.NewSeededRNG(11)
	gen, err := pacing.NewGenerator(cat, pacing.DefaultTuning(), rng)
	if err != nil {
		t.Fatal(err)
	}
	sp, err := NewSpawnPlanner(gen, cat, DefaultSpawnConfig(), rng)
	if err != nil {
		t.Fatal(err)
	}
	var active []*Enemy
	for len(active) < 3 {
		e, ok := sp.Spawn(0, active)
		if !ok {
			t.Fatalf("spawn %d failed on a sparse field", len(active))
		}
		for _, a := range active {
			if a.Problem.ID == e.Problem.ID {
				t.Fatalf("problem %d spawned twice", e.Problem.ID)
			}
		}
		if e.Speed != gen.ComputeBaseSpeed(e.Problem.Difficulty) {
			t.Fatalf("speed %v does not follow the generator", e.Speed)
		}
		active = append(active, e)
	}
	if _, ok := sp.Spawn(0, active); ok {
		t.Fatalf("fourth spawn should be refused")
	}
}

func TestSpawnConfigValidate(t *testing.T) {
	bad := SpawnConfig{Width: 10, MinDistances: []float64{-1}}
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	want := "invalid spawn config: width must exceed 40; height must be > 0; minDistances[0] must be >= 0; attempts must be >= 1; maxEnemies must be >= 1"
	if err.Error() != want {
		t.Fatalf("got %q\nwant %q", err.Error(), want)
	}
}

func TestInterceptStationaryTarget(t *testing.T) {
	cfg := DefaultSpawnConfig()
	e := NewEnemy(problem.Problem{Question: "Sum a and b"}, 300, 100, 0)
	origin := cfg.Muzzle()
	if origin.X != 400 || origin.Y != 470 {
		t.Fatalf("muzzle = %+v", origin)
	}
	secs, ok := Intercept(origin, *e, cfg.Width, cfg.Height)
	if !ok {
		t.Fatalf("laser never reached the target")
	}
	if secs <= 0 || secs > geometry.Distance(origin, e.Center())/LaserSpeed {
		t.Fatalf("flight = %vs, want within the centre distance", secs)
	}
	if e.Y != 100 {
		t.Fatalf("Intercept moved the caller's enemy to y=%v", e.Y)
	}
}

func TestInterceptLeavesField(t *testing.T) {
	e := NewEnemy(problem.Problem{Question: "x"}, 300, 100, 0)
	if _, ok := Intercept(geometry.Point{X: 400, Y: 470}, *e, 10, 10); ok {
		t.Fatalf("laser outside the field should not hit")
	}
}
