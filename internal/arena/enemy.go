// Package arena models the things that move on the playfield: problem ships,
// lasers and the planner that decides where the next ship appears.
package arena

import (
	"math"
	"unicode/utf8"

	"github.com/xtding233/codefall/internal/geometry"
	"github.com/xtding233/codefall/internal/problem"
)

const (
	// VisualPadding surrounds the ship's text inside its drawn box.
	VisualPadding = 20.0
	// HitboxPadding grows the drawn box on every side for collisions.
	HitboxPadding = 15.0

	questionCharWidth = 8.4 // 14px monospace
	varsCharWidth     = 7.2 // 12px monospace

	// padding, question, spacing, vars, stars, padding
	enemyHeight = VisualPadding + 20 + 15 + 20 + 20 + VisualPadding
)

// Enemy is a problem ship falling towards the player.
type Enemy struct {
	Problem problem.Problem `json:"problem"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	Speed   float64         `json:"speed"`

	hitboxPadding float64
}

// NewEnemy places p at (x, y) sized by MeasureEnemy.
func NewEnemy(p problem.Problem, x, y, speed float64) *Enemy {
	w, h := MeasureEnemy(p)
	return &Enemy{Problem: p, X: x, Y: y, Width: w, Height: h, Speed: speed, hitboxPadding: HitboxPadding}
}

// MeasureEnemy returns the drawn width and height of a ship carrying p.
func MeasureEnemy(p problem.Problem) (width, height float64) {
	q := float64(utf8.RuneCountInString(p.Question)) * questionCharWidth
	v := float64(utf8.RuneCountInString(p.VarsLine())) * varsCharWidth
	return math.Max(q, v) + 2*VisualPadding, enemyHeight
}

func (e *Enemy) VisualBounds() geometry.Rectangle {
	return geometry.Rectangle{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// Hitbox is the visual box grown by the hitbox padding.
func (e *Enemy) Hitbox() geometry.Rectangle {
	return e.VisualBounds().Expand(e.hitboxPadding)
}

// Advance moves the ship down by Speed×dt.
func (e *Enemy) Advance(dt float64) { e.Y += e.Speed * dt }

// Passed reports whether the ship's top has crossed the player line.
func (e *Enemy) Passed(playerY float64) bool { return e.Y > playerY }

func (e *Enemy) Center() geometry.Point {
	return geometry.Point{X: e.X + e.Width/2, Y: e.Y + e.Height/2}
}
