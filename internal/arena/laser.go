package arena

import (
	"math"

	"github.com/xtding233/codefall/internal/geometry"
)

const (
	LaserSpeed  = 500.0
	LaserLength = 20.0

	// ShotStep is the tick Intercept simulates with (one 60 Hz frame).
	ShotStep = 1.0 / 60
	// maxShotSteps bounds Intercept to ten seconds of flight.
	maxShotSteps = 600
)

// Laser travels in a straight line from where it was fired.
type Laser struct {
	X, Y   float64
	DX, DY float64
}

// NewLaser fires from origin towards target at LaserSpeed.
func NewLaser(origin, target geometry.Point) *Laser {
	angle := math.Atan2(target.Y-origin.Y, target.X-origin.X)
	return &Laser{
		X:  origin.X,
		Y:  origin.Y,
		DX: math.Cos(angle) * LaserSpeed,
		DY: math.Sin(angle) * LaserSpeed,
	}
}

func (l *Laser) Advance(dt float64) {
	l.X += l.DX * dt
	l.Y += l.DY * dt
}

// Segment is the beam: LaserLength along the heading from the laser's position.
func (l *Laser) Segment() geometry.Line {
	angle := math.Atan2(l.DY, l.DX)
	return geometry.Line{
		Start: geometry.Point{X: l.X, Y: l.Y},
		End:   geometry.Point{X: l.X + math.Cos(angle)*LaserLength, Y: l.Y + math.Sin(angle)*LaserLength},
	}
}

// HitsEnemy tests the beam against the enemy's hitbox, not its visual box.
func (l *Laser) HitsEnemy(e *Enemy) bool {
	return geometry.DoesLineIntersectRectangle(l.Segment(), e.Hitbox())
}

// Offscreen reports whether the laser left a width×height viewport.
func (l *Laser) Offscreen(width, height float64) bool {
	return l.X < 0 || l.X > width || l.Y < 0 || l.Y > height
}

// Intercept fires from origin at the target's centre and steps the laser and
// the falling target together until the beam touches the target's hitbox.
// It returns the flight time in seconds, or false when the laser leaves the
// width×height field first.
func Intercept(origin geometry.Point, target Enemy, width, height float64) (float64, bool) {
	l := NewLaser(origin, target.Center())
	for i := 0; i < maxShotSteps; i++ {
		if l.HitsEnemy(&target) {
			return float64(i) * ShotStep, true
		}
		if l.Offscreen(width, height) {
			return 0, false
		}
		l.Advance(ShotStep)
		target.Advance(ShotStep)
	}
	return 0, false
}
