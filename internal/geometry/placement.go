package geometry

import "math"

const (
	// Margin keeps spawn candidates away from the container's side walls.
	Margin = 20.0
	// DefaultMaxAttempts is used when FindNonOverlappingPosition gets maxAttempts <= 0.
	DefaultMaxAttempts = 3
)

// RandomSource yields uniform floats in [0,1).
type RandomSource interface {
	Float64() float64
}

// FindNonOverlappingPosition samples a spawn point for a w×h rectangle just
// above the container. Each attempt draws x uniformly in
// [Margin, containerWidth-w-Margin] and fixes y at -h. A candidate is
// rejected when its horizontal distance to any existing rectangle's X is
// below minDistance. ok is false when every attempt was rejected.
//
// containerHeight is accepted for symmetry with the caller's viewport and is
// not used: spawns always start above the visible area.
func FindNonOverlappingPosition(containerWidth, containerHeight, w, h float64, existing []Rectangle,
	minDistance float64, maxAttempts int, rng RandomSource) (Point, bool) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		x := math.Max(Margin, rng.Float64()*(containerWidth-w-2*Margin)+Margin)
		candidate := Point{X: x, Y: -h}
		if !tooClose(candidate, existing, minDistance) {
			return candidate, true
		}
	}
	return Point{}, false
}

func tooClose(p Point, existing []Rectangle, minDistance float64) bool {
	for _, e := range existing {
		if math.Abs(p.X-e.X) < minDistance {
			return true
		}
	}
	return false
}
