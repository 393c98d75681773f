// Package geometry holds the collision and spawn-placement primitives.
// Everything here is a pure function of its arguments.
package geometry

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Rectangle is axis aligned with its origin at the top-left corner.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rectangle) Right() float64  { return r.X + r.Width }
func (r Rectangle) Bottom() float64 { return r.Y + r.Height }

// Expand grows r by pad on every side.
func (r Rectangle) Expand(pad float64) Rectangle {
	return Rectangle{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Edges returns top, right, bottom and left in that order.
func (r Rectangle) Edges() [4]Line {
	tl := Point{r.X, r.Y}
	tr := Point{r.Right(), r.Y}
	br := Point{r.Right(), r.Bottom()}
	bl := Point{r.X, r.Bottom()}
	return [4]Line{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}

// IsPointInRectangle reports whether p lies in r. Points on an edge count as inside.
func IsPointInRectangle(p Point, r Rectangle) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// DoLinesIntersect is the parametric segment test. Parallel and coincident
// segments (zero denominator) never intersect; no tolerance is applied.
func DoLinesIntersect(a, b Line) bool {
	x1, y1, x2, y2 := a.Start.X, a.Start.Y, a.End.X, a.End.Y
	x3, y3, x4, y4 := b.Start.X, b.Start.Y, b.End.X, b.End.Y

	den := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if den == 0 {
		return false
	}
	t := ((x1-x3)*(y3-y4) - (y1-y3)*(x3-x4)) / den
	u := -((x1-x2)*(y1-y3) - (y1-y2)*(x1-x3)) / den
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// DoesLineIntersectRectangle reports whether l touches r, including a segment
// lying entirely inside it.
func DoesLineIntersectRectangle(l Line, r Rectangle) bool {
	if IsPointInRectangle(l.Start, r) || IsPointInRectangle(l.End, r) {
		return true
	}
	for _, e := range r.Edges() {
		if DoLinesIntersect(l, e) {
			return true
		}
	}
	return false
}

func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}
