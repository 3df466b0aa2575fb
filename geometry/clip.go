package geometry

import "math"

// Orientation is the turn direction of an ordered point triple.
type Orientation int

const (
	Collinear Orientation = iota
	Clockwise
	CounterClockwise
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case Collinear:
		return "collinear"
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counterclockwise"
	default:
		return "unknown"
	}
}

// Orient classifies the triple (a, b, c) by the sign of its cross product.
// Magnitudes below Epsilon count as collinear to absorb floating point noise.
func Orient(a, b, c Point) Orientation {
	val := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	if math.Abs(val) < Epsilon {
		return Collinear
	}
	if val > 0 {
		return Clockwise
	}
	return CounterClockwise
}

// SegmentsIntersect reports whether segment p1-p2 crosses segment p3-p4.
// Collinear overlapping segments are reported as not intersecting.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	o1 := Orient(p1, p2, p3)
	o2 := Orient(p1, p2, p4)
	o3 := Orient(p3, p4, p1)
	o4 := Orient(p3, p4, p2)
	return o1 != o2 && o3 != o4
}

// RectIntersectsLine reports whether the segment p1-p2 touches r: either
// endpoint lies inside it or the segment crosses one of its four edges.
func RectIntersectsLine(r Rect, p1, p2 Point) bool {
	if r.Contains(p1) || r.Contains(p2) {
		return true
	}
	edges := [4][2]Point{
		{{r.Left, r.Top}, {r.Right, r.Top}},
		{{r.Left, r.Bottom}, {r.Right, r.Bottom}},
		{{r.Left, r.Top}, {r.Left, r.Bottom}},
		{{r.Right, r.Top}, {r.Right, r.Bottom}},
	}
	for _, e := range edges {
		if SegmentsIntersect(p1, p2, e[0], e[1]) {
			return true
		}
	}
	return false
}

// ComputeEndpoint returns where a line from `from` toward the center of a
// box of the given size crosses the box boundary. A zero direction falls
// back to t = 1, which yields the center itself.
func ComputeEndpoint(center, from Point, box Size) Point {
	dx, dy := from.X-center.X, from.Y-center.Y
	hw, hh := box.Width/2, box.Height/2

	t := 1.0
	switch {
	case dx == 0 && dy == 0:
		t = 1
	case dx == 0:
		t = hh / math.Abs(dy)
	case dy == 0:
		t = hw / math.Abs(dx)
	default:
		t = math.Min(hw/math.Abs(dx), hh/math.Abs(dy))
	}
	return Point{X: center.X + t*dx, Y: center.Y + t*dy}
}

// ExitPoint casts a ray from the center of r toward `toward` and returns the
// point where it leaves the box, pushed outward by offset. The second result
// is false when the direction is degenerate and no exit exists.
func ExitPoint(r Rect, from, toward Point, offset float64) (Point, bool) {
	c := r.Center()
	dx, dy := toward.X-from.X, toward.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		length = 1
	}
	ndx, ndy := dx/length, dy/length

	t := math.Inf(1)
	consider := func(v float64) {
		if v > 0 && v < t {
			t = v
		}
	}
	if ndx > 0 {
		consider((r.Right - c.X) / ndx)
	} else if ndx < 0 {
		consider((r.Left - c.X) / ndx)
	}
	if ndy > 0 {
		consider((r.Bottom - c.Y) / ndy)
	} else if ndy < 0 {
		consider((r.Top - c.Y) / ndy)
	}
	if math.IsInf(t, 1) {
		return from, false
	}
	return Point{X: c.X + ndx*(t+offset), Y: c.Y + ndy*(t+offset)}, true
}
