// Package geometry holds the pure 2D helpers used to clip connection lines
// against node rectangles. All coordinates are logical document coordinates.
package geometry

import "math"

// Epsilon is the cross-product magnitude below which three points are
// considered collinear.
const Epsilon = 1e-10

// Point represents a 2D coordinate in document space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectAt builds a rectangle from its top-left corner and size.
func RectAt(x, y float64, s Size) Rect {
	return Rect{Left: x, Top: y, Right: x + s.Width, Bottom: y + s.Height}
}

// RectFromPoints returns the rectangle spanned by two corner points in any order.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Right:  math.Max(a.X, b.X),
		Bottom: math.Max(a.Y, b.Y),
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the rectangle dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Overlaps reports whether two rectangles share any point, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return !(o.Right < r.Left || o.Left > r.Right || o.Bottom < r.Top || o.Top > r.Bottom)
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}
