package geometry

import (
	"math"
	"testing"
)

func TestOrient(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Point
		want    Orientation
	}{
		{"collinear", Pt(0, 0), Pt(1, 1), Pt(2, 2), Collinear},
		{"near collinear noise", Pt(0, 0), Pt(1, 1), Pt(2, 2+1e-12), Collinear},
		{"left turn", Pt(0, 0), Pt(1, 0), Pt(1, 1), CounterClockwise},
		{"right turn", Pt(0, 0), Pt(1, 0), Pt(1, -1), Clockwise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orient(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("Orient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegmentsIntersect(t *testing.T) {
	tests := []struct {
		name           string
		p1, p2, p3, p4 Point
		want           bool
	}{
		{"crossing diagonals", Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0), true},
		{"parallel", Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5), false},
		{"disjoint", Pt(0, 0), Pt(1, 1), Pt(5, 5), Pt(6, 0), false},
		{"collinear overlap is not reported", Pt(0, 0), Pt(10, 0), Pt(5, 0), Pt(15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsIntersect(tt.p1, tt.p2, tt.p3, tt.p4); got != tt.want {
				t.Errorf("SegmentsIntersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersectsLine(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 100, Bottom: 50}

	tests := []struct {
		name   string
		p1, p2 Point
		want   bool
	}{
		{"endpoint inside", Pt(10, 10), Pt(500, 500), true},
		{"passes through", Pt(-50, 25), Pt(150, 25), true},
		{"crosses a corner region", Pt(-10, 40), Pt(20, 70), true},
		{"misses entirely", Pt(-50, -50), Pt(-10, 200), false},
		{"above the box", Pt(-50, -10), Pt(150, -10), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectIntersectsLine(r, tt.p1, tt.p2); got != tt.want {
				t.Errorf("RectIntersectsLine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeEndpoint(t *testing.T) {
	center := Pt(50, 25)
	box := Size{Width: 100, Height: 50}

	tests := []struct {
		name string
		from Point
		want Point
	}{
		{"from the right lands on the right edge", Pt(300, 25), Pt(100, 25)},
		{"from the left lands on the left edge", Pt(-200, 25), Pt(0, 25)},
		{"from below lands on the bottom edge", Pt(50, 400), Pt(50, 50)},
		{"from above lands on the top edge", Pt(50, -400), Pt(50, 0)},
		{"diagonal clipped by the tighter axis", Pt(150, 75), Pt(100, 50)},
		{"zero direction falls back to the center", Pt(50, 25), Pt(50, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeEndpoint(center, tt.from, box)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("ComputeEndpoint() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExitPoint(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 100, Bottom: 50}

	got, ok := ExitPoint(r, r.Center(), Pt(400, 25), 4)
	if !ok {
		t.Fatal("expected an exit point")
	}
	if got != Pt(104, 25) {
		t.Errorf("ExitPoint() = %+v, want {104 25}", got)
	}

	got, ok = ExitPoint(r, r.Center(), Pt(50, -300), 0)
	if !ok || got != Pt(50, 0) {
		t.Errorf("ExitPoint() upward = %+v, %v", got, ok)
	}

	if _, ok := ExitPoint(r, Pt(20, 20), Pt(20, 20), 4); ok {
		t.Error("degenerate direction should report no exit")
	}
}

func TestRectHelpers(t *testing.T) {
	r := RectFromPoints(Pt(10, 20), Pt(0, 0))
	if r != (Rect{Left: 0, Top: 0, Right: 10, Bottom: 20}) {
		t.Fatalf("RectFromPoints() = %+v", r)
	}
	if r.Center() != Pt(5, 10) {
		t.Errorf("Center() = %+v", r.Center())
	}
	if !r.Overlaps(Rect{Left: 10, Top: 20, Right: 30, Bottom: 30}) {
		t.Error("touching rectangles should overlap")
	}
	if r.Overlaps(Rect{Left: 11, Top: 0, Right: 30, Bottom: 30}) {
		t.Error("separate rectangles should not overlap")
	}
	if got := RectAt(5, 5, Size{Width: 10, Height: 2}); got.Right != 15 || got.Bottom != 7 {
		t.Errorf("RectAt() = %+v", got)
	}
}
