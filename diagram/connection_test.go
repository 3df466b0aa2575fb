package diagram

import (
	"math"
	"testing"

	"notemap/geometry"
)

func near(a, b geometry.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func twoNodes() NodeMap {
	return NodeMap{
		1: {ID: 1, X: 0, Y: 0, Width: 100, Height: 50},
		2: {ID: 2, X: 300, Y: 0, Width: 100, Height: 50},
	}
}

func TestConnectionUpdate(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(NodeMap)
		line     LineType
		from, to geometry.Point
	}{
		{
			name: "standard clips only the target",
			line: LineStandard,
			from: geometry.Pt(50, 25),
			to:   geometry.Pt(300, 25),
		},
		{
			name: "reverse arrow clips the source as well",
			line: LineReverseArrow,
			from: geometry.Pt(100, 25),
			to:   geometry.Pt(300, 25),
		},
		{
			name: "both arrows",
			line: LineBothArrow,
			from: geometry.Pt(100, 25),
			to:   geometry.Pt(300, 25),
		},
		{
			name:  "thin target is pulled off the edge",
			setup: func(m NodeMap) { m[2].Type = NodeDotted },
			line:  LineStandard,
			from:  geometry.Pt(50, 25),
			to:    geometry.Pt(296, 25),
		},
		{
			name:  "thin source is pushed out from its center",
			setup: func(m NodeMap) { m[1].Type = NodeTextOnly },
			line:  LineStandard,
			from:  geometry.Pt(104, 25),
			to:    geometry.Pt(300, 25),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := twoNodes()
			if tt.setup != nil {
				tt.setup(nodes)
			}
			c := NewConnection(AtNode(1), AtNode(2), tt.line, DashSolid)
			c.Update(nodes)

			from, to, ok := c.Line()
			if !ok {
				t.Fatal("connection should be valid")
			}
			if !near(from, tt.from) || !near(to, tt.to) {
				t.Errorf("Line() = %+v -> %+v, want %+v -> %+v", from, to, tt.from, tt.to)
			}
		})
	}
}

func TestConnectionUnresolved(t *testing.T) {
	c := NewConnection(Endpoint{}, AtPoint(geometry.Pt(10, 10)), LineStandard, DashSolid)
	c.Update(NodeMap{})
	if c.Valid() {
		t.Error("connection without a source should be invalid")
	}

	missing := NewConnection(AtNode(9), AtPoint(geometry.Pt(10, 10)), LineStandard, DashSolid)
	missing.Update(NodeMap{})
	if missing.Valid() {
		t.Error("reference to a never-resolved node should be invalid")
	}
}

func TestConnectionFreezesWhenNodeDisappears(t *testing.T) {
	nodes := twoNodes()
	c := NewConnection(AtNode(1), AtNode(2), LineStandard, DashSolid)
	c.Update(nodes)

	delete(nodes, 1)
	c.Update(nodes)

	if !c.Valid() {
		t.Fatal("connection should survive with a frozen endpoint")
	}
	if c.From.Anchored() || c.From.Coord == nil || *c.From.Coord != geometry.Pt(50, 25) {
		t.Errorf("From = %+v, want frozen at the last center", c.From)
	}
}

func TestFreeConnection(t *testing.T) {
	c := NewConnection(AtPoint(geometry.Pt(0, 0)), AtPoint(geometry.Pt(10, 0)), LineStandard, DashSolid)
	if !c.IsFree() {
		t.Fatal("expected a free connection")
	}
	c.Translate(5, 5)
	c.Update(nil)

	from, to, ok := c.Line()
	if !ok || from != geometry.Pt(5, 5) || to != geometry.Pt(15, 5) {
		t.Errorf("Line() after translate = %+v %+v %v", from, to, ok)
	}
}

func TestHandleReanchor(t *testing.T) {
	nodes := twoNodes()
	c := NewConnection(AtNode(1), AtNode(2), LineStandard, DashSolid)

	c.Endpoint(SideTo).Detach(geometry.Pt(500, 500))
	if c.References(2) || c.To.Coord == nil {
		t.Fatalf("detached side should hold a coordinate: %+v", c.To)
	}

	c.Endpoint(SideTo).Anchor(2)
	if !c.References(2) || c.To.Coord != nil {
		t.Errorf("anchored side should drop its coordinate: %+v", c.To)
	}
	c.Update(nodes)
	if !c.Valid() {
		t.Error("re-anchored connection should resolve")
	}
}
