package session

import (
	"testing"
	"time"

	"notemap/diagram"
	"notemap/geometry"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPress(t *testing.T) {
	p := NewPress(t0)
	if got := p.Tick(t0.Add(100 * time.Millisecond)); got != PressPending {
		t.Errorf("early tick = %v", got)
	}
	if got := p.Release(t0.Add(200 * time.Millisecond)); got != PressSettled {
		t.Errorf("quick release = %v", got)
	}

	p = NewPress(t0)
	if got := p.Tick(t0.Add(MoveDelay)); got != PressDragging {
		t.Errorf("tick after delay = %v", got)
	}
	if got := p.Release(t0.Add(time.Second)); got != PressDragging {
		t.Errorf("release after drag = %v", got)
	}
}

func TestNodePressClickSelects(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)

	np := s.PressNode(a, geometry.Pt(10, 10), t0)
	np.Release(geometry.Pt(10, 10), t0.Add(100*time.Millisecond))

	if np.State() != PressSettled || d.PrimaryNode() != a {
		t.Errorf("state %v, primary %v", np.State(), d.PrimaryNode())
	}
	if states(d) != 0 {
		t.Errorf("a click must not record history, got %d", states(d))
	}
}

func TestNodePressHoldMoves(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)

	np := s.PressNode(a, geometry.Pt(10, 10), t0)
	np.Move(geometry.Pt(60, 10), t0.Add(100*time.Millisecond))
	if a.X != 0 {
		t.Fatal("node moved before the hold delay")
	}
	np.Move(geometry.Pt(60, 10), t0.Add(300*time.Millisecond))
	np.Release(geometry.Pt(60, 20), t0.Add(400*time.Millisecond))

	if a.X != 50 || a.Y != 10 {
		t.Errorf("node at (%v, %v), want (50, 10)", a.X, a.Y)
	}
	if states(d) != 1 {
		t.Errorf("states = %d, want 1", states(d))
	}
}

func TestMoveThreshold(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)

	m := s.StartMove(a, geometry.Pt(10, 10))
	m.Move(geometry.Pt(13, 10))
	if a.X != 0 {
		t.Error("a small jiggle must not move the node")
	}
	m.Move(geometry.Pt(20, 10))
	if a.X != 10 {
		t.Errorf("a.X = %v, want 10", a.X)
	}
	m.End(geometry.Pt(20, 10))
	m.End(geometry.Pt(20, 10))
	if states(d) != 1 {
		t.Errorf("states = %d, want 1", states(d))
	}
}

func TestGroupMove(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)
	b := d.CreateNode("b", 300, 0)
	line := d.CreateFreeConnection(geometry.Pt(0, 200), geometry.Pt(100, 200))
	d.CreateConnection(a, b)
	s.SelectAll()

	m := s.StartMove(a, geometry.Pt(0, 0))
	if !m.Group() {
		t.Fatal("expected a group move")
	}
	m.Move(geometry.Pt(10, 20))
	m.End(geometry.Pt(10, 20))

	if a.X != 10 || a.Y != 20 || b.X != 310 || b.Y != 20 {
		t.Errorf("a at (%v, %v), b at (%v, %v)", a.X, a.Y, b.X, b.Y)
	}
	if *line.From.Coord != geometry.Pt(10, 220) || *line.To.Coord != geometry.Pt(110, 220) {
		t.Errorf("free line at %v - %v", *line.From.Coord, *line.To.Coord)
	}
	if states(d) != 1 {
		t.Errorf("states = %d", states(d))
	}
}

func TestConnectionDrag(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)
	b := d.CreateNode("b", 300, 0)
	if s.StartConnectionDrag(d.CreateConnection(a, b), geometry.Pt(150, 15)) != nil {
		t.Error("an anchored line cannot be dragged")
	}

	line := d.CreateFreeConnection(geometry.Pt(0, 200), geometry.Pt(100, 200))
	g := s.StartConnectionDrag(line, geometry.Pt(50, 200))
	if _, ok := g.(*ConnectionDrag); !ok {
		t.Fatalf("gesture = %T", g)
	}
	g.Move(geometry.Pt(50, 205))
	g.End(geometry.Pt(50, 210))

	from, to, ok := line.Line()
	if !ok || from != geometry.Pt(0, 210) || to != geometry.Pt(100, 210) {
		t.Errorf("line = %v - %v (%v)", from, to, ok)
	}
	if states(d) != 1 {
		t.Errorf("states = %d", states(d))
	}
}

func TestHandleDrag(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)
	b := d.CreateNode("b", 300, 0)
	c := d.CreateNode("c", 300, 200)
	conn := d.CreateConnection(a, b)

	h := s.StartHandleDrag(conn, diagram.SideTo)
	h.Move(geometry.Pt(200, 100))
	if conn.To.Anchored() {
		t.Error("the dragged end should detach while moving")
	}
	h.End(geometry.Pt(350, 215))
	if conn.To.NodeID != c.ID || conn.To.Coord != nil {
		t.Errorf("end = %+v, want anchored to %d", conn.To, c.ID)
	}

	h = s.StartHandleDrag(conn, diagram.SideFrom)
	h.End(geometry.Pt(1000, 1000))
	if conn.From.Anchored() || *conn.From.Coord != geometry.Pt(1000, 1000) {
		t.Errorf("end = %+v, want pinned to the drop point", conn.From)
	}
	if states(d) != 2 {
		t.Errorf("states = %d", states(d))
	}
}

func TestPanDrag(t *testing.T) {
	s, d := newSession()

	p := s.StartPan(geometry.Pt(0, 0))
	p.Move(geometry.Pt(3, 0))
	p.End(geometry.Pt(3, 0))
	if d.Pan() != (geometry.Point{}) || states(d) != 0 {
		t.Errorf("tiny pan: pan %v, states %d", d.Pan(), states(d))
	}

	p = s.StartPan(geometry.Pt(0, 0))
	p.Move(geometry.Pt(40, 30))
	p.End(geometry.Pt(40, 30))
	if d.Pan() != geometry.Pt(40, 30) || states(d) != 1 {
		t.Errorf("pan %v, states %d", d.Pan(), states(d))
	}
}

func TestRubberBand(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)
	d.CreateNode("b", 300, 0)
	s.StartEditing(a)

	rb := s.StartRubberBand(geometry.Pt(150, 50))
	if s.Editing() != nil || d.SelectionSize() != 0 {
		t.Error("rubber band should commit the edit and clear the selection")
	}
	rb.Move(geometry.Pt(-10, -10))
	if got := rb.Rect(); got.Left != -10 || got.Bottom != 50 {
		t.Errorf("Rect() = %+v", got)
	}
	rb.End(geometry.Pt(-10, -10))

	if sel := d.SelectedNodes(); len(sel) != 1 || sel[0] != a {
		t.Errorf("selected %v", sel)
	}
	// One state for the commit, one for the band.
	if states(d) != 2 {
		t.Errorf("states = %d", states(d))
	}
}

func TestBranchDrag(t *testing.T) {
	tests := []struct {
		name     string
		source   diagram.NodeType
		drop     geometry.Point
		toTarget bool
		blank    bool
		line     diagram.LineType
		dash     diagram.DashType
	}{
		{"release in place edits", diagram.NodeStandard, geometry.Pt(52, 15), false, false, 0, 0},
		{"drop on node connects", diagram.NodeStandard, geometry.Pt(350, 15), true, false, diagram.LineStandard, diagram.DashSolid},
		{"drop on blank creates text", diagram.NodeStandard, geometry.Pt(600, 300), false, true, diagram.LineStandard, diagram.DashSolid},
		{"dotted source draws dashed", diagram.NodeDotted, geometry.Pt(600, 300), false, true, diagram.LineNoArrow, diagram.DashDashed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, d := newSession()
			a := d.CreateNode("a", 0, 0)
			b := d.CreateNode("b", 300, 0)
			d.SetNodeType(a, tt.source)

			br := s.StartBranch(a, geometry.Pt(50, 15))
			br.Move(tt.drop)
			from, to, drawing := br.Preview()
			br.End(tt.drop)

			conns := d.Connections()
			switch {
			case tt.toTarget:
				if !drawing || from != a.Center() || to != tt.drop {
					t.Errorf("preview = %v - %v (%v)", from, to, drawing)
				}
				if len(conns) != 1 || conns[0].To.NodeID != b.ID || d.PrimaryNode() != b {
					t.Fatalf("connections %+v, primary %v", conns, d.PrimaryNode())
				}
			case tt.blank:
				nn := s.Editing()
				if nn == nil || nn.Type != diagram.NodeTextOnly || nn.X != tt.drop.X || nn.Y != tt.drop.Y {
					t.Fatalf("new node = %+v", nn)
				}
				if len(conns) != 1 || conns[0].To.NodeID != nn.ID {
					t.Fatalf("connections %+v", conns)
				}
			default:
				if drawing || s.Editing() != a || len(conns) != 0 || states(d) != 0 {
					t.Fatalf("editing %v, conns %d, states %d", s.Editing(), len(conns), states(d))
				}
				return
			}
			if conns[0].LineType != tt.line || conns[0].DashType != tt.dash {
				t.Errorf("style = %v/%v, want %v/%v", conns[0].LineType, conns[0].DashType, tt.line, tt.dash)
			}
			if states(d) != 1 {
				t.Errorf("states = %d", states(d))
			}
		})
	}
}

func TestBlankDrag(t *testing.T) {
	t.Run("release in place creates node", func(t *testing.T) {
		s, d := newSession()
		bd := s.StartBlank(geometry.Pt(500, 500))
		bd.End(geometry.Pt(503, 500))
		nn := s.Editing()
		if nn == nil || nn.X != 503 || nn.Type != d.Defaults().NodeType {
			t.Fatalf("new node = %+v", nn)
		}
		if states(d) != 1 {
			t.Errorf("states = %d", states(d))
		}
	})

	t.Run("drop on node", func(t *testing.T) {
		s, d := newSession()
		a := d.CreateNode("a", 0, 0)
		bd := s.StartBlank(geometry.Pt(500, 500))
		bd.Move(geometry.Pt(50, 15))
		if from, _, ok := bd.Preview(); !ok || from != geometry.Pt(500, 500) {
			t.Errorf("preview from %v (%v)", from, ok)
		}
		bd.End(geometry.Pt(50, 15))
		conns := d.Connections()
		if len(conns) != 1 || conns[0].To.NodeID != a.ID || *conns[0].From.Coord != geometry.Pt(500, 500) {
			t.Fatalf("connections %+v", conns)
		}
	})

	t.Run("drop on blank", func(t *testing.T) {
		s, d := newSession()
		bd := s.StartBlank(geometry.Pt(500, 500))
		bd.End(geometry.Pt(700, 500))
		conns := d.Connections()
		if len(conns) != 1 || !conns[0].IsFree() || len(d.Nodes()) != 0 {
			t.Fatalf("connections %+v, nodes %d", conns, len(d.Nodes()))
		}
	})
}

func TestAbortKeepsChanges(t *testing.T) {
	s, d := newSession()
	a := d.CreateNode("a", 0, 0)

	m := s.StartMove(a, geometry.Pt(0, 0))
	m.Move(geometry.Pt(30, 0))
	m.Abort()
	m.End(geometry.Pt(90, 0))

	if a.X != 30 {
		t.Errorf("a.X = %v, want 30", a.X)
	}
	if states(d) != 0 {
		t.Errorf("aborted gesture recorded %d states", states(d))
	}
}
