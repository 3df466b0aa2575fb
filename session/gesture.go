package session

import (
	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/geometry"
)

// Gesture is a pointer interaction between a press and a release. Move
// updates geometry only; End records a single history state; Abort stops
// the gesture and keeps whatever it has already changed.
type Gesture interface {
	Move(p geometry.Point)
	End(p geometry.Point)
	Abort()
}

var (
	_ Gesture = (*MoveDrag)(nil)
	_ Gesture = (*ConnectionDrag)(nil)
	_ Gesture = (*HandleDrag)(nil)
	_ Gesture = (*PanDrag)(nil)
	_ Gesture = (*RubberBand)(nil)
	_ Gesture = (*BranchDrag)(nil)
	_ Gesture = (*BlankDrag)(nil)
)

// MoveDrag moves one node, or the whole selection with any free lines in it.
type MoveDrag struct {
	s        *Session
	start    geometry.Point
	group    bool
	nodes    map[*diagram.Node]geometry.Point
	lines    map[*diagram.Connection][2]geometry.Point
	dragging bool
	done     bool
}

// StartMove begins moving n from document point at. An unselected n is
// selected first. With more than one item selected the whole selection
// moves right away; a single node only moves once the pointer has
// travelled MoveThreshold.
func (s *Session) StartMove(n *diagram.Node, at geometry.Point) *MoveDrag {
	if !s.doc.IsNodeSelected(n) {
		s.Select(n)
	}
	m := &MoveDrag{
		s:     s,
		start: at,
		nodes: make(map[*diagram.Node]geometry.Point),
		lines: make(map[*diagram.Connection][2]geometry.Point),
	}
	if s.doc.SelectionSize() > 1 {
		m.group = true
		m.dragging = true
		for _, sel := range s.doc.SelectedNodes() {
			m.nodes[sel] = geometry.Pt(sel.X, sel.Y)
		}
		for _, c := range s.doc.SelectedConnections() {
			if c.IsFree() && c.From.Coord != nil && c.To.Coord != nil {
				m.lines[c] = [2]geometry.Point{*c.From.Coord, *c.To.Coord}
			}
		}
		return m
	}
	s.doc.SelectNode(n)
	m.nodes[n] = geometry.Pt(n.X, n.Y)
	return m
}

// Group reports whether the drag moves a multi-item selection.
func (m *MoveDrag) Group() bool {
	return m.group
}

func (m *MoveDrag) Move(p geometry.Point) {
	if m.done {
		return
	}
	d := p.Sub(m.start)
	if !m.dragging && geometry.Distance(m.start, p) > MoveThreshold {
		m.dragging = true
	}
	if !m.dragging {
		return
	}
	for n, origin := range m.nodes {
		m.s.doc.MoveNode(n, origin.X+d.X, origin.Y+d.Y)
	}
	for c, origin := range m.lines {
		c.From.Detach(origin[0].Add(d))
		c.To.Detach(origin[1].Add(d))
		m.s.doc.UpdateConnection(c)
	}
}

func (m *MoveDrag) End(p geometry.Point) {
	if m.done {
		return
	}
	m.Move(p)
	m.done = true
	m.s.doc.SaveState()
}

func (m *MoveDrag) Abort() {
	m.done = true
}

// ConnectionDrag translates a free-floating line.
type ConnectionDrag struct {
	s        *Session
	c        *diagram.Connection
	start    geometry.Point
	from, to geometry.Point
	done     bool
}

// StartConnectionDrag begins dragging c. Only lines with no node on either
// side can be dragged; for a selected line within a larger selection the
// whole selection moves. It returns nil when c cannot be dragged.
func (s *Session) StartConnectionDrag(c *diagram.Connection, at geometry.Point) Gesture {
	if !c.IsFree() || c.From.Coord == nil || c.To.Coord == nil {
		return nil
	}
	if s.doc.IsConnectionSelected(c) && s.doc.SelectionSize() > 1 {
		m := &MoveDrag{
			s:        s,
			start:    at,
			group:    true,
			dragging: true,
			nodes:    make(map[*diagram.Node]geometry.Point),
			lines:    make(map[*diagram.Connection][2]geometry.Point),
		}
		for _, n := range s.doc.SelectedNodes() {
			m.nodes[n] = geometry.Pt(n.X, n.Y)
		}
		for _, sc := range s.doc.SelectedConnections() {
			if sc.IsFree() && sc.From.Coord != nil && sc.To.Coord != nil {
				m.lines[sc] = [2]geometry.Point{*sc.From.Coord, *sc.To.Coord}
			}
		}
		return m
	}
	return &ConnectionDrag{s: s, c: c, start: at, from: *c.From.Coord, to: *c.To.Coord}
}

func (cd *ConnectionDrag) Move(p geometry.Point) {
	if cd.done {
		return
	}
	d := p.Sub(cd.start)
	cd.c.From.Detach(cd.from.Add(d))
	cd.c.To.Detach(cd.to.Add(d))
	cd.s.doc.UpdateConnection(cd.c)
}

func (cd *ConnectionDrag) End(p geometry.Point) {
	if cd.done {
		return
	}
	cd.Move(p)
	cd.done = true
	cd.s.doc.SaveState()
}

func (cd *ConnectionDrag) Abort() {
	cd.done = true
}

// HandleDrag moves one end of a connection. The end detaches from its node
// as soon as it moves and re-anchors to whatever node it is dropped on.
type HandleDrag struct {
	s    *Session
	c    *diagram.Connection
	side diagram.Side
	done bool
}

// StartHandleDrag begins dragging the given end of c.
func (s *Session) StartHandleDrag(c *diagram.Connection, side diagram.Side) *HandleDrag {
	s.nav.Deactivate()
	return &HandleDrag{s: s, c: c, side: side}
}

func (h *HandleDrag) Move(p geometry.Point) {
	if h.done {
		return
	}
	h.c.Endpoint(h.side).Detach(p)
	h.s.doc.UpdateConnection(h.c)
}

func (h *HandleDrag) End(p geometry.Point) {
	if h.done {
		return
	}
	h.done = true
	end := h.c.Endpoint(h.side)
	if target := h.s.doc.NodeAt(p); target != nil {
		end.Anchor(target.ID)
	} else {
		end.Detach(p)
	}
	h.s.doc.UpdateConnection(h.c)
	h.s.doc.SaveState()
}

func (h *HandleDrag) Abort() {
	h.done = true
}

// PanDrag scrolls the view. Points are in screen coordinates.
type PanDrag struct {
	s      *Session
	start  geometry.Point
	origin geometry.Point
	moved  bool
	done   bool
}

// StartPan begins panning from screen point at.
func (s *Session) StartPan(at geometry.Point) *PanDrag {
	return &PanDrag{s: s, start: at, origin: s.doc.Pan()}
}

func (pd *PanDrag) Move(p geometry.Point) {
	if pd.done {
		return
	}
	if !pd.moved && geometry.Distance(pd.start, p) > MoveThreshold {
		pd.moved = true
	}
	if pd.moved {
		pd.s.doc.SetPan(pd.origin.Add(p.Sub(pd.start)))
	}
}

// End records the new view only when the pan actually moved.
func (pd *PanDrag) End(p geometry.Point) {
	if pd.done {
		return
	}
	pd.Move(p)
	pd.done = true
	if pd.moved {
		pd.s.doc.SaveState()
	}
}

func (pd *PanDrag) Abort() {
	pd.done = true
}

// RubberBand selects everything touched by a dragged rectangle.
type RubberBand struct {
	s          *Session
	start, cur geometry.Point
	done       bool
}

// StartRubberBand commits any edit, clears the selection and begins a
// selection rectangle at at.
func (s *Session) StartRubberBand(at geometry.Point) *RubberBand {
	if s.editing != nil {
		s.Commit(ChainNone)
	}
	s.doc.ClearSelection()
	return &RubberBand{s: s, start: at, cur: at}
}

// Rect returns the current selection rectangle.
func (rb *RubberBand) Rect() geometry.Rect {
	return geometry.RectFromPoints(rb.start, rb.cur)
}

func (rb *RubberBand) Move(p geometry.Point) {
	if !rb.done {
		rb.cur = p
	}
}

func (rb *RubberBand) End(p geometry.Point) {
	if rb.done {
		return
	}
	rb.cur = p
	rb.done = true
	rb.s.doc.SelectInRect(rb.Rect())
	rb.s.doc.SaveState()
}

func (rb *RubberBand) Abort() {
	rb.done = true
}

// BranchDrag follows a double press on a node. Released in place it edits
// the node. Dragged further than BranchDistance it draws a new branch:
// dropped on another node it connects to it, dropped on blank space it
// creates a text-only node there.
type BranchDrag struct {
	s         *Session
	node      *diagram.Node
	start     geometry.Point
	cur       geometry.Point
	branching bool
	done      bool
}

// StartBranch begins a double press on n at document point at.
func (s *Session) StartBranch(n *diagram.Node, at geometry.Point) *BranchDrag {
	if s.editing != nil && s.editing != n {
		s.Commit(ChainNone)
	}
	s.nav.Deactivate()
	return &BranchDrag{s: s, node: n, start: at, cur: at}
}

// Preview returns the provisional branch line while one is being drawn.
func (b *BranchDrag) Preview() (from, to geometry.Point, ok bool) {
	if !b.branching || b.done {
		return geometry.Point{}, geometry.Point{}, false
	}
	return b.node.Center(), b.cur, true
}

func (b *BranchDrag) Move(p geometry.Point) {
	if b.done {
		return
	}
	b.cur = p
	if !b.branching && geometry.Distance(b.start, p) > BranchDistance {
		b.branching = true
	}
}

func (b *BranchDrag) End(p geometry.Point) {
	if b.done {
		return
	}
	b.Move(p)
	b.done = true
	if !b.branching {
		b.s.StartEditing(b.node)
		return
	}

	doc := b.s.doc
	if target := doc.NodeAt(p); target != nil && target != b.node {
		b.styleBranch(doc.CreateConnection(b.node, target))
		b.s.Select(target)
	} else {
		nn := doc.CreateNode("", p.X, p.Y)
		doc.SetNodeType(nn, diagram.NodeTextOnly)
		b.styleBranch(doc.CreateConnection(b.node, nn))
		b.s.StartEditing(nn)
	}
	doc.SaveState()
	b.s.log.Debug("branch created", zap.Int("from", b.node.ID))
}

// Branches from dotted nodes are plain dashed lines.
func (b *BranchDrag) styleBranch(c *diagram.Connection) {
	if b.node.Type != diagram.NodeDotted {
		return
	}
	b.s.doc.SetConnectionLineType(c, diagram.LineNoArrow)
	b.s.doc.SetConnectionDashType(c, diagram.DashDashed)
}

func (b *BranchDrag) Abort() {
	b.done = true
}

// BlankDrag follows a double press on empty canvas. Released in place it
// creates a node there; dragged further than BranchDistance it draws a line
// from the press point, attached to a node if dropped on one.
type BlankDrag struct {
	s     *Session
	start geometry.Point
	cur   geometry.Point
	line  bool
	done  bool
}

// StartBlank begins a double press on empty canvas at document point at.
func (s *Session) StartBlank(at geometry.Point) *BlankDrag {
	if s.editing != nil {
		s.Commit(ChainNone)
	}
	s.nav.Deactivate()
	return &BlankDrag{s: s, start: at, cur: at}
}

// Preview returns the provisional line while one is being drawn.
func (b *BlankDrag) Preview() (from, to geometry.Point, ok bool) {
	if !b.line || b.done {
		return geometry.Point{}, geometry.Point{}, false
	}
	return b.start, b.cur, true
}

func (b *BlankDrag) Move(p geometry.Point) {
	if b.done {
		return
	}
	b.cur = p
	if !b.line && geometry.Distance(b.start, p) > BranchDistance {
		b.line = true
	}
}

func (b *BlankDrag) End(p geometry.Point) {
	if b.done {
		return
	}
	b.Move(p)
	b.done = true

	doc := b.s.doc
	if b.line {
		if target := doc.NodeAt(p); target != nil {
			doc.ConnectFromPoint(b.start, target)
		} else {
			doc.CreateFreeConnection(b.start, p)
		}
	} else {
		b.s.StartEditing(doc.CreateNode("", p.X, p.Y))
	}
	doc.SaveState()
}

func (b *BlankDrag) Abort() {
	b.done = true
}
