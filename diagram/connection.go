package diagram

import "notemap/geometry"

// Side selects one end of a connection.
type Side int

const (
	SideFrom Side = iota
	SideTo
)

func (s Side) String() string {
	if s == SideFrom {
		return "from"
	}
	return "to"
}

// Endpoint is one end of a connection. At most one of NodeID (when > 0) and
// Coord is active; an endpoint with neither is unresolved.
type Endpoint struct {
	NodeID int
	Coord  *geometry.Point
}

// AtNode returns an endpoint anchored to a node.
func AtNode(id int) Endpoint {
	return Endpoint{NodeID: id}
}

// AtPoint returns an endpoint fixed to a document coordinate.
func AtPoint(p geometry.Point) Endpoint {
	return Endpoint{Coord: &p}
}

// Anchored reports whether the endpoint references a node.
func (e Endpoint) Anchored() bool {
	return e.NodeID > 0
}

// Empty reports whether the endpoint has neither a node nor a coordinate.
func (e Endpoint) Empty() bool {
	return e.NodeID <= 0 && e.Coord == nil
}

// Anchor binds the endpoint to a node and drops its coordinate.
func (e *Endpoint) Anchor(id int) {
	e.NodeID = id
	e.Coord = nil
}

// Detach pins the endpoint to p and drops its node reference.
func (e *Endpoint) Detach(p geometry.Point) {
	e.NodeID = 0
	e.Coord = &p
}

// Connection is a line between two endpoints. Nodes are referenced by id
// only; the document resolves them through a NodeLookup on every Update.
type Connection struct {
	From     Endpoint
	To       Endpoint
	LineType LineType
	DashType DashType

	start, end geometry.Point
	valid      bool
}

// NewConnection returns a connection with the given endpoints and styles.
// Its geometry is not computed until Update is called.
func NewConnection(from, to Endpoint, line LineType, dash DashType) *Connection {
	return &Connection{From: from, To: to, LineType: line, DashType: dash}
}

// Endpoint returns a pointer to the requested side.
func (c *Connection) Endpoint(s Side) *Endpoint {
	if s == SideFrom {
		return &c.From
	}
	return &c.To
}

// Line returns the clipped geometry computed by the last Update. ok is false
// when the connection could not be resolved.
func (c *Connection) Line() (from, to geometry.Point, ok bool) {
	return c.start, c.end, c.valid
}

// Valid reports whether the last Update resolved both ends.
func (c *Connection) Valid() bool {
	return c.valid
}

// IsFree reports whether neither end is anchored to a node.
func (c *Connection) IsFree() bool {
	return !c.From.Anchored() && !c.To.Anchored()
}

// References reports whether either end is anchored to node id.
func (c *Connection) References(id int) bool {
	return (c.From.Anchored() && c.From.NodeID == id) || (c.To.Anchored() && c.To.NodeID == id)
}

// Translate shifts every fixed coordinate by (dx, dy). Node-anchored ends
// follow their nodes and are left alone.
func (c *Connection) Translate(dx, dy float64) {
	for _, e := range []*Endpoint{&c.From, &c.To} {
		if e.Coord != nil && !e.Anchored() {
			p := e.Coord.Add(geometry.Pt(dx, dy))
			e.Coord = &p
		}
	}
}

// Update recomputes the visible line. Each end resolves to its node's center
// or, failing that, its fixed coordinate. An anchored end whose node no
// longer exists freezes at its last computed point; without one the
// connection becomes invalid and its previous geometry is left as is.
//
// The target end is clipped to its node's box. The source end is clipped
// too when the line draws an arrow there. Thin node variants then pull the
// end slightly off the box edge.
func (c *Connection) Update(nodes NodeLookup) {
	fromNode, fromPt, ok := c.resolve(&c.From, nodes, c.start)
	if !ok {
		c.valid = false
		return
	}
	toNode, toPt, ok := c.resolve(&c.To, nodes, c.end)
	if !ok {
		c.valid = false
		return
	}

	origFrom, origTo := fromPt, toPt
	if toNode != nil {
		toPt = geometry.ComputeEndpoint(origTo, origFrom, toNode.Size())
	}
	if fromNode != nil && c.LineType.HasStartArrow() {
		fromPt = geometry.ComputeEndpoint(origFrom, origTo, fromNode.Size())
	}
	if fromNode != nil && fromNode.IsThin() {
		if p, ok := geometry.ExitPoint(fromNode.Rect(), fromPt, toPt, thinOffset(fromNode)); ok {
			fromPt = p
		}
	}
	if toNode != nil && toNode.IsThin() {
		if p, ok := geometry.ExitPoint(toNode.Rect(), toPt, fromPt, thinOffset(toNode)); ok {
			toPt = p
		}
	}

	c.start, c.end, c.valid = fromPt, toPt, true
}

func (c *Connection) resolve(e *Endpoint, nodes NodeLookup, last geometry.Point) (*Node, geometry.Point, bool) {
	if e.Anchored() {
		if nodes != nil {
			if n := nodes.Node(e.NodeID); n != nil {
				return n, n.Center(), true
			}
		}
		if !c.valid {
			return nil, geometry.Point{}, false
		}
		e.Detach(last)
	}
	if e.Coord != nil {
		return nil, *e.Coord, true
	}
	return nil, geometry.Point{}, false
}

func thinOffset(n *Node) float64 {
	return 2 + n.Width/50
}

// Clone returns a copy of the connection with independent coordinates.
func (c *Connection) Clone() *Connection {
	cp := *c
	for _, e := range []*Endpoint{&cp.From, &cp.To} {
		if e.Coord != nil {
			p := *e.Coord
			e.Coord = &p
		}
	}
	return &cp
}
