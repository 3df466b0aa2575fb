package diagram

import "notemap/geometry"

// Unsized nodes are treated as this large when checking for overlaps.
const (
	FallbackWidth  = 100
	FallbackHeight = 30
)

// Node is a positioned, styled text box. X and Y are the top-left corner in
// document coordinates. Width and Height come from a Measurer and are zero
// until the node has been measured.
type Node struct {
	ID     int
	Text   string
	X, Y   float64
	Type   NodeType
	Bold   bool
	Width  float64
	Height float64
}

// NewNode creates a standard node. An id of 0 allocates a new one; any other
// id is used as given and claimed on ids.
func NewNode(ids *IDAllocator, text string, x, y float64, id int) *Node {
	if id > 0 {
		ids.Claim(id)
	} else {
		id = ids.Next()
	}
	return &Node{ID: id, Text: text, X: x, Y: y, Type: NodeStandard}
}

// SetPosition moves the node. Attached connections are not refreshed.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
}

func (n *Node) SetText(text string) {
	n.Text = text
}

func (n *Node) SetType(t NodeType) {
	n.Type = t
}

func (n *Node) SetBold(bold bool) {
	n.Bold = bold
}

// Measure refreshes Width and Height from m.
func (n *Node) Measure(m Measurer) {
	if m == nil {
		return
	}
	s := m.Measure(n.Text, n.Bold)
	n.Width, n.Height = s.Width, s.Height
}

// Size returns the measured box size.
func (n *Node) Size() geometry.Size {
	return geometry.Size{Width: n.Width, Height: n.Height}
}

// Rect returns the measured bounding box.
func (n *Node) Rect() geometry.Rect {
	return geometry.RectAt(n.X, n.Y, n.Size())
}

// CollisionRect returns the box used for placement checks, substituting the
// fallback size for unmeasured nodes.
func (n *Node) CollisionRect() geometry.Rect {
	s := n.Size()
	if s.Width == 0 {
		s.Width = FallbackWidth
	}
	if s.Height == 0 {
		s.Height = FallbackHeight
	}
	return geometry.RectAt(n.X, n.Y, s)
}

// Center returns the center of the bounding box.
func (n *Node) Center() geometry.Point {
	return n.Rect().Center()
}

// IsThin reports whether the node's variant uses the tighter edge clip.
func (n *Node) IsThin() bool {
	return n.Type.IsThin()
}

// Clone returns a copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}
