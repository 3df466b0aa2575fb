// Package document owns the nodes and connections of one mind map and is
// the only place they are mutated. Every mutation keeps connection geometry
// current; history entries are recorded explicitly with SaveState.
package document

import (
	"slices"

	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/geometry"
	"notemap/hierarchy"
	"notemap/snapshot"
)

// Sink receives every state recorded by SaveState, typically to autosave it.
type Sink interface {
	Persist(env *snapshot.Envelope) error
}

// Document is the in-memory mind map. It is not safe for concurrent use.
type Document struct {
	log      *zap.Logger
	measurer diagram.Measurer
	sink     Sink

	ids   *diagram.IDAllocator
	nodes []*diagram.Node
	index map[int]*diagram.Node
	conns []*diagram.Connection

	title    string
	pan      geometry.Point
	zoom     float64
	defaults diagram.Defaults

	selNodes []*diagram.Node
	selConns []*diagram.Connection
	primary  *diagram.Node

	history *History
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// WithMeasurer sets how node boxes are sized.
func WithMeasurer(m diagram.Measurer) Option {
	return func(d *Document) {
		if m != nil {
			d.measurer = m
		}
	}
}

// WithDefaults sets the initial style defaults.
func WithDefaults(def diagram.Defaults) Option {
	return func(d *Document) { d.defaults = def }
}

// WithHistoryLimit caps the number of undo states. Zero keeps everything.
func WithHistoryLimit(n int) Option {
	return func(d *Document) { d.history = NewHistory(n) }
}

// WithSink registers the collaborator notified on every SaveState.
func WithSink(s Sink) Option {
	return func(d *Document) { d.sink = s }
}

// New returns an empty document with no recorded history.
func New(opts ...Option) *Document {
	d := &Document{
		log:      zap.NewNop(),
		measurer: diagram.DefaultMeasurer(),
		ids:      diagram.NewIDAllocator(),
		index:    make(map[int]*diagram.Node),
		zoom:     1,
		defaults: diagram.DefaultStyles(),
		history:  NewHistory(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Initial position of the root node of a new map.
const (
	InitialX = 5000
	InitialY = 5000
)

// NewDefault returns the document a first-time user starts with: a single
// standard root node and one recorded state.
func NewDefault(opts ...Option) *Document {
	d := New(opts...)
	root := d.CreateNode(hierarchy.RootTitle, InitialX, InitialY)
	d.SetNodeType(root, diagram.NodeStandard)
	d.SaveState()
	return d
}

// Logger returns the document logger.
func (d *Document) Logger() *zap.Logger {
	return d.log
}

// Node implements diagram.NodeLookup.
func (d *Document) Node(id int) *diagram.Node {
	return d.index[id]
}

// Nodes returns the nodes in creation order.
func (d *Document) Nodes() []*diagram.Node {
	return slices.Clone(d.nodes)
}

// Connections returns the connections in creation order.
func (d *Document) Connections() []*diagram.Connection {
	return slices.Clone(d.conns)
}

// Root returns the node the hierarchy is rooted at, or nil.
func (d *Document) Root() *diagram.Node {
	return hierarchy.FindRoot(d.nodes)
}

// Tree builds a fresh hierarchy tree of the current content.
func (d *Document) Tree() *hierarchy.Tree {
	return hierarchy.BuildTree(d.nodes, d.conns)
}

// Title returns the document title.
func (d *Document) Title() string {
	return d.title
}

func (d *Document) SetTitle(t string) {
	d.title = t
}

// Pan returns the view offset.
func (d *Document) Pan() geometry.Point {
	return d.pan
}

func (d *Document) SetPan(p geometry.Point) {
	d.pan = p
}

// Zoom returns the view scale.
func (d *Document) Zoom() float64 {
	return d.zoom
}

// Defaults returns the styles applied to new nodes and connections.
func (d *Document) Defaults() diagram.Defaults {
	return d.defaults
}

// SetZoom sets the zoom factor. Non-positive values are ignored.
func (d *Document) SetZoom(z float64) {
	if z > 0 {
		d.zoom = z
	}
}

// SetDefaults replaces the style defaults for new nodes and connections.
func (d *Document) SetDefaults(def diagram.Defaults) {
	d.defaults = def
}

// Measurer returns the measurer used to size nodes.
func (d *Document) Measurer() diagram.Measurer {
	return d.measurer
}

// CreateNode adds a node with the default node type.
func (d *Document) CreateNode(text string, x, y float64) *diagram.Node {
	n := diagram.NewNode(d.ids, text, x, y, 0)
	n.Type = d.defaults.NodeType
	n.Measure(d.measurer)
	d.addNode(n)
	d.log.Debug("node created", zap.Int("id", n.ID), zap.Float64("x", x), zap.Float64("y", y))
	return n
}

func (d *Document) addNode(n *diagram.Node) {
	d.nodes = append(d.nodes, n)
	d.index[n.ID] = n
}

// Connect adds a connection between two endpoints with the default styles.
func (d *Document) Connect(from, to diagram.Endpoint) *diagram.Connection {
	c := diagram.NewConnection(from, to, d.defaults.LineType, d.defaults.DashType)
	c.Update(d)
	d.conns = append(d.conns, c)
	d.log.Debug("connection created",
		zap.Int("from", from.NodeID), zap.Int("to", to.NodeID), zap.Bool("valid", c.Valid()))
	return c
}

// CreateConnection connects two nodes. A nil node leaves that side
// unanchored.
func (d *Document) CreateConnection(from, to *diagram.Node) *diagram.Connection {
	return d.Connect(endpointOf(from), endpointOf(to))
}

// CreateFreeConnection adds a line that is not attached to any node.
func (d *Document) CreateFreeConnection(from, to geometry.Point) *diagram.Connection {
	return d.Connect(diagram.AtPoint(from), diagram.AtPoint(to))
}

// ConnectFromPoint adds a line from a fixed point to a node.
func (d *Document) ConnectFromPoint(from geometry.Point, to *diagram.Node) *diagram.Connection {
	return d.Connect(diagram.AtPoint(from), endpointOf(to))
}

func endpointOf(n *diagram.Node) diagram.Endpoint {
	if n == nil {
		return diagram.Endpoint{}
	}
	return diagram.AtNode(n.ID)
}

// NodeAt returns the topmost node whose box contains p.
func (d *Document) NodeAt(p geometry.Point) *diagram.Node {
	for i := len(d.nodes) - 1; i >= 0; i-- {
		if d.nodes[i].Rect().Contains(p) {
			return d.nodes[i]
		}
	}
	return nil
}

// ParentOf returns the source node of the first connection ending at n.
func (d *Document) ParentOf(n *diagram.Node) *diagram.Node {
	for _, c := range d.conns {
		if c.To.Anchored() && c.To.NodeID == n.ID && c.From.Anchored() {
			if p := d.Node(c.From.NodeID); p != nil {
				return p
			}
		}
	}
	return nil
}

// ChildrenOf returns the targets of every connection leaving n.
func (d *Document) ChildrenOf(n *diagram.Node) []*diagram.Node {
	var out []*diagram.Node
	for _, c := range d.conns {
		if c.From.Anchored() && c.From.NodeID == n.ID && c.To.Anchored() {
			if ch := d.Node(c.To.NodeID); ch != nil {
				out = append(out, ch)
			}
		}
	}
	return out
}

// SetNodeText replaces the raw text of n and resizes it.
func (d *Document) SetNodeText(n *diagram.Node, text string) {
	n.SetText(text)
	n.Measure(d.measurer)
	d.refreshAround(n)
}

// SetNodeType changes the variant of n and re-clips its lines.
func (d *Document) SetNodeType(n *diagram.Node, t diagram.NodeType) {
	n.SetType(t)
	n.Measure(d.measurer)
	d.refreshAround(n)
}

// SetNodeBold toggles bold text on n.
func (d *Document) SetNodeBold(n *diagram.Node, bold bool) {
	n.SetBold(bold)
	n.Measure(d.measurer)
	d.refreshAround(n)
}

// MoveNode places n at (x, y).
func (d *Document) MoveNode(n *diagram.Node, x, y float64) {
	n.SetPosition(x, y)
	d.refreshAround(n)
}

// SetConnectionLineType changes the arrow style of c.
func (d *Document) SetConnectionLineType(c *diagram.Connection, t diagram.LineType) {
	c.LineType = t
	c.Update(d)
}

// SetConnectionDashType changes the stroke pattern of c.
func (d *Document) SetConnectionDashType(c *diagram.Connection, t diagram.DashType) {
	c.DashType = t
	c.Update(d)
}

// UpdateConnection recomputes the geometry of a single connection.
func (d *Document) UpdateConnection(c *diagram.Connection) {
	c.Update(d)
}

// UpdateAllConnections recomputes every connection.
func (d *Document) UpdateAllConnections() {
	for _, c := range d.conns {
		c.Update(d)
	}
}

func (d *Document) refreshAround(n *diagram.Node) {
	for _, c := range d.conns {
		if c.References(n.ID) {
			c.Update(d)
		}
	}
}

// RemoveNode deletes n and every connection attached to it. It reports
// false, leaving the document alone, when n is not one of its nodes, for
// example a node replaced by a reload.
func (d *Document) RemoveNode(n *diagram.Node) bool {
	if d.index[n.ID] != n {
		d.deselectNode(n)
		return false
	}
	d.conns = slices.DeleteFunc(d.conns, func(c *diagram.Connection) bool {
		return c.References(n.ID)
	})
	d.nodes = slices.DeleteFunc(d.nodes, func(x *diagram.Node) bool { return x == n })
	delete(d.index, n.ID)
	d.deselectNode(n)
	d.log.Debug("node removed", zap.Int("id", n.ID))
	return true
}

// RemoveConnection deletes c.
func (d *Document) RemoveConnection(c *diagram.Connection) {
	d.conns = slices.DeleteFunc(d.conns, func(x *diagram.Connection) bool { return x == c })
	d.selConns = slices.DeleteFunc(d.selConns, func(x *diagram.Connection) bool { return x == c })
}

// Bounds returns the box enclosing every node and resolved line, and false
// for an empty document.
func (d *Document) Bounds() (geometry.Rect, bool) {
	var r geometry.Rect
	found := false
	grow := func(o geometry.Rect) {
		if !found {
			r, found = o, true
			return
		}
		r = r.Union(o)
	}
	for _, n := range d.nodes {
		grow(n.Rect())
	}
	for _, c := range d.conns {
		if from, to, ok := c.Line(); ok {
			grow(geometry.RectFromPoints(from, to))
		}
	}
	return r, found
}
