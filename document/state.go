package document

import (
	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/geometry"
	"notemap/snapshot"
)

// CaptureState serializes the document. Connections with a side that
// resolves to neither a node nor a coordinate are left out.
func (d *Document) CaptureState() *snapshot.Snapshot {
	s := &snapshot.Snapshot{
		Title:           d.title,
		Nodes:           make([]snapshot.NodeState, 0, len(d.nodes)),
		Connections:     make([]snapshot.ConnectionState, 0, len(d.conns)),
		GlobalPan:       d.pan,
		GlobalZoom:      d.zoom,
		DefaultNodeType: d.defaults.NodeType,
		DefaultLineType: d.defaults.LineType,
		DefaultDashType: d.defaults.DashType,
	}
	for _, n := range d.nodes {
		s.Nodes = append(s.Nodes, snapshot.NodeState{
			ID:       n.ID,
			Text:     n.Text,
			X:        n.X,
			Y:        n.Y,
			NodeType: n.Type,
			BoldText: n.Bold,
		})
	}
	for _, c := range d.conns {
		if !d.resolvable(c.From) || !d.resolvable(c.To) {
			d.log.Debug("skipping unresolved connection")
			continue
		}
		cs := snapshot.ConnectionState{LineType: c.LineType, DashType: c.DashType}
		cs.FromID, cs.FromCoord = stateOf(c.From)
		cs.ToID, cs.ToCoord = stateOf(c.To)
		s.Connections = append(s.Connections, cs)
	}
	return s
}

func (d *Document) resolvable(e diagram.Endpoint) bool {
	if e.Anchored() {
		return d.Node(e.NodeID) != nil
	}
	return e.Coord != nil
}

func stateOf(e diagram.Endpoint) (*int, *geometry.Point) {
	if e.Anchored() {
		return snapshot.IntPtr(e.NodeID), nil
	}
	p := *e.Coord
	return nil, &p
}

// RestoreState replaces the content with s. Node ids are kept as given and
// claimed so later allocations never collide with them. A connection side
// whose node id is unknown falls back to its stored coordinate; a side with
// neither drops the connection. An untitled state keeps the current title.
func (d *Document) RestoreState(s *snapshot.Snapshot) {
	d.ClearSelection()
	d.nodes = make([]*diagram.Node, 0, len(s.Nodes))
	d.conns = make([]*diagram.Connection, 0, len(s.Connections))
	d.index = make(map[int]*diagram.Node, len(s.Nodes))

	for _, ns := range s.Nodes {
		n := diagram.NewNode(d.ids, ns.Text, ns.X, ns.Y, ns.ID)
		n.Type = ns.NodeType
		n.Bold = ns.BoldText
		n.Measure(d.measurer)
		d.addNode(n)
	}

	for i, cs := range s.Connections {
		from := d.restoreEndpoint(cs.FromID, cs.FromCoord)
		to := d.restoreEndpoint(cs.ToID, cs.ToCoord)
		if from.Empty() || to.Empty() {
			d.log.Warn("dropping connection with an unresolvable side",
				zap.Int("index", i), zap.Bool("from", !from.Empty()), zap.Bool("to", !to.Empty()))
			continue
		}
		d.conns = append(d.conns, diagram.NewConnection(from, to, cs.LineType, cs.DashType))
	}

	d.defaults = s.Defaults()
	if s.Title != "" {
		d.title = s.Title
	}
	d.pan = s.GlobalPan
	if s.GlobalZoom > 0 {
		d.zoom = s.GlobalZoom
	}
	d.UpdateAllConnections()
}

func (d *Document) restoreEndpoint(id *int, coord *geometry.Point) diagram.Endpoint {
	if id != nil {
		if n := d.Node(*id); n != nil {
			return diagram.AtNode(n.ID)
		}
		d.log.Debug("connection references a missing node", zap.Int("id", *id))
	}
	if coord != nil {
		return diagram.AtPoint(*coord)
	}
	return diagram.Endpoint{}
}

// SaveState records the current content as a new undo step, discards the
// redo steps and hands the state to the sink.
func (d *Document) SaveState() {
	s := d.CaptureState()
	d.history.Push(s)
	if d.sink == nil {
		return
	}
	if err := d.sink.Persist(snapshot.Wrap(s)); err != nil {
		d.log.Warn("autosave failed", zap.Error(err))
	}
}

// Undo restores the previous state. It does nothing while only one state
// is recorded and reports whether anything changed.
func (d *Document) Undo() bool {
	s := d.history.Undo()
	if s == nil {
		return false
	}
	d.RestoreState(s)
	return true
}

// Redo reapplies the last undone state.
func (d *Document) Redo() bool {
	s := d.history.Redo()
	if s == nil {
		return false
	}
	d.RestoreState(s)
	return true
}

func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// HistoryStats returns the undo depth and the number of recorded states.
func (d *Document) HistoryStats() (current, total int) {
	return d.history.Stats()
}

// Reset restores s and makes it the only recorded state without notifying
// the sink. It is used when a document is opened from storage.
func (d *Document) Reset(s *snapshot.Snapshot) {
	d.RestoreState(s)
	d.history.Clear()
	d.history.Push(d.CaptureState())
}

// Load applies an imported document as a new undoable step.
func (d *Document) Load(s *snapshot.Snapshot) {
	d.RestoreState(s)
	d.SaveState()
}

// Envelope returns the current content wrapped for persistence.
func (d *Document) Envelope() *snapshot.Envelope {
	return snapshot.Wrap(d.CaptureState())
}
