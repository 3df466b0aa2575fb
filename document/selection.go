package document

import (
	"slices"

	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/geometry"
)

// SelectNode makes n the only selected item.
func (d *Document) SelectNode(n *diagram.Node) {
	d.ClearSelection()
	d.selNodes = []*diagram.Node{n}
	d.primary = n
}

// ToggleNode adds n to the selection or removes it.
func (d *Document) ToggleNode(n *diagram.Node) {
	if d.IsNodeSelected(n) {
		d.deselectNode(n)
		return
	}
	d.selNodes = append(d.selNodes, n)
}

func (d *Document) deselectNode(n *diagram.Node) {
	d.selNodes = slices.DeleteFunc(d.selNodes, func(x *diagram.Node) bool { return x == n })
	if d.primary == n {
		d.primary = nil
	}
}

// SelectConnection makes c the only selected item.
func (d *Document) SelectConnection(c *diagram.Connection) {
	d.ClearSelection()
	d.selConns = []*diagram.Connection{c}
}

// SelectAll selects every node and connection.
func (d *Document) SelectAll() {
	d.ClearSelection()
	d.selNodes = slices.Clone(d.nodes)
	d.selConns = slices.Clone(d.conns)
}

// ClearSelection deselects everything.
func (d *Document) ClearSelection() {
	d.selNodes = nil
	d.selConns = nil
	d.primary = nil
}

// SelectInRect replaces the selection with the nodes whose boxes overlap r
// and the connections whose lines touch it.
func (d *Document) SelectInRect(r geometry.Rect) {
	d.ClearSelection()
	for _, n := range d.nodes {
		if n.Rect().Overlaps(r) {
			d.selNodes = append(d.selNodes, n)
		}
	}
	for _, c := range d.conns {
		if from, to, ok := c.Line(); ok && geometry.RectIntersectsLine(r, from, to) {
			d.selConns = append(d.selConns, c)
		}
	}
}

// SelectedNodes returns the selected nodes in selection order.
func (d *Document) SelectedNodes() []*diagram.Node {
	return slices.Clone(d.selNodes)
}

// SelectedConnections returns the selected connections.
func (d *Document) SelectedConnections() []*diagram.Connection {
	return slices.Clone(d.selConns)
}

// PrimaryNode returns the node selected by the last SelectNode, if it is
// still selected.
func (d *Document) PrimaryNode() *diagram.Node {
	return d.primary
}

// SelectionSize returns the number of selected nodes and connections.
func (d *Document) SelectionSize() int {
	return len(d.selNodes) + len(d.selConns)
}

func (d *Document) IsNodeSelected(n *diagram.Node) bool {
	return slices.Contains(d.selNodes, n)
}

func (d *Document) IsConnectionSelected(c *diagram.Connection) bool {
	return slices.Contains(d.selConns, c)
}

// DeleteSelection removes the selected connections, then the selected nodes
// together with every connection attached to them. It does not record a
// history state.
func (d *Document) DeleteSelection() (nodes, conns int) {
	before := len(d.conns)
	for _, c := range slices.Clone(d.selConns) {
		d.RemoveConnection(c)
	}
	for _, n := range slices.Clone(d.selNodes) {
		if d.RemoveNode(n) {
			nodes++
		}
	}
	conns = before - len(d.conns)
	d.ClearSelection()
	d.log.Debug("selection deleted", zap.Int("nodes", nodes), zap.Int("connections", conns))
	return nodes, conns
}
