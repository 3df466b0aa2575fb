package document

import "notemap/diagram"

// CycleNodeType advances the node variant. With nodes selected, all of them
// take the successor of the first one's variant; otherwise only the default
// moves. Either way the default follows and one state is saved.
func (d *Document) CycleNodeType() diagram.NodeType {
	next := d.defaults.NodeType.Next()
	if len(d.selNodes) > 0 {
		next = d.selNodes[0].Type.Next()
		for _, n := range d.selNodes {
			d.SetNodeType(n, next)
		}
	}
	d.defaults.NodeType = next
	d.SaveState()
	return next
}

// CycleLineType advances the arrow style of the selected connections, or of
// the default when none are selected.
func (d *Document) CycleLineType() diagram.LineType {
	next := d.defaults.LineType.Next()
	if len(d.selConns) > 0 {
		next = d.selConns[0].LineType.Next()
		for _, c := range d.selConns {
			d.SetConnectionLineType(c, next)
		}
	}
	d.defaults.LineType = next
	d.SaveState()
	return next
}

// CycleDashType toggles solid and dashed strokes on the selected
// connections, or on the default when none are selected.
func (d *Document) CycleDashType() diagram.DashType {
	next := d.defaults.DashType.Next()
	if len(d.selConns) > 0 {
		next = d.selConns[0].DashType.Next()
		for _, c := range d.selConns {
			d.SetConnectionDashType(c, next)
		}
	}
	d.defaults.DashType = next
	d.SaveState()
	return next
}

// ToggleBold makes every selected node bold unless all of them already are,
// in which case it clears bold on all. It returns the applied value and
// false when no node is selected.
func (d *Document) ToggleBold() (bold, ok bool) {
	if len(d.selNodes) == 0 {
		return false, false
	}
	bold = false
	for _, n := range d.selNodes {
		if !n.Bold {
			bold = true
			break
		}
	}
	for _, n := range d.selNodes {
		d.SetNodeBold(n, bold)
	}
	d.SaveState()
	return bold, true
}
