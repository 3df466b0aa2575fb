package session

import (
	"time"

	"notemap/diagram"
	"notemap/geometry"
)

// PressState is the phase of a pointer press on a node.
type PressState int

const (
	// PressPending: the pointer is down and it is not yet known whether
	// this is a click or a drag.
	PressPending PressState = iota
	// PressDragging: the hold outlasted MoveDelay and the press moves nodes.
	PressDragging
	// PressSettled: the press ended as a click.
	PressSettled
)

func (s PressState) String() string {
	switch s {
	case PressPending:
		return "pending"
	case PressDragging:
		return "dragging"
	case PressSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Gesture timing and distance thresholds.
const (
	MoveDelay      = 250 * time.Millisecond
	MoveThreshold  = 5.0
	BranchDistance = 10.0
)

// Press tells a click from a drag by how long the pointer stays down. It
// has no timers of its own: callers feed it the current time.
type Press struct {
	state PressState
	start time.Time
}

// NewPress starts a pending press at now.
func NewPress(now time.Time) *Press {
	return &Press{state: PressPending, start: now}
}

// State returns the current phase.
func (p *Press) State() PressState {
	return p.state
}

// Tick advances a pending press to dragging once MoveDelay has elapsed.
func (p *Press) Tick(now time.Time) PressState {
	if p.state == PressPending && now.Sub(p.start) >= MoveDelay {
		p.state = PressDragging
	}
	return p.state
}

// Release ends the press. A press still pending becomes a click.
func (p *Press) Release(now time.Time) PressState {
	if p.Tick(now) == PressPending {
		p.state = PressSettled
	}
	return p.state
}

// NodePress is a press on a node: a quick release selects the node, a
// longer hold turns into a move of the node or of the whole selection.
type NodePress struct {
	s     *Session
	node  *diagram.Node
	press *Press
	at    geometry.Point
	drag  *MoveDrag
}

// PressNode begins a press on n at document point at. Any other node's
// edit is committed first.
func (s *Session) PressNode(n *diagram.Node, at geometry.Point, now time.Time) *NodePress {
	if s.editing != nil && s.editing != n {
		s.Commit(ChainNone)
	}
	return &NodePress{s: s, node: n, press: NewPress(now), at: at}
}

// State returns the phase of the underlying press.
func (np *NodePress) State() PressState {
	return np.press.State()
}

// Tick starts the move once the hold delay has passed.
func (np *NodePress) Tick(now time.Time) {
	if np.drag == nil && np.press.Tick(now) == PressDragging {
		np.drag = np.s.StartMove(np.node, np.at)
	}
}

// Move forwards pointer movement to the move, if one has started.
func (np *NodePress) Move(p geometry.Point, now time.Time) {
	np.Tick(now)
	if np.drag != nil {
		np.drag.Move(p)
	}
}

// Release ends the press: a click selects the node, a drag records its
// result.
func (np *NodePress) Release(p geometry.Point, now time.Time) {
	np.Tick(now)
	if np.drag != nil {
		np.drag.End(p)
		return
	}
	np.press.Release(now)
	np.s.Select(np.node)
}

// Abort stops listening without reverting anything already moved.
func (np *NodePress) Abort() {
	if np.drag != nil {
		np.drag.Abort()
	}
	np.press.state = PressSettled
}
