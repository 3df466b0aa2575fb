package session

import (
	"notemap/diagram"
)

// Chain selects what Commit creates after storing the text.
type Chain int

const (
	ChainNone Chain = iota
	ChainSibling
	ChainChild
)

func (c Chain) String() string {
	switch c {
	case ChainNone:
		return "none"
	case ChainSibling:
		return "sibling"
	case ChainChild:
		return "child"
	default:
		return "unknown"
	}
}

// Auto-chain placement offsets.
const (
	siblingSpacing = 160
	childGap       = 40
	newNodeWidth   = 160
)

// createSibling adds an empty node next to n under the same parent, to the
// right of the rightmost existing sibling. Without a parent the node goes
// to the right of n, unconnected.
func (s *Session) createSibling(n *diagram.Node) *diagram.Node {
	var nn *diagram.Node
	if parent := s.doc.ParentOf(n); parent != nil {
		rightmost := parent.X
		for _, sib := range s.doc.ChildrenOf(parent) {
			rightmost = max(rightmost, sib.X)
		}
		pos := s.doc.FindNonOverlappingPosition(rightmost+siblingSpacing, n.Y, newNodeWidth, n.Height+20)
		nn = s.doc.CreateNode("", pos.X, pos.Y)
		s.doc.SetNodeType(nn, n.Type)
		s.doc.CreateConnection(parent, nn)
	} else {
		pos := s.doc.FindNonOverlappingPosition(n.X+siblingSpacing, n.Y, newNodeWidth, n.Height+20)
		nn = s.doc.CreateNode("", pos.X, pos.Y)
		s.doc.SetNodeType(nn, n.Type)
	}
	s.StartEditing(nn)
	s.doc.SaveState()
	return nn
}

// createChild adds an empty node below n, connected from it.
func (s *Session) createChild(n *diagram.Node, estWidth float64) *diagram.Node {
	pos := s.doc.FindNonOverlappingPosition(n.X, n.Y+n.Height+childGap, estWidth, n.Height+20)
	nn := s.doc.CreateNode("", pos.X, pos.Y)
	s.doc.SetNodeType(nn, n.Type)
	s.doc.CreateConnection(n, nn)
	s.StartEditing(nn)
	s.doc.SaveState()
	return nn
}

// CreateChildOfSelection commits the current edit with a child, or adds a
// child below the selected node (the last created node when nothing is
// selected) and starts editing it.
func (s *Session) CreateChildOfSelection() *diagram.Node {
	if s.editing != nil {
		return s.Commit(ChainChild)
	}
	cur := s.doc.PrimaryNode()
	if cur == nil {
		nodes := s.doc.Nodes()
		if len(nodes) == 0 {
			return nil
		}
		cur = nodes[len(nodes)-1]
	}
	s.nav.Deactivate()
	return s.createChild(cur, newNodeWidth)
}
