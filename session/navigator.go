package session

import (
	"fmt"

	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/hierarchy"
)

// Placement of nodes created from navigation mode.
const (
	navChildGap     = 60
	navChildSpacing = 120
	navNodeWidth    = 160
	navNodeHeight   = 50
)

// Navigator steps through the nodes of one hierarchy level. Every
// activation rebuilds the tree, so it always reflects the current content.
type Navigator struct {
	s      *Session
	active bool
	level  int
	index  int
	nodes  []*diagram.Node
	tree   *hierarchy.Tree
}

// Active reports whether navigation mode is on. A level whose nodes were
// removed or replaced since activation is no longer navigable.
func (n *Navigator) Active() bool {
	return n.active && n.live()
}

func (n *Navigator) live() bool {
	for _, node := range n.nodes {
		if n.s.doc.Node(node.ID) != node {
			return false
		}
	}
	return true
}

// Level returns the navigated level.
func (n *Navigator) Level() int {
	return n.level
}

// Current returns the highlighted node, or nil when inactive.
func (n *Navigator) Current() *diagram.Node {
	if !n.Active() || len(n.nodes) == 0 {
		return nil
	}
	return n.nodes[n.index]
}

// Indicator describes the navigation position for a status line.
func (n *Navigator) Indicator() string {
	if !n.Active() {
		return ""
	}
	return fmt.Sprintf("level %d (%d/%d)  Tab: move  Enter: add child  Esc: exit",
		n.level, n.index+1, len(n.nodes))
}

func (n *Navigator) rebuild() *hierarchy.Tree {
	n.Deactivate()
	if n.s.editing != nil {
		n.s.Commit(ChainNone)
	}
	n.tree = n.s.doc.Tree()
	return n.tree
}

// ActivateCreateFromRoot adds a new child under the root, right of its
// existing children, and starts editing it. Navigation mode stays off.
func (n *Navigator) ActivateCreateFromRoot() *diagram.Node {
	tree := n.rebuild()
	if tree == nil {
		return nil
	}
	return n.addChild(tree, tree.Root())
}

func (n *Navigator) addChild(tree *hierarchy.Tree, parent *diagram.Node) *diagram.Node {
	doc := n.s.doc
	xOffset := float64(len(tree.ChildrenOf(parent)) * navChildSpacing)
	pos := doc.FindNonOverlappingPosition(parent.X+xOffset, parent.Y+parent.Height+navChildGap, navNodeWidth, navNodeHeight)
	child := doc.CreateNode("", pos.X, pos.Y)
	doc.CreateConnection(parent, child)
	n.s.StartEditing(child)
	doc.SaveState()
	return child
}

// ActivateLevel enters navigation mode on the level bound to a number key:
// key 2 navigates level 1, key 3 level 2 and so on. It reports false and
// leaves a status message when the level is empty.
func (n *Navigator) ActivateLevel(key int) bool {
	tree := n.rebuild()
	if tree == nil {
		return false
	}
	level := key - 1
	nodes := tree.NodesAtLevel(level)
	if len(nodes) == 0 {
		n.s.setMessage(fmt.Sprintf("no nodes at level %d", level))
		return false
	}

	n.active = true
	n.level = level
	n.index = 0
	n.nodes = nodes
	n.s.doc.ClearSelection()
	n.highlight()
	n.s.log.Debug("navigation started", zap.Int("level", level), zap.Int("nodes", len(nodes)))
	return true
}

// Next highlights the following node of the level, wrapping around.
func (n *Navigator) Next() *diagram.Node {
	if !n.Active() || len(n.nodes) == 0 {
		return nil
	}
	n.index = (n.index + 1) % len(n.nodes)
	n.highlight()
	return n.Current()
}

// Prev highlights the preceding node of the level, wrapping around.
func (n *Navigator) Prev() *diagram.Node {
	if !n.Active() || len(n.nodes) == 0 {
		return nil
	}
	n.index = (n.index - 1 + len(n.nodes)) % len(n.nodes)
	n.highlight()
	return n.Current()
}

// CreateChild adds a child under the highlighted node, leaves navigation
// mode and starts editing the child.
func (n *Navigator) CreateChild() *diagram.Node {
	parent := n.Current()
	if parent == nil {
		n.Deactivate()
		return nil
	}
	tree := n.tree
	n.Deactivate()
	return n.addChild(tree, parent)
}

// Deactivate leaves navigation mode.
func (n *Navigator) Deactivate() {
	if !n.active {
		return
	}
	n.active = false
	n.nodes = nil
	n.index = 0
	n.s.ClearMessage()
}

func (n *Navigator) highlight() {
	cur := n.nodes[n.index]
	n.s.doc.SelectNode(cur)
	n.s.setMessage(n.Indicator())
}
