// Package hierarchy derives a rooted tree from the connections of a mind
// map. Trees are snapshots: any change to the document invalidates them and
// callers rebuild before each use.
package hierarchy

import "notemap/diagram"

// RootTitle is the text that marks a node as the root of the map.
const RootTitle = "中心ノード"

// Tree is a breadth-first spanning tree over node-anchored connections.
type Tree struct {
	root     *diagram.Node
	levels   map[int]int
	byLevel  [][]*diagram.Node
	children map[int][]*diagram.Node
	tree     map[int][]*diagram.Node
}

// FindRoot picks the root of a node set: the node titled RootTitle, else the
// node with id 1, else the first node. It returns nil for an empty set.
func FindRoot(nodes []*diagram.Node) *diagram.Node {
	for _, n := range nodes {
		if n.Text == RootTitle {
			return n
		}
	}
	for _, n := range nodes {
		if n.ID == 1 {
			return n
		}
	}
	if len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Adjacency maps a node id to the targets of its outgoing connections, in
// connection order. Connections with a free end, or whose nodes are not in
// the set, are ignored.
func Adjacency(nodes []*diagram.Node, conns []*diagram.Connection) map[int][]*diagram.Node {
	index := diagram.IndexNodes(nodes)
	adj := make(map[int][]*diagram.Node)
	for _, c := range conns {
		if !c.From.Anchored() || !c.To.Anchored() {
			continue
		}
		from, to := index.Node(c.From.NodeID), index.Node(c.To.NodeID)
		if from == nil || to == nil {
			continue
		}
		adj[from.ID] = append(adj[from.ID], to)
	}
	return adj
}

// BuildTree runs a breadth-first search from the root. Each node gets the
// level at which it is first discovered; unreachable nodes are left out.
// It returns nil when there are no nodes.
func BuildTree(nodes []*diagram.Node, conns []*diagram.Connection) *Tree {
	root := FindRoot(nodes)
	if root == nil {
		return nil
	}

	t := &Tree{
		root:     root,
		levels:   map[int]int{root.ID: 0},
		children: Adjacency(nodes, conns),
		tree:     make(map[int][]*diagram.Node),
	}

	type item struct {
		node  *diagram.Node
		level int
	}
	queue := []item{{root, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.level == len(t.byLevel) {
			t.byLevel = append(t.byLevel, nil)
		}
		t.byLevel[cur.level] = append(t.byLevel[cur.level], cur.node)

		for _, child := range t.children[cur.node.ID] {
			if _, seen := t.levels[child.ID]; seen {
				continue
			}
			t.levels[child.ID] = cur.level + 1
			t.tree[cur.node.ID] = append(t.tree[cur.node.ID], child)
			queue = append(queue, item{child, cur.level + 1})
		}
	}
	return t
}

// Root returns the root node.
func (t *Tree) Root() *diagram.Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Level returns the BFS level of a node and whether it is in the tree.
func (t *Tree) Level(id int) (int, bool) {
	if t == nil {
		return 0, false
	}
	l, ok := t.levels[id]
	return l, ok
}

// NodesAtLevel returns the nodes at a level in discovery order.
func (t *Tree) NodesAtLevel(level int) []*diagram.Node {
	if t == nil || level < 0 || level >= len(t.byLevel) {
		return nil
	}
	return t.byLevel[level]
}

// ChildrenOf returns every target of n's outgoing connections, including
// nodes that were discovered at a shallower level through another parent.
func (t *Tree) ChildrenOf(n *diagram.Node) []*diagram.Node {
	if t == nil || n == nil {
		return nil
	}
	return t.children[n.ID]
}

// Depth returns the number of levels in the tree.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	return len(t.byLevel)
}

// Size returns the number of nodes reachable from the root.
func (t *Tree) Size() int {
	if t == nil {
		return 0
	}
	return len(t.levels)
}

// Walk visits the spanning tree in pre-order. Returning false from fn skips
// the node's subtree.
func (t *Tree) Walk(fn func(n *diagram.Node, level int) bool) {
	if t == nil {
		return
	}
	var visit func(n *diagram.Node, level int)
	visit = func(n *diagram.Node, level int) {
		if !fn(n, level) {
			return
		}
		for _, c := range t.tree[n.ID] {
			visit(c, level+1)
		}
	}
	visit(t.root, 0)
}
