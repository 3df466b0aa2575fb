package diagram

import "notemap/geometry"

// NodeLookup resolves node ids held by connections. It returns nil for ids
// that are not (or no longer) part of the document.
type NodeLookup interface {
	Node(id int) *Node
}

// Measurer estimates the rendered box of a node's text.
type Measurer interface {
	Measure(text string, bold bool) geometry.Size
}

// NodeMap is a NodeLookup over a plain map.
type NodeMap map[int]*Node

// Node returns the node with the given id or nil.
func (m NodeMap) Node(id int) *Node {
	return m[id]
}

// IndexNodes builds a NodeMap from a slice.
func IndexNodes(nodes []*Node) NodeMap {
	m := make(NodeMap, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}
