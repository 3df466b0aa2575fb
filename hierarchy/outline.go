package hierarchy

import "notemap/diagram"

// Outline is a depth-first rendering of the map used for text exports.
type Outline struct {
	Node     *diagram.Node
	Children []*Outline
}

// BuildOutline expands the map depth-first from the root. A node already
// placed elsewhere in the outline is not repeated.
func BuildOutline(nodes []*diagram.Node, conns []*diagram.Connection) *Outline {
	root := FindRoot(nodes)
	if root == nil {
		return nil
	}
	adj := Adjacency(nodes, conns)
	visited := make(map[int]bool)

	var expand func(n *diagram.Node) *Outline
	expand = func(n *diagram.Node) *Outline {
		if visited[n.ID] {
			return nil
		}
		visited[n.ID] = true
		o := &Outline{Node: n}
		for _, c := range adj[n.ID] {
			if sub := expand(c); sub != nil {
				o.Children = append(o.Children, sub)
			}
		}
		return o
	}
	return expand(root)
}
