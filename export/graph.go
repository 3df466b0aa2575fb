package export

import (
	"strings"

	"notemap/diagram"
	"notemap/document"
	"notemap/richtext"
)

// edge is a connection with a node on both ends.
type edge struct {
	from, to *diagram.Node
	conn     *diagram.Connection
}

// nodeEdges returns the connections that join two existing nodes, in
// document order. Lines with a free end have no counterpart in graph
// formats.
func nodeEdges(d *document.Document, nodes []*diagram.Node) []edge {
	index := diagram.IndexNodes(nodes)
	var out []edge
	for _, c := range d.Connections() {
		from, to := index.Node(c.From.NodeID), index.Node(c.To.NodeID)
		if from == nil || to == nil {
			continue
		}
		out = append(out, edge{from: from, to: to, conn: c})
	}
	return out
}

// labelLines returns the displayed lines of a node's text.
func labelLines(n *diagram.Node) []string {
	return strings.Split(richtext.Plain(n.Text), "\n")
}
