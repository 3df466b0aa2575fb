package export

import (
	"fmt"
	"strings"

	"notemap/diagram"
	"notemap/document"
)

// GraphvizExporter exports documents to Graphviz DOT syntax
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the document to Graphviz DOT syntax
func (e *GraphvizExporter) Export(d *document.Document) ([]byte, error) {
	nodes := d.Nodes()
	if len(nodes) == 0 {
		return nil, errEmpty
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	if title := d.Title(); title != "" {
		sb.WriteString(fmt.Sprintf("  label=\"%s\";\n", e.escapeLabel(title)))
	}
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box];\n\n")

	for _, node := range nodes {
		nodeID := e.getNodeID(node.ID)
		label := e.getNodeLabel(node)
		if attributes := e.getNodeAttributes(node); attributes != "" {
			sb.WriteString(fmt.Sprintf("  %s [label=\"%s\", %s];\n", nodeID, label, attributes))
		} else {
			sb.WriteString(fmt.Sprintf("  %s [label=\"%s\"];\n", nodeID, label))
		}
	}

	edges := nodeEdges(d, nodes)
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, ed := range edges {
		fromID, toID := e.getNodeID(ed.from.ID), e.getNodeID(ed.to.ID)
		if attributes := e.getEdgeAttributes(ed.conn); attributes != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [%s];\n", fromID, toID, attributes))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", fromID, toID))
		}
	}

	sb.WriteString("}\n")
	return []byte(sb.String()), nil
}

// getNodeID returns a valid DOT node identifier
func (e *GraphvizExporter) getNodeID(id int) string {
	return fmt.Sprintf("N%d", id)
}

// getNodeLabel joins the displayed lines with \n
func (e *GraphvizExporter) getNodeLabel(node *diagram.Node) string {
	lines := labelLines(node)
	for i, l := range lines {
		lines[i] = e.escapeLabel(l)
	}
	return strings.Join(lines, "\\n")
}

// escapeLabel escapes quotes and backslashes
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

// getNodeAttributes maps the node type and weight to DOT attributes
func (e *GraphvizExporter) getNodeAttributes(node *diagram.Node) string {
	var attrs []string
	switch node.Type {
	case diagram.NodeTextOnly:
		attrs = append(attrs, "shape=plaintext")
	case diagram.NodeGrey:
		attrs = append(attrs, `style="filled"`, `fillcolor="#e0e0e0"`, `color="#999999"`)
	case diagram.NodeRed:
		attrs = append(attrs, `style="filled"`, `fillcolor="#ffe5e5"`, `color="#dd3333"`, `fontcolor="#aa0000"`)
	case diagram.NodeDotted:
		attrs = append(attrs, `style="dashed"`, `color="#666666"`)
	}
	if node.Bold {
		attrs = append(attrs, `fontname="Helvetica-Bold"`)
	}
	return strings.Join(attrs, ", ")
}

// getEdgeAttributes maps line and dash styles to DOT attributes
func (e *GraphvizExporter) getEdgeAttributes(c *diagram.Connection) string {
	var attrs []string
	switch c.LineType {
	case diagram.LineNoArrow:
		attrs = append(attrs, "dir=none")
	case diagram.LineReverseArrow:
		attrs = append(attrs, "dir=back")
	case diagram.LineBothArrow:
		attrs = append(attrs, "dir=both")
	}
	if c.DashType == diagram.DashDashed {
		attrs = append(attrs, "style=dashed")
	}
	return strings.Join(attrs, ", ")
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz DOT"
}
