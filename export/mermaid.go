package export

import (
	"fmt"
	"strings"

	"notemap/diagram"
	"notemap/document"
)

// MermaidExporter exports documents to Mermaid flowchart syntax
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the document to Mermaid syntax
func (e *MermaidExporter) Export(d *document.Document) ([]byte, error) {
	nodes := d.Nodes()
	if len(nodes) == 0 {
		return nil, errEmpty
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	used := make(map[diagram.NodeType][]string)
	for _, node := range nodes {
		nodeID := e.getNodeID(node.ID)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeID, e.getNodeLabel(node)))
		if node.Type != diagram.NodeStandard {
			used[node.Type] = append(used[node.Type], nodeID)
		}
	}

	edges := nodeEdges(d, nodes)
	if len(edges) > 0 {
		sb.WriteString("\n")
	}
	for _, ed := range edges {
		from, to := e.getNodeID(ed.from.ID), e.getNodeID(ed.to.ID)
		link := e.getLink(ed.conn)
		if ed.conn.LineType == diagram.LineReverseArrow {
			// Mermaid has no left-pointing link; flip the pair instead.
			from, to = to, from
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, link, to))
	}

	if len(used) > 0 {
		sb.WriteString("\n")
		for _, t := range []diagram.NodeType{diagram.NodeTextOnly, diagram.NodeGrey, diagram.NodeRed, diagram.NodeDotted} {
			ids, ok := used[t]
			if !ok {
				continue
			}
			className := e.getClassName(t)
			sb.WriteString(e.getClassDefinition(t))
			sb.WriteString("\n")
			sb.WriteString(fmt.Sprintf("    class %s %s\n", strings.Join(ids, ","), className))
		}
	}

	return []byte(sb.String()), nil
}

func (e *MermaidExporter) getNodeID(id int) string {
	return fmt.Sprintf("N%d", id)
}

// getNodeLabel builds a quoted label; lines join with <br/>
func (e *MermaidExporter) getNodeLabel(node *diagram.Node) string {
	lines := labelLines(node)
	for i, l := range lines {
		lines[i] = e.escapeLabel(l)
	}
	label := strings.Join(lines, "<br/>")
	if label == "" {
		label = " "
	}
	if node.Bold {
		label = "<b>" + label + "</b>"
	}
	return label
}

// escapeLabel escapes characters that end a quoted label
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, "<", "#lt;")
	label = strings.ReplaceAll(label, ">", "#gt;")
	return label
}

func (e *MermaidExporter) getLink(c *diagram.Connection) string {
	dashed := c.DashType == diagram.DashDashed
	switch c.LineType {
	case diagram.LineNoArrow:
		if dashed {
			return "-.-"
		}
		return "---"
	case diagram.LineBothArrow:
		if dashed {
			return "<-.->"
		}
		return "<-->"
	default:
		if dashed {
			return "-.->"
		}
		return "-->"
	}
}

func (e *MermaidExporter) getClassName(t diagram.NodeType) string {
	switch t {
	case diagram.NodeTextOnly:
		return "textOnly"
	case diagram.NodeGrey:
		return "grey"
	case diagram.NodeRed:
		return "red"
	case diagram.NodeDotted:
		return "dotted"
	default:
		return "standard"
	}
}

// getClassDefinition returns the style for a node type
func (e *MermaidExporter) getClassDefinition(t diagram.NodeType) string {
	switch t {
	case diagram.NodeTextOnly:
		return "    classDef textOnly fill:none,stroke:none"
	case diagram.NodeGrey:
		return "    classDef grey fill:#e0e0e0,stroke:#999999"
	case diagram.NodeRed:
		return "    classDef red fill:#ffe5e5,stroke:#dd3333,color:#aa0000"
	case diagram.NodeDotted:
		return "    classDef dotted fill:none,stroke:#666666,stroke-dasharray:4 3"
	default:
		return ""
	}
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
