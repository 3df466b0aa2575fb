package importer

import (
	"fmt"
	"regexp"
	"strings"

	"notemap/diagram"
	"notemap/snapshot"
)

var (
	// ID["label"], ID[label], ID(label), ID((label)), ID{label}
	mermaidNode = regexp.MustCompile(`([A-Za-z0-9_]+)\s*(\["[^"]*"\]|\[[^\]]*\]|\(\([^)]*\)\)|\("[^"]*"\)|\([^)]*\)|\{"[^"]*"\}|\{[^}]*\})`)
	// Link operators, longest first, with an optional |label|.
	mermaidLink  = regexp.MustCompile(`\s*(<-\.->|<-->|-\.->|-\.-|==>|-->|---)\s*(?:\|[^|]*\|\s*)?`)
	mermaidID    = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	mermaidClass = regexp.MustCompile(`^class\s+([A-Za-z0-9_,\s]+?)\s+([A-Za-z0-9_]+)$`)
	mermaidBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
)

// MermaidImporter imports Mermaid flowcharts
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport checks if the content is a Mermaid flowchart
func (m *MermaidImporter) CanImport(content string) bool {
	content = strings.TrimSpace(content)
	return strings.HasPrefix(content, "graph ") ||
		strings.HasPrefix(content, "graph\n") ||
		strings.HasPrefix(content, "flowchart ") ||
		strings.HasPrefix(content, "flowchart\n")
}

// Import converts a Mermaid flowchart to a snapshot. Class assignments to
// the textOnly, grey, red and dotted classes set the node type, and a label
// wrapped in <b> makes the node bold.
func (m *MermaidImporter) Import(content string) (*snapshot.Snapshot, error) {
	if !m.CanImport(content) {
		return nil, fmt.Errorf("unsupported Mermaid diagram type")
	}
	b := newBuilder()
	lines := strings.Split(strings.TrimSpace(content), "\n")
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case line == "", line == "end", strings.HasPrefix(line, "%%"),
			strings.HasPrefix(line, "classDef "), strings.HasPrefix(line, "style "),
			strings.HasPrefix(line, "subgraph "), strings.HasPrefix(line, "direction "):
			continue
		}
		if match := mermaidClass.FindStringSubmatch(line); match != nil {
			t, ok := mermaidClassType(match[2])
			if !ok {
				continue
			}
			for _, id := range strings.Split(match[1], ",") {
				if i, ok := b.index[strings.TrimSpace(id)]; ok {
					b.nodes[i].NodeType = t
				}
			}
			continue
		}

		// Declare shaped nodes, then reduce them to their ids so only links
		// remain.
		for _, match := range mermaidNode.FindAllStringSubmatch(line, -1) {
			text, bold := mermaidLabel(match[2])
			i := b.ensure(match[1])
			b.nodes[i].Text = text
			b.nodes[i].BoldText = bold
		}
		line = mermaidNode.ReplaceAllString(line, "$1")

		ops := mermaidLink.FindAllStringSubmatchIndex(line, -1)
		if len(ops) == 0 {
			if mermaidID.MatchString(line) {
				b.ensure(line)
			}
			continue
		}
		prev := strings.TrimSpace(line[:ops[0][0]])
		for k, op := range ops {
			end := len(line)
			if k+1 < len(ops) {
				end = ops[k+1][0]
			}
			next := strings.TrimSpace(line[op[1]:end])
			if !mermaidID.MatchString(prev) || !mermaidID.MatchString(next) {
				break
			}
			lt, dt := mermaidLinkStyle(line[op[2]:op[3]])
			b.connect(prev, next, lt, dt)
			prev = next
		}
	}
	return b.build()
}

// mermaidLabel strips the shape brackets and decodes escapes, line breaks
// and a surrounding <b>.
func mermaidLabel(shape string) (string, bool) {
	text := strings.TrimSpace(strings.Trim(shape, "[](){}"))
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		text = text[1 : len(text)-1]
	}
	bold := false
	if strings.HasPrefix(text, "<b>") && strings.HasSuffix(text, "</b>") {
		bold = true
		text = strings.TrimSuffix(strings.TrimPrefix(text, "<b>"), "</b>")
	}
	text = mermaidBreak.ReplaceAllString(text, "\n")
	text = strings.NewReplacer("#quot;", `"`, "#lt;", "<", "#gt;", ">", "#amp;", "&").Replace(text)
	if strings.TrimSpace(text) == "" {
		text = ""
	}
	return text, bold
}

func mermaidLinkStyle(op string) (diagram.LineType, diagram.DashType) {
	dash := diagram.DashSolid
	if strings.Contains(op, ".") {
		dash = diagram.DashDashed
	}
	switch op {
	case "---", "-.-":
		return diagram.LineNoArrow, dash
	case "<-->", "<-.->":
		return diagram.LineBothArrow, dash
	default:
		return diagram.LineStandard, dash
	}
}

func mermaidClassType(class string) (diagram.NodeType, bool) {
	switch class {
	case "textOnly":
		return diagram.NodeTextOnly, true
	case "grey", "gray":
		return diagram.NodeGrey, true
	case "red":
		return diagram.NodeRed, true
	case "dotted":
		return diagram.NodeDotted, true
	case "standard":
		return diagram.NodeStandard, true
	}
	return diagram.NodeStandard, false
}

// GetFormatName returns the format name
func (m *MermaidImporter) GetFormatName() string {
	return "Mermaid"
}

// GetFileExtensions returns common file extensions
func (m *MermaidImporter) GetFileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}
