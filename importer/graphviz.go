package importer

import (
	"fmt"
	"regexp"
	"strings"

	"notemap/diagram"
	"notemap/snapshot"
)

var (
	dotHeader = regexp.MustCompile(`^(?:strict\s+)?(di)?graph\b`)
	dotAttr   = regexp.MustCompile(`(\w+)\s*=\s*("((?:[^"\\]|\\.)*)"|[^,;\s\]]+)`)
	dotEdgeOp = regexp.MustCompile(`\s*(->|--)\s*`)
)

// GraphvizImporter imports Graphviz DOT graphs
type GraphvizImporter struct{}

// NewGraphvizImporter creates a new Graphviz importer
func NewGraphvizImporter() *GraphvizImporter {
	return &GraphvizImporter{}
}

// CanImport checks if the content is a Graphviz DOT graph
func (g *GraphvizImporter) CanImport(content string) bool {
	return dotHeader.MatchString(strings.TrimSpace(content)) && strings.Contains(content, "{")
}

// Import converts a DOT graph to a snapshot. The graph label becomes the
// title. Node shape, style and colors map onto node types; dir and style
// map onto line and dash types.
func (g *GraphvizImporter) Import(content string) (*snapshot.Snapshot, error) {
	content = strings.TrimSpace(content)
	header := dotHeader.FindStringSubmatch(content)
	if header == nil {
		return nil, fmt.Errorf("missing graph or digraph header")
	}
	directed := header[1] != ""
	open, end := strings.Index(content, "{"), strings.LastIndex(content, "}")
	if open < 0 || end < open {
		return nil, fmt.Errorf("unbalanced braces")
	}

	b := newBuilder()
	for _, stmt := range splitStatements(content[open+1 : end]) {
		head, attrs := stmt, map[string]string{}
		if i := indexOutsideQuotes(stmt, '['); i >= 0 {
			head = strings.TrimSpace(stmt[:i])
			attrs = g.parseAttributes(stmt[i:])
		}
		switch {
		case head == "{" || head == "}" || strings.HasPrefix(head, "subgraph"):
			continue
		case head == "node" || head == "edge" || head == "graph":
			continue
		case strings.Contains(head, "=") && !strings.HasPrefix(head, `"`):
			if m := dotAttr.FindStringSubmatch(head); m != nil && m[1] == "label" {
				b.title = dotValue(m)
			}
			continue
		}

		ids := splitOutsideQuotes(head, dotEdgeOp)
		if len(ids) == 1 {
			i := b.ensure(unquoteID(ids[0]))
			g.applyNodeAttributes(&b.nodes[i], attrs)
			continue
		}
		lt, dt := g.edgeStyle(attrs, directed)
		for k := 0; k+1 < len(ids); k++ {
			b.connect(unquoteID(ids[k]), unquoteID(ids[k+1]), lt, dt)
		}
	}
	return b.build()
}

// applyNodeAttributes reads the label and maps the look onto a node type.
func (g *GraphvizImporter) applyNodeAttributes(n *snapshot.NodeState, attrs map[string]string) {
	if label, ok := attrs["label"]; ok {
		n.Text = label
	}
	style := strings.ToLower(attrs["style"])
	color := strings.ToLower(attrs["color"] + " " + attrs["fillcolor"] + " " + attrs["fontcolor"])
	switch {
	case attrs["shape"] == "plaintext" || attrs["shape"] == "plain" || attrs["shape"] == "none":
		n.NodeType = diagram.NodeTextOnly
	case strings.Contains(color, "#dd3333") || strings.Contains(color, "red"):
		n.NodeType = diagram.NodeRed
	case strings.Contains(style, "dashed") || strings.Contains(style, "dotted"):
		n.NodeType = diagram.NodeDotted
	case strings.Contains(style, "filled"):
		n.NodeType = diagram.NodeGrey
	}
	if strings.Contains(attrs["fontname"], "Bold") || strings.Contains(style, "bold") {
		n.BoldText = true
	}
}

func (g *GraphvizImporter) edgeStyle(attrs map[string]string, directed bool) (diagram.LineType, diagram.DashType) {
	line := diagram.LineNoArrow
	if directed {
		line = diagram.LineStandard
	}
	switch attrs["dir"] {
	case "none":
		line = diagram.LineNoArrow
	case "back":
		line = diagram.LineReverseArrow
	case "both":
		line = diagram.LineBothArrow
	case "forward":
		line = diagram.LineStandard
	}
	dash := diagram.DashSolid
	if s := attrs["style"]; strings.Contains(s, "dashed") || strings.Contains(s, "dotted") {
		dash = diagram.DashDashed
	}
	return line, dash
}

// parseAttributes parses DOT attribute string into a map
func (g *GraphvizImporter) parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)
	for _, match := range dotAttr.FindAllStringSubmatch(attrStr, -1) {
		attrs[match[1]] = dotValue(match)
	}
	return attrs
}

// dotValue returns the unescaped value of a dotAttr match.
func dotValue(match []string) string {
	if strings.HasPrefix(match[2], `"`) {
		return unescapeDOT(match[3])
	}
	return match[2]
}

// unescapeDOT decodes backslash escapes; \n, \l and \r all end a line.
func unescapeDOT(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'l', 'r':
			sb.WriteByte('\n')
		default:
			sb.WriteByte(s[i])
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func unquoteID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= 2 && id[0] == '"' && id[len(id)-1] == '"' {
		return unescapeDOT(id[1 : len(id)-1])
	}
	return id
}

// splitStatements splits on semicolons and newlines outside quotes and
// attribute lists.
func splitStatements(body string) []string {
	var (
		out     []string
		start   int
		quoted  bool
		bracket int
	)
	flush := func(end int) {
		if s := strings.TrimSpace(body[start:end]); s != "" && !strings.HasPrefix(s, "//") && !strings.HasPrefix(s, "#") {
			out = append(out, s)
		}
		start = end + 1
	}
	for i := 0; i < len(body); i++ {
		switch c := body[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[':
			bracket++
		case c == ']':
			bracket--
		case bracket == 0 && (c == ';' || c == '\n'):
			flush(i)
		}
	}
	flush(len(body))
	return out
}

func indexOutsideQuotes(s string, target byte) int {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case quoted && c == '\\':
			i++
		case c == '"':
			quoted = !quoted
		case !quoted && c == target:
			return i
		}
	}
	return -1
}

// splitOutsideQuotes splits s at every match of sep that is not inside a
// quoted id.
func splitOutsideQuotes(s string, sep *regexp.Regexp) []string {
	var (
		out   []string
		start int
	)
	for _, loc := range sep.FindAllStringIndex(s, -1) {
		before := s[:loc[0]]
		if (strings.Count(before, `"`)-strings.Count(before, `\"`))%2 == 0 {
			out = append(out, s[start:loc[0]])
			start = loc[1]
		}
	}
	return append(out, s[start:])
}

// GetFormatName returns the format name
func (g *GraphvizImporter) GetFormatName() string {
	return "Graphviz"
}

// GetFileExtensions returns common file extensions
func (g *GraphvizImporter) GetFileExtensions() []string {
	return []string{".dot", ".gv"}
}
