package export

import (
	"errors"
	"strings"

	"notemap/document"
	"notemap/hierarchy"
)

var errEmpty = errors.New("document has no nodes")

// MarkdownExporter writes the hierarchy as an outline: the root as the
// page heading, its children as second-level headings and everything below
// as nested bullets.
type MarkdownExporter struct{}

// NewMarkdownExporter creates a new Markdown exporter
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export converts the document to a Markdown outline
func (e *MarkdownExporter) Export(d *document.Document) ([]byte, error) {
	md, err := Markdown(d)
	if err != nil {
		return nil, err
	}
	return []byte(md), nil
}

// Markdown returns the outline text, as copied to the clipboard.
func Markdown(d *document.Document) (string, error) {
	root := hierarchy.BuildOutline(d.Nodes(), d.Connections())
	if root == nil {
		return "", errEmpty
	}
	lines := []string{"# " + emphasize(root), ""}
	for _, c := range root.Children {
		lines = outlineLines(c, 0, lines)
	}
	return strings.Join(lines, "\n"), nil
}

func outlineLines(o *hierarchy.Outline, depth int, lines []string) []string {
	if depth == 0 {
		lines = append(lines, "## "+emphasize(o))
	} else {
		lines = append(lines, strings.Repeat("  ", depth-1)+"- "+emphasize(o))
	}
	for _, c := range o.Children {
		lines = outlineLines(c, depth+1, lines)
	}
	if depth == 0 {
		lines = append(lines, "")
	}
	return lines
}

func emphasize(o *hierarchy.Outline) string {
	if o.Node.Bold {
		return "**" + o.Node.Text + "**"
	}
	return o.Node.Text
}

// GetFileExtension returns the file extension for Markdown
func (e *MarkdownExporter) GetFileExtension() string {
	return ".md"
}

// GetFormatName returns the format name
func (e *MarkdownExporter) GetFormatName() string {
	return "Markdown"
}
