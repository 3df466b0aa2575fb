// Package export renders a mind map into files for other tools
package export

import (
	"errors"
	"fmt"
	"strings"

	"notemap/document"
)

// ErrUnsupportedFormat is returned for unknown format names.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format represents an export format
type Format string

const (
	// FormatJSON exports the versioned document envelope
	FormatJSON Format = "json"
	// FormatMarkdown exports the hierarchy as a heading and bullet outline
	FormatMarkdown Format = "markdown"
	// FormatHTML exports the Markdown outline rendered as an HTML page
	FormatHTML Format = "html"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatDOT exports to Graphviz DOT syntax
	FormatDOT Format = "dot"
	// FormatSVG draws the map as a vector image
	FormatSVG Format = "svg"
	// FormatPNG draws the map as a raster image
	FormatPNG Format = "png"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a document to the target format
	Export(d *document.Document) ([]byte, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMarkdown:
		return NewMarkdownExporter(), nil
	case FormatHTML:
		return NewHTMLExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatPNG:
		return NewPNGExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatJSON,
		FormatMarkdown,
		FormatHTML,
		FormatMermaid,
		FormatDOT,
		FormatSVG,
		FormatPNG,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:     "Versioned JSON document (re-importable)",
		FormatMarkdown: "Markdown outline of the hierarchy",
		FormatHTML:     "HTML page of the Markdown outline",
		FormatMermaid:  "Mermaid flowchart syntax (for Markdown)",
		FormatDOT:      "Graphviz DOT syntax",
		FormatSVG:      "SVG image",
		FormatPNG:      "PNG image",
	}
}
