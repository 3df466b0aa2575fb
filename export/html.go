package export

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/util"

	"notemap/document"
)

// HTMLExporter renders the Markdown outline to a standalone HTML page.
type HTMLExporter struct {
	md goldmark.Markdown
}

// NewHTMLExporter creates a new HTML exporter
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{
		md: goldmark.New(goldmark.WithExtensions(extension.Linkify)),
	}
}

// Export converts the document to HTML
func (e *HTMLExporter) Export(d *document.Document) ([]byte, error) {
	src, err := Markdown(d)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if err := e.md.Convert([]byte(src), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	out.Write(util.EscapeHTML([]byte(d.Title())))
	out.WriteString("</title>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// GetFileExtension returns the file extension for HTML
func (e *HTMLExporter) GetFileExtension() string {
	return ".html"
}

// GetFormatName returns the format name
func (e *HTMLExporter) GetFormatName() string {
	return "HTML"
}
