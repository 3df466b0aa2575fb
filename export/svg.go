package export

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"notemap/document"
	"notemap/geometry"
)

// SVGExporter draws the document as a vector image.
type SVGExporter struct{}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{}
}

// Export draws connections first so boxes sit on top of line ends
func (e *SVGExporter) Export(d *document.Document) ([]byte, error) {
	s, err := buildScene(d)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(s.width), int(s.height))
	if title := d.Title(); title != "" {
		canvas.Title(title)
	}
	canvas.Rect(0, 0, int(s.width), int(s.height), "fill:#ffffff")

	for _, l := range s.lines {
		e.drawLine(canvas, l)
	}
	for _, b := range s.boxes {
		e.drawBox(canvas, b)
	}

	canvas.End()
	return buf.Bytes(), nil
}

func (e *SVGExporter) drawLine(canvas *svg.SVG, l sceneLine) {
	style := "stroke:#555555;stroke-width:1.5"
	if l.dashed {
		style += ";stroke-dasharray:6,4"
	}
	canvas.Line(px(l.from.X), px(l.from.Y), px(l.to.X), px(l.to.Y), style)
	if l.endArrow {
		e.drawArrow(canvas, l.from, l.to)
	}
	if l.startArrow {
		e.drawArrow(canvas, l.to, l.from)
	}
}

func (e *SVGExporter) drawArrow(canvas *svg.SVG, from, tip geometry.Point) {
	head, ok := arrowHead(from, tip)
	if !ok {
		return
	}
	xs := make([]int, len(head))
	ys := make([]int, len(head))
	for i, p := range head {
		xs[i], ys[i] = px(p.X), px(p.Y)
	}
	canvas.Polygon(xs, ys, "fill:#555555")
}

func (e *SVGExporter) drawBox(canvas *svg.SVG, b sceneBox) {
	if b.style.boxed {
		style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", b.style.fill, b.style.stroke)
		if b.style.dashed {
			style += ";stroke-dasharray:4,3"
		}
		canvas.Roundrect(px(b.rect.Left), px(b.rect.Top), px(b.rect.Width()), px(b.rect.Height()), 6, 6, style)
	}

	weight := "normal"
	if b.bold {
		weight = "bold"
	}
	textStyle := fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-family:sans-serif;font-size:%gpx;font-weight:%s;fill:%s",
		fontSize, weight, b.style.text)
	for i, p := range b.textOrigins() {
		canvas.Text(px(p.X), px(p.Y), b.lines[i], textStyle)
	}
}

func px(v float64) int {
	return int(math.Round(v))
}

// GetFileExtension returns the file extension for SVG
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}
