package export

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"notemap/document"
	"notemap/geometry"
)

// PNGExporter draws the document as a raster image.
type PNGExporter struct {
	// Scale multiplies every coordinate; 2 gives a sharper image.
	Scale float64
}

// NewPNGExporter creates a new PNG exporter
func NewPNGExporter() *PNGExporter {
	return &PNGExporter{Scale: 1}
}

// Export draws connections first so boxes sit on top of line ends
func (e *PNGExporter) Export(d *document.Document) ([]byte, error) {
	s, err := buildScene(d)
	if err != nil {
		return nil, err
	}
	scale := e.Scale
	if scale <= 0 {
		scale = 1
	}

	dc := gg.NewContext(int(s.width*scale), int(s.height*scale))
	dc.Scale(scale, scale)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, l := range s.lines {
		e.drawLine(dc, l)
	}
	for _, b := range s.boxes {
		e.drawBox(dc, b)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PNGExporter) drawLine(dc *gg.Context, l sceneLine) {
	dc.SetHexColor("#555555")
	dc.SetLineWidth(1.5)
	if l.dashed {
		dc.SetDash(6, 4)
	}
	dc.DrawLine(l.from.X, l.from.Y, l.to.X, l.to.Y)
	dc.Stroke()
	dc.SetDash()

	if l.endArrow {
		e.drawArrow(dc, l.from, l.to)
	}
	if l.startArrow {
		e.drawArrow(dc, l.to, l.from)
	}
}

func (e *PNGExporter) drawArrow(dc *gg.Context, from, tip geometry.Point) {
	head, ok := arrowHead(from, tip)
	if !ok {
		return
	}
	dc.MoveTo(head[0].X, head[0].Y)
	dc.LineTo(head[1].X, head[1].Y)
	dc.LineTo(head[2].X, head[2].Y)
	dc.ClosePath()
	dc.Fill()
}

func (e *PNGExporter) drawBox(dc *gg.Context, b sceneBox) {
	if b.style.boxed {
		dc.DrawRoundedRectangle(b.rect.Left, b.rect.Top, b.rect.Width(), b.rect.Height(), 6)
		if b.style.fill != "none" {
			dc.SetHexColor(b.style.fill)
			dc.FillPreserve()
		}
		dc.SetHexColor(b.style.stroke)
		dc.SetLineWidth(1)
		if b.style.dashed {
			dc.SetDash(4, 3)
		}
		dc.Stroke()
		dc.SetDash()
	}

	dc.SetHexColor(b.style.text)
	for i, p := range b.textOrigins() {
		dc.DrawStringAnchored(b.lines[i], p.X, p.Y, 0.5, 0.35)
		if b.bold {
			// No bold face is bundled; overstrike instead.
			dc.DrawStringAnchored(b.lines[i], p.X+0.6, p.Y, 0.5, 0.35)
		}
	}
}

// GetFileExtension returns the file extension for PNG
func (e *PNGExporter) GetFileExtension() string {
	return ".png"
}

// GetFormatName returns the format name
func (e *PNGExporter) GetFormatName() string {
	return "PNG"
}
