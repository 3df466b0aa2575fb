package diagram

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"notemap/geometry"
)

// TextMeasurer estimates box sizes from terminal cell widths: every cell is
// CharWidth pixels wide and every line LineHeight pixels tall. East Asian
// wide characters take two cells.
type TextMeasurer struct {
	CharWidth  float64
	LineHeight float64
	PaddingX   float64
	PaddingY   float64
	MinWidth   float64
	BoldScale  float64
}

// DefaultMeasurer returns the metrics used by the editor and the exporters.
func DefaultMeasurer() *TextMeasurer {
	return &TextMeasurer{
		CharWidth:  8,
		LineHeight: 20,
		PaddingX:   12,
		PaddingY:   8,
		MinWidth:   40,
		BoldScale:  1.1,
	}
}

// Measure implements Measurer.
func (m *TextMeasurer) Measure(text string, bold bool) geometry.Size {
	cells, lines := TextCells(text)
	w := float64(cells) * m.CharWidth
	if bold && m.BoldScale > 0 {
		w *= m.BoldScale
	}
	w += 2 * m.PaddingX
	if w < m.MinWidth {
		w = m.MinWidth
	}
	h := float64(lines)*m.LineHeight + 2*m.PaddingY
	return geometry.Size{Width: w, Height: h}
}

// TextCells returns the widest line in terminal cells and the line count.
// Runs of newlines collapse the same way the rendered text does.
func TextCells(text string) (width, lines int) {
	for _, line := range SplitLines(text) {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
		lines++
	}
	return width, lines
}

// SplitLines splits text on newlines, collapsing consecutive ones.
// It always returns at least one line.
func SplitLines(text string) []string {
	parts := strings.Split(text, "\n")
	out := parts[:0]
	for i, p := range parts {
		if p == "" && i > 0 && i < len(parts)-1 {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}
