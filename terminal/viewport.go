package terminal

import (
	"math"

	"notemap/document"
	"notemap/geometry"
)

// One terminal cell covers this many screen pixels.
const (
	CellWidth  = 8.0
	CellHeight = 12.0
)

// viewport maps document coordinates to terminal cells through the
// document's pan and zoom: screen = doc*zoom + pan.
type viewport struct {
	pan  geometry.Point
	zoom float64
}

func viewOf(d *document.Document) viewport {
	z := d.Zoom()
	if z <= 0 {
		z = 1
	}
	return viewport{pan: d.Pan(), zoom: z}
}

// toCell returns the cell containing document point p.
func (v viewport) toCell(p geometry.Point) (x, y int) {
	sx := p.X*v.zoom + v.pan.X
	sy := p.Y*v.zoom + v.pan.Y
	return int(math.Floor(sx / CellWidth)), int(math.Floor(sy / CellHeight))
}

// toDoc returns the document point at the centre of cell (x, y).
func (v viewport) toDoc(x, y int) geometry.Point {
	s := screenPoint(x, y)
	return geometry.Pt((s.X-v.pan.X)/v.zoom, (s.Y-v.pan.Y)/v.zoom)
}

// screenPoint returns the screen pixel at the centre of cell (x, y).
func screenPoint(x, y int) geometry.Point {
	return geometry.Pt((float64(x)+0.5)*CellWidth, (float64(y)+0.5)*CellHeight)
}

// cellRect returns the inclusive cell bounds of a document rectangle. The
// result is always at least three cells each way so a box has room for a
// border and one row of text.
func (v viewport) cellRect(r geometry.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = v.toCell(geometry.Pt(r.Left, r.Top))
	x1 = int(math.Ceil((r.Right*v.zoom+v.pan.X)/CellWidth)) - 1
	y1 = int(math.Ceil((r.Bottom*v.zoom+v.pan.Y)/CellHeight)) - 1
	if x1 < x0+2 {
		x1 = x0 + 2
	}
	if y1 < y0+2 {
		y1 = y0 + 2
	}
	return x0, y0, x1, y1
}

// panBy shifts the view by whole cells.
func panBy(d *document.Document, dx, dy int) {
	p := d.Pan()
	d.SetPan(geometry.Pt(p.X+float64(dx)*CellWidth, p.Y+float64(dy)*CellHeight))
}
