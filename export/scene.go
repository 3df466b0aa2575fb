package export

import (
	"math"

	"notemap/diagram"
	"notemap/document"
	"notemap/geometry"
)

// Drawing constants shared by the image exporters.
const (
	scenePadding = 20.0
	fontSize     = 14.0
	lineHeight   = 20.0
	arrowSize    = 10.0
	arrowSpread  = 0.45
)

// scene is the document translated so its bounding box starts at the
// padding, ready to be drawn.
type scene struct {
	width, height float64
	boxes         []sceneBox
	lines         []sceneLine
}

type sceneBox struct {
	rect  geometry.Rect
	style nodeStyle
	bold  bool
	lines []string
}

type sceneLine struct {
	from, to   geometry.Point
	startArrow bool
	endArrow   bool
	dashed     bool
}

type nodeStyle struct {
	fill   string
	stroke string
	text   string
	dashed bool
	boxed  bool
}

func styleOf(t diagram.NodeType) nodeStyle {
	switch t {
	case diagram.NodeTextOnly:
		return nodeStyle{text: "#222222"}
	case diagram.NodeGrey:
		return nodeStyle{fill: "#e0e0e0", stroke: "#999999", text: "#333333", boxed: true}
	case diagram.NodeRed:
		return nodeStyle{fill: "#ffe5e5", stroke: "#dd3333", text: "#aa0000", boxed: true}
	case diagram.NodeDotted:
		return nodeStyle{fill: "none", stroke: "#666666", text: "#222222", dashed: true, boxed: true}
	default:
		return nodeStyle{fill: "#ffffff", stroke: "#333333", text: "#222222", boxed: true}
	}
}

func buildScene(d *document.Document) (*scene, error) {
	bounds, ok := d.Bounds()
	if !ok {
		return nil, errEmpty
	}
	offset := geometry.Pt(scenePadding-bounds.Left, scenePadding-bounds.Top)
	s := &scene{
		width:  math.Ceil(bounds.Width() + 2*scenePadding),
		height: math.Ceil(bounds.Height() + 2*scenePadding),
	}

	for _, c := range d.Connections() {
		from, to, ok := c.Line()
		if !ok {
			continue
		}
		s.lines = append(s.lines, sceneLine{
			from:       from.Add(offset),
			to:         to.Add(offset),
			startArrow: c.LineType.HasStartArrow(),
			endArrow:   c.LineType.HasEndArrow(),
			dashed:     c.DashType == diagram.DashDashed,
		})
	}
	for _, n := range d.Nodes() {
		r := n.Rect()
		s.boxes = append(s.boxes, sceneBox{
			rect: geometry.Rect{
				Left:   r.Left + offset.X,
				Top:    r.Top + offset.Y,
				Right:  r.Right + offset.X,
				Bottom: r.Bottom + offset.Y,
			},
			style: styleOf(n.Type),
			bold:  n.Bold,
			lines: labelLines(n),
		})
	}
	return s, nil
}

// textOrigins returns the center point of each text line of b.
func (b sceneBox) textOrigins() []geometry.Point {
	c := b.rect.Center()
	top := c.Y - float64(len(b.lines))*lineHeight/2 + lineHeight/2
	out := make([]geometry.Point, len(b.lines))
	for i := range b.lines {
		out[i] = geometry.Pt(c.X, top+float64(i)*lineHeight)
	}
	return out
}

// arrowHead returns the triangle of an arrow pointing from from to tip.
func arrowHead(from, tip geometry.Point) ([3]geometry.Point, bool) {
	dx, dy := tip.X-from.X, tip.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return [3]geometry.Point{}, false
	}
	dx /= length
	dy /= length
	return [3]geometry.Point{
		tip,
		geometry.Pt(tip.X-arrowSize*dx+arrowSize*dy*arrowSpread, tip.Y-arrowSize*dy-arrowSize*dx*arrowSpread),
		geometry.Pt(tip.X-arrowSize*dx-arrowSize*dy*arrowSpread, tip.Y-arrowSize*dy+arrowSize*dx*arrowSpread),
	}, true
}
