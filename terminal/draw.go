package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"notemap/diagram"
	"notemap/geometry"
	"notemap/richtext"
	"notemap/session"
)

var (
	styleBase     = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleNavigate = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	stylePreview  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleStatus   = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// boxChars is a box border: corners then horizontal and vertical runs.
type boxChars struct {
	tl, tr, bl, br rune
	h, v           rune
}

var (
	solidBox  = boxChars{'┌', '┐', '└', '┘', '─', '│'}
	dashedBox = boxChars{'┌', '┐', '└', '┘', '┄', '┆'}
	boldBox   = boxChars{'┏', '┓', '┗', '┛', '━', '┃'}
)

// nodeLook is how a node variant is drawn.
type nodeLook struct {
	border tcell.Style
	text   tcell.Style
	fill   tcell.Style
	chars  boxChars
	boxed  bool
}

func lookOf(t diagram.NodeType) nodeLook {
	switch t {
	case diagram.NodeTextOnly:
		return nodeLook{text: styleBase, fill: styleBase}
	case diagram.NodeGrey:
		grey := styleBase.Background(tcell.ColorDimGray).Foreground(tcell.ColorWhite)
		return nodeLook{border: grey, text: grey, fill: grey, chars: solidBox, boxed: true}
	case diagram.NodeRed:
		red := styleBase.Foreground(tcell.ColorRed)
		return nodeLook{border: red, text: red, fill: styleBase, chars: solidBox, boxed: true}
	case diagram.NodeDotted:
		dim := styleBase.Foreground(tcell.ColorGray)
		return nodeLook{border: dim, text: styleBase, fill: styleBase, chars: dashedBox, boxed: true}
	default:
		return nodeLook{border: styleBase, text: styleBase, fill: styleBase, chars: solidBox, boxed: true}
	}
}

// Draw repaints the whole screen from the session.
func (u *UI) Draw() {
	u.screen.Clear()
	u.screen.HideCursor()
	w, h := u.screen.Size()
	u.view = viewOf(u.doc)

	var marks []mark
	for _, c := range u.doc.Connections() {
		marks = append(marks, u.drawConnection(c)...)
	}
	for _, n := range u.doc.Nodes() {
		u.drawNode(n)
	}
	for _, m := range marks {
		u.put(m.x, m.y, m.r, m.st)
	}
	u.drawGesture()
	if u.help {
		u.drawHelp(w, h)
	}
	u.drawStatus(w, h)
}

func (u *UI) put(x, y int, r rune, st tcell.Style) {
	w, h := u.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h-1 {
		return
	}
	u.screen.SetContent(x, y, r, nil, st)
}

// text writes s from (x, y) and returns the column after it.
func (u *UI) text(x, y int, s string, st tcell.Style) int {
	for _, r := range s {
		u.put(x, y, r, st)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// mark is a glyph drawn on top of the node boxes.
type mark struct {
	x, y int
	r    rune
	st   tcell.Style
}

// drawConnection draws the line of c and returns its arrowheads and
// handles, which go on top of the boxes once those are drawn.
func (u *UI) drawConnection(c *diagram.Connection) []mark {
	from, to, ok := c.Line()
	if !ok {
		return nil
	}
	st := styleBase
	selected := u.doc.IsConnectionSelected(c)
	if selected {
		st = styleSelected
	}
	x0, y0 := u.view.toCell(from)
	x1, y1 := u.view.toCell(to)
	cells := cellsOn(x0, y0, x1, y1)
	glyph := lineGlyph(x1-x0, y1-y0, c.DashType == diagram.DashDashed)
	for _, p := range cells {
		u.put(p[0], p[1], glyph, st)
	}

	var marks []mark
	if p, ok := u.outside(cells, true); ok {
		switch {
		case c.LineType.HasEndArrow():
			marks = append(marks, mark{p[0], p[1], arrowGlyph(x1-x0, y1-y0), st})
		case selected:
			marks = append(marks, mark{p[0], p[1], '●', st})
		}
	}
	if p, ok := u.outside(cells, false); ok {
		switch {
		case c.LineType.HasStartArrow():
			marks = append(marks, mark{p[0], p[1], arrowGlyph(x0-x1, y0-y1), st})
		case selected:
			marks = append(marks, mark{p[0], p[1], '●', st})
		}
	}
	return marks
}

// outside returns the cell nearest to one end of a line that no node box
// covers, searching from the last cell when fromEnd is set.
func (u *UI) outside(cells [][2]int, fromEnd bool) ([2]int, bool) {
	for i := range cells {
		j := i
		if fromEnd {
			j = len(cells) - 1 - i
		}
		if u.nodeAtCell(cells[j][0], cells[j][1]) == nil {
			return cells[j], true
		}
	}
	return [2]int{}, false
}

// line draws a Bresenham segment with a glyph for its overall slope.
func (u *UI) line(x0, y0, x1, y1 int, dashed bool, st tcell.Style) {
	glyph := lineGlyph(x1-x0, y1-y0, dashed)
	for _, p := range cellsOn(x0, y0, x1, y1) {
		u.put(p[0], p[1], glyph, st)
	}
}

// cellsOn returns the cells of the segment between two cells, inclusive.
func cellsOn(x0, y0, x1, y1 int) [][2]int {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	var out [][2]int
	e := dx + dy
	for {
		out = append(out, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return out
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func lineGlyph(dx, dy int, dashed bool) rune {
	switch {
	case dy == 0 || abs(dx) > 3*abs(dy):
		if dashed {
			return '┄'
		}
		return '─'
	case dx == 0 || abs(dy) > 3*abs(dx):
		if dashed {
			return '┆'
		}
		return '│'
	case dashed:
		return '·'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// arrowGlyph points along the dominant axis of (dx, dy).
func arrowGlyph(dx, dy int) rune {
	if abs(dx) >= 2*abs(dy) {
		if dx < 0 {
			return '◀'
		}
		return '▶'
	}
	if dy < 0 {
		return '▲'
	}
	return '▼'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// nodeRect is the rectangle a node occupies on screen. The edited node is
// sized for its pending text.
func (u *UI) nodeRect(n *diagram.Node) geometry.Rect {
	if n == u.sess.Editing() {
		if m := u.doc.Measurer(); m != nil {
			return geometry.RectAt(n.X, n.Y, m.Measure(u.sess.Buffer(), n.Bold))
		}
	}
	return n.Rect()
}

func (u *UI) drawNode(n *diagram.Node) {
	look := lookOf(n.Type)
	x0, y0, x1, y1 := u.view.cellRect(u.nodeRect(n))

	border := look.border
	chars := look.chars
	switch {
	case n == u.sess.Navigator().Current():
		border, look.boxed = styleNavigate, true
	case u.doc.IsNodeSelected(n):
		border, look.boxed = styleSelected, true
	}
	if n.Bold && chars == solidBox {
		chars = boldBox
	}
	if chars == (boxChars{}) {
		chars = solidBox
	}

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			u.put(x, y, ' ', look.fill)
		}
	}
	if look.boxed {
		u.put(x0, y0, chars.tl, border)
		u.put(x1, y0, chars.tr, border)
		u.put(x0, y1, chars.bl, border)
		u.put(x1, y1, chars.br, border)
		for x := x0 + 1; x < x1; x++ {
			u.put(x, y0, chars.h, border)
			u.put(x, y1, chars.h, border)
		}
		for y := y0 + 1; y < y1; y++ {
			u.put(x0, y, chars.v, border)
			u.put(x1, y, chars.v, border)
		}
	}

	textStyle := look.text.Bold(n.Bold)
	inner := x1 - x0 - 1
	if n == u.sess.Editing() {
		u.drawEditText(x0+1, y0+1, textStyle)
		return
	}
	for i, spans := range richtext.Lines(n.Text) {
		y := y0 + 1 + i
		if y >= y1 {
			break
		}
		width := 0
		for _, s := range spans {
			width += runewidth.StringWidth(s.Display())
		}
		x := x0 + 1 + max(0, (inner-width)/2)
		for _, s := range spans {
			st := textStyle
			if s.Kind != richtext.SpanText {
				st = st.Underline(true).Foreground(tcell.ColorBlue)
			}
			x = u.text(x, y, s.Display(), st)
		}
	}
}

// drawEditText writes the pending buffer left aligned and places the
// terminal cursor.
func (u *UI) drawEditText(x, y int, st tcell.Style) {
	lines := strings.Split(u.sess.Buffer(), "\n")
	for i, l := range lines {
		u.text(x, y+i, l, st)
	}
	line, col := u.input.position()
	u.screen.ShowCursor(x+col, y+line)
}

func (u *UI) drawGesture() {
	switch g := u.gesture.(type) {
	case *session.RubberBand:
		x0, y0, x1, y1 := u.view.cellRect(g.Rect())
		for x := x0; x <= x1; x++ {
			u.put(x, y0, '┄', stylePreview)
			u.put(x, y1, '┄', stylePreview)
		}
		for y := y0; y <= y1; y++ {
			u.put(x0, y, '┆', stylePreview)
			u.put(x1, y, '┆', stylePreview)
		}
	case previewer:
		if from, to, ok := g.Preview(); ok {
			x0, y0 := u.view.toCell(from)
			x1, y1 := u.view.toCell(to)
			u.line(x0, y0, x1, y1, true, stylePreview)
		}
	}
}

// previewer is a gesture that shows a provisional line.
type previewer interface {
	Preview() (from, to geometry.Point, ok bool)
}

func stateStyle(s session.State) tcell.Style {
	switch s {
	case session.StateEditing:
		return tcell.StyleDefault.Background(tcell.ColorOlive).Foreground(tcell.ColorBlack)
	case session.StateMultiSelected:
		return tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	case session.StateNavigating:
		return tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
	default:
		return tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
	}
}

func (u *UI) drawStatus(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		u.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	state := u.sess.State()
	x := 0
	for _, r := range " " + state.String() + " " {
		u.screen.SetContent(x, y, r, nil, stateStyle(state))
		x += runewidth.RuneWidth(r)
	}
	x++

	msg := u.statusText()
	for _, r := range msg {
		if x >= w {
			break
		}
		u.screen.SetContent(x, y, r, nil, styleStatus)
		x += runewidth.RuneWidth(r)
	}
	if u.prompt != nil {
		u.screen.ShowCursor(min(x, w-1), y)
	}

	cur, total := u.doc.HistoryStats()
	right := fmt.Sprintf(" %s  %d/%d ", u.doc.Title(), cur, total)
	rx := w - runewidth.StringWidth(right)
	if rx > x {
		for _, r := range right {
			u.screen.SetContent(rx, y, r, nil, styleStatus)
			rx += runewidth.RuneWidth(r)
		}
	}
}

// statusText picks the most relevant line for the status bar.
func (u *UI) statusText() string {
	switch {
	case u.prompt != nil:
		return "/" + string(u.prompt)
	case u.sess.Message() != "":
		return u.sess.Message()
	case u.message != "":
		return u.message
	case u.sess.Navigator().Active():
		return u.sess.Navigator().Indicator()
	default:
		return CompactHelp()
	}
}
