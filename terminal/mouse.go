package terminal

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"notemap/diagram"
	"notemap/geometry"
	"notemap/session"
)

// Two presses on the same spot within this interval form a double press.
const doubleClickInterval = 400 * time.Millisecond

const pointerButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

type click struct {
	x, y int
	at   time.Time
}

func (c click) isDouble(x, y int, now time.Time) bool {
	return !c.at.IsZero() && now.Sub(c.at) <= doubleClickInterval && abs(c.x-x) <= 1 && abs(c.y-y) <= 1
}

// handleMouse turns tcell's button state reports into press, drag and
// release steps.
func (u *UI) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()
	now := ev.When()
	u.view = viewOf(u.doc)

	switch {
	case btn&tcell.WheelUp != 0:
		panBy(u.doc, 0, 2)
	case btn&tcell.WheelDown != 0:
		panBy(u.doc, 0, -2)
	case btn&tcell.WheelLeft != 0:
		panBy(u.doc, 4, 0)
	case btn&tcell.WheelRight != 0:
		panBy(u.doc, -4, 0)
	}

	btn &= pointerButtons
	pressed := btn &^ u.buttons
	released := u.buttons &^ btn
	u.buttons = btn

	switch {
	case pressed&tcell.Button1 != 0:
		u.pressPrimary(x, y, ev.Modifiers(), now)
	case pressed&tcell.Button3 != 0:
		u.abortGesture()
		u.gesture = u.sess.StartRubberBand(u.view.toDoc(x, y))
	case released != 0:
		u.release(x, y, now)
	case btn != 0:
		u.drag(x, y, now)
	}
}

func (u *UI) pressPrimary(x, y int, mods tcell.ModMask, now time.Time) {
	u.abortGesture()
	p := u.view.toDoc(x, y)
	double := u.lastClick.isDouble(x, y, now)
	u.lastClick = click{x: x, y: y, at: now}

	if n := u.nodeAtCell(x, y); n != nil {
		switch {
		case mods&tcell.ModCtrl != 0:
			u.sess.ToggleSelect(n)
		case double:
			u.gesture = u.sess.StartBranch(n, p)
		default:
			u.press = u.sess.PressNode(n, p, now)
			u.scheduleTick()
		}
		return
	}
	if c, side, ok := u.handleAtCell(x, y); ok {
		u.gesture = u.sess.StartHandleDrag(c, side)
		return
	}
	if c := u.connectionAtCell(x, y); c != nil {
		if !u.doc.IsConnectionSelected(c) {
			u.sess.SelectConnection(c)
		}
		if g := u.sess.StartConnectionDrag(c, p); g != nil {
			u.gesture = g
		}
		return
	}

	switch {
	case double:
		u.gesture = u.sess.StartBlank(p)
	case mods&tcell.ModShift != 0:
		u.gesture = u.sess.StartRubberBand(p)
	default:
		if u.sess.Editing() != nil {
			u.sess.Escape()
		}
		u.doc.ClearSelection()
		u.gesture = u.sess.StartPan(screenPoint(x, y))
	}
}

// gesturePoint converts a cell to the coordinate space the running
// gesture expects.
func (u *UI) gesturePoint(x, y int) geometry.Point {
	if _, ok := u.gesture.(*session.PanDrag); ok {
		return screenPoint(x, y)
	}
	return u.view.toDoc(x, y)
}

func (u *UI) drag(x, y int, now time.Time) {
	switch {
	case u.press != nil:
		u.press.Move(u.view.toDoc(x, y), now)
	case u.gesture != nil:
		u.gesture.Move(u.gesturePoint(x, y))
	}
}

func (u *UI) release(x, y int, now time.Time) {
	switch {
	case u.press != nil:
		u.press.Release(u.view.toDoc(x, y), now)
		u.press = nil
	case u.gesture != nil:
		u.gesture.End(u.gesturePoint(x, y))
		u.gesture = nil
	}
}

func (u *UI) abortGesture() {
	if u.press != nil {
		u.press.Abort()
		u.press = nil
	}
	if u.gesture != nil {
		u.gesture.Abort()
		u.gesture = nil
	}
}

// scheduleTick wakes the event loop when a held press turns into a drag.
func (u *UI) scheduleTick() {
	time.AfterFunc(session.MoveDelay, func() {
		u.screen.PostEvent(tcell.NewEventInterrupt(holdTick{}))
	})
}

func (u *UI) nodeAtCell(x, y int) *diagram.Node {
	nodes := u.doc.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		x0, y0, x1, y1 := u.view.cellRect(u.nodeRect(nodes[i]))
		if x >= x0 && x <= x1 && y >= y0 && y <= y1 {
			return nodes[i]
		}
	}
	return nil
}

func (u *UI) connectionAtCell(x, y int) *diagram.Connection {
	conns := u.doc.Connections()
	for i := len(conns) - 1; i >= 0; i-- {
		from, to, ok := conns[i].Line()
		if !ok {
			continue
		}
		x0, y0 := u.view.toCell(from)
		x1, y1 := u.view.toCell(to)
		for _, p := range cellsOn(x0, y0, x1, y1) {
			if p[0] == x && p[1] == y {
				return conns[i]
			}
		}
	}
	return nil
}

// handleAtCell finds a drawn end of a selected connection at the cell.
func (u *UI) handleAtCell(x, y int) (*diagram.Connection, diagram.Side, bool) {
	for _, c := range u.doc.SelectedConnections() {
		from, to, ok := c.Line()
		if !ok {
			continue
		}
		x0, y0 := u.view.toCell(from)
		x1, y1 := u.view.toCell(to)
		cells := cellsOn(x0, y0, x1, y1)
		if p, ok := u.outside(cells, false); ok && p == [2]int{x, y} {
			return c, diagram.SideFrom, true
		}
		if p, ok := u.outside(cells, true); ok && p == [2]int{x, y} {
			return c, diagram.SideTo, true
		}
	}
	return nil, 0, false
}
