package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/geometry"
	"notemap/snapshot"
)

// Size reserved for a node added from the keyboard.
const (
	newNodeWidth  = 160
	newNodeHeight = 50
)

func (u *UI) handleKey(ev *tcell.EventKey) bool {
	u.sess.ClearMessage()
	u.message = ""

	if ev.Key() == tcell.KeyCtrlC {
		return true
	}
	if u.prompt != nil {
		u.handlePromptKey(ev)
		return false
	}
	if u.help {
		u.help = false
		return false
	}

	switch ev.Key() {
	case tcell.KeyCtrlZ:
		u.undo()
		return false
	case tcell.KeyCtrlY, tcell.KeyCtrlR:
		u.redo()
		return false
	case tcell.KeyCtrlB:
		u.toggleBold()
		return false
	case tcell.KeyCtrlJ:
		u.copyJSON()
		return false
	case tcell.KeyTab:
		u.sess.CycleSelection(false)
		return false
	case tcell.KeyBacktab:
		u.sess.CycleSelection(true)
		return false
	case tcell.KeyEscape:
		u.escape()
		return false
	case tcell.KeyEnter:
		if ev.Modifiers()&tcell.ModAlt != 0 {
			u.sess.CreateChildOfSelection()
			return false
		}
	}
	if r := ev.Rune(); ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModAlt != 0 && r >= '1' && r <= '9' {
		u.sess.Navigator().ActivateLevel(int(r - '0'))
		return false
	}

	if u.sess.Editing() != nil {
		u.handleEditKey(ev)
		return false
	}
	return u.handleCommandKey(ev)
}

// handleEditKey edits the pending text of the edited node.
func (u *UI) handleEditKey(ev *tcell.EventKey) {
	in := &u.input
	switch ev.Key() {
	case tcell.KeyEnter:
		u.sess.Enter()
		return
	case tcell.KeyCtrlN:
		in.insert('\n')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		in.backspace()
	case tcell.KeyDelete:
		in.deleteForward()
	case tcell.KeyLeft:
		in.left()
	case tcell.KeyRight:
		in.right()
	case tcell.KeyUp:
		in.up()
	case tcell.KeyDown:
		in.down()
	case tcell.KeyHome, tcell.KeyCtrlA:
		in.home()
	case tcell.KeyEnd, tcell.KeyCtrlE:
		in.end()
	case tcell.KeyCtrlW:
		in.deleteWordBackward()
	case tcell.KeyCtrlU:
		in.deleteToLineStart()
	case tcell.KeyCtrlK:
		in.deleteToLineEnd()
	case tcell.KeyRune:
		in.insert(ev.Rune())
	default:
		return
	}
	u.sess.SetBuffer(in.String())
}

// handleCommandKey handles keys outside text editing.
func (u *UI) handleCommandKey(ev *tcell.EventKey) bool {
	doc := u.doc
	switch ev.Key() {
	case tcell.KeyEnter:
		if u.sess.Navigator().Active() {
			u.sess.Enter()
		} else {
			u.editSelection()
		}
	case tcell.KeyCtrlA:
		u.sess.SelectAll()
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		u.sess.DeleteSelection()
	case tcell.KeyLeft:
		panBy(doc, 4, 0)
	case tcell.KeyRight:
		panBy(doc, -4, 0)
	case tcell.KeyUp:
		panBy(doc, 0, 2)
	case tcell.KeyDown:
		panBy(doc, 0, -2)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '?':
			u.help = true
		case 'a':
			u.addNode()
		case 'e':
			u.editSelection()
		case 'c':
			u.sess.CreateChildOfSelection()
		case 'h':
			u.sess.Navigator().ActivateCreateFromRoot()
		case 'n':
			u.message = "node type: " + doc.CycleNodeType().String()
		case 'l':
			u.message = "line type: " + doc.CycleLineType().String()
		case 't':
			u.message = "dash type: " + doc.CycleDashType().String()
		case 'u':
			u.undo()
		case '/':
			u.prompt = []rune{}
		}
	}
	return false
}

func (u *UI) escape() {
	if u.sess.Editing() == nil && !u.sess.Navigator().Active() {
		u.doc.ClearSelection()
		return
	}
	u.sess.Escape()
}

// editSelection edits the highlighted or selected node.
func (u *UI) editSelection() {
	n := u.sess.Navigator().Current()
	if n == nil {
		n = u.doc.PrimaryNode()
	}
	if n == nil {
		u.message = "nothing selected"
		return
	}
	u.sess.Navigator().Deactivate()
	u.sess.StartEditing(n)
}

// addNode creates an empty node near the middle of the screen and edits it.
func (u *UI) addNode() {
	w, h := u.screen.Size()
	u.view = viewOf(u.doc)
	c := u.view.toDoc(w/2, h/2)
	pos := u.doc.FindNonOverlappingPosition(c.X, c.Y, newNodeWidth, newNodeHeight)
	u.sess.Navigator().Deactivate()
	n := u.doc.CreateNode("", pos.X, pos.Y)
	u.sess.StartEditing(n)
	u.doc.SaveState()
}

func (u *UI) undo() {
	if u.sess.Editing() != nil {
		return
	}
	if !u.sess.Undo() {
		u.message = "nothing to undo"
	}
}

func (u *UI) redo() {
	if u.sess.Editing() != nil {
		return
	}
	if !u.sess.Redo() {
		u.message = "nothing to redo"
	}
}

func (u *UI) toggleBold() {
	bold, ok := u.doc.ToggleBold()
	switch {
	case !ok:
		u.message = "select a node first"
	case bold:
		u.message = "bold on"
	default:
		u.message = "bold off"
	}
}

// copyJSON puts the current document on the clipboard in its persisted
// form.
func (u *UI) copyJSON() {
	data, err := snapshot.Encode(u.doc.Envelope(), true)
	if err == nil {
		err = u.clipboard.WriteAll(string(data))
	}
	if err != nil {
		u.log.Warn("copy failed", zap.Error(err))
		u.message = "copy failed: " + err.Error()
		return
	}
	u.message = fmt.Sprintf("copied %d bytes of JSON", len(data))
}

// handlePromptKey edits the search query and runs it on Enter.
func (u *UI) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		u.prompt = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(u.prompt) > 0 {
			u.prompt = u.prompt[:len(u.prompt)-1]
		}
	case tcell.KeyEnter:
		query := string(u.prompt)
		u.prompt = nil
		u.search(query)
	case tcell.KeyRune:
		u.prompt = append(u.prompt, ev.Rune())
	}
}

// search selects the best match for query and scrolls it into the middle
// of the screen.
func (u *UI) search(query string) {
	matches := u.doc.Search(query)
	if len(matches) == 0 {
		u.message = fmt.Sprintf("no match for %q", query)
		return
	}
	n := matches[0]
	u.sess.Navigator().Deactivate()
	u.sess.Select(n)
	u.centerOn(n)
	u.message = fmt.Sprintf("%d match(es) for %q", len(matches), query)
}

// centerOn pans so n sits in the middle of the screen. The view change is
// not recorded.
func (u *UI) centerOn(n *diagram.Node) {
	w, h := u.screen.Size()
	z := viewOf(u.doc).zoom
	c := n.Center()
	mid := screenPoint(w/2, (h-1)/2)
	u.doc.SetPan(geometry.Pt(mid.X-c.X*z, mid.Y-c.Y*z))
}

// ensureVisible centres the root, or the first node, when no node is on
// screen.
func (u *UI) ensureVisible() {
	w, h := u.screen.Size()
	u.view = viewOf(u.doc)
	for _, n := range u.doc.Nodes() {
		x0, y0, x1, y1 := u.view.cellRect(n.Rect())
		if x1 >= 0 && y1 >= 0 && x0 < w && y0 < h-1 {
			return
		}
	}
	n := u.doc.Root()
	if n == nil {
		nodes := u.doc.Nodes()
		if len(nodes) == 0 {
			return
		}
		n = nodes[0]
	}
	u.centerOn(n)
}
