package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemap/demo"
	"notemap/diagram"
	"notemap/document"
	"notemap/geometry"
	"notemap/hierarchy"
	"notemap/session"
	"notemap/snapshot"
)

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

type fixture struct {
	ui     *UI
	screen tcell.SimulationScreen
	sess   *session.Session
	doc    *document.Document
	clip   *fakeClipboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	doc := document.New()
	sess := session.New(doc)
	clip := &fakeClipboard{}
	return &fixture{
		ui:     New(screen, sess, WithClipboard(clip)),
		screen: screen,
		sess:   sess,
		doc:    doc,
		clip:   clip,
	}
}

func (f *fixture) node(text string, x, y float64) *diagram.Node {
	n := f.doc.CreateNode(text, x, y)
	f.doc.SetNodeType(n, diagram.NodeStandard)
	return n
}

func (f *fixture) key(k tcell.Key, r rune, mod tcell.ModMask) bool {
	return f.ui.HandleEvent(tcell.NewEventKey(k, r, mod))
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.key(tcell.KeyRune, r, tcell.ModNone)
	}
}

func (f *fixture) mouse(x, y int, btn tcell.ButtonMask) {
	f.ui.HandleEvent(tcell.NewEventMouse(x, y, btn, tcell.ModNone))
}

func (f *fixture) cell(x, y int) rune {
	r, _, _, _ := f.screen.GetContent(x, y)
	return r
}

func (f *fixture) row(y int) string {
	w, _ := f.screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteRune(f.cell(x, y))
	}
	return b.String()
}

func (f *fixture) draw() {
	f.ui.Draw()
	f.screen.Show()
}

func TestDrawNode(t *testing.T) {
	f := newFixture(t)
	f.node("Plan", 0, 0)
	f.draw()

	assert.Equal(t, '┌', f.cell(0, 0))
	assert.Equal(t, '┐', f.cell(6, 0))
	assert.Equal(t, '└', f.cell(0, 2))
	assert.Equal(t, '│', f.cell(6, 1))
	assert.Equal(t, "Plan", string([]rune(f.row(1))[1:5]))
	assert.True(t, strings.HasPrefix(f.row(23), " IDLE "))
}

func TestDrawBoldNode(t *testing.T) {
	f := newFixture(t)
	n := f.node("Plan", 0, 0)
	f.doc.SelectNode(n)
	f.key(tcell.KeyCtrlB, 0, tcell.ModCtrl)
	require.True(t, n.Bold)
	assert.Equal(t, "bold on", f.ui.message)

	f.draw()
	assert.Equal(t, '┏', f.cell(0, 0))
	assert.Equal(t, '┓', f.cell(7, 0))
}

func TestDrawConnectionArrow(t *testing.T) {
	f := newFixture(t)
	a := f.node("A", 0, 0)
	b := f.node("B", 0, 100)
	f.doc.CreateConnection(a, b)
	f.draw()

	assert.Equal(t, '│', f.cell(2, 5))
	assert.Equal(t, '▼', f.cell(2, 7))
	assert.Equal(t, '┌', f.cell(0, 8))
}

func TestKeyEditingFlow(t *testing.T) {
	f := newFixture(t)

	f.key(tcell.KeyRune, 'a', tcell.ModNone)
	require.NotNil(t, f.sess.Editing())
	assert.Equal(t, session.StateEditing, f.sess.State())

	f.typeText("Hi")
	assert.Equal(t, "Hi", f.sess.Buffer())

	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	require.NotNil(t, f.sess.Editing())
	assert.Equal(t, "", f.sess.Buffer())
	assert.Len(t, f.doc.Nodes(), 2)

	f.key(tcell.KeyEscape, 0, tcell.ModNone)
	assert.Nil(t, f.sess.Editing())
	require.Len(t, f.doc.Nodes(), 1)
	assert.Equal(t, "Hi", f.doc.Nodes()[0].Text)
}

func TestEditKeysMoveCursor(t *testing.T) {
	f := newFixture(t)
	n := f.node("ab", 0, 0)
	f.doc.SelectNode(n)

	f.key(tcell.KeyRune, 'e', tcell.ModNone)
	require.Equal(t, n, f.sess.Editing())
	f.key(tcell.KeyHome, 0, tcell.ModNone)
	f.typeText("x")
	f.key(tcell.KeyCtrlN, 0, tcell.ModCtrl)
	assert.Equal(t, "x\nab", f.sess.Buffer())

	f.key(tcell.KeyCtrlK, 0, tcell.ModCtrl)
	assert.Equal(t, "x\n", f.sess.Buffer())
	f.key(tcell.KeyBackspace2, 0, tcell.ModNone)
	assert.Equal(t, "x", f.sess.Buffer())
	assert.Equal(t, "ab", n.Text, "node text changes only on commit")
}

func TestAltEnterCommitsWithChild(t *testing.T) {
	f := newFixture(t)
	root := f.node("Root", 0, 0)
	f.doc.SelectNode(root)

	f.key(tcell.KeyRune, 'e', tcell.ModNone)
	f.typeText("!")
	f.key(tcell.KeyEnter, 0, tcell.ModAlt)

	require.Len(t, f.doc.Nodes(), 2)
	assert.Equal(t, "Root!", root.Text)
	assert.Len(t, f.doc.Connections(), 1)
	assert.Equal(t, f.doc.Nodes()[1], f.sess.Editing())
}

func TestChildOfSelectionKey(t *testing.T) {
	f := newFixture(t)
	root := f.node("Root", 0, 0)
	f.doc.SelectNode(root)

	f.key(tcell.KeyRune, 'c', tcell.ModNone)
	require.NotNil(t, f.sess.Editing())
	assert.Equal(t, root, f.doc.ParentOf(f.sess.Editing()))
}

func TestStyleKeysAndUndo(t *testing.T) {
	f := newFixture(t)
	n := f.doc.CreateNode("X", 0, 0)
	f.doc.SaveState()
	f.doc.SelectNode(n)

	f.key(tcell.KeyRune, 'n', tcell.ModNone)
	assert.Equal(t, "node type: standard", f.ui.message)
	assert.Equal(t, diagram.NodeStandard, f.doc.Nodes()[0].Type)

	f.key(tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	assert.Equal(t, diagram.NodeDotted, f.doc.Nodes()[0].Type)

	f.key(tcell.KeyCtrlY, 0, tcell.ModCtrl)
	assert.Equal(t, diagram.NodeStandard, f.doc.Nodes()[0].Type)

	f.key(tcell.KeyRune, 'u', tcell.ModNone)
	f.key(tcell.KeyRune, 'u', tcell.ModNone)
	assert.Equal(t, "nothing to undo", f.ui.message)

	f.key(tcell.KeyRune, 'l', tcell.ModNone)
	assert.Equal(t, "line type: no-arrow", f.ui.message)
	f.key(tcell.KeyRune, 't', tcell.ModNone)
	assert.Equal(t, "dash type: dashed", f.ui.message)
}

func TestCopyJSON(t *testing.T) {
	f := newFixture(t)
	f.node("Plan", 10, 20)

	f.key(tcell.KeyCtrlJ, 0, tcell.ModCtrl)
	require.NotEmpty(t, f.clip.text)
	assert.Contains(t, f.ui.message, "copied")

	env, err := snapshot.Decode([]byte(f.clip.text))
	require.NoError(t, err)
	require.Len(t, env.Data.Nodes, 1)
	assert.Equal(t, "Plan", env.Data.Nodes[0].Text)
}

func TestHierarchyNavigationKeys(t *testing.T) {
	f := newFixture(t)
	root := f.node(hierarchy.RootTitle, 0, 0)
	a := f.node("A", 0, 100)
	b := f.node("B", 200, 100)
	f.doc.CreateConnection(root, a)
	f.doc.CreateConnection(root, b)

	f.key(tcell.KeyRune, '2', tcell.ModAlt)
	require.Equal(t, session.StateNavigating, f.sess.State())
	assert.Equal(t, a, f.sess.Navigator().Current())
	assert.True(t, strings.HasPrefix(f.ui.statusText(), "level 1 (1/2)"))

	f.key(tcell.KeyTab, 0, tcell.ModNone)
	assert.Equal(t, b, f.sess.Navigator().Current())

	f.key(tcell.KeyEscape, 0, tcell.ModNone)
	assert.Equal(t, session.StateIdle, f.sess.State())

	f.key(tcell.KeyRune, '5', tcell.ModAlt)
	assert.Equal(t, "no nodes at level 4", f.ui.statusText())

	f.key(tcell.KeyRune, '2', tcell.ModAlt)
	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	child := f.sess.Editing()
	require.NotNil(t, child)
	assert.Equal(t, a, f.doc.ParentOf(child))
	assert.False(t, f.sess.Navigator().Active())
}

func TestSearchPrompt(t *testing.T) {
	f := newFixture(t)
	f.node("Plan", 0, 0)
	f.node("Pack", 200, 0)

	f.key(tcell.KeyRune, '/', tcell.ModNone)
	f.typeText("Pl")
	assert.Equal(t, "/Pl", f.ui.statusText())

	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	require.NotNil(t, f.doc.PrimaryNode())
	assert.Equal(t, "Plan", f.doc.PrimaryNode().Text)
	assert.Equal(t, `1 match(es) for "Pl"`, f.ui.message)

	f.key(tcell.KeyRune, '/', tcell.ModNone)
	f.typeText("zzz")
	f.key(tcell.KeyEnter, 0, tcell.ModNone)
	assert.Equal(t, `no match for "zzz"`, f.ui.message)
}

func TestArrowKeysPan(t *testing.T) {
	f := newFixture(t)
	f.key(tcell.KeyRight, 0, tcell.ModNone)
	assert.Equal(t, geometry.Pt(-32, 0), f.doc.Pan())
	f.key(tcell.KeyUp, 0, tcell.ModNone)
	assert.Equal(t, geometry.Pt(-32, 24), f.doc.Pan())
}

func TestHelpAndQuit(t *testing.T) {
	f := newFixture(t)

	f.key(tcell.KeyRune, '?', tcell.ModNone)
	assert.True(t, f.ui.help)
	f.draw()
	f.key(tcell.KeyRune, 'x', tcell.ModNone)
	assert.False(t, f.ui.help)

	f.key(tcell.KeyRune, 'a', tcell.ModNone)
	assert.False(t, f.key(tcell.KeyRune, 'q', tcell.ModNone), "q is text while editing")
	assert.Equal(t, "q", f.sess.Buffer())
	assert.True(t, f.key(tcell.KeyCtrlC, 0, tcell.ModCtrl))

	f.key(tcell.KeyEscape, 0, tcell.ModNone)
	assert.True(t, f.key(tcell.KeyRune, 'q', tcell.ModNone))
}

func TestMouseClickSelects(t *testing.T) {
	f := newFixture(t)
	n := f.node("Plan", 0, 0)
	f.doc.SaveState()

	f.mouse(2, 1, tcell.Button1)
	f.mouse(2, 1, tcell.ButtonNone)

	assert.True(t, f.doc.IsNodeSelected(n))
	_, total := f.doc.HistoryStats()
	assert.Equal(t, 1, total)
}

func TestMouseHoldMovesNode(t *testing.T) {
	f := newFixture(t)
	n := f.node("Plan", 0, 0)

	f.mouse(2, 1, tcell.Button1)
	time.Sleep(session.MoveDelay + 20*time.Millisecond)
	f.mouse(12, 1, tcell.Button1)
	f.mouse(12, 1, tcell.ButtonNone)

	assert.Equal(t, 80.0, n.X)
	assert.Equal(t, 0.0, n.Y)
}

func TestMouseDoubleClickBlankCreatesNode(t *testing.T) {
	f := newFixture(t)

	f.mouse(40, 10, tcell.Button1)
	f.mouse(40, 10, tcell.ButtonNone)
	f.mouse(40, 10, tcell.Button1)
	f.mouse(40, 10, tcell.ButtonNone)

	require.Len(t, f.doc.Nodes(), 1)
	assert.Equal(t, f.doc.Nodes()[0], f.sess.Editing())
	assert.Equal(t, 324.0, f.doc.Nodes()[0].X)
}

func TestMouseDragBlankPans(t *testing.T) {
	f := newFixture(t)

	f.mouse(40, 10, tcell.Button1)
	f.mouse(50, 12, tcell.Button1)
	f.mouse(50, 12, tcell.ButtonNone)

	assert.Equal(t, geometry.Pt(80, 24), f.doc.Pan())
}

func TestMouseRightDragSelectsRectangle(t *testing.T) {
	f := newFixture(t)
	f.node("Plan", 0, 0)
	f.node("Pack", 200, 0)

	f.mouse(60, 15, tcell.Button3)
	f.mouse(0, 0, tcell.Button3)
	f.mouse(0, 0, tcell.ButtonNone)

	assert.Equal(t, 2, f.doc.SelectionSize())
	assert.Equal(t, session.StateMultiSelected, f.sess.State())
}

func TestReload(t *testing.T) {
	f := newFixture(t)
	f.node("Local", 0, 0)

	other := document.New()
	other.CreateNode("Remote", 0, 0)
	f.ui.HandleEvent(tcell.NewEventInterrupt(reloadDoc{s: other.CaptureState()}))

	require.Len(t, f.doc.Nodes(), 1)
	assert.Equal(t, "Remote", f.doc.Nodes()[0].Text)
	assert.Equal(t, "reloaded", f.ui.message)
}

func TestReloadWaitsForEditToEnd(t *testing.T) {
	f := newFixture(t)
	f.node("Local", 0, 0)

	other := document.New()
	other.CreateNode("Remote", 0, 0)

	f.key(tcell.KeyRune, 'a', tcell.ModNone)
	f.ui.HandleEvent(tcell.NewEventInterrupt(reloadDoc{s: other.CaptureState()}))
	assert.Contains(t, f.ui.message, "finish editing")
	assert.Len(t, f.doc.Nodes(), 2)

	f.key(tcell.KeyEscape, 0, tcell.ModNone)
	require.Len(t, f.doc.Nodes(), 1)
	assert.Equal(t, "Remote", f.doc.Nodes()[0].Text)
	assert.Equal(t, "reloaded", f.ui.message)
	assert.Nil(t, f.ui.pending)
}

func TestReloadEndsNavigation(t *testing.T) {
	f := newFixture(t)
	root := f.node("Root", 0, 0)
	a := f.node("a", 0, 6)
	b := f.node("b", 20, 6)
	f.doc.CreateConnection(root, a)
	f.doc.CreateConnection(root, b)

	f.key(tcell.KeyRune, '2', tcell.ModAlt)
	require.True(t, f.sess.Navigator().Active())

	f.ui.HandleEvent(tcell.NewEventInterrupt(reloadDoc{s: f.doc.CaptureState()}))
	assert.False(t, f.sess.Navigator().Active())

	f.key(tcell.KeyTab, 0, tcell.ModNone)
	f.key(tcell.KeyDelete, 0, tcell.ModNone)
	for _, n := range f.doc.Nodes() {
		assert.Same(t, n, f.doc.Node(n.ID), "node %d %q should stay indexed", n.ID, n.Text)
	}
	for _, c := range f.doc.Connections() {
		assert.True(t, c.Valid())
	}
}

func TestTextInput(t *testing.T) {
	var in textInput
	in.reset("ab\ncd")
	assert.Equal(t, 5, in.cursor)

	in.up()
	assert.Equal(t, 2, in.cursor)
	in.down()
	assert.Equal(t, 5, in.cursor)

	in.home()
	in.insert('X')
	assert.Equal(t, "ab\nXcd", in.String())
	line, col := in.position()
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	in.deleteToLineEnd()
	assert.Equal(t, "ab\nX", in.String())
	in.deleteWordBackward()
	assert.Equal(t, "ab\n", in.String())
	assert.Equal(t, 3, in.cursor)

	in.reset("abcdef\nxy")
	in.up()
	assert.Equal(t, 2, in.cursor)

	in.reset("日本")
	_, col = in.position()
	assert.Equal(t, 4, col)
}

func TestCellsOn(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}}, cellsOn(0, 0, 2, 0))
	assert.Equal(t, [][2]int{{2, 2}, {1, 1}, {0, 0}}, cellsOn(2, 2, 0, 0))
	assert.Equal(t, '─', lineGlyph(5, 0, false))
	assert.Equal(t, '┆', lineGlyph(0, -3, true))
	assert.Equal(t, '╱', lineGlyph(3, -3, false))
	assert.Equal(t, '◀', arrowGlyph(-4, 1))
}

func TestRunReplaysDemoScript(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	doc := document.New()
	sess := session.New(doc)
	script := &demo.Script{Commands: []demo.Command{
		{Type: "key", Value: "a"},
		{Type: "text", Value: "Plan"},
		{Type: "key", Value: "ctrl+c"},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ui := New(screen, sess, WithClipboard(&fakeClipboard{}), OnReady(func() {
		go demo.NewPlayer(screen.PostEvent, demo.WithoutDelays()).Play(ctx, script)
	}))
	require.NoError(t, ui.Run(ctx))

	require.Len(t, doc.Nodes(), 1)
	assert.Equal(t, "Plan", doc.Nodes()[0].Text)
	assert.Nil(t, sess.Editing())
}
