// Package session drives a document the way an interactive editor does:
// one node edited at a time, auto-chained sibling and child creation,
// hierarchy navigation and pointer gestures. Every method that changes
// content records exactly one history state.
package session

import (
	"strings"

	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/document"
	"notemap/snapshot"
)

// State is the coarse interaction state of a session.
type State int

const (
	StateIdle State = iota
	StateEditing
	StateMultiSelected
	StateNavigating
)

// String returns the state name for display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateEditing:
		return "EDIT"
	case StateMultiSelected:
		return "MULTI"
	case StateNavigating:
		return "NAVIGATE"
	default:
		return "UNKNOWN"
	}
}

// Session wraps a document with editing state.
type Session struct {
	doc *document.Document
	log *zap.Logger

	editing   *diagram.Node
	buffer    string
	autoChain bool
	message   string

	nav *Navigator
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. It defaults to the document's.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAutoChain enables or disables sibling creation on commit.
func WithAutoChain(on bool) Option {
	return func(s *Session) { s.autoChain = on }
}

// New returns an idle session over doc with auto-chaining enabled.
func New(doc *document.Document, opts ...Option) *Session {
	s := &Session{doc: doc, log: doc.Logger(), autoChain: true}
	for _, opt := range opts {
		opt(s)
	}
	s.nav = &Navigator{s: s}
	return s
}

// Document returns the underlying document.
func (s *Session) Document() *document.Document {
	return s.doc
}

// Navigator returns the hierarchy navigator.
func (s *Session) Navigator() *Navigator {
	return s.nav
}

// State derives the current interaction state.
func (s *Session) State() State {
	switch {
	case s.nav.Active():
		return StateNavigating
	case s.editing != nil:
		return StateEditing
	case s.doc.SelectionSize() > 1:
		return StateMultiSelected
	default:
		return StateIdle
	}
}

func (s *Session) AutoChain() bool {
	return s.autoChain
}

func (s *Session) SetAutoChain(on bool) {
	s.autoChain = on
}

// Message returns the last status message.
func (s *Session) Message() string {
	return s.message
}

func (s *Session) setMessage(msg string) {
	s.message = msg
}

// ClearMessage drops the status message.
func (s *Session) ClearMessage() {
	s.message = ""
}

// Editing returns the node being edited, or nil.
func (s *Session) Editing() *diagram.Node {
	return s.editing
}

// Buffer returns the pending text of the edited node.
func (s *Session) Buffer() string {
	return s.buffer
}

// SetBuffer replaces the pending text. The node itself keeps its committed
// text until Commit.
func (s *Session) SetBuffer(text string) {
	if s.editing != nil {
		s.buffer = text
	}
}

// StartEditing makes n the edited node, committing any other edit first.
func (s *Session) StartEditing(n *diagram.Node) {
	if s.editing == n {
		return
	}
	if s.editing != nil {
		s.Commit(ChainNone)
	}
	s.nav.Deactivate()
	s.doc.SelectNode(n)
	s.editing = n
	s.buffer = n.Text
}

// Commit ends the current edit. Empty text deletes the node. Otherwise the
// text is stored and, depending on chain, a sibling or child is created and
// put into editing. It returns the new node, if any.
func (s *Session) Commit(chain Chain) *diagram.Node {
	n := s.editing
	if n == nil {
		return nil
	}
	text := strings.TrimSpace(s.buffer)
	s.editing = nil
	s.buffer = ""

	if text == "" {
		s.nav.Deactivate()
		s.doc.SelectNode(n)
		s.doc.DeleteSelection()
		s.doc.SaveState()
		s.log.Debug("empty node discarded", zap.Int("id", n.ID))
		return nil
	}

	isRoot := s.doc.Root() == n
	s.doc.SetNodeText(n, text)
	if isRoot {
		s.doc.SetTitle(text)
	}
	s.doc.SelectNode(n)
	s.doc.SaveState()

	switch chain {
	case ChainSibling:
		if s.autoChain {
			return s.createSibling(n)
		}
	case ChainChild:
		return s.createChild(n, n.Width+40)
	}
	return nil
}

// Select makes n the only selected node, committing a different node's
// edit first.
func (s *Session) Select(n *diagram.Node) {
	if s.editing != nil && s.editing != n {
		s.Commit(ChainNone)
	}
	if s.doc.Node(n.ID) != nil {
		s.doc.SelectNode(n)
	}
}

// ToggleSelect adds n to or removes it from the selection.
func (s *Session) ToggleSelect(n *diagram.Node) {
	s.doc.ToggleNode(n)
}

// SelectConnection selects c alone.
func (s *Session) SelectConnection(c *diagram.Connection) {
	if s.editing != nil {
		s.Commit(ChainNone)
	}
	s.doc.SelectConnection(c)
}

// SelectAll selects everything unless a node is being edited.
func (s *Session) SelectAll() {
	if s.editing != nil {
		return
	}
	s.doc.SelectAll()
}

// CycleSelection moves the selection to the next node in creation order,
// or the previous one when back is set. In navigation mode it steps within
// the current level instead.
func (s *Session) CycleSelection(back bool) *diagram.Node {
	if s.nav.Active() {
		if back {
			return s.nav.Prev()
		}
		return s.nav.Next()
	}
	if s.editing != nil {
		s.Commit(ChainNone)
	}
	nodes := s.doc.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	cur := -1
	if p := s.doc.PrimaryNode(); p != nil {
		for i, n := range nodes {
			if n == p {
				cur = i
				break
			}
		}
	}
	var next int
	if back {
		next = cur - 1
		if cur <= 0 {
			next = len(nodes) - 1
		}
	} else {
		next = cur + 1
		if cur >= len(nodes)-1 {
			next = 0
		}
	}
	s.doc.SelectNode(nodes[next])
	return nodes[next]
}

// Escape commits the current edit, or leaves navigation mode.
func (s *Session) Escape() {
	switch {
	case s.editing != nil:
		s.Commit(ChainNone)
	default:
		s.nav.Deactivate()
	}
}

// Enter creates a child of the highlighted node in navigation mode and
// commits with a sibling otherwise.
func (s *Session) Enter() *diagram.Node {
	if s.nav.Active() {
		return s.nav.CreateChild()
	}
	if s.editing != nil {
		return s.Commit(ChainSibling)
	}
	return nil
}

// DeleteSelection removes the selection and records the change.
func (s *Session) DeleteSelection() {
	if s.editing != nil {
		return
	}
	s.nav.Deactivate()
	s.doc.DeleteSelection()
	s.doc.SaveState()
}

// Reset replaces the content with a reloaded state and restarts history.
// Any edit or navigation over the old nodes ends without being committed.
func (s *Session) Reset(snap *snapshot.Snapshot) {
	s.editing = nil
	s.buffer = ""
	s.nav.Deactivate()
	s.doc.Reset(snap)
}

// Load applies an imported state as one undoable step.
func (s *Session) Load(snap *snapshot.Snapshot) {
	if s.editing != nil {
		s.Commit(ChainNone)
	}
	s.nav.Deactivate()
	s.doc.Load(snap)
}

// Undo steps back in history. It is ignored while editing text.
func (s *Session) Undo() bool {
	if s.editing != nil {
		return false
	}
	s.nav.Deactivate()
	return s.doc.Undo()
}

// Redo reapplies an undone step. It is ignored while editing text.
func (s *Session) Redo() bool {
	if s.editing != nil {
		return false
	}
	s.nav.Deactivate()
	return s.doc.Redo()
}
