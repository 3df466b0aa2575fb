// Package terminal is the interactive editor: it draws a session on a tcell
// screen and maps keys and mouse input onto session operations.
package terminal

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"notemap/diagram"
	"notemap/document"
	"notemap/session"
	"notemap/snapshot"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Interrupt payloads posted to the event loop.
type (
	holdTick   struct{}
	quitSignal struct{}
	reloadDoc  struct{ s *snapshot.Snapshot }
)

// UI runs one session on one screen. All document access happens on the
// goroutine calling Run or HandleEvent.
type UI struct {
	screen    tcell.Screen
	sess      *session.Session
	doc       *document.Document
	log       *zap.Logger
	clipboard Clipboard

	view    viewport
	input   textInput
	editing *diagram.Node
	prompt  []rune
	help    bool
	message string
	pending *snapshot.Snapshot

	onReady func()

	gesture   session.Gesture
	press     *session.NodePress
	buttons   tcell.ButtonMask
	lastClick click
}

// Option configures a UI.
type Option func(*UI)

func WithLogger(l *zap.Logger) Option {
	return func(u *UI) {
		if l != nil {
			u.log = l
		}
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(u *UI) { u.clipboard = c }
}

// WithStatus shows msg in the status bar until the first key press.
func WithStatus(msg string) Option {
	return func(u *UI) { u.message = msg }
}

// OnReady runs fn once the screen accepts posted events, for example to
// start replaying a demo script.
func OnReady(fn func()) Option {
	return func(u *UI) { u.onReady = fn }
}

// New returns a UI for sess drawing on screen. The screen is initialised
// by Run.
func New(screen tcell.Screen, sess *session.Session, opts ...Option) *UI {
	u := &UI{
		screen:    screen,
		sess:      sess,
		doc:       sess.Document(),
		log:       zap.NewNop(),
		clipboard: systemClipboard{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run initialises the screen and processes events until the user quits or
// ctx is cancelled. Any pending edit is committed on the way out.
func (u *UI) Run(ctx context.Context) error {
	if err := u.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer u.screen.Fini()
	u.screen.EnableMouse()
	u.screen.Clear()
	u.ensureVisible()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			u.screen.PostEvent(tcell.NewEventInterrupt(quitSignal{}))
		case <-done:
		}
	}()
	if u.onReady != nil {
		u.onReady()
	}

	for {
		u.Draw()
		u.screen.Show()
		ev := u.screen.PollEvent()
		if ev == nil || u.HandleEvent(ev) {
			u.sess.Escape()
			return nil
		}
	}
}

// Reload replaces the document content from another goroutine, typically a
// file watcher. The change is applied on the event loop.
func (u *UI) Reload(s *snapshot.Snapshot) error {
	return u.screen.PostEvent(tcell.NewEventInterrupt(reloadDoc{s: s}))
}

// HandleEvent applies one event and reports whether the UI should quit.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	u.syncInput()
	defer u.syncInput()

	quit := false
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventKey:
		quit = u.handleKey(ev)
	case *tcell.EventMouse:
		u.handleMouse(ev)
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case holdTick:
			if u.press != nil {
				u.press.Tick(ev.When())
			}
		case reloadDoc:
			u.pending = data.s
			if u.sess.Editing() != nil {
				u.message = "file changed on disk; finish editing to reload"
			}
		case quitSignal:
			quit = true
		}
	}
	if !quit {
		u.applyReload()
	}
	return quit
}

// applyReload replaces the content with the latest reloaded state once no
// node is being edited and no pointer gesture is in progress. Only the
// newest state is kept while waiting.
func (u *UI) applyReload() {
	if u.pending == nil || u.sess.Editing() != nil || u.gesture != nil || u.press != nil {
		return
	}
	s := u.pending
	u.pending = nil
	u.sess.Reset(s)
	u.message = "reloaded"
	u.log.Info("document reloaded")
}

// syncInput reloads the text input when the edited node changes.
func (u *UI) syncInput() {
	if n := u.sess.Editing(); n != u.editing {
		u.editing = n
		if n != nil {
			u.input.reset(u.sess.Buffer())
		}
	}
}
