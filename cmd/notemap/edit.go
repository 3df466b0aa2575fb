package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"notemap/demo"
	"notemap/document"
	"notemap/session"
	"notemap/snapshot"
	"notemap/store"
	"notemap/terminal"
)

func runEdit(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "Reload when another process changes the saved document (file store only)")
	noChain := fs.Bool("no-chain", false, "Do not create a sibling after committing with Enter")
	script := fs.String("demo", "", "Replay the keystrokes of a demo script (see 'notemap demo')")
	fresh := fs.Bool("new", false, "Discard the saved document and start from the root node")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var demoScript *demo.Script
	if *script != "" {
		s, err := demo.LoadScript(*script)
		if err != nil {
			return err
		}
		demoScript = s
	}

	var (
		doc *document.Document
		err error
	)
	if *fresh {
		doc, err = a.newDocument(true)
	} else {
		doc, err = a.openDocument(ctx, true)
	}
	if err != nil {
		return err
	}
	status := ""
	if updated, prev, err := a.saver.CheckVersion(ctx, snapshot.Version); err != nil {
		a.log.Warn("version check failed", zap.Error(err))
	} else if updated {
		status = fmt.Sprintf("updated from %s to %s", prev, snapshot.Version)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := session.New(doc, session.WithLogger(a.log), session.WithAutoChain(!*noChain))
	opts := []terminal.Option{terminal.WithLogger(a.log), terminal.WithStatus(status)}
	if demoScript != nil {
		player := demo.NewPlayer(screen.PostEvent)
		opts = append(opts, terminal.OnReady(func() {
			go func() {
				if err := player.Play(ctx, demoScript); err != nil && ctx.Err() == nil {
					a.log.Warn("demo stopped", zap.Error(err))
				}
			}()
		}))
	}
	ui := terminal.New(screen, sess, opts...)
	if *watch {
		fsStore, ok := a.store.(*store.FileStore)
		if !ok {
			return fmt.Errorf("-watch needs the file store, not %q", a.cfg.Store.Backend)
		}
		go a.watch(ctx, fsStore, ui)
	}
	return ui.Run(ctx)
}

// watch forwards documents written by other processes to the UI.
func (a *app) watch(ctx context.Context, fs *store.FileStore, ui *terminal.UI) {
	err := fs.Watch(ctx, a.cfg.Keys.Document, func(data []byte) {
		if a.saver.IsOwnWrite(data) {
			return
		}
		env, err := snapshot.Decode(data)
		if err != nil {
			a.log.Warn("ignoring unreadable external change", zap.Error(err))
			return
		}
		if err := ui.Reload(env.Data); err != nil {
			a.log.Warn("reload dropped", zap.Error(err))
		}
	})
	if err != nil {
		a.log.Error("watch stopped", zap.Error(err))
	}
}
