package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"notemap/config"
	"notemap/document"
	"notemap/logging"
	"notemap/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
	console bool
}

var commands = []command{
	{name: "edit", summary: "Edit the saved mind map in the terminal", run: runEdit},
	{name: "export", summary: "Export the mind map to a file format", run: runExport, console: true},
	{name: "new", summary: "Discard the saved mind map and start from the root node", run: runNew, console: true},
	{name: "import", summary: "Replace the mind map with a JSON document", run: runImport, console: true},
	{name: "share", summary: "Build a share link for a published JSON document", run: runShare, console: true},
	{name: "serve", summary: "Run the share server", run: runServe, console: true},
	{name: "demo", summary: "Print an example script for edit -demo", run: runDemo, console: true},
	{name: "version", summary: "Print the version and any update notice", run: runVersion, console: true},
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-config file] [command] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A terminal mind-map editor.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Edit in the terminal\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s edit -watch              # Reload when the store file changes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -format markdown  # Print the outline\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -format all -dir out\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s edit -new                # Start over with an empty map\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -in map.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -url 'https://host/?json=https://host/map.json'\n", os.Args[0])
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notemap", flag.ContinueOnError)
	configPath := fs.String("config", "", "Config file (default: $"+config.EnvConfig+" or ~/.config/notemap/config.yaml)")
	fs.Usage = usage(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	name, rest := "edit", fs.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == name {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fs.Usage()
		return fmt.Errorf("unknown command %q", name)
	}

	a, err := setup(*configPath, cmd.console)
	if err != nil {
		return err
	}
	defer a.close()
	return cmd.run(ctx, a, rest)
}

// app holds what every command needs: configuration, logger and storage.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store store.Store
	saver *store.Autosaver
}

func setup(configPath string, console bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	var log *zap.Logger
	if console {
		log, err = logging.Console(cfg.Log)
	} else {
		log, err = logging.New(cfg.Log)
	}
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("configuration loaded",
		zap.String("source", cfg.Source),
		zap.String("backend", cfg.Store.Backend),
		zap.String("path", cfg.Store.Path))
	return &app{
		cfg:   cfg,
		log:   log,
		store: st,
		saver: store.NewAutosaver(st, store.WithKeys(cfg.Keys), store.WithLogger(log)),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store", zap.Error(err))
	}
	a.log.Sync()
}

func (a *app) documentOptions(autosave bool) ([]document.Option, error) {
	defaults, err := a.cfg.Styles()
	if err != nil {
		return nil, err
	}
	opts := []document.Option{
		document.WithLogger(a.log),
		document.WithDefaults(defaults),
		document.WithHistoryLimit(a.cfg.History.Limit),
	}
	if autosave {
		opts = append(opts, document.WithSink(a.saver))
	}
	return opts, nil
}

// openDocument restores the saved document, or starts a new one with a
// root node when nothing is saved. With autosave set every recorded state
// is written back to the store.
func (a *app) openDocument(ctx context.Context, autosave bool) (*document.Document, error) {
	opts, err := a.documentOptions(autosave)
	if err != nil {
		return nil, err
	}
	s, err := a.saver.Restore(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		a.log.Info("no saved document, starting a new one")
		return document.NewDefault(opts...), nil
	case err != nil:
		return nil, fmt.Errorf("restore document: %w (run 'notemap new' to start over)", err)
	}
	doc := document.New(opts...)
	doc.Reset(s)
	return doc, nil
}

// newDocument replaces the saved document with one holding only the root
// node. Whatever was stored before, readable or not, is overwritten.
func (a *app) newDocument(autosave bool) (*document.Document, error) {
	opts, err := a.documentOptions(false)
	if err != nil {
		return nil, err
	}
	fresh := document.NewDefault(opts...)
	if err := a.saver.Persist(fresh.Envelope()); err != nil {
		return nil, fmt.Errorf("save new document: %w", err)
	}
	a.log.Info("started a new document")
	if !autosave {
		return fresh, nil
	}
	if opts, err = a.documentOptions(true); err != nil {
		return nil, err
	}
	doc := document.New(opts...)
	doc.Reset(fresh.CaptureState())
	return doc, nil
}
