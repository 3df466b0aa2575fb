package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"notemap/demo"
	"notemap/export"
	"notemap/importer"
	"notemap/markdown"
	"notemap/share"
	"notemap/snapshot"
)

func runExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "markdown", "Export format, or 'all' (see below)")
	output := fs.String("o", "", "Output file (default: stdout)")
	dir := fs.String("dir", "notemap-export", "Output directory for -format all")
	input := fs.String("in", "", "Export this JSON document instead of the saved one")
	into := fs.String("into", "", "Replace a mermaid or dot code block in this Markdown file")
	block := fs.Int("block", 1, "Which matching code block to replace with -into (1-based)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: notemap export [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		desc := export.GetFormatDescriptions()
		for _, f := range export.GetAvailableFormats() {
			fmt.Fprintf(os.Stderr, "  %-9s %s\n", f, desc[f])
		}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := a.openDocument(ctx, false)
	if err != nil {
		return err
	}
	if *input != "" {
		env, err := readEnvelope(*input)
		if err != nil {
			return err
		}
		doc.Reset(env.Data)
	}

	if *format == "all" {
		base := strings.TrimSpace(doc.Title())
		if base == "" {
			base = "notemap"
		}
		paths, err := export.ExportAll(ctx, doc, *dir, base, export.GetAvailableFormats())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	data, err := export.Export(doc, f)
	if err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	if *into != "" {
		return writeInto(*into, *block, f, data)
	}
	if *output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.log.Info("exported", zap.String("format", string(f)), zap.String("path", *output), zap.Int("bytes", len(data)))
	return nil
}

// writeInto replaces the n-th code block of the format's language in a
// Markdown file.
func writeInto(path string, n int, f export.Format, data []byte) error {
	if f != export.FormatMermaid && f != export.FormatDOT {
		return fmt.Errorf("-into needs -format mermaid or dot, not %s", f)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	sc := markdown.NewScanner(string(src))
	var matching []markdown.DiagramBlock
	for _, b := range sc.FindDiagramBlocks() {
		if (b.Type == "mermaid") == (f == export.FormatMermaid) {
			matching = append(matching, b)
		}
	}
	if n < 1 || n > len(matching) {
		return fmt.Errorf("%s has %d %s block(s), cannot replace block %d", path, len(matching), f, n)
	}
	out, err := sc.ReplaceBlock(matching[n-1], string(data))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Printf("Updated %s\n", markdown.FormatBlockInfo(matching[n-1], n-1))
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	input := fs.String("in", "", "Read a JSON document, Mermaid flowchart (.mmd) or DOT graph (.dot) ('-' for stdin JSON)")
	fromClipboard := fs.Bool("clipboard", false, "Read the JSON document from the clipboard")
	link := fs.String("url", "", "Fetch the JSON document from a share link or a direct URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		env *snapshot.Envelope
		err error
	)
	switch {
	case *input != "":
		env, err = readImport(*input)
	case *fromClipboard:
		var text string
		if text, err = clipboard.ReadAll(); err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		env, err = snapshot.Decode([]byte(text))
	case *link != "":
		env, err = fetchEnvelope(ctx, a, *link)
	default:
		return errors.New("one of -in, -clipboard or -url is required")
	}
	if err != nil {
		return err
	}

	doc, err := a.openDocument(ctx, true)
	if err != nil {
		return err
	}
	doc.Load(env.Data)
	fmt.Printf("Imported %d nodes and %d connections (format %s)\n",
		len(doc.Nodes()), len(doc.Connections()), env.Version)
	return nil
}

// fetchEnvelope accepts either a share link carrying a json parameter or
// the document URL itself.
func fetchEnvelope(ctx context.Context, a *app, link string) (*snapshot.Envelope, error) {
	f := share.NewFetcher(a.cfg.Share.FetchTimeout, a.cfg.Share.MaxBytes, share.WithFetchLogger(a.log))
	if _, err := share.SourceURL(link); errors.Is(err, share.ErrNoSource) {
		return f.Fetch(ctx, link)
	}
	return f.FetchLink(ctx, link)
}

// readImport reads a JSON document, or converts a diagram when the file
// extension belongs to one of the importers.
func readImport(path string) (*snapshot.Envelope, error) {
	ext := strings.ToLower(filepath.Ext(path))
	registry := importer.NewImporterRegistry()
	imp, ok := registry.ForExtension(ext)
	if !ok && ext != ".md" && ext != ".markdown" {
		return readEnvelope(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)
	if !ok {
		blocks := markdown.NewScanner(content).FindDiagramBlocks()
		if len(blocks) == 0 {
			return nil, fmt.Errorf("%s: no mermaid or dot code block", path)
		}
		content = blocks[0].Content
		if imp, err = registry.DetectFormat(content); err != nil {
			return nil, fmt.Errorf("%s: %s block: %w", path, blocks[0].Type, err)
		}
	}
	s, err := imp.Import(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", path, imp.GetFormatName(), err)
	}
	return &snapshot.Envelope{Version: imp.GetFormatName(), Data: s}, nil
}

func readEnvelope(path string) (*snapshot.Envelope, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	env, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

func runShare(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	jsonURL := fs.String("json", "", "Public URL of the JSON document")
	base := fs.String("base", a.cfg.Share.BaseURL, "Viewer URL the link points at")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *jsonURL == "" {
		return errors.New("-json is required")
	}
	if *base == "" {
		return errors.New("-base is required when share.base_url is not configured")
	}
	link, err := share.Link(*base, *jsonURL)
	if err != nil {
		return err
	}
	fmt.Println(link)
	return nil
}

func runServe(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", a.cfg.Share.Listen, "Address to listen on")
	public := fs.String("public-url", "", "Externally visible base URL of this server")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts := []share.ServerOption{
		share.WithServerLogger(a.log),
		share.WithLinkBase(a.cfg.Share.BaseURL),
		share.WithMaxBytes(a.cfg.Share.MaxBytes),
	}
	if *public != "" {
		opts = append(opts, share.WithPublicURL(*public))
	}
	return share.NewServer(a.store, opts...).ListenAndServe(ctx, *listen)
}

func runNew(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	doc, err := a.newDocument(false)
	if err != nil {
		return err
	}
	fmt.Printf("Started a new document with %d node\n", len(doc.Nodes()))
	return nil
}

func runDemo(_ context.Context, _ *app, _ []string) error {
	fmt.Print(demo.GenerateExample())
	return nil
}

func runVersion(ctx context.Context, a *app, _ []string) error {
	fmt.Printf("notemap %s\n", snapshot.Version)
	updated, prev, err := a.saver.CheckVersion(ctx, snapshot.Version)
	if err != nil {
		return err
	}
	if updated {
		fmt.Printf("updated from %s\n", prev)
	}
	return nil
}
