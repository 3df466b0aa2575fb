package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"notemap/document"
)

// Export renders d in one format.
func Export(d *document.Document, format Format) ([]byte, error) {
	exp, err := NewExporter(format)
	if err != nil {
		return nil, err
	}
	return exp.Export(d)
}

// ExportAll writes d in every given format to dir, naming each file base
// plus the format's extension. Formats are rendered concurrently; d must
// not change until ExportAll returns. The written paths come back in the
// order of formats.
func ExportAll(ctx context.Context, d *document.Document, dir, base string, formats []Format) ([]string, error) {
	exporters := make([]Exporter, len(formats))
	for i, f := range formats {
		exp, err := NewExporter(f)
		if err != nil {
			return nil, err
		}
		exporters[i] = exp
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	paths := make([]string, len(formats))
	g, ctx := errgroup.WithContext(ctx)
	for i, exp := range exporters {
		exp := exp
		path := filepath.Join(dir, base+exp.GetFileExtension())
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := exp.Export(d)
			if err != nil {
				return fmt.Errorf("%s: %w", exp.GetFormatName(), err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("%s: %w", exp.GetFormatName(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
