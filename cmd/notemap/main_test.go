package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notemap/config"
	"notemap/snapshot"
	"notemap/store"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := "store:\n  backend: file\n  path: " + filepath.Join(dir, "store") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"-config", writeConfig(t), "bogus"})
	assert.ErrorContains(t, err, `unknown command "bogus"`)
}

func TestExportStartsFromDefaultDocument(t *testing.T) {
	cfg := writeConfig(t)
	out := filepath.Join(t.TempDir(), "map.json")

	require.NoError(t, run(context.Background(), []string{"-config", cfg, "export", "-format", "json", "-o", out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	env, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Version, env.Version)
	require.Len(t, env.Data.Nodes, 1)
	assert.Equal(t, "中心ノード", env.Data.Nodes[0].Text)
}

func TestImportThenExport(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()

	s := snapshot.New()
	s.Title = "Garden"
	s.Nodes = []snapshot.NodeState{
		{ID: 1, Text: "Garden", X: 100, Y: 100},
		{ID: 2, Text: "Tomatoes", X: 300, Y: 100},
	}
	s.Connections = []snapshot.ConnectionState{
		{FromID: snapshot.IntPtr(1), ToID: snapshot.IntPtr(2)},
	}
	data, err := snapshot.Encode(snapshot.Wrap(s), true)
	require.NoError(t, err)
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, data, 0o644))

	require.NoError(t, run(context.Background(), []string{"-config", cfg, "import", "-in", in}))

	out := filepath.Join(dir, "out.json")
	require.NoError(t, run(context.Background(), []string{"-config", cfg, "export", "-format", "json", "-o", out}))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	env, err := snapshot.Decode(got)
	require.NoError(t, err)
	require.Len(t, env.Data.Nodes, 2)
	assert.Equal(t, "Tomatoes", env.Data.Nodes[1].Text)
	assert.Len(t, env.Data.Connections, 1)
}

func TestImportNeedsASource(t *testing.T) {
	err := run(context.Background(), []string{"-config", writeConfig(t), "import"})
	assert.ErrorContains(t, err, "one of -in, -clipboard or -url is required")
}

func TestShareLink(t *testing.T) {
	err := run(context.Background(), []string{"-config", writeConfig(t), "share", "-json", "https://example.com/map.json"})
	assert.ErrorContains(t, err, "-base is required")

	err = run(context.Background(), []string{"-config", writeConfig(t), "share",
		"-base", "https://viewer.example.com/", "-json", "https://example.com/map.json"})
	assert.NoError(t, err)
}

func TestImportMermaid(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "plan.mmd")
	require.NoError(t, os.WriteFile(in, []byte("graph TD\n  A[Trip] --> B[Tickets]\n"), 0o644))

	require.NoError(t, run(context.Background(), []string{"-config", cfg, "import", "-in", in}))

	out := filepath.Join(dir, "out.json")
	require.NoError(t, run(context.Background(), []string{"-config", cfg, "export", "-format", "json", "-o", out}))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	env, err := snapshot.Decode(got)
	require.NoError(t, err)
	require.Len(t, env.Data.Nodes, 2)
	assert.Equal(t, "Trip", env.Data.Title)
	assert.Equal(t, "Tickets", env.Data.Nodes[1].Text)
}

func TestExportIntoMarkdown(t *testing.T) {
	cfg := writeConfig(t)
	readme := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# Map\n\n```mermaid\ngraph TD\n  old\n```\n"), 0o644))

	require.NoError(t, run(context.Background(), []string{"-config", cfg, "export", "-format", "mermaid", "-into", readme}))

	got, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Contains(t, string(got), "# Map\n\n```mermaid\ngraph TD\n    N1[\"中心ノード\"]\n```\n")

	err = run(context.Background(), []string{"-config", cfg, "export", "-format", "dot", "-into", readme})
	assert.ErrorContains(t, err, "has 0 dot block(s)")

	require.NoError(t, run(context.Background(), []string{"-config", cfg, "import", "-in", readme}))
}

func TestNewRecoversFromBrokenDocument(t *testing.T) {
	cfgPath := writeConfig(t)
	ctx := context.Background()

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	st, err := store.Open(cfg.Store)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, cfg.Keys.Document, []byte("{broken")))
	require.NoError(t, st.Close())

	out := filepath.Join(t.TempDir(), "map.json")
	err = run(ctx, []string{"-config", cfgPath, "export", "-format", "json", "-o", out})
	assert.ErrorContains(t, err, "restore document")
	assert.ErrorContains(t, err, "notemap new")

	require.NoError(t, run(ctx, []string{"-config", cfgPath, "new"}))
	require.NoError(t, run(ctx, []string{"-config", cfgPath, "export", "-format", "json", "-o", out}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	env, err := snapshot.Decode(data)
	require.NoError(t, err)
	require.Len(t, env.Data.Nodes, 1)
	assert.Equal(t, "中心ノード", env.Data.Nodes[0].Text)
}

func TestNewDiscardsSavedDocument(t *testing.T) {
	cfg := writeConfig(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "plan.mmd")
	require.NoError(t, os.WriteFile(in, []byte("graph TD\n  A[Trip] --> B[Tickets]\n"), 0o644))
	require.NoError(t, run(context.Background(), []string{"-config", cfg, "import", "-in", in}))

	require.NoError(t, run(context.Background(), []string{"-config", cfg, "new"}))

	out := filepath.Join(dir, "out.json")
	require.NoError(t, run(context.Background(), []string{"-config", cfg, "export", "-format", "json", "-o", out}))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	env, err := snapshot.Decode(got)
	require.NoError(t, err)
	require.Len(t, env.Data.Nodes, 1)
	assert.Empty(t, env.Data.Connections)
}
