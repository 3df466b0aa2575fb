// Package importer turns diagrams written in other tools' text formats into
// mind-map snapshots. Nodes keep their labels and styles; positions are
// laid out as a left-to-right tree because the sources carry none.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"notemap/diagram"
	"notemap/snapshot"
)

// ErrNoNodes is returned when the content declares no nodes.
var ErrNoNodes = errors.New("no nodes found")

// Importer interface defines methods for importing diagrams from various formats
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import converts the input content into a snapshot
	Import(content string) (*snapshot.Snapshot, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a new importer registry
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{
		importers: []Importer{
			NewMermaidImporter(),
			NewGraphvizImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (*snapshot.Snapshot, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ForExtension returns the importer registered for a file extension such
// as ".mmd".
func (r *ImporterRegistry) ForExtension(ext string) (Importer, bool) {
	ext = strings.ToLower(ext)
	for _, imp := range r.importers {
		for _, e := range imp.GetFileExtensions() {
			if e == ext {
				return imp, true
			}
		}
	}
	return nil, false
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}

// Tree layout spacing in document units.
const (
	originX     = 100
	originY     = 100
	columnWidth = 240
	rowHeight   = 80
)

type edge struct {
	from, to int
	line     diagram.LineType
	dash     diagram.DashType
}

// builder collects nodes by source identifier in declaration order.
type builder struct {
	title string
	nodes []snapshot.NodeState
	index map[string]int
	edges []edge
}

func newBuilder() *builder {
	return &builder{index: make(map[string]int)}
}

// ensure returns the position of key, declaring it with key as its text
// when it is new.
func (b *builder) ensure(key string) int {
	if i, ok := b.index[key]; ok {
		return i
	}
	b.nodes = append(b.nodes, snapshot.NodeState{Text: key, NodeType: diagram.NodeStandard})
	b.index[key] = len(b.nodes) - 1
	return len(b.nodes) - 1
}

func (b *builder) connect(from, to string, line diagram.LineType, dash diagram.DashType) {
	b.edges = append(b.edges, edge{from: b.ensure(from), to: b.ensure(to), line: line, dash: dash})
}

// build lays the nodes out breadth first from the nodes nothing points at
// and numbers them in that order, so the first tree root gets id 1.
func (b *builder) build() (*snapshot.Snapshot, error) {
	if len(b.nodes) == 0 {
		return nil, ErrNoNodes
	}

	children := make([][]int, len(b.nodes))
	incoming := make([]int, len(b.nodes))
	for _, e := range b.edges {
		children[e.from] = append(children[e.from], e.to)
		incoming[e.to]++
	}

	depth := make([]int, len(b.nodes))
	visited := make([]bool, len(b.nodes))
	var order []int
	visit := func(start int) {
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			order = append(order, cur)
			for _, c := range children[cur] {
				if !visited[c] {
					visited[c] = true
					depth[c] = depth[cur] + 1
					queue = append(queue, c)
				}
			}
		}
	}
	for i := range b.nodes {
		if incoming[i] == 0 && !visited[i] {
			visit(i)
		}
	}
	// Whatever is left sits on a cycle.
	for i := range b.nodes {
		if !visited[i] {
			visit(i)
		}
	}

	s := snapshot.New()
	ids := make([]int, len(b.nodes))
	rows := make(map[int]int)
	for _, i := range order {
		n := b.nodes[i]
		n.ID = len(s.Nodes) + 1
		n.X = float64(originX + depth[i]*columnWidth)
		n.Y = float64(originY + rows[depth[i]]*rowHeight)
		rows[depth[i]]++
		ids[i] = n.ID
		s.Nodes = append(s.Nodes, n)
	}
	for _, e := range b.edges {
		s.Connections = append(s.Connections, snapshot.ConnectionState{
			FromID:   snapshot.IntPtr(ids[e.from]),
			ToID:     snapshot.IntPtr(ids[e.to]),
			LineType: e.line,
			DashType: e.dash,
		})
	}
	s.Title = b.title
	if s.Title == "" {
		s.Title = strings.SplitN(s.Nodes[0].Text, "\n", 2)[0]
	}
	if err := snapshot.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}
