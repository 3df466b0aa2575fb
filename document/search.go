package document

import (
	"github.com/sahilm/fuzzy"

	"notemap/diagram"
)

// Search returns the nodes whose raw text fuzzily matches query, best match
// first. An empty query matches nothing.
func (d *Document) Search(query string) []*diagram.Node {
	if query == "" || len(d.nodes) == 0 {
		return nil
	}
	texts := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		texts[i] = n.Text
	}
	matches := fuzzy.Find(query, texts)
	out := make([]*diagram.Node, len(matches))
	for i, m := range matches {
		out[i] = d.nodes[m.Index]
	}
	return out
}
