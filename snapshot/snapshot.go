// Package snapshot defines the serialized form of a mind map. The JSON
// produced here is the exchange format used for autosave, file export and
// shared links, so field names and order must not change.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"notemap/diagram"
	"notemap/geometry"
	"notemap/validation"
)

// Version is the application version written into every envelope.
const Version = "v1.0.0"

// ErrMalformed marks external input that cannot be applied.
var ErrMalformed = errors.New("malformed document")

// NodeState is a node by value.
type NodeState struct {
	ID       int              `json:"id" validate:"min=1"`
	Text     string           `json:"text"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	NodeType diagram.NodeType `json:"nodeType"`
	BoldText bool             `json:"boldText"`
}

// ConnectionState references its nodes by id. Each side carries either an
// id or a coordinate; both may be null for a side that could not be resolved.
type ConnectionState struct {
	FromID    *int             `json:"fromId"`
	ToID      *int             `json:"toId"`
	FromCoord *geometry.Point  `json:"fromCoord"`
	ToCoord   *geometry.Point  `json:"toCoord"`
	LineType  diagram.LineType `json:"lineType"`
	DashType  diagram.DashType `json:"dashType"`
}

// Snapshot is the whole document: content, view and style defaults.
type Snapshot struct {
	Title           string            `json:"title"`
	Nodes           []NodeState       `json:"nodes" validate:"unique=ID,dive"`
	Connections     []ConnectionState `json:"connections"`
	GlobalPan       geometry.Point    `json:"globalPan"`
	GlobalZoom      float64           `json:"globalZoom" validate:"gt=0"`
	DefaultNodeType diagram.NodeType  `json:"defaultNodeType"`
	DefaultLineType diagram.LineType  `json:"defaultLineType"`
	DefaultDashType diagram.DashType  `json:"defaultDashType"`
}

// Envelope wraps a snapshot with the version that wrote it.
type Envelope struct {
	Version string    `json:"version"`
	Data    *Snapshot `json:"data"`
}

// Wrap returns s in an envelope stamped with the current Version.
func Wrap(s *Snapshot) *Envelope {
	return &Envelope{Version: Version, Data: s}
}

// IntPtr returns a pointer to id, for building connection states.
func IntPtr(id int) *int {
	return &id
}

// Defaults returns the style defaults carried by s.
func (s *Snapshot) Defaults() diagram.Defaults {
	return diagram.Defaults{
		NodeType: s.DefaultNodeType,
		LineType: s.DefaultLineType,
		DashType: s.DefaultDashType,
	}
}

// Clone returns a deep copy of s.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Nodes = append([]NodeState(nil), s.Nodes...)
	c.Connections = make([]ConnectionState, len(s.Connections))
	for i, cs := range s.Connections {
		c.Connections[i] = ConnectionState{
			FromID:    cloneInt(cs.FromID),
			ToID:      cloneInt(cs.ToID),
			FromCoord: clonePoint(cs.FromCoord),
			ToCoord:   clonePoint(cs.ToCoord),
			LineType:  cs.LineType,
			DashType:  cs.DashType,
		}
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func clonePoint(p *geometry.Point) *geometry.Point {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Equal reports whether two snapshots describe the same document. Nil and
// empty collections compare equal.
func Equal(a, b *Snapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(s *Snapshot) *Snapshot {
	c := s.Clone()
	if len(c.Nodes) == 0 {
		c.Nodes = nil
	}
	if len(c.Connections) == 0 {
		c.Connections = nil
	}
	return c
}

// Validate checks the structural rules that JSON decoding cannot express.
func Validate(s *Snapshot) error {
	if err := validation.Struct(s); err != nil {
		return err
	}
	var errs validation.Errors
	for i, c := range s.Connections {
		if c.FromID != nil && *c.FromID < 1 {
			errs.Add(fmt.Sprintf("connections[%d].fromId", i), "must be at least 1")
		}
		if c.ToID != nil && *c.ToID < 1 {
			errs.Add(fmt.Sprintf("connections[%d].toId", i), "must be at least 1")
		}
	}
	return errs.Err()
}

// New returns an empty snapshot with the session default styles.
func New() *Snapshot {
	d := diagram.DefaultStyles()
	return &Snapshot{
		Nodes:           []NodeState{},
		Connections:     []ConnectionState{},
		GlobalZoom:      1,
		DefaultNodeType: d.NodeType,
		DefaultLineType: d.LineType,
		DefaultDashType: d.DashType,
	}
}

// Decode parses an envelope, or a bare snapshot with a top-level "nodes"
// array, and validates it. Any failure wraps ErrMalformed and nothing is
// returned, so callers never apply a partial document. Fields missing from
// the input keep the values of New.
func Decode(data []byte) (*Envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	env := &Envelope{}
	raw := json.RawMessage(data)
	if d, ok := fields["data"]; ok {
		if v, ok := fields["version"]; ok {
			if err := json.Unmarshal(v, &env.Version); err != nil {
				return nil, fmt.Errorf("%w: version: %w", ErrMalformed, err)
			}
		}
		raw = d
		fields = nil
		if err := json.Unmarshal(d, &fields); err != nil {
			return nil, fmt.Errorf("%w: data: %w", ErrMalformed, err)
		}
	}
	if nodes, ok := fields["nodes"]; !ok || !isArray(nodes) {
		return nil, fmt.Errorf("%w: nodes array is missing", ErrMalformed)
	}

	s := New()
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if s.Connections == nil {
		s.Connections = []ConnectionState{}
	}
	if err := Validate(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	env.Data = s
	return env, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// Encode serializes an envelope. indent selects the two-space layout used
// for files meant to be read by people.
func Encode(env *Envelope, indent bool) ([]byte, error) {
	if env == nil || env.Data == nil {
		return nil, errors.New("encode: empty envelope")
	}
	if indent {
		return json.MarshalIndent(env, "", "  ")
	}
	return json.Marshal(env)
}

// CompareVersions compares dotted versions such as "v1.2.0" numerically.
// A leading "v" is ignored and missing parts count as zero. Non-numeric
// parts count as zero as well.
func CompareVersions(a, b string) int {
	pa := versionParts(a)
	pb := versionParts(b)
	n := max(len(pa), len(pb))
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil
	}
	fields := strings.Split(v, ".")
	out := make([]int, len(fields))
	for i, f := range fields {
		out[i], _ = strconv.Atoi(f)
	}
	return out
}
