// Package diagram contains the node and connection model of a mind map.
package diagram

import (
	"errors"
	"fmt"
)

// ErrUnknownStyle is returned when a style tag names no known variant.
var ErrUnknownStyle = errors.New("unknown style")

// NodeType is the visual variant of a node.
type NodeType int

const (
	NodeStandard NodeType = iota
	NodeTextOnly
	NodeGrey
	NodeRed
	NodeDotted
)

// String returns the persisted tag of a NodeType.
func (t NodeType) String() string {
	switch t {
	case NodeStandard:
		return "standard"
	case NodeTextOnly:
		return "text-only"
	case NodeGrey:
		return "grey"
	case NodeRed:
		return "red"
	case NodeDotted:
		return "dotted"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// Next returns the following variant in the style cycle.
func (t NodeType) Next() NodeType {
	switch t {
	case NodeStandard:
		return NodeTextOnly
	case NodeTextOnly:
		return NodeGrey
	case NodeGrey:
		return NodeRed
	case NodeRed:
		return NodeDotted
	default:
		return NodeStandard
	}
}

// IsThin reports whether lines attached to this variant stop short of the
// box edge instead of touching a visible border.
func (t NodeType) IsThin() bool {
	return t == NodeTextOnly || t == NodeDotted
}

// ParseNodeType parses a node type tag. The empty tag is the standard variant.
func ParseNodeType(s string) (NodeType, error) {
	switch s {
	case "", "standard":
		return NodeStandard, nil
	case "text-only":
		return NodeTextOnly, nil
	case "grey":
		return NodeGrey, nil
	case "red":
		return NodeRed, nil
	case "dotted":
		return NodeDotted, nil
	default:
		return NodeStandard, fmt.Errorf("%w: node type %q", ErrUnknownStyle, s)
	}
}

func (t NodeType) MarshalText() ([]byte, error) {
	if t < NodeStandard || t > NodeDotted {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, t)
	}
	return []byte(t.String()), nil
}

func (t *NodeType) UnmarshalText(b []byte) error {
	v, err := ParseNodeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// LineType controls which ends of a connection carry an arrowhead.
type LineType int

const (
	LineStandard LineType = iota // arrow at the target
	LineNoArrow
	LineReverseArrow // arrow at the source
	LineBothArrow
)

// String returns the persisted tag of a LineType.
func (t LineType) String() string {
	switch t {
	case LineStandard:
		return "standard"
	case LineNoArrow:
		return "no-arrow"
	case LineReverseArrow:
		return "reverse-arrow"
	case LineBothArrow:
		return "both-arrow"
	default:
		return fmt.Sprintf("LineType(%d)", int(t))
	}
}

// Next returns the following variant in the style cycle.
func (t LineType) Next() LineType {
	switch t {
	case LineStandard:
		return LineNoArrow
	case LineNoArrow:
		return LineReverseArrow
	case LineReverseArrow:
		return LineBothArrow
	default:
		return LineStandard
	}
}

// HasStartArrow reports whether an arrowhead is drawn at the source end.
func (t LineType) HasStartArrow() bool {
	return t == LineReverseArrow || t == LineBothArrow
}

// HasEndArrow reports whether an arrowhead is drawn at the target end.
func (t LineType) HasEndArrow() bool {
	return t == LineStandard || t == LineBothArrow
}

// ParseLineType parses a line type tag. The empty tag is the standard variant.
func ParseLineType(s string) (LineType, error) {
	switch s {
	case "", "standard":
		return LineStandard, nil
	case "no-arrow":
		return LineNoArrow, nil
	case "reverse-arrow":
		return LineReverseArrow, nil
	case "both-arrow":
		return LineBothArrow, nil
	default:
		return LineStandard, fmt.Errorf("%w: line type %q", ErrUnknownStyle, s)
	}
}

func (t LineType) MarshalText() ([]byte, error) {
	if t < LineStandard || t > LineBothArrow {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, t)
	}
	return []byte(t.String()), nil
}

func (t *LineType) UnmarshalText(b []byte) error {
	v, err := ParseLineType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// DashType is the stroke pattern of a connection.
type DashType int

const (
	DashSolid DashType = iota
	DashDashed
)

// String returns the persisted tag of a DashType.
func (t DashType) String() string {
	switch t {
	case DashSolid:
		return "solid"
	case DashDashed:
		return "dashed"
	default:
		return fmt.Sprintf("DashType(%d)", int(t))
	}
}

// Next toggles between solid and dashed.
func (t DashType) Next() DashType {
	if t == DashSolid {
		return DashDashed
	}
	return DashSolid
}

// ParseDashType parses a dash type tag. The empty tag is solid.
func ParseDashType(s string) (DashType, error) {
	switch s {
	case "", "solid":
		return DashSolid, nil
	case "dashed":
		return DashDashed, nil
	default:
		return DashSolid, fmt.Errorf("%w: dash type %q", ErrUnknownStyle, s)
	}
}

func (t DashType) MarshalText() ([]byte, error) {
	if t != DashSolid && t != DashDashed {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStyle, t)
	}
	return []byte(t.String()), nil
}

func (t *DashType) UnmarshalText(b []byte) error {
	v, err := ParseDashType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Defaults are the styles applied to newly created nodes and connections.
type Defaults struct {
	NodeType NodeType
	LineType LineType
	DashType DashType
}

// DefaultStyles returns the styles a fresh session starts with.
func DefaultStyles() Defaults {
	return Defaults{NodeType: NodeDotted, LineType: LineStandard, DashType: DashSolid}
}
