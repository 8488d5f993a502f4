package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/huffman/layout"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Tree ("tree"):
//	  - Nodes, Edges: positioned nodes and edges from pkg/huffman/layout
//	  - Scale, LevelHeight, MarginX/Y, AnchorOffset: geometry used
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Width and Height are always set for tree layouts. For the internal
// representation see layout.Layout; use FromLayout and ToLayout to convert.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Tree-specific
	Nodes        []Node  `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges        []Edge  `json:"edges,omitempty" bson:"edges,omitempty"`
	Scale        float64 `json:"scale,omitempty" bson:"scale,omitempty"`
	LevelHeight  float64 `json:"level_height,omitempty" bson:"level_height,omitempty"`
	MarginX      float64 `json:"margin_x,omitempty" bson:"margin_x,omitempty"`
	MarginY      float64 `json:"margin_y,omitempty" bson:"margin_y,omitempty"`
	AnchorOffset float64 `json:"anchor_offset,omitempty" bson:"anchor_offset,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsTree returns true if this is a positioned tree layout.
func (l *Layout) IsTree() bool { return l.VizType == VizTypeTree }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// FromLayout converts a computed layout to its serialization format.
func FromLayout(l layout.Layout) Layout {
	out := Layout{
		VizType:      VizTypeTree,
		Width:        l.Width,
		Height:       l.Height,
		Nodes:        make([]Node, len(l.Nodes)),
		Edges:        make([]Edge, len(l.Edges)),
		Scale:        l.Scale,
		LevelHeight:  l.LevelHeight,
		MarginX:      l.MarginX,
		MarginY:      l.MarginY,
		AnchorOffset: l.AnchorOffset,
	}
	for i, n := range l.Nodes {
		node := Node{
			ID:      n.ID,
			Label:   n.Label,
			Depth:   n.Depth,
			X:       n.X,
			Y:       n.Y,
			AnchorX: n.Anchor.X,
			AnchorY: n.Anchor.Y,
			Freq:    n.Freq,
			Leaf:    n.Leaf,
			Code:    n.Path,
		}
		if n.Leaf {
			node.Symbol = n.Symbol.String()
		}
		out.Nodes[i] = node
	}
	for i, e := range l.Edges {
		out.Edges[i] = Edge{
			From: e.From, To: e.To, Bit: e.Bit,
			X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2,
			Length: e.Length, Angle: e.Angle,
		}
	}
	return out
}

// ToLayout converts a serialized tree layout back to the internal
// representation, rebuilding the ID index and edge endpoints' indexes.
func ToLayout(l Layout) (layout.Layout, error) {
	if !l.IsTree() {
		return layout.Layout{}, fmt.Errorf("viz type %q has no positioned nodes", l.VizType)
	}
	out := layout.Layout{
		Nodes:        make([]layout.Node, len(l.Nodes)),
		Edges:        make([]layout.Edge, len(l.Edges)),
		Index:        make(map[string]int, len(l.Nodes)),
		Width:        l.Width,
		Height:       l.Height,
		Scale:        l.Scale,
		LevelHeight:  l.LevelHeight,
		MarginX:      l.MarginX,
		MarginY:      l.MarginY,
		AnchorOffset: l.AnchorOffset,
	}
	for i, n := range l.Nodes {
		if _, dup := out.Index[n.ID]; dup {
			return layout.Layout{}, fmt.Errorf("duplicate node %s", n.ID)
		}
		out.Index[n.ID] = i
		node := layout.Node{
			ID:     n.ID,
			Index:  i,
			Path:   n.Code,
			Depth:  n.Depth,
			X:      n.X,
			Y:      n.Y,
			Anchor: layout.Point{X: n.AnchorX, Y: n.AnchorY},
			Label:  n.Label,
			Leaf:   n.Leaf,
			Freq:   n.Freq,
		}
		if n.Leaf {
			r, _ := utf8.DecodeRuneInString(n.Symbol)
			node.Symbol = huffman.Symbol(r)
		}
		out.Nodes[i] = node
		out.MaxDepth = max(out.MaxDepth, n.Depth)
	}
	for i, e := range l.Edges {
		from, ok := out.Index[e.From]
		if !ok {
			return layout.Layout{}, fmt.Errorf("edge %s→%s: unknown node %s", e.From, e.To, e.From)
		}
		to, ok := out.Index[e.To]
		if !ok {
			return layout.Layout{}, fmt.Errorf("edge %s→%s: unknown node %s", e.From, e.To, e.To)
		}
		out.Edges[i] = layout.Edge{
			From: e.From, To: e.To, FromIndex: from, ToIndex: to, Bit: e.Bit,
			X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2,
			Length: e.Length, Angle: e.Angle,
		}
	}
	return out, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeTree
	}

	switch {
	case l.IsTree() && len(l.Nodes) == 0:
		return Layout{}, fmt.Errorf("tree layout must contain nodes")
	case l.IsNodelink() && l.DOT == "":
		return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
	case !l.IsTree() && !l.IsNodelink():
		return Layout{}, fmt.Errorf("unknown viz type %q", l.VizType)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
