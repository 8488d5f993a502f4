package graph

import (
	"fmt"
	"unicode/utf8"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeTree     = "tree"
	VizTypeNodelink = "nodelink"
)

// =============================================================================
// Tree - Prefix-Code Tree Serialization
// =============================================================================

// Tree is the nested serialization format of a prefix-code tree. Leaves
// carry a one-rune Symbol; internal nodes carry both children and no symbol.
//
// The shape mirrors huffman.Node so the tree can be rendered directly by a
// client without a separate edge list.
type Tree struct {
	Symbol string `json:"symbol,omitempty" bson:"symbol,omitempty"`
	Freq   int    `json:"freq" bson:"freq"`
	Left   *Tree  `json:"left,omitempty" bson:"left,omitempty"`
	Right  *Tree  `json:"right,omitempty" bson:"right,omitempty"`
}

// IsLeaf returns true if t has no children.
func (t *Tree) IsLeaf() bool { return t.Left == nil && t.Right == nil }

// FromTree converts a tree to its serialization format.
// A nil root yields nil.
func FromTree(n *huffman.Node) *Tree {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return &Tree{Symbol: n.Symbol.String(), Freq: n.Freq}
	}
	return &Tree{Freq: n.Freq, Left: FromTree(n.Left), Right: FromTree(n.Right)}
}

// ToTree converts a serialized tree back and validates it.
// Returns an error wrapping huffman.ErrInvalidTree for malformed input.
func ToTree(t *Tree) (*huffman.Node, error) {
	n, err := toNode(t, "")
	if err != nil {
		return nil, err
	}
	if err := huffman.Validate(n); err != nil {
		return nil, err
	}
	return n, nil
}

func toNode(t *Tree, path string) (*huffman.Node, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: missing node at path %q", huffman.ErrInvalidTree, path)
	}
	if t.IsLeaf() {
		r, size := utf8.DecodeRuneInString(t.Symbol)
		if size == 0 || size != len(t.Symbol) || r == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("%w: leaf at path %q has symbol %q", huffman.ErrInvalidTree, path, t.Symbol)
		}
		return &huffman.Node{Symbol: huffman.Symbol(r), Freq: t.Freq}, nil
	}
	left, err := toNode(t.Left, path+"0")
	if err != nil {
		return nil, err
	}
	right, err := toNode(t.Right, path+"1")
	if err != nil {
		return nil, err
	}
	return &huffman.Node{Freq: t.Freq, Left: left, Right: right}, nil
}

// =============================================================================
// Frequencies - Ordered Frequency Table
// =============================================================================

// Frequency is one (symbol, count) pair.
type Frequency struct {
	Symbol string `json:"symbol" bson:"symbol"`
	Count  int    `json:"count" bson:"count"`
}

// FromTable converts a frequency table to a list in first-occurrence order.
func FromTable(t *huffman.FrequencyTable) []Frequency {
	entries := t.Entries()
	out := make([]Frequency, len(entries))
	for i, e := range entries {
		out[i] = Frequency{Symbol: e.Symbol.String(), Count: e.Count}
	}
	return out
}

// ToTable converts a frequency list back to a table, keeping its order.
func ToTable(fs []Frequency) (*huffman.FrequencyTable, error) {
	entries := make([]huffman.Entry, len(fs))
	for i, f := range fs {
		r, size := utf8.DecodeRuneInString(f.Symbol)
		if size == 0 || size != len(f.Symbol) {
			return nil, fmt.Errorf("%w: symbol %q is not a single rune", huffman.ErrInvalidTable, f.Symbol)
		}
		entries[i] = huffman.Entry{Symbol: huffman.Symbol(r), Count: f.Count}
	}
	return huffman.NewFrequencyTable(entries)
}

// =============================================================================
// Node / Edge - Positioned Layout Elements
// =============================================================================

// Node is a positioned tree node in a Layout.
type Node struct {
	ID      string  `json:"id" bson:"id"`
	Label   string  `json:"label" bson:"label"`
	Depth   int     `json:"depth" bson:"depth"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	AnchorX float64 `json:"anchor_x" bson:"anchor_x"`
	AnchorY float64 `json:"anchor_y" bson:"anchor_y"`
	Freq    int     `json:"freq" bson:"freq"`
	Leaf    bool    `json:"leaf,omitempty" bson:"leaf,omitempty"`
	Symbol  string  `json:"symbol,omitempty" bson:"symbol,omitempty"` // Leaves only
	Code    string  `json:"code,omitempty" bson:"code,omitempty"`     // Path from the root; the codeword for leaves
}

// Edge is a positioned parent/child link in a Layout.
type Edge struct {
	From   string  `json:"from" bson:"from"`
	To     string  `json:"to" bson:"to"`
	Bit    int     `json:"bit" bson:"bit"`
	X1     float64 `json:"x1" bson:"x1"`
	Y1     float64 `json:"y1" bson:"y1"`
	X2     float64 `json:"x2" bson:"x2"`
	Y2     float64 `json:"y2" bson:"y2"`
	Length float64 `json:"length" bson:"length"`
	Angle  float64 `json:"angle" bson:"angle"`
}
