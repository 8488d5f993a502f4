package layout

import (
	"math"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

// Point is a pixel coordinate. Y grows downward.
type Point struct {
	X, Y float64
}

// Node is the rendering-facing projection of a tree node.
type Node struct {
	ID     string // Structural ID: "n" followed by the path from the root
	Index  int    // Position in Layout.Nodes
	Path   string // Left/right path from the root as '0'/'1' digits
	Depth  int    // 0 for the root
	Pos    float64
	X, Y   float64 // Top-left position in pixels
	Anchor Point   // Where edges attach
	Label  string
	Leaf   bool
	Symbol huffman.Symbol // Zero for internal nodes
	Freq   int
}

// Edge connects a parent's anchor to one of its children's anchors.
type Edge struct {
	From, To           string
	FromIndex, ToIndex int
	Bit                int // 0 for the left child, 1 for the right
	X1, Y1, X2, Y2     float64
	Length             float64 // Euclidean distance between the anchors, in pixels
	Angle              float64 // Direction in degrees; 90 points straight down
}

// Layout is the full geometric description of a tree.
type Layout struct {
	Nodes []Node
	Edges []Edge

	// Index maps node IDs to positions in Nodes.
	Index map[string]int

	Width, Height float64
	MaxDepth      int

	Scale        float64
	LevelHeight  float64
	MarginX      float64
	MarginY      float64
	AnchorOffset float64
}

// Node returns the node with the given structural ID.
func (l Layout) Node(id string) (Node, bool) {
	i, ok := l.Index[id]
	if !ok {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// Leaves returns the leaf nodes in traversal (left-to-right) order.
func (l Layout) Leaves() []Node {
	var out []Node
	for _, n := range l.Nodes {
		if n.Leaf {
			out = append(out, n)
		}
	}
	return out
}

// MinX returns the smallest horizontal pixel coordinate of any node.
func (l Layout) MinX() float64 {
	if len(l.Nodes) == 0 {
		return 0
	}
	m := l.Nodes[0].X
	for _, n := range l.Nodes[1:] {
		m = math.Min(m, n.X)
	}
	return m
}

// Build computes the layout of the tree rooted at root.
//
// It returns huffman.ErrInvalidTree if root is nil or violates the tree
// invariants; an absent tree never yields an empty layout.
func Build(root *huffman.Node, opts ...Option) (Layout, error) {
	if err := huffman.Validate(root); err != nil {
		return Layout{}, err
	}

	b := builder{
		cfg:   newConfig(opts...),
		index: make(map[string]int),
	}
	b.place(root, "", 0, 0)
	return b.finish(), nil
}

type builder struct {
	cfg      config
	nodes    []Node
	edges    []Edge
	index    map[string]int
	nextSlot int
}

// place appends n and its subtree in pre-order and returns n's index.
// The two edges of an internal node are appended once both of its
// subtrees are placed.
func (b *builder) place(n *huffman.Node, path string, depth int, x float64) int {
	idx := len(b.nodes)
	id := "n" + path
	b.index[id] = idx
	b.nodes = append(b.nodes, Node{
		ID:     id,
		Index:  idx,
		Path:   path,
		Depth:  depth,
		Pos:    x,
		Label:  Label(n),
		Leaf:   n.IsLeaf(),
		Symbol: n.Symbol,
		Freq:   n.Freq,
	})

	if n.IsLeaf() {
		if b.cfg.leafSlots {
			b.nodes[idx].Pos = float64(b.nextSlot)
			b.nextSlot++
		}
		return idx
	}

	s := b.cfg.spacing(depth)
	left := b.place(n.Left, path+"0", depth+1, x-s)
	right := b.place(n.Right, path+"1", depth+1, x+s)
	if b.cfg.leafSlots {
		b.nodes[idx].Pos = (b.nodes[left].Pos + b.nodes[right].Pos) / 2
	}

	b.edges = append(b.edges,
		Edge{From: id, To: b.nodes[left].ID, FromIndex: idx, ToIndex: left, Bit: 0},
		Edge{From: id, To: b.nodes[right].ID, FromIndex: idx, ToIndex: right, Bit: 1},
	)
	return idx
}

// finish converts unit positions to pixels and fills in edge geometry.
func (b *builder) finish() Layout {
	c := b.cfg

	minPos := b.nodes[0].Pos
	for _, n := range b.nodes {
		minPos = math.Min(minPos, n.Pos)
	}

	l := Layout{
		Nodes:        b.nodes,
		Edges:        b.edges,
		Index:        b.index,
		Scale:        c.scale,
		LevelHeight:  c.levelHeight,
		MarginX:      c.marginX,
		MarginY:      c.marginY,
		AnchorOffset: c.anchorOffset,
	}

	var maxX, maxY float64
	for i := range l.Nodes {
		n := &l.Nodes[i]
		n.X = (n.Pos-minPos)*c.scale + c.marginX
		n.Y = float64(n.Depth)*c.levelHeight + c.marginY
		n.Anchor = Point{X: n.X + c.anchorOffset, Y: n.Y + c.anchorOffset}
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
		l.MaxDepth = max(l.MaxDepth, n.Depth)
	}

	for i := range l.Edges {
		e := &l.Edges[i]
		from, to := l.Nodes[e.FromIndex].Anchor, l.Nodes[e.ToIndex].Anchor
		e.X1, e.Y1 = from.X, from.Y
		e.X2, e.Y2 = to.X, to.Y
		e.Length, e.Angle = Geometry(from, to)
	}

	l.Width = maxX + c.marginX + 2*c.anchorOffset
	l.Height = maxY + c.marginY + 2*c.anchorOffset
	return l
}

// Geometry returns the Euclidean distance from a to b and the direction of
// the segment in degrees.
func Geometry(a, b Point) (length, angle float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Hypot(dx, dy), math.Atan2(dy, dx) * 180 / math.Pi
}
