package huffman

import (
	"errors"
	"slices"
	"sort"
)

// ErrInvalidTree is returned when a tree is absent or structurally broken:
// a nil root, an internal node with a single child, or an internal node
// whose frequency is not the sum of its children's.
var ErrInvalidTree = errors.New("invalid tree")

// Node is a node of a prefix-code tree. It is a tagged union: a leaf carries
// a Symbol and has no children, an internal node has exactly two children
// and a frequency equal to the sum of theirs.
//
// Every node is owned by exactly one parent (or by the caller, for the
// root). Trees returned by [Build] must not be mutated.
type Node struct {
	Symbol Symbol // Leaf symbol; zero for internal nodes
	Freq   int    // Occurrence count (leaf) or sum of children (internal)
	Left   *Node  // Child reached with bit 0; nil for leaves
	Right  *Node  // Child reached with bit 1; nil for leaves
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Build merges the entries of table into an optimal prefix-code tree and
// returns its root. It returns ErrEmptyInput for a nil or empty table.
//
// A table with a single entry yields that leaf as the root.
func Build(table *FrequencyTable) (*Node, error) {
	if table.Len() == 0 {
		return nil, ErrEmptyInput
	}

	pending := make([]*Node, 0, table.Len())
	for _, e := range table.entries {
		pending = append(pending, &Node{Symbol: e.Symbol, Freq: e.Count})
	}
	slices.SortStableFunc(pending, func(a, b *Node) int {
		return a.Freq - b.Freq
	})

	for len(pending) > 1 {
		left, right := pending[0], pending[1]
		pending = pending[2:]

		merged := &Node{Freq: left.Freq + right.Freq, Left: left, Right: right}
		pending = insertAfterEqual(pending, merged)
	}
	return pending[0], nil
}

// insertAfterEqual inserts n into the ascending slice ns behind every node
// whose frequency is <= n.Freq.
func insertAfterEqual(ns []*Node, n *Node) []*Node {
	i := sort.Search(len(ns), func(i int) bool { return ns[i].Freq > n.Freq })
	return slices.Insert(ns, i, n)
}

// Validate checks the structural invariants of the tree rooted at root.
func Validate(root *Node) error {
	if root == nil {
		return ErrInvalidTree
	}
	return validate(root)
}

func validate(n *Node) error {
	if n.IsLeaf() {
		if n.Freq <= 0 {
			return ErrInvalidTree
		}
		return nil
	}
	if n.Left == nil || n.Right == nil {
		return ErrInvalidTree
	}
	if n.Freq != n.Left.Freq+n.Right.Freq {
		return ErrInvalidTree
	}
	if err := validate(n.Left); err != nil {
		return err
	}
	return validate(n.Right)
}

// Leaves returns the leaves of the tree from left to right.
func Leaves(root *Node) []*Node {
	var out []*Node
	walk(root, 0, func(n *Node, _ int) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}

// CountNodes returns the number of leaves and internal nodes of the tree.
func CountNodes(root *Node) (leaves, internal int) {
	walk(root, 0, func(n *Node, _ int) {
		if n.IsLeaf() {
			leaves++
		} else {
			internal++
		}
	})
	return leaves, internal
}

// Depth returns the length of the longest root-to-leaf path.
// A single-leaf tree has depth 0.
func Depth(root *Node) int {
	depth := 0
	walk(root, 0, func(_ *Node, d int) {
		depth = max(depth, d)
	})
	return depth
}

// WeightedPathLength returns Σ leaf.Freq × depth(leaf). This is the quantity
// [Build] minimizes and, for a tree built from a sequence, the number of bits
// needed to encode it (except for the single-leaf case, see [CodeLengths]).
func WeightedPathLength(root *Node) int {
	total := 0
	walk(root, 0, func(n *Node, d int) {
		if n.IsLeaf() {
			total += n.Freq * d
		}
	})
	return total
}

// Equal reports whether a and b have the same shape, symbols and
// frequencies.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Symbol != b.Symbol || a.Freq != b.Freq {
		return false
	}
	return Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
}

// walk visits the tree in pre-order, left before right.
func walk(n *Node, depth int, fn func(*Node, int)) {
	if n == nil {
		return
	}
	fn(n, depth)
	walk(n.Left, depth+1, fn)
	walk(n.Right, depth+1, fn)
}
