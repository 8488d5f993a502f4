// Package layout maps a prefix-code tree to renderer-agnostic 2D geometry.
//
// # Overview
//
// [Build] walks a [huffman.Node] tree once, in pre-order, and produces a
// [Layout]: one [Node] per tree node with pixel coordinates and a display
// label, and one [Edge] per parent/child pair with its endpoints, length
// and angle. Drawing is left to the caller; see pkg/render/sink for SVG and
// JSON output.
//
//	root, _ := huffman.Build(table)
//	l, err := layout.Build(root,
//	    layout.WithScale(80),
//	    layout.WithMargins(50, 50),
//	)
//
// # Identity
//
// Node IDs are the path from the root: "n" for the root, then one digit per
// step, 0 for left and 1 for right ("n01" is the right child of the root's
// left child). Leaf IDs therefore embed the leaf's codeword. IDs are
// computed during the traversal together with an index from ID to position
// in [Layout.Nodes]; nothing is ever looked up by scanning.
//
// # Positioning
//
// The root sits at unit position 0. A node at depth d places its left child
// at x - spacing(d) and its right child at x + spacing(d). The spacing
// function is configurable with [WithSpacing]; the default
// [HalvingSpacing] (4, 2, 1, 0.5, ...) keeps sibling subtrees apart at any
// depth. [WithLeafSlots] switches to a policy that gives every leaf its own
// column and centers each internal node over its children.
//
// After all positions are known the layout is shifted so that the leftmost
// node lands exactly on the left margin:
//
//	X = (x - minX) * Scale + MarginX
//	Y = depth * LevelHeight + MarginY
//
// # Labels
//
// Leaves are labeled "'a': 3". Symbols that would be invisible or ambiguous
// are replaced with a placeholder (see [SymbolText]). Internal nodes are
// labeled with their frequency alone.
package layout
