// Package huffman builds optimal binary prefix-code trees from symbol
// frequencies.
//
// # Overview
//
// The package is the algorithmic core of huffviz. It is a set of pure
// functions: a sequence goes in, a frequency table comes out, and the table
// is merged into a tree that minimizes the weighted path length
// (Σ frequency × depth over all leaves).
//
//	table, err := huffman.AnalyzeString("aaabbc")
//	if err != nil {
//	    return err // huffman.ErrEmptyInput for ""
//	}
//	root, err := huffman.Build(table)
//	codes := huffman.Codebook(root) // a:"0" c:"10" b:"11"
//
// # Tie-Breaking
//
// Leaves are created in the order in which their symbols first appear in the
// input. Pending nodes are kept in ascending frequency order with ties broken
// by that insertion order: the initial sort is stable, and a freshly merged
// node is inserted after every pending node of equal frequency. The two front
// nodes are always merged with the first removed node on the left. The same
// input therefore always produces the same tree and the same codewords.
//
// # Single-Symbol Inputs
//
// When the input has exactly one distinct symbol, no merge happens and the
// leaf is returned as the root. Such a tree has no internal node and its only
// leaf sits at depth 0. [Codebook] and [CodeLengths] special-case this and
// assign the codeword "0" (length 1), so that a codec still emits one bit
// per symbol.
//
// # Concurrency
//
// Nothing in this package holds shared state. Trees are immutable once
// [Build] returns and may be read from any number of goroutines.
package huffman
