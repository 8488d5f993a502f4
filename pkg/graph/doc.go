// Package graph provides serialization types for prefix-code trees and their
// layouts.
//
// This package defines the canonical wire format for huffviz data, used for
// JSON files, API responses, caching, and artifact storage.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Tree], [Frequency], [Layout]: Serialization types (this package)
//   - pkg/huffman.Node: Internal tree representation
//   - pkg/huffman/layout.Layout: Internal layout (positions, edges, index)
//
// Use [FromTree]/[ToTree], [FromTable]/[ToTable] and [FromLayout]/[ToLayout]
// to convert between them.
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeTree       // "tree"
//	graph.VizTypeNodelink   // "nodelink"
//
// # Tree Serialization
//
// Trees use a nested JSON format. Leaves carry a symbol, internal nodes
// carry both children:
//
//	{
//	  "freq": 3,
//	  "left": {"symbol": "a", "freq": 2},
//	  "right": {"symbol": "b", "freq": 1}
//	}
//
// Common operations:
//
//	root, _ := graph.ReadTreeFile("tree.json")  // File → tree
//	graph.WriteTreeFile(root, "tree.json")      // tree → File
//	data, _ := graph.MarshalTree(root)          // tree → []byte
//
// Decoded trees are validated; malformed input yields an error wrapping
// huffman.ErrInvalidTree.
//
// # Layout Serialization
//
// Layouts are discriminated by VizType:
//
//	l, _ := graph.UnmarshalLayout(data)
//	if l.IsTree() {
//	    // Use l.Nodes and l.Edges
//	} else {
//	    // Use l.DOT for Graphviz rendering
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
