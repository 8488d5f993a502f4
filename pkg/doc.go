// Package pkg provides the libraries behind huffviz, a Huffman prefix-code
// tree builder and visualizer.
//
// # Overview
//
// huffviz counts the symbols of a text, merges them into an optimal
// prefix-code tree, places every node of that tree at deterministic pixel
// coordinates and renders the result. The pkg directory is organized as:
//
//  1. [huffman] - Frequency analysis, tree construction and codebooks
//  2. [huffman/layout] - Deterministic top-down tree layout
//  3. [render] - SVG, PNG, PDF, JSON and Graphviz output
//  4. [codec] - Bit-level compression with a self-describing header
//  5. [pipeline] - Orchestration (analyze → build → layout → render) with caching
//  6. [graph] - Serialization types for trees and layouts
//  7. [cache], [artifact] - Result caching and uploaded/produced file storage
//
// # Architecture
//
//	Text
//	  ↓
//	[huffman] AnalyzeString (symbol counts in first-seen order)
//	  ↓
//	[huffman] Build (repeated merge of the two lightest nodes)
//	  ↓
//	[huffman/layout] Build (positions, edge geometry)
//	  ↓
//	[render/sink] SVG/PDF/PNG/JSON, [render/nodelink] DOT
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/huffviz/pkg/huffman"
//	    "github.com/matzehuels/huffviz/pkg/huffman/layout"
//	    "github.com/matzehuels/huffviz/pkg/render/sink"
//	)
//
//	table, _ := huffman.AnalyzeString("abracadabra")
//	root, _ := huffman.Build(table)
//	l, _ := layout.Build(root, layout.WithLeafSlots())
//	svg := sink.RenderSVG(l, sink.WithBits(), sink.WithCodes())
//
// The [pipeline] package wraps these steps behind a cached [pipeline.Runner],
// which is what the huffviz CLI and HTTP server use.
package pkg
