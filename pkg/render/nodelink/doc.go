// Package nodelink renders prefix-code trees as Graphviz node-link diagrams.
//
// # Overview
//
// Where pkg/render/sink draws a tree at the coordinates computed by
// pkg/huffman/layout, this package hands the tree to Graphviz and lets its
// "dot" engine position it. Leaves appear as boxes, internal nodes as
// circles.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Bits: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
