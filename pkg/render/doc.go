// Package render provides visualization rendering for prefix-code trees.
//
// # Overview
//
// This package contains the rendering pipeline that transforms computed
// layouts into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Positioned tree drawing (in [sink] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). When the tool is missing
// they return an error wrapping [ErrConverterMissing].
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Tree Drawing
//
// The [sink] subpackage draws a layout from pkg/huffman/layout exactly at the
// computed coordinates; [styles] controls its appearance.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage lets Graphviz position the tree instead:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sink]: github.com/matzehuels/huffviz/pkg/render/sink
// [styles]: github.com/matzehuels/huffviz/pkg/render/styles
// [nodelink]: github.com/matzehuels/huffviz/pkg/render/nodelink
package render
