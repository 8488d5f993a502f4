// Package sink provides output format renderers for tree layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format.
// This package provides renderers for:
//
//   - SVG: Scalable vector graphics drawn at the layout's coordinates
//   - JSON: Layout data export in the graph.Layout wire format
//   - PDF: Print-ready output (requires rsvg-convert)
//   - PNG: Raster image output (requires rsvg-convert)
//
// # SVG Output
//
//	svg := sink.RenderSVG(l,
//	    sink.WithStyle(styles.Outline{}),
//	    sink.WithBits(),
//	    sink.WithCodes(),
//	)
//
// Options:
//
//   - [WithStyle]: Visual style ([styles.Simple] or [styles.Outline])
//   - [WithBits]: Label edges with 0 and 1
//   - [WithCodes]: Print codewords below the leaves
//   - [WithTitle]: Add an SVG <title>
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] first generate SVG, then convert via
// [render.ToPDF] and [render.ToPNG]. These require librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
package sink
