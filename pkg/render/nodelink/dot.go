package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/huffman/layout"
	"github.com/matzehuels/huffviz/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the codeword to leaf labels.
	Detailed bool
	// Bits labels every edge with 0 or 1.
	Bits bool
}

// ToDOT converts a tree to Graphviz DOT format for node-link visualization.
// Node names are the structural IDs used by pkg/huffman/layout ("n", "n0",
// "n01", ...), so the two visualizations can be cross-referenced.
//
// Leaves are drawn as filled boxes and internal nodes as circles. A nil root
// yields an empty graph.
func ToDOT(root *huffman.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var edges []string
	var visit func(n *huffman.Node, path string)
	visit = func(n *huffman.Node, path string) {
		id := "n" + path
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(n, path, opts.Detailed), ", "))
		if n.IsLeaf() {
			return
		}
		for bit, child := range []*huffman.Node{n.Left, n.Right} {
			childPath := path + strconv.Itoa(bit)
			edges = append(edges, fmtEdge(id, "n"+childPath, bit, opts.Bits))
			visit(child, childPath)
		}
	}
	if root != nil {
		visit(root, "")
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			buf.WriteString(e)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *huffman.Node, path string, detailed bool) string {
	label := layout.Label(n)
	if !detailed || !n.IsLeaf() {
		return label
	}
	if path == "" {
		path = "0"
	}
	return label + "\n" + path
}

func fmtAttrs(n *huffman.Node, path string, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, path, detailed))}
	if n.IsLeaf() {
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=\"#dff0d8\"")
	}
	return attrs
}

func fmtEdge(from, to string, bit int, withBit bool) string {
	if withBit {
		return fmt.Sprintf("  %q -> %q [label=\"%d\"];\n", from, to, bit)
	}
	return fmt.Sprintf("  %q -> %q;\n", from, to)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
