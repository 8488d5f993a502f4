package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/huffviz/pkg/huffman/layout"
	"github.com/matzehuels/huffviz/pkg/render/styles"
)

// minRadius is used when the layout has no anchor offset to size nodes by.
const minRadius = 20.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style styles.Style
	bits  bool
	codes bool
	title string
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithBits labels every edge with its bit.
func WithBits() SVGOption { return func(r *svgRenderer) { r.bits = true } }

// WithCodes prints each leaf's codeword below it.
func WithCodes() SVGOption { return func(r *svgRenderer) { r.codes = true } }

func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG draws l at its computed coordinates. Nodes are circles centered
// on their anchors with the anchor offset as radius, so an edge runs between
// the two circle centers.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.title))
	}

	r.style.RenderDefs(&buf)
	for _, e := range buildEdges(l, r.bits) {
		r.style.RenderEdge(&buf, e)
	}
	nodes := buildNodes(l, r.codes)
	for _, n := range nodes {
		r.style.RenderNode(&buf, n)
	}
	for _, n := range nodes {
		r.style.RenderText(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = styles.Simple{}
	}
	return r
}

func radius(l layout.Layout) float64 {
	if l.AnchorOffset > 0 {
		return l.AnchorOffset
	}
	return minRadius
}

func buildNodes(l layout.Layout, withCodes bool) []styles.Node {
	r := radius(l)
	out := make([]styles.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		sn := styles.Node{
			ID:    n.ID,
			Label: n.Label,
			CX:    n.Anchor.X,
			CY:    n.Anchor.Y,
			R:     r,
			Leaf:  n.Leaf,
		}
		if withCodes && n.Leaf {
			sn.Code = leafCode(n)
		}
		out[i] = sn
	}
	return out
}

// leafCode returns the codeword of a leaf. A lone root leaf has the
// one-bit code "0".
func leafCode(n layout.Node) string {
	if n.Path == "" {
		return "0"
	}
	return n.Path
}

func buildEdges(l layout.Layout, withBits bool) []styles.Edge {
	out := make([]styles.Edge, len(l.Edges))
	for i, e := range l.Edges {
		out[i] = styles.Edge{
			FromID: e.From, ToID: e.To,
			Bit: e.Bit,
			X1:  e.X1, Y1: e.Y1,
			X2: e.X2, Y2: e.Y2,
			ShowBit: withBits,
		}
	}
	return out
}
