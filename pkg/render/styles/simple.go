package styles

import (
	"bytes"
	"fmt"
)

// Simple draws filled circles, green for leaves and blue for internal
// nodes, with thin grey links.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) {
	fill, stroke := "#4a90d9", "#2c5f8f"
	if n.Leaf {
		fill, stroke = "#5cb85c", "#3d8b3d"
	}
	fmt.Fprintf(buf, `  <circle id="node-%s" class="node" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		EscapeXML(n.ID), n.CX, n.CY, n.R, fill, stroke)
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Edge) {
	renderLine(buf, e, "#888888")
}

func (Simple) RenderText(buf *bytes.Buffer, n Node) {
	renderLabel(buf, n, "#ffffff")
}

// Outline draws unfilled black shapes for print.
type Outline struct{}

func (Outline) RenderDefs(buf *bytes.Buffer) {}

func (Outline) RenderNode(buf *bytes.Buffer, n Node) {
	dash := ""
	if !n.Leaf {
		dash = ` stroke-dasharray="4 2"`
	}
	fmt.Fprintf(buf, `  <circle id="node-%s" class="node" cx="%.2f" cy="%.2f" r="%.2f" fill="white" stroke="black" stroke-width="1.5"%s/>`+"\n",
		EscapeXML(n.ID), n.CX, n.CY, n.R, dash)
}

func (Outline) RenderEdge(buf *bytes.Buffer, e Edge) {
	renderLine(buf, e, "black")
}

func (Outline) RenderText(buf *bytes.Buffer, n Node) {
	renderLabel(buf, n, "black")
}

func renderLine(buf *bytes.Buffer, e Edge, color string) {
	fmt.Fprintf(buf, `  <line class="edge" data-from="%s" data-to="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="2"/>`+"\n",
		EscapeXML(e.FromID), EscapeXML(e.ToID), e.X1, e.Y1, e.X2, e.Y2, color)
	if e.ShowBit {
		mx, my := (e.X1+e.X2)/2, (e.Y1+e.Y2)/2
		fmt.Fprintf(buf, `  <text class="bit" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="monospace" font-size="12" fill="%s" stroke="white" stroke-width="3" paint-order="stroke">%d</text>`+"\n",
			mx, my, color, e.Bit)
	}
}

func renderLabel(buf *bytes.Buffer, n Node, color string) {
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
		n.CX, n.CY, FontSize(n), color, EscapeXML(n.Label))
	if n.Code != "" {
		fmt.Fprintf(buf, `  <text class="code" x="%.2f" y="%.2f" text-anchor="middle" font-family="monospace" font-size="11" fill="#555555">%s</text>`+"\n",
			n.CX, n.CY+n.R+14, EscapeXML(n.Code))
	}
}
