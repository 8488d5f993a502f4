package styles

import (
	"bytes"
	"fmt"
)

// Style defines the visual appearance for tree rendering.
// Implementations control how nodes, edges, and labels are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, markers, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderNode writes the SVG for a single node shape.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderEdge writes the SVG for a parent/child link.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderText writes the SVG for a node's label.
	RenderText(buf *bytes.Buffer, n Node)
}

// Node contains all data needed to render a single tree node.
type Node struct {
	ID     string  // Structural node ID
	Label  string  // Display text
	Code   string  // Codeword (leaves only, may be empty)
	CX, CY float64 // Circle center
	R      float64 // Circle radius
	Leaf   bool
}

// Edge contains positioning data for rendering a parent/child link.
type Edge struct {
	FromID, ToID   string  // Connected node IDs
	Bit            int     // 0 (left) or 1 (right)
	X1, Y1, X2, Y2 float64 // Line coordinates, center to center
	ShowBit        bool    // Draw the bit at the edge midpoint
}

// Names of the built-in styles.
const (
	NameSimple  = "simple"
	NameOutline = "outline"
)

// ByName returns the built-in style with the given name.
func ByName(name string) (Style, error) {
	switch name {
	case "", NameSimple:
		return Simple{}, nil
	case NameOutline:
		return Outline{}, nil
	default:
		return nil, fmt.Errorf("unknown style %q", name)
	}
}
