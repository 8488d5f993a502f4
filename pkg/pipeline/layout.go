package pipeline

import (
	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/huffman/layout"
	"github.com/matzehuels/huffviz/pkg/render/nodelink"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout generates a serializable layout for any visualization type.
//
//   - "tree": node positions and edge geometry from pkg/huffman/layout
//   - "nodelink": a Graphviz DOT graph; positions are left to Graphviz
func GenerateLayout(root *huffman.Node, opts Options) (graph.Layout, error) {
	if opts.IsNodelink() {
		return generateNodelinkLayout(root, opts)
	}
	return generateTreeLayout(root, opts)
}

func generateTreeLayout(root *huffman.Node, opts Options) (graph.Layout, error) {
	l, err := layout.Build(root, opts.LayoutOptions()...)
	if err != nil {
		return graph.Layout{}, coreError(err)
	}
	return graph.FromLayout(l), nil
}

func generateNodelinkLayout(root *huffman.Node, opts Options) (graph.Layout, error) {
	if err := huffman.Validate(root); err != nil {
		return graph.Layout{}, coreError(err)
	}
	return graph.Layout{
		VizType: graph.VizTypeNodelink,
		DOT:     nodelink.ToDOT(root, nodelink.Options{Detailed: opts.Codes, Bits: opts.Bits}),
		Engine:  "dot",
	}, nil
}
