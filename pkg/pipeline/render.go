package pipeline

import (
	"context"
	"errors"
	"fmt"

	herrors "github.com/matzehuels/huffviz/pkg/errors"
	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/huffman/layout"
	"github.com/matzehuels/huffviz/pkg/render"
	"github.com/matzehuels/huffviz/pkg/render/nodelink"
	"github.com/matzehuels/huffviz/pkg/render/sink"
	"github.com/matzehuels/huffviz/pkg/render/styles"
)

// Source is the data a layout was computed from. Table and Tree are optional;
// without them JSON output omits frequencies and codes and tree layouts
// cannot be rendered as DOT.
type Source struct {
	Table *huffman.FrequencyTable
	Tree  *huffman.Node
}

// RenderFromLayout renders a graph.Layout in every requested format.
func RenderFromLayout(ctx context.Context, gl graph.Layout, src Source, opts Options) (map[string][]byte, error) {
	if gl.IsNodelink() {
		return RenderNodelink(ctx, gl, opts)
	}
	l, err := graph.ToLayout(gl)
	if err != nil {
		return nil, fmt.Errorf("convert layout: %w", err)
	}
	return renderTree(ctx, l, src, opts)
}

// RenderNodelink renders a nodelink layout with Graphviz.
// The layout must be a nodelink layout (VizType = "nodelink") with a DOT string.
func RenderNodelink(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, error) {
	if gl.DOT == "" {
		return nil, herrors.New(herrors.ErrCodeInvalidInput, "nodelink layout missing DOT string")
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, gl.DOT)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, gl.DOT, opts.PNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, gl.DOT)
		case FormatDOT:
			data = []byte(gl.DOT)
		case FormatJSON:
			data, err = graph.MarshalLayout(gl)
		default:
			return nil, herrors.New(herrors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, renderError(format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderTree generates outputs for a positioned tree layout.
func renderTree(ctx context.Context, l layout.Layout, src Source, opts Options) (map[string][]byte, error) {
	svgOpts, err := buildSVGOptions(opts)
	if err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.PNGScale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(l, buildJSONOptions(src, opts)...)
		case FormatDOT:
			if src.Tree == nil {
				return nil, herrors.New(herrors.ErrCodeUnsupported, "dot output needs the tree, not only its layout")
			}
			data = []byte(nodelink.ToDOT(src.Tree, nodelink.Options{Detailed: opts.Codes, Bits: opts.Bits}))
		default:
			return nil, herrors.New(herrors.ErrCodeInvalidFormat, "unsupported tree format: %s", format)
		}

		if err != nil {
			return nil, renderError(format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInvalidStyle, err, "invalid style")
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Bits {
		svgOpts = append(svgOpts, sink.WithBits())
	}
	if opts.Codes {
		svgOpts = append(svgOpts, sink.WithCodes())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}
	return svgOpts, nil
}

func buildJSONOptions(src Source, opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{sink.WithJSONStyle(opts.Style)}
	if src.Table != nil {
		jsonOpts = append(jsonOpts, sink.WithJSONTable(src.Table))
	}
	if src.Tree != nil {
		jsonOpts = append(jsonOpts, sink.WithJSONCodes(huffman.Codebook(src.Tree)))
	}
	return jsonOpts
}

func renderError(format string, err error) error {
	if errors.Is(err, render.ErrConverterMissing) {
		return herrors.Wrap(herrors.ErrCodeUnsupported, err, "%s output is not available on this host", format)
	}
	return fmt.Errorf("render %s: %w", format, err)
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, src Source, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, parsed, src, opts)
}
