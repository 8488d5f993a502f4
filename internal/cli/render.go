package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

// renderCommand creates the render command for rendering a saved layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		treePath   string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render visualization from a saved layout",
		Long: `Render visualization from a saved layout.

The layout.json file is produced by 'visualize --save-layout' and contains
all positioning information, so this step is purely about rendering. DOT
output of a tree layout also needs the tree (--tree, from --save-tree).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			_, err := c.runRender(cmd.Context(), args[0], treePath, opts, output, noCache)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&treePath, "tree", "", "tree.json the layout was computed from")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), outline")
	cmd.Flags().BoolVar(&opts.Bits, "bits", false, "label edges with 0/1")
	cmd.Flags().BoolVar(&opts.Codes, "codes", false, "label leaves with their codeword")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn above the tree")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the layout and renders it.
func (c *CLI) runRender(ctx context.Context, input, treePath string, opts pipeline.Options, output string, noCache bool) ([]string, error) {
	layout, err := graph.ReadLayoutFile(input)
	if err != nil {
		return nil, fmt.Errorf("load layout %s: %w", input, err)
	}
	// Infer viz type from layout
	opts.VizType = layout.VizType
	opts.Logger = c.Logger

	var src pipeline.Source
	if treePath != "" {
		root, err := graph.ReadTreeFile(treePath)
		if err != nil {
			return nil, fmt.Errorf("load tree %s: %w", treePath, err)
		}
		src.Tree = root
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", layout.VizType))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, src, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return nil, fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	})
}
