package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

type visualizeFlags struct {
	text       string
	formats    string
	output     string
	saveTree   string
	saveLayout string
	noCache    bool
}

// visualizeCommand creates the visualize command: text in, rendered tree out.
func (c *CLI) visualizeCommand() *cobra.Command {
	var flags visualizeFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize [file|-]",
		Short: "Build, lay out and render the Huffman tree of a text",
		Long: `Build, lay out and render the Huffman tree of a text.

The tree is laid out top-down with the root centred over its subtrees.
Spacing halves at every level by default; --policy leaf-slots gives every
leaf its own column instead. The nodelink type hands the tree to Graphviz.

Results are cached locally for faster subsequent runs.`,
		Example: `  huffviz visualize --text "abracadabra" -f svg,json
  huffviz visualize notes.txt -t nodelink -f png -o tree.png
  echo -n "mississippi" | huffviz visualize - --codes --bits`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, input, err := readInput(cmd, args, flags.text)
			if err != nil {
				return err
			}
			opts.Text = string(data)
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			_, err = c.runVisualize(cmd.Context(), input, opts, flags)
			return err
		},
	}

	addLayoutFlags(cmd, &opts)
	cmd.Flags().StringVar(&flags.text, "text", "", "visualize this text instead of a file")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVar(&flags.saveTree, "save-tree", "", "also write the tree as JSON")
	cmd.Flags().StringVar(&flags.saveLayout, "save-layout", "", "also write the layout as JSON (re-render with 'huffviz render')")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: simple (default), outline")
	cmd.Flags().BoolVar(&opts.Bits, "bits", false, "label edges with 0/1")
	cmd.Flags().BoolVar(&opts.Codes, "codes", false, "label leaves with their codeword")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn above the tree")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runVisualize executes the full pipeline and writes the outputs.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, flags visualizeFlags) ([]string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Layout.Apply(&opts)
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Building tree...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return nil, fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	if flags.output != "-" {
		printStats(result.Stats, result.CacheInfo.RenderHit)
	}

	if flags.saveTree != "" {
		if err := graph.WriteTreeFile(result.Tree, flags.saveTree); err != nil {
			return nil, fmt.Errorf("save tree: %w", err)
		}
		printFile(flags.saveTree)
	}
	if flags.saveLayout != "" {
		if err := graph.WriteLayoutFile(result.Layout, flags.saveLayout); err != nil {
			return nil, fmt.Errorf("save layout: %w", err)
		}
		printFile(flags.saveLayout)
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    flags.output,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}
