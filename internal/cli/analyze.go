package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/pipeline"
)

// analysis is the --json output of analyze.
type analysis struct {
	Frequencies []graph.Frequency `json:"frequencies"`
	Codes       map[string]string `json:"codes"`
	Tree        *graph.Tree       `json:"tree"`
	Stats       pipeline.Stats    `json:"stats"`
	AverageBits float64           `json:"average_bits"`
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		text   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Print the frequency table and codebook of a text",
		Long: `Print the frequency table and codebook of a text.

Symbols are listed in order of first occurrence with their count, codeword
and the number of bits they contribute to the encoded text.`,
		Example: `  huffviz analyze --text "abracadabra"
  huffviz analyze notes.txt --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, _, err := readInput(cmd, args, text)
			if err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), cmd.OutOrStdout(), string(data), asJSON)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "analyze this text instead of a file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, w io.Writer, text string, asJSON bool) error {
	logger := loggerFromContext(ctx)

	table, err := pipeline.Analyze(text)
	if err != nil {
		return err
	}
	root, err := pipeline.BuildTree(table)
	if err != nil {
		return err
	}
	codes := huffman.Codebook(root)
	stats := pipeline.TreeStats(table, root, codes)
	logger.Debug("analyzed", "symbols", stats.Symbols, "length", stats.Length, "depth", stats.Depth)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis{
			Frequencies: graph.FromTable(table),
			Codes:       huffman.Strings(codes),
			Tree:        graph.FromTree(root),
			Stats:       stats,
			AverageBits: stats.AverageBits(),
		})
	}

	printCodeTable(w, table, codes)
	printStats(stats, false)
	return nil
}
