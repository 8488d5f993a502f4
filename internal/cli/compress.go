package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/huffviz/pkg/codec"
)

// compressCommand creates the compress command.
func (c *CLI) compressCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compress [file]",
		Short: "Compress a file with its Huffman code",
		Long: `Compress a file with its Huffman code.

The output starts with the frequency table, so 'huffviz decompress' rebuilds
the identical tree without any side information. By default notes.txt is
written to notes.bin next to the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runCompress(cmd.Context(), args[0], output)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>.bin)")
	return cmd
}

// decompressCommand creates the decompress command.
func (c *CLI) decompressCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decompress [file.bin]",
		Short: "Restore a file written by compress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runDecompress(cmd.Context(), args[0], output)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_decompressed.txt)")
	return cmd
}

func runCompress(ctx context.Context, input, output string) (codec.Stats, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return codec.Stats{}, err
	}
	compressed, err := codec.Compress(data)
	if err != nil {
		return codec.Stats{}, fmt.Errorf("compress %s: %w", input, err)
	}

	if output == "" {
		output = stem(input) + ".bin"
	}
	if err := writeFile(output, compressed); err != nil {
		return codec.Stats{}, err
	}
	prog.done("Compressed " + input)

	stats := codec.NewStats(len(data), len(compressed))
	printSuccess("Compressed %s", filepath.Base(input))
	printKeyValue("Original", fmt.Sprintf("%d bytes", stats.OriginalSize))
	printKeyValue("Compressed", fmt.Sprintf("%d bytes", stats.CompressedSize))
	printKeyValue("Saved", fmt.Sprintf("%.1f%%", stats.Ratio))
	printFile(output)
	printNextStep("Restore with", "huffviz decompress "+output)
	return stats, nil
}

func runDecompress(ctx context.Context, input, output string) (int, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := os.ReadFile(input)
	if err != nil {
		return 0, err
	}
	text, err := codec.Decompress(data)
	if err != nil {
		return 0, fmt.Errorf("decompress %s: %w", input, err)
	}

	if output == "" {
		output = stem(input) + "_decompressed.txt"
	}
	if err := writeFile(output, text); err != nil {
		return 0, err
	}
	prog.done("Decompressed " + input)

	printSuccess("Decompressed %s (%d bytes)", filepath.Base(input), len(text))
	printFile(output)
	return len(text), nil
}

// stem strips the extension from path, keeping its directory.
func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
