package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	herrors "github.com/matzehuels/huffviz/pkg/errors"
)

// defaultBase names outputs when the input has no file name (--text, stdin).
const defaultBase = "huffman"

var errNoInput = errors.New("no input: pass a file, - for stdin, or --text")

// readInput returns the input bytes and a name for it. The source is the
// --text flag, a file argument, or stdin when the argument is "-".
func readInput(cmd *cobra.Command, args []string, text string) ([]byte, string, error) {
	switch {
	case text != "" && len(args) > 0:
		return nil, "", fmt.Errorf("pass either a file or --text, not both")
	case text != "":
		return []byte(text), "", nil
	case len(args) == 0:
		return nil, "", errNoInput
	case args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", herrors.Wrap(herrors.ErrCodeFileNotFound, err, "input file not found: %s", args[0])
		}
		return nil, "", err
	}
	return data, args[0], nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// "-" selects os.Stdout; anything else is created, overwriting an existing file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return defaultBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(herrors.Formats(), strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactWriteParams describes a set of rendered outputs to write.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // input file; names outputs when output is empty
	output    string // exact file for one format, base path for several, "-" for stdout
	cacheHit  bool
}

// writeArtifacts writes each requested format and returns the paths written.
// A single format goes to output verbatim when it is set.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if p.output == "-" && len(p.formats) != 1 {
		return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(p.formats))
	}

	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output was rendered", format)
		}

		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if p.input != "" && filepath.Clean(path) == filepath.Clean(p.input) {
			return paths, fmt.Errorf("refusing to overwrite input %s; pass -o", p.input)
		}
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if p.output != "-" {
		status := "Rendered"
		if p.cacheHit {
			status = "Rendered (cached)"
		}
		printSuccess("%s %d file(s)", status, len(paths))
		for _, path := range paths {
			printFile(path)
		}
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
