package pipeline

import (
	"errors"

	herrors "github.com/matzehuels/huffviz/pkg/errors"
	"github.com/matzehuels/huffviz/pkg/huffman"
)

// Analyze counts the symbols of text. Empty text yields an EMPTY_INPUT error
// wrapping huffman.ErrEmptyInput.
func Analyze(text string) (*huffman.FrequencyTable, error) {
	table, err := huffman.AnalyzeString(text)
	if err != nil {
		return nil, coreError(err)
	}
	return table, nil
}

// BuildTree merges a frequency table into a prefix-code tree.
func BuildTree(table *huffman.FrequencyTable) (*huffman.Node, error) {
	root, err := huffman.Build(table)
	if err != nil {
		return nil, coreError(err)
	}
	return root, nil
}

// coreError maps the huffman sentinels to coded errors, keeping the
// sentinel in the chain.
func coreError(err error) error {
	switch {
	case errors.Is(err, huffman.ErrEmptyInput):
		return herrors.Wrap(herrors.ErrCodeEmptyInput, err, "nothing to encode")
	case errors.Is(err, huffman.ErrInvalidTable):
		return herrors.Wrap(herrors.ErrCodeInvalidInput, err, "invalid frequency table")
	case errors.Is(err, huffman.ErrInvalidTree):
		return herrors.Wrap(herrors.ErrCodeInvalidTree, err, "invalid tree")
	default:
		return err
	}
}
