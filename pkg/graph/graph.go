package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a tree to JSON bytes.
func MarshalTree(root *huffman.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTreeTo(root, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTreeFile writes a tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(root *huffman.Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTreeTo(root, f)
}

// WriteTree writes a tree as JSON to an io.Writer.
// Use MarshalTree for in-memory serialization or WriteTreeFile for files.
func WriteTree(root *huffman.Node, w io.Writer) error {
	return writeTreeTo(root, w)
}

// ReadTreeFile reads a JSON file and returns the decoded tree.
// Returns validation errors for malformed trees.
func ReadTreeFile(path string) (*huffman.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readTreeFrom(f)
}

// ReadTree decodes a JSON tree from an io.Reader.
// Use ReadTreeFile for files or pass bytes.NewReader for in-memory data.
func ReadTree(r io.Reader) (*huffman.Node, error) {
	return readTreeFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTreeTo(root *huffman.Node, w io.Writer) error {
	if root == nil {
		return huffman.ErrInvalidTree
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readTreeFrom(r io.Reader) (*huffman.Node, error) {
	var data Tree
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToTree(&data)
}
