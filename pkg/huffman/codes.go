package huffman

import "strings"

// Code is the codeword of a symbol: the left/right path from the root,
// written as a string of '0' (left) and '1' (right).
type Code struct {
	Bits string
}

// Len returns the codeword length in bits.
func (c Code) Len() int { return len(c.Bits) }

// Codebook derives the codeword of every leaf.
//
// A single-leaf tree has no edges, so its only symbol would get the empty
// codeword. Codebook assigns it "0" instead, giving it length 1.
func Codebook(root *Node) map[Symbol]Code {
	codes := make(map[Symbol]Code)
	if root == nil {
		return codes
	}
	if root.IsLeaf() {
		codes[root.Symbol] = Code{Bits: "0"}
		return codes
	}

	var path []byte
	var visit func(n *Node)
	visit = func(n *Node) {
		if n.IsLeaf() {
			codes[n.Symbol] = Code{Bits: string(path)}
			return
		}
		path = append(path, '0')
		visit(n.Left)
		path[len(path)-1] = '1'
		visit(n.Right)
		path = path[:len(path)-1]
	}
	visit(root)
	return codes
}

// CodeLengths returns the codeword length of every symbol, treating a
// depth-0 root as length 1 like [Codebook] does.
func CodeLengths(root *Node) map[Symbol]int {
	lengths := make(map[Symbol]int)
	for s, c := range Codebook(root) {
		lengths[s] = c.Len()
	}
	return lengths
}

// EncodedBits returns the number of bits needed to encode the sequence that
// table was built from with the given codebook.
func EncodedBits(table *FrequencyTable, codes map[Symbol]Code) int {
	bits := 0
	for _, e := range table.Entries() {
		bits += e.Count * codes[e.Symbol].Len()
	}
	return bits
}

// Strings returns the codebook keyed by symbol string, suitable for JSON.
func Strings(codes map[Symbol]Code) map[string]string {
	out := make(map[string]string, len(codes))
	for s, c := range codes {
		out[s.String()] = c.Bits
	}
	return out
}

// Encode concatenates the codewords of text. It is a debugging aid for
// small inputs; pkg/codec packs real bit streams.
func Encode(codes map[Symbol]Code, text string) string {
	var b strings.Builder
	for _, r := range text {
		b.WriteString(codes[Symbol(r)].Bits)
	}
	return b.String()
}
