// Package codec packs byte sequences into a self-describing Huffman-coded
// stream and unpacks them again.
//
// A stream is a [Header] holding the frequency table, followed by the
// concatenated codewords of the input, most significant bit first, padded
// with zero bits to a byte boundary. Because the table rather than the tree
// is stored, the decoder rebuilds the tree with the same huffman.Build call
// the encoder used, and both sides agree on every codeword by construction.
//
//	packed, err := codec.Compress(data)
//	stats := codec.NewStats(len(data), len(packed))
//	orig, err := codec.Decompress(packed)
//
// Bit I/O is done with github.com/icza/bitio.
package codec
