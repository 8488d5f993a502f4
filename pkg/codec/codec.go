package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

// symbolCode is a codeword packed for bitio. Codewords longer than 64 bits
// only occur for pathological counts and are written bit by bit from bits.
type symbolCode struct {
	value  uint64
	length uint8
	bits   string
}

// Encoder writes the compressed form of a byte sequence.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the header followed by the bit stream of data. It returns
// huffman.ErrEmptyInput for empty data.
func (e *Encoder) Encode(data []byte) error {
	table, err := huffman.AnalyzeBytes(data)
	if err != nil {
		return err
	}
	root, err := huffman.Build(table)
	if err != nil {
		return err
	}

	h := Header{Table: table, Total: uint64(len(data))}
	if _, err := h.WriteTo(e.w); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var codes [256]symbolCode
	for sym, c := range huffman.Codebook(root) {
		codes[sym] = packCode(c.Bits)
	}

	bw := bitio.NewWriter(e.w)
	for _, b := range data {
		if err := writeCode(bw, codes[b]); err != nil {
			return fmt.Errorf("write bits: %w", err)
		}
	}
	// Close pads the last byte with zeros; it does not close e.w.
	if err := bw.Close(); err != nil {
		return fmt.Errorf("flush bits: %w", err)
	}
	return nil
}

func packCode(bits string) symbolCode {
	sc := symbolCode{bits: bits}
	if len(bits) > 64 {
		return sc
	}
	for i := 0; i < len(bits); i++ {
		sc.value = sc.value<<1 | uint64(bits[i]-'0')
	}
	sc.length = uint8(len(bits))
	return sc
}

func writeCode(w *bitio.Writer, c symbolCode) error {
	if c.length > 0 {
		return w.WriteBits(c.value, c.length)
	}
	for i := 0; i < len(c.bits); i++ {
		if err := w.WriteBool(c.bits[i] == '1'); err != nil {
			return err
		}
	}
	return nil
}

// Decoder reads a stream produced by Encoder.
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads one header and the bit stream that follows it. The tree is
// rebuilt from the header's frequency table with huffman.Build, so it is
// identical to the encoder's.
func (d *Decoder) Decode() ([]byte, error) {
	h, err := ReadHeader(d.r)
	if err != nil {
		return nil, err
	}
	root, err := huffman.Build(h.Table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	payload, err := io.ReadAll(d.r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	// Every symbol takes at least one bit.
	if h.Total > uint64(len(payload))*8 {
		return nil, fmt.Errorf("%w: %d symbols in %d bytes", ErrTruncated, h.Total, len(payload))
	}

	out := make([]byte, 0, h.Total)
	br := bitio.NewReader(bytes.NewReader(payload))
	for uint64(len(out)) < h.Total {
		n := root
		if n.IsLeaf() {
			// A lone symbol is coded as a single 0 bit.
			if _, err := br.ReadBits(1); err != nil {
				return nil, truncated(err, len(out))
			}
		}
		for !n.IsLeaf() {
			bit, err := br.ReadBits(1)
			if err != nil {
				return nil, truncated(err, len(out))
			}
			if bit == 0 {
				n = n.Left
			} else {
				n = n.Right
			}
		}
		out = append(out, byte(n.Symbol))
	}
	return out, nil
}

func truncated(err error, decoded int) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: after %d symbols", ErrTruncated, decoded)
	}
	return fmt.Errorf("read bits: %w", err)
}

// Compress returns the compressed form of data.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	return NewDecoder(bytes.NewReader(data)).Decode()
}
