package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

// Magic identifies a compressed stream.
const Magic = "HFV1"

var (
	// ErrInvalidHeader is returned when a stream does not start with a
	// well-formed header.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrTruncated is returned when a stream ends before all symbols were
	// decoded.
	ErrTruncated = errors.New("truncated stream")
)

// Header is the self-describing preamble of a compressed stream. It carries
// the frequency table the tree was built from, so the decoder rebuilds the
// identical tree.
//
// On the wire:
//
//	"HFV1" | count uint16 | count × (symbol byte, freq uint64) | total uint64
//
// Integers are big-endian. Entries are in first-occurrence order.
//
// Symbols are raw bytes, so Table must come from [huffman.AnalyzeBytes]. A
// table built from text with runes in 0x80-0xff would be written as single
// bytes that no longer decode as UTF-8; runes above 0xff are rejected.
type Header struct {
	Table *huffman.FrequencyTable
	Total uint64
}

// Size returns the encoded header length in bytes.
func (h Header) Size() int {
	return len(Magic) + 2 + h.Table.Len()*9 + 8
}

// WriteTo writes the encoded header to w.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, h.Size())
	buf = append(buf, Magic...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(h.Table.Len()))
	for _, e := range h.Table.Entries() {
		if e.Symbol < 0 || e.Symbol > 0xff {
			return 0, fmt.Errorf("symbol %#v does not fit in a byte", e.Symbol)
		}
		buf = append(buf, byte(e.Symbol))
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.Count))
	}
	buf = binary.BigEndian.AppendUint64(buf, h.Total)
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadHeader decodes a header from r, leaving r positioned at the first
// byte of the bit stream.
func ReadHeader(r io.Reader) (Header, error) {
	var fixed [len(Magic) + 2]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if string(fixed[:len(Magic)]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, fixed[:len(Magic)])
	}
	count := int(binary.BigEndian.Uint16(fixed[len(Magic):]))
	if count == 0 || count > 256 {
		return Header{}, fmt.Errorf("%w: %d entries", ErrInvalidHeader, count)
	}

	raw := make([]byte, count*9+8)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Header{}, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}

	entries := make([]huffman.Entry, count)
	var sum uint64
	for i := range entries {
		rec := raw[i*9:]
		freq := binary.BigEndian.Uint64(rec[1:9])
		if freq == 0 || freq > math.MaxInt {
			return Header{}, fmt.Errorf("%w: entry %d has count %d", ErrInvalidHeader, i, freq)
		}
		if sum > math.MaxInt-freq {
			return Header{}, fmt.Errorf("%w: counts overflow at entry %d", ErrInvalidHeader, i)
		}
		entries[i] = huffman.Entry{Symbol: huffman.Symbol(rec[0]), Count: int(freq)}
		sum += freq
	}
	total := binary.BigEndian.Uint64(raw[count*9:])
	if total != sum {
		return Header{}, fmt.Errorf("%w: total %d does not match counts %d", ErrInvalidHeader, total, sum)
	}

	table, err := huffman.NewFrequencyTable(entries)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	return Header{Table: table, Total: total}, nil
}
