package codec

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

func TestCompressLayout(t *testing.T) {
	t.Parallel()

	// a:3 b:2 c:1 gives a=0 c=10 b=11, so "aaabbc" packs into 9 bits.
	out, err := Compress([]byte("aaabbc"))
	require.NoError(t, err)

	headerSize := 4 + 2 + 3*9 + 8
	require.Len(t, out, headerSize+2)

	assert.Equal(t, Magic, string(out[:4]))
	assert.Equal(t, uint16(3), binary.BigEndian.Uint16(out[4:6]))
	assert.Equal(t, byte('a'), out[6], "entries keep first-occurrence order")
	assert.Equal(t, uint64(3), binary.BigEndian.Uint64(out[7:15]))
	assert.Equal(t, uint64(6), binary.BigEndian.Uint64(out[headerSize-8:headerSize]))

	// 000 11 11 10 | padding -> 0001 1111, 0000 0000
	assert.Equal(t, []byte{0b00011111, 0b00000000}, out[headerSize:])
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give []byte
	}{
		{"single byte", []byte("x")},
		{"single symbol", bytes.Repeat([]byte("z"), 17)},
		{"two symbols", []byte("aabb")},
		{"text", []byte("the quick brown fox jumps over the lazy dog")},
		{"binary", []byte{0, 255, 0, 1, 2, 3, 255, 255, 0}},
		{"all bytes", func() []byte {
			b := make([]byte, 256)
			for i := range b {
				b[i] = byte(i)
			}
			return b
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			packed, err := Compress(tt.give)
			require.NoError(t, err)

			got, err := Decompress(packed)
			require.NoError(t, err)
			assert.Equal(t, tt.give, got)
		})
	}
}

func TestRoundTripProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 2048).Draw(t, "data")

		packed, err := Compress(data)
		if err != nil {
			t.Fatalf("Compress: %v", err)
		}
		got, err := Decompress(packed)
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		if !bytes.Equal(data, got) {
			t.Fatalf("round trip mismatch")
		}

		// The payload is exactly the weighted path length, rounded up.
		table, _ := huffman.AnalyzeBytes(data)
		root, _ := huffman.Build(table)
		bits := huffman.EncodedBits(table, huffman.Codebook(root))
		h := Header{Table: table}
		if want := h.Size() + (bits+7)/8; len(packed) != want {
			t.Fatalf("packed size = %d, want %d", len(packed), want)
		}
	})
}

func TestCompressEmpty(t *testing.T) {
	t.Parallel()

	_, err := Compress(nil)
	assert.ErrorIs(t, err, huffman.ErrEmptyInput)
}

func TestDecompressErrors(t *testing.T) {
	t.Parallel()

	valid, err := Compress([]byte("hello, world"))
	require.NoError(t, err)

	corrupt := func(fn func(b []byte) []byte) []byte {
		return fn(bytes.Clone(valid))
	}

	tests := []struct {
		name    string
		give    []byte
		wantErr error
	}{
		{"empty", nil, ErrInvalidHeader},
		{"short magic", []byte("HF"), ErrInvalidHeader},
		{"bad magic", corrupt(func(b []byte) []byte { b[0] = 'X'; return b }), ErrInvalidHeader},
		{"zero entries", corrupt(func(b []byte) []byte { b[4], b[5] = 0, 0; return b }), ErrInvalidHeader},
		{"too many entries", corrupt(func(b []byte) []byte { b[4], b[5] = 1, 1; return b }), ErrInvalidHeader},
		{"cut header", valid[:10], ErrTruncated},
		{"zero count", corrupt(func(b []byte) []byte { copy(b[7:15], make([]byte, 8)); return b }), ErrInvalidHeader},
		{"duplicate symbol", corrupt(func(b []byte) []byte { b[15] = b[6]; return b }), ErrInvalidHeader},
		{"bad total", corrupt(func(b []byte) []byte {
			h := 4 + 2 + 9*9
			binary.BigEndian.PutUint64(b[h:h+8], 99)
			return b
		}), ErrInvalidHeader},
		{"cut payload", valid[:len(valid)-2], ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decompress(tt.give)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	packed, err := Compress([]byte("banana"))
	require.NoError(t, err)

	r := bytes.NewReader(packed)
	h, err := ReadHeader(r)
	require.NoError(t, err)

	assert.Equal(t, uint64(6), h.Total)
	assert.Equal(t, []huffman.Entry{{Symbol: 'b', Count: 1}, {Symbol: 'a', Count: 3}, {Symbol: 'n', Count: 2}}, h.Table.Entries())
	assert.Equal(t, len(packed)-h.Size(), r.Len(), "reader should stop at the payload")
}

func TestHeaderRejectsWideSymbols(t *testing.T) {
	t.Parallel()

	table, err := huffman.AnalyzeString("€")
	require.NoError(t, err)

	_, err = Header{Table: table, Total: 1}.WriteTo(&strings.Builder{})
	assert.Error(t, err)
}

func TestCompressNonASCIIText(t *testing.T) {
	t.Parallel()

	// "é" is two UTF-8 bytes; the header stores bytes, not runes.
	text := "café crème"
	packed, err := Compress([]byte(text))
	require.NoError(t, err)

	h, err := ReadHeader(bytes.NewReader(packed))
	require.NoError(t, err)
	assert.Equal(t, uint64(len(text)), h.Total)
	assert.Equal(t, 2, h.Table.Count(0xc3), "both é and è share the lead byte")

	got, err := Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, text, string(got))
}

func TestReadHeaderRejectsOverflowingCounts(t *testing.T) {
	t.Parallel()

	const maxInt = uint64(^uint(0) >> 1)
	var buf []byte
	buf = append(buf, Magic...)
	buf = binary.BigEndian.AppendUint16(buf, 3)
	// The counts wrap around uint64 to 1, which would match a total of 1.
	for _, e := range []struct {
		sym  byte
		freq uint64
	}{{'a', maxInt}, {'b', maxInt}, {'c', 3}} {
		buf = append(buf, e.sym)
		buf = binary.BigEndian.AppendUint64(buf, e.freq)
	}
	buf = binary.BigEndian.AppendUint64(buf, 1)

	_, err := ReadHeader(bytes.NewReader(buf))
	assert.ErrorIs(t, err, ErrInvalidHeader)
	assert.ErrorContains(t, err, "overflow")
}

func TestNewStats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		orig, comp int
		want       float64
	}{
		{"halved", 100, 50, 50},
		{"grew", 10, 15, -50},
		{"empty", 0, 0, 0},
	}
	for _, tt := range tests {
		s := NewStats(tt.orig, tt.comp)
		assert.InDelta(t, tt.want, s.Ratio, 1e-9, tt.name)
		assert.Equal(t, tt.orig, s.OriginalSize)
		assert.Equal(t, tt.comp, s.CompressedSize)
	}
}
