package huffman

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrEmptyInput is returned by the analyzers and by [Build] when there
	// are no symbols to count. No tree is built in that case.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidTable is returned by [NewFrequencyTable] when an entry has a
	// non-positive count or a symbol appears more than once.
	ErrInvalidTable = errors.New("invalid frequency table")
)

// Symbol is an atomic unit of the input sequence. Text is analyzed per
// Unicode code point; raw bytes map to the symbols 0-255.
type Symbol rune

// String returns the symbol as a one-character string.
func (s Symbol) String() string { return string(rune(s)) }

// GoString returns the symbol as a quoted Go rune literal.
func (s Symbol) GoString() string { return strconv.QuoteRune(rune(s)) }

// Entry is a single (symbol, count) pair of a [FrequencyTable].
type Entry struct {
	Symbol Symbol
	Count  int
}

// FrequencyTable maps each distinct symbol of a sequence to its number of
// occurrences. Iteration order is the order of first occurrence, which is
// what [Build] uses to break frequency ties.
//
// The zero value is an empty table. Tables are not safe for concurrent
// mutation, but the analyzers hand out fresh tables that are never mutated
// again.
type FrequencyTable struct {
	entries []Entry
	index   map[Symbol]int
}

// Analyze counts the occurrences of every symbol in symbols.
// It returns ErrEmptyInput if symbols is empty.
func Analyze(symbols []Symbol) (*FrequencyTable, error) {
	if len(symbols) == 0 {
		return nil, ErrEmptyInput
	}
	t := &FrequencyTable{index: make(map[Symbol]int)}
	for _, s := range symbols {
		t.add(s)
	}
	return t, nil
}

// AnalyzeString counts the Unicode code points of s.
func AnalyzeString(s string) (*FrequencyTable, error) {
	if s == "" {
		return nil, ErrEmptyInput
	}
	t := &FrequencyTable{index: make(map[Symbol]int)}
	for _, r := range s {
		t.add(Symbol(r))
	}
	return t, nil
}

// AnalyzeBytes counts the bytes of data. Byte b is counted as Symbol(b).
func AnalyzeBytes(data []byte) (*FrequencyTable, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	t := &FrequencyTable{index: make(map[Symbol]int)}
	for _, b := range data {
		t.add(Symbol(b))
	}
	return t, nil
}

// NewFrequencyTable builds a table from explicit entries, keeping their
// order as the first-occurrence order. It is the inverse of
// [FrequencyTable.Entries] and is used to rebuild a tree from stored counts.
func NewFrequencyTable(entries []Entry) (*FrequencyTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}
	t := &FrequencyTable{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[Symbol]int, len(entries)),
	}
	for _, e := range entries {
		if e.Count <= 0 {
			return nil, fmt.Errorf("%w: symbol %#v has count %d", ErrInvalidTable, e.Symbol, e.Count)
		}
		if _, dup := t.index[e.Symbol]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %#v", ErrInvalidTable, e.Symbol)
		}
		t.index[e.Symbol] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

func (t *FrequencyTable) add(s Symbol) {
	if i, ok := t.index[s]; ok {
		t.entries[i].Count++
		return
	}
	t.index[s] = len(t.entries)
	t.entries = append(t.entries, Entry{Symbol: s, Count: 1})
}

// Len returns the number of distinct symbols.
func (t *FrequencyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Count returns the number of occurrences of s, or 0 if s never occurred.
func (t *FrequencyTable) Count(s Symbol) int {
	if t == nil {
		return 0
	}
	if i, ok := t.index[s]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Total returns the sum of all counts, which equals the length of the
// analyzed sequence.
func (t *FrequencyTable) Total() int {
	if t == nil {
		return 0
	}
	total := 0
	for _, e := range t.entries {
		total += e.Count
	}
	return total
}

// Entries returns a copy of the entries in first-occurrence order.
func (t *FrequencyTable) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Map returns the counts keyed by symbol string. The map loses the
// first-occurrence order and is meant for serialization.
func (t *FrequencyTable) Map() map[string]int {
	out := make(map[string]int, t.Len())
	for _, e := range t.Entries() {
		out[e.Symbol.String()] = e.Count
	}
	return out
}
