package sink

import (
	"encoding/json"

	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/huffman/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	table *huffman.FrequencyTable
	codes map[huffman.Symbol]huffman.Code
	style string
}

// WithJSONTable includes the frequency table, in first-occurrence order.
func WithJSONTable(t *huffman.FrequencyTable) JSONOption {
	return func(r *jsonRenderer) { r.table = t }
}

// WithJSONCodes includes the codebook keyed by symbol.
func WithJSONCodes(codes map[huffman.Symbol]huffman.Code) JSONOption {
	return func(r *jsonRenderer) { r.codes = codes }
}

// WithJSONStyle records the style name for round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	graph.Layout
	Style       string            `json:"style,omitempty"`
	Frequencies []graph.Frequency `json:"frequencies,omitempty"`
	Codes       map[string]string `json:"codes,omitempty"`
}

// RenderJSON exports the layout as a pretty-printed JSON document in the
// graph.Layout wire format, optionally extended with the frequency table
// and codebook. The output can be read back with graph.UnmarshalLayout.
//
// It does not modify l and is safe to call concurrently.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Layout: graph.FromLayout(l),
		Style:  r.style,
	}
	if r.table != nil {
		out.Frequencies = graph.FromTable(r.table)
	}
	if r.codes != nil {
		out.Codes = huffman.Strings(r.codes)
	}
	return json.MarshalIndent(out, "", "  ")
}
