// Package pipeline provides the core visualization pipeline for huffviz.
//
// This package implements the complete analyze → build → layout → render
// pipeline used by the CLI and the HTTP server. By centralizing this logic,
// both entry points produce identical trees, layouts and artifacts for the
// same input.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Analyze: Count symbol frequencies in first-occurrence order
//  2. Build: Merge the frequency table into a prefix-code tree
//  3. Layout: Compute node positions ("tree") or a Graphviz DOT graph ("nodelink")
//  4. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:    "abracadabra",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/huffviz/pkg/cache"
	herrors "github.com/matzehuels/huffviz/pkg/errors"
	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/huffman/layout"
	"github.com/matzehuels/huffviz/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = graph.VizTypeTree

	// DefaultStyle is the default visual style.
	DefaultStyle = styles.NameSimple

	// DefaultPolicy is the default horizontal spacing policy.
	DefaultPolicy = layout.PolicyHalving

	// DefaultPNGScale renders PNGs at 2x for high-DPI displays.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Text    string `json:"text"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	VizType      string  `json:"viz_type,omitempty"`
	Policy       string  `json:"policy,omitempty"`
	Span         float64 `json:"span,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	LevelHeight  float64 `json:"level_height,omitempty"`
	AnchorOffset float64 `json:"anchor_offset,omitempty"`

	// Margins are pointers so an explicit 0 survives; nil means the default.
	MarginX *float64 `json:"margin_x,omitempty"`
	MarginY *float64 `json:"margin_y,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Bits     bool     `json:"bits,omitempty"`  // Label edges with 0/1
	Codes    bool     `json:"codes,omitempty"` // Label leaves with their codeword
	Title    string   `json:"title,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TextHash is the content hash of the input text.
	TextHash string

	// Table is the symbol frequency table in first-occurrence order.
	Table *huffman.FrequencyTable

	// Tree is the prefix-code tree.
	Tree *huffman.Node

	// Codebook maps every symbol to its codeword.
	Codebook map[huffman.Symbol]huffman.Code

	// Layout is the serialized layout (positions or DOT).
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Symbols     int           `json:"symbols"`
	Length      int           `json:"length"`
	Leaves      int           `json:"leaves"`
	Internal    int           `json:"internal"`
	Depth       int           `json:"depth"`
	EncodedBits int           `json:"encoded_bits"`
	BuildTime   time.Duration `json:"build_time"`
	LayoutTime  time.Duration `json:"layout_time"`
	RenderTime  time.Duration `json:"render_time"`
}

// AverageBits returns the mean codeword length weighted by frequency.
func (s Stats) AverageBits() float64 {
	if s.Length == 0 {
		return 0
	}
	return float64(s.EncodedBits) / float64(s.Length)
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TreeHit   bool // Whether the tree came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := herrors.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks the input text.
func (o *Options) ValidateForBuild() error {
	if o.Text == "" {
		return herrors.Wrap(herrors.ErrCodeEmptyInput, huffman.ErrEmptyInput, "text is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Policy == "" {
		o.Policy = DefaultPolicy
	}
	if o.Span <= 0 {
		o.Span = layout.DefaultInitialSpan
	}
	if o.Scale <= 0 {
		o.Scale = layout.DefaultScale
	}
	if o.LevelHeight <= 0 {
		o.LevelHeight = layout.DefaultLevelHeight
	}
	if o.MarginX == nil || *o.MarginX < 0 {
		o.MarginX = Margin(layout.DefaultMarginX)
	}
	if o.MarginY == nil || *o.MarginY < 0 {
		o.MarginY = Margin(layout.DefaultMarginY)
	}
	if o.AnchorOffset <= 0 {
		o.AnchorOffset = layout.DefaultAnchorOffset
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := herrors.ValidateVizType(o.VizType); err != nil {
		return err
	}
	if o.Policy != layout.PolicyHalving && o.Policy != layout.PolicyLeafSlots {
		return herrors.New(herrors.ErrCodeInvalidInput, "unknown spacing policy %q (want %s or %s)",
			o.Policy, layout.PolicyHalving, layout.PolicyLeafSlots)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return herrors.ValidateStyle(o.Style)
}

// IsTree returns true if this is a positioned tree visualization.
func (o *Options) IsTree() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeTree
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// Margin returns a pointer to px for the MarginX and MarginY options.
func Margin(px float64) *float64 { return &px }

func (o *Options) margins() (x, y float64) {
	x, y = layout.DefaultMarginX, layout.DefaultMarginY
	if o.MarginX != nil {
		x = *o.MarginX
	}
	if o.MarginY != nil {
		y = *o.MarginY
	}
	return x, y
}

// LayoutOptions converts the layout knobs into pkg/huffman/layout options.
func (o *Options) LayoutOptions() []layout.Option {
	return []layout.Option{
		layout.PolicyOption(o.Policy, o.Span),
		layout.WithScale(o.Scale),
		layout.WithLevelHeight(o.LevelHeight),
		layout.WithMargins(o.margins()),
		layout.WithAnchorOffset(o.AnchorOffset),
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{VizType: o.VizType}
	if o.IsNodelink() {
		// Graphviz positions the nodes; only the DOT labels vary.
		k.Bits = o.Bits
		k.Codes = o.Codes
		return k
	}
	k.Policy = o.Policy
	k.Span = o.Span
	k.Scale = o.Scale
	k.LevelHeight = o.LevelHeight
	k.MarginX, k.MarginY = o.margins()
	k.AnchorOffset = o.AnchorOffset
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
		Bits:   o.Bits,
		Codes:  o.Codes,
		Title:  o.Title,
	}
	if format == FormatPNG {
		k.PNGScale = o.PNGScale
	}
	return k
}
