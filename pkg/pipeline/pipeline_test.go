package pipeline

import (
	"testing"

	herrors "github.com/matzehuels/huffviz/pkg/errors"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/huffman/layout"
)

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); !herrors.Is(err, herrors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format should fail with INVALID_FORMAT, got %v", err)
	}

	if err := ValidateFormats([]string{"SVG"}); err == nil {
		t.Error("Formats are case-sensitive")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForBuild(t *testing.T) {
	opts := Options{}
	err := opts.ValidateForBuild()
	if !herrors.Is(err, herrors.ErrCodeEmptyInput) {
		t.Errorf("Missing text should fail with EMPTY_INPUT, got %v", err)
	}

	opts = Options{Text: "abc"}
	if err := opts.ValidateForBuild(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code herrors.Code
	}{
		{"defaults", Options{}, ""},
		{"nodelink", Options{VizType: "nodelink", Formats: []string{"dot"}}, ""},
		{"leaf slots", Options{Policy: layout.PolicyLeafSlots}, ""},
		{"bad viz", Options{VizType: "tower"}, herrors.ErrCodeInvalidVizType},
		{"bad policy", Options{Policy: "random"}, herrors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, herrors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "handdrawn"}, herrors.ErrCodeInvalidStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if got := herrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestOptionsIsTree(t *testing.T) {
	opts := Options{}
	if !opts.IsTree() {
		t.Error("Empty VizType should be tree")
	}

	opts.VizType = "nodelink"
	if opts.IsTree() {
		t.Error("nodelink VizType should not be tree")
	}
	if !opts.IsNodelink() {
		t.Error("nodelink VizType should be nodelink")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Text: "hello"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalScale := opts.Scale
	originalVizType := opts.VizType
	originalStyle := opts.Style

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Scale != originalScale {
		t.Error("Scale changed on second call")
	}
	if opts.VizType != originalVizType {
		t.Error("VizType changed on second call")
	}
	if opts.Style != originalStyle {
		t.Error("Style changed on second call")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.VizType != DefaultVizType {
		t.Errorf("VizType should be %s, got %s", DefaultVizType, opts.VizType)
	}
	if opts.Policy != DefaultPolicy {
		t.Errorf("Policy should be %s, got %s", DefaultPolicy, opts.Policy)
	}
	if opts.Span != layout.DefaultInitialSpan {
		t.Errorf("Span should be %v, got %v", layout.DefaultInitialSpan, opts.Span)
	}
	if opts.Scale != layout.DefaultScale || opts.LevelHeight != layout.DefaultLevelHeight {
		t.Errorf("Scale/LevelHeight should default, got %v/%v", opts.Scale, opts.LevelHeight)
	}
	if *opts.MarginX != layout.DefaultMarginX || *opts.MarginY != layout.DefaultMarginY {
		t.Errorf("Margins should default, got %v/%v", *opts.MarginX, *opts.MarginY)
	}
	if opts.AnchorOffset != layout.DefaultAnchorOffset {
		t.Errorf("AnchorOffset should be %v, got %v", layout.DefaultAnchorOffset, opts.AnchorOffset)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale should be %v, got %v", DefaultPNGScale, opts.PNGScale)
	}
}

func TestLayoutKeyOpts(t *testing.T) {
	tree := Options{Scale: 40}
	tree.SetLayoutDefaults()
	k := tree.LayoutKeyOpts()
	if k.Scale != 40 || k.Policy != DefaultPolicy {
		t.Errorf("tree key should carry geometry: %+v", k)
	}

	nodelink := Options{VizType: "nodelink", Scale: 40, Bits: true}
	nodelink.SetLayoutDefaults()
	k = nodelink.LayoutKeyOpts()
	if k.Scale != 0 || k.Policy != "" {
		t.Errorf("nodelink key should ignore geometry: %+v", k)
	}
	if !k.Bits || k.Codes {
		t.Errorf("nodelink key should carry the DOT labels: %+v", k)
	}
	if tree.LayoutKeyOpts().Bits {
		t.Error("tree key should not depend on bits")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "outline", Bits: true}
	k := opts.ArtifactKeyOpts("svg")
	if k.Format != "svg" || k.Style != "outline" || !k.Bits || k.Codes {
		t.Errorf("unexpected artifact key opts: %+v", k)
	}

	opts = Options{Title: "Tree", PNGScale: 3}
	if k := opts.ArtifactKeyOpts("svg"); k.Title != "Tree" || k.PNGScale != 0 {
		t.Errorf("svg key should carry the title only: %+v", k)
	}
	if k := opts.ArtifactKeyOpts("png"); k.Title != "Tree" || k.PNGScale != 3 {
		t.Errorf("png key should carry title and scale: %+v", k)
	}
}

func TestZeroMarginsAreKept(t *testing.T) {
	opts := Options{Text: "aaabbc", MarginX: Margin(0), MarginY: Margin(0)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if *opts.MarginX != 0 || *opts.MarginY != 0 {
		t.Fatalf("zero margins were replaced: %v/%v", *opts.MarginX, *opts.MarginY)
	}

	gl, err := GenerateLayout(mustBuild(t, "aaabbc"), opts)
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	minX := gl.Nodes[0].X
	for _, n := range gl.Nodes {
		minX = min(minX, n.X)
	}
	if minX != 0 || gl.Nodes[0].Y != 0 {
		t.Errorf("min X / root Y = %v/%v, want 0/0", minX, gl.Nodes[0].Y)
	}

	defaults := Options{Text: "aaabbc"}
	defaults.SetLayoutDefaults()
	if opts.LayoutKeyOpts() == defaults.LayoutKeyOpts() {
		t.Error("zero and default margins should not share a cache key")
	}
}

func TestNegativeMarginsFallBack(t *testing.T) {
	opts := Options{MarginX: Margin(-5)}
	opts.SetLayoutDefaults()
	if *opts.MarginX != layout.DefaultMarginX {
		t.Errorf("MarginX = %v, want default", *opts.MarginX)
	}
}

func mustBuild(t *testing.T, text string) *huffman.Node {
	t.Helper()
	table, err := Analyze(text)
	if err != nil {
		t.Fatal(err)
	}
	root, err := BuildTree(table)
	if err != nil {
		t.Fatal(err)
	}
	return root
}
