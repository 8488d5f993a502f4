package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/huffviz/pkg/huffman"
)

func buildTree(t *testing.T, s string) *huffman.Node {
	t.Helper()
	table, err := huffman.AnalyzeString(s)
	if err != nil {
		t.Fatal(err)
	}
	root, err := huffman.Build(table)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(buildTree(t, "aaabbc"), Options{})

	for _, want := range []string{
		"digraph G",
		`"n" [label="6"]`,
		`"n0" [label="'a': 3", shape=box`,
		`"n1" -> "n10";`,
		`"n1" -> "n11";`,
		`"n" -> "n0";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
	if strings.Count(dot, "->") != 4 {
		t.Errorf("edges = %d, want 4", strings.Count(dot, "->"))
	}
}

func TestToDOT_Bits(t *testing.T) {
	dot := ToDOT(buildTree(t, "ab"), Options{Bits: true})

	if !strings.Contains(dot, `"n" -> "n0" [label="0"];`) {
		t.Error("ToDOT() missing left bit label")
	}
	if !strings.Contains(dot, `"n" -> "n1" [label="1"];`) {
		t.Error("ToDOT() missing right bit label")
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") || strings.Contains(dot, "->") {
		t.Errorf("unexpected DOT for nil tree:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	leaf := &huffman.Node{Symbol: ' ', Freq: 4}
	internal := &huffman.Node{Freq: 8, Left: leaf, Right: leaf}

	tests := []struct {
		name     string
		n        *huffman.Node
		path     string
		detailed bool
		want     string
	}{
		{"leaf simple", leaf, "01", false, "'space': 4"},
		{"leaf detailed", leaf, "01", true, "'space': 4\n01"},
		{"root leaf detailed", leaf, "", true, "'space': 4\n0"},
		{"internal detailed", internal, "1", true, "8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(tt.n, tt.path, tt.detailed); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtAttrs(t *testing.T) {
	leaf := &huffman.Node{Symbol: 'x', Freq: 1}
	if attrs := fmtAttrs(leaf, "0", false); len(attrs) != 4 || !strings.Contains(attrs[1], "box") {
		t.Errorf("fmtAttrs() leaf = %v", attrs)
	}
	internal := &huffman.Node{Freq: 2, Left: leaf, Right: leaf}
	if attrs := fmtAttrs(internal, "", false); len(attrs) != 1 {
		t.Errorf("fmtAttrs() internal = %v", attrs)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(buildTree(t, "hello"), Options{Bits: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
