package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/huffviz/pkg/cache"
	"github.com/matzehuels/huffviz/pkg/graph"
	"github.com/matzehuels/huffviz/pkg/huffman"
	"github.com/matzehuels/huffviz/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete analyze → build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		TextHash:  cache.Hash([]byte(opts.Text)),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1+2: Analyze and build
	buildStart := time.Now()
	table, root, treeHit, err := r.BuildTreeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Table = table
	result.Tree = root
	result.Codebook = huffman.Codebook(root)
	result.Stats = TreeStats(table, root, result.Codebook)
	result.Stats.BuildTime = time.Since(buildStart)
	result.CacheInfo.TreeHit = treeHit

	r.Logger.Info("built tree",
		"symbols", result.Stats.Symbols,
		"nodes", result.Stats.Leaves+result.Stats.Internal,
		"depth", result.Stats.Depth,
		"duration", result.Stats.BuildTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	gl, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = gl
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"viz_type", gl.VizType,
		"nodes", len(gl.Nodes),
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, gl, Source{Table: table, Tree: root}, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// treeEntry is the cached form of the analyze and build stages.
type treeEntry struct {
	Frequencies []graph.Frequency `json:"frequencies"`
	Tree        *graph.Tree       `json:"tree"`
}

// BuildTreeWithCacheInfo analyzes the text and builds its tree with caching
// and returns cache hit info.
func (r *Runner) BuildTreeWithCacheInfo(ctx context.Context, opts Options) (*huffman.FrequencyTable, *huffman.Node, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.TreeKey(cache.Hash([]byte(opts.Text)))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if table, root, ok := r.cachedTree(ctx, cacheKey); ok {
			return table, root, true, nil // Cache hit
		}
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, len(opts.Text))
	start := time.Now()
	table, err := Analyze(opts.Text)
	symbols := 0
	if table != nil {
		symbols = table.Len()
	}
	hooks.OnAnalyzeComplete(ctx, symbols, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	hooks.OnBuildStart(ctx, symbols)
	start = time.Now()
	root, err := BuildTree(table)
	leaves, internal := huffman.CountNodes(root)
	hooks.OnBuildComplete(ctx, leaves+internal, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	if data, err := json.Marshal(treeEntry{Frequencies: graph.FromTable(table), Tree: graph.FromTree(root)}); err == nil {
		r.cacheSet(ctx, "tree", cacheKey, data, cache.TTLTree)
	}

	return table, root, false, nil // Cache miss
}

func (r *Runner) cachedTree(ctx context.Context, key string) (*huffman.FrequencyTable, *huffman.Node, bool) {
	data, ok := r.cacheGet(ctx, "tree", key)
	if !ok {
		return nil, nil, false
	}
	var entry treeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil, false
	}
	table, err := graph.ToTable(entry.Frequencies)
	if err != nil {
		return nil, nil, false
	}
	root, err := graph.ToTree(entry.Tree)
	if err != nil {
		return nil, nil, false
	}
	return table, root, true
}

// BuildTree is a convenience wrapper that calls BuildTreeWithCacheInfo and discards the cache hit info.
func (r *Runner) BuildTree(ctx context.Context, opts Options) (*huffman.FrequencyTable, *huffman.Node, error) {
	table, root, _, err := r.BuildTreeWithCacheInfo(ctx, opts)
	return table, root, err
}

// ComputeLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
// The cache key is derived from the tree, so any text producing the same
// tree shares the entry.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, root *huffman.Node, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	r.applyLogger(&opts)

	treeData, err := graph.MarshalTree(root)
	if err != nil {
		return graph.Layout{}, false, coreError(err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(treeData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.cacheGet(ctx, "layout", cacheKey); ok {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	hooks := observability.Pipeline()
	leaves, internal := huffman.CountNodes(root)
	hooks.OnLayoutStart(ctx, opts.VizType, leaves+internal)
	start := time.Now()
	gl, err := GenerateLayout(root, opts)
	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(gl); err == nil {
		r.cacheSet(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}

	return gl, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, root *huffman.Node, opts Options) (graph.Layout, error) {
	gl, _, err := r.ComputeLayoutWithCacheInfo(ctx, root, opts)
	return gl, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, gl graph.Layout, src Source, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data. Frequencies and codes are a
	// function of the text, so the text hash joins the key when present.
	layoutData, err := graph.MarshalLayout(gl)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	if src.Table != nil {
		if freq, err := json.Marshal(graph.FromTable(src.Table)); err == nil {
			layoutData = append(layoutData, freq...)
		}
	}
	cacheKeyHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
			data, ok := r.cacheGet(ctx, "artifact", cacheKey)
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, gl, src, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, "artifact", cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, gl graph.Layout, src Source, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, gl, src, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cacheGet reads a cache entry. Backend errors are logged and treated as misses.
func (r *Runner) cacheGet(ctx context.Context, kind, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "kind", kind, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return data, true
}

func (r *Runner) cacheSet(ctx context.Context, kind, key string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// TreeStats summarizes the shape of root and the size of the encoded text.
// Timings are left zero.
func TreeStats(table *huffman.FrequencyTable, root *huffman.Node, codes map[huffman.Symbol]huffman.Code) Stats {
	leaves, internal := huffman.CountNodes(root)
	return Stats{
		Symbols:     table.Len(),
		Length:      table.Total(),
		Leaves:      leaves,
		Internal:    internal,
		Depth:       huffman.Depth(root),
		EncodedBits: huffman.EncodedBits(table, codes),
	}
}
