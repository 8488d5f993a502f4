package layout

import "math"

// Default layout parameters, in pixels unless noted.
const (
	DefaultScale        = 80.0
	DefaultLevelHeight  = 80.0
	DefaultMarginX      = 50.0
	DefaultMarginY      = 50.0
	DefaultAnchorOffset = 30.0

	// DefaultInitialSpan is the root's child offset in unit positions for
	// the default halving policy.
	DefaultInitialSpan = 4.0
)

// Policy names accepted by [PolicyOption].
const (
	PolicyHalving   = "halving"
	PolicyLeafSlots = "leaf-slots"
)

// SpacingFunc returns the horizontal offset, in unit positions, between a
// node at the given depth and each of its children.
type SpacingFunc func(depth int) float64

// HalvingSpacing returns a SpacingFunc that starts at span for the root and
// halves at every further level.
func HalvingSpacing(span float64) SpacingFunc {
	return func(depth int) float64 {
		return span / math.Pow(2, float64(depth))
	}
}

// ConstantSpacing returns a SpacingFunc with the same offset at every level.
// Subtrees overlap once they are wider than the offset; it exists mostly for
// shallow trees and tests.
func ConstantSpacing(span float64) SpacingFunc {
	return func(int) float64 { return span }
}

// Option configures [Build].
type Option func(*config)

type config struct {
	spacing      SpacingFunc
	leafSlots    bool
	scale        float64
	levelHeight  float64
	marginX      float64
	marginY      float64
	anchorOffset float64
}

func newConfig(opts ...Option) config {
	c := config{
		spacing:      HalvingSpacing(DefaultInitialSpan),
		scale:        DefaultScale,
		levelHeight:  DefaultLevelHeight,
		marginX:      DefaultMarginX,
		marginY:      DefaultMarginY,
		anchorOffset: DefaultAnchorOffset,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithSpacing sets the per-depth child offset. A nil function restores the
// default halving policy.
func WithSpacing(fn SpacingFunc) Option {
	return func(c *config) {
		if fn == nil {
			fn = HalvingSpacing(DefaultInitialSpan)
		}
		c.spacing = fn
		c.leafSlots = false
	}
}

// WithLeafSlots gives each leaf its own column, in left-to-right order, and
// places every internal node midway between its children. Subtrees never
// overlap under this policy.
func WithLeafSlots() Option {
	return func(c *config) { c.leafSlots = true }
}

// WithScale sets the number of pixels per unit position.
func WithScale(px float64) Option {
	return func(c *config) {
		if px > 0 {
			c.scale = px
		}
	}
}

// WithLevelHeight sets the vertical distance between depths, in pixels.
func WithLevelHeight(px float64) Option {
	return func(c *config) {
		if px > 0 {
			c.levelHeight = px
		}
	}
}

// WithMargins sets the left and top margins.
func WithMargins(x, y float64) Option {
	return func(c *config) { c.marginX, c.marginY = x, y }
}

// WithAnchorOffset sets the distance from a node's position to the point
// where its edges attach, on both axes.
func WithAnchorOffset(px float64) Option {
	return func(c *config) { c.anchorOffset = px }
}

// PolicyOption converts a policy name and span into an Option. Unknown names
// fall back to the halving policy.
func PolicyOption(name string, span float64) Option {
	if name == PolicyLeafSlots {
		return WithLeafSlots()
	}
	if span <= 0 {
		span = DefaultInitialSpan
	}
	return WithSpacing(HalvingSpacing(span))
}
