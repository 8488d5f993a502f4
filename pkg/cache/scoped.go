package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The server scopes its keys so a shared Redis can also serve other
// deployments.
//
// Example usage:
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "huffviz:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TreeKey generates a prefixed key for tree caching.
func (k *ScopedKeyer) TreeKey(textHash string) string {
	return k.prefix + k.inner.TreeKey(textHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(textHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(textHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
