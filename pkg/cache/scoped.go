package cache

// ScopedKeyer wraps a Keyer with a prefix so that several family trees can
// share one cache backend without colliding.
//
// Example usage:
//
//	// Per-tree keys in a shared Redis instance
//	treeKeyer := NewScopedKeyer(NewDefaultKeyer(), "tree:smith:")
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

// ParseKey generates a prefixed key for parse caching.
func (k *ScopedKeyer) ParseKey(inputHash string) string {
	return k.prefix + k.inner.ParseKey(inputHash)
}

// AnalysisKey generates a prefixed key for analysis caching.
func (k *ScopedKeyer) AnalysisKey(peopleHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(peopleHash, opts)
}
