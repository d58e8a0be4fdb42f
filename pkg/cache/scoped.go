package cache

// ScopedKeyer wraps a Keyer with a prefix so separate template sets or
// tenants can share one backend without colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "school-a:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

// SummaryKey returns the prefixed summary key.
func (k *ScopedKeyer) SummaryKey(inputHash string) string {
	return k.prefix + k.inner.SummaryKey(inputHash)
}
