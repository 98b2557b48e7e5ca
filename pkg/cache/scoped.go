package cache

// ScopedKeyer wraps a Keyer with a prefix. Several deployments sharing one
// redis database keep their entries apart this way.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "labyrinth:")
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

// MazeKey generates a prefixed maze key.
func (k *ScopedKeyer) MazeKey(opts MazeKeyOpts) string {
	return k.prefix + k.inner.MazeKey(opts)
}

// ArtifactKey generates a prefixed artifact key. mazeKey is passed through
// as given, so callers may pass an already prefixed key.
func (k *ScopedKeyer) ArtifactKey(mazeKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(mazeKey, opts)
}
