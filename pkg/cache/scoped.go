package cache

// ScopedKeyer wraps a Keyer with a prefix so different deployment surfaces
// (CLI, server tenants) keep separate cache namespaces over a shared
// backend.
//
// Example usage:
//
//	// Server-side keys, isolated from any CLI keys on the same backend
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
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

// SceneKey generates a prefixed key for a segmented generation.
func (k *ScopedKeyer) SceneKey(templateHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(templateHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(sceneKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneKey, opts)
}
