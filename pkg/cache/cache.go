// Package cache provides artifact caching for the rendering pipeline.
//
// The Cache interface abstracts the backend: a file cache for CLI usage, a
// Redis cache for the HTTP service, and a null cache when caching is
// disabled. Keys are produced by a Keyer so every surface derives identical
// keys for identical work.
package cache

import (
	"context"
	"time"
)

// TTLs per cached item class. Scenes are cheap to recompute; rendered
// artifacts are the expensive product.
const (
	// TTLScene bounds cached segmentation results.
	TTLScene = 24 * time.Hour

	// TTLArtifact bounds cached rendered images.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SceneKeyOpts identifies one generation: everything that influences the
// shape set, the region raster, and the palette.
type SceneKeyOpts struct {
	Width   int
	Height  int
	Seed    uint64
	Valence float64
	Arousal float64
	Focus   float64
}

// ArtifactKeyOpts identifies one rendered artifact derived from a scene.
type ArtifactKeyOpts struct {
	Format     string
	MaxTileDim int
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// SceneKey keys a segmented generation by template fingerprint and
	// generation inputs.
	SceneKey(templateHash string, opts SceneKeyOpts) string

	// ArtifactKey keys a rendered artifact by its scene key and render
	// options.
	ArtifactKey(sceneKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SceneKey generates a key for a segmented generation.
func (k *DefaultKeyer) SceneKey(templateHash string, opts SceneKeyOpts) string {
	return hashKey("scene", templateHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(sceneKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneKey, opts)
}
