// Package pipeline provides the core generation pipeline for Vitrail.
//
// This package implements the complete resolve → generate → segment → render
// pipeline that can be used by CLI and server components. By centralizing
// this logic, we ensure consistent behavior across all entry points and
// avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Generate: resolve the template against the sentiment vector, create
//     the shape set, rasterize its boundary, and segment it into regions
//  2. Render: composite the segmented scene into pixels, tiled when the
//     target exceeds the bounded render surface
//  3. Encode: produce the deliverable artifact (PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Width:  3840,
//	    Height: 2160,
//	    Seed:   7,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.PNG
//
// Run individual stages:
//
//	scene, err := runner.Generate(ctx, opts)
//	img, err := runner.Render(ctx, scene, opts)
package pipeline

import (
	"context"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkling/vitrail/pkg/errors"
	"github.com/mkling/vitrail/pkg/glass/param"
	"github.com/mkling/vitrail/pkg/glass/region"
	"github.com/mkling/vitrail/pkg/glass/shape"
	"github.com/mkling/vitrail/pkg/glass/tile"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default target width in pixels.
	DefaultWidth = 1600

	// DefaultHeight is the default target height in pixels.
	DefaultHeight = 1200

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultPreviewDim bounds the longer axis of preview renders.
	DefaultPreviewDim = 1024

	// DefaultMaxTileDim bounds either axis of one render surface.
	DefaultMaxTileDim = tile.DefaultMaxDim
)

// FormatPNG is the only artifact format currently produced.
const FormatPNG = "png"

// SentimentProvider turns free text into a sentiment vector. Providers are
// external collaborators; any provider failure is recovered by substituting
// the neutral vector, never surfaced as a generation failure.
type SentimentProvider interface {
	Analyze(ctx context.Context, text string) (param.SentimentVector, error)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generation options
	Width     int                    `json:"width,omitempty"`
	Height    int                    `json:"height,omitempty"`
	Seed      uint64                 `json:"seed,omitempty"`
	Sentiment *param.SentimentVector `json:"sentiment,omitempty"`
	Text      string                 `json:"text,omitempty"` // analyzed by Provider when Sentiment is absent

	// Template options
	TemplatePath string `json:"template,omitempty"`

	// Render options
	PreviewDim int  `json:"preview_dim,omitempty"`
	MaxTileDim int  `json:"max_tile_dim,omitempty"`
	Workers    int  `json:"workers,omitempty"`
	Refresh    bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger                               `json:"-"`
	Provider SentimentProvider                         `json:"-"`
	Template *param.Template                           `json:"-"` // overrides TemplatePath
	OnTile   func(done, total int, d tile.Descriptor)  `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults clamps dimensions, loads the template, and applies
// defaults. Out-of-range dimensions clamp rather than error; only a
// malformed template file fails. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	o.Width = errors.ClampDimension(o.Width)
	o.Height = errors.ClampDimension(o.Height)

	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.PreviewDim == 0 {
		o.PreviewDim = DefaultPreviewDim
	}
	if o.MaxTileDim == 0 {
		o.MaxTileDim = DefaultMaxTileDim
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if o.Template == nil {
		if o.TemplatePath != "" {
			t, err := param.LoadTemplate(o.TemplatePath)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidTemplate, err, "load template %s", o.TemplatePath)
			}
			o.Template = &t
		} else {
			t := param.Default()
			o.Template = &t
		}
	}

	o.validated = true
	return nil
}

// =============================================================================
// Scene and Result
// =============================================================================

// Scene is one segmented generation at full target resolution: everything
// the compositor needs, all of it read-only once built.
type Scene struct {
	Width     int
	Height    int
	Seed      uint64
	Sentiment param.SentimentVector

	Config  param.ResolvedConfig
	Shapes  shape.Set
	Raster  *region.Raster
	Palette region.Palette

	// LimitReached reports the region capacity cutoff (diagnostic only).
	LimitReached bool
}

// Regions returns the number of assigned region ids.
func (s *Scene) Regions() int {
	return len(s.Palette)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the segmented generation. Nil when the artifact came
	// entirely from cache.
	Scene *Scene

	// Image is the full-resolution render. Nil on a cache hit.
	Image *image.RGBA

	// PNG is the encoded artifact.
	PNG []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Shapes       int
	Regions      int
	Tiles        int
	GenerateTime time.Duration
	RenderTime   time.Duration
	EncodeTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ArtifactHit bool // Whether the encoded artifact came from cache
}
