package pipeline

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkling/vitrail/pkg/cache"
	"github.com/mkling/vitrail/pkg/errors"
	"github.com/mkling/vitrail/pkg/glass/compose"
	"github.com/mkling/vitrail/pkg/glass/param"
	"github.com/mkling/vitrail/pkg/glass/region"
	"github.com/mkling/vitrail/pkg/glass/shape"
	"github.com/mkling/vitrail/pkg/glass/sink"
	"github.com/mkling/vitrail/pkg/glass/tile"
	"github.com/mkling/vitrail/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete generate → render → encode pipeline with
// artifact caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	sent := r.resolveSentiment(ctx, &opts)
	artifactKey := r.artifactKey(&opts, sent)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, artifactKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.PNG = data
			result.CacheInfo.ArtifactHit = true
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Stage 1: Generate
	genStart := time.Now()
	scene, err := r.generate(ctx, opts, sent)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Scene = scene
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Shapes = scene.Shapes.Count()
	result.Stats.Regions = scene.Regions()

	opts.Logger.Info("generated scene",
		"shapes", result.Stats.Shapes,
		"regions", result.Stats.Regions,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	img, err := r.Render(ctx, scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Image = img
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Tiles = len(tile.Plan(scene.Width, scene.Height, opts.MaxTileDim))

	opts.Logger.Info("rendered image",
		"size", fmt.Sprintf("%dx%d", scene.Width, scene.Height),
		"tiles", result.Stats.Tiles,
		"duration", result.Stats.RenderTime)

	// Stage 3: Encode
	encStart := time.Now()
	data, err := sink.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.PNG = data
	result.Stats.EncodeTime = time.Since(encStart)

	_ = r.Cache.Set(ctx, artifactKey, data, cache.TTLArtifact)
	observability.Cache().OnCacheSet(ctx, "artifact", len(data))

	return result, nil
}

// Generate resolves the template and segments the scene at full target
// resolution. The returned scene is read-only and safe to share.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Scene, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return r.generate(ctx, opts, r.resolveSentiment(ctx, &opts))
}

func (r *Runner) generate(ctx context.Context, opts Options, sent param.SentimentVector) (*Scene, error) {
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Width, opts.Height, opts.Seed)
	start := time.Now()

	// One PCG stream drives resolution, generation, and palette jitter, so
	// a seed fully determines the scene.
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	cfg := param.Resolve(*opts.Template, sent, rng)
	shapes := shape.Generate(cfg, opts.Width, opts.Height, rng)
	hooks.OnGenerateComplete(ctx, shapes.Count(), time.Since(start), nil)

	hooks.OnSegmentStart(ctx, opts.Width, opts.Height)
	segStart := time.Now()
	boundary := region.DrawBoundary(shapes, opts.Width, opts.Height)
	seg := region.Segment(boundary, cfg, rng)
	hooks.OnSegmentComplete(ctx, len(seg.Palette), seg.LimitReached, time.Since(segStart), nil)

	if seg.LimitReached {
		// Capacity cutoff: remaining components keep the boundary id and
		// render as leading. Diagnostic only; generation continues.
		opts.Logger.Warn("region capacity reached",
			"code", errors.ErrCodeRegionCapacity,
			"regions", len(seg.Palette))
	}

	return &Scene{
		Width:        opts.Width,
		Height:       opts.Height,
		Seed:         opts.Seed,
		Sentiment:    sent,
		Config:       cfg,
		Shapes:       shapes,
		Raster:       seg.Raster,
		Palette:      seg.Palette,
		LimitReached: seg.LimitReached,
	}, nil
}

// Render composites the scene at its full resolution, tiling when the
// target exceeds the bounded render surface.
func (r *Runner) Render(ctx context.Context, scene *Scene, opts Options) (*image.RGBA, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	if scene.Width > errors.MaxDimension || scene.Height > errors.MaxDimension {
		return nil, errors.New(errors.ErrCodeSurfaceAlloc,
			"cannot allocate %dx%d render surface", scene.Width, scene.Height)
	}

	hooks := observability.Pipeline()
	tiles := len(tile.Plan(scene.Width, scene.Height, opts.MaxTileDim))
	hooks.OnRenderStart(ctx, scene.Width, scene.Height, tiles)
	start := time.Now()

	comp := compose.New(scene.Shapes, scene.Raster, scene.Palette,
		compose.ParamsFrom(scene.Config, scene.Shapes, scene.Seed))

	renderOpts := []tile.Option{tile.WithMaxDim(opts.MaxTileDim)}
	if opts.Workers > 0 {
		renderOpts = append(renderOpts, tile.WithWorkers(opts.Workers))
	}
	if opts.OnTile != nil {
		renderOpts = append(renderOpts, tile.WithProgress(opts.OnTile))
	}

	img, err := tile.Render(ctx, comp, scene.Width, scene.Height, renderOpts...)
	hooks.OnRenderComplete(ctx, tiles, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Preview renders the scene at a bounded preview resolution using a
// derived, uniformly rescaled shape set and its own segmentation pass. The
// canonical scene is not mutated.
func (r *Runner) Preview(ctx context.Context, scene *Scene, opts Options) (*image.RGBA, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	long := scene.Width
	if scene.Height > long {
		long = scene.Height
	}
	if long <= opts.PreviewDim {
		return r.Render(ctx, scene, opts)
	}
	f := float64(opts.PreviewDim) / float64(long)

	shapes := scene.Shapes.Scaled(f)
	pw, ph := shapes.Width, shapes.Height

	// Preview segmentation runs at preview resolution with its own
	// deterministic stream for the palette jitter.
	rng := rand.New(rand.NewPCG(scene.Seed, scene.Seed^0x70b1e77e))
	boundary := region.DrawBoundary(shapes, pw, ph)
	seg := region.Segment(boundary, scene.Config, rng)

	comp := compose.New(shapes, seg.Raster, seg.Palette,
		compose.ParamsFrom(scene.Config, scene.Shapes, scene.Seed).Scaled(f))

	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	if err := comp.Render(ctx, img, image.Point{}); err != nil {
		return nil, err
	}
	return img, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// resolveSentiment picks the sentiment vector for a run: explicit values
// win, then the text provider, then neutral. Provider failures recover to
// neutral and are never propagated.
func (r *Runner) resolveSentiment(ctx context.Context, opts *Options) param.SentimentVector {
	if opts.Sentiment != nil {
		return opts.Sentiment.Clamped()
	}
	if opts.Text != "" && opts.Provider != nil {
		sent, err := opts.Provider.Analyze(ctx, opts.Text)
		if err != nil {
			opts.Logger.Warn("sentiment provider failed, using neutral", "err", err)
			return param.Neutral()
		}
		return sent.Clamped()
	}
	return param.Neutral()
}

// artifactKey derives the cache key for the encoded artifact of a run.
func (r *Runner) artifactKey(opts *Options, sent param.SentimentVector) string {
	sceneKey := r.Keyer.SceneKey(opts.Template.Fingerprint(), cache.SceneKeyOpts{
		Width:   opts.Width,
		Height:  opts.Height,
		Seed:    opts.Seed,
		Valence: sent.Valence,
		Arousal: sent.Arousal,
		Focus:   sent.Focus,
	})
	return r.Keyer.ArtifactKey(sceneKey, cache.ArtifactKeyOpts{
		Format:     FormatPNG,
		MaxTileDim: opts.MaxTileDim,
	})
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
