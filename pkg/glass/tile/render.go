package tile

import (
	"context"
	"image"
	"image/draw"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mkling/vitrail/pkg/glass/compose"
)

// Option configures a tiled render.
type Option func(*renderer)

type renderer struct {
	maxDim  int
	workers int
	onTile  func(done, total int, d Descriptor)
}

// WithMaxDim bounds the tile size on either axis.
func WithMaxDim(dim int) Option {
	return func(r *renderer) { r.maxDim = dim }
}

// WithWorkers caps how many tiles render concurrently.
func WithWorkers(n int) Option {
	return func(r *renderer) { r.workers = n }
}

// WithProgress registers a milestone callback invoked once per completed
// tile. done counts completions, not tile order; calls are serialized.
func WithProgress(fn func(done, total int, d Descriptor)) Option {
	return func(r *renderer) { r.onTile = fn }
}

// Render produces the full w x h image through the tile grid. Segmentation
// has already happened at full resolution inside the compositor's raster;
// each tile is rendered onto its own bounded surface with a global origin
// offset and copied into place. Tile order is irrelevant to the result.
//
// A cancelled context aborts the render and discards all partial output:
// the returned image is nil whenever the error is non-nil.
func Render(ctx context.Context, c *compose.Compositor, w, h int, opts ...Option) (*image.RGBA, error) {
	r := renderer{maxDim: DefaultMaxDim, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&r)
	}
	if r.workers < 1 {
		r.workers = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if !NeedsTiling(w, h, r.maxDim) {
		if err := c.Render(ctx, out, image.Point{}); err != nil {
			return nil, err
		}
		if r.onTile != nil {
			r.onTile(1, 1, Descriptor{Width: w, Height: h})
		}
		return out, nil
	}

	tiles := Plan(w, h, r.maxDim)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var mu sync.Mutex
	done := 0
	for _, d := range tiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			surface := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
			if err := c.Render(ctx, surface, image.Point{X: d.X, Y: d.Y}); err != nil {
				return err
			}
			dst := image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
			draw.Draw(out, dst, surface, image.Point{}, draw.Src)
			if r.onTile != nil {
				mu.Lock()
				done++
				r.onTile(done, len(tiles), d)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
