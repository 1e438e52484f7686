package compose

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// bandRows is the scanline batch each worker claims at a time. Pixels are
// independent, so the split is purely for scheduling granularity.
const bandRows = 32

// Render fills dst by evaluating ColorAt for every pixel. origin is the
// global coordinate of dst's top-left pixel, so a tile render passes its
// tile origin and a full render passes (0,0). Scanline bands run in
// parallel; there is no cross-pixel state to synchronize.
func (c *Compositor) Render(ctx context.Context, dst *image.RGBA, origin image.Point) error {
	c.mustInit()
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for y0 := 0; y0 < h; y0 += bandRows {
		y1 := y0 + bandRows
		if y1 > h {
			y1 = h
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for y := y0; y < y1; y++ {
				row := dst.Pix[(y+b.Min.Y-dst.Rect.Min.Y)*dst.Stride:]
				for x := 0; x < w; x++ {
					px := c.ColorAt(origin.X+x, origin.Y+y)
					i := (x + b.Min.X - dst.Rect.Min.X) * 4
					row[i] = px.R
					row[i+1] = px.G
					row[i+2] = px.B
					row[i+3] = px.A
				}
			}
			return nil
		})
	}
	return g.Wait()
}
