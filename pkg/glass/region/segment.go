package region

import (
	"image"
	"math"
	"math/rand/v2"

	"github.com/mkling/vitrail/pkg/glass/param"
	"github.com/mkling/vitrail/pkg/glass/shape"
)

// goldenRatio drives the per-region hue walk, keyed to the assigned region
// id rather than shape generation order.
const goldenRatio = 0.6180339887498949

// Result is the outcome of one segmentation pass.
type Result struct {
	Raster  *Raster
	Palette Palette

	// LimitReached reports that the MaxRegions ceiling cut off scanning.
	// Remaining components stay unassigned; rendering continues.
	LimitReached bool
}

// Segment thresholds the boundary buffer and discovers interior connected
// components with a span-based flood fill, assigning sequential region ids
// and palette colors in discovery order.
//
// A boundary-free canvas yields exactly one region; a canvas saturated with
// ink yields zero regions and an empty palette. Both are valid results.
func Segment(boundary *image.Gray, cfg param.ResolvedConfig, rng *rand.Rand) Result {
	b := boundary.Bounds()
	w, h := b.Dx(), b.Dy()
	raster := NewRaster(w, h)
	res := Result{Raster: raster, Palette: Palette{}}

	visited := make([]bool, w*h)
	for y := 0; y < h; y++ {
		row := boundary.Pix[(y+b.Min.Y)*boundary.Stride+b.Min.X:]
		for x := 0; x < w; x++ {
			if row[x] < luminanceThreshold {
				visited[y*w+x] = true // boundary, id already BoundaryID
			}
		}
	}

	f := &filler{w: w, h: h, visited: visited, id: raster.ID}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] {
				continue
			}
			if len(res.Palette) == MaxRegions {
				// Capacity ceiling: leave every remaining component
				// unassigned and stop scanning entirely.
				res.LimitReached = true
				return res
			}
			id := uint8(len(res.Palette))
			f.fill(x, y, id)
			res.Palette = append(res.Palette, regionColor(cfg, int(id), rng))
		}
	}
	return res
}

// regionColor picks the palette entry for a region: golden-ratio hue offset
// keyed to the assigned id, plus per-region jitter on saturation and
// brightness within the resolved ranges. Chosen once and reused by every
// effect that samples the region's base color.
func regionColor(cfg param.ResolvedConfig, id int, rng *rand.Rand) shape.HSB {
	return shape.HSB{
		H: math.Mod(cfg.HueBase+float64(id)*goldenRatio, 1),
		S: cfg.SaturationMin + rng.Float64()*(cfg.SaturationMax-cfg.SaturationMin),
		B: cfg.BrightnessMin + rng.Float64()*(cfg.BrightnessMax-cfg.BrightnessMin),
	}
}

// span is one maximal horizontal run of filled pixels, inclusive on both
// ends.
type span struct {
	x1, x2, y int
}

// filler performs the span-based stack fill over the 4-neighborhood. Memory
// is bounded by the number of spans, not pixels, and no recursion is used.
type filler struct {
	w, h    int
	visited []bool
	id      []uint8
	stack   []span
}

func (f *filler) fillable(x, y int) bool {
	return x >= 0 && x < f.w && y >= 0 && y < f.h && !f.visited[y*f.w+x]
}

// mark claims the run [x1,x2] on row y and pushes it.
func (f *filler) mark(x1, x2, y int, id uint8) {
	base := y * f.w
	for x := x1; x <= x2; x++ {
		f.visited[base+x] = true
		f.id[base+x] = id
	}
	f.stack = append(f.stack, span{x1: x1, x2: x2, y: y})
}

// fill floods the connected component containing the seed pixel. It first
// claims the maximal horizontal run through the seed, then for each popped
// span scans the rows above and below for new runs overlapping its x-range,
// extending each to its own natural boundaries.
func (f *filler) fill(seedX, seedY int, id uint8) {
	x1 := seedX
	for f.fillable(x1-1, seedY) {
		x1--
	}
	x2 := seedX
	for f.fillable(x2+1, seedY) {
		x2++
	}
	f.mark(x1, x2, seedY, id)

	for len(f.stack) > 0 {
		s := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]

		for _, ny := range [2]int{s.y - 1, s.y + 1} {
			if ny < 0 || ny >= f.h {
				continue
			}
			for x := s.x1; x <= s.x2; x++ {
				if !f.fillable(x, ny) {
					continue
				}
				nx1 := x
				for f.fillable(nx1-1, ny) {
					nx1--
				}
				nx2 := x
				for f.fillable(nx2+1, ny) {
					nx2++
				}
				f.mark(nx1, nx2, ny, id)
				x = nx2 // loop increment moves past the run
			}
		}
	}
}
