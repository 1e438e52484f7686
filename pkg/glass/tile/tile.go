// Package tile decomposes large renders into a grid of bounded-size tiles.
// Each tile is rendered by the compositor with a global-coordinate offset
// and copied into the output; because every pixel is a pure function of its
// global coordinate, the stitched result is identical to a single
// full-resolution render and no seam blending is needed.
package tile

// Descriptor is one tile rectangle in full-image pixel coordinates. It is
// transient: descriptors exist only for the duration of an export.
type Descriptor struct {
	X, Y          int
	Width, Height int
}

// DefaultMaxDim is the default bound on either tile axis, sized to a render
// surface that is safe to allocate everywhere.
const DefaultMaxDim = 2048

// NeedsTiling reports whether a w x h render exceeds the bounded surface and
// must go through the tile grid.
func NeedsTiling(w, h, maxDim int) bool {
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}
	return w > maxDim || h > maxDim
}

// Plan partitions a w x h image into a row-major grid of tiles no larger
// than maxDim on either axis. The last row and column absorb the remainder.
// The union of the returned rectangles covers [0,w)x[0,h) exactly, with no
// gaps or overlaps.
func Plan(w, h, maxDim int) []Descriptor {
	if maxDim <= 0 {
		maxDim = DefaultMaxDim
	}
	if w <= 0 || h <= 0 {
		return nil
	}

	cols := (w + maxDim - 1) / maxDim
	rows := (h + maxDim - 1) / maxDim
	tiles := make([]Descriptor, 0, cols*rows)
	for y := 0; y < h; y += maxDim {
		th := maxDim
		if y+th > h {
			th = h - y
		}
		for x := 0; x < w; x += maxDim {
			tw := maxDim
			if x+tw > w {
				tw = w - x
			}
			tiles = append(tiles, Descriptor{X: x, Y: y, Width: tw, Height: th})
		}
	}
	return tiles
}
