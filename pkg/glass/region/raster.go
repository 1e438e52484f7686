package region

import (
	"github.com/mkling/vitrail/pkg/glass/shape"
)

const (
	// BoundaryID is the reserved id for boundary pixels. Interior
	// components past the capacity ceiling also keep this id, which makes
	// them render as leading rather than as a region.
	BoundaryID = 255

	// MaxRegions is the hard capacity ceiling. Region ids run 0 through
	// MaxRegions-1; hitting the ceiling is a documented cutoff, not an
	// error.
	MaxRegions = 254
)

// Raster is a width x height array of region ids. Ids 0..MaxRegions-1 name
// regions; BoundaryID marks boundary pixels and unassigned components. It
// is owned by one generation and read-only once segmentation completes.
type Raster struct {
	Width  int
	Height int
	ID     []uint8
}

// NewRaster allocates a raster with every pixel marked BoundaryID.
func NewRaster(width, height int) *Raster {
	id := make([]uint8, width*height)
	for i := range id {
		id[i] = BoundaryID
	}
	return &Raster{Width: width, Height: height, ID: id}
}

// At returns the region id at (x, y). Out-of-bounds coordinates read as
// boundary, which keeps tile-edge sampling well defined.
func (r *Raster) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return BoundaryID
	}
	return r.ID[y*r.Width+x]
}

// Palette is the per-region color list; index equals region id. It is
// always exactly as long as the number of assigned region ids.
type Palette []shape.HSB
