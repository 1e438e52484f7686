// Package compose renders final pixels: an analytic signed-distance field
// over the shape list drives rounded leading lines, and noise-driven glass
// effects color each region. ColorAt is a pure function of the pixel's
// global coordinate, which is what makes independently rendered tiles
// seamless.
package compose

import (
	"math"

	"github.com/mkling/vitrail/pkg/glass/shape"
)

// segmentDistance is the distance from p to the segment ab.
func segmentDistance(px, py float64, a, b shape.Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := px-a.X, py-a.Y
	denom := abx*abx + aby*aby
	t := 0.0
	if denom > 0 {
		t = (apx*abx + apy*aby) / denom
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	dx, dy := apx-t*abx, apy-t*aby
	return math.Sqrt(dx*dx + dy*dy)
}

// ringDistance is the distance from p to the circle outline: |‖p-c‖ - r|.
func ringDistance(px, py float64, c shape.Point, r float64) float64 {
	dx, dy := px-c.X, py-c.Y
	return math.Abs(math.Sqrt(dx*dx+dy*dy) - r)
}

// smin is the polynomial smooth minimum: it rounds the junction between two
// distance fields instead of creasing at the sharp min. k is the rounding
// radius; at |a-b| >= k it degrades to plain min.
func smin(a, b, k float64) float64 {
	m := math.Min(a, b)
	if k <= 0 {
		return m
	}
	h := math.Max(k-math.Abs(a-b), 0) / k
	return m - h*h*k*0.25
}

// leadingDistance folds the distances to every shape's boundary geometry
// with smin, so nearby shapes blend into rounded junctions.
func leadingDistance(px, py float64, set shape.Set, k float64) float64 {
	d := math.Inf(1)
	for i := range set.Lines {
		l := &set.Lines[i]
		d = smin(d, segmentDistance(px, py, l.A, l.B), k)
	}
	for i := range set.Circles {
		c := &set.Circles[i]
		d = smin(d, ringDistance(px, py, c.Center, c.Radius), k)
	}
	return d
}
