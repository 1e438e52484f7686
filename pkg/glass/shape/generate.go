package shape

import (
	"math"
	"math/rand/v2"

	"github.com/mkling/vitrail/pkg/glass/param"
)

// goldenRatio is the low-discrepancy hue increment: successive shapes land
// maximally far apart on the hue circle.
const goldenRatio = 0.6180339887498949

// Canvas edges, clockwise from the top.
const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// Generate produces the shape set for one generation in the pixel space of
// width x height. Callers must pass a non-degenerate canvas; a fixed rng
// makes generation reproducible.
func Generate(cfg param.ResolvedConfig, width, height int, rng *rand.Rand) Set {
	w, h := float64(width), float64(height)
	set := Set{Width: width, Height: height}

	lineCount := cfg.LineCount
	if cfg.LineDensity > 0 {
		// Resolution-independent mode: density is lines per megapixel.
		lineCount = int(math.Round(cfg.LineDensity * w * h / 1e6))
		if lineCount < 1 {
			lineCount = 1
		}
	}

	hueIndex := 0
	nextColor := func() HSB {
		c := pickColor(cfg, hueIndex, rng)
		hueIndex++
		return c
	}

	set.Lines = make([]Line, 0, lineCount)
	for i := 0; i < lineCount; i++ {
		ea, eb := pickEdges(rng)
		set.Lines = append(set.Lines, Line{
			A:      edgePoint(ea, rng.Float64(), w, h),
			B:      edgePoint(eb, rng.Float64(), w, h),
			Weight: cfg.LineWeight,
			Color:  nextColor(),
		})
	}

	minDim := math.Min(w, h)
	set.Circles = make([]Circle, 0, cfg.CircleCount)
	for i := 0; i < cfg.CircleCount; i++ {
		r := (cfg.RadiusMin + rng.Float64()*(cfg.RadiusMax-cfg.RadiusMin)) * minDim
		// Keep the full ring inside the canvas with margin >= r/2. When the
		// canvas is too small for that, shrink the radius to fit.
		if 3*r > minDim {
			r = minDim / 3
		}
		margin := 1.5 * r
		set.Circles = append(set.Circles, Circle{
			Center: Point{
				X: margin + rng.Float64()*(w-2*margin),
				Y: margin + rng.Float64()*(h-2*margin),
			},
			Radius: r,
			Weight: cfg.CircleWeight,
			Color:  nextColor(),
		})
	}

	return set
}

// pickEdges returns two distinct canvas edges, uniformly at random.
func pickEdges(rng *rand.Rand) (int, int) {
	a := rng.IntN(4)
	b := rng.IntN(3)
	if b >= a {
		b++
	}
	return a, b
}

// edgePoint maps a parameter t in [0,1) along the given edge to a point that
// lies exactly on the frame.
func edgePoint(edge int, t, w, h float64) Point {
	switch edge {
	case edgeTop:
		return Point{X: t * w, Y: 0}
	case edgeRight:
		return Point{X: w, Y: t * h}
	case edgeBottom:
		return Point{X: t * w, Y: h}
	case edgeLeft:
		return Point{X: 0, Y: t * h}
	}
	panic("shape: invalid edge")
}

// pickColor assigns the i-th shape a hue by golden-ratio walk from the
// resolved base plus independent jitter on saturation and brightness within
// the resolved ranges.
func pickColor(cfg param.ResolvedConfig, i int, rng *rand.Rand) HSB {
	h := math.Mod(cfg.HueBase+float64(i)*goldenRatio, 1)
	return HSB{
		H: h,
		S: cfg.SaturationMin + rng.Float64()*(cfg.SaturationMax-cfg.SaturationMin),
		B: cfg.BrightnessMin + rng.Float64()*(cfg.BrightnessMax-cfg.BrightnessMin),
	}
}
