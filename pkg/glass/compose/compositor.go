package compose

import (
	"image/color"
	"math"

	"github.com/mkling/vitrail/pkg/glass/param"
	"github.com/mkling/vitrail/pkg/glass/region"
	"github.com/mkling/vitrail/pkg/glass/shape"
)

// Params holds the effect intensities and leading geometry for one
// generation, plus the seed every noise term derives from. All values are
// in the coordinate space of the raster the compositor renders.
type Params struct {
	Bleed      float64
	Glow       float64
	EdgeDarken float64
	Texture    float64
	Grain      float64

	LeadingThickness  float64
	LeadingRounding   float64
	LeadingBrightness float64

	Seed uint64
}

// ParamsFrom derives compositor parameters from a resolved config. A zero
// configured leading thickness follows the heaviest stroke in the set, so
// leading and rasterized boundary stay in visual agreement.
func ParamsFrom(cfg param.ResolvedConfig, set shape.Set, seed uint64) Params {
	th := cfg.LeadingThickness
	if th <= 0 {
		th = set.MaxWeight() / 2
	}
	if th <= 0 {
		th = 1
	}
	return Params{
		Bleed:             cfg.Bleed,
		Glow:              cfg.Glow,
		EdgeDarken:        cfg.EdgeDarken,
		Texture:           cfg.Texture,
		Grain:             cfg.Grain,
		LeadingThickness:  th,
		LeadingRounding:   cfg.LeadingRounding,
		LeadingBrightness: cfg.LeadingBrightness,
		Seed:              seed,
	}
}

// Scaled returns params for a uniformly rescaled rendering: lengths scale,
// intensities and the seed do not.
func (p Params) Scaled(f float64) Params {
	out := p
	out.LeadingThickness *= f
	out.LeadingRounding *= f
	return out
}

// Compositor evaluates the final color of any pixel as a pure function of
// its global (full-image) coordinate. It holds only read-only state and is
// safe to share across parallel workers. The zero Compositor is
// uninitialized; using it is a programming error.
type Compositor struct {
	set     shape.Set
	raster  *region.Raster
	palette region.Palette
	p       Params

	// Noise seeds, derived once from p.Seed.
	seedBleed uint32
	seedTexA  uint32
	seedTexB  uint32
	seedGrain uint32

	glowFalloff float64
	aa          float64

	initialized bool
}

// New builds a compositor over a segmented generation. The shape set must be
// in the same coordinate space as the raster.
func New(set shape.Set, raster *region.Raster, palette region.Palette, p Params) *Compositor {
	lo := uint32(p.Seed)
	hi := uint32(p.Seed >> 32)
	return &Compositor{
		set:         set,
		raster:      raster,
		palette:     palette,
		p:           p,
		seedBleed:   lo ^ 0xa1b2c3d4,
		seedTexA:    hi ^ 0x51f15eed,
		seedTexB:    lo ^ hi ^ 0x0ddba11,
		seedGrain:   hi ^ 0x6e4a17,
		glowFalloff: math.Max(8, p.LeadingThickness*6),
		aa:          1.5,
		initialized: true,
	}
}

// ColorAt computes the color of the pixel at global coordinate (gx, gy).
// The evaluation order is fixed: leading distance, base color, bleed,
// glow/edge, texture, leading blend, grain.
func (c *Compositor) ColorAt(gx, gy int) color.RGBA {
	c.mustInit()
	px, py := float64(gx)+0.5, float64(gy)+0.5

	d := leadingDistance(px, py, c.set, c.p.LeadingRounding)
	lead := c.leadingColor(d)

	id := c.raster.At(gx, gy)
	var out rgb
	if int(id) >= len(c.palette) {
		// Boundary or unassigned: leading color directly, no base lookup.
		out = lead
	} else {
		glass := c.glassColor(px, py, id, d)
		blend := 1 - smoothstep(c.p.LeadingThickness-c.aa, c.p.LeadingThickness+c.aa, d)
		out = glass.lerp(lead, blend)
	}

	out = out.add((grain(gx, gy, c.seedGrain) - 0.5) * c.p.Grain).clamped()
	return color.RGBA{
		R: uint8(out.r*255 + 0.5),
		G: uint8(out.g*255 + 0.5),
		B: uint8(out.b*255 + 0.5),
		A: 255,
	}
}

// glassColor is the pane color before the leading blend: palette base, then
// bleed, glow/edge, and texture in that order.
func (c *Compositor) glassColor(px, py float64, id uint8, d float64) rgb {
	base := c.palette[id]

	// Color bleed: large-scale coherent noise keyed by position and region
	// id, so bleed patterns differ per region without visible tiling.
	off := float64(id) * 53.71
	nh := valueNoise(px/156+off, py/156, c.seedBleed)
	ns := valueNoise(px/131, py/131+off, c.seedBleed^0x2f)
	h := base.H + (nh-0.5)*c.p.Bleed*0.25
	s := base.S + (ns-0.5)*c.p.Bleed*0.35
	b := base.B

	// Center glow, edge darken: leading distance stands in for distance
	// from the nearest edge.
	e := smoothstep(0, c.glowFalloff, d)
	b *= 1 - c.p.EdgeDarken*(1-e)
	b += c.p.Glow * e * 0.6

	// Glass grain: low-frequency fbm blended with one high-frequency
	// octave.
	t := fbm(px/96, py/96, c.seedTexA, 4)*0.7 + valueNoise(px/9, py/9, c.seedTexB)*0.3
	b += (t - 0.5) * c.p.Texture
	s -= (t - 0.5) * c.p.Texture * 0.5

	return hsbToRGB(shape.HSB{H: h, S: clamp01(s), B: clamp01(b)})
}

// leadingColor shades the lead by distance from its centerline: slightly
// lighter at the center, darker toward the rim.
func (c *Compositor) leadingColor(d float64) rgb {
	th := math.Max(c.p.LeadingThickness, 1)
	v := c.p.LeadingBrightness * (1.25 - 0.5*clamp01(d/th))
	return rgb{r: v, g: v, b: v * 1.04}.clamped()
}

func (c *Compositor) mustInit() {
	if !c.initialized {
		panic("compose: Compositor used before initialization (use New)")
	}
}
