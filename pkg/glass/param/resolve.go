package param

import (
	"math"
	"math/rand/v2"
)

// ResolvedConfig is the fully numeric materialization of a template for one
// generation. It is created once per generate action and read-only for every
// downstream stage of that generation.
type ResolvedConfig struct {
	LineCount   int
	LineDensity float64 // lines per megapixel; 0 means use LineCount
	LineWeight  float64
	CircleCount  int
	CircleWeight float64
	RadiusMin    float64 // fractions of the shorter canvas dimension
	RadiusMax    float64

	HueBase       float64 // [0,1) start of the golden-ratio hue walk
	SaturationMin float64
	SaturationMax float64
	BrightnessMin float64
	BrightnessMax float64

	Bleed      float64
	Glow       float64
	EdgeDarken float64
	Texture    float64
	Grain      float64

	LeadingThickness  float64 // 0: derive from stroke weights
	LeadingRounding   float64
	LeadingBrightness float64
}

// Resolve samples every value of the template once against the sentiment
// vector. Callers must clamp sentiment to [0,1] beforehand (Clamped); a
// fixed rng yields an identical config on every call.
func Resolve(t Template, sent SentimentVector, rng *rand.Rand) ResolvedConfig {
	cfg := ResolvedConfig{
		// At least one line: a zero-line canvas degenerates to a single pane.
		LineCount:   resolveCount(t.LineCount, sent, rng, 1),
		LineDensity: math.Max(0, t.LineDensity.Resolve(sent, rng)),
		LineWeight:  math.Max(1, t.LineWeight.Resolve(sent, rng)),

		CircleCount:  resolveCount(t.CircleCount, sent, rng, 0),
		CircleWeight: math.Max(1, t.CircleWeight.Resolve(sent, rng)),
		RadiusMin:    clamp01(t.RadiusMin.Resolve(sent, rng)),
		RadiusMax:    clamp01(t.RadiusMax.Resolve(sent, rng)),

		HueBase:       rng.Float64(),
		SaturationMin: clamp01(t.SaturationMin.Resolve(sent, rng)),
		SaturationMax: clamp01(t.SaturationMax.Resolve(sent, rng)),
		BrightnessMin: clamp01(t.BrightnessMin.Resolve(sent, rng)),
		BrightnessMax: clamp01(t.BrightnessMax.Resolve(sent, rng)),

		Bleed:      clamp01(t.Bleed.Resolve(sent, rng)),
		Glow:       clamp01(t.Glow.Resolve(sent, rng)),
		EdgeDarken: clamp01(t.EdgeDarken.Resolve(sent, rng)),
		Texture:    clamp01(t.Texture.Resolve(sent, rng)),
		Grain:      clamp01(t.Grain.Resolve(sent, rng)),

		LeadingThickness:  math.Max(0, t.LeadingThickness.Resolve(sent, rng)),
		LeadingRounding:   math.Max(0.5, t.LeadingRounding.Resolve(sent, rng)),
		LeadingBrightness: clamp01(t.LeadingBrightness.Resolve(sent, rng)),
	}

	if cfg.RadiusMax < cfg.RadiusMin {
		cfg.RadiusMin, cfg.RadiusMax = cfg.RadiusMax, cfg.RadiusMin
	}
	if cfg.SaturationMax < cfg.SaturationMin {
		cfg.SaturationMin, cfg.SaturationMax = cfg.SaturationMax, cfg.SaturationMin
	}
	if cfg.BrightnessMax < cfg.BrightnessMin {
		cfg.BrightnessMin, cfg.BrightnessMax = cfg.BrightnessMax, cfg.BrightnessMin
	}
	return cfg
}

// resolveCount rounds a resolved value to the nearest integer, floored at
// min where zero would be degenerate.
func resolveCount(v Value, sent SentimentVector, rng *rand.Rand, min int) int {
	n := int(math.Round(v.Resolve(sent, rng)))
	if n < min {
		return min
	}
	return n
}
