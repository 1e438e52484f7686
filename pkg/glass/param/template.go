package param

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Template declares every tunable of a generation. Each field is a Value:
// a constant or a sentiment-coupled seeded range. Counts resolve to
// integers; fractions are relative to the canvas (radius to the shorter
// dimension, density to megapixels).
type Template struct {
	// Shape generation.
	LineCount   Value `toml:"line_count"`
	LineDensity Value `toml:"line_density"` // lines per megapixel; overrides line_count when > 0
	LineWeight  Value `toml:"line_weight"`
	CircleCount Value `toml:"circle_count"`
	CircleWeight Value `toml:"circle_weight"`
	RadiusMin   Value `toml:"radius_min"` // fraction of the shorter canvas dimension
	RadiusMax   Value `toml:"radius_max"`

	// Region color ranges.
	SaturationMin Value `toml:"saturation_min"`
	SaturationMax Value `toml:"saturation_max"`
	BrightnessMin Value `toml:"brightness_min"`
	BrightnessMax Value `toml:"brightness_max"`

	// Glass effects.
	Bleed      Value `toml:"bleed"`
	Glow       Value `toml:"glow"`
	EdgeDarken Value `toml:"edge_darken"`
	Texture    Value `toml:"texture"`
	Grain      Value `toml:"grain"`

	// Leading.
	LeadingThickness Value `toml:"leading_thickness"`
	LeadingRounding  Value `toml:"leading_rounding"`
	LeadingBrightness Value `toml:"leading_brightness"`
}

// Default is the compiled-in template used when no file is given. Ranges
// follow the look of traditional stained glass: a handful of frame-to-frame
// lines, a few accent circles, saturated mid-bright panes.
func Default() Template {
	return Template{
		LineCount: Seeded(SeededValue{
			Range:  [2]float64{4, 14},
			Shape:  [2]float64{2, 2},
			Couple: &Coupling{Dimension: DimArousal, Influence: 0.6},
		}),
		LineDensity: Constant(0),
		LineWeight: Seeded(SeededValue{
			Range: [2]float64{6, 18},
			Shape: [2]float64{2, 3},
		}),
		CircleCount: Seeded(SeededValue{
			Range:  [2]float64{0, 6},
			Shape:  [2]float64{2, 2},
			Couple: &Coupling{Dimension: DimFocus, Influence: 0.5},
		}),
		CircleWeight: Seeded(SeededValue{
			Range: [2]float64{6, 14},
			Shape: [2]float64{2, 3},
		}),
		RadiusMin: Constant(0.06),
		RadiusMax: Seeded(SeededValue{
			Range: [2]float64{0.12, 0.28},
			Shape: [2]float64{2, 2},
		}),
		SaturationMin: Constant(0.45),
		SaturationMax: Seeded(SeededValue{
			Range:  [2]float64{0.65, 0.95},
			Shape:  [2]float64{2, 2},
			Couple: &Coupling{Dimension: DimValence, Influence: 0.8},
		}),
		BrightnessMin: Constant(0.55),
		BrightnessMax: Seeded(SeededValue{
			Range:  [2]float64{0.75, 0.95},
			Shape:  [2]float64{2, 2},
			Couple: &Coupling{Dimension: DimValence, Influence: 0.6},
		}),
		Bleed: Seeded(SeededValue{
			Range: [2]float64{0.1, 0.4},
			Shape: [2]float64{2, 2},
		}),
		Glow: Seeded(SeededValue{
			Range: [2]float64{0.1, 0.35},
			Shape: [2]float64{2, 2},
		}),
		EdgeDarken: Seeded(SeededValue{
			Range: [2]float64{0.15, 0.45},
			Shape: [2]float64{2, 2},
		}),
		Texture: Seeded(SeededValue{
			Range:  [2]float64{0.05, 0.25},
			Shape:  [2]float64{2, 2},
			Couple: &Coupling{Dimension: DimArousal, Influence: 0.4},
		}),
		Grain:            Constant(0.04),
		LeadingThickness: Constant(0), // 0: follow the stroke weight of the nearest shape class
		LeadingRounding: Seeded(SeededValue{
			Range: [2]float64{8, 28},
			Shape: [2]float64{2, 2},
		}),
		LeadingBrightness: Constant(0.16),
	}
}

// LoadTemplate reads a TOML template file. Fields absent from the file keep
// their Default value, so a file may override only what it cares about.
func LoadTemplate(path string) (Template, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read template: %w", err)
	}
	if err := toml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse template %s: %w", path, err)
	}
	return t, nil
}

// Fingerprint returns a stable hash of the template contents, used in cache
// keys so different templates never share cached artifacts.
func (t Template) Fingerprint() string {
	var b strings.Builder
	for _, v := range []Value{
		t.LineCount, t.LineDensity, t.LineWeight,
		t.CircleCount, t.CircleWeight, t.RadiusMin, t.RadiusMax,
		t.SaturationMin, t.SaturationMax, t.BrightnessMin, t.BrightnessMax,
		t.Bleed, t.Glow, t.EdgeDarken, t.Texture, t.Grain,
		t.LeadingThickness, t.LeadingRounding, t.LeadingBrightness,
	} {
		b.WriteString(v.String())
		b.WriteByte(';')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// String renders the variant for fingerprinting and debugging.
func (v Value) String() string {
	switch v.kind {
	case kindConstant:
		return fmt.Sprintf("c(%g)", v.constant)
	case kindSeeded:
		s := v.seeded
		if s.Couple != nil {
			return fmt.Sprintf("s([%g,%g],[%g,%g],%s*%g)",
				s.Range[0], s.Range[1], s.Shape[0], s.Shape[1],
				s.Couple.Dimension, s.Couple.Influence)
		}
		return fmt.Sprintf("s([%g,%g],[%g,%g])",
			s.Range[0], s.Range[1], s.Shape[0], s.Shape[1])
	}
	return "?"
}
