package param

// Dimension names one axis of the sentiment vector.
type Dimension string

// The three sentiment dimensions a SeededValue may couple to.
const (
	DimValence Dimension = "valence"
	DimArousal Dimension = "arousal"
	DimFocus   Dimension = "focus"
)

// SentimentVector holds the three sentiment scalars that bias randomized
// generation. All components are expected in [0,1]; 0.5 is the neutral point
// that leaves the pure beta sample unshifted.
type SentimentVector struct {
	Valence float64 `json:"valence" toml:"valence"`
	Arousal float64 `json:"arousal" toml:"arousal"`
	Focus   float64 `json:"focus" toml:"focus"`
}

// Neutral returns the sentiment vector that applies no bias.
func Neutral() SentimentVector {
	return SentimentVector{Valence: 0.5, Arousal: 0.5, Focus: 0.5}
}

// Clamped returns a copy with every component clamped to [0,1].
func (v SentimentVector) Clamped() SentimentVector {
	return SentimentVector{
		Valence: clamp01(v.Valence),
		Arousal: clamp01(v.Arousal),
		Focus:   clamp01(v.Focus),
	}
}

// Component returns the value of the named dimension. Unknown dimensions
// return the neutral 0.5 so a misspelled coupling degrades to no bias.
func (v SentimentVector) Component(d Dimension) float64 {
	switch d {
	case DimValence:
		return v.Valence
	case DimArousal:
		return v.Arousal
	case DimFocus:
		return v.Focus
	}
	return 0.5
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
