package param

import (
	"fmt"
	"math/rand/v2"
)

// defaultShape is the beta shape used when a seeded value does not declare
// one: a moderately peaked, symmetric distribution.
var defaultShape = [2]float64{2, 2}

// Coupling ties a seeded value to one sentiment dimension. Influence scales
// how far a non-neutral dimension shifts the sampled position within the
// range; 0 means no effect, 1 means a full-range push.
type Coupling struct {
	Dimension Dimension `toml:"dimension"`
	Influence float64   `toml:"influence"`
}

// SeededValue is a declarative scalar: a range, a beta-distribution shape,
// and an optional sentiment coupling. It is immutable and owned by the
// template that declares it.
type SeededValue struct {
	Range  [2]float64 `toml:"range"`
	Shape  [2]float64 `toml:"beta"`
	Couple *Coupling  `toml:"couple"`
}

// Sample draws one value. The position t is beta-distributed over [0,1],
// shifted by the coupled sentiment dimension (neutral 0.5 reproduces the
// pure beta sample), clamped, and interpolated into Range.
func (s SeededValue) Sample(sent SentimentVector, rng *rand.Rand) float64 {
	shape := s.Shape
	if shape[0] <= 0 || shape[1] <= 0 {
		shape = defaultShape
	}
	t := sampleBeta(rng, shape[0], shape[1])
	if c := s.Couple; c != nil {
		t += (sent.Component(c.Dimension) - 0.5) * c.Influence * 2
		t = clamp01(t)
	}
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// valueKind discriminates the Value variant.
type valueKind uint8

const (
	kindConstant valueKind = iota
	kindSeeded
)

// Value is the tagged variant a template field holds: either a plain
// constant or a SeededValue. The zero Value is Constant(0).
type Value struct {
	kind     valueKind
	constant float64
	seeded   SeededValue
}

// Constant wraps a fixed number.
func Constant(f float64) Value {
	return Value{kind: kindConstant, constant: f}
}

// Seeded wraps a SeededValue.
func Seeded(s SeededValue) Value {
	return Value{kind: kindSeeded, seeded: s}
}

// Resolve materializes the value: constants pass through, seeded values are
// sampled. This is the single exhaustive match over the variant.
func (v Value) Resolve(sent SentimentVector, rng *rand.Rand) float64 {
	switch v.kind {
	case kindConstant:
		return v.constant
	case kindSeeded:
		return v.seeded.Sample(sent, rng)
	}
	panic(fmt.Sprintf("param: unknown value kind %d", v.kind))
}

// UnmarshalTOML decodes either form of the variant: a bare number becomes a
// Constant, a table becomes a SeededValue.
func (v *Value) UnmarshalTOML(data any) error {
	switch d := data.(type) {
	case int64:
		*v = Constant(float64(d))
		return nil
	case float64:
		*v = Constant(d)
		return nil
	case map[string]any:
		s, err := decodeSeeded(d)
		if err != nil {
			return err
		}
		*v = Seeded(s)
		return nil
	}
	return fmt.Errorf("param: value must be a number or a table, got %T", data)
}

func decodeSeeded(m map[string]any) (SeededValue, error) {
	var s SeededValue
	for key, raw := range m {
		switch key {
		case "range":
			pair, err := decodePair(key, raw)
			if err != nil {
				return s, err
			}
			s.Range = pair
		case "beta":
			pair, err := decodePair(key, raw)
			if err != nil {
				return s, err
			}
			s.Shape = pair
		case "couple":
			cm, ok := raw.(map[string]any)
			if !ok {
				return s, fmt.Errorf("param: couple must be a table, got %T", raw)
			}
			c := &Coupling{}
			if d, ok := cm["dimension"].(string); ok {
				c.Dimension = Dimension(d)
			}
			inf, err := toFloat(cm["influence"])
			if err != nil {
				return s, fmt.Errorf("param: couple.influence: %w", err)
			}
			c.Influence = clamp01(inf)
			s.Couple = c
		default:
			return s, fmt.Errorf("param: unknown seeded value key %q", key)
		}
	}
	if s.Range[1] < s.Range[0] {
		return s, fmt.Errorf("param: range [%g,%g] is inverted", s.Range[0], s.Range[1])
	}
	return s, nil
}

func decodePair(key string, raw any) ([2]float64, error) {
	var pair [2]float64
	list, ok := raw.([]any)
	if !ok || len(list) != 2 {
		return pair, fmt.Errorf("param: %s must be a two-element array", key)
	}
	for i, e := range list {
		f, err := toFloat(e)
		if err != nil {
			return pair, fmt.Errorf("param: %s[%d]: %w", key, i, err)
		}
		pair[i] = f
	}
	return pair, nil
}

func toFloat(raw any) (float64, error) {
	switch n := raw.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", raw)
}
