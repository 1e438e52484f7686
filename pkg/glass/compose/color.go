package compose

import (
	"math"

	"github.com/mkling/vitrail/pkg/glass/shape"
)

// rgb is a working color with float components in [0,1].
type rgb struct {
	r, g, b float64
}

// hsbToRGB converts hue/saturation/brightness to RGB. Hue wraps modulo 1.
func hsbToRGB(c shape.HSB) rgb {
	h := math.Mod(c.H, 1)
	if h < 0 {
		h++
	}
	s := clamp01(c.S)
	v := clamp01(c.B)
	if s == 0 {
		return rgb{v, v, v}
	}

	h *= 6
	sector := int(h) % 6
	f := h - math.Floor(h)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch sector {
	case 0:
		return rgb{v, t, p}
	case 1:
		return rgb{q, v, p}
	case 2:
		return rgb{p, v, t}
	case 3:
		return rgb{p, q, v}
	case 4:
		return rgb{t, p, v}
	default:
		return rgb{v, p, q}
	}
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

// smoothstep is the cubic hermite step between edges a and b.
func smoothstep(a, b, x float64) float64 {
	if a == b {
		if x < a {
			return 0
		}
		return 1
	}
	t := clamp01((x - a) / (b - a))
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func (c rgb) lerp(o rgb, t float64) rgb {
	return rgb{
		r: lerp(c.r, o.r, t),
		g: lerp(c.g, o.g, t),
		b: lerp(c.b, o.b, t),
	}
}

func (c rgb) scale(f float64) rgb {
	return rgb{r: c.r * f, g: c.g * f, b: c.b * f}
}

func (c rgb) add(f float64) rgb {
	return rgb{r: c.r + f, g: c.g + f, b: c.b + f}
}

func (c rgb) clamped() rgb {
	return rgb{r: clamp01(c.r), g: clamp01(c.g), b: clamp01(c.b)}
}
