// Package shape generates and models the geometric primitives whose strokes
// become the leading of a stained-glass image: frame-to-frame line segments
// and margin-constrained circles, each carrying a stroke weight and a base
// HSB color.
package shape

// Point is a position in absolute pixel coordinates.
type Point struct {
	X, Y float64
}

// HSB is a hue/saturation/brightness color, all components in [0,1].
type HSB struct {
	H, S, B float64
}

// Line is a straight boundary segment. Both endpoints lie exactly on the
// canvas frame.
type Line struct {
	A, B   Point
	Weight float64
	Color  HSB
}

// Circle is a ring boundary. Only its stroke is ever drawn; the disc is
// never filled.
type Circle struct {
	Center Point
	Radius float64
	Weight float64
	Color  HSB
}

// Set is the canonical shape list of one generation, in the pixel space of
// the target resolution it was generated for. It is read-only after
// generation; Scaled produces derived copies for other resolutions.
type Set struct {
	Lines   []Line
	Circles []Circle
	Width   int
	Height  int
}

// Count returns the total number of shapes.
func (s Set) Count() int {
	return len(s.Lines) + len(s.Circles)
}

// Scaled returns a derived copy with every coordinate, weight, and radius
// multiplied by f. The receiver is not mutated.
func (s Set) Scaled(f float64) Set {
	out := Set{
		Lines:   make([]Line, len(s.Lines)),
		Circles: make([]Circle, len(s.Circles)),
		Width:   int(float64(s.Width)*f + 0.5),
		Height:  int(float64(s.Height)*f + 0.5),
	}
	for i, l := range s.Lines {
		out.Lines[i] = Line{
			A:      Point{X: l.A.X * f, Y: l.A.Y * f},
			B:      Point{X: l.B.X * f, Y: l.B.Y * f},
			Weight: l.Weight * f,
			Color:  l.Color,
		}
	}
	for i, c := range s.Circles {
		out.Circles[i] = Circle{
			Center: Point{X: c.Center.X * f, Y: c.Center.Y * f},
			Radius: c.Radius * f,
			Weight: c.Weight * f,
			Color:  c.Color,
		}
	}
	return out
}

// MaxWeight returns the largest stroke weight in the set, or 0 for an empty
// set. The compositor uses it to derive the leading thickness when the
// template does not fix one.
func (s Set) MaxWeight() float64 {
	w := 0.0
	for _, l := range s.Lines {
		if l.Weight > w {
			w = l.Weight
		}
	}
	for _, c := range s.Circles {
		if c.Weight > w {
			w = c.Weight
		}
	}
	return w
}
