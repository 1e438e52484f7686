package compose

import (
	"context"
	"image"
	"math"
	"testing"

	"github.com/mkling/vitrail/pkg/glass/param"
	"github.com/mkling/vitrail/pkg/glass/region"
	"github.com/mkling/vitrail/pkg/glass/shape"
)

func TestSegmentDistance(t *testing.T) {
	a := shape.Point{X: 0, Y: 0}
	b := shape.Point{X: 10, Y: 0}

	tests := []struct {
		name   string
		px, py float64
		want   float64
	}{
		{"on segment", 5, 0, 0},
		{"above middle", 5, 3, 3},
		{"beyond end clamps to endpoint", 14, 3, 5},
		{"before start clamps to endpoint", -3, 4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := segmentDistance(tt.px, tt.py, a, b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("segmentDistance = %g, want %g", got, tt.want)
			}
		})
	}

	// Degenerate segment is a point.
	if got := segmentDistance(3, 4, a, a); math.Abs(got-5) > 1e-12 {
		t.Errorf("point-segment distance = %g, want 5", got)
	}
}

func TestRingDistance(t *testing.T) {
	c := shape.Point{X: 0, Y: 0}
	tests := []struct {
		px, py, r, want float64
	}{
		{10, 0, 10, 0},  // on the ring
		{15, 0, 10, 5},  // outside
		{5, 0, 10, 5},   // inside
		{0, 0, 10, 10},  // center
	}
	for _, tt := range tests {
		got := ringDistance(tt.px, tt.py, c, tt.r)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ringDistance(%g,%g,r=%g) = %g, want %g", tt.px, tt.py, tt.r, got, tt.want)
		}
	}
}

func TestSmin(t *testing.T) {
	// Far apart values degrade to plain min.
	if got := smin(1, 100, 4); got != 1 {
		t.Errorf("smin(1,100,4) = %g, want 1", got)
	}
	// Symmetric.
	if smin(3, 5, 4) != smin(5, 3, 4) {
		t.Error("smin must be symmetric")
	}
	// Never exceeds the plain min.
	for _, pair := range [][2]float64{{3, 5}, {2, 2}, {0, 1}, {7, 7.5}} {
		got := smin(pair[0], pair[1], 4)
		if got > math.Min(pair[0], pair[1]) {
			t.Errorf("smin(%g,%g,4) = %g exceeds min", pair[0], pair[1], got)
		}
	}
	// Equal inputs get the full rounding deduction k/4.
	if got := smin(6, 6, 4); math.Abs(got-5) > 1e-12 {
		t.Errorf("smin(6,6,4) = %g, want 5", got)
	}
	// k <= 0 is plain min.
	if got := smin(3, 5, 0); got != 3 {
		t.Errorf("smin with k=0 = %g, want 3", got)
	}
}

func TestLeadingDistanceEmptySet(t *testing.T) {
	d := leadingDistance(10, 10, shape.Set{}, 4)
	if !math.IsInf(d, 1) {
		t.Errorf("empty set distance = %g, want +Inf", d)
	}
}

func TestValueNoiseRangeAndContinuity(t *testing.T) {
	for i := 0; i < 2000; i++ {
		x := float64(i) * 0.137
		y := float64(i) * 0.291
		v := valueNoise(x, y, 12345)
		if v < 0 || v >= 1 {
			t.Fatalf("valueNoise(%g,%g) = %g outside [0,1)", x, y, v)
		}
	}

	// Adjacent samples differ by much less than the full range.
	const eps = 1e-3
	a := valueNoise(10.5, 20.5, 7)
	b := valueNoise(10.5+eps, 20.5, 7)
	if math.Abs(a-b) > 0.01 {
		t.Errorf("noise jumps %g over %g step; not continuous", math.Abs(a-b), eps)
	}
}

func TestFbmRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := fbm(float64(i)*0.31, float64(i)*0.17, 99, 4)
		if v < 0 || v >= 1 {
			t.Fatalf("fbm = %g outside [0,1)", v)
		}
	}
}

func TestHsbToRGB(t *testing.T) {
	tests := []struct {
		name string
		in   shape.HSB
		want rgb
	}{
		{"black", shape.HSB{H: 0, S: 0, B: 0}, rgb{0, 0, 0}},
		{"white", shape.HSB{H: 0, S: 0, B: 1}, rgb{1, 1, 1}},
		{"red", shape.HSB{H: 0, S: 1, B: 1}, rgb{1, 0, 0}},
		{"green", shape.HSB{H: 1.0 / 3, S: 1, B: 1}, rgb{0, 1, 0}},
		{"blue", shape.HSB{H: 2.0 / 3, S: 1, B: 1}, rgb{0, 0, 1}},
		{"hue wraps", shape.HSB{H: 1.0 + 1.0/3, S: 1, B: 1}, rgb{0, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hsbToRGB(tt.in)
			if math.Abs(got.r-tt.want.r) > 1e-9 ||
				math.Abs(got.g-tt.want.g) > 1e-9 ||
				math.Abs(got.b-tt.want.b) > 1e-9 {
				t.Errorf("hsbToRGB(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

// testScene builds a tiny segmented scene: one vertical stroke splitting two
// panes.
func testScene(w, h int) (shape.Set, *region.Raster, region.Palette) {
	set := shape.Set{
		Lines: []shape.Line{{
			A:      shape.Point{X: float64(w) / 2, Y: 0},
			B:      shape.Point{X: float64(w) / 2, Y: float64(h)},
			Weight: 6,
		}},
		Width:  w,
		Height: h,
	}
	raster := region.NewRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x < w/2-3:
				raster.ID[y*w+x] = 0
			case x > w/2+3:
				raster.ID[y*w+x] = 1
			}
		}
	}
	palette := region.Palette{
		{H: 0.1, S: 0.8, B: 0.8},
		{H: 0.6, S: 0.7, B: 0.7},
	}
	return set, raster, palette
}

func testParams(seed uint64) Params {
	return Params{
		Bleed:             0.3,
		Glow:              0.2,
		EdgeDarken:        0.3,
		Texture:           0.15,
		Grain:             0.05,
		LeadingThickness:  3,
		LeadingRounding:   10,
		LeadingBrightness: 0.16,
		Seed:              seed,
	}
}

func TestColorAtDeterministic(t *testing.T) {
	set, raster, palette := testScene(64, 64)
	a := New(set, raster, palette, testParams(42))
	b := New(set, raster, palette, testParams(42))

	for y := 0; y < 64; y += 7 {
		for x := 0; x < 64; x += 7 {
			if a.ColorAt(x, y) != b.ColorAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs between identical compositors", x, y)
			}
		}
	}
}

func TestColorAtSeedChangesOutput(t *testing.T) {
	set, raster, palette := testScene(64, 64)
	a := New(set, raster, palette, testParams(1))
	b := New(set, raster, palette, testParams(2))

	diff := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if a.ColorAt(x, y) != b.ColorAt(x, y) {
				diff++
			}
		}
	}
	if diff == 0 {
		t.Error("different seeds should change noise-driven pixels")
	}
}

func TestColorAtLeadingIsNeutral(t *testing.T) {
	set, raster, palette := testScene(64, 64)
	c := New(set, raster, palette, testParams(42))

	// Dead center of the stroke: boundary pixel, dark neutral lead.
	px := c.ColorAt(32, 32)
	if px.A != 255 {
		t.Errorf("alpha = %d, want 255", px.A)
	}
	if px.R > 80 || px.G > 80 {
		t.Errorf("leading pixel too bright: %+v", px)
	}
	// Lead is near-neutral: channels within a narrow band of each other.
	if int(px.B)-int(px.R) > 16 {
		t.Errorf("leading pixel not neutral: %+v", px)
	}
}

func TestColorAtPanesDiffer(t *testing.T) {
	set, raster, palette := testScene(64, 64)
	c := New(set, raster, palette, testParams(42))

	left := c.ColorAt(8, 32)
	right := c.ColorAt(56, 32)
	if left == right {
		t.Error("different panes with different palette entries should differ")
	}
}

func TestColorAtOutOfRasterReadsAsLeading(t *testing.T) {
	set, raster, palette := testScene(64, 64)
	c := New(set, raster, palette, testParams(42))

	// Out-of-bounds raster reads are boundary; far from any stroke the lead
	// shading bottoms out but stays the lead color family.
	px := c.ColorAt(-500, -500)
	if px.A != 255 {
		t.Errorf("alpha = %d, want 255", px.A)
	}
}

func TestUninitializedCompositorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("zero Compositor should panic on use")
		}
	}()
	var c Compositor
	c.ColorAt(0, 0)
}

func TestParamsFrom(t *testing.T) {
	cfg := param.ResolvedConfig{
		Bleed:            0.3,
		LeadingThickness: 0,
		LeadingRounding:  12,
	}
	set := shape.Set{Lines: []shape.Line{{Weight: 10}}}

	p := ParamsFrom(cfg, set, 7)
	if p.LeadingThickness != 5 {
		t.Errorf("zero thickness should follow max weight / 2, got %g", p.LeadingThickness)
	}
	if p.Seed != 7 {
		t.Errorf("seed = %d, want 7", p.Seed)
	}

	// Explicit thickness wins.
	cfg.LeadingThickness = 4
	if p := ParamsFrom(cfg, set, 7); p.LeadingThickness != 4 {
		t.Errorf("explicit thickness ignored: %g", p.LeadingThickness)
	}

	// Empty set falls back to 1.
	cfg.LeadingThickness = 0
	if p := ParamsFrom(cfg, shape.Set{}, 7); p.LeadingThickness != 1 {
		t.Errorf("empty-set thickness = %g, want 1", p.LeadingThickness)
	}
}

func TestParamsScaled(t *testing.T) {
	p := testParams(42)
	s := p.Scaled(0.5)

	if s.LeadingThickness != p.LeadingThickness*0.5 {
		t.Errorf("thickness not scaled: %g", s.LeadingThickness)
	}
	if s.LeadingRounding != p.LeadingRounding*0.5 {
		t.Errorf("rounding not scaled: %g", s.LeadingRounding)
	}
	// Intensities and seed unchanged.
	if s.Bleed != p.Bleed || s.Grain != p.Grain || s.Seed != p.Seed {
		t.Errorf("intensities or seed changed: %+v", s)
	}
}

func TestRenderMatchesColorAt(t *testing.T) {
	set, raster, palette := testScene(48, 32)
	c := New(set, raster, palette, testParams(42))

	img := image.NewRGBA(image.Rect(0, 0, 48, 32))
	if err := c.Render(context.Background(), img, image.Point{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for y := 0; y < 32; y += 5 {
		for x := 0; x < 48; x += 5 {
			want := c.ColorAt(x, y)
			got := img.RGBAAt(x, y)
			if got != want {
				t.Fatalf("pixel (%d,%d): rendered %+v, ColorAt %+v", x, y, got, want)
			}
		}
	}
}

func TestRenderWithOriginMatchesGlobal(t *testing.T) {
	set, raster, palette := testScene(64, 64)
	c := New(set, raster, palette, testParams(42))

	full := image.NewRGBA(image.Rect(0, 0, 64, 64))
	if err := c.Render(context.Background(), full, image.Point{}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	tile := image.NewRGBA(image.Rect(0, 0, 32, 32))
	if err := c.Render(context.Background(), tile, image.Point{X: 32, Y: 32}); err != nil {
		t.Fatalf("tile Render() error = %v", err)
	}

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if tile.RGBAAt(x, y) != full.RGBAAt(x+32, y+32) {
				t.Fatalf("tile pixel (%d,%d) differs from full render", x, y)
			}
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	set, raster, palette := testScene(64, 64)
	c := New(set, raster, palette, testParams(42))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	if err := c.Render(ctx, img, image.Point{}); err == nil {
		t.Error("cancelled context should abort the render")
	}
}
