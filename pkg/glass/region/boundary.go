// Package region converts the stroked shape outlines into a per-pixel
// region-id raster and a matching color palette. Boundary pixels are found
// by thresholding a monochrome rasterization of the shape strokes; interior
// connected components are discovered with a span-based flood fill and
// colored in discovery order.
package region

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/mkling/vitrail/pkg/glass/shape"
)

// luminanceThreshold separates ink from blank when reading back the
// boundary buffer: anything darker is boundary.
const luminanceThreshold = 128

// DrawBoundary strokes every shape outline into a monochrome buffer: lines
// as thick segments, circles as unfilled rings. The buffer exists only to
// mark ink vs blank; fill color is irrelevant.
func DrawBoundary(set shape.Set, width, height int) *image.Gray {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	for _, l := range set.Lines {
		dc.SetLineWidth(l.Weight)
		dc.DrawLine(l.A.X, l.A.Y, l.B.X, l.B.Y)
		dc.Stroke()
	}
	for _, c := range set.Circles {
		dc.SetLineWidth(c.Weight)
		dc.DrawCircle(c.Center.X, c.Center.Y, c.Radius)
		dc.Stroke()
	}

	return toGray(dc.Image(), width, height)
}

func toGray(img image.Image, width, height int) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, width, height))
	if rgba, ok := img.(*image.RGBA); ok {
		// Strokes are pure black on white, so one channel is enough.
		for y := 0; y < height; y++ {
			src := rgba.Pix[y*rgba.Stride:]
			dst := gray.Pix[y*gray.Stride:]
			for x := 0; x < width; x++ {
				dst[x] = src[x*4]
			}
		}
		return gray
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := (299*r + 587*g + 114*b) / 1000
			gray.Pix[y*gray.Stride+x] = uint8(lum >> 8)
		}
	}
	return gray
}
