// Package sink encodes rendered images into deliverable artifacts.
package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes the image as a PNG byte stream.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePNG encodes the image and writes it to path.
func WritePNG(path string, img image.Image) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteFile writes already-encoded artifact bytes to path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteThumbnail downscales img to fit maxDim and writes it to path as PNG.
func WriteThumbnail(path string, img image.Image, maxDim int) error {
	return WritePNG(path, Thumbnail(img, maxDim))
}

// Thumbnail downscales img to fit within maxDim on both axes, preserving
// aspect ratio. Lanczos keeps the leading lines crisp at small sizes.
func Thumbnail(img image.Image, maxDim int) *image.NRGBA {
	return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
}

// DecodePNG decodes a PNG byte stream back into an image, used when serving
// cached artifacts that need re-processing (thumbnails).
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}
