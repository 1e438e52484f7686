package sink

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 7),
				G: uint8(y * 11),
				B: uint8((x + y) * 3),
				A: 255,
			})
		}
	}
	return img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := testImage(40, 30)

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty encoding")
	}

	img, err := DecodePNG(data)
	if err != nil {
		t.Fatalf("DecodePNG() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("decoded bounds = %v", b)
	}

	// PNG is lossless.
	for y := 0; y < 30; y += 5 {
		for x := 0; x < 40; x += 5 {
			wr, wg, wb, _ := src.At(x, y).RGBA()
			gr, gg, gb, _ := img.At(x, y).RGBA()
			if wr != gr || wg != gg || wb != gb {
				t.Fatalf("pixel (%d,%d) changed in round trip", x, y)
			}
		}
	}
}

func TestDecodePNGRejectsGarbage(t *testing.T) {
	if _, err := DecodePNG([]byte("not a png")); err == nil {
		t.Error("garbage input should fail to decode")
	}
}

func TestThumbnailFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h, maxDim int
		wantW, wantH int
	}{
		{"landscape", 400, 200, 100, 100, 50},
		{"portrait", 200, 400, 100, 50, 100},
		{"square", 300, 300, 64, 64, 64},
		{"already smaller", 50, 40, 100, 50, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(testImage(tt.w, tt.h), tt.maxDim)
			b := thumb.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("thumbnail = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WritePNG(path, testImage(20, 10)); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	img, err := DecodePNG(data)
	if err != nil {
		t.Fatalf("decode written file: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds = %v", b)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.png")
	payload := []byte{1, 2, 3, 4}
	if err := WriteFile(path, payload); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch: %v", got)
	}
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "x.png"), []byte{1})
	if err == nil {
		t.Error("nonexistent directory should fail")
	}
}

func TestWriteThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.png")
	if err := WriteThumbnail(path, testImage(400, 200), 64); err != nil {
		t.Fatalf("WriteThumbnail() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	img, err := DecodePNG(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("thumbnail bounds = %v, want 64x32", b)
	}
}
