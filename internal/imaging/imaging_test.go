package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{1200, 800, 300, 300, 200},
		{800, 1200, 300, 200, 300},
		{200, 100, 300, 200, 100},
		{3000, 1, 300, 300, 1},
	}
	for _, c := range cases {
		gw, gh := FitWithin(c.w, c.h, c.max)
		if gw != c.wantW || gh != c.wantH {
			t.Errorf("FitWithin(%d, %d, %d) = %dx%d, want %dx%d", c.w, c.h, c.max, gw, gh, c.wantW, c.wantH)
		}
	}
}

func TestDecodeAndThumbnail(t *testing.T) {
	d, err := Decode(pngBytes(t, 600, 400), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Format != "png" || d.Width != 600 || d.Height != 400 {
		t.Fatalf("unexpected decode result %s %dx%d", d.Format, d.Width, d.Height)
	}

	thumb, err := Thumbnail(d.Image, 300)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 200 {
		t.Fatalf("expected 300x200 thumbnail, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image"), 0); err == nil {
		t.Fatal("expected an error for non-image input")
	}
}

func TestDecodeRejectsTooManyPixels(t *testing.T) {
	// A GIF header declaring a 65535x65535 screen and nothing else.
	header := []byte("GIF89a\xff\xff\xff\xff\x00\x00\x00")

	tests := []struct {
		name      string
		data      []byte
		maxPixels int64
	}{
		{"declared size over the default cap", header, 0},
		{"real image over a small cap", pngBytes(t, 600, 400), 600*400 - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data, tt.maxPixels); !errors.Is(err, ErrTooManyPixels) {
				t.Fatalf("expected ErrTooManyPixels, got %v", err)
			}
		})
	}

	if _, err := Decode(pngBytes(t, 600, 400), 600*400); err != nil {
		t.Fatalf("an image exactly at the cap must decode: %v", err)
	}
}
