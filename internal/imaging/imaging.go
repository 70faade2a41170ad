// Package imaging decodes uploaded plant photos and renders their
// thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ThumbnailQuality is the JPEG quality used for thumbnails.
const ThumbnailQuality = 85

// DefaultMaxPixels caps width x height of an accepted upload.
const DefaultMaxPixels = 89_478_485

var (
	ErrInvalidImage  = errors.New("invalid image")
	ErrTooManyPixels = errors.New("image has too many pixels")
)

// Decoded is an uploaded image and its pixel dimensions.
type Decoded struct {
	Image  image.Image
	Format string
	Width  int
	Height int
}

// Decode reads a JPEG, PNG, GIF or WebP image. The header is checked
// first so that an image larger than maxPixels is refused before its pixel
// buffer is allocated. maxPixels <= 0 means DefaultMaxPixels.
func Decode(data []byte, maxPixels int64) (*Decoded, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrInvalidImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrInvalidImage
	}
	return &Decoded{Image: img, Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// FitWithin returns the size of a w x h image scaled down so that neither
// side exceeds maxDim, keeping the aspect ratio. Images already small enough
// keep their size.
func FitWithin(w, h, maxDim int) (int, int) {
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return w, h
	}
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw <= 0 {
		nw = 1
	}
	if nh <= 0 {
		nh = 1
	}
	return nw, nh
}

// Thumbnail scales img to fit within maxDim x maxDim and encodes it as JPEG.
func Thumbnail(img image.Image, maxDim int) ([]byte, error) {
	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), maxDim)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; paint transparent areas white like an RGB converter would.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ThumbnailQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
