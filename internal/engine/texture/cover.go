// Package texture decodes cover images and prepares them for upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/Faultbox/bookmock/internal/logger"
)

var (
	// ErrUnsupportedFormat is returned for files no registered decoder understands.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrCorrupt is returned for recognised but malformed image data.
	ErrCorrupt = errors.New("corrupt image data")
)

// Extensions lists the file extensions LoadCover accepts.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff", ".tga"}

// IsSupported reports whether path has an accepted image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadCover reads and decodes a cover image. Images larger than maxSize on
// either side are scaled down to fit; maxSize <= 0 disables scaling.
func LoadCover(path string, maxSize int) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	img, format, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	b := img.Bounds()
	img = Downscale(img, maxSize)
	logger.Named("texture").Debug("cover loaded",
		zap.String("path", path),
		zap.String("format", format),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()),
		zap.Int("scaled_width", img.Bounds().Dx()),
	)
	return img, nil
}

// Decode decodes data with the registered image decoders. ext is only used
// to pick the TGA decoder, which has no signature to sniff.
func Decode(data []byte, ext string) (image.Image, string, error) {
	if strings.EqualFold(ext, ".tga") {
		img, err := DecodeTGA(data)
		return img, "tga", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnsupportedFormat
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return img, format, nil
}

// Downscale fits img inside a maxSize x maxSize square, preserving aspect.
// Images that already fit are returned unchanged.
func Downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	dw := max(1, int(float64(w)*scale+0.5))
	dh := max(1, int(float64(h)*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ImageToRGBA converts any image.Image to a tightly packed *image.RGBA at origin.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Solid returns a 1x1 image of c.
func Solid(c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	return img
}
