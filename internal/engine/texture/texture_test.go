package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.SetRGBA(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCoverPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, checker(6, 4)); err != nil {
		t.Fatal(err)
	}
	img, err := LoadCover(writeFile(t, "cover.png", buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("LoadCover: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Errorf("size: %v", img.Bounds())
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r>>8 != 255 {
		t.Errorf("pixel (0,0) not red")
	}
}

func TestLoadCoverBMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, checker(3, 3)); err != nil {
		t.Fatal(err)
	}
	img, err := LoadCover(writeFile(t, "cover.bmp", buf.Bytes()), 0)
	if err != nil {
		t.Fatalf("LoadCover: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("size: %v", img.Bounds())
	}
}

func TestLoadCoverDownscales(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, checker(400, 100)); err != nil {
		t.Fatal(err)
	}
	img, err := LoadCover(writeFile(t, "wide.png", buf.Bytes()), 200)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 50 {
		t.Errorf("scaled size: %v", img.Bounds())
	}
}

func TestLoadCoverErrors(t *testing.T) {
	if _, err := LoadCover(filepath.Join(t.TempDir(), "missing.png"), 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v", err)
	}
	_, err := LoadCover(writeFile(t, "notes.png", []byte("plain text, not an image")), 0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("garbage: got %v, want ErrUnsupportedFormat", err)
	}
}

func TestDownscaleKeepsSmallImages(t *testing.T) {
	img := checker(10, 10)
	if Downscale(img, 10) != image.Image(img) {
		t.Error("image at the limit should be returned as is")
	}
	if Downscale(img, 0) != image.Image(img) {
		t.Error("zero limit disables scaling")
	}
}

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, bottom-up, BGR: blue then green.
	data := append(tgaHeader(TGATypeUncompressed, 2, 1, 24, 0), 255, 0, 0, 0, 255, 0)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.At(0, 0).(color.RGBA); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel 0: %v", got)
	}
	if got := img.At(1, 0).(color.RGBA); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel 1: %v", got)
	}
}

func TestDecodeTGABottomUp(t *testing.T) {
	// 1x2: first stored row is the bottom one.
	data := append(tgaHeader(TGATypeUncompressed, 1, 2, 32, 0), 0, 0, 255, 255, 0, 255, 0, 128)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.At(0, 1).(color.RGBA); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("bottom row: %v", got)
	}
	if got := img.At(0, 0).(color.RGBA); got != (color.RGBA{G: 255, A: 128}) {
		t.Errorf("top row: %v", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1 top-down: one run of two red pixels, one raw white pixel.
	data := tgaHeader(TGATypeRLE, 3, 1, 24, 0x20)
	data = append(data, 0x81, 0, 0, 255)
	data = append(data, 0x00, 255, 255, 255)
	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatal(err)
	}
	want := []color.RGBA{{R: 255, A: 255}, {R: 255, A: 255}, {R: 255, G: 255, B: 255, A: 255}}
	for x, c := range want {
		if got := img.At(x, 0).(color.RGBA); got != c {
			t.Errorf("pixel %d: got %v, want %v", x, got, c)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte{1, 2, 3}, ErrCorrupt},
		{"colour mapped", func() []byte { h := tgaHeader(1, 1, 1, 8, 0); h[1] = 1; return h }(), ErrUnsupportedFormat},
		{"16 bit", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0), ErrUnsupportedFormat},
		{"truncated", tgaHeader(TGATypeUncompressed, 4, 4, 24, 0), ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeSelectsTGAByExtension(t *testing.T) {
	data := append(tgaHeader(TGATypeUncompressed, 1, 1, 24, 0), 1, 2, 3)
	_, format, err := Decode(data, ".TGA")
	if err != nil || format != "tga" {
		t.Errorf("Decode: format %q err %v", format, err)
	}
}

func TestIsSupported(t *testing.T) {
	for path, want := range map[string]bool{
		"cover.PNG":     true,
		"a/b/wrap.jpeg": true,
		"x.webp":        true,
		"x.tga":         true,
		"notes.txt":     false,
		"noext":         false,
	} {
		if got := IsSupported(path); got != want {
			t.Errorf("IsSupported(%q) = %v", path, got)
		}
	}
}

func TestImageToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 2, 4, 5))
	src.Set(2, 2, color.NRGBA{R: 255, A: 255})
	rgba := ImageToRGBA(src)
	if rgba.Bounds() != image.Rect(0, 0, 2, 3) {
		t.Fatalf("bounds: %v", rgba.Bounds())
	}
	if rgba.RGBAAt(0, 0).R != 255 {
		t.Error("origin pixel lost")
	}
	if ImageToRGBA(rgba) != rgba {
		t.Error("packed RGBA should pass through")
	}
}

func TestSolid(t *testing.T) {
	img := Solid(color.RGBA{R: 1, G: 2, B: 3, A: 255})
	if img.RGBAAt(0, 0) != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("Solid: %v", img.RGBAAt(0, 0))
	}
}
