package ui2d

import (
	"image"
	"image/draw"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII is baked into the atlas; anything else draws as '?'.
// The cell after the last glyph is solid white for untextured quads.
const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	glyphCount   = int(lastGlyph - firstGlyph + 1)
	solidCell    = glyphCount
	atlasCols    = 16
	fallbackRune = '?'
)

// Font is a fixed-width bitmap font baked into a single texture.
type Font struct {
	atlas   *image.RGBA
	glyphW  int
	glyphH  int
	cols    int
	rows    int
	texture uint32
}

// NewFont bakes the built-in 7x13 face and uploads it.
func NewFont() *Font {
	f := newFontAtlas(basicfont.Face7x13)
	f.upload()
	return f
}

// newFontAtlas rasterizes the glyph grid on the CPU.
func newFontAtlas(face *basicfont.Face) *Font {
	f := &Font{
		glyphW: face.Advance,
		glyphH: face.Height,
		cols:   atlasCols,
		rows:   (solidCell + atlasCols) / atlasCols,
	}
	f.atlas = image.NewRGBA(image.Rect(0, 0, f.cols*f.glyphW, f.rows*f.glyphH))

	d := font.Drawer{Dst: f.atlas, Src: image.White, Face: face}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		col, row := f.cell(r)
		d.Dot = fixed.P(col*f.glyphW, row*f.glyphH+face.Ascent)
		d.DrawString(string(r))
	}

	col, row := solidCell%f.cols, solidCell/f.cols
	solid := image.Rect(col*f.glyphW, row*f.glyphH, (col+1)*f.glyphW, (row+1)*f.glyphH)
	draw.Draw(f.atlas, solid, image.White, image.Point{}, draw.Src)
	return f
}

func (f *Font) upload() {
	b := f.atlas.Bounds()
	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(f.atlas.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// cell returns the atlas column and row of r.
func (f *Font) cell(r rune) (int, int) {
	if r < firstGlyph || r > lastGlyph {
		r = fallbackRune
	}
	i := int(r - firstGlyph)
	return i % f.cols, i / f.cols
}

// TextureID returns the GL texture holding the atlas.
func (f *Font) TextureID() uint32 {
	return f.texture
}

// GlyphSize returns the cell size in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GlyphUV returns the texture rectangle of r, top-left first.
func (f *Font) GlyphUV(r rune) [4]float32 {
	col, row := f.cell(r)
	return f.cellUV(col, row)
}

// SolidUV returns a texture rectangle inside the white cell, kept off its
// edges so linear filtering never picks up a neighbour.
func (f *Font) SolidUV() [4]float32 {
	uv := f.cellUV(solidCell%f.cols, solidCell/f.cols)
	cu, cv := (uv[0]+uv[2])/2, (uv[1]+uv[3])/2
	return [4]float32{cu, cv, cu, cv}
}

func (f *Font) cellUV(col, row int) [4]float32 {
	w := float32(f.cols * f.glyphW)
	h := float32(f.rows * f.glyphH)
	return [4]float32{
		float32(col*f.glyphW) / w,
		float32(row*f.glyphH) / h,
		float32((col+1)*f.glyphW) / w,
		float32((row+1)*f.glyphH) / h,
	}
}

// MeasureText returns the size of text in pixels, counting line breaks.
func (f *Font) MeasureText(text string) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		longest = max(longest, len([]rune(l)))
	}
	return float32(longest * f.glyphW), float32(len(lines) * f.glyphH)
}

// Close deletes the atlas texture.
func (f *Font) Close() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}
