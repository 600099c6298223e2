// Package ui2d is a small immediate-mode overlay drawn with OpenGL on top
// of the book view. It shares the viewer's GL context and window.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/bookmock/internal/engine/renderer/shaders"
	"github.com/Faultbox/bookmock/internal/engine/shader"
	"github.com/Faultbox/bookmock/pkg/math"
)

// Renderer turns widget shapes into one batched draw over the scene.
type Renderer struct {
	width, height int

	program *shader.Program
	vao     uint32
	vbo     uint32

	font  *Font
	batch *batch
}

// New creates the overlay renderer. A GL context must be current.
func New(width, height int) (*Renderer, error) {
	program, err := shader.NewProgram(shaders.OverlayVertexShader, shaders.OverlayFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("overlay shader: %w", err)
	}

	r := &Renderer{
		width:   width,
		height:  height,
		program: program,
		font:    NewFont(),
	}
	r.batch = newBatch(r.font.SolidUV())

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	stride := int32(vertexFloats * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 4*4)
	gl.EnableVertexAttribArray(2)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return r, nil
}

// Resize updates the window size in points.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
}

// ScreenSize returns the window size in points.
func (r *Renderer) ScreenSize() (int, int) {
	return r.width, r.height
}

// Begin drops last frame's shapes.
func (r *Renderer) Begin() {
	r.batch.reset()
}

// End draws the frame's shapes and restores the blend, depth and cull
// state the book pass expects.
func (r *Renderer) End() {
	n := r.batch.vertexCount()
	if n == 0 {
		return
	}

	blend := gl.IsEnabled(gl.BLEND)
	depth := gl.IsEnabled(gl.DEPTH_TEST)
	cull := gl.IsEnabled(gl.CULL_FACE)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	r.program.Use()
	r.program.SetMat4("uProjection", math.Ortho(0, float32(r.width), float32(r.height), 0, -1, 1))
	r.program.SetInt("uAtlas", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.batch.verts)*4, unsafe.Pointer(&r.batch.verts[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, n)

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	setCap(gl.BLEND, blend)
	setCap(gl.DEPTH_TEST, depth)
	setCap(gl.CULL_FACE, cull)
}

func setCap(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.font.Close()
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	r.program.Delete()
}

// Fill draws a solid rectangle.
func (r *Renderer) Fill(rect Rect, c Color) {
	r.batch.fill(rect, c)
}

// Frame draws a filled rectangle with a border of the given thickness.
// Windows, buttons, swatches and checkbox boxes are frames.
func (r *Renderer) Frame(rect Rect, fill, border Color, thickness float32) {
	r.batch.fill(rect, fill)
	r.batch.outline(rect, thickness, border)
}

// Bar draws a framed trough filled from the left to fraction. Sliders and
// progress bars are bars.
func (r *Renderer) Bar(rect Rect, fraction float32, t Theme, fill Color) {
	r.Frame(rect, t.Well, t.Border, 1)
	r.batch.fill(rect.Inset(1).Left(fraction), fill)
}

// Text draws text with its top-left corner at (x, y).
func (r *Renderer) Text(x, y float32, text string, c Color) {
	gw, gh := r.font.GlyphSize()
	w, h := float32(gw), float32(gh)

	cx := x
	for _, ch := range text {
		if ch == '\n' {
			cx = x
			y += h
			continue
		}
		r.batch.quad(Rect{cx, y, w, h}, r.font.GlyphUV(ch), c)
		cx += w
	}
}

// TextCentered draws text centred in rect.
func (r *Renderer) TextCentered(rect Rect, text string, c Color) {
	w, h := r.font.MeasureText(text)
	r.Text(rect.X+(rect.W-w)/2, rect.Y+(rect.H-h)/2, text, c)
}

// MeasureText returns the size of text in points.
func (r *Renderer) MeasureText(text string) (float32, float32) {
	return r.font.MeasureText(text)
}
