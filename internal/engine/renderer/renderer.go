// Package renderer draws the book with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/engine/camera"
	"github.com/Faultbox/bookmock/internal/engine/debug"
	"github.com/Faultbox/bookmock/internal/engine/framebuffer"
	"github.com/Faultbox/bookmock/internal/engine/lighting"
	"github.com/Faultbox/bookmock/internal/engine/model"
	"github.com/Faultbox/bookmock/internal/engine/renderer/shaders"
	"github.com/Faultbox/bookmock/internal/engine/shader"
	"github.com/Faultbox/bookmock/internal/engine/shadow"
	"github.com/Faultbox/bookmock/internal/engine/texture"
	"github.com/Faultbox/bookmock/internal/logger"
	"github.com/Faultbox/bookmock/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	VSync      bool
	Background color.RGBA
	// ShadowMapSize is the shadow map resolution; 0 disables shadows.
	ShadowMapSize int
}

// gpuMesh is one box uploaded in its own frame; the part's world matrix
// places it per draw.
type gpuMesh struct {
	vao, vbo, ebo uint32
	groups        []model.MaterialGroup
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	bookProgram  *shader.Program
	lineProgram  *shader.Program
	depthProgram *shader.Program

	// nil when shadows are unavailable.
	shadowMap *shadow.Map

	// Geometry of the assembly currently on the GPU.
	assembly *book.Assembly
	meshes   map[*book.Box]*gpuMesh

	// Cover textures keyed by the decoded image they were uploaded from.
	// book.Book only hands out covers of comparable types.
	textures map[image.Image]uint32
	white    uint32

	lineVAO, lineVBO uint32

	Sun        lighting.Sun
	ShowBounds bool
	// Shadows enables the sun's shadow pass when a shadow map exists.
	Shadows bool
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		meshes:   make(map[*book.Box]*gpuMesh),
		textures: make(map[image.Image]uint32),
		Sun:      lighting.DefaultSun(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	r.SetBackground(cfg.Background)

	var err error
	r.bookProgram, err = shader.NewProgram(shaders.BookVertexShader, shaders.BookFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("book shader: %w", err)
	}
	r.lineProgram, err = shader.NewProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		r.bookProgram.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	if cfg.ShadowMapSize > 0 {
		r.initShadows(int32(cfg.ShadowMapSize))
	}

	r.white = uploadTexture(texture.Solid(color.White))
	r.createLineBuffer()

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.releaseMeshes()
	r.releaseTextures(nil)
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
		r.depthProgram.Delete()
	}
	r.bookProgram.Delete()
	r.lineProgram.Delete()
}

// initShadows creates the shadow pass. Failure leaves the book unshadowed.
func (r *Renderer) initShadows(size int32) {
	depth, err := shader.NewProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		logger.Warn("shadows disabled", zap.Error(err))
		return
	}
	sm, err := shadow.NewMap(size)
	if err != nil {
		depth.Delete()
		logger.Warn("shadows disabled", zap.Error(err))
		return
	}
	r.depthProgram = depth
	r.shadowMap = sm
	r.Shadows = true
	logger.Debug("shadow map created", zap.Int32("resolution", sm.Resolution))
}

// HasShadows reports whether a shadow map could be created.
func (r *Renderer) HasShadows() bool {
	return r.shadowMap.IsValid()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// SetBackground changes the clear colour.
func (r *Renderer) SetBackground(c color.RGBA) {
	r.config.Background = c
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, 1)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawBook draws every part of b at its current hinge state.
func (r *Renderer) DrawBook(b *book.Book, cam *camera.OrbitCamera, aspect float32) {
	r.sync(b.Assembly())
	parts := b.Parts()

	shadows := r.Shadows && r.HasShadows()
	var lightViewProj math.Mat4
	if shadows {
		lo, hi := b.Assembly().Bounds(b.Hinge())
		lightViewProj = shadow.LightMatrix(r.Sun.Direction(), shadow.AABB{Min: lo, Max: hi})
		r.drawShadowPass(parts, lightViewProj)
	}

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(aspect)

	p := r.bookProgram
	p.Use()
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", proj)
	p.SetVec3("uLightDir", r.Sun.Direction())
	p.SetVec3("uCameraPos", cam.Position())
	p.SetFloat("uAmbient", r.Sun.Ambient)
	p.SetFloat("uDiffuse", r.Sun.Diffuse)
	p.SetInt("uTexture", 0)
	p.SetInt("uShadowMap", 1)
	p.SetBool("uShadows", shadows)
	if shadows {
		p.SetMat4("uLightViewProj", lightViewProj)
		p.SetFloat("uShadowTexel", 1/float32(r.shadowMap.Resolution))
		r.shadowMap.BindTexture(gl.TEXTURE1)
	}
	gl.ActiveTexture(gl.TEXTURE0)

	for _, part := range parts {
		m, ok := r.meshes[part.Box]
		if !ok {
			continue
		}
		p.SetMat4("uModel", part.World)
		gl.BindVertexArray(m.vao)
		for _, g := range m.groups {
			r.applyMaterial(g.Material)
			gl.DrawElementsWithOffset(gl.TRIANGLES, g.IndexCount, gl.UNSIGNED_INT, uintptr(g.StartIndex*4))
		}
	}
	gl.BindVertexArray(0)

	if r.ShowBounds {
		lo, hi := b.Assembly().Bounds(b.Hinge())
		r.drawBounds(lo, hi, proj.Mul(view))
	}
}

// drawShadowPass renders depth from the sun into the shadow map.
func (r *Renderer) drawShadowPass(parts []book.Part, lightViewProj math.Mat4) {
	r.shadowMap.Bind()
	defer r.shadowMap.Unbind()

	p := r.depthProgram
	p.Use()
	p.SetMat4("uLightViewProj", lightViewProj)
	for _, part := range parts {
		m, ok := r.meshes[part.Box]
		if !ok {
			continue
		}
		p.SetMat4("uModel", part.World)
		gl.BindVertexArray(m.vao)
		for _, g := range m.groups {
			gl.DrawElementsWithOffset(gl.TRIANGLES, g.IndexCount, gl.UNSIGNED_INT, uintptr(g.StartIndex*4))
		}
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) applyMaterial(mat book.Material) {
	p := r.bookProgram
	p.SetVec3("uColor", math.Vec3{
		X: float32(mat.Color.R) / 255,
		Y: float32(mat.Color.G) / 255,
		Z: float32(mat.Color.B) / 255,
	})
	p.SetFloat("uRoughness", float32(mat.Roughness))

	if !mat.Textured() {
		p.SetBool("uUseTexture", false)
		gl.BindTexture(gl.TEXTURE_2D, r.white)
		return
	}
	p.SetBool("uUseTexture", true)
	p.SetFloat("uUVOffset", float32(mat.Texture.OffsetX))
	p.SetFloat("uUVRepeat", float32(mat.Texture.RepeatX))
	gl.BindTexture(gl.TEXTURE_2D, r.textureFor(mat.Texture.Image))
}

// sync uploads the boxes of a when the book has rebuilt its geometry.
// Parameter changes that only move the hinge leave the GPU buffers alone.
func (r *Renderer) sync(a *book.Assembly) {
	if a == r.assembly {
		return
	}
	r.releaseMeshes()

	live := make(map[image.Image]bool)
	for _, part := range a.Parts(book.ClosedHinge()) {
		r.meshes[part.Box] = uploadMesh(model.BuildBox(part.Box))
		for _, mat := range part.Faces {
			if mat.Textured() {
				live[mat.Texture.Image] = true
			}
		}
	}
	r.releaseTextures(live)
	r.assembly = a

	logger.Debug("book uploaded",
		zap.Int("boxes", len(r.meshes)),
		zap.Int("textures", len(r.textures)),
	)
}

func (r *Renderer) releaseMeshes() {
	for box, m := range r.meshes {
		gl.DeleteVertexArrays(1, &m.vao)
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		delete(r.meshes, box)
	}
	r.assembly = nil
}

// releaseTextures frees every cached texture not in keep.
func (r *Renderer) releaseTextures(keep map[image.Image]bool) {
	for img, id := range r.textures {
		if keep[img] {
			continue
		}
		gl.DeleteTextures(1, &id)
		delete(r.textures, img)
	}
}

func (r *Renderer) textureFor(img image.Image) uint32 {
	if id, ok := r.textures[img]; ok {
		return id
	}
	id := uploadTexture(texture.ImageToRGBA(img))
	r.textures[img] = id
	b := img.Bounds()
	logger.Debug("cover texture uploaded", zap.Int("width", b.Dx()), zap.Int("height", b.Dy()))
	return id
}

func uploadMesh(mesh *model.Mesh) *gpuMesh {
	m := &gpuMesh{groups: mesh.Groups}
	stride := int32(unsafe.Sizeof(model.Vertex{}))

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return m
}

// uploadTexture creates a mipmapped texture. Edges clamp so neighbouring
// panels of the atlas never bleed across a face border.
func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return texID
}

func (r *Renderer) createLineBuffer() {
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, debug.BBoxWireframeVertexCount*3*4, nil, gl.DYNAMIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawBounds(lo, hi math.Vec3, viewProj math.Mat4) {
	verts := debug.BoundsWireframe(lo, hi, debug.DefaultBBoxPadding)

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uViewProj", viewProj)
	r.lineProgram.SetVec3("uColor", math.Vec3{X: 1, Y: 0.8})

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	gl.DrawArrays(gl.LINES, 0, debug.BBoxWireframeVertexCount)
	gl.BindVertexArray(0)
}

// ReadPixels reads the default framebuffer as tightly packed RGBA rows,
// bottom row first.
func (r *Renderer) ReadPixels() []byte {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Capture renders b into an offscreen target of the given size, so
// screenshots are independent of the window size.
func (r *Renderer) Capture(b *book.Book, cam *camera.OrbitCamera, width, height int) (*image.RGBA, error) {
	fb, err := framebuffer.New(int32(width), int32(height))
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()

	restore := fb.Bind()
	r.Begin()
	r.DrawBook(b, cam, float32(width)/float32(max(1, height)))
	img := fb.ReadImage()
	restore()
	return img, nil
}
