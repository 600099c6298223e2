// Package softraster renders the book on the CPU with fauxgl, for headless
// previews and tests where no GL context exists.
package softraster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/fauxgl"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/engine/camera"
	"github.com/Faultbox/bookmock/internal/engine/lighting"
	"github.com/Faultbox/bookmock/internal/engine/model"
	"github.com/Faultbox/bookmock/internal/logger"
	"github.com/Faultbox/bookmock/pkg/math"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("no geometry to render")

// Options configures a render.
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the output size and scales down.
	Supersample int
	Background  color.Color
	// Camera is fitted to the book when nil.
	Camera *camera.OrbitCamera
	Sun    lighting.Sun
}

// DefaultOptions returns an 800x600 render on a light grey backdrop.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      600,
		Supersample: 2,
		Background:  color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff},
		Sun:         lighting.DefaultSun(),
	}
}

// Render rasterizes placed parts.
func Render(parts []book.Part, opts Options) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid render size %dx%d", opts.Width, opts.Height)
	}
	mesh := model.BuildParts(parts, model.BuildOptions{BakeUV: true})
	if mesh == nil {
		return nil, ErrEmpty
	}

	ss := max(1, opts.Supersample)
	w, h := opts.Width*ss, opts.Height*ss

	cam := opts.Camera
	if cam == nil {
		cam = camera.NewOrbitCamera()
		cam.FitToBounds(vec3(mesh.Bounds.Min), vec3(mesh.Bounds.Max))
	}
	eye := toVector(cam.Position())
	matrix := fauxgl.LookAt(eye, toVector(cam.Center()), fauxgl.Vector{Y: 1}).
		Perspective(float64(cam.FovY), float64(w)/float64(h), float64(cam.NearPlane), float64(cam.FarPlane))
	light := toVector(opts.Sun.Direction())

	ctx := fauxgl.NewContext(w, h)
	ctx.Cull = fauxgl.CullNone
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}
	ctx.ClearColorBufferWith(fauxgl.MakeColor(bg))

	textures := make(map[image.Image]fauxgl.Texture)
	batches := batchTriangles(mesh)
	for _, batch := range batches {
		shader := fauxgl.NewPhongShader(matrix, light, eye)
		shader.AmbientColor = fauxgl.Gray(float64(opts.Sun.Ambient))
		shader.DiffuseColor = fauxgl.Gray(float64(opts.Sun.Diffuse))
		shader.SpecularColor = fauxgl.Gray((1 - batch.material.Roughness) * 0.3)
		shader.SpecularPower = 24

		if tv := batch.material.Texture; tv != nil {
			tex, ok := textures[tv.Image]
			if !ok {
				tex = fauxgl.NewImageTexture(tv.Image)
				textures[tv.Image] = tex
			}
			shader.Texture = tex
		} else {
			shader.ObjectColor = fauxgl.MakeColor(batch.material.Color)
		}

		ctx.Shader = shader
		ctx.DrawTriangles(batch.triangles)
	}

	logger.Named("softraster").Debug("rendered",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("batches", len(batches)),
	)

	src := ctx.Image()
	out := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if ss == 1 {
		draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(out, out.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
	return out, nil
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

type batch struct {
	material  book.Material
	triangles []*fauxgl.Triangle
}

// batchTriangles groups triangles by finish so each batch needs one shader.
func batchTriangles(mesh *model.Mesh) []*batch {
	type key struct {
		img   image.Image
		color color.RGBA
		rough float64
	}
	index := make(map[key]*batch)
	var batches []*batch

	mesh.Triangles(func(g model.MaterialGroup, a, b, c model.Vertex) {
		k := key{color: g.Material.Color, rough: g.Material.Roughness}
		if g.Material.Textured() {
			k.img = g.Material.Texture.Image
		}
		bt, ok := index[k]
		if !ok {
			bt = &batch{material: g.Material}
			index[k] = bt
			batches = append(batches, bt)
		}
		bt.triangles = append(bt.triangles, &fauxgl.Triangle{
			V1: toVertex(a),
			V2: toVertex(b),
			V3: toVertex(c),
		})
	})
	return batches
}

func toVertex(v model.Vertex) fauxgl.Vertex {
	return fauxgl.Vertex{
		Position: fauxgl.Vector{X: float64(v.Position[0]), Y: float64(v.Position[1]), Z: float64(v.Position[2])},
		Normal:   fauxgl.Vector{X: float64(v.Normal[0]), Y: float64(v.Normal[1]), Z: float64(v.Normal[2])},
		Texture:  fauxgl.Vector{X: float64(v.TexCoord[0]), Y: float64(v.TexCoord[1])},
		Color:    fauxgl.Gray(1),
	}
}

func toVector(v math.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
