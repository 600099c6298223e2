// Package export writes the book as printable geometry. Output is in
// millimetres; faceted meshes come straight from the box assembly, solids
// are rebuilt as rounded signed distance fields.
package export

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/fogleman/fauxgl"
	"go.uber.org/zap"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/internal/engine/model"
	"github.com/Faultbox/bookmock/internal/logger"
)

// ErrEmpty is returned when the assembly produced no triangles.
var ErrEmpty = errors.New("export produced no triangles")

// defaultCells controls marching cubes tessellation resolution.
const defaultCells = 200

// Options configures an export.
type Options struct {
	// Solid rebuilds the book as a union of rounded boxes instead of
	// writing the flat-faced render mesh.
	Solid bool
	// Round is the edge radius in millimetres, solid mode only.
	Round float64
	// Cells is the marching cubes resolution along the longest axis.
	Cells     int
	SkipPages bool
}

// DefaultOptions writes the faceted mesh.
func DefaultOptions() Options {
	return Options{Round: 0.5, Cells: defaultCells}
}

// Triangles returns the book's surface at hinge state h, in millimetres.
func Triangles(a *book.Assembly, h book.HingeState, opts Options) ([]*fauxgl.Triangle, error) {
	var tris []*fauxgl.Triangle
	if opts.Solid {
		s, err := Solid(a, h, opts)
		if err != nil {
			return nil, err
		}
		cells := opts.Cells
		if cells <= 0 {
			cells = defaultCells
		}
		for _, t := range render.ToTriangles(s, render.NewMarchingCubesUniform(cells)) {
			n := toVector(t.Normal())
			tris = append(tris, &fauxgl.Triangle{
				V1: fauxgl.Vertex{Position: toVector(t[0]), Normal: n},
				V2: fauxgl.Vertex{Position: toVector(t[1]), Normal: n},
				V3: fauxgl.Vertex{Position: toVector(t[2]), Normal: n},
			})
		}
	} else {
		mesh := model.BuildParts(a.Parts(h), model.BuildOptions{SkipPages: opts.SkipPages})
		if mesh != nil {
			mesh.Triangles(func(_ model.MaterialGroup, p, q, r model.Vertex) {
				tris = append(tris, &fauxgl.Triangle{V1: mmVertex(p), V2: mmVertex(q), V3: mmVertex(r)})
			})
		}
	}
	if len(tris) == 0 {
		return nil, ErrEmpty
	}
	return tris, nil
}

// WriteSTL saves the book at hinge state h as a binary STL file.
func WriteSTL(path string, a *book.Assembly, h book.HingeState, opts Options) error {
	tris, err := Triangles(a, h, opts)
	if err != nil {
		return err
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	if err := mesh.SaveSTL(path); err != nil {
		return fmt.Errorf("save stl: %w", err)
	}

	box := mesh.BoundingBox()
	logger.Named("export").Info("stl written",
		zap.String("path", path),
		zap.Bool("solid", opts.Solid),
		zap.Int("triangles", len(tris)),
		zap.Float64("size_x_mm", box.Max.X-box.Min.X),
		zap.Float64("size_y_mm", box.Max.Y-box.Min.Y),
		zap.Float64("size_z_mm", box.Max.Z-box.Min.Z),
	)
	return nil
}

// Solid builds the book at hinge state h as one signed distance field.
// Each box keeps its own rounded edges; the union is not blended.
func Solid(a *book.Assembly, h book.HingeState, opts Options) (sdf.SDF3, error) {
	var parts []sdf.SDF3
	var walk func(n *book.Node, parent sdf.M44) error
	walk = func(n *book.Node, parent sdf.M44) error {
		angle := 0.0
		if n.Hinged {
			angle = h.Angle(n.Hinge)
		}
		frame := parent.Mul(sdf.Translate3d(mm(n.Pivot))).Mul(sdf.RotateY(angle))
		for _, b := range n.Boxes {
			if opts.SkipPages && b.Kind == book.PartPages {
				continue
			}
			size := mm(b.Size)
			s, err := sdf.Box3D(size, roundFor(size, opts.Round))
			if err != nil {
				return fmt.Errorf("%s: %w", b.Name, err)
			}
			parts = append(parts, sdf.Transform3D(s, frame.Mul(sdf.Translate3d(mm(b.Center)))))
		}
		for _, c := range n.Children {
			if err := walk(c, frame); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(a.Root, sdf.Identity3d()); err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrEmpty
	}
	return sdf.Union3D(parts...), nil
}

// roundFor keeps the edge radius inside the thinnest dimension of the box.
func roundFor(size v3.Vec, round float64) float64 {
	limit := 0.45 * min(size.X, size.Y, size.Z)
	return max(0, min(round, limit))
}

func mm(v book.Vec) v3.Vec {
	return v3.Vec{X: v.X * book.Scale, Y: v.Y * book.Scale, Z: v.Z * book.Scale}
}

func mmVertex(v model.Vertex) fauxgl.Vertex {
	return fauxgl.Vertex{
		Position: fauxgl.Vector{
			X: float64(v.Position[0]) * book.Scale,
			Y: float64(v.Position[1]) * book.Scale,
			Z: float64(v.Position[2]) * book.Scale,
		},
		Normal: fauxgl.Vector{X: float64(v.Normal[0]), Y: float64(v.Normal[1]), Z: float64(v.Normal[2])},
	}
}

func toVector(v v3.Vec) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}
