package model

import (
	"image"
	gomath "math"
	"testing"

	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-5
}

func testBox() *book.Box {
	b := &book.Box{Name: "test", Size: book.Vec{X: 2, Y: 4, Z: 6}}
	for f := range b.Faces {
		b.Faces[f] = book.Material{Name: book.PanelFront.String()}
	}
	return b
}

func TestBuildBoxCounts(t *testing.T) {
	m := BuildBox(testBox())
	if len(m.Vertices) != 24 || len(m.Indices) != 36 || len(m.Groups) != 6 {
		t.Fatalf("got %d vertices, %d indices, %d groups", len(m.Vertices), len(m.Indices), len(m.Groups))
	}
	if m.TriangleCount() != 12 {
		t.Errorf("TriangleCount = %d", m.TriangleCount())
	}
	want := Bounds{Min: [3]float32{-1, -2, -3}, Max: [3]float32{1, 2, 3}}
	if m.Bounds != want {
		t.Errorf("bounds: %+v", m.Bounds)
	}
}

func TestBuildBoxFacesPointOut(t *testing.T) {
	m := BuildBox(testBox())
	normals := [6][3]float32{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}

	m.Triangles(func(g MaterialGroup, a, b, c Vertex) {
		want := normals[g.Face]
		if a.Normal != want {
			t.Errorf("face %d normal %v, want %v", g.Face, a.Normal, want)
		}
		// Counter-clockwise winding agrees with the stored normal.
		e1 := math.Vec3{X: b.Position[0] - a.Position[0], Y: b.Position[1] - a.Position[1], Z: b.Position[2] - a.Position[2]}
		e2 := math.Vec3{X: c.Position[0] - a.Position[0], Y: c.Position[1] - a.Position[1], Z: c.Position[2] - a.Position[2]}
		n := e1.Cross(e2).Normalize().Array()
		if !near(n[0], want[0]) || !near(n[1], want[1]) || !near(n[2], want[2]) {
			t.Errorf("face %d winding gives %v, want %v", g.Face, n, want)
		}
		// Every vertex lies on the face plane.
		for _, v := range []Vertex{a, b, c} {
			for axis := 0; axis < 3; axis++ {
				if want[axis] != 0 && !near(v.Position[axis], want[axis]*m.Bounds.Max[axis]) {
					t.Errorf("face %d vertex %v off plane", g.Face, v.Position)
				}
			}
		}
	})
}

func TestBuildBoxUVSpan(t *testing.T) {
	m := BuildBox(testBox())
	for _, g := range m.Groups {
		var minU, minV, maxU, maxV float32 = 1, 1, 0, 0
		for _, idx := range m.Indices[g.StartIndex : g.StartIndex+g.IndexCount] {
			tc := m.Vertices[idx].TexCoord
			minU, maxU = min(minU, tc[0]), max(maxU, tc[0])
			minV, maxV = min(minV, tc[1]), max(maxV, tc[1])
		}
		if minU != 0 || maxU != 1 || minV != 0 || maxV != 1 {
			t.Errorf("face %d UVs span [%v,%v]x[%v,%v]", g.Face, minU, maxU, minV, maxV)
		}
	}
}

func TestBuildBoxOuterFaceOrientation(t *testing.T) {
	// On the -Z face u runs from +X to -X and v from bottom to top.
	m := BuildBox(testBox())
	g := m.Groups[book.FaceNegZ]
	for _, idx := range m.Indices[g.StartIndex : g.StartIndex+g.IndexCount] {
		v := m.Vertices[idx]
		wantU := float32(0)
		if v.Position[0] < 0 {
			wantU = 1
		}
		wantV := float32(0)
		if v.Position[1] > 0 {
			wantV = 1
		}
		if v.TexCoord != [2]float32{wantU, wantV} {
			t.Errorf("vertex %v has uv %v", v.Position, v.TexCoord)
		}
	}
}

func TestTransform(t *testing.T) {
	m := BuildBox(testBox()).Transform(math.Translate(10, 0, 0).Mul(math.RotateY(gomath.Pi / 2)))

	// +X normal turns to -Z under a quarter turn about Y.
	g := m.Groups[book.FacePosX]
	n := m.Vertices[m.Indices[g.StartIndex]].Normal
	if !near(n[0], 0) || !near(n[2], -1) {
		t.Errorf("rotated +X normal: %v", n)
	}
	if !near(m.Bounds.Min[0], 7) || !near(m.Bounds.Max[0], 13) {
		t.Errorf("transformed bounds: %+v", m.Bounds)
	}
	if !near(m.Bounds.Min[2], -1) || !near(m.Bounds.Max[2], 1) {
		t.Errorf("transformed bounds: %+v", m.Bounds)
	}
}

func TestBakeUV(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	views := book.NewTextureViews(img, book.MapAtlas(1.5, 0.25))

	b := testBox()
	b.Faces[book.FaceNegZ].Texture = views.View(book.PanelBack)
	m := BuildBox(b)
	m.BakeUV()

	tr := views.View(book.PanelBack).UVTransform
	for _, g := range m.Groups {
		for _, idx := range m.Indices[g.StartIndex : g.StartIndex+g.IndexCount] {
			u := m.Vertices[idx].TexCoord[0]
			if g.Face != book.FaceNegZ {
				if u != 0 && u != 1 {
					t.Errorf("untextured face %d changed: u=%v", g.Face, u)
				}
				continue
			}
			lo, hi := float32(tr.OffsetX), float32(tr.OffsetX+tr.RepeatX)
			if !near(u, lo) && !near(u, hi) {
				t.Errorf("baked u=%v outside back slice [%v,%v]", u, lo, hi)
			}
		}
	}
}

func TestBuildParts(t *testing.T) {
	spec := book.DefaultSpec()
	b := book.New(spec)

	m := BuildParts(b.Parts(), BuildOptions{})
	if m == nil {
		t.Fatal("nil mesh")
	}
	if len(m.Groups) != 4*6 || m.TriangleCount() != 4*12 {
		t.Errorf("groups %d triangles %d", len(m.Groups), m.TriangleCount())
	}
	lo, hi := b.Assembly().Bounds(b.Hinge())
	for axis, want := range [3]float32{lo.X, lo.Y, lo.Z} {
		if !near(m.Bounds.Min[axis], want) {
			t.Errorf("min[%d]: got %v, want %v", axis, m.Bounds.Min[axis], want)
		}
	}
	for axis, want := range [3]float32{hi.X, hi.Y, hi.Z} {
		if !near(m.Bounds.Max[axis], want) {
			t.Errorf("max[%d]: got %v, want %v", axis, m.Bounds.Max[axis], want)
		}
	}

	noPages := BuildParts(b.Parts(), BuildOptions{SkipPages: true})
	if len(noPages.Groups) != 3*6 {
		t.Errorf("SkipPages left %d groups", len(noPages.Groups))
	}
	for _, g := range noPages.Groups {
		if g.Part == "pages" {
			t.Fatal("page block not skipped")
		}
	}
}

func TestMergeRebasesIndices(t *testing.T) {
	a := BuildBox(testBox())
	b := BuildBox(testBox()).Transform(math.Translate(5, 0, 0))
	m := Merge(a, nil, b)

	if len(m.Vertices) != 48 {
		t.Fatalf("vertices: %d", len(m.Vertices))
	}
	second := m.Groups[6]
	if second.StartIndex != 36 {
		t.Errorf("second box starts at %d", second.StartIndex)
	}
	for _, idx := range m.Indices[36:] {
		if idx < 24 {
			t.Fatalf("index %d points into the first box", idx)
		}
	}
	if !near(m.Bounds.Min[0], -1) || !near(m.Bounds.Max[0], 6) {
		t.Errorf("merged bounds: %+v", m.Bounds)
	}
	if Merge() != nil {
		t.Error("empty merge should be nil")
	}
}
