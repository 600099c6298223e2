package model

import (
	"github.com/Faultbox/bookmock/internal/book"
	"github.com/Faultbox/bookmock/pkg/math"
)

// BuildParts creates one world-space mesh from placed parts.
// Returns nil when there is nothing to draw.
func BuildParts(parts []book.Part, opts BuildOptions) *Mesh {
	var meshes []*Mesh
	for _, p := range parts {
		if opts.SkipPages && p.Kind == book.PartPages {
			continue
		}
		m := BuildBox(p.Box).Transform(p.World)
		if opts.BakeUV {
			m.BakeUV()
		}
		meshes = append(meshes, m)
	}
	return Merge(meshes...)
}

// Transform returns a copy of the mesh with positions and normals moved by mat.
// mat is expected to be rigid.
func (m *Mesh) Transform(mat math.Mat4) *Mesh {
	out := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  append([]uint32(nil), m.Indices...),
		Groups:   append([]MaterialGroup(nil), m.Groups...),
		Bounds:   emptyBounds(),
	}
	for i, v := range m.Vertices {
		pos := mat.TransformPoint(v.Position)
		n := mat.TransformDirection(v.Normal)
		out.Vertices[i] = Vertex{
			Position: pos,
			Normal:   math.Vec3{X: n[0], Y: n[1], Z: n[2]}.Normalize().Array(),
			TexCoord: v.TexCoord,
		}
		updateBounds(&out.Bounds, pos)
	}
	return out
}

// BakeUV maps the texture coordinates of every textured group through its
// panel's UV transform. Untextured groups are left alone.
func (m *Mesh) BakeUV() {
	seen := make(map[uint32]bool)
	for _, g := range m.Groups {
		if !g.Material.Textured() {
			continue
		}
		tr := g.Material.Texture.UVTransform
		for _, idx := range m.Indices[g.StartIndex : g.StartIndex+g.IndexCount] {
			if seen[idx] {
				continue
			}
			seen[idx] = true
			tc := m.Vertices[idx].TexCoord
			u, v := tr.Apply(float64(tc[0]), float64(tc[1]))
			m.Vertices[idx].TexCoord = [2]float32{float32(u), float32(v)}
		}
	}
}

// Merge concatenates meshes, rebasing indices and groups.
// Returns nil when no mesh has vertices.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{Bounds: emptyBounds()}
	for _, m := range meshes {
		if m == nil || len(m.Vertices) == 0 {
			continue
		}
		base := uint32(len(out.Vertices))
		start := int32(len(out.Indices))

		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
		for _, g := range m.Groups {
			g.StartIndex += start
			out.Groups = append(out.Groups, g)
		}
		updateBounds(&out.Bounds, m.Bounds.Min)
		updateBounds(&out.Bounds, m.Bounds.Max)
	}
	if len(out.Vertices) == 0 {
		return nil
	}
	return out
}

// Triangles calls fn for every triangle, in group order.
func (m *Mesh) Triangles(fn func(g MaterialGroup, a, b, c Vertex)) {
	for _, g := range m.Groups {
		idx := m.Indices[g.StartIndex : g.StartIndex+g.IndexCount]
		for i := 0; i+2 < len(idx); i += 3 {
			fn(g, m.Vertices[idx[i]], m.Vertices[idx[i+1]], m.Vertices[idx[i+2]])
		}
	}
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
