package model

import "github.com/Faultbox/bookmock/internal/book"

// plane describes one box face the way a unit box is usually tessellated:
// u and v index the in-plane axes, w the face normal axis.
type plane struct {
	u, v, w    int
	udir, vdir float32
	wsign      float32
}

// Face order matches book.Face: +X, -X, +Y, -Y, +Z, -Z.
var planes = [6]plane{
	book.FacePosX: {u: 2, v: 1, w: 0, udir: -1, vdir: -1, wsign: 1},
	book.FaceNegX: {u: 2, v: 1, w: 0, udir: 1, vdir: -1, wsign: -1},
	book.FacePosY: {u: 0, v: 2, w: 1, udir: 1, vdir: 1, wsign: 1},
	book.FaceNegY: {u: 0, v: 2, w: 1, udir: 1, vdir: -1, wsign: -1},
	book.FacePosZ: {u: 0, v: 1, w: 2, udir: 1, vdir: -1, wsign: 1},
	book.FaceNegZ: {u: 0, v: 1, w: 2, udir: -1, vdir: -1, wsign: -1},
}

// BuildBox tessellates a box centred at the origin of its own frame.
// Each face gets four vertices, two triangles and its own material group,
// with UVs spanning [0,1] across the face.
func BuildBox(b *book.Box) *Mesh {
	size := [3]float32{float32(b.Size.X), float32(b.Size.Y), float32(b.Size.Z)}
	m := &Mesh{
		Vertices: make([]Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
		Groups:   make([]MaterialGroup, 0, 6),
	}

	for f, p := range planes {
		base := uint32(len(m.Vertices))
		var normal [3]float32
		normal[p.w] = p.wsign

		for iy := 0; iy < 2; iy++ {
			for ix := 0; ix < 2; ix++ {
				var pos [3]float32
				pos[p.u] = (float32(ix)*size[p.u] - size[p.u]/2) * p.udir
				pos[p.v] = (float32(iy)*size[p.v] - size[p.v]/2) * p.vdir
				pos[p.w] = p.wsign * size[p.w] / 2
				m.Vertices = append(m.Vertices, Vertex{
					Position: pos,
					Normal:   normal,
					TexCoord: [2]float32{float32(ix), float32(1 - iy)},
				})
			}
		}

		m.Groups = append(m.Groups, MaterialGroup{
			Part:       b.Name,
			Face:       book.Face(f),
			Material:   b.Faces[f],
			StartIndex: int32(len(m.Indices)),
			IndexCount: 6,
		})
		m.Indices = append(m.Indices,
			base, base+2, base+1,
			base+2, base+3, base+1,
		)
	}

	m.Bounds = Bounds{
		Min: [3]float32{-size[0] / 2, -size[1] / 2, -size[2] / 2},
		Max: [3]float32{size[0] / 2, size[1] / 2, size[2] / 2},
	}
	return m
}
