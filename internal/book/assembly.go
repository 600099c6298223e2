package book

import (
	"image/color"

	"github.com/Faultbox/bookmock/pkg/math"
)

// Face indexes the six faces of a box: +X, -X, +Y, -Y, +Z, -Z.
type Face int

const (
	FacePosX Face = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Material is the finish of one box face.
type Material struct {
	Name      string
	Color     color.RGBA
	Roughness float64
	// Texture is nil for flat-coloured faces.
	Texture *TextureView
}

// Textured reports whether the face samples the cover image.
func (m Material) Textured() bool {
	return m.Texture != nil
}

// PartKind tells the renderable parts apart.
type PartKind int

const (
	PartSpine PartKind = iota
	PartCover
	PartPages
)

func (k PartKind) String() string {
	switch k {
	case PartSpine:
		return "spine"
	case PartCover:
		return "cover"
	case PartPages:
		return "pages"
	}
	return "unknown"
}

// Box is an axis-aligned box centred at Center in its node's frame.
type Box struct {
	Name   string
	Kind   PartKind
	Size   Vec
	Center Vec
	Faces  [6]Material
}

// Node is a rigid frame in the assembly tree. A hinged node rotates about the
// Y axis through Pivot by the angle of its Hinge side.
type Node struct {
	Name     string
	Pivot    Vec
	Hinged   bool
	Hinge    Side
	Boxes    []*Box
	Children []*Node
}

// Local returns the node's transform relative to its parent for hinge state h.
func (n *Node) Local(h HingeState) math.Mat4 {
	angle := 0.0
	if n.Hinged {
		angle = h.Angle(n.Hinge)
	}
	return math.PivotRotateY(n.Pivot.F32(), float32(angle), math.Vec3{})
}

// Assembly is the static geometry graph of one spec.
type Assembly struct {
	Root  *Node
	Spine *Node
	Front *Node
	Back  *Node

	// Pages is nil when the page block is hidden.
	Pages *Box
	// PagesOn is the cover carrying Pages.
	PagesOn Side

	Dimensions Dimensions
}

// Build composes spine, both covers and the optional page block.
// It never fails; extreme inputs yield thin but valid boxes.
func Build(spec Spec, dims Dimensions, views *TextureViews) *Assembly {
	outside := func(p Panel) Material {
		return Material{
			Name:      p.String(),
			Color:     spec.CoverColor,
			Roughness: 0.4,
			Texture:   views.View(p),
		}
	}
	inside := Material{Name: "inside", Color: InsideCoverColor, Roughness: 0.5}

	spineBox := &Box{
		Name: "spine",
		Kind: PartSpine,
		Size: Vec{X: dims.Spine, Y: dims.Height, Z: dims.CoverThickness},
	}
	for f := range spineBox.Faces {
		spineBox.Faces[f] = outside(PanelSpine)
	}

	a := &Assembly{
		Root:       &Node{Name: "book"},
		Spine:      &Node{Name: "spine", Boxes: []*Box{spineBox}},
		Dimensions: dims,
	}
	a.Front = coverNode(SideFront, dims, outside(PanelFront), inside)
	a.Back = coverNode(SideBack, dims, outside(PanelBack), inside)
	a.Root.Children = []*Node{a.Spine, a.Front, a.Back}

	if spec.ShowPages {
		a.PagesOn = spec.Binding.Carrier()
		a.Pages = pageBlock(a.PagesOn, dims)
		a.Cover(a.PagesOn).Boxes = append(a.Cover(a.PagesOn).Boxes, a.Pages)
	}
	return a
}

// Cover returns the node of one cover.
func (a *Assembly) Cover(s Side) *Node {
	if s == SideBack {
		return a.Back
	}
	return a.Front
}

func coverNode(side Side, dims Dimensions, outside, inside Material) *Node {
	sign := side.Sign()
	board := &Box{
		Name:   side.String() + "-cover",
		Kind:   PartCover,
		Size:   Vec{X: dims.Width, Y: dims.Height, Z: dims.CoverThickness},
		Center: Vec{X: sign * dims.Width / 2},
	}
	for f := range board.Faces {
		board.Faces[f] = inside
	}
	// -Z is the outward face once the cover folds shut.
	board.Faces[FaceNegZ] = outside

	return &Node{
		Name:   side.String(),
		Pivot:  Vec{X: sign * dims.Spine / 2, Z: dims.CoverThickness / 2},
		Hinged: true,
		Hinge:  side,
		Boxes:  []*Box{board},
	}
}

func pageBlock(side Side, dims Dimensions) *Box {
	size := dims.PageBlockSize()
	white := Material{Name: "paper", Color: PaperWhite, Roughness: 0.9}
	edge := Material{Name: "paper-edge", Color: PaperEdge, Roughness: 0.9}

	b := &Box{
		Name: "pages",
		Kind: PartPages,
		Size: size,
		// Flush with the hinge, resting on the spine-side face of the board.
		Center: Vec{
			X: side.Sign() * size.X / 2,
			Z: dims.CoverThickness + size.Z/2,
		},
		Faces: [6]Material{edge, white, edge, edge, white, white},
	}
	if side == SideBack {
		// Fore-edge faces away from the hinge on the mirrored side.
		b.Faces[FacePosX], b.Faces[FaceNegX] = white, edge
	}
	return b
}

// Part is a box placed in world space for one hinge state.
type Part struct {
	*Box
	Node  *Node
	World math.Mat4
}

// Parts flattens the tree into world-space boxes for hinge state h.
// Order is stable: spine, front cover (and its pages), back cover (and its pages).
func (a *Assembly) Parts(h HingeState) []Part {
	var parts []Part
	var walk func(n *Node, parent math.Mat4)
	walk = func(n *Node, parent math.Mat4) {
		world := parent.Mul(n.Local(h))
		for _, b := range n.Boxes {
			parts = append(parts, Part{
				Box:   b,
				Node:  n,
				World: world.Mul(math.Translate(float32(b.Center.X), float32(b.Center.Y), float32(b.Center.Z))),
			})
		}
		for _, c := range n.Children {
			walk(c, world)
		}
	}
	walk(a.Root, math.Identity())
	return parts
}

// Bounds returns the world-space axis-aligned bounds of all parts.
func (a *Assembly) Bounds(h HingeState) (lo, hi math.Vec3) {
	first := true
	for _, p := range a.Parts(h) {
		hx, hy, hz := p.Size.X/2, p.Size.Y/2, p.Size.Z/2
		for _, c := range [8]Vec{
			{-hx, -hy, -hz}, {hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz},
			{-hx, -hy, hz}, {hx, -hy, hz}, {-hx, hy, hz}, {hx, hy, hz},
		} {
			w := p.World.TransformVec3(c.F32())
			if first {
				lo, hi, first = w, w, false
				continue
			}
			lo, hi = lo.Min(w), hi.Max(w)
		}
	}
	return lo, hi
}
