// Package model builds triangle meshes from the book assembly.
package model

import "github.com/Faultbox/bookmock/internal/book"

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
// TexCoord V runs bottom to top.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// MaterialGroup is a run of indices sharing one face finish.
type MaterialGroup struct {
	Part       string
	Face       book.Face
	Material   book.Material
	StartIndex int32
	IndexCount int32
}

// Mesh holds the mesh data ready for GPU upload or rasterization.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []MaterialGroup
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// BakeUV rewrites texture coordinates of textured faces into atlas space.
	// Renderers that apply the UV transform per draw leave it off.
	BakeUV bool
	// SkipPages drops the page block.
	SkipPages bool
}
