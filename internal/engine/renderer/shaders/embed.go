// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BookVertexShader is the vertex shader for the book parts.
//
//go:embed book.vert
var BookVertexShader string

// BookFragmentShader is the fragment shader for the book parts.
//
//go:embed book.frag
var BookFragmentShader string

// LineVertexShader is the vertex shader for bounding box rendering.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for bounding box rendering.
//
//go:embed line.frag
var LineFragmentShader string

// DepthVertexShader renders the book from the sun into the shadow map.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string

// OverlayVertexShader positions the control panel's quads in window points.
//
//go:embed overlay.vert
var OverlayVertexShader string

// OverlayFragmentShader tints atlas texels for the control panel.
//
//go:embed overlay.frag
var OverlayFragmentShader string
