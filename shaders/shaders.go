// Package shaders embeds the fixed shader sources for both render
// backends: WGSL for the native WebGPU path, GLSL for WebGL2.
package shaders

import (
	_ "embed"
)

//go:embed cube.wgsl
var CubeWGSL string

//go:embed text.wgsl
var TextWGSL string

//go:embed cube_vert.glsl
var CubeVertexGLSL string

//go:embed cube_frag.glsl
var CubeFragmentGLSL string
