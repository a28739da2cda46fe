package glint

// RendererName identifies a concrete renderer module. Keep names
// aligned with ensureSingleRenderer tags.
type RendererName string

const (
	RendererWGPU  RendererName = "wgpu"
	RendererWebGL RendererName = "webgl"
)

// Renderer is an alias to Module for semantic clarity in APIs.
type Renderer interface {
	Module
}
