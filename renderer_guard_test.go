package glint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSingleRenderer_Registers(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.True(t, ensureSingleRenderer(app, string(RendererWGPU)))

	tag, ok := resourceOf[RendererTag](app)
	require.True(t, ok)
	assert.Equal(t, "wgpu", tag.Name)
}

func TestEnsureSingleRenderer_SameNameReportsAlreadyInstalled(t *testing.T) {
	app := NewAppBuilder().Build()

	ensureSingleRenderer(app, string(RendererWGPU))
	assert.NotPanics(t, func() {
		assert.False(t, ensureSingleRenderer(app, string(RendererWGPU)))
	})
}

func TestEnsureSingleRenderer_ConflictPanics(t *testing.T) {
	app := NewAppBuilder().Build()

	ensureSingleRenderer(app, string(RendererWGPU))
	assert.Panics(t, func() {
		ensureSingleRenderer(app, string(RendererWebGL))
	})
}

func TestEnsureSingleRenderer_NilApp(t *testing.T) {
	assert.Panics(t, func() {
		ensureSingleRenderer(nil, string(RendererWGPU))
	})
}
