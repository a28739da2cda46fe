//go:build !js

package glint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRendererState stands in for the renderer state the real modules
// register on Install. A second Install would hit the duplicate
// resource panic, so UseRenderer must not reinstall the module.
type fakeRendererState struct {
	installs int
}

type fakeRendererModule struct {
	state *fakeRendererState
}

func (mod fakeRendererModule) Install(app *App, cmd *Commands) {
	mod.state.installs++
	cmd.AddResources(mod.state)
}

// newWindowedApp pre-seeds the shared window resource so UseRenderer
// skips GLFW window creation.
func newWindowedApp() *App {
	app := NewAppBuilder().Build()
	app.addResources(&WindowState{})
	return app
}

func TestUseRenderer_InstallsModuleOnce(t *testing.T) {
	app := newWindowedApp()
	state := &fakeRendererState{}

	app.UseRenderer(RendererWGPU, fakeRendererModule{state: state}, 480, 480, "demo")

	require.Equal(t, 1, state.installs)
	got, ok := resourceOf[fakeRendererState](app)
	require.True(t, ok)
	assert.Same(t, state, got)
}

func TestUseRenderer_SameRendererTwiceIsNoop(t *testing.T) {
	app := newWindowedApp()
	state := &fakeRendererState{}

	require.NotPanics(t, func() {
		app.UseRenderer(RendererWGPU, fakeRendererModule{state: state}, 480, 480, "demo")
		app.UseRenderer(RendererWGPU, fakeRendererModule{state: state}, 480, 480, "demo")
	})

	assert.Equal(t, 1, state.installs)
}

func TestUseRenderer_DifferentRendererPanics(t *testing.T) {
	app := newWindowedApp()
	app.UseRenderer(RendererWGPU, fakeRendererModule{state: &fakeRendererState{}}, 480, 480, "demo")

	assert.PanicsWithValue(t, "multiple renderers installed: wgpu and webgl", func() {
		app.UseRenderer(RendererWebGL, fakeRendererModule{state: &fakeRendererState{}}, 480, 480, "demo")
	})
}
