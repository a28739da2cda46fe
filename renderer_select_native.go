//go:build !js

package glint

// ensureWindowResource guarantees a single shared WindowState exists,
// creating one with the given overrides or defaults when missing.
func ensureWindowResource(app *App, width, height int, title string) {
	if _, ok := resourceOf[WindowState](app); ok {
		return
	}

	if width <= 0 {
		width = 480
	}
	if height <= 0 {
		height = 480
	}
	if title == "" {
		title = "glint"
	}

	ws := createWindowState(width, height, title)
	app.addResources(ws)
	app.Logger().Infof("Created shared window (%dx%d) '%s'", width, height, title)
}

// UseRenderer installs a configured renderer module, enforcing renderer
// exclusivity and ensuring the shared window exists. Re-selecting the
// installed renderer is a no-op, its modules are not installed twice.
// Pass a module value directly to control its options:
//
//	app.UseRenderer(RendererWGPU, WGPUModule{DebugMode: true}, 480, 480, "demo")
func (app *App) UseRenderer(name RendererName, mod Renderer, width, height int, title string) *App {
	if !ensureSingleRenderer(app, string(name)) {
		return app
	}
	ensureWindowResource(app, width, height, title)
	app.Logger().Infof("Renderer selected: %s", name)
	return app.UseModules(WindowModule{}, mod)
}

// UseWGPU selects the WebGPU renderer with default options.
func (app *App) UseWGPU(width, height int, title string) *App {
	return app.UseRenderer(RendererWGPU, WGPUModule{}, width, height, title)
}

// UseDefaultRenderer picks the platform renderer: WebGPU in a GLFW
// window on native builds, WebGL2 on a canvas under js/wasm.
func (app *App) UseDefaultRenderer(width, height int, title string) *App {
	return app.UseWGPU(width, height, title)
}
