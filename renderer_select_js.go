//go:build js && wasm

package glint

// ensureCanvasResource guarantees a single shared canvasState exists.
// Context creation can fail (no WebGL2 in the browser); the error is
// reported, not panicked, so the app can keep running without drawing.
func ensureCanvasResource(app *App, width, height int, title string) (*canvasState, error) {
	if cs, ok := resourceOf[canvasState](app); ok {
		return cs, nil
	}

	if width <= 0 {
		width = 480
	}
	if height <= 0 {
		height = 480
	}

	cs, err := createCanvasState(width, height, title)
	if err != nil {
		return nil, err
	}

	app.addResources(cs)
	app.Logger().Infof("Created canvas (%dx%d) '%s'", width, height, title)
	return cs, nil
}

// UseRenderer installs a configured renderer module, enforcing renderer
// exclusivity and ensuring the shared canvas exists. Re-selecting the
// installed renderer is a no-op, its modules are not installed twice.
// When the browser refuses a webgl2 context the failure is shown in the
// DOM and logged; no renderer is registered and the app runs on.
func (app *App) UseRenderer(name RendererName, mod Renderer, width, height int, title string) *App {
	if _, err := ensureCanvasResource(app, width, height, title); err != nil {
		app.Logger().Errorf("WebGL2 initialization failed: %v", err)
		return app
	}

	if !ensureSingleRenderer(app, string(name)) {
		return app
	}

	app.Logger().Infof("Renderer selected: %s", name)
	return app.UseModules(mod)
}

// UseWebGL selects the WebGL2 renderer with default options.
func (app *App) UseWebGL(width, height int, title string) *App {
	return app.UseRenderer(RendererWebGL, WebGLModule{}, width, height, title)
}

// UseDefaultRenderer picks the platform renderer: WebGL2 on a canvas
// under js/wasm, WebGPU in a GLFW window on native builds.
func (app *App) UseDefaultRenderer(width, height int, title string) *App {
	return app.UseWebGL(width, height, title)
}
