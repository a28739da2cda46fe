//go:build !js

package main

import "github.com/gekko3d/glint"

func selectRenderer(app *glint.App, debug bool) {
	app.UseRenderer(glint.RendererWGPU, glint.WGPUModule{DebugMode: debug}, 480, 480, "Spinning Cube")
}
