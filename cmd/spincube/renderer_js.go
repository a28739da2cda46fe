//go:build js && wasm

package main

import "github.com/gekko3d/glint"

func selectRenderer(app *glint.App, debug bool) {
	app.UseWebGL(480, 480, "Spinning Cube")
}
