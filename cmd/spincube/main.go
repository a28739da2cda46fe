// spincube renders a rotating vertex-colored cube. On native builds it
// opens a GLFW window and draws through WebGPU; compiled for js/wasm it
// draws on the page canvas through WebGL2.
package main

import (
	"flag"

	"github.com/gekko3d/glint"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and the FPS overlay")
	flag.Parse()

	app := glint.NewAppBuilder().
		UseModules(
			glint.LoggingModule{Prefix: "spincube", Debug: *debug},
			glint.TimeModule{},
			glint.SpinCubeModule{},
		).
		Build()

	selectRenderer(app, *debug)

	app.Run()
}
