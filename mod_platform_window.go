//go:build !js

package glint

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the shared GLFW window. WebGPU renders into it
// directly, so GLFW is told to skip OpenGL context creation.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	// set by the framebuffer callback, consumed by the renderer
	resized bool
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	// GLFW event handling must stay on the main thread.
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	ws := &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}

	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		ws.WindowWidth = width
		ws.WindowHeight = height
		ws.resized = true
	})

	return ws
}

// WindowModule pumps GLFW events every frame and requests Quit once the
// window is closed. It expects the shared WindowState to exist already.
type WindowModule struct{}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	if _, ok := resourceOf[WindowState](app); !ok {
		panic("WindowModule requires a window; select a renderer through UseWGPU")
	}

	app.UseSystem(System(windowEventsSystem).InStage(Prelude))
}

func windowEventsSystem(ws *WindowState, cmd *Commands) {
	glfw.PollEvents()

	if ws.windowGlfw.ShouldClose() {
		cmd.Quit()
	}
}
