//go:build js && wasm

package glint

import (
	"errors"
	"fmt"
	"syscall/js"
)

const canvasElementId = "webgl-canvas"

// canvasState owns the DOM canvas and its WebGL2 context. It plays the
// WindowState role on the web target.
type canvasState struct {
	canvas js.Value
	gl     js.Value
	consts glConsts
	width  int
	height int
}

// createCanvasState finds or creates the page canvas and acquires a
// WebGL2 context on it. A null context means the browser has no WebGL2
// support; that is surfaced in the DOM and returned as an error.
func createCanvasState(width, height int, title string) (*canvasState, error) {
	doc := js.Global().Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return nil, errors.New("no DOM document available")
	}
	if title != "" {
		doc.Set("title", title)
	}

	canvas := doc.Call("getElementById", canvasElementId)
	if canvas.IsNull() || canvas.IsUndefined() {
		// Served pages ship the canvas in markup; create one only when
		// the wasm binary landed on a bare page.
		canvas = doc.Call("createElement", "canvas")
		canvas.Set("id", canvasElementId)
		canvas.Call("setAttribute", "style", "border: 2px solid #333; background: #222;")
		doc.Get("body").Call("appendChild", canvas)
	}
	canvas.Set("width", width)
	canvas.Set("height", height)

	gl := canvas.Call("getContext", "webgl2")
	if gl.IsNull() || gl.IsUndefined() {
		showWebGLError("WebGL2 is not available in this browser")
		return nil, errors.New(`canvas.getContext("webgl2") returned null`)
	}

	cs := &canvasState{
		canvas: canvas,
		gl:     gl,
		consts: loadGLConsts(gl),
		width:  width,
		height: height,
	}

	gl.Call("viewport", 0, 0, width, height)
	// Depth test and culling stay off so the sample geometry is always
	// visible regardless of winding.
	gl.Call("disable", cs.consts.depthTest)
	gl.Call("disable", cs.consts.cullFace)

	return cs, nil
}

// showWebGLError swaps the canvas for a visible error banner so context
// failures do not die silently in the console.
func showWebGLError(msg string) {
	doc := js.Global().Get("document")
	if doc.IsUndefined() || doc.IsNull() {
		return
	}

	banner := doc.Call("createElement", "div")
	banner.Call("setAttribute", "style",
		"color: #b00020; background: #fff; border: 2px solid #b00020; "+
			"padding: 24px; font: 16px sans-serif; max-width: 480px;")
	banner.Set("textContent", fmt.Sprintf("Failed to initialize WebGL2: %s", msg))

	canvas := doc.Call("getElementById", canvasElementId)
	if !canvas.IsNull() && !canvas.IsUndefined() {
		canvas.Get("style").Set("display", "none")
		canvas.Get("parentNode").Call("insertBefore", banner, canvas)
		return
	}
	doc.Get("body").Call("appendChild", banner)
}
