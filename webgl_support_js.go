//go:build js && wasm

package glint

import (
	"fmt"
	"strings"
	"syscall/js"
	"unsafe"
)

// glConsts caches the WebGL enum values the renderer needs; reading
// them once beats a js property lookup per call.
type glConsts struct {
	arrayBuffer        int
	elementArrayBuffer int
	staticDraw         int
	floatType          int
	triangles          int
	unsignedShort      int
	colorBufferBit     int
	depthTest          int
	cullFace           int
	compileStatus      int
	linkStatus         int
	vertexShader       int
	fragmentShader     int
	noError            int
}

func loadGLConsts(gl js.Value) glConsts {
	return glConsts{
		arrayBuffer:        gl.Get("ARRAY_BUFFER").Int(),
		elementArrayBuffer: gl.Get("ELEMENT_ARRAY_BUFFER").Int(),
		staticDraw:         gl.Get("STATIC_DRAW").Int(),
		floatType:          gl.Get("FLOAT").Int(),
		triangles:          gl.Get("TRIANGLES").Int(),
		unsignedShort:      gl.Get("UNSIGNED_SHORT").Int(),
		colorBufferBit:     gl.Get("COLOR_BUFFER_BIT").Int(),
		depthTest:          gl.Get("DEPTH_TEST").Int(),
		cullFace:           gl.Get("CULL_FACE").Int(),
		compileStatus:      gl.Get("COMPILE_STATUS").Int(),
		linkStatus:         gl.Get("LINK_STATUS").Int(),
		vertexShader:       gl.Get("VERTEX_SHADER").Int(),
		fragmentShader:     gl.Get("FRAGMENT_SHADER").Int(),
		noError:            gl.Get("NO_ERROR").Int(),
	}
}

func compileShader(gl js.Value, consts glConsts, shaderType int, source string) (js.Value, error) {
	shader := gl.Call("createShader", shaderType)
	gl.Call("shaderSource", shader, source)
	gl.Call("compileShader", shader)

	if !gl.Call("getShaderParameter", shader, consts.compileStatus).Bool() {
		infoLog := strings.TrimSpace(gl.Call("getShaderInfoLog", shader).String())
		gl.Call("deleteShader", shader)
		return js.Null(), fmt.Errorf("shader compile error: %s", infoLog)
	}
	return shader, nil
}

func linkProgram(gl js.Value, consts glConsts, vertexSource, fragmentSource string) (js.Value, error) {
	vertexShader, err := compileShader(gl, consts, consts.vertexShader, vertexSource)
	if err != nil {
		return js.Null(), fmt.Errorf("vertex: %w", err)
	}
	fragmentShader, err := compileShader(gl, consts, consts.fragmentShader, fragmentSource)
	if err != nil {
		gl.Call("deleteShader", vertexShader)
		return js.Null(), fmt.Errorf("fragment: %w", err)
	}

	program := gl.Call("createProgram")
	gl.Call("attachShader", program, vertexShader)
	gl.Call("attachShader", program, fragmentShader)
	gl.Call("linkProgram", program)

	// Shaders can be flagged for deletion once linked in.
	gl.Call("deleteShader", vertexShader)
	gl.Call("deleteShader", fragmentShader)

	if !gl.Call("getProgramParameter", program, consts.linkStatus).Bool() {
		infoLog := strings.TrimSpace(gl.Call("getProgramInfoLog", program).String())
		return js.Null(), fmt.Errorf("program link error: %s", infoLog)
	}
	return program, nil
}

// float32Array copies data into a new JS Float32Array.
func float32Array(data []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(data))
	if len(data) == 0 {
		return arr
	}
	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), arr.Get("byteLength"))
	js.CopyBytesToJS(view, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4))
	return arr
}

// uint16Array copies data into a new JS Uint16Array.
func uint16Array(data []uint16) js.Value {
	arr := js.Global().Get("Uint16Array").New(len(data))
	if len(data) == 0 {
		return arr
	}
	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), arr.Get("byteLength"))
	js.CopyBytesToJS(view, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2))
	return arr
}
