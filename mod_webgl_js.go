//go:build js && wasm

package glint

import (
	"fmt"
	"syscall/js"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/glint/shaders"
)

// WebGLModule renders MeshInstance entities on the shared canvas with
// the fixed vertex-color pipeline. GPU buffers are uploaded lazily the
// first time a mesh is seen.
type WebGLModule struct {
	ClearColor [4]float32 // zero value means the default dark gray
}

type webglMesh struct {
	vao        js.Value
	indexCount int
}

type webglState struct {
	log    Logger
	gl     js.Value
	consts glConsts

	program   js.Value
	uModel    js.Value
	attrPos   int
	attrColor int

	clear  [4]float32
	meshes map[AssetId]webglMesh

	// disabled is set when the pipeline failed to build; frames then
	// become no-ops instead of spamming GL errors.
	disabled bool
}

func (mod WebGLModule) Install(app *App, cmd *Commands) {
	cs, ok := resourceOf[canvasState](app)
	if !ok {
		panic("WebGLModule requires a canvas; select it through UseWebGL")
	}

	log := app.Logger()
	ensureAssetsResource(app)

	clear := mod.ClearColor
	if clear == ([4]float32{}) {
		clear = [4]float32{0.1, 0.1, 0.1, 1.0}
	}

	rs := &webglState{
		log:    log,
		gl:     cs.gl,
		consts: cs.consts,
		clear:  clear,
		meshes: make(map[AssetId]webglMesh),
	}

	program, err := linkProgram(cs.gl, cs.consts, shaders.CubeVertexGLSL, shaders.CubeFragmentGLSL)
	if err != nil {
		log.Errorf("Shader program build failed: %v", err)
		showWebGLError(fmt.Sprintf("shader program build failed: %v", err))
		rs.disabled = true
	} else {
		rs.program = program
		rs.uModel = cs.gl.Call("getUniformLocation", program, "modelViewMatrix")
		rs.attrPos = cs.gl.Call("getAttribLocation", program, "position").Int()
		rs.attrColor = cs.gl.Call("getAttribLocation", program, "color").Int()

		if rs.attrPos < 0 || rs.attrColor < 0 {
			log.Errorf("Shader attribute locations missing: position=%d color=%d", rs.attrPos, rs.attrColor)
			rs.disabled = true
		} else {
			cs.gl.Call("useProgram", program)
			log.Infof("Shaders compiled and program linked")
		}
	}

	cmd.AddResources(rs)
	app.UseSystem(System(webglRenderSystem).InStage(Render))
}

func webglRenderSystem(rs *webglState, t *Time, assets *Assets, cmd *Commands) {
	if rs.disabled {
		return
	}
	gl := rs.gl

	gl.Call("clearColor", rs.clear[0], rs.clear[1], rs.clear[2], rs.clear[3])
	gl.Call("clear", rs.consts.colorBufferBit)

	var angle float32
	MakeQuery2[Spin, MeshInstance](cmd).Map(func(_ EntityId, spin *Spin, inst *MeshInstance) bool {
		mesh, ok := rs.ensureMesh(assets, inst.Mesh)
		if !ok {
			return true
		}

		angle = spin.Angle
		model := mgl32.HomogRotate3DY(spin.Angle)
		gl.Call("uniformMatrix4fv", rs.uModel, false, float32Array(model[:]))

		gl.Call("bindVertexArray", mesh.vao)
		gl.Call("drawElements", rs.consts.triangles, mesh.indexCount, rs.consts.unsignedShort, 0)
		gl.Call("bindVertexArray", js.Null())
		return true
	})

	if code := gl.Call("getError").Int(); code != rs.consts.noError {
		rs.log.Errorf("WebGL error: %d", code)
	}

	if t.Frame%60 == 0 {
		rs.log.Debugf("Rendering frame %d, angle: %.2f", t.Frame, angle)
	}
}

// ensureMesh returns the GPU resources for a mesh, uploading them on
// first sight. The index buffer binding is VAO state in WebGL2, so the
// whole mesh reduces to one VAO plus an index count.
func (rs *webglState) ensureMesh(assets *Assets, mesh Mesh) (webglMesh, bool) {
	if gpu, ok := rs.meshes[mesh.Id()]; ok {
		return gpu, true
	}

	data, ok := assets.GetMesh(mesh)
	if !ok {
		return webglMesh{}, false
	}

	gl := rs.gl
	c := rs.consts

	vao := gl.Call("createVertexArray")
	gl.Call("bindVertexArray", vao)

	posBuffer := gl.Call("createBuffer")
	gl.Call("bindBuffer", c.arrayBuffer, posBuffer)
	gl.Call("bufferData", c.arrayBuffer, float32Array(data.Positions), c.staticDraw)
	gl.Call("enableVertexAttribArray", rs.attrPos)
	gl.Call("vertexAttribPointer", rs.attrPos, 3, c.floatType, false, 0, 0)

	colorBuffer := gl.Call("createBuffer")
	gl.Call("bindBuffer", c.arrayBuffer, colorBuffer)
	gl.Call("bufferData", c.arrayBuffer, float32Array(data.Colors), c.staticDraw)
	gl.Call("enableVertexAttribArray", rs.attrColor)
	gl.Call("vertexAttribPointer", rs.attrColor, 3, c.floatType, false, 0, 0)

	indexBuffer := gl.Call("createBuffer")
	gl.Call("bindBuffer", c.elementArrayBuffer, indexBuffer)
	gl.Call("bufferData", c.elementArrayBuffer, uint16Array(data.Indices), c.staticDraw)

	gl.Call("bindVertexArray", js.Null())

	gpu := webglMesh{vao: vao, indexCount: len(data.Indices)}
	rs.meshes[mesh.Id()] = gpu
	rs.log.Infof("Uploaded mesh %s (%d indices)", mesh.Id(), gpu.indexCount)
	return gpu, true
}
