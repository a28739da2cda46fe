//go:build !js

package glint

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/glint/shaders"
)

// WGPUModule renders MeshInstance entities through WebGPU into the
// shared GLFW window. DebugMode adds an FPS readout in the top-left
// corner of the frame.
type WGPUModule struct {
	ClearColor [4]float32 // zero value means the default dark gray
	DebugMode  bool
}

type wgpuMesh struct {
	positionBuf *wgpu.Buffer
	colorBuf    *wgpu.Buffer
	indexBuf    *wgpu.Buffer
	indexCount  uint32
}

// wgpuEntityDraw is the per-entity uniform buffer and its bind group.
// Each entity gets its own so one frame can draw many meshes without
// the writes clobbering each other.
type wgpuEntityDraw struct {
	uniformBuf *wgpu.Buffer
	bindGroup  *wgpu.BindGroup
}

func (draw *wgpuEntityDraw) release() {
	if draw.bindGroup != nil {
		draw.bindGroup.Release()
	}
	if draw.uniformBuf != nil {
		draw.uniformBuf.Release()
	}
}

type wgpuState struct {
	log Logger
	gpu *GpuState

	meshPipeline *wgpu.RenderPipeline
	meshes       map[AssetId]wgpuMesh
	draws        map[EntityId]*wgpuEntityDraw

	clear wgpu.Color
	debug bool

	overlay         *TextOverlay
	textPipeline    *wgpu.RenderPipeline
	textBindGroup   *wgpu.BindGroup
	textVertexBuf   *wgpu.Buffer
	textVertexCount uint32

	lastRenderTime float64
	frameCount     int
	fpsTime        float64
	fps            float64
}

func (mod WGPUModule) Install(app *App, cmd *Commands) {
	ws, ok := resourceOf[WindowState](app)
	if !ok {
		panic("WGPUModule requires a window; select the renderer through UseWGPU")
	}

	log := app.Logger()
	ensureAssetsResource(app)

	gpu, err := createGpuState(ws)
	if err != nil {
		panic(fmt.Errorf("WebGPU initialization failed: %w", err))
	}

	pipeline, err := gpu.createMeshPipeline()
	if err != nil {
		panic(fmt.Errorf("WebGPU initialization failed: %w", err))
	}

	clear := mod.ClearColor
	if clear == ([4]float32{}) {
		clear = [4]float32{0.1, 0.1, 0.1, 1.0}
	}

	rs := &wgpuState{
		log:          log,
		gpu:          gpu,
		meshPipeline: pipeline,
		meshes:       make(map[AssetId]wgpuMesh),
		draws:        make(map[EntityId]*wgpuEntityDraw),
		clear: wgpu.Color{
			R: float64(clear[0]),
			G: float64(clear[1]),
			B: float64(clear[2]),
			A: float64(clear[3]),
		},
		debug:          mod.DebugMode,
		lastRenderTime: glfw.GetTime(),
	}

	if mod.DebugMode {
		if err := rs.setupTextOverlay(); err != nil {
			log.Errorf("Text overlay disabled: %v", err)
		}
	}

	log.Infof("WebGPU renderer ready (%dx%d)", ws.WindowWidth, ws.WindowHeight)

	cmd.AddResources(rs)
	app.UseSystem(System(wgpuRenderSystem).InStage(Render))
}

func wgpuRenderSystem(rs *wgpuState, ws *WindowState, t *Time, assets *Assets, cmd *Commands) {
	gpu := rs.gpu

	if ws.resized {
		ws.resized = false
		gpu.reconfigure(ws.WindowWidth, ws.WindowHeight)
	}

	// Uniform writes happen before the pass is recorded, draws after.
	type drawCall struct {
		mesh wgpuMesh
		draw *wgpuEntityDraw
	}
	var calls []drawCall
	var angle float32
	live := make(set[EntityId], len(rs.draws))
	MakeQuery2[Spin, MeshInstance](cmd).Map(func(eid EntityId, spin *Spin, inst *MeshInstance) bool {
		live[eid] = struct{}{}
		mesh, ok := rs.ensureMesh(assets, inst.Mesh)
		if !ok {
			return true
		}
		draw, ok := rs.ensureEntityDraw(eid)
		if !ok {
			return true
		}

		angle = spin.Angle
		model := mgl32.HomogRotate3DY(spin.Angle)
		_ = gpu.queue.WriteBuffer(draw.uniformBuf, 0, wgpu.ToBytes(model[:]))

		calls = append(calls, drawCall{mesh: mesh, draw: draw})
		return true
	})
	rs.sweepDraws(live)

	rs.updateOverlay(ws)

	nextTexture, err := gpu.surface.GetCurrentTexture()
	if err != nil {
		rs.log.Errorf("Acquire next texture: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		rs.log.Errorf("Create texture view: %v", err)
		return
	}
	defer view.Release()

	encoder, err := gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		rs.log.Errorf("Create command encoder: %v", err)
		return
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: rs.clear,
		}},
	})
	defer renderPass.Release()

	renderPass.SetPipeline(rs.meshPipeline)
	for _, call := range calls {
		renderPass.SetBindGroup(0, call.draw.bindGroup, nil)
		renderPass.SetVertexBuffer(0, call.mesh.positionBuf, 0, wgpu.WholeSize)
		renderPass.SetVertexBuffer(1, call.mesh.colorBuf, 0, wgpu.WholeSize)
		renderPass.SetIndexBuffer(call.mesh.indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(call.mesh.indexCount, 1, 0, 0, 0)
	}

	if rs.debug && rs.textPipeline != nil && rs.textVertexCount > 0 {
		renderPass.SetPipeline(rs.textPipeline)
		renderPass.SetBindGroup(0, rs.textBindGroup, nil)
		renderPass.SetVertexBuffer(0, rs.textVertexBuf, 0, wgpu.WholeSize)
		renderPass.Draw(rs.textVertexCount, 1, 0, 0)
	}

	if err := renderPass.End(); err != nil {
		rs.log.Errorf("Render pass: %v", err)
		return
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		rs.log.Errorf("Encode frame: %v", err)
		return
	}
	defer cmdBuffer.Release()

	gpu.queue.Submit(cmdBuffer)
	gpu.surface.Present()

	rs.accountFrame()

	if t.Frame%60 == 0 {
		rs.log.Debugf("Rendering frame %d, angle: %.2f", t.Frame, angle)
	}
}

// ensureMesh returns the GPU buffers for a mesh, uploading them on
// first sight.
func (rs *wgpuState) ensureMesh(assets *Assets, mesh Mesh) (wgpuMesh, bool) {
	if gpuMesh, ok := rs.meshes[mesh.Id()]; ok {
		return gpuMesh, true
	}

	data, ok := assets.GetMesh(mesh)
	if !ok {
		return wgpuMesh{}, false
	}

	device := rs.gpu.device
	positionBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Positions",
		Contents: wgpu.ToBytes(data.Positions),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		rs.log.Errorf("Mesh position buffer: %v", err)
		return wgpuMesh{}, false
	}

	colorBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Colors",
		Contents: wgpu.ToBytes(data.Colors),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		positionBuf.Release()
		rs.log.Errorf("Mesh color buffer: %v", err)
		return wgpuMesh{}, false
	}

	indexBuf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Mesh Indices",
		Contents: wgpu.ToBytes(data.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		positionBuf.Release()
		colorBuf.Release()
		rs.log.Errorf("Mesh index buffer: %v", err)
		return wgpuMesh{}, false
	}

	gpuMesh := wgpuMesh{
		positionBuf: positionBuf,
		colorBuf:    colorBuf,
		indexBuf:    indexBuf,
		indexCount:  uint32(len(data.Indices)),
	}
	rs.meshes[mesh.Id()] = gpuMesh
	rs.log.Infof("Uploaded mesh %s (%d indices)", mesh.Id(), gpuMesh.indexCount)
	return gpuMesh, true
}

func (rs *wgpuState) ensureEntityDraw(eid EntityId) (*wgpuEntityDraw, bool) {
	if draw, ok := rs.draws[eid]; ok {
		return draw, true
	}

	model := mgl32.Ident4()
	uniformBuf, err := rs.gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Model Uniform",
		Contents: wgpu.ToBytes(model[:]),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		rs.log.Errorf("Uniform buffer: %v", err)
		return nil, false
	}

	bindGroup, err := rs.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: rs.meshPipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniformBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		uniformBuf.Release()
		rs.log.Errorf("Uniform bind group: %v", err)
		return nil, false
	}

	draw := &wgpuEntityDraw{uniformBuf: uniformBuf, bindGroup: bindGroup}
	rs.draws[eid] = draw
	return draw, true
}

// sweepDraws releases per-entity GPU state for entities the render
// query no longer yields. Without it a despawn leaks the uniform buffer
// and bind group forever.
func (rs *wgpuState) sweepDraws(live set[EntityId]) {
	for eid, draw := range rs.draws {
		if _, ok := live[eid]; ok {
			continue
		}
		draw.release()
		delete(rs.draws, eid)
	}
}

func (rs *wgpuState) setupTextOverlay() error {
	overlay := NewTextOverlay()
	device := rs.gpu.device

	w := overlay.Atlas.Bounds().Dx()
	h := overlay.Atlas.Bounds().Dy()
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("atlas texture: %w", err)
	}

	rs.gpu.queue.WriteTexture(tex.AsImageCopy(), overlay.Atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(w),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	atlasView, err := tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("atlas view: %w", err)
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("atlas sampler: %w", err)
	}

	shaderMod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return fmt.Errorf("text shader: %w", err)
	}
	defer shaderMod.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: rs.gpu.surfaceConfig.Format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("text pipeline: %w", err)
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: atlasView},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		return fmt.Errorf("text bind group: %w", err)
	}

	rs.overlay = overlay
	rs.textPipeline = pipeline
	rs.textBindGroup = bindGroup
	return nil
}

// updateOverlay rebuilds the FPS readout geometry and pushes it into
// the text vertex buffer, growing the buffer when needed.
func (rs *wgpuState) updateOverlay(ws *WindowState) {
	if !rs.debug || rs.overlay == nil || rs.textPipeline == nil {
		return
	}

	items := []TextItem{{
		Text:     fmt.Sprintf("FPS: %.1f", rs.fps),
		Position: [2]float32{10, 10},
		Scale:    1,
		Color:    [4]float32{1, 1, 0, 1},
	}}
	vertices := rs.overlay.BuildVertices(items, ws.WindowWidth, ws.WindowHeight)
	if len(vertices) == 0 {
		rs.textVertexCount = 0
		return
	}

	vSize := uint64(len(vertices)) * uint64(unsafe.Sizeof(TextVertex{}))
	if rs.textVertexBuf == nil || rs.textVertexBuf.GetSize() < vSize {
		if rs.textVertexBuf != nil {
			rs.textVertexBuf.Release()
		}
		buf, err := rs.gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text VB",
			Size:  vSize,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			rs.log.Errorf("Text vertex buffer: %v", err)
			rs.textVertexCount = 0
			return
		}
		rs.textVertexBuf = buf
	}

	_ = rs.gpu.queue.WriteBuffer(rs.textVertexBuf, 0,
		unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), vSize))
	rs.textVertexCount = uint32(len(vertices))
}

func (rs *wgpuState) accountFrame() {
	now := glfw.GetTime()
	rs.frameCount++
	rs.fpsTime += now - rs.lastRenderTime
	rs.lastRenderTime = now

	if rs.fpsTime >= 1.0 {
		rs.fps = float64(rs.frameCount) / rs.fpsTime
		rs.frameCount = 0
		rs.fpsTime = 0
	}
}
