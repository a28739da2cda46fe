//go:build !js

package glint

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"

	"github.com/gekko3d/glint/shaders"
)

// GpuState holds the WebGPU objects shared by every render pass over
// the window surface.
type GpuState struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceConfig *wgpu.SurfaceConfiguration
}

func createGpuState(ws *WindowState) (*GpuState, error) {
	instance := wgpu.CreateInstance(nil)

	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(ws.windowGlfw))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)

	surfaceConfig := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(ws.WindowWidth),
		Height:      uint32(ws.WindowHeight),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, surfaceConfig)

	return &GpuState{
		instance:      instance,
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: surfaceConfig,
	}, nil
}

// reconfigure resizes the swapchain after a framebuffer size change.
func (gpu *GpuState) reconfigure(width int, height int) {
	gpu.surfaceConfig.Width = uint32(width)
	gpu.surfaceConfig.Height = uint32(height)
	gpu.surface.Configure(gpu.adapter, gpu.device, gpu.surfaceConfig)
}

// createMeshPipeline builds the colored-mesh pipeline: two tightly
// packed float3 vertex streams (positions at location 0, colors at
// location 1) and a single mat4 uniform at group 0 binding 0.
func (gpu *GpuState) createMeshPipeline() (*wgpu.RenderPipeline, error) {
	shaderMod, err := gpu.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Mesh Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.CubeWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	defer shaderMod.Release()

	pipeline, err := gpu.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Mesh Pipeline",
		Vertex: wgpu.VertexState{
			Module:     shaderMod,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 3 * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					},
				},
				{
					ArrayStride: 3 * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderMod,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    gpu.surfaceConfig.Format,
				Blend:     nil,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
			// the GL path renders with culling off as well
			CullMode: wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mesh pipeline: %w", err)
	}

	return pipeline, nil
}
