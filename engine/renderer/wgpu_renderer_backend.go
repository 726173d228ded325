package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// depthFormat is shared by the depth target and every pipeline's depth state.
const depthFormat = wgpu.TextureFormatDepth24Plus

// clearColor is the background of both viewports.
var clearColor = wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}

type wgpuBackendConfig struct {
	softwareAdapter bool
	presentMode     PresentMode
	sampleCount     MSAASampleCount
}

// attachment is a render target texture with its single view.
type attachment struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (a *attachment) release() {
	if a.view != nil {
		a.view.Release()
	}
	if a.texture != nil {
		a.texture.Release()
	}
	*a = attachment{}
}

// program is everything RegisterRenderPipeline created for one pipeline.
type program struct {
	modules  []*wgpu.ShaderModule
	groups   []*wgpu.BindGroupLayout
	layout   *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
}

func (p *program) release() {
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	if p.layout != nil {
		p.layout.Release()
	}
	for _, g := range p.groups {
		if g != nil {
			g.Release()
		}
	}
	for _, m := range p.modules {
		m.Release()
	}
}

// frame is the state between BeginFrame and Present.
type frame struct {
	surface *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
	pass    *wgpu.RenderPassEncoder
}

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	configured    bool
	width, height int

	msaa  attachment
	depth attachment

	programs []*program
	frame    frame
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain at width x height and rebuilds the
	// depth and MSAA targets. A zero dimension, as for a minimised window, is ignored.
	ConfigureSurface(width, height int)

	// SurfaceSize returns the configured size.
	SurfaceSize() (int, int)

	// RegisterRenderPipeline compiles both shader stages, builds the layouts and links the
	// render pipeline, storing it on p. The surface must be configured first.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers creates the vertex and index buffers of a mesh on provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the provider's layout, its missing uniform buffers and its bind group.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads staging pixels into a new texture and stores the view on provider.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates a sampler on provider.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, sampler common.SamplerStagingData) error

	// WriteBuffers queues the writes. Writes to a binding without a buffer are skipped.
	WriteBuffers(writes bind_group_provider.Uploads)

	BeginFrame() error
	SetViewport(x, y, width, height float32)

	// DrawIndexed encodes one indexed, single-instance draw into the open pass.
	DrawIndexed(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	EndFrame()
	Present()

	// Release drops the open frame, every program, the targets and the device.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, cfg wgpuBackendConfig) (wgpuRendererBackend, error) {
	// wgpu-native and GLFW both expect the thread that created the surface.
	runtime.LockOSThread()

	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: cfg.sampleCount,
	}
	if cfg.presentMode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.softwareAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.releaseInstance()
		return nil, fmt.Errorf("request adapter (software=%t): %w", cfg.softwareAdapter, err)
	}
	b.adapter = adapter

	// Four bind groups (camera, model, params, textures) fit the default limits.
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "earthsat device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: wgpu.DefaultLimits()},
	})
	if err != nil {
		b.releaseInstance()
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	return b, nil
}

func (b *wgpuRendererBackendImpl) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 || b.device == nil {
		return
	}

	if !b.configured {
		caps := b.surface.GetCapabilities(b.adapter)
		b.surfaceFormat = caps.Formats[0]
		b.alphaMode = caps.AlphaModes[0]
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.configured = true
	b.width, b.height = width, height

	b.msaa.release()
	b.depth.release()
	if b.sampleCount > MSAAOff {
		b.msaa = b.createAttachment("msaa target", b.surfaceFormat)
	}
	b.depth = b.createAttachment("depth target", depthFormat)
}

// createAttachment allocates a surface-sized render target at the configured sample count.
// Allocation failure here means the device is lost, which the renderer cannot recover from.
func (b *wgpuRendererBackendImpl) createAttachment(label string, format wgpu.TextureFormat) attachment {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(b.width),
			Height:             uint32(b.height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   uint32(b.sampleCount),
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Errorf("%s: %w", label, err))
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		panic(fmt.Errorf("%s view: %w", label, err))
	}
	return attachment{texture: tex, view: view}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return
	}
	b.dropFrame()
	for _, p := range b.programs {
		p.release()
	}
	b.programs = nil
	b.msaa.release()
	b.depth.release()

	b.queue.Release()
	b.device.Release()
	b.device, b.queue = nil, nil
	b.releaseInstance()
}

// releaseInstance frees the adapter, surface and instance, whichever exist.
func (b *wgpuRendererBackendImpl) releaseInstance() {
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
