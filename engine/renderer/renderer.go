package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-earth/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type renderer struct {
	mu sync.Mutex

	// pipelines holds every registered program by key.
	pipelines map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// config is filled by the options before the adapter is requested.
	config wgpuBackendConfig
}

// Renderer owns the GPU device and the window surface.
//
// Resources are created once with the Init* methods and stored on BindGroupProviders. A frame is
// BeginFrame, one SetViewport followed by Draw calls per viewport, then EndFrame and Present.
type Renderer interface {
	// RegisterPipelines compiles each pipeline and keeps it under its PipelineKey.
	// A key that is already registered is left untouched.
	//
	// Parameters:
	//   - pipelines: the programs to compile
	//
	// Returns:
	//   - error: the first compile or link error, wrapped with the pipeline key
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// SurfaceSize returns the size the surface was last configured with.
	SurfaceSize() (int, int)

	// Resize reconfigures the surface and recreates the depth and MSAA targets.
	// A zero dimension keeps the previous configuration.
	Resize(width, height int)

	// InitMesh uploads vertex and index data into new buffers stored on provider.
	//
	// Parameters:
	//   - provider: receives the buffers and index count
	//   - vertexData: packed vertices
	//   - indexData: packed indices, length a multiple of 4
	//   - indexCount: the number of indices drawn
	//
	// Returns:
	//   - error: a buffer creation error
	InitMesh(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the group's layout, any missing uniform buffers and the bind group.
	// Texture and sampler bindings must be staged with InitTexture and InitSampler first.
	//
	// Parameters:
	//   - provider: the owner of the group's resources
	//   - descriptor: the merged layout of the group
	//
	// Returns:
	//   - error: a missing texture or sampler, or a creation error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTexture uploads decoded RGBA8 pixels and stores the view on provider at binding.
	// Linear data is stored as RGBA8Unorm, colour data as RGBA8UnormSrgb.
	InitTexture(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates a sampler and stores it on provider at binding. Zero fields use
	// repeat addressing and linear filtering.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, sampler common.SamplerStagingData) error

	// WriteBuffers queues the uploads. They land before the next submitted pass executes.
	WriteBuffers(writes bind_group_provider.Uploads)

	// BeginFrame acquires the next surface texture and opens the render pass with a single clear.
	//
	// Returns:
	//   - error: the surface is not configured, a frame is already open, or acquisition failed
	BeginFrame() error

	// SetViewport restricts the following draws to a rectangle of the surface, origin top-left.
	SetViewport(x, y, width, height float32)

	// Draw encodes one indexed draw of mesh with the registered pipeline.
	//
	// Parameters:
	//   - pipelineKey: the key given at registration
	//   - mesh: the provider holding vertex and index buffers
	//   - bindGroups: providers indexed by group, nil entries are skipped
	//
	// Returns:
	//   - error: the pipeline is not registered
	Draw(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame closes the render pass and submits it.
	EndFrame()

	// Present shows the submitted frame and returns the surface texture.
	Present()

	// Release frees the pipelines, targets, device and surface. Safe to call twice.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer opens a device for the window surface and configures the surface at the
// window size.
//
// Parameters:
//   - backendType: BackendTypeWGPU
//   - window: provides the surface descriptor and initial size
//   - options: present mode, MSAA and adapter selection
//
// Returns:
//   - Renderer: the renderer
//   - error: an unknown backend, or no adapter or device
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		pipelines:   make(map[string]pipeline.Pipeline),
		backendType: backendType,
		config:      wgpuBackendConfig{presentMode: PresentModeVSync, sampleCount: MSAA4x},
	}
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		r.backend, err = newWGPURendererBackend(window.SurfaceDescriptor(), r.config)
	default:
		err = fmt.Errorf("unknown backend type %d", backendType)
	}
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r, nil
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, ok := r.pipelines[key]; ok {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register %s: %w", key, err)
		}
		r.pipelines[key] = p
	}
	return nil
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) InitMesh(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) InitTexture(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, binding, data)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, sampler common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, binding, sampler)
}

func (r *renderer) WriteBuffers(writes bind_group_provider.Uploads) {
	if len(writes) == 0 {
		return
	}
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) SetViewport(x, y, width, height float32) {
	r.backend.SetViewport(x, y, width, height)
}

func (r *renderer) Draw(pipelineKey string, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, ok := r.pipelines[pipelineKey]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("draw: pipeline %q is not registered", pipelineKey)
	}
	r.backend.DrawIndexed(p, mesh, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backend == nil {
		return
	}
	r.backend.Release()
	r.backend = nil
	clear(r.pipelines)
}
