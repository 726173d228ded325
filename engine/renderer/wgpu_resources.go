package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := p.PipelineKey()
	if !b.configured {
		return fmt.Errorf("pipeline %s: %w", key, errNotConfigured)
	}

	prog := &program{}
	defer func() {
		if err != nil {
			prog.release()
		}
	}()

	vertex := p.Shader(shader.ShaderTypeVertex)
	fragment := p.Shader(shader.ShaderTypeFragment)
	for _, s := range []shader.Shader{vertex, fragment} {
		module, compileErr := b.device.CreateShaderModule(s.Module())
		if compileErr != nil {
			return fmt.Errorf("pipeline %s: compiling %s: %w", key, s.Key(), compileErr)
		}
		prog.modules = append(prog.modules, module)
	}

	// Groups may be sparse; the pipeline layout wants a slot for every index up to the highest.
	descriptors := p.BindGroupLayoutDescriptors()
	groups := p.Groups()
	if len(groups) > 0 {
		prog.groups = make([]*wgpu.BindGroupLayout, groups[len(groups)-1]+1)
	}
	for _, g := range groups {
		desc := descriptors[g]
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("pipeline %s: group %d layout: %w", key, g, layoutErr)
		}
		prog.groups[g] = layout
	}

	if prog.layout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            key,
		BindGroupLayouts: prog.groups,
	}); err != nil {
		return fmt.Errorf("pipeline %s: layout: %w", key, err)
	}

	state := p.State()
	depthCompare := wgpu.CompareFunctionLess
	if !state.DepthTest {
		depthCompare = wgpu.CompareFunctionAlways
	}
	keep := wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways}

	if prog.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  key,
		Layout: prog.layout,
		Vertex: wgpu.VertexState{
			Module:     prog.modules[0],
			EntryPoint: vertex.EntryPoint(),
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     prog.modules[1],
			EntryPoint: fragment.EntryPoint(),
			Targets: []wgpu.ColorTargetState{{
				Format:    b.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  state.Topology,
			FrontFace: state.FrontFace,
			CullMode:  state.CullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: state.DepthWrite,
			DepthCompare:      depthCompare,
			StencilFront:      keep,
			StencilBack:       keep,
		},
	}); err != nil {
		return fmt.Errorf("pipeline %s: link: %w", key, err)
	}

	p.SetRenderPipeline(prog.pipeline)
	b.programs = append(b.programs, prog)
	return nil
}

// createFilledBuffer creates a buffer of len(data) bytes and queues data into it.
func (b *wgpuRendererBackendImpl) createFilledBuffer(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var vertices, indices *wgpu.Buffer
	var err error
	if len(vertexData) > 0 {
		if vertices, err = b.createFilledBuffer(provider.Label()+" vertices", wgpu.BufferUsageVertex, vertexData); err != nil {
			return err
		}
	}
	if len(indexData) > 0 {
		if indices, err = b.createFilledBuffer(provider.Label()+" indices", wgpu.BufferUsageIndex, indexData); err != nil {
			if vertices != nil {
				vertices.Release()
			}
			return err
		}
	}
	provider.SetMesh(vertices, indices, indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		if layout, err = b.device.CreateBindGroupLayout(&descriptor); err != nil {
			return fmt.Errorf("%s layout: %w", provider.Label(), err)
		}
		provider.SetBindGroupLayout(layout)
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(descriptor.Entries))
	for _, e := range descriptor.Entries {
		entry, err := b.bindGroupEntry(provider, e)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	group, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label(),
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("%s bind group: %w", provider.Label(), err)
	}
	provider.SetBindGroup(group)
	return nil
}

// bindGroupEntry resolves one layout entry against the provider's resources, creating a
// uniform buffer of the layout's minimum size when none exists yet.
func (b *wgpuRendererBackendImpl) bindGroupEntry(provider bind_group_provider.BindGroupProvider, e wgpu.BindGroupLayoutEntry) (wgpu.BindGroupEntry, error) {
	binding := int(e.Binding)
	out := wgpu.BindGroupEntry{Binding: e.Binding}

	switch {
	case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
		if out.TextureView = provider.TextureView(binding); out.TextureView == nil {
			return out, fmt.Errorf("%s: texture binding %d has no view", provider.Label(), binding)
		}
	case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
		if out.Sampler = provider.Sampler(binding); out.Sampler == nil {
			return out, fmt.Errorf("%s: sampler binding %d has no sampler", provider.Label(), binding)
		}
	default:
		buf := provider.Buffer(binding)
		if buf == nil {
			usage := wgpu.BufferUsageUniform
			if e.Buffer.Type == wgpu.BufferBindingTypeReadOnlyStorage {
				usage = wgpu.BufferUsageStorage
			}
			var err error
			buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s binding %d", provider.Label(), binding),
				Size:  e.Buffer.MinBindingSize,
				Usage: usage | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return out, fmt.Errorf("%s: binding %d buffer: %w", provider.Label(), binding, err)
			}
			provider.SetBuffer(binding, buf)
		}
		out.Buffer = buf
		out.Size = wgpu.WholeSize
	}
	return out, nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if want := int(data.Width) * int(data.Height) * 4; want == 0 || len(data.Pixels) != want {
		return fmt.Errorf("%s: texture binding %d has %d bytes for %dx%d", provider.Label(), binding, len(data.Pixels), data.Width, data.Height)
	}

	format := wgpu.TextureFormatRGBA8UnormSrgb
	if data.Linear {
		format = wgpu.TextureFormatRGBA8Unorm
	}
	extent := wgpu.Extent3D{Width: data.Width, Height: data.Height, DepthOrArrayLayers: 1}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         fmt.Sprintf("%s texture %d", provider.Label(), binding),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          extent,
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return fmt.Errorf("%s: texture %d: %w", provider.Label(), binding, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll},
		data.Pixels,
		&wgpu.TextureDataLayout{BytesPerRow: data.Width * 4, RowsPerImage: data.Height},
		&extent,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("%s: texture %d view: %w", provider.Label(), binding, err)
	}
	// The view keeps the texture alive; releasing the view frees both.
	tex.Release()
	provider.SetTextureView(binding, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, s common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	sampler, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " sampler",
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
	})
	if err != nil {
		return fmt.Errorf("%s: sampler %d: %w", provider.Label(), binding, err)
	}
	provider.SetSampler(binding, sampler)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes bind_group_provider.Uploads) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}
}
