// Package bind_group_provider holds the GPU objects created on behalf of one bind group or one
// mesh, so scene objects can own their resources without touching the device.
package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// slot is what is bound at one binding index. Exactly one field is set.
type slot struct {
	buffer  *wgpu.Buffer
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

func (s slot) release() {
	switch {
	case s.buffer != nil:
		s.buffer.Release()
	case s.view != nil:
		s.view.Release()
	case s.sampler != nil:
		s.sampler.Release()
	}
}

type bindGroupProvider struct {
	label string

	group  *wgpu.BindGroup
	layout *wgpu.BindGroupLayout
	slots  map[int]slot

	vertices    *wgpu.Buffer
	indices     *wgpu.Buffer
	indexCount  int
	indexFormat wgpu.IndexFormat
}

// BindGroupProvider owns the GPU objects behind a bind group, or behind a mesh's vertex and index
// buffers. The Renderer creates the objects and stores them here; Release frees them.
//
// Replacing an object through a setter releases the one it replaces.
type BindGroupProvider interface {
	// Label names the provider and the GPU objects created for it.
	Label() string

	// BindGroup is nil until InitBindGroup ran.
	BindGroup() *wgpu.BindGroup
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer, TextureView and Sampler return nil for a binding that holds something else or nothing.
	Buffer(binding int) *wgpu.Buffer
	TextureView(binding int) *wgpu.TextureView
	Sampler(binding int) *wgpu.Sampler

	VertexBuffer() *wgpu.Buffer
	IndexBuffer() *wgpu.Buffer
	IndexCount() int

	// IndexFormat is Uint32 unless WithIndexFormat chose otherwise.
	IndexFormat() wgpu.IndexFormat

	SetBindGroup(group *wgpu.BindGroup)
	SetBindGroupLayout(layout *wgpu.BindGroupLayout)
	SetBuffer(binding int, buf *wgpu.Buffer)
	SetTextureView(binding int, view *wgpu.TextureView)
	SetSampler(binding int, sampler *wgpu.Sampler)

	// SetMesh stores the vertex and index buffers and the number of indices to draw.
	// A nil buffer leaves the current one in place.
	SetMesh(vertices, indices *wgpu.Buffer, indexCount int)

	// Release frees everything. The provider may be filled again afterwards.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: the debug label
//   - options: WithIndexFormat for mesh providers
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:       label,
		slots:       make(map[int]slot),
		indexFormat: wgpu.IndexFormatUint32,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.group
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.layout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.slots[binding].buffer
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.slots[binding].view
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	return p.slots[binding].sampler
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertices
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indices
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) IndexFormat() wgpu.IndexFormat {
	return p.indexFormat
}

func (p *bindGroupProvider) SetBindGroup(group *wgpu.BindGroup) {
	if p.group != nil && p.group != group {
		p.group.Release()
	}
	p.group = group
}

func (p *bindGroupProvider) SetBindGroupLayout(layout *wgpu.BindGroupLayout) {
	if p.layout != nil && p.layout != layout {
		p.layout.Release()
	}
	p.layout = layout
}

func (p *bindGroupProvider) put(binding int, s slot) {
	if old, ok := p.slots[binding]; ok && old != s {
		old.release()
	}
	p.slots[binding] = s
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.put(binding, slot{buffer: buf})
}

func (p *bindGroupProvider) SetTextureView(binding int, view *wgpu.TextureView) {
	p.put(binding, slot{view: view})
}

func (p *bindGroupProvider) SetSampler(binding int, sampler *wgpu.Sampler) {
	p.put(binding, slot{sampler: sampler})
}

func (p *bindGroupProvider) SetMesh(vertices, indices *wgpu.Buffer, indexCount int) {
	if vertices != nil {
		if p.vertices != nil && p.vertices != vertices {
			p.vertices.Release()
		}
		p.vertices = vertices
	}
	if indices != nil {
		if p.indices != nil && p.indices != indices {
			p.indices.Release()
		}
		p.indices = indices
	}
	p.indexCount = indexCount
}

func (p *bindGroupProvider) Release() {
	// The group references the slots, so it goes first.
	if p.group != nil {
		p.group.Release()
		p.group = nil
	}
	for binding, s := range p.slots {
		s.release()
		delete(p.slots, binding)
	}
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	for _, buf := range []*wgpu.Buffer{p.vertices, p.indices} {
		if buf != nil {
			buf.Release()
		}
	}
	p.vertices, p.indices, p.indexCount = nil, nil, 0
}
