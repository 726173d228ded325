package pipeline

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrMissingShader is returned when a pipeline is built without both stages.
	ErrMissingShader = errors.New("pipeline: vertex and fragment shaders are required")

	// ErrVertexLayout is returned when a mesh stride does not match the vertex input the program expects.
	ErrVertexLayout = errors.New("pipeline: vertex layout mismatch")
)

type pipeline struct {
	key string

	// stages is indexed by shader.ShaderType.
	stages [2]shader.Shader

	// layouts unions both stages per group, so bind groups and the pipeline layout agree.
	layouts map[int]wgpu.BindGroupLayoutDescriptor

	renderPipeline *wgpu.RenderPipeline

	state State
}

// State is the fixed-function state a render pipeline is created with.
type State struct {
	Topology   wgpu.PrimitiveTopology
	CullMode   wgpu.CullMode
	FrontFace  wgpu.FrontFace
	DepthTest  bool
	DepthWrite bool
}

// DefaultState is depth tested, counter-clockwise triangles without culling.
var DefaultState = State{
	Topology:   wgpu.PrimitiveTopologyTriangleList,
	CullMode:   wgpu.CullModeNone,
	FrontFace:  wgpu.FrontFaceCCW,
	DepthTest:  true,
	DepthWrite: true,
}

// Pipeline defines the interface for a render pipeline: a vertex + fragment shader pair,
// the merged resource layout they share and the fixed-function state used at creation.
type Pipeline interface {
	// PipelineKey names the pipeline. Draw calls look pipelines up by it.
	PipelineKey() string

	// Shader returns the stage of the given type, or nil.
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayoutDescriptors returns the merged vertex and fragment layouts keyed by group.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Groups lists the declared groups in ascending order.
	Groups() []int

	// Declarations concatenates the @oxy declarations of the vertex and then the fragment stage.
	Declarations() []shader.Annotation

	// GroupFor finds the group owned by a provider identity such as shader.AnnotationArgCamera.
	GroupFor(identity shader.AnnotationArg) (int, bool)

	// BindingFor finds where a binding role such as shader.AnnotationArgMapTexture is bound.
	//
	// Returns:
	//   - int: the group
	//   - int: the binding
	//   - bool: false if neither stage declares the role
	BindingFor(role shader.AnnotationArg) (int, int, bool)

	// UniformLayout returns the uniform struct at group and binding from whichever stage
	// declares it.
	UniformLayout(group, binding int) (shader.UniformLayout, bool)

	VertexLayouts() []wgpu.VertexBufferLayout

	// CheckVertexStride returns ErrVertexLayout unless the program has exactly one vertex input
	// and its stride is stride.
	CheckVertexStride(stride uint64) error

	// RenderPipeline is nil until the renderer registers the pipeline.
	RenderPipeline() *wgpu.RenderPipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	State() State
}

var _ Pipeline = &pipeline{}

// NewPipeline describes a render pipeline. WithVertexShader and WithFragmentShader are required.
//
// Parameters:
//   - key: the pipeline key
//   - opts: the stages and fixed-function state
//
// Returns:
//   - Pipeline: the pipeline, not yet on the GPU
//   - error: ErrMissingShader if a stage is absent
func NewPipeline(key string, opts ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{key: key, state: DefaultState}
	for _, opt := range opts {
		opt(p)
	}
	vs, fs := p.stages[shader.ShaderTypeVertex], p.stages[shader.ShaderTypeFragment]
	if vs == nil || fs == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrMissingShader)
	}

	p.layouts = mergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	for g, desc := range p.layouts {
		desc.Label = fmt.Sprintf("%s_group_%d", key, g)
		p.layouts[g] = desc
	}
	return p, nil
}

func (p *pipeline) PipelineKey() string {
	return p.key
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	if shaderType < 0 || int(shaderType) >= len(p.stages) {
		return nil
	}
	return p.stages[shaderType]
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return p.layouts
}

func (p *pipeline) Groups() []int {
	return slices.Sorted(maps.Keys(p.layouts))
}

func (p *pipeline) Declarations() []shader.Annotation {
	var out []shader.Annotation
	for _, s := range p.stages {
		out = append(out, s.Declarations()...)
	}
	return out
}

func (p *pipeline) GroupFor(identity shader.AnnotationArg) (int, bool) {
	for _, d := range p.Declarations() {
		if d.Identity() == identity && d.Group != nil {
			return *d.Group, true
		}
	}
	return -1, false
}

func (p *pipeline) BindingFor(role shader.AnnotationArg) (int, int, bool) {
	for _, d := range p.Declarations() {
		if d.Role() == role && d.Group != nil && d.Binding != nil {
			return *d.Group, *d.Binding, true
		}
	}
	return -1, -1, false
}

func (p *pipeline) UniformLayout(group, binding int) (shader.UniformLayout, bool) {
	for _, s := range p.stages {
		if l, ok := s.UniformLayout(group, binding); ok {
			return l, true
		}
	}
	return shader.UniformLayout{}, false
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.stages[shader.ShaderTypeVertex].VertexLayouts()
}

func (p *pipeline) CheckVertexStride(stride uint64) error {
	layouts := p.VertexLayouts()
	switch {
	case len(layouts) != 1:
		return fmt.Errorf("%w: %s declares %d vertex inputs, want 1", ErrVertexLayout, p.key, len(layouts))
	case layouts[0].ArrayStride != stride:
		return fmt.Errorf("%w: %s expects a %d byte stride, mesh has %d", ErrVertexLayout, p.key, layouts[0].ArrayStride, stride)
	}
	return nil
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) State() State {
	return p.state
}

// mergeBindGroupLayouts unions the layouts of several stages. A binding seen more than once
// keeps one entry whose visibility is the OR of all and whose minimum size is the largest.
func mergeBindGroupLayouts(stages ...map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	byGroup := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	for _, layouts := range stages {
		for g, desc := range layouts {
			entries, ok := byGroup[g]
			if !ok {
				entries = make(map[uint32]wgpu.BindGroupLayoutEntry)
				byGroup[g] = entries
			}
			for _, e := range desc.Entries {
				if seen, ok := entries[e.Binding]; ok {
					e.Visibility |= seen.Visibility
					e.Buffer.MinBindingSize = max(e.Buffer.MinBindingSize, seen.Buffer.MinBindingSize)
				}
				entries[e.Binding] = e
			}
		}
	}

	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, len(byGroup))
	for g, entries := range byGroup {
		list := slices.Collect(maps.Values(entries))
		slices.SortFunc(list, func(a, b wgpu.BindGroupLayoutEntry) int {
			return cmp.Compare(a.Binding, b.Binding)
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{Entries: list}
	}
	return merged
}
