// Package shader loads WGSL stages, expands @oxy annotations, and reflects the layouts a
// pipeline needs: vertex buffers, bind groups and uniform struct offsets.
package shader

import (
	"errors"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType is the pipeline stage of a shader.
type ShaderType int

const (
	ShaderTypeVertex ShaderType = iota
	ShaderTypeFragment
)

// ErrNoEntryPoint is returned when the source has no @vertex or @fragment function for its stage.
var ErrNoEntryPoint = errors.New("shader: no entry point for stage")

type shader struct {
	key    string
	source string
	module *wgpu.ShaderModuleDescriptor

	entryPoint   string
	vertex       []wgpu.VertexBufferLayout
	groups       map[int]wgpu.BindGroupLayoutDescriptor
	names        map[int]map[int]string
	uniforms     map[int]map[int]UniformLayout
	declarations []Annotation
}

// Shader is one parsed WGSL stage.
type Shader interface {
	// Key is the label of the shader module.
	Key() string

	// Source is the WGSL after annotation expansion.
	Source() string

	EntryPoint() string
	Module() *wgpu.ShaderModuleDescriptor

	// VertexLayouts lists one buffer layout per vertex input struct, in source order.
	// Fragment shaders have none.
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors returns one descriptor per declared group. Entries are visible
	// to this stage only; the pipeline merges both stages.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// VarName returns the variable declared at group and binding, or "".
	VarName(group, binding int) string

	// Binding finds the binding of a variable within a group.
	//
	// Parameters:
	//   - group: the @group index
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - int: the binding, -1 when absent
	//   - bool: true if found
	Binding(group int, name string) (int, bool)

	// UniformLayout returns the struct layout of the var<uniform> at group and binding.
	//
	// Parameters:
	//   - group: the @group index
	//   - binding: the @binding index
	//
	// Returns:
	//   - UniformLayout: member offsets and the buffer size
	//   - bool: false if nothing, or something other than a uniform struct, is bound there
	UniformLayout(group, binding int) (UniformLayout, bool)

	// Declarations returns the group and provider annotations in source order. The scene matches
	// bind groups to the providers that own them through these.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader reads a WGSL file and parses it with NewShaderFromSource.
func NewShader(key string, shaderType ShaderType, sourcePath string) (Shader, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return NewShaderFromSource(key, shaderType, string(data))
}

// NewShaderFromSource expands the annotations of source and reflects the result.
//
// Parameters:
//   - key: the module label
//   - shaderType: the stage
//   - source: WGSL with @oxy annotations, usually embedded
//
// Returns:
//   - Shader: the parsed stage
//   - error: a malformed annotation or ErrNoEntryPoint, wrapped with key
func NewShaderFromSource(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	expanded, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	r := reflectSource(expanded, shaderType)
	if r.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: %w", key, ErrNoEntryPoint)
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
	}

	s := &shader{
		key:    key,
		source: expanded,
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: expanded},
		},
		entryPoint:   r.entryPoint,
		uniforms:     r.uniformLayouts(),
		declarations: pp.Declarations(),
	}
	if shaderType == ShaderTypeVertex {
		s.vertex = r.vertexLayouts()
	}
	s.groups, s.names = r.bindGroupLayouts(visibility)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertex
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.groups
}

func (s *shader) VarName(group, binding int) string {
	return s.names[group][binding]
}

func (s *shader) Binding(group int, name string) (int, bool) {
	for b, n := range s.names[group] {
		if n == name {
			return b, true
		}
	}
	return -1, false
}

func (s *shader) UniformLayout(group, binding int) (UniformLayout, bool) {
	l, ok := s.uniforms[group][binding]
	return l, ok
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
