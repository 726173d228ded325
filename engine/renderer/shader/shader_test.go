package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `
//@oxy:include camera
//@oxy:include model
//@oxy:include earth_params
//@oxy:include earth_vertex

//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 1 0 storage_uniform model model
//@oxy:group 2 0 storage_uniform params earth_params

//@oxy:provider 3 0 earth_textures bump_texture
@group(3) @binding(0) var bumpTexture: texture_2d<f32>;
//@oxy:provider 3 3 earth_textures earth_sampler
@group(3) @binding(3) var earthSampler: sampler;

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(in: EarthVertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.viewProj * model.model * vec4<f32>(in.angles, 0.0, 1.0);
    out.uv = in.texCoord;
    return out;
}
`

func TestNewShaderFromSourceExpandsAnnotations(t *testing.T) {
	s, err := NewShaderFromSource("earth_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Contains(t, s.Source(), "@group(0) @binding(0) var<uniform> camera: CameraUniform;")
	assert.Contains(t, s.Source(), "struct EarthParams")
	assert.NotContains(t, s.Source(), "@oxy:")
	assert.Equal(t, "earth_vs", s.Module().Label)
}

func TestVertexLayoutFromInputStruct(t *testing.T) {
	s, err := NewShaderFromSource("earth_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	layout := s.VertexLayouts()
	require.Len(t, layout, 1)
	assert.Equal(t, uint64(16), layout[0].ArrayStride)
	require.Len(t, layout[0].Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout[0].Attributes[1].Format)
	assert.Equal(t, uint64(8), layout[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layout[0].Attributes[1].ShaderLocation)
}

func TestBindGroupLayouts(t *testing.T) {
	s, err := NewShaderFromSource("earth_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	descs := s.BindGroupLayoutDescriptors()
	require.Len(t, descs, 4)

	cam := descs[0].Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam.Buffer.Type)
	assert.Equal(t, uint64(80), cam.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cam.Visibility)

	assert.Equal(t, uint64(128), descs[1].Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(64), descs[2].Entries[0].Buffer.MinBindingSize)

	textures := descs[3].Entries
	require.Len(t, textures, 2)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, textures[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, textures[0].Texture.ViewDimension)
	assert.Equal(t, uint32(3), textures[1].Binding)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, textures[1].Sampler.Type)

	binding, ok := s.Binding(3, "earthSampler")
	assert.True(t, ok)
	assert.Equal(t, 3, binding)
	assert.Equal(t, "bumpTexture", s.VarName(3, 0))
}

func TestUniformLayoutOffsets(t *testing.T) {
	s, err := NewShaderFromSource("earth_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	params, ok := s.UniformLayout(2, 0)
	require.True(t, ok)
	assert.Equal(t, "EarthParams", params.TypeName)
	assert.Equal(t, "params", params.VarName)
	assert.Equal(t, uint64(64), params.Size)

	want := []UniformField{
		{Name: "lightPosition", Offset: 0, Size: 12, Kind: KindVec3},
		{Name: "scale", Offset: 12, Size: 4, Kind: KindFloat},
		{Name: "spotPosition", Offset: 16, Size: 12, Kind: KindVec3},
		{Name: "outerAngle", Offset: 28, Size: 4, Kind: KindFloat},
		{Name: "viewPosition", Offset: 32, Size: 12, Kind: KindVec3},
		{Name: "turnLight", Offset: 44, Size: 4, Kind: KindInt},
		{Name: "turnSpot", Offset: 48, Size: 4, Kind: KindInt},
		{Name: "bumpNormals", Offset: 52, Size: 4, Kind: KindInt},
		{Name: "gateSpecular", Offset: 56, Size: 4, Kind: KindInt},
	}
	assert.Equal(t, want, params.Fields)

	cam, ok := s.UniformLayout(0, 0)
	require.True(t, ok)
	eye, ok := cam.Field("eye")
	require.True(t, ok)
	assert.Equal(t, uint64(64), eye.Offset)
	assert.Equal(t, KindVec3, eye.Kind)

	_, ok = s.UniformLayout(3, 0)
	assert.False(t, ok, "textures are not uniform structs")
}

func TestDeclarationsCarryIdentities(t *testing.T) {
	s, err := NewShaderFromSource("earth_vs", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	decls := s.Declarations()
	require.Len(t, decls, 5)
	assert.Equal(t, AnnotationArgCamera, decls[0].Identity())
	assert.Equal(t, AnnotationArgEarthParams, decls[2].Identity())
	assert.Equal(t, AnnotationArgEarthTextures, decls[3].Identity())
	assert.Equal(t, AnnotationArgBumpTexture, decls[3].Role())
	assert.Equal(t, 3, *decls[4].Binding)
	assert.Equal(t, AnnotationArg(""), decls[0].Role())
}

func TestFragmentShaderHasNoVertexLayouts(t *testing.T) {
	src := `
struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 1.0);
}
`
	s, err := NewShaderFromSource("helper_fs", ShaderTypeFragment, src)
	require.NoError(t, err)
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
	assert.Empty(t, s.BindGroupLayoutDescriptors())
}

func TestShaderErrors(t *testing.T) {
	_, err := NewShaderFromSource("bad", ShaderTypeVertex, "//@oxy:include nope\n@vertex fn main() {}")
	assert.ErrorContains(t, err, "unknown struct type")

	_, err = NewShaderFromSource("bad", ShaderTypeFragment, "@vertex fn main() {}")
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	_, err = NewShaderFromSource("bad", ShaderTypeVertex, "//@oxy:provider 3 x earth_textures\n@vertex fn main() {}")
	assert.ErrorContains(t, err, "invalid binding number")

	_, err = NewShaderFromSource("bad", ShaderTypeVertex, "//@oxy:provider 3 0 earth_textures normal_texture\n@vertex fn main() {}")
	assert.ErrorContains(t, err, "unknown binding role")

	_, err = NewShader("missing", ShaderTypeVertex, "does/not/exist.wgsl")
	assert.Error(t, err)
}
