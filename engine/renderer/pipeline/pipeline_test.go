package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vsSource = `
//@oxy:include camera
//@oxy:include earth_params
//@oxy:include line_vertex
//@oxy:group 0 0 storage_uniform camera camera
//@oxy:group 2 0 storage_uniform params earth_params
//@oxy:provider 3 3 earth_textures earth_sampler
@group(3) @binding(3) var earthSampler: sampler;

@vertex
fn vs_main(in: LineVertexInput) -> @builtin(position) vec4<f32> {
    return camera.viewProj * vec4<f32>(in.position, 1.0);
}
`

const fsSource = `
//@oxy:include earth_params
//@oxy:group 2 0 storage_uniform params earth_params
//@oxy:provider 3 1 earth_textures map_texture
@group(3) @binding(1) var mapTexture: texture_2d<f32>;
//@oxy:provider 3 3 earth_textures earth_sampler
@group(3) @binding(3) var earthSampler: sampler;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(params.lightPosition, 1.0);
}
`

func newTestPipeline(t *testing.T) Pipeline {
	t.Helper()
	vs, err := shader.NewShaderFromSource("test_vs", shader.ShaderTypeVertex, vsSource)
	require.NoError(t, err)
	fs, err := shader.NewShaderFromSource("test_fs", shader.ShaderTypeFragment, fsSource)
	require.NoError(t, err)

	p, err := NewPipeline("test", WithVertexShader(vs), WithFragmentShader(fs), WithTopology(wgpu.PrimitiveTopologyLineList))
	require.NoError(t, err)
	return p
}

func TestMergedLayoutsUnionVisibility(t *testing.T) {
	p := newTestPipeline(t)

	assert.Equal(t, []int{0, 2, 3}, p.Groups())
	layouts := p.BindGroupLayoutDescriptors()

	cam := layouts[0].Entries
	require.Len(t, cam, 1)
	assert.Equal(t, wgpu.ShaderStageVertex, cam[0].Visibility)

	params := layouts[2].Entries
	require.Len(t, params, 1)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, params[0].Visibility)
	assert.Equal(t, uint64(64), params[0].Buffer.MinBindingSize)

	textures := layouts[3].Entries
	require.Len(t, textures, 2)
	assert.Equal(t, uint32(1), textures[0].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, textures[0].Visibility)
	assert.Equal(t, uint32(3), textures[1].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, textures[1].Visibility)
	assert.Equal(t, "test_group_3", layouts[3].Label)
}

func TestGroupAndBindingLookup(t *testing.T) {
	p := newTestPipeline(t)

	g, ok := p.GroupFor(shader.AnnotationArgCamera)
	assert.True(t, ok)
	assert.Equal(t, 0, g)

	g, ok = p.GroupFor(shader.AnnotationArgEarthTextures)
	assert.True(t, ok)
	assert.Equal(t, 3, g)

	_, ok = p.GroupFor(shader.AnnotationArgModel)
	assert.False(t, ok)

	g, b, ok := p.BindingFor(shader.AnnotationArgMapTexture)
	assert.True(t, ok)
	assert.Equal(t, 3, g)
	assert.Equal(t, 1, b)

	_, _, ok = p.BindingFor(shader.AnnotationArgBumpTexture)
	assert.False(t, ok)
}

func TestUniformLayoutFromEitherStage(t *testing.T) {
	p := newTestPipeline(t)

	l, ok := p.UniformLayout(0, 0)
	require.True(t, ok)
	assert.Equal(t, "CameraUniform", l.TypeName)

	_, ok = p.UniformLayout(3, 1)
	assert.False(t, ok)
}

func TestCheckVertexStride(t *testing.T) {
	p := newTestPipeline(t)

	assert.NoError(t, p.CheckVertexStride(24))
	assert.ErrorIs(t, p.CheckVertexStride(16), ErrVertexLayout)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.State().Topology)
	assert.True(t, p.State().DepthTest)
}

func TestNewPipelineRequiresBothStages(t *testing.T) {
	vs, err := shader.NewShaderFromSource("test_vs", shader.ShaderTypeVertex, vsSource)
	require.NoError(t, err)

	_, err = NewPipeline("half", WithVertexShader(vs))
	assert.ErrorIs(t, err, ErrMissingShader)
}

func TestPipelineState(t *testing.T) {
	vs, err := shader.NewShaderFromSource("test_vs", shader.ShaderTypeVertex, vsSource)
	require.NoError(t, err)
	fs, err := shader.NewShaderFromSource("test_fs", shader.ShaderTypeFragment, fsSource)
	require.NoError(t, err)

	p, err := NewPipeline("overlay", WithVertexShader(vs), WithFragmentShader(fs), WithDepth(false, false), WithCullMode(wgpu.CullModeBack))
	require.NoError(t, err)
	st := p.State()
	assert.False(t, st.DepthTest)
	assert.False(t, st.DepthWrite)
	assert.Equal(t, wgpu.CullModeBack, st.CullMode)
	assert.Equal(t, DefaultState.Topology, st.Topology)
	assert.Equal(t, wgpu.FrontFaceCCW, st.FrontFace)
}
