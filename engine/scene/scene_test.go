package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/config"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/Carmen-Shannon/oxy-earth/engine/texture"
	"github.com/Carmen-Shannon/oxy-earth/engine/transform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records the calls a scene makes without touching a GPU.
type fakeRenderer struct {
	width, height int

	registered []string
	calls      []string
	writes     []bind_group_provider.Uploads
	draws      [][]string
	textures   map[string]int
	samplers   map[string]int
	released   int

	frameOpen bool
	drawErr   error
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{width: 1280, height: 720, textures: map[string]int{}, samplers: map[string]int{}}
}

func (f *fakeRenderer) SurfaceSize() (int, int) { return f.width, f.height }
func (f *fakeRenderer) InitMesh(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.registered = append(f.registered, p.PipelineKey())
	}
	return nil
}

func (f *fakeRenderer) Resize(width, height int) {
	f.width, f.height = width, height
	f.calls = append(f.calls, fmt.Sprintf("resize %dx%d", width, height))
}

func (f *fakeRenderer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (f *fakeRenderer) InitTexture(p bind_group_provider.BindGroupProvider, binding int, _ common.TextureStagingData) error {
	f.textures[fmt.Sprintf("%s/%d", p.Label(), binding)]++
	return nil
}

func (f *fakeRenderer) InitSampler(p bind_group_provider.BindGroupProvider, binding int, _ common.SamplerStagingData) error {
	f.samplers[fmt.Sprintf("%s/%d", p.Label(), binding)]++
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes bind_group_provider.Uploads) {
	f.writes = append(f.writes, writes)
}

func (f *fakeRenderer) BeginFrame() error {
	if f.frameOpen {
		return errors.New("frame already open")
	}
	f.frameOpen = true
	f.calls = append(f.calls, "begin")
	return nil
}

func (f *fakeRenderer) SetViewport(x, y, w, h float32) {
	f.calls = append(f.calls, fmt.Sprintf("viewport %g %g %g %g", x, y, w, h))
}

func (f *fakeRenderer) Draw(key string, mesh bind_group_provider.BindGroupProvider, groups []bind_group_provider.BindGroupProvider) error {
	f.calls = append(f.calls, "draw "+key+" "+mesh.Label())
	labels := make([]string, len(groups))
	for i, g := range groups {
		if g != nil {
			labels[i] = g.Label()
		}
	}
	f.draws = append(f.draws, labels)
	return f.drawErr
}

func (f *fakeRenderer) EndFrame() { f.calls = append(f.calls, "end") }
func (f *fakeRenderer) Present() {
	f.frameOpen = false
	f.calls = append(f.calls, "present")
}
func (f *fakeRenderer) Release() { f.released++ }

func testTextures() texture.Set {
	img := func(v byte, linear bool) common.TextureStagingData {
		return common.TextureStagingData{Pixels: []byte{v, v, v, 255, v, v, v, 255, v, v, v, 255, v, v, v, 255}, Width: 2, Height: 2, Linear: linear}
	}
	return texture.Set{Bump: img(255, true), Map: img(40, false), Spec: img(200, true)}
}

func newTestScene(t *testing.T, opts ...SceneBuilderOption) (Scene, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer()
	opts = append([]SceneBuilderOption{
		WithObjects(config.Default().Objects...),
		WithTextures(testTextures()),
	}, opts...)
	s, err := NewScene(r, opts...)
	require.NoError(t, err)
	return s, r
}

func paramFloat(t *testing.T, s Scene, name string) float32 {
	t.Helper()
	b := s.Earth().Params()
	f, ok := b.Layout().Field(name)
	require.True(t, ok, name)
	return math.Float32frombits(binary.LittleEndian.Uint32(b.Bytes()[f.Offset:]))
}

func paramVec3(t *testing.T, s Scene, name string) [3]float32 {
	t.Helper()
	b := s.Earth().Params()
	f, ok := b.Layout().Field(name)
	require.True(t, ok, name)
	var v [3]float32
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b.Bytes()[int(f.Offset)+4*i:]))
	}
	return v
}

func paramInt(t *testing.T, s Scene, name string) int32 {
	t.Helper()
	b := s.Earth().Params()
	f, ok := b.Layout().Field(name)
	require.True(t, ok, name)
	return int32(binary.LittleEndian.Uint32(b.Bytes()[f.Offset:]))
}

func TestNewSceneBindsTypedHandles(t *testing.T) {
	s, r := newTestScene(t)

	assert.Equal(t, []string{PipelineHelper, PipelineEarth}, r.registered)
	require.NotNil(t, s.Earth().Earth)
	assert.Nil(t, s.Earth().Axis)
	require.NotNil(t, s.Helper().Axis)
	require.NotNil(t, s.Helper().Latitude)
	require.NotNil(t, s.Helper().Satellite)
	assert.Nil(t, s.Helper().Earth)
	assert.Len(t, s.Helper().Items(), 3)
	assert.Nil(t, s.Helper().Params())

	assert.Equal(t, 1, r.textures["earth_textures/0"])
	assert.Equal(t, 1, r.textures["earth_textures/1"])
	assert.Equal(t, 1, r.textures["earth_textures/2"])
	assert.Equal(t, 1, r.samplers["earth_textures/3"])
}

func TestRenderDrawsHelpersThenEarthInBothViewports(t *testing.T) {
	s, r := newTestScene(t)
	r.calls = nil

	require.NoError(t, s.Render())

	frame := []string{
		"draw helper axis_mesh",
		"draw helper satellite_mesh",
		"draw helper latitude_mesh",
		"draw earth earth_mesh",
	}
	want := []string{"begin", "viewport 0 0 640 720"}
	want = append(want, frame...)
	want = append(want, "viewport 640 0 640 720")
	want = append(want, frame...)
	want = append(want, "end", "present")
	assert.Equal(t, want, r.calls)

	assert.Equal(t, 8, s.Stats().DrawCalls)

	require.Len(t, r.draws, 8)
	left, right := r.draws[3], r.draws[7]
	require.Len(t, left, 4)
	assert.Equal(t, []string{"earth_model", "earth_params", "earth_textures"}, left[1:])
	assert.NotEqual(t, left[0], right[0], "each viewport binds its own camera")
	assert.Equal(t, left[0], r.draws[0][0])
	assert.Len(t, r.draws[0], 2)
}

func TestRenderUploadsOnlyDirtyBlocks(t *testing.T) {
	s, r := newTestScene(t)
	on := shading.Toggles{PointLight: true, Spotlight: true}

	s.Apply(transform.State{HeightScale: 0.5, SpotCutoff: 20}, on)
	require.NoError(t, s.Render())
	require.Len(t, r.writes, 1)
	assert.Len(t, r.writes[0], 2+4+1, "two cameras, four models, the earth params")

	require.NoError(t, s.Render())
	assert.Len(t, r.writes, 1, "nothing changed, nothing uploaded")

	s.Apply(transform.State{Rotation: 30, HeightScale: 0.5, SpotCutoff: 20}, on)
	require.NoError(t, s.Render())
	require.Len(t, r.writes, 2)
	require.Len(t, r.writes[1], 1)
	assert.Equal(t, "earth_model", r.writes[1][0].Provider.Label())
	assert.Equal(t, 1, s.Stats().Uploads)
	assert.Equal(t, 128, s.Stats().UploadBytes, "model and normal matrices")

	assert.NotPanics(t, s.Release)
	assert.Equal(t, 1, r.released, "the scene owns the renderer")
}

func TestApplyWritesEarthParams(t *testing.T) {
	s, _ := newTestScene(t)
	s.Apply(transform.State{Longitude: 90, HeightScale: 0.5, SpotCutoff: 20}, shading.Toggles{PointLight: true, Spotlight: true})

	assert.Equal(t, float32(15), paramFloat(t, s, shading.ParamLightPosition))
	assert.Equal(t, float32(0.5), paramFloat(t, s, shading.ParamScale))
	assert.InDelta(t, 10, paramFloat(t, s, shading.ParamSpotPosition), 1e-4)
	assert.Equal(t, float32(20), paramFloat(t, s, shading.ParamOuterAngle))
	assert.Equal(t, int32(1), paramInt(t, s, shading.ParamTurnLight))
	assert.Equal(t, int32(1), paramInt(t, s, shading.ParamTurnSpot))
	assert.Equal(t, int32(1), paramInt(t, s, shading.ParamBumpNormals))
	assert.Equal(t, int32(0), paramInt(t, s, shading.ParamGateSpecular))

	assert.InDelta(t, shading.BaseRadius+0.5, s.Earth().Earth.Mesh.BoundingRadius(), 1e-4)

	s.Apply(transform.State{}, shading.Toggles{Spotlight: true})
	assert.Equal(t, int32(0), paramInt(t, s, shading.ParamTurnLight))
	assert.False(t, s.PointLight().Enabled())
}

func TestRenderReleasesFrameAfterDrawError(t *testing.T) {
	s, r := newTestScene(t)
	s.Apply(transform.State{HeightScale: 0.5, SpotCutoff: 20}, shading.Toggles{})

	r.drawErr = errors.New("device lost")
	err := s.Render()
	require.ErrorContains(t, err, "device lost")
	assert.Equal(t, []string{"end", "present"}, r.calls[len(r.calls)-2:])

	r.drawErr = nil
	assert.NoError(t, s.Render(), "the next frame can begin")
}

func TestViewPositionStaysOnThirdPersonEye(t *testing.T) {
	s, _ := newTestScene(t)
	s.Apply(transform.State{Longitude: 60, Latitude: -30, HeightScale: 0.5, SpotCutoff: 20}, shading.Toggles{PointLight: true, Spotlight: true})

	assert.Equal(t, [3]float32{30, 10, 30}, paramVec3(t, s, shading.ParamViewPosition))
	assert.NotEqual(t, s.Camera(ViewSatellite).Eye(), paramVec3(t, s, shading.ParamViewPosition))
}

func TestBasicProfileDisablesSpotlight(t *testing.T) {
	s, _ := newTestScene(t, WithProfile(shading.BasicProfile))
	s.Apply(transform.State{SpotCutoff: 20}, shading.Toggles{PointLight: true, Spotlight: true})

	assert.False(t, s.Spotlight().Enabled())
	assert.Equal(t, int32(0), paramInt(t, s, shading.ParamTurnSpot))
	assert.Equal(t, int32(0), paramInt(t, s, shading.ParamBumpNormals))
	assert.Equal(t, int32(1), paramInt(t, s, shading.ParamGateSpecular))
	assert.Len(t, s.Viewports(), 2)
}

func TestSatelliteCameraFollowsSatellite(t *testing.T) {
	s, _ := newTestScene(t)
	s.Apply(transform.State{Longitude: 30, Latitude: 45}, shading.Toggles{})

	tr := s.Transforms()
	eye := s.Camera(ViewSatellite).Eye()
	for i := range eye {
		assert.InDelta(t, tr.SatellitePosition[i], eye[i], 1e-5)
	}
	assert.Equal(t, tr.SatellitePosition, s.Spotlight().Position())
	assert.Equal(t, [3]float32{30, 10, 30}, s.Camera(ViewThirdPerson).Eye())
	assert.Nil(t, s.Camera(2))
}

func TestSatelliteFovOverridesSharedPerspective(t *testing.T) {
	s, _ := newTestScene(t, WithSatelliteFov(40))
	assert.InDelta(t, common.Radians(30), s.Camera(ViewThirdPerson).Fov(), 1e-6)
	assert.InDelta(t, common.Radians(40), s.Camera(ViewSatellite).Fov(), 1e-6)

	s, _ = newTestScene(t)
	assert.InDelta(t, common.Radians(30), s.Camera(ViewSatellite).Fov(), 1e-6)
}

func TestResizeSplitsViewports(t *testing.T) {
	s, r := newTestScene(t)

	s.Resize(1000, 500)
	assert.Equal(t, [2]Viewport{{0, 0, 500, 500}, {500, 0, 500, 500}}, s.Viewports())
	assert.Equal(t, float32(1), s.Camera(ViewThirdPerson).Aspect())
	assert.Equal(t, float32(1), s.Camera(ViewSatellite).Aspect())
	assert.Contains(t, r.calls, "resize 1000x500")

	s.Resize(1000, 0)
	assert.Equal(t, float32(500), s.Viewports()[0].Height)
}

func TestNewSceneRejectsMismatchedPrograms(t *testing.T) {
	_, err := NewScene(newFakeRenderer(),
		WithObjects(config.Object{Name: "ring", Generator: config.GeneratorLatitude, Program: config.ProgramEarth, Divisions: 10, Radius: 10}),
		WithTextures(testTextures()),
	)
	assert.ErrorIs(t, err, pipeline.ErrVertexLayout)
	assert.ErrorContains(t, err, `object "ring"`)

	_, err = NewScene(newFakeRenderer(),
		WithObjects(config.Object{Name: "globe", Generator: config.GeneratorEarth, Program: config.ProgramHelper, Divisions: 10}),
	)
	assert.ErrorIs(t, err, pipeline.ErrVertexLayout)
}

func TestNewSceneErrors(t *testing.T) {
	_, err := NewScene(newFakeRenderer(), WithObjects(config.Object{Name: "earth", Generator: config.GeneratorEarth, Program: config.ProgramEarth, Divisions: 10}))
	assert.ErrorIs(t, err, ErrMissingTextures)

	_, err = NewScene(newFakeRenderer(), WithObjects(
		config.Object{Name: "a", Generator: config.GeneratorLatitude, Program: config.ProgramHelper, Divisions: 10, Radius: 10},
		config.Object{Name: "b", Generator: config.GeneratorLatitude, Program: config.ProgramHelper, Divisions: 20, Radius: 10},
	))
	assert.ErrorIs(t, err, ErrDuplicateHandle)

	_, err = NewScene(newFakeRenderer(), WithObjects(config.Object{Name: "earth", Generator: config.GeneratorEarth, Program: config.ProgramEarth, Divisions: 1000}), WithTextures(testTextures()))
	assert.ErrorContains(t, err, `object "earth"`)
}

func TestSplitViewports(t *testing.T) {
	v := SplitViewports(1280, 720)
	assert.Equal(t, Viewport{X: 0, Y: 0, Width: 640, Height: 720}, v[0])
	assert.Equal(t, Viewport{X: 640, Y: 0, Width: 640, Height: 720}, v[1])
	assert.InDelta(t, 640.0/720.0, v[0].Aspect(), 1e-6)
	assert.Equal(t, float32(1), Viewport{}.Aspect())
}
