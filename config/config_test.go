package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-earth/engine/renderer"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesScene(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, VariantSpotlightBump, c.Variant)
	assert.Equal(t, [3]float32{30, 10, 30}, c.Camera.Eye)
	assert.Equal(t, [3]float32{15, 35, 15}, c.Light.Position)
	assert.Equal(t, "img/earthbump1k.jpg", c.Textures.Bump)
	assert.Equal(t, 4, c.MSAA)
	assert.Equal(t, "vsync", c.PresentMode)
	assert.False(t, c.Software)
	require.Len(t, c.Objects, 4)

	byName := map[string]Object{}
	for _, o := range c.Objects {
		byName[o.Name] = o
	}
	assert.Equal(t, Object{Name: "earth", Generator: GeneratorEarth, Program: ProgramEarth, Divisions: 250}, byName["earth"])
	assert.Equal(t, float32(10), byName["satellite"].Radius)
	assert.Equal(t, 50, byName["latitude"].Divisions)

	assert.Equal(t, Slider{Min: 0, Max: 20, Step: 1, Value: 10}, c.Controls.Sliders["height"])
	assert.True(t, c.Controls.PointLight)
	assert.True(t, c.Controls.Spotlight)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	c, err := Load(writeConfig(t, `
variant: basic
window:
  width: 800
controls:
  sliders:
    cutoff: {min: 0, max: 45, step: 5, value: 10}
`))
	require.NoError(t, err)
	assert.Equal(t, VariantBasic, c.Variant)
	assert.Equal(t, 800, c.Window.Width)
	assert.Equal(t, 720, c.Window.Height)
	assert.Equal(t, float32(45), c.Controls.Sliders["cutoff"].Max)
	assert.Equal(t, float32(360), c.Controls.Sliders["rotation"].Max)
	assert.Len(t, c.Objects, 4)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	cases := map[string]string{
		"variant":   "variant: phong\n",
		"generator": "objects:\n  - {name: cube, generator: cube, program: helper}\n",
		"program":   "objects:\n  - {name: earth, generator: earth, program: toon}\n",
		"msaa":      "msaa: 3\n",
		"present":   "present_mode: mailbox\n",
		"sampler":   "sampler: {filter: cubic}\n",
		"slider":    "controls:\n  sliders:\n    height: {value: 5}\n",
		"duplicate": "objects:\n  - {name: a, generator: earth, program: earth}\n  - {name: a, generator: latitude, program: helper}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "window: [1, 2"))
	assert.ErrorContains(t, err, "parsing config file")
}

func TestVariantProfile(t *testing.T) {
	assert.Equal(t, shading.BasicProfile, VariantBasic.Profile())
	assert.Equal(t, shading.SpotlightBumpProfile, VariantSpotlightBump.Profile())
}

func TestVariantViewAndHeightSettings(t *testing.T) {
	assert.Equal(t, float32(10), VariantBasic.HeightDivisor())
	assert.Equal(t, float32(40), VariantBasic.SatelliteFov())
	assert.Equal(t, float32(20), VariantSpotlightBump.HeightDivisor())
	assert.Equal(t, float32(30), VariantSpotlightBump.SatelliteFov())
}

func TestSamplerStaging(t *testing.T) {
	s, err := Sampler{AddressMode: "clamp", Filter: "nearest"}.Staging()
	require.NoError(t, err)
	assert.Equal(t, wgpu.AddressModeClampToEdge, s.AddressModeU)
	assert.Equal(t, wgpu.FilterModeNearest, s.MinFilter)

	s, err = Sampler{}.Staging()
	require.NoError(t, err)
	assert.Equal(t, wgpu.AddressModeRepeat, s.AddressModeV)
	assert.Equal(t, wgpu.FilterModeLinear, s.MagFilter)
}

func TestRendererOptions(t *testing.T) {
	c := Default()
	opts, err := c.RendererOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)

	c.MSAA = 2
	_, err = c.RendererOptions()
	assert.ErrorIs(t, err, renderer.ErrSurfaceOption)
}
