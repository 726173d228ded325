// Package config holds the YAML scene description: window, variant, camera, lights, textures, objects and controls.
// Load decodes a file on top of the embedded defaults, so a file only needs the keys it changes.
// List and slider entries replace their defaults whole.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Variant selects the shading profile of the earth program.
type Variant string

const (
	// VariantBasic uses analytic sphere normals, no spotlight and specular gated on diffuse.
	VariantBasic Variant = "basic"
	// VariantSpotlightBump uses bump-derived normals, the satellite spotlight and ungated specular.
	VariantSpotlightBump Variant = "spotlight-bump"
)

// Profile maps the variant to its shading features.
//
// Returns:
//   - shading.Profile: the feature switches of the variant
func (v Variant) Profile() shading.Profile {
	if v == VariantBasic {
		return shading.BasicProfile
	}
	return shading.SpotlightBumpProfile
}

// HeightDivisor is the divisor between the height slider and the bump scale of the variant.
func (v Variant) HeightDivisor() float32 {
	if v == VariantBasic {
		return 10
	}
	return 20
}

// SatelliteFov is the vertical field of view of the satellite viewport in degrees.
func (v Variant) SatelliteFov() float32 {
	if v == VariantBasic {
		return 40
	}
	return 30
}

// Generator names a mesh generator.
type Generator string

const (
	GeneratorEarth         Generator = "earth"
	GeneratorAxisLongitude Generator = "axis-longitude"
	GeneratorLatitude      Generator = "latitude"
	GeneratorSatellite     Generator = "satellite"
)

// Program names the shading program an object is drawn with.
type Program string

const (
	ProgramEarth  Program = "earth"
	ProgramHelper Program = "helper"
)

// Config is the complete scene description.
type Config struct {
	Window   Window   `yaml:"window"`
	Variant  Variant  `yaml:"variant"`
	Camera   Camera   `yaml:"camera"`
	Light    Light    `yaml:"light"`
	Textures Textures `yaml:"textures"`
	Sampler  Sampler  `yaml:"sampler"`
	Objects  []Object `yaml:"objects"`
	Controls Controls `yaml:"controls"`
	Profile  bool     `yaml:"profile"`

	MSAA        int    `yaml:"msaa"`
	PresentMode string `yaml:"present_mode"`
	Software    bool   `yaml:"software"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Camera configures the third-person camera. Fov is in degrees.
type Camera struct {
	Eye  [3]float32 `yaml:"eye"`
	Fov  float32    `yaml:"fov"`
	Near float32    `yaml:"near"`
	Far  float32    `yaml:"far"`
}

type Light struct {
	Position [3]float32 `yaml:"position"`
}

// Textures holds the image paths, relative to the working directory, and the decode worker count.
type Textures struct {
	Bump    string `yaml:"bump"`
	Map     string `yaml:"map"`
	Spec    string `yaml:"spec"`
	Workers int    `yaml:"workers"`
}

// Sampler configures the earth texture sampler.
// AddressMode is one of repeat, clamp or mirror and Filter is linear or nearest.
type Sampler struct {
	AddressMode string `yaml:"address_mode"`
	Filter      string `yaml:"filter"`
}

// Object declares one mesh of the scene.
type Object struct {
	Name      string    `yaml:"name"`
	Generator Generator `yaml:"generator"`
	Program   Program   `yaml:"program"`
	Divisions int       `yaml:"divisions"`
	Radius    float32   `yaml:"radius"`
}

// Slider is the range, step and initial value of one control.
type Slider struct {
	Min   float32 `yaml:"min"`
	Max   float32 `yaml:"max"`
	Step  float32 `yaml:"step"`
	Value float32 `yaml:"value"`
}

// Controls holds the sliders keyed by name and the initial light switches.
type Controls struct {
	Sliders    map[string]Slider `yaml:"sliders"`
	PointLight bool              `yaml:"point_light"`
	Spotlight  bool              `yaml:"spotlight"`
}

// Default returns the embedded configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return c
}

// Load decodes the file at path over the defaults and validates the result.
// An empty path returns the defaults.
//
// Parameters:
//   - path: the YAML file, or ""
//
// Returns:
//   - Config: the merged configuration
//   - error: a wrapped read, parse or validation error
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enum values, sizes and slider ranges.
//
// Returns:
//   - error: the first problem found, wrapping ErrInvalid
func (c Config) Validate() error {
	switch c.Variant {
	case VariantBasic, VariantSpotlightBump:
	default:
		return fmt.Errorf("%w: unknown variant %q, want %q or %q", ErrInvalid, c.Variant, VariantBasic, VariantSpotlightBump)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("%w: camera fov %g out of (0, 180)", ErrInvalid, c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera clip planes near %g far %g", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	for role, p := range map[string]string{"bump": c.Textures.Bump, "map": c.Textures.Map, "spec": c.Textures.Spec} {
		if p == "" {
			return fmt.Errorf("%w: missing %s texture path", ErrInvalid, role)
		}
	}
	if _, err := c.Sampler.Staging(); err != nil {
		return err
	}
	if _, err := c.RendererOptions(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	names := make(map[string]bool, len(c.Objects))
	for i, o := range c.Objects {
		if o.Name == "" {
			return fmt.Errorf("%w: object %d has no name", ErrInvalid, i)
		}
		if names[o.Name] {
			return fmt.Errorf("%w: duplicate object %q", ErrInvalid, o.Name)
		}
		names[o.Name] = true
		switch o.Generator {
		case GeneratorEarth, GeneratorAxisLongitude, GeneratorLatitude, GeneratorSatellite:
		default:
			return fmt.Errorf("%w: object %q: unknown generator %q", ErrInvalid, o.Name, o.Generator)
		}
		switch o.Program {
		case ProgramEarth, ProgramHelper:
		default:
			return fmt.Errorf("%w: object %q: unknown program %q", ErrInvalid, o.Name, o.Program)
		}
	}

	for name, s := range c.Controls.Sliders {
		if s.Max <= s.Min || s.Step <= 0 {
			return fmt.Errorf("%w: slider %q: range [%g, %g] step %g", ErrInvalid, name, s.Min, s.Max, s.Step)
		}
	}
	return nil
}

// Staging converts the sampler settings for the renderer.
//
// Returns:
//   - common.SamplerStagingData: the sampler descriptor
//   - error: an unknown address mode or filter, wrapping ErrInvalid
func (s Sampler) Staging() (common.SamplerStagingData, error) {
	var address wgpu.AddressMode
	switch s.AddressMode {
	case "", "repeat":
		address = wgpu.AddressModeRepeat
	case "clamp":
		address = wgpu.AddressModeClampToEdge
	case "mirror":
		address = wgpu.AddressModeMirrorRepeat
	default:
		return common.SamplerStagingData{}, fmt.Errorf("%w: unknown sampler address mode %q", ErrInvalid, s.AddressMode)
	}

	filter, mip := wgpu.FilterModeLinear, wgpu.MipmapFilterModeLinear
	switch s.Filter {
	case "", "linear":
	case "nearest":
		filter, mip = wgpu.FilterModeNearest, wgpu.MipmapFilterModeNearest
	default:
		return common.SamplerStagingData{}, fmt.Errorf("%w: unknown sampler filter %q", ErrInvalid, s.Filter)
	}

	return common.SamplerStagingData{
		AddressModeU: address,
		AddressModeV: address,
		AddressModeW: address,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: mip,
		LodMaxClamp:  32,
	}, nil
}

// RendererOptions converts the surface settings into renderer options.
//
// Returns:
//   - []renderer.RendererBuilderOption: the sample count, present mode and adapter options
//   - error: renderer.ErrSurfaceOption for an unsupported sample count or present mode
func (c Config) RendererOptions() ([]renderer.RendererBuilderOption, error) {
	msaa, err := renderer.ParseMSAA(c.MSAA)
	if err != nil {
		return nil, err
	}
	mode, err := renderer.ParsePresentMode(c.PresentMode)
	if err != nil {
		return nil, err
	}
	return []renderer.RendererBuilderOption{
		renderer.WithMSAA(msaa),
		renderer.WithPresentMode(mode),
		renderer.WithSoftwareAdapter(c.Software),
	}, nil
}
