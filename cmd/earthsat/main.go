// Command earthsat opens a window showing the earth and an orbiting satellite from two viewpoints.
package main

import (
	"flag"
	"log"
	"os"
	"sort"

	"github.com/Carmen-Shannon/oxy-earth/config"
	"github.com/Carmen-Shannon/oxy-earth/engine"
	"github.com/Carmen-Shannon/oxy-earth/engine/controls"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer"
	"github.com/Carmen-Shannon/oxy-earth/engine/scene"
	"github.com/Carmen-Shannon/oxy-earth/engine/texture"
	"github.com/Carmen-Shannon/oxy-earth/engine/window"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML scene file, layered over the defaults")
	profile := flag.Bool("profile", false, "log timing and memory for every render")
	flag.Parse()

	if err := run(*configPath, *profile); err != nil {
		log.Printf("earthsat: %v", err)
		os.Exit(1)
	}
}

func run(configPath string, profile bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	rendererOpts, err := cfg.RendererOptions()
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOpts...)
	if err != nil {
		win.Close()
		return err
	}
	// Until the scene takes r over, failures release it here.
	abort := func(err error) error {
		r.Release()
		win.Close()
		return err
	}

	set, err := texture.NewLoader(
		texture.WithWorkers(cfg.Textures.Workers),
		texture.WithProgress(os.Stderr),
	).Load(
		texture.Source{Role: texture.RoleBump, Path: cfg.Textures.Bump},
		texture.Source{Role: texture.RoleMap, Path: cfg.Textures.Map},
		texture.Source{Role: texture.RoleSpec, Path: cfg.Textures.Spec},
	)
	if err != nil {
		return abort(err)
	}

	sampler, err := cfg.Sampler.Staging()
	if err != nil {
		return abort(err)
	}

	sc, err := scene.NewScene(r,
		scene.WithObjects(cfg.Objects...),
		scene.WithProfile(cfg.Variant.Profile()),
		scene.WithTextures(set),
		scene.WithSampler(sampler),
		scene.WithSize(win.Width(), win.Height()),
		scene.WithCamera(cfg.Camera.Eye, cfg.Camera.Fov, cfg.Camera.Near, cfg.Camera.Far),
		scene.WithSatelliteFov(cfg.Variant.SatelliteFov()),
		scene.WithPointLight(cfg.Light.Position),
	)
	if err != nil {
		return abort(err)
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(sc),
		engine.WithControls(newControls(cfg.Controls, cfg.Variant)),
		engine.WithProfiling(profile || cfg.Profile),
		engine.WithStateCallback(func(c controls.Controls) {
			win.SetTitle(cfg.Window.Title + " | " + c.String())
		}),
	)
	eng.Run()
	return nil
}

// newControls applies the configured slider ranges in name order so the result does not depend on map iteration.
func newControls(c config.Controls, v config.Variant) controls.Controls {
	names := make([]string, 0, len(c.Sliders))
	for name := range c.Sliders {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := make([]controls.ControlsBuilderOption, 0, len(names)+2)
	for _, name := range names {
		s := c.Sliders[name]
		opts = append(opts, controls.WithSlider(controls.Slider{
			Name:  name,
			Min:   s.Min,
			Max:   s.Max,
			Step:  s.Step,
			Value: s.Value,
		}))
	}
	opts = append(opts, controls.WithToggles(c.PointLight, c.Spotlight), controls.WithHeightDivisor(v.HeightDivisor()))
	return controls.NewControls(opts...)
}
