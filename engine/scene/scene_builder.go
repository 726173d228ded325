package scene

import (
	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/config"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/Carmen-Shannon/oxy-earth/engine/texture"
)

// SceneBuilderOption configures NewScene.
type SceneBuilderOption func(s *scene)

// WithObjects declares the meshes. Within a program, objects draw in the given order.
func WithObjects(objects ...config.Object) SceneBuilderOption {
	return func(s *scene) {
		s.objects = append(s.objects, objects...)
	}
}

// WithProfile selects the shading features. Defaults to shading.SpotlightBumpProfile.
func WithProfile(profile shading.Profile) SceneBuilderOption {
	return func(s *scene) {
		s.profile = profile
	}
}

// WithTextures provides the decoded earth images. Required when an earth object is declared.
func WithTextures(set texture.Set) SceneBuilderOption {
	return func(s *scene) {
		s.textures = set
	}
}

// WithSampler sets the earth sampler. Zero fields fall back to repeat addressing and linear filtering.
func WithSampler(sampler common.SamplerStagingData) SceneBuilderOption {
	return func(s *scene) {
		s.sampler = sampler
	}
}

// WithSize sets the initial framebuffer size. Defaults to the renderer's surface size.
func WithSize(width, height int) SceneBuilderOption {
	return func(s *scene) {
		s.width, s.height = width, height
	}
}

// WithCamera sets the third-person eye and the perspective of both viewports; WithSatelliteFov can widen the satellite view.
//
// Parameters:
//   - eye: the third-person camera position, looking at the origin
//   - fovDegrees: the vertical field of view in degrees
//   - near, far: the clip plane distances
//
// Returns:
//   - SceneBuilderOption: the option
func WithCamera(eye [3]float32, fovDegrees, near, far float32) SceneBuilderOption {
	return func(s *scene) {
		s.eye = eye
		s.fovDegrees = fovDegrees
		s.near, s.far = near, far
	}
}

// WithSatelliteFov sets the vertical field of view of the satellite viewport in degrees.
// Zero keeps the third-person field of view.
func WithSatelliteFov(fovDegrees float32) SceneBuilderOption {
	return func(s *scene) {
		s.satelliteFov = fovDegrees
	}
}

func WithPointLight(position [3]float32) SceneBuilderOption {
	return func(s *scene) {
		s.pointPosition = position
	}
}

// WithBuildWorkers sizes the pool generating meshes at startup, at least 1. Defaults to
// runtime.NumCPU()-1.
func WithBuildWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.buildWorkers = max(1, n)
	}
}
