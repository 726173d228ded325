// Package scene ties the programs, meshes, cameras and lights of the earth view together and encodes
// one frame: the same contexts are drawn into the third-person and satellite viewports.
package scene

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/config"
	"github.com/Carmen-Shannon/oxy-earth/engine/camera"
	"github.com/Carmen-Shannon/oxy-earth/engine/light"
	"github.com/Carmen-Shannon/oxy-earth/engine/mesh"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
	"github.com/Carmen-Shannon/oxy-earth/engine/texture"
	"github.com/Carmen-Shannon/oxy-earth/engine/transform"
)

var (
	// ErrCameraLayout is returned when the two programs disagree on the camera bind group.
	ErrCameraLayout = errors.New("scene: programs declare different camera layouts")
	// ErrMissingTextures is returned when an earth object is configured without decoded images.
	ErrMissingTextures = errors.New("scene: earth textures not provided")
)

// View indices.
const (
	ViewThirdPerson = 0
	ViewSatellite   = 1
)

// view is one viewport and the camera drawn into it.
type view struct {
	viewport Viewport
	camera   camera.Camera
	block    uniform.Block
	viewProj uniform.Mat4
	eye      uniform.Vec3
	binding  int
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	profile  shading.Profile

	objects  []config.Object
	textures texture.Set
	sampler  common.SamplerStagingData
	width    int
	height   int

	eye           [3]float32
	fovDegrees    float32
	satelliteFov  float32
	near, far     float32
	pointPosition [3]float32
	buildWorkers  int
	buildPool     worker.DynamicWorkerPool
	maxHeight     float32
	transforms    transform.Transforms
	helper, earth *Context
	views         [2]*view
	point, spot   light.Light
	stats         RenderStats
}

// RenderStats describes one Render call.
type RenderStats struct {
	DrawCalls   int
	Uploads     int
	UploadBytes int
	Elapsed     time.Duration
}

// Scene is the earth and satellite view. It is driven one way: Apply writes control state into the
// uniform blocks and Render uploads whatever changed and encodes a frame.
type Scene interface {
	// Apply recomputes the transforms, moves the spotlight to the satellite, updates both cameras
	// and writes the earth parameters.
	//
	// Parameters:
	//   - state: the control state
	//   - toggles: the light switches
	Apply(state transform.State, toggles shading.Toggles)

	// Render uploads dirty uniform blocks and draws the helper then the earth context into each viewport.
	//
	// Returns:
	//   - error: a frame acquisition or draw error
	Render() error

	// Resize reconfigures the surface, the viewports and the camera aspect. Empty sizes are ignored.
	//
	// Parameters:
	//   - width, height: the new framebuffer size in pixels
	Resize(width, height int)

	// Viewports returns the third-person and satellite viewports.
	Viewports() [2]Viewport

	// Camera returns the camera of a view.
	//
	// Parameters:
	//   - view: ViewThirdPerson or ViewSatellite
	//
	// Returns:
	//   - camera.Camera: the camera, nil for an unknown view
	Camera(view int) camera.Camera

	// Helper returns the flat colour context.
	Helper() *Context

	// Earth returns the earth context.
	Earth() *Context

	// PointLight returns the fixed point light.
	PointLight() light.Light

	// Spotlight returns the satellite spotlight.
	Spotlight() light.Light

	// Transforms returns the transforms of the last Apply.
	Transforms() transform.Transforms

	// Profile returns the shading features of the variant.
	Profile() shading.Profile

	// Stats describes the last Render.
	Stats() RenderStats

	// Release frees the GPU objects the scene created, then the renderer it was built on.
	// The scene must not be rendered afterwards.
	Release()
}

var _ Scene = &scene{}

// NewScene links both programs against r, builds every configured object, uploads the meshes
// and textures, and applies the zero control state. On success the scene owns r and frees it in Release.
//
// Parameters:
//   - r: the renderer owning the surface
//   - options: functional options configuring objects, textures, cameras and lights
//
// Returns:
//   - Scene: the scene, ready to Render
//   - error: a wrapped program, mesh or resource error; the scene must not be used
func NewScene(r renderer.Renderer, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		mu:            &sync.Mutex{},
		renderer:      r,
		profile:       shading.SpotlightBumpProfile,
		eye:           camera.DefaultEye,
		fovDegrees:    camera.DefaultFovDegrees,
		near:          camera.DefaultNear,
		far:           camera.DefaultFar,
		pointPosition: light.DefaultPointPosition,
		buildWorkers:  max(1, runtime.NumCPU()-1),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.width <= 0 || s.height <= 0 {
		s.width, s.height = r.SurfaceSize()
	}
	// Initialize the build pool after options so WithBuildWorkers can override the default.
	s.buildPool = worker.NewDynamicWorkerPool(s.buildWorkers, max(1, len(s.objects)), 1*time.Second)

	helperPipeline, err := NewHelperPipeline()
	if err != nil {
		return nil, err
	}
	earthPipeline, err := NewEarthPipeline()
	if err != nil {
		return nil, err
	}
	if err := r.RegisterPipelines(helperPipeline, earthPipeline); err != nil {
		return nil, err
	}
	if s.helper, err = newContext(helperPipeline); err != nil {
		return nil, err
	}
	if s.earth, err = newContext(earthPipeline); err != nil {
		return nil, err
	}
	if !sameCameraLayout(s.helper, s.earth) {
		return nil, ErrCameraLayout
	}

	if err := s.buildObjects(); err != nil {
		return nil, err
	}
	if s.earth.Earth != nil {
		if len(s.textures.Bump.Pixels) == 0 || len(s.textures.Map.Pixels) == 0 || len(s.textures.Spec.Pixels) == 0 {
			return nil, ErrMissingTextures
		}
		s.maxHeight = shading.NewImageHeight(s.textures.Bump).Max()
	}

	if err := s.buildViews(); err != nil {
		return nil, err
	}
	s.point = light.NewLight(light.LightTypePoint, light.WithPosition(s.pointPosition[0], s.pointPosition[1], s.pointPosition[2]))
	s.spot = light.NewLight(light.LightTypeSpot)

	if err := s.helper.init(r, s.textures, s.sampler); err != nil {
		return nil, err
	}
	if err := s.earth.init(r, s.textures, s.sampler); err != nil {
		return nil, err
	}
	layouts := s.helper.Pipeline.BindGroupLayoutDescriptors()
	for _, v := range s.views {
		if err := r.InitBindGroup(v.camera.BindGroupProvider(), layouts[s.helper.cameraGroup]); err != nil {
			return nil, fmt.Errorf("camera bind group: %w", err)
		}
	}

	s.Apply(transform.State{}, shading.Toggles{})
	log.Printf("Scene ready: %d helper and %d earth meshes", len(s.helper.items), len(s.earth.items))
	return s, nil
}

// buildObjects generates every configured mesh on the build pool, then binds them in configuration order.
func (s *scene) buildObjects() error {
	meshes := make([]mesh.Mesh, len(s.objects))
	errs := make([]error, len(s.objects))

	var wg sync.WaitGroup
	for i, obj := range s.objects {
		wg.Add(1)
		idx, o := i, obj
		s.buildPool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				meshes[idx], errs[idx] = buildMesh(o)
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	for i, obj := range s.objects {
		if errs[i] != nil {
			return fmt.Errorf("object %q: %w", obj.Name, errs[i])
		}
		ctx := s.helper
		if obj.Program == config.ProgramEarth {
			ctx = s.earth
		}
		if _, err := ctx.add(obj.Generator, meshes[i]); err != nil {
			return fmt.Errorf("object %q: %w", obj.Name, err)
		}
	}
	return nil
}

// buildMesh runs the generator of o. Helper meshes are bounded by their farthest vertex and the earth
// by its undisplaced radius until the first Apply.
func buildMesh(o config.Object) (mesh.Mesh, error) {
	var lines mesh.Geometry[mesh.LineVertex]
	var err error
	switch o.Generator {
	case config.GeneratorEarth:
		g, err := mesh.Earth(o.Divisions)
		if err != nil {
			return nil, err
		}
		return mesh.NewMesh(o.Name, g, mesh.WithBoundingRadius(shading.BaseRadius))
	case config.GeneratorAxisLongitude:
		lines, err = mesh.AxisLongitude(o.Divisions, o.Radius)
	case config.GeneratorLatitude:
		lines, err = mesh.Latitude(o.Divisions, o.Radius)
	case config.GeneratorSatellite:
		lines, err = mesh.Satellite(o.Radius)
	default:
		return nil, fmt.Errorf("unknown generator %q", o.Generator)
	}
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(o.Name, lines, mesh.WithBoundingRadius(mesh.LineExtent(lines.Vertices)))
}

// buildViews creates both cameras and their uniform blocks. The satellite view falls back to the third-person field of view.
func (s *scene) buildViews() error {
	viewports := SplitViewports(s.width, s.height)
	satelliteFov := s.satelliteFov
	if satelliteFov <= 0 {
		satelliteFov = s.fovDegrees
	}
	aspect := camera.WithAspect(viewports[0].Aspect())
	third := camera.NewCamera(camera.WithEye(s.eye), camera.WithPerspective(s.fovDegrees, s.near, s.far), aspect)
	pov := camera.NewCamera(camera.WithPerspective(satelliteFov, s.near, s.far), aspect)

	for i, c := range []camera.Camera{third, pov} {
		b := uniform.NewBlock(s.helper.cameraLayout)
		viewProj, err := b.Mat4(camera.UniformViewProj)
		if err != nil {
			return fmt.Errorf("camera uniform: %w", err)
		}
		eye, err := b.Vec3(camera.UniformEye)
		if err != nil {
			return fmt.Errorf("camera uniform: %w", err)
		}
		s.views[i] = &view{
			viewport: viewports[i],
			camera:   c,
			block:    b,
			viewProj: viewProj,
			eye:      eye,
			binding:  s.helper.cameraLayout.Binding,
		}
	}
	return nil
}

func (s *scene) Apply(state transform.State, toggles shading.Toggles) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := transform.Update(state)
	s.transforms = t
	s.helper.setModels(t)
	s.earth.setModels(t)

	s.spot.SetPosition(t.SatellitePosition)
	s.spot.AimAt([3]float32{})
	s.spot.SetCutoff(0, state.SpotCutoff)
	s.spot.SetEnabled(toggles.Spotlight && s.profile.Spotlight)
	s.point.SetEnabled(toggles.PointLight)

	s.views[ViewSatellite].camera.LookAt(transform.SatelliteEye(t))
	s.writeCameras()

	if p := s.earth.params; p != nil {
		p.lightPos.Set(s.point.Position())
		p.scale.Set(state.HeightScale)
		p.spotPos.Set(s.spot.Position())
		p.outerAngle.Set(s.spot.OuterCutoff())
		// specular in both viewports is lit as seen from the third-person eye
		p.viewPos.Set(s.views[ViewThirdPerson].camera.Eye())
		p.turnLight.Set(shading.Flag(s.point.Enabled()))
		p.turnSpot.Set(shading.Flag(s.spot.Enabled()))
		p.bumpNormals.Set(shading.Flag(s.profile.BumpNormals))
		p.gateSpecular.Set(shading.Flag(s.profile.GateSpecular))
	}
	if s.earth.Earth != nil {
		s.earth.Earth.Mesh.SetBoundingRadius(shading.BaseRadius + state.HeightScale*s.maxHeight)
	}
}

// writeCameras copies each camera's matrices into its block. Caller must hold the mutex.
func (s *scene) writeCameras() {
	for _, v := range s.views {
		v.viewProj.Set(v.camera.ViewProjectionMatrix())
		v.eye.Set(v.camera.Eye())
	}
}

func (s *scene) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	var writes bind_group_provider.Uploads
	for _, v := range s.views {
		writes = writes.AddDirty(v.camera.BindGroupProvider(), v.binding, v.block)
	}
	writes = s.helper.writes(writes)
	writes = s.earth.writes(writes)
	if len(writes) > 0 {
		s.renderer.WriteBuffers(writes)
	}

	if err := s.renderer.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	drawn := 0
	for _, v := range s.views {
		vp := v.viewport
		s.renderer.SetViewport(vp.X, vp.Y, vp.Width, vp.Height)
		frustum := v.camera.Frustum()
		for _, c := range []*Context{s.helper, s.earth} {
			n, err := c.draw(s.renderer, v.camera.BindGroupProvider(), frustum)
			drawn += n
			if err != nil {
				// the surface texture must go back before the next BeginFrame
				s.renderer.EndFrame()
				s.renderer.Present()
				return err
			}
		}
	}
	s.renderer.EndFrame()
	s.renderer.Present()

	s.stats = RenderStats{
		DrawCalls:   drawn,
		Uploads:     len(writes),
		UploadBytes: writes.Size(),
		Elapsed:     time.Since(start),
	}
	return nil
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.renderer.Resize(width, height)
	s.width, s.height = width, height
	viewports := SplitViewports(width, height)
	for i, v := range s.views {
		v.viewport = viewports[i]
		v.camera.SetAspect(viewports[i].Aspect())
	}
	s.writeCameras()
}

func (s *scene) Viewports() [2]Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return [2]Viewport{s.views[0].viewport, s.views[1].viewport}
}

func (s *scene) Camera(view int) camera.Camera {
	if view < 0 || view >= len(s.views) {
		return nil
	}
	return s.views[view].camera
}

func (s *scene) Helper() *Context {
	return s.helper
}

func (s *scene) Earth() *Context {
	return s.earth
}

func (s *scene) PointLight() light.Light {
	return s.point
}

func (s *scene) Spotlight() light.Light {
	return s.spot
}

func (s *scene) Transforms() transform.Transforms {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transforms
}

func (s *scene) Profile() shading.Profile {
	return s.profile
}

func (s *scene) Stats() RenderStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helper.release()
	s.earth.release()
	for _, v := range s.views {
		v.camera.BindGroupProvider().Release()
	}
	s.renderer.Release()
}
