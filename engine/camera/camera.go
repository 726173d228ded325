package camera

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
)

// cameras numbers the bind group providers so their GPU labels stay distinct.
var cameras atomic.Uint64

// DefaultEye is where the third-person camera starts.
var DefaultEye = [3]float32{30, 10, 30}

const (
	DefaultFovDegrees = 30
	DefaultNear       = 1
	DefaultFar        = 100
)

// pose is where the camera is and where it looks.
type pose struct {
	eye, target, up [3]float32
}

// lens is the perspective projection. fov is vertical and in radians.
type lens struct {
	fov, aspect, near, far float32
}

type cameraImpl struct {
	mu sync.RWMutex

	pose pose
	lens lens

	// Derived from pose and lens on every change.
	projection     [16]float32
	viewProjection [16]float32

	provider bind_group_provider.BindGroupProvider
}

// Camera is a perspective camera aimed at a target.
//
// Each viewport owns one camera and therefore one camera bind group: uniform writes are
// queued and land before the pass executes, so two viewports cannot share a buffer.
type Camera interface {
	Eye() [3]float32
	Target() [3]float32

	// Up returns the up vector passed to the last LookAt.
	Up() [3]float32

	// Fov is the vertical field of view in radians.
	Fov() float32
	Aspect() float32
	Near() float32
	Far() float32

	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection·view, column-major.
	ViewProjectionMatrix() [16]float32

	// Frustum returns the clip planes of ViewProjectionMatrix.
	Frustum() common.Frustum

	// BindGroupProvider holds the camera uniform buffer.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// LookAt moves the camera.
	//
	// Parameters:
	//   - eye: the new position
	//   - target: the point to look at
	//   - up: any vector not parallel to target - eye
	LookAt(eye, target, up [3]float32)

	// SetAspect changes the width / height ratio of the projection.
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates the third-person camera: at DefaultEye, aimed at the origin, with a 30 degree
// fov, clip planes at 1 and 100 and a square aspect. Options override any of it.
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		pose: pose{eye: DefaultEye, up: [3]float32{0, 1, 0}},
		lens: lens{
			fov:    common.Radians(DefaultFovDegrees),
			aspect: 1,
			near:   DefaultNear,
			far:    DefaultFar,
		},
		provider: bind_group_provider.NewBindGroupProvider(fmt.Sprintf("camera_%d", cameras.Add(1)-1)),
	}
	for _, opt := range options {
		opt(c)
	}
	c.derive()
	return c
}

func (c *cameraImpl) Eye() [3]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pose.eye
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pose.target
}

func (c *cameraImpl) Up() [3]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pose.up
}

func (c *cameraImpl) Fov() float32 {
	return c.readLens().fov
}

func (c *cameraImpl) Aspect() float32 {
	return c.readLens().aspect
}

func (c *cameraImpl) Near() float32 {
	return c.readLens().near
}

func (c *cameraImpl) Far() float32 {
	return c.readLens().far
}

func (c *cameraImpl) readLens() lens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lens
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projection
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewProjection
}

func (c *cameraImpl) Frustum() common.Frustum {
	vp := c.ViewProjectionMatrix()
	return common.ExtractFrustumFromMatrix(vp[:])
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.provider
}

func (c *cameraImpl) LookAt(eye, target, up [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pose = pose{eye: eye, target: target, up: up}
	c.derive()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.aspect = aspect
	c.derive()
}

// derive refreshes the matrices. The write lock must be held, or c not yet shared.
func (c *cameraImpl) derive() {
	var view [16]float32
	common.LookAt(view[:], c.pose.eye, c.pose.target, c.pose.up)
	common.Perspective(c.projection[:], c.lens.fov, c.lens.aspect, c.lens.near, c.lens.far)
	common.Mul4(c.viewProjection[:], c.projection[:], view[:])
}
