package camera

import "github.com/Carmen-Shannon/oxy-earth/common"

type CameraBuilderOption func(*cameraImpl)

// WithEye sets the starting position. The camera still looks at the origin unless WithTarget
// says otherwise.
func WithEye(eye [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose.eye = eye
	}
}

// WithTarget sets the starting look-at point.
func WithTarget(target [3]float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.pose.target = target
	}
}

// WithPerspective sets the vertical field of view and the clip planes.
//
// Parameters:
//   - fovDegrees: the vertical field of view in degrees
//   - near, far: the clip plane distances, 0 < near < far
//
// Returns:
//   - CameraBuilderOption: the option
func WithPerspective(fovDegrees, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.fov = common.Radians(fovDegrees)
		c.lens.near, c.lens.far = near, far
	}
}

func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens.aspect = aspect
	}
}
