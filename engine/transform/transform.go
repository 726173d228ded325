// Package transform turns control state into the model matrices of the scene and the satellite's world pose.
// Everything here is a pure function of its input.
package transform

import (
	"github.com/Carmen-Shannon/oxy-earth/common"
)

// SatelliteDistance is the satellite's distance from the earth centre along its local +Z axis.
const SatelliteDistance = 10

// State is the control state the transforms are derived from. Angles are in degrees.
type State struct {
	Longitude   float32
	Latitude    float32
	Rotation    float32
	HeightScale float32
	SpotCutoff  float32
}

// Transforms holds every model matrix and derived position for one State.
type Transforms struct {
	Earth     [16]float32
	Satellite [16]float32
	Latitude  [16]float32
	Axis      [16]float32
	// SatellitePosition is the satellite in world space, satelliteM * (0, 0, SatelliteDistance, 1).
	SatellitePosition [3]float32
}

// Update derives the model matrices from s.
//
// Earth spins by the rotation about Y. The satellite is rotateY(longitude) * rotateX(-latitude), so latitude tilts
// it within its meridian before longitude swings the meridian around. The latitude ring follows the longitude only
// and the axes never move.
//
// Parameters:
//   - s: the control state
//
// Returns:
//   - Transforms: the model matrices and the satellite position
func Update(s State) Transforms {
	t := Transforms{
		Earth:     common.IdentityMatrix(),
		Satellite: common.IdentityMatrix(),
		Latitude:  common.IdentityMatrix(),
		Axis:      common.IdentityMatrix(),
	}

	common.RotateY(t.Earth[:], t.Earth[:], common.Radians(s.Rotation))

	common.RotateY(t.Satellite[:], t.Satellite[:], common.Radians(s.Longitude))
	common.RotateX(t.Satellite[:], t.Satellite[:], common.Radians(-s.Latitude))

	common.RotateY(t.Latitude[:], t.Latitude[:], common.Radians(s.Longitude))

	t.SatellitePosition = common.TransformPoint(t.Satellite[:], [3]float32{0, 0, SatelliteDistance})
	return t
}

// SatelliteEye returns the look-at frame of the satellite's point-of-view camera.
//
// The eye is the satellite's world position and the target is the earth centre. The up vector is the satellite's
// local +Y carried into world space, so the frame is defined at every latitude including the poles. The view matrix
// built from this frame equals inverse(satelliteM * translate(0, 0, SatelliteDistance)).
//
// Parameters:
//   - t: the transforms from Update
//
// Returns:
//   - eye, target, up: the camera frame in world space
func SatelliteEye(t Transforms) (eye, target, up [3]float32) {
	eye = t.SatellitePosition
	up = common.Vec3Normalize(common.TransformDirection(t.Satellite[:], [3]float32{0, 1, 0}))
	return eye, [3]float32{}, up
}

// NormalMatrix returns transpose(inverse(m)), or identity when m is singular.
func NormalMatrix(m [16]float32) [16]float32 {
	out := common.IdentityMatrix()
	if !common.NormalMatrix(out[:], m[:]) {
		return common.IdentityMatrix()
	}
	return out
}
