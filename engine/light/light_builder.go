package light

import "github.com/Carmen-Shannon/oxy-earth/common"

// LightBuilderOption configures NewLight.
type LightBuilderOption func(*lightImpl)

func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithDirection sets where a spot light points. It is normalized, and a zero vector leaves
// the default -Y.
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		d := [3]float32{x, y, z}
		if common.Vec3Length(d) == 0 {
			return
		}
		l.direction = common.Vec3Normalize(d)
	}
}

// WithCutoff sets the spot cone half angles in degrees.
//
// Parameters:
//   - innerDeg: full-intensity half angle, 0 for the satellite spotlight
//   - outerDeg: cut-off half angle
//
// Returns:
//   - LightBuilderOption: the option
func WithCutoff(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.setCutoff(innerDeg, outerDeg)
	}
}

// WithEnabled sets whether the light starts switched on.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
