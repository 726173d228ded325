package shading

import (
	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/chewxy/math32"
)

const (
	// BaseRadius is the earth radius before displacement.
	BaseRadius = 5
	// DefaultEpsilon is the texture-space step for the central differences in BumpNormal.
	DefaultEpsilon = 1e-4
)

// Surface is the displaced earth surface at one grid vertex.
type Surface struct {
	Position [3]float32
	Normal   [3]float32
	Radius   float32
	// Drds and Drdt are the radial derivatives along u and v; both are zero on a flat height field.
	Drds, Drdt float32
}

// Displace places the vertex at (theta, phi) on the sphere of radius BaseRadius + scale * height.
// The height is sampled at (u, 1 - v).
//
// Parameters:
//   - theta, phi: the vertex angles in radians
//   - u, v: the vertex texture coordinate
//   - scale: the height multiplier
//   - field: the bump height source
//
// Returns:
//   - [3]float32: the model-space position
//   - float32: the displaced radius
func Displace(theta, phi, u, v, scale float32, field HeightField) ([3]float32, float32) {
	r := BaseRadius + scale*field.Height(u, 1-v)
	sinT, cosT := math32.Sincos(theta)
	sinP, cosP := math32.Sincos(phi)
	return [3]float32{r * sinT * sinP, r * cosP, r * cosT * sinP}, r
}

// BumpNormal derives the displaced surface normal from central differences of the height field.
//
// The tangents are the analytic derivatives of the base sphere with respect to the texture coordinates
// (theta = 2*pi*u, phi = (1 - v)*pi) plus the radial derivative along the outward direction. Poles are not
// special-cased; the tangents degenerate there and the result is an accepted approximation.
//
// Parameters:
//   - theta, phi: the vertex angles in radians
//   - u, v: the vertex texture coordinate
//   - scale: the height multiplier
//   - field: the bump height source
//   - eps: the texture-space difference step
//
// Returns:
//   - [3]float32: the unit normal in model space
//   - float32: the radial derivative along u
//   - float32: the radial derivative along v
func BumpNormal(theta, phi, u, v, scale float32, field HeightField, eps float32) ([3]float32, float32, float32) {
	s, t := u, 1-v
	drds := scale * (field.Height(s+eps, t) - field.Height(s-eps, t)) / (2 * eps)
	drdt := scale * (field.Height(s, t+eps) - field.Height(s, t-eps)) / (2 * eps)

	sinT, cosT := math32.Sincos(theta)
	sinP, cosP := math32.Sincos(phi)
	const pi = math32.Pi

	dpds := [3]float32{
		2*pi*(BaseRadius*cosT*sinP) + drds*(sinT*sinP),
		drds * cosP,
		2*pi*(-BaseRadius*sinT*sinP) + drds*(cosT*sinP),
	}
	dpdt := [3]float32{
		-pi*(BaseRadius*sinT*cosP) + drdt*(sinT*sinP),
		pi*(BaseRadius*sinP) + drdt*cosP,
		-pi*(BaseRadius*cosT*cosP) + drdt*(cosT*sinP),
	}
	return common.Vec3Normalize(common.Vec3Cross(dpds, dpdt)), drds, drdt
}

// Evaluate computes the displaced position and the normal the profile selects.
// Without bump normals the analytic sphere normal normalize(position) is used.
func Evaluate(theta, phi, u, v, scale float32, field HeightField, profile Profile) Surface {
	pos, r := Displace(theta, phi, u, v, scale, field)
	s := Surface{Position: pos, Radius: r}
	if profile.BumpNormals {
		s.Normal, s.Drds, s.Drdt = BumpNormal(theta, phi, u, v, scale, field, DefaultEpsilon)
	} else {
		s.Normal = common.Vec3Normalize(pos)
	}
	return s
}
