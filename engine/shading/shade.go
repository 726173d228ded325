package shading

import (
	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/chewxy/math32"
)

// SpecularExponent is the Phong shininess used by both lights.
const SpecularExponent = 64

// Profile selects the shading features of a program variant.
type Profile struct {
	// BumpNormals derives normals from the height field instead of the sphere.
	BumpNormals bool
	// Spotlight enables the satellite spotlight terms.
	Spotlight bool
	// GateSpecular forces the point light specular to zero where its diffuse term is not positive.
	GateSpecular bool
}

var (
	// BasicProfile is the analytic-normal point light shading.
	BasicProfile = Profile{GateSpecular: true}
	// SpotlightBumpProfile is bump-mapped shading with the satellite spotlight.
	SpotlightBumpProfile = Profile{BumpNormals: true, Spotlight: true}
)

// Toggles are the runtime light switches.
type Toggles struct {
	PointLight bool
	Spotlight  bool
}

// ShadeInput is the per-fragment data the earth program interpolates.
type ShadeInput struct {
	Normal         [3]float32
	SurfaceToLight [3]float32
	SurfaceToView  [3]float32
	SurfaceToSpot  [3]float32
	// SpecularMask is the red channel of the specular map.
	SpecularMask float32
	// OuterAngle is the spotlight cutoff in degrees.
	OuterAngle float32
}

// Contribution holds the four lighting terms before they are combined with the base colour.
type Contribution struct {
	Diffuse      float32
	Specular     float32
	SpotDiffuse  float32
	SpotSpecular float32
}

// Smoothstep is the Hermite interpolation between edge0 and edge1.
// When the edges coincide it returns the step value: 0 for x < edge0 and 1 otherwise.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := common.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Shade evaluates the earth lighting model for one fragment.
//
// Parameters:
//   - in: the interpolated fragment inputs
//   - profile: the variant features
//   - toggles: the runtime light switches
//
// Returns:
//   - Contribution: the lighting terms, with disabled lights contributing zero
func Shade(in ShadeInput, profile Profile, toggles Toggles) Contribution {
	n := common.Vec3Normalize(in.Normal)
	toLight := common.Vec3Normalize(in.SurfaceToLight)
	toView := common.Vec3Normalize(in.SurfaceToView)

	var c Contribution
	if toggles.PointLight {
		c.Diffuse = common.Clamp(common.Vec3Dot(n, toLight), 0, 1)
		if !profile.GateSpecular || c.Diffuse > 0 {
			c.Specular = phong(n, toLight, toView) * in.SpecularMask
		}
	}

	if profile.Spotlight && toggles.Spotlight {
		toSpot := common.Vec3Normalize(in.SurfaceToSpot)
		outer := math32.Cos(common.Radians(in.OuterAngle))
		inner := math32.Cos(0)
		cone := Smoothstep(outer, inner, common.Vec3Dot(n, toSpot))
		c.SpotDiffuse = common.Clamp(cone*common.Vec3Dot(n, toSpot), 0, 1)
		c.SpotSpecular = phong(n, toSpot, toView) * in.SpecularMask
	}
	return c
}

// phong is the Blinn-Phong highlight for the half vector of toLight and toView.
func phong(n, toLight, toView [3]float32) float32 {
	h := common.Vec3Normalize(common.Vec3Add(toLight, toView))
	return math32.Pow(math32.Max(common.Vec3Dot(n, h), 0), SpecularExponent)
}

// Combine applies the lighting terms to a base colour channel-wise: base * (diffuse + spotDiffuse) +
// specular + spotSpecular. The result is not clamped; the framebuffer saturates it.
func Combine(base [3]float32, c Contribution) [3]float32 {
	k := c.Diffuse + c.SpotDiffuse
	add := c.Specular + c.SpotSpecular
	return [3]float32{base[0]*k + add, base[1]*k + add, base[2]*k + add}
}
