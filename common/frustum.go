package common

import "github.com/chewxy/math32"

// Plane holds the points p with Normal·p + Distance = 0.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum is a view volume as six inward-facing planes, indexed by the Frustum* constants.
type Frustum struct {
	Planes [6]Plane
}

const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix reads the planes off a view-projection matrix by combining its rows
// (Gribb and Hartmann). Depth runs 0 to 1 in WebGPU, so the near plane is the third row alone.
// Planes come back normalized.
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	row := func(r int) [4]float32 {
		return [4]float32{viewProj[r], viewProj[4+r], viewProj[8+r], viewProj[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	var planes [6][4]float32
	for i := range 4 {
		planes[FrustumLeft][i] = r3[i] + r0[i]
		planes[FrustumRight][i] = r3[i] - r0[i]
		planes[FrustumBottom][i] = r3[i] + r1[i]
		planes[FrustumTop][i] = r3[i] - r1[i]
		planes[FrustumNear][i] = r2[i]
		planes[FrustumFar][i] = r3[i] - r2[i]
	}

	var f Frustum
	for i, c := range planes {
		p := Plane{Normal: [3]float32{c[0], c[1], c[2]}, Distance: c[3]}
		if l := Vec3Length(p.Normal); l > 0 {
			p.Normal = Vec3Scale(p.Normal, 1/l)
			p.Distance /= l
		}
		f.Planes[i] = p
	}
	return f
}

// SphereVisible is false only for a sphere wholly behind some plane.
func (f Frustum) SphereVisible(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		if Vec3Dot(p.Normal, center)+p.Distance < -math32.Abs(radius) {
			return false
		}
	}
	return true
}
