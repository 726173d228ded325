package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertMatrixInDelta(t *testing.T, want, got [16]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "element %d", i)
	}
}

func TestRotateYMovesZTowardX(t *testing.T) {
	m := IdentityMatrix()
	RotateY(m[:], m[:], Radians(90))

	p := TransformPoint(m[:], [3]float32{0, 0, 1})
	assert.InDelta(t, 1, p[0], tol)
	assert.InDelta(t, 0, p[1], tol)
	assert.InDelta(t, 0, p[2], tol)
}

func TestRotateXMovesYTowardZ(t *testing.T) {
	m := IdentityMatrix()
	RotateX(m[:], m[:], Radians(90))

	p := TransformPoint(m[:], [3]float32{0, 1, 0})
	assert.InDelta(t, 0, p[0], tol)
	assert.InDelta(t, 0, p[1], tol)
	assert.InDelta(t, 1, p[2], tol)
}

func TestRotationsPostMultiply(t *testing.T) {
	// m = Ry * Rx, so a point is rotated about X first.
	m := IdentityMatrix()
	RotateY(m[:], m[:], Radians(90))
	RotateX(m[:], m[:], Radians(-90))

	p := TransformPoint(m[:], [3]float32{0, 0, 1})
	assert.InDelta(t, 0, p[0], tol)
	assert.InDelta(t, 1, p[1], tol)
	assert.InDelta(t, 0, p[2], tol)
}

func TestTranslateAndTransform(t *testing.T) {
	m := IdentityMatrix()
	Translate(m[:], m[:], 1, 2, 3)

	assert.Equal(t, [3]float32{1, 2, 3}, TransformPoint(m[:], [3]float32{}))
	assert.Equal(t, [3]float32{0, 0, 1}, TransformDirection(m[:], [3]float32{0, 0, 1}))
}

func TestInvert4RoundTrip(t *testing.T) {
	m := IdentityMatrix()
	RotateY(m[:], m[:], 0.7)
	RotateX(m[:], m[:], -0.3)
	Translate(m[:], m[:], 0, 0, 10)

	var inv, product [16]float32
	require.True(t, Invert4(inv[:], m[:]))
	Mul4(product[:], m[:], inv[:])
	assertMatrixInDelta(t, IdentityMatrix(), product)
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	out[0] = 42
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, float32(42), out[0])
}

func TestNormalMatrixOfRotationIsRotation(t *testing.T) {
	m := IdentityMatrix()
	RotateY(m[:], m[:], 1.1)

	var n [16]float32
	require.True(t, NormalMatrix(n[:], m[:]))
	assertMatrixInDelta(t, m, n)
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	var view [16]float32
	eye := [3]float32{30, 10, 30}
	LookAt(view[:], eye, [3]float32{}, [3]float32{0, 1, 0})

	assert.InDeltaSlice(t, []float32{0, 0, 0}, toSlice(TransformPoint(view[:], eye)), tol)

	// the target sits straight ahead on -Z in view space
	target := TransformPoint(view[:], [3]float32{})
	assert.InDelta(t, 0, target[0], tol)
	assert.InDelta(t, 0, target[1], tol)
	assert.InDelta(t, -Vec3Length(eye), target[2], 1e-4)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], Radians(30), 1, 1, 100)

	depth := func(z float32) float32 {
		clipZ := proj[10]*z + proj[14]
		clipW := proj[11] * z
		return clipZ / clipW
	}
	assert.InDelta(t, 0, depth(-1), tol)
	assert.InDelta(t, 1, depth(-100), tol)
	assert.InDelta(t, 1/math32.Tan(Radians(15)), proj[5], tol)
}

func TestFrustumSphereVisible(t *testing.T) {
	var view, proj, vp [16]float32
	LookAt(view[:], [3]float32{30, 10, 30}, [3]float32{}, [3]float32{0, 1, 0})
	Perspective(proj[:], Radians(30), 1, 1, 100)
	Mul4(vp[:], proj[:], view[:])

	f := ExtractFrustumFromMatrix(vp[:])
	assert.True(t, f.SphereVisible([3]float32{}, 5))
	assert.False(t, f.SphereVisible([3]float32{-200, 0, -200}, 5))
	assert.False(t, f.SphereVisible([3]float32{60, 20, 60}, 1), "behind the eye")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), Clamp(float32(-1), 0, 1))
	assert.Equal(t, float32(1), Clamp(float32(3), 0, 1))
	assert.Equal(t, 5, Clamp(5, 0, 10))
}

func toSlice(v [3]float32) []float32 {
	return v[:]
}
