package common

import (
	"math"

	"github.com/chewxy/math32"
)

// Matrices are flat column-major [16]float32 slices, the layout WGSL reads a mat4x4<f32> in.
// Functions that write take the destination first, and the destination may alias any input.

// Identity overwrites m with the identity.
func Identity(m []float32) {
	clear(m[:16])
	for i := 0; i < 16; i += 5 {
		m[i] = 1
	}
}

// IdentityMatrix returns a new identity matrix.
func IdentityMatrix() [16]float32 {
	var m [16]float32
	Identity(m[:])
	return m
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// Mul4 stores a * b in out.
func Mul4(out, a, b []float32) {
	var product [16]float32
	for c := range 4 {
		for r := range 4 {
			var acc float32
			for k := range 4 {
				acc += a[k*4+r] * b[c*4+k]
			}
			product[c*4+r] = acc
		}
	}
	copy(out, product[:])
}

// axisRotation builds a rotation of rad about axis 0 (X), 1 (Y) or 2 (Z), turning the
// next axis towards the one after it.
func axisRotation(axis int, rad float32) [16]float32 {
	m := IdentityMatrix()
	i, j := (axis+1)%3, (axis+2)%3
	s, c := math32.Sincos(rad)
	m[i*4+i], m[i*4+j] = c, s
	m[j*4+i], m[j*4+j] = -s, c
	return m
}

// RotateX stores m * Rx(rad) in out.
func RotateX(out, m []float32, rad float32) {
	r := axisRotation(0, rad)
	Mul4(out, m, r[:])
}

// RotateY stores m * Ry(rad) in out.
func RotateY(out, m []float32, rad float32) {
	r := axisRotation(1, rad)
	Mul4(out, m, r[:])
}

// Translate stores m * T(x, y, z) in out.
func Translate(out, m []float32, x, y, z float32) {
	t := IdentityMatrix()
	t[12], t[13], t[14] = x, y, z
	Mul4(out, m, t[:])
}

func apply(m []float32, v [3]float32, w float32) [3]float32 {
	var out [3]float32
	for r := range out {
		out[r] = m[r]*v[0] + m[4+r]*v[1] + m[8+r]*v[2] + m[12+r]*w
	}
	return out
}

// TransformPoint returns m applied to the point p. There is no perspective divide; the
// matrices passed here are affine.
func TransformPoint(m []float32, p [3]float32) [3]float32 {
	return apply(m, p, 1)
}

// TransformDirection returns m applied to d, ignoring translation.
func TransformDirection(m []float32, d [3]float32) [3]float32 {
	return apply(m, d, 0)
}

// Perspective writes a right-handed projection with fovY in radians. View-space depths
// -near and -far land on 0 and 1, the WebGPU depth range.
func Perspective(out []float32, fovY, aspect, near, far float32) {
	focal := 1 / math32.Tan(fovY/2)
	depth := 1 / (near - far)

	clear(out[:16])
	out[0] = focal / aspect
	out[5] = focal
	out[10] = far * depth
	out[11] = -1
	out[14] = near * far * depth
}

// Invert4 stores the inverse of m in out by Gauss-Jordan elimination with partial pivoting.
// It reports false, leaving out untouched, when m is singular.
func Invert4(out, m []float32) bool {
	// Rows of [m | I], in float64 so the round trip survives float32 input.
	var aug [4][8]float64
	for r := range 4 {
		for c := range 4 {
			aug[r][c] = float64(m[c*4+r])
		}
		aug[r][4+r] = 1
	}

	for col := range 4 {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivot][col]) {
				pivot = r
			}
		}
		if aug[pivot][col] == 0 {
			return false
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		scale := 1 / aug[col][col]
		for c := range aug[col] {
			aug[col][c] *= scale
		}
		for r := range 4 {
			if r == col || aug[r][col] == 0 {
				continue
			}
			f := aug[r][col]
			for c := range aug[r] {
				aug[r][c] -= f * aug[col][c]
			}
		}
	}

	for r := range 4 {
		for c := range 4 {
			out[c*4+r] = float32(aug[r][4+c])
		}
	}
	return true
}

// NormalMatrix stores the inverse transpose of m in out, which carries normals through
// non-uniform scale. It reports false when m is singular.
func NormalMatrix(out, m []float32) bool {
	var inv [16]float32
	if !Invert4(inv[:], m) {
		return false
	}
	for c := range 4 {
		for r := range 4 {
			out[c*4+r] = inv[r*4+c]
		}
	}
	return true
}

// LookAt writes the world-to-view matrix of an eye at eye looking at center. The view looks
// down -Z with up projected onto +Y.
func LookAt(out []float32, eye, center, up [3]float32) {
	z := Vec3Normalize(Vec3Sub(eye, center))
	x := Vec3Normalize(Vec3Cross(up, z))
	y := Vec3Cross(z, x)

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -Vec3Dot(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -Vec3Dot(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -Vec3Dot(z, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Vec3Add, Vec3Sub and Vec3Scale work componentwise.
func Vec3Add(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func Vec3Sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func Vec3Scale(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

func Vec3Dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Vec3Cross is right-handed: x cross y is z.
func Vec3Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Vec3Length(v [3]float32) float32 {
	return math32.Sqrt(Vec3Dot(v, v))
}

// Vec3Normalize leaves the zero vector as it is.
func Vec3Normalize(v [3]float32) [3]float32 {
	l := Vec3Length(v)
	if l == 0 {
		return v
	}
	return Vec3Scale(v, 1/l)
}
