package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// MaxEarthDivisions is the largest subdivision count whose (n+1)^2 vertices still fit a 16-bit index.
const MaxEarthDivisions = 255

// Earth generates the UV sphere parameter grid for the earth.
//
// Row j runs from v = 1 at the north pole to v = 0 at the south pole with phi = (1 - v) * pi, and column i runs
// u = i/n with theta = 2*pi*u. The seam column (u = 1) duplicates u = 0 so the texture wraps cleanly.
// Each quad (i, j) with p1 = j*(n+1) + i and p2 = p1 + n + 1 emits triangles (p1, p2, p1+1) and (p1+1, p2, p2+1).
//
// Parameters:
//   - n: subdivisions along both angles, 1 <= n <= MaxEarthDivisions
//
// Returns:
//   - Geometry[EarthVertex]: (n+1)^2 vertices and 6n^2 triangle-list indices
//   - error: ErrDivisions or ErrIndexOverflow when n is out of range
func Earth(n int) (Geometry[EarthVertex], error) {
	if n < 1 {
		return Geometry[EarthVertex]{}, fmt.Errorf("earth with %d divisions: %w", n, ErrDivisions)
	}
	if (n+1)*(n+1) > MaxVertices {
		return Geometry[EarthVertex]{}, fmt.Errorf("earth with %d divisions: %w", n, ErrIndexOverflow)
	}

	stride := n + 1
	vertices := make([]EarthVertex, 0, stride*stride)
	for j := 0; j <= n; j++ {
		v := 1 - float32(j)/float32(n)
		phi := (1 - v) * math32.Pi
		for i := 0; i <= n; i++ {
			u := float32(i) / float32(n)
			theta := 2 * math32.Pi * u
			vertices = append(vertices, EarthVertex{
				Angles:   [2]float32{theta, phi},
				TexCoord: [2]float32{u, v},
			})
		}
	}

	indices := make([]uint16, 0, 6*n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p1 := uint16(j*stride + i)
			p2 := p1 + uint16(stride)
			indices = append(indices,
				p1, p2, p1+1,
				p1+1, p2, p2+1,
			)
		}
	}

	return Geometry[EarthVertex]{
		Vertices: vertices,
		Indices:  indices,
		Topology: wgpu.PrimitiveTopologyTriangleList,
	}, nil
}
