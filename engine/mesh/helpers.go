package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	colorRed     = [3]float32{1, 0, 0}
	colorGreen   = [3]float32{0, 1, 0}
	colorBlue    = [3]float32{0, 0, 1}
	colorYellow  = [3]float32{1, 1, 0}
	colorWhite   = [3]float32{1, 1, 1}
	colorMagenta = [3]float32{1, 0.08, 0.6}
)

// axisVertexCount is the number of vertices in the fixed X/Y/Z axis block shared by AxisLongitude.
const axisVertexCount = 9

// AxisLongitude generates the three coordinate axes followed by the equatorial longitude circle.
//
// The axes are nine vertices (X red, Y green, Z blue; each as origin, +r, -r) joined as six segments. The circle
// is n+1 yellow vertices (r sin(theta), 0, r cos(theta)) for theta = 2*pi*i/n, joined as n consecutive segments.
//
// Parameters:
//   - n: circle subdivisions, at least 1
//   - radius: axis half-length and circle radius, positive
//
// Returns:
//   - Geometry[LineVertex]: 9 + n + 1 vertices and 12 + 2n line-list indices
//   - error: ErrDivisions, ErrRadius or ErrIndexOverflow
func AxisLongitude(n int, radius float32) (Geometry[LineVertex], error) {
	if err := checkRing(n, radius, axisVertexCount); err != nil {
		return Geometry[LineVertex]{}, fmt.Errorf("axis-longitude: %w", err)
	}

	r := radius
	vertices := make([]LineVertex, 0, axisVertexCount+n+1)
	vertices = append(vertices,
		LineVertex{Position: [3]float32{0, 0, 0}, Color: colorRed},
		LineVertex{Position: [3]float32{r, 0, 0}, Color: colorRed},
		LineVertex{Position: [3]float32{-r, 0, 0}, Color: colorRed},
		LineVertex{Position: [3]float32{0, 0, 0}, Color: colorGreen},
		LineVertex{Position: [3]float32{0, r, 0}, Color: colorGreen},
		LineVertex{Position: [3]float32{0, -r, 0}, Color: colorGreen},
		LineVertex{Position: [3]float32{0, 0, 0}, Color: colorBlue},
		LineVertex{Position: [3]float32{0, 0, r}, Color: colorBlue},
		LineVertex{Position: [3]float32{0, 0, -r}, Color: colorBlue},
	)
	indices := make([]uint16, 0, 12+2*n)
	indices = append(indices, 0, 1, 0, 2, 3, 4, 3, 5, 6, 7, 6, 8)

	for i := 0; i <= n; i++ {
		s, c := math32.Sincos(2 * math32.Pi * float32(i) / float32(n))
		vertices = append(vertices, LineVertex{Position: [3]float32{r * s, 0, r * c}, Color: colorYellow})
	}
	indices = appendRing(indices, axisVertexCount, n)

	return Geometry[LineVertex]{
		Vertices: vertices,
		Indices:  indices,
		Topology: wgpu.PrimitiveTopologyLineList,
	}, nil
}

// Latitude generates the white meridian ring the satellite travels along as latitude changes.
// The ring lies in the YZ plane, (0, r sin(theta), r cos(theta)), and is rotated by the longitude at runtime.
//
// Parameters:
//   - n: ring subdivisions, at least 1
//   - radius: ring radius, positive
//
// Returns:
//   - Geometry[LineVertex]: n + 1 vertices and 2n line-list indices
//   - error: ErrDivisions, ErrRadius or ErrIndexOverflow
func Latitude(n int, radius float32) (Geometry[LineVertex], error) {
	if err := checkRing(n, radius, 0); err != nil {
		return Geometry[LineVertex]{}, fmt.Errorf("latitude: %w", err)
	}

	vertices := make([]LineVertex, 0, n+1)
	for i := 0; i <= n; i++ {
		s, c := math32.Sincos(2 * math32.Pi * float32(i) / float32(n))
		vertices = append(vertices, LineVertex{Position: [3]float32{0, radius * s, radius * c}, Color: colorWhite})
	}

	return Geometry[LineVertex]{
		Vertices: vertices,
		Indices:  appendRing(make([]uint16, 0, 2*n), 0, n),
		Topology: wgpu.PrimitiveTopologyLineList,
	}, nil
}

// Satellite generates the single segment drawn from the origin to the satellite along local +Z.
//
// Parameters:
//   - radius: segment length, the satellite's orbital distance
//
// Returns:
//   - Geometry[LineVertex]: two vertices and one segment
//   - error: ErrRadius when radius is not positive
func Satellite(radius float32) (Geometry[LineVertex], error) {
	if !(radius > 0) {
		return Geometry[LineVertex]{}, fmt.Errorf("satellite with radius %v: %w", radius, ErrRadius)
	}
	return Geometry[LineVertex]{
		Vertices: []LineVertex{
			{Position: [3]float32{0, 0, 0}, Color: colorMagenta},
			{Position: [3]float32{0, 0, radius}, Color: colorMagenta},
		},
		Indices:  []uint16{0, 1},
		Topology: wgpu.PrimitiveTopologyLineList,
	}, nil
}

func checkRing(n int, radius float32, base int) error {
	if n < 1 {
		return fmt.Errorf("%d divisions: %w", n, ErrDivisions)
	}
	if !(radius > 0) {
		return fmt.Errorf("radius %v: %w", radius, ErrRadius)
	}
	if base+n+1 > MaxVertices {
		return fmt.Errorf("%d divisions: %w", n, ErrIndexOverflow)
	}
	return nil
}

// appendRing joins n+1 consecutive vertices starting at base into n segments.
func appendRing(indices []uint16, base, n int) []uint16 {
	for i := 0; i < n; i++ {
		indices = append(indices, uint16(base+i), uint16(base+i+1))
	}
	return indices
}
