package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUModelUniformSource is the WGSL ModelUniform struct: the model matrix and its normal matrix (128 bytes).
//
//go:embed assets/model_uniform.wgsl
var GPUModelUniformSource string

// GPUEarthVertexSource is the WGSL vertex input matching EarthVertex.
//
//go:embed assets/earth_vertex.wgsl
var GPUEarthVertexSource string

// GPULineVertexSource is the WGSL vertex input matching LineVertex.
//
//go:embed assets/line_vertex.wgsl
var GPULineVertexSource string

// ModelUniform member names.
const (
	UniformModel        = "model"
	UniformNormalMatrix = "normalMatrix"
)

// Vertex is implemented by every vertex type a Geometry can hold.
type Vertex interface {
	// Size returns the byte stride of one vertex in the GPU vertex buffer.
	Size() int
	// Marshal encodes the vertex into its little-endian GPU representation.
	Marshal() []byte
}

// EarthVertex is the earth sphere's per-vertex input.
// The world position is not stored; the earth program rebuilds it from the angles and the bump height.
//
// Memory layout (16 bytes):
//
//	offset  0: angles   vec2<f32> (theta, phi)
//	offset  8: texCoord vec2<f32> (u, v)
type EarthVertex struct {
	Angles   [2]float32
	TexCoord [2]float32
}

// Size returns the byte size of one EarthVertex.
func (v EarthVertex) Size() int {
	return 16
}

// Marshal serializes the EarthVertex into a 16-byte slice.
func (v EarthVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Angles[:]...)
	putFloats(buf[8:], v.TexCoord[:]...)
	return buf
}

// LineVertex is the helper geometry's per-vertex input.
//
// Memory layout (24 bytes):
//
//	offset  0: position vec3<f32>
//	offset 12: color    vec3<f32>
type LineVertex struct {
	Position [3]float32
	Color    [3]float32
}

// Size returns the byte size of one LineVertex.
func (v LineVertex) Size() int {
	return 24
}

// Marshal serializes the LineVertex into a 24-byte slice.
func (v LineVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	putFloats(buf, v.Position[:]...)
	putFloats(buf[12:], v.Color[:]...)
	return buf
}

func putFloats(buf []byte, values ...float32) {
	for i, f := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
}

// MarshalVertices concatenates the GPU representation of every vertex.
//
// Parameters:
//   - vertices: the vertices to encode
//
// Returns:
//   - []byte: the vertex buffer contents
func MarshalVertices[V Vertex](vertices []V) []byte {
	if len(vertices) == 0 {
		return nil
	}
	buf := make([]byte, 0, len(vertices)*vertices[0].Size())
	for _, v := range vertices {
		buf = append(buf, v.Marshal()...)
	}
	return buf
}

// MarshalIndices encodes 16-bit indices little-endian.
// The result is zero padded to a multiple of 4 bytes since queue buffer writes require it;
// the padding is never addressed because draw calls use the real index count.
//
// Parameters:
//   - indices: the indices to encode
//
// Returns:
//   - []byte: the index buffer contents
func MarshalIndices(indices []uint16) []byte {
	size := len(indices) * 2
	size = (size + 3) &^ 3
	buf := make([]byte, size)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}
