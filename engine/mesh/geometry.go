package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrDivisions is returned when a generator is asked for fewer than one subdivision.
	ErrDivisions = errors.New("mesh: divisions must be at least 1")
	// ErrIndexOverflow is returned when a geometry would address more vertices than a 16-bit index can reach.
	ErrIndexOverflow = errors.New("mesh: vertex count exceeds 16-bit index range")
	// ErrRadius is returned when a helper generator is given a non-positive radius.
	ErrRadius = errors.New("mesh: radius must be positive")
	// ErrInvalidGeometry is returned by Validate when the index data does not describe the topology.
	ErrInvalidGeometry = errors.New("mesh: invalid geometry")
)

// MaxVertices is the number of vertices addressable by a 16-bit index buffer.
const MaxVertices = math.MaxUint16 + 1

// Geometry is CPU-side mesh data ready to upload: one vertex list, one 16-bit index list and the primitive topology
// the indices describe.
type Geometry[V Vertex] struct {
	Vertices []V
	Indices  []uint16
	Topology wgpu.PrimitiveTopology
}

// Validate checks that every index addresses an existing vertex and that the index count matches the topology.
//
// Returns:
//   - error: ErrInvalidGeometry or ErrIndexOverflow wrapped with details, nil when valid
func (g Geometry[V]) Validate() error {
	if len(g.Vertices) > MaxVertices {
		return fmt.Errorf("%d vertices: %w", len(g.Vertices), ErrIndexOverflow)
	}
	switch g.Topology {
	case wgpu.PrimitiveTopologyTriangleList:
		if len(g.Indices)%3 != 0 {
			return fmt.Errorf("%d indices is not a triangle list: %w", len(g.Indices), ErrInvalidGeometry)
		}
	case wgpu.PrimitiveTopologyLineList:
		if len(g.Indices)%2 != 0 {
			return fmt.Errorf("%d indices is not a line list: %w", len(g.Indices), ErrInvalidGeometry)
		}
	default:
		return fmt.Errorf("unsupported topology %v: %w", g.Topology, ErrInvalidGeometry)
	}
	for i, idx := range g.Indices {
		if int(idx) >= len(g.Vertices) {
			return fmt.Errorf("index %d at position %d out of range for %d vertices: %w", idx, i, len(g.Vertices), ErrInvalidGeometry)
		}
	}
	return nil
}

// VertexBytes returns the encoded vertex buffer.
func (g Geometry[V]) VertexBytes() []byte {
	return MarshalVertices(g.Vertices)
}

// IndexBytes returns the encoded, 4-byte padded index buffer.
func (g Geometry[V]) IndexBytes() []byte {
	return MarshalIndices(g.Indices)
}

// Stride returns the byte size of one vertex.
func (g Geometry[V]) Stride() uint64 {
	var zero V
	return uint64(zero.Size())
}
