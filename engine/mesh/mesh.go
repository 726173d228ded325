package mesh

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-earth/common"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name                  string
	topology              wgpu.PrimitiveTopology
	vertexData, indexData []byte
	vertexCount           int
	indexCount            int
	stride                uint64
	boundingRadius        float32
	modelMatrix           [16]float32
	meshProvider          bind_group_provider.BindGroupProvider
	modelProvider         bind_group_provider.BindGroupProvider
}

// Mesh is one GPU-ready shape: a validated vertex buffer, a 16-bit index buffer, its topology and the model
// matrix that places it in the world. Meshes are created once at startup; only the model matrix changes afterwards.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Topology retrieves the primitive topology the index buffer describes.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: triangle list or line list
	Topology() wgpu.PrimitiveTopology

	// VertexData retrieves the encoded vertex buffer contents.
	//
	// Returns:
	//   - []byte: the vertex bytes
	VertexData() []byte

	// IndexData retrieves the encoded index buffer contents, padded to 4 bytes.
	//
	// Returns:
	//   - []byte: the index bytes
	IndexData() []byte

	// IndexCount retrieves the number of indices drawn per call.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// VertexCount retrieves the number of vertices in the vertex buffer.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// VertexStride retrieves the byte size of one vertex.
	//
	// Returns:
	//   - uint64: the stride in bytes
	VertexStride() uint64

	// BoundingRadius retrieves the radius of a sphere about the local origin that encloses the mesh.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// SetBoundingRadius replaces the bounding radius, for meshes whose extent is only known at draw time.
	//
	// Parameters:
	//   - r: the new radius
	SetBoundingRadius(r float32)

	// ModelMatrix retrieves the current column-major model matrix.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// SetModelMatrix replaces the model matrix.
	//
	// Parameters:
	//   - m: the new column-major model matrix
	SetModelMatrix(m [16]float32)

	// MeshProvider retrieves the BindGroupProvider holding the GPU vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// ModelProvider retrieves the BindGroupProvider holding this mesh's model uniform.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the model provider
	ModelProvider() bind_group_provider.BindGroupProvider
}

var _ Mesh = &mesh{}

// NewMesh validates a geometry and wraps it as a Mesh. The model matrix starts as identity.
//
// Parameters:
//   - name: the mesh identifier
//   - g: the generated geometry
//   - options: optional overrides
//
// Returns:
//   - Mesh: the new mesh
//   - error: the validation error when the geometry is malformed
func NewMesh[V Vertex](name string, g Geometry[V], options ...MeshBuilderOption) (Mesh, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	m := &mesh{
		name:          name,
		topology:      g.Topology,
		vertexData:    g.VertexBytes(),
		indexData:     g.IndexBytes(),
		vertexCount:   len(g.Vertices),
		indexCount:    len(g.Indices),
		stride:        g.Stride(),
		modelMatrix:   common.IdentityMatrix(),
		meshProvider:  bind_group_provider.NewBindGroupProvider(name+"_mesh", bind_group_provider.WithIndexFormat(wgpu.IndexFormatUint16)),
		modelProvider: bind_group_provider.NewBindGroupProvider(name + "_model"),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Topology() wgpu.PrimitiveTopology {
	return m.topology
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) IndexData() []byte {
	return m.indexData
}

func (m *mesh) IndexCount() int {
	return m.indexCount
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) VertexStride() uint64 {
	return m.stride
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *mesh) SetBoundingRadius(r float32) {
	m.boundingRadius = r
}

func (m *mesh) ModelMatrix() [16]float32 {
	return m.modelMatrix
}

func (m *mesh) SetModelMatrix(mat [16]float32) {
	m.modelMatrix = mat
}

func (m *mesh) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *mesh) ModelProvider() bind_group_provider.BindGroupProvider {
	return m.modelProvider
}

// LineExtent returns the largest distance from the origin to any vertex position.
// It is the natural bounding radius for helper geometry.
func LineExtent(vertices []LineVertex) float32 {
	var r float32
	for _, v := range vertices {
		if l := common.Vec3Length(v.Position); l > r {
			r = l
		}
	}
	return r
}
