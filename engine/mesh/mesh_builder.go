package mesh

import "github.com/Carmen-Shannon/oxy-earth/engine/renderer/bind_group_provider"

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithBoundingRadius is an option builder that sets the bounding sphere radius used for culling.
//
// Parameters:
//   - r: the bounding radius
//
// Returns:
//   - MeshBuilderOption: a function that applies the bounding radius option to a mesh
func WithBoundingRadius(r float32) MeshBuilderOption {
	return func(m *mesh) {
		m.boundingRadius = r
	}
}

// WithModelMatrix is an option builder that sets the initial model matrix.
//
// Parameters:
//   - mat: the column-major model matrix
//
// Returns:
//   - MeshBuilderOption: a function that applies the model matrix option to a mesh
func WithModelMatrix(mat [16]float32) MeshBuilderOption {
	return func(m *mesh) {
		m.modelMatrix = mat
	}
}

// WithMeshProvider is an option builder that replaces the provider holding the vertex and index buffers.
//
// Parameters:
//   - provider: the BindGroupProvider to use
//
// Returns:
//   - MeshBuilderOption: a function that applies the mesh provider option to a mesh
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) MeshBuilderOption {
	return func(m *mesh) {
		m.meshProvider = provider
	}
}
