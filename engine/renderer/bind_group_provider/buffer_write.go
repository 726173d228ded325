package bind_group_provider

// BufferWrite is one queue write into the buffer behind a provider's binding.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// DirtySource is a CPU-side byte image that tracks whether it changed since its last upload.
// uniform.Block satisfies it.
type DirtySource interface {
	Bytes() []byte
	Dirty() bool
	ClearDirty()
}

// Uploads batches the buffer writes of one render.
type Uploads []BufferWrite

// AddDirty appends a write of src to the given binding when src is dirty, then clears its flag.
// Clean sources are skipped.
//
// Parameters:
//   - provider: the provider owning the buffer
//   - binding: the binding index within the provider
//   - src: the byte image to upload
//
// Returns:
//   - Uploads: the extended batch
func (u Uploads) AddDirty(provider BindGroupProvider, binding int, src DirtySource) Uploads {
	if !src.Dirty() {
		return u
	}
	u = append(u, BufferWrite{Provider: provider, Binding: binding, Data: src.Bytes()})
	src.ClearDirty()
	return u
}

// Size returns the number of bytes in the batch.
func (u Uploads) Size() int {
	n := 0
	for _, w := range u {
		n += len(w.Data)
	}
	return n
}
