// Package uniform provides typed CPU images of WGSL uniform structs. A Block is built from
// the layout the shader parser reports for a var<uniform> binding, and typed handles are
// resolved against that layout once, so a renamed or retyped WGSL member fails at link time
// instead of writing to the wrong offset.
package uniform

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/shader"
)

var (
	// ErrUnknownField is returned when a handle names a member the struct does not declare.
	ErrUnknownField = errors.New("uniform: unknown field")

	// ErrKindMismatch is returned when a handle's type differs from the member's WGSL type.
	ErrKindMismatch = errors.New("uniform: kind mismatch")
)

// block is the implementation of the Block interface.
type block struct {
	mu     *sync.Mutex
	layout shader.UniformLayout
	data   []byte
	dirty  bool
}

// Block is the byte image of one uniform struct plus a dirty flag.
type Block interface {
	// Layout retrieves the parsed struct layout the block was built from.
	//
	// Returns:
	//   - shader.UniformLayout: the layout
	Layout() shader.UniformLayout

	// Size retrieves the byte size of the struct.
	//
	// Returns:
	//   - uint64: the buffer size to allocate
	Size() uint64

	// Bytes retrieves a copy of the current image for upload.
	//
	// Returns:
	//   - []byte: the struct bytes
	Bytes() []byte

	// Dirty reports whether any value changed since the last ClearDirty. A new block starts dirty.
	//
	// Returns:
	//   - bool: true if the image needs uploading
	Dirty() bool

	// ClearDirty marks the image as uploaded.
	ClearDirty()

	// Mat4 resolves a mat4x4<f32> member.
	//
	// Parameters:
	//   - name: the WGSL member name
	//
	// Returns:
	//   - Mat4: the typed handle
	//   - error: ErrUnknownField or ErrKindMismatch
	Mat4(name string) (Mat4, error)

	// Vec3 resolves a vec3<f32> member.
	Vec3(name string) (Vec3, error)

	// Float resolves an f32 member.
	Float(name string) (Float, error)

	// Int resolves an i32 member.
	Int(name string) (Int, error)
}

var _ Block = &block{}

// NewBlock allocates a zeroed image for the layout.
//
// Parameters:
//   - layout: the layout parsed from the shader
//
// Returns:
//   - Block: the new block, dirty so the first upload happens
func NewBlock(layout shader.UniformLayout) Block {
	return &block{
		mu:     &sync.Mutex{},
		layout: layout,
		data:   make([]byte, layout.Size),
		dirty:  true,
	}
}

func (b *block) Layout() shader.UniformLayout {
	return b.layout
}

func (b *block) Size() uint64 {
	return b.layout.Size
}

func (b *block) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (b *block) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

func (b *block) ClearDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = false
}

func (b *block) Mat4(name string) (Mat4, error) {
	f, err := b.resolve(name, shader.KindMat4)
	if err != nil {
		return Mat4{}, err
	}
	return Mat4{handle{b, f.Offset}}, nil
}

func (b *block) Vec3(name string) (Vec3, error) {
	f, err := b.resolve(name, shader.KindVec3)
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{handle{b, f.Offset}}, nil
}

func (b *block) Float(name string) (Float, error) {
	f, err := b.resolve(name, shader.KindFloat)
	if err != nil {
		return Float{}, err
	}
	return Float{handle{b, f.Offset}}, nil
}

func (b *block) Int(name string) (Int, error) {
	f, err := b.resolve(name, shader.KindInt)
	if err != nil {
		return Int{}, err
	}
	return Int{handle{b, f.Offset}}, nil
}

func (b *block) resolve(name string, kind shader.Kind) (shader.UniformField, error) {
	f, ok := b.layout.Field(name)
	if !ok {
		return shader.UniformField{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, b.layout.TypeName, name)
	}
	if f.Kind != kind {
		return shader.UniformField{}, fmt.Errorf("%w: %s.%s is %s, not %s", ErrKindMismatch, b.layout.TypeName, name, f.Kind, kind)
	}
	return f, nil
}

// write copies encoded bytes at offset and marks the block dirty if anything changed.
func (b *block) write(offset uint64, encoded []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	dst := b.data[offset : offset+uint64(len(encoded))]
	if bytes.Equal(dst, encoded) {
		return
	}
	copy(dst, encoded)
	b.dirty = true
}

// handle is a resolved member position inside a block.
type handle struct {
	b      *block
	offset uint64
}

func (h handle) setFloats(values ...float32) {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	h.b.write(h.offset, buf)
}

// Mat4 writes a column-major mat4x4<f32> member.
type Mat4 struct{ handle }

// Set stores m.
func (h Mat4) Set(m [16]float32) {
	h.setFloats(m[:]...)
}

// Vec3 writes a vec3<f32> member.
type Vec3 struct{ handle }

// Set stores v.
func (h Vec3) Set(v [3]float32) {
	h.setFloats(v[:]...)
}

// Float writes an f32 member.
type Float struct{ handle }

// Set stores f.
func (h Float) Set(f float32) {
	h.setFloats(f)
}

// Int writes an i32 member.
type Int struct{ handle }

// Set stores i.
func (h Int) Set(i int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(i))
	h.b.write(h.offset, buf[:])
}
