package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// typeLayout is the size and alignment of a WGSL type in the uniform address space.
type typeLayout struct {
	size, align uint64
}

// primitiveLayouts follows https://www.w3.org/TR/WGSL/#alignment-and-size.
var primitiveLayouts = map[string]typeLayout{}

func init() {
	scalar := typeLayout{4, 4}
	for _, s := range []string{"f32", "i32", "u32", "bool"} {
		primitiveLayouts[s] = scalar
	}
	vectors := map[int]typeLayout{2: {8, 8}, 3: {12, 16}, 4: {16, 16}}
	for n, l := range vectors {
		for _, s := range []string{"f32", "i32", "u32"} {
			primitiveLayouts["vec"+strconv.Itoa(n)+"<"+s+">"] = l
		}
		primitiveLayouts["vec"+strconv.Itoa(n)+"f"] = l
	}
	for _, n := range []string{"mat3x3", "mat4x4"} {
		cols := uint64(n[3] - '0')
		l := typeLayout{cols * 16, 16}
		primitiveLayouts[n+"<f32>"] = l
		primitiveLayouts[n+"f"] = l
	}
}

type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// vertexFormats are the attribute types a vertex input struct may use.
var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
	"u32":       {wgpu.VertexFormatUint32, 4},
}

type textureKind struct {
	dimension    wgpu.TextureViewDimension
	multisampled bool
}

var textureKinds = map[string]textureKind{
	"texture_2d":              {wgpu.TextureViewDimension2D, false},
	"texture_2d_array":        {wgpu.TextureViewDimension2DArray, false},
	"texture_cube":            {wgpu.TextureViewDimensionCube, false},
	"texture_multisampled_2d": {wgpu.TextureViewDimension2D, true},
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

// alignUp rounds v up to a multiple of the power of two a.
func alignUp(v, a uint64) uint64 {
	if a == 0 {
		return v
	}
	return (v + a - 1) &^ (a - 1)
}

// resolveLayout resolves primitives, already resolved structs and fixed-size arrays of either.
func resolveLayout(typeName string, structs map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := structs[typeName]; ok {
		return l, true
	}

	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok {
		return typeLayout{}, false
	}
	inner, ok = strings.CutSuffix(inner, ">")
	if !ok {
		return typeLayout{}, false
	}
	parts := splitTopLevel(inner)
	if len(parts) != 2 {
		return typeLayout{}, false
	}
	elem, ok := resolveLayout(strings.TrimSpace(parts[0]), structs)
	if !ok {
		return typeLayout{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	return typeLayout{n * alignUp(elem.size, elem.align), elem.align}, true
}

// structLayout places members at their aligned offsets and rounds the total to the widest
// alignment. Builtin members take no space.
func structLayout(s wgslStruct, structs map[string]typeLayout) (typeLayout, bool) {
	var end uint64
	align := uint64(1)
	for _, m := range s.members {
		if m.builtin {
			continue
		}
		l, ok := resolveLayout(m.typeName, structs)
		if !ok {
			return typeLayout{}, false
		}
		end = alignUp(end, l.align) + l.size
		align = max(align, l.align)
	}
	return typeLayout{alignUp(end, align), align}, true
}

// resolveStructLayouts resolves structs in passes so a struct may nest one declared after it.
// Structs that never resolve are left out.
func resolveStructLayouts(all []wgslStruct) map[string]typeLayout {
	resolved := make(map[string]typeLayout, len(all))
	pending := append([]wgslStruct(nil), all...)
	for len(pending) > 0 {
		var next []wgslStruct
		for _, s := range pending {
			if l, ok := structLayout(s, resolved); ok {
				resolved[s.name] = l
			} else {
				next = append(next, s)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return resolved
}
