package shader

// Kind is the WGSL type of a uniform member as far as the typed uniform setters care.
type Kind int

const (
	// KindUnknown covers members no setter writes, such as nested structs and arrays.
	KindUnknown Kind = iota
	KindFloat
	KindInt
	KindUint
	KindVec2
	KindVec3
	KindVec4
	KindMat4
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindFloat:   "f32",
	KindInt:     "i32",
	KindUint:    "u32",
	KindVec2:    "vec2<f32>",
	KindVec3:    "vec3<f32>",
	KindVec4:    "vec4<f32>",
	KindMat4:    "mat4x4<f32>",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// kindOf maps both WGSL spellings of each type.
func kindOf(typeName string) Kind {
	switch typeName {
	case "f32":
		return KindFloat
	case "i32":
		return KindInt
	case "u32":
		return KindUint
	case "vec2<f32>", "vec2f":
		return KindVec2
	case "vec3<f32>", "vec3f":
		return KindVec3
	case "vec4<f32>", "vec4f":
		return KindVec4
	case "mat4x4<f32>", "mat4x4f":
		return KindMat4
	}
	return KindUnknown
}

// UniformField is a member of a uniform struct and where it lives in the buffer.
type UniformField struct {
	Name   string
	Offset uint64
	Size   uint64
	Kind   Kind
}

// UniformLayout is the struct bound by one var<uniform>.
type UniformLayout struct {
	Group    int
	Binding  int
	VarName  string
	TypeName string

	// Size is the buffer size: the struct rounded up to its alignment.
	Size   uint64
	Fields []UniformField
}

// Field finds a member by name.
func (l UniformLayout) Field(name string) (UniformField, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return UniformField{}, false
}

// placeMembers computes the offset of every member of s. Members are kept in declaration order,
// which WGSL guarantees is also offset order.
func placeMembers(s wgslStruct, structs map[string]typeLayout) (UniformLayout, bool) {
	total, ok := structLayout(s, structs)
	if !ok {
		return UniformLayout{}, false
	}
	layout := UniformLayout{TypeName: s.name, Size: total.size, Fields: make([]UniformField, 0, len(s.members))}

	var offset uint64
	for _, m := range s.members {
		l, ok := resolveLayout(m.typeName, structs)
		if !ok {
			return UniformLayout{}, false
		}
		offset = alignUp(offset, l.align)
		layout.Fields = append(layout.Fields, UniformField{Name: m.name, Offset: offset, Size: l.size, Kind: kindOf(m.typeName)})
		offset += l.size
	}
	return layout, true
}
