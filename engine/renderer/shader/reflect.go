package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	structPattern   = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	memberPattern   = regexp.MustCompile(`^((?:@\w+(?:\([^)]*\))?\s*)*)(\w+)\s*:\s*(.+)$`)
	locationPattern = regexp.MustCompile(`@location\((\d+)\)`)
	builtinPattern  = regexp.MustCompile(`@builtin\(`)
	resourcePattern = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	entryPatterns   = map[ShaderType]*regexp.Regexp{
		ShaderTypeVertex:   regexp.MustCompile(`@vertex\s+fn\s+(\w+)`),
		ShaderTypeFragment: regexp.MustCompile(`@fragment\s+fn\s+(\w+)`),
	}
)

// member is one field of a WGSL struct.
type member struct {
	name     string
	typeName string
	location int // -1 without @location
	builtin  bool
}

type wgslStruct struct {
	name    string
	members []member
}

// resource is one @group/@binding variable.
type resource struct {
	group, binding int
	space          string // "" for textures and samplers
	name, typeName string
}

// reflection is what one pre-processed stage declares: structs in source order, their
// resolved layouts, the bound resources and the entry point.
type reflection struct {
	entryPoint string
	structs    []wgslStruct
	layouts    map[string]typeLayout
	resources  []resource
}

func reflectSource(source string, stage ShaderType) reflection {
	code := stripComments(source)

	var r reflection
	if re, ok := entryPatterns[stage]; ok {
		if m := re.FindStringSubmatch(code); m != nil {
			r.entryPoint = m[1]
		}
	}
	for _, m := range structPattern.FindAllStringSubmatch(code, -1) {
		r.structs = append(r.structs, wgslStruct{name: m[1], members: parseMembers(m[2])})
	}
	r.layouts = resolveStructLayouts(r.structs)

	for _, m := range resourcePattern.FindAllStringSubmatch(code, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		r.resources = append(r.resources, resource{
			group:    group,
			binding:  binding,
			space:    strings.TrimSpace(m[3]),
			name:     m[4],
			typeName: strings.TrimSpace(m[5]),
		})
	}
	return r
}

func parseMembers(body string) []member {
	var out []member
	for _, part := range splitTopLevel(body) {
		m := memberPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		mem := member{name: m[2], typeName: strings.TrimSpace(m[3]), location: -1}
		attrs := m[1]
		mem.builtin = builtinPattern.MatchString(attrs)
		if loc := locationPattern.FindStringSubmatch(attrs); loc != nil {
			mem.location, _ = strconv.Atoi(loc[1])
		}
		out = append(out, mem)
	}
	return out
}

func (r reflection) structNamed(name string) (wgslStruct, bool) {
	for _, s := range r.structs {
		if s.name == name {
			return s, true
		}
	}
	return wgslStruct{}, false
}

// vertexLayouts packs every vertex input struct (only @location members) into one buffer
// layout each, in source order. Structs with an unsupported attribute type are skipped.
func (r reflection) vertexLayouts() []wgpu.VertexBufferLayout {
	var out []wgpu.VertexBufferLayout
	for _, s := range r.structs {
		if layout, ok := packVertexStruct(s); ok {
			out = append(out, layout)
		}
	}
	return out
}

func packVertexStruct(s wgslStruct) (wgpu.VertexBufferLayout, bool) {
	layout := wgpu.VertexBufferLayout{StepMode: wgpu.VertexStepModeVertex}
	for _, m := range s.members {
		if m.builtin || m.location < 0 {
			return wgpu.VertexBufferLayout{}, false
		}
		f, ok := vertexFormats[m.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         f.format,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(m.location),
		})
		layout.ArrayStride += f.size
	}
	return layout, len(layout.Attributes) > 0
}

// bindGroupLayouts turns the resources into layout entries visible to stage, one descriptor per
// group with entries ordered by binding, plus the variable name of every binding.
func (r reflection) bindGroupLayouts(visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	descriptors := make(map[int]wgpu.BindGroupLayoutDescriptor)
	names := make(map[int]map[int]string)

	for _, res := range r.resources {
		entry := layoutEntry(res, visibility)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolveLayout(res.typeName, r.layouts); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}
		d := descriptors[res.group]
		d.Entries = append(d.Entries, entry)
		descriptors[res.group] = d

		if names[res.group] == nil {
			names[res.group] = make(map[int]string)
		}
		names[res.group][res.binding] = res.name
	}
	for g, d := range descriptors {
		sort.Slice(d.Entries, func(i, j int) bool { return d.Entries[i].Binding < d.Entries[j].Binding })
		descriptors[g] = d
	}
	return descriptors, names
}

func layoutEntry(res resource, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: uint32(res.binding), Visibility: visibility}

	switch {
	case res.space == "uniform":
		e.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(res.space, "storage"):
		e.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	case res.typeName == "sampler":
		e.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case strings.HasPrefix(res.typeName, "texture_"):
		base, param, _ := strings.Cut(res.typeName, "<")
		param = strings.TrimSuffix(strings.TrimSpace(param), ">")
		if t, ok := textureKinds[base]; ok {
			e.Texture.ViewDimension = t.dimension
			e.Texture.Multisampled = t.multisampled
		}
		if st, ok := sampleTypes[param]; ok {
			e.Texture.SampleType = st
		}
	}
	return e
}

// uniformLayouts resolves the struct behind every var<uniform> to its member offsets.
func (r reflection) uniformLayouts() map[int]map[int]UniformLayout {
	out := make(map[int]map[int]UniformLayout)
	for _, res := range r.resources {
		if res.space != "uniform" {
			continue
		}
		s, ok := r.structNamed(res.typeName)
		if !ok {
			continue
		}
		layout, ok := placeMembers(s, r.layouts)
		if !ok {
			continue
		}
		layout.Group, layout.Binding, layout.VarName = res.group, res.binding, res.name

		if out[res.group] == nil {
			out[res.group] = make(map[int]UniformLayout)
		}
		out[res.group][res.binding] = layout
	}
	return out
}

// stripComments blanks // and nested /* */ comments, keeping line breaks.
func stripComments(source string) string {
	var b strings.Builder
	b.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		c := source[i]
		next := byte(0)
		if i+1 < len(source) {
			next = source[i+1]
		}
		switch {
		case c == '/' && next == '*':
			depth++
			i++
		case c == '*' && next == '/' && depth > 0:
			depth--
			i++
		case depth == 0 && c == '/' && next == '/':
			for i < len(source) && source[i] != '\n' {
				i++
			}
			if i < len(source) {
				b.WriteByte('\n')
			}
		case depth == 0 || c == '\n':
			b.WriteByte(c)
		}
	}
	return b.String()
}

// splitTopLevel splits at commas outside angle brackets, so array<vec4<f32>, 4> stays whole.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, c := range s {
		switch {
		case c == '<':
			depth++
		case c == '>' && depth > 0:
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
