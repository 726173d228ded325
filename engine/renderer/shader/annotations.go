package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix starts an annotation inside a WGSL line comment, e.g. //@oxy:include camera.
const annotationPrefix = "@oxy:"

// AnnotationType is the keyword following the prefix.
type AnnotationType string

const (
	// annotationTypeInclude is replaced by the WGSL source of a registered struct.
	//
	//	//@oxy:include <struct>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup is replaced by a @group/@binding variable of a registered struct
	// and recorded as a declaration owned by that struct.
	//
	//	//@oxy:group <group> <binding> <address_space> <var_name> <struct>
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider generates nothing. It tags the hand-written binding below it with the
	// identity of the provider that owns it and, inside a multi-binding group, the binding's role.
	//
	//	//@oxy:provider <group> <binding> <identity> [role]
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is one parsed annotation line.
type Annotation struct {
	Type AnnotationType

	// Args are the words after the group and binding numbers:
	// include [struct], group [address space, var name, struct], provider [identity, role?].
	Args []AnnotationArg

	// Line is 1-based.
	Line int

	// Group and Binding are nil for include annotations.
	Group   *int
	Binding *int
}

// Identity returns the provider identity owning the annotated binding.
func (a Annotation) Identity() AnnotationArg {
	switch a.Type {
	case AnnotationTypeBindingGroup:
		return a.Args[2]
	case AnnotationTypeProvider:
		return a.Args[0]
	}
	return ""
}

// Role returns the binding role of a provider annotation, or "".
func (a Annotation) Role() AnnotationArg {
	if a.Type == AnnotationTypeProvider && len(a.Args) > 1 {
		return a.Args[1]
	}
	return ""
}

// AnnotationArg is a word of an annotation.
type AnnotationArg string

// Registered structs. Each has its WGSL source embedded next to the Go type that packs it.
const (
	AnnotationArgCamera      AnnotationArg = "camera"       // engine/camera/assets/camera_uniform.wgsl
	AnnotationArgModel       AnnotationArg = "model"        // engine/mesh/assets/model_uniform.wgsl
	annotationArgEarthVertex AnnotationArg = "earth_vertex" // engine/mesh/assets/earth_vertex.wgsl
	annotationArgLineVertex  AnnotationArg = "line_vertex"  // engine/mesh/assets/line_vertex.wgsl
	AnnotationArgEarthParams AnnotationArg = "earth_params" // engine/shading/assets/earth_params.wgsl
)

// Address spaces.
const (
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead    AnnotationArg = "storage_read"
)

// AnnotationArgEarthTextures owns the bump, colour and specular maps and their sampler.
const AnnotationArgEarthTextures AnnotationArg = "earth_textures"

// Binding roles inside the earth texture group.
const (
	AnnotationArgBumpTexture  AnnotationArg = "bump_texture"
	AnnotationArgMapTexture   AnnotationArg = "map_texture"
	AnnotationArgSpecTexture  AnnotationArg = "spec_texture"
	AnnotationArgEarthSampler AnnotationArg = "earth_sampler"
)

// vocabulary is the closed set of values a word may take. A nil vocabulary accepts any identifier.
type vocabulary struct {
	what   string
	values []AnnotationArg
}

var (
	structTypes = vocabulary{"struct type", []AnnotationArg{
		AnnotationArgCamera, AnnotationArgModel, annotationArgEarthVertex, annotationArgLineVertex, AnnotationArgEarthParams,
	}}
	addressSpaces = vocabulary{"address space", []AnnotationArg{
		annotationArgStorageTypeUniform, annotationArgStorageTypeRead,
	}}
	providerIdentities = vocabulary{"provider identity", []AnnotationArg{
		AnnotationArgCamera, AnnotationArgModel, AnnotationArgEarthParams, AnnotationArgEarthTextures,
	}}
	bindingRoles = vocabulary{"binding role", []AnnotationArg{
		AnnotationArgBumpTexture, AnnotationArgMapTexture, AnnotationArgSpecTexture, AnnotationArgEarthSampler,
	}}
	varName = vocabulary{what: "variable name"}
)

func (v vocabulary) check(word string) error {
	if v.values == nil || slices.Contains(v.values, AnnotationArg(word)) {
		return nil
	}
	return fmt.Errorf("unknown %s %q", v.what, word)
}

// syntax is the grammar of one annotation keyword.
type syntax struct {
	located  bool // <group> <binding> precede the words
	words    []vocabulary
	optional int // trailing words that may be omitted
}

var grammar = map[AnnotationType]syntax{
	annotationTypeInclude:      {words: []vocabulary{structTypes}},
	AnnotationTypeBindingGroup: {located: true, words: []vocabulary{addressSpaces, varName, structTypes}},
	AnnotationTypeProvider:     {located: true, words: []vocabulary{providerIdentities, bindingRoles}, optional: 1},
}

func (s syntax) usage() string {
	var b strings.Builder
	if s.located {
		b.WriteString(" <group> <binding>")
	}
	for i, w := range s.words {
		if i >= len(s.words)-s.optional {
			fmt.Fprintf(&b, " [%s]", w.what)
		} else {
			fmt.Fprintf(&b, " <%s>", w.what)
		}
	}
	return b.String()
}

// parseAnnotation parses one source line. A line that is not an annotation comment returns nil, nil.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: its 1-based number, used in errors
//
// Returns:
//   - *Annotation: the annotation, or nil
//   - error: an unknown keyword, a wrong word count, a bad number or a word outside its vocabulary
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	_, body, ok := strings.Cut(comment, annotationPrefix)
	if !ok {
		return nil, nil
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}
	kind := AnnotationType(fields[0])
	syn, ok := grammar[kind]
	if !ok {
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, fields[0])
	}

	a := &Annotation{Type: kind, Line: lineNum}
	rest := fields[1:]
	if syn.located {
		if len(rest) < 2 {
			return nil, fmt.Errorf("line %d: @oxy %s wants%s", lineNum, kind, syn.usage())
		}
		group, err := strconv.Atoi(rest[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, rest[0], err)
		}
		binding, err := strconv.Atoi(rest[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, rest[1], err)
		}
		a.Group, a.Binding = &group, &binding
		rest = rest[2:]
	}

	if len(rest) < len(syn.words)-syn.optional || len(rest) > len(syn.words) {
		return nil, fmt.Errorf("line %d: @oxy %s wants%s", lineNum, kind, syn.usage())
	}
	a.Args = make([]AnnotationArg, len(rest))
	for i, word := range rest {
		if err := syn.words[i].check(word); err != nil {
			return nil, fmt.Errorf("line %d: @oxy %s: %w", lineNum, kind, err)
		}
		a.Args[i] = AnnotationArg(word)
	}
	return a, nil
}
