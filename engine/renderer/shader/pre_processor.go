package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-earth/engine/camera"
	"github.com/Carmen-Shannon/oxy-earth/engine/mesh"
	"github.com/Carmen-Shannon/oxy-earth/engine/shading"
)

// wgslStructSource is a struct definition that include and group annotations can reference.
type wgslStructSource struct {
	typeName string
	source   string
}

// structSources is kept in step with structTypes.
var structSources = map[AnnotationArg]wgslStructSource{
	AnnotationArgCamera:      {"CameraUniform", camera.GPUCameraUniformSource},
	AnnotationArgModel:       {"ModelUniform", mesh.GPUModelUniformSource},
	annotationArgEarthVertex: {"EarthVertexInput", mesh.GPUEarthVertexSource},
	annotationArgLineVertex:  {"LineVertexInput", mesh.GPULineVertexSource},
	AnnotationArgEarthParams: {"EarthParams", shading.GPUEarthParamsSource},
}

var addressSpaceSyntax = map[AnnotationArg]string{
	annotationArgStorageTypeUniform: "var<uniform>",
	annotationArgStorageTypeRead:    "var<storage, read>",
}

type preProcessor struct {
	declarations []Annotation
}

// PreProcessor expands @oxy annotations into plain WGSL.
type PreProcessor interface {
	// Process rewrites source line by line. include lines become struct definitions, group lines
	// become variable declarations and provider lines are dropped. Everything else is copied.
	//
	// Parameters:
	//   - source: WGSL with annotations
	//
	// Returns:
	//   - string: plain WGSL
	//   - error: the first malformed annotation, with its line number
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations of the last Process call, in source order.
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	var out strings.Builder
	out.Grow(len(source))
	for i, line := range strings.Split(source, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out.WriteString(line)
			continue
		}
		expanded, err := p.expand(a)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", a.Line, err)
		}
		out.WriteString(expanded)
	}
	return out.String(), nil
}

func (p *preProcessor) expand(a *Annotation) (string, error) {
	switch a.Type {
	case annotationTypeInclude:
		s, ok := structSources[a.Args[0]]
		if !ok {
			return "", fmt.Errorf("no source registered for %q", a.Args[0])
		}
		return s.source, nil
	case AnnotationTypeBindingGroup:
		s, ok := structSources[a.Args[2]]
		if !ok {
			return "", fmt.Errorf("no source registered for %q", a.Args[2])
		}
		p.declarations = append(p.declarations, *a)
		return fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
			*a.Group, *a.Binding, addressSpaceSyntax[a.Args[0]], a.Args[1], s.typeName), nil
	default:
		p.declarations = append(p.declarations, *a)
		return "", nil
	}
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
