package scene

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-earth/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys of the two shading programs.
const (
	PipelineHelper = "helper"
	PipelineEarth  = "earth"
)

//go:embed assets/helper_vs.wgsl
var helperVertexSource string

//go:embed assets/helper_fs.wgsl
var helperFragmentSource string

//go:embed assets/earth_vs.wgsl
var earthVertexSource string

//go:embed assets/earth_fs.wgsl
var earthFragmentSource string

// NewHelperPipeline builds the flat colour line program used by the axes, rings and satellite.
//
// Returns:
//   - pipeline.Pipeline: the linked program, not yet registered with a renderer
//   - error: a wrapped shader parse error
func NewHelperPipeline() (pipeline.Pipeline, error) {
	return newProgram(PipelineHelper, helperVertexSource, helperFragmentSource,
		pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
	)
}

// NewEarthPipeline builds the displaced, textured and lit earth program.
//
// Returns:
//   - pipeline.Pipeline: the linked program, not yet registered with a renderer
//   - error: a wrapped shader parse error
func NewEarthPipeline() (pipeline.Pipeline, error) {
	return newProgram(PipelineEarth, earthVertexSource, earthFragmentSource,
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		pipeline.WithCullMode(wgpu.CullModeNone),
	)
}

func newProgram(key, vsSource, fsSource string, opts ...pipeline.PipelineBuilderOption) (pipeline.Pipeline, error) {
	vs, err := shader.NewShaderFromSource(key+"_vs", shader.ShaderTypeVertex, vsSource)
	if err != nil {
		return nil, fmt.Errorf("%s vertex shader: %w", key, err)
	}
	fs, err := shader.NewShaderFromSource(key+"_fs", shader.ShaderTypeFragment, fsSource)
	if err != nil {
		return nil, fmt.Errorf("%s fragment shader: %w", key, err)
	}
	opts = append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	}, opts...)
	return pipeline.NewPipeline(key, opts...)
}
