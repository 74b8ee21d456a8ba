package pipeline

import (
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
)

// CullMode selects which triangle faces are discarded during rasterization.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// CompareFunction is the depth comparison used when depth testing is enabled.
type CompareFunction int

const (
	CompareFunctionLess CompareFunction = iota
	CompareFunctionLessEqual
	CompareFunctionAlways
)

// pipeline is the implementation of the Pipeline interface.
// It holds the shader and the fixed-function state a backend needs to build a GPU pipeline
// for any pair of attachment formats.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	shader shader.Shader

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthCompare        CompareFunction
	depthBias           int32
	depthBiasSlopeScale float32
	colorWriteEnabled   bool
	cullMode            CullMode
}

// Pipeline defines the interface for the raster state of a program: the shader plus depth, cull
// and color write settings. The backend builds one GPU pipeline per set of attachment formats
// the program is drawn into.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the parsed shader this pipeline runs.
	//
	// Returns:
	//   - shader.Shader: the program's shader
	Shader() shader.Shader

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - CompareFunction: the comparison used by the depth test
	DepthCompare() CompareFunction

	// DepthBias returns the constant depth bias value configured for this pipeline.
	//
	// Returns:
	//   - int32: the depth bias value for this pipeline
	DepthBias() int32

	// DepthBiasSlopeScale returns the depth bias slope scale configured for this pipeline.
	//
	// Returns:
	//   - float32: the depth bias slope scale for this pipeline
	DepthBiasSlopeScale() float32

	// ColorWriteEnabled reports whether the fragment stage writes color. Depth-only
	// programs return false and may be drawn into targets without a color attachment.
	//
	// Returns:
	//   - bool: true if color is written
	ColorWriteEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - CullMode: the cull mode for this pipeline
	CullMode() CullMode
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a Pipeline for the given shader. Defaults: depth test and write enabled with
// CompareFunctionLess, color writes enabled, no culling, no depth bias.
//
// Parameters:
//   - key: the unique identifier for the pipeline
//   - s: the parsed shader
//   - options: functional options applied after the defaults
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(key string, s shader.Shader, options ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       key,
		shader:            s,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      CompareFunctionLess,
		colorWriteEnabled: true,
		cullMode:          CullModeNone,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() CompareFunction {
	return p.depthCompare
}

func (p *pipeline) DepthBias() int32 {
	return p.depthBias
}

func (p *pipeline) DepthBiasSlopeScale() float32 {
	return p.depthBiasSlopeScale
}

func (p *pipeline) ColorWriteEnabled() bool {
	return p.colorWriteEnabled
}

func (p *pipeline) CullMode() CullMode {
	return p.cullMode
}
