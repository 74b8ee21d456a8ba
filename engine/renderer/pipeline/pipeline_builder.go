package pipeline

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// RasterState is the plain-data form of the pipeline options, used by program descriptors.
type RasterState struct {
	DepthTestDisabled   bool
	DepthWriteDisabled  bool
	DepthCompare        CompareFunction
	DepthBias           int32
	DepthBiasSlopeScale float32
	DepthOnly           bool
	CullMode            CullMode
}

// WithRasterState applies every field of a RasterState.
//
// Parameters:
//   - rs: the raster state to apply
//
// Returns:
//   - PipelineBuilderOption: a function that applies the state to this pipeline
func WithRasterState(rs RasterState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = !rs.DepthTestDisabled
		p.depthWriteEnabled = !rs.DepthWriteDisabled
		p.depthCompare = rs.DepthCompare
		p.depthBias = rs.DepthBias
		p.depthBiasSlopeScale = rs.DepthBiasSlopeScale
		p.colorWriteEnabled = !rs.DepthOnly
		p.cullMode = rs.CullMode
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithDepthCompare sets the depth comparison function.
func WithDepthCompare(cmp CompareFunction) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthCompare = cmp
	}
}

// WithDepthBias sets the constant and slope-scaled depth bias, used by shadow casters.
//
// Parameters:
//   - bias: constant depth bias
//   - slopeScale: slope-scaled depth bias
//
// Returns:
//   - PipelineBuilderOption: a function that sets the depth bias for this pipeline
func WithDepthBias(bias int32, slopeScale float32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthBias = bias
		p.depthBiasSlopeScale = slopeScale
	}
}

// WithColorWriteEnabled toggles color output.
func WithColorWriteEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.colorWriteEnabled = enabled
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}
