package renderer

import (
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPreProcessor sets the pre-processor used for programs loaded without their own.
//
// Parameters:
//   - pp: the pre-processor carrying the engine's struct includes
//
// Returns:
//   - RendererBuilderOption: a function that applies the pre-processor option to a renderer
func WithPreProcessor(pp shader.PreProcessor) RendererBuilderOption {
	return func(r *renderer) {
		r.preProcessor = pp
	}
}
