package frame

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/light"
	"github.com/Carmen-Shannon/oxy-probe/engine/profiler"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/target"
)

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator.
type OrchestratorBuilderOption func(*orchestrator)

// WithClearColor sets the color the capture faces and the window are cleared to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithClearColor(c common.Vec4) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.clearColor = c
	}
}

// WithShadowResolution sets the width and height of the shadow depth texture.
//
// Parameters:
//   - res: the resolution in texels
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithShadowResolution(res uint32) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.shadowResolution = res
	}
}

// WithEnvironmentResolution sets the face size of the probe cubemaps.
//
// Parameters:
//   - res: the face resolution in texels
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithEnvironmentResolution(res uint32) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.environmentResolution = res
	}
}

// WithProbePosition sets the world position the environment is captured from.
//
// Parameters:
//   - p: the probe position
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithProbePosition(p common.Vec3) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.probePosition = p
	}
}

// WithLevelOfDetailBase sets the base added to the probe's mip level count.
//
// Parameters:
//   - base: the level of detail base
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithLevelOfDetailBase(base uint32) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.lodBase = base
	}
}

// WithAnimator replaces the point light animator.
//
// Parameters:
//   - a: the animator
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithAnimator(a light.Animator) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.animator = a
	}
}

// WithSkybox sets the cubemap drawn behind the scene. Without it a cubemap of the clear color
// is used.
//
// Parameters:
//   - sky: the skybox cubemap
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithSkybox(sky *target.Cubemap) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.skybox = sky
	}
}

// WithProbeMarker toggles drawing the probe marker sphere in the final pass. Defaults to true.
//
// Parameters:
//   - enabled: true to draw the marker
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithProbeMarker(enabled bool) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.drawProbeMarker = enabled
	}
}

// WithProfiler records the duration of every stage on p.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.profiler = p
	}
}
