package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-probe/engine/config"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithSettings sets the static configuration. Defaults to config.DefaultSettings.
//
// Parameters:
//   - s: the settings
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSettings(s config.Settings) EngineBuilderOption {
	return func(e *engine) {
		e.settings = s
	}
}

// WithState sets the runtime state restored at startup: the window rectangle and both camera
// poses. Defaults to config.DefaultState.
//
// Parameters:
//   - s: the restored state
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithState(s config.State) EngineBuilderOption {
	return func(e *engine) {
		e.state = s
	}
}

// WithStatePath sets the file the runtime state is written to when Run returns.
// An empty path disables saving (default).
//
// Parameters:
//   - path: the YAML state file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithStatePath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.statePath = path
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create one from the settings. The engine closes it on shutdown.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithBackend sets the GPU backend rather than creating a WebGPU backend on the window surface.
// The engine releases it on shutdown.
//
// Parameters:
//   - b: the backend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(b renderer.RendererBackend) EngineBuilderOption {
	return func(e *engine) {
		e.backend = b
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
