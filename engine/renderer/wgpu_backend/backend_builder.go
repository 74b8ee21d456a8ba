package wgpu_backend

import (
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

// BackendBuilderOption is a functional option applied to the backend during construction via NewBackend.
type BackendBuilderOption func(*backendImpl)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the present mode, VSync by default
//
// Returns:
//   - BackendBuilderOption: a function that applies the present mode
func WithPresentMode(mode renderer.PresentMode) BackendBuilderOption {
	return func(b *backendImpl) {
		b.presentMode = mode
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: whether to force the fallback adapter
//
// Returns:
//   - BackendBuilderOption: a function that applies the adapter option
func WithForceFallbackAdapter(force bool) BackendBuilderOption {
	return func(b *backendImpl) {
		b.forceFallbackAdapter = force
	}
}

// WithUniformArenaSize sets the byte size of each uniform arena chunk.
//
// Parameters:
//   - size: the chunk size in bytes
//
// Returns:
//   - BackendBuilderOption: a function that applies the arena size
func WithUniformArenaSize(size uint64) BackendBuilderOption {
	return func(b *backendImpl) {
		b.arenaChunkSize = size
	}
}
