package loader

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets how many faces are decoded in parallel.
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithFallbackColor sets the solid color used for faces without a file.
//
// Parameters:
//   - c: the RGBA color, channels in [0, 1]
//
// Returns:
//   - LoaderBuilderOption: a function that applies the fallback option to a loader
func WithFallbackColor(c common.Vec4) LoaderBuilderOption {
	return func(l *loader) {
		l.fallback = c
	}
}

// WithMaxFaceSize caps the edge length faces are resampled to.
//
// Parameters:
//   - n: the largest allowed face edge in pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the size cap to a loader
func WithMaxFaceSize(n uint32) LoaderBuilderOption {
	return func(l *loader) {
		l.maxFaceSize = n
	}
}

// WithImage pre-populates the image cache.
//
// Parameters:
//   - key: the cache key, normally a file path
//   - px: the decoded pixels
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache entry to a loader
func WithImage(key string, px common.PixelData) LoaderBuilderOption {
	return func(l *loader) {
		l.imageCache[key] = px
	}
}
