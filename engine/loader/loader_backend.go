package loader

import (
	"image"
	"io"
)

// loaderBackend defines the generic interface for decoding images from files or streams.
// Concrete implementations (e.g., imageLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes the image file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: error if the file cannot be read or decoded
	Load(path string) (image.Image, error)

	// LoadReader decodes an image from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing encoded image data
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: error if decoding fails
	LoadReader(r io.Reader) (image.Image, error)
}
