package loader

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imageLoaderBackend decodes every format registered with the image package: PNG and JPEG from
// the standard library plus BMP, TIFF and WebP from x/image.
type imageLoaderBackend struct{}

var _ loaderBackend = &imageLoaderBackend{}

func newImageLoaderBackend() loaderBackend {
	return &imageLoaderBackend{}
}

func (b *imageLoaderBackend) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadReader(f)
}

func (b *imageLoaderBackend) LoadReader(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty %s image", format)
	}
	return img, nil
}
