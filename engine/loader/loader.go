// Package loader decodes the images the renderer uploads at startup, chiefly the six faces of
// the skybox cubemap.
package loader

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-probe/common"
	"golang.org/x/image/draw"
)

// DefaultMaxFaceSize is the largest edge a cubemap face is resampled to unless overridden.
const DefaultMaxFaceSize = 2048

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	workers     int
	pool        worker.DynamicWorkerPool
	fallback    common.Vec4
	maxFaceSize uint32

	imageCache map[string]common.PixelData

	backend loaderBackend
}

// Loader defines the public-facing interface for decoding and caching images.
// It abstracts the file format (PNG, JPEG, BMP, TIFF, WebP) behind a generic backend and
// manages a cache of previously decoded images.
type Loader interface {
	// LoadImage decodes an image file into tightly packed RGBA8 pixels and caches the result.
	// If the image is already cached (by file path), the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the image
	//
	// Returns:
	//   - common.PixelData: the decoded pixels
	//   - error: error if the file cannot be read or decoded
	LoadImage(path string) (common.PixelData, error)

	// LoadReader decodes an image from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the decoded image
	//   - r: the reader providing encoded image data
	//
	// Returns:
	//   - common.PixelData: the decoded pixels
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (common.PixelData, error)

	// LoadCubemapFaces decodes six faces in +X, -X, +Y, -Y, +Z, -Z order in parallel and
	// resamples them to one square size. A face with an empty path is filled with the fallback
	// color; when every path is empty the result is six 1x1 faces.
	//
	// Parameters:
	//   - paths: the face file paths
	//
	// Returns:
	//   - [6]common.PixelData: the faces, all of one square size
	//   - error: the joined errors of every face that failed to load
	LoadCubemapFaces(paths [common.CubeFaceCount]string) ([common.CubeFaceCount]common.PixelData, error)

	// Get retrieves a cached image by name.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - common.PixelData: the cached image
	//   - bool: false if not found
	Get(name string) (common.PixelData, bool)

	// Close stops the decode workers.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		workers:     common.CubeFaceCount,
		fallback:    common.Vec4{0, 0, 0, 1},
		maxFaceSize: DefaultMaxFaceSize,
		imageCache:  make(map[string]common.PixelData),
		backend:     newImageLoaderBackend(),
	}
	for _, option := range options {
		option(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 2*common.CubeFaceCount, 1*time.Second)
	return l
}

func (l *loader) LoadImage(path string) (common.PixelData, error) {
	if px, ok := l.Get(path); ok {
		return px, nil
	}
	img, err := l.backend.Load(path)
	if err != nil {
		return common.PixelData{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, img), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (common.PixelData, error) {
	img, err := l.backend.LoadReader(r)
	if err != nil {
		return common.PixelData{}, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return l.store(name, img), nil
}

func (l *loader) Get(name string) (common.PixelData, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	px, ok := l.imageCache[name]
	return px, ok
}

func (l *loader) store(name string, img image.Image) common.PixelData {
	px := toPixelData(img)
	l.mu.Lock()
	l.imageCache[name] = px
	l.mu.Unlock()
	return px
}

func (l *loader) LoadCubemapFaces(paths [common.CubeFaceCount]string) ([common.CubeFaceCount]common.PixelData, error) {
	var faces [common.CubeFaceCount]common.PixelData
	var errs [common.CubeFaceCount]error

	var wg sync.WaitGroup
	for i, path := range paths {
		if path == "" {
			continue
		}
		wg.Add(1)
		face := i
		l.pool.SubmitTask(worker.Task{
			ID:      face,
			Payload: path,
			Do: func() (any, error) {
				defer wg.Done()
				faces[face], errs[face] = l.LoadImage(paths[face])
				if errs[face] != nil {
					errs[face] = fmt.Errorf("face %s: %w", common.CubeFace(face), errs[face])
				}
				return nil, errs[face]
			},
		})
	}
	wg.Wait()
	if err := errors.Join(errs[:]...); err != nil {
		return faces, err
	}

	res := uint32(1)
	for _, f := range faces {
		res = max(res, f.Width, f.Height)
	}
	res = min(res, max(l.maxFaceSize, 1))

	solid := common.SolidPixel(l.fallback)
	for i := range faces {
		if paths[i] == "" {
			faces[i] = solid
		}
		if faces[i].Width != res || faces[i].Height != res {
			faces[i] = resample(faces[i], res)
		}
	}
	common.Logger().Debug("cubemap faces loaded", "resolution", res)
	return faces, nil
}

func (l *loader) Close() {
	l.pool.Stop()
}

// toPixelData converts any decoded image to tightly packed RGBA8.
func toPixelData(img image.Image) common.PixelData {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return common.PixelData{Pixels: rgba.Pix, Width: uint32(b.Dx()), Height: uint32(b.Dy())}
}

// resample scales px to a res x res square with Catmull-Rom filtering.
func resample(px common.PixelData, res uint32) common.PixelData {
	src := &image.RGBA{
		Pix:    px.Pixels,
		Stride: 4 * int(px.Width),
		Rect:   image.Rect(0, 0, int(px.Width), int(px.Height)),
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(res), int(res)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return common.PixelData{Pixels: dst.Pix, Width: res, Height: res}
}
