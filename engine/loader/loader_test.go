package loader_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solidImage(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func writeBMP(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, bmp.Encode(f, img))
	return path
}

func TestLoadImageCaches(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", solidImage(4, color.RGBA{255, 0, 0, 255}))

	l := loader.NewLoader()
	defer l.Close()

	px, err := l.LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), px.Width)
	assert.Equal(t, uint32(4), px.Height)
	assert.Len(t, px.Pixels, 4*4*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, px.Pixels[:4])

	require.NoError(t, os.Remove(path))
	cached, err := l.LoadImage(path)
	require.NoError(t, err, "second load is served from the cache")
	assert.Equal(t, px, cached)
}

func TestLoadImageErrors(t *testing.T) {
	l := loader.NewLoader()
	defer l.Close()

	_, err := l.LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = l.LoadReader("garbage", bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
	_, ok := l.Get("garbage")
	assert.False(t, ok)
}

func TestLoadCubemapFacesMixedFormats(t *testing.T) {
	dir := t.TempDir()
	var paths [common.CubeFaceCount]string
	for i := range paths {
		img := solidImage(8, color.RGBA{uint8(i * 40), 0, 0, 255})
		if i%2 == 0 {
			paths[i] = writePNG(t, dir, common.CubeFace(i).String()+".png", img)
		} else {
			paths[i] = writeBMP(t, dir, common.CubeFace(i).String()+".bmp", img)
		}
	}

	l := loader.NewLoader(loader.WithWorkers(3))
	defer l.Close()

	faces, err := l.LoadCubemapFaces(paths)
	require.NoError(t, err)
	for i, f := range faces {
		assert.Equal(t, uint32(8), f.Width, "face %d", i)
		assert.Equal(t, uint32(8), f.Height, "face %d", i)
		assert.Equal(t, uint8(i*40), f.Pixels[0], "face %d keeps its own pixels", i)
	}
}

func TestLoadCubemapFacesResamplesToLargest(t *testing.T) {
	dir := t.TempDir()
	var paths [common.CubeFaceCount]string
	for i := range paths {
		size := 4
		if i == 2 {
			size = 16
		}
		paths[i] = writePNG(t, dir, common.CubeFace(i).String()+".png", solidImage(size, color.RGBA{0, 255, 0, 255}))
	}

	l := loader.NewLoader()
	defer l.Close()

	faces, err := l.LoadCubemapFaces(paths)
	require.NoError(t, err)
	for _, f := range faces {
		assert.Equal(t, uint32(16), f.Width)
		assert.Equal(t, uint32(16), f.Height)
		assert.Len(t, f.Pixels, 16*16*4)
	}
}

func TestLoadCubemapFacesMaxFaceSize(t *testing.T) {
	dir := t.TempDir()
	var paths [common.CubeFaceCount]string
	for i := range paths {
		paths[i] = writePNG(t, dir, common.CubeFace(i).String()+".png", solidImage(16, color.RGBA{0, 0, 255, 255}))
	}

	l := loader.NewLoader(loader.WithMaxFaceSize(8))
	defer l.Close()

	faces, err := l.LoadCubemapFaces(paths)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), faces[0].Width)
}

func TestLoadCubemapFacesFallback(t *testing.T) {
	l := loader.NewLoader(loader.WithFallbackColor(common.Vec4{0, 0.5, 0.5, 1}))
	defer l.Close()

	faces, err := l.LoadCubemapFaces([common.CubeFaceCount]string{})
	require.NoError(t, err)
	for _, f := range faces {
		assert.Equal(t, uint32(1), f.Width)
		assert.Equal(t, []byte{0, 128, 128, 255}, f.Pixels)
	}
}

func TestLoadCubemapFacesReportsFailedFace(t *testing.T) {
	dir := t.TempDir()
	var paths [common.CubeFaceCount]string
	for i := range paths {
		paths[i] = writePNG(t, dir, common.CubeFace(i).String()+".png", solidImage(2, color.RGBA{255, 255, 255, 255}))
	}
	paths[4] = filepath.Join(dir, "missing.png")

	l := loader.NewLoader()
	defer l.Close()

	_, err := l.LoadCubemapFaces(paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "face +Z")
}
