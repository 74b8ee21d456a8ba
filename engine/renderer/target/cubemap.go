package target

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

// Cubemap is a six-face texture with its sampler.
type Cubemap struct {
	Texture    renderer.TextureHandle
	Sampler    renderer.SamplerHandle
	Resolution uint32
	MipLevels  uint32
}

// MaxLevel returns the index of the smallest mip level.
func (c *Cubemap) MaxLevel() uint32 {
	if c.MipLevels == 0 {
		return 0
	}
	return c.MipLevels - 1
}

type cubemapOptions struct {
	label   string
	format  renderer.TextureFormat
	mipmaps bool
	render  bool
}

// CubemapOption configures CreateCubemap.
type CubemapOption func(*cubemapOptions)

// WithCubemapLabel sets the texture label.
func WithCubemapLabel(label string) CubemapOption {
	return func(o *cubemapOptions) {
		o.label = label
	}
}

// WithCubemapFormat sets the texel format. The default is RGBA8Unorm.
func WithCubemapFormat(f renderer.TextureFormat) CubemapOption {
	return func(o *cubemapOptions) {
		o.format = f
	}
}

// WithoutMipmaps creates a single-level cubemap with bilinear filtering.
func WithoutMipmaps() CubemapOption {
	return func(o *cubemapOptions) {
		o.mipmaps = false
	}
}

// WithoutRenderTarget creates a cubemap that is only ever uploaded to, never rendered into.
func WithoutRenderTarget() CubemapOption {
	return func(o *cubemapOptions) {
		o.render = false
	}
}

// CreateCubemap creates a renderable cubemap with a full mip chain and a trilinear sampler
// clamped to the edge on every axis.
//
// Parameters:
//   - backend: the backend owning the texture
//   - resolution: the face edge length
//   - options: label, format and mip chain options
//
// Returns:
//   - *Cubemap: the cubemap
//   - error: an error if the resolution exceeds the device limit or creation fails
func CreateCubemap(backend renderer.RendererBackend, resolution uint32, options ...CubemapOption) (*Cubemap, error) {
	o := cubemapOptions{label: "cubemap", format: renderer.TextureFormatRGBA8Unorm, mipmaps: true, render: true}
	for _, opt := range options {
		opt(&o)
	}
	if err := checkResolution(backend, o.label, resolution); err != nil {
		return nil, err
	}
	levels := uint32(1)
	if o.mipmaps {
		levels = common.Log2Floor(resolution) + 1
	}
	tex, err := backend.CreateTexture(renderer.TextureDescriptor{
		Label:        o.label,
		Width:        resolution,
		Height:       resolution,
		Cube:         true,
		MipLevels:    levels,
		Format:       o.format,
		RenderTarget: o.render || o.mipmaps,
	})
	if err != nil {
		return nil, fmt.Errorf("target: failed to create cubemap %q: %w", o.label, err)
	}
	sampler, err := backend.CreateSampler(renderer.SamplerDescriptor{
		Label:   o.label + "_sampler",
		Filter:  renderer.FilterLinear,
		Address: renderer.AddressClampToEdge,
		Mipmaps: o.mipmaps,
	})
	if err != nil {
		return nil, fmt.Errorf("target: failed to create cubemap sampler %q: %w", o.label, err)
	}
	return &Cubemap{Texture: tex, Sampler: sampler, Resolution: resolution, MipLevels: levels}, nil
}

// UploadCubemapFaces creates a cubemap from six decoded faces in +X, -X, +Y, -Y, +Z, -Z order and
// fills its mip chain. All faces must share one square size.
//
// Parameters:
//   - backend: the backend owning the texture
//   - label: the texture label
//   - faces: the decoded faces
//
// Returns:
//   - *Cubemap: the uploaded cubemap
//   - error: an error if the faces disagree in size or an upload fails
func UploadCubemapFaces(backend renderer.RendererBackend, label string, faces [common.CubeFaceCount]common.PixelData) (*Cubemap, error) {
	res := faces[0].Width
	for i, f := range faces {
		if f.Width != res || f.Height != res {
			return nil, fmt.Errorf("target: cubemap %q face %s is %dx%d, want %dx%d", label, common.CubeFace(i), f.Width, f.Height, res, res)
		}
	}
	opts := []CubemapOption{WithCubemapLabel(label), WithCubemapFormat(renderer.TextureFormatRGBA8UnormSrgb), WithoutRenderTarget()}
	if res == 1 {
		opts = append(opts, WithoutMipmaps())
	}
	cube, err := CreateCubemap(backend, res, opts...)
	if err != nil {
		return nil, err
	}
	for i, f := range faces {
		if err := backend.WriteTexture(cube.Texture, uint32(i), f); err != nil {
			return nil, fmt.Errorf("target: failed to upload cubemap %q face %s: %w", label, common.CubeFace(i), err)
		}
	}
	if cube.MipLevels > 1 {
		if err := backend.GenerateMipmaps(cube.Texture); err != nil {
			return nil, fmt.Errorf("target: failed to generate cubemap %q mipmaps: %w", label, err)
		}
	}
	return cube, nil
}

// LevelOfDetailCount returns min(base + floor(log2(resolution)), maxLevel), the number of mip
// levels a shader may step through when sampling a cubemap by roughness.
//
// Parameters:
//   - base: the offset added to the resolution's level count
//   - resolution: the cubemap face edge length
//   - maxLevel: the texture's largest mip level index
//
// Returns:
//   - uint32: the level of detail count
func LevelOfDetailCount(base, resolution, maxLevel uint32) uint32 {
	return min(base+common.Log2Floor(resolution), maxLevel)
}
