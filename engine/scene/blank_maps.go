package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

// BlankMaps are the 1x1 textures bound to the material map slots when a material has none:
// a white diffuse map and a flat tangent-space normal map.
type BlankMaps struct {
	Diffuse renderer.TextureHandle
	Normal  renderer.TextureHandle
	Sampler renderer.SamplerHandle
}

// flatNormal encodes the tangent-space normal (0, 0, 1).
var flatNormal = common.Vec4{0.5, 0.5, 1, 1}

// CreateBlankMaps uploads the blank diffuse and normal maps and their shared sampler.
//
// Parameters:
//   - backend: the backend receiving the textures
//
// Returns:
//   - BlankMaps: the created handles
//   - error: a texture or sampler creation error
func CreateBlankMaps(backend renderer.RendererBackend) (BlankMaps, error) {
	var maps BlankMaps
	var err error
	maps.Diffuse, err = createSolid(backend, "blank_diffuse", common.Vec4{1, 1, 1, 1}, renderer.TextureFormatRGBA8UnormSrgb)
	if err != nil {
		return BlankMaps{}, err
	}
	maps.Normal, err = createSolid(backend, "blank_normal", flatNormal, renderer.TextureFormatRGBA8Unorm)
	if err != nil {
		return BlankMaps{}, err
	}
	maps.Sampler, err = backend.CreateSampler(renderer.SamplerDescriptor{
		Label:   "material_maps",
		Filter:  renderer.FilterLinear,
		Address: renderer.AddressRepeat,
		Mipmaps: true,
	})
	if err != nil {
		return BlankMaps{}, fmt.Errorf("scene: failed to create material sampler: %w", err)
	}
	return maps, nil
}

func createSolid(backend renderer.RendererBackend, label string, c common.Vec4, format renderer.TextureFormat) (renderer.TextureHandle, error) {
	tex, err := backend.CreateTexture(renderer.TextureDescriptor{
		Label:  label,
		Width:  1,
		Height: 1,
		Format: format,
	})
	if err != nil {
		return 0, fmt.Errorf("scene: failed to create %s: %w", label, err)
	}
	if err := backend.WriteTexture(tex, 0, common.SolidPixel(c)); err != nil {
		return 0, fmt.Errorf("scene: failed to upload %s: %w", label, err)
	}
	return tex, nil
}
