package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
)

// material is the implementation of the Material interface.
type material struct {
	name       string
	params     MaterialParams
	diffuseMap renderer.TextureHandle
	normalMap  renderer.TextureHandle
}

// Material defines the interface for a surface description uploaded before each shaded draw.
//
// Values are fixed at construction. Texture maps are optional; a zero handle means the caller
// binds its blank fallback texture.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Params retrieves the uniform values of the material.
	//
	// Returns:
	//   - MaterialParams: gloss, metalness, specular and diffuse colors
	Params() MaterialParams

	// DiffuseMap retrieves the diffuse texture, or 0 if none is set.
	//
	// Returns:
	//   - renderer.TextureHandle: the diffuse texture
	DiffuseMap() renderer.TextureHandle

	// NormalMap retrieves the normal map texture, or 0 if none is set.
	//
	// Returns:
	//   - renderer.TextureHandle: the normal map texture
	NormalMap() renderer.TextureHandle

	// Apply uploads the material values into the bound program's Material slots, one
	// uniform per member.
	//
	// Parameters:
	//   - b: the binder with the shading program bound
	//
	// Returns:
	//   - error: an error if a Material slot is missing or the upload fails
	Apply(b renderer.Binder) error
}

var _ Material = &material{}

// NewMaterial creates a new Material using the provided builder options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: the constructed material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Params() MaterialParams {
	return m.params
}

func (m *material) DiffuseMap() renderer.TextureHandle {
	return m.diffuseMap
}

func (m *material) NormalMap() renderer.TextureHandle {
	return m.normalMap
}

func (m *material) Apply(b renderer.Binder) error {
	uploads := []struct {
		key   shader.UniformKey
		value renderer.Value
	}{
		{shader.UniformMaterialGloss, renderer.Float(m.params.Gloss)},
		{shader.UniformMaterialMetalness, renderer.Float(m.params.Metalness)},
		{shader.UniformMaterialSpecularColor, renderer.Vec4(m.params.SpecularColor)},
		{shader.UniformMaterialDiffuseColor, renderer.Vec4(m.params.DiffuseColor)},
	}
	for _, u := range uploads {
		if err := b.SetUniform(u.key, u.value); err != nil {
			return fmt.Errorf("material: failed to apply %q: %w", m.name, err)
		}
	}
	return nil
}
