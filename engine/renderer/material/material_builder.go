package material

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

// MaterialBuilderOption is a functional option for configuring a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the name identifier of the material.
//
// Parameters:
//   - name: the material name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithGloss sets the specular gloss of the material.
//
// Parameters:
//   - gloss: the gloss factor in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the gloss option to a material
func WithGloss(gloss float32) MaterialBuilderOption {
	return func(m *material) {
		m.params.Gloss = gloss
	}
}

// WithMetalness sets the metalness of the material.
// A value of 0.0 is a dielectric surface, 1.0 a fully reflective metal.
//
// Parameters:
//   - metalness: the metalness factor
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness option to a material
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *material) {
		m.params.Metalness = metalness
	}
}

// WithSpecularColor sets the specular RGBA color of the material.
//
// Parameters:
//   - color: the specular color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular color option to a material
func WithSpecularColor(color common.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.params.SpecularColor = color
	}
}

// WithDiffuseColor sets the diffuse RGBA color of the material.
//
// Parameters:
//   - color: the diffuse color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse color option to a material
func WithDiffuseColor(color common.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.params.DiffuseColor = color
	}
}

// WithDiffuseMap sets the diffuse texture of the material.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithDiffuseMap(tex renderer.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseMap = tex
	}
}

// WithNormalMap sets the normal map texture of the material.
//
// Parameters:
//   - tex: the texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithNormalMap(tex renderer.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.normalMap = tex
	}
}
