package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// Gold is the specular color shared by the ground and the orbiting primitives.
var Gold = common.Vec4{1.00, 0.71, 0.29, 1.00}

// Pawn returns the player character's material.
func Pawn() Material {
	return NewMaterial(
		WithName("pawn"),
		WithGloss(0.3),
		WithMetalness(0),
		WithSpecularColor(common.Vec4{1, 1, 0, 1}),
		WithDiffuseColor(common.Vec4{1, 0, 0, 1}),
	)
}

// Ground returns the ground slab's material.
func Ground() Material {
	return NewMaterial(
		WithName("ground"),
		WithGloss(0.3),
		WithMetalness(0),
		WithSpecularColor(Gold),
		WithDiffuseColor(common.Vec4{0.4, 0.4, 0.4, 1}),
	)
}

// Ring returns the material of orbiting primitive i of n: fully metallic gold with a gray
// diffuse ramp of i/n.
func Ring(i, n int) Material {
	d := float32(i) / float32(n)
	return NewMaterial(
		WithName(fmt.Sprintf("ring_%d", i)),
		WithGloss(0.3),
		WithMetalness(1),
		WithSpecularColor(Gold),
		WithDiffuseColor(common.Vec4{d, d, d, 1}),
	)
}
