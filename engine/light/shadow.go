package light

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/chewxy/math32"
)

// ShadowMapResolution is the default width and height in texels of the shadow depth texture.
const ShadowMapResolution = 1024

// ShadowFov is the field of view of the shadow-casting light's square projection.
const ShadowFov = math32.Pi / 2

// LightToWorld returns the to-world transform of the shadow-casting light: positioned at
// position and rotated about X by -pi/2 so it looks straight down.
//
// Parameters:
//   - position: the light position
//
// Returns:
//   - common.Transform: the light's to-world transform
func LightToWorld(position common.Vec3) common.Transform {
	t := common.RotationAxisAngle(common.Vec3{1, 0, 0}, -math32.Pi/2)
	t.Translation = position
	return t
}

// WorldToShadow returns the transform from world space into the shadow map's clip space.
//
// Parameters:
//   - position: the light position
//
// Returns:
//   - common.Mat4: PerspectiveFov(90deg, 1) * InverseUnscaled(LightToWorld(position))
func WorldToShadow(position common.Vec3) common.Mat4 {
	return common.PerspectiveFov(ShadowFov, 1).Mul(common.InverseUnscaled(LightToWorld(position)))
}
