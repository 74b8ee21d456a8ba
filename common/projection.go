package common

import "github.com/chewxy/math32"

const (
	// DefaultNear is the near clip distance used by PerspectiveFov.
	DefaultNear float32 = 0.1
	// DefaultFar is the far clip distance used by PerspectiveFov.
	DefaultFar float32 = 1000
)

// Mat4 is a column-major 4x4 matrix.
type Mat4 [16]float32

// Projection is a column-major 4x4 projection matrix mapping camera space to clip space.
// Clip depth follows the WebGPU [0, 1] range.
type Projection Mat4

// IdentityMat4 returns the 4x4 identity.
func IdentityMat4() Mat4 {
	var m Mat4
	Identity(m[:])
	return m
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	Mul4(out[:], m[:], o[:])
	return out
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for row := 0; row < 4; row++ {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}

// Inverse returns the general inverse of m, or false when m is singular.
func (m Mat4) Inverse() (Mat4, bool) {
	var out Mat4
	ok := Invert4(out[:], m[:])
	return out, ok
}

// PerspectiveFov builds a symmetric perspective projection with the default near and far planes.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//
// Returns:
//   - Projection: the camera-to-clip projection
func PerspectiveFov(fovY, aspect float32) Projection {
	return PerspectiveFovNearFar(fovY, aspect, DefaultNear, DefaultFar)
}

// PerspectiveFovNearFar builds a symmetric perspective projection with explicit clip planes.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clip distance (> 0)
//   - far: far clip distance (> near)
//
// Returns:
//   - Projection: the camera-to-clip projection
func PerspectiveFovNearFar(fovY, aspect, near, far float32) Projection {
	var p Projection
	f := 1 / math32.Tan(fovY/2)
	p[0] = f / aspect
	p[5] = f
	p[10] = far / (near - far)
	p[11] = -1
	p[14] = near * far / (near - far)
	return p
}

// InversePerspective inverts a projection built by PerspectiveFov. The x and y scales are
// inverted directly and the z/w block is inverted as a 2x2 matrix, so applying it twice returns
// the original projection.
//
// Parameters:
//   - p: a perspective projection or the inverse of one
//
// Returns:
//   - Projection: the inverse of p
func InversePerspective(p Projection) Projection {
	var inv Projection
	inv[0] = 1 / p[0]
	inv[5] = 1 / p[5]

	// z/w block, rows (z, w) x columns (z, w): [[p10, p14], [p11, p15]]
	det := p[10]*p[15] - p[14]*p[11]
	inv[10] = p[15] / det
	inv[14] = -p[14] / det
	inv[11] = -p[11] / det
	inv[15] = p[10] / det
	return inv
}

// Mul returns p * t as a full matrix.
func (p Projection) Mul(t Transform) Mat4 {
	return Mat4(p).Mul(t.Mat4())
}

// FlipY returns p with clip-space Y negated. Cubemap faces are addressed with +V pointing down,
// so face captures are rendered through a flipped projection.
func (p Projection) FlipY() Projection {
	p[1], p[5], p[9], p[13] = -p[1], -p[5], -p[9], -p[13]
	return p
}

// ClipToWorldPoint maps a clip-space point back to world space.
//
// Parameters:
//   - toWorld: the camera's to-world transform
//   - inverseProjection: the inverse of the camera's projection
//   - clip: clip-space point (x, y in [-1, 1], depth in [0, 1])
//
// Returns:
//   - Vec3: the world-space point
func ClipToWorldPoint(toWorld Transform, inverseProjection Projection, clip Vec3) Vec3 {
	v := Mat4(inverseProjection).MulVec4(clip.Vec4(1))
	camera := v.XYZ().Scale(1 / v[3])
	return toWorld.Point(camera)
}

// WorldToClipPoint maps a world-space point to clip space after the perspective divide.
//
// Parameters:
//   - worldToCamera: the camera's world-to-camera transform
//   - projection: the camera's projection
//   - world: world-space point
//
// Returns:
//   - Vec3: the clip-space point
func WorldToClipPoint(worldToCamera Transform, projection Projection, world Vec3) Vec3 {
	v := Mat4(projection).MulVec4(worldToCamera.Point(world).Vec4(1))
	return v.XYZ().Scale(1 / v[3])
}
