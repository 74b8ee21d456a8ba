package common

import "github.com/chewxy/math32"

// Vec3 is a three component float32 vector.
type Vec3 [3]float32

// Vec4 is a four component float32 vector, also used for RGBA colors.
type Vec4 [4]float32

// WorldUp is the +Y axis of the right-handed world.
var WorldUp = Vec3{0, 1, 0}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

func (v Vec3) Negate() Vec3 { return Vec3{-v[0], -v[1], -v[2]} }

func (v Vec3) Dot(o Vec3) float32 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) Length() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Vec4 extends v with the given w component.
func (v Vec3) Vec4(w float32) Vec4 { return Vec4{v[0], v[1], v[2], w} }

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 { return Vec3{v[0], v[1], v[2]} }

// Transform is a 4x3 affine matrix stored as four column vectors: the X, Y and Z basis
// vectors followed by the translation. The implied fourth row is (0, 0, 0, 1).
//
// A camera's to-world transform has columns (right, up, back), so the camera looks along -Z.
type Transform struct {
	X, Y, Z     Vec3
	Translation Vec3
}

// IdentityTransform returns the transform that maps every point to itself.
func IdentityTransform() Transform {
	return Transform{X: Vec3{1, 0, 0}, Y: Vec3{0, 1, 0}, Z: Vec3{0, 0, 1}}
}

// TranslationTransform returns a pure translation.
func TranslationTransform(t Vec3) Transform {
	m := IdentityTransform()
	m.Translation = t
	return m
}

// RotationAxisAngle returns a rotation of angle radians about axis (right-hand rule) with no translation.
//
// Parameters:
//   - axis: rotation axis, normalized internally
//   - angle: rotation angle in radians
//
// Returns:
//   - Transform: the rotation
func RotationAxisAngle(axis Vec3, angle float32) Transform {
	a := axis.Normalize()
	s, c := math32.Sin(angle), math32.Cos(angle)
	t := 1 - c
	x, y, z := a[0], a[1], a[2]
	return Transform{
		X: Vec3{t*x*x + c, t*x*y + s*z, t*x*z - s*y},
		Y: Vec3{t*x*y - s*z, t*y*y + c, t*y*z + s*x},
		Z: Vec3{t*x*z + s*y, t*y*z - s*x, t*z*z + c},
	}
}

// MakeTransform composes a rotation, a per-axis scale and a translation into one transform.
// The result applies scale first, then rotation, then translation.
//
// Parameters:
//   - rotation: rotation transform (its translation is ignored)
//   - translation: world position
//   - scale: per-axis scale factors
//
// Returns:
//   - Transform: the composed transform
func MakeTransform(rotation Transform, translation, scale Vec3) Transform {
	return Transform{
		X:           rotation.X.Scale(scale[0]),
		Y:           rotation.Y.Scale(scale[1]),
		Z:           rotation.Z.Scale(scale[2]),
		Translation: translation,
	}
}

// LookAt builds a to-world transform at eye whose -Z axis points along forward.
// The up vector only needs to be non-parallel to forward; the returned basis is orthonormal.
//
// Parameters:
//   - eye: position of the viewer in world space
//   - forward: viewing direction
//   - up: approximate up direction
//
// Returns:
//   - Transform: the viewer's to-world transform
func LookAt(eye, forward, up Vec3) Transform {
	back := forward.Normalize().Negate()
	right := up.Cross(back).Normalize()
	trueUp := back.Cross(right)
	return Transform{X: right, Y: trueUp, Z: back, Translation: eye}
}

// InverseUnscaled inverts a rigid or uniformly scaled transform using the transposed basis.
// It does not handle non-uniform scale or shear.
//
// Parameters:
//   - t: the transform to invert
//
// Returns:
//   - Transform: the inverse of t
func InverseUnscaled(t Transform) Transform {
	invScale2 := float32(1)
	if l2 := t.X.Dot(t.X); l2 != 0 {
		invScale2 = 1 / l2
	}
	inv := Transform{
		X: Vec3{t.X[0], t.Y[0], t.Z[0]}.Scale(invScale2),
		Y: Vec3{t.X[1], t.Y[1], t.Z[1]}.Scale(invScale2),
		Z: Vec3{t.X[2], t.Y[2], t.Z[2]}.Scale(invScale2),
	}
	inv.Translation = inv.Direction(t.Translation).Negate()
	return inv
}

// Mul returns the composition t * o, which applies o first and then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		X:           t.Direction(o.X),
		Y:           t.Direction(o.Y),
		Z:           t.Direction(o.Z),
		Translation: t.Point(o.Translation),
	}
}

// Point transforms a position, including translation.
func (t Transform) Point(p Vec3) Vec3 {
	return t.Direction(p).Add(t.Translation)
}

// Direction transforms a direction, ignoring translation.
func (t Transform) Direction(d Vec3) Vec3 {
	return t.X.Scale(d[0]).Add(t.Y.Scale(d[1])).Add(t.Z.Scale(d[2]))
}

// Forward returns the unit viewing direction of a to-world transform (its -Z axis).
func (t Transform) Forward() Vec3 {
	return t.Z.Negate().Normalize()
}

// Mat4 expands the transform to a column-major 4x4 matrix.
func (t Transform) Mat4() Mat4 {
	return Mat4{
		t.X[0], t.X[1], t.X[2], 0,
		t.Y[0], t.Y[1], t.Y[2], 0,
		t.Z[0], t.Z[1], t.Z[2], 0,
		t.Translation[0], t.Translation[1], t.Translation[2], 1,
	}
}

// MulProjection returns t * p as a full matrix.
func (t Transform) MulProjection(p Projection) Mat4 {
	return t.Mat4().Mul(Mat4(p))
}

// Columns returns the twelve floats of the transform column by column, matching a
// mat4x3<f32> without padding.
func (t Transform) Columns() [12]float32 {
	return [12]float32{
		t.X[0], t.X[1], t.X[2],
		t.Y[0], t.Y[1], t.Y[2],
		t.Z[0], t.Z[1], t.Z[2],
		t.Translation[0], t.Translation[1], t.Translation[2],
	}
}
