// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Rect is a window rectangle in screen coordinates. A negative X or Y lets the platform choose the position.
type Rect struct {
	X      int `yaml:"x" toml:"x"`
	Y      int `yaml:"y" toml:"y"`
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// PixelData holds tightly packed RGBA8 pixel data pending GPU upload.
type PixelData struct {
	// Pixels is the RGBA byte slice, 4 bytes per pixel, row-major.
	Pixels []byte
	// Width is the width of the image in pixels.
	Width uint32
	// Height is the height of the image in pixels.
	Height uint32
}

// SolidPixel returns a 1x1 image of the given color, channels in [0, 1].
func SolidPixel(c Vec4) PixelData {
	px := make([]byte, 4)
	for i := range px {
		px[i] = uint8(Clamp(c[i], 0, 1)*255 + 0.5)
	}
	return PixelData{Pixels: px, Width: 1, Height: 1}
}

// CubeFace identifies one face of a cubemap in the fixed order +X, -X, +Y, -Y, +Z, -Z.
type CubeFace int

const (
	CubeFacePositiveX CubeFace = iota
	CubeFaceNegativeX
	CubeFacePositiveY
	CubeFaceNegativeY
	CubeFacePositiveZ
	CubeFaceNegativeZ
)

// CubeFaceCount is the number of faces of a cubemap.
const CubeFaceCount = 6

// String returns the axis label of the face.
func (f CubeFace) String() string {
	switch f {
	case CubeFacePositiveX:
		return "+X"
	case CubeFaceNegativeX:
		return "-X"
	case CubeFacePositiveY:
		return "+Y"
	case CubeFaceNegativeY:
		return "-Y"
	case CubeFacePositiveZ:
		return "+Z"
	case CubeFaceNegativeZ:
		return "-Z"
	}
	return "?"
}

// Axis returns the unit vector the face looks along from the cube center.
func (f CubeFace) Axis() Vec3 {
	switch f {
	case CubeFacePositiveX:
		return Vec3{1, 0, 0}
	case CubeFaceNegativeX:
		return Vec3{-1, 0, 0}
	case CubeFacePositiveY:
		return Vec3{0, 1, 0}
	case CubeFaceNegativeY:
		return Vec3{0, -1, 0}
	case CubeFacePositiveZ:
		return Vec3{0, 0, 1}
	case CubeFaceNegativeZ:
		return Vec3{0, 0, -1}
	}
	return Vec3{}
}

// Up returns the face's up vector used when rendering into it.
func (f CubeFace) Up() Vec3 {
	switch f {
	case CubeFacePositiveY:
		return Vec3{0, 0, 1}
	case CubeFaceNegativeY:
		return Vec3{0, 0, -1}
	}
	return Vec3{0, -1, 0}
}

// KeyState reports which keys are held during the current frame.
type KeyState interface {
	// KeyDown reports whether the key with the given GLFW key code is held.
	KeyDown(keyCode uint32) bool
}

// KeySet is a KeyState backed by a set of held key codes.
type KeySet map[uint32]bool

// KeyDown reports whether keyCode is in the set.
func (k KeySet) KeyDown(keyCode uint32) bool {
	return k[keyCode]
}
