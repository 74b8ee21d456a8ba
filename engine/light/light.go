package light

import "github.com/Carmen-Shannon/oxy-probe/common"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Affects all fragments uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position,
	// attenuated by 1 / (1 + k * d^2).
	LightTypePoint
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType   LightType
	position    common.Vec3
	direction   common.Vec3
	color       common.Vec4
	attenuation float32
	enabled     bool
}

// Light defines the interface for a light source in the scene.
//
// At most one directional and one point light are packed into the lighting block each frame.
// Type-specific properties return zero values when not applicable.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional or point)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - common.Vec3: the position
	Position() common.Vec3

	// Direction returns the normalized direction the light travels in.
	// Meaningless for point lights.
	//
	// Returns:
	//   - common.Vec3: the direction
	Direction() common.Vec3

	// Color returns the light color.
	//
	// Returns:
	//   - common.Vec4: the color
	Color() common.Vec4

	// Attenuation returns the point light attenuation constant k.
	//
	// Returns:
	//   - float32: the attenuation constant
	Attenuation() float32

	// Enabled returns whether this light is packed into the lighting block.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p common.Vec3)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - d: the direction (will be normalized)
	SetDirection(d common.Vec3)

	// SetColor sets the light color.
	//
	// Parameters:
	//   - c: the color
	SetColor(c common.Vec4)

	// SetAttenuation sets the point light attenuation constant.
	//
	// Parameters:
	//   - k: the attenuation constant
	SetAttenuation(k float32)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		direction: common.Vec3{0, -1, 0},
		color:     common.Vec4{1, 1, 1, 1},
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() common.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() common.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() common.Vec4 {
	return l.color
}

func (l *lightImpl) Attenuation() float32 {
	return l.attenuation
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(p common.Vec3) {
	l.position = p
}

func (l *lightImpl) SetDirection(d common.Vec3) {
	l.direction = d.Normalize()
}

func (l *lightImpl) SetColor(c common.Vec4) {
	l.color = c
}

func (l *lightImpl) SetAttenuation(k float32) {
	l.attenuation = k
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
