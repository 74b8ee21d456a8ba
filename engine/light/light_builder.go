package light

import "github.com/Carmen-Shannon/oxy-probe/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - d: the direction
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(d common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = d.Normalize()
	}
}

// WithColor is an option builder that sets the light color.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Vec4) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithAttenuation is an option builder that sets the point light attenuation constant.
//
// Parameters:
//   - k: the attenuation constant
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option to a lightImpl
func WithAttenuation(k float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.attenuation = k
	}
}

// WithEnabled is an option builder that sets whether the light is enabled.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
