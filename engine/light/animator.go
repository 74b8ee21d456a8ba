package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/chewxy/math32"
)

type animatorImpl struct {
	mu *sync.Mutex

	elapsed     float32
	amplitude   float32
	height      float32
	depth       float32
	attenuation float32
}

// Animator owns the point light animation clock. Each frame advances the clock by the frame
// delta; the light swings along X as (amplitude * sin(elapsed), height, depth).
type Animator interface {
	// Advance adds deltaSeconds to the clock and returns the new light position.
	//
	// Parameters:
	//   - deltaSeconds: the frame time in seconds
	//
	// Returns:
	//   - common.Vec3: the light position for this frame
	Advance(deltaSeconds float32) common.Vec3

	// Position returns the light position for the current clock value.
	//
	// Returns:
	//   - common.Vec3: the light position
	Position() common.Vec3

	// Elapsed returns the accumulated animation time in seconds.
	//
	// Returns:
	//   - float32: the clock value
	Elapsed() float32

	// Attenuation returns the attenuation constant applied to the animated light.
	//
	// Returns:
	//   - float32: the attenuation constant k
	Attenuation() float32
}

var _ Animator = &animatorImpl{}

// AnimatorBuilderOption configures an Animator during construction.
type AnimatorBuilderOption func(*animatorImpl)

// WithSwing sets the animation path: X amplitude, fixed height and fixed depth.
//
// Parameters:
//   - amplitude: the X swing amplitude
//   - height: the fixed Y coordinate
//   - depth: the fixed Z coordinate
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the path to an animator
func WithSwing(amplitude, height, depth float32) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.amplitude = amplitude
		a.height = height
		a.depth = depth
	}
}

// WithAnimatedAttenuation sets the attenuation constant of the animated light.
//
// Parameters:
//   - k: the attenuation constant
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the constant to an animator
func WithAnimatedAttenuation(k float32) AnimatorBuilderOption {
	return func(a *animatorImpl) {
		a.attenuation = k
	}
}

// NewAnimator creates an animator swinging the light along (2 sin t, 25, 5) with k = 0.005.
//
// Parameters:
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the animator with its clock at zero
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animatorImpl{
		mu:          &sync.Mutex{},
		amplitude:   2,
		height:      25,
		depth:       5,
		attenuation: 0.005,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animatorImpl) Advance(deltaSeconds float32) common.Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.elapsed += deltaSeconds
	return a.position()
}

func (a *animatorImpl) Position() common.Vec3 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position()
}

func (a *animatorImpl) Elapsed() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.elapsed
}

func (a *animatorImpl) Attenuation() float32 {
	return a.attenuation
}

// position evaluates the path. Caller must hold the mutex.
func (a *animatorImpl) position() common.Vec3 {
	return common.Vec3{a.amplitude * math32.Sin(a.elapsed), a.height, a.depth}
}
