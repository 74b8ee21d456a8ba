package target

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

// passOptions holds the clear values and label of one pass.
type passOptions struct {
	label      string
	clearColor bool
	color      common.Vec4
	clearDepth bool
	depth      float32
}

// PassOption configures a pass begun through Set.BeginPass.
type PassOption func(*passOptions)

// newPassOptions returns the defaults for b: clear color to opaque black, clear depth to 1 and a
// label naming the target and attached face.
func newPassOptions(b *binding, options []PassOption) passOptions {
	o := passOptions{
		label:      b.target.label,
		clearColor: true,
		color:      common.Vec4{0, 0, 0, 1},
		clearDepth: true,
		depth:      1,
	}
	if b.face != nil {
		o.label = fmt.Sprintf("%s %s mip %d", b.target.label, b.face.face, b.face.mip)
	}
	for _, opt := range options {
		opt(&o)
	}
	return o
}

// WithClearColor sets the color the pass clears to.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - PassOption: a function that applies the clear color
func WithClearColor(c common.Vec4) PassOption {
	return func(o *passOptions) {
		o.clearColor = true
		o.color = c
	}
}

// WithClearDepth sets the depth the pass clears to.
//
// Parameters:
//   - d: the clear depth in [0, 1]
//
// Returns:
//   - PassOption: a function that applies the clear depth
func WithClearDepth(d float32) PassOption {
	return func(o *passOptions) {
		o.clearDepth = true
		o.depth = d
	}
}

// WithLoad keeps the previous attachment contents instead of clearing them.
func WithLoad() PassOption {
	return func(o *passOptions) {
		o.clearColor = false
		o.clearDepth = false
	}
}

// WithLabel overrides the pass label.
func WithLabel(label string) PassOption {
	return func(o *passOptions) {
		o.label = label
	}
}
