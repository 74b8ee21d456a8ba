package target

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

// faceAttachment redirects color output of a capture target into one cubemap face.
type faceAttachment struct {
	cube renderer.TextureHandle
	face common.CubeFace
	mip  uint32
}

// binding is one entry of the bind stack.
type binding struct {
	target *target
	face   *faceAttachment
}

// set is the implementation of the Set interface.
type set struct {
	backend  renderer.RendererBackend
	stack    []binding
	passOpen bool
}

// Set tracks which render target receives passes. Bindings nest as a stack: Unbind restores the
// previous target, and a target cannot be bound while a pass on the current one is open.
type Set interface {
	// Bind makes t the target of subsequent passes.
	//
	// Parameters:
	//   - t: a target created by this package
	//
	// Returns:
	//   - error: ErrIncompatibleBind if a pass is open or t is already on the stack
	Bind(t Target) error

	// Unbind ends any open pass on the bound target and restores the previous binding.
	//
	// Returns:
	//   - error: ErrNotBound if nothing is bound, or the backend's error ending the pass
	Unbind() error

	// Bound returns the bound target, or nil.
	//
	// Returns:
	//   - Target: the bound target
	Bound() Target

	// Depth returns the number of nested bindings.
	//
	// Returns:
	//   - int: the stack depth
	Depth() int

	// AttachFace redirects color output of the bound capture target into one cubemap face. An open
	// pass is ended first since a pass cannot change attachments.
	//
	// Parameters:
	//   - cube: the cubemap texture
	//   - face: the face to render into
	//   - mip: the mip level to render into
	//
	// Returns:
	//   - error: ErrNotBound, or ErrIncompatibleBind if the bound target is not a capture target
	AttachFace(cube renderer.TextureHandle, face common.CubeFace, mip uint32) error

	// BeginPass opens a render pass on the bound target.
	//
	// Parameters:
	//   - options: clear values and label
	//
	// Returns:
	//   - error: ErrNotBound, ErrIncompatibleBind if a pass is already open, ErrNoAttachment or a backend error
	BeginPass(options ...PassOption) error

	// EndPass closes the open pass.
	//
	// Returns:
	//   - error: ErrNotBound if no pass is open, or a backend error
	EndPass() error

	// PassOpen reports whether a pass is open.
	//
	// Returns:
	//   - bool: true while a pass is open
	PassOpen() bool
}

var _ Set = &set{}

// NewSet creates an empty Set recording against backend.
//
// Parameters:
//   - backend: the backend receiving the passes
//
// Returns:
//   - Set: the target set
func NewSet(backend renderer.RendererBackend) Set {
	return &set{backend: backend}
}

func (s *set) Bind(t Target) error {
	impl, ok := t.(*target)
	if !ok || impl == nil {
		return fmt.Errorf("%w: foreign target %T", ErrIncompatibleBind, t)
	}
	if s.passOpen {
		return fmt.Errorf("%w: %s bound while a pass on %s is open", ErrIncompatibleBind, impl.label, s.top().target.label)
	}
	if slices.ContainsFunc(s.stack, func(b binding) bool { return b.target == impl }) {
		return fmt.Errorf("%w: %s is already bound", ErrIncompatibleBind, impl.label)
	}
	s.stack = append(s.stack, binding{target: impl})
	return nil
}

func (s *set) Unbind() error {
	if len(s.stack) == 0 {
		return ErrNotBound
	}
	var err error
	if s.passOpen {
		err = s.EndPass()
	}
	s.stack = s.stack[:len(s.stack)-1]
	return err
}

func (s *set) Bound() Target {
	if len(s.stack) == 0 {
		return nil
	}
	return s.top().target
}

func (s *set) Depth() int {
	return len(s.stack)
}

func (s *set) top() *binding {
	return &s.stack[len(s.stack)-1]
}

func (s *set) AttachFace(cube renderer.TextureHandle, face common.CubeFace, mip uint32) error {
	if len(s.stack) == 0 {
		return ErrNotBound
	}
	b := s.top()
	if b.target.kind != KindCapture {
		return fmt.Errorf("%w: face attached to %s target", ErrIncompatibleBind, b.target.kind)
	}
	if cube == 0 {
		return fmt.Errorf("%w: nil cubemap", ErrIncompatibleBind)
	}
	if face < 0 || face >= common.CubeFaceCount {
		return fmt.Errorf("%w: face %d out of range", ErrIncompatibleBind, face)
	}
	if s.passOpen {
		if err := s.EndPass(); err != nil {
			return err
		}
	}
	b.face = &faceAttachment{cube: cube, face: face, mip: mip}
	return nil
}

func (s *set) BeginPass(options ...PassOption) error {
	if len(s.stack) == 0 {
		return ErrNotBound
	}
	if s.passOpen {
		return fmt.Errorf("%w: pass already open", ErrIncompatibleBind)
	}
	b := s.top()
	opts := newPassOptions(b, options)

	if err := b.target.syncSurface(s.backend); err != nil {
		return err
	}
	desc := renderer.PassDescriptor{
		Label: opts.label,
		Depth: &renderer.DepthAttachment{
			Texture:    b.target.depth,
			Clear:      opts.clearDepth,
			ClearDepth: opts.depth,
		},
	}
	switch b.target.kind {
	case KindWindow:
		desc.Color = &renderer.ColorAttachment{Surface: true, Clear: opts.clearColor, ClearColor: opts.color}
	case KindCapture:
		switch {
		case b.face != nil:
			desc.Color = &renderer.ColorAttachment{
				Texture:    b.face.cube,
				Layer:      uint32(b.face.face),
				Mip:        b.face.mip,
				Clear:      opts.clearColor,
				ClearColor: opts.color,
			}
		case b.target.color != 0:
			desc.Color = &renderer.ColorAttachment{Texture: b.target.color, Clear: opts.clearColor, ClearColor: opts.color}
		default:
			return ErrNoAttachment
		}
	}
	if err := s.backend.BeginPass(desc); err != nil {
		return fmt.Errorf("target: failed to begin pass %q: %w", desc.Label, err)
	}
	s.passOpen = true
	return nil
}

func (s *set) EndPass() error {
	if !s.passOpen {
		return fmt.Errorf("%w: no pass open", ErrNotBound)
	}
	s.passOpen = false
	return s.backend.EndPass()
}

func (s *set) PassOpen() bool {
	return s.passOpen
}
