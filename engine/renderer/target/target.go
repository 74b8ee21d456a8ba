// Package target owns the render targets of the frame pipeline: the shadow depth target, the
// cubemap capture target, the window target and the environment cubemaps the capture writes.
package target

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
)

var (
	// ErrNotBound is returned when an operation needs a bound target and none is.
	ErrNotBound = errors.New("target: no target bound")
	// ErrIncompatibleBind is returned for a bind, attach or pass that conflicts with the current binding.
	ErrIncompatibleBind = errors.New("target: incompatible bind")
	// ErrNoAttachment is returned when a pass is begun on a capture target with nowhere to write color.
	ErrNoAttachment = errors.New("target: capture target has no color attachment")
)

// Kind distinguishes the render targets of the pipeline.
type Kind int

const (
	KindShadow Kind = iota
	KindCapture
	KindWindow
)

func (k Kind) String() string {
	switch k {
	case KindShadow:
		return "shadow"
	case KindCapture:
		return "capture"
	case KindWindow:
		return "window"
	}
	return "unknown"
}

// target is the implementation of the Target interface.
type target struct {
	kind          Kind
	label         string
	width, height uint32

	depth   renderer.TextureHandle
	color   renderer.TextureHandle
	sampler renderer.SamplerHandle
}

// Target is a set of pass attachments created once at startup.
type Target interface {
	// Kind returns which pipeline target this is.
	//
	// Returns:
	//   - Kind: the target kind
	Kind() Kind

	// Label returns the debug label used for the target's textures and passes.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Size returns the attachment size in texels.
	//
	// Returns:
	//   - uint32: the width
	//   - uint32: the height
	Size() (uint32, uint32)

	// DepthTexture returns the depth attachment.
	//
	// Returns:
	//   - renderer.TextureHandle: the depth texture
	DepthTexture() renderer.TextureHandle

	// ColorTexture returns the target's own color texture, or zero when it has none.
	//
	// Returns:
	//   - renderer.TextureHandle: the color texture
	ColorTexture() renderer.TextureHandle

	// Sampler returns the sampler used to read the depth texture, or zero when it is never sampled.
	//
	// Returns:
	//   - renderer.SamplerHandle: the sampler
	Sampler() renderer.SamplerHandle
}

var _ Target = &target{}

// CreateShadowTarget creates the depth-only shadow map target and its comparison sampler.
//
// Parameters:
//   - backend: the backend owning the textures
//   - resolution: the edge length of the square shadow map
//
// Returns:
//   - Target: the shadow target
//   - error: an error if the resolution exceeds the device limit or creation fails
func CreateShadowTarget(backend renderer.RendererBackend, resolution uint32) (Target, error) {
	if err := checkResolution(backend, "shadow", resolution); err != nil {
		return nil, err
	}
	t := &target{kind: KindShadow, label: "shadow", width: resolution, height: resolution}
	var err error
	t.depth, err = backend.CreateTexture(renderer.TextureDescriptor{
		Label:        "shadow_depth",
		Width:        resolution,
		Height:       resolution,
		Format:       renderer.TextureFormatDepth32Float,
		RenderTarget: true,
	})
	if err != nil {
		return nil, fmt.Errorf("target: failed to create shadow depth: %w", err)
	}
	t.sampler, err = backend.CreateSampler(renderer.SamplerDescriptor{
		Label:   "shadow_compare",
		Filter:  renderer.FilterLinear,
		Address: renderer.AddressClampToEdge,
		Compare: true,
	})
	if err != nil {
		return nil, fmt.Errorf("target: failed to create shadow sampler: %w", err)
	}
	return t, nil
}

// CreateCaptureTarget creates the square target cubemap faces are rendered through. Without its
// own color texture every pass on it needs an attached cubemap face.
//
// Parameters:
//   - backend: the backend owning the textures
//   - resolution: the face edge length
//   - withColor: whether to create a scratch color texture
//
// Returns:
//   - Target: the capture target
//   - error: an error if the resolution exceeds the device limit or creation fails
func CreateCaptureTarget(backend renderer.RendererBackend, resolution uint32, withColor bool) (Target, error) {
	if err := checkResolution(backend, "capture", resolution); err != nil {
		return nil, err
	}
	t := &target{kind: KindCapture, label: "capture", width: resolution, height: resolution}
	var err error
	t.depth, err = backend.CreateTexture(renderer.TextureDescriptor{
		Label:        "capture_depth",
		Width:        resolution,
		Height:       resolution,
		Format:       renderer.TextureFormatDepth32Float,
		RenderTarget: true,
	})
	if err != nil {
		return nil, fmt.Errorf("target: failed to create capture depth: %w", err)
	}
	if withColor {
		t.color, err = backend.CreateTexture(renderer.TextureDescriptor{
			Label:        "capture_color",
			Width:        resolution,
			Height:       resolution,
			Format:       renderer.TextureFormatRGBA8Unorm,
			RenderTarget: true,
		})
		if err != nil {
			return nil, fmt.Errorf("target: failed to create capture color: %w", err)
		}
	}
	return t, nil
}

// CreateWindowTarget creates the target rendering to the window surface. Its depth buffer follows
// the surface size and is recreated when a pass begins after a resize.
//
// Parameters:
//   - backend: the backend owning the surface
//
// Returns:
//   - Target: the window target
//   - error: an error if the depth buffer cannot be created
func CreateWindowTarget(backend renderer.RendererBackend) (Target, error) {
	t := &target{kind: KindWindow, label: "window"}
	if err := t.syncSurface(backend); err != nil {
		return nil, err
	}
	return t, nil
}

func checkResolution(backend renderer.RendererBackend, label string, resolution uint32) error {
	if resolution == 0 {
		return fmt.Errorf("target: %s resolution must be positive", label)
	}
	if limit := backend.MaxTextureDimension(); resolution > limit {
		return fmt.Errorf("target: %s resolution %d exceeds device limit %d", label, resolution, limit)
	}
	return nil
}

// syncSurface recreates the window depth buffer when the surface size changed.
func (t *target) syncSurface(backend renderer.RendererBackend) error {
	if t.kind != KindWindow {
		return nil
	}
	w, h := backend.SurfaceSize()
	width, height := uint32(max(w, 1)), uint32(max(h, 1))
	if t.depth != 0 && width == t.width && height == t.height {
		return nil
	}
	depth, err := backend.CreateTexture(renderer.TextureDescriptor{
		Label:        "window_depth",
		Width:        width,
		Height:       height,
		Format:       renderer.TextureFormatDepth32Float,
		RenderTarget: true,
	})
	if err != nil {
		return fmt.Errorf("target: failed to create window depth %dx%d: %w", width, height, err)
	}
	if t.depth != 0 {
		backend.ReleaseTexture(t.depth)
	}
	t.depth, t.width, t.height = depth, width, height
	return nil
}

func (t *target) Kind() Kind {
	return t.kind
}

func (t *target) Label() string {
	return t.label
}

func (t *target) Size() (uint32, uint32) {
	return t.width, t.height
}

func (t *target) DepthTexture() renderer.TextureHandle {
	return t.depth
}

func (t *target) ColorTexture() renderer.TextureHandle {
	return t.color
}

func (t *target) Sampler() renderer.SamplerHandle {
	return t.sampler
}
