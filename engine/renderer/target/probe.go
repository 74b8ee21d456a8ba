package target

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/chewxy/math32"
)

// ProbeFov is the field of view of every face capture.
const ProbeFov = math32.Pi / 2

// EnvironmentProbe is a fixed point whose surroundings are captured into a cubemap every frame.
//
// The probe owns two cubemaps used ping-pong. Capture n writes Write(n) while shading samples
// Read(n), the result of capture n-1; the final pass of the same frame then samples Write(n).
type EnvironmentProbe struct {
	position   common.Vec3
	resolution uint32
	lodBase    uint32
	cubemaps   [2]*Cubemap
	capture    Target
}

// ProbeOption configures an EnvironmentProbe.
type ProbeOption func(*EnvironmentProbe)

// WithLevelOfDetailBase sets the base added to the level of detail count.
func WithLevelOfDetailBase(base uint32) ProbeOption {
	return func(p *EnvironmentProbe) {
		p.lodBase = base
	}
}

// NewEnvironmentProbe creates the probe's cubemaps and capture target.
//
// Parameters:
//   - backend: the backend owning the textures
//   - position: the probe's world position
//   - resolution: the cubemap face edge length
//   - options: probe options
//
// Returns:
//   - *EnvironmentProbe: the probe
//   - error: an error if any texture cannot be created
func NewEnvironmentProbe(backend renderer.RendererBackend, position common.Vec3, resolution uint32, options ...ProbeOption) (*EnvironmentProbe, error) {
	p := &EnvironmentProbe{position: position, resolution: resolution}
	for _, opt := range options {
		opt(p)
	}
	for i := range p.cubemaps {
		cube, err := CreateCubemap(backend, resolution, WithCubemapLabel(fmt.Sprintf("environment_%d", i)))
		if err != nil {
			return nil, err
		}
		p.cubemaps[i] = cube
	}
	capture, err := CreateCaptureTarget(backend, resolution, false)
	if err != nil {
		return nil, err
	}
	p.capture = capture
	common.Logger().Info("environment probe created", "position", position, "resolution", resolution, "mip_levels", p.cubemaps[0].MipLevels)
	return p, nil
}

// Position returns the probe's world position.
func (p *EnvironmentProbe) Position() common.Vec3 { return p.position }

// Resolution returns the cubemap face edge length.
func (p *EnvironmentProbe) Resolution() uint32 { return p.resolution }

// CaptureTarget returns the target faces are rendered through.
func (p *EnvironmentProbe) CaptureTarget() Target { return p.capture }

// Write returns the cubemap capture n renders into.
func (p *EnvironmentProbe) Write(capture uint64) *Cubemap {
	return p.cubemaps[capture%2]
}

// Read returns the cubemap written by the capture before capture n.
func (p *EnvironmentProbe) Read(capture uint64) *Cubemap {
	return p.cubemaps[(capture+1)%2]
}

// LevelOfDetailCount returns the mip range shaders may sample the probe's cubemaps through.
func (p *EnvironmentProbe) LevelOfDetailCount() uint32 {
	return LevelOfDetailCount(p.lodBase, p.resolution, p.cubemaps[0].MaxLevel())
}

// WorldToEnvironment returns the transform from world space to probe-centered space.
func (p *EnvironmentProbe) WorldToEnvironment() common.Transform {
	return common.InverseUnscaled(common.TranslationTransform(p.position))
}

// Block returns the uniform block describing the probe.
func (p *EnvironmentProbe) Block() EnvironmentBlock {
	return EnvironmentBlock{
		WorldToEnvironment: p.WorldToEnvironment(),
		LevelOfDetailCount: float32(p.LevelOfDetailCount()),
	}
}

// FaceToWorld returns the to-world transform of the view rendering face.
//
// Parameters:
//   - face: the cubemap face
//
// Returns:
//   - common.Transform: the face view's to-world transform
func (p *EnvironmentProbe) FaceToWorld(face common.CubeFace) common.Transform {
	return common.LookAt(p.position, face.Axis(), face.Up())
}

// FaceView returns the world-to-camera transform of the view rendering face.
//
// Parameters:
//   - face: the cubemap face
//
// Returns:
//   - common.Transform: the face view
func (p *EnvironmentProbe) FaceView(face common.CubeFace) common.Transform {
	return common.InverseUnscaled(p.FaceToWorld(face))
}

// FaceProjection returns the square 90 degree projection used for every face, flipped vertically
// because cubemap faces are addressed with V pointing down.
func FaceProjection() common.Projection {
	return common.PerspectiveFov(ProbeFov, 1).FlipY()
}
