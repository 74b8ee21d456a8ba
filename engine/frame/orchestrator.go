// Package frame runs the per-frame render pipeline: light update, shadow depth pass, six-face
// environment capture and the final composite, as an explicit stage machine.
package frame

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-probe/assets"
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/light"
	"github.com/Carmen-Shannon/oxy-probe/engine/model"
	"github.com/Carmen-Shannon/oxy-probe/engine/profiler"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-probe/engine/scene"
)

// CaptureOrder is the order the probe faces are rendered in every frame.
var CaptureOrder = [common.CubeFaceCount]common.CubeFace{
	common.CubeFacePositiveX,
	common.CubeFaceNegativeX,
	common.CubeFacePositiveY,
	common.CubeFaceNegativeY,
	common.CubeFacePositiveZ,
	common.CubeFaceNegativeZ,
}

// Buffer labels of the shared uniform blocks.
const (
	LightingBufferLabel = "lighting"
	CameraBufferLabel   = "camera"
)

type orchestrator struct {
	r       renderer.Renderer
	backend renderer.RendererBackend
	binder  renderer.Binder
	scene   scene.Scene
	targets target.Set

	shadow  target.Target
	window  target.Target
	probe   *target.EnvironmentProbe
	skybox  *target.Cubemap
	skyQuad model.MeshBatch

	cameraBuffer   renderer.BufferHandle
	lightingBuffer renderer.BufferHandle

	animator light.Animator
	sun      light.Light
	bulb     light.Light
	ambient  common.Vec4

	clearColor            common.Vec4
	shadowResolution      uint32
	environmentResolution uint32
	probePosition         common.Vec3
	lodBase               uint32
	drawProbeMarker       bool

	profiler *profiler.Profiler
	ctx      Context
}

// Orchestrator defines the interface for the frame pipeline. It owns every GPU resource the
// passes share: the shadow target, the environment probe, the window target, the camera and
// lighting buffers and the skybox.
//
// Each RunFrame walks the stages in order. The capture pass samples the cubemap written by the
// previous frame, while the final pass samples the one written by the current frame.
type Orchestrator interface {
	// RunFrame records and submits one frame.
	//
	// Parameters:
	//   - deltaSeconds: the frame time in seconds, used to advance the light animation
	//   - view: the camera the final pass renders from
	//
	// Returns:
	//   - error: ErrStageOrder, or a wrapped binding, target or backend error from the failing stage
	RunFrame(deltaSeconds float32, view camera.Camera) error

	// Context returns a copy of the frame context after the last RunFrame.
	//
	// Returns:
	//   - Context: the frame context
	Context() Context

	// Probe returns the environment probe.
	//
	// Returns:
	//   - *target.EnvironmentProbe: the probe
	Probe() *target.EnvironmentProbe

	// ShadowTarget returns the shadow depth target.
	//
	// Returns:
	//   - target.Target: the shadow target
	ShadowTarget() target.Target

	// Skybox returns the cubemap drawn behind the scene.
	//
	// Returns:
	//   - *target.Cubemap: the skybox
	Skybox() *target.Cubemap
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator creates the frame pipeline for sc. Every program in assets.Programs must
// already be loaded on r. All GPU resources are created here; failure is an initialization error.
//
// Parameters:
//   - r: the renderer with the pipeline programs loaded
//   - sc: the scene replayed by every pass
//   - options: variadic list of OrchestratorBuilderOption functions
//
// Returns:
//   - Orchestrator: the pipeline
//   - error: a missing program or a resource creation error
func NewOrchestrator(r renderer.Renderer, sc scene.Scene, options ...OrchestratorBuilderOption) (Orchestrator, error) {
	o := &orchestrator{
		r:                     r,
		backend:               r.Backend(),
		binder:                r.Binder(),
		scene:                 sc,
		targets:               target.NewSet(r.Backend()),
		clearColor:            common.Vec4{0, 0.5, 0.5, 1},
		shadowResolution:      light.ShadowMapResolution,
		environmentResolution: 1024,
		probePosition:         common.Vec3{0, 10, 0},
		drawProbeMarker:       true,
	}
	for _, option := range options {
		option(o)
	}
	if o.animator == nil {
		o.animator = light.NewAnimator()
	}
	o.sun = light.NewLight(light.LightTypeDirectional,
		light.WithDirection(common.Vec3{1, -1, 0}),
		light.WithColor(common.Vec4{0.3, 0.3, 0.3, 1}),
	)
	o.bulb = light.NewLight(light.LightTypePoint,
		light.WithPosition(o.animator.Position()),
		light.WithColor(common.Vec4{1, 1, 1, 1}),
		light.WithAttenuation(o.animator.Attenuation()),
	)

	for _, name := range []string{assets.ShadowDepthProgram, assets.SkyProgram, assets.ShadingProgram, assets.ProbeDebugProgram} {
		if r.Program(name) == nil {
			return nil, fmt.Errorf("frame: program %q is not loaded", name)
		}
	}
	if err := o.createResources(); err != nil {
		return nil, err
	}
	common.Logger().Info("frame pipeline ready",
		"shadow_resolution", o.shadowResolution,
		"environment_resolution", o.environmentResolution,
		"probe", o.probePosition,
	)
	return o, nil
}

func (o *orchestrator) createResources() error {
	var err error
	if o.shadow, err = target.CreateShadowTarget(o.backend, o.shadowResolution); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	if o.window, err = target.CreateWindowTarget(o.backend); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	o.probe, err = target.NewEnvironmentProbe(o.backend, o.probePosition, o.environmentResolution, target.WithLevelOfDetailBase(o.lodBase))
	if err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	if o.skybox == nil {
		var faces [common.CubeFaceCount]common.PixelData
		for i := range faces {
			faces[i] = common.SolidPixel(o.clearColor)
		}
		if o.skybox, err = target.UploadCubemapFaces(o.backend, "skybox", faces); err != nil {
			return fmt.Errorf("frame: %w", err)
		}
	}
	if o.skyQuad, err = model.NewMeshBatch(o.backend, model.NewClipQuad()); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	if o.cameraBuffer, err = o.backend.CreateBuffer(renderer.BufferDescriptor{Label: CameraBufferLabel, Size: camera.CameraBlockSize}); err != nil {
		return fmt.Errorf("frame: failed to create camera buffer: %w", err)
	}
	if o.lightingBuffer, err = o.backend.CreateBuffer(renderer.BufferDescriptor{Label: LightingBufferLabel, Size: light.LightingBlockSize}); err != nil {
		return fmt.Errorf("frame: failed to create lighting buffer: %w", err)
	}
	return nil
}

func (o *orchestrator) Context() Context {
	return o.ctx
}

func (o *orchestrator) Probe() *target.EnvironmentProbe {
	return o.probe
}

func (o *orchestrator) ShadowTarget() target.Target {
	return o.shadow
}

func (o *orchestrator) Skybox() *target.Cubemap {
	return o.skybox
}

func (o *orchestrator) RunFrame(deltaSeconds float32, view camera.Camera) (err error) {
	if err := o.ctx.Begin(deltaSeconds); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			o.ctx.Abort()
		}
	}()

	if err := o.backend.BeginFrame(); err != nil {
		return fmt.Errorf("frame: failed to begin frame %d: %w", o.ctx.Index, err)
	}
	stages := []struct {
		stage Stage
		run   func() error
	}{
		{StageLightUpdate, o.updateLight},
		{StageShadowPass, o.renderShadow},
		{StageEnvironmentCapture, o.captureEnvironment},
		{StageFinalPass, func() error { return o.renderFinal(view) }},
	}
	for _, s := range stages {
		if err := o.ctx.Advance(s.stage); err != nil {
			return err
		}
		stop := o.measure(s.stage)
		err := s.run()
		stop()
		if err != nil {
			return fmt.Errorf("frame: %s failed in frame %d: %w", s.stage, o.ctx.Index, err)
		}
	}
	if err := o.backend.EndFrame(); err != nil {
		return fmt.Errorf("frame: failed to submit frame %d: %w", o.ctx.Index, err)
	}
	return o.ctx.Advance(StageComplete)
}

func (o *orchestrator) measure(stage Stage) func() {
	if o.profiler == nil {
		return func() {}
	}
	return o.profiler.Measure(stage.String())
}

func (o *orchestrator) updateLight() error {
	pos := o.animator.Advance(o.ctx.Delta)
	o.ctx.Elapsed = o.animator.Elapsed()
	o.ctx.LightPosition = pos
	o.ctx.WorldToShadow = light.WorldToShadow(pos)

	o.bulb.SetPosition(pos)
	o.bulb.SetAttenuation(o.animator.Attenuation())
	block, err := light.NewLightingBlock(o.ambient, o.sun, o.bulb)
	if err != nil {
		return err
	}
	return o.binder.WithMappedBuffer(o.lightingBuffer, func(dst []byte) error {
		block.MarshalInto(dst)
		return nil
	})
}

func (o *orchestrator) renderShadow() error {
	return o.withTarget(o.shadow, func() error {
		if err := o.targets.BeginPass(target.WithClearDepth(1)); err != nil {
			return err
		}
		if err := o.bindProgram(assets.ShadowDepthProgram); err != nil {
			return err
		}
		if err := o.binder.SetUniform(shader.UniformWorldToShadowMap, renderer.Mat4(o.ctx.WorldToShadow)); err != nil {
			return err
		}
		return o.scene.Replay(o.binder, scene.ReplayOverride)
	})
}

func (o *orchestrator) captureEnvironment() error {
	write, read := o.probe.Write(o.ctx.Captures), o.probe.Read(o.ctx.Captures)
	projection := target.FaceProjection()
	err := o.withTarget(o.probe.CaptureTarget(), func() error {
		for _, face := range CaptureOrder {
			if err := o.captureFace(face, write, read, projection); err != nil {
				return fmt.Errorf("face %s: %w", face, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := o.backend.GenerateMipmaps(write.Texture); err != nil {
		return err
	}
	o.ctx.Captures++
	return nil
}

func (o *orchestrator) captureFace(face common.CubeFace, write, read *target.Cubemap, projection common.Projection) error {
	if err := o.targets.AttachFace(write.Texture, face, 0); err != nil {
		return err
	}
	worldToProbe := o.probe.FaceView(face)
	if err := o.uploadCamera(camera.NewCameraBlock(worldToProbe, projection, o.probe.Position())); err != nil {
		return err
	}
	if err := o.targets.BeginPass(target.WithClearColor(o.clearColor), target.WithClearDepth(1)); err != nil {
		return err
	}
	if err := o.drawSky(worldToProbe, projection); err != nil {
		return err
	}
	if err := o.drawShaded(read); err != nil {
		return err
	}
	return o.targets.EndPass()
}

func (o *orchestrator) renderFinal(view camera.Camera) error {
	// the cubemap captured earlier in this frame
	env := o.probe.Write(o.ctx.Captures - 1)
	return o.withTarget(o.window, func() error {
		if err := o.uploadCamera(view.Block()); err != nil {
			return err
		}
		if err := o.targets.BeginPass(target.WithClearColor(o.clearColor), target.WithClearDepth(1)); err != nil {
			return err
		}
		if err := o.drawSky(view.WorldToCamera(), view.Projection()); err != nil {
			return err
		}
		if err := o.drawShaded(env); err != nil {
			return err
		}
		if !o.drawProbeMarker {
			return nil
		}
		return o.drawMarker(env)
	})
}

// withTarget binds t for the duration of fn. Unbinding ends any pass fn left open.
func (o *orchestrator) withTarget(t target.Target, fn func() error) (err error) {
	if err := o.targets.Bind(t); err != nil {
		return err
	}
	defer func() {
		if uerr := o.targets.Unbind(); err == nil {
			err = uerr
		}
	}()
	return fn()
}

func (o *orchestrator) bindProgram(name string) error {
	return o.binder.BindProgram(o.r.Program(name))
}

func (o *orchestrator) uploadCamera(block camera.CameraBlock) error {
	return o.binder.WithMappedBuffer(o.cameraBuffer, func(dst []byte) error {
		block.MarshalInto(dst)
		return nil
	})
}

func (o *orchestrator) drawSky(worldToCamera common.Transform, cameraToClip common.Projection) error {
	if err := o.bindProgram(assets.SkyProgram); err != nil {
		return err
	}
	clipToWorld := common.InverseUnscaled(worldToCamera).MulProjection(common.InversePerspective(cameraToClip))
	if err := o.binder.SetUniform(shader.UniformClipToWorld, renderer.Mat4(clipToWorld)); err != nil {
		return err
	}
	if err := o.binder.BindTexture(shader.UniformSkyboxCubeMap, o.skybox.Texture, o.skybox.Sampler); err != nil {
		return err
	}
	return o.binder.Draw(o.skyQuad)
}

func (o *orchestrator) drawShaded(env *target.Cubemap) error {
	if err := o.bindProgram(assets.ShadingProgram); err != nil {
		return err
	}
	b := o.binder
	if err := b.BindBuffer(shader.UniformCamera, o.cameraBuffer); err != nil {
		return err
	}
	if err := b.BindBuffer(shader.UniformLighting, o.lightingBuffer); err != nil {
		return err
	}
	if err := b.SetUniform(shader.UniformShadowWorldToShadow, renderer.Mat4(o.ctx.WorldToShadow)); err != nil {
		return err
	}
	if err := b.BindTexture(shader.UniformShadowMap, o.shadow.DepthTexture(), o.shadow.Sampler()); err != nil {
		return err
	}
	if err := o.bindEnvironment(env); err != nil {
		return err
	}
	lod := float32(o.probe.LevelOfDetailCount())
	if err := b.SetUniform(shader.UniformEnvironmentLevelOfDetailCount, renderer.Float(lod)); err != nil {
		return err
	}
	return o.scene.Replay(b, scene.ReplayShaded)
}

func (o *orchestrator) drawMarker(env *target.Cubemap) error {
	if err := o.bindProgram(assets.ProbeDebugProgram); err != nil {
		return err
	}
	if err := o.binder.BindBuffer(shader.UniformCamera, o.cameraBuffer); err != nil {
		return err
	}
	if err := o.bindEnvironment(env); err != nil {
		return err
	}
	return o.scene.DrawProbeMarker(o.binder)
}

func (o *orchestrator) bindEnvironment(env *target.Cubemap) error {
	if err := o.binder.SetUniform(shader.UniformEnvironmentWorldToEnvironment, renderer.Mat4x3(o.probe.WorldToEnvironment())); err != nil {
		return err
	}
	return o.binder.BindTexture(shader.UniformEnvironmentMap, env.Texture, env.Sampler)
}
