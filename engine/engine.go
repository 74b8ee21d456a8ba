package engine

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-probe/assets"
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/config"
	"github.com/Carmen-Shannon/oxy-probe/engine/frame"
	"github.com/Carmen-Shannon/oxy-probe/engine/light"
	"github.com/Carmen-Shannon/oxy-probe/engine/loader"
	"github.com/Carmen-Shannon/oxy-probe/engine/profiler"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/target"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/wgpu_backend"
	"github.com/Carmen-Shannon/oxy-probe/engine/scene"
	"github.com/Carmen-Shannon/oxy-probe/engine/window"
)

// engine implements the Engine interface.
// Owns the window, the backend and the frame pipeline, and drives them from one thread.
type engine struct {
	settings  config.Settings
	state     config.State
	statePath string

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window       window.Window
	backend      renderer.RendererBackend
	renderer     renderer.Renderer
	scene        scene.Scene
	orchestrator frame.Orchestrator
	watcher      shader.Watcher

	camera           camera.Camera
	debugCamera      camera.Camera
	debugActive      bool
	cameraController camera.CameraController
	playerController scene.PlayerController
	// skippedDelta is the frame time not yet handed to the pipeline because frames were skipped.
	skippedDelta float32

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It owns the window and the frame pipeline and runs the main loop on the calling goroutine,
// which must be locked to the main OS thread.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer holding the pipeline programs.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Scene returns the scene replayed by every pass.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Orchestrator returns the frame pipeline.
	//
	// Returns:
	//   - frame.Orchestrator: the pipeline
	Orchestrator() frame.Orchestrator

	// ActiveCamera returns the camera the final pass renders from: the debug camera while it is
	// active, the gameplay camera otherwise.
	//
	// Returns:
	//   - camera.Camera: the active camera
	ActiveCamera() camera.Camera

	// DebugCameraActive reports whether the debug camera has input focus.
	//
	// Returns:
	//   - bool: true while the debug camera is active
	DebugCameraActive() bool

	// ToggleDebugCamera switches input and the final view between the gameplay camera and the
	// debug camera.
	ToggleDebugCamera()

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main loop and blocks until the window closes or Quit is called. The state
	// file is written and every resource released before it returns.
	//
	// Returns:
	//   - error: a fatal frame error; a closed window is not an error
	Run() error

	// Quit signals the main loop to stop after the current frame.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates the window, the WebGPU backend, the pipeline programs, the scene and the
// frame orchestrator from the configured settings and state.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (settings, state, window, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: an initialization error; every resource created so far is released
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		settings:    config.DefaultSettings(),
		state:       config.DefaultState(),
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.settings.Log.Profile {
		e.profilingEnabled = true
	}

	if err := e.init(); err != nil {
		e.release()
		return nil, err
	}
	return e, nil
}

func (e *engine) init() error {
	if err := e.settings.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := e.initWindow(); err != nil {
		return err
	}
	if err := e.initRenderer(); err != nil {
		return err
	}
	if err := e.initScene(); err != nil {
		return err
	}
	e.initCameras()

	e.window.SetResizeCallback(e.resize)
	e.window.SetKeyDownCallback(e.keyDown)
	return nil
}

func (e *engine) initWindow() error {
	if e.window != nil {
		return nil
	}
	w, err := window.NewWindow(
		window.WithTitle(common.Coalesce(e.settings.Window.Title, "oxy-probe")),
		window.WithRect(e.state.WindowRect),
		window.WithMinSize(320, 240),
	)
	if err != nil {
		return fmt.Errorf("engine: failed to create window: %w", err)
	}
	e.window = w
	return nil
}

func (e *engine) initRenderer() error {
	if e.backend == nil {
		presentMode, err := e.settings.PresentMode()
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		e.backend, err = wgpu_backend.NewBackend(e.window.SurfaceDescriptor(), wgpu_backend.WithPresentMode(presentMode))
		if err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}
	e.renderer = renderer.NewRenderer(e.backend, renderer.WithPreProcessor(assets.PreProcessor()))
	e.renderer.Resize(e.window.Width(), e.window.Height())

	dir := e.settings.Shaders.Dir
	if dir != "" && e.settings.Shaders.HotReload {
		if err := assets.ExportPrograms(dir); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}
	programs, err := assets.LoadPrograms(dir)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	for _, src := range programs {
		if _, err := e.renderer.LoadProgram(src); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
	}
	if dir != "" && e.settings.Shaders.HotReload {
		if e.watcher, err = shader.NewWatcher(dir); err != nil {
			return fmt.Errorf("engine: %w", err)
		}
		common.Logger().Info("watching shaders", "dir", dir)
	}
	return nil
}

func (e *engine) initScene() error {
	meshes, err := scene.CreateMeshes(e.backend)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	maps, err := scene.CreateBlankMaps(e.backend)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.scene = scene.Assemble(meshes, e.layout(), scene.WithBlankMaps(maps))

	render := e.settings.Render
	options := []frame.OrchestratorBuilderOption{
		frame.WithClearColor(render.ClearColor),
		frame.WithShadowResolution(render.ShadowResolution),
		frame.WithEnvironmentResolution(render.EnvironmentResolution),
		frame.WithProbePosition(render.ProbePosition),
		frame.WithLevelOfDetailBase(render.LevelOfDetailBase),
		frame.WithProbeMarker(render.ProbeMarker),
		frame.WithProfiler(e.profiler),
		frame.WithAnimator(light.NewAnimator(
			light.WithSwing(e.settings.Light.Amplitude, e.settings.Light.Height, e.settings.Light.Depth),
			light.WithAnimatedAttenuation(e.settings.Light.Attenuation),
		)),
	}
	if e.settings.HasSkybox() {
		sky, err := e.loadSkybox()
		if err != nil {
			return err
		}
		options = append(options, frame.WithSkybox(sky))
	}

	if e.orchestrator, err = frame.NewOrchestrator(e.renderer, e.scene, options...); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// layout places the ring from the scene settings and the probe marker at the probe.
func (e *engine) layout() scene.Layout {
	l := scene.DefaultLayout()
	l.OrbitCount = e.settings.Scene.OrbitCount
	l.OrbitRadius = e.settings.Scene.OrbitRadius
	l.OrbitHeight = e.settings.Scene.OrbitHeight
	l.ProbePosition = e.settings.Render.ProbePosition
	return l
}

func (e *engine) loadSkybox() (*target.Cubemap, error) {
	l := loader.NewLoader(
		loader.WithWorkers(common.CubeFaceCount),
		loader.WithFallbackColor(e.settings.Render.ClearColor),
		loader.WithMaxFaceSize(e.backend.MaxTextureDimension()),
	)
	defer l.Close()

	start := time.Now()
	faces, err := l.LoadCubemapFaces(e.settings.SkyboxPaths())
	if err != nil {
		return nil, fmt.Errorf("engine: failed to load skybox: %w", err)
	}
	sky, err := target.UploadCubemapFaces(e.backend, "skybox", faces)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	common.Logger().Info("skybox loaded", "size", faces[0].Width, "elapsed", time.Since(start))
	return sky, nil
}

func (e *engine) initCameras() {
	aspect := aspectRatio(e.window.Width(), e.window.Height())
	e.camera = camera.NewCamera(
		camera.WithToWorld(e.state.Camera.Transform()),
		camera.WithAspect(aspect),
	)
	e.debugCamera = camera.NewCamera(
		camera.WithToWorld(e.state.DebugCamera.Transform()),
		camera.WithAspect(aspect),
	)
	e.debugActive = e.state.DebugCameraActive
	e.cameraController = camera.NewCameraController()
	e.playerController = scene.NewPlayerController(
		scene.WithPlayerMoveSpeed(e.settings.Player.MoveSpeed),
		scene.WithPlayerTurnSpeed(e.settings.Player.TurnSpeed),
	)
}

// aspectRatio returns width/height, or 1 for a minimized window.
func aspectRatio(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (e *engine) resize(width, height int) {
	e.renderer.Resize(width, height)
	if width <= 0 || height <= 0 {
		return
	}
	aspect := aspectRatio(width, height)
	e.camera.SetAspect(aspect)
	e.debugCamera.SetAspect(aspect)
}

func (e *engine) keyDown(keyCode uint32) {
	switch keyCode {
	case common.KeyF1:
		e.ToggleDebugCamera()
	case common.KeyEsc:
		e.Quit()
	}
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Orchestrator() frame.Orchestrator {
	return e.orchestrator
}

func (e *engine) ActiveCamera() camera.Camera {
	if e.debugActive {
		return e.debugCamera
	}
	return e.camera
}

func (e *engine) DebugCameraActive() bool {
	return e.debugActive
}

func (e *engine) ToggleDebugCamera() {
	e.debugActive = !e.debugActive
	common.Logger().Info("camera switched", "debug", e.debugActive)
}

func (e *engine) Run() error {
	defer e.shutdown()

	lastFrame := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return nil
		default:
		}
		if !e.window.PollEvents() {
			return nil
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		if err := e.step(dt); err != nil {
			return err
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// step runs one frame: pending shader reloads, input, the pipeline and presentation.
func (e *engine) step(dt float32) error {
	e.reloadShaders()
	e.updateInput(dt)

	delta := e.skippedDelta + dt
	err := e.orchestrator.RunFrame(delta, e.ActiveCamera())
	if errors.Is(err, renderer.ErrSurfaceUnavailable) {
		common.Logger().Debug("frame skipped", "reason", err)
		e.skippedDelta = delta
		return nil
	}
	e.skippedDelta = 0
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.backend.Present()

	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

func (e *engine) updateInput(dt float32) {
	if e.debugActive {
		e.cameraController.Update(e.debugCamera, e.window, dt)
		return
	}
	if player := e.scene.Player(); player != nil {
		e.playerController.Update(player, e.camera, e.window, dt)
	}
}

// reloadShaders applies every program source changed since the last frame. A source that fails
// to load leaves the previous program in use.
func (e *engine) reloadShaders() {
	if e.watcher == nil {
		return
	}
	for _, path := range e.watcher.Drain() {
		name := assets.ProgramName(path)
		src, err := os.ReadFile(path)
		if err != nil {
			common.Logger().Warn("shader reload failed", "program", name, "error", err)
			continue
		}
		if err := e.renderer.ReloadProgram(name, string(src)); err != nil {
			common.Logger().Warn("shader reload failed", "program", name, "error", err)
			continue
		}
		common.Logger().Info("shader reloaded", "program", name)
	}
}

// Quit signals the main loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// shutdown saves the state file and releases everything the engine owns.
func (e *engine) shutdown() {
	e.saveState()
	e.release()
}

func (e *engine) saveState() {
	if e.statePath == "" {
		return
	}
	e.state.WindowRect = e.window.Rect()
	e.state.Camera = config.NewPose(e.camera.ToWorld())
	e.state.DebugCamera = config.NewPose(e.debugCamera.ToWorld())
	e.state.DebugCameraActive = e.debugActive
	if err := e.state.Save(e.statePath); err != nil {
		common.Logger().Warn("failed to save state", "path", e.statePath, "error", err)
		return
	}
	common.Logger().Info("state saved", "path", e.statePath)
}

func (e *engine) release() {
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			common.Logger().Warn("failed to close shader watcher", "error", err)
		}
		e.watcher = nil
	}
	if e.backend != nil {
		e.backend.Release()
		e.backend = nil
	}
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			common.Logger().Warn("failed to close window", "error", err)
		}
		e.window = nil
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
