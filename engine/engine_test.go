package engine

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/config"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow is a Window without a platform window. PollEvents reports false after polls calls.
type fakeWindow struct {
	common.KeySet
	rect     common.Rect
	polls    int
	closed   bool
	onResize func(width, height int)
	onKey    func(keyCode uint32)
}

func newFakeWindow(polls int) *fakeWindow {
	return &fakeWindow{
		KeySet: common.KeySet{},
		rect:   common.Rect{X: 40, Y: 60, Width: 1280, Height: 720},
		polls:  polls,
	}
}

func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.onKey = cb }
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))        {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) IsRunning() bool                              { return !w.closed }
func (w *fakeWindow) RequestClose()                                { w.polls = 0 }
func (w *fakeWindow) Close() error                                 { w.closed = true; return nil }
func (w *fakeWindow) Rect() common.Rect                            { return w.rect }
func (w *fakeWindow) Width() int                                   { return w.rect.Width }
func (w *fakeWindow) Height() int                                  { return w.rect.Height }

func (w *fakeWindow) PollEvents() bool {
	if w.polls <= 0 {
		return false
	}
	w.polls--
	return true
}

// lostSurface fails every BeginFrame the way a minimized or lost surface does.
type lostSurface struct {
	*renderertest.Recorder
}

func (lostSurface) BeginFrame() error {
	return fmt.Errorf("wgpu_backend: no drawable: %w", renderer.ErrSurfaceUnavailable)
}

func testSettings() config.Settings {
	s := config.DefaultSettings()
	s.Render.ShadowResolution = 64
	s.Render.EnvironmentResolution = 16
	s.Shaders.Dir = ""
	return s
}

func newTestEngine(t *testing.T, w *fakeWindow, backend renderer.RendererBackend, options ...EngineBuilderOption) *engine {
	t.Helper()
	opts := append([]EngineBuilderOption{
		WithSettings(testSettings()),
		WithWindow(w),
		WithBackend(backend),
	}, options...)
	e, err := NewEngine(opts...)
	require.NoError(t, err)
	return e.(*engine)
}

func TestStepRendersAndPresents(t *testing.T) {
	rec := renderertest.NewRecorder()
	e := newTestEngine(t, newFakeWindow(0), rec)
	rec.Clear()

	require.NoError(t, e.step(0.016))
	assert.Equal(t, 1, rec.Count(renderertest.OpBeginFrame))
	assert.Equal(t, 1, rec.Count(renderertest.OpEndFrame))
	assert.Equal(t, 1, rec.Count(renderertest.OpPresent))
	assert.Equal(t, uint64(0), e.Orchestrator().Context().Index)
}

func TestStepSkipsUnavailableSurface(t *testing.T) {
	rec := renderertest.NewRecorder()
	e := newTestEngine(t, newFakeWindow(0), lostSurface{rec})
	rec.Clear()

	require.NoError(t, e.step(0.016))
	assert.Zero(t, rec.Count(renderertest.OpPresent))
}

func TestSkippedFramesKeepLightClock(t *testing.T) {
	rec := renderertest.NewRecorder()
	e := newTestEngine(t, newFakeWindow(0), rec)

	rec.BeginFrameError = fmt.Errorf("wgpu_backend: no drawable: %w", renderer.ErrSurfaceUnavailable)
	require.NoError(t, e.step(0.25))
	require.NoError(t, e.step(0.25))
	assert.Zero(t, rec.Count(renderertest.OpPresent))

	rec.BeginFrameError = nil
	require.NoError(t, e.step(0.5))
	assert.Equal(t, 1, rec.Count(renderertest.OpPresent))
	ctx := e.Orchestrator().Context()
	assert.InDelta(t, 1, ctx.Elapsed, 1e-6)
	assert.InDelta(t, 1, ctx.Delta, 1e-6)

	require.NoError(t, e.step(0.5))
	assert.InDelta(t, 1.5, e.Orchestrator().Context().Elapsed, 1e-6)
}

func TestKeyDownTogglesDebugCamera(t *testing.T) {
	w := newFakeWindow(0)
	e := newTestEngine(t, w, renderertest.NewRecorder())
	require.NotNil(t, w.onKey)
	assert.False(t, e.DebugCameraActive())
	assert.Same(t, e.camera, e.ActiveCamera())

	w.onKey(common.KeyF1)
	assert.True(t, e.DebugCameraActive())
	assert.Same(t, e.debugCamera, e.ActiveCamera())

	w.onKey(common.KeyF1)
	assert.False(t, e.DebugCameraActive())
}

func TestPlayerMovesOnlyWithGameplayCamera(t *testing.T) {
	w := newFakeWindow(0)
	e := newTestEngine(t, w, renderertest.NewRecorder())
	player := e.Scene().Player()
	require.NotNil(t, player)
	w.KeySet[common.KeyW] = true

	e.ToggleDebugCamera()
	playerBefore := player.Position()
	debugBefore := e.debugCamera.Position()
	require.NoError(t, e.step(0.1))
	assert.Equal(t, playerBefore, player.Position())
	assert.NotEqual(t, debugBefore, e.debugCamera.Position())

	e.ToggleDebugCamera()
	require.NoError(t, e.step(0.1))
	assert.Less(t, player.Position()[2], playerBefore[2])
}

func TestResizeUpdatesSurfaceAndAspect(t *testing.T) {
	w := newFakeWindow(0)
	rec := renderertest.NewRecorder()
	e := newTestEngine(t, w, rec)
	require.NotNil(t, w.onResize)

	w.onResize(800, 400)
	width, height := rec.SurfaceSize()
	assert.Equal(t, 800, width)
	assert.Equal(t, 400, height)
	assert.InDelta(t, 2, e.camera.Aspect(), 1e-6)
	assert.InDelta(t, 2, e.debugCamera.Aspect(), 1e-6)

	w.onResize(0, 0)
	assert.InDelta(t, 2, e.camera.Aspect(), 1e-6, "a minimized window keeps the aspect")
}

func TestRunSavesStateOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	w := newFakeWindow(2)
	rec := renderertest.NewRecorder()
	e := newTestEngine(t, w, rec, WithStatePath(path))
	e.ToggleDebugCamera()

	require.NoError(t, e.Run())
	assert.True(t, w.closed)
	assert.Equal(t, 2, rec.Count(renderertest.OpPresent))

	st, err := config.LoadState(path)
	require.NoError(t, err)
	assert.True(t, st.DebugCameraActive)
	assert.Equal(t, w.rect, st.WindowRect)
}

func TestQuitStopsRun(t *testing.T) {
	rec := renderertest.NewRecorder()
	e := newTestEngine(t, newFakeWindow(100), rec)
	e.Quit()
	e.Quit()

	require.NoError(t, e.Run())
	assert.Zero(t, rec.Count(renderertest.OpPresent))
}

func TestNewEngineRejectsInvalidSettings(t *testing.T) {
	s := testSettings()
	s.Render.ShadowResolution = 0
	w := newFakeWindow(0)
	_, err := NewEngine(WithSettings(s), WithWindow(w), WithBackend(renderertest.NewRecorder()))
	require.ErrorIs(t, err, config.ErrInvalidSettings)
	assert.True(t, w.closed)
}

func TestAspectRatio(t *testing.T) {
	tests := []struct {
		width, height int
		want          float32
	}{
		{1280, 720, 1280.0 / 720.0},
		{800, 800, 1},
		{0, 720, 1},
		{1280, 0, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, aspectRatio(tt.width, tt.height), 1e-6)
	}
}

func TestSetRenderFrameLimit(t *testing.T) {
	e := &engine{}
	e.SetRenderFrameLimit(50)
	assert.Equal(t, 20_000_000, int(e.renderFrameLimit))
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}
