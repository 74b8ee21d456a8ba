package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, uint32(1024), s.Render.ShadowResolution)
	assert.Equal(t, common.Vec3{0, 10, 0}, s.Render.ProbePosition)
}

func TestLoadSettingsMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[render]
environment_resolution = 256
clear_color = [0.1, 0.2, 0.3, 1.0]

[skybox]
front = "sky/front.png"

[log]
level = "debug"
`), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(256), s.Render.EnvironmentResolution)
	assert.Equal(t, uint32(1024), s.Render.ShadowResolution)
	assert.Equal(t, common.Vec4{0.1, 0.2, 0.3, 1}, s.Render.ClearColor)
	assert.Equal(t, float32(0.005), s.Light.Attenuation)

	paths := s.SkyboxPaths()
	assert.Equal(t, "sky/front.png", paths[common.CubeFacePositiveZ])
	assert.True(t, s.HasSkybox())
	assert.False(t, DefaultSettings().HasSkybox())

	level, err := s.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())
}

func TestLoadSettingsRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nshadow_res = 512\n"), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shadow_res")
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero shadow", func(s *Settings) { s.Render.ShadowResolution = 0 }},
		{"zero environment", func(s *Settings) { s.Render.EnvironmentResolution = 0 }},
		{"negative orbit", func(s *Settings) { s.Scene.OrbitCount = -1 }},
		{"present mode", func(s *Settings) { s.Window.PresentMode = "sometimes" }},
		{"log level", func(s *Settings) { s.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSettings)
		})
	}
	assert.NoError(t, DefaultSettings().Validate())
}

func TestPresentMode(t *testing.T) {
	s := DefaultSettings()
	mode, err := s.PresentMode()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeVSync, mode)

	s.Window.PresentMode = "uncapped"
	mode, err = s.PresentMode()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeUncapped, mode)
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	s := DefaultSettings()
	s.Scene.OrbitCount = 8
	require.NoError(t, s.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoadStateMissingFileUsesDefaults(t *testing.T) {
	s, err := LoadState(filepath.Join(t.TempDir(), "state.yaml"))
	require.NoError(t, err)
	assert.Equal(t, common.Rect{X: -1, Y: -1, Width: 1280, Height: 720}, s.WindowRect)
	assert.False(t, s.DebugCameraActive)
	assert.InDelta(t, 1, s.Camera.Transform().Forward().Length(), 1e-6)
}

func TestStateSaveRestores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s := DefaultState()
	s.WindowRect = common.Rect{X: 10, Y: 20, Width: 800, Height: 600}
	s.Camera = NewPose(common.LookAt(common.Vec3{1, 2, 3}, common.Vec3{0, 0, -1}, common.WorldUp))
	s.DebugCameraActive = true
	require.NoError(t, s.Save(path))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
	assert.Equal(t, common.Vec3{1, 2, 3}, loaded.Camera.Transform().Translation)
}

func TestLoadStateRepairsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window_rect: {x: 5, y: 5, width: 0, height: 0}\n"), 0o644))

	s, err := LoadState(path)
	require.NoError(t, err)
	def := DefaultState()
	assert.Equal(t, def.WindowRect, s.WindowRect)
	assert.Equal(t, def.Camera, s.Camera)
	assert.Equal(t, def.DebugCamera, s.DebugCamera)
}

func TestLoadStateRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera: [1, 2"), 0o644))
	_, err := LoadState(path)
	assert.Error(t, err)
}
