// Package config loads the static TOML settings of the demo and persists the runtime state
// (window rectangle and camera poses) as YAML between runs.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/renderer"
	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidSettings is returned when a settings value is out of range.
var ErrInvalidSettings = errors.New("config: invalid settings")

// WindowSettings configures the main window.
type WindowSettings struct {
	Title string `toml:"title"`
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `toml:"present_mode"`
}

// RenderSettings configures the render targets and the environment probe.
type RenderSettings struct {
	ShadowResolution      uint32      `toml:"shadow_resolution"`
	EnvironmentResolution uint32      `toml:"environment_resolution"`
	LevelOfDetailBase     uint32      `toml:"level_of_detail_base"`
	ProbePosition         common.Vec3 `toml:"probe_position"`
	ClearColor            common.Vec4 `toml:"clear_color"`
	ProbeMarker           bool        `toml:"probe_marker"`
}

// LightSettings configures the animated point light.
type LightSettings struct {
	Amplitude   float32 `toml:"amplitude"`
	Height      float32 `toml:"height"`
	Depth       float32 `toml:"depth"`
	Attenuation float32 `toml:"attenuation"`
}

// SceneSettings configures the ring of orbiting primitives.
type SceneSettings struct {
	OrbitCount  int     `toml:"orbit_count"`
	OrbitRadius float32 `toml:"orbit_radius"`
	OrbitHeight float32 `toml:"orbit_height"`
}

// PlayerSettings configures pawn movement.
type PlayerSettings struct {
	MoveSpeed float32 `toml:"move_speed"`
	TurnSpeed float32 `toml:"turn_speed"`
}

// SkyboxSettings lists the six skybox face images. Empty paths fall back to the clear color.
type SkyboxSettings struct {
	Right  string `toml:"right"`
	Left   string `toml:"left"`
	Top    string `toml:"top"`
	Bottom string `toml:"bottom"`
	Front  string `toml:"front"`
	Back   string `toml:"back"`
}

// ShaderSettings configures where WGSL overrides are read from.
type ShaderSettings struct {
	// Dir holds <program>.wgsl files overriding the embedded programs. Empty disables overrides.
	Dir       string `toml:"dir"`
	HotReload bool   `toml:"hot_reload"`
}

// LogSettings configures logging and profiling.
type LogSettings struct {
	// Level is a slog level name: debug, info, warn or error.
	Level   string `toml:"level"`
	Profile bool   `toml:"profile"`
}

// Settings is the static configuration read once at startup.
type Settings struct {
	Window  WindowSettings `toml:"window"`
	Render  RenderSettings `toml:"render"`
	Light   LightSettings  `toml:"light"`
	Scene   SceneSettings  `toml:"scene"`
	Player  PlayerSettings `toml:"player"`
	Skybox  SkyboxSettings `toml:"skybox"`
	Shaders ShaderSettings `toml:"shaders"`
	Log     LogSettings    `toml:"log"`
}

// DefaultSettings returns the settings used for every field missing from the settings file.
func DefaultSettings() Settings {
	return Settings{
		Window: WindowSettings{
			Title:       "oxy-probe",
			PresentMode: "vsync",
		},
		Render: RenderSettings{
			ShadowResolution:      1024,
			EnvironmentResolution: 1024,
			ProbePosition:         common.Vec3{0, 10, 0},
			ClearColor:            common.Vec4{0, 0.5, 0.5, 1},
			ProbeMarker:           true,
		},
		Light: LightSettings{
			Amplitude:   2,
			Height:      25,
			Depth:       5,
			Attenuation: 0.005,
		},
		Scene: SceneSettings{
			OrbitCount:  16,
			OrbitRadius: 10,
			OrbitHeight: 3,
		},
		Player: PlayerSettings{
			MoveSpeed: 20,
			TurnSpeed: 2 * math32.Pi,
		},
		Shaders: ShaderSettings{
			Dir: "shaders",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// LoadSettings reads path over the defaults. A missing file yields the defaults; unknown keys
// are rejected so typos do not go unnoticed.
//
// Parameters:
//   - path: the TOML settings file
//
// Returns:
//   - Settings: the merged settings
//   - error: a read, decode or validation error
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		common.Logger().Warn("settings file not found, using defaults", "path", path)
		return s, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("config: failed to read settings: %w", err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Settings{}, fmt.Errorf("config: %s: %s", path, strict.String())
		}
		return Settings{}, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	common.Logger().Info("settings loaded", "path", path)
	return s, nil
}

// Save writes the settings to path as TOML, creating the parent directory.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: a marshal or write error
func (s Settings) Save(path string) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write settings: %w", err)
	}
	return nil
}

// Validate checks the ranges the renderer depends on.
func (s Settings) Validate() error {
	switch {
	case s.Render.ShadowResolution == 0:
		return fmt.Errorf("%w: render.shadow_resolution must be positive", ErrInvalidSettings)
	case s.Render.EnvironmentResolution == 0:
		return fmt.Errorf("%w: render.environment_resolution must be positive", ErrInvalidSettings)
	case s.Scene.OrbitCount < 0:
		return fmt.Errorf("%w: scene.orbit_count must not be negative", ErrInvalidSettings)
	case s.Player.MoveSpeed < 0 || s.Player.TurnSpeed < 0:
		return fmt.Errorf("%w: player speeds must not be negative", ErrInvalidSettings)
	}
	if _, err := s.PresentMode(); err != nil {
		return err
	}
	if _, err := s.LogLevel(); err != nil {
		return err
	}
	return nil
}

// PresentMode maps window.present_mode to the renderer's present mode.
func (s Settings) PresentMode() (renderer.PresentMode, error) {
	switch s.Window.PresentMode {
	case "", "vsync":
		return renderer.PresentModeVSync, nil
	case "uncapped":
		return renderer.PresentModeUncapped, nil
	}
	return 0, fmt.Errorf("%w: unknown window.present_mode %q", ErrInvalidSettings, s.Window.PresentMode)
}

// LogLevel parses log.level.
func (s Settings) LogLevel() (slog.Level, error) {
	var l slog.Level
	if s.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalidSettings, err)
	}
	return l, nil
}

// SkyboxPaths returns the face images in cube face order +X, -X, +Y, -Y, +Z, -Z.
func (s Settings) SkyboxPaths() [common.CubeFaceCount]string {
	sb := s.Skybox
	return [common.CubeFaceCount]string{sb.Right, sb.Left, sb.Top, sb.Bottom, sb.Front, sb.Back}
}

// HasSkybox reports whether any skybox face is configured.
func (s Settings) HasSkybox() bool {
	for _, p := range s.SkyboxPaths() {
		if p != "" {
			return true
		}
	}
	return false
}
