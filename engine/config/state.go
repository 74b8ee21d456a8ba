package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"gopkg.in/yaml.v3"
)

// DefaultWindowRect lets the platform place a 1280x720 window.
var DefaultWindowRect = common.Rect{X: -1, Y: -1, Width: 1280, Height: 720}

// Pose is a to-world transform in a readable YAML form.
type Pose struct {
	Right       common.Vec3 `yaml:"right,flow"`
	Up          common.Vec3 `yaml:"up,flow"`
	Back        common.Vec3 `yaml:"back,flow"`
	Translation common.Vec3 `yaml:"translation,flow"`
}

// NewPose converts a transform.
func NewPose(t common.Transform) Pose {
	return Pose{Right: t.X, Up: t.Y, Back: t.Z, Translation: t.Translation}
}

// Transform converts the pose back.
func (p Pose) Transform() common.Transform {
	return common.Transform{X: p.Right, Y: p.Up, Z: p.Back, Translation: p.Translation}
}

// valid reports whether the pose has a usable basis. A zero pose comes from an empty or
// truncated state file.
func (p Pose) valid() bool {
	return p.Right.Length() > 0 && p.Up.Length() > 0 && p.Back.Length() > 0
}

// State is the runtime state restored at startup and saved on quit.
type State struct {
	WindowRect        common.Rect `yaml:"window_rect"`
	Camera            Pose        `yaml:"camera"`
	DebugCamera       Pose        `yaml:"debug_camera"`
	DebugCameraActive bool        `yaml:"debug_camera_active"`
}

// DefaultState places the gameplay camera behind and above the ring looking at its center,
// and the debug camera further out.
func DefaultState() State {
	return State{
		WindowRect:  DefaultWindowRect,
		Camera:      NewPose(common.LookAt(common.Vec3{0, 8, 25}, common.Vec3{0, -5, -25}, common.WorldUp)),
		DebugCamera: NewPose(common.LookAt(common.Vec3{0, 30, 40}, common.Vec3{0, -30, -40}, common.WorldUp)),
	}
}

// LoadState reads the state file. A missing file yields DefaultState; invalid poses and an
// empty window rectangle are replaced by their defaults.
//
// Parameters:
//   - path: the YAML state file
//
// Returns:
//   - State: the restored state
//   - error: a read or decode error
func LoadState(path string) (State, error) {
	def := DefaultState()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		common.Logger().Warn("state file not found, using defaults", "path", path)
		return def, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("config: failed to read state: %w", err)
	}
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}
	if s.WindowRect.Width <= 0 || s.WindowRect.Height <= 0 {
		s.WindowRect = def.WindowRect
	}
	if !s.Camera.valid() {
		s.Camera = def.Camera
	}
	if !s.DebugCamera.valid() {
		s.DebugCamera = def.DebugCamera
	}
	common.Logger().Info("state loaded", "path", path, "window", s.WindowRect)
	return s, nil
}

// Save writes the state to path as YAML, creating the parent directory.
//
// Parameters:
//   - path: the destination file
//
// Returns:
//   - error: a marshal or write error
func (s State) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: failed to encode state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write state: %w", err)
	}
	common.Logger().Info("state saved", "path", path)
	return nil
}
