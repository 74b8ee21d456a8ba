package camera

import "github.com/Carmen-Shannon/oxy-probe/common"

// CameraController drives a camera from keyboard state. The debug fly controller translates with
// W/A/S/D (camera plane) and Q/E (world up) and turns with the arrow keys.
type CameraController interface {
	// Update applies one frame of input to cam.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - keys: the key state for this frame
	//   - deltaSeconds: the frame time in seconds
	Update(cam Camera, keys common.KeyState, deltaSeconds float32)

	// MoveSpeed returns the translation speed in units per second.
	//
	// Returns:
	//   - float32: units per second
	MoveSpeed() float32

	// TurnSpeed returns the rotation speed in radians per second.
	//
	// Returns:
	//   - float32: radians per second
	TurnSpeed() float32
}
