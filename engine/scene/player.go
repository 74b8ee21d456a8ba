package scene

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/Carmen-Shannon/oxy-probe/engine/camera"
	"github.com/Carmen-Shannon/oxy-probe/engine/game_object"
	"github.com/chewxy/math32"
)

type playerController struct {
	moveSpeed float32
	turnSpeed float32
}

// PlayerController moves the pawn on the ground plane with WASD, relative to the view of the
// active camera, and turns it toward the direction of travel.
type PlayerController interface {
	// Update applies one frame of input to the pawn.
	//
	// Parameters:
	//   - player: the pawn to move
	//   - cam: the camera whose ground-projected axes define forward and right
	//   - keys: the held keys
	//   - deltaSeconds: the frame time
	Update(player game_object.GameObject, cam camera.Camera, keys common.KeyState, deltaSeconds float32)
}

// PlayerControllerOption is a functional option for configuring a PlayerController.
type PlayerControllerOption func(*playerController)

// WithPlayerMoveSpeed sets the walking speed in units per second.
//
// Parameters:
//   - speed: the move speed
//
// Returns:
//   - PlayerControllerOption: option function to apply
func WithPlayerMoveSpeed(speed float32) PlayerControllerOption {
	return func(pc *playerController) {
		pc.moveSpeed = speed
	}
}

// WithPlayerTurnSpeed sets the maximum turn rate in radians per second.
//
// Parameters:
//   - speed: the turn speed
//
// Returns:
//   - PlayerControllerOption: option function to apply
func WithPlayerTurnSpeed(speed float32) PlayerControllerOption {
	return func(pc *playerController) {
		pc.turnSpeed = speed
	}
}

var _ PlayerController = &playerController{}

// NewPlayerController creates a controller walking at 20 units/s and turning at up to 2*pi rad/s.
func NewPlayerController(options ...PlayerControllerOption) PlayerController {
	pc := &playerController{
		moveSpeed: 20,
		turnSpeed: 2 * math32.Pi,
	}
	for _, option := range options {
		option(pc)
	}
	return pc
}

func (pc *playerController) Update(player game_object.GameObject, cam camera.Camera, keys common.KeyState, deltaSeconds float32) {
	var forward, right float32
	if keys.KeyDown(common.KeyW) {
		forward += 1
	}
	if keys.KeyDown(common.KeyS) {
		forward -= 1
	}
	if keys.KeyDown(common.KeyD) {
		right += 1
	}
	if keys.KeyDown(common.KeyA) {
		right -= 1
	}
	if forward == 0 && right == 0 {
		return
	}

	groundRight := cam.ToWorld().X
	groundRight[1] = 0
	groundRight = groundRight.Normalize()
	groundForward := common.WorldUp.Cross(groundRight)
	direction := groundForward.Scale(forward).Add(groundRight.Scale(right)).Normalize()

	pose := player.ToWorld()
	facing := pc.turn(pose.Forward(), direction, deltaSeconds)
	eye := pose.Translation.Add(direction.Scale(pc.moveSpeed * deltaSeconds))
	player.SetToWorld(common.LookAt(eye, facing, common.WorldUp))
}

// turn rotates facing toward direction about world up by at most turnSpeed*dt.
func (pc *playerController) turn(facing, direction common.Vec3, deltaSeconds float32) common.Vec3 {
	cosAlpha := common.Clamp(facing.Dot(direction), -1, 1)
	if cosAlpha >= 1 {
		return facing
	}
	step := pc.turnSpeed * deltaSeconds
	if math32.Acos(cosAlpha) <= step {
		return direction
	}
	if facing.Cross(direction).Dot(common.WorldUp) < 0 {
		step = -step
	}
	return common.RotationAxisAngle(common.WorldUp, step).Direction(facing).Normalize()
}
