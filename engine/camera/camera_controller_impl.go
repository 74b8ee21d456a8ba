package camera

import (
	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/chewxy/math32"
)

// cameraControllerImpl is the fly implementation of CameraController.
type cameraControllerImpl struct {
	moveSpeed float32
	turnSpeed float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a fly controller moving at 20 units/s and turning at 1.5 rad/s.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		moveSpeed: 20,
		turnSpeed: 1.5,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) MoveSpeed() float32 { return cc.moveSpeed }

func (cc *cameraControllerImpl) TurnSpeed() float32 { return cc.turnSpeed }

func (cc *cameraControllerImpl) Update(cam Camera, keys common.KeyState, deltaSeconds float32) {
	t := cam.ToWorld()

	var yaw, pitch float32
	if keys.KeyDown(common.KeyLeft) {
		yaw += 1
	}
	if keys.KeyDown(common.KeyRight) {
		yaw -= 1
	}
	if keys.KeyDown(common.KeyUp) {
		pitch += 1
	}
	if keys.KeyDown(common.KeyDown) {
		pitch -= 1
	}

	forward := t.Forward()
	if yaw != 0 {
		forward = common.RotationAxisAngle(common.WorldUp, yaw*cc.turnSpeed*deltaSeconds).Direction(forward)
	}
	if pitch != 0 {
		pitched := common.RotationAxisAngle(t.X, pitch*cc.turnSpeed*deltaSeconds).Direction(forward)
		// stop short of looking straight up or down so the basis stays defined
		if math32.Abs(pitched.Dot(common.WorldUp)) < 0.99 {
			forward = pitched
		}
	}

	var move common.Vec3
	if keys.KeyDown(common.KeyW) {
		move = move.Add(forward)
	}
	if keys.KeyDown(common.KeyS) {
		move = move.Sub(forward)
	}
	right := forward.Cross(common.WorldUp).Normalize()
	if keys.KeyDown(common.KeyD) {
		move = move.Add(right)
	}
	if keys.KeyDown(common.KeyA) {
		move = move.Sub(right)
	}
	if keys.KeyDown(common.KeyE) {
		move = move.Add(common.WorldUp)
	}
	if keys.KeyDown(common.KeyQ) {
		move = move.Sub(common.WorldUp)
	}

	eye := t.Translation.Add(move.Normalize().Scale(cc.moveSpeed * deltaSeconds))
	cam.SetToWorld(common.LookAt(eye, forward, common.WorldUp))
}
