package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	toWorld       common.Transform
	worldToCamera common.Transform

	fov    float32
	aspect float32
	near   float32
	far    float32

	projection common.Projection
}

// Camera defines the interface for a viewpoint.
// The camera owns its to-world transform and keeps the derived world-to-camera transform and
// projection current: world_to_camera is recomputed every time the transform changes.
type Camera interface {
	// ToWorld returns the camera's to-world transform. Its columns are (right, up, back).
	//
	// Returns:
	//   - common.Transform: the to-world transform
	ToWorld() common.Transform

	// SetToWorld replaces the to-world transform and recomputes the view transform.
	//
	// Parameters:
	//   - t: the new to-world transform
	SetToWorld(t common.Transform)

	// WorldToCamera returns the inverse of the to-world transform.
	//
	// Returns:
	//   - common.Transform: the view transform
	WorldToCamera() common.Transform

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: the translation of the to-world transform
	Position() common.Vec3

	// Projection returns the camera-to-clip projection.
	//
	// Returns:
	//   - common.Projection: the projection
	Projection() common.Projection

	// ClipToWorld returns the matrix that maps clip space back to world space, used to
	// reconstruct view rays for the sky.
	//
	// Returns:
	//   - common.Mat4: inverse(world_to_camera) * inverse(projection)
	ClipToWorld() common.Mat4

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// SetFov sets the vertical field of view in radians and recomputes the projection.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect sets the aspect ratio and recomputes the projection.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// Block returns the uniform block for this camera.
	//
	// Returns:
	//   - CameraBlock: the populated camera block
	Block() CameraBlock
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin looking along -Z with a 60 degree field of view.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:      &sync.Mutex{},
		toWorld: common.IdentityTransform(),
		fov:     common.DegToRad(60),
		aspect:  1,
		near:    common.DefaultNear,
		far:     common.DefaultFar,
	}
	for _, option := range options {
		option(c)
	}
	c.updateView()
	c.updateProjection()
	return c
}

func (c *cameraImpl) ToWorld() common.Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toWorld
}

func (c *cameraImpl) SetToWorld(t common.Transform) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toWorld = t
	c.updateView()
}

func (c *cameraImpl) WorldToCamera() common.Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldToCamera
}

func (c *cameraImpl) Position() common.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toWorld.Translation
}

func (c *cameraImpl) Projection() common.Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ClipToWorld() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.InverseUnscaled(c.worldToCamera).MulProjection(common.InversePerspective(c.projection))
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateProjection()
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) Block() CameraBlock {
	c.mu.Lock()
	defer c.mu.Unlock()
	return NewCameraBlock(c.worldToCamera, c.projection, c.toWorld.Translation)
}

// updateView recomputes the view transform. Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	c.worldToCamera = common.InverseUnscaled(c.toWorld)
}

// updateProjection recomputes the projection. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	c.projection = common.PerspectiveFovNearFar(c.fov, c.aspect, c.near, c.far)
}
