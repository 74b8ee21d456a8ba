package camera

import "github.com/Carmen-Shannon/oxy-probe/common"

type CameraBuilderOption func(*cameraImpl)

// WithToWorld sets the camera's initial to-world transform.
//
// Parameters:
//   - t: the to-world transform
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's transform
func WithToWorld(t common.Transform) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.toWorld = t
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNearFar sets the clip plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: functional option to set the clip planes
func WithNearFar(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}
