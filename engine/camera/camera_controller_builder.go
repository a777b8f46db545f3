package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMoveSpeed sets the movement speed in world units per second.
//
// Parameters:
//   - speed: units per second
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithMouseSensitivity sets the look sensitivity in radians per pixel of
// mouse travel.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithPitchLimit sets the maximum pitch magnitude in radians. The pitch is
// clamped to [-limit, limit] so the view never crosses the vertical.
//
// Parameters:
//   - limit: maximum pitch in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithPitchLimit(limit float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.maxPitch = limit
	}
}

// WithMovementKeys rebinds the six movement keys polled by Update.
//
// Parameters:
//   - forward, backward, left, right, up, down: GLFW key codes
//
// Returns:
//   - CameraControllerOption: functional option to set the key bindings
func WithMovementKeys(forward, backward, left, right, up, down uint32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.keys = controllerKeys{
			forward:  forward,
			backward: backward,
			left:     left,
			right:    right,
			up:       up,
			down:     down,
		}
	}
}
