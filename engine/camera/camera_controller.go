package camera

// KeyPoller reports whether a key is currently held. window.Window satisfies
// this interface; tests can supply a map-backed poller.
type KeyPoller interface {
	// KeyDown reports whether the key with the given GLFW key code is held.
	//
	// Parameters:
	//   - keyCode: GLFW key code
	//
	// Returns:
	//   - bool: true while the key is held
	KeyDown(keyCode uint32) bool
}

// CameraController drives a free-look Camera from mouse and keyboard input.
// Look adjusts the yaw and pitch angles from mouse deltas; Update polls held
// movement keys each frame and translates the eye along the camera's walking
// axes. All methods are safe for concurrent use.
type CameraController interface {
	// Camera returns the controlled camera.
	//
	// Returns:
	//   - *Camera: the camera this controller mutates
	Camera() *Camera

	// Look rotates the camera from a mouse movement delta. Horizontal motion
	// adjusts the yaw angle, vertical motion the pitch, both scaled by the
	// mouse sensitivity. Pitch is clamped to the configured limit so the view
	// never flips over the vertical.
	//
	// Parameters:
	//   - dx: horizontal mouse delta in pixels
	//   - dy: vertical mouse delta in pixels
	Look(dx, dy float32)

	// Update polls the movement keys and translates the eye. Forward and
	// strafe movement follow the walking and right vectors on the XZ plane;
	// vertical movement is along world Y.
	//
	// Parameters:
	//   - keys: source of held-key state
	//   - dt: frame delta time in seconds
	Update(keys KeyPoller, dt float32)

	// MoveForward translates the eye along the walking direction.
	//
	// Parameters:
	//   - delta: distance scaled by the move speed
	MoveForward(delta float32)

	// MoveRight translates the eye along the strafe direction.
	//
	// Parameters:
	//   - delta: distance scaled by the move speed
	MoveRight(delta float32)

	// MoveUp translates the eye along world Y.
	//
	// Parameters:
	//   - delta: distance scaled by the move speed
	MoveUp(delta float32)

	// MoveSpeed returns the movement speed in units per second.
	//
	// Returns:
	//   - float32: units per second
	MoveSpeed() float32

	// SetMoveSpeed sets the movement speed in units per second.
	//
	// Parameters:
	//   - speed: units per second
	SetMoveSpeed(speed float32)

	// MouseSensitivity returns the radians-per-pixel look multiplier.
	//
	// Returns:
	//   - float32: multiplier for mouse movement
	MouseSensitivity() float32
}
