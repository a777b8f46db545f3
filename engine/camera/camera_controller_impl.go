package camera

import (
	"sync"

	"cogentcore.org/core/math32"
)

// controllerKeys holds the GLFW key codes the controller polls each frame.
type controllerKeys struct {
	forward  uint32
	backward uint32
	left     uint32
	right    uint32
	up       uint32
	down     uint32
}

// cameraControllerImpl is the single implementation of CameraController.
// It owns the camera's yaw (Ground) and pitch (Sky) angles and its eye
// position; callers read matrices from the camera itself.
type cameraControllerImpl struct {
	mu *sync.Mutex

	camera *Camera

	moveSpeed        float32
	mouseSensitivity float32

	// maxPitch keeps the pitch just short of straight up/down so the
	// look-at up vector never becomes parallel to the view direction.
	maxPitch float32

	keys controllerKeys
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a free-look controller for the given camera.
// Defaults: WASD movement, space/left-shift for vertical, 6 units per second,
// 0.003 radians of look per pixel of mouse travel.
//
// Parameters:
//   - cam: the camera to control
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam *Camera, options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		camera: cam,

		moveSpeed:        6.0,
		mouseSensitivity: 0.003,
		maxPitch:         math32.Pi/2 - 0.01,

		keys: controllerKeys{
			forward:  87,  // W
			backward: 83,  // S
			left:     65,  // A
			right:    68,  // D
			up:       32,  // space
			down:     340, // left shift
		},
	}

	for _, option := range options {
		option(cc)
	}

	return cc
}

func (cc *cameraControllerImpl) Camera() *Camera {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.camera
}

func (cc *cameraControllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.camera.Ground += dx * cc.mouseSensitivity
	cc.camera.Sky -= dy * cc.mouseSensitivity
	if cc.camera.Sky > cc.maxPitch {
		cc.camera.Sky = cc.maxPitch
	}
	if cc.camera.Sky < -cc.maxPitch {
		cc.camera.Sky = -cc.maxPitch
	}
}

func (cc *cameraControllerImpl) Update(keys KeyPoller, dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	step := cc.moveSpeed * dt
	if keys.KeyDown(cc.keys.forward) {
		cc.translate(cc.camera.WalkingVec(), step)
	}
	if keys.KeyDown(cc.keys.backward) {
		cc.translate(cc.camera.WalkingVec(), -step)
	}
	if keys.KeyDown(cc.keys.right) {
		cc.translate(cc.camera.RightVec(), step)
	}
	if keys.KeyDown(cc.keys.left) {
		cc.translate(cc.camera.RightVec(), -step)
	}
	if keys.KeyDown(cc.keys.up) {
		cc.translate(math32.Vec3(0, 1, 0), step)
	}
	if keys.KeyDown(cc.keys.down) {
		cc.translate(math32.Vec3(0, 1, 0), -step)
	}
}

func (cc *cameraControllerImpl) MoveForward(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.translate(cc.camera.WalkingVec(), delta*cc.moveSpeed)
}

func (cc *cameraControllerImpl) MoveRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.translate(cc.camera.RightVec(), delta*cc.moveSpeed)
}

func (cc *cameraControllerImpl) MoveUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.translate(math32.Vec3(0, 1, 0), delta*cc.moveSpeed)
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) SetMoveSpeed(speed float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.moveSpeed = speed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

// translate moves the eye along dir by dist. Caller must hold the mutex.
func (cc *cameraControllerImpl) translate(dir math32.Vector3, dist float32) {
	cc.camera.Eye = cc.camera.Eye.Add(dir.MulScalar(dist))
}
