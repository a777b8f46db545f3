package camera

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

// mapPoller is a map-backed KeyPoller for driving Update in tests.
type mapPoller map[uint32]bool

func (p mapPoller) KeyDown(keyCode uint32) bool { return p[keyCode] }

func TestControllerLookClampsPitch(t *testing.T) {
	cam := &Camera{Aspect: 1, FovY: 60, ZNear: 0.1, ZFar: 100}
	cc := NewCameraController(cam, WithMouseSensitivity(0.01))

	cc.Look(100, 0)
	assert.InDelta(t, 1.0, cam.Ground, 1e-6)
	assert.Zero(t, cam.Sky)

	// Dragging far past vertical must clamp rather than flip.
	cc.Look(0, -10000)
	assert.LessOrEqual(t, cam.Sky, float32(math32.Pi/2))
	assert.Greater(t, cam.Sky, float32(1.5))

	cc.Look(0, 10000)
	assert.GreaterOrEqual(t, cam.Sky, float32(-math32.Pi/2))
	assert.Less(t, cam.Sky, float32(-1.5))
}

func TestControllerUpdateMovesAlongWalkingAxes(t *testing.T) {
	// Ground = 0 walks along +X; pitch must not affect walking movement.
	cam := &Camera{Sky: 1.0, Aspect: 1, FovY: 60, ZNear: 0.1, ZFar: 100}
	cc := NewCameraController(cam, WithMoveSpeed(2))

	cc.Update(mapPoller{87: true}, 0.5) // W held for half a second
	assert.InDelta(t, 1.0, cam.Eye.X, 1e-5)
	assert.InDelta(t, 0.0, cam.Eye.Y, 1e-5)
	assert.InDelta(t, 0.0, cam.Eye.Z, 1e-5)

	cc.Update(mapPoller{83: true}, 0.5) // S walks back to the origin
	assert.InDelta(t, 0.0, cam.Eye.X, 1e-5)

	cc.Update(mapPoller{68: true, 32: true}, 0.5) // D and space together
	assert.InDelta(t, 0.0, cam.Eye.X, 1e-5)
	assert.InDelta(t, 1.0, cam.Eye.Y, 1e-5)
	assert.InDelta(t, 1.0, cam.Eye.Z, 1e-5)
}

func TestControllerRebindsMovementKeys(t *testing.T) {
	cam := &Camera{Aspect: 1, FovY: 60, ZNear: 0.1, ZFar: 100}
	cc := NewCameraController(cam,
		WithMoveSpeed(1),
		WithMovementKeys(265, 264, 263, 262, 32, 340), // arrow keys
	)

	cc.Update(mapPoller{87: true}, 1) // W is no longer bound
	assert.Zero(t, cam.Eye.X)

	cc.Update(mapPoller{265: true}, 1)
	assert.InDelta(t, 1.0, cam.Eye.X, 1e-5)
}

func TestControllerManualMovement(t *testing.T) {
	cam := &Camera{Aspect: 1, FovY: 60, ZNear: 0.1, ZFar: 100}
	cc := NewCameraController(cam, WithMoveSpeed(3))

	cc.MoveUp(1)
	assert.InDelta(t, 3.0, cam.Eye.Y, 1e-5)

	cc.MoveRight(1) // Ground = 0 strafes along +Z
	assert.InDelta(t, 3.0, cam.Eye.Z, 1e-5)

	cc.SetMoveSpeed(1)
	cc.MoveForward(2)
	assert.InDelta(t, 2.0, cam.Eye.X, 1e-5)
	assert.Equal(t, float32(1), cc.MoveSpeed())
}
