package camera

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCamera() *Camera {
	return &Camera{
		Eye:    math32.Vec3(0, 0, 5),
		Aspect: 16.0 / 9.0,
		FovY:   60,
		ZNear:  0.1,
		ZFar:   100,
		Ground: -math32.Pi / 2, // facing -Z
		Sky:    0,
	}
}

func TestForwardVec(t *testing.T) {
	c := testCamera()

	c.Ground = 0
	fwd := c.ForwardVec()
	assert.InDelta(t, 1, fwd.X, 1e-6)
	assert.InDelta(t, 0, fwd.Y, 1e-6)
	assert.InDelta(t, 0, fwd.Z, 1e-6)

	// Pitch straight up.
	c.Sky = math32.Pi / 2
	fwd = c.ForwardVec()
	assert.InDelta(t, 0, fwd.X, 1e-6)
	assert.InDelta(t, 1, fwd.Y, 1e-6)
}

func TestWalkingVecIgnoresPitch(t *testing.T) {
	c := testCamera()
	c.Sky = 1.2
	walk := c.WalkingVec()
	assert.Zero(t, walk.Y)
	assert.InDelta(t, 1, walk.Length(), 1e-6)
}

func TestRightVecPerpendicular(t *testing.T) {
	c := testCamera()
	right := c.RightVec()
	walk := c.WalkingVec()
	assert.InDelta(t, 0, right.Dot(walk), 1e-6)
	assert.Zero(t, right.Y)
}

func TestPointVisible(t *testing.T) {
	c := testCamera()

	// Directly ahead of the camera.
	assert.True(t, c.PointVisible(math32.Vec3(0, 0, 0)))

	// Behind the camera.
	assert.False(t, c.PointVisible(math32.Vec3(0, 0, 50)))

	// Far off to the side.
	assert.False(t, c.PointVisible(math32.Vec3(1000, 0, 0)))
}

func TestViewProjectionRespectsEyePosition(t *testing.T) {
	c := testCamera()
	vp := c.BuildViewProjectionMatrix()

	// The origin sits 5 units straight ahead of the camera, so its clip-space
	// w is the view depth and it divides to the center of the screen.
	clip := math32.Vector4FromVector3(math32.Vec3(0, 0, 0), 1).MulMatrix4(&vp)
	require.Greater(t, clip.W, float32(0))
	assert.InDelta(t, 5, clip.W, 1e-4)
	assert.InDelta(t, 0, clip.X/clip.W, 1e-4)
	assert.InDelta(t, 0, clip.Y/clip.W, 1e-4)

	// A point behind the camera lands at negative w.
	behind := math32.Vector4FromVector3(math32.Vec3(0, 0, 10), 1).MulMatrix4(&vp)
	assert.Negative(t, behind.W)

	// Flattening to the GPU uniform exercises the inverse as well.
	assert.NotPanics(t, func() { c.ToRaw() })
}

func TestTargetCameraViewProjectionRespectsEyePosition(t *testing.T) {
	c := &TargetCamera{
		Eye:    math32.Vec3(0, 0, 5),
		Target: math32.Vec3(0, 0, 0),
		Aspect: 1,
		FovY:   60,
		ZNear:  0.1,
		ZFar:   100,
	}
	vp := c.BuildViewProjectionMatrix()

	clip := math32.Vector4FromVector3(c.Target, 1).MulMatrix4(&vp)
	require.Greater(t, clip.W, float32(0))
	assert.InDelta(t, 5, clip.W, 1e-4)
	assert.InDelta(t, 0, clip.X/clip.W, 1e-4)
	assert.InDelta(t, 0, clip.Y/clip.W, 1e-4)
	assert.True(t, c.PointVisible(c.Target))
}

func TestInverseRoundTrip(t *testing.T) {
	c := testCamera()
	vp := c.BuildViewProjectionMatrix()
	inv := c.BuildInverseMatrix()

	var identity math32.Matrix4
	identity.MulMatrices(&vp, &inv)
	for i := 0; i < 16; i++ {
		expected := float32(0)
		if i%5 == 0 {
			expected = 1
		}
		assert.InDelta(t, expected, identity[i], 1e-3, "element %d", i)
	}
}

func TestGPUCameraMarshal(t *testing.T) {
	c := testCamera()
	raw := c.ToRaw()
	assert.Equal(t, 144, raw.Size())

	buf := raw.Marshal()
	require.Len(t, buf, 144)

	// Eye lands after the two matrices.
	assert.Equal(t, float32(5), raw.Eye[2])
	// 5.0f little-endian at offset 136.
	assert.Equal(t, []byte{0x00, 0x00, 0xa0, 0x40}, buf[136:140])
	// Trailing padding is zero.
	assert.Equal(t, []byte{0, 0, 0, 0}, buf[140:144])
}

func TestCameraBindingSlotParity(t *testing.T) {
	c := testCamera()
	resources := c.CreateResources()
	entries := c.LayoutEntries(nil)
	require.Len(t, resources, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, c.ShaderType().Len())
	assert.Equal(t, "Camera", c.ShaderType().WGSLTypes[0])

	tc := &TargetCamera{Eye: math32.Vec3(0, 2, 5), Aspect: 1, FovY: 45, ZNear: 0.1, ZFar: 10}
	assert.Len(t, tc.CreateResources(), 1)
	assert.Len(t, tc.LayoutEntries(nil), 1)
	assert.Equal(t, "Camera", tc.ShaderType().WGSLTypes[0])
}
