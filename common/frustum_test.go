package common

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

// viewProj for a camera at (0, 0, 5) looking at the origin with a 60 degree
// vertical field of view, near 0.1, far 100.
func testViewProj() math32.Matrix4 {
	eye := math32.Vec3(0, 0, 5)
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(eye, math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0)))
	var cam math32.Matrix4
	cam.SetTransform(eye, lookq, math32.Vec3(1, 1, 1))
	view, _ := cam.Inverse()
	var proj math32.Matrix4
	proj.SetPerspective(60, 1, 0.1, 100)
	var vp math32.Matrix4
	vp.MulMatrices(&proj, view)
	return vp
}

func TestExtractFrustumPlanesNormalized(t *testing.T) {
	vp := testViewProj()
	f := ExtractFrustum(&vp)

	for i, p := range f.Planes {
		length := p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2]
		assert.InDelta(t, 1.0, length, 1e-4, "plane %d normal should be unit length", i)
	}
}

func TestFrustumContainsBox(t *testing.T) {
	vp := testViewProj()
	f := ExtractFrustum(&vp)

	unit := math32.Vec3(1, 1, 1)

	// At the look-at target, well inside the frustum.
	assert.True(t, f.ContainsBox(math32.Vec3(0, 0, 0), unit))

	// Behind the camera.
	assert.False(t, f.ContainsBox(math32.Vec3(0, 0, 50), unit))

	// Beyond the far plane.
	assert.False(t, f.ContainsBox(math32.Vec3(0, 0, -200), unit))

	// Far off to the side.
	assert.False(t, f.ContainsBox(math32.Vec3(500, 0, 0), unit))

	// Straddling the near plane still passes the conservative test.
	assert.True(t, f.ContainsBox(math32.Vec3(0, 0, 4.95), unit))
}
