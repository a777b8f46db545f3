package culling

import (
	"cogentcore.org/core/math32"

	"github.com/pixelmonaskarion/bespoke-engine/engine/camera"
)

// Culled reports whether an instance of the given bounding box, placed by
// instanceTransform, is entirely off screen for the camera.
//
// The test is conservative: each of the eight box corners is transformed by
// the camera's view-projection and the instance transform, and the instance
// is kept if any corner lands on screen (x and y within [-1, 1] after
// perspective division) at a clip-space depth between the camera's near and
// far planes (pre-division, in camera units). Only when all eight corners
// fail is the instance culled. A box that surrounds the camera can therefore
// still be culled in rare poses; callers treat culling as an optimization,
// never a correctness requirement.
//
// Parameters:
//   - box: the instance's origin-centered bounding box
//   - instanceTransform: the instance's model-to-world transform
//   - cam: the viewing camera
//
// Returns:
//   - bool: true when the instance should be skipped
func Culled(box AABB, instanceTransform *math32.Matrix4, cam *camera.Camera) bool {
	viewProj := cam.BuildViewProjectionMatrix()
	var combined math32.Matrix4
	combined.MulMatrices(&viewProj, instanceTransform)

	for _, corner := range box.Corners() {
		clip := math32.Vector4FromVector3(corner, 1).MulMatrix4(&combined)
		screenX := clip.X / clip.W
		screenY := clip.Y / clip.W
		if screenX >= -1 && screenX <= 1 &&
			screenY >= -1 && screenY <= 1 &&
			clip.Z >= cam.ZNear && clip.Z <= cam.ZFar {
			return false
		}
	}
	return true
}
