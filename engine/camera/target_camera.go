package camera

import (
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/binding"
	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// TargetCamera is a perspective camera locked onto a world-space point. It
// binds identically to Camera; shaders see the same Camera uniform.
type TargetCamera struct {
	// Eye is the camera position in world space.
	Eye math32.Vector3

	// Aspect is the viewport aspect ratio (width / height).
	Aspect float32

	// FovY is the vertical field of view in degrees.
	FovY float32

	// ZNear and ZFar are the near and far clip distances in camera units.
	ZNear float32
	ZFar  float32

	// Target is the world-space point the camera looks at.
	Target math32.Vector3
}

// Compile-time check that TargetCamera implements binding.Binding
var _ binding.Binding = &TargetCamera{}

// BuildViewProjectionMatrix builds the combined view-projection matrix for
// the eye-to-target view.
//
// Returns:
//   - math32.Matrix4: the view-projection matrix
func (c *TargetCamera) BuildViewProjectionMatrix() math32.Matrix4 {
	view := lookAtView(c.Eye, c.Target)
	var proj math32.Matrix4
	proj.SetPerspective(c.FovY, c.Aspect, c.ZNear, c.ZFar)
	var vp math32.Matrix4
	vp.MulMatrices(&proj, view)
	return vp
}

// BuildInverseMatrix builds the inverse of the view-projection matrix.
// Panics if the matrix is singular; see Camera.BuildInverseMatrix.
//
// Returns:
//   - math32.Matrix4: the inverse view-projection matrix
func (c *TargetCamera) BuildInverseMatrix() math32.Matrix4 {
	vp := c.BuildViewProjectionMatrix()
	inv, err := vp.Inverse()
	if err != nil {
		panic("camera: view-projection matrix is singular: " + err.Error())
	}
	return *inv
}

// PointVisible reports whether a world-space point projects inside the screen
// bounds after perspective division.
//
// Parameters:
//   - point: the world-space point to test
//
// Returns:
//   - bool: true when the projected point lies within [-1, 1] on both axes
func (c *TargetCamera) PointVisible(point math32.Vector3) bool {
	vp := c.BuildViewProjectionMatrix()
	return pointVisible(&vp, point)
}

// ToRaw flattens the camera into its GPU uniform representation.
//
// Returns:
//   - GPUCamera: the uniform data for upload
func (c *TargetCamera) ToRaw() GPUCamera {
	vp := c.BuildViewProjectionMatrix()
	inv := c.BuildInverseMatrix()
	return GPUCamera{
		ViewProj:        [16]float32(vp),
		InverseViewProj: [16]float32(inv),
		Eye:             [3]float32{c.Eye.X, c.Eye.Y, c.Eye.Z},
	}
}

func (c *TargetCamera) CreateResources() []binding.Resource {
	raw := c.ToRaw()
	return []binding.Resource{binding.NewSimple(raw.Marshal())}
}

func (c *TargetCamera) LayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	return cameraLayoutEntries(override)
}

func (c *TargetCamera) ShaderType() shader.Type {
	return shader.UniformType("Camera")
}
