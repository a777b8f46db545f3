// package camera provides free-look and target-locked perspective cameras.
// Both camera types bind to shaders as the global Camera uniform.
package camera

import (
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/binding"
	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// Camera is a free-look perspective camera aimed by two angles: Ground is the
// yaw around the Y axis and Sky the pitch above the horizon, both in radians.
type Camera struct {
	// Eye is the camera position in world space.
	Eye math32.Vector3

	// Aspect is the viewport aspect ratio (width / height).
	Aspect float32

	// FovY is the vertical field of view in degrees.
	FovY float32

	// ZNear and ZFar are the near and far clip distances in camera units.
	ZNear float32
	ZFar  float32

	// Ground is the yaw angle in radians, measured in the XZ plane.
	Ground float32

	// Sky is the pitch angle in radians above the horizon.
	Sky float32
}

// Compile-time check that Camera implements binding.Binding
var _ binding.Binding = &Camera{}

// ForwardVec returns the unit view direction derived from Ground and Sky.
//
// Returns:
//   - math32.Vector3: the forward direction
func (c *Camera) ForwardVec() math32.Vector3 {
	return math32.Vec3(
		math32.Cos(c.Ground)*math32.Cos(c.Sky),
		math32.Sin(c.Sky),
		math32.Sin(c.Ground)*math32.Cos(c.Sky),
	)
}

// WalkingVec returns the forward direction flattened onto the XZ plane, for
// movement that ignores pitch.
//
// Returns:
//   - math32.Vector3: the walking direction
func (c *Camera) WalkingVec() math32.Vector3 {
	return math32.Vec3(math32.Cos(c.Ground), 0, math32.Sin(c.Ground))
}

// RightVec returns the strafe direction, perpendicular to the walking
// direction in the XZ plane.
//
// Returns:
//   - math32.Vector3: the right direction
func (c *Camera) RightVec() math32.Vector3 {
	return c.WalkingVec().Cross(math32.Vec3(0, 1, 0))
}

// BuildViewProjectionMatrix builds the combined view-projection matrix:
// a look-at view along the forward direction followed by a perspective
// projection.
//
// Returns:
//   - math32.Matrix4: the view-projection matrix
func (c *Camera) BuildViewProjectionMatrix() math32.Matrix4 {
	view := lookAtView(c.Eye, c.Eye.Add(c.ForwardVec()))
	var proj math32.Matrix4
	proj.SetPerspective(c.FovY, c.Aspect, c.ZNear, c.ZFar)
	var vp math32.Matrix4
	vp.MulMatrices(&proj, view)
	return vp
}

// BuildInverseMatrix builds the inverse of the view-projection matrix.
// Panics if the matrix is singular, which only happens with a degenerate
// camera configuration (zero field of view or equal near/far planes).
//
// Returns:
//   - math32.Matrix4: the inverse view-projection matrix
func (c *Camera) BuildInverseMatrix() math32.Matrix4 {
	vp := c.BuildViewProjectionMatrix()
	inv, err := vp.Inverse()
	if err != nil {
		panic("camera: view-projection matrix is singular: " + err.Error())
	}
	return *inv
}

// PointVisible reports whether a world-space point projects inside the screen
// bounds after perspective division. Points behind the camera are not
// visible.
//
// Parameters:
//   - point: the world-space point to test
//
// Returns:
//   - bool: true when the projected point lies within [-1, 1] on both axes
func (c *Camera) PointVisible(point math32.Vector3) bool {
	vp := c.BuildViewProjectionMatrix()
	return pointVisible(&vp, point)
}

// ToRaw flattens the camera into its GPU uniform representation.
//
// Returns:
//   - GPUCamera: the uniform data for upload
func (c *Camera) ToRaw() GPUCamera {
	vp := c.BuildViewProjectionMatrix()
	inv := c.BuildInverseMatrix()
	return GPUCamera{
		ViewProj:        [16]float32(vp),
		InverseViewProj: [16]float32(inv),
		Eye:             [3]float32{c.Eye.X, c.Eye.Y, c.Eye.Z},
	}
}

func (c *Camera) CreateResources() []binding.Resource {
	raw := c.ToRaw()
	return []binding.Resource{binding.NewSimple(raw.Marshal())}
}

func (c *Camera) LayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	return cameraLayoutEntries(override)
}

func (c *Camera) ShaderType() shader.Type {
	return shader.UniformType("Camera")
}

// lookAtView builds the world-to-camera view matrix for a camera at eye
// looking at target with +Y up. NewLookAt only yields the rotation basis, so
// the camera transform is assembled from it and the eye position, then
// inverted.
func lookAtView(eye, target math32.Vector3) *math32.Matrix4 {
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(eye, target, math32.Vec3(0, 1, 0)))
	var cam math32.Matrix4
	cam.SetTransform(eye, lookq, math32.Vec3(1, 1, 1))
	view, _ := cam.Inverse()
	return view
}

// pointVisible tests a point against a view-projection matrix: inside the
// [-1, 1] screen bounds after perspective division, in front of the camera.
func pointVisible(viewProj *math32.Matrix4, point math32.Vector3) bool {
	clip := math32.Vector4FromVector3(point, 1).MulMatrix4(viewProj)
	if clip.W <= 0 {
		return false
	}
	x := clip.X / clip.W
	y := clip.Y / clip.W
	return x >= -1 && x <= 1 && y >= -1 && y <= 1
}

// cameraLayoutEntries is the shared single-uniform layout for both camera
// types. The camera is visible to every stage; the culling compute pass reads
// it as well as render pipelines.
func cameraLayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	entry := binding.SimpleLayoutEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment|wgpu.ShaderStageCompute, wgpu.BufferBindingTypeUniform)
	return []wgpu.BindGroupLayoutEntry{binding.ApplyOverride(entry, override)}
}
