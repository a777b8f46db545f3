// package culling discards off-screen instanced geometry before it is drawn.
// It offers a CPU corner test for single instances, a GPU compute pass that
// compacts whole instance buffers, and a worker-pool batch path for many
// independent boxes.
package culling

import (
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/binding"
	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// AABB is an origin-centered axis-aligned bounding box. Dimensions holds the
// half-extent of the box along each axis: the box spans ±Dimensions[i] in
// model space. Matches the WGSL AABB struct from the global shader types.
type AABB struct {
	Dimensions [3]float32
}

// Compile-time check that AABB implements binding.Binding
var _ binding.Binding = AABB{}

// CalculateBoundingBox computes the bounding box of a vertex cloud: the
// largest absolute coordinate along each axis. Dimensions are never
// negative; an empty slice yields the zero box.
//
// Parameters:
//   - positions: vertex positions in model space
//
// Returns:
//   - AABB: the enclosing origin-centered box
func CalculateBoundingBox(positions []math32.Vector3) AABB {
	var box AABB
	for _, pos := range positions {
		if a := math32.Abs(pos.X); a > box.Dimensions[0] {
			box.Dimensions[0] = a
		}
		if a := math32.Abs(pos.Y); a > box.Dimensions[1] {
			box.Dimensions[1] = a
		}
		if a := math32.Abs(pos.Z); a > box.Dimensions[2] {
			box.Dimensions[2] = a
		}
	}
	return box
}

// Marshal serializes the AABB into its GPU uniform bytes.
//
// Returns:
//   - []byte: 12-byte buffer ready for GPU upload
func (a AABB) Marshal() []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(a.Dimensions[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(a.Dimensions[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(a.Dimensions[2]))
	return buf
}

// Corners returns the eight corners of the box in model space.
//
// Returns:
//   - [8]math32.Vector3: the box corners, every sign combination of the
//     dimensions
func (a AABB) Corners() [8]math32.Vector3 {
	d := a.Dimensions
	return [8]math32.Vector3{
		math32.Vec3(d[0], d[1], d[2]),
		math32.Vec3(d[0], d[1], -d[2]),
		math32.Vec3(d[0], -d[1], d[2]),
		math32.Vec3(d[0], -d[1], -d[2]),
		math32.Vec3(-d[0], d[1], d[2]),
		math32.Vec3(-d[0], d[1], -d[2]),
		math32.Vec3(-d[0], -d[1], d[2]),
		math32.Vec3(-d[0], -d[1], -d[2]),
	}
}

func (a AABB) CreateResources() []binding.Resource {
	return []binding.Resource{binding.NewSimple(a.Marshal())}
}

func (a AABB) LayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	entry := binding.SimpleLayoutEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment|wgpu.ShaderStageCompute, wgpu.BufferBindingTypeUniform)
	return []wgpu.BindGroupLayoutEntry{binding.ApplyOverride(entry, override)}
}

func (a AABB) ShaderType() shader.Type {
	return shader.UniformType("AABB")
}
