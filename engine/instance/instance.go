// package instance describes per-draw placement of repeated geometry. An
// Instance is a position and orientation; on the GPU it is a single
// mat4x4<f32> transform, consumed both as an instanced vertex attribute and
// as the storage-array element of the culling compute pass.
package instance

import (
	_ "embed"
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// structSource is the WGSL definition of the Instance struct as seen by
// shaders that bind instance buffers as storage arrays.
//
//go:embed assets/instance.wgsl
var structSource string

// TransformField is the Instance struct field holding the model transform,
// as named in the WGSL definition.
const TransformField = "transform"

// Size is the marshalled byte size of one Instance: a column-major
// mat4x4<f32>.
const Size = 64

// StructWGSL returns the WGSL source defining the Instance struct.
//
// Returns:
//   - string: the struct definition, ready to prepend to shader source
func StructWGSL() string {
	return structSource
}

// Instance places one copy of a model in the world.
type Instance struct {
	// Position is the world-space translation.
	Position math32.Vector3

	// Rotation is the orientation quaternion. The zero value is not a valid
	// rotation; use New or set an identity quaternion explicitly.
	Rotation math32.Quat
}

// New creates an Instance at the given position with the given orientation.
//
// Parameters:
//   - position: the world-space translation
//   - rotation: the orientation quaternion
//
// Returns:
//   - Instance: the configured instance
func New(position math32.Vector3, rotation math32.Quat) Instance {
	return Instance{Position: position, Rotation: rotation}
}

// NewAt creates an Instance at the given position with no rotation.
//
// Parameters:
//   - position: the world-space translation
//
// Returns:
//   - Instance: the configured instance
func NewAt(position math32.Vector3) Instance {
	var rot math32.Quat
	rot.SetIdentity()
	return Instance{Position: position, Rotation: rot}
}

// Transform composes the instance's model-to-world matrix.
//
// Returns:
//   - math32.Matrix4: translation * rotation, unit scale
func (i Instance) Transform() math32.Matrix4 {
	var m math32.Matrix4
	m.SetTransform(i.Position, i.Rotation, math32.Vec3(1, 1, 1))
	return m
}

// Marshal serializes the instance's transform into its GPU bytes.
//
// Returns:
//   - []byte: Size bytes, the column-major mat4x4<f32> little-endian
func (i Instance) Marshal() []byte {
	m := i.Transform()
	buf := make([]byte, Size)
	for j, v := range m {
		binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(v))
	}
	return buf
}

// MarshalAll concatenates the GPU bytes of many instances in order.
//
// Parameters:
//   - instances: the instances to serialize
//
// Returns:
//   - []byte: len(instances)*Size bytes
func MarshalAll(instances []Instance) []byte {
	buf := make([]byte, 0, len(instances)*Size)
	for _, inst := range instances {
		buf = append(buf, inst.Marshal()...)
	}
	return buf
}

// BufferLayout builds the per-instance vertex buffer layout for the Instance
// transform: four vec4 columns at consecutive shader locations starting at
// startLocation.
//
// Parameters:
//   - startLocation: the shader location of the first matrix column
//
// Returns:
//   - wgpu.VertexBufferLayout: the instanced layout, stride Size
func BufferLayout(startLocation uint32) wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, 4)
	for col := range attrs {
		attrs[col] = wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(col) * 16,
			ShaderLocation: startLocation + uint32(col),
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: Size,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attrs,
	}
}
