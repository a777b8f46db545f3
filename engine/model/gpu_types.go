package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// VertexSource is the canonical WGSL definition of the VertexInput struct for
// mesh pipelines. Matches Vertex layout exactly (32 bytes, no padding).
//
//go:embed assets/vertex.wgsl
var VertexSource string

// Vertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see VertexSource).
// Size: 32 bytes.
type Vertex struct {
	Position  [3]float32 // offset  0: vertex position in model space (12 bytes)
	TexCoords [2]float32 // offset 12: UV texture coordinate (8 bytes)
	Normal    [3]float32 // offset 20: vertex normal for lighting (12 bytes)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Pos returns the vertex position as a vector, for bounding-box computation.
//
// Returns:
//   - math32.Vector3: the model-space position
func (v *Vertex) Pos() math32.Vector3 {
	return math32.Vec3(v.Position[0], v.Position[1], v.Position[2])
}

// Marshal serializes the Vertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.TexCoords[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.TexCoords[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.Normal[0]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(v.Normal[1]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(v.Normal[2]))
	return buf
}

// VertexBufferLayout builds the per-vertex buffer layout matching the
// VertexInput WGSL struct: position, tex_coords, normal at locations 0..2.
//
// Returns:
//   - wgpu.VertexBufferLayout: the vertex-stepped layout, stride 32
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
		},
	}
}

// Positions extracts the model-space positions of a vertex slice.
//
// Parameters:
//   - vertices: the vertices to read
//
// Returns:
//   - []math32.Vector3: the positions, aligned with the input
func Positions(vertices []Vertex) []math32.Vector3 {
	positions := make([]math32.Vector3, len(vertices))
	for i := range vertices {
		positions[i] = vertices[i].Pos()
	}
	return positions
}
