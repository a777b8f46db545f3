package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCamera is the GPU-aligned representation of a camera uniform.
// Matches the WGSL Camera struct from the shader library's global types.
// Size: 144 bytes (two mat4x4<f32> + vec3<f32> + one float of padding).
type GPUCamera struct {
	ViewProj        [16]float32 // offset   0: combined view-projection matrix (64 bytes)
	InverseViewProj [16]float32 // offset  64: inverse of the view-projection matrix (64 bytes)
	Eye             [3]float32  // offset 128: camera position in world space (12 bytes)
	Padding         float32     // offset 140: pad to 16-byte struct alignment (4 bytes)
}

// Size returns the size of the GPUCamera struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUCamera) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCamera struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload.
func (g *GPUCamera) Marshal() []byte {
	buf := make([]byte, 144)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.ViewProj[i]))
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[64+i*4:64+(i+1)*4], math.Float32bits(g.InverseViewProj[i]))
	}
	binary.LittleEndian.PutUint32(buf[128:132], math.Float32bits(g.Eye[0]))
	binary.LittleEndian.PutUint32(buf[132:136], math.Float32bits(g.Eye[1]))
	binary.LittleEndian.PutUint32(buf[136:140], math.Float32bits(g.Eye[2]))
	binary.LittleEndian.PutUint32(buf[140:144], math.Float32bits(g.Padding))
	return buf
}
