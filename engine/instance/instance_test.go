package instance

import (
	"encoding/binary"
	"math"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformTranslation(t *testing.T) {
	inst := NewAt(math32.Vec3(3, -2, 7))
	m := inst.Transform()
	assert.InDelta(t, 3.0, m[12], 1e-6)
	assert.InDelta(t, -2.0, m[13], 1e-6)
	assert.InDelta(t, 7.0, m[14], 1e-6)
	// No rotation: the linear block stays identity.
	assert.InDelta(t, 1.0, m[0], 1e-6)
	assert.InDelta(t, 1.0, m[5], 1e-6)
	assert.InDelta(t, 1.0, m[10], 1e-6)
}

func TestMarshalMatchesTransform(t *testing.T) {
	inst := New(math32.Vec3(1, 2, 3), math32.NewQuatAxisAngle(math32.Vec3(0, 1, 0), 0.5))
	data := inst.Marshal()
	require.Len(t, data, Size)

	m := inst.Transform()
	for i := 0; i < 16; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : (i+1)*4]))
		assert.InDelta(t, m[i], got, 1e-6, "matrix element %d", i)
	}
}

func TestMarshalAllConcatenates(t *testing.T) {
	instances := []Instance{NewAt(math32.Vec3(0, 0, 0)), NewAt(math32.Vec3(1, 1, 1))}
	data := MarshalAll(instances)
	assert.Len(t, data, 2*Size)
}

func TestBufferLayout(t *testing.T) {
	layout := BufferLayout(3)
	assert.Equal(t, uint64(Size), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layout.StepMode)
	require.Len(t, layout.Attributes, 4)
	for i, attr := range layout.Attributes {
		assert.Equal(t, wgpu.VertexFormatFloat32x4, attr.Format)
		assert.Equal(t, uint64(i*16), attr.Offset)
		assert.Equal(t, uint32(3+i), attr.ShaderLocation)
	}
}

func TestStructWGSLNamesInstance(t *testing.T) {
	src := StructWGSL()
	assert.Contains(t, src, "struct Instance")
	assert.Contains(t, src, TransformField)
}
