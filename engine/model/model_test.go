package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexMarshal(t *testing.T) {
	v := Vertex{
		Position:  [3]float32{1, 2, 3},
		TexCoords: [2]float32{0.25, 0.75},
		Normal:    [3]float32{0, 1, 0},
	}
	buf := v.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, 32, v.Size())

	want := []float32{1, 2, 3, 0.25, 0.75, 0, 1, 0}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.Equal(t, w, got, "field %d", i)
	}
}

func TestVertexPos(t *testing.T) {
	v := Vertex{Position: [3]float32{1, -2, 3}}
	pos := v.Pos()
	assert.Equal(t, float32(1), pos.X)
	assert.Equal(t, float32(-2), pos.Y)
	assert.Equal(t, float32(3), pos.Z)
}

func TestVertexBufferLayout(t *testing.T) {
	layout := VertexBufferLayout()
	assert.Equal(t, uint64(32), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 3)

	assert.Equal(t, uint64(0), layout.Attributes[0].Offset)
	assert.Equal(t, uint64(12), layout.Attributes[1].Offset)
	assert.Equal(t, uint64(20), layout.Attributes[2].Offset)
	for i, attr := range layout.Attributes {
		assert.Equal(t, uint32(i), attr.ShaderLocation)
	}
}

func TestIndexFormatFor(t *testing.T) {
	assert.Equal(t, wgpu.IndexFormatUint16, indexFormatFor[uint16]())
	assert.Equal(t, wgpu.IndexFormatUint32, indexFormatFor[uint32]())
}

type fakeRaw []byte

func (f fakeRaw) Marshal() []byte { return f }

func TestMarshalRaws(t *testing.T) {
	data := marshalRaws([]Raw{fakeRaw{1, 2}, fakeRaw{3}, fakeRaw{4, 5, 6}})
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, data)

	assert.Nil(t, marshalRaws(nil))
}
