package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniformType(t *testing.T) {
	ty := UniformType("Camera")
	assert.Equal(t, 1, ty.Len())
	assert.Equal(t, []string{"<uniform>"}, ty.VarTypes)
	assert.Equal(t, []string{"Camera"}, ty.WGSLTypes)
}

func TestBufferType(t *testing.T) {
	ty := BufferType(false, "Instance")
	assert.Equal(t, []string{"<storage, read>"}, ty.VarTypes)
	assert.Equal(t, []string{"array<Instance>"}, ty.WGSLTypes)

	ty = BufferType(true, "Instance")
	assert.Equal(t, []string{"<storage, read_write>"}, ty.VarTypes)
}

func TestMultiBufferType(t *testing.T) {
	ty := MultiBufferType([]bool{false, true}, []string{"Instance", "Instance"})
	assert.Equal(t, 2, ty.Len())
	assert.Equal(t, []string{"<storage, read>", "<storage, read_write>"}, ty.VarTypes)
	assert.Equal(t, []string{"array<Instance>", "array<Instance>"}, ty.WGSLTypes)
}

func TestMultiBufferTypeSlotMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		MultiBufferType([]bool{false}, []string{"A", "B"})
	})
}

func TestTextureType(t *testing.T) {
	ty := TextureType()
	assert.Equal(t, 2, ty.Len())
	// Handle types carry no var<> qualifier.
	assert.Equal(t, []string{"", ""}, ty.VarTypes)
	assert.Equal(t, []string{"texture_2d<f32>", "sampler"}, ty.WGSLTypes)
}

func TestAtomicCounterType(t *testing.T) {
	ty := AtomicCounterType()
	assert.Equal(t, 1, ty.Len())
	assert.Equal(t, []string{"<storage, read_write>"}, ty.VarTypes)
	assert.Equal(t, []string{"atomic<u32>"}, ty.WGSLTypes)
}
