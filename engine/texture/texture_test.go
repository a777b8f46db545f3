package texture

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmonaskarion/bespoke-engine/engine/binding"
)

func TestNormalizedDimensions(t *testing.T) {
	tex := &texture{width: 3, height: 4}
	w, h := tex.NormalizedDimensions()
	assert.InDelta(t, 0.6, w, 1e-5)
	assert.InDelta(t, 0.8, h, 1e-5)

	empty := &texture{}
	w, h = empty.NormalizedDimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestSampledTextureBindingSlots(t *testing.T) {
	tex := &texture{view: &wgpu.TextureView{}, sampler: &wgpu.Sampler{}}

	resources := tex.CreateResources()
	entries := tex.LayoutEntries(nil)
	ty := tex.ShaderType()

	require.Len(t, resources, 2)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, ty.Len())

	// Fixed order: view at slot 0, sampler at slot 1.
	assert.NotNil(t, resources[0].(binding.Bespoke).View)
	assert.NotNil(t, resources[1].(binding.Bespoke).Sampler)
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, uint32(1), entries[1].Binding)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[1].Sampler.Type)
	assert.Equal(t, "texture_2d<f32>", ty.WGSLTypes[0])
	assert.Equal(t, "sampler", ty.WGSLTypes[1])
}

func TestDepthTextureBindingSlots(t *testing.T) {
	tex := &texture{view: &wgpu.TextureView{}}

	resources := tex.CreateResources()
	entries := tex.LayoutEntries(nil)
	ty := tex.ShaderType()

	require.Len(t, resources, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, ty.Len())

	assert.Equal(t, wgpu.TextureSampleTypeDepth, entries[0].Texture.SampleType)
	assert.Equal(t, "texture_depth_2d", ty.WGSLTypes[0])
}
