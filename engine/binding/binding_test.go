package binding

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimplePadding(t *testing.T) {
	assert.Len(t, NewSimple(make([]byte, 16)).Data, 16)
	assert.Len(t, NewSimple(make([]byte, 4)).Data, 16)
	assert.Len(t, NewSimple(make([]byte, 17)).Data, 32)
	assert.Len(t, NewSimple(make([]byte, 144)).Data, 144)
}

func TestNewSimpleUsage(t *testing.T) {
	s := NewSimple([]byte{1, 2, 3, 4})
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, s.Usage)

	st := NewStorage([]byte{1, 2, 3, 4}, wgpu.BufferUsageCopySrc)
	assert.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst|wgpu.BufferUsageCopySrc, st.Usage)
}

// A Binding's three descriptions must agree slot for slot.
func assertSlotParity(t *testing.T, b Binding) {
	t.Helper()
	resources := b.CreateResources()
	entries := b.LayoutEntries(nil)
	assert.Equal(t, len(resources), len(entries), "resources and layout entries must match")
	assert.Equal(t, len(resources), b.ShaderType().Len(), "resources and shader slots must match")
}

func TestUint32Binding(t *testing.T) {
	u := Uint32(7)
	assertSlotParity(t, u)

	resources := u.CreateResources()
	require.Len(t, resources, 1)
	simple, ok := resources[0].(Simple)
	require.True(t, ok)
	assert.Len(t, simple.Data, 16)
	assert.Equal(t, []byte{7, 0, 0, 0}, simple.Data[:4])

	assert.Equal(t, []string{"<uniform>"}, u.ShaderType().VarTypes)
	assert.Equal(t, []string{"u32"}, u.ShaderType().WGSLTypes)
}

func TestRawUniformBinding(t *testing.T) {
	r := RawUniform{Data: make([]byte, 12), TypeName: "vec3<f32>"}
	assertSlotParity(t, r)

	entries := r.LayoutEntries(nil)
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entries[0].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment|wgpu.ShaderStageCompute, entries[0].Visibility)
	assert.Equal(t, "vec3<f32>", r.ShaderType().WGSLTypes[0])
}

func TestLayoutOverrideRetypesSlotZero(t *testing.T) {
	u := Uint32(3)
	override := &wgpu.BindGroupLayoutEntry{}
	override.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage

	entries := u.LayoutEntries(override)
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, entries[0].Buffer.Type)
	// Binding index and visibility are preserved.
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.NotEqual(t, wgpu.ShaderStageNone, entries[0].Visibility)
}
