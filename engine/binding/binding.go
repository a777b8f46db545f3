package binding

import (
	"encoding/binary"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// Binding is implemented by values that can describe themselves as GPU bind
// group contents. The three methods must agree: CreateResources,
// LayoutEntries, and ShaderType all describe the same slots in the same
// order, one entry per slot.
type Binding interface {
	// CreateResources returns the per-slot resources for this value. Simple
	// resources carry the value's current bytes; Bespoke resources reference
	// views and samplers the value owns.
	//
	// Returns:
	//   - []Resource: one resource per bind slot, in slot order
	CreateResources() []Resource

	// LayoutEntries returns the bind group layout entries for this value.
	// When override is non-nil its resource-type fields replace those of
	// slot 0, letting a caller retype the binding (e.g. read a uniform as a
	// storage buffer in a compute pass) without the value's involvement.
	//
	// Parameters:
	//   - override: optional retyping for slot 0, or nil
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutEntry: one entry per bind slot, in slot order
	LayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry

	// ShaderType returns the qualifier and WGSL type for each slot, used by
	// the shader library to rewrite binding placeholders.
	//
	// Returns:
	//   - shader.Type: per-slot qualifier/type metadata
	ShaderType() shader.Type
}

// Uint32 is a single u32 uniform, used for small counters like instance
// counts in compute dispatches.
type Uint32 uint32

// Compile-time check that Uint32 implements Binding
var _ Binding = Uint32(0)

func (u Uint32) CreateResources() []Resource {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(u))
	return []Resource{NewSimple(data)}
}

func (u Uint32) LayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	entry := SimpleLayoutEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment|wgpu.ShaderStageCompute, wgpu.BufferBindingTypeUniform)
	return []wgpu.BindGroupLayoutEntry{ApplyOverride(entry, override)}
}

func (u Uint32) ShaderType() shader.Type {
	return shader.UniformType("u32")
}

// RawUniform is an untyped uniform blob with an explicit WGSL type name. It
// is the escape hatch for one-off uniforms that do not warrant their own
// Binding type.
type RawUniform struct {
	// Data is the uniform payload.
	Data []byte
	// TypeName is the WGSL type the shader declares for this uniform.
	TypeName string
	// Visibility restricts which stages see the binding. Zero means all of
	// vertex, fragment, and compute.
	Visibility wgpu.ShaderStage
}

// Compile-time check that RawUniform implements Binding
var _ Binding = RawUniform{}

func (r RawUniform) CreateResources() []Resource {
	return []Resource{NewSimple(r.Data)}
}

func (r RawUniform) LayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	visibility := r.Visibility
	if visibility == wgpu.ShaderStageNone {
		visibility = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment | wgpu.ShaderStageCompute
	}
	entry := SimpleLayoutEntry(0, visibility, wgpu.BufferBindingTypeUniform)
	return []wgpu.BindGroupLayoutEntry{ApplyOverride(entry, override)}
}

func (r RawUniform) ShaderType() shader.Type {
	return shader.UniformType(r.TypeName)
}
