// package binding turns typed Go values into GPU bind groups. A value
// describes itself through the Binding interface; the UniformBinding container
// owns the device resources created from that description.
package binding

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/common"
)

// UniformAlignment is the byte alignment applied to Simple resource data.
// WGSL uniform structs are laid out on 16-byte boundaries, so the engine pads
// all uploaded blobs to a multiple of this.
const UniformAlignment = 16

// Resource describes one bind slot's GPU resource before device creation.
// It is either a Simple blob of bytes that the container uploads into a
// buffer it owns, or a Bespoke view/sampler owned by someone else.
type Resource interface {
	isResource()
}

// Simple is a byte blob uploaded into a container-owned buffer. Data is
// padded to UniformAlignment at construction.
type Simple struct {
	// Data is the padded byte payload for the buffer.
	Data []byte
	// Usage is the buffer usage the container creates the buffer with.
	Usage wgpu.BufferUsage
}

func (Simple) isResource() {}

// Bespoke is an externally owned texture view or sampler bound as-is. Exactly
// one of View or Sampler is set. The container never releases Bespoke
// resources; their owner does.
type Bespoke struct {
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler
}

func (Bespoke) isResource() {}

// NewSimple creates a Simple resource from raw bytes, padding them to the
// uniform alignment. Usage defaults to a CPU-writable uniform buffer.
//
// Parameters:
//   - data: the raw payload bytes (not retained; a padded copy may alias it)
//
// Returns:
//   - Simple: the padded resource
func NewSimple(data []byte) Simple {
	return Simple{
		Data:  common.PadToAlignment(data, UniformAlignment),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	}
}

// NewStorage creates a Simple resource bound as a storage buffer, for data
// that compute shaders read or write.
//
// Parameters:
//   - data: the raw payload bytes
//   - extraUsage: additional usage flags OR'd onto the storage usage
//
// Returns:
//   - Simple: the padded resource
func NewStorage(data []byte, extraUsage wgpu.BufferUsage) Simple {
	return Simple{
		Data:  common.PadToAlignment(data, UniformAlignment),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | extraUsage,
	}
}

// SimpleLayoutEntry builds the bind group layout entry for a Simple resource.
//
// Parameters:
//   - bindingIndex: the slot index within the bind group
//   - visibility: the shader stages that can see the binding
//   - bufferType: uniform, storage, or read-only storage
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func SimpleLayoutEntry(bindingIndex uint32, visibility wgpu.ShaderStage, bufferType wgpu.BufferBindingType) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    bindingIndex,
		Visibility: visibility,
	}
	entry.Buffer.Type = bufferType
	return entry
}

// TextureLayoutEntry builds the layout entry for a sampled 2D float texture.
//
// Parameters:
//   - bindingIndex: the slot index within the bind group
//   - visibility: the shader stages that can see the binding
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func TextureLayoutEntry(bindingIndex uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    bindingIndex,
		Visibility: visibility,
	}
	entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	return entry
}

// SamplerLayoutEntry builds the layout entry for a filtering sampler.
//
// Parameters:
//   - bindingIndex: the slot index within the bind group
//   - visibility: the shader stages that can see the binding
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func SamplerLayoutEntry(bindingIndex uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    bindingIndex,
		Visibility: visibility,
	}
	entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	return entry
}

// ApplyOverride copies the resource-type fields of override onto entry,
// keeping entry's binding index. A zero override visibility leaves entry's
// visibility in place. Binding implementations use this to honor the
// LayoutEntries override parameter on their first slot.
//
// Parameters:
//   - entry: the binding's own layout entry
//   - override: the caller's retyping, or nil for no change
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the merged entry
func ApplyOverride(entry wgpu.BindGroupLayoutEntry, override *wgpu.BindGroupLayoutEntry) wgpu.BindGroupLayoutEntry {
	if override == nil {
		return entry
	}
	entry.Buffer = override.Buffer
	entry.Sampler = override.Sampler
	entry.Texture = override.Texture
	entry.StorageTexture = override.StorageTexture
	if override.Visibility != wgpu.ShaderStageNone {
		entry.Visibility = override.Visibility
	}
	return entry
}
