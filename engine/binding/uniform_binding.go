package binding

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// uniformBinding is the unexported implementation of UniformBinding.
type uniformBinding[T Binding] struct {
	// device is retained so Replace can create fresh resources.
	device *wgpu.Device

	// label is a debug label added for convenience.
	label string

	// value is the last value the GPU resources were built from.
	value T

	// layoutOverride optionally retypes slot 0 of the layout, fixed at
	// construction so Replace rebuilds against the same layout.
	layoutOverride *wgpu.BindGroupLayoutEntry

	// The following fields are GPU allocated resources and must be released when no longer needed.

	// layout is the bind group layout, created once and reused across Replace.
	layout *wgpu.BindGroupLayout
	// bindGroup is the current bind group.
	bindGroup *wgpu.BindGroup
	// buffers holds the container-owned buffers, indexed by slot. Slots bound
	// to Bespoke resources hold nil; their views and samplers belong to the
	// value.
	buffers []*wgpu.Buffer
}

// UniformBinding owns the GPU resources for one bound value: its buffers,
// bind group layout, and bind group. The layout is created once; Replace
// swaps the value's resources under the same layout so pipelines built
// against the container stay valid.
//
// Containers are single-owner. Callers serialize Replace and Release; the
// container does no locking of its own.
type UniformBinding[T Binding] interface {
	// Release releases the container-owned GPU resources: buffers, bind
	// group, and layout. Bespoke views and samplers are left to their owner.
	Release()

	// Label returns the debug label for this container.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Value returns the value the current GPU resources were built from.
	//
	// Returns:
	//   - T: the bound value
	Value() T

	// Replace rebuilds the container's resources from a new value. The new
	// buffers and bind group are created first; the old ones are released
	// only after the new bind group exists, so commands already submitted
	// against the old bind group remain valid. Not safe to call while a
	// command buffer referencing this container is still being recorded.
	//
	// Parameters:
	//   - value: the new value to bind
	//
	// Returns:
	//   - error: a device error; on error the container keeps its old state
	Replace(value T) error

	// Write updates one Simple slot's buffer contents in place via the
	// queue, without recreating any resources. The data must not be longer
	// than the slot's buffer.
	//
	// Parameters:
	//   - queue: the device queue
	//   - slot: the bind slot index
	//   - data: the new contents; length must be a multiple of 4 bytes
	//
	// Returns:
	//   - error: a device error, or an error if the slot has no buffer
	Write(queue *wgpu.Queue, slot int, data []byte) error

	// BindGroup returns the current bind group for draw and dispatch calls.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// Layout returns the bind group layout, stable across Replace.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	Layout() *wgpu.BindGroupLayout

	// Buffer returns the container-owned buffer for a slot, or nil for
	// Bespoke slots.
	//
	// Parameters:
	//   - slot: the bind slot index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(slot int) *wgpu.Buffer

	// ShaderType returns the bound value's shader metadata, for use with the
	// shader library's placeholder rewrite.
	//
	// Returns:
	//   - shader.Type: per-slot qualifier/type metadata
	ShaderType() shader.Type
}

// UniformBindingOption configures a UniformBinding at construction.
type UniformBindingOption func(*uniformBindingOptions)

type uniformBindingOptions struct {
	layoutOverride *wgpu.BindGroupLayoutEntry
}

// WithLayoutOverride retypes slot 0 of the binding's layout. The override's
// resource-type fields replace the value's own; binding index is kept. Used
// by compute passes that bind a uniform-declared value as a storage buffer.
//
// Parameters:
//   - override: the layout entry whose resource-type fields apply to slot 0
//
// Returns:
//   - UniformBindingOption: the configured option
func WithLayoutOverride(override *wgpu.BindGroupLayoutEntry) UniformBindingOption {
	return func(o *uniformBindingOptions) {
		o.layoutOverride = override
	}
}

// NewUniformBinding creates GPU resources for value and wraps them in a
// container. One buffer is created per Simple resource; Bespoke resources
// are bound without ownership transfer.
//
// Parameters:
//   - device: the GPU device
//   - label: a debug label applied to the created resources
//   - value: the value to bind
//   - options: a variadic list of options to configure the container
//
// Returns:
//   - UniformBinding[T]: the container owning the created resources
//   - error: a device error, or an error if the value's resource and layout
//     descriptions disagree
func NewUniformBinding[T Binding](device *wgpu.Device, label string, value T, options ...UniformBindingOption) (UniformBinding[T], error) {
	var opts uniformBindingOptions
	for _, opt := range options {
		opt(&opts)
	}

	b := &uniformBinding[T]{
		device:         device,
		label:          label,
		value:          value,
		layoutOverride: opts.layoutOverride,
	}

	entries := value.LayoutEntries(opts.layoutOverride)
	resources := value.CreateResources()
	if len(entries) != len(resources) {
		return nil, fmt.Errorf("binding %q: %d layout entries but %d resources", label, len(entries), len(resources))
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + " Layout",
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	b.layout = layout

	buffers, bindGroup, err := b.createResources(value, entries)
	if err != nil {
		layout.Release()
		return nil, err
	}
	b.buffers = buffers
	b.bindGroup = bindGroup

	return b, nil
}

// Compile-time check that uniformBinding implements UniformBinding
var _ UniformBinding[Uint32] = &uniformBinding[Uint32]{}

// createResources creates buffers and a bind group for value against the
// container's existing layout.
func (b *uniformBinding[T]) createResources(value T, entries []wgpu.BindGroupLayoutEntry) ([]*wgpu.Buffer, *wgpu.BindGroup, error) {
	resources := value.CreateResources()
	if len(resources) != len(entries) {
		return nil, nil, fmt.Errorf("binding %q: %d layout entries but %d resources", b.label, len(entries), len(resources))
	}

	buffers := make([]*wgpu.Buffer, len(resources))
	bindGroupEntries := make([]wgpu.BindGroupEntry, len(resources))

	releaseAll := func() {
		for _, buf := range buffers {
			if buf != nil {
				buf.Release()
			}
		}
	}

	for i, res := range resources {
		switch r := res.(type) {
		case Simple:
			buf, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
				Label:    fmt.Sprintf("%s Buffer %d", b.label, i),
				Contents: r.Data,
				Usage:    r.Usage,
			})
			if err != nil {
				releaseAll()
				return nil, nil, err
			}
			buffers[i] = buf
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entries[i].Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		case Bespoke:
			switch {
			case r.View != nil:
				bindGroupEntries[i] = wgpu.BindGroupEntry{
					Binding:     entries[i].Binding,
					TextureView: r.View,
				}
			case r.Sampler != nil:
				bindGroupEntries[i] = wgpu.BindGroupEntry{
					Binding: entries[i].Binding,
					Sampler: r.Sampler,
				}
			default:
				releaseAll()
				return nil, nil, fmt.Errorf("binding %q: bespoke resource %d has neither view nor sampler", b.label, i)
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   b.label + " Bind Group",
		Layout:  b.layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		releaseAll()
		return nil, nil, err
	}

	return buffers, bindGroup, nil
}

func (b *uniformBinding[T]) Label() string {
	return b.label
}

func (b *uniformBinding[T]) Value() T {
	return b.value
}

func (b *uniformBinding[T]) Replace(value T) error {
	entries := value.LayoutEntries(b.layoutOverride)
	buffers, bindGroup, err := b.createResources(value, entries)
	if err != nil {
		return err
	}

	// The new bind group exists; retiring the old resources is now safe for
	// any previously submitted work.
	if b.bindGroup != nil {
		b.bindGroup.Release()
	}
	for _, buf := range b.buffers {
		if buf != nil {
			buf.Release()
		}
	}

	b.value = value
	b.buffers = buffers
	b.bindGroup = bindGroup
	return nil
}

func (b *uniformBinding[T]) Write(queue *wgpu.Queue, slot int, data []byte) error {
	if slot < 0 || slot >= len(b.buffers) || b.buffers[slot] == nil {
		return fmt.Errorf("binding %q: slot %d has no buffer", b.label, slot)
	}
	return queue.WriteBuffer(b.buffers[slot], 0, data)
}

func (b *uniformBinding[T]) BindGroup() *wgpu.BindGroup {
	return b.bindGroup
}

func (b *uniformBinding[T]) Layout() *wgpu.BindGroupLayout {
	return b.layout
}

func (b *uniformBinding[T]) Buffer(slot int) *wgpu.Buffer {
	if slot < 0 || slot >= len(b.buffers) {
		return nil
	}
	return b.buffers[slot]
}

func (b *uniformBinding[T]) ShaderType() shader.Type {
	return b.value.ShaderType()
}

func (b *uniformBinding[T]) Release() {
	if b.bindGroup != nil {
		b.bindGroup.Release()
		b.bindGroup = nil
	}
	for i, buf := range b.buffers {
		if buf != nil {
			buf.Release()
			b.buffers[i] = nil
		}
	}
	if b.layout != nil {
		b.layout.Release()
		b.layout = nil
	}
}
