package compute

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// output is the unexported implementation of Output.
type output struct {
	// size is the storage buffer size in bytes.
	size uint64

	// The following fields are GPU allocated resources and must be released when no longer needed.

	// buffer is the device-local storage buffer compute shaders write to.
	buffer *wgpu.Buffer
	// layout is the single read-write storage layout for the buffer.
	layout *wgpu.BindGroupLayout
	// bindGroup binds the buffer at slot 0.
	bindGroup *wgpu.BindGroup
}

// Output is a compute-writable storage buffer with its own bind group, plus a
// blocking readback path. The buffer is device-local; ReadBlocking copies it
// through a transient staging buffer.
type Output interface {
	// Release releases the buffer, bind group, and layout.
	Release()

	// Buffer returns the storage buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the storage buffer
	Buffer() *wgpu.Buffer

	// BindGroup returns the bind group binding the buffer at slot 0.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// Layout returns the bind group layout.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout
	Layout() *wgpu.BindGroupLayout

	// Size returns the buffer size in bytes.
	//
	// Returns:
	//   - uint64: the size in bytes
	Size() uint64

	// ReadBlocking copies the buffer to a staging buffer, maps it, and
	// returns its contents. It blocks on the device until the copy and map
	// complete, with no timeout; all previously submitted work finishes
	// first. A failed map is a fatal device condition and returned as an
	// error.
	//
	// Parameters:
	//   - device: the GPU device
	//   - queue: the device queue
	//
	// Returns:
	//   - []byte: a copy of the buffer contents
	//   - error: a device or map error
	ReadBlocking(device *wgpu.Device, queue *wgpu.Queue) ([]byte, error)
}

// Compile-time check that output implements Output
var _ Output = &output{}

// NewOutput creates a zero-initialized storage buffer of the given size with
// a read-write storage bind group visible to compute stages.
//
// Parameters:
//   - device: the GPU device
//   - size: the buffer size in bytes
//
// Returns:
//   - Output: the output wrapper owning the created resources
//   - error: a device error
func NewOutput(device *wgpu.Device, size uint64) (Output, error) {
	buffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Compute Output",
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}

	entry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageCompute,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeStorage

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Compute Output Layout",
		Entries: []wgpu.BindGroupLayoutEntry{entry},
	})
	if err != nil {
		buffer.Release()
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Compute Output Bind Group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buffer,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		layout.Release()
		buffer.Release()
		return nil, err
	}

	return &output{
		size:      size,
		buffer:    buffer,
		layout:    layout,
		bindGroup: bindGroup,
	}, nil
}

func (o *output) Buffer() *wgpu.Buffer {
	return o.buffer
}

func (o *output) BindGroup() *wgpu.BindGroup {
	return o.bindGroup
}

func (o *output) Layout() *wgpu.BindGroupLayout {
	return o.layout
}

func (o *output) Size() uint64 {
	return o.size
}

func (o *output) ReadBlocking(device *wgpu.Device, queue *wgpu.Queue) ([]byte, error) {
	return ReadBufferBlocking(device, queue, o.buffer, o.size)
}

func (o *output) Release() {
	if o.bindGroup != nil {
		o.bindGroup.Release()
		o.bindGroup = nil
	}
	if o.layout != nil {
		o.layout.Release()
		o.layout = nil
	}
	if o.buffer != nil {
		o.buffer.Release()
		o.buffer = nil
	}
}

// ReadBufferBlocking copies size bytes from a COPY_SRC buffer into a
// transient map-read staging buffer, blocks until the device finishes, and
// returns the bytes. The returned slice is an independent copy.
//
// Parameters:
//   - device: the GPU device
//   - queue: the device queue
//   - buffer: the source buffer (must include CopySrc usage)
//   - size: the number of bytes to read from the start of the buffer
//
// Returns:
//   - []byte: a copy of the buffer contents
//   - error: a device or map error
func ReadBufferBlocking(device *wgpu.Device, queue *wgpu.Queue, buffer *wgpu.Buffer, size uint64) ([]byte, error) {
	staging, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Readback Staging",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	defer staging.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Release()

	if err := encoder.CopyBufferToBuffer(buffer, 0, staging, 0, size); err != nil {
		return nil, err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, err
	}
	queue.Submit(cmd)
	cmd.Release()

	var status wgpu.BufferMapAsyncStatus
	if err := staging.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	}); err != nil {
		return nil, err
	}

	// Blocks until all submitted work, including the copy, has completed.
	device.Poll(true, nil)

	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("compute: buffer map failed with status %v", status)
	}

	mapped := staging.GetMappedRange(0, uint(size))
	data := make([]byte, len(mapped))
	copy(data, mapped)
	staging.Unmap()

	return data, nil
}
