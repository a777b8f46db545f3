package culling

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/binding"
	"github.com/pixelmonaskarion/bespoke-engine/engine/camera"
	"github.com/pixelmonaskarion/bespoke-engine/engine/compute"
	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// cullingShaderSource is the culling compute shader before placeholder
// substitution. The instance struct definition is prepended at pipeline
// construction and the instanceMatrixToken replaced with the caller's matrix
// field name.
//
//go:embed assets/culling.wgsl
var cullingShaderSource string

// instanceMatrixToken marks where the shader reads the per-instance
// transform field.
const instanceMatrixToken = "***INSTANCE_MATRIX***"

// maxDispatchDim is the per-dimension workgroup dispatch limit; larger
// instance counts tile into the y dimension.
const maxDispatchDim = 65535

// DispatchGroups returns the workgroup grid covering count instances, tiled
// so no dimension exceeds the per-dimension dispatch limit. The shader
// recovers the instance index as x + y*65535 and discards indices at or
// beyond the count.
//
// Parameters:
//   - count: the number of instances to cover
//
// Returns:
//   - [3]uint32: the dispatch grid dimensions
func DispatchGroups(count uint32) [3]uint32 {
	x := count
	if x > maxDispatchDim {
		x = maxDispatchDim
	}
	y := (count + maxDispatchDim - 1) / maxDispatchDim
	return [3]uint32{x, y, 1}
}

// cullingCompute is the unexported implementation of Compute.
type cullingCompute struct {
	// shader is the persistent culling pipeline.
	shader compute.ComputeShader

	// buffersLayout is the input/output instance buffer layout; bind groups
	// against it are created per run.
	buffersLayout *wgpu.BindGroupLayout

	// cameraLayout matches the camera uniform bind group, owned for pipeline
	// construction only.
	cameraLayout *wgpu.BindGroupLayout

	// counterLayoutSource provides the counter layout at pipeline
	// construction; a fresh counter buffer is created per run.
	counterLayoutSource compute.Output

	// numInstances and boundingBox are persistent uniform containers, written
	// in place before each dispatch.
	numInstances binding.UniformBinding[binding.Uint32]
	boundingBox  binding.UniformBinding[AABB]
}

// Compute is a persistent GPU culling pass. It compacts an instance buffer
// into a new buffer holding only the instances whose bounding box lands on
// screen, using the same conservative corner test as Culled. The depth term
// differs between the two tiers: the shader accepts clip-space z in [0, w],
// while Culled tests pre-division z against the camera's [znear, zfar], so
// the tiers can disagree on instances near the depth bounds.
type Compute interface {
	// Release releases the pipeline, layouts, and uniform containers.
	Release()

	// RunBlocking culls the instances in inputBuffer against the camera and
	// bounding box. It allocates an output buffer of inputSize bytes, runs
	// the compute pass, and blocks until the surviving-instance counter has
	// been read back (device poll with no timeout).
	//
	// The returned buffer is owned by the caller and only its first
	// count*instanceStride bytes are meaningful; entries beyond the returned
	// count are undefined and must not be drawn. Pass the returned count,
	// never the buffer's allocated length, to the subsequent draw call.
	//
	// Parameters:
	//   - device: the GPU device
	//   - queue: the device queue
	//   - inputBuffer: the instance buffer (storage usage required)
	//   - inputSize: the instance buffer's size in bytes
	//   - count: the number of instances in the buffer
	//   - box: the per-instance bounding box
	//   - cameraBindGroup: the bound camera uniform
	//
	// Returns:
	//   - *wgpu.Buffer: the compacted instance buffer (storage+vertex usage)
	//   - uint32: the number of surviving instances
	//   - error: a device or readback error
	RunBlocking(device *wgpu.Device, queue *wgpu.Queue, inputBuffer *wgpu.Buffer, inputSize uint64, count uint32, box AABB, cameraBindGroup *wgpu.BindGroup) (*wgpu.Buffer, uint32, error)
}

// Compile-time check that cullingCompute implements Compute
var _ Compute = &cullingCompute{}

// NewCompute builds the persistent culling pipeline for one instance layout.
// instanceStructWGSL must define a WGSL struct named Instance whose field
// instanceMatrixField holds the mat4x4<f32> model transform.
//
// Parameters:
//   - lib: the shader library used for placeholder substitution
//   - device: the GPU device
//   - instanceStructWGSL: the WGSL definition of the Instance struct
//   - instanceMatrixField: the Instance field holding the transform matrix
//
// Returns:
//   - Compute: the persistent culling pass
//   - error: a device or validation error
func NewCompute(lib shader.Library, device *wgpu.Device, instanceStructWGSL, instanceMatrixField string) (Compute, error) {
	inputEntry := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageCompute,
	}
	inputEntry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
	outputEntry := wgpu.BindGroupLayoutEntry{
		Binding:    1,
		Visibility: wgpu.ShaderStageCompute,
	}
	outputEntry.Buffer.Type = wgpu.BufferBindingTypeStorage

	buffersLayout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Culling Instance Buffers Layout",
		Entries: []wgpu.BindGroupLayoutEntry{inputEntry, outputEntry},
	})
	if err != nil {
		return nil, err
	}

	c := &cullingCompute{buffersLayout: buffersLayout}

	release := func() {
		c.Release()
	}

	c.counterLayoutSource, err = compute.NewOutput(device, 4)
	if err != nil {
		release()
		return nil, err
	}

	c.numInstances, err = binding.NewUniformBinding(device, "Num Instances", binding.Uint32(0))
	if err != nil {
		release()
		return nil, err
	}

	c.boundingBox, err = binding.NewUniformBinding(device, "Bounding Box", AABB{})
	if err != nil {
		release()
		return nil, err
	}

	c.cameraLayout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   "Culling Camera Layout",
		Entries: (&camera.Camera{}).LayoutEntries(nil),
	})
	if err != nil {
		release()
		return nil, err
	}

	source := instanceStructWGSL + "\n" +
		strings.ReplaceAll(cullingShaderSource, instanceMatrixToken, instanceMatrixField)

	bindingTypes := []shader.Type{
		shader.MultiBufferType([]bool{false, true}, []string{"Instance", "Instance"}),
		shader.AtomicCounterType(),
		shader.UniformType("Camera"),
		shader.UniformType("u32"),
		shader.UniformType("AABB"),
	}
	layouts := []*wgpu.BindGroupLayout{
		buffersLayout,
		c.counterLayoutSource.Layout(),
		c.cameraLayout,
		c.numInstances.Layout(),
		c.boundingBox.Layout(),
	}

	c.shader, err = compute.NewComputeShader(lib, device, source, layouts, bindingTypes)
	if err != nil {
		release()
		return nil, err
	}

	return c, nil
}

func (c *cullingCompute) RunBlocking(device *wgpu.Device, queue *wgpu.Queue, inputBuffer *wgpu.Buffer, inputSize uint64, count uint32, box AABB, cameraBindGroup *wgpu.BindGroup) (*wgpu.Buffer, uint32, error) {
	outputBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Culled Output Instance Buffer",
		Size:  inputSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, 0, err
	}

	buffersBindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Culling Instance Buffers Bind Group",
		Layout: c.buffersLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: inputBuffer, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: outputBuffer, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		outputBuffer.Release()
		return nil, 0, err
	}
	defer buffersBindGroup.Release()

	// Fresh zeroed counter per run; its layout is structurally identical to
	// the one the pipeline was built with.
	counter, err := compute.NewOutput(device, 4)
	if err != nil {
		outputBuffer.Release()
		return nil, 0, err
	}
	defer counter.Release()

	countData := make([]byte, 4)
	binary.LittleEndian.PutUint32(countData, count)
	if err := c.numInstances.Write(queue, 0, countData); err != nil {
		outputBuffer.Release()
		return nil, 0, err
	}
	if err := c.boundingBox.Write(queue, 0, box.Marshal()); err != nil {
		outputBuffer.Release()
		return nil, 0, err
	}

	bindGroups := []*wgpu.BindGroup{
		buffersBindGroup,
		counter.BindGroup(),
		cameraBindGroup,
		c.numInstances.BindGroup(),
		c.boundingBox.BindGroup(),
	}
	if err := c.shader.RunOnce(device, queue, bindGroups, DispatchGroups(count)); err != nil {
		outputBuffer.Release()
		return nil, 0, err
	}

	counterBytes, err := counter.ReadBlocking(device, queue)
	if err != nil {
		outputBuffer.Release()
		return nil, 0, err
	}
	if len(counterBytes) < 4 {
		outputBuffer.Release()
		return nil, 0, fmt.Errorf("culling: short counter readback: %d bytes", len(counterBytes))
	}

	return outputBuffer, binary.LittleEndian.Uint32(counterBytes), nil
}

func (c *cullingCompute) Release() {
	if c.shader != nil {
		c.shader.Release()
		c.shader = nil
	}
	if c.numInstances != nil {
		c.numInstances.Release()
		c.numInstances = nil
	}
	if c.boundingBox != nil {
		c.boundingBox.Release()
		c.boundingBox = nil
	}
	if c.counterLayoutSource != nil {
		c.counterLayoutSource.Release()
		c.counterLayoutSource = nil
	}
	if c.cameraLayout != nil {
		c.cameraLayout.Release()
		c.cameraLayout = nil
	}
	if c.buffersLayout != nil {
		c.buffersLayout.Release()
		c.buffersLayout = nil
	}
}
