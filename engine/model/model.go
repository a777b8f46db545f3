// package model owns GPU mesh containers: vertex/index buffers, an optional
// instanced transform buffer, and the draw paths that consume them, including
// the culled draws backed by the culling package.
package model

import (
	"unsafe"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/common"
	"github.com/pixelmonaskarion/bespoke-engine/engine/binding"
	"github.com/pixelmonaskarion/bespoke-engine/engine/camera"
	"github.com/pixelmonaskarion/bespoke-engine/engine/culling"
)

// Raw is anything that can serialize itself into GPU bytes. Vertices and
// instances implement it; a model concatenates the per-element bytes when
// building its buffers.
type Raw interface {
	Marshal() []byte
}

// IndexElement constrains mesh index slices to the two element widths the GPU
// understands. The index format of a model is derived from the width.
type IndexElement interface {
	~uint16 | ~uint32
}

// model is the implementation of the Model interface.
type model struct {
	vertexBuffer   *wgpu.Buffer
	indexBuffer    *wgpu.Buffer
	instanceBuffer *wgpu.Buffer

	numVertices  uint32
	numIndices   uint32
	numInstances uint32

	// instanceSize is the byte size of the live instance buffer, tracked so
	// culled draws can size their output buffer without a device query.
	instanceSize uint64

	indexFormat wgpu.IndexFormat
	boundingBox culling.AABB
}

// Model is a GPU-ready mesh container. It owns its vertex and index buffers
// and, for instanced models, the buffer of per-instance transforms. Draw
// methods only record into an open render pass; the caller owns pass and
// submission lifecycle.
type Model interface {
	// Release frees the model's GPU buffers.
	Release()

	// VertexBuffer returns the vertex buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer
	IndexBuffer() *wgpu.Buffer

	// InstanceBuffer returns the per-instance transform buffer, or nil for
	// non-instanced models.
	//
	// Returns:
	//   - *wgpu.Buffer: the instance buffer or nil
	InstanceBuffer() *wgpu.Buffer

	// NumIndices returns the index count of one mesh draw.
	//
	// Returns:
	//   - uint32: the index count
	NumIndices() uint32

	// NumInstances returns the live instance count. Always 1 for
	// non-instanced models.
	//
	// Returns:
	//   - uint32: the instance count
	NumInstances() uint32

	// IndexFormat returns the GPU index format derived from the index element
	// width the model was built with.
	//
	// Returns:
	//   - wgpu.IndexFormat: Uint16 or Uint32
	IndexFormat() wgpu.IndexFormat

	// BoundingBox returns the origin-centered box enclosing the mesh
	// vertices, used by the culled draw paths.
	//
	// Returns:
	//   - culling.AABB: the bounding box
	BoundingBox() culling.AABB

	// UpdateInstances replaces the instance buffer wholesale with a new
	// buffer holding the given instances. The stored instance count follows
	// the new slice; previously uploaded data is released.
	//
	// Parameters:
	//   - device: the GPU device
	//   - instances: the new instance set
	//
	// Returns:
	//   - error: a buffer-creation error
	UpdateInstances(device *wgpu.Device, instances []Raw) error

	// Render records an indexed draw of all instances into the pass.
	//
	// Parameters:
	//   - pass: the open render pass
	Render(pass *wgpu.RenderPassEncoder)

	// RenderInstances records an indexed draw using an externally supplied
	// instance buffer, drawing the instance range [start, end).
	//
	// Parameters:
	//   - pass: the open render pass
	//   - instances: the instance buffer to bind at slot 1
	//   - start: the first instance index
	//   - end: one past the last instance index
	RenderInstances(pass *wgpu.RenderPassEncoder, instances *wgpu.Buffer, start, end uint32)

	// RenderCulledTransformed draws only if the model's box, placed by the
	// given transform, intersects the camera frustum. A nil transform means
	// identity. The test is conservative; a drawn model may still be
	// off-screen, a skipped one never is visible.
	//
	// Parameters:
	//   - pass: the open render pass
	//   - transform: the model-to-world transform, or nil for identity
	//   - cam: the camera to cull against
	RenderCulledTransformed(pass *wgpu.RenderPassEncoder, transform *math32.Matrix4, cam *camera.Camera)

	// RenderCulled draws the visible subset of the model. Instanced models
	// run the GPU compute pass and draw the compacted buffer; the returned
	// buffer is that transient compacted buffer and must be released by the
	// caller after the pass's command buffer is submitted. Non-instanced
	// models fall back to the CPU corner test and return a nil buffer. The
	// count of instances drawn is returned either way, for callers that
	// report culling effectiveness.
	//
	// Parameters:
	//   - pass: the open render pass
	//   - device: the GPU device
	//   - queue: the queue culling work is submitted on
	//   - cameraBinding: the camera uniform container, used for both the
	//     compute bind group and the CPU test value
	//   - culler: the persistent culling compute state
	//
	// Returns:
	//   - *wgpu.Buffer: the transient compacted instance buffer, or nil
	//   - uint32: the number of instances drawn
	//   - error: a culling dispatch or readback error
	RenderCulled(pass *wgpu.RenderPassEncoder, device *wgpu.Device, queue *wgpu.Queue, cameraBinding binding.UniformBinding[*camera.Camera], culler culling.Compute) (*wgpu.Buffer, uint32, error)
}

// Compile-time check that model implements Model
var _ Model = &model{}

// NewModel creates a non-instanced model from vertices and indices. The
// bounding box is computed from the vertex positions and the index format
// follows the index element width.
//
// Parameters:
//   - device: the GPU device
//   - vertices: the mesh vertices
//   - indices: the mesh indices, uint16 or uint32
//
// Returns:
//   - Model: the GPU-ready model
//   - error: a buffer-creation error
func NewModel[I IndexElement](device *wgpu.Device, vertices []Vertex, indices []I) (Model, error) {
	m := &model{
		numVertices:  uint32(len(vertices)),
		numIndices:   uint32(len(indices)),
		numInstances: 1,
		indexFormat:  indexFormatFor[I](),
		boundingBox:  culling.CalculateBoundingBox(Positions(vertices)),
	}
	if err := createMeshBuffers(m, device, vertices, indices); err != nil {
		return nil, err
	}
	return m, nil
}

// NewInstancedModel creates a model drawn once per instance. The instance
// buffer is created with vertex and storage usage so the same buffer feeds
// both the instanced draw and the culling compute pass.
//
// Parameters:
//   - device: the GPU device
//   - vertices: the mesh vertices
//   - indices: the mesh indices, uint16 or uint32
//   - instances: the initial instance set
//
// Returns:
//   - Model: the GPU-ready model
//   - error: a buffer-creation error
func NewInstancedModel[I IndexElement](device *wgpu.Device, vertices []Vertex, indices []I, instances []Raw) (Model, error) {
	m := &model{
		numVertices: uint32(len(vertices)),
		numIndices:  uint32(len(indices)),
		indexFormat: indexFormatFor[I](),
		boundingBox: culling.CalculateBoundingBox(Positions(vertices)),
	}
	if err := createMeshBuffers(m, device, vertices, indices); err != nil {
		return nil, err
	}
	if err := m.UpdateInstances(device, instances); err != nil {
		m.Release()
		return nil, err
	}
	return m, nil
}

// NewModelFromBuffers wraps already-created vertex and index buffers into an
// instanced model, uploading the given instance set. Ownership of the passed
// buffers transfers to the model.
//
// Parameters:
//   - device: the GPU device
//   - vertexBuffer: the vertex buffer to adopt
//   - numVertices: the vertex count of vertexBuffer
//   - indexBuffer: the index buffer to adopt
//   - numIndices: the index count of indexBuffer
//   - indexFormat: the element format of indexBuffer
//   - boundingBox: the mesh bounding box
//   - instances: the initial instance set
//
// Returns:
//   - Model: the GPU-ready model
//   - error: a buffer-creation error
func NewModelFromBuffers(device *wgpu.Device, vertexBuffer *wgpu.Buffer, numVertices uint32, indexBuffer *wgpu.Buffer, numIndices uint32, indexFormat wgpu.IndexFormat, boundingBox culling.AABB, instances []Raw) (Model, error) {
	m := &model{
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		numVertices:  numVertices,
		numIndices:   numIndices,
		indexFormat:  indexFormat,
		boundingBox:  boundingBox,
	}
	if err := m.UpdateInstances(device, instances); err != nil {
		return nil, err
	}
	return m, nil
}

// indexFormatFor maps the index element width to the GPU index format.
func indexFormatFor[I IndexElement]() wgpu.IndexFormat {
	var zero I
	if unsafe.Sizeof(zero) == 2 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// marshalRaws concatenates the GPU bytes of the given elements in order.
func marshalRaws(items []Raw) []byte {
	var buf []byte
	for _, item := range items {
		buf = append(buf, item.Marshal()...)
	}
	return buf
}

// createMeshBuffers uploads the vertex and index data into fresh GPU buffers
// owned by m.
func createMeshBuffers[I IndexElement](m *model, device *wgpu.Device, vertices []Vertex, indices []I) error {
	vertexData := make([]byte, 0, len(vertices)*32)
	for i := range vertices {
		vertexData = append(vertexData, vertices[i].Marshal()...)
	}
	indexData := common.SliceToBytes(indices)

	var err error
	m.vertexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Vertex Buffer",
		Contents: vertexData,
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return err
	}

	m.indexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Index Buffer",
		Contents: indexData,
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		m.Release()
		return err
	}
	return nil
}

func (m *model) Release() {
	if m.instanceBuffer != nil {
		m.instanceBuffer.Release()
		m.instanceBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
		m.indexBuffer = nil
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
		m.vertexBuffer = nil
	}
}

func (m *model) VertexBuffer() *wgpu.Buffer {
	return m.vertexBuffer
}

func (m *model) IndexBuffer() *wgpu.Buffer {
	return m.indexBuffer
}

func (m *model) InstanceBuffer() *wgpu.Buffer {
	return m.instanceBuffer
}

func (m *model) NumIndices() uint32 {
	return m.numIndices
}

func (m *model) NumInstances() uint32 {
	return m.numInstances
}

func (m *model) IndexFormat() wgpu.IndexFormat {
	return m.indexFormat
}

func (m *model) BoundingBox() culling.AABB {
	return m.boundingBox
}

func (m *model) UpdateInstances(device *wgpu.Device, instances []Raw) error {
	data := marshalRaws(instances)
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Instance Buffer",
		Contents: data,
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageStorage,
	})
	if err != nil {
		return err
	}
	if m.instanceBuffer != nil {
		m.instanceBuffer.Release()
	}
	m.instanceBuffer = buffer
	m.instanceSize = uint64(len(data))
	m.numInstances = uint32(len(instances))
	return nil
}

func (m *model) Render(pass *wgpu.RenderPassEncoder) {
	pass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	if m.instanceBuffer != nil {
		pass.SetVertexBuffer(1, m.instanceBuffer, 0, wgpu.WholeSize)
	}
	pass.SetIndexBuffer(m.indexBuffer, m.indexFormat, 0, wgpu.WholeSize)
	pass.DrawIndexed(m.numIndices, m.numInstances, 0, 0, 0)
}

func (m *model) RenderInstances(pass *wgpu.RenderPassEncoder, instances *wgpu.Buffer, start, end uint32) {
	pass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetVertexBuffer(1, instances, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(m.indexBuffer, m.indexFormat, 0, wgpu.WholeSize)
	pass.DrawIndexed(m.numIndices, end-start, 0, 0, start)
}

func (m *model) RenderCulledTransformed(pass *wgpu.RenderPassEncoder, transform *math32.Matrix4, cam *camera.Camera) {
	if transform == nil {
		transform = math32.Identity4()
	}
	if !culling.Culled(m.boundingBox, transform, cam) {
		m.Render(pass)
	}
}

func (m *model) RenderCulled(pass *wgpu.RenderPassEncoder, device *wgpu.Device, queue *wgpu.Queue, cameraBinding binding.UniformBinding[*camera.Camera], culler culling.Compute) (*wgpu.Buffer, uint32, error) {
	if m.instanceBuffer == nil {
		cam := cameraBinding.Value()
		if culling.Culled(m.boundingBox, math32.Identity4(), cam) {
			return nil, 0, nil
		}
		m.Render(pass)
		return nil, 1, nil
	}

	culled, count, err := culler.RunBlocking(device, queue, m.instanceBuffer, m.instanceSize, m.numInstances, m.boundingBox, cameraBinding.BindGroup())
	if err != nil {
		return nil, 0, err
	}
	m.RenderInstances(pass, culled, 0, count)
	return culled, count, nil
}
