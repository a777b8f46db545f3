// package billboard draws a positioned textured quad: a two-triangle model
// with a single instance transform rebuilt whenever the quad moves.
package billboard

import (
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/camera"
	"github.com/pixelmonaskarion/bespoke-engine/engine/culling"
	"github.com/pixelmonaskarion/bespoke-engine/engine/instance"
	"github.com/pixelmonaskarion/bespoke-engine/engine/model"
)

// billboard is the implementation of the Billboard interface.
type billboard struct {
	model    model.Model
	position math32.Vector3
	rotation math32.Quat
}

// Billboard is a world-positioned quad. Width and height are fixed at
// construction; position and orientation can change per frame, replacing the
// quad's single-entry instance buffer.
type Billboard interface {
	// Release frees the underlying model's GPU buffers.
	Release()

	// Model returns the quad model, for pipeline setup that needs its
	// buffers or bounding box.
	//
	// Returns:
	//   - model.Model: the quad model
	Model() model.Model

	// Position returns the current world position.
	//
	// Returns:
	//   - math32.Vector3: the position
	Position() math32.Vector3

	// Rotation returns the current orientation.
	//
	// Returns:
	//   - math32.Quat: the orientation
	Rotation() math32.Quat

	// SetPosition moves the quad, re-uploading its instance.
	//
	// Parameters:
	//   - device: the GPU device
	//   - position: the new world position
	//
	// Returns:
	//   - error: a buffer-creation error
	SetPosition(device *wgpu.Device, position math32.Vector3) error

	// SetRotation reorients the quad, re-uploading its instance.
	//
	// Parameters:
	//   - device: the GPU device
	//   - rotation: the new orientation
	//
	// Returns:
	//   - error: a buffer-creation error
	SetRotation(device *wgpu.Device, rotation math32.Quat) error

	// SetPlacement moves and reorients the quad in one instance upload.
	//
	// Parameters:
	//   - device: the GPU device
	//   - position: the new world position
	//   - rotation: the new orientation
	//
	// Returns:
	//   - error: a buffer-creation error
	SetPlacement(device *wgpu.Device, position math32.Vector3, rotation math32.Quat) error

	// Render records the quad draw into the pass.
	//
	// Parameters:
	//   - pass: the open render pass
	Render(pass *wgpu.RenderPassEncoder)

	// RenderCulled draws only if the placed quad intersects the camera
	// frustum, using the CPU corner test with the quad's own transform.
	//
	// Parameters:
	//   - pass: the open render pass
	//   - cam: the camera to cull against
	RenderCulled(pass *wgpu.RenderPassEncoder, cam *camera.Camera)
}

// Compile-time check that billboard implements Billboard
var _ Billboard = &billboard{}

// NewBillboard creates a quad of width x height scaled by size, centered on
// its position. Vertices carry tex coords covering the full [0,1] range so
// the quad can display a texture directly.
//
// Parameters:
//   - device: the GPU device
//   - width: the quad width before scaling
//   - height: the quad height before scaling
//   - size: a uniform scale applied to both dimensions
//   - position: the initial world position
//   - rotation: the initial orientation
//
// Returns:
//   - Billboard: the GPU-ready billboard
//   - error: a buffer-creation error
func NewBillboard(device *wgpu.Device, width, height, size float32, position math32.Vector3, rotation math32.Quat) (Billboard, error) {
	halfW := size * width / 2
	halfH := size * height / 2
	vertices := []model.Vertex{
		{Position: [3]float32{-halfW, -halfH, 0}, TexCoords: [2]float32{0, 1}},
		{Position: [3]float32{-halfW, halfH, 0}, TexCoords: [2]float32{0, 0}},
		{Position: [3]float32{halfW, -halfH, 0}, TexCoords: [2]float32{1, 1}},
		{Position: [3]float32{halfW, halfH, 0}, TexCoords: [2]float32{1, 0}},
	}
	indices := []uint16{0, 1, 2, 2, 1, 3}

	quad, err := model.NewInstancedModel(device, vertices, indices, []model.Raw{instance.New(position, rotation)})
	if err != nil {
		return nil, err
	}
	return &billboard{
		model:    quad,
		position: position,
		rotation: rotation,
	}, nil
}

func (b *billboard) Release() {
	b.model.Release()
}

func (b *billboard) Model() model.Model {
	return b.model
}

func (b *billboard) Position() math32.Vector3 {
	return b.position
}

func (b *billboard) Rotation() math32.Quat {
	return b.rotation
}

func (b *billboard) SetPosition(device *wgpu.Device, position math32.Vector3) error {
	b.position = position
	return b.uploadInstance(device)
}

func (b *billboard) SetRotation(device *wgpu.Device, rotation math32.Quat) error {
	b.rotation = rotation
	return b.uploadInstance(device)
}

func (b *billboard) SetPlacement(device *wgpu.Device, position math32.Vector3, rotation math32.Quat) error {
	b.position = position
	b.rotation = rotation
	return b.uploadInstance(device)
}

func (b *billboard) uploadInstance(device *wgpu.Device) error {
	return b.model.UpdateInstances(device, []model.Raw{instance.New(b.position, b.rotation)})
}

func (b *billboard) Render(pass *wgpu.RenderPassEncoder) {
	b.model.Render(pass)
}

func (b *billboard) RenderCulled(pass *wgpu.RenderPassEncoder, cam *camera.Camera) {
	transform := instance.New(b.position, b.rotation).Transform()
	if !culling.Culled(b.model.BoundingBox(), &transform, cam) {
		b.Render(pass)
	}
}
