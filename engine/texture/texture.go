// package texture wraps GPU textures with their view and sampler and exposes
// them as bindable resources. A sampled texture binds as two fixed-order
// slots, the view then the sampler; depth textures bind as a single
// depth-view slot.
package texture

import (
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/common"
	"github.com/pixelmonaskarion/bespoke-engine/engine/binding"
	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// DepthFormat is the depth texture format used throughout the engine. It
// matches the depth-stencil state of the shader pipelines.
const DepthFormat = wgpu.TextureFormatDepth24Plus

// texture is the implementation of the Texture interface.
type texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler

	width  uint32
	height uint32
	label  string
}

// Texture owns a GPU texture, its view, and (for sampled textures) its
// sampler. It implements binding.Binding so it can be wrapped directly in a
// UniformBinding container.
type Texture interface {
	binding.Binding

	// Release frees the texture, view, and sampler.
	Release()

	// View returns the texture view bound at slot 0.
	//
	// Returns:
	//   - *wgpu.TextureView: the view
	View() *wgpu.TextureView

	// Sampler returns the sampler bound at slot 1, or nil for depth
	// textures.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler() *wgpu.Sampler

	// Handle returns the underlying GPU texture.
	//
	// Returns:
	//   - *wgpu.Texture: the texture
	Handle() *wgpu.Texture

	// NormalizedDimensions returns the texture's width and height scaled so
	// their diagonal has unit length, for aspect-preserving quad sizing.
	//
	// Returns:
	//   - float32: the normalized width
	//   - float32: the normalized height
	NormalizedDimensions() (float32, float32)
}

// Compile-time check that texture implements Texture
var _ Texture = &texture{}

// TextureOption configures a Texture at construction.
type TextureOption func(*texture)

// WithLabel sets the debug label used for the created GPU objects.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - TextureOption: the configured option
func WithLabel(label string) TextureOption {
	return func(t *texture) {
		t.label = label
	}
}

// NewTexture uploads RGBA pixel data into a new sampled texture. Zero-valued
// sampler fields fall back to repeat addressing and linear filtering.
//
// Parameters:
//   - device: the GPU device
//   - queue: the queue the pixel upload is written on
//   - data: the staged RGBA pixels and dimensions
//   - samplerData: the sampler configuration; zero fields use defaults
//   - options: a variadic list of options to configure the texture
//
// Returns:
//   - Texture: the GPU-ready texture
//   - error: a device-creation error
func NewTexture(device *wgpu.Device, queue *wgpu.Queue, data common.TextureStagingData, samplerData common.SamplerStagingData, options ...TextureOption) (Texture, error) {
	t := &texture{width: data.Width, height: data.Height}
	for _, opt := range options {
		opt(t)
	}

	var err error
	t.texture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label: t.label + " Texture",
		Size: wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst | wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, err
	}

	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&wgpu.Extent3D{
			Width:              data.Width,
			Height:             data.Height,
			DepthOrArrayLayers: 1,
		},
	)

	t.view, err = t.texture.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, err
	}

	t.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         t.label + " Sampler",
		AddressModeU:  common.Coalesce(samplerData.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(samplerData.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(samplerData.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(samplerData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(samplerData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(samplerData.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(samplerData.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(samplerData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerData.MaxAnisotropy, 1),
		Compare:       samplerData.Compare,
	})
	if err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// NewBlankTexture creates an uninitialized sampled texture usable as a render
// target, for draw-to-texture effects.
//
// Parameters:
//   - device: the GPU device
//   - width: the texture width in pixels
//   - height: the texture height in pixels
//   - format: the texture format
//   - options: a variadic list of options to configure the texture
//
// Returns:
//   - Texture: the GPU-ready texture
//   - error: a device-creation error
func NewBlankTexture(device *wgpu.Device, width, height uint32, format wgpu.TextureFormat, options ...TextureOption) (Texture, error) {
	t := &texture{width: width, height: height, label: "Blank"}
	for _, opt := range options {
		opt(t)
	}

	var err error
	t.texture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label: t.label + " Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, err
	}

	t.view, err = t.texture.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, err
	}

	t.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         t.label + " Sampler",
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// NewDepthTexture creates a depth texture sized to the render target. It has
// no sampler; as a binding it declares a single texture_depth_2d slot.
//
// Parameters:
//   - device: the GPU device
//   - width: the texture width in pixels
//   - height: the texture height in pixels
//   - options: a variadic list of options to configure the texture
//
// Returns:
//   - Texture: the GPU-ready depth texture
//   - error: a device-creation error
func NewDepthTexture(device *wgpu.Device, width, height uint32, options ...TextureOption) (Texture, error) {
	t := &texture{width: width, height: height, label: "Depth"}
	for _, opt := range options {
		opt(t)
	}

	var err error
	t.texture, err = device.CreateTexture(&wgpu.TextureDescriptor{
		Label: t.label + " Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, err
	}

	t.view, err = t.texture.CreateView(nil)
	if err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func (t *texture) Release() {
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

func (t *texture) View() *wgpu.TextureView {
	return t.view
}

func (t *texture) Sampler() *wgpu.Sampler {
	return t.sampler
}

func (t *texture) Handle() *wgpu.Texture {
	return t.texture
}

func (t *texture) NormalizedDimensions() (float32, float32) {
	w := float32(t.width)
	h := float32(t.height)
	diagonal := math32.Sqrt(w*w + h*h)
	if diagonal == 0 {
		return 0, 0
	}
	return w / diagonal, h / diagonal
}

func (t *texture) CreateResources() []binding.Resource {
	if t.sampler == nil {
		return []binding.Resource{binding.Bespoke{View: t.view}}
	}
	return []binding.Resource{
		binding.Bespoke{View: t.view},
		binding.Bespoke{Sampler: t.sampler},
	}
}

func (t *texture) LayoutEntries(override *wgpu.BindGroupLayoutEntry) []wgpu.BindGroupLayoutEntry {
	if t.sampler == nil {
		entry := binding.TextureLayoutEntry(0, wgpu.ShaderStageFragment|wgpu.ShaderStageCompute)
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		return []wgpu.BindGroupLayoutEntry{binding.ApplyOverride(entry, override)}
	}
	return []wgpu.BindGroupLayoutEntry{
		binding.ApplyOverride(binding.TextureLayoutEntry(0, wgpu.ShaderStageFragment|wgpu.ShaderStageCompute), override),
		binding.SamplerLayoutEntry(1, wgpu.ShaderStageFragment),
	}
}

func (t *texture) ShaderType() shader.Type {
	if t.sampler == nil {
		return shader.Type{
			VarTypes:  []string{""},
			WGSLTypes: []string{"texture_depth_2d"},
		}
	}
	return shader.TextureType()
}
