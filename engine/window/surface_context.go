package window

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/texture"
)

// surfaceContext is the implementation of the SurfaceContext interface.
type surfaceContext struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	config       wgpu.SurfaceConfiguration
	depthTexture texture.Texture

	presentMode          wgpu.PresentMode
	forceFallbackAdapter bool
}

// SurfaceContext owns the GPU objects tied to one window: the surface and its
// configuration, the device and queue, and a depth texture sized to the
// surface. Resize reconfigures all of them together so they never disagree
// about dimensions.
type SurfaceContext interface {
	// Release frees the context's GPU objects. The window outlives the
	// context and is closed separately.
	Release()

	// Surface returns the window surface.
	//
	// Returns:
	//   - *wgpu.Surface: the surface
	Surface() *wgpu.Surface

	// Config returns the current surface configuration.
	//
	// Returns:
	//   - *wgpu.SurfaceConfiguration: the live configuration
	Config() *wgpu.SurfaceConfiguration

	// Device returns the GPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device's queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// DepthTexture returns the depth texture sized to the surface. It is
	// replaced on resize; do not retain it across frames.
	//
	// Returns:
	//   - texture.Texture: the depth texture
	DepthTexture() texture.Texture

	// Format returns the configured surface texture format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	Format() wgpu.TextureFormat

	// Size returns the configured surface dimensions in pixels.
	//
	// Returns:
	//   - uint32: the width
	//   - uint32: the height
	Size() (uint32, uint32)

	// Resize reconfigures the surface and recreates the depth texture for
	// the new dimensions. Zero dimensions (minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: a device-creation error
	Resize(width, height int) error
}

// Compile-time check that surfaceContext implements SurfaceContext
var _ SurfaceContext = &surfaceContext{}

// SurfaceContextOption configures a SurfaceContext at construction.
type SurfaceContextOption func(*surfaceContext)

// WithPresentMode sets the surface present mode. The default is immediate
// (uncapped) presentation.
//
// Parameters:
//   - mode: the present mode to configure the surface with
//
// Returns:
//   - SurfaceContextOption: the configured option
func WithPresentMode(mode wgpu.PresentMode) SurfaceContextOption {
	return func(s *surfaceContext) {
		s.presentMode = mode
	}
}

// WithForceFallbackAdapter forces the software fallback adapter, for
// environments without a usable GPU.
//
// Returns:
//   - SurfaceContextOption: the configured option
func WithForceFallbackAdapter() SurfaceContextOption {
	return func(s *surfaceContext) {
		s.forceFallbackAdapter = true
	}
}

// NewSurfaceContext creates the GPU context for a spawned window: surface,
// adapter, device, queue, configured swapchain, and depth texture.
//
// Parameters:
//   - win: the window to attach to
//   - options: a variadic list of options to configure the context
//
// Returns:
//   - SurfaceContext: the ready context
//   - error: an adapter, device, or texture creation error
func NewSurfaceContext(win Window, options ...SurfaceContextOption) (SurfaceContext, error) {
	s := &surfaceContext{
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
	}
	for _, opt := range options {
		opt(s)
	}

	s.surface = s.instance.CreateSurface(win.SurfaceDescriptor())

	adapter, err := s.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: s.forceFallbackAdapter,
		CompatibleSurface:    s.surface,
	})
	if err != nil {
		s.Release()
		return nil, err
	}
	s.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		s.Release()
		return nil, err
	}
	s.device = device
	s.queue = device.GetQueue()

	if err := s.Resize(win.Width(), win.Height()); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *surfaceContext) Release() {
	if s.depthTexture != nil {
		s.depthTexture.Release()
		s.depthTexture = nil
	}
	if s.device != nil {
		s.device.Release()
		s.device = nil
	}
	if s.surface != nil {
		s.surface.Release()
		s.surface = nil
	}
	if s.instance != nil {
		s.instance.Release()
		s.instance = nil
	}
}

func (s *surfaceContext) Surface() *wgpu.Surface {
	return s.surface
}

func (s *surfaceContext) Config() *wgpu.SurfaceConfiguration {
	return &s.config
}

func (s *surfaceContext) Device() *wgpu.Device {
	return s.device
}

func (s *surfaceContext) Queue() *wgpu.Queue {
	return s.queue
}

func (s *surfaceContext) DepthTexture() texture.Texture {
	return s.depthTexture
}

func (s *surfaceContext) Format() wgpu.TextureFormat {
	return s.config.Format
}

func (s *surfaceContext) Size() (uint32, uint32) {
	return s.config.Width, s.config.Height
}

func (s *surfaceContext) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}

	capabilities := s.surface.GetCapabilities(s.adapter)
	s.config = wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      capabilities.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: s.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	}
	s.surface.Configure(s.adapter, s.device, &s.config)

	depth, err := texture.NewDepthTexture(s.device, uint32(width), uint32(height))
	if err != nil {
		return err
	}
	if s.depthTexture != nil {
		s.depthTexture.Release()
	}
	s.depthTexture = depth
	return nil
}
