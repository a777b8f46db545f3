package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// BindingSource provides the GPU-side layout and shader metadata for one bound
// value. It is satisfied by the binding package's typed containers; accepting
// it here lets shaders be built directly from a list of live bindings without
// hand-assembling parallel layout and Type slices.
type BindingSource interface {
	// Layout returns the bind group layout for the bound value.
	Layout() *wgpu.BindGroupLayout

	// ShaderType returns the qualifier/type metadata for the bound value.
	ShaderType() Type
}

// Config controls the fixed-function state of a render shader's pipeline.
// The zero value is not useful; use DefaultConfig as a starting point.
type Config struct {
	// DepthWrite enables depth writes for this pipeline.
	DepthWrite bool

	// EnableDepthTexture attaches depth-stencil state to the pipeline. When
	// false the pipeline renders without a depth attachment.
	EnableDepthTexture bool

	// DepthOnly omits the fragment stage entirely (e.g. shadow passes).
	DepthOnly bool

	// DepthCompare is the depth comparison function when depth is enabled.
	DepthCompare wgpu.CompareFunction

	// FrontFace selects the winding treated as front-facing. CullBack
	// controls whether back faces are culled.
	FrontFace wgpu.FrontFace
	CullBack  bool
}

// DefaultConfig returns the standard opaque-geometry configuration: depth
// writes on, less-than depth test, CCW front faces with back-face culling.
//
// Returns:
//   - Config: the default render shader configuration
func DefaultConfig() Config {
	return Config{
		DepthWrite:         true,
		EnableDepthTexture: true,
		DepthCompare:       wgpu.CompareFunctionLess,
		FrontFace:          wgpu.FrontFaceCCW,
		CullBack:           true,
	}
}

// depthStencil builds the pipeline depth-stencil state for this config, or nil
// when depth is disabled.
func (c Config) depthStencil() *wgpu.DepthStencilState {
	if !c.EnableDepthTexture {
		return nil
	}
	return &wgpu.DepthStencilState{
		Format:            wgpu.TextureFormatDepth24Plus,
		DepthWriteEnabled: c.DepthWrite,
		DepthCompare:      c.DepthCompare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

// Shader is a compiled render shader and its pipeline, built from
// pre-processed WGSL source. The vertex entry point is "vs_main" and the
// fragment entry point "fs_main".
type Shader struct {
	// Module is the compiled shader module.
	Module *wgpu.ShaderModule

	// Pipeline is the render pipeline built around the module.
	Pipeline *wgpu.RenderPipeline

	// PipelineLayout is the layout shared by Pipeline and any reloads.
	PipelineLayout *wgpu.PipelineLayout

	// Source is the fully rewritten WGSL source the module was compiled from,
	// kept for diagnostics.
	Source string

	// Types is the binding metadata the source was parsed with.
	Types []Type

	// Config is the fixed-function state the pipeline was built with.
	Config Config
}

// NewShader pre-processes source against bindingTypes, compiles it, and builds
// a render pipeline targeting the given color formats with the given bind
// group layouts and vertex buffer layouts. Compile and pipeline-creation
// failures are returned with the generated source attached; they are not
// recoverable mid-frame and callers generally treat them as fatal.
//
// Parameters:
//   - lib: the shader library used for placeholder substitution
//   - device: the GPU device
//   - source: raw WGSL source containing placeholder markers
//   - formats: one color target state per render attachment, alpha-blended
//   - layouts: bind group layouts in group order
//   - bindingTypes: binding metadata in group order, matching layouts
//   - vertexLayouts: vertex buffer layouts for the vertex stage
//   - config: fixed-function pipeline state
//
// Returns:
//   - *Shader: the compiled shader and pipeline
//   - error: a device or validation error, with generated source included
func NewShader(lib Library, device *wgpu.Device, source string, formats []wgpu.TextureFormat, layouts []*wgpu.BindGroupLayout, bindingTypes []Type, vertexLayouts []wgpu.VertexBufferLayout, config Config) (*Shader, error) {
	parsed := lib.Parse(source, bindingTypes)
	if lib.ShouldValidate() {
		if err := lib.Validate(parsed); err != nil {
			return nil, err
		}
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: parsed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: module creation failed: %w\nsource:\n%s", err, parsed)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Render Pipeline Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("shader: pipeline layout creation failed: %w", err)
	}

	targets := make([]wgpu.ColorTargetState, len(formats))
	for i, format := range formats {
		targets[i] = wgpu.ColorTargetState{
			Format: format,
			Blend: &wgpu.BlendState{
				Color: wgpu.BlendComponent{
					Operation: wgpu.BlendOperationAdd,
					SrcFactor: wgpu.BlendFactorSrcAlpha,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				},
				Alpha: wgpu.BlendComponent{
					Operation: wgpu.BlendOperationAdd,
					SrcFactor: wgpu.BlendFactorOne,
					DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				},
			},
			WriteMask: wgpu.ColorWriteMaskAll,
		}
	}

	var fragment *wgpu.FragmentState
	if !config.DepthOnly {
		fragment = &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets:    targets,
		}
	}

	cullMode := wgpu.CullModeNone
	if config.CullBack {
		cullMode = wgpu.CullModeBack
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    vertexLayouts,
		},
		Fragment:     fragment,
		DepthStencil: config.depthStencil(),
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: config.FrontFace,
			CullMode:  cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: render pipeline creation failed: %w\nsource:\n%s", err, parsed)
	}

	return &Shader{
		Module:         module,
		Pipeline:       pipeline,
		PipelineLayout: pipelineLayout,
		Source:         parsed,
		Types:          bindingTypes,
		Config:         config,
	}, nil
}

// NewShaderFromBindings builds a render shader directly from live bindings,
// using each binding's layout and shader type in order.
//
// Parameters:
//   - lib: the shader library used for placeholder substitution
//   - device: the GPU device
//   - source: raw WGSL source containing placeholder markers
//   - formats: one color target per render attachment
//   - bindings: the bound values, in group order
//   - vertexLayouts: vertex buffer layouts for the vertex stage
//   - config: fixed-function pipeline state
//
// Returns:
//   - *Shader: the compiled shader and pipeline
//   - error: a device or validation error
func NewShaderFromBindings(lib Library, device *wgpu.Device, source string, formats []wgpu.TextureFormat, bindings []BindingSource, vertexLayouts []wgpu.VertexBufferLayout, config Config) (*Shader, error) {
	layouts := make([]*wgpu.BindGroupLayout, len(bindings))
	bindingTypes := make([]Type, len(bindings))
	for i, b := range bindings {
		layouts[i] = b.Layout()
		bindingTypes[i] = b.ShaderType()
	}
	return NewShader(lib, device, source, formats, layouts, bindingTypes, vertexLayouts, config)
}

// NewPostProcessShader builds a fullscreen post-processing shader: a single
// color target, no depth attachment, back-face culling of a screen quad.
//
// Parameters:
//   - lib: the shader library used for placeholder substitution
//   - device: the GPU device
//   - source: raw WGSL source containing placeholder markers
//   - format: the color target format
//   - layouts: bind group layouts in group order
//   - bindingTypes: binding metadata in group order
//   - vertexLayout: the screen-quad vertex layout
//
// Returns:
//   - *Shader: the compiled shader and pipeline
//   - error: a device or validation error
func NewPostProcessShader(lib Library, device *wgpu.Device, source string, format wgpu.TextureFormat, layouts []*wgpu.BindGroupLayout, bindingTypes []Type, vertexLayout wgpu.VertexBufferLayout) (*Shader, error) {
	config := Config{
		EnableDepthTexture: false,
		DepthCompare:       wgpu.CompareFunctionAlways,
		FrontFace:          wgpu.FrontFaceCCW,
		CullBack:           true,
	}
	return NewShader(lib, device, source, []wgpu.TextureFormat{format}, layouts, bindingTypes, []wgpu.VertexBufferLayout{vertexLayout}, config)
}

// Bind sets the shader's pipeline on a render pass.
//
// Parameters:
//   - pass: the active render pass encoder
func (s *Shader) Bind(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(s.Pipeline)
}

// Release releases the pipeline, its layout, and the shader module.
func (s *Shader) Release() {
	if s.Pipeline != nil {
		s.Pipeline.Release()
		s.Pipeline = nil
	}
	if s.PipelineLayout != nil {
		s.PipelineLayout.Release()
		s.PipelineLayout = nil
	}
	if s.Module != nil {
		s.Module.Release()
		s.Module = nil
	}
}
