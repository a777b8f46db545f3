// package compute wraps one-shot compute dispatches: pipeline construction
// from pre-processed WGSL, and blocking readback of storage outputs.
package compute

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/shader"
)

// computeShader is the unexported implementation of ComputeShader.
type computeShader struct {
	// pipeline is the compiled compute pipeline.
	pipeline *wgpu.ComputePipeline

	// pipelineLayout is retained for release.
	pipelineLayout *wgpu.PipelineLayout

	// module is the compiled shader module, retained for release.
	module *wgpu.ShaderModule

	// source is the fully rewritten WGSL source, kept for diagnostics.
	source string
}

// ComputeShader is a compiled compute pipeline built from placeholder WGSL.
// The compute entry point is "main".
type ComputeShader interface {
	// Release releases the pipeline and module.
	Release()

	// Pipeline returns the compiled compute pipeline.
	//
	// Returns:
	//   - *wgpu.ComputePipeline: the pipeline
	Pipeline() *wgpu.ComputePipeline

	// Source returns the fully rewritten WGSL source the pipeline was
	// compiled from.
	//
	// Returns:
	//   - string: the generated source
	Source() string

	// RunOnce records a single compute pass dispatching the given workgroup
	// grid with the given bind groups (group i gets bindGroups[i]) and
	// submits it. It does not wait for completion.
	//
	// Parameters:
	//   - device: the GPU device
	//   - queue: the device queue
	//   - bindGroups: one bind group per group index, in order
	//   - groups: the workgroup grid dimensions
	//
	// Returns:
	//   - error: a device error from encoding or submission
	RunOnce(device *wgpu.Device, queue *wgpu.Queue, bindGroups []*wgpu.BindGroup, groups [3]uint32) error
}

// Compile-time check that computeShader implements ComputeShader
var _ ComputeShader = &computeShader{}

// NewComputeShader pre-processes source against bindingTypes, compiles it,
// and builds a compute pipeline over the given bind group layouts.
//
// Parameters:
//   - lib: the shader library used for placeholder substitution
//   - device: the GPU device
//   - source: raw WGSL source containing placeholder markers
//   - layouts: bind group layouts in group order
//   - bindingTypes: binding metadata in group order, matching layouts
//
// Returns:
//   - ComputeShader: the compiled pipeline
//   - error: a device or validation error, with generated source included
func NewComputeShader(lib shader.Library, device *wgpu.Device, source string, layouts []*wgpu.BindGroupLayout, bindingTypes []shader.Type) (ComputeShader, error) {
	parsed := lib.Parse(source, bindingTypes)
	if lib.ShouldValidate() {
		if err := lib.Validate(parsed); err != nil {
			return nil, err
		}
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Compute Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: parsed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("compute: module creation failed: %w\nsource:\n%s", err, parsed)
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Compute Pipeline Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		module.Release()
		return nil, fmt.Errorf("compute: pipeline layout creation failed: %w", err)
	}

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "Compute Pipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		pipelineLayout.Release()
		module.Release()
		return nil, fmt.Errorf("compute: pipeline creation failed: %w\nsource:\n%s", err, parsed)
	}

	return &computeShader{
		pipeline:       pipeline,
		pipelineLayout: pipelineLayout,
		module:         module,
		source:         parsed,
	}, nil
}

func (c *computeShader) Pipeline() *wgpu.ComputePipeline {
	return c.pipeline
}

func (c *computeShader) Source() string {
	return c.source
}

func (c *computeShader) RunOnce(device *wgpu.Device, queue *wgpu.Queue, bindGroups []*wgpu.BindGroup, groups [3]uint32) error {
	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(c.pipeline)
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg, nil)
	}
	pass.DispatchWorkgroups(groups[0], groups[1], groups[2])
	pass.End()
	pass.Release()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()

	queue.Submit(cmd)
	return nil
}

func (c *computeShader) Release() {
	if c.pipeline != nil {
		c.pipeline.Release()
		c.pipeline = nil
	}
	if c.pipelineLayout != nil {
		c.pipelineLayout.Release()
		c.pipelineLayout = nil
	}
	if c.module != nil {
		c.module.Release()
		c.module = nil
	}
}
