package engine

import (
	"time"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the logic tick rate in ticks per second.
// The tick callback will be called at this rate for game logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithHandler registers the application handler during engine construction.
//
// Parameters:
//   - handler: the Handler driven by the run loop
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHandler(handler Handler) EngineBuilderOption {
	return func(e *engine) {
		e.handler = handler
	}
}

// WithBackgroundColor sets the clear color used for every frame.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackgroundColor(color wgpu.Color) EngineBuilderOption {
	return func(e *engine) {
		e.backgroundColor = color
	}
}

// WithVSync selects the surface present mode: FIFO when enabled, immediate
// when disabled.
//
// Parameters:
//   - enabled: if true, presentation waits for vertical sync
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithVSync(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		if enabled {
			e.presentMode = wgpu.PresentModeFifo
		} else {
			e.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// surfaceOptions translates engine-level settings into surface context options.
func (e *engine) surfaceOptions() []window.SurfaceContextOption {
	return []window.SurfaceContextOption{window.WithPresentMode(e.presentMode)}
}
