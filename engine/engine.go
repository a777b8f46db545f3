// package engine ties the window, GPU surface, and shader library together
// into a run loop. Applications implement Handler and hand it to an Engine;
// the engine owns the frame lifecycle (surface acquire, clear, render pass,
// submit, present) and a fixed-rate logic tick running alongside it.
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/pixelmonaskarion/bespoke-engine/engine/profiler"
	"github.com/pixelmonaskarion/bespoke-engine/engine/window"
)

// Handler receives the per-frame callbacks from the run loop. Render is
// called inside an open render pass whose color attachment is the surface
// image (cleared to the background color) and whose depth attachment is the
// surface's depth texture (cleared to 1.0).
type Handler interface {
	// Resize is called after the surface has been reconfigured for a new
	// window size. Use it to recreate size-dependent resources and update
	// camera aspect ratios.
	//
	// Parameters:
	//   - device: the GPU device
	//   - width, height: new surface size in pixels
	Resize(device *wgpu.Device, width, height int)

	// Render records the frame's draw calls into the open render pass.
	//
	// Parameters:
	//   - device: the GPU device
	//   - pass: the frame's render pass
	Render(device *wgpu.Device, pass *wgpu.RenderPassEncoder)

	// MouseMoved is called when the cursor moves over the window.
	//
	// Parameters:
	//   - device: the GPU device
	//   - x, y: cursor position in pixels
	MouseMoved(device *wgpu.Device, x, y int32)
}

// engine implements the Engine interface.
// Rendering runs on the window's message loop thread (a GLFW requirement);
// the logic tick runs in its own goroutine.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window  window.Window
	surface window.SurfaceContext
	handler Handler

	profiler         *profiler.Profiler
	profilingEnabled bool

	backgroundColor wgpu.Color
	presentMode     wgpu.PresentMode

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point. It orchestrates the render loop, the logic
// tick loop, and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Surface returns the GPU surface context bound to the window.
	//
	// Returns:
	//   - window.SurfaceContext: the surface context
	Surface() window.SurfaceContext

	// SetHandler registers the application handler driven by the run loop.
	//
	// Parameters:
	//   - handler: the handler to drive
	SetHandler(handler Handler)

	// Profiler returns the engine's profiler so applications can feed it
	// per-frame statistics such as culling counts.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler instance
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the logic tick rate in ticks per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each logic tick.
	// Use this for game logic, physics, input processing, and animation
	// updates; GPU work belongs in the handler's Render.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames
	// per second. Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main engine loop (blocks until the window closes).
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates an engine around the given window: it builds the GPU
// surface context and wires the window's resize and mouse callbacks.
//
// Parameters:
//   - win: the window to render into
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if surface creation fails
func NewEngine(win window.Window, options ...EngineBuilderOption) (Engine, error) {
	if win == nil {
		return nil, fmt.Errorf("engine requires a window")
	}

	e := &engine{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		running:          false,
		wg:               sync.WaitGroup{},
		window:           win,
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		backgroundColor:  wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0},
		presentMode:      wgpu.PresentModeImmediate,
		engineTickRate:   time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	surface, err := window.NewSurfaceContext(win, e.surfaceOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create surface context: %w", err)
	}
	e.surface = surface

	win.SetResizeCallback(func(width, height int) {
		if err := e.surface.Resize(width, height); err != nil {
			log.Printf("engine: resize failed: %v", err)
			return
		}
		if e.handler != nil {
			e.handler.Resize(e.surface.Device(), width, height)
		}
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		if e.handler != nil {
			e.handler.MouseMoved(e.surface.Device(), x, y)
		}
	})

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Surface() window.SurfaceContext {
	return e.surface
}

func (e *engine) SetHandler(handler Handler) {
	e.handler = handler
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.running = true

	e.wg.Add(2)
	go e.handleTick()
	go e.handleQuit()

	// Rendering happens on this thread: GLFW event processing must stay on
	// the thread that created the window, and each message loop iteration
	// draws one frame.
	e.window.SetUpdateCallback(e.renderFrame)
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// renderFrame draws one frame: acquire the surface image, open a render pass
// clearing color and depth, hand the pass to the handler, submit, present.
// Recovers from handler panics to avoid crashing the message loop.
func (e *engine) renderFrame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("engine: render recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	// Quit must tear the window down from this thread; GLFW requires window
	// destruction on the thread running the message loop.
	select {
	case <-e.quitChannel:
		_ = e.window.Close()
		return
	default:
	}

	now := time.Now()

	if e.handler == nil {
		return
	}

	device := e.surface.Device()
	queue := e.surface.Queue()

	frame, err := e.surface.Surface().GetCurrentTexture()
	if err != nil {
		// Outdated/lost surfaces recover on the next resize.
		log.Printf("engine: failed to acquire surface texture: %v", err)
		return
	}
	view, err := frame.CreateView(nil)
	if err != nil {
		frame.Release()
		log.Printf("engine: failed to create surface view: %v", err)
		return
	}

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		frame.Release()
		log.Printf("engine: failed to create command encoder: %v", err)
		return
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Render Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: e.backgroundColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            e.surface.DepthTexture().View(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	e.handler.Render(device, pass)
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		log.Printf("engine: failed to finish command encoder: %v", err)
	} else {
		queue.Submit(commandBuffer)
		commandBuffer.Release()
		e.surface.Surface().Present()
	}

	encoder.Release()
	view.Release()
	frame.Release()

	if e.profilingEnabled {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// handleTick runs the fixed-rate logic tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic
// rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleTick() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the logic tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each logic tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
