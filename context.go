package vgfx

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/render"
)

// DrawContext owns a GPU device, one render target and every primitive
// pushed onto it.
//
// A DrawContext is not safe for concurrent use. Its lifecycle is
// created, then any sequence of Resize, Push and Draw, then Destroy.
// After Destroy every method returns ErrDestroyed.
type DrawContext struct {
	opts options

	instance *render.Instance
	device   *render.Device
	target   render.Target
	headless *render.HeadlessTarget // nil for surfaced contexts

	projection hal.Buffer
	dirty      bool // projection needs upload

	registry *gpu.Registry
	store    *gpu.Store

	// inflight holds submitted command buffers until the queue reports
	// their submission complete.
	inflight []submission

	destroyed bool
}

type submission struct {
	cmd   hal.CommandBuffer
	index uint64
}

// Ensure DrawContext implements io.Closer and gpucontext.DeviceProvider.
var (
	_ io.Closer                 = (*DrawContext)(nil)
	_ gpucontext.DeviceProvider = (*DrawContext)(nil)
)

// NewHeadless creates a draw context rendering into an off-screen texture
// of the given size.
//
// Example:
//
//	dc, err := vgfx.NewHeadless(400, 300)
//	if err != nil {
//	    return err
//	}
//	defer dc.Destroy()
func NewHeadless(width, height uint32, opts ...Option) (*DrawContext, error) {
	dc := newDrawContext(opts)
	if err := dc.openDevice(nil); err != nil {
		dc.Destroy()
		return nil, err
	}

	target, err := render.NewHeadlessTarget(dc.device.HALDevice(), width, height)
	if err != nil {
		dc.Destroy()
		return nil, fmt.Errorf("create headless target: %w", err)
	}
	dc.target, dc.headless = target, target

	if err := dc.finish(); err != nil {
		dc.Destroy()
		return nil, err
	}
	return dc, nil
}

// NewSurfaced creates a draw context presenting to a platform window.
// The surface size is the window size in physical pixels.
func NewSurfaced(win render.WindowHandle, wp gpucontext.WindowProvider, opts ...Option) (*DrawContext, error) {
	dc := newDrawContext(opts)
	if err := dc.createInstance(); err != nil {
		return nil, err
	}

	surface, err := dc.instance.CreateSurface(win)
	if err != nil {
		dc.Destroy()
		return nil, fmt.Errorf("create surface: %w", err)
	}
	if err := dc.openDevice(surface); err != nil {
		surface.Destroy()
		dc.Destroy()
		return nil, err
	}

	w, h := physicalSize(wp)
	target, err := render.NewSurfaceTarget(dc.device.HALDevice(), dc.device.HALAdapter(), surface, w, h, dc.opts.presentModes...)
	if err != nil {
		surface.Destroy()
		dc.Destroy()
		return nil, fmt.Errorf("create surface target: %w", err)
	}
	dc.target = target

	if err := dc.finish(); err != nil {
		dc.Destroy()
		return nil, err
	}
	return dc, nil
}

// physicalSize converts the logical window size to pixels.
func physicalSize(wp gpucontext.WindowProvider) (uint32, uint32) {
	w, h := wp.Size()
	scale := wp.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	return uint32(float64(max(w, 0)) * scale), uint32(float64(max(h, 0)) * scale)
}

func newDrawContext(opts []Option) *DrawContext {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &DrawContext{opts: o}
}

func (dc *DrawContext) createInstance() error {
	inst, err := render.NewInstance(render.InstanceConfig{
		Backend:     dc.opts.backend,
		BackendName: dc.opts.backendName,
		Flags:       dc.opts.flags,
	})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	dc.instance = inst
	return nil
}

func (dc *DrawContext) openDevice(surface hal.Surface) error {
	if dc.instance == nil {
		if err := dc.createInstance(); err != nil {
			return err
		}
	}
	dev, err := dc.instance.OpenDevice(surface, dc.opts.adapter)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	dc.device = dev
	return nil
}

// finish builds everything that depends on the target: the projection
// buffer, the registry and the store.
func (dc *DrawContext) finish() error {
	device := dc.device.HALDevice()
	format := dc.target.Format()
	dc.device.SetSurfaceFormat(format)

	projection, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: dc.opts.label + "_projection",
		Size:  gpu.ProjectionSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create projection buffer: %w", &render.Error{Op: "CreateBuffer", Err: err})
	}
	dc.projection = projection
	if err := dc.uploadProjection(); err != nil {
		return err
	}

	reg, err := gpu.NewRegistry(device, format, dc.opts.library)
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}
	dc.registry = reg
	dc.store = gpu.NewStore(reg)

	w, h := dc.target.Size()
	Logger().Info("vgfx: draw context created",
		"width", w,
		"height", h,
		"format", format,
		"headless", dc.headless != nil,
		"adapter", dc.device.Info().Name)
	return nil
}

func (dc *DrawContext) uploadProjection() error {
	proj := dc.target.Projection()
	if err := dc.device.HALQueue().WriteBuffer(dc.projection, 0, proj.Bytes()); err != nil {
		return fmt.Errorf("upload projection: %w", &render.Error{Op: "WriteBuffer", Err: err})
	}
	dc.dirty = false
	return nil
}

// Resize changes the target size. Zero dimensions and unchanged sizes are
// ignored. The new projection is uploaded by the next Draw.
func (dc *DrawContext) Resize(width, height uint32) error {
	if dc.destroyed {
		return ErrDestroyed
	}
	if w, h := dc.target.Size(); width != 0 && height != 0 && (width != w || height != h) {
		// The old texture may still be referenced by a submitted frame.
		if err := dc.waitIdle(); err != nil {
			return fmt.Errorf("resize: %w", err)
		}
	}
	changed, err := dc.target.Resize(width, height)
	if err != nil {
		return fmt.Errorf("resize: %w", err)
	}
	if changed {
		dc.dirty = true
		Logger().Debug("vgfx: resized", "width", width, "height", height)
	}
	return nil
}

// Push validates p and uploads its GPU state. Invalid primitives are
// rejected before any GPU object is created.
func (dc *DrawContext) Push(p Primitive) error {
	if dc.destroyed {
		return ErrDestroyed
	}

	device, queue := dc.device.HALDevice(), dc.device.HALQueue()
	var (
		state gpu.State
		err   error
	)
	switch p := p.(type) {
	case RoundedRectangle:
		if err := p.Size.Validate(); err != nil {
			return err
		}
		state, err = gpu.NewRoundedRectState(device, queue, dc.registry, dc.projection, p.params())
	case Ellipse:
		if err := p.Size.Validate(); err != nil {
			return err
		}
		state, err = gpu.NewEllipseState(device, queue, dc.registry, dc.projection, p.params())
	default:
		// Includes nil and pointer types such as *RoundedRectangle.
		return fmt.Errorf("%w: %T", ErrUnknownPrimitive, p)
	}
	if err != nil {
		return fmt.Errorf("push %s: %w", p.kind(), err)
	}
	dc.store.Push(state)
	return nil
}

// Draw renders every pushed primitive to the target in one pass and
// presents the frame.
//
// Frame acquisition errors keep their identity: check them with
// IsRecoverable, resize, and draw again.
func (dc *DrawContext) Draw() error {
	if dc.destroyed {
		return ErrDestroyed
	}
	dc.reclaim()

	out, err := dc.target.Output()
	if err != nil {
		return fmt.Errorf("acquire frame: %w", err)
	}

	if dc.dirty {
		if err := dc.uploadProjection(); err != nil {
			dc.target.Discard(out)
			return err
		}
	}

	cmd, err := dc.encode(out.View)
	if err != nil {
		dc.target.Discard(out)
		return err
	}
	index, err := dc.device.HALQueue().Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		dc.device.HALDevice().FreeCommandBuffer(cmd)
		dc.target.Discard(out)
		return fmt.Errorf("submit frame: %w", &render.Error{Op: "Submit", Err: err})
	}
	// The GPU may still be executing cmd; it is freed once the queue
	// reports index complete.
	dc.inflight = append(dc.inflight, submission{cmd: cmd, index: index})

	if err := dc.target.Present(dc.device.HALQueue(), out); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	return nil
}

// encode records the frame pass into a new command buffer.
func (dc *DrawContext) encode(view hal.TextureView) (hal.CommandBuffer, error) {
	encoder, err := dc.device.HALDevice().CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: dc.opts.label + "_frame_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", &render.Error{Op: "CreateCommandEncoder", Err: err})
	}
	if err := encoder.BeginEncoding(dc.opts.label + "_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", &render.Error{Op: "BeginEncoding", Err: err})
	}

	c := dc.opts.clearColor
	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: dc.opts.label + "_frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)},
		}},
	})
	dc.store.Render(pass)
	pass.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", &render.Error{Op: "EndEncoding", Err: err})
	}
	return cmd, nil
}

// reclaim frees the command buffers of every completed submission.
func (dc *DrawContext) reclaim() {
	if len(dc.inflight) == 0 {
		return
	}
	done := dc.device.HALQueue().PollCompleted()
	device := dc.device.HALDevice()
	kept := dc.inflight[:0]
	for _, s := range dc.inflight {
		if s.index <= done {
			device.FreeCommandBuffer(s.cmd)
			continue
		}
		kept = append(kept, s)
	}
	clear(dc.inflight[len(kept):])
	dc.inflight = kept
}

// waitIdle blocks until the GPU has finished every submission and frees
// their command buffers. Call it before destroying anything a submitted
// frame may reference.
func (dc *DrawContext) waitIdle() error {
	if err := dc.device.WaitIdle(); err != nil {
		return err
	}
	dc.freeInflight()
	return nil
}

func (dc *DrawContext) freeInflight() {
	device := dc.device.HALDevice()
	for _, s := range dc.inflight {
		device.FreeCommandBuffer(s.cmd)
	}
	dc.inflight = nil
}

// Readback returns the last drawn frame of a headless context.
func (dc *DrawContext) Readback() (*image.RGBA, error) {
	if dc.destroyed {
		return nil, ErrDestroyed
	}
	if dc.headless == nil {
		return nil, ErrNotHeadless
	}
	img, err := dc.headless.Readback(dc.device.HALQueue())
	if err != nil {
		Logger().Warn("vgfx: readback failed", "err", err)
		return nil, fmt.Errorf("readback: %w", err)
	}
	// Readback waits for the frame, so earlier submissions are done.
	dc.reclaim()
	return img, nil
}

// Clear removes every pushed primitive and releases its GPU state. It
// waits for in-flight frames first since they reference that state.
func (dc *DrawContext) Clear() error {
	if dc.destroyed {
		return ErrDestroyed
	}
	if err := dc.waitIdle(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	dc.store.Clear(dc.device.HALDevice())
	return nil
}

// Len returns the number of pushed primitives.
func (dc *DrawContext) Len() int {
	if dc.store == nil {
		return 0
	}
	return dc.store.Len()
}

// Size returns the target size in pixels.
func (dc *DrawContext) Size() (width, height uint32) {
	if dc.target == nil {
		return 0, 0
	}
	return dc.target.Size()
}

// Format returns the color format of the target.
func (dc *DrawContext) Format() gputypes.TextureFormat {
	if dc.target == nil {
		return gputypes.TextureFormatUndefined
	}
	return dc.target.Format()
}

// Headless reports whether the context renders off-screen.
func (dc *DrawContext) Headless() bool { return dc.headless != nil }

// Destroy waits for the GPU to go idle and releases every object the
// context owns, in reverse creation order. Safe to call more than once.
func (dc *DrawContext) Destroy() {
	if dc.destroyed {
		return
	}
	dc.destroyed = true

	var device hal.Device
	if dc.device != nil {
		device = dc.device.HALDevice()
		if err := dc.device.WaitIdle(); err != nil {
			Logger().Warn("vgfx: wait idle before destroy", "err", err)
		}
		dc.freeInflight()
	}
	if dc.store != nil {
		dc.store.Destroy(device)
		dc.store = nil
	}
	if dc.registry != nil {
		dc.registry.Destroy()
		dc.registry = nil
	}
	if dc.projection != nil {
		device.DestroyBuffer(dc.projection)
		dc.projection = nil
	}
	if dc.target != nil {
		dc.target.Destroy()
		dc.target, dc.headless = nil, nil
	}
	if dc.device != nil {
		dc.device.Destroy()
	}
	if dc.instance != nil {
		dc.instance.Destroy()
		dc.instance = nil
	}
}

// Close implements io.Closer. It calls Destroy and always returns nil.
func (dc *DrawContext) Close() error {
	dc.Destroy()
	return nil
}

// Device returns the HAL device as a gpucontext.Device.
func (dc *DrawContext) Device() gpucontext.Device { return dc.device.Device() }

// Queue returns the HAL queue as a gpucontext.Queue.
func (dc *DrawContext) Queue() gpucontext.Queue { return dc.device.Queue() }

// Adapter returns the HAL adapter as a gpucontext.Adapter.
func (dc *DrawContext) Adapter() gpucontext.Adapter { return dc.device.Adapter() }

// SurfaceFormat returns the target color format.
func (dc *DrawContext) SurfaceFormat() gputypes.TextureFormat { return dc.device.SurfaceFormat() }

// AdapterInfo returns the adapter name and type.
func (dc *DrawContext) AdapterInfo() gpucontext.AdapterInfo { return dc.device.AdapterInfo() }
