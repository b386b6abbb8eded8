package vgfx

import (
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// callLog records GPU calls in the order the context makes them.
type callLog struct {
	calls []string
}

func (l *callLog) add(call string) { l.calls = append(l.calls, call) }

// since returns the calls made after the first mark calls.
func (l *callLog) since(mark int) []string { return l.calls[mark:] }

func count(calls []string, call string) int {
	n := 0
	for _, c := range calls {
		if c == call {
			n++
		}
	}
	return n
}

// recordingAPI is the noop backend with every device and queue wrapped
// to log the calls that matter for resource lifetimes.
type recordingAPI struct {
	noop.API
	log callLog

	// surface replaces the noop surface when set.
	surface hal.Surface

	device *recordingDevice
	queue  *recordingQueue
}

func (a *recordingAPI) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	inst, err := a.API.CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &recordingInstance{Instance: inst.(*noop.Instance), api: a}, nil
}

type recordingInstance struct {
	*noop.Instance
	api *recordingAPI
}

func (i *recordingInstance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	if i.api.surface != nil {
		return i.api.surface, nil
	}
	return i.Instance.CreateSurface(display, window)
}

func (i *recordingInstance) EnumerateAdapters(hint hal.Surface) []hal.ExposedAdapter {
	adapters := i.Instance.EnumerateAdapters(hint)
	for k := range adapters {
		adapters[k].Adapter = &recordingAdapter{Adapter: adapters[k].Adapter.(*noop.Adapter), api: i.api}
	}
	return adapters
}

type recordingAdapter struct {
	*noop.Adapter
	api *recordingAPI
}

func (a *recordingAdapter) Open(features gputypes.Features, limits gputypes.Limits) (hal.OpenDevice, error) {
	open, err := a.Adapter.Open(features, limits)
	if err != nil {
		return open, err
	}
	a.api.device = &recordingDevice{Device: open.Device.(*noop.Device), log: &a.api.log}
	a.api.queue = &recordingQueue{Queue: open.Queue.(*noop.Queue), log: &a.api.log}
	open.Device, open.Queue = a.api.device, a.api.queue
	return open, nil
}

type recordingDevice struct {
	*noop.Device
	log *callLog
}

func (d *recordingDevice) FreeCommandBuffer(cmd hal.CommandBuffer) {
	d.log.add("FreeCommandBuffer")
	d.Device.FreeCommandBuffer(cmd)
}

func (d *recordingDevice) WaitIdle() error {
	d.log.add("WaitIdle")
	return d.Device.WaitIdle()
}

func (d *recordingDevice) DestroyBuffer(buf hal.Buffer) {
	d.log.add("DestroyBuffer")
	d.Device.DestroyBuffer(buf)
}

func (d *recordingDevice) DestroyBindGroup(bg hal.BindGroup) {
	d.log.add("DestroyBindGroup")
	d.Device.DestroyBindGroup(bg)
}

func (d *recordingDevice) DestroyTexture(tex hal.Texture) {
	d.log.add("DestroyTexture")
	d.Device.DestroyTexture(tex)
}

// recordingQueue reports no completed submissions while stalled, like a
// GPU that is still busy.
type recordingQueue struct {
	*noop.Queue
	log     *callLog
	stalled bool
}

func (q *recordingQueue) Submit(cmds []hal.CommandBuffer) (uint64, error) {
	q.log.add("Submit")
	return q.Queue.Submit(cmds)
}

func (q *recordingQueue) PollCompleted() uint64 {
	q.log.add("PollCompleted")
	if q.stalled {
		return 0
	}
	return q.Queue.PollCompleted()
}

// scriptedSurface fails frame acquisition with each queued error in turn.
type scriptedSurface struct {
	*noop.Surface
	acquireErrs []error
}

func (s *scriptedSurface) AcquireTexture(f hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if len(s.acquireErrs) > 0 {
		err := s.acquireErrs[0]
		s.acquireErrs = slices.Delete(s.acquireErrs, 0, 1)
		return nil, err
	}
	return s.Surface.AcquireTexture(f)
}
