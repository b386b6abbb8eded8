//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

var errInjected = errors.New("injected failure")

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// fakeObject is a distinguishable GPU object.
type fakeObject struct {
	label string
}

func (*fakeObject) Destroy() {}

// Object categories tracked by trackingDevice.
const (
	objBuffer          = "buffer"
	objBindGroup       = "bind_group"
	objBindGroupLayout = "bind_group_layout"
	objPipelineLayout  = "pipeline_layout"
	objShader          = "shader"
	objPipeline        = "pipeline"
)

// trackingDevice counts live objects per category and can fail the n-th
// creation of one category.
type trackingDevice struct {
	noop.Device

	created map[string]int
	live    map[string]int

	failOn    string
	failAfter int

	pipelines []hal.RenderPipelineDescriptor
	shaders   []hal.ShaderModuleDescriptor
}

func newTrackingDevice() *trackingDevice {
	return &trackingDevice{created: map[string]int{}, live: map[string]int{}}
}

func (d *trackingDevice) track(kind string) error {
	if d.failOn == kind && d.created[kind] == d.failAfter {
		return errInjected
	}
	d.created[kind]++
	d.live[kind]++
	return nil
}

func (d *trackingDevice) release(kind string) { d.live[kind]-- }

// liveTotal returns the number of objects not yet destroyed.
func (d *trackingDevice) liveTotal() int {
	n := 0
	for _, v := range d.live {
		n += v
	}
	return n
}

func (d *trackingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if err := d.track(objBuffer); err != nil {
		return nil, err
	}
	return d.Device.CreateBuffer(desc)
}

func (d *trackingDevice) DestroyBuffer(hal.Buffer) { d.release(objBuffer) }

func (d *trackingDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	if err := d.track(objBindGroup); err != nil {
		return nil, err
	}
	return &fakeObject{label: desc.Label}, nil
}

func (d *trackingDevice) DestroyBindGroup(hal.BindGroup) { d.release(objBindGroup) }

func (d *trackingDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	if err := d.track(objBindGroupLayout); err != nil {
		return nil, err
	}
	return &fakeObject{label: desc.Label}, nil
}

func (d *trackingDevice) DestroyBindGroupLayout(hal.BindGroupLayout) { d.release(objBindGroupLayout) }

func (d *trackingDevice) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	if err := d.track(objPipelineLayout); err != nil {
		return nil, err
	}
	return &fakeObject{label: desc.Label}, nil
}

func (d *trackingDevice) DestroyPipelineLayout(hal.PipelineLayout) { d.release(objPipelineLayout) }

func (d *trackingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if err := d.track(objShader); err != nil {
		return nil, err
	}
	d.shaders = append(d.shaders, *desc)
	return &fakeObject{label: desc.Label}, nil
}

func (d *trackingDevice) DestroyShaderModule(hal.ShaderModule) { d.release(objShader) }

func (d *trackingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if err := d.track(objPipeline); err != nil {
		return nil, err
	}
	d.pipelines = append(d.pipelines, *desc)
	return &fakeObject{label: desc.Label}, nil
}

func (d *trackingDevice) DestroyRenderPipeline(hal.RenderPipeline) { d.release(objPipeline) }

// recordingPass captures the commands recorded into a render pass.
type recordingPass struct {
	noop.RenderPassEncoder

	calls     []string
	pipelines []hal.RenderPipeline
	draws     int
}

func (p *recordingPass) SetPipeline(pl hal.RenderPipeline) {
	p.calls = append(p.calls, "pipeline")
	p.pipelines = append(p.pipelines, pl)
}

func (p *recordingPass) SetBindGroup(index uint32, _ hal.BindGroup, _ []uint32) {
	if index == 0 {
		p.calls = append(p.calls, "group0")
	} else {
		p.calls = append(p.calls, "group1")
	}
}

func (p *recordingPass) SetVertexBuffer(uint32, hal.Buffer, uint64) {
	p.calls = append(p.calls, "vertex")
}

func (p *recordingPass) SetIndexBuffer(_ hal.Buffer, format gputypes.IndexFormat, _ uint64) {
	if format != gputypes.IndexFormatUint16 {
		p.calls = append(p.calls, "index?")
		return
	}
	p.calls = append(p.calls, "index")
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, _ uint32, _ int32, _ uint32) {
	if indexCount == 6 && instanceCount == 1 {
		p.calls = append(p.calls, "draw")
	} else {
		p.calls = append(p.calls, "draw?")
	}
	p.draws++
}

// newTestRegistry builds a registry on a tracking device.
func newTestRegistry(t *testing.T) (*Registry, *trackingDevice) {
	t.Helper()
	dev := newTrackingDevice()
	reg, err := NewRegistry(dev, gputypes.TextureFormatRGBA8UnormSrgb, EmbeddedLibrary())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg, dev
}

// projectionBuffer creates the shared projection uniform on dev.
func projectionBuffer(t *testing.T, dev hal.Device) hal.Buffer {
	t.Helper()
	buf, err := dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "projection",
		Size:  ProjectionSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("create projection buffer: %v", err)
	}
	return buf
}
