// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle is the device contract shared with the gogpu ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// backendPriority orders registered backends when none is forced.
var backendPriority = []string{"vulkan", "metal", "dx12", "gl", "empty"}

// BackendName is the registry name of a backend variant.
func BackendName(b gputypes.Backend) string {
	return strings.ToLower(b.String())
}

// Backends returns a registry of every HAL backend linked into the binary,
// ordered by platform preference.
func Backends() *gpucontext.Registry[hal.Backend] {
	reg := gpucontext.NewRegistry[hal.Backend](gpucontext.WithPriority(backendPriority...))
	for _, variant := range hal.AvailableBackends() {
		b, ok := hal.GetBackend(variant)
		if !ok {
			continue
		}
		reg.Register(BackendName(variant), func() hal.Backend { return b })
	}
	return reg
}

// InstanceConfig selects and configures the backend.
type InstanceConfig struct {
	// Backend forces a backend implementation. It takes precedence over
	// BackendName.
	Backend hal.Backend

	// BackendName picks a registered backend by name ("vulkan", "metal", ...).
	// Empty selects the highest-priority registered backend.
	BackendName string

	// Flags enables debug or validation layers.
	Flags gputypes.InstanceFlags
}

// Instance is a HAL instance bound to one backend.
type Instance struct {
	backend hal.Backend
	inst    hal.Instance
}

// NewInstance resolves the backend and creates a HAL instance.
func NewInstance(cfg InstanceConfig) (*Instance, error) {
	backend := cfg.Backend
	if backend == nil {
		reg := Backends()
		if cfg.BackendName != "" {
			backend = reg.Get(strings.ToLower(cfg.BackendName))
			if backend == nil {
				return nil, fmt.Errorf("%w: %q (available: %v)", ErrNoBackend, cfg.BackendName, reg.Available())
			}
		} else {
			backend = reg.Best()
		}
	}
	if backend == nil {
		return nil, ErrNoBackend
	}

	inst, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsAll,
		Flags:    cfg.Flags,
	})
	if err != nil {
		return nil, wrap("CreateInstance", err)
	}
	slogger().Debug("render: instance created", "backend", backend.Variant())
	return &Instance{backend: backend, inst: inst}, nil
}

// Backend returns the backend variant the instance runs on.
func (i *Instance) Backend() gputypes.Backend { return i.backend.Variant() }

// HAL returns the underlying HAL instance.
func (i *Instance) HAL() hal.Instance { return i.inst }

// CreateSurface creates a presentation surface for a platform window.
func (i *Instance) CreateSurface(win WindowHandle) (hal.Surface, error) {
	display, window, err := RawHandles(win)
	if err != nil {
		return nil, err
	}
	surface, err := i.inst.CreateSurface(display, window)
	if err != nil {
		return nil, wrap("CreateSurface", err)
	}
	return surface, nil
}

// OpenDevice selects an adapter able to render, dispatch compute and
// present to surface (nil for headless use), then opens it.
func (i *Instance) OpenDevice(surface hal.Surface, pref AdapterPreference) (*Device, error) {
	exposed, err := SelectAdapter(i.inst.EnumerateAdapters(surface), surface, pref)
	if err != nil {
		return nil, err
	}

	open, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return nil, &Error{Op: "Adapter.Open", Err: fmt.Errorf("%w: %w", ErrNoDevice, err)}
	}
	if open.Device == nil || open.Queue == nil {
		if open.Device != nil {
			open.Device.Destroy()
		}
		return nil, ErrNoDevice
	}

	slogger().Info("render: adapter selected",
		"name", exposed.Info.Name,
		"type", exposed.Info.DeviceType,
		"backend", exposed.Info.Backend)

	return &Device{
		adapter: exposed.Adapter,
		device:  open.Device,
		queue:   open.Queue,
		info:    exposed.Info,
		caps:    exposed.Capabilities,
	}, nil
}

// Destroy releases the HAL instance. Devices and surfaces created from it
// must be destroyed first.
func (i *Instance) Destroy() {
	if i.inst != nil {
		i.inst.Destroy()
		i.inst = nil
	}
}

// Device is a negotiated adapter, device and queue.
// It implements gpucontext.DeviceProvider.
type Device struct {
	adapter hal.Adapter
	device  hal.Device
	queue   hal.Queue
	info    gputypes.AdapterInfo
	caps    hal.Capabilities
	format  gputypes.TextureFormat
}

// NewDevice wraps an already opened device, for hosts that own device
// creation themselves.
func NewDevice(adapter hal.Adapter, device hal.Device, queue hal.Queue, info gputypes.AdapterInfo) *Device {
	return &Device{adapter: adapter, device: device, queue: queue, info: info}
}

// HALDevice returns the HAL device.
func (d *Device) HALDevice() hal.Device { return d.device }

// HALQueue returns the HAL queue.
func (d *Device) HALQueue() hal.Queue { return d.queue }

// HALAdapter returns the HAL adapter the device was opened on.
func (d *Device) HALAdapter() hal.Adapter { return d.adapter }

// Info returns the full adapter description.
func (d *Device) Info() gputypes.AdapterInfo { return d.info }

// Limits returns the adapter limits.
func (d *Device) Limits() gputypes.Limits { return d.caps.Limits }

// SetSurfaceFormat records the color format of the target drawn to.
func (d *Device) SetSurfaceFormat(f gputypes.TextureFormat) { d.format = f }

// Device returns the HAL device as a gpucontext.Device.
func (d *Device) Device() gpucontext.Device { return d.device }

// Queue returns the HAL queue as a gpucontext.Queue.
func (d *Device) Queue() gpucontext.Queue { return d.queue }

// Adapter returns the HAL adapter as a gpucontext.Adapter.
func (d *Device) Adapter() gpucontext.Adapter { return d.adapter }

// SurfaceFormat returns the target color format.
func (d *Device) SurfaceFormat() gputypes.TextureFormat { return d.format }

// AdapterInfo summarizes the adapter for gpucontext consumers.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: d.info.Name, Type: adapterType(d.info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// WaitIdle blocks until the device has finished all submitted work.
func (d *Device) WaitIdle() error {
	if d.device == nil {
		return nil
	}
	return wrap("WaitIdle", d.device.WaitIdle())
}

// Destroy waits for the device to go idle and releases it.
// Safe to call more than once.
func (d *Device) Destroy() {
	if d.device == nil {
		return
	}
	if err := d.device.WaitIdle(); err != nil {
		slogger().Warn("render: wait idle before destroy", "err", err)
	}
	d.device.Destroy()
	d.device = nil
	d.queue = nil
}

var _ DeviceHandle = (*Device)(nil)
