// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func TestBackendName(t *testing.T) {
	tests := []struct {
		backend gputypes.Backend
		want    string
	}{
		{gputypes.BackendVulkan, "vulkan"},
		{gputypes.BackendMetal, "metal"},
		{gputypes.BackendEmpty, "empty"},
	}
	for _, tt := range tests {
		if got := BackendName(tt.backend); got != tt.want {
			t.Errorf("BackendName(%v) = %q, want %q", tt.backend, got, tt.want)
		}
	}
}

func TestBackendsRegistry(t *testing.T) {
	// Importing hal/noop registers it as the empty backend.
	reg := Backends()
	if !reg.Has("empty") {
		t.Fatalf("empty backend not registered, available: %v", reg.Available())
	}
	if reg.Get("empty") == nil {
		t.Error("Get(empty) returned nil")
	}
	if reg.Get("no-such-backend") != nil {
		t.Error("Get of unknown backend returned a value")
	}
}

func TestNewInstanceByName(t *testing.T) {
	inst, err := NewInstance(InstanceConfig{BackendName: "Empty"})
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	defer inst.Destroy()
	if inst.Backend() != gputypes.BackendEmpty {
		t.Errorf("Backend() = %v, want Empty", inst.Backend())
	}
}

func TestNewInstanceUnknownBackend(t *testing.T) {
	_, err := NewInstance(InstanceConfig{BackendName: "no-such-backend"})
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("err = %v, want ErrNoBackend", err)
	}
}

func TestOpenDevice(t *testing.T) {
	inst, err := NewInstance(InstanceConfig{Backend: noop.API{}})
	if err != nil {
		t.Fatal(err)
	}
	defer inst.Destroy()

	dev, err := inst.OpenDevice(nil, AdapterPreference{})
	if err != nil {
		t.Fatalf("OpenDevice: %v", err)
	}

	if dev.HALDevice() == nil || dev.HALQueue() == nil || dev.HALAdapter() == nil {
		t.Fatal("device, queue and adapter must be set")
	}
	if dev.Info().Name != "Noop Adapter" {
		t.Errorf("Info().Name = %q", dev.Info().Name)
	}
	if dev.Limits().MaxTextureDimension2D == 0 {
		t.Error("Limits() not populated from adapter capabilities")
	}

	var provider gpucontext.DeviceProvider = dev
	info := provider.AdapterInfo()
	if info.Name != "Noop Adapter" || info.Type != gpucontext.AdapterTypeUnknown {
		t.Errorf("AdapterInfo() = %+v", info)
	}
	if provider.SurfaceFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("headless SurfaceFormat() = %v, want Undefined", provider.SurfaceFormat())
	}
	dev.SetSurfaceFormat(gputypes.TextureFormatBGRA8UnormSrgb)
	if provider.SurfaceFormat() != gputypes.TextureFormatBGRA8UnormSrgb {
		t.Errorf("SurfaceFormat() not updated")
	}

	if err := dev.WaitIdle(); err != nil {
		t.Errorf("WaitIdle: %v", err)
	}
	dev.Destroy()
	dev.Destroy()
	if dev.HALDevice() != nil {
		t.Error("device still set after Destroy")
	}
	if err := dev.WaitIdle(); err != nil {
		t.Errorf("WaitIdle after Destroy: %v", err)
	}
}

// failingAdapter cannot open a device.
type failingAdapter struct {
	noop.Adapter
}

func (a *failingAdapter) Open(gputypes.Features, gputypes.Limits) (hal.OpenDevice, error) {
	return hal.OpenDevice{}, hal.ErrDeviceLost
}

// failingInstance exposes a single adapter that fails to open.
type failingInstance struct {
	noop.Instance
}

func (i *failingInstance) EnumerateAdapters(hal.Surface) []hal.ExposedAdapter {
	return []hal.ExposedAdapter{exposed("flaky", gputypes.DeviceTypeDiscreteGPU, &failingAdapter{})}
}

func TestOpenDeviceFailure(t *testing.T) {
	inst := &Instance{backend: noop.API{}, inst: &failingInstance{}}
	_, err := inst.OpenDevice(nil, AdapterPreference{})
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("err = %v, want ErrNoDevice", err)
	}
	if !errors.Is(err, hal.ErrDeviceLost) {
		t.Errorf("err = %v, want cause hal.ErrDeviceLost", err)
	}
}

func TestCreateSurfaceUnsupportedHandle(t *testing.T) {
	inst, err := NewInstance(InstanceConfig{Backend: noop.API{}})
	if err != nil {
		t.Fatal(err)
	}
	defer inst.Destroy()

	if _, err := inst.CreateSurface(WebCanvas{ID: "c"}); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("err = %v, want ErrUnsupportedPlatform", err)
	}
}

func TestAdapterTypeMapping(t *testing.T) {
	tests := []struct {
		in   gputypes.DeviceType
		want gpucontext.AdapterType
	}{
		{gputypes.DeviceTypeDiscreteGPU, gpucontext.AdapterTypeDiscrete},
		{gputypes.DeviceTypeIntegratedGPU, gpucontext.AdapterTypeIntegrated},
		{gputypes.DeviceTypeCPU, gpucontext.AdapterTypeSoftware},
		{gputypes.DeviceTypeVirtualGPU, gpucontext.AdapterTypeUnknown},
		{gputypes.DeviceTypeOther, gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		if got := adapterType(tt.in); got != tt.want {
			t.Errorf("adapterType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	if wrap("Op", nil) != nil {
		t.Error("wrap(nil) must be nil")
	}
	err := wrap("Surface.Configure", hal.ErrSurfaceOutdated)
	if err.Error() != "render: Surface.Configure: hal: surface outdated" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrSurfaceOutdated) || !IsRecoverable(err) {
		t.Error("wrapped outdated error must stay recoverable")
	}
	if IsFatal(nil) {
		t.Error("nil is not fatal")
	}
}
