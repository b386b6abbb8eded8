// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

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

// countingDevice records texture and view lifetimes on top of noop.
type countingDevice struct {
	noop.Device
	textures     int
	views        int
	textureErr   error
	lastTexture  *hal.TextureDescriptor
	destroyedTex int
	waitIdleErr  error
	calls        []string // WaitIdle and DestroyTexture, in order
}

func (d *countingDevice) WaitIdle() error {
	d.calls = append(d.calls, "WaitIdle")
	if d.waitIdleErr != nil {
		return d.waitIdleErr
	}
	return d.Device.WaitIdle()
}

func (d *countingDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.textureErr != nil {
		return nil, d.textureErr
	}
	d.textures++
	cp := *desc
	d.lastTexture = &cp
	return d.Device.CreateTexture(desc)
}

func (d *countingDevice) DestroyTexture(tex hal.Texture) {
	d.textures--
	d.destroyedTex++
	d.calls = append(d.calls, "DestroyTexture")
	d.Device.DestroyTexture(tex)
}

func (d *countingDevice) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	d.views++
	return d.Device.CreateTextureView(tex, desc)
}

func (d *countingDevice) DestroyTextureView(v hal.TextureView) {
	d.views--
	d.Device.DestroyTextureView(v)
}

// fakeSurface wraps a noop surface with configurable failures.
type fakeSurface struct {
	noop.Surface
	configs      []hal.SurfaceConfiguration
	configureErr error
	acquireErr   error
	suboptimal   bool
	discarded    int
	destroyed    bool
}

func (s *fakeSurface) Configure(d hal.Device, cfg *hal.SurfaceConfiguration) error {
	if s.configureErr != nil {
		return s.configureErr
	}
	s.configs = append(s.configs, *cfg)
	return s.Surface.Configure(d, cfg)
}

func (s *fakeSurface) AcquireTexture(f hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	acq, err := s.Surface.AcquireTexture(f)
	if err != nil {
		return nil, err
	}
	acq.Suboptimal = s.suboptimal
	return acq, nil
}

func (s *fakeSurface) DiscardTexture(tex hal.SurfaceTexture) {
	s.discarded++
	s.Surface.DiscardTexture(tex)
}

func (s *fakeSurface) Destroy() { s.destroyed = true }

// limitedSurface additionally reports swapchain limits.
type limitedSurface struct {
	*fakeSurface
	limits SurfaceLimits
}

func (s limitedSurface) SurfaceLimits() SurfaceLimits { return s.limits }

// capsAdapter overrides the surface capabilities of a noop adapter.
type capsAdapter struct {
	noop.Adapter
	caps *hal.SurfaceCapabilities
}

func (a *capsAdapter) SurfaceCapabilities(hal.Surface) *hal.SurfaceCapabilities { return a.caps }

// presentQueue counts presented frames.
type presentQueue struct {
	noop.Queue
	presented int
	err       error
}

func (q *presentQueue) Present(s hal.Surface, tex hal.SurfaceTexture, damage []image.Rectangle) error {
	if q.err != nil {
		return q.err
	}
	q.presented++
	return q.Queue.Present(s, tex, damage)
}

// srgbCaps is a typical desktop surface offer.
func srgbCaps() *hal.SurfaceCapabilities {
	return &hal.SurfaceCapabilities{
		Formats: []gputypes.TextureFormat{
			gputypes.TextureFormatBGRA8Unorm,
			gputypes.TextureFormatBGRA8UnormSrgb,
		},
		PresentModes: []gputypes.PresentMode{gputypes.PresentModeFifo, gputypes.PresentModeMailbox},
		AlphaModes:   []gputypes.CompositeAlphaMode{gputypes.CompositeAlphaModeOpaque},
	}
}
