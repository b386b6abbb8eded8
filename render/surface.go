// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SurfaceTarget renders into a window surface and presents each frame.
type SurfaceTarget struct {
	device     hal.Device
	surface    hal.Surface
	config     hal.SurfaceConfiguration
	imageCount uint32
}

// NewSurfaceTarget negotiates format, present mode and extent for surface
// and configures it. prefer lists present modes in order of preference;
// FIFO is the fallback.
func NewSurfaceTarget(device hal.Device, adapter hal.Adapter, surface hal.Surface, width, height uint32, prefer ...gputypes.PresentMode) (*SurfaceTarget, error) {
	if width == 0 || height == 0 {
		return nil, ErrZeroSize
	}
	caps := adapter.SurfaceCapabilities(surface)
	if caps == nil {
		return nil, fmt.Errorf("%w: surface not supported by adapter", ErrNoAdapter)
	}
	format, err := ChooseFormat(caps.Formats)
	if err != nil {
		return nil, err
	}

	t := &SurfaceTarget{device: device, surface: surface}
	if er, ok := surface.(ExtentReporter); ok {
		l := er.SurfaceLimits()
		t.imageCount = ChooseImageCount(l.MinImageCount, l.MaxImageCount)
	}

	extent := t.clamp(Extent{Width: width, Height: height})
	t.config = hal.SurfaceConfiguration{
		Width:       extent.Width,
		Height:      extent.Height,
		Format:      format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: ChoosePresentMode(caps.PresentModes, prefer...),
		AlphaMode:   ChooseAlphaMode(caps.AlphaModes),
	}
	if err := surface.Configure(device, &t.config); err != nil {
		return nil, wrap("Surface.Configure", err)
	}

	slogger().Debug("render: surface configured",
		"format", format,
		"present_mode", t.config.PresentMode,
		"width", extent.Width,
		"height", extent.Height)
	return t, nil
}

func (t *SurfaceTarget) clamp(e Extent) Extent {
	if er, ok := t.surface.(ExtentReporter); ok {
		return ClampExtent(e, er.SurfaceLimits())
	}
	return e
}

// Size returns the configured surface size.
func (t *SurfaceTarget) Size() (uint32, uint32) { return t.config.Width, t.config.Height }

// Format returns the negotiated surface format.
func (t *SurfaceTarget) Format() gputypes.TextureFormat { return t.config.Format }

// PresentMode returns the negotiated present mode.
func (t *SurfaceTarget) PresentMode() gputypes.PresentMode { return t.config.PresentMode }

// ImageCount returns the swapchain image count requested from surfaces
// that report limits, or 0 when the backend decides.
func (t *SurfaceTarget) ImageCount() uint32 { return t.imageCount }

// Resize reconfigures the surface. Sizes that clamp to the current extent
// report no change. On failure the previous configuration is kept.
func (t *SurfaceTarget) Resize(width, height uint32) (bool, error) {
	if width == 0 || height == 0 {
		return false, nil
	}
	extent := t.clamp(Extent{Width: width, Height: height})
	if extent.Width == t.config.Width && extent.Height == t.config.Height {
		return false, nil
	}
	cfg := t.config
	cfg.Width, cfg.Height = extent.Width, extent.Height
	if err := t.surface.Configure(t.device, &cfg); err != nil {
		return false, wrap("Surface.Configure", err)
	}
	t.config = cfg
	slogger().Debug("render: surface resized", "width", cfg.Width, "height", cfg.Height)
	return true, nil
}

// Output acquires the next swapchain image and a view onto it.
func (t *SurfaceTarget) Output() (*Output, error) {
	acquired, err := t.surface.AcquireTexture(nil)
	if err != nil {
		return nil, wrap("AcquireTexture", err)
	}
	if acquired.Suboptimal {
		slogger().Debug("render: suboptimal surface frame")
	}

	view, err := t.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           "vgfx_surface_view",
		Format:          t.config.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		t.surface.DiscardTexture(acquired.Texture)
		return nil, wrap("CreateTextureView", err)
	}
	return &Output{
		View:       view,
		Texture:    acquired.Texture,
		Suboptimal: acquired.Suboptimal,
		ownsView:   true,
	}, nil
}

// Present queues the frame for display and releases its view.
func (t *SurfaceTarget) Present(queue hal.Queue, out *Output) error {
	if !out.Presentable() {
		return nil
	}
	err := queue.Present(t.surface, out.Texture, nil)
	t.releaseView(out)
	return wrap("Present", err)
}

// Discard returns an unpresented frame to the swapchain.
func (t *SurfaceTarget) Discard(out *Output) {
	if !out.Presentable() {
		return
	}
	t.surface.DiscardTexture(out.Texture)
	t.releaseView(out)
}

func (t *SurfaceTarget) releaseView(out *Output) {
	if out.ownsView && out.View != nil {
		t.device.DestroyTextureView(out.View)
		out.View = nil
	}
}

// Projection returns the projection for the configured size.
func (t *SurfaceTarget) Projection() Projection {
	return NewProjection(t.config.Width, t.config.Height)
}

// Destroy unconfigures and releases the surface.
func (t *SurfaceTarget) Destroy() {
	if t.surface == nil {
		return
	}
	t.surface.Unconfigure(t.device)
	t.surface.Destroy()
	t.surface = nil
}
