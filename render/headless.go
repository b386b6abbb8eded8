// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// HeadlessFormat is the color format of every headless target.
const HeadlessFormat = gputypes.TextureFormatRGBA8UnormSrgb

// headlessUsage lets the texture be rendered to and read back.
const headlessUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc

// HeadlessTarget renders into an off-screen color texture.
//
// The texture is recreated whenever the size changes; its contents are not
// preserved across a resize.
type HeadlessTarget struct {
	device  hal.Device
	texture hal.Texture
	view    hal.TextureView
	width   uint32
	height  uint32
}

// NewHeadlessTarget creates an off-screen target of the given size.
func NewHeadlessTarget(device hal.Device, width, height uint32) (*HeadlessTarget, error) {
	if width == 0 || height == 0 {
		return nil, ErrZeroSize
	}
	t := &HeadlessTarget{device: device}
	tex, view, err := t.createTexture(width, height)
	if err != nil {
		return nil, err
	}
	t.texture, t.view = tex, view
	t.width, t.height = width, height
	return t, nil
}

func (t *HeadlessTarget) createTexture(width, height uint32) (hal.Texture, hal.TextureView, error) {
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "vgfx_headless_color",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        HeadlessFormat,
		Usage:         headlessUsage,
	})
	if err != nil {
		return nil, nil, wrap("CreateTexture", err)
	}

	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "vgfx_headless_color_view",
		Format:          HeadlessFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		t.device.DestroyTexture(tex)
		return nil, nil, wrap("CreateTextureView", err)
	}
	return tex, view, nil
}

// Size returns the texture size in pixels.
func (t *HeadlessTarget) Size() (uint32, uint32) { return t.width, t.height }

// Format returns HeadlessFormat.
func (t *HeadlessTarget) Format() gputypes.TextureFormat { return HeadlessFormat }

// Texture returns the backing color texture.
func (t *HeadlessTarget) Texture() hal.Texture { return t.texture }

// Resize recreates the backing texture at the new size. The old texture
// stays in place if the new one cannot be created or the device cannot be
// drained, since submitted frames may still write to it.
func (t *HeadlessTarget) Resize(width, height uint32) (bool, error) {
	if width == 0 || height == 0 || (width == t.width && height == t.height) {
		return false, nil
	}
	tex, view, err := t.createTexture(width, height)
	if err != nil {
		return false, err
	}
	if err := t.device.WaitIdle(); err != nil {
		t.device.DestroyTextureView(view)
		t.device.DestroyTexture(tex)
		return false, wrap("WaitIdle", err)
	}
	t.destroyTexture()
	t.texture, t.view = tex, view
	t.width, t.height = width, height
	slogger().Debug("render: headless target resized", "width", width, "height", height)
	return true, nil
}

// Output returns the texture view. Headless acquisition cannot fail.
func (t *HeadlessTarget) Output() (*Output, error) {
	return &Output{View: t.view}, nil
}

// Present does nothing; headless frames stay in the texture.
func (t *HeadlessTarget) Present(hal.Queue, *Output) error { return nil }

// Discard does nothing.
func (t *HeadlessTarget) Discard(*Output) {}

// Projection returns the projection for the current size.
func (t *HeadlessTarget) Projection() Projection { return NewProjection(t.width, t.height) }

func (t *HeadlessTarget) destroyTexture() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

// Destroy releases the texture and its view.
func (t *HeadlessTarget) Destroy() { t.destroyTexture() }
