// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment texture-to-buffer copies require.
const copyPitchAlignment = 256

// alignedRowPitch returns the padded bytes per row for a copy of width
// RGBA8 pixels.
func alignedRowPitch(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// Readback copies the current texture contents into a new image.
// It blocks until the GPU has finished all submitted work.
func (t *HeadlessTarget) Readback(queue hal.Queue) (*image.RGBA, error) {
	w, h := t.width, t.height
	pitch := alignedRowPitch(w)
	size := uint64(pitch) * uint64(h)

	staging, err := t.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "vgfx_readback_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, wrap("CreateBuffer", err)
	}
	defer t.device.DestroyBuffer(staging)

	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "vgfx_readback"})
	if err != nil {
		return nil, wrap("CreateCommandEncoder", err)
	}
	if err := encoder.BeginEncoding("vgfx_readback"); err != nil {
		return nil, wrap("BeginEncoding", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.texture, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: pitch, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.texture, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return nil, wrap("EndEncoding", err)
	}
	defer t.device.FreeCommandBuffer(cmd)

	if _, err := queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return nil, wrap("Submit", err)
	}
	if err := t.device.WaitIdle(); err != nil {
		return nil, wrap("WaitIdle", err)
	}

	mapping, err := t.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, wrap("MapBuffer", err)
	}
	defer func() {
		if err := t.device.UnmapBuffer(staging); err != nil {
			slogger().Warn("render: unmap readback buffer", "err", err)
		}
	}()

	//nolint:gosec // G103: mapping.Ptr is valid for size bytes until UnmapBuffer
	src := unsafe.Slice((*byte)(mapping.Ptr), size)
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	rowBytes := int(w) * 4
	for y := range int(h) {
		copy(img.Pix[y*img.Stride:y*img.Stride+rowBytes], src[y*int(pitch):])
	}
	return img, nil
}
