// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Target defines where frames are drawn.
//
// There are two implementations:
//   - SurfaceTarget: a presentable surface bound to a platform window
//   - HeadlessTarget: an off-screen color texture
//
// The variant is fixed when the target is created.
type Target interface {
	// Size returns the current target size in pixels.
	Size() (width, height uint32)

	// Format returns the color format frames are rendered in.
	Format() gputypes.TextureFormat

	// Resize changes the target size. It reports false and does nothing
	// when either dimension is zero or the size is unchanged.
	Resize(width, height uint32) (bool, error)

	// Output acquires the next frame. Errors satisfy IsRecoverable or
	// IsFatal.
	Output() (*Output, error)

	// Present hands a finished frame to the display. Headless targets
	// have nothing to present.
	Present(queue hal.Queue, out *Output) error

	// Discard releases a frame that will not be presented.
	Discard(out *Output)

	// Projection returns the pixel to NDC mapping for the current size.
	Projection() Projection

	// Destroy releases every GPU object the target owns.
	Destroy()
}

// Output is one acquired frame.
type Output struct {
	// View is the color attachment to render into.
	View hal.TextureView

	// Texture is the presentable surface texture, or nil for headless
	// targets.
	Texture hal.SurfaceTexture

	// Suboptimal is set when the surface still works but should be
	// reconfigured at a convenient time.
	Suboptimal bool

	// ownsView is true when View was created for this frame only.
	ownsView bool
}

// Presentable reports whether the frame must be presented.
func (o *Output) Presentable() bool { return o != nil && o.Texture != nil }

var (
	_ Target = (*HeadlessTarget)(nil)
	_ Target = (*SurfaceTarget)(nil)
)
