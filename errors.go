package vgfx

import (
	"errors"

	"github.com/gogpu/vgfx/render"
)

// Validation errors returned by Push.
var (
	// ErrNegativeSize is returned when a primitive dimension is below zero.
	ErrNegativeSize = errors.New("vgfx: size dimension is negative")

	// ErrSizeExceedsMax is returned when a primitive dimension is above
	// MaxDimension.
	ErrSizeExceedsMax = errors.New("vgfx: size dimension exceeds maximum")

	// ErrInvalidSize is returned when a primitive dimension is NaN.
	ErrInvalidSize = errors.New("vgfx: size dimension is not a number")
)

var (
	// ErrDestroyed is returned by every DrawContext method after Destroy.
	ErrDestroyed = errors.New("vgfx: draw context destroyed")

	// ErrNotHeadless is returned by Readback on a surface context.
	ErrNotHeadless = errors.New("vgfx: readback requires a headless context")

	// ErrUnknownPrimitive is returned by Push for a primitive with no GPU
	// state.
	ErrUnknownPrimitive = errors.New("vgfx: unknown primitive")
)

// Errors from the render package, re-exported for callers that only
// import vgfx.
var (
	ErrNoAdapter           = render.ErrNoAdapter
	ErrNoDevice            = render.ErrNoDevice
	ErrNoBackend           = render.ErrNoBackend
	ErrUnsupportedPlatform = render.ErrUnsupportedPlatform
	ErrNoSurfaceFormat     = render.ErrNoSurfaceFormat
	ErrZeroSize            = render.ErrZeroSize
	ErrSurfaceOutdated     = render.ErrSurfaceOutdated
	ErrSurfaceLost         = render.ErrSurfaceLost
	ErrOutOfMemory         = render.ErrOutOfMemory
)

// IsRecoverable reports whether a Draw error can be handled by resizing
// and drawing the next frame.
func IsRecoverable(err error) bool { return render.IsRecoverable(err) }

// IsFatal reports whether a Draw error must stop the render loop.
func IsFatal(err error) bool { return render.IsFatal(err) }
