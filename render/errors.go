// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"

	"github.com/gogpu/wgpu/hal"
)

// Negotiation errors. These are terminal for the instance that produced
// them.
var (
	// ErrNoAdapter is returned when no adapter offers graphics, compute and
	// (when a surface is involved) presentation support.
	ErrNoAdapter = errors.New("render: no compatible adapter")

	// ErrNoDevice is returned when the selected adapter fails to open a
	// device and queue.
	ErrNoDevice = errors.New("render: no compatible device or queue")

	// ErrNoBackend is returned when no HAL backend is registered.
	ErrNoBackend = errors.New("render: no GPU backend registered")

	// ErrUnsupportedPlatform is returned for window handle variants the
	// running platform cannot present to.
	ErrUnsupportedPlatform = errors.New("render: unsupported platform window handle")

	// ErrNoSurfaceFormat is returned when a surface advertises no formats.
	ErrNoSurfaceFormat = errors.New("render: surface reports no formats")

	// ErrZeroSize is returned when a target is created with a zero dimension.
	ErrZeroSize = errors.New("render: target width and height must be non-zero")
)

// Frame errors. The first two are recoverable; ErrOutOfMemory is fatal.
var (
	ErrSurfaceOutdated = hal.ErrSurfaceOutdated
	ErrSurfaceLost     = hal.ErrSurfaceLost
	ErrOutOfMemory     = hal.ErrDeviceOutOfMemory
)

// Error records a failed GPU operation and the native error behind it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "render: " + e.Op + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// wrap returns nil for a nil err, otherwise an *Error naming op.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// IsRecoverable reports whether err is a frame error the caller can
// recover from by resizing the target and retrying on the next frame.
func IsRecoverable(err error) bool {
	return errors.Is(err, hal.ErrSurfaceOutdated) ||
		errors.Is(err, hal.ErrSurfaceLost) ||
		errors.Is(err, hal.ErrTimeout) ||
		errors.Is(err, hal.ErrNotReady)
}

// IsFatal reports whether err must stop the render loop.
func IsFatal(err error) bool {
	return err != nil && !IsRecoverable(err)
}
