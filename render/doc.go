// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render negotiates GPU devices and owns the places frames are
// drawn to.
//
// # Key Principle
//
// A frame always lands on a [Target]. The engine never cares whether the
// target is a window surface or an off-screen texture: both expose the same
// resize, frame acquisition, format and projection queries.
//
// # Core Types
//
//   - Instance: a HAL instance bound to one backend, chosen through a
//     gpucontext registry
//   - Device: the negotiated adapter, device and queue; implements
//     gpucontext.DeviceProvider
//   - Target: where frames go (HeadlessTarget, SurfaceTarget)
//   - Projection: pixel space to normalized device coordinates
//   - WindowHandle: tagged platform window handles from the windowing layer
//
// # Coordinate Convention
//
// Pixel space has its origin at the top-left corner with Y growing down.
// Normalized device coordinates have Y growing up. [Projection] maps the
// former to the latter identically for every target variant:
//
//	ndc = (p + Translate) * Scale
//	Scale     = (2/W, -2/H)
//	Translate = (-W/2, -H/2)
//
// # Errors
//
// Frame acquisition failures fall into two classes. [IsRecoverable]
// reports surfaces that are outdated or lost: resize and try the next
// frame. Everything else is fatal ([IsFatal]) and the render loop should
// stop. Construction failures wrap the native error in [*Error] together
// with the failing operation's name.
//
// # Usage
//
//	inst, err := render.NewInstance(render.InstanceConfig{})
//	if err != nil {
//	    return err
//	}
//	dev, err := inst.OpenDevice(nil, render.AdapterPreference{})
//	if err != nil {
//	    return err
//	}
//	target, err := render.NewHeadlessTarget(dev.HALDevice(), 800, 600)
package render
