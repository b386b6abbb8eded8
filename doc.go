// Package vgfx is a low-level 2D rendering engine drawing vector UI
// primitives on the GPU.
//
// # Overview
//
// A [DrawContext] owns one GPU device and one render target: either a
// window surface ([NewSurfaced]) or an off-screen texture ([NewHeadless]).
// Primitives pushed onto it live on the GPU until [DrawContext.Clear] or
// [DrawContext.Destroy], and every [DrawContext.Draw] renders all of them
// in a single pass.
//
// # Quick Start
//
//	import "github.com/gogpu/vgfx"
//
//	dc, err := vgfx.NewHeadless(400, 300)
//	if err != nil {
//	    return err
//	}
//	defer dc.Destroy()
//
//	err = dc.Push(vgfx.RoundedRectangle{
//	    Color:    vgfx.MustHex("#4c8bf5"),
//	    Position: f32.Vec2{8, 8},
//	    Size:     vgfx.Sz(64, 96),
//	    Radius:   vgfx.Radius(12),
//	})
//	if err != nil {
//	    return err
//	}
//	if err := dc.Draw(); err != nil {
//	    return err
//	}
//	img, err := dc.Readback()
//
// # Primitives
//
// The primitive set is closed: [RoundedRectangle] and [Ellipse]. Sizes are
// validated on push ([Size.Validate]); corner radii are clamped to half the
// shorter side. Each primitive kind is drawn by its own pipeline, and
// primitives are grouped by kind at draw time: every rounded rectangle is
// drawn before any ellipse, whatever the push order. Within a kind, push
// order is kept.
//
// # Coordinates
//
// Positions are in target pixels with the origin at the top-left corner
// and Y growing down. Transforms apply around the primitive centre and
// are built with [Rotate], [Scale], [Skew], [Translate] and [Multiply]:
//
//	card := vgfx.RoundedRectangle{
//	    Color:     vgfx.White,
//	    Position:  f32.Vec2{100, 100},
//	    Size:      vgfx.Sz(120, 70),
//	    Radius:    vgfx.Radius(8),
//	    Transform: vgfx.Rotate(math32.Pi / 12),
//	}
//
// # Errors
//
// Draw errors caused by an outdated or lost surface satisfy
// [IsRecoverable]: resize and draw the next frame. Other Draw errors are
// fatal. Invalid primitives fail Push with [ErrNegativeSize],
// [ErrSizeExceedsMax] or [ErrInvalidSize] and create no GPU objects.
//
// # Logging
//
// vgfx is silent by default. [SetLogger] enables structured logging for
// vgfx and its sub-packages.
package vgfx
