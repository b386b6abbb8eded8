package vgfx

import (
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/vgfx/internal/gpu"
)

// MaxDimension is the largest accepted primitive width or height, in
// pixels.
const MaxDimension = 32768

// Size is a width and height in pixels.
type Size struct {
	Width, Height float32
}

// Sz returns a Size.
func Sz(w, h float32) Size { return Size{Width: w, Height: h} }

// Validate reports whether both dimensions lie in [0, MaxDimension].
// An oversized dimension is reported before a negative one.
func (s Size) Validate() error {
	dims := [2]float32{s.Width, s.Height}
	for _, v := range dims {
		if math32.IsNaN(v) {
			return ErrInvalidSize
		}
	}
	for _, v := range dims {
		if v > MaxDimension {
			return fmt.Errorf("%w: %g > %d", ErrSizeExceedsMax, v, MaxDimension)
		}
	}
	for _, v := range dims {
		if v < 0 {
			return fmt.Errorf("%w: %g", ErrNegativeSize, v)
		}
	}
	return nil
}

func (s Size) vec2() f32.Vec2 { return f32.Vec2{s.Width, s.Height} }

// BorderRadius holds one radius per corner, in pixels.
type BorderRadius struct {
	TopLeft, TopRight, BottomLeft, BottomRight float32
}

// Radius returns a BorderRadius with all four corners set to r.
func Radius(r float32) BorderRadius {
	return BorderRadius{TopLeft: r, TopRight: r, BottomLeft: r, BottomRight: r}
}

// Clamp limits every corner to [0, min(width, height)/2]. NaN radii
// become zero.
func (r BorderRadius) Clamp(s Size) BorderRadius {
	limit := math32.Max(0, math32.Min(s.Width, s.Height)*0.5)
	c := func(v float32) float32 {
		if math32.IsNaN(v) || v < 0 {
			return 0
		}
		return math32.Min(v, limit)
	}
	return BorderRadius{
		TopLeft:     c(r.TopLeft),
		TopRight:    c(r.TopRight),
		BottomLeft:  c(r.BottomLeft),
		BottomRight: c(r.BottomRight),
	}
}

// vec4 returns the radii in shader order: tl, tr, br, bl.
func (r BorderRadius) vec4() [4]float32 {
	return [4]float32{r.TopLeft, r.TopRight, r.BottomRight, r.BottomLeft}
}

// Primitive is a drawable shape description. It is consumed by
// DrawContext.Push. The set of primitives is closed: RoundedRectangle and
// Ellipse.
type Primitive interface {
	kind() gpu.Kind
	size() Size
}

// RoundedRectangle is a filled rectangle with independently rounded
// corners.
type RoundedRectangle struct {
	Color Color

	// Position is the top-left corner in target pixels.
	Position f32.Vec2

	Size   Size
	Radius BorderRadius

	// Z is the depth written for the shape, clamped to [0, 1].
	Z float32

	// Transform is applied around the shape centre. The zero matrix is the
	// identity.
	Transform f32.Mat3
}

func (RoundedRectangle) kind() gpu.Kind { return gpu.KindRoundedRect }
func (r RoundedRectangle) size() Size   { return r.Size }

func (r RoundedRectangle) params() gpu.RoundedRectParams {
	return gpu.RoundedRectParams{
		Color:     r.Color.vec4(),
		Position:  r.Position,
		Size:      r.Size.vec2(),
		Radius:    r.Radius.Clamp(r.Size).vec4(),
		Z:         r.Z,
		Transform: r.Transform,
	}
}

// Ellipse is a filled axis-aligned ellipse inscribed in the box at
// Position with Size.
type Ellipse struct {
	Color Color

	// Position is the top-left corner of the bounding box.
	Position f32.Vec2

	Size      Size
	Z         float32
	Transform f32.Mat3
}

func (Ellipse) kind() gpu.Kind { return gpu.KindEllipse }
func (e Ellipse) size() Size   { return e.Size }

func (e Ellipse) params() gpu.EllipseParams {
	return gpu.EllipseParams{
		Color:     e.Color.vec4(),
		Position:  e.Position,
		Size:      e.Size.vec2(),
		Z:         e.Z,
		Transform: e.Transform,
	}
}

// Circle returns an ellipse of equal radii centred on (cx, cy).
func Circle(cx, cy, r float32, c Color) Ellipse {
	return Ellipse{
		Color:    c,
		Position: f32.Vec2{cx - r, cy - r},
		Size:     Size{Width: 2 * r, Height: 2 * r},
	}
}

var (
	_ Primitive = RoundedRectangle{}
	_ Primitive = Ellipse{}
)
