// Package scene loads demo scenes described in TOML or YAML and turns them
// into vgfx primitives.
//
// A scene names a target size, a background color and a list of shapes:
//
//	width = 400
//	height = 300
//	background = "#1f2335"
//
//	[[shapes]]
//	kind = "rounded_rect"
//	color = "cornflowerblue"
//	x = 8
//	y = 8
//	width = 64
//	height = 96
//	radius = 12
package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/vgfx"
)

// Shape kinds accepted in scene files.
const (
	KindRoundedRect = "rounded_rect"
	KindEllipse     = "ellipse"
	KindCircle      = "circle"
)

var (
	// ErrUnknownKind is returned for a shape kind outside the known set.
	ErrUnknownKind = errors.New("scene: unknown shape kind")

	// ErrUnknownColor is returned for a color that is neither hex nor a CSS
	// name.
	ErrUnknownColor = errors.New("scene: unknown color")

	// ErrInvalidScene is returned when the scene size is missing or bad.
	ErrInvalidScene = errors.New("scene: invalid scene")
)

// Scene is the decoded form of a scene file.
type Scene struct {
	Width      uint32  `toml:"width" yaml:"width"`
	Height     uint32  `toml:"height" yaml:"height"`
	Background string  `toml:"background" yaml:"background"`
	Shapes     []Shape `toml:"shapes" yaml:"shapes"`
}

// Shape is one primitive. Which fields matter depends on Kind: circles use
// X, Y as the centre and R as the radius; rectangles and ellipses use X, Y
// as the top-left corner with Width and Height.
type Shape struct {
	Kind   string  `toml:"kind" yaml:"kind"`
	Color  string  `toml:"color" yaml:"color"`
	Alpha  float32 `toml:"alpha" yaml:"alpha"`
	X      float32 `toml:"x" yaml:"x"`
	Y      float32 `toml:"y" yaml:"y"`
	Width  float32 `toml:"width" yaml:"width"`
	Height float32 `toml:"height" yaml:"height"`
	R      float32 `toml:"r" yaml:"r"`

	// Radius rounds every corner. Corners, when set, overrides it in the
	// order top-left, top-right, bottom-right, bottom-left.
	Radius  float32   `toml:"radius" yaml:"radius"`
	Corners []float32 `toml:"corners" yaml:"corners"`

	Z float32 `toml:"z" yaml:"z"`

	// Rotate turns the shape about its centre, in degrees.
	Rotate float32 `toml:"rotate" yaml:"rotate"`
}

// Validate checks the scene size.
func (s *Scene) Validate() error {
	if s.Width == 0 || s.Height == 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidScene, s.Width, s.Height)
	}
	return nil
}

// BackgroundColor resolves Background, defaulting to vgfx.DefaultClearColor.
func (s *Scene) BackgroundColor() (vgfx.Color, error) {
	if s.Background == "" {
		return vgfx.DefaultClearColor, nil
	}
	return ParseColor(s.Background)
}

// Primitives converts every shape. The first bad shape stops conversion and
// is named by index in the error.
func (s *Scene) Primitives() ([]vgfx.Primitive, error) {
	out := make([]vgfx.Primitive, 0, len(s.Shapes))
	for i, sh := range s.Shapes {
		p, err := sh.Primitive()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Primitive converts one shape.
func (sh Shape) Primitive() (vgfx.Primitive, error) {
	c, err := ParseColor(sh.Color)
	if err != nil {
		return nil, err
	}
	if sh.Alpha > 0 {
		c = c.WithAlpha(sh.Alpha)
	}
	var m f32.Mat3
	if sh.Rotate != 0 {
		m = vgfx.Rotate(sh.Rotate * math32.Pi / 180)
	}

	switch strings.ToLower(sh.Kind) {
	case KindRoundedRect, "rect", "":
		r := vgfx.Radius(sh.Radius)
		if len(sh.Corners) > 0 {
			if len(sh.Corners) != 4 {
				return nil, fmt.Errorf("scene: corners needs 4 values, got %d", len(sh.Corners))
			}
			r = vgfx.BorderRadius{
				TopLeft:     sh.Corners[0],
				TopRight:    sh.Corners[1],
				BottomRight: sh.Corners[2],
				BottomLeft:  sh.Corners[3],
			}
		}
		return vgfx.RoundedRectangle{
			Color:     c,
			Position:  f32.Vec2{sh.X, sh.Y},
			Size:      vgfx.Sz(sh.Width, sh.Height),
			Radius:    r,
			Z:         sh.Z,
			Transform: m,
		}, nil
	case KindEllipse:
		return vgfx.Ellipse{
			Color:     c,
			Position:  f32.Vec2{sh.X, sh.Y},
			Size:      vgfx.Sz(sh.Width, sh.Height),
			Z:         sh.Z,
			Transform: m,
		}, nil
	case KindCircle:
		e := vgfx.Circle(sh.X, sh.Y, sh.R, c)
		e.Z = sh.Z
		return e, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, sh.Kind)
	}
}

// ParseColor accepts "#rgb", "#rrggbb", "#rrggbbaa" or a CSS color name.
func ParseColor(s string) (vgfx.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return vgfx.Hex(s)
	}
	if c, ok := vgfx.Named(strings.ToLower(s)); ok {
		return c, nil
	}
	return vgfx.Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}
