package vgfx

import (
	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// Transforms are row-major 3x3 matrices applied to primitive-local
// coordinates, with the origin at the shape centre:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
//
// gives x' = a*x + b*y + c and y' = d*x + e*y + f. The zero matrix counts as
// the identity everywhere in this package.

// Identity returns the identity transform.
func Identity() f32.Mat3 {
	return f32.Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translate returns a translation by (x, y) pixels.
func Translate(x, y float32) f32.Mat3 {
	return f32.Mat3{
		1, 0, x,
		0, 1, y,
		0, 0, 1,
	}
}

// Scale returns a scale about the shape centre.
func Scale(x, y float32) f32.Mat3 {
	return f32.Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, 1,
	}
}

// Rotate returns a rotation by angle radians. Positive angles turn
// clockwise on screen since y grows downwards.
func Rotate(angle float32) f32.Mat3 {
	sin, cos := math32.Sin(angle), math32.Cos(angle)
	return f32.Mat3{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	}
}

// Skew returns a shear by the given angles in radians along x and y.
func Skew(x, y float32) f32.Mat3 {
	return f32.Mat3{
		1, tan(x), 0,
		tan(y), 1, 0,
		0, 0, 1,
	}
}

// Multiply returns a*b, which applies b first.
func Multiply(a, b f32.Mat3) f32.Mat3 {
	a, b = orIdentity(a), orIdentity(b)
	var m f32.Mat3
	for r := range 3 {
		for c := range 3 {
			m[r*3+c] = a[r*3]*b[c] + a[r*3+1]*b[3+c] + a[r*3+2]*b[6+c]
		}
	}
	return m
}

// TransformPoint applies m to p, including translation.
func TransformPoint(m f32.Mat3, p f32.Vec2) f32.Vec2 {
	m = orIdentity(m)
	return f32.Vec2{
		m[0]*p[0] + m[1]*p[1] + m[2],
		m[3]*p[0] + m[4]*p[1] + m[5],
	}
}

// IsIdentity reports whether m leaves every point in place.
func IsIdentity(m f32.Mat3) bool { return orIdentity(m) == Identity() }

func orIdentity(m f32.Mat3) f32.Mat3 {
	if m == (f32.Mat3{}) {
		return Identity()
	}
	return m
}

func tan(a float32) float32 { return math32.Sin(a) / math32.Cos(a) }
