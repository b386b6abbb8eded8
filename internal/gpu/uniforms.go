//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// Uniform buffer sizes in bytes.
const (
	ProjectionSize      = 16
	EmitQuadSize        = 64
	RoundedRectFillSize = 48
	EllipseFillSize     = 32
)

// Padding is the extra quad area, in pixels per axis, left around every
// primitive for anti-aliasing.
var Padding = f32.Vec2{12, 12}

// Identity is the identity transform.
var Identity = f32.Mat3{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// EmitQuad is the per-primitive vertex stage uniform.
type EmitQuad struct {
	// Transform is applied to quad corners around the primitive centre.
	// The zero matrix means identity.
	Transform f32.Mat3

	// Position is the primitive centre in target pixels.
	Position f32.Vec2

	Z float32
}

// Bytes packs u as mat3x3<f32> (three vec4 columns), position, z, pad.
func (u EmitQuad) Bytes() []byte {
	m := u.Transform
	if m == (f32.Mat3{}) {
		m = Identity
	}
	buf := make([]byte, EmitQuadSize)
	// f32.Mat3 is row major; WGSL wants columns.
	for col := range 3 {
		for row := range 3 {
			putF32(buf, col*16+row*4, m[row*3+col])
		}
	}
	putF32(buf, 48, u.Position[0])
	putF32(buf, 52, u.Position[1])
	putF32(buf, 56, u.Z)
	return buf
}

// RoundedRectFill is the fragment uniform of a rounded rectangle.
type RoundedRectFill struct {
	Color [4]float32

	// Radius holds top-left, top-right, bottom-right, bottom-left.
	Radius [4]float32

	Size    f32.Vec2
	Padding f32.Vec2
}

// Bytes packs u in the rounded_rect_fill layout.
func (u RoundedRectFill) Bytes() []byte {
	buf := make([]byte, RoundedRectFillSize)
	putVec(buf, 0, u.Color[:]...)
	putVec(buf, 16, u.Radius[:]...)
	putVec(buf, 32, u.Size[0], u.Size[1], u.Padding[0], u.Padding[1])
	return buf
}

// EllipseFill is the fragment uniform of an ellipse.
type EllipseFill struct {
	Color   [4]float32
	Size    f32.Vec2
	Padding f32.Vec2
}

// Bytes packs u in the ellipse_fill layout.
func (u EllipseFill) Bytes() []byte {
	buf := make([]byte, EllipseFillSize)
	putVec(buf, 0, u.Color[:]...)
	putVec(buf, 16, u.Size[0], u.Size[1], u.Padding[0], u.Padding[1])
	return buf
}

// quadVertices returns the four corners of a quad covering size plus
// Padding, centred on the origin, as float32x2 vertices.
func quadVertices(size f32.Vec2) []byte {
	hw := (size[0] + Padding[0]) * 0.5
	hh := (size[1] + Padding[1]) * 0.5
	buf := make([]byte, 4*8)
	putVec(buf, 0,
		-hw, -hh,
		hw, -hh,
		hw, hh,
		-hw, hh,
	)
	return buf
}

// quadIndices are the two triangles of a quad.
var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

// quadIndexCount is len(quadIndices).
const quadIndexCount = 6

func indexBytes() []byte {
	buf := make([]byte, 0, len(quadIndices)*2)
	for _, i := range quadIndices {
		buf = binary.LittleEndian.AppendUint16(buf, i)
	}
	return buf
}

func putF32(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

func putVec(buf []byte, off int, vs ...float32) {
	for i, v := range vs {
		putF32(buf, off+i*4, v)
	}
}
