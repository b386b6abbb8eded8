// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// ProjectionSize is the size in bytes of an encoded Projection uniform.
const ProjectionSize = 16

// Projection converts target pixel coordinates into normalized device
// coordinates: ndc = (p + Translate) * Scale.
type Projection struct {
	Scale     f32.Vec2
	Translate f32.Vec2
}

// NewProjection derives the projection for a width x height target.
// Y is flipped so that pixel rows grow downward on screen.
func NewProjection(width, height uint32) Projection {
	hw := float32(max(width, 1)) * 0.5
	hh := float32(max(height, 1)) * 0.5
	return Projection{
		Scale:     f32.Vec2{1 / hw, -1 / hh},
		Translate: f32.Vec2{-hw, -hh},
	}
}

// Apply maps a pixel-space point to normalized device coordinates, the
// same way the vertex stage does.
func (p Projection) Apply(pt f32.Vec2) f32.Vec2 {
	return f32.Vec2{
		(pt[0] + p.Translate[0]) * p.Scale[0],
		(pt[1] + p.Translate[1]) * p.Scale[1],
	}
}

// AppendBytes appends the uniform encoding of p to dst.
// Layout: scale.xy, translate.xy as little-endian float32.
func (p Projection) AppendBytes(dst []byte) []byte {
	for _, v := range [4]float32{p.Scale[0], p.Scale[1], p.Translate[0], p.Translate[1]} {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

// Bytes returns the uniform encoding of p.
func (p Projection) Bytes() []byte {
	return p.AppendBytes(make([]byte, 0, ProjectionSize))
}
