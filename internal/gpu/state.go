//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/math/f32"
)

// State is the GPU-resident state of one pushed primitive.
type State interface {
	// Kind returns the bucket this state belongs to.
	Kind() Kind

	// Record binds the state's buffers and bind groups and issues its
	// draw. The bucket pipeline must already be set.
	Record(pass hal.RenderPassEncoder)

	// Destroy releases every GPU object the state owns.
	Destroy(device hal.Device)
}

// quadState is the shared shape of every primitive state: a padded quad,
// its emit_quad uniform and one fill uniform.
type quadState struct {
	vertex   hal.Buffer
	index    hal.Buffer
	emitQuad hal.Buffer
	fill     hal.Buffer

	viewGroup hal.BindGroup
	fillGroup hal.BindGroup
}

// quadSpec describes the buffers a quadState is built from.
type quadSpec struct {
	kind       Kind
	size       f32.Vec2
	emitQuad   []byte
	fill       []byte
	projection hal.Buffer
}

func (s *quadState) build(device hal.Device, queue hal.Queue, reg *Registry, spec quadSpec) (err error) {
	defer func() {
		if err != nil {
			s.Destroy(device)
		}
	}()

	label := "vgfx_" + spec.kind.String()
	upload := func(suffix string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: label + "_" + suffix,
			Size:  uint64(len(data)),
			Usage: usage | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s buffer: %w", suffix, err)
		}
		if err := queue.WriteBuffer(buf, 0, data); err != nil {
			device.DestroyBuffer(buf)
			return nil, fmt.Errorf("write %s buffer: %w", suffix, err)
		}
		return buf, nil
	}

	if s.emitQuad, err = upload("emit_quad", spec.emitQuad, gputypes.BufferUsageUniform); err != nil {
		return err
	}
	if s.fill, err = upload("fill", spec.fill, gputypes.BufferUsageUniform); err != nil {
		return err
	}
	if s.vertex, err = upload("vertices", quadVertices(spec.size), gputypes.BufferUsageVertex); err != nil {
		return err
	}
	if s.index, err = upload("indices", indexBytes(), gputypes.BufferUsageIndex); err != nil {
		return err
	}

	s.viewGroup, err = device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_view",
		Layout: reg.ViewLayout(),
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: spec.projection.NativeHandle(), Size: ProjectionSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: s.emitQuad.NativeHandle(), Size: EmitQuadSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create view bind group: %w", err)
	}

	s.fillGroup, err = device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_fill",
		Layout: reg.FillLayout(spec.kind),
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: s.fill.NativeHandle(), Size: uint64(len(spec.fill)),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create fill bind group: %w", err)
	}
	return nil
}

func (s *quadState) Record(pass hal.RenderPassEncoder) {
	pass.SetVertexBuffer(0, s.vertex, 0)
	pass.SetIndexBuffer(s.index, gputypes.IndexFormatUint16, 0)
	pass.SetBindGroup(0, s.viewGroup, nil)
	pass.SetBindGroup(1, s.fillGroup, nil)
	pass.DrawIndexed(quadIndexCount, 1, 0, 0, 0)
}

func (s *quadState) Destroy(device hal.Device) {
	if s.fillGroup != nil {
		device.DestroyBindGroup(s.fillGroup)
		s.fillGroup = nil
	}
	if s.viewGroup != nil {
		device.DestroyBindGroup(s.viewGroup)
		s.viewGroup = nil
	}
	for _, b := range []*hal.Buffer{&s.index, &s.vertex, &s.fill, &s.emitQuad} {
		if *b != nil {
			device.DestroyBuffer(*b)
			*b = nil
		}
	}
}

// FillBuffer returns the fill uniform buffer.
func (s *quadState) FillBuffer() hal.Buffer { return s.fill }

// RoundedRectParams describes a validated rounded rectangle in target
// pixels. Radius is already clamped.
type RoundedRectParams struct {
	Color     [4]float32
	Position  f32.Vec2 // top-left corner
	Size      f32.Vec2
	Radius    [4]float32 // tl, tr, br, bl
	Z         float32
	Transform f32.Mat3
}

// RoundedRectState is the GPU state of a rounded rectangle.
type RoundedRectState struct {
	quadState
	uniform RoundedRectFill
}

// NewRoundedRectState uploads the uniforms and geometry of p and binds them
// against projection.
func NewRoundedRectState(device hal.Device, queue hal.Queue, reg *Registry, projection hal.Buffer, p RoundedRectParams) (*RoundedRectState, error) {
	s := &RoundedRectState{uniform: RoundedRectFill{
		Color:   p.Color,
		Radius:  p.Radius,
		Size:    p.Size,
		Padding: Padding,
	}}
	err := s.build(device, queue, reg, quadSpec{
		kind:       KindRoundedRect,
		size:       p.Size,
		emitQuad:   emitQuadFor(p.Position, p.Size, p.Z, p.Transform).Bytes(),
		fill:       s.uniform.Bytes(),
		projection: projection,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns KindRoundedRect.
func (s *RoundedRectState) Kind() Kind { return KindRoundedRect }

// Uniform returns the fill uniform as uploaded.
func (s *RoundedRectState) Uniform() RoundedRectFill { return s.uniform }

// EllipseParams describes a validated ellipse inscribed in the box at
// Position with Size.
type EllipseParams struct {
	Color     [4]float32
	Position  f32.Vec2 // top-left of the bounding box
	Size      f32.Vec2
	Z         float32
	Transform f32.Mat3
}

// EllipseState is the GPU state of an ellipse.
type EllipseState struct {
	quadState
	uniform EllipseFill
}

// NewEllipseState uploads the uniforms and geometry of p and binds them
// against projection.
func NewEllipseState(device hal.Device, queue hal.Queue, reg *Registry, projection hal.Buffer, p EllipseParams) (*EllipseState, error) {
	s := &EllipseState{uniform: EllipseFill{
		Color:   p.Color,
		Size:    p.Size,
		Padding: Padding,
	}}
	err := s.build(device, queue, reg, quadSpec{
		kind:       KindEllipse,
		size:       p.Size,
		emitQuad:   emitQuadFor(p.Position, p.Size, p.Z, p.Transform).Bytes(),
		fill:       s.uniform.Bytes(),
		projection: projection,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns KindEllipse.
func (s *EllipseState) Kind() Kind { return KindEllipse }

// Uniform returns the fill uniform as uploaded.
func (s *EllipseState) Uniform() EllipseFill { return s.uniform }

// emitQuadFor places the quad centre at the middle of the box.
func emitQuadFor(topLeft, size f32.Vec2, z float32, transform f32.Mat3) EmitQuad {
	return EmitQuad{
		Transform: transform,
		Position:  f32.Vec2{topLeft[0] + size[0]*0.5, topLeft[1] + size[1]*0.5},
		Z:         z,
	}
}

var (
	_ State = (*RoundedRectState)(nil)
	_ State = (*EllipseState)(nil)
)
