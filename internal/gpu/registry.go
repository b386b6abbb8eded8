//go:build !nogpu

package gpu

import (
	"cmp"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vgfx/cache"
)

// Kind is the runtime type identity of a primitive. Buckets are ordered by
// Kind.
type Kind uint8

const (
	KindRoundedRect Kind = iota + 1
	KindEllipse

	kindEnd
)

// Kinds lists every primitive kind in bucket order.
func Kinds() []Kind { return []Kind{KindRoundedRect, KindEllipse} }

func (k Kind) String() string {
	switch k {
	case KindRoundedRect:
		return "rounded_rect"
	case KindEllipse:
		return "ellipse"
	default:
		return fmt.Sprintf("kind_%d", uint8(k))
	}
}

func (k Kind) valid() bool { return k > 0 && k < kindEnd }

// PipelineKey identifies a pipeline by its shader pair.
type PipelineKey struct {
	Vertex   VertexShader
	Fragment FragmentShader
}

// ComparePipelineKeys orders keys by vertex then fragment shader.
func ComparePipelineKeys(a, b PipelineKey) int {
	return cmp.Or(cmp.Compare(a.Vertex, b.Vertex), cmp.Compare(a.Fragment, b.Fragment))
}

// PipelineKey returns the shader pair drawing k.
func (k Kind) PipelineKey() PipelineKey {
	switch k {
	case KindEllipse:
		return PipelineKey{Vertex: VSEmitQuadUV, Fragment: FSEllipseColorFill}
	default:
		return PipelineKey{Vertex: VSEmitQuadUV, Fragment: FSRoundedRectColorFill}
	}
}

// FillSize returns the fill uniform size of k.
func (k Kind) FillSize() uint64 {
	if k == KindEllipse {
		return EllipseFillSize
	}
	return RoundedRectFillSize
}

// quadVertexLayout is one float32x2 corner per vertex.
var quadVertexLayout = []gputypes.VertexBufferLayout{{
	ArrayStride: 8,
	StepMode:    gputypes.VertexStepModeVertex,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
	},
}}

// Registry owns the bind group layouts, shader modules and pipelines shared
// by every primitive of a draw context. It is immutable after NewRegistry.
type Registry struct {
	device hal.Device
	format gputypes.TextureFormat

	view    hal.BindGroupLayout
	fill    [kindEnd]hal.BindGroupLayout
	layouts [kindEnd]hal.PipelineLayout

	vertex    *cache.Store[VertexShader, hal.ShaderModule]
	fragment  *cache.Store[FragmentShader, hal.ShaderModule]
	pipelines *cache.Store[PipelineKey, hal.RenderPipeline]

	destroyed bool
}

// NewRegistry builds all layouts, shader modules and pipelines for format.
// On failure everything created so far is destroyed.
func NewRegistry(device hal.Device, format gputypes.TextureFormat, lib ShaderLibrary) (*Registry, error) {
	r := &Registry{device: device, format: format}
	built := false
	defer func() {
		if !built {
			r.Destroy()
		}
	}()

	if err := r.createLayouts(); err != nil {
		return nil, err
	}

	var err error
	r.vertex, err = cache.FillOrdered(VertexShaders(), func(v VertexShader) (hal.ShaderModule, error) {
		src, err := lib.Vertex(v)
		if err != nil {
			return nil, err
		}
		return device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: v.String(), Source: src})
	}, device.DestroyShaderModule)
	if err != nil {
		return nil, fmt.Errorf("create vertex shaders: %w", err)
	}

	r.fragment, err = cache.FillOrdered(FragmentShaders(), func(f FragmentShader) (hal.ShaderModule, error) {
		src, err := lib.Fragment(f)
		if err != nil {
			return nil, err
		}
		return device.CreateShaderModule(&hal.ShaderModuleDescriptor{Label: f.String(), Source: src})
	}, device.DestroyShaderModule)
	if err != nil {
		return nil, fmt.Errorf("create fragment shaders: %w", err)
	}

	keys := make([]PipelineKey, 0, len(Kinds()))
	for _, k := range Kinds() {
		keys = append(keys, k.PipelineKey())
	}
	r.pipelines, err = cache.Fill(ComparePipelineKeys, keys, r.createPipeline, device.DestroyRenderPipeline)
	if err != nil {
		return nil, fmt.Errorf("create pipelines: %w", err)
	}

	built = true
	slogger().Debug("gpu: registry built",
		"format", format,
		"shaders", r.vertex.Len()+r.fragment.Len(),
		"pipelines", r.pipelines.Len())
	return r, nil
}

func (r *Registry) createLayouts() error {
	view, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "vgfx_view_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: ProjectionSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: EmitQuadSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create view layout: %w", err)
	}
	r.view = view

	for _, k := range Kinds() {
		fill, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label: "vgfx_" + k.String() + "_fill_layout",
			Entries: []gputypes.BindGroupLayoutEntry{{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: k.FillSize(),
				},
			}},
		})
		if err != nil {
			return fmt.Errorf("create %s fill layout: %w", k, err)
		}
		r.fill[k] = fill

		layout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            "vgfx_" + k.String() + "_pipeline_layout",
			BindGroupLayouts: []hal.BindGroupLayout{r.view, fill},
		})
		if err != nil {
			return fmt.Errorf("create %s pipeline layout: %w", k, err)
		}
		r.layouts[k] = layout
	}
	return nil
}

// layoutFor returns the pipeline layout of the kind drawn by key.
func (r *Registry) layoutFor(key PipelineKey) hal.PipelineLayout {
	for _, k := range Kinds() {
		if k.PipelineKey() == key {
			return r.layouts[k]
		}
	}
	return nil
}

func (r *Registry) createPipeline(key PipelineKey) (hal.RenderPipeline, error) {
	vs, ok := r.vertex.Get(key.Vertex)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShader, key.Vertex)
	}
	fs, ok := r.fragment.Get(key.Fragment)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShader, key.Fragment)
	}

	blend := gputypes.BlendStateAlpha()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "vgfx_" + key.Vertex.String() + "+" + key.Fragment.String(),
		Layout: r.layoutFor(key),
		Vertex: hal.VertexState{
			Module:     vs,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout,
		},
		Fragment: &hal.FragmentState{
			Module:     fs,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    r.format,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
	})
	if err != nil {
		return nil, err
	}
	slogger().Debug("gpu: pipeline created", "vertex", key.Vertex, "fragment", key.Fragment)
	return pipeline, nil
}

// Format returns the color format the pipelines render to.
func (r *Registry) Format() gputypes.TextureFormat { return r.format }

// ViewLayout returns the projection + emit_quad layout (group 0).
func (r *Registry) ViewLayout() hal.BindGroupLayout { return r.view }

// FillLayout returns the fill layout (group 1) of k, or nil for an unknown
// kind.
func (r *Registry) FillLayout(k Kind) hal.BindGroupLayout {
	if !k.valid() {
		return nil
	}
	return r.fill[k]
}

// Pipeline returns the pipeline drawing k, or nil for an unknown kind.
func (r *Registry) Pipeline(k Kind) hal.RenderPipeline {
	if !k.valid() || r.pipelines == nil {
		return nil
	}
	p, _ := r.pipelines.Get(k.PipelineKey())
	return p
}

// Pipelines returns the number of cached pipelines.
func (r *Registry) Pipelines() int {
	if r.pipelines == nil {
		return 0
	}
	return r.pipelines.Len()
}

// Destroy releases every object in reverse creation order. Safe to call
// more than once.
func (r *Registry) Destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true

	if r.pipelines != nil {
		r.pipelines.Destroy(r.device.DestroyRenderPipeline)
	}
	if r.fragment != nil {
		r.fragment.Destroy(r.device.DestroyShaderModule)
	}
	if r.vertex != nil {
		r.vertex.Destroy(r.device.DestroyShaderModule)
	}
	for k := kindEnd - 1; k > 0; k-- {
		if r.layouts[k] != nil {
			r.device.DestroyPipelineLayout(r.layouts[k])
			r.layouts[k] = nil
		}
		if r.fill[k] != nil {
			r.device.DestroyBindGroupLayout(r.fill[k])
			r.fill[k] = nil
		}
	}
	if r.view != nil {
		r.device.DestroyBindGroupLayout(r.view)
		r.view = nil
	}
}
