//go:build !nogpu

// Package gpu holds the GPU-side half of vgfx: the shader library, the
// binding and pipeline registry, and the primitive store that batches
// per-primitive GPU state into buckets.
//
// # Registry
//
// A Registry is built once per draw context from a device, the target color
// format and a ShaderLibrary. It owns:
//
//   - the "view" bind group layout (projection + per-primitive emit_quad)
//   - one "fill" bind group layout and pipeline layout per primitive Kind
//   - shader modules, cached by VertexShader and FragmentShader id
//   - render pipelines, cached by PipelineKey
//
// Construction is all-or-nothing. A failure destroys every object created
// so far.
//
// # Store
//
// A Store groups States into buckets sorted by Kind. Render binds each
// bucket's pipeline once and then records one indexed draw per state:
//
//	store.Push(state)     // state built by NewRoundedRectState / NewEllipseState
//	store.Render(pass)    // inside an open render pass
//
// Draw order across kinds follows the Kind order, not the push order.
//
// # Uniform Layouts
//
// All uniforms are little-endian and std140 compatible:
//
//	projection         16 B  scale.xy translate.xy
//	emit_quad          64 B  mat3x3 (3 x vec4) position.xy z pad
//	rounded_rect_fill  48 B  color.rgba radius(tl,tr,br,bl) size.xy padding.xy
//	ellipse_fill       32 B  color.rgba size.xy padding.xy
package gpu
