package vgfx

import (
	"io/fs"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/render"
)

// DefaultClearColor is the color every frame starts from.
var DefaultClearColor = Color{R: 0.122, G: 0.137, B: 0.208, A: 1}

// Option configures a DrawContext during creation.
//
// Example:
//
//	// Default backend, default clear color
//	dc, err := vgfx.NewHeadless(800, 600)
//
//	// Force the noop backend and a white background
//	dc, err := vgfx.NewHeadless(800, 600,
//	    vgfx.WithBackend(noop.API{}),
//	    vgfx.WithClearColor(vgfx.Named("white")))
type Option func(*options)

// options holds optional configuration for DrawContext creation.
type options struct {
	backend      hal.Backend
	backendName  string
	flags        gputypes.InstanceFlags
	adapter      render.AdapterPreference
	presentModes []gputypes.PresentMode
	clearColor   Color
	library      gpu.ShaderLibrary
	label        string
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{
		clearColor: DefaultClearColor,
		library:    gpu.EmbeddedLibrary(),
		label:      "vgfx",
	}
}

// WithBackend forces a HAL backend implementation. It takes precedence
// over WithBackendName.
func WithBackend(b hal.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBackendName picks a registered backend by name ("vulkan", "metal",
// "dx12", "gl", "empty"). The default is the best registered backend.
func WithBackendName(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithInstanceFlags enables backend debug or validation layers.
func WithInstanceFlags(flags gputypes.InstanceFlags) Option {
	return func(o *options) {
		o.flags = flags
	}
}

// WithDeviceType prefers adapters of the given type. Other adapters are
// still used when none of that type qualifies.
func WithDeviceType(t gputypes.DeviceType) Option {
	return func(o *options) {
		o.adapter = render.AdapterPreference{DeviceType: t, Set: true}
	}
}

// WithPresentModes sets the present mode preference of surfaced contexts,
// most preferred first. FIFO is used when none is supported.
func WithPresentModes(modes ...gputypes.PresentMode) Option {
	return func(o *options) {
		o.presentModes = modes
	}
}

// WithClearColor sets the color every frame is cleared to.
func WithClearColor(c Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithSPIRV loads precompiled shaders from fsys instead of the embedded
// WGSL. The directory must hold one "<name>.spv" per shader, as written by
// cmd/vgfxshaders.
func WithSPIRV(fsys fs.FS) Option {
	return func(o *options) {
		o.library = gpu.SPIRVLibrary(fsys)
	}
}

// WithShaderLibrary replaces the shader source library.
func WithShaderLibrary(lib gpu.ShaderLibrary) Option {
	return func(o *options) {
		if lib != nil {
			o.library = lib
		}
	}
}

// WithLabel sets the prefix of the labels given to context-level GPU
// objects.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}
