package vgfx

import (
	"testing"
	"testing/fstest"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/vgfx/internal/gpu"
)

type stubLibrary struct {
	gpu.ShaderLibrary
	name string
}

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.clearColor != DefaultClearColor {
		t.Errorf("clearColor = %v, want %v", o.clearColor, DefaultClearColor)
	}
	if o.library == nil {
		t.Error("default library is nil")
	}
	if o.backend != nil || o.backendName != "" {
		t.Error("default options must not force a backend")
	}
	if o.adapter.Set {
		t.Error("default options must not prefer a device type")
	}
}

func TestOptions(t *testing.T) {
	spirv := fstest.MapFS{}
	lib := stubLibrary{ShaderLibrary: gpu.EmbeddedLibrary(), name: "stub"}

	tests := []struct {
		name  string
		opt   Option
		check func(t *testing.T, o options)
	}{
		{"backend", WithBackend(noop.API{}), func(t *testing.T, o options) {
			if o.backend == nil || o.backend.Variant() != gputypes.BackendEmpty {
				t.Errorf("backend = %v", o.backend)
			}
		}},
		{"backend name", WithBackendName("vulkan"), func(t *testing.T, o options) {
			if o.backendName != "vulkan" {
				t.Errorf("backendName = %q", o.backendName)
			}
		}},
		{"device type", WithDeviceType(gputypes.DeviceTypeIntegratedGPU), func(t *testing.T, o options) {
			if !o.adapter.Set || o.adapter.DeviceType != gputypes.DeviceTypeIntegratedGPU {
				t.Errorf("adapter = %+v", o.adapter)
			}
		}},
		{"present modes", WithPresentModes(gputypes.PresentModeMailbox, gputypes.PresentModeImmediate), func(t *testing.T, o options) {
			if len(o.presentModes) != 2 || o.presentModes[0] != gputypes.PresentModeMailbox {
				t.Errorf("presentModes = %v", o.presentModes)
			}
		}},
		{"clear color", WithClearColor(White), func(t *testing.T, o options) {
			if o.clearColor != White {
				t.Errorf("clearColor = %v", o.clearColor)
			}
		}},
		{"spirv", WithSPIRV(spirv), func(t *testing.T, o options) {
			if _, err := o.library.Vertex(gpu.VSEmitQuadUV); err == nil {
				t.Error("empty SPIR-V directory served a shader")
			}
		}},
		{"shader library", WithShaderLibrary(lib), func(t *testing.T, o options) {
			if o.library != lib {
				t.Error("library not replaced")
			}
		}},
		{"nil shader library", WithShaderLibrary(nil), func(t *testing.T, o options) {
			if o.library == nil {
				t.Error("nil library must keep the default")
			}
		}},
		{"label", WithLabel("ui"), func(t *testing.T, o options) {
			if o.label != "ui" {
				t.Errorf("label = %q", o.label)
			}
		}},
		{"instance flags", WithInstanceFlags(gputypes.InstanceFlagsDebug), func(t *testing.T, o options) {
			if o.flags != gputypes.InstanceFlagsDebug {
				t.Errorf("flags = %v", o.flags)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			tt.opt(&o)
			tt.check(t, o)
		})
	}
}
