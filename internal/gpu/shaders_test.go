//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gogpu/naga"
)

func TestShaderNames(t *testing.T) {
	want := []string{"vs_emit_quad_uv", "fs_rounded_rect_color_fill", "fs_ellipse_color_fill"}
	got := ShaderNames()
	if len(got) != len(want) {
		t.Fatalf("ShaderNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ShaderNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if s := VertexShader(9).String(); s != "vs_unknown_9" {
		t.Errorf("unknown vertex shader String() = %q", s)
	}
	if s := FragmentShader(0).String(); s != "fs_unknown_0" {
		t.Errorf("unknown fragment shader String() = %q", s)
	}
}

func TestWGSL(t *testing.T) {
	for _, name := range ShaderNames() {
		t.Run(name, func(t *testing.T) {
			src, err := WGSL(name)
			if err != nil {
				t.Fatalf("WGSL(%q): %v", name, err)
			}
			entry := "fs_main"
			if strings.HasPrefix(name, "vs_") {
				entry = "vs_main"
			}
			if !strings.Contains(src, "fn "+entry) {
				t.Errorf("%s does not declare %s", name, entry)
			}
		})
	}

	if _, err := WGSL("missing"); !errors.Is(err, ErrUnknownShader) {
		t.Errorf("WGSL(missing) error = %v, want ErrUnknownShader", err)
	}
}

func TestEmbeddedLibrary(t *testing.T) {
	lib := EmbeddedLibrary()

	src, err := lib.Vertex(VSEmitQuadUV)
	if err != nil {
		t.Fatalf("Vertex: %v", err)
	}
	if src.WGSL == "" || src.SPIRV != nil {
		t.Errorf("Vertex source = %+v, want WGSL only", src)
	}

	for _, f := range FragmentShaders() {
		src, err := lib.Fragment(f)
		if err != nil {
			t.Fatalf("Fragment(%s): %v", f, err)
		}
		if !strings.Contains(src.WGSL, "@fragment") {
			t.Errorf("Fragment(%s) is not a fragment shader", f)
		}
	}

	if _, err := lib.Fragment(FragmentShader(42)); !errors.Is(err, ErrUnknownShader) {
		t.Errorf("Fragment(42) error = %v, want ErrUnknownShader", err)
	}
}

// spirvBlob returns a minimal header-only module of n extra words.
func spirvBlob(magic uint32, extra int) []byte {
	words := append([]uint32{magic, 0x00010300, 0, 16, 0}, make([]uint32, extra)...)
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	return buf
}

func TestDecodeSPIRV(t *testing.T) {
	tests := []struct {
		name    string
		blob    []byte
		words   int
		wantErr bool
	}{
		{"header only", spirvBlob(spirvMagic, 0), 5, false},
		{"with body", spirvBlob(spirvMagic, 3), 8, false},
		{"bad magic", spirvBlob(0xdeadbeef, 0), 0, true},
		{"short", []byte{0x03, 0x02, 0x23, 0x07}, 0, true},
		{"unaligned", append(spirvBlob(spirvMagic, 0), 0), 0, true},
		{"empty", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, err := DecodeSPIRV(tt.blob)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSPIRV) {
					t.Errorf("DecodeSPIRV() error = %v, want ErrInvalidSPIRV", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeSPIRV() error = %v", err)
			}
			if len(words) != tt.words {
				t.Errorf("len(words) = %d, want %d", len(words), tt.words)
			}
			if words[0] != spirvMagic {
				t.Errorf("words[0] = %#x", words[0])
			}
		})
	}
}

func TestSPIRVLibrary(t *testing.T) {
	fsys := fstest.MapFS{
		"vs_emit_quad_uv.spv":            {Data: spirvBlob(spirvMagic, 2)},
		"fs_rounded_rect_color_fill.spv": {Data: spirvBlob(0x12345678, 0)},
	}
	lib := SPIRVLibrary(fsys)

	src, err := lib.Vertex(VSEmitQuadUV)
	if err != nil {
		t.Fatalf("Vertex: %v", err)
	}
	if len(src.SPIRV) != 7 || src.WGSL != "" {
		t.Errorf("Vertex source: %d words, WGSL %q", len(src.SPIRV), src.WGSL)
	}

	if _, err := lib.Fragment(FSRoundedRectColorFill); !errors.Is(err, ErrInvalidSPIRV) {
		t.Errorf("bad magic error = %v, want ErrInvalidSPIRV", err)
	}
	if _, err := lib.Fragment(FSEllipseColorFill); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing blob error = %v, want fs.ErrNotExist", err)
	}
}

func TestShadersCompile(t *testing.T) {
	for _, name := range ShaderNames() {
		t.Run(name, func(t *testing.T) {
			src, err := WGSL(name)
			if err != nil {
				t.Fatal(err)
			}
			spirv, err := naga.Compile(src)
			if err != nil {
				msg := err.Error()
				if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
					t.Skipf("naga: %v", err)
				}
				t.Fatalf("Compile(%s): %v", name, err)
			}
			if _, err := DecodeSPIRV(spirv); err != nil {
				t.Errorf("compiled %s: %v", name, err)
			}
		})
	}
}
