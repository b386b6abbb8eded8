//go:build !nogpu

package gpu

import (
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"

	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources, one file per shader id.
//
//go:embed shaders/*.wgsl
var shaderFS embed.FS

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

var (
	// ErrUnknownShader is returned for a shader id with no source.
	ErrUnknownShader = errors.New("gpu: unknown shader")

	// ErrInvalidSPIRV is returned when a blob is not a SPIR-V module.
	ErrInvalidSPIRV = errors.New("gpu: invalid SPIR-V blob")
)

// VertexShader identifies a vertex stage. Values are stable.
type VertexShader uint8

const (
	// VSEmitQuadUV emits a transformed, padded quad with local coordinates.
	VSEmitQuadUV VertexShader = iota + 1
)

// String returns the shader file name without extension.
func (v VertexShader) String() string {
	switch v {
	case VSEmitQuadUV:
		return "vs_emit_quad_uv"
	default:
		return fmt.Sprintf("vs_unknown_%d", uint8(v))
	}
}

// FragmentShader identifies a fragment stage. Values are stable.
type FragmentShader uint8

const (
	// FSRoundedRectColorFill fills a rounded rectangle with a solid color.
	FSRoundedRectColorFill FragmentShader = iota + 1

	// FSEllipseColorFill fills an ellipse with a solid color.
	FSEllipseColorFill
)

// String returns the shader file name without extension.
func (f FragmentShader) String() string {
	switch f {
	case FSRoundedRectColorFill:
		return "fs_rounded_rect_color_fill"
	case FSEllipseColorFill:
		return "fs_ellipse_color_fill"
	default:
		return fmt.Sprintf("fs_unknown_%d", uint8(f))
	}
}

// VertexShaders lists every known vertex shader.
func VertexShaders() []VertexShader { return []VertexShader{VSEmitQuadUV} }

// FragmentShaders lists every known fragment shader.
func FragmentShaders() []FragmentShader {
	return []FragmentShader{FSRoundedRectColorFill, FSEllipseColorFill}
}

// ShaderNames returns the file names of all shaders, vertex stages first.
func ShaderNames() []string {
	var names []string
	for _, v := range VertexShaders() {
		names = append(names, v.String())
	}
	for _, f := range FragmentShaders() {
		names = append(names, f.String())
	}
	return names
}

// ShaderLibrary resolves shader ids to module sources.
type ShaderLibrary interface {
	Vertex(VertexShader) (hal.ShaderSource, error)
	Fragment(FragmentShader) (hal.ShaderSource, error)
}

// WGSL returns the embedded WGSL source for the named shader.
func WGSL(name string) (string, error) {
	b, err := shaderFS.ReadFile("shaders/" + name + ".wgsl")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownShader, name)
	}
	return string(b), nil
}

type embeddedLibrary struct{}

// EmbeddedLibrary returns a library serving the embedded WGSL sources.
// The backend translates WGSL itself.
func EmbeddedLibrary() ShaderLibrary { return embeddedLibrary{} }

func (embeddedLibrary) Vertex(v VertexShader) (hal.ShaderSource, error) {
	src, err := WGSL(v.String())
	return hal.ShaderSource{WGSL: src}, err
}

func (embeddedLibrary) Fragment(f FragmentShader) (hal.ShaderSource, error) {
	src, err := WGSL(f.String())
	return hal.ShaderSource{WGSL: src}, err
}

type spirvLibrary struct {
	fsys fs.FS
}

// SPIRVLibrary returns a library that reads precompiled "<name>.spv" blobs
// from fsys, as written by the vgfxshaders tool.
func SPIRVLibrary(fsys fs.FS) ShaderLibrary { return spirvLibrary{fsys: fsys} }

func (l spirvLibrary) Vertex(v VertexShader) (hal.ShaderSource, error) { return l.load(v.String()) }

func (l spirvLibrary) Fragment(f FragmentShader) (hal.ShaderSource, error) {
	return l.load(f.String())
}

func (l spirvLibrary) load(name string) (hal.ShaderSource, error) {
	blob, err := fs.ReadFile(l.fsys, name+".spv")
	if err != nil {
		return hal.ShaderSource{}, fmt.Errorf("read %s.spv: %w", name, err)
	}
	words, err := DecodeSPIRV(blob)
	if err != nil {
		return hal.ShaderSource{}, fmt.Errorf("%s.spv: %w", name, err)
	}
	return hal.ShaderSource{SPIRV: words}, nil
}

// DecodeSPIRV converts a little-endian SPIR-V blob to words and checks the
// header magic.
func DecodeSPIRV(blob []byte) ([]uint32, error) {
	// Header is five words.
	if len(blob) < 20 || len(blob)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidSPIRV, len(blob))
	}
	words := make([]uint32, len(blob)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(blob[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: magic %#08x", ErrInvalidSPIRV, words[0])
	}
	return words, nil
}
