package shaderbuild

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gogpu/vgfx/internal/gpu"
)

// Source is one named WGSL shader.
type Source struct {
	Name string
	WGSL string
}

// Result describes one written SPIR-V file.
type Result struct {
	Name  string
	Path  string
	Bytes int
}

// EmbeddedSources returns the renderer's built-in shaders, vertex stages
// first.
func EmbeddedSources() []Source {
	names := gpu.ShaderNames()
	out := make([]Source, 0, len(names))
	for _, name := range names {
		// Names come from the same table the embed is keyed on.
		src, _ := gpu.WGSL(name)
		out = append(out, Source{Name: name, WGSL: src})
	}
	return out
}

// DirSources collects every *.wgsl file under fsys. Directories whose base
// name is listed in exclude are skipped. Names are file stems; two files
// with the same stem in different directories are an error.
func DirSources(fsys fs.FS, exclude ...string) ([]Source, error) {
	var out []Source
	seen := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && slices.Contains(exclude, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) != ".wgsl" {
			return nil
		}
		name := strings.TrimSuffix(path.Base(p), ".wgsl")
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("shader %q defined by both %s and %s", name, prev, p)
		}
		seen[name] = p
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		out = append(out, Source{Name: name, WGSL: string(b)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect shaders: %w", err)
	}
	return out, nil
}

// Build compiles sources concurrently and writes "<name>.spv" files into
// outDir, creating it if needed. The session is held for the whole build.
// All compile errors are joined; files for shaders that compiled are still
// written. Results follow the order of sources.
func (s *Session) Build(ctx context.Context, sources []Source, outDir string) ([]Result, error) {
	if err := s.Acquire(); err != nil {
		return nil, err
	}
	defer func() { _ = s.Release() }()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	results := make([]Result, len(sources))
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Go(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			blob, err := s.Compile(src.Name, src.WGSL)
			if err != nil {
				errs[i] = err
				return
			}
			dst := filepath.Join(outDir, src.Name+".spv")
			if err := os.WriteFile(dst, blob, 0o644); err != nil {
				errs[i] = fmt.Errorf("write %s: %w", dst, err)
				return
			}
			results[i] = Result{Name: src.Name, Path: dst, Bytes: len(blob)}
		})
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		written := results[:0]
		for _, r := range results {
			if r.Path != "" {
				written = append(written, r)
			}
		}
		return written, err
	}
	s.log.Info("shaderbuild: build complete", "shaders", len(results), "dir", outDir)
	return results, nil
}
