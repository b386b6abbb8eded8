// Command vgfxshaders compiles the renderer's WGSL shaders to SPIR-V.
//
// The output directory can be handed to vgfx.WithSPIRV (or vgfxdemo
// -spirv) so backends load precompiled modules instead of WGSL.
//
// Usage:
//
//	vgfxshaders -out shaders/spv [-src dir] [-exclude dir,...] [-debug]
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/gogpu/vgfx/internal/shaderbuild"
)

func main() {
	var (
		out      = flag.String("out", "spv", "output directory for .spv files")
		src      = flag.String("src", "", "compile *.wgsl under this directory instead of the built-in shaders")
		exclude  = flag.String("exclude", "", "comma-separated directory names to skip under -src")
		debug    = flag.Bool("debug", false, "emit SPIR-V debug info")
		validate = flag.Bool("validate", true, "validate IR before code generation")
		verbose  = flag.Bool("v", false, "log each compiled shader")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sources := shaderbuild.EmbeddedSources()
	if *src != "" {
		var skip []string
		if *exclude != "" {
			skip = strings.Split(*exclude, ",")
		}
		var err error
		sources, err = shaderbuild.DirSources(os.DirFS(*src), skip...)
		if err != nil {
			log.Fatalf("Failed to collect shaders: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := shaderbuild.Open(
		shaderbuild.WithDebug(*debug),
		shaderbuild.WithValidation(*validate),
		shaderbuild.WithLogger(logger),
	)
	results, err := session.Build(ctx, sources, *out)
	_ = session.Release()
	for _, r := range results {
		log.Printf("%s (%d bytes)\n", r.Path, r.Bytes)
	}
	if err != nil {
		log.Fatalf("Shader build failed: %v", err)
	}
}
