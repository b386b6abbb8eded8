// Command vgfxdemo renders a scene of rounded rectangles and ellipses
// off-screen and saves it as PNG or BMP.
//
// Usage:
//
//	vgfxdemo [-scene scene.toml] [-output demo.png] [-backend vulkan] [-watch]
//
// Without -scene a built-in demo scene is drawn. -init writes that scene
// to a file as a starting point. With -watch the scene file is re-rendered
// every time it changes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/vgfx"
	"github.com/gogpu/vgfx/internal/scene"
	"github.com/gogpu/vgfx/render"

	_ "github.com/gogpu/wgpu/hal/allbackends"
	_ "github.com/gogpu/wgpu/hal/noop"
)

func main() {
	var (
		width     = flag.Uint("width", 800, "image width when no scene is given")
		height    = flag.Uint("height", 600, "image height when no scene is given")
		scenePath = flag.String("scene", "", "scene file (.toml, .yaml or .yml)")
		output    = flag.String("output", "demo.png", "output file (.png or .bmp)")
		backend   = flag.String("backend", "", "HAL backend name; empty picks the best available")
		spirvDir  = flag.String("spirv", "", "directory of precompiled .spv shaders from vgfxshaders")
		initPath  = flag.String("init", "", "write the built-in scene to this file and exit")
		watch     = flag.Bool("watch", false, "re-render whenever the scene file changes")
		list      = flag.Bool("list-backends", false, "print the linked HAL backends and exit")
		verbose   = flag.Bool("v", false, "log renderer activity to stderr")
	)
	flag.Parse()

	if *verbose {
		vgfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *list {
		for _, name := range render.Backends().Available() {
			fmt.Println(name)
		}
		return
	}

	if *initPath != "" {
		if err := writeScene(*initPath, demoScene(uint32(*width), uint32(*height))); err != nil {
			log.Fatalf("Failed to write scene: %v", err)
		}
		log.Printf("Scene written to %s\n", *initPath)
		return
	}

	var opts []vgfx.Option
	if *backend != "" {
		opts = append(opts, vgfx.WithBackendName(*backend))
	}
	if *spirvDir != "" {
		opts = append(opts, vgfx.WithSPIRV(os.DirFS(*spirvDir)))
	}

	r := renderer{output: *output, opts: opts}
	load := func() (*scene.Scene, error) {
		if *scenePath == "" {
			return demoScene(uint32(*width), uint32(*height)), nil
		}
		return scene.Load(*scenePath)
	}

	if err := r.renderOnce(load); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if *watch {
		if *scenePath == "" {
			log.Fatal("-watch needs -scene")
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watchScene(ctx, *scenePath, func() {
			if err := r.renderOnce(load); err != nil {
				log.Printf("Render failed: %v", err)
			}
		}); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
	}
}
