package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/gogpu/vgfx"
	"github.com/gogpu/vgfx/internal/scene"
)

type renderer struct {
	output string
	opts   []vgfx.Option
}

// renderOnce loads the scene, draws it on a fresh headless context and
// writes the image.
func (r renderer) renderOnce(load func() (*scene.Scene, error)) error {
	sc, err := load()
	if err != nil {
		return err
	}
	img, err := renderScene(sc, r.opts...)
	if err != nil {
		return err
	}
	if err := saveImage(r.output, img); err != nil {
		return err
	}
	log.Printf("Rendered %d shapes to %s (%dx%d)\n", len(sc.Shapes), r.output, sc.Width, sc.Height)
	return nil
}

func renderScene(sc *scene.Scene, opts ...vgfx.Option) (*image.RGBA, error) {
	bg, err := sc.BackgroundColor()
	if err != nil {
		return nil, err
	}
	prims, err := sc.Primitives()
	if err != nil {
		return nil, err
	}

	opts = append(opts, vgfx.WithClearColor(bg))
	dc, err := vgfx.NewHeadless(sc.Width, sc.Height, opts...)
	if err != nil {
		return nil, err
	}
	defer dc.Destroy()

	for i, p := range prims {
		if err := dc.Push(p); err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
	}
	if err := dc.Draw(); err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	return dc.Readback()
}

func saveImage(path string, img image.Image) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", "":
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	case ".bmp":
		if err := bmp.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode bmp: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func writeScene(path string, sc *scene.Scene) error {
	f, err := scene.FormatFor(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := scene.Encode(&buf, sc, f); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// demoScene lays out a row of rounded rectangles, a fan of rotated cards
// and a few overlapping circles.
func demoScene(w, h uint32) *scene.Scene {
	sc := &scene.Scene{Width: w, Height: h, Background: "#1f2335"}

	colors := []string{"tomato", "gold", "mediumseagreen", "cornflowerblue", "orchid"}
	for i, c := range colors {
		sc.Shapes = append(sc.Shapes, scene.Shape{
			Kind:   scene.KindRoundedRect,
			Color:  c,
			X:      40 + float32(i)*110,
			Y:      40,
			Width:  90,
			Height: 60,
			Radius: float32(i) * 8,
		})
	}

	for i := range 6 {
		sc.Shapes = append(sc.Shapes, scene.Shape{
			Kind:    scene.KindRoundedRect,
			Color:   "white",
			Alpha:   0.2 + float32(i)*0.1,
			X:       160,
			Y:       200,
			Width:   120,
			Height:  70,
			Corners: []float32{24, 4, 24, 4},
			Rotate:  float32(i) * 15,
		})
	}

	for i, c := range []string{"#ff4d4dcc", "#4dff4dcc", "#4d4dffcc"} {
		sc.Shapes = append(sc.Shapes, scene.Shape{
			Kind:  scene.KindCircle,
			Color: c,
			X:     520 + float32(i%2)*50,
			Y:     260 + float32(i/2)*45,
			R:     60,
		})
	}

	sc.Shapes = append(sc.Shapes, scene.Shape{
		Kind:   scene.KindEllipse,
		Color:  "darkorange",
		X:      80,
		Y:      400,
		Width:  300,
		Height: 120,
	})
	return sc
}
