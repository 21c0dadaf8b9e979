// bspinfo prints statistics about a Quake BSP map: models, faces, shared
// geometry, textures and the slice boundaries detection would pick.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/bspslice/internal/config"
	"github.com/Faultbox/bspslice/internal/convert"
	"github.com/Faultbox/bspslice/internal/layout"
	"github.com/Faultbox/bspslice/internal/logger"
	"github.com/Faultbox/bspslice/pkg/bsp"
	"github.com/Faultbox/bspslice/pkg/projection"
	"github.com/Faultbox/bspslice/pkg/slice"
)

var flagTextures = flag.Bool("textures", false, "List textures with their size and UV extents")

func main() {
	config.ParseFlags()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: bspinfo [flags] <file.bsp | file.pak | file.pak:maps/name.bsp>")
		os.Exit(1)
	}
	source := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if strings.EqualFold(filepath.Ext(source), ".pak") {
		printArchive(source)
		return
	}

	scene, err := convert.OpenScene(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printScene(source, scene)

	if *flagTextures {
		fmt.Println()
		fmt.Println("Textures:")
		for _, use := range scene.TextureUses() {
			fmt.Printf("  %-16s %4dx%-4d %5d faces  u %s..%s  v %s..%s\n",
				use.Name, use.Width, use.Height, use.Faces,
				projection.FormatNumber(use.Min.X), projection.FormatNumber(use.Max.X),
				projection.FormatNumber(use.Min.Y), projection.FormatNumber(use.Max.Y))
		}
	}

	fmt.Println()
	printSlices(scene, cfg)
}

func printArchive(path string) {
	maps, err := convert.ListMaps(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Archive: %s\n", path)
	fmt.Printf("Maps:    %d\n", len(maps))
	for _, name := range maps {
		fmt.Printf("  %s:%s\n", path, name)
	}
}

func printScene(source string, scene *bsp.Scene) {
	stats := scene.Stats()

	fmt.Printf("Map:      %s\n", source)
	fmt.Printf("Models:   %d\n", len(scene.Models))
	fmt.Printf("Faces:    %d\n", stats.Faces)
	fmt.Printf("Edges:    %d\n", stats.Edges)
	fmt.Printf("Vertices: %d\n", stats.Vertices)
	fmt.Printf("Planes:   %d\n", stats.Planes)
	fmt.Printf("Textures: %d (%d bitmaps)\n", stats.Textures, stats.Bitmaps)

	if len(scene.Models) == 0 {
		return
	}
	world := scene.Models[0]
	fmt.Println()
	fmt.Println("World model:")
	fmt.Printf("  Faces:    %d\n", len(world.Faces))
	fmt.Printf("  Vertices: %d distinct\n", len(world.Vertices()))
	fmt.Printf("  Edges:    %d distinct\n", len(world.Edges()))
	fmt.Printf("  Mins:     %v\n", world.Mins)
	fmt.Printf("  Maxs:     %v\n", world.Maxs)
}

func printSlices(scene *bsp.Scene, cfg *config.Config) {
	axis := cfg.SliceAxis()
	faces := layout.NewFaceFilter(cfg.Ignore).Apply(scene.Faces())
	samples := layout.Samples(faces, axis)

	fmt.Printf("Slices along %s (%d samples):\n", axis, len(samples))
	boundaries, err := slice.Detect(samples, cfg.Slicing.Detection)
	if err != nil {
		fmt.Printf("  none: %v\n", err)
		return
	}
	for i, b := range boundaries {
		fmt.Printf("  %d: %s\n", i, projection.FormatNumber(b))
	}
}
