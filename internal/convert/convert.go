// Package convert runs a full conversion: read the map, lay it out and
// write the drawing. Nothing is written unless every stage succeeds.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/bspslice/internal/config"
	"github.com/Faultbox/bspslice/internal/geojson"
	"github.com/Faultbox/bspslice/internal/layout"
	"github.com/Faultbox/bspslice/internal/logger"
	"github.com/Faultbox/bspslice/internal/output"
	"github.com/Faultbox/bspslice/internal/svg"
	"github.com/Faultbox/bspslice/pkg/bsp"
	"github.com/Faultbox/bspslice/pkg/formats"
	"github.com/Faultbox/bspslice/pkg/pak"
)

// Result describes a finished conversion.
type Result struct {
	Path     string
	Document *layout.Document
	Stats    bsp.Stats
}

// ReadSource reads a map from disk or from a PAK entry
// ("pak0.pak:maps/e1m1.bsp").
func ReadSource(source string) ([]byte, error) {
	if archivePath, entry, ok := pak.SplitPath(source); ok {
		archive, err := pak.Open(archivePath)
		if err != nil {
			return nil, fmt.Errorf("cannot find or open %s: %w", archivePath, err)
		}
		defer archive.Close()

		if !archive.Contains(entry) {
			return nil, fmt.Errorf("%w: %s in %s", pak.ErrEntryNotFound, entry, archivePath)
		}
		data, err := archive.Read(entry)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s: %w", entry, archivePath, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("cannot find or open %s: %w", source, err)
	}
	return data, nil
}

// ListMaps returns the BSP entries of the archive at path in directory
// order.
func ListMaps(path string) ([]string, error) {
	archive, err := pak.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot find or open %s: %w", path, err)
	}
	defer archive.Close()

	var maps []string
	for _, name := range archive.List() {
		if strings.HasSuffix(name, ".bsp") {
			maps = append(maps, name)
		}
	}
	return maps, nil
}

// OpenScene reads and decodes the map at source.
func OpenScene(source string) (*bsp.Scene, error) {
	if _, _, ok := pak.SplitPath(source); !ok {
		return openFile(source)
	}

	data, err := ReadSource(source)
	if err != nil {
		return nil, err
	}
	if !formats.IsBSP(data) {
		return nil, notBSP(source)
	}
	return bsp.Open(data)
}

func openFile(path string) (*bsp.Scene, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot find or open %s: %w", path, err)
	}
	if !formats.IsBSPFile(path) {
		return nil, notBSP(path)
	}
	raw, err := formats.ParseBSPFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bsp.ErrFormat, err)
	}
	return bsp.FromTables(raw)
}

func notBSP(source string) error {
	return fmt.Errorf("%w: %s is not a BSP v%d file", bsp.ErrFormat, source, formats.BSPVersion)
}

// LayoutOptions converts cfg for layout.Build.
func LayoutOptions(cfg *config.Config) layout.Options {
	return layout.Options{
		Projection:  cfg.Projection,
		SlicingAxis: cfg.SliceAxis(),
		Ignore:      cfg.Ignore,
		Slicing:     cfg.SliceOptions(),
	}
}

// Run converts the map at source according to cfg.
func Run(source string, cfg *config.Config) (*Result, error) {
	scene, err := OpenScene(source)
	if err != nil {
		return nil, err
	}
	stats := scene.Stats()
	logger.Debug("decoded scene",
		zap.Int("models", len(scene.Models)),
		zap.Int("faces", stats.Faces),
		zap.Int("vertices", stats.Vertices),
		zap.Int("edges", stats.Edges))

	doc, err := layout.Build(scene, LayoutOptions(cfg))
	if err != nil {
		return nil, err
	}

	path := cfg.Output.Path
	if path == "" {
		path = output.DefaultPath(source, cfg.Output.Format, cfg.Projection, cfg.SliceAxis(), cfg.Slicing.Enabled)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	encode, err := encoder(cfg, doc)
	if err != nil {
		return nil, err
	}
	if err := output.WriteFile(path, encode); err != nil {
		return nil, err
	}

	logger.Info("wrote drawing",
		zap.String("path", path),
		zap.Int("layers", len(doc.Layers)),
		zap.Int("polygons", doc.PolygonCount()))

	return &Result{Path: path, Document: doc, Stats: stats}, nil
}

func encoder(cfg *config.Config, doc *layout.Document) (func(io.Writer) error, error) {
	switch cfg.Output.Format {
	case output.FormatSVG:
		return func(w io.Writer) error { return svg.Write(w, doc, cfg.Style) }, nil
	case output.FormatGeoJSON:
		return func(w io.Writer) error { return geojson.Write(w, doc) }, nil
	}
	return nil, fmt.Errorf("%w: %q", output.ErrUnknownFormat, cfg.Output.Format)
}
