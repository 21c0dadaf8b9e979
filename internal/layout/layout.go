// Package layout turns a decoded scene into ordered layers of 2D polygons.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/Faultbox/bspslice/internal/logger"
	"github.com/Faultbox/bspslice/pkg/bsp"
	"github.com/Faultbox/bspslice/pkg/projection"
	"github.com/Faultbox/bspslice/pkg/slice"
)

// ErrEmptyInput is returned when no face survives filtering.
var ErrEmptyInput = errors.New("layout: no faces left to draw")

// Options controls projection, filtering and slicing.
type Options struct {
	Projection  projection.Axis
	SlicingAxis projection.Axis
	Ignore      []string
	Slicing     slice.Options
}

// Polygon is a projected face.
type Polygon struct {
	Texture string
	Ring    orb.Ring
}

// Layer is the group of polygons whose distance falls in
// [Distance, next layer's Distance).
type Layer struct {
	Index    int
	Distance float64
	Polygons []Polygon
}

// Document is the layered drawing handed to an emitter.
type Document struct {
	Projection  projection.Axis
	SlicingAxis projection.Axis
	Bound       orb.Bound // Unpadded bound of all polygons
	Padding     float64
	Boundaries  []float64
	Layers      []Layer
	Ignored     int // Faces dropped by the filter
}

// ViewBox returns the bound grown by the padding on every side.
func (d *Document) ViewBox() orb.Bound {
	return orb.Bound{
		Min: orb.Point{d.Bound.Min[0] - d.Padding, d.Bound.Min[1] - d.Padding},
		Max: orb.Point{d.Bound.Max[0] + d.Padding, d.Bound.Max[1] + d.Padding},
	}
}

// PolygonCount returns the number of polygons across layers.
func (d *Document) PolygonCount() int {
	n := 0
	for _, l := range d.Layers {
		n += len(l.Polygons)
	}
	return n
}

// Distance returns the representative distance of a face along axis: its
// lowest vertex coordinate on that axis.
func Distance(f *bsp.Face, axis projection.Axis) float64 {
	d := math.Inf(1)
	for _, v := range f.Vertices {
		d = math.Min(d, v.Component(int(axis)))
	}
	return d
}

// Samples returns the distances used for boundary detection: those of
// faces whose plane is aligned with axis, or of every face when none is.
func Samples(faces []*bsp.Face, axis projection.Axis) []float64 {
	var aligned, all []float64
	for _, f := range faces {
		d := Distance(f, axis)
		all = append(all, d)
		if f.Plane != nil && f.Plane.Type == bsp.PlaneType(axis) {
			aligned = append(aligned, d)
		}
	}
	if len(aligned) == 0 {
		return all
	}
	return aligned
}

// Build filters, projects and slices the faces of scene.
func Build(scene *bsp.Scene, opts Options) (*Document, error) {
	if !opts.Projection.Valid() || !opts.SlicingAxis.Valid() {
		return nil, fmt.Errorf("%w: projection %s, slicing %s",
			projection.ErrInvalidAxis, opts.Projection, opts.SlicingAxis)
	}

	all := scene.Faces()
	faces := NewFaceFilter(opts.Ignore).Apply(all)
	logger.Debug("filtered faces",
		zap.Int("total", len(all)),
		zap.Int("kept", len(faces)))

	if len(faces) == 0 {
		return nil, ErrEmptyInput
	}

	boundaries, err := opts.Slicing.Resolve(Samples(faces, opts.SlicingAxis))
	if err != nil {
		return nil, fmt.Errorf("resolving slices: %w", err)
	}
	if opts.Slicing.Enabled {
		logger.Info("slice boundaries",
			zap.Stringer("axis", opts.SlicingAxis),
			zap.Float64s("boundaries", boundaries))
	}

	bound, _ := projection.Bound(opts.Projection, faces)
	width, height := bound.Max[0]-bound.Min[0], bound.Max[1]-bound.Min[1]

	doc := &Document{
		Projection:  opts.Projection,
		SlicingAxis: opts.SlicingAxis,
		Bound:       bound,
		Padding:     math.Min(math.Floor(width/10), math.Floor(height/10)),
		Boundaries:  boundaries,
		Layers:      make([]Layer, len(boundaries)),
		Ignored:     len(all) - len(faces),
	}
	for i, b := range boundaries {
		doc.Layers[i] = Layer{Index: i, Distance: b}
	}

	p := projection.NewProjector(opts.Projection, bound)
	for _, f := range faces {
		i := slice.Assign(boundaries, Distance(f, opts.SlicingAxis))
		doc.Layers[i].Polygons = append(doc.Layers[i].Polygons, Polygon{
			Texture: f.TextureName,
			Ring:    p.Face(f),
		})
	}

	return doc, nil
}
