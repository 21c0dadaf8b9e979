package projection

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/Faultbox/bspslice/pkg/bsp"
)

// Project maps v onto the drawing plane of axis without any flip.
func Project(axis Axis, v bsp.Vertex) orb.Point {
	right, up := axis.Components()
	return orb.Point{v.Component(right), v.Component(up)}
}

// ProjectFace returns the unflipped polygon of a face, keeping its winding.
func ProjectFace(axis Axis, f *bsp.Face) orb.Ring {
	ring := make(orb.Ring, len(f.Vertices))
	for i, v := range f.Vertices {
		ring[i] = Project(axis, v)
	}
	return ring
}

// Projector projects vertices and flips them vertically inside a bound,
// since image Y grows downwards while model up grows upwards.
type Projector struct {
	Axis  Axis
	Bound orb.Bound
}

// NewProjector returns a projector for axis flipping within bound.
func NewProjector(axis Axis, bound orb.Bound) *Projector {
	return &Projector{Axis: axis, Bound: bound}
}

// Point projects and flips a single vertex.
func (p *Projector) Point(v bsp.Vertex) orb.Point {
	pt := Project(p.Axis, v)
	pt[1] = p.Bound.Max[1] - pt[1] + p.Bound.Min[1]
	return pt
}

// Face projects and flips every vertex of f, keeping its winding.
func (p *Projector) Face(f *bsp.Face) orb.Ring {
	ring := make(orb.Ring, len(f.Vertices))
	for i, v := range f.Vertices {
		ring[i] = p.Point(v)
	}
	return ring
}

// Bound returns the unflipped 2D bound of the given faces on axis.
// ok is false when the faces have no vertices.
func Bound(axis Axis, faces []*bsp.Face) (bound orb.Bound, ok bool) {
	for _, f := range faces {
		for _, v := range f.Vertices {
			pt := Project(axis, v)
			if !ok {
				bound, ok = orb.Bound{Min: pt, Max: pt}, true
				continue
			}
			bound = bound.Extend(pt)
		}
	}
	return bound, ok
}

// FormatNumber formats f canonically: integral values are written without
// a fractional part ("10", not "10.0"), and -0 is written as "0".
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		if f == 0 {
			return "0"
		}
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
