// Package geojson writes a layered drawing as a GeoJSON feature collection
// in projected map units. Each polygon becomes one feature carrying its
// layer index, layer distance and texture name.
package geojson

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	gj "github.com/paulmach/orb/geojson"

	"github.com/Faultbox/bspslice/internal/layout"
)

// Collection converts doc into a feature collection. Rings are closed as
// GeoJSON requires; the document itself is left untouched.
func Collection(doc *layout.Document) *gj.FeatureCollection {
	fc := gj.NewFeatureCollection()
	fc.BBox = gj.NewBBox(doc.Bound)

	for _, l := range doc.Layers {
		for _, p := range l.Polygons {
			f := gj.NewFeature(orb.Polygon{closed(p.Ring)})
			f.Properties["layer"] = l.Index
			f.Properties["distance"] = l.Distance
			f.Properties["texture"] = p.Texture
			fc.Append(f)
		}
	}
	return fc
}

// Write encodes doc to w as a single JSON document.
func Write(w io.Writer, doc *layout.Document) error {
	data, err := Collection(doc).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding feature collection: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func closed(r orb.Ring) orb.Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	out := make(orb.Ring, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}
