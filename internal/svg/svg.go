// Package svg writes a layered drawing as an SVG document.
package svg

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"

	"github.com/Faultbox/bspslice/internal/layout"
	"github.com/Faultbox/bspslice/pkg/projection"
)

// Style controls how every layer is stroked. Each layer is drawn twice: a
// wide outline pass, then a narrow filled pass on top.
type Style struct {
	Stroke       string  `yaml:"stroke"`
	Fill         string  `yaml:"fill"`
	OutlineWidth float64 `yaml:"outline_width"`
	StrokeWidth  float64 `yaml:"stroke_width"`
}

// DefaultStyle returns black outlines over white fills.
func DefaultStyle() Style {
	return Style{
		Stroke:       "black",
		Fill:         "white",
		OutlineWidth: 15,
		StrokeWidth:  1,
	}
}

// Write encodes doc to w. Empty layers are omitted.
func Write(w io.Writer, doc *layout.Document, style Style) error {
	bw := bufio.NewWriter(w)
	n := projection.FormatNumber

	vb := doc.ViewBox()
	fmt.Fprintln(bw, `<?xml version="1.0" encoding="utf-8" ?>`)
	fmt.Fprintf(bw, `<svg baseProfile="tiny" version="1.2" viewBox="%s %s %s %s" `+
		`xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`+"\n",
		n(vb.Min[0]), n(vb.Min[1]), n(vb.Max[0]-vb.Min[0]), n(vb.Max[1]-vb.Min[1]))

	fmt.Fprintln(bw, "<defs>")
	for _, l := range doc.Layers {
		if len(l.Polygons) == 0 {
			continue
		}
		fmt.Fprintf(bw, `<g id="%s" data-distance="%s">`+"\n", layerID(l), n(l.Distance))
		for _, p := range l.Polygons {
			fmt.Fprintf(bw, `<polygon points="%s" />`+"\n", points(p.Ring))
		}
		fmt.Fprintln(bw, "</g>")
	}
	fmt.Fprintln(bw, "</defs>")

	for _, l := range doc.Layers {
		if len(l.Polygons) == 0 {
			continue
		}
		id := layerID(l)
		fmt.Fprintf(bw, `<g id="slice_%d">`+"\n", l.Index)
		fmt.Fprintf(bw, `<use xlink:href="#%s" fill="none" stroke="%s" stroke-width="%s" />`+"\n",
			id, style.Stroke, n(style.OutlineWidth))
		fmt.Fprintf(bw, `<use xlink:href="#%s" fill="%s" stroke="%s" stroke-width="%s" />`+"\n",
			id, style.Fill, style.Stroke, n(style.StrokeWidth))
		fmt.Fprintln(bw, "</g>")
	}

	fmt.Fprintln(bw, "</svg>")
	return bw.Flush()
}

func layerID(l layout.Layer) string {
	return fmt.Sprintf("layer_%d", l.Index)
}

// points formats a ring as "x1,y1 x2,y2 ...".
func points(ring orb.Ring) string {
	var sb strings.Builder
	for i, pt := range ring {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(projection.FormatNumber(pt[0]))
		sb.WriteByte(',')
		sb.WriteString(projection.FormatNumber(pt[1]))
	}
	return sb.String()
}
