package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/Faultbox/bspslice/internal/layout"
	"github.com/Faultbox/bspslice/pkg/projection"
)

func createTestDocument() *layout.Document {
	return &layout.Document{
		Projection:  projection.Z,
		SlicingAxis: projection.Z,
		Bound:       orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{100, 50}},
		Padding:     5,
		Boundaries:  []float64{0, 64, 128},
		Layers: []layout.Layer{
			{Index: 0, Distance: 0, Polygons: []layout.Polygon{
				{Texture: "floor01", Ring: orb.Ring{{0, 50}, {100, 50}, {100, 0}, {0, 0}}},
			}},
			{Index: 1, Distance: 64},
			{Index: 2, Distance: 128, Polygons: []layout.Polygon{
				{Texture: "floor02", Ring: orb.Ring{{0.5, 10}, {20, 10}, {20, 30.25}}},
			}},
		},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, createTestDocument(), DefaultStyle()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	wants := []string{
		`viewBox="-5 -5 110 60"`,
		`<g id="layer_0" data-distance="0">`,
		`<polygon points="0,50 100,50 100,0 0,0" />`,
		`<g id="layer_2" data-distance="128">`,
		`<polygon points="0.5,10 20,10 20,30.25" />`,
		`<use xlink:href="#layer_0" fill="none" stroke="black" stroke-width="15" />`,
		`<use xlink:href="#layer_2" fill="white" stroke="black" stroke-width="1" />`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s", want)
		}
	}

	if strings.Contains(out, "layer_1") {
		t.Error("empty layers should be omitted")
	}
}

func TestWrite_WellFormed(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, createTestDocument(), DefaultStyle()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	dec := xml.NewDecoder(&buf)
	polygons := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			if err != io.EOF {
				t.Fatalf("invalid XML: %v", err)
			}
			break
		}
		if el, ok := tok.(xml.StartElement); ok && el.Name.Local == "polygon" {
			polygons++
		}
	}
	if polygons != 2 {
		t.Errorf("expected 2 polygons, got %d", polygons)
	}
}

func TestWrite_CustomStyle(t *testing.T) {
	var buf bytes.Buffer
	style := Style{Stroke: "#333", Fill: "none", OutlineWidth: 4.5, StrokeWidth: 0.5}
	if err := Write(&buf, createTestDocument(), style); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if !strings.Contains(buf.String(), `fill="none" stroke="#333" stroke-width="4.5"`) {
		t.Error("expected custom outline style")
	}
	if !strings.Contains(buf.String(), `stroke-width="0.5"`) {
		t.Error("expected custom stroke width")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWrite_PropagatesErrors(t *testing.T) {
	if err := Write(failingWriter{}, createTestDocument(), DefaultStyle()); err == nil {
		t.Error("expected write error")
	}
}
