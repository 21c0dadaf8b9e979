package layout

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/bspslice/internal/logger"
	"github.com/Faultbox/bspslice/pkg/bsp"
	"github.com/Faultbox/bspslice/pkg/bsp/bsptest"
	"github.com/Faultbox/bspslice/pkg/projection"
	"github.com/Faultbox/bspslice/pkg/slice"
)

// floor returns the corners of a square floor at height z.
func floor(x0, y0, size, z float32) [][3]float32 {
	return [][3]float32{
		{x0, y0, z}, {x0 + size, y0, z}, {x0 + size, y0 + size, z}, {x0, y0 + size, z},
	}
}

// createTestScene builds a two-storey map: floors at z=0 and z=128, a
// wall joining them, a sky ceiling, and a trigger brush.
func createTestScene(t *testing.T) *bsp.Scene {
	t.Helper()

	b := bsptest.New().
		Face("floor01", floor(0, 0, 100, 0)...).
		Face("floor01", floor(100, 0, 100, 0)...).
		Face("floor02", floor(0, 0, 100, 128)...).
		Face("wall", [3]float32{0, 0, 0}, [3]float32{0, 0, 128}, [3]float32{0, 100, 128}, [3]float32{0, 100, 0}).
		Face("sky3", floor(0, 0, 400, 512)...).
		Model().
		Face("trigger", floor(-500, -500, 10, 64)...)

	scene, err := bsp.Open(b.Bytes())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return scene
}

func autoSlicing() slice.Options {
	return slice.Options{Enabled: true, Params: slice.DefaultParams()}
}

func TestFaceFilter(t *testing.T) {
	f := NewFaceFilter([]string{"water1", "Lava"})

	tests := []struct {
		texture string
		keep    bool
	}{
		{"floor01", true},
		{"sky1", false},
		{"sky", false},
		{"skyline", false},
		{"clip", false},
		{"hint", false},
		{"trigger", false},
		{"Trigger", true}, // exact, case-sensitive
		{"clip2", true},
		{"water1", false},
		{"lava", true},
		{"Lava", false},
	}

	for _, tc := range tests {
		if got := f.Keep(tc.texture); got != tc.keep {
			t.Errorf("Keep(%q): expected %v, got %v", tc.texture, tc.keep, got)
		}
	}
}

func TestFaceFilter_ApplyKeepsOrder(t *testing.T) {
	faces := []*bsp.Face{{TextureName: "a"}, {TextureName: "sky2"}, {TextureName: "b"}, {TextureName: "clip"}}
	kept := NewFaceFilter(nil).Apply(faces)
	if len(kept) != 2 || kept[0] != faces[0] || kept[1] != faces[2] {
		t.Errorf("unexpected kept faces %v", kept)
	}
}

func TestDistance(t *testing.T) {
	face := &bsp.Face{Vertices: []bsp.Vertex{{X: 5, Y: -3, Z: 64}, {X: 2, Y: 8, Z: 32}, {X: 9, Y: 1, Z: 128}}}
	tests := []struct {
		axis     projection.Axis
		expected float64
	}{
		{projection.X, 2},
		{projection.Y, -3},
		{projection.Z, 32},
	}
	for _, tc := range tests {
		if got := Distance(face, tc.axis); got != tc.expected {
			t.Errorf("Distance(%s): expected %v, got %v", tc.axis, tc.expected, got)
		}
	}
}

func TestSamples_PrefersAlignedFaces(t *testing.T) {
	scene := createTestScene(t)
	faces := NewFaceFilter(nil).Apply(scene.Faces())

	// Three floors are z-aligned; the wall is not.
	samples := Samples(faces, projection.Z)
	if len(samples) != 3 {
		t.Errorf("expected 3 z samples, got %v", samples)
	}

	// Only the wall is x-aligned.
	if samples := Samples(faces, projection.X); len(samples) != 1 || samples[0] != 0 {
		t.Errorf("expected the wall as the only x sample, got %v", samples)
	}

	// Nothing is y-aligned, so every face is sampled.
	if samples := Samples(faces, projection.Y); len(samples) != len(faces) {
		t.Errorf("expected %d y samples, got %v", len(faces), samples)
	}
}

func TestBuild_NoSlicing(t *testing.T) {
	doc, err := Build(createTestScene(t), Options{Projection: projection.Z, SlicingAxis: projection.Z})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(doc.Layers) != 1 {
		t.Fatalf("expected a single layer, got %d", len(doc.Layers))
	}
	if doc.PolygonCount() != 4 {
		t.Errorf("expected 4 polygons, got %d", doc.PolygonCount())
	}
	if doc.Ignored != 2 {
		t.Errorf("expected sky and trigger to be ignored, got %d", doc.Ignored)
	}

	// Sky and trigger faces do not widen the bound.
	expected := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{200, 100}}
	if doc.Bound != expected {
		t.Errorf("expected bound %v, got %v", expected, doc.Bound)
	}
	if doc.Padding != 10 {
		t.Errorf("expected padding 10, got %v", doc.Padding)
	}
	viewBox := orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{210, 110}}
	if doc.ViewBox() != viewBox {
		t.Errorf("expected view box %v, got %v", viewBox, doc.ViewBox())
	}
}

func TestBuild_FlipsAndKeepsWinding(t *testing.T) {
	doc, err := Build(createTestScene(t), Options{Projection: projection.Z, SlicingAxis: projection.Z})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	first := doc.Layers[0].Polygons[0]
	if first.Texture != "floor01" {
		t.Errorf("expected floor01 first, got %s", first.Texture)
	}
	// (0,0),(100,0),(100,100),(0,100) flipped within y 0..100.
	expected := orb.Ring{{0, 100}, {100, 100}, {100, 0}, {0, 0}}
	if !first.Ring.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, first.Ring)
	}
}

func TestBuild_AutoSlicing(t *testing.T) {
	doc, err := Build(createTestScene(t), Options{
		Projection:  projection.Z,
		SlicingAxis: projection.Z,
		Slicing:     autoSlicing(),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Samples 0, 0, 128: the lone 128 cluster survives (1/2 > 0.3).
	if len(doc.Boundaries) != 2 || doc.Boundaries[0] != 0 || doc.Boundaries[1] != 128 {
		t.Fatalf("expected boundaries [0 128], got %v", doc.Boundaries)
	}

	ground, upper := doc.Layers[0], doc.Layers[1]
	if len(ground.Polygons) != 3 {
		t.Errorf("expected both ground floors and the wall in layer 0, got %d", len(ground.Polygons))
	}
	if len(upper.Polygons) != 1 || upper.Polygons[0].Texture != "floor02" {
		t.Errorf("expected floor02 alone in layer 1, got %+v", upper.Polygons)
	}
	if upper.Distance != 128 || upper.Index != 1 {
		t.Errorf("unexpected upper layer header %+v", upper)
	}
}

func TestBuild_ExplicitSlicing(t *testing.T) {
	doc, err := Build(createTestScene(t), Options{
		Projection:  projection.X,
		SlicingAxis: projection.Z,
		Slicing:     slice.Options{Enabled: true, Boundaries: []float64{64, -32}},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(doc.Layers) != 2 || doc.Layers[0].Distance != -32 || doc.Layers[1].Distance != 64 {
		t.Fatalf("unexpected layers %+v", doc.Layers)
	}
	if len(doc.Layers[0].Polygons) != 3 || len(doc.Layers[1].Polygons) != 1 {
		t.Errorf("unexpected layer sizes %d, %d", len(doc.Layers[0].Polygons), len(doc.Layers[1].Polygons))
	}
	if doc.Projection != projection.X || doc.SlicingAxis != projection.Z {
		t.Errorf("unexpected axes %s, %s", doc.Projection, doc.SlicingAxis)
	}
}

func TestBuild_EveryFaceInItsInterval(t *testing.T) {
	scene := createTestScene(t)
	doc, err := Build(scene, Options{Projection: projection.Z, SlicingAxis: projection.Z, Slicing: autoSlicing()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	faces := NewFaceFilter(nil).Apply(scene.Faces())
	for _, f := range faces {
		d := Distance(f, projection.Z)
		i := slice.Assign(doc.Boundaries, d)
		if doc.Boundaries[i] > d || (i+1 < len(doc.Boundaries) && d >= doc.Boundaries[i+1]) {
			t.Errorf("face at %v assigned to layer %d of %v", d, i, doc.Boundaries)
		}
	}
}

func TestBuild_EmptyAfterFiltering(t *testing.T) {
	scene, err := bsp.Open(bsptest.New().
		Face("sky1", floor(0, 0, 64, 256)...).
		Face("clip", floor(0, 0, 64, 0)...).
		Bytes())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	_, err = Build(scene, Options{
		Projection:  projection.Z,
		SlicingAxis: projection.Z,
		Slicing:     slice.Options{Enabled: true, Boundaries: []float64{}},
	})
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestBuild_InvalidAxis(t *testing.T) {
	_, err := Build(createTestScene(t), Options{Projection: projection.Axis(3)})
	if !errors.Is(err, projection.ErrInvalidAxis) {
		t.Errorf("expected ErrInvalidAxis, got %v", err)
	}
}

func TestBuild_InvalidParams(t *testing.T) {
	_, err := Build(createTestScene(t), Options{
		Projection:  projection.Z,
		SlicingAxis: projection.Z,
		Slicing:     slice.Options{Enabled: true, Params: slice.Params{Threshold: -1, MinRatio: 0.3, MergeGap: 64}},
	})
	if !errors.Is(err, slice.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestBuild_LogsBoundaries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.Replace(zap.New(core))()

	if _, err := Build(createTestScene(t), Options{
		Projection:  projection.Z,
		SlicingAxis: projection.Z,
		Slicing:     autoSlicing(),
	}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if logs.FilterMessage("slice boundaries").Len() != 1 {
		t.Errorf("expected one boundary log entry, got %v", logs.All())
	}
}
