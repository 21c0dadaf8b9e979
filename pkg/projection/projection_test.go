package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/Faultbox/bspslice/pkg/bsp"
)

func square() *bsp.Face {
	return &bsp.Face{
		Vertices: []bsp.Vertex{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}, {X: 10, Y: 10, Z: 0}, {X: 0, Y: 10, Z: 0}},
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		input    string
		expected Axis
	}{
		{"x", X},
		{"Y", Y},
		{" z ", Z},
	}

	for _, tc := range tests {
		axis, err := ParseAxis(tc.input)
		if err != nil {
			t.Errorf("ParseAxis(%q) failed: %v", tc.input, err)
			continue
		}
		if axis != tc.expected {
			t.Errorf("ParseAxis(%q): expected %v, got %v", tc.input, tc.expected, axis)
		}
	}

	if _, err := ParseAxis("w"); !errors.Is(err, ErrInvalidAxis) {
		t.Errorf("expected ErrInvalidAxis, got %v", err)
	}
}

func TestAxis_Text(t *testing.T) {
	var a Axis
	if err := a.UnmarshalText([]byte("y")); err != nil || a != Y {
		t.Errorf("UnmarshalText(y) = %v, %v", a, err)
	}
	if text, err := Z.MarshalText(); err != nil || string(text) != "z" {
		t.Errorf("MarshalText(z) = %q, %v", text, err)
	}
	if _, err := Axis(7).MarshalText(); err == nil {
		t.Error("expected error for invalid axis")
	}
	if Axis(7).String() != "Axis(7)" {
		t.Errorf("unexpected String for invalid axis: %s", Axis(7))
	}
}

func TestProject(t *testing.T) {
	v := bsp.Vertex{X: 1, Y: 2, Z: 3}
	tests := []struct {
		axis     Axis
		expected orb.Point
	}{
		{X, orb.Point{2, 3}},
		{Y, orb.Point{1, 3}},
		{Z, orb.Point{1, 2}},
	}

	for _, tc := range tests {
		if got := Project(tc.axis, v); got != tc.expected {
			t.Errorf("Project(%s): expected %v, got %v", tc.axis, tc.expected, got)
		}
	}
}

func TestProjectFace_KeepsWinding(t *testing.T) {
	ring := ProjectFace(Z, square())
	expected := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !ring.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, ring)
	}
}

func TestProjector_Flip(t *testing.T) {
	face := square()
	bound, ok := Bound(Z, []*bsp.Face{face})
	if !ok {
		t.Fatal("expected a bound")
	}
	if bound.Min != (orb.Point{0, 0}) || bound.Max != (orb.Point{10, 10}) {
		t.Errorf("unexpected bound %v", bound)
	}

	p := NewProjector(Z, bound)
	ring := p.Face(face)
	expected := orb.Ring{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if !ring.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, ring)
	}
}

func TestProjector_FlipOffsetBound(t *testing.T) {
	p := NewProjector(X, orb.Bound{Min: orb.Point{-64, 32}, Max: orb.Point{64, 96}})

	// Source up 32 (bottom) maps to 96, source up 96 (top) maps to 32.
	if got := p.Point(bsp.Vertex{X: 5, Y: 0, Z: 32}); got != (orb.Point{0, 96}) {
		t.Errorf("expected (0, 96), got %v", got)
	}
	if got := p.Point(bsp.Vertex{X: 5, Y: 0, Z: 96}); got != (orb.Point{0, 32}) {
		t.Errorf("expected (0, 32), got %v", got)
	}
}

func TestBound_Empty(t *testing.T) {
	if _, ok := Bound(Z, nil); ok {
		t.Error("expected no bound for no faces")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{10, "10"},
		{-64, "-64"},
		{0.5, "0.5"},
		{-12.25, "-12.25"},
		{0, "0"},
	}

	for _, tc := range tests {
		if got := FormatNumber(tc.value); got != tc.expected {
			t.Errorf("FormatNumber(%v): expected %q, got %q", tc.value, tc.expected, got)
		}
	}

	if got := FormatNumber(math.Copysign(0, -1)); got != "0" {
		t.Errorf("expected negative zero to format as 0, got %q", got)
	}
}
