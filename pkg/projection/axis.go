// Package projection maps model-space vertices onto a 2D drawing plane.
package projection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAxis is returned when an axis name is not x, y or z.
var ErrInvalidAxis = errors.New("invalid axis: expected x, y or z")

// Axis is a principal axis. Its value is the vertex component index and
// matches the axial plane type codes.
type Axis int

// Principal axes.
const (
	X Axis = iota
	Y
	Z
)

// axisTable lists, per viewing axis, the vertex components used as the
// drawing (right, up) pair.
var axisTable = [3][2]int{
	X: {1, 2}, // (y, z)
	Y: {0, 2}, // (x, z)
	Z: {0, 1}, // (x, y)
}

// ParseAxis parses "x", "y" or "z" (case-insensitive).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return X, nil
	case "y":
		return Y, nil
	case "z":
		return Z, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, s)
}

// Valid reports whether a is X, Y or Z.
func (a Axis) Valid() bool {
	return a >= X && a <= Z
}

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAxis, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Components returns the vertex component indices drawn as (right, up).
func (a Axis) Components() (right, up int) {
	c := axisTable[a]
	return c[0], c[1]
}
