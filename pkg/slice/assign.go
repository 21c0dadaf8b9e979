package slice

import (
	"fmt"
	"sort"
)

// Assign returns the layer index of distance d: the first i with
// boundaries[i] <= d < boundaries[i+1]. Distances no interval captures
// belong to the last layer.
func Assign(boundaries []float64, d float64) int {
	for i := 0; i+1 < len(boundaries); i++ {
		if boundaries[i] <= d && d < boundaries[i+1] {
			return i
		}
	}
	return len(boundaries) - 1
}

// Options selects how layer boundaries are chosen.
type Options struct {
	// Enabled turns slicing on. When off, everything lands in one layer.
	Enabled bool
	// Boundaries are used as-is (after sorting) when non-empty; an empty
	// list enables detection.
	Boundaries []float64
	Params     Params
}

// Resolve returns the boundaries for the given samples.
func (o Options) Resolve(distances []float64) ([]float64, error) {
	if !o.Enabled {
		return []float64{0}, nil
	}

	if len(o.Boundaries) > 0 {
		boundaries := append([]float64(nil), o.Boundaries...)
		for _, b := range boundaries {
			if !finite(b) {
				return nil, fmt.Errorf("%w: boundary %v is not finite", ErrInvalidParams, b)
			}
		}
		sort.Float64s(boundaries)
		return boundaries, nil
	}

	return Detect(distances, o.Params)
}
