// Package slice splits distances sampled along an axis into layers.
//
// Boundary detection runs three passes over the sorted samples:
//
//  1. Cluster: a sample joins the current cluster when it lies within
//     Threshold of the previous sample.
//  2. Trim: clusters whose size relative to the largest cluster is at most
//     MinRatio are dropped; each survivor contributes its smallest sample.
//  3. Merge: a boundary is kept when it exceeds the previous trimmed
//     boundary (kept or not) by more than MergeGap.
//
// The global minimum and maximum are then added as sentinels.
package slice

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/multierr"
)

// Detection errors.
var (
	ErrEmptyInput    = errors.New("slice: no distances to cluster")
	ErrInvalidParams = errors.New("slice: invalid detection parameters")
)

// Params tunes boundary detection.
type Params struct {
	Threshold float64 `yaml:"threshold"` // Max gap between neighbours of a cluster
	MinRatio  float64 `yaml:"min_ratio"` // Clusters at or below this share of the largest are dropped
	MergeGap  float64 `yaml:"merge_gap"` // Min gap between consecutive boundaries
}

// DefaultParams returns the stock detection parameters.
func DefaultParams() Params {
	return Params{
		Threshold: 1,
		MinRatio:  0.3,
		MergeGap:  64,
	}
}

// Usable parameter ranges. Values outside still work but rarely help.
var (
	ThresholdRange = [2]float64{1, 32}
	MinRatioRange  = [2]float64{0.01, 0.9}
	MergeGapRange  = [2]float64{16, 96}
)

// Validate reports every parameter that makes detection ill-defined.
func (p Params) Validate() error {
	var err error
	if !finite(p.Threshold) || p.Threshold <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: threshold %v must be positive", ErrInvalidParams, p.Threshold))
	}
	if !finite(p.MinRatio) || p.MinRatio < 0 || p.MinRatio >= 1 {
		err = multierr.Append(err, fmt.Errorf("%w: min ratio %v must be in [0, 1)", ErrInvalidParams, p.MinRatio))
	}
	if !finite(p.MergeGap) || p.MergeGap < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: merge gap %v must not be negative", ErrInvalidParams, p.MergeGap))
	}
	return err
}

// OutOfRange returns a message per parameter outside its usable range.
func (p Params) OutOfRange() []string {
	var warnings []string
	check := func(name string, v float64, r [2]float64) {
		if v < r[0] || v > r[1] {
			warnings = append(warnings, fmt.Sprintf("%s %v outside usable range (%v, %v)", name, v, r[0], r[1]))
		}
	}
	check("threshold", p.Threshold, ThresholdRange)
	check("min ratio", p.MinRatio, MinRatioRange)
	check("merge gap", p.MergeGap, MergeGapRange)
	return warnings
}

// Cluster is a run of ascending samples.
type Cluster []float64

// Clusters sorts a copy of distances and groups neighbours that lie within
// threshold of the preceding sample.
func Clusters(distances []float64, threshold float64) []Cluster {
	if len(distances) == 0 {
		return nil
	}

	sorted := append([]float64(nil), distances...)
	sort.Float64s(sorted)

	clusters := []Cluster{{sorted[0]}}
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] <= threshold {
			last := len(clusters) - 1
			clusters[last] = append(clusters[last], sorted[i])
			continue
		}
		clusters = append(clusters, Cluster{sorted[i]})
	}
	return clusters
}

// Trim drops clusters whose size over the largest cluster size is at most
// minRatio and returns the smallest sample of each survivor.
func Trim(clusters []Cluster, minRatio float64) []float64 {
	largest := 0
	for _, c := range clusters {
		largest = max(largest, len(c))
	}
	if largest == 0 {
		return nil
	}

	var boundaries []float64
	for _, c := range clusters {
		if float64(len(c))/float64(largest) > minRatio {
			boundaries = append(boundaries, c[0])
		}
	}
	return boundaries
}

// Merge keeps the first boundary and every later one that exceeds the
// previous input boundary by more than gap. The comparison is against the
// previous input value, not the previous kept one.
func Merge(boundaries []float64, gap float64) []float64 {
	if len(boundaries) == 0 {
		return nil
	}

	kept := []float64{boundaries[0]}
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i]-boundaries[i-1] > gap {
			kept = append(kept, boundaries[i])
		}
	}
	return kept
}

// Detect computes ascending layer boundaries from distance samples.
// The result starts at the smallest sample and ends at the largest. When
// every sample is equal it is that value twice.
func Detect(distances []float64, p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(distances) == 0 {
		return nil, ErrEmptyInput
	}

	clusters := Clusters(distances, p.Threshold)
	merged := Merge(Trim(clusters, p.MinRatio), p.MergeGap)

	lo := clusters[0][0]
	last := clusters[len(clusters)-1]
	hi := last[len(last)-1]

	boundaries := []float64{lo}
	for _, b := range merged {
		if b > boundaries[len(boundaries)-1] {
			boundaries = append(boundaries, b)
		}
	}
	if hi > boundaries[len(boundaries)-1] || len(boundaries) == 1 {
		boundaries = append(boundaries, hi)
	}
	return boundaries, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
