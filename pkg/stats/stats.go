// Package stats provides descriptive statistics and voxelwise comparison
// metrics for distance-field volumes.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"voxeldist/pkg/volume"
)

var (
	// ErrNonNumeric rejects volumes that are not Short or Float.
	ErrNonNumeric = errors.New("stats: volume must be of kind short or float")

	// ErrNotBinary rejects volumes that are not Bit.
	ErrNotBinary = errors.New("stats: volume must be of kind bit")

	// ErrShapeMismatch rejects volume pairs with different extents.
	ErrShapeMismatch = errors.New("stats: volumes must have identical extents")
)

// Summary holds descriptive statistics of a numeric volume.
type Summary struct {
	Voxels int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
}

// Comparison holds voxelwise difference metrics between two numeric
// volumes of the same shape.
type Comparison struct {
	RMSE       float64
	MaxAbsDiff float64
}

// Summarize computes descriptive statistics over every voxel of a Short or
// Float volume. Stored values are used as they are: fixed-point Short
// voxels are not rescaled.
func Summarize(v *volume.Volume) (Summary, error) {
	values, err := numericValues(v)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Voxels: len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		Median: median(values),
	}
	if len(values) > 1 {
		s.StdDev = math.Sqrt(stat.Variance(values, nil))
	}
	return s, nil
}

// Compare computes voxelwise difference metrics between two Short or Float
// volumes of identical extents. The kinds may differ; stored values are
// compared without rescaling.
func Compare(a, b *volume.Volume) (Comparison, error) {
	av, err := numericValues(a)
	if err != nil {
		return Comparison{}, err
	}
	bv, err := numericValues(b)
	if err != nil {
		return Comparison{}, err
	}
	if !a.SameShape(b) {
		return Comparison{}, ErrShapeMismatch
	}

	var cmp Comparison
	var sum float64
	for i := range av {
		diff := av[i] - bv[i]
		sum += diff * diff
		if ad := math.Abs(diff); ad > cmp.MaxAbsDiff {
			cmp.MaxAbsDiff = ad
		}
	}
	cmp.RMSE = math.Sqrt(sum / float64(len(av)))
	return cmp, nil
}

// ForegroundCount returns the number of nonzero voxels of a Bit volume.
func ForegroundCount(v *volume.Volume) (int, error) {
	if v == nil || v.Kind() != volume.Bit {
		return 0, ErrNotBinary
	}

	count := 0
	for _, b := range v.Bits() {
		if b != 0 {
			count++
		}
	}
	return count, nil
}

// ForegroundFraction returns the share of nonzero voxels of a Bit volume.
func ForegroundFraction(v *volume.Volume) (float64, error) {
	count, err := ForegroundCount(v)
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(v.Voxels()), nil
}

// numericValues flattens a Short or Float volume to float64 values
func numericValues(v *volume.Volume) ([]float64, error) {
	if v == nil {
		return nil, ErrNonNumeric
	}

	switch v.Kind() {
	case volume.Short:
		values := make([]float64, v.Voxels())
		for i, s := range v.Shorts() {
			values[i] = float64(s)
		}
		return values, nil
	case volume.Float:
		values := make([]float64, v.Voxels())
		for i, f := range v.Floats() {
			values[i] = float64(f)
		}
		return values, nil
	default:
		return nil, ErrNonNumeric
	}
}

// median calculates the median value of a slice of float64 values
func median(values []float64) float64 {
	// Work on a copy to avoid reordering the caller's values
	valuesCopy := make([]float64, len(values))
	copy(valuesCopy, values)

	sort.Float64s(valuesCopy)

	n := len(valuesCopy)
	if n == 0 {
		return 0
	}
	if n%2 == 0 {
		return (valuesCopy[n/2-1] + valuesCopy[n/2]) / 2
	}
	return valuesCopy[n/2]
}
