package stats

import (
	"errors"
	"math"
	"testing"

	"voxeldist/pkg/edt"
	"voxeldist/pkg/volume"
)

// TestSummarizeFloat verifies the descriptive statistics on known values
func TestSummarizeFloat(t *testing.T) {
	v, err := volume.New(volume.Float, 1, 2, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i, value := range []float32{0, 1, 2, 3} {
		v.Floats()[i] = value
	}

	s, err := Summarize(v)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if s.Voxels != 4 {
		t.Errorf("Expected 4 voxels, got %d", s.Voxels)
	}
	if s.Min != 0 || s.Max != 3 {
		t.Errorf("Expected min 0 and max 3, got %f and %f", s.Min, s.Max)
	}
	if math.Abs(s.Mean-1.5) > 1e-9 {
		t.Errorf("Expected mean 1.5, got %f", s.Mean)
	}
	if math.Abs(s.Median-1.5) > 1e-9 {
		t.Errorf("Expected median 1.5, got %f", s.Median)
	}

	// Sample standard deviation of 0..3
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(s.StdDev-want) > 1e-9 {
		t.Errorf("Expected stddev %f, got %f", want, s.StdDev)
	}
}

// TestSummarizeShort verifies that fixed-point values are summarized
// without rescaling
func TestSummarizeShort(t *testing.T) {
	v, err := volume.New(volume.Short, 1, 1, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	copy(v.Shorts(), []int16{10, 30, 20})

	s, err := Summarize(v)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if s.Min != 10 || s.Max != 30 {
		t.Errorf("Expected min 10 and max 30, got %f and %f", s.Min, s.Max)
	}
	if s.Mean != 20 || s.Median != 20 {
		t.Errorf("Expected mean and median 20, got %f and %f", s.Mean, s.Median)
	}
}

// TestSummarizeSingleVoxel verifies the degenerate one-voxel volume
func TestSummarizeSingleVoxel(t *testing.T) {
	v, err := volume.New(volume.Float, 1, 1, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v.Fill(2.5)

	s, err := Summarize(v)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.StdDev != 0 {
		t.Errorf("Expected stddev 0 for a single voxel, got %f", s.StdDev)
	}
	if s.Min != 2.5 || s.Max != 2.5 || s.Mean != 2.5 || s.Median != 2.5 {
		t.Error("Expected all statistics to equal the single voxel value")
	}
}

// TestSummarizeRejectsBit verifies the kind check
func TestSummarizeRejectsBit(t *testing.T) {
	v, err := volume.New(volume.Bit, 1, 1, 1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := Summarize(v); !errors.Is(err, ErrNonNumeric) {
		t.Errorf("Expected ErrNonNumeric, got %v", err)
	}
	if _, err := Summarize(nil); !errors.Is(err, ErrNonNumeric) {
		t.Errorf("Expected ErrNonNumeric for nil volume, got %v", err)
	}
}

// TestCompare verifies the voxelwise difference metrics
func TestCompare(t *testing.T) {
	a, err := volume.New(volume.Float, 1, 2, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := volume.New(volume.Float, 1, 2, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	copy(a.Floats(), []float32{0, 1, 2, 3})
	copy(b.Floats(), []float32{0, 2, 2, 5})

	cmp, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	wantRMSE := math.Sqrt(5.0 / 4.0)
	if math.Abs(cmp.RMSE-wantRMSE) > 1e-9 {
		t.Errorf("Expected RMSE %f, got %f", wantRMSE, cmp.RMSE)
	}
	if cmp.MaxAbsDiff != 2 {
		t.Errorf("Expected max abs diff 2, got %f", cmp.MaxAbsDiff)
	}

	// Identical volumes compare to zero
	same, err := Compare(a, a)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if same.RMSE != 0 || same.MaxAbsDiff != 0 {
		t.Errorf("Expected zero metrics for identical volumes, got %+v", same)
	}
}

// TestCompareErrors verifies kind and shape validation
func TestCompareErrors(t *testing.T) {
	a, _ := volume.New(volume.Float, 1, 2, 2)
	shapeMismatch, _ := volume.New(volume.Float, 1, 2, 3)
	bit, _ := volume.New(volume.Bit, 1, 2, 2)

	if _, err := Compare(a, shapeMismatch); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Expected ErrShapeMismatch, got %v", err)
	}
	if _, err := Compare(a, bit); !errors.Is(err, ErrNonNumeric) {
		t.Errorf("Expected ErrNonNumeric, got %v", err)
	}
	if _, err := Compare(bit, a); !errors.Is(err, ErrNonNumeric) {
		t.Errorf("Expected ErrNonNumeric, got %v", err)
	}
}

// TestForegroundCount verifies counting and the kind check
func TestForegroundCount(t *testing.T) {
	v, err := volume.New(volume.Bit, 2, 2, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v.SetBit(0, 0, 0, 1)
	v.SetBit(1, 1, 1, 1)
	v.SetBit(0, 1, 0, 1)

	count, err := ForegroundCount(v)
	if err != nil {
		t.Fatalf("ForegroundCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 foreground voxels, got %d", count)
	}

	fraction, err := ForegroundFraction(v)
	if err != nil {
		t.Fatalf("ForegroundFraction failed: %v", err)
	}
	if math.Abs(fraction-3.0/8.0) > 1e-9 {
		t.Errorf("Expected fraction 0.375, got %f", fraction)
	}

	numeric, _ := volume.New(volume.Float, 1, 1, 1)
	if _, err := ForegroundCount(numeric); !errors.Is(err, ErrNotBinary) {
		t.Errorf("Expected ErrNotBinary, got %v", err)
	}
}

// TestSummarizeDistanceField verifies the statistics of an actual
// transform output: a 3x3x3 volume with its center voxel set
func TestSummarizeDistanceField(t *testing.T) {
	src, err := volume.New(volume.Bit, 3, 3, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	src.SetBit(1, 1, 1, 1)

	dist, err := edt.EuclideanDist3D(src, nil, volume.Float)
	if err != nil {
		t.Fatalf("EuclideanDist3D failed: %v", err)
	}

	s, err := Summarize(dist)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	// 1 center at 0, 6 faces at 1, 12 edges at sqrt(2), 8 corners at sqrt(3)
	if s.Voxels != 27 {
		t.Errorf("Expected 27 voxels, got %d", s.Voxels)
	}
	if s.Min != 0 {
		t.Errorf("Expected min 0, got %f", s.Min)
	}
	if math.Abs(s.Max-math.Sqrt(3)) > 1e-5 {
		t.Errorf("Expected max sqrt(3), got %f", s.Max)
	}
	if math.Abs(s.Median-math.Sqrt2) > 1e-5 {
		t.Errorf("Expected median sqrt(2), got %f", s.Median)
	}

	wantMean := (6 + 12*math.Sqrt2 + 8*math.Sqrt(3)) / 27
	if math.Abs(s.Mean-wantMean) > 1e-5 {
		t.Errorf("Expected mean %f, got %f", wantMean, s.Mean)
	}
}
