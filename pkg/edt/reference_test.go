package edt

import (
	"errors"
	"math"
	"testing"

	"voxeldist/pkg/volume"
)

// TestReferenceFieldSinglePoint verifies the oracle against the direct
// formula around one foreground voxel
func TestReferenceFieldSinglePoint(t *testing.T) {
	src := newBitVolume(t, 3, 3, 3, [3]int{1, 1, 1})

	field, err := ReferenceField(src)
	if err != nil {
		t.Fatalf("ReferenceField failed: %v", err)
	}
	if len(field) != src.Voxels() {
		t.Fatalf("Expected %d field values, got %d", src.Voxels(), len(field))
	}

	for b := 0; b < 3; b++ {
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				d := trueDistance(b, r, c, [3]int{1, 1, 1})
				want := d * d
				if got := field[src.Index(b, r, c)]; got != want {
					t.Errorf("Voxel (%d,%d,%d): expected squared distance %f, got %f", b, r, c, want, got)
				}
			}
		}
	}
}

// TestReferenceFieldNearestWins verifies that the closer of two foreground
// voxels is chosen
func TestReferenceFieldNearestWins(t *testing.T) {
	src := newBitVolume(t, 1, 1, 5, [3]int{0, 0, 0}, [3]int{0, 0, 4})

	field, err := ReferenceField(src)
	if err != nil {
		t.Fatalf("ReferenceField failed: %v", err)
	}

	expected := []float64{0, 1, 4, 1, 0}
	for c, want := range expected {
		if field[c] != want {
			t.Errorf("Column %d: expected squared distance %f, got %f", c, want, field[c])
		}
	}
}

// TestReferenceFieldNoForeground verifies the +Inf convention
func TestReferenceFieldNoForeground(t *testing.T) {
	src, err := volume.New(volume.Bit, 2, 2, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	field, err := ReferenceField(src)
	if err != nil {
		t.Fatalf("ReferenceField failed: %v", err)
	}
	for i, v := range field {
		if !math.IsInf(v, 1) {
			t.Errorf("Expected +Inf at voxel %d, got %f", i, v)
		}
	}
}

// TestReferenceFieldInvalidInput verifies the input kind check
func TestReferenceFieldInvalidInput(t *testing.T) {
	if _, err := ReferenceField(nil); !errors.Is(err, ErrInvalidInputKind) {
		t.Errorf("Expected ErrInvalidInputKind for nil input, got %v", err)
	}

	src, err := volume.New(volume.Float, 2, 2, 2)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := ReferenceField(src); !errors.Is(err, ErrInvalidInputKind) {
		t.Errorf("Expected ErrInvalidInputKind for float input, got %v", err)
	}
}
