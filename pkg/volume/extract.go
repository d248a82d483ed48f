package volume

import (
	"fmt"
)

// Axis names one of the three volume axes for plane extraction.
type Axis uint8

const (
	// AxisBand selects row-column planes at a fixed band.
	AxisBand Axis = iota

	// AxisRow selects band-column planes at a fixed row.
	AxisRow

	// AxisColumn selects band-row planes at a fixed column.
	AxisColumn
)

// String returns the lowercase name of the axis.
func (a Axis) String() string {
	switch a {
	case AxisBand:
		return "band"
	case AxisRow:
		return "row"
	case AxisColumn:
		return "column"
	default:
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
}

// ExtractSlice copies the 2D plane of voxel values perpendicular to the
// given axis at the given position. The plane is returned in row-major
// order together with its width and height, with values read as float64
// regardless of the volume's kind.
func (v *Volume) ExtractSlice(axis Axis, position int) ([]float64, int, int, error) {
	if position < 0 {
		return nil, 0, 0, fmt.Errorf("volume: position must be non-negative")
	}

	switch axis {
	case AxisBand:
		if position >= v.nbands {
			return nil, 0, 0, fmt.Errorf("volume: position %d exceeds band extent %d", position, v.nbands)
		}
		w, h := v.ncols, v.nrows
		plane := make([]float64, w*h)
		for r := 0; r < v.nrows; r++ {
			for c := 0; c < v.ncols; c++ {
				plane[r*w+c] = v.Value(position, r, c)
			}
		}
		return plane, w, h, nil

	case AxisRow:
		if position >= v.nrows {
			return nil, 0, 0, fmt.Errorf("volume: position %d exceeds row extent %d", position, v.nrows)
		}
		w, h := v.ncols, v.nbands
		plane := make([]float64, w*h)
		for b := 0; b < v.nbands; b++ {
			for c := 0; c < v.ncols; c++ {
				plane[b*w+c] = v.Value(b, position, c)
			}
		}
		return plane, w, h, nil

	case AxisColumn:
		if position >= v.ncols {
			return nil, 0, 0, fmt.Errorf("volume: position %d exceeds column extent %d", position, v.ncols)
		}
		w, h := v.nrows, v.nbands
		plane := make([]float64, w*h)
		for b := 0; b < v.nbands; b++ {
			for r := 0; r < v.nrows; r++ {
				plane[b*w+r] = v.Value(b, r, position)
			}
		}
		return plane, w, h, nil

	default:
		return nil, 0, 0, fmt.Errorf("volume: invalid axis %s", axis)
	}
}

// ExtractRegion copies a sub-volume of the same kind starting at
// (band0, row0, col0) with the given extents. The copy carries no
// attributes.
func (v *Volume) ExtractRegion(band0, row0, col0, nbands, nrows, ncols int) (*Volume, error) {
	if band0 < 0 || row0 < 0 || col0 < 0 {
		return nil, fmt.Errorf("volume: start coordinates must be non-negative")
	}
	if nbands < 1 || nrows < 1 || ncols < 1 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidExtents, nbands, nrows, ncols)
	}
	if band0+nbands > v.nbands || row0+nrows > v.nrows || col0+ncols > v.ncols {
		return nil, fmt.Errorf("volume: region extends beyond volume boundaries")
	}

	out, err := New(v.kind, nbands, nrows, ncols)
	if err != nil {
		return nil, err
	}

	// Copy row by row; rows are contiguous along the column axis.
	for b := 0; b < nbands; b++ {
		for r := 0; r < nrows; r++ {
			src := v.Index(band0+b, row0+r, col0)
			dst := out.Index(b, r, 0)
			switch v.kind {
			case Bit:
				copy(out.bits[dst:dst+ncols], v.bits[src:src+ncols])
			case Short:
				copy(out.shorts[dst:dst+ncols], v.shorts[src:src+ncols])
			case Float:
				copy(out.floats[dst:dst+ncols], v.floats[src:src+ncols])
			}
		}
	}

	return out, nil
}
