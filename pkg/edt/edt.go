// Package edt implements the 3D Euclidean distance transform of Saito and
// Toriwaki ("New algorithms for euclidean distance transformation of a
// n-dimensional picture with applications", Pattern Recognition 27(11),
// 1994). For every background voxel of a binary volume it computes the
// straight-line distance to the nearest foreground voxel, using three
// separable axis passes over a squared-distance field.
package edt

import (
	"errors"
	"fmt"

	"voxeldist/pkg/volume"
)

// Failure modes of the transform. Every failure is fatal to the call: no
// partial result is produced and a caller-supplied destination is left
// untouched.
var (
	// ErrInvalidInputKind rejects source volumes that are not binary.
	ErrInvalidInputKind = errors.New("edt: input volume must be of kind bit")

	// ErrUnsupportedOutputKind rejects output encodings other than short
	// and float.
	ErrUnsupportedOutputKind = errors.New("edt: output kind must be short or float")
)

// ShortScale is the fixed-point factor of Short output: stored voxels are
// round(ShortScale * distance), saturating at the int16 maximum.
const ShortScale = 10

// transformStages is the number of progress stages reported per call:
// the three axis passes and the finalization.
const transformStages = 4

// ProgressCallback receives stage completion notifications during a
// transform.
type ProgressCallback func(completed, total int, message string)

// Options tunes a transform. The zero value runs the strictly sequential
// algorithm with no progress reporting.
type Options struct {
	// Workers caps the number of concurrent lanes per pass. Values below
	// 2 run sequentially. The output does not depend on Workers.
	Workers int

	// Progress, when non-nil, is invoked after each completed stage.
	Progress ProgressCallback
}

// EuclideanDist3D computes the Euclidean distance transform of the binary
// volume src into a volume of the requested kind: volume.Float for plain
// distances, volume.Short for fixed-point distances scaled by ShortScale.
// Foreground is any nonzero voxel. Per-axis scans clamp at ncols steps, so
// distances are exact wherever the true distance does not exceed the
// column extent; a volume with no foreground at all yields that clamp
// everywhere.
//
// When dest already has the requested kind and the source's extents it is
// filled and returned; otherwise a fresh volume is allocated and dest is
// left untouched. The source's attributes are copied onto the result after
// computation.
func EuclideanDist3D(src, dest *volume.Volume, kind volume.Kind) (*volume.Volume, error) {
	return Transform(src, dest, kind, Options{})
}

// Transform is EuclideanDist3D with explicit options.
func Transform(src, dest *volume.Volume, kind volume.Kind, opts Options) (*volume.Volume, error) {
	if src == nil {
		return nil, ErrInvalidInputKind
	}
	if src.Kind() != volume.Bit {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidInputKind, src.Kind())
	}
	if kind != volume.Short && kind != volume.Float {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedOutputKind, kind)
	}

	dest, err := volume.SelectDest(dest, kind, src.NBands(), src.NRows(), src.NCols())
	if err != nil {
		return nil, fmt.Errorf("edt: selecting destination: %w", err)
	}

	// For float output the destination's own storage holds the working
	// squared-distance field; short output works in a transient field and
	// encodes into the destination at the end.
	var field []float32
	if kind == volume.Float {
		field = dest.Floats()
	} else {
		field = make([]float32, src.Voxels())
	}

	e := newEngine(src, field, opts)
	e.run()

	if kind == volume.Float {
		finalizeFloat(field)
	} else {
		finalizeShort(field, dest.Shorts())
	}
	if opts.Progress != nil {
		opts.Progress(transformStages, transformStages, "finalization")
	}

	dest.CopyAttrsFrom(src)
	return dest, nil
}
