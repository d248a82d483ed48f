// Package volume provides a dense 3D voxel container with typed storage,
// descriptive attributes and destination provisioning for in-place pipelines.
package volume

import (
	"errors"
	"fmt"
)

// Kind identifies the voxel representation of a Volume.
type Kind uint8

const (
	// Bit volumes hold single-bit voxels stored one byte each, values 0 or 1.
	Bit Kind = iota

	// Short volumes hold signed 16-bit voxels.
	Short

	// Float volumes hold 32-bit floating point voxels.
	Float
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Bit:
		return "bit"
	case Short:
		return "short"
	case Float:
		return "float"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ErrInvalidExtents is returned when a voxel buffer cannot be laid out
// because one or more of the requested extents is not positive.
var ErrInvalidExtents = errors.New("volume: extents must be positive")

// Volume is a dense 3D voxel array indexed by (band, row, column), with
// bands outermost and columns innermost: the linear index of voxel
// (b, r, c) is (b*nrows+r)*ncols + c. Exactly one backing slice is
// allocated, matching the volume's kind.
type Volume struct {
	kind   Kind
	nbands int
	nrows  int
	ncols  int

	bits   []uint8
	shorts []int16
	floats []float32

	// attrs carries descriptive metadata such as orientation or voxel
	// spacing. The values are stored and copied but never interpreted.
	attrs map[string]string
}

// New allocates a zeroed volume of the given kind and extents.
func New(kind Kind, nbands, nrows, ncols int) (*Volume, error) {
	if nbands < 1 || nrows < 1 || ncols < 1 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidExtents, nbands, nrows, ncols)
	}

	v := &Volume{
		kind:   kind,
		nbands: nbands,
		nrows:  nrows,
		ncols:  ncols,
		attrs:  make(map[string]string),
	}

	n := nbands * nrows * ncols
	switch kind {
	case Bit:
		v.bits = make([]uint8, n)
	case Short:
		v.shorts = make([]int16, n)
	case Float:
		v.floats = make([]float32, n)
	default:
		return nil, fmt.Errorf("volume: unknown kind %s", kind)
	}

	return v, nil
}

// SelectDest returns dest when it already has the requested kind and
// extents, and a freshly allocated volume otherwise. A dest that does not
// match is never modified, and a reused dest keeps its voxel data: callers
// that reuse destinations are expected to overwrite every voxel.
func SelectDest(dest *Volume, kind Kind, nbands, nrows, ncols int) (*Volume, error) {
	if dest != nil && dest.kind == kind &&
		dest.nbands == nbands && dest.nrows == nrows && dest.ncols == ncols {
		return dest, nil
	}
	return New(kind, nbands, nrows, ncols)
}

// Kind returns the voxel representation of the volume.
func (v *Volume) Kind() Kind { return v.kind }

// NBands returns the extent of the outermost axis.
func (v *Volume) NBands() int { return v.nbands }

// NRows returns the extent of the middle axis.
func (v *Volume) NRows() int { return v.nrows }

// NCols returns the extent of the innermost axis.
func (v *Volume) NCols() int { return v.ncols }

// Voxels returns the total number of voxels.
func (v *Volume) Voxels() int { return v.nbands * v.nrows * v.ncols }

// Index returns the linear index of voxel (b, r, c).
func (v *Volume) Index(b, r, c int) int {
	return (b*v.nrows+r)*v.ncols + c
}

// SameShape reports whether o has identical extents.
func (v *Volume) SameShape(o *Volume) bool {
	return o != nil && v.nbands == o.nbands && v.nrows == o.nrows && v.ncols == o.ncols
}

// Bits returns the backing voxel slice of a Bit volume, nil otherwise.
func (v *Volume) Bits() []uint8 { return v.bits }

// Shorts returns the backing voxel slice of a Short volume, nil otherwise.
func (v *Volume) Shorts() []int16 { return v.shorts }

// Floats returns the backing voxel slice of a Float volume, nil otherwise.
func (v *Volume) Floats() []float32 { return v.floats }

// Bit returns the voxel at (b, r, c) of a Bit volume.
func (v *Volume) Bit(b, r, c int) uint8 {
	return v.bits[v.Index(b, r, c)]
}

// SetBit stores a single-bit voxel at (b, r, c); any nonzero value stores 1.
func (v *Volume) SetBit(b, r, c int, value uint8) {
	if value != 0 {
		value = 1
	}
	v.bits[v.Index(b, r, c)] = value
}

// ShortAt returns the voxel at (b, r, c) of a Short volume.
func (v *Volume) ShortAt(b, r, c int) int16 {
	return v.shorts[v.Index(b, r, c)]
}

// SetShort stores a voxel at (b, r, c) of a Short volume.
func (v *Volume) SetShort(b, r, c int, value int16) {
	v.shorts[v.Index(b, r, c)] = value
}

// FloatAt returns the voxel at (b, r, c) of a Float volume.
func (v *Volume) FloatAt(b, r, c int) float32 {
	return v.floats[v.Index(b, r, c)]
}

// SetFloat stores a voxel at (b, r, c) of a Float volume.
func (v *Volume) SetFloat(b, r, c int, value float32) {
	v.floats[v.Index(b, r, c)] = value
}

// Value reads the voxel at (b, r, c) as a float64 regardless of kind.
func (v *Volume) Value(b, r, c int) float64 {
	switch v.kind {
	case Bit:
		return float64(v.bits[v.Index(b, r, c)])
	case Short:
		return float64(v.shorts[v.Index(b, r, c)])
	default:
		return float64(v.floats[v.Index(b, r, c)])
	}
}

// Fill sets every voxel to value, converted to the volume's kind.
// For Bit volumes any nonzero value stores 1.
func (v *Volume) Fill(value float64) {
	switch v.kind {
	case Bit:
		var b uint8
		if value != 0 {
			b = 1
		}
		for i := range v.bits {
			v.bits[i] = b
		}
	case Short:
		s := int16(value)
		for i := range v.shorts {
			v.shorts[i] = s
		}
	case Float:
		f := float32(value)
		for i := range v.floats {
			v.floats[i] = f
		}
	}
}

// SetAttr records a named attribute on the volume.
func (v *Volume) SetAttr(name, value string) {
	if v.attrs == nil {
		v.attrs = make(map[string]string)
	}
	v.attrs[name] = value
}

// Attr returns the named attribute and whether it is set.
func (v *Volume) Attr(name string) (string, bool) {
	value, ok := v.attrs[name]
	return value, ok
}

// Attrs returns a copy of the volume's attribute set.
func (v *Volume) Attrs() map[string]string {
	out := make(map[string]string, len(v.attrs))
	for name, value := range v.attrs {
		out[name] = value
	}
	return out
}

// CopyAttrsFrom replaces the volume's attributes with a verbatim copy of
// src's attributes.
func (v *Volume) CopyAttrsFrom(src *Volume) {
	v.attrs = make(map[string]string, len(src.attrs))
	for name, value := range src.attrs {
		v.attrs[name] = value
	}
}
