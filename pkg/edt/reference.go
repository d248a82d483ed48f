package edt

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"voxeldist/pkg/volume"
)

// fgPoint is a foreground voxel coordinate in (band, row, column) order.
type fgPoint struct {
	B, R, C float64
}

// Compare implements the kdtree.Comparable interface
func (p fgPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(fgPoint)
	switch d {
	case 0:
		return p.B - q.B
	case 1:
		return p.R - q.R
	default:
		return p.C - q.C
	}
}

// Dims returns the number of dimensions for the KD-tree
func (p fgPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between two points
func (p fgPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(fgPoint)
	db := p.B - q.B
	dr := p.R - q.R
	dc := p.C - q.C
	return db*db + dr*dr + dc*dc
}

// fgPoints is a collection of fgPoint that satisfies kdtree.Interface
type fgPoints []fgPoint

func (p fgPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p fgPoints) Len() int                              { return len(p) }
func (p fgPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot implements the kdtree.Interface method
func (p fgPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(fgPlane{fgPoints: p, Dim: d}, kdtree.MedianOfRandoms(fgPlane{fgPoints: p, Dim: d}, 100))
}

// fgPlane implements sort.Interface and kdtree.SortSlicer for fgPoints
type fgPlane struct {
	fgPoints
	kdtree.Dim
}

func (p fgPlane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.fgPoints[i].B < p.fgPoints[j].B
	case 1:
		return p.fgPoints[i].R < p.fgPoints[j].R
	default:
		return p.fgPoints[i].C < p.fgPoints[j].C
	}
}

func (p fgPlane) Slice(start, end int) kdtree.SortSlicer {
	return fgPlane{fgPoints: p.fgPoints[start:end], Dim: p.Dim}
}

func (p fgPlane) Swap(i, j int) {
	p.fgPoints[i], p.fgPoints[j] = p.fgPoints[j], p.fgPoints[i]
}

// ReferenceField computes the exact squared distance from every voxel of
// the binary volume src to its nearest foreground voxel by KD-tree search,
// with no scan clamping. Background voxels of a volume without any
// foreground are +Inf. The search visits every voxel and is meant for
// validating the scanning engine on small volumes, not for production use.
func ReferenceField(src *volume.Volume) ([]float64, error) {
	if src == nil || src.Kind() != volume.Bit {
		return nil, ErrInvalidInputKind
	}

	bits := src.Bits()
	points := make(fgPoints, 0, 64)
	i := 0
	for b := 0; b < src.NBands(); b++ {
		for r := 0; r < src.NRows(); r++ {
			for c := 0; c < src.NCols(); c++ {
				if bits[i] != 0 {
					points = append(points, fgPoint{B: float64(b), R: float64(r), C: float64(c)})
				}
				i++
			}
		}
	}

	field := make([]float64, src.Voxels())
	if len(points) == 0 {
		for j := range field {
			field[j] = math.Inf(1)
		}
		return field, nil
	}

	tree := kdtree.New(points, true)
	i = 0
	for b := 0; b < src.NBands(); b++ {
		for r := 0; r < src.NRows(); r++ {
			for c := 0; c < src.NCols(); c++ {
				if bits[i] != 0 {
					field[i] = 0
				} else {
					_, d := tree.Nearest(fgPoint{B: float64(b), R: float64(r), C: float64(c)})
					field[i] = d
				}
				i++
			}
		}
	}

	return field, nil
}
