package edt

import (
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"voxeldist/pkg/volume"
)

// engine carries one transform invocation: the source bits, the working
// squared-distance field and the line scratch pool. The field holds, after
// each pass, the minimum of value + squared offset over all axes processed
// so far; foreground voxels stay 0 throughout.
type engine struct {
	bits   []uint8
	field  []float32
	nbands int
	nrows  int
	ncols  int

	workers  int
	progress ProgressCallback

	// scratch pools float64 line buffers sized to the largest extent,
	// shared by the row and band passes. A sequential run keeps reusing
	// a single buffer; parallel lanes draw one each.
	scratch sync.Pool
}

func newEngine(src *volume.Volume, field []float32, opts Options) *engine {
	e := &engine{
		bits:     src.Bits(),
		field:    field,
		nbands:   src.NBands(),
		nrows:    src.NRows(),
		ncols:    src.NCols(),
		workers:  opts.Workers,
		progress: opts.Progress,
	}
	size := max(e.nbands, e.nrows, e.ncols)
	e.scratch.New = func() any { return make([]float64, size) }
	return e
}

// run fills the field with squared distances in three axis passes. Each
// pass completes on every voxel before the next one starts.
func (e *engine) run() {
	e.columnPass()
	e.report(1, "column scan")
	e.rowPass()
	e.report(2, "row minimization")
	e.bandPass()
	e.report(3, "band minimization")
}

func (e *engine) report(completed int, message string) {
	if e.progress != nil {
		e.progress(completed, transformStages, message)
	}
}

// lanes runs fn for every index in [0, n), fanning out across workers when
// parallelism is enabled. It returns only after every lane has finished,
// so no lane of one pass can observe another pass in flight.
func (e *engine) lanes(n int, fn func(i int)) {
	if e.workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *engine) getScratch() []float64 {
	return e.scratch.Get().([]float64)
}

func (e *engine) putScratch(s []float64) {
	e.scratch.Put(s)
}

// columnPass seeds the field with squared distances measured along the
// column axis alone. Foreground voxels become 0. A scan that reaches the
// row boundary without a hit counts ncols steps, so the clamp value for
// unreachable foreground is ncols*ncols before minimization.
func (e *engine) columnPass() {
	e.lanes(e.nbands, func(b int) {
		for r := 0; r < e.nrows; r++ {
			base := (b*e.nrows + r) * e.ncols
			row := e.bits[base : base+e.ncols]
			out := e.field[base : base+e.ncols]

			// A row with no foreground clamps to ncols*ncols at
			// every position, the same value the per-voxel scans
			// produce; fill it directly.
			if !anyForeground(row) {
				clamp := float32(e.ncols) * float32(e.ncols)
				for c := range out {
					out[c] = clamp
				}
				continue
			}

			for c := 0; c < e.ncols; c++ {
				if row[c] != 0 {
					out[c] = 0
					continue
				}

				cc := c
				for cc < e.ncols && row[cc] == 0 {
					cc++
				}
				d1 := e.ncols
				if cc < e.ncols {
					d1 = cc - c
				}

				cc = c
				for cc >= 0 && row[cc] == 0 {
					cc--
				}
				d2 := e.ncols
				if cc >= 0 {
					d2 = c - cc
				}

				d := min(d1, d2)
				out[c] = float32(d) * float32(d)
			}
		}
	})
}

// rowPass folds squared row offsets into the field. After the column pass
// the lines along the row axis are independent of each other, so every
// band is a lane covering its ncols lines.
func (e *engine) rowPass() {
	e.lanes(e.nbands, func(b int) {
		scratch := e.getScratch()
		defer e.putScratch(scratch)

		for c := 0; c < e.ncols; c++ {
			for r := 0; r < e.nrows; r++ {
				scratch[r] = float64(e.field[(b*e.nrows+r)*e.ncols+c])
			}
			for r := 0; r < e.nrows; r++ {
				idx := (b*e.nrows+r)*e.ncols + c
				if e.bits[idx] != 0 {
					continue
				}
				e.field[idx] = float32(lineMin(scratch, e.nrows, r))
			}
		}
	})
}

// bandPass folds squared band offsets into the field, completing the
// squared distances. Every row is a lane covering its ncols lines.
func (e *engine) bandPass() {
	e.lanes(e.nrows, func(r int) {
		scratch := e.getScratch()
		defer e.putScratch(scratch)

		for c := 0; c < e.ncols; c++ {
			for b := 0; b < e.nbands; b++ {
				scratch[b] = float64(e.field[(b*e.nrows+r)*e.ncols+c])
			}
			for b := 0; b < e.nbands; b++ {
				idx := (b*e.nrows+r)*e.ncols + c
				if e.bits[idx] != 0 {
					continue
				}
				e.field[idx] = float32(lineMin(scratch, e.nbands, b))
			}
		}
	})
}

// lineMin returns the minimum of scratch[j] + (i-j)^2 over the window of
// candidates that can still improve on scratch[i]. An offset of floor(g)+1
// or more, with g = sqrt(scratch[i]), already exceeds scratch[i] on its
// own, so the window [i-floor(g), i+floor(g)+1) always contains the
// minimizer.
func lineMin(scratch []float64, n, i int) float64 {
	g := int(math.Sqrt(scratch[i]))
	start := i - g
	if start < 0 {
		start = 0
	}
	end := i + g + 1
	if end > n {
		end = n
	}

	dmin := math.Inf(1)
	for j := start; j < end; j++ {
		off := float64(i - j)
		if u := scratch[j] + off*off; u < dmin {
			dmin = u
		}
	}
	return dmin
}

func anyForeground(row []uint8) bool {
	for _, v := range row {
		if v != 0 {
			return true
		}
	}
	return false
}

// finalizeFloat converts the squared-distance field to distances in place.
func finalizeFloat(field []float32) {
	for i, v := range field {
		field[i] = float32(math.Sqrt(float64(v)))
	}
}

// finalizeShort encodes distances as fixed-point int16 voxels scaled by
// ShortScale, rounded half away from zero and saturated at the int16
// maximum.
func finalizeShort(field []float32, out []int16) {
	for i, v := range field {
		d := math.Round(ShortScale * math.Sqrt(float64(v)))
		if d > math.MaxInt16 {
			d = math.MaxInt16
		}
		out[i] = int16(d)
	}
}
