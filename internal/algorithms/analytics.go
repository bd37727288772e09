package algorithms

import (
	"fmt"
	"math"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/space"
)

// CountNNZPerRow writes the number of stored entries of each row into out,
// or adds them to out when init is false. DIA counts in-range diagonal
// slots, ELL counts non-padding slots and DENSE counts non-zero values.
func CountNNZPerRow[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V], out *matrix.DenseVector[int], init bool) error {
	c := matrix.Concrete(a)
	if err := checkAccess(OpCountNNZPerRow, c.Format(), exec, c, out); err != nil {
		return err
	}
	if out.Size() != c.NRows() {
		return matrix.NewOpError(string(OpCountNNZPerRow), c.Format(), exec.Name(),
			fmt.Errorf("%w: %d rows into a vector of %d", matrix.ErrSizeMismatch, c.NRows(), out.Size()))
	}
	k, err := lookup(kernelsFor[V]().countNNZPerRow, OpCountNNZPerRow, c.Format(), exec, matrix.Alg0)
	if err != nil {
		return err
	}
	k(exec, c, out.Data(), init)
	return nil
}

func registerAnalytics[V matrix.Value](k *kernels[V]) {
	for _, b := range hostBackends {
		key := func(f matrix.Format) kernelKey {
			return kernelKey{op: OpCountNNZPerRow, format: f, backend: b, alg: matrix.Alg0}
		}
		register(k.countNNZPerRow, key(matrix.FormatCOO), rowCountFor(cooCountPerRow[V]))
		register(k.countNNZPerRow, key(matrix.FormatCSR), rowCountFor(csrCountPerRow[V]))
		register(k.countNNZPerRow, key(matrix.FormatDIA), rowCountFor(diaCountPerRow[V]))
		register(k.countNNZPerRow, key(matrix.FormatELL), rowCountFor(ellCountPerRow[V]))
		register(k.countNNZPerRow, key(matrix.FormatDense), rowCountFor(denseCountPerRow[V]))
	}
}

func cooCountPerRow[V matrix.Value](exec space.ExecutionSpace, a *matrix.CooMatrix[V], out []int, init bool) {
	if init {
		clear(out)
	}
	rows := a.RowIndices().Data()
	privateScatter(exec, len(rows), out, func(acc []int, lo, hi int) {
		for _, r := range rows[lo:hi] {
			acc[r]++
		}
	})
}

// perRow runs count over every row and stores or accumulates the result.
func perRow(exec space.ExecutionSpace, out []int, init bool, count func(i int) int) {
	exec.ParallelFor(len(out), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if init {
				out[i] = count(i)
			} else {
				out[i] += count(i)
			}
		}
	})
}

func csrCountPerRow[V matrix.Value](exec space.ExecutionSpace, a *matrix.CsrMatrix[V], out []int, init bool) {
	off := a.RowOffsets().Data()
	perRow(exec, out, init, func(i int) int { return off[i+1] - off[i] })
}

func diaCountPerRow[V matrix.Value](exec space.ExecutionSpace, a *matrix.DiaMatrix[V], out []int, init bool) {
	offsets := a.DiagonalOffsets().Data()
	ncols := a.NCols()
	perRow(exec, out, init, func(i int) int {
		n := 0
		for _, off := range offsets {
			if j := i + off; j >= 0 && j < ncols {
				n++
			}
		}
		return n
	})
}

func ellCountPerRow[V matrix.Value](exec space.ExecutionSpace, a *matrix.EllMatrix[V], out []int, init bool) {
	cols := a.ColumnIndices().Data()
	width := a.PaddedWidth()
	perRow(exec, out, init, func(i int) int {
		n := 0
		for _, c := range cols[i*width : (i+1)*width] {
			if c != matrix.InvalidIndex {
				n++
			}
		}
		return n
	})
}

func denseCountPerRow[V matrix.Value](exec space.ExecutionSpace, a *matrix.DenseMatrix[V], out []int, init bool) {
	data, ncols := a.Values().Data(), a.NCols()
	perRow(exec, out, init, func(i int) int {
		n := 0
		for _, v := range data[i*ncols : (i+1)*ncols] {
			if v != 0 {
				n++
			}
		}
		return n
	})
}

func NumberOfRows[V matrix.Value](a matrix.Matrix[V]) int    { return a.NRows() }
func NumberOfColumns[V matrix.Value](a matrix.Matrix[V]) int { return a.NCols() }
func NumberOfNNZ[V matrix.Value](a matrix.Matrix[V]) int     { return a.NNNZ() }

// AverageNNZ is the mean number of non-zeros per row, zero for an empty
// matrix.
func AverageNNZ[V matrix.Value](a matrix.Matrix[V]) float64 {
	if a.NRows() == 0 {
		return 0
	}
	return float64(a.NNNZ()) / float64(a.NRows())
}

// Stats summarizes the row distribution of a matrix.
type Stats struct {
	Rows, Cols, NNZ int
	Average         float64
	Max, Min        int
	Std             float64
}

// Analyze counts non-zeros per row on exec and summarizes them. Average,
// Max, Min and Std all describe the CountNNZPerRow counts, which for DIA
// and DENSE can differ from the stored NNZ. They are zero for a matrix
// without rows.
func Analyze[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V]) (Stats, error) {
	s := Stats{Rows: a.NRows(), Cols: a.NCols(), NNZ: a.NNNZ()}
	if s.Rows == 0 {
		return s, nil
	}
	counts := matrix.NewDenseVector(exec.MemorySpace(), s.Rows, 0)
	if err := CountNNZPerRow(exec, a, counts, true); err != nil {
		return s, err
	}
	data := counts.Data()

	type extent struct{ lo, hi int }
	e := space.ReduceFunc(exec, len(data), extent{math.MaxInt, math.MinInt}, func(lo, hi int) extent {
		r := extent{math.MaxInt, math.MinInt}
		for _, n := range data[lo:hi] {
			r.lo, r.hi = min(r.lo, n), max(r.hi, n)
		}
		return r
	}, func(x, y extent) extent {
		return extent{min(x.lo, y.lo), max(x.hi, y.hi)}
	})
	s.Min, s.Max = e.lo, e.hi

	total := space.Reduce(exec, len(data), func(lo, hi int) int {
		n := 0
		for _, c := range data[lo:hi] {
			n += c
		}
		return n
	})
	mean := float64(total) / float64(s.Rows)
	s.Average = mean
	sq := space.Reduce(exec, len(data), func(lo, hi int) float64 {
		var acc float64
		for _, c := range data[lo:hi] {
			d := float64(c) - mean
			acc += d * d
		}
		return acc
	})
	s.Std = math.Sqrt(sq / float64(s.Rows))
	return s, nil
}

// MaxNNZ is the largest per-row count.
func MaxNNZ[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V]) (int, error) {
	s, err := Analyze(exec, a)
	return s.Max, err
}

// MinNNZ is the smallest per-row count.
func MinNNZ[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V]) (int, error) {
	s, err := Analyze(exec, a)
	return s.Min, err
}

// StdNNZ is the population standard deviation of the per-row counts.
func StdNNZ[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V]) (float64, error) {
	s, err := Analyze(exec, a)
	return s.Std, err
}
