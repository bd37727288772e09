package algorithms

import (
	"fmt"
	"reflect"
	"sort"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/simd"
	"github.com/23skdu/longbow-sparse/internal/space"
)

// Multiply computes y = A*x, or y += A*x when init is false, with the
// default algorithm.
func Multiply[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V], x, y *matrix.DenseVector[V], init bool) error {
	return MultiplyWith(exec, a, x, y, init, matrix.Alg0)
}

// MultiplyWith is Multiply with an explicit algorithm variant. A dynamic
// matrix dispatches on its active format.
func MultiplyWith[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V], x, y *matrix.DenseVector[V], init bool, alg matrix.Algorithm) error {
	c := matrix.Concrete(a)
	if err := checkAccess(OpMultiply, c.Format(), exec, c, x, y); err != nil {
		return err
	}
	if x.Size() != c.NCols() || y.Size() != c.NRows() {
		return matrix.NewOpError(string(OpMultiply), c.Format(), exec.Name(),
			fmt.Errorf("%w: %dx%d matrix with x of %d and y of %d", matrix.ErrSizeMismatch, c.NRows(), c.NCols(), x.Size(), y.Size()))
	}
	k, err := lookup(kernelsFor[V]().multiply, OpMultiply, c.Format(), exec, alg)
	if err != nil {
		return err
	}
	k(exec, c, x.Data(), y.Data(), init)
	return nil
}

func registerMultiply[V matrix.Value](k *kernels[V]) {
	key := func(f matrix.Format, b space.Backend, alg matrix.Algorithm) kernelKey {
		return kernelKey{op: OpMultiply, format: f, backend: b, alg: alg}
	}

	register(k.multiply, key(matrix.FormatCOO, space.BackendSerial, matrix.Alg0), multiplyFor(cooMultiplySerial[V]))
	register(k.multiply, key(matrix.FormatCOO, space.BackendThreads, matrix.Alg0), multiplyFor(cooMultiplyPrivate[V]))

	for _, b := range allBackends {
		register(k.multiply, key(matrix.FormatCSR, b, matrix.Alg0), multiplyFor(csrMultiply[V]))
		register(k.multiply, key(matrix.FormatDIA, b, matrix.Alg0), multiplyFor(diaMultiply[V]))
		register(k.multiply, key(matrix.FormatELL, b, matrix.Alg0), multiplyFor(ellMultiply[V]))
	}
	for _, b := range []space.Backend{space.BackendThreads, space.BackendDevice} {
		register(k.multiply, key(matrix.FormatCSR, b, matrix.Alg1), multiplyFor(csrMultiplyBalanced[V]))
	}

	dense := multiplyFor(denseMultiply[V])
	if reflect.TypeFor[V]() == reflect.TypeFor[float64]() {
		dense = func(exec space.ExecutionSpace, a matrix.Matrix[V], x, y []V, init bool) {
			denseMultiplyBlas(exec, any(a).(*matrix.DenseMatrix[float64]), any(x).([]float64), any(y).([]float64), init)
		}
	}
	for _, b := range hostBackends {
		register(k.multiply, key(matrix.FormatDense, b, matrix.Alg0), dense)
	}
	register(k.multiply, key(matrix.FormatDense, space.BackendDevice, matrix.Alg0), multiplyFor(denseMultiply[V]))
}

func cooMultiplySerial[V matrix.Value](_ space.ExecutionSpace, a *matrix.CooMatrix[V], x, y []V, init bool) {
	if init {
		clear(y)
	}
	rows, cols, vals := a.RowIndices().Data(), a.ColumnIndices().Data(), a.Values().Data()
	for n := range vals {
		y[rows[n]] += vals[n] * x[cols[n]]
	}
}

// cooMultiplyPrivate scatters each chunk of entries into its own
// accumulator, so rows shared between chunks never race.
func cooMultiplyPrivate[V matrix.Value](exec space.ExecutionSpace, a *matrix.CooMatrix[V], x, y []V, init bool) {
	rows, cols, vals := a.RowIndices().Data(), a.ColumnIndices().Data(), a.Values().Data()
	if init {
		clear(y)
	}
	privateScatter(exec, len(vals), y, func(acc []V, lo, hi int) {
		for n := lo; n < hi; n++ {
			acc[rows[n]] += vals[n] * x[cols[n]]
		}
	})
}

// privateScatter runs body over chunks of [0, n) with a zeroed
// accumulator per chunk, then adds every accumulator into out.
func privateScatter[T simd.Number](exec space.ExecutionSpace, n int, out []T, body func(acc []T, lo, hi int)) {
	chunks := space.Partition(n, exec.Workers())
	partial := make([][]T, len(chunks))
	exec.ParallelFor(len(chunks), func(lo, hi int) {
		for c := lo; c < hi; c++ {
			acc := make([]T, len(out))
			body(acc, chunks[c].Lo, chunks[c].Hi)
			partial[c] = acc
		}
	})
	exec.ParallelFor(len(out), func(lo, hi int) {
		for _, acc := range partial {
			simd.VecAdd(out[lo:hi], acc[lo:hi])
		}
	})
}

func csrRows[V matrix.Value](a *matrix.CsrMatrix[V], x, y []V, init bool) func(lo, hi int) {
	off, cols, vals := a.RowOffsets().Data(), a.ColumnIndices().Data(), a.Values().Data()
	return func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum V
			if !init {
				sum = y[i]
			}
			s, e := off[i], off[i+1]
			y[i] = sum + simd.GatherDot(vals[s:e], cols[s:e], x)
		}
	}
}

func csrMultiply[V matrix.Value](exec space.ExecutionSpace, a *matrix.CsrMatrix[V], x, y []V, init bool) {
	exec.ParallelFor(a.NRows(), csrRows(a, x, y, init))
}

// csrMultiplyBalanced splits rows so each worker gets a similar number of
// non-zeros instead of a similar number of rows.
func csrMultiplyBalanced[V matrix.Value](exec space.ExecutionSpace, a *matrix.CsrMatrix[V], x, y []V, init bool) {
	ranges := balancedRows(a.RowOffsets().Data(), a.NRows(), exec.Workers())
	body := csrRows(a, x, y, init)
	exec.ParallelFor(len(ranges), func(lo, hi int) {
		for r := lo; r < hi; r++ {
			body(ranges[r].Lo, ranges[r].Hi)
		}
	})
}

func balancedRows(off []int, nrows, parts int) []space.Range {
	if nrows == 0 {
		return nil
	}
	nnz := off[nrows]
	if parts <= 1 || nnz == 0 {
		return space.Partition(nrows, parts)
	}
	out := make([]space.Range, 0, parts)
	lo := 0
	for w := 1; w <= parts && lo < nrows; w++ {
		hi := nrows
		if w < parts {
			hi = sort.SearchInts(off[:nrows+1], w*nnz/parts)
			hi = min(max(hi, lo+1), nrows)
		}
		out = append(out, space.Range{Lo: lo, Hi: hi})
		lo = hi
	}
	return out
}

func diaMultiply[V matrix.Value](exec space.ExecutionSpace, a *matrix.DiaMatrix[V], x, y []V, init bool) {
	offsets, vals := a.DiagonalOffsets().Data(), a.Values().Data()
	ndiag, ncols := a.NDiag(), a.NCols()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum V
			if !init {
				sum = y[i]
			}
			for d, off := range offsets {
				if j := i + off; j >= 0 && j < ncols {
					sum += vals[i*ndiag+d] * x[j]
				}
			}
			y[i] = sum
		}
	})
}

func ellMultiply[V matrix.Value](exec space.ExecutionSpace, a *matrix.EllMatrix[V], x, y []V, init bool) {
	cols, vals := a.ColumnIndices().Data(), a.Values().Data()
	width := a.PaddedWidth()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum V
			if !init {
				sum = y[i]
			}
			for k := i * width; k < (i+1)*width; k++ {
				if c := cols[k]; c != matrix.InvalidIndex {
					sum += vals[k] * x[c]
				}
			}
			y[i] = sum
		}
	})
}

func denseMultiply[V matrix.Value](exec space.ExecutionSpace, a *matrix.DenseMatrix[V], x, y []V, init bool) {
	data, ncols := a.Values().Data(), a.NCols()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		block := data[lo*ncols : hi*ncols]
		if init {
			simd.MatVecMul(y[lo:hi], block, x, hi-lo, ncols)
		} else {
			simd.MatVecMulAdd(y[lo:hi], block, x, hi-lo, ncols)
		}
	})
}

// denseMultiplyBlas hands each row block to blas64.Gemv.
func denseMultiplyBlas(exec space.ExecutionSpace, a *matrix.DenseMatrix[float64], x, y []float64, init bool) {
	ncols := a.NCols()
	if ncols == 0 {
		if init {
			clear(y)
		}
		return
	}
	beta := 1.0
	if init {
		beta = 0
	}
	data := a.Values().Data()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		blas64.Gemv(blas.NoTrans, 1,
			blas64.General{Rows: hi - lo, Cols: ncols, Stride: ncols, Data: data[lo*ncols : hi*ncols]},
			blas64.Vector{N: ncols, Inc: 1, Data: x},
			beta,
			blas64.Vector{N: hi - lo, Inc: 1, Data: y[lo:hi]})
	})
}
