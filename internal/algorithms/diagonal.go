package algorithms

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/space"
)

// UpdateDiagonal overwrites the stored main-diagonal entries of a with
// diag. Rows without a stored diagonal entry are left alone; no entry is
// ever inserted.
func UpdateDiagonal[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V], diag *matrix.DenseVector[V]) error {
	return diagonalOp(exec, a, diag, OpUpdateDiagonal, kernelsFor[V]().updateDiagonal)
}

// GetDiagonal writes the main diagonal of a into diag, zero where no
// entry is stored.
func GetDiagonal[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V], diag *matrix.DenseVector[V]) error {
	return diagonalOp(exec, a, diag, OpGetDiagonal, kernelsFor[V]().getDiagonal)
}

func diagonalOp[V matrix.Value](exec space.ExecutionSpace, a matrix.Matrix[V], diag *matrix.DenseVector[V], op Op, table map[kernelKey]diagonalKernel[V]) error {
	c := matrix.Concrete(a)
	if err := checkAccess(op, c.Format(), exec, c, diag); err != nil {
		return err
	}
	if diag.Size() != c.NRows() {
		return matrix.NewOpError(string(op), c.Format(), exec.Name(),
			fmt.Errorf("%w: %d rows with a diagonal of %d", matrix.ErrSizeMismatch, c.NRows(), diag.Size()))
	}
	k, err := lookup(table, op, c.Format(), exec, matrix.Alg0)
	if err != nil {
		return err
	}
	k(exec, c, diag.Data())
	return nil
}

func registerDiagonal[V matrix.Value](k *kernels[V]) {
	for _, b := range hostBackends {
		up := func(f matrix.Format) kernelKey {
			return kernelKey{op: OpUpdateDiagonal, format: f, backend: b, alg: matrix.Alg0}
		}
		register(k.updateDiagonal, up(matrix.FormatCOO), diagonalFor(cooUpdateDiagonal[V]))
		register(k.updateDiagonal, up(matrix.FormatCSR), diagonalFor(csrUpdateDiagonal[V]))
		register(k.updateDiagonal, up(matrix.FormatDIA), diagonalFor(diaUpdateDiagonal[V]))
		register(k.updateDiagonal, up(matrix.FormatELL), diagonalFor(ellUpdateDiagonal[V]))
		register(k.updateDiagonal, up(matrix.FormatDense), diagonalFor(denseUpdateDiagonal[V]))

		get := func(f matrix.Format) kernelKey {
			return kernelKey{op: OpGetDiagonal, format: f, backend: b, alg: matrix.Alg0}
		}
		register(k.getDiagonal, get(matrix.FormatCOO), diagonalFor(cooGetDiagonal[V]))
		register(k.getDiagonal, get(matrix.FormatCSR), diagonalFor(csrGetDiagonal[V]))
		register(k.getDiagonal, get(matrix.FormatDIA), diagonalFor(diaGetDiagonal[V]))
		register(k.getDiagonal, get(matrix.FormatELL), diagonalFor(ellGetDiagonal[V]))
		register(k.getDiagonal, get(matrix.FormatDense), diagonalFor(denseGetDiagonal[V]))
	}
}

// cooUpdateDiagonal overwrites the first diagonal entry of each row in
// storage order, like the CSR and ELL kernels.
func cooUpdateDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.CooMatrix[V], diag []V) {
	rows, cols, vals := a.RowIndices().Data(), a.ColumnIndices().Data(), a.Values().Data()
	first := make([]int, a.NRows())
	for i := range first {
		first[i] = -1
	}
	for n := range vals {
		if r := rows[n]; r == cols[n] && first[r] < 0 {
			first[r] = n
		}
	}
	exec.ParallelFor(len(first), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if n := first[i]; n >= 0 {
				vals[n] = diag[i]
			}
		}
	})
}

// Duplicate diagonal entries of a COO matrix sum to its value.
func cooGetDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.CooMatrix[V], diag []V) {
	rows, cols, vals := a.RowIndices().Data(), a.ColumnIndices().Data(), a.Values().Data()
	clear(diag)
	privateScatter(exec, len(vals), diag, func(acc []V, lo, hi int) {
		for n := lo; n < hi; n++ {
			if rows[n] == cols[n] {
				acc[rows[n]] += vals[n]
			}
		}
	})
}

// csrDiagonalSlot is the position of the first entry of row i in column
// i, or -1.
func csrDiagonalSlot(off, cols []int, i int) int {
	for n := off[i]; n < off[i+1]; n++ {
		if cols[n] == i {
			return n
		}
	}
	return -1
}

func csrUpdateDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.CsrMatrix[V], diag []V) {
	off, cols, vals := a.RowOffsets().Data(), a.ColumnIndices().Data(), a.Values().Data()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if n := csrDiagonalSlot(off, cols, i); n >= 0 {
				vals[n] = diag[i]
			}
		}
	})
}

func csrGetDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.CsrMatrix[V], diag []V) {
	off, cols, vals := a.RowOffsets().Data(), a.ColumnIndices().Data(), a.Values().Data()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum V
			for n := off[i]; n < off[i+1]; n++ {
				if cols[n] == i {
					sum += vals[n]
				}
			}
			diag[i] = sum
		}
	})
}

// mainDiagonal is the index of offset 0 among a's diagonals, or -1.
func mainDiagonal[V matrix.Value](a *matrix.DiaMatrix[V]) int {
	for d, off := range a.DiagonalOffsets().Data() {
		if off == 0 {
			return d
		}
	}
	return -1
}

// Zero slots on the main diagonal are unused and stay untouched.
func diaUpdateDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.DiaMatrix[V], diag []V) {
	d := mainDiagonal(a)
	if d < 0 {
		return
	}
	vals, ndiag := a.Values().Data(), a.NDiag()
	exec.ParallelFor(min(a.NRows(), a.NCols()), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if vals[i*ndiag+d] != 0 {
				vals[i*ndiag+d] = diag[i]
			}
		}
	})
}

func diaGetDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.DiaMatrix[V], diag []V) {
	clear(diag)
	d := mainDiagonal(a)
	if d < 0 {
		return
	}
	vals, ndiag := a.Values().Data(), a.NDiag()
	exec.ParallelFor(min(a.NRows(), a.NCols()), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			diag[i] = vals[i*ndiag+d]
		}
	})
}

func ellUpdateDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.EllMatrix[V], diag []V) {
	cols, vals := a.ColumnIndices().Data(), a.Values().Data()
	width := a.PaddedWidth()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for k := i * width; k < (i+1)*width; k++ {
				if cols[k] == i {
					vals[k] = diag[i]
					break
				}
			}
		}
	})
}

func ellGetDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.EllMatrix[V], diag []V) {
	cols, vals := a.ColumnIndices().Data(), a.Values().Data()
	width := a.PaddedWidth()
	exec.ParallelFor(a.NRows(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var sum V
			for k := i * width; k < (i+1)*width; k++ {
				if cols[k] == i {
					sum += vals[k]
				}
			}
			diag[i] = sum
		}
	})
}

func denseUpdateDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.DenseMatrix[V], diag []V) {
	exec.ParallelFor(min(a.NRows(), a.NCols()), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			a.Set(i, i, diag[i])
		}
	})
}

func denseGetDiagonal[V matrix.Value](exec space.ExecutionSpace, a *matrix.DenseMatrix[V], diag []V) {
	clear(diag)
	exec.ParallelFor(min(a.NRows(), a.NCols()), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			diag[i] = a.At(i, i)
		}
	})
}
