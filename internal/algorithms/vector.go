package algorithms

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/simd"
	"github.com/23skdu/longbow-sparse/internal/space"
)

const (
	opScan      = "scan"
	opCopyByKey = "copy_by_key"
	opDot       = "dot"
	opReduce    = "reduce"
	opWaxpby    = "waxpby"
)

func vectorError(op string, exec space.ExecutionSpace, err error) error {
	return matrix.NewOpError(op, matrix.FormatDenseVector, exec.Name(), err)
}

func vectorAccess(op string, exec space.ExecutionSpace, containers ...space.Container) error {
	if !space.HasAccess(exec, containers...) {
		return vectorError(op, exec, matrix.ErrNoAccess)
	}
	return nil
}

// InclusiveScan writes out[i] = initial + in[0] + ... + in[i] for the
// first size elements. out may be in.
func InclusiveScan[V matrix.Value](exec space.ExecutionSpace, in, out *matrix.DenseVector[V], size int, initial V) error {
	if err := checkScan(exec, in, out, size); err != nil {
		return err
	}
	space.InclusiveScan(exec, in.Data()[:size], out.Data()[:size], initial)
	return nil
}

// ExclusiveScan writes out[i] = initial + in[0] + ... + in[i-1] for the
// first size elements. out may be in.
func ExclusiveScan[V matrix.Value](exec space.ExecutionSpace, in, out *matrix.DenseVector[V], size int, initial V) error {
	if err := checkScan(exec, in, out, size); err != nil {
		return err
	}
	space.ExclusiveScan(exec, in.Data()[:size], out.Data()[:size], initial)
	return nil
}

func checkScan[V matrix.Value](exec space.ExecutionSpace, in, out *matrix.DenseVector[V], size int) error {
	if err := vectorAccess(opScan, exec, in, out); err != nil {
		return err
	}
	if size < 0 || size > in.Size() || size > out.Size() {
		return vectorError(opScan, exec, fmt.Errorf("%w: scan of %d over vectors of %d and %d",
			matrix.ErrSizeMismatch, size, in.Size(), out.Size()))
	}
	return nil
}

// CopyByKey gathers dst[i] = src[keys[i]]. Every key is checked before dst
// is written.
func CopyByKey[V matrix.Value](exec space.ExecutionSpace, keys *matrix.DenseVector[int], src, dst *matrix.DenseVector[V]) error {
	if err := vectorAccess(opCopyByKey, exec, keys, src, dst); err != nil {
		return err
	}
	if dst.Size() != keys.Size() {
		return vectorError(opCopyByKey, exec, fmt.Errorf("%w: %d keys into a vector of %d",
			matrix.ErrSizeMismatch, keys.Size(), dst.Size()))
	}
	k, s, d := keys.Data(), src.Data(), dst.Data()
	bad := space.Reduce(exec, len(k), func(lo, hi int) int {
		n := 0
		for _, key := range k[lo:hi] {
			if key < 0 || key >= len(s) {
				n++
			}
		}
		return n
	})
	if bad > 0 {
		return vectorError(opCopyByKey, exec, fmt.Errorf("%w: %d keys outside [0, %d)",
			matrix.ErrInvalidArgument, bad, len(s)))
	}
	exec.ParallelFor(len(k), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			d[i] = s[k[i]]
		}
	})
	return nil
}

// Dot returns the inner product of x and y.
func Dot[V matrix.Value](exec space.ExecutionSpace, x, y *matrix.DenseVector[V]) (V, error) {
	if err := vectorAccess(opDot, exec, x, y); err != nil {
		return 0, err
	}
	if x.Size() != y.Size() {
		return 0, vectorError(opDot, exec, fmt.Errorf("%w: %d and %d", matrix.ErrSizeMismatch, x.Size(), y.Size()))
	}
	xs, ys := x.Data(), y.Data()
	return space.Reduce(exec, len(xs), func(lo, hi int) V {
		return simd.DotProduct(xs[lo:hi], ys[lo:hi])
	}), nil
}

// Reduce sums the first size elements of x.
func Reduce[V matrix.Value](exec space.ExecutionSpace, x *matrix.DenseVector[V], size int) (V, error) {
	if err := vectorAccess(opReduce, exec, x); err != nil {
		return 0, err
	}
	if size < 0 || size > x.Size() {
		return 0, vectorError(opReduce, exec, fmt.Errorf("%w: sum of %d over %d", matrix.ErrSizeMismatch, size, x.Size()))
	}
	xs := x.Data()[:size]
	return space.Reduce(exec, size, func(lo, hi int) V {
		return simd.Sum(xs[lo:hi])
	}), nil
}

// WAXPBY computes w = alpha*x + beta*y over the first n elements. w may
// be x or y.
func WAXPBY[V matrix.Value](exec space.ExecutionSpace, n int, alpha V, x *matrix.DenseVector[V], beta V, y, w *matrix.DenseVector[V]) error {
	if err := vectorAccess(opWaxpby, exec, x, y, w); err != nil {
		return err
	}
	if n < 0 || n > x.Size() || n > y.Size() || n > w.Size() {
		return vectorError(opWaxpby, exec, fmt.Errorf("%w: %d elements over vectors of %d, %d and %d",
			matrix.ErrSizeMismatch, n, x.Size(), y.Size(), w.Size()))
	}
	xs, ys, ws := x.Data(), y.Data(), w.Data()
	exec.ParallelFor(n, func(lo, hi int) {
		simd.Axpby(ws[lo:hi], xs[lo:hi], ys[lo:hi], alpha, beta)
	})
	return nil
}
