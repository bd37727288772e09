package space

import (
	"github.com/23skdu/longbow-sparse/internal/simd"
)

// Range is a half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Partition splits [0, n) into at most parts contiguous ranges of
// near-equal length.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	per := (n + parts - 1) / parts
	out := make([]Range, 0, parts)
	for lo := 0; lo < n; lo += per {
		out = append(out, Range{Lo: lo, Hi: min(lo+per, n)})
	}
	return out
}

// ReduceFunc folds [0, n) with one partial per worker chunk. body returns
// the partial for [lo, hi); partials are joined in chunk order.
func ReduceFunc[T any](exec ExecutionSpace, n int, identity T, body func(lo, hi int) T, join func(a, b T) T) T {
	chunks := Partition(n, exec.Workers())
	partials := make([]T, len(chunks))
	exec.ParallelFor(len(chunks), func(lo, hi int) {
		for c := lo; c < hi; c++ {
			partials[c] = body(chunks[c].Lo, chunks[c].Hi)
		}
	})
	total := identity
	for _, p := range partials {
		total = join(total, p)
	}
	return total
}

// Reduce sums the partials produced by body over [0, n).
func Reduce[T simd.Number](exec ExecutionSpace, n int, body func(lo, hi int) T) T {
	return ReduceFunc(exec, n, T(0), body, func(a, b T) T { return a + b })
}

// InclusiveScan writes out[i] = initial + in[0] + ... + in[i] for every i
// in [0, len(in)). out may alias in.
func InclusiveScan[T simd.Number](exec ExecutionSpace, in, out []T, initial T) {
	scan(exec, in, out, initial, true)
}

// ExclusiveScan writes out[i] = initial + in[0] + ... + in[i-1] for every
// i in [0, len(in)). out may alias in.
func ExclusiveScan[T simd.Number](exec ExecutionSpace, in, out []T, initial T) {
	scan(exec, in, out, initial, false)
}

// scan is a blocked two-pass scan: block sums, a serial prefix over the
// blocks, then an independent local scan per block.
func scan[T simd.Number](exec ExecutionSpace, in, out []T, initial T, inclusive bool) {
	chunks := Partition(len(in), exec.Workers())
	offsets := make([]T, len(chunks))
	exec.ParallelFor(len(chunks), func(lo, hi int) {
		for c := lo; c < hi; c++ {
			offsets[c] = simd.Sum(in[chunks[c].Lo:chunks[c].Hi])
		}
	})

	running := initial
	for c := range offsets {
		sum := offsets[c]
		offsets[c] = running
		running += sum
	}

	exec.ParallelFor(len(chunks), func(lo, hi int) {
		for c := lo; c < hi; c++ {
			acc := offsets[c]
			for i := chunks[c].Lo; i < chunks[c].Hi; i++ {
				v := in[i]
				if inclusive {
					acc += v
					out[i] = acc
				} else {
					out[i] = acc
					acc += v
				}
			}
		}
	})
}
