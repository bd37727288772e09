package algorithms

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/space"
)

// Op names a dispatched operation.
type Op string

const (
	OpMultiply       Op = "multiply"
	OpCountNNZPerRow Op = "count_nnz_per_row"
	OpUpdateDiagonal Op = "update_diagonal"
	OpGetDiagonal    Op = "get_diagonal"
)

type kernelKey struct {
	op      Op
	format  matrix.Format
	backend space.Backend
	alg     matrix.Algorithm
}

func (k kernelKey) String() string {
	return fmt.Sprintf("%s[%s/%s/%s]", k.op, k.format, k.backend, k.alg)
}

type (
	multiplyKernel[V matrix.Value] func(exec space.ExecutionSpace, a matrix.Matrix[V], x, y []V, init bool)
	rowCountKernel[V matrix.Value] func(exec space.ExecutionSpace, a matrix.Matrix[V], out []int, init bool)
	diagonalKernel[V matrix.Value] func(exec space.ExecutionSpace, a matrix.Matrix[V], diag []V)
)

// kernels holds every registered implementation for one value type.
// A key with no entry is not implemented.
type kernels[V matrix.Value] struct {
	multiply       map[kernelKey]multiplyKernel[V]
	countNNZPerRow map[kernelKey]rowCountKernel[V]
	updateDiagonal map[kernelKey]diagonalKernel[V]
	getDiagonal    map[kernelKey]diagonalKernel[V]
}

// register panics if key is already taken.
func register[K any](table map[kernelKey]K, key kernelKey, k K) {
	if _, dup := table[key]; dup {
		panic(fmt.Sprintf("algorithms: kernel %s already registered", key))
	}
	table[key] = k
}

func newKernels[V matrix.Value]() *kernels[V] {
	k := &kernels[V]{
		multiply:       make(map[kernelKey]multiplyKernel[V]),
		countNNZPerRow: make(map[kernelKey]rowCountKernel[V]),
		updateDiagonal: make(map[kernelKey]diagonalKernel[V]),
		getDiagonal:    make(map[kernelKey]diagonalKernel[V]),
	}
	registerMultiply(k)
	registerAnalytics(k)
	registerDiagonal(k)
	return k
}

var kernelTables sync.Map // reflect.Type -> *kernels[V]

func kernelsFor[V matrix.Value]() *kernels[V] {
	key := reflect.TypeFor[V]()
	if t, ok := kernelTables.Load(key); ok {
		return t.(*kernels[V])
	}
	t, _ := kernelTables.LoadOrStore(key, newKernels[V]())
	return t.(*kernels[V])
}

// lookup resolves the kernel for a concrete format on exec's backend.
func lookup[K any](table map[kernelKey]K, op Op, f matrix.Format, exec space.ExecutionSpace, alg matrix.Algorithm) (K, error) {
	key := kernelKey{op: op, format: f, backend: exec.Backend(), alg: alg}
	k, ok := table[key]
	if !ok {
		notImplemented.WithLabelValues(string(op), f.String(), exec.Backend().String()).Inc()
		log.Debug().Stringer("kernel", key).Msg("No kernel registered")
		return k, matrix.NewOpError(string(op), f, exec.Name(), fmt.Errorf("%w: %s", matrix.ErrNotImplemented, key))
	}
	dispatches.WithLabelValues(string(op), f.String(), exec.Backend().String()).Inc()
	return k, nil
}

// checkAccess fails with ErrNoAccess unless exec reaches every container.
func checkAccess(op Op, f matrix.Format, exec space.ExecutionSpace, containers ...space.Container) error {
	if !space.HasAccess(exec, containers...) {
		return matrix.NewOpError(string(op), f, exec.Name(), matrix.ErrNoAccess)
	}
	return nil
}

// Implemented reports whether a kernel is registered for the key.
func Implemented[V matrix.Value](op Op, f matrix.Format, b space.Backend, alg matrix.Algorithm) bool {
	k := kernelsFor[V]()
	key := kernelKey{op: op, format: f, backend: b, alg: alg}
	switch op {
	case OpMultiply:
		_, ok := k.multiply[key]
		return ok
	case OpCountNNZPerRow:
		_, ok := k.countNNZPerRow[key]
		return ok
	case OpUpdateDiagonal:
		_, ok := k.updateDiagonal[key]
		return ok
	case OpGetDiagonal:
		_, ok := k.getDiagonal[key]
		return ok
	}
	return false
}

// Typed adapters from a format-specific kernel to a table entry.

func multiplyFor[M matrix.Matrix[V], V matrix.Value](fn func(space.ExecutionSpace, M, []V, []V, bool)) multiplyKernel[V] {
	return func(exec space.ExecutionSpace, a matrix.Matrix[V], x, y []V, init bool) {
		fn(exec, a.(M), x, y, init)
	}
}

func rowCountFor[M matrix.Matrix[V], V matrix.Value](fn func(space.ExecutionSpace, M, []int, bool)) rowCountKernel[V] {
	return func(exec space.ExecutionSpace, a matrix.Matrix[V], out []int, init bool) {
		fn(exec, a.(M), out, init)
	}
}

func diagonalFor[M matrix.Matrix[V], V matrix.Value](fn func(space.ExecutionSpace, M, []V)) diagonalKernel[V] {
	return func(exec space.ExecutionSpace, a matrix.Matrix[V], diag []V) {
		fn(exec, a.(M), diag)
	}
}

var allBackends = []space.Backend{space.BackendSerial, space.BackendThreads, space.BackendDevice}
var hostBackends = []space.Backend{space.BackendSerial, space.BackendThreads}
