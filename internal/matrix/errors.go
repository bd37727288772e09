package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented: no kernel or converter exists for the requested
	// format, backend and algorithm.
	ErrNotImplemented = errors.New("matrix: not implemented")

	// ErrWrongState: a DynamicMatrix holds a different active format than
	// the operation requires.
	ErrWrongState = errors.New("matrix: wrong runtime state")

	// ErrMalformedInput: a triplet stream is truncated or carries
	// out-of-range indices.
	ErrMalformedInput = errors.New("matrix: malformed input")

	// ErrSizeMismatch: a destination or operand length does not match the
	// matrix dimension it must agree with.
	ErrSizeMismatch = errors.New("matrix: size mismatch")

	// ErrNoAccess: the execution space cannot reach a container's memory.
	ErrNoAccess = errors.New("matrix: execution space has no access to container memory")

	ErrInvalidArgument = errors.New("matrix: invalid argument")
	ErrShapeMismatch   = errors.New("matrix: shape mismatch")
	ErrFormatMismatch  = errors.New("matrix: format mismatch")
)

// OpError attaches the failing operation and dispatch key to a sentinel.
type OpError struct {
	Op      string
	Format  Format
	Backend string
	Err     error
}

func NewOpError(op string, f Format, backend string, err error) *OpError {
	return &OpError{Op: op, Format: f, Backend: backend, Err: err}
}

func (e *OpError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("%s[%s]: %v", e.Op, e.Format, e.Err)
	}
	return fmt.Sprintf("%s[%s/%s]: %v", e.Op, e.Format, e.Backend, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func checkShape(rows, cols, nnz int) error {
	if rows < 0 || cols < 0 || nnz < 0 {
		return fmt.Errorf("%w: negative shape (%d, %d, %d)", ErrInvalidArgument, rows, cols, nnz)
	}
	if nnz > rows*cols {
		return fmt.Errorf("%w: %d non-zeros exceed %dx%d", ErrInvalidArgument, nnz, rows, cols)
	}
	return nil
}

func noExtraArgs(f Format, extra []int) error {
	if len(extra) != 0 {
		return fmt.Errorf("%w: %s resize takes no format arguments, got %d", ErrInvalidArgument, f, len(extra))
	}
	return nil
}
