package matrix

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// ensure interface compliance
var _ variant[float64] = (*DenseMatrix[float64])(nil)

// DenseMatrix stores every entry row-major. NNNZ is always rows*cols.
type DenseMatrix[V Value] struct {
	mem          space.MemorySpace
	nrows, ncols int
	values       space.Buffer[V]
}

func NewDenseMatrix[V Value](mem space.MemorySpace, rows, cols int) (*DenseMatrix[V], error) {
	m := &DenseMatrix[V]{mem: mem}
	if err := m.Resize(rows, cols); err != nil {
		return nil, err
	}
	return m, nil
}

// NewDenseMatrixFrom copies row-major data into a new matrix.
func NewDenseMatrixFrom[V Value](mem space.MemorySpace, rows, cols int, data []V) (*DenseMatrix[V], error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrSizeMismatch, len(data), rows, cols)
	}
	m, err := NewDenseMatrix[V](mem, rows, cols)
	if err != nil {
		return nil, err
	}
	copy(m.values.Data(), data)
	return m, nil
}

func (m *DenseMatrix[V]) Name() string                   { return "DenseMatrix" }
func (m *DenseMatrix[V]) Format() Format                 { return FormatDense }
func (m *DenseMatrix[V]) MemorySpace() space.MemorySpace { return m.mem }
func (m *DenseMatrix[V]) NRows() int                     { return m.nrows }
func (m *DenseMatrix[V]) NCols() int                     { return m.ncols }
func (m *DenseMatrix[V]) NNNZ() int                      { return m.nrows * m.ncols }

func (m *DenseMatrix[V]) elem() (v V) { return v }

func (m *DenseMatrix[V]) Values() *space.Buffer[V] { return &m.values }

func (m *DenseMatrix[V]) At(i, j int) V {
	return m.values.At(i*m.ncols + j)
}

func (m *DenseMatrix[V]) Set(i, j int, v V) {
	m.values.Set(i*m.ncols+j, v)
}

// Resize keeps every (i, j) that exists in both shapes. New entries are
// zero.
func (m *DenseMatrix[V]) Resize(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%w: negative shape (%d, %d)", ErrInvalidArgument, rows, cols)
	}
	m.values = regrid(retag(m.values, m.mem), m.nrows, m.ncols, rows, cols)
	m.nrows, m.ncols = rows, cols
	return nil
}

func (m *DenseMatrix[V]) ResizeLike(src *DenseMatrix[V]) error {
	return m.Resize(src.nrows, src.ncols)
}

func (m *DenseMatrix[V]) Clone() *DenseMatrix[V] {
	c := *m
	c.values = m.values.Clone()
	return &c
}

func (m *DenseMatrix[V]) shallow() *DenseMatrix[V] {
	c := *m
	return &c
}

func (m *DenseMatrix[V]) zeroed(mem space.MemorySpace) *DenseMatrix[V] {
	return &DenseMatrix[V]{mem: mem, nrows: m.nrows, ncols: m.ncols, values: m.values.Zeroed(mem)}
}

func (m *DenseMatrix[V]) accept(v Visitor[V]) error { return v.VisitDense(m) }
func (m *DenseMatrix[V]) formatArgs() []int         { return nil }

// resize ignores nnz, which a dense matrix derives from its shape.
func (m *DenseMatrix[V]) resize(rows, cols, _ int, extra []int) error {
	if err := noExtraArgs(FormatDense, extra); err != nil {
		return err
	}
	return m.Resize(rows, cols)
}

func (m *DenseMatrix[V]) copyFrom(src variant[V]) error {
	s, ok := src.(*DenseMatrix[V])
	if !ok {
		return fmt.Errorf("%w: %s into %s", ErrFormatMismatch, src.Format(), FormatDense)
	}
	if s.nrows != m.nrows || s.ncols != m.ncols {
		return fmt.Errorf("%w: dense %dx%d into %dx%d", ErrShapeMismatch, s.nrows, s.ncols, m.nrows, m.ncols)
	}
	copy(m.values.Data(), s.values.Data())
	return nil
}

func (m *DenseMatrix[V]) cloneVariant() variant[V]                       { return m.Clone() }
func (m *DenseMatrix[V]) shallowVariant() variant[V]                     { return m.shallow() }
func (m *DenseMatrix[V]) zeroedVariant(mem space.MemorySpace) variant[V] { return m.zeroed(mem) }

// regrid reshapes a row-major rows x width block to newRows x newWidth,
// keeping the overlapping top-left block in place.
func regrid[T any](b space.Buffer[T], rows, width, newRows, newWidth int) space.Buffer[T] {
	if width == newWidth {
		b.Resize(newRows * newWidth)
		return b
	}
	out := space.NewBuffer[T](b.MemorySpace(), newRows*newWidth)
	keep := min(width, newWidth)
	src, dst := b.Data(), out.Data()
	for i := 0; i < min(rows, newRows); i++ {
		copy(dst[i*newWidth:i*newWidth+keep], src[i*width:i*width+keep])
	}
	return out
}
