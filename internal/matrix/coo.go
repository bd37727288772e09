package matrix

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// ensure interface compliance
var _ variant[float64] = (*CooMatrix[float64])(nil)

// CooMatrix stores parallel row, column and value arrays, one entry per
// non-zero.
type CooMatrix[V Value] struct {
	mem                space.MemorySpace
	nrows, ncols, nnnz int

	rowIndices    space.Buffer[int]
	columnIndices space.Buffer[int]
	values        space.Buffer[V]
}

// NewCooMatrix allocates a zeroed rows x cols matrix with room for nnz
// entries.
func NewCooMatrix[V Value](mem space.MemorySpace, rows, cols, nnz int) (*CooMatrix[V], error) {
	m := &CooMatrix[V]{mem: mem}
	if err := m.Resize(rows, cols, nnz); err != nil {
		return nil, err
	}
	return m, nil
}

// NewCooMatrixFrom copies triplet arrays into a new matrix.
func NewCooMatrixFrom[V Value](mem space.MemorySpace, rows, cols int, rowIdx, colIdx []int, vals []V) (*CooMatrix[V], error) {
	if len(rowIdx) != len(vals) || len(colIdx) != len(vals) {
		return nil, fmt.Errorf("%w: coo arrays of length %d, %d, %d", ErrSizeMismatch, len(rowIdx), len(colIdx), len(vals))
	}
	m, err := NewCooMatrix[V](mem, rows, cols, len(vals))
	if err != nil {
		return nil, err
	}
	for n := range vals {
		if rowIdx[n] < 0 || rowIdx[n] >= rows || colIdx[n] < 0 || colIdx[n] >= cols {
			return nil, fmt.Errorf("%w: entry %d at (%d, %d) outside %dx%d", ErrInvalidArgument, n, rowIdx[n], colIdx[n], rows, cols)
		}
	}
	copy(m.rowIndices.Data(), rowIdx)
	copy(m.columnIndices.Data(), colIdx)
	copy(m.values.Data(), vals)
	return m, nil
}

func (m *CooMatrix[V]) Name() string                   { return "CooMatrix" }
func (m *CooMatrix[V]) Format() Format                 { return FormatCOO }
func (m *CooMatrix[V]) MemorySpace() space.MemorySpace { return m.mem }
func (m *CooMatrix[V]) NRows() int                     { return m.nrows }
func (m *CooMatrix[V]) NCols() int                     { return m.ncols }
func (m *CooMatrix[V]) NNNZ() int                      { return m.nnnz }

func (m *CooMatrix[V]) elem() (v V) { return v }

func (m *CooMatrix[V]) RowIndices() *space.Buffer[int]    { return &m.rowIndices }
func (m *CooMatrix[V]) ColumnIndices() *space.Buffer[int] { return &m.columnIndices }
func (m *CooMatrix[V]) Values() *space.Buffer[V]          { return &m.values }

// Entry returns the n-th stored triplet.
func (m *CooMatrix[V]) Entry(n int) Triplet[V] {
	return Triplet[V]{Row: m.rowIndices.At(n), Col: m.columnIndices.At(n), Value: m.values.At(n)}
}

// SetEntry overwrites the n-th stored triplet.
func (m *CooMatrix[V]) SetEntry(n, row, col int, v V) {
	m.rowIndices.Set(n, row)
	m.columnIndices.Set(n, col)
	m.values.Set(n, v)
}

func (m *CooMatrix[V]) Resize(rows, cols, nnz int) error {
	if err := checkShape(rows, cols, nnz); err != nil {
		return err
	}
	m.nrows, m.ncols, m.nnnz = rows, cols, nnz
	m.rowIndices = retag(m.rowIndices, m.mem)
	m.columnIndices = retag(m.columnIndices, m.mem)
	m.values = retag(m.values, m.mem)
	m.rowIndices.Resize(nnz)
	m.columnIndices.Resize(nnz)
	m.values.Resize(nnz)
	return nil
}

// ResizeLike gives m the same shape as src.
func (m *CooMatrix[V]) ResizeLike(src *CooMatrix[V]) error {
	return m.Resize(src.nrows, src.ncols, src.nnnz)
}

// Clone returns a deep copy.
func (m *CooMatrix[V]) Clone() *CooMatrix[V] {
	c := *m
	c.rowIndices = m.rowIndices.Clone()
	c.columnIndices = m.columnIndices.Clone()
	c.values = m.values.Clone()
	return &c
}

func (m *CooMatrix[V]) shallow() *CooMatrix[V] {
	c := *m
	return &c
}

func (m *CooMatrix[V]) zeroed(mem space.MemorySpace) *CooMatrix[V] {
	return &CooMatrix[V]{
		mem:           mem,
		nrows:         m.nrows,
		ncols:         m.ncols,
		nnnz:          m.nnnz,
		rowIndices:    m.rowIndices.Zeroed(mem),
		columnIndices: m.columnIndices.Zeroed(mem),
		values:        m.values.Zeroed(mem),
	}
}

func (m *CooMatrix[V]) accept(v Visitor[V]) error { return v.VisitCoo(m) }
func (m *CooMatrix[V]) formatArgs() []int         { return nil }

func (m *CooMatrix[V]) resize(rows, cols, nnz int, extra []int) error {
	if err := noExtraArgs(FormatCOO, extra); err != nil {
		return err
	}
	return m.Resize(rows, cols, nnz)
}

func (m *CooMatrix[V]) copyFrom(src variant[V]) error {
	s, ok := src.(*CooMatrix[V])
	if !ok {
		return fmt.Errorf("%w: %s into %s", ErrFormatMismatch, src.Format(), FormatCOO)
	}
	if s.nrows != m.nrows || s.ncols != m.ncols || s.nnnz != m.nnnz {
		return fmt.Errorf("%w: coo (%d, %d, %d) into (%d, %d, %d)", ErrShapeMismatch, s.nrows, s.ncols, s.nnnz, m.nrows, m.ncols, m.nnnz)
	}
	copy(m.rowIndices.Data(), s.rowIndices.Data())
	copy(m.columnIndices.Data(), s.columnIndices.Data())
	copy(m.values.Data(), s.values.Data())
	return nil
}

func (m *CooMatrix[V]) cloneVariant() variant[V]                       { return m.Clone() }
func (m *CooMatrix[V]) shallowVariant() variant[V]                     { return m.shallow() }
func (m *CooMatrix[V]) zeroedVariant(mem space.MemorySpace) variant[V] { return m.zeroed(mem) }

// retag moves b into mem. Buffers of a zero-value container start out as
// host buffers.
func retag[T any](b space.Buffer[T], mem space.MemorySpace) space.Buffer[T] {
	if b.MemorySpace() == mem {
		return b
	}
	return space.BufferFrom(mem, b.Data())
}
