package matrix

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// ensure interface compliance
var _ variant[float64] = (*CsrMatrix[float64])(nil)

// CsrMatrix stores rows contiguously: row i occupies
// [rowOffsets[i], rowOffsets[i+1]) of the column and value arrays.
//
// A zero-value CsrMatrix has no row offsets at all; any explicit shape,
// including 0x0, carries rows+1 of them.
type CsrMatrix[V Value] struct {
	mem                space.MemorySpace
	nrows, ncols, nnnz int

	rowOffsets    space.Buffer[int]
	columnIndices space.Buffer[int]
	values        space.Buffer[V]
}

func NewCsrMatrix[V Value](mem space.MemorySpace, rows, cols, nnz int) (*CsrMatrix[V], error) {
	m := &CsrMatrix[V]{mem: mem}
	if err := m.Resize(rows, cols, nnz); err != nil {
		return nil, err
	}
	return m, nil
}

// NewCsrMatrixFrom copies compressed-row arrays into a new matrix after
// checking that the offsets are consistent.
func NewCsrMatrixFrom[V Value](mem space.MemorySpace, rows, cols int, offsets, colIdx []int, vals []V) (*CsrMatrix[V], error) {
	if len(offsets) != rows+1 || len(colIdx) != len(vals) {
		return nil, fmt.Errorf("%w: csr arrays of length %d, %d, %d for %d rows", ErrSizeMismatch, len(offsets), len(colIdx), len(vals), rows)
	}
	if offsets[0] != 0 || offsets[rows] != len(vals) {
		return nil, fmt.Errorf("%w: row offsets must span [0, %d]", ErrInvalidArgument, len(vals))
	}
	for i := 0; i < rows; i++ {
		if offsets[i] > offsets[i+1] {
			return nil, fmt.Errorf("%w: row offsets decrease at row %d", ErrInvalidArgument, i)
		}
	}
	for n, c := range colIdx {
		if c < 0 || c >= cols {
			return nil, fmt.Errorf("%w: entry %d has column %d outside [0, %d)", ErrInvalidArgument, n, c, cols)
		}
	}
	m, err := NewCsrMatrix[V](mem, rows, cols, len(vals))
	if err != nil {
		return nil, err
	}
	copy(m.rowOffsets.Data(), offsets)
	copy(m.columnIndices.Data(), colIdx)
	copy(m.values.Data(), vals)
	return m, nil
}

func (m *CsrMatrix[V]) Name() string                   { return "CsrMatrix" }
func (m *CsrMatrix[V]) Format() Format                 { return FormatCSR }
func (m *CsrMatrix[V]) MemorySpace() space.MemorySpace { return m.mem }
func (m *CsrMatrix[V]) NRows() int                     { return m.nrows }
func (m *CsrMatrix[V]) NCols() int                     { return m.ncols }
func (m *CsrMatrix[V]) NNNZ() int                      { return m.nnnz }

func (m *CsrMatrix[V]) elem() (v V) { return v }

func (m *CsrMatrix[V]) RowOffsets() *space.Buffer[int]    { return &m.rowOffsets }
func (m *CsrMatrix[V]) ColumnIndices() *space.Buffer[int] { return &m.columnIndices }
func (m *CsrMatrix[V]) Values() *space.Buffer[V]          { return &m.values }

// Row returns the column indices and values stored for row i.
func (m *CsrMatrix[V]) Row(i int) ([]int, []V) {
	lo, hi := m.rowOffsets.At(i), m.rowOffsets.At(i+1)
	return m.columnIndices.Data()[lo:hi], m.values.Data()[lo:hi]
}

func (m *CsrMatrix[V]) Resize(rows, cols, nnz int) error {
	if err := checkShape(rows, cols, nnz); err != nil {
		return err
	}
	m.nrows, m.ncols, m.nnnz = rows, cols, nnz
	m.rowOffsets = retag(m.rowOffsets, m.mem)
	m.columnIndices = retag(m.columnIndices, m.mem)
	m.values = retag(m.values, m.mem)
	m.rowOffsets.Resize(rows + 1)
	m.columnIndices.Resize(nnz)
	m.values.Resize(nnz)
	return nil
}

func (m *CsrMatrix[V]) ResizeLike(src *CsrMatrix[V]) error {
	return m.Resize(src.nrows, src.ncols, src.nnnz)
}

func (m *CsrMatrix[V]) Clone() *CsrMatrix[V] {
	c := *m
	c.rowOffsets = m.rowOffsets.Clone()
	c.columnIndices = m.columnIndices.Clone()
	c.values = m.values.Clone()
	return &c
}

func (m *CsrMatrix[V]) shallow() *CsrMatrix[V] {
	c := *m
	return &c
}

func (m *CsrMatrix[V]) zeroed(mem space.MemorySpace) *CsrMatrix[V] {
	return &CsrMatrix[V]{
		mem:           mem,
		nrows:         m.nrows,
		ncols:         m.ncols,
		nnnz:          m.nnnz,
		rowOffsets:    m.rowOffsets.Zeroed(mem),
		columnIndices: m.columnIndices.Zeroed(mem),
		values:        m.values.Zeroed(mem),
	}
}

func (m *CsrMatrix[V]) accept(v Visitor[V]) error { return v.VisitCsr(m) }
func (m *CsrMatrix[V]) formatArgs() []int         { return nil }

func (m *CsrMatrix[V]) resize(rows, cols, nnz int, extra []int) error {
	if err := noExtraArgs(FormatCSR, extra); err != nil {
		return err
	}
	return m.Resize(rows, cols, nnz)
}

func (m *CsrMatrix[V]) copyFrom(src variant[V]) error {
	s, ok := src.(*CsrMatrix[V])
	if !ok {
		return fmt.Errorf("%w: %s into %s", ErrFormatMismatch, src.Format(), FormatCSR)
	}
	if s.nrows != m.nrows || s.ncols != m.ncols || s.nnnz != m.nnnz || s.rowOffsets.Len() != m.rowOffsets.Len() {
		return fmt.Errorf("%w: csr (%d, %d, %d) into (%d, %d, %d)", ErrShapeMismatch, s.nrows, s.ncols, s.nnnz, m.nrows, m.ncols, m.nnnz)
	}
	copy(m.rowOffsets.Data(), s.rowOffsets.Data())
	copy(m.columnIndices.Data(), s.columnIndices.Data())
	copy(m.values.Data(), s.values.Data())
	return nil
}

func (m *CsrMatrix[V]) cloneVariant() variant[V]                       { return m.Clone() }
func (m *CsrMatrix[V]) shallowVariant() variant[V]                     { return m.shallow() }
func (m *CsrMatrix[V]) zeroedVariant(mem space.MemorySpace) variant[V] { return m.zeroed(mem) }
