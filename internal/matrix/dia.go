package matrix

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// ensure interface compliance
var _ variant[float64] = (*DiaMatrix[float64])(nil)

// DiaMatrix stores whole diagonals. Diagonal d holds the entries
// (i, i+offsets[d]); its value for row i lives at values[i*ndiag+d].
// Slots whose column falls outside [0, cols) are unused.
type DiaMatrix[V Value] struct {
	mem                       space.MemorySpace
	nrows, ncols, nnnz, ndiag int

	diagonalOffsets space.Buffer[int]
	values          space.Buffer[V]
}

func NewDiaMatrix[V Value](mem space.MemorySpace, rows, cols, nnz, ndiag int) (*DiaMatrix[V], error) {
	m := &DiaMatrix[V]{mem: mem}
	if err := m.Resize(rows, cols, nnz, ndiag); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DiaMatrix[V]) Name() string                   { return "DiaMatrix" }
func (m *DiaMatrix[V]) Format() Format                 { return FormatDIA }
func (m *DiaMatrix[V]) MemorySpace() space.MemorySpace { return m.mem }
func (m *DiaMatrix[V]) NRows() int                     { return m.nrows }
func (m *DiaMatrix[V]) NCols() int                     { return m.ncols }
func (m *DiaMatrix[V]) NNNZ() int                      { return m.nnnz }

func (m *DiaMatrix[V]) elem() (v V) { return v }

// NDiag is the number of stored diagonals.
func (m *DiaMatrix[V]) NDiag() int { return m.ndiag }

func (m *DiaMatrix[V]) DiagonalOffsets() *space.Buffer[int] { return &m.diagonalOffsets }
func (m *DiaMatrix[V]) Values() *space.Buffer[V]            { return &m.values }

// Value returns the slot of diagonal d in row i.
func (m *DiaMatrix[V]) Value(i, d int) V {
	return m.values.At(i*m.ndiag + d)
}

func (m *DiaMatrix[V]) SetValue(i, d int, v V) {
	m.values.Set(i*m.ndiag+d, v)
}

// Resize keeps the slot (i, d) of every row and diagonal present in both
// layouts; new slots and offsets are zero.
func (m *DiaMatrix[V]) Resize(rows, cols, nnz, ndiag int) error {
	if err := checkShape(rows, cols, nnz); err != nil {
		return err
	}
	if ndiag < 0 || ndiag > max(0, rows+cols-1) {
		return fmt.Errorf("%w: %d diagonals for %dx%d", ErrInvalidArgument, ndiag, rows, cols)
	}
	m.diagonalOffsets = retag(m.diagonalOffsets, m.mem)
	m.diagonalOffsets.Resize(ndiag)
	m.values = regrid(retag(m.values, m.mem), m.nrows, m.ndiag, rows, ndiag)
	m.nrows, m.ncols, m.nnnz, m.ndiag = rows, cols, nnz, ndiag
	return nil
}

func (m *DiaMatrix[V]) ResizeLike(src *DiaMatrix[V]) error {
	return m.Resize(src.nrows, src.ncols, src.nnnz, src.ndiag)
}

func (m *DiaMatrix[V]) Clone() *DiaMatrix[V] {
	c := *m
	c.diagonalOffsets = m.diagonalOffsets.Clone()
	c.values = m.values.Clone()
	return &c
}

func (m *DiaMatrix[V]) shallow() *DiaMatrix[V] {
	c := *m
	return &c
}

func (m *DiaMatrix[V]) zeroed(mem space.MemorySpace) *DiaMatrix[V] {
	return &DiaMatrix[V]{
		mem:             mem,
		nrows:           m.nrows,
		ncols:           m.ncols,
		nnnz:            m.nnnz,
		ndiag:           m.ndiag,
		diagonalOffsets: m.diagonalOffsets.Zeroed(mem),
		values:          m.values.Zeroed(mem),
	}
}

func (m *DiaMatrix[V]) accept(v Visitor[V]) error { return v.VisitDia(m) }
func (m *DiaMatrix[V]) formatArgs() []int         { return []int{m.ndiag} }

func (m *DiaMatrix[V]) resize(rows, cols, nnz int, extra []int) error {
	if len(extra) != 1 {
		return fmt.Errorf("%w: DIA resize takes the diagonal count, got %d arguments", ErrInvalidArgument, len(extra))
	}
	return m.Resize(rows, cols, nnz, extra[0])
}

func (m *DiaMatrix[V]) copyFrom(src variant[V]) error {
	s, ok := src.(*DiaMatrix[V])
	if !ok {
		return fmt.Errorf("%w: %s into %s", ErrFormatMismatch, src.Format(), FormatDIA)
	}
	if s.nrows != m.nrows || s.ncols != m.ncols || s.nnnz != m.nnnz || s.ndiag != m.ndiag {
		return fmt.Errorf("%w: dia (%d, %d, %d, %d) into (%d, %d, %d, %d)", ErrShapeMismatch,
			s.nrows, s.ncols, s.nnnz, s.ndiag, m.nrows, m.ncols, m.nnnz, m.ndiag)
	}
	copy(m.diagonalOffsets.Data(), s.diagonalOffsets.Data())
	copy(m.values.Data(), s.values.Data())
	return nil
}

func (m *DiaMatrix[V]) cloneVariant() variant[V]                       { return m.Clone() }
func (m *DiaMatrix[V]) shallowVariant() variant[V]                     { return m.shallow() }
func (m *DiaMatrix[V]) zeroedVariant(mem space.MemorySpace) variant[V] { return m.zeroed(mem) }
