package matrix

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// ensure interface compliance
var _ variant[float64] = (*EllMatrix[float64])(nil)

// EllMatrix stores every row in a fixed number of slots. Rows are
// entriesPerRow wide, padded up to a multiple of alignment; unused slots
// carry InvalidIndex and a zero value.
type EllMatrix[V Value] struct {
	mem                space.MemorySpace
	nrows, ncols, nnnz int
	entriesPerRow      int
	alignment          int

	columnIndices space.Buffer[int]
	values        space.Buffer[V]

	// shaped is set once Resize has fixed the alignment.
	shaped bool
}

// NewEllMatrix allocates an ELL matrix whose slots are all unused.
func NewEllMatrix[V Value](mem space.MemorySpace, rows, cols, nnz, entriesPerRow, alignment int) (*EllMatrix[V], error) {
	m := &EllMatrix[V]{mem: mem}
	if err := m.Resize(rows, cols, nnz, entriesPerRow, alignment); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *EllMatrix[V]) Name() string                   { return "EllMatrix" }
func (m *EllMatrix[V]) Format() Format                 { return FormatELL }
func (m *EllMatrix[V]) MemorySpace() space.MemorySpace { return m.mem }
func (m *EllMatrix[V]) NRows() int                     { return m.nrows }
func (m *EllMatrix[V]) NCols() int                     { return m.ncols }
func (m *EllMatrix[V]) NNNZ() int                      { return m.nnnz }

func (m *EllMatrix[V]) elem() (v V) { return v }

func (m *EllMatrix[V]) EntriesPerRow() int { return m.entriesPerRow }
func (m *EllMatrix[V]) Alignment() int     { return m.alignment }

// PaddedWidth is the stored width of one row.
func (m *EllMatrix[V]) PaddedWidth() int {
	return PadSize(m.entriesPerRow, m.alignment)
}

func (m *EllMatrix[V]) ColumnIndices() *space.Buffer[int] { return &m.columnIndices }
func (m *EllMatrix[V]) Values() *space.Buffer[V]          { return &m.values }

// Slot returns the column and value stored in slot k of row i.
func (m *EllMatrix[V]) Slot(i, k int) (int, V) {
	n := i*m.PaddedWidth() + k
	return m.columnIndices.At(n), m.values.At(n)
}

func (m *EllMatrix[V]) SetSlot(i, k, col int, v V) {
	n := i*m.PaddedWidth() + k
	m.columnIndices.Set(n, col)
	m.values.Set(n, v)
}

// Resize reshapes the slot grid. Slots that exist in both the old and
// the new grid keep their contents; all others become unused.
func (m *EllMatrix[V]) Resize(rows, cols, nnz, entriesPerRow, alignment int) error {
	if err := checkShape(rows, cols, nnz); err != nil {
		return err
	}
	if entriesPerRow < 0 || alignment < 0 {
		return fmt.Errorf("%w: ell entries per row %d, alignment %d", ErrInvalidArgument, entriesPerRow, alignment)
	}
	if nnz > rows*entriesPerRow {
		return fmt.Errorf("%w: %d non-zeros do not fit %d rows of %d entries", ErrInvalidArgument, nnz, rows, entriesPerRow)
	}

	oldPad, pad := m.PaddedWidth(), PadSize(entriesPerRow, alignment)
	if rows != m.nrows || pad != oldPad || m.columnIndices.MemorySpace() != m.mem {
		colIdx := space.NewBuffer[int](m.mem, rows*pad)
		vals := space.NewBuffer[V](m.mem, rows*pad)
		colIdx.Fill(InvalidIndex)

		keep := min(pad, oldPad)
		for i := 0; i < min(rows, m.nrows); i++ {
			copy(colIdx.Data()[i*pad:i*pad+keep], m.columnIndices.Data()[i*oldPad:i*oldPad+keep])
			copy(vals.Data()[i*pad:i*pad+keep], m.values.Data()[i*oldPad:i*oldPad+keep])
		}
		m.columnIndices, m.values = colIdx, vals
	}

	m.nrows, m.ncols, m.nnnz = rows, cols, nnz
	m.entriesPerRow, m.alignment = entriesPerRow, alignment
	m.shaped = true
	return nil
}

func (m *EllMatrix[V]) ResizeLike(src *EllMatrix[V]) error {
	return m.Resize(src.nrows, src.ncols, src.nnnz, src.entriesPerRow, src.alignment)
}

// Clear marks every slot unused.
func (m *EllMatrix[V]) Clear() {
	m.columnIndices.Fill(InvalidIndex)
	m.values.Fill(0)
}

func (m *EllMatrix[V]) Clone() *EllMatrix[V] {
	c := *m
	c.columnIndices = m.columnIndices.Clone()
	c.values = m.values.Clone()
	return &c
}

func (m *EllMatrix[V]) shallow() *EllMatrix[V] {
	c := *m
	return &c
}

func (m *EllMatrix[V]) zeroed(mem space.MemorySpace) *EllMatrix[V] {
	return &EllMatrix[V]{
		mem:           mem,
		nrows:         m.nrows,
		ncols:         m.ncols,
		nnnz:          m.nnnz,
		entriesPerRow: m.entriesPerRow,
		alignment:     m.alignment,
		shaped:        m.shaped,
		columnIndices: m.columnIndices.Zeroed(mem),
		values:        m.values.Zeroed(mem),
	}
}

func (m *EllMatrix[V]) accept(v Visitor[V]) error { return v.VisitEll(m) }
func (m *EllMatrix[V]) formatArgs() []int         { return []int{m.entriesPerRow, m.alignment} }

func (m *EllMatrix[V]) resize(rows, cols, nnz int, extra []int) error {
	switch len(extra) {
	case 1:
		return m.Resize(rows, cols, nnz, extra[0], DefaultEllAlignment)
	case 2:
		return m.Resize(rows, cols, nnz, extra[0], extra[1])
	}
	return fmt.Errorf("%w: ELL resize takes entries per row and an optional alignment, got %d arguments", ErrInvalidArgument, len(extra))
}

func (m *EllMatrix[V]) copyFrom(src variant[V]) error {
	s, ok := src.(*EllMatrix[V])
	if !ok {
		return fmt.Errorf("%w: %s into %s", ErrFormatMismatch, src.Format(), FormatELL)
	}
	if s.nrows != m.nrows || s.ncols != m.ncols || s.nnnz != m.nnnz || s.PaddedWidth() != m.PaddedWidth() {
		return fmt.Errorf("%w: ell (%d, %d, %d, width %d) into (%d, %d, %d, width %d)", ErrShapeMismatch,
			s.nrows, s.ncols, s.nnnz, s.PaddedWidth(), m.nrows, m.ncols, m.nnnz, m.PaddedWidth())
	}
	m.entriesPerRow, m.alignment = s.entriesPerRow, s.alignment
	copy(m.columnIndices.Data(), s.columnIndices.Data())
	copy(m.values.Data(), s.values.Data())
	return nil
}

func (m *EllMatrix[V]) cloneVariant() variant[V]                       { return m.Clone() }
func (m *EllMatrix[V]) shallowVariant() variant[V]                     { return m.shallow() }
func (m *EllMatrix[V]) zeroedVariant(mem space.MemorySpace) variant[V] { return m.zeroed(mem) }
