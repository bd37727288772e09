package matrix

import (
	"github.com/23skdu/longbow-sparse/internal/simd"
	"github.com/23skdu/longbow-sparse/internal/space"
)

// Value is the set of element types a container may hold.
type Value interface {
	simd.Number
}

// Matrix is the shape surface shared by every matrix container, including
// DynamicMatrix.
type Matrix[V Value] interface {
	space.Container

	// Name is the container's type name, e.g. "CsrMatrix".
	Name() string
	Format() Format

	NRows() int
	NCols() int
	NNNZ() int

	// elem ties a container to its value type.
	elem() V
}

// variant is implemented only by the concrete formats a DynamicMatrix can
// hold.
type variant[V Value] interface {
	Matrix[V]

	accept(v Visitor[V]) error
	resize(rows, cols, nnz int, extra []int) error
	// formatArgs returns the extra resize arguments that reproduce the
	// current layout.
	formatArgs() []int
	copyFrom(src variant[V]) error

	cloneVariant() variant[V]
	shallowVariant() variant[V]
	zeroedVariant(mem space.MemorySpace) variant[V]
}

// Visitor has one method per concrete format. A DynamicMatrix calls
// exactly one of them for its active payload.
type Visitor[V Value] interface {
	VisitCoo(m *CooMatrix[V]) error
	VisitCsr(m *CsrMatrix[V]) error
	VisitDia(m *DiaMatrix[V]) error
	VisitEll(m *EllMatrix[V]) error
	VisitDense(m *DenseMatrix[V]) error
}

// newVariant default-constructs the variant for a dynamic format.
func newVariant[V Value](f Format, mem space.MemorySpace) variant[V] {
	switch f {
	case FormatCSR:
		return &CsrMatrix[V]{mem: mem}
	case FormatDIA:
		return &DiaMatrix[V]{mem: mem}
	case FormatELL:
		return &EllMatrix[V]{mem: mem}
	case FormatDense:
		return &DenseMatrix[V]{mem: mem}
	default:
		return &CooMatrix[V]{mem: mem}
	}
}

func asVariant[V Value](m Matrix[V]) (variant[V], bool) {
	v, ok := m.(variant[V])
	return v, ok
}

type concreteVisitor[V Value] struct {
	out variant[V]
}

func (c *concreteVisitor[V]) VisitCoo(m *CooMatrix[V]) error     { c.out = m; return nil }
func (c *concreteVisitor[V]) VisitCsr(m *CsrMatrix[V]) error     { c.out = m; return nil }
func (c *concreteVisitor[V]) VisitDia(m *DiaMatrix[V]) error     { c.out = m; return nil }
func (c *concreteVisitor[V]) VisitEll(m *EllMatrix[V]) error     { c.out = m; return nil }
func (c *concreteVisitor[V]) VisitDense(m *DenseMatrix[V]) error { c.out = m; return nil }

// Concrete returns the container that actually stores m's data: the
// active payload of a DynamicMatrix, or m itself.
func Concrete[V Value](m Matrix[V]) Matrix[V] {
	d, ok := m.(*DynamicMatrix[V])
	if !ok {
		return m
	}
	var cv concreteVisitor[V]
	_ = d.Visit(&cv)
	return cv.out
}

// Triplet is one stored (row, col, value) entry.
type Triplet[V Value] struct {
	Row, Col int
	Value    V
}
