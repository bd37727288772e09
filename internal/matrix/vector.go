package matrix

import (
	"fmt"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// DenseVector is a contiguous vector in one memory space.
type DenseVector[V Value] struct {
	mem    space.MemorySpace
	values space.Buffer[V]
}

// NewDenseVector allocates n elements set to fill.
func NewDenseVector[V Value](mem space.MemorySpace, n int, fill V) *DenseVector[V] {
	v := &DenseVector[V]{mem: mem, values: space.NewBuffer[V](mem, n)}
	if fill != 0 {
		v.values.Fill(fill)
	}
	return v
}

func NewDenseVectorFrom[V Value](mem space.MemorySpace, data []V) *DenseVector[V] {
	return &DenseVector[V]{mem: mem, values: space.BufferFrom(mem, data)}
}

func (v *DenseVector[V]) Name() string                   { return "DenseVector" }
func (v *DenseVector[V]) Format() Format                 { return FormatDenseVector }
func (v *DenseVector[V]) MemorySpace() space.MemorySpace { return v.mem }
func (v *DenseVector[V]) Size() int                      { return v.values.Len() }
func (v *DenseVector[V]) Values() *space.Buffer[V]       { return &v.values }
func (v *DenseVector[V]) Data() []V                      { return v.values.Data() }
func (v *DenseVector[V]) At(i int) V                     { return v.values.At(i) }
func (v *DenseVector[V]) Set(i int, x V)                 { v.values.Set(i, x) }

// Resize changes the length, zero filling new elements.
func (v *DenseVector[V]) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative vector size %d", ErrInvalidArgument, n)
	}
	v.values = retag(v.values, v.mem)
	v.values.Resize(n)
	return nil
}

// Assign resizes to n and sets every element to x.
func (v *DenseVector[V]) Assign(n int, x V) error {
	if err := v.Resize(n); err != nil {
		return err
	}
	v.values.Fill(x)
	return nil
}

func (v *DenseVector[V]) Clone() *DenseVector[V] {
	return &DenseVector[V]{mem: v.mem, values: v.values.Clone()}
}

func (v *DenseVector[V]) shallow() *DenseVector[V] {
	c := *v
	return &c
}

func (v *DenseVector[V]) zeroed(mem space.MemorySpace) *DenseVector[V] {
	return &DenseVector[V]{mem: mem, values: v.values.Zeroed(mem)}
}

// CopyVector deep-copies src into dst. Sizes must match; memory spaces
// may differ.
func CopyVector[V Value](src, dst *DenseVector[V]) error {
	if src.Size() != dst.Size() {
		return fmt.Errorf("%w: vector of %d into %d", ErrShapeMismatch, src.Size(), dst.Size())
	}
	copy(dst.values.Data(), src.values.Data())
	return nil
}
