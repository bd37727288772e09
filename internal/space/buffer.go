package space

import (
	"fmt"
	"unsafe"
)

// Buffer is a typed contiguous array tagged with the memory space it
// lives in. The zero value is an empty host buffer.
//
// Copying a Buffer value shares its storage; Resize rebinds only the
// receiver.
type Buffer[T any] struct {
	mem  MemorySpace
	data []T
}

// NewBuffer allocates n zeroed elements in mem.
func NewBuffer[T any](mem MemorySpace, n int) Buffer[T] {
	b := Buffer[T]{mem: mem}
	b.Resize(n)
	return b
}

// BufferFrom copies data into a new buffer in mem.
func BufferFrom[T any](mem MemorySpace, data []T) Buffer[T] {
	b := NewBuffer[T](mem, len(data))
	copy(b.data, data)
	return b
}

func (b *Buffer[T]) MemorySpace() MemorySpace {
	return b.mem
}

func (b *Buffer[T]) Len() int {
	return len(b.data)
}

// Data returns the underlying slice.
func (b *Buffer[T]) Data() []T {
	return b.data
}

func (b *Buffer[T]) At(i int) T {
	return b.data[i]
}

func (b *Buffer[T]) Set(i int, v T) {
	b.data[i] = v
}

// Fill sets every element to v.
func (b *Buffer[T]) Fill(v T) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Resize changes the length to n. Any change of length allocates fresh
// storage: the first min(old, n) elements are copied and the rest are
// zero, so a shrink never shares the old backing array and a later grow
// never sees stale values.
func (b *Buffer[T]) Resize(n int) {
	if n < 0 {
		panic(fmt.Sprintf("space: negative buffer length %d", n))
	}
	if n == len(b.data) {
		return
	}
	fresh := make([]T, n)
	copy(fresh, b.data)
	b.data = fresh

	var zero T
	allocatedBytes.WithLabelValues(b.mem.String()).Add(float64(uintptr(n) * unsafe.Sizeof(zero)))
}

// Clone returns a deep copy in the same memory space.
func (b *Buffer[T]) Clone() Buffer[T] {
	return BufferFrom(b.mem, b.data)
}

// Zeroed returns a zero-filled buffer of the same length in mem.
func (b *Buffer[T]) Zeroed(mem MemorySpace) Buffer[T] {
	return NewBuffer[T](mem, len(b.data))
}

// CopyFrom copies src element-wise. Lengths must match; memory spaces may
// differ.
func (b *Buffer[T]) CopyFrom(src *Buffer[T]) error {
	if len(src.data) != len(b.data) {
		return fmt.Errorf("space: copy of %d elements into buffer of %d", len(src.data), len(b.data))
	}
	copy(b.data, src.data)
	return nil
}

// SharesStorage reports whether both buffers view the same backing array.
func (b *Buffer[T]) SharesStorage(o *Buffer[T]) bool {
	if len(b.data) == 0 || len(o.data) == 0 {
		return false
	}
	return &b.data[0] == &o.data[0]
}
