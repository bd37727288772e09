package matrix

import "github.com/23skdu/longbow-sparse/internal/space"

// IsSparseFormat reports whether f stores only a subset of entries.
func IsSparseFormat(f Format) bool {
	switch f {
	case FormatCOO, FormatCSR, FormatDIA, FormatELL:
		return true
	}
	return false
}

// IsDenseFormat reports whether f stores every entry.
func IsDenseFormat(f Format) bool {
	return f == FormatDense || f == FormatDenseVector
}

func IsDynamic[V Value](m Matrix[V]) bool {
	return m.Format() == FormatDynamic
}

// HasFormat reports whether m stores its data as f, looking through a
// DynamicMatrix to its active payload.
func HasFormat[V Value](m Matrix[V], f Format) bool {
	return m.Format() == f || Concrete[V](m).Format() == f
}

// HasSameFormat compares the formats that actually store a and b.
func HasSameFormat[V Value](a, b Matrix[V]) bool {
	return Concrete[V](a).Format() == Concrete[V](b).Format()
}

func InSameMemorySpace(a, b space.Container) bool {
	return a.MemorySpace() == b.MemorySpace()
}

// IsCompatible reports whether a and b can share buffers: same stored
// format in the same memory space.
func IsCompatible[V Value](a, b Matrix[V]) bool {
	return HasSameFormat[V](a, b) && InSameMemorySpace(a, b)
}
