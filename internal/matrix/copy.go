package matrix

import "fmt"

// Copy deep-copies src into dst element-wise. Both must hold the same
// format with the same shape; their memory spaces may differ. For a
// DynamicMatrix the active formats must agree, otherwise the call fails
// with ErrWrongState.
func Copy[V Value](src, dst Matrix[V]) error {
	_, srcDynamic := src.(*DynamicMatrix[V])
	_, dstDynamic := dst.(*DynamicMatrix[V])

	s, ok := asVariant[V](Concrete[V](src))
	if !ok {
		return NewOpError("copy", src.Format(), "", fmt.Errorf("%w: source %s", ErrNotImplemented, src.Name()))
	}
	d, ok := asVariant[V](Concrete[V](dst))
	if !ok {
		return NewOpError("copy", dst.Format(), "", fmt.Errorf("%w: destination %s", ErrNotImplemented, dst.Name()))
	}

	if s.Format() != d.Format() {
		sentinel := ErrFormatMismatch
		if srcDynamic || dstDynamic {
			sentinel = ErrWrongState
		}
		return NewOpError("copy", s.Format(), "", fmt.Errorf("%w: %s into %s", sentinel, s.Format(), d.Format()))
	}
	if err := d.copyFrom(s); err != nil {
		return NewOpError("copy", s.Format(), "", err)
	}
	return nil
}
