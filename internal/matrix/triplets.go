package matrix

import (
	"errors"
	"fmt"
	"io"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// TripletSource is a stream of (row, col, value) entries preceded by the
// matrix dimensions, as produced by a file reader or a columnar batch.
type TripletSource[V Value] interface {
	Shape() (rows, cols, nnz int, err error)
	// Next returns io.EOF once every entry has been read.
	Next() (Triplet[V], error)
}

// LoadTriplets fills dst from src. dst must be a CooMatrix or a
// DynamicMatrix with COO active. Entries are sorted by row and column. On
// failure dst is left unchanged.
func LoadTriplets[V Value](src TripletSource[V], dst Matrix[V]) error {
	var coo *CooMatrix[V]
	switch m := dst.(type) {
	case *CooMatrix[V]:
		coo = m
	case *DynamicMatrix[V]:
		c, err := m.AsCoo()
		if err != nil {
			return NewOpError("load", FormatDynamic, "", err)
		}
		coo = c
	default:
		return NewOpError("load", dst.Format(), "", fmt.Errorf("%w: triplets load into COO only", ErrFormatMismatch))
	}

	rows, cols, nnz, err := src.Shape()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	staging := &CooMatrix[V]{mem: coo.mem}
	if err := staging.Resize(rows, cols, nnz); err != nil {
		return NewOpError("load", FormatCOO, "", fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}

	for n := 0; n < nnz; n++ {
		t, err := src.Next()
		if errors.Is(err, io.EOF) {
			return NewOpError("load", FormatCOO, "", fmt.Errorf("%w: stream ended after %d of %d entries", ErrMalformedInput, n, nnz))
		}
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return NewOpError("load", FormatCOO, "", fmt.Errorf("%w: entry %d at (%d, %d) outside %dx%d", ErrMalformedInput, n, t.Row, t.Col, rows, cols))
		}
		staging.SetEntry(n, t.Row, t.Col, t.Value)
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}
		return NewOpError("load", FormatCOO, "", fmt.Errorf("%w: more than %d entries", ErrMalformedInput, nnz))
	}

	if !staging.IsSorted() {
		SortByRowAndColumn(staging)
	}
	*coo = *staging
	return nil
}

// SliceSource serves triplets from memory.
type SliceSource[V Value] struct {
	Rows, Cols int
	Entries    []Triplet[V]
	pos        int
}

func (s *SliceSource[V]) Shape() (int, int, int, error) {
	return s.Rows, s.Cols, len(s.Entries), nil
}

func (s *SliceSource[V]) Next() (Triplet[V], error) {
	if s.pos >= len(s.Entries) {
		return Triplet[V]{}, io.EOF
	}
	t := s.Entries[s.pos]
	s.pos++
	return t, nil
}

// Triplets lists the stored entries of any matrix in (row, col) order.
// Dense containers list their non-zero entries. Formats other than COO
// must live in host memory.
func Triplets[V Value](m Matrix[V]) ([]Triplet[V], error) {
	hub := &CooMatrix[V]{mem: m.MemorySpace()}
	if err := Convert[V](space.NewSerial(), m, hub); err != nil {
		return nil, err
	}
	if !hub.IsSorted() {
		SortByRowAndColumn(hub)
	}
	out := make([]Triplet[V], hub.NNNZ())
	for n := range out {
		out[n] = hub.Entry(n)
	}
	return out, nil
}
