package matrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-sparse/internal/space"
)

func TestLoadTriplets(t *testing.T) {
	unsorted := []Triplet[float64]{refEntries[3], refEntries[1], refEntries[0], refEntries[2]}

	t.Run("Into COO", func(t *testing.T) {
		coo := &CooMatrix[float64]{}
		require.NoError(t, LoadTriplets[float64](&SliceSource[float64]{Rows: 3, Cols: 3, Entries: unsorted}, coo))
		assert.Equal(t, 3, coo.NRows())
		assert.True(t, coo.IsSorted())
		assert.Equal(t, refEntries, mustTriplets(t, coo))
	})

	t.Run("Into dynamic with COO active", func(t *testing.T) {
		d := NewDynamicMatrix[float64](space.HostMemory)
		require.NoError(t, LoadTriplets[float64](&SliceSource[float64]{Rows: 3, Cols: 3, Entries: refEntries}, d))
		assert.Equal(t, 4, d.NNNZ())
	})

	t.Run("Dynamic in wrong state", func(t *testing.T) {
		d := NewDynamicMatrix[float64](space.HostMemory)
		d.ActivateFormat(FormatCSR)
		err := LoadTriplets[float64](&SliceSource[float64]{Rows: 3, Cols: 3, Entries: refEntries}, d)
		assert.ErrorIs(t, err, ErrWrongState)
	})

	t.Run("Concrete non-COO", func(t *testing.T) {
		err := LoadTriplets[float64](&SliceSource[float64]{Rows: 3, Cols: 3}, refCsr(t))
		assert.ErrorIs(t, err, ErrFormatMismatch)
	})

	t.Run("Out of range index", func(t *testing.T) {
		coo := refCoo(t)
		bad := []Triplet[float64]{{Row: 0, Col: 3, Value: 1}}
		err := LoadTriplets[float64](&SliceSource[float64]{Rows: 3, Cols: 3, Entries: bad}, coo)
		assert.ErrorIs(t, err, ErrMalformedInput)
		assert.Equal(t, refEntries, mustTriplets(t, coo))
	})

	t.Run("Declared shape too small", func(t *testing.T) {
		err := LoadTriplets[float64](&SliceSource[float64]{Rows: 1, Cols: 1, Entries: refEntries}, &CooMatrix[float64]{})
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("Truncated stream", func(t *testing.T) {
		src := &truncatedSource{SliceSource: SliceSource[float64]{Rows: 3, Cols: 3, Entries: refEntries}, declared: 6}
		err := LoadTriplets[float64](src, &CooMatrix[float64]{})
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("Trailing entries", func(t *testing.T) {
		src := &truncatedSource{SliceSource: SliceSource[float64]{Rows: 3, Cols: 3, Entries: refEntries}, declared: 2}
		err := LoadTriplets[float64](src, &CooMatrix[float64]{})
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("Reader errors pass through", func(t *testing.T) {
		boom := errors.New("disk on fire")
		err := LoadTriplets[float64](&failingSource{err: boom}, &CooMatrix[float64]{})
		assert.ErrorIs(t, err, boom)
	})
}

type truncatedSource struct {
	SliceSource[float64]
	declared int
}

func (s *truncatedSource) Shape() (int, int, int, error) {
	return s.Rows, s.Cols, s.declared, nil
}

type failingSource struct {
	err error
}

func (s *failingSource) Shape() (int, int, int, error) { return 2, 2, 1, nil }

func (s *failingSource) Next() (Triplet[float64], error) { return Triplet[float64]{}, s.err }
