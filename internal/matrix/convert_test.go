package matrix

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-sparse/internal/space"
)

var concreteFormats = []Format{FormatCOO, FormatCSR, FormatDIA, FormatELL, FormatDense}

func TestConvertRoundTrip(t *testing.T) {
	exec := space.NewSerial()
	for _, f1 := range concreteFormats {
		for _, f2 := range concreteFormats {
			t.Run(f1.String()+"_"+f2.String(), func(t *testing.T) {
				src := refAll(t)[f1]
				mid := emptyOf(f2)
				back := emptyOf(f1)

				require.NoError(t, Convert(exec, src, mid))
				assert.Equal(t, refEntries, mustTriplets(t, mid))

				require.NoError(t, Convert(exec, mid, back))
				assert.Equal(t, refEntries, mustTriplets(t, back))
				assert.Equal(t, 3, back.NRows())
				assert.Equal(t, 3, back.NCols())
			})
		}
	}
}

func TestConvertThreadsMatchesSerial(t *testing.T) {
	for _, f := range concreteFormats {
		dst := emptyOf(f)
		require.NoError(t, Convert[float64](space.NewThreads(3), refCoo(t), dst))
		assert.Equal(t, refEntries, mustTriplets(t, dst), f.String())
	}
}

func TestConvertToCsrSortsRows(t *testing.T) {
	coo, err := NewCooMatrixFrom(space.HostMemory, 3, 3,
		[]int{2, 0, 1, 0},
		[]int{1, 2, 2, 0},
		[]float64{4.44, 2.22, 3.33, 1.11})
	require.NoError(t, err)
	require.False(t, coo.IsSorted())

	csr := &CsrMatrix[float64]{}
	require.NoError(t, Convert[float64](space.NewSerial(), coo, csr))
	assert.Equal(t, []int{0, 2, 3, 4}, csr.RowOffsets().Data())
	assert.Equal(t, []int{0, 2, 2, 1}, csr.ColumnIndices().Data())
	assert.Equal(t, []float64{1.11, 2.22, 3.33, 4.44}, csr.Values().Data())

	// The source is not reordered.
	assert.Equal(t, []int{2, 0, 1, 0}, coo.RowIndices().Data())
}

func TestConvertEllPaddingExcluded(t *testing.T) {
	exec := space.NewSerial()
	ell := &EllMatrix[float64]{}
	require.NoError(t, Convert[float64](exec, refCsr(t), ell))
	assert.Equal(t, 2, ell.EntriesPerRow())
	assert.Equal(t, DefaultEllAlignment, ell.Alignment())
	assert.Equal(t, 3*32, ell.ColumnIndices().Len())

	sentinels := 0
	for _, c := range ell.ColumnIndices().Data() {
		if c == InvalidIndex {
			sentinels++
		}
	}
	assert.Equal(t, 3*32-4, sentinels)

	coo := &CooMatrix[float64]{}
	require.NoError(t, Convert[float64](exec, ell, coo))
	assert.Equal(t, ell.NNNZ(), coo.NNNZ())
	assert.Equal(t, 4, coo.NNNZ())

	// A custom alignment on the destination is kept.
	narrow := &EllMatrix[float64]{}
	require.NoError(t, narrow.Resize(0, 0, 0, 0, 4))
	require.NoError(t, Convert[float64](exec, refCoo(t), narrow))
	assert.Equal(t, 4, narrow.PaddedWidth())

	unpadded, err := NewEllMatrix[float64](space.HostMemory, 0, 0, 0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, Convert[float64](exec, refCoo(t), unpadded))
	assert.Equal(t, 0, unpadded.Alignment())
	assert.Equal(t, 2, unpadded.PaddedWidth())
	assert.Equal(t, 3*2, unpadded.ColumnIndices().Len())
	assert.Equal(t, refEntries, mustTriplets(t, unpadded))
}

func TestConvertDiaSkipsOutOfRange(t *testing.T) {
	// A 2x4 matrix with diagonals -1, 0 and 3; most slots fall outside.
	dia, err := NewDiaMatrix[int](space.HostMemory, 2, 4, 3, 3)
	require.NoError(t, err)
	copy(dia.DiagonalOffsets().Data(), []int{-1, 0, 3})
	copy(dia.Values().Data(), []int{
		9, 1, 5, // row 0: (0,-1) out, (0,0)=1, (0,3)=5
		2, 3, 9, // row 1: (1,0)=2, (1,1)=3, (1,4) out
	})

	coo := &CooMatrix[int]{}
	require.NoError(t, Convert[int](space.NewSerial(), dia, coo))
	assert.Equal(t, []Triplet[int]{
		{Row: 0, Col: 0, Value: 1},
		{Row: 0, Col: 3, Value: 5},
		{Row: 1, Col: 0, Value: 2},
		{Row: 1, Col: 1, Value: 3},
	}, mustTripletsInt(t, coo))

	back := &DiaMatrix[int]{}
	require.NoError(t, Convert[int](space.NewSerial(), coo, back))
	assert.Equal(t, []int{-1, 0, 3}, back.DiagonalOffsets().Data())
	assert.Equal(t, 4, back.NNNZ())
}

func TestConvertSameFormatCopies(t *testing.T) {
	src := refCsr(t)
	dev := &CsrMatrix[float64]{mem: space.DeviceMemory}
	require.NoError(t, Convert[float64](space.NewSerial(), src, dev))
	assert.Equal(t, space.DeviceMemory, dev.MemorySpace())
	assert.Equal(t, src.Values().Data(), dev.Values().Data())
	assert.False(t, dev.Values().SharesStorage(src.Values()))
}

func TestConvertDynamic(t *testing.T) {
	exec := space.NewSerial()

	t.Run("Into active format", func(t *testing.T) {
		dst := NewDynamicMatrix[float64](space.HostMemory)
		dst.ActivateFormat(FormatELL)
		require.NoError(t, Convert[float64](exec, refDia(t), dst))
		assert.Equal(t, FormatELL, dst.ActiveFormat())
		assert.Equal(t, refEntries, mustTriplets(t, dst))
	})

	t.Run("Out of active format", func(t *testing.T) {
		src, err := NewDynamicMatrixFrom[float64](refDense(t))
		require.NoError(t, err)
		csr := &CsrMatrix[float64]{}
		require.NoError(t, Convert[float64](exec, src, csr))
		assert.Equal(t, refEntries, mustTriplets(t, csr))
	})

	t.Run("Counts conversions", func(t *testing.T) {
		before := testutil.ToFloat64(conversions.WithLabelValues("DIA", "CSR"))
		require.NoError(t, Convert[float64](exec, refDia(t), &CsrMatrix[float64]{}))
		assert.Equal(t, before+1, testutil.ToFloat64(conversions.WithLabelValues("DIA", "CSR")))
	})
}

func TestConvertFailures(t *testing.T) {
	devCsr, err := NewCsrMatrix[float64](space.DeviceMemory, 3, 3, 0)
	require.NoError(t, err)
	devEll := &EllMatrix[float64]{mem: space.DeviceMemory}

	t.Run("No converter in device memory", func(t *testing.T) {
		err := Convert[float64](space.NewDevice(0), devCsr, devEll)
		assert.ErrorIs(t, err, ErrNotImplemented)
		var opErr *OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "convert", opErr.Op)
		assert.Equal(t, "Device", opErr.Backend)
	})

	t.Run("Execution space cannot reach memory", func(t *testing.T) {
		err := Convert[float64](space.NewSerial(), devCsr, &EllMatrix[float64]{})
		assert.ErrorIs(t, err, ErrNoAccess)
	})
}

func mustTripletsInt(t *testing.T, m Matrix[int]) []Triplet[int] {
	t.Helper()
	out, err := Triplets(m)
	require.NoError(t, err)
	return out
}
