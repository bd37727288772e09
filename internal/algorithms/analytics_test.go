package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/space"
)

func TestCountNNZPerRow(t *testing.T) {
	want := map[matrix.Format][]int{
		matrix.FormatCOO:   {2, 1, 1},
		matrix.FormatCSR:   {2, 1, 1},
		matrix.FormatDIA:   {3, 3, 2}, // in-range slots of diagonals -1, 0, 1, 2
		matrix.FormatELL:   {2, 1, 1},
		matrix.FormatDense: {2, 1, 1},
	}

	for _, exec := range execs() {
		for _, f := range formats {
			t.Run(exec.Name()+"/"+f.String(), func(t *testing.T) {
				mem := exec.MemorySpace()
				a := refAs(t, f, mem)
				out := matrix.NewDenseVector(mem, 3, 0)

				err := CountNNZPerRow(exec, a, out, true)
				if exec.Backend() == space.BackendDevice {
					assert.ErrorIs(t, err, matrix.ErrNotImplemented)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, want[f], out.Data())

				acc := matrix.NewDenseVector(mem, 3, 1)
				require.NoError(t, CountNNZPerRow(exec, a, acc, false))
				for i, n := range want[f] {
					assert.Equal(t, n+1, acc.At(i))
				}
			})
		}
	}

	t.Run("Size mismatch", func(t *testing.T) {
		out := matrix.NewDenseVector(space.HostMemory, 2, 0)
		err := CountNNZPerRow[float64](space.NewSerial(), refCoo(t), out, true)
		assert.ErrorIs(t, err, matrix.ErrSizeMismatch)
	})
}

func TestCountNNZPerRowCooDuplicates(t *testing.T) {
	// Entries spread across chunks must all be counted.
	rows := []int{0, 0, 0, 1, 1, 2, 2, 2, 2}
	cols := []int{0, 1, 2, 0, 1, 0, 1, 2, 3}
	vals := make([]float32, len(rows))
	coo, err := matrix.NewCooMatrixFrom(space.HostMemory, 3, 4, rows, cols, vals)
	require.NoError(t, err)

	out := matrix.NewDenseVector(space.HostMemory, 3, 0)
	require.NoError(t, CountNNZPerRow[float32](space.NewThreads(4), coo, out, true))
	assert.Equal(t, []int{3, 2, 4}, out.Data())
}

func TestAnalyze(t *testing.T) {
	exec := space.NewThreads(2)
	a := refAs(t, matrix.FormatCSR, space.HostMemory)

	assert.Equal(t, 3, NumberOfRows[float64](a))
	assert.Equal(t, 3, NumberOfColumns[float64](a))
	assert.Equal(t, 4, NumberOfNNZ[float64](a))
	assert.InDelta(t, 4.0/3.0, AverageNNZ[float64](a), 1e-12)

	s, err := Analyze[float64](exec, a)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0, s.Average, 1e-12)
	assert.Equal(t, 2, s.Max)
	assert.Equal(t, 1, s.Min)
	assert.InDelta(t, math.Sqrt(2.0/9.0), s.Std, 1e-12)

	maxNNZ, err := MaxNNZ[float64](exec, a)
	require.NoError(t, err)
	assert.Equal(t, 2, maxNNZ)
	minNNZ, err := MinNNZ[float64](exec, a)
	require.NoError(t, err)
	assert.Equal(t, 1, minNNZ)
	std, err := StdNNZ[float64](exec, a)
	require.NoError(t, err)
	assert.InDelta(t, s.Std, std, 1e-15)

	t.Run("Dense average follows row counts", func(t *testing.T) {
		s, err := Analyze[float64](exec, refAs(t, matrix.FormatDense, space.HostMemory))
		require.NoError(t, err)
		assert.Equal(t, 9, s.NNZ)
		assert.InDelta(t, 4.0/3.0, s.Average, 1e-12)
		assert.Equal(t, 2, s.Max)
		assert.Equal(t, 1, s.Min)
		assert.LessOrEqual(t, float64(s.Min), s.Average)
		assert.GreaterOrEqual(t, float64(s.Max), s.Average)
	})

	t.Run("Empty matrix", func(t *testing.T) {
		s, err := Analyze[float64](exec, &matrix.CsrMatrix[float64]{})
		require.NoError(t, err)
		assert.Equal(t, Stats{}, s)
	})

	t.Run("Device has no row counter", func(t *testing.T) {
		_, err := Analyze[float64](space.NewDevice(0), refAs(t, matrix.FormatCSR, space.DeviceMemory))
		assert.ErrorIs(t, err, matrix.ErrNotImplemented)
	})
}
