package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-sparse/internal/space"
)

// Reference matrix used across tests:
//
//	[1.11 *    2.22]
//	[*    *    3.33]
//	[*    4.44 *   ]
var refEntries = []Triplet[float64]{
	{Row: 0, Col: 0, Value: 1.11},
	{Row: 0, Col: 2, Value: 2.22},
	{Row: 1, Col: 2, Value: 3.33},
	{Row: 2, Col: 1, Value: 4.44},
}

func refCoo(t *testing.T) *CooMatrix[float64] {
	t.Helper()
	m, err := NewCooMatrixFrom(space.HostMemory, 3, 3,
		[]int{0, 0, 1, 2},
		[]int{0, 2, 2, 1},
		[]float64{1.11, 2.22, 3.33, 4.44})
	require.NoError(t, err)
	return m
}

func refCsr(t *testing.T) *CsrMatrix[float64] {
	t.Helper()
	m, err := NewCsrMatrixFrom(space.HostMemory, 3, 3,
		[]int{0, 2, 3, 4},
		[]int{0, 2, 2, 1},
		[]float64{1.11, 2.22, 3.33, 4.44})
	require.NoError(t, err)
	return m
}

func refDia(t *testing.T) *DiaMatrix[float64] {
	t.Helper()
	m, err := NewDiaMatrix[float64](space.HostMemory, 3, 3, 4, 4)
	require.NoError(t, err)
	copy(m.DiagonalOffsets().Data(), []int{-1, 0, 1, 2})
	// row-major [rows x ndiag]
	copy(m.Values().Data(), []float64{
		0, 1.11, 0, 2.22,
		0, 0, 3.33, 0,
		4.44, 0, 0, 0,
	})
	return m
}

func refEll(t *testing.T) *EllMatrix[float64] {
	t.Helper()
	m, err := NewEllMatrix[float64](space.HostMemory, 3, 3, 4, 2, DefaultEllAlignment)
	require.NoError(t, err)
	m.SetSlot(0, 0, 0, 1.11)
	m.SetSlot(0, 1, 2, 2.22)
	m.SetSlot(1, 0, 2, 3.33)
	m.SetSlot(2, 0, 1, 4.44)
	return m
}

func refDense(t *testing.T) *DenseMatrix[float64] {
	t.Helper()
	m, err := NewDenseMatrixFrom(space.HostMemory, 3, 3, []float64{
		1.11, 0, 2.22,
		0, 0, 3.33,
		0, 4.44, 0,
	})
	require.NoError(t, err)
	return m
}

// refAll returns the reference matrix in every concrete format.
func refAll(t *testing.T) map[Format]Matrix[float64] {
	return map[Format]Matrix[float64]{
		FormatCOO:   refCoo(t),
		FormatCSR:   refCsr(t),
		FormatDIA:   refDia(t),
		FormatELL:   refEll(t),
		FormatDense: refDense(t),
	}
}

func emptyOf(f Format) Matrix[float64] {
	return newVariant[float64](f, space.HostMemory)
}

func mustTriplets(t *testing.T, m Matrix[float64]) []Triplet[float64] {
	t.Helper()
	out, err := Triplets(m)
	require.NoError(t, err)
	return out
}

func valuesOf(m Matrix[float64]) []float64 {
	switch c := Concrete(m).(type) {
	case *CooMatrix[float64]:
		return c.Values().Data()
	case *CsrMatrix[float64]:
		return c.Values().Data()
	case *DiaMatrix[float64]:
		return c.Values().Data()
	case *EllMatrix[float64]:
		return c.Values().Data()
	case *DenseMatrix[float64]:
		return c.Values().Data()
	}
	return nil
}
