package algorithms

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/space"
)

// Reference matrix:
//
//	[1.11 *    2.22]
//	[*    *    3.33]
//	[*    4.44 *   ]
func refCoo(t *testing.T) *matrix.CooMatrix[float64] {
	t.Helper()
	m, err := matrix.NewCooMatrixFrom(space.HostMemory, 3, 3,
		[]int{0, 0, 1, 2},
		[]int{0, 2, 2, 1},
		[]float64{1.11, 2.22, 3.33, 4.44})
	require.NoError(t, err)
	return m
}

var formats = []matrix.Format{
	matrix.FormatCOO, matrix.FormatCSR, matrix.FormatDIA, matrix.FormatELL, matrix.FormatDense,
}

func execs() []space.ExecutionSpace {
	return []space.ExecutionSpace{space.NewSerial(), space.NewThreads(3), space.NewDevice(2)}
}

// refAs returns the reference matrix held by a dynamic matrix with f
// active, in mem.
func refAs(t *testing.T, f matrix.Format, mem space.MemorySpace) *matrix.DynamicMatrix[float64] {
	t.Helper()
	return convertTo(t, refCoo(t), f, mem)
}

func convertTo[V matrix.Value](t *testing.T, src matrix.Matrix[V], f matrix.Format, mem space.MemorySpace) *matrix.DynamicMatrix[V] {
	t.Helper()
	host := matrix.NewDynamicMatrix[V](space.HostMemory)
	host.ActivateFormat(f)
	require.NoError(t, matrix.Convert(space.NewSerial(), src, host))
	if mem == space.HostMemory {
		return host
	}
	dev := matrix.CreateMirrorIn(host, mem)
	require.NoError(t, matrix.Copy[V](host, dev))
	return dev
}
