package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-sparse/internal/space"
)

func TestCreateMirror(t *testing.T) {
	t.Run("Host source is aliased", func(t *testing.T) {
		src := refCsr(t)
		mirror := CreateMirror(src)
		assert.Same(t, src, mirror)

		mirror.Values().Set(0, 42)
		assert.Equal(t, 42.0, src.Values().At(0))
	})

	t.Run("Device source gets an empty host twin", func(t *testing.T) {
		dev := refCoo(t).zeroed(space.DeviceMemory)
		copy(dev.Values().Data(), []float64{1, 2, 3, 4})

		mirror := CreateMirror(dev)
		assert.Equal(t, space.HostMemory, mirror.MemorySpace())
		assert.Equal(t, dev.NRows(), mirror.NRows())
		assert.Equal(t, dev.NCols(), mirror.NCols())
		assert.Equal(t, dev.NNNZ(), mirror.NNNZ())
		assert.Equal(t, []float64{0, 0, 0, 0}, mirror.Values().Data())

		require.NoError(t, Copy[float64](dev, mirror))
		assert.Equal(t, []float64{1, 2, 3, 4}, mirror.Values().Data())
	})

	t.Run("Explicit target space", func(t *testing.T) {
		src := refEll(t)
		dev := CreateMirrorIn(src, space.DeviceMemory)
		assert.Equal(t, space.DeviceMemory, dev.MemorySpace())
		assert.Equal(t, src.PaddedWidth(), dev.PaddedWidth())
		assert.Equal(t, src.ColumnIndices().Len(), dev.ColumnIndices().Len())
		for _, v := range dev.Values().Data() {
			assert.Zero(t, v)
		}
	})

	t.Run("Vectors", func(t *testing.T) {
		v := NewDenseVectorFrom(space.HostMemory, []int{1, 2, 3})
		assert.Same(t, v, CreateMirror(v))

		dev := CreateMirrorIn(v, space.DeviceMemory)
		assert.Equal(t, 3, dev.Size())
		assert.Equal(t, []int{0, 0, 0}, dev.Data())

		require.NoError(t, CopyVector(v, dev))
		assert.Equal(t, []int{1, 2, 3}, dev.Data())
		assert.ErrorIs(t, CopyVector(v, NewDenseVector(space.HostMemory, 2, 0)), ErrShapeMismatch)
	})
}

func TestCreateMirrorContainer(t *testing.T) {
	t.Run("Same space shares buffers", func(t *testing.T) {
		src := refDia(t)
		mirror := CreateMirrorContainer(src, space.NewThreads(2))
		assert.NotSame(t, src, mirror)
		assert.True(t, mirror.Values().SharesStorage(src.Values()))

		mirror.SetValue(0, 1, 8.5)
		assert.Equal(t, 8.5, src.Value(0, 1))

		// Resizing the mirror rebinds only the mirror.
		require.NoError(t, mirror.Resize(3, 3, 0, 1))
		assert.Equal(t, 4, src.NDiag())
	})

	t.Run("Different space allocates only", func(t *testing.T) {
		src := refDense(t)
		mirror := CreateMirrorContainer(src, space.NewDevice(0))
		assert.Equal(t, space.DeviceMemory, mirror.MemorySpace())
		assert.Equal(t, 3, mirror.NRows())
		assert.Zero(t, mirror.At(0, 0))
	})

	t.Run("Dynamic keeps active format", func(t *testing.T) {
		d, err := NewDynamicMatrixFrom[float64](refEll(t))
		require.NoError(t, err)

		shallow := CreateMirrorContainer(d, space.NewSerial())
		assert.Equal(t, FormatELL, shallow.ActiveFormat())
		valuesOf(shallow)[0] = 3
		assert.Equal(t, 3.0, valuesOf(d)[0])

		dev := CreateMirrorIn(d, space.DeviceMemory)
		assert.Equal(t, FormatELL, dev.ActiveFormat())
		assert.Equal(t, space.DeviceMemory, dev.MemorySpace())
		assert.Equal(t, space.DeviceMemory, dev.Active().MemorySpace())
		assert.Equal(t, d.NNNZ(), dev.NNNZ())

		assert.Same(t, d, CreateMirror(d))
	})
}

func TestCopy(t *testing.T) {
	t.Run("Shape mismatch", func(t *testing.T) {
		dst, err := NewCooMatrix[float64](space.HostMemory, 3, 3, 2)
		require.NoError(t, err)
		assert.ErrorIs(t, Copy[float64](refCoo(t), dst), ErrShapeMismatch)
	})

	t.Run("Format mismatch", func(t *testing.T) {
		assert.ErrorIs(t, Copy[float64](refCoo(t), refCsr(t)), ErrFormatMismatch)
	})

	t.Run("Dynamic active formats differ", func(t *testing.T) {
		d, err := NewDynamicMatrixFrom[float64](refCsr(t))
		require.NoError(t, err)
		assert.ErrorIs(t, Copy[float64](refCoo(t), d), ErrWrongState)
	})

	t.Run("Dynamic to dynamic", func(t *testing.T) {
		src, err := NewDynamicMatrixFrom[float64](refEll(t))
		require.NoError(t, err)
		dst := CreateMirrorIn(src, space.DeviceMemory)
		require.NoError(t, Copy[float64](src, dst))
		assert.Equal(t, valuesOf(src), valuesOf(dst))
	})
}
