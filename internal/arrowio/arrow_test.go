package arrowio

import (
	"bytes"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/space"
)

var refEntries = []matrix.Triplet[float64]{
	{Row: 0, Col: 0, Value: 1.11},
	{Row: 0, Col: 2, Value: 2.22},
	{Row: 1, Col: 2, Value: 3.33},
	{Row: 2, Col: 1, Value: 4.44},
}

func refCsr(t *testing.T) *matrix.CsrMatrix[float64] {
	t.Helper()
	m, err := matrix.NewCsrMatrixFrom(space.HostMemory, 3, 3,
		[]int{0, 2, 3, 4},
		[]int{0, 2, 2, 1},
		[]float64{1.11, 2.22, 3.33, 4.44})
	require.NoError(t, err)
	return m
}

func TestBuild(t *testing.T) {
	pool := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer pool.AssertSize(t, 0)
	builder := NewRecordBatchBuilder(pool)

	t.Run("Sparse matrix", func(t *testing.T) {
		rec, err := Build[float64](builder, refCsr(t))
		require.NoError(t, err)
		defer rec.Release()

		assert.Equal(t, int64(4), rec.NumRows())
		assert.Equal(t, int64(3), rec.NumCols())
		assert.Equal(t, RowColumn, rec.ColumnName(0))
		assert.Equal(t, ValueColumn, rec.ColumnName(2))

		rows := rec.Column(0).(*array.Int64)
		cols := rec.Column(1).(*array.Int64)
		vals := rec.Column(2).(*array.Float64)
		assert.Equal(t, []int64{0, 0, 1, 2}, rows.Int64Values())
		assert.Equal(t, []int64{0, 2, 2, 1}, cols.Int64Values())
		assert.Equal(t, []float64{1.11, 2.22, 3.33, 4.44}, vals.Float64Values())

		md := rec.Schema().Metadata()
		assert.Equal(t, "3", md.Values()[md.FindKey(RowsKey)])
		assert.Equal(t, "3", md.Values()[md.FindKey(ColsKey)])
	})

	t.Run("Empty matrix keeps its shape", func(t *testing.T) {
		empty, err := matrix.NewCooMatrix[int](space.HostMemory, 5, 2, 0)
		require.NoError(t, err)
		rec, err := Build[int](builder, empty)
		require.NoError(t, err)
		defer rec.Release()
		assert.Equal(t, int64(0), rec.NumRows())

		src, err := NewRecordSource[int](rec)
		require.NoError(t, err)
		defer src.Release()
		r, c, n, err := src.Shape()
		require.NoError(t, err)
		assert.Equal(t, []int{5, 2, 0}, []int{r, c, n})
	})

	t.Run("Device memory is unreachable", func(t *testing.T) {
		dev, err := matrix.NewCsrMatrix[float64](space.DeviceMemory, 2, 2, 0)
		require.NoError(t, err)
		_, err = Build[float64](builder, dev)
		assert.ErrorIs(t, err, matrix.ErrNoAccess)
	})
}

func TestRecordSourceLoadsCoo(t *testing.T) {
	pool := memory.NewGoAllocator()
	rec, err := Build[float64](NewRecordBatchBuilder(pool), refCsr(t))
	require.NoError(t, err)
	defer rec.Release()

	src, err := NewRecordSource[float64](rec)
	require.NoError(t, err)
	defer src.Release()

	d := matrix.NewDynamicMatrix[float64](space.HostMemory)
	require.NoError(t, matrix.LoadTriplets[float64](src, d))
	got, err := matrix.Triplets[float64](d)
	require.NoError(t, err)
	assert.Equal(t, refEntries, got)
}

func TestIntegerValuesRoundTripExactly(t *testing.T) {
	pool := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer pool.AssertSize(t, 0)

	big := int64(1)<<53 + 1
	coo, err := matrix.NewCooMatrixFrom(space.HostMemory, 2, 3, []int{0, 1}, []int{2, 0}, []int64{big, -big})
	require.NoError(t, err)

	rec, err := Build[int64](NewRecordBatchBuilder(pool), coo)
	require.NoError(t, err)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, rec.Schema().Field(2).Type)
	assert.Equal(t, []int64{big, -big}, rec.Column(2).(*array.Int64).Int64Values())
	rec.Release()

	var buf bytes.Buffer
	require.NoError(t, Export[int64](&buf, pool, coo))
	back := &matrix.CooMatrix[int64]{}
	require.NoError(t, Import[int64](&buf, pool, back))
	assert.Equal(t, []int64{big, -big}, back.Values().Data())

	t.Run("Float columns still load into integer matrices", func(t *testing.T) {
		rec, err := Build[float64](NewRecordBatchBuilder(pool), refCsr(t))
		require.NoError(t, err)
		defer rec.Release()
		src, err := NewRecordSource[int](rec)
		require.NoError(t, err)
		defer src.Release()
		first, err := src.Next()
		require.NoError(t, err)
		assert.Equal(t, matrix.Triplet[int]{Row: 0, Col: 0, Value: 1}, first)
	})
}

func TestRecordSourceRejectsBadBatches(t *testing.T) {
	pool := memory.NewGoAllocator()

	build := func(schema *arrow.Schema, rows, cols []int64, vals []float64) arrow.RecordBatch {
		rb := array.NewRecordBuilder(pool, schema)
		defer rb.Release()
		rb.Field(0).(*array.Int64Builder).AppendValues(rows, nil)
		rb.Field(1).(*array.Int64Builder).AppendValues(cols, nil)
		rb.Field(2).(*array.Float64Builder).AppendValues(vals, nil)
		return rb.NewRecord()
	}

	t.Run("Missing shape", func(t *testing.T) {
		schema := arrow.NewSchema(Schema(1, 1).Fields(), nil)
		rec := build(schema, []int64{0}, []int64{0}, []float64{1})
		defer rec.Release()
		_, err := NewRecordSource[float64](rec)
		assert.ErrorIs(t, err, matrix.ErrMalformedInput)
	})

	t.Run("Wrong column type", func(t *testing.T) {
		md := arrow.NewMetadata([]string{RowsKey, ColsKey}, []string{"1", "1"})
		schema := arrow.NewSchema([]arrow.Field{
			{Name: RowColumn, Type: arrow.PrimitiveTypes.Int64},
			{Name: ColColumn, Type: arrow.PrimitiveTypes.Int64},
			{Name: ValueColumn, Type: arrow.PrimitiveTypes.Float32},
		}, &md)
		rb := array.NewRecordBuilder(pool, schema)
		defer rb.Release()
		rb.Field(0).(*array.Int64Builder).Append(0)
		rb.Field(1).(*array.Int64Builder).Append(0)
		rb.Field(2).(*array.Float32Builder).Append(1)
		rec := rb.NewRecord()
		defer rec.Release()

		_, err := NewRecordSource[float64](rec)
		assert.ErrorIs(t, err, matrix.ErrMalformedInput)
	})

	t.Run("Index outside declared shape", func(t *testing.T) {
		rec := build(Schema(2, 2), []int64{0, 1}, []int64{0, 2}, []float64{1, 2})
		defer rec.Release()
		src, err := NewRecordSource[float64](rec)
		require.NoError(t, err)
		defer src.Release()
		assert.ErrorIs(t, matrix.LoadTriplets[float64](src, &matrix.CooMatrix[float64]{}), matrix.ErrMalformedInput)
	})
}

func TestStreamRoundTrip(t *testing.T) {
	pool := memory.NewGoAllocator()
	ell := &matrix.EllMatrix[float64]{}
	require.NoError(t, matrix.Convert[float64](space.NewSerial(), refCsr(t), ell))

	var buf bytes.Buffer
	require.NoError(t, Export[float64](&buf, pool, ell))

	coo := &matrix.CooMatrix[float64]{}
	require.NoError(t, Import[float64](&buf, pool, coo))
	assert.Equal(t, 3, coo.NRows())
	assert.Equal(t, 3, coo.NCols())
	got, err := matrix.Triplets[float64](coo)
	require.NoError(t, err)
	assert.Equal(t, refEntries, got)

	t.Run("Empty stream", func(t *testing.T) {
		_, err := ReadStream(bytes.NewReader(nil), pool)
		assert.Error(t, err)
	})

	t.Run("Wrong destination state", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Export[float64](&buf, pool, refCsr(t)))
		assert.ErrorIs(t, Import[float64](&buf, pool, refCsr(t)), matrix.ErrFormatMismatch)
	})
}
