// Package arrowio moves sparse matrices in and out of Arrow record batches
// as (row, col, value) triplets.
package arrowio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/23skdu/longbow-sparse/internal/matrix"
)

const (
	RowColumn   = "row"
	ColColumn   = "col"
	ValueColumn = "value"

	// Schema metadata keys carrying the matrix shape.
	RowsKey = "rows"
	ColsKey = "cols"
)

// Schema returns the triplet schema for a rows x cols matrix with
// float64 values.
func Schema(rows, cols int) *arrow.Schema {
	return schemaWith(rows, cols, arrow.PrimitiveTypes.Float64)
}

// SchemaFor is the schema Build uses for value type V: int64 values for
// the integer types, float64 otherwise.
func SchemaFor[V matrix.Value](rows, cols int) *arrow.Schema {
	return schemaWith(rows, cols, valueType[V]())
}

func schemaWith(rows, cols int, values arrow.DataType) *arrow.Schema {
	md := arrow.NewMetadata(
		[]string{RowsKey, ColsKey},
		[]string{strconv.Itoa(rows), strconv.Itoa(cols)},
	)
	return arrow.NewSchema([]arrow.Field{
		{Name: RowColumn, Type: arrow.PrimitiveTypes.Int64},
		{Name: ColColumn, Type: arrow.PrimitiveTypes.Int64},
		{Name: ValueColumn, Type: values},
	}, &md)
}

func isInteger[V matrix.Value]() bool {
	return V(1)/V(2) == 0
}

func valueType[V matrix.Value]() arrow.DataType {
	if isInteger[V]() {
		return arrow.PrimitiveTypes.Int64
	}
	return arrow.PrimitiveTypes.Float64
}

// RecordBatchBuilder creates Arrow RecordBatches from matrices.
type RecordBatchBuilder struct {
	mem memory.Allocator
}

func NewRecordBatchBuilder(mem memory.Allocator) *RecordBatchBuilder {
	return &RecordBatchBuilder{mem: mem}
}

// Build exports the stored entries of m sorted by (row, col). Any format
// in host memory is accepted; an empty matrix yields a batch with no rows.
// Integer matrices get an int64 value column so every value survives.
func Build[V matrix.Value](b *RecordBatchBuilder, m matrix.Matrix[V]) (arrow.RecordBatch, error) {
	entries, err := matrix.Triplets(m)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", m.Name(), err)
	}

	rows := array.NewInt64Builder(b.mem)
	defer rows.Release()
	cols := array.NewInt64Builder(b.mem)
	defer cols.Release()
	rows.Reserve(len(entries))
	cols.Reserve(len(entries))
	for _, e := range entries {
		rows.Append(int64(e.Row))
		cols.Append(int64(e.Col))
	}

	arrs := []arrow.Array{rows.NewArray(), cols.NewArray(), buildValues(b.mem, entries)}
	defer func() {
		for _, a := range arrs {
			a.Release()
		}
	}()
	return array.NewRecordBatch(SchemaFor[V](m.NRows(), m.NCols()), arrs, int64(len(entries))), nil
}

func buildValues[V matrix.Value](mem memory.Allocator, entries []matrix.Triplet[V]) arrow.Array {
	if isInteger[V]() {
		vals := array.NewInt64Builder(mem)
		defer vals.Release()
		vals.Reserve(len(entries))
		for _, e := range entries {
			vals.Append(int64(e.Value))
		}
		return vals.NewArray()
	}
	vals := array.NewFloat64Builder(mem)
	defer vals.Release()
	vals.Reserve(len(entries))
	for _, e := range entries {
		vals.Append(float64(e.Value))
	}
	return vals.NewArray()
}

// RecordSource reads triplets from a record batch in the Schema layout.
// It satisfies matrix.TripletSource.
type RecordSource[V matrix.Value] struct {
	rec        arrow.RecordBatch
	rows, cols int
	rowIdx     *array.Int64
	colIdx     *array.Int64
	value      func(i int) V
	next       int
}

// NewRecordSource validates rec's columns and shape metadata. The source
// retains rec until Release.
func NewRecordSource[V matrix.Value](rec arrow.RecordBatch) (*RecordSource[V], error) {
	s := &RecordSource[V]{rec: rec}
	var err error
	if s.rows, err = shapeValue(rec.Schema(), RowsKey); err != nil {
		return nil, err
	}
	if s.cols, err = shapeValue(rec.Schema(), ColsKey); err != nil {
		return nil, err
	}
	if s.rowIdx, err = column[*array.Int64](rec, RowColumn); err != nil {
		return nil, err
	}
	if s.colIdx, err = column[*array.Int64](rec, ColColumn); err != nil {
		return nil, err
	}
	if s.value, err = valueColumn[V](rec); err != nil {
		return nil, err
	}
	rec.Retain()
	return s, nil
}

func shapeValue(schema *arrow.Schema, key string) (int, error) {
	md := schema.Metadata()
	idx := md.FindKey(key)
	if idx < 0 {
		return 0, fmt.Errorf("%w: schema metadata has no %q", matrix.ErrMalformedInput, key)
	}
	n, err := strconv.Atoi(md.Values()[idx])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: schema metadata %q=%q", matrix.ErrMalformedInput, key, md.Values()[idx])
	}
	return n, nil
}

func column[A arrow.Array](rec arrow.RecordBatch, name string) (A, error) {
	var zero A
	idx := rec.Schema().FieldIndices(name)
	if len(idx) != 1 {
		return zero, fmt.Errorf("%w: expected one %q column, found %d", matrix.ErrMalformedInput, name, len(idx))
	}
	a, ok := rec.Column(idx[0]).(A)
	if !ok {
		return zero, fmt.Errorf("%w: column %q has type %s", matrix.ErrMalformedInput, name, rec.Column(idx[0]).DataType())
	}
	if a.NullN() > 0 {
		return zero, fmt.Errorf("%w: column %q has %d nulls", matrix.ErrMalformedInput, name, a.NullN())
	}
	return a, nil
}

// valueColumn accepts a float64 or an int64 value column.
func valueColumn[V matrix.Value](rec arrow.RecordBatch) (func(int) V, error) {
	if idx := rec.Schema().FieldIndices(ValueColumn); len(idx) == 1 && rec.Column(idx[0]).DataType().ID() == arrow.INT64 {
		ints, err := column[*array.Int64](rec, ValueColumn)
		if err != nil {
			return nil, err
		}
		return func(i int) V { return V(ints.Value(i)) }, nil
	}
	floats, err := column[*array.Float64](rec, ValueColumn)
	if err != nil {
		return nil, err
	}
	return func(i int) V { return V(floats.Value(i)) }, nil
}

func (s *RecordSource[V]) Shape() (int, int, int, error) {
	return s.rows, s.cols, int(s.rec.NumRows()), nil
}

func (s *RecordSource[V]) Next() (matrix.Triplet[V], error) {
	if s.next >= int(s.rec.NumRows()) {
		return matrix.Triplet[V]{}, io.EOF
	}
	n := s.next
	s.next++
	return matrix.Triplet[V]{
		Row:   int(s.rowIdx.Value(n)),
		Col:   int(s.colIdx.Value(n)),
		Value: s.value(n),
	}, nil
}

func (s *RecordSource[V]) Release() {
	s.rec.Release()
}

// WriteStream writes rec as an Arrow IPC stream.
func WriteStream(w io.Writer, rec arrow.RecordBatch) error {
	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()))
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

// ReadStream reads the first record batch of an Arrow IPC stream. The
// caller releases the result.
func ReadStream(r io.Reader, mem memory.Allocator) (arrow.RecordBatch, error) {
	reader, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer reader.Release()
	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("read arrow stream: %w", err)
		}
		return nil, fmt.Errorf("%w: arrow stream has no record batch", matrix.ErrMalformedInput)
	}
	rec := reader.Record()
	rec.Retain()
	return rec, nil
}

// Export writes m to w as a single-batch IPC stream.
func Export[V matrix.Value](w io.Writer, mem memory.Allocator, m matrix.Matrix[V]) error {
	rec, err := Build(NewRecordBatchBuilder(mem), m)
	if err != nil {
		return err
	}
	defer rec.Release()
	return WriteStream(w, rec)
}

// Import reads an IPC stream produced by Export into dst, which must be a
// COO matrix or a dynamic matrix with COO active.
func Import[V matrix.Value](r io.Reader, mem memory.Allocator, dst matrix.Matrix[V]) error {
	rec, err := ReadStream(r, mem)
	if err != nil {
		return err
	}
	defer rec.Release()
	src, err := NewRecordSource[V](rec)
	if err != nil {
		return err
	}
	defer src.Release()
	return matrix.LoadTriplets[V](src, dst)
}
