package algorithms

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/23skdu/longbow-sparse/internal/matrix"
	"github.com/23skdu/longbow-sparse/internal/space"
)

const opPrint = "print"

// Print writes a header line followed by one line per stored entry. A
// dynamic matrix prints its own header and then its active payload.
// Only host containers can be printed.
func Print[V matrix.Value](w io.Writer, m matrix.Matrix[V]) error {
	if !space.IsHost(m) {
		return matrix.NewOpError(opPrint, m.Format(), "", matrix.ErrNoAccess)
	}
	bw := bufio.NewWriter(w)
	header(bw, m.Name(), m.NRows(), m.NCols(), m.NNNZ())
	if d, ok := m.(*matrix.DynamicMatrix[V]); ok {
		m = d.Active()
		header(bw, m.Name(), m.NRows(), m.NCols(), m.NNNZ())
	}
	if err := printEntries(bw, m); err != nil {
		return err
	}
	return bw.Flush()
}

// PrintVector writes a header line and every element.
func PrintVector[V matrix.Value](w io.Writer, v *matrix.DenseVector[V]) error {
	if !space.IsHost(v) {
		return matrix.NewOpError(opPrint, v.Format(), "", matrix.ErrNoAccess)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s<%d> with %d entries\n", v.Name(), v.Size(), v.Size())
	for i, x := range v.Data() {
		fmt.Fprintf(bw, " %14d %8s%s)\n", i, "(", formatValue(x))
	}
	return bw.Flush()
}

func header(w io.Writer, name string, rows, cols, nnz int) {
	fmt.Fprintf(w, "%s<%d, %d> with %d entries\n", name, rows, cols, nnz)
}

func entry[V matrix.Value](w io.Writer, i, j int, v V) {
	fmt.Fprintf(w, " %14d %14d %8s%s)\n", i, j, "(", formatValue(v))
}

func printEntries[V matrix.Value](w io.Writer, m matrix.Matrix[V]) error {
	switch a := m.(type) {
	case *matrix.CooMatrix[V]:
		rows, cols, vals := a.RowIndices().Data(), a.ColumnIndices().Data(), a.Values().Data()
		for n := range vals {
			entry(w, rows[n], cols[n], vals[n])
		}
	case *matrix.CsrMatrix[V]:
		for i := 0; i < a.NRows(); i++ {
			cols, vals := a.Row(i)
			for n := range vals {
				entry(w, i, cols[n], vals[n])
			}
		}
	case *matrix.DiaMatrix[V]:
		offsets := a.DiagonalOffsets().Data()
		for i := 0; i < a.NRows(); i++ {
			for d, off := range offsets {
				if j := i + off; j >= 0 && j < a.NCols() {
					entry(w, i, j, a.Value(i, d))
				}
			}
		}
	case *matrix.EllMatrix[V]:
		for i := 0; i < a.NRows(); i++ {
			for k := 0; k < a.PaddedWidth(); k++ {
				if j, v := a.Slot(i, k); j != matrix.InvalidIndex {
					entry(w, i, j, v)
				}
			}
		}
	case *matrix.DenseMatrix[V]:
		for i := 0; i < a.NRows(); i++ {
			for j := 0; j < a.NCols(); j++ {
				entry(w, i, j, a.At(i, j))
			}
		}
	default:
		return matrix.NewOpError(opPrint, m.Format(), "", matrix.ErrNotImplemented)
	}
	return nil
}

// formatValue prints floats with four significant digits and integers
// exactly.
func formatValue[V matrix.Value](v V) string {
	if V(1)/V(2) == 0 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(float64(v), 'g', 4, 64)
}
