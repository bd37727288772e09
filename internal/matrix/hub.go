package matrix

// Converters between COO and every other format. Expansions emit entries
// sorted by (row, col) whenever the source layout allows it; compressions
// accept COO in any order.

func csrToCoo[V Value](src *CsrMatrix[V], hub *CooMatrix[V]) error {
	if err := hub.Resize(src.nrows, src.ncols, src.nnnz); err != nil {
		return err
	}
	rows := hub.rowIndices.Data()
	off := src.rowOffsets.Data()
	for i := 0; i < src.nrows; i++ {
		for jj := off[i]; jj < off[i+1]; jj++ {
			rows[jj] = i
		}
	}
	copy(hub.columnIndices.Data(), src.columnIndices.Data())
	copy(hub.values.Data(), src.values.Data())
	return nil
}

func cooToCsr[V Value](hub *CooMatrix[V], dst *CsrMatrix[V]) error {
	if err := dst.Resize(hub.nrows, hub.ncols, hub.nnnz); err != nil {
		return err
	}
	off := dst.rowOffsets.Data()
	for i := range off {
		off[i] = 0
	}
	for _, r := range hub.rowIndices.Data() {
		off[r+1]++
	}
	for i := 0; i < hub.nrows; i++ {
		off[i+1] += off[i]
	}

	cols, vals := dst.columnIndices.Data(), dst.values.Data()
	forEachSorted(hub, func(k, n int) {
		cols[k] = hub.columnIndices.At(n)
		vals[k] = hub.values.At(n)
	})
	return nil
}

// diaToCoo keeps the non-zero slots whose column lies inside the matrix.
func diaToCoo[V Value](src *DiaMatrix[V], hub *CooMatrix[V]) error {
	offsets := src.diagonalOffsets.Data()
	vals := src.values.Data()

	count := 0
	for i := 0; i < src.nrows; i++ {
		for d, k := range offsets {
			j := i + k
			if j >= 0 && j < src.ncols && vals[i*src.ndiag+d] != 0 {
				count++
			}
		}
	}
	if err := hub.Resize(src.nrows, src.ncols, count); err != nil {
		return err
	}

	n := 0
	for i := 0; i < src.nrows; i++ {
		for d, k := range offsets {
			j := i + k
			if j >= 0 && j < src.ncols && vals[i*src.ndiag+d] != 0 {
				hub.SetEntry(n, i, j, vals[i*src.ndiag+d])
				n++
			}
		}
	}
	if !hub.IsSorted() {
		SortByRowAndColumn(hub)
	}
	return nil
}

func cooToDia[V Value](hub *CooMatrix[V], dst *DiaMatrix[V]) error {
	// diagonal k = col - row maps to slot k + nrows - 1
	span := max(0, hub.nrows+hub.ncols-1)
	slot := make([]int, span)
	for i := range slot {
		slot[i] = -1
	}
	rows, cols := hub.rowIndices.Data(), hub.columnIndices.Data()
	for n := range rows {
		slot[cols[n]-rows[n]+hub.nrows-1] = 0
	}
	ndiag := 0
	for i := range slot {
		if slot[i] == 0 {
			slot[i] = ndiag
			ndiag++
		}
	}

	if err := dst.Resize(hub.nrows, hub.ncols, hub.nnnz, ndiag); err != nil {
		return err
	}
	offsets := dst.diagonalOffsets.Data()
	for i, d := range slot {
		if d >= 0 {
			offsets[d] = i - (hub.nrows - 1)
		}
	}
	dst.values.Fill(0)
	vals := hub.values.Data()
	for n := range rows {
		d := slot[cols[n]-rows[n]+hub.nrows-1]
		dst.values.Data()[rows[n]*ndiag+d] += vals[n]
	}
	return nil
}

// ellToCoo skips padding slots.
func ellToCoo[V Value](src *EllMatrix[V], hub *CooMatrix[V]) error {
	width := src.PaddedWidth()
	cols := src.columnIndices.Data()

	count := 0
	for _, c := range cols {
		if c != InvalidIndex {
			count++
		}
	}
	if err := hub.Resize(src.nrows, src.ncols, count); err != nil {
		return err
	}

	n := 0
	for i := 0; i < src.nrows; i++ {
		for k := 0; k < width; k++ {
			if c := cols[i*width+k]; c != InvalidIndex {
				hub.SetEntry(n, i, c, src.values.At(i*width+k))
				n++
			}
		}
	}
	if !hub.IsSorted() {
		SortByRowAndColumn(hub)
	}
	return nil
}

func cooToEll[V Value](hub *CooMatrix[V], dst *EllMatrix[V]) error {
	perRow := make([]int, hub.nrows)
	for _, r := range hub.rowIndices.Data() {
		perRow[r]++
	}
	entries := 0
	for _, c := range perRow {
		entries = max(entries, c)
	}

	// An explicit alignment, including 0 for no padding, is kept.
	alignment := dst.alignment
	if !dst.shaped {
		alignment = DefaultEllAlignment
	}
	if err := dst.Resize(hub.nrows, hub.ncols, hub.nnnz, entries, alignment); err != nil {
		return err
	}
	dst.Clear()

	width := dst.PaddedWidth()
	next := make([]int, hub.nrows)
	forEachSorted(hub, func(_, n int) {
		r := hub.rowIndices.At(n)
		k := r*width + next[r]
		next[r]++
		dst.columnIndices.Set(k, hub.columnIndices.At(n))
		dst.values.Set(k, hub.values.At(n))
	})
	return nil
}

func denseToCoo[V Value](src *DenseMatrix[V], hub *CooMatrix[V]) error {
	vals := src.values.Data()
	count := 0
	for _, v := range vals {
		if v != 0 {
			count++
		}
	}
	if err := hub.Resize(src.nrows, src.ncols, count); err != nil {
		return err
	}
	n := 0
	for i := 0; i < src.nrows; i++ {
		for j := 0; j < src.ncols; j++ {
			if v := vals[i*src.ncols+j]; v != 0 {
				hub.SetEntry(n, i, j, v)
				n++
			}
		}
	}
	return nil
}

func cooToDense[V Value](hub *CooMatrix[V], dst *DenseMatrix[V]) error {
	if err := dst.Resize(hub.nrows, hub.ncols); err != nil {
		return err
	}
	dst.values.Fill(0)
	out := dst.values.Data()
	rows, cols, vals := hub.rowIndices.Data(), hub.columnIndices.Data(), hub.values.Data()
	for n := range vals {
		out[rows[n]*hub.ncols+cols[n]] += vals[n]
	}
	return nil
}
