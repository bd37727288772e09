package matrix

import (
	"cmp"
	"slices"
)

// IsSorted reports whether entries are ordered by row, then column.
func (m *CooMatrix[V]) IsSorted() bool {
	rows, cols := m.rowIndices.Data(), m.columnIndices.Data()
	for n := 1; n < len(rows); n++ {
		if rows[n] < rows[n-1] || (rows[n] == rows[n-1] && cols[n] < cols[n-1]) {
			return false
		}
	}
	return true
}

// SortByRowAndColumn orders entries by row, then column. Entries with
// equal coordinates keep their relative order.
func SortByRowAndColumn[V Value](m *CooMatrix[V]) {
	order := sortedOrder(m)
	rows := make([]int, len(order))
	cols := make([]int, len(order))
	vals := make([]V, len(order))
	for k, n := range order {
		rows[k] = m.rowIndices.At(n)
		cols[k] = m.columnIndices.At(n)
		vals[k] = m.values.At(n)
	}
	copy(m.rowIndices.Data(), rows)
	copy(m.columnIndices.Data(), cols)
	copy(m.values.Data(), vals)
}

func sortedOrder[V Value](m *CooMatrix[V]) []int {
	rows, cols := m.rowIndices.Data(), m.columnIndices.Data()
	order := make([]int, len(rows))
	for n := range order {
		order[n] = n
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(rows[a], rows[b]); c != 0 {
			return c
		}
		return cmp.Compare(cols[a], cols[b])
	})
	return order
}

// forEachSorted calls fn(k, n) for the k-th entry in (row, col) order,
// where n is its position in m.
func forEachSorted[V Value](m *CooMatrix[V], fn func(k, n int)) {
	if m.IsSorted() {
		for n := 0; n < m.nnnz; n++ {
			fn(n, n)
		}
		return
	}
	for k, n := range sortedOrder(m) {
		fn(k, n)
	}
}
