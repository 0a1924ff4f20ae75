// Package labelmatrix provides a dense float64 matrix addressable by row
// and column label in addition to plain index, the shared building block
// behind ripplemine's changes matrix, co-change frequency matrix, and
// co-change probability matrix.
package labelmatrix

// Matrix is a dense rows×cols matrix of float64 values, addressable by
// label as well as by numeric index. Labels must be comparable; when the
// same label appears twice in the row or column name slice, the later
// index wins the label→index lookup (earlier occurrences remain
// reachable only by index).
type Matrix[R comparable, C comparable] struct {
	Values   [][]float64
	RowNames []R
	ColNames []C

	rowIndex map[R]int
	colIndex map[C]int

	RowDimName string
	ColDimName string
}

// New builds a zero-initialized matrix with the given row/column labels.
// rowDimName and colDimName are purely descriptive (used in rendering)
// and may be left empty.
func New[R comparable, C comparable](rowNames []R, colNames []C, rowDimName, colDimName string) *Matrix[R, C] {
	rows := len(rowNames)
	cols := len(colNames)

	values := make([][]float64, rows)
	for i := range values {
		values[i] = make([]float64, cols)
	}

	rowIndex := make(map[R]int, rows)
	for i, name := range rowNames {
		rowIndex[name] = i
	}

	colIndex := make(map[C]int, cols)
	for i, name := range colNames {
		colIndex[name] = i
	}

	return &Matrix[R, C]{
		Values:     values,
		RowNames:   rowNames,
		ColNames:   colNames,
		rowIndex:   rowIndex,
		colIndex:   colIndex,
		RowDimName: rowDimName,
		ColDimName: colDimName,
	}
}

// Rows returns the number of rows.
func (m *Matrix[R, C]) Rows() int {
	return len(m.RowNames)
}

// Cols returns the number of columns.
func (m *Matrix[R, C]) Cols() int {
	return len(m.ColNames)
}

// IndexOfRow returns the index of the given row label, and whether it exists.
func (m *Matrix[R, C]) IndexOfRow(row R) (int, bool) {
	i, ok := m.rowIndex[row]

	return i, ok
}

// IndexOfCol returns the index of the given column label, and whether it exists.
func (m *Matrix[R, C]) IndexOfCol(col C) (int, bool) {
	i, ok := m.colIndex[col]

	return i, ok
}

// At returns the value at (row, col).
func (m *Matrix[R, C]) At(row, col int) float64 {
	return m.Values[row][col]
}

// Set assigns the value at (row, col).
func (m *Matrix[R, C]) Set(row, col int, v float64) {
	m.Values[row][col] = v
}

// Add accumulates v into the value at (row, col).
func (m *Matrix[R, C]) Add(row, col int, v float64) {
	m.Values[row][col] += v
}

// Row returns a read-only view of row i.
func (m *Matrix[R, C]) Row(i int) []float64 {
	return m.Values[i]
}

// Column returns a freshly allocated copy of column j (matrices are
// row-major, so columns are not directly addressable as a slice).
func (m *Matrix[R, C]) Column(j int) []float64 {
	col := make([]float64, len(m.Values))
	for i, row := range m.Values {
		col[i] = row[j]
	}

	return col
}

// MapInPlace applies f to every value in the matrix.
func (m *Matrix[R, C]) MapInPlace(f func(float64) float64) {
	for _, row := range m.Values {
		for j, v := range row {
			row[j] = f(v)
		}
	}
}
