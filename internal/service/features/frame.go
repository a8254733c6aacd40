package features

import (
	"math"
)

// Frame is a small column-labelled table of float64 values. Missing cells hold NaN.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]float64
}

func NewFrame(columns []string) *Frame {
	cols := make([]string, len(columns))
	copy(cols, columns)

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}

	return &Frame{
		columns: cols,
		index:   index,
	}
}

// AppendRow adds a row; columns absent from values are NaN, unknown keys are ignored.
func (f *Frame) AppendRow(values map[string]float64) {
	row := missingRow(len(f.columns))
	for col, v := range values {
		if i, ok := f.index[col]; ok {
			row[i] = v
		}
	}
	f.rows = append(f.rows, row)
}

func (f *Frame) Columns() []string {
	cols := make([]string, len(f.columns))
	copy(cols, f.columns)
	return cols
}

func (f *Frame) Len() int {
	return len(f.rows)
}

// Row returns a copy of row i.
func (f *Frame) Row(i int) []float64 {
	row := make([]float64, len(f.rows[i]))
	copy(row, f.rows[i])
	return row
}

// Value returns the cell at row i and column col.
func (f *Frame) Value(i int, col string) (float64, bool) {
	j, ok := f.index[col]
	if !ok || i < 0 || i >= len(f.rows) {
		return math.NaN(), false
	}
	return f.rows[i][j], true
}

// DropColumns returns a new frame without the columns matching drop.
func (f *Frame) DropColumns(drop func(col string) bool) *Frame {
	kept := make([]string, 0, len(f.columns))
	for _, c := range f.columns {
		if !drop(c) {
			kept = append(kept, c)
		}
	}
	return f.Reindex(kept)
}

// Reindex returns a new frame with exactly the given columns in the given order.
// Columns unknown to f are filled with NaN and columns not requested are dropped.
func (f *Frame) Reindex(columns []string) *Frame {
	out := NewFrame(columns)
	for _, src := range f.rows {
		row := missingRow(len(out.columns))
		for i, c := range out.columns {
			if j, ok := f.index[c]; ok {
				row[i] = src[j]
			}
		}
		out.rows = append(out.rows, row)
	}
	return out
}

func missingRow(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = math.NaN()
	}
	return row
}
