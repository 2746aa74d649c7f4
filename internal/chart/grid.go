package chart

import "strings"

// Grid is a rectangular block of cells addressed by row and column, row 0
// at the top. Every cell starts out as Blank.
type Grid struct {
	rows  int
	cols  int
	cells []string
}

func NewGrid(rows, cols int) *Grid {
	cells := make([]string, rows*cols)
	for i := range cells {
		cells[i] = Blank
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Set stores s at (row, col). Out-of-range coordinates are ignored.
func (g *Grid) Set(row, col int, s string) {
	if !g.inside(row, col) {
		return
	}
	g.cells[row*g.cols+col] = s
}

// Cell returns the content at (row, col), or "" when out of range.
func (g *Grid) Cell(row, col int) string {
	if !g.inside(row, col) {
		return ""
	}
	return g.cells[row*g.cols+col]
}

// Row joins the cells of row with sep.
func (g *Grid) Row(row int, sep string) string {
	return g.RowFunc(row, sep, nil)
}

// RowFunc is Row with each cell passed through style first. A nil style
// leaves cells unchanged.
func (g *Grid) RowFunc(row int, sep string, style func(col int, cell string) string) string {
	if row < 0 || row >= g.rows {
		return ""
	}
	parts := make([]string, g.cols)
	for col := 0; col < g.cols; col++ {
		cell := g.cells[row*g.cols+col]
		if style != nil {
			cell = style(col, cell)
		}
		parts[col] = cell
	}
	return strings.Join(parts, sep)
}

func (g *Grid) inside(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}
