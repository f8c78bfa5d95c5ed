// Package canvas holds the cell grid and paint stroke data model.
package canvas

const (
	MinDim = 8
	MaxDim = 128
)

// Cell is a color identifier. The zero value is an empty cell.
type Cell string

const Empty Cell = ""

func (c Cell) IsEmpty() bool {
	return c == Empty
}

// Grid is a dense rows x cols matrix of cells.
type Grid struct {
	cells [][]Cell
}

// ClampDim bounds a grid dimension to [MinDim, MaxDim].
func ClampDim(n int) int {
	if n < MinDim {
		return MinDim
	}
	if n > MaxDim {
		return MaxDim
	}
	return n
}

// NewGrid allocates an all-empty grid. Dimensions are taken as given so
// callers (and tests) can build small grids; the store clamps before calling.
func NewGrid(rows, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	return Grid{cells: cells}
}

// GridFromRows wraps the given rows. Short rows are padded with empty cells
// so the result is always dense.
func GridFromRows(rows [][]Cell) Grid {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	g := NewGrid(len(rows), cols)
	for r, row := range rows {
		copy(g.cells[r], row)
	}
	return g
}

func (g Grid) Rows() int {
	return len(g.cells)
}

func (g Grid) Cols() int {
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

func (g Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows() && col >= 0 && col < g.Cols()
}

// At returns the cell at (row, col), or Empty when out of bounds.
func (g Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		return Empty
	}
	return g.cells[row][col]
}

// Set writes a cell in place. Only call it on a grid you own (a fresh Clone
// or NewGrid); grids captured in history share nothing with the live grid
// but are never written again.
func (g Grid) Set(row, col int, v Cell) {
	if !g.InBounds(row, col) {
		return
	}
	g.cells[row][col] = v
}

// Clone deep-copies the grid row by row.
func (g Grid) Clone() Grid {
	cells := make([][]Cell, len(g.cells))
	for r, row := range g.cells {
		cells[r] = append([]Cell(nil), row...)
	}
	return Grid{cells: cells}
}

// Resized returns a new rows x cols grid holding the overlapping top-left
// region of g. The receiver is left untouched.
func (g Grid) Resized(rows, cols int) Grid {
	out := NewGrid(rows, cols)
	for r := 0; r < rows && r < g.Rows(); r++ {
		copy(out.cells[r], g.cells[r])
	}
	return out
}

// RowsCopy returns a copy of the cells as nested slices.
func (g Grid) RowsCopy() [][]Cell {
	return g.Clone().cells
}

func (g Grid) Equal(other Grid) bool {
	if g.Rows() != other.Rows() || g.Cols() != other.Cols() {
		return false
	}
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}
