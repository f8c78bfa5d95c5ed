package canvas

// Offset is a (row, col) neighbor step.
type Offset struct {
	DRow, DCol int
}

// Connectivity is the set of neighbor offsets a fill may traverse.
type Connectivity []Offset

var (
	// FourWay floods up, down, left and right.
	FourWay = Connectivity{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	// Forward only steps down or right, so it never reaches a cell above or
	// left of the origin.
	Forward = Connectivity{{1, 0}, {0, 1}}
)

type cellPos struct {
	row, col int
}

// Fill replaces the connected region around (row, col) that shares the
// origin's value with replacement. When the origin already holds the
// replacement (or is out of bounds) g itself is returned.
func Fill(g Grid, row, col int, replacement Cell, conn Connectivity) Grid {
	if !g.InBounds(row, col) {
		return g
	}
	target := g.At(row, col)
	if target == replacement {
		return g
	}

	out := g.Clone()
	stack := []cellPos{{row, col}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Cells can be pushed more than once before being set.
		if out.cells[cur.row][cur.col] != target {
			continue
		}
		out.cells[cur.row][cur.col] = replacement

		for _, off := range conn {
			nr, nc := cur.row+off.DRow, cur.col+off.DCol
			if out.InBounds(nr, nc) && out.cells[nr][nc] == target {
				stack = append(stack, cellPos{nr, nc})
			}
		}
	}
	return out
}
