package store

import (
	"fmt"
	"strings"

	"cellpaint/internal/canvas"
)

// Mode selects what a pointer gesture does.
type Mode string

const (
	ModeDraw        Mode = "draw"
	ModeErase       Mode = "erase"
	ModeFill        Mode = "fill"
	ModeFillForward Mode = "fillForward"
	ModePaint       Mode = "paint"
	ModePan         Mode = "pan"
)

// Modes lists every mode in toolbar order.
var Modes = []Mode{ModeDraw, ModeErase, ModeFill, ModeFillForward, ModePaint, ModePan}

func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}

// ParseMode accepts a mode name case-insensitively; "fill-forward" and
// "fill_forward" are accepted for fillForward.
func ParseMode(s string) (Mode, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "").Replace(norm)
	for _, m := range Modes {
		if strings.ToLower(string(m)) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// cellAction applies a single-cell edit. It never mutates g; changed is
// false when the edit would leave the grid as it is.
type cellAction func(g canvas.Grid, row, col int, color canvas.Cell) (next canvas.Grid, changed bool)

// cellActions maps modes to their cell handlers. Paint and pan have none:
// strokes and panning are separate gestures.
var cellActions = map[Mode]cellAction{
	ModeDraw:        drawCell,
	ModeErase:       eraseCell,
	ModeFill:        fillCell(canvas.FourWay),
	ModeFillForward: fillCell(canvas.Forward),
}

func setCell(g canvas.Grid, row, col int, v canvas.Cell) (canvas.Grid, bool) {
	if g.At(row, col) == v {
		return g, false
	}
	next := g.Clone()
	next.Set(row, col, v)
	return next, true
}

func drawCell(g canvas.Grid, row, col int, color canvas.Cell) (canvas.Grid, bool) {
	return setCell(g, row, col, color)
}

func eraseCell(g canvas.Grid, row, col int, _ canvas.Cell) (canvas.Grid, bool) {
	return setCell(g, row, col, canvas.Empty)
}

func fillCell(conn canvas.Connectivity) cellAction {
	return func(g canvas.Grid, row, col int, color canvas.Cell) (canvas.Grid, bool) {
		if g.At(row, col) == color {
			return g, false
		}
		return canvas.Fill(g, row, col, color, conn), true
	}
}
