package main

import (
	"github.com/charmbracelet/log"

	"cellpaint/internal/canvas"
	"cellpaint/internal/coords"
	"cellpaint/internal/store"
)

// gesture is the pointer state owned by the front end; the store only
// tracks the active paint stroke.
type gesture struct {
	active  bool
	mode    store.Mode
	lastRow int
	lastCol int
	// pan drag origin, screen cells and pan at press
	startX, startY       int
	startPanX, startPanY float64
}

type model struct {
	width   int
	height  int
	cursorX int // grid column under the keyboard cursor
	cursorY int // grid row under the keyboard cursor

	store  *store.Store
	config *Config
	logger *log.Logger

	gesture gesture

	help           bool
	helpScroll     int
	confirmAction  confirmAction
	pendingImport  []byte
	errorMessage   string
	successMessage string
}

func newModel(s *store.Store, cfg *Config, logger *log.Logger) model {
	return model{
		store:  s,
		config: cfg,
		logger: logger,
	}
}

// termZoom is the integral zoom the terminal can draw: cells are whole
// characters, so fractional zoom rounds and anything below 1 draws at 1.
func (m *model) termZoom() float64 {
	z := float64(int(m.store.Zoom() + 0.5))
	if z < 1 {
		return 1
	}
	return z
}

// mapper converts terminal surface units at the store's zoom. Its cell size
// is chosen so that CellSize*zoom equals the drawn cell size.
func (m *model) mapper() coords.Mapper {
	return coords.Mapper{
		CellSize: termCellUnits * m.termZoom() / m.store.Zoom(),
		Margin:   termMargin,
	}
}

// canvasHeight is the number of terminal rows used by the grid.
func (m *model) canvasHeight() int {
	h := m.height - statusLineCount
	if h < 1 {
		return 1
	}
	return h
}

func (m *model) viewport() coords.Vec {
	return coords.Vec{X: float64(m.width), Y: float64(2 * m.canvasHeight())}
}

// pointer is the surface position of the centre of terminal cell (x, y).
func pointer(x, y int) coords.Vec {
	return coords.Vec{X: float64(x) + 0.5, Y: float64(2*y) + 1}
}

func (m *model) origin() coords.Vec {
	x, y := m.store.Pan()
	return coords.Vec{X: x, Y: y}
}

var unitScale = coords.Vec{X: 1, Y: 1}

func vec(x, y float64) coords.Vec {
	return coords.Vec{X: x, Y: y}
}

// cellAt maps a terminal cell to a grid cell. ok is false off the grid.
func (m *model) cellAt(x, y int) (row, col int, ok bool) {
	row, col, ok = m.mapper().ScreenToCell(pointer(x, y), m.origin(), unitScale, m.store.Zoom(), 1)
	if !ok || row < 0 || col < 0 || row >= m.store.Rows() || col >= m.store.Cols() {
		return row, col, false
	}
	return row, col, true
}

func (m *model) strokePointAt(x, y int) (canvas.Point, bool) {
	return m.mapper().ScreenToStrokePoint(pointer(x, y), m.origin(), unitScale, m.store.Zoom(), 1)
}
