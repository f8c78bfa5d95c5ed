package main

import "cellpaint/internal/store"

// Terminal surface units: one column horizontally and half a row
// vertically, so a cell of termCellUnits is two columns by one row at zoom 1.
const (
	termCellUnits = 2.0
	termMargin    = 4.0
)

const (
	zoomStep        = 0.5
	brushStep       = 0.25
	minBrush        = 0.25
	maxBrush        = 4.0
	resizeStep      = 8
	maxPalette      = 9
	statusLineCount = 1
)

// modeKeys selects a mode from the keyboard.
var modeKeys = map[string]store.Mode{
	"d": store.ModeDraw,
	"e": store.ModeErase,
	"f": store.ModeFill,
	"F": store.ModeFillForward,
	"p": store.ModePaint,
	"z": store.ModePan,
}

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClear
	confirmImport
)

var helpLines = []string{
	"cellpaint help",
	"==============",
	"",
	"Modes:",
	"------",
	"  d                Draw cells",
	"  e                Erase cells",
	"  f                Flood fill (4-way)",
	"  F                Fill forward (down and right only)",
	"  p                Freehand paint strokes",
	"  z                Pan (drag, or move with h/j/k/l)",
	"",
	"Pointer:",
	"--------",
	"  Left button      Apply the current mode; drag to continue",
	"  Wheel            Zoom in / out",
	"",
	"Keyboard:",
	"---------",
	"  h/←/j/↓/k/↑/l/→  Move cursor (pan in pan mode)",
	"  Shift+h/j/k/l    Move 2x faster",
	"  Space / Enter    Apply the current mode at the cursor",
	"                   (paint: start or finish a stroke)",
	"  1-9              Pick a palette color",
	"  [ / ]            Thinner / thicker brush",
	"  + / -            Zoom in / out",
	"  { / }            Fewer / more rows",
	"  < / >            Fewer / more columns",
	"",
	"History:",
	"--------",
	"  u / Ctrl+Z       Undo",
	"  U / Ctrl+Y       Redo",
	"  c                Clear the grid (cannot be undone)",
	"",
	"Files and clipboard:",
	"--------------------",
	"  s                Save JSON to the save directory",
	"  x                Export PNG to the save directory",
	"  y                Copy JSON to the clipboard",
	"  v                Import JSON from the clipboard",
	"",
	"  ?                Toggle this help",
	"  q / Ctrl+C       Quit",
}
