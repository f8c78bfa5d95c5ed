package store

import (
	"math"

	"cellpaint/internal/canvas"
	"cellpaint/internal/coords"
	"cellpaint/internal/history"
)

func isFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// record pushes the pre-edit content onto the undo stack, which also drops
// the redo stack.
func (s *Store) record() {
	s.history.Push(history.Capture(s.grid, s.strokes))
}

// SetMode switches the edit mode. Leaving paint ends any active stroke.
func (s *Store) SetMode(m Mode) {
	if !m.Valid() || m == s.mode {
		return
	}
	if s.mode == ModePaint {
		s.EndPaintStroke()
	}
	s.mode = m
	s.emit(EventMode)
}

// SetZoom clamps z to [0.5, 4] and persists the viewport. Zoom is not part
// of history.
func (s *Store) SetZoom(z float64) {
	if !isFinite(z) {
		return
	}
	z = coords.ClampZoom(z)
	if z == s.zoom {
		return
	}
	s.zoom = z
	s.persist()
	s.emit(EventViewport)
}

func (s *Store) BumpZoom(delta float64) {
	s.SetZoom(s.zoom + delta)
}

// SetPan sets the viewport offset. persist is false for intermediate drag
// frames so only the end of a gesture is written.
func (s *Store) SetPan(x, y float64, persist bool) {
	if !isFinite(x, y) {
		return
	}
	s.panX, s.panY = x, y
	if persist {
		s.persist()
	}
	s.emit(EventViewport)
}

// ClampPan re-clamps the current pan against a viewport using m's cell size
// and margin. It is what a surface resize calls; grid content is untouched.
func (s *Store) ClampPan(m coords.Mapper, viewport coords.Vec, persist bool) {
	content := m.ContentSize(s.grid.Rows(), s.grid.Cols(), s.zoom)
	p := m.ClampPan(coords.Vec{X: s.panX, Y: s.panY}, content, viewport)
	if p.X == s.panX && p.Y == s.panY {
		return
	}
	s.SetPan(p.X, p.Y, persist)
}

// SetSelectedColor ignores the empty color.
func (s *Store) SetSelectedColor(color string) {
	if color == "" || color == s.selectedColor {
		return
	}
	s.selectedColor = color
	s.persist()
	s.emit(EventColor)
}

// SetBrushWidth sets the width, in cells, of strokes started afterwards.
func (s *Store) SetBrushWidth(w float64) {
	if !isFinite(w) || w <= 0 {
		return
	}
	s.brushWidth = w
}

// ApplyCellAction runs the current mode's cell handler at (row, col). It
// reports whether the grid changed; out-of-bounds positions, paint and pan
// modes, and edits that match the current value are no-ops.
func (s *Store) ApplyCellAction(row, col int) bool {
	if !s.grid.InBounds(row, col) {
		return false
	}
	action, ok := cellActions[s.mode]
	if !ok {
		return false
	}
	next, changed := action(s.grid, row, col, canvas.Cell(s.selectedColor))
	if !changed {
		return false
	}
	s.record()
	s.grid = next
	s.persist()
	s.emit(EventGrid)
	return true
}

// Undo restores the snapshot taken before the last edit.
func (s *Store) Undo() bool {
	prev, ok := s.history.Undo(history.Capture(s.grid, s.strokes))
	if !ok {
		return false
	}
	s.restore(prev)
	return true
}

// Redo reapplies the last undone edit.
func (s *Store) Redo() bool {
	next, ok := s.history.Redo(history.Capture(s.grid, s.strokes))
	if !ok {
		return false
	}
	s.restore(next)
	return true
}

func (s *Store) restore(snap history.Snapshot) {
	s.grid = snap.Grid
	s.strokes = snap.Strokes
	if s.strokes == nil {
		s.strokes = []canvas.Stroke{}
	}
	s.active = -1
	s.persist()
	s.emit(EventHistory)
}

// Clear empties the grid and drops all strokes. It also drops undo and redo:
// a clear cannot be undone.
func (s *Store) Clear() {
	s.active = -1
	s.grid = canvas.NewGrid(s.grid.Rows(), s.grid.Cols())
	s.strokes = []canvas.Stroke{}
	s.history.Reset()
	s.persist()
	s.emit(EventReplaced)
}

// SetGridSize reallocates the grid to rows x cols (each clamped to
// [8, 128]), keeping the overlapping top-left cells. Strokes are dropped,
// pan returns to the origin and history is discarded. Returns false when the
// size is unchanged.
func (s *Store) SetGridSize(rows, cols int) bool {
	rows, cols = canvas.ClampDim(rows), canvas.ClampDim(cols)
	if rows == s.grid.Rows() && cols == s.grid.Cols() {
		return false
	}
	s.active = -1
	s.grid = s.grid.Resized(rows, cols)
	s.strokes = []canvas.Stroke{}
	s.panX, s.panY = 0, 0
	s.history.Reset()
	s.persist()
	s.emit(EventReplaced)
	return true
}
