package store

import "cellpaint/internal/canvas"

// StartPaintStroke begins a stroke at p with the selected color and brush
// width. One history entry covers the whole stroke. It is a no-op while
// another stroke is active.
func (s *Store) StartPaintStroke(p canvas.Point) bool {
	if s.active >= 0 || !isFinite(p.X, p.Y) {
		return false
	}
	s.record()
	s.strokes = append(s.strokes, canvas.Stroke{
		Color:  s.selectedColor,
		Width:  s.brushWidth,
		Points: []canvas.Point{p},
	})
	s.active = len(s.strokes) - 1
	s.emit(EventStrokes)
	return true
}

// UpdatePaintStroke extends the active stroke. A point equal to the last one
// is dropped.
func (s *Store) UpdatePaintStroke(p canvas.Point) bool {
	if s.active < 0 || !isFinite(p.X, p.Y) {
		return false
	}
	if !s.strokes[s.active].Append(p) {
		return false
	}
	s.emit(EventStrokes)
	return true
}

// EndPaintStroke finalizes the active stroke and persists the stroke list.
// Front ends call it on pointer up, leave and cancel.
func (s *Store) EndPaintStroke() bool {
	if s.active < 0 {
		return false
	}
	s.active = -1
	s.persist()
	s.emit(EventStrokes)
	return true
}
