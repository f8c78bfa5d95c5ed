package main

// undo and redo end any gesture in progress first so a drag never continues
// into restored content.

func (m *model) undo() {
	m.endGesture()
	if !m.store.Undo() {
		m.errorMessage = "Nothing to undo"
		return
	}
	m.ensureCursorInBounds()
	m.successMessage = "Undone"
}

func (m *model) redo() {
	m.endGesture()
	if !m.store.Redo() {
		m.errorMessage = "Nothing to redo"
		return
	}
	m.ensureCursorInBounds()
	m.successMessage = "Redone"
}

// clearGrid empties the grid. It drops undo and redo, so it asks first
// when confirmations are on.
func (m *model) clearGrid() {
	if m.config.Confirmations && m.confirmAction != confirmClear {
		m.confirmAction = confirmClear
		return
	}
	m.confirmAction = confirmNone
	m.endGesture()
	m.store.Clear()
	m.successMessage = "Cleared"
}

func (m *model) resizeGrid(dRows, dCols int) {
	m.endGesture()
	if !m.store.SetGridSize(m.store.Rows()+dRows, m.store.Cols()+dCols) {
		m.errorMessage = "Grid size limit reached"
		return
	}
	m.ensureCursorInBounds()
	m.clampPan(true)
}
