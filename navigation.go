package main

import (
	"cellpaint/internal/canvas"
	"cellpaint/internal/store"
)

func (m *model) handleNavigation(key string, speed int) {
	if m.store.Mode() == store.ModePan {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

// handlePan moves the view by whole cells and keeps it clamped.
func (m *model) handlePan(key string, speed int) {
	step := float64(speed) * termCellUnits * m.termZoom()
	x, y := m.store.Pan()
	switch key {
	case "h", "left", "H", "shift+left":
		x += step
	case "l", "right", "L", "shift+right":
		x -= step
	case "k", "up", "K", "shift+up":
		y += step
	case "j", "down", "J", "shift+down":
		y -= step
	}
	m.setPanClamped(x, y, true)
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
	m.ensureCursorVisible()
	if _, active := m.store.ActiveStroke(); active && !m.gesture.active {
		m.store.UpdatePaintStroke(cursorPoint(m.cursorY, m.cursorX))
	}
}

func isNavKey(key string) bool {
	switch key {
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return true
	}
	return false
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.cursorX >= m.store.Cols() {
		m.cursorX = m.store.Cols() - 1
	}
	if m.cursorY >= m.store.Rows() {
		m.cursorY = m.store.Rows() - 1
	}
}

// ensureCursorVisible scrolls so the cursor cell is inside the viewport.
func (m *model) ensureCursorVisible() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	size := termCellUnits * m.termZoom()
	view := m.viewport()
	x, y := m.store.Pan()

	left := x + float64(m.cursorX)*size
	if left < 0 {
		x -= left
	} else if right := left + size; right > view.X {
		x -= right - view.X
	}
	top := y + float64(m.cursorY)*size
	if top < 0 {
		y -= top
	} else if bottom := top + size; bottom > view.Y {
		y -= bottom - view.Y
	}

	if px, py := m.store.Pan(); px != x || py != y {
		m.setPanClamped(x, y, true)
	}
}

// setPanClamped writes pan (x, y) clamped against the current viewport.
func (m *model) setPanClamped(x, y float64, persist bool) {
	if m.width <= 0 || m.height <= 0 {
		m.store.SetPan(x, y, persist)
		return
	}
	mp := m.mapper()
	content := mp.ContentSize(m.store.Rows(), m.store.Cols(), m.store.Zoom())
	p := mp.ClampPan(vec(x, y), content, m.viewport())
	m.store.SetPan(p.X, p.Y, persist)
}

// cursorPoint is the centre of a grid cell in stroke coordinates.
func cursorPoint(row, col int) canvas.Point {
	return canvas.Point{X: float64(col) + 0.5, Y: float64(row) + 0.5}
}
