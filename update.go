package main

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"cellpaint/internal/store"
)

type clipboardReadMsg struct {
	text string
	err  error
}

type clipboardWriteMsg struct {
	err error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampPan(false)
		return m, nil

	case tea.BlurMsg:
		// Losing focus cancels the pointer.
		m.endGesture()
		return m, nil

	case tea.MouseMsg:
		if m.help || m.confirmAction != confirmNone {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case clipboardReadMsg:
		if msg.err != nil {
			m.errorMessage = "Clipboard: " + msg.err.Error()
			return m, nil
		}
		m.importPayload([]byte(cleanClipboardText(msg.text)), false)
		return m, nil

	case clipboardWriteMsg:
		if msg.err != nil {
			m.errorMessage = "Clipboard: " + msg.err.Error()
		} else {
			m.successMessage = "Copied JSON to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.errorMessage = ""
	m.successMessage = ""

	if m.confirmAction != confirmNone {
		m.handleConfirm(key)
		return m, nil
	}

	if m.help {
		switch key {
		case "esc", "q", "?":
			m.help = false
			m.helpScroll = 0
		case "j", "down":
			if m.helpScroll < len(helpLines)-1 {
				m.helpScroll++
			}
		case "k", "up":
			if m.helpScroll > 0 {
				m.helpScroll--
			}
		}
		return m, nil
	}

	switch key {
	case "ctrl+c", "q":
		m.endGesture()
		return m, tea.Quit
	case "?":
		m.help = true
	case "esc":
		m.endGesture()
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+y", "ctrl+r":
		m.redo()
	case "+", "=":
		m.zoom(zoomStep)
	case "-", "_":
		m.zoom(-zoomStep)
	case "[":
		m.setBrush(m.store.BrushWidth() - brushStep)
	case "]":
		m.setBrush(m.store.BrushWidth() + brushStep)
	case "{":
		m.resizeGrid(-resizeStep, 0)
	case "}":
		m.resizeGrid(resizeStep, 0)
	case "<":
		m.resizeGrid(0, -resizeStep)
	case ">":
		m.resizeGrid(0, resizeStep)
	case "c":
		m.clearGrid()
	case " ", "space", "enter":
		m.applyAtCursor()
	case "s":
		m.saveJSON()
	case "x":
		m.savePNG()
	case "y":
		return m, copyToClipboard(m.store.Serialize())
	case "v":
		return m, readClipboard
	default:
		if mode, ok := modeKeys[key]; ok {
			m.endGesture()
			m.store.SetMode(mode)
			return m, nil
		}
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.config.Palette) {
			m.selectPalette(n - 1)
			return m, nil
		}
		if isNavKey(key) {
			m.handleNavigation(key, m.getMoveSpeed(key))
		}
	}
	return m, nil
}

func (m *model) handleConfirm(key string) {
	action := m.confirmAction
	switch key {
	case "y", "Y", "enter":
		switch action {
		case confirmClear:
			m.clearGrid()
		case confirmImport:
			m.importPayload(m.pendingImport, true)
		}
	}
	m.confirmAction = confirmNone
	m.pendingImport = nil
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoom(zoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoom(-zoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y < m.canvasHeight() {
			m.beginGesture(msg.X, msg.Y)
		}
	case msg.Action == tea.MouseActionMotion:
		if m.gesture.active {
			m.continueGesture(msg.X, msg.Y)
		}
	case msg.Action == tea.MouseActionRelease:
		m.endGesture()
	}
}

// beginGesture starts a pointer gesture in the current mode. Draw and erase
// continue while dragging; fills apply once.
func (m *model) beginGesture(x, y int) {
	m.endGesture()
	mode := m.store.Mode()
	g := gesture{active: true, mode: mode, lastRow: -1, lastCol: -1, startX: x, startY: y}
	g.startPanX, g.startPanY = m.store.Pan()

	if mode == store.ModePan {
		m.gesture = g
		return
	}
	row, col, ok := m.cellAt(x, y)
	if !ok {
		return
	}
	m.cursorX, m.cursorY = col, row

	switch mode {
	case store.ModePaint:
		if p, ok := m.strokePointAt(x, y); ok && m.store.StartPaintStroke(p) {
			m.gesture = g
		}
	case store.ModeDraw, store.ModeErase:
		m.store.ApplyCellAction(row, col)
		g.lastRow, g.lastCol = row, col
		m.gesture = g
	default:
		m.store.ApplyCellAction(row, col)
	}
}

func (m *model) continueGesture(x, y int) {
	g := &m.gesture
	switch g.mode {
	case store.ModePan:
		dx := float64(x - g.startX)
		dy := float64(2 * (y - g.startY))
		m.setPanClamped(g.startPanX+dx, g.startPanY+dy, false)
	case store.ModePaint:
		if y >= m.canvasHeight() {
			m.endGesture()
			return
		}
		if _, _, ok := m.cellAt(x, y); !ok {
			// Leaving the grid ends the stroke.
			m.endGesture()
			return
		}
		if p, ok := m.strokePointAt(x, y); ok {
			m.store.UpdatePaintStroke(p)
		}
	default:
		row, col, ok := m.cellAt(x, y)
		if !ok || y >= m.canvasHeight() || (row == g.lastRow && col == g.lastCol) {
			return
		}
		m.store.ApplyCellAction(row, col)
		g.lastRow, g.lastCol = row, col
		m.cursorX, m.cursorY = col, row
	}
}

// endGesture finishes whatever the pointer or keyboard was doing. It is
// safe to call when nothing is in progress.
func (m *model) endGesture() {
	g := m.gesture
	m.gesture = gesture{}
	if g.active && g.mode == store.ModePan {
		x, y := m.store.Pan()
		m.store.SetPan(x, y, true)
	}
	m.store.EndPaintStroke()
}

// applyAtCursor is the keyboard equivalent of a click on the cursor cell.
// In paint mode it toggles a stroke that follows the cursor.
func (m *model) applyAtCursor() {
	switch m.store.Mode() {
	case store.ModePaint:
		if _, active := m.store.ActiveStroke(); active {
			m.store.EndPaintStroke()
			return
		}
		m.store.StartPaintStroke(cursorPoint(m.cursorY, m.cursorX))
	case store.ModePan:
	default:
		m.store.ApplyCellAction(m.cursorY, m.cursorX)
	}
}

func (m *model) zoom(delta float64) {
	m.store.BumpZoom(delta)
	m.clampPan(true)
}

func (m *model) setBrush(w float64) {
	if w < minBrush {
		w = minBrush
	}
	if w > maxBrush {
		w = maxBrush
	}
	m.store.SetBrushWidth(w)
}

func (m *model) selectPalette(i int) {
	m.store.SetSelectedColor(m.config.Palette[i])
}

// clampPan re-clamps the stored pan once the terminal size is known.
func (m *model) clampPan(persist bool) {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.store.ClampPan(m.mapper(), m.viewport(), persist)
}

// importPayload replaces the drawing with payload. With confirmations on,
// the first call only asks.
func (m *model) importPayload(payload []byte, confirmed bool) {
	if m.config.Confirmations && !confirmed {
		m.pendingImport = payload
		m.confirmAction = confirmImport
		return
	}
	m.endGesture()
	if err := m.store.Deserialize(payload); err != nil {
		m.errorMessage = "Import rejected: " + err.Error()
		return
	}
	m.ensureCursorInBounds()
	m.clampPan(true)
	m.successMessage = "Imported"
}

func readClipboard() tea.Msg {
	text, err := readClipboardText()
	return clipboardReadMsg{text: text, err: err}
}

func copyToClipboard(payload string) tea.Cmd {
	return func() tea.Msg {
		return clipboardWriteMsg{err: writeClipboardText(payload)}
	}
}
