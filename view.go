package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cellpaint/internal/store"
)

var (
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb")).Background(lipgloss.Color("#374151"))
	modeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f172a")).Background(lipgloss.Color("#93c5fd"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fca5a5"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#86efac"))
	confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fde68a"))
)

func (m model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}

	var result strings.Builder
	for _, line := range m.renderCanvas(m.width, m.canvasHeight()) {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) modeString() string {
	switch m.store.Mode() {
	case store.ModeDraw:
		return "DRAW"
	case store.ModeErase:
		return "ERASE"
	case store.ModeFill:
		return "FILL"
	case store.ModeFillForward:
		return "FILL→"
	case store.ModePaint:
		if _, active := m.store.ActiveStroke(); active {
			return "PAINT*"
		}
		return "PAINT"
	case store.ModePan:
		return "PAN"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine() string {
	if prompt := m.confirmPrompt(); prompt != "" {
		return m.fitStatus(confirmStyle.Render(prompt))
	}

	swatch := lipgloss.NewStyle().Background(lipgloss.Color(termColor(m.store.SelectedColor()))).Render("  ")
	undo, redo := m.store.HistoryDepth()
	parts := []string{
		modeStyle.Render(" " + m.modeString() + " "),
		swatch + " " + m.store.SelectedColor(),
		fmt.Sprintf("%dx%d", m.store.Rows(), m.store.Cols()),
		fmt.Sprintf("zoom %.2gx", m.store.Zoom()),
		fmt.Sprintf("brush %.2f", m.store.BrushWidth()),
		fmt.Sprintf("undo %d redo %d", undo, redo),
		fmt.Sprintf("(%d,%d)", m.cursorY, m.cursorX),
	}
	switch {
	case m.errorMessage != "":
		parts = append(parts, errorStyle.Render(m.errorMessage))
	case m.successMessage != "":
		parts = append(parts, successStyle.Render(m.successMessage))
	default:
		parts = append(parts, "? help")
	}
	return m.fitStatus(strings.Join(parts, " │ "))
}

// fitStatus pads or truncates line to exactly one terminal row.
func (m model) fitStatus(line string) string {
	if w := lipgloss.Width(line); w < m.width {
		line += strings.Repeat(" ", m.width-w)
	}
	return statusStyle.Inline(true).MaxWidth(m.width).Render(line)
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case confirmClear:
		return "Clear the grid? Undo history is discarded too. (y/n)"
	case confirmImport:
		return "Replace the drawing with the clipboard contents? (y/n)"
	default:
		return ""
	}
}

func (m model) helpView() string {
	height := m.height
	if height < 1 {
		height = 1
	}
	start := m.helpScroll
	if start > len(helpLines)-1 {
		start = len(helpLines) - 1
	}
	end := start + height
	if end > len(helpLines) {
		end = len(helpLines)
	}
	return strings.Join(helpLines[start:end], "\n")
}
