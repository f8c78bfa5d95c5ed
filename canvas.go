package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cellpaint/internal/canvas"
	"cellpaint/internal/codec"
	"cellpaint/internal/render"
	"cellpaint/internal/store"
)

const (
	emptyShadeA = "#1f2937"
	emptyShadeB = "#111827"
	cursorGlyph = "░"
	strokeGlyph = "█"
)

// glyph is one rendered terminal cell.
type glyph struct {
	text string
	fg   string
	bg   string
}

// termColor returns c when it is a color the terminal can show, otherwise
// the default color.
func termColor(c string) string {
	if _, ok := render.ParseColor(c); ok {
		return c
	}
	return codec.DefaultColor
}

// axisCells maps each terminal column (or row) to a grid index, -1 where
// the grid does not cover it.
func (m *model) axisCells(n int, vertical bool) []int {
	mp := m.mapper()
	out := make([]int, n)
	limit := m.store.Cols()
	if vertical {
		limit = m.store.Rows()
	}
	for i := range out {
		x, y := i, 0
		if vertical {
			x, y = 0, i
		}
		row, col, ok := mp.ScreenToCell(pointer(x, y), m.origin(), unitScale, m.store.Zoom(), 1)
		idx := col
		if vertical {
			idx = row
		}
		if !ok || idx < 0 || idx >= limit {
			idx = -1
		}
		out[i] = idx
	}
	return out
}

// renderCanvas draws the visible part of the grid and its strokes, one
// string per terminal row.
func (m *model) renderCanvas(width, height int) []string {
	cols := m.axisCells(width, false)
	rows := m.axisCells(height, true)
	overlay := m.strokeOverlay(width, height, cols, rows)
	showCursor := m.store.Mode() != store.ModePan

	lines := make([]string, height)
	for sy := 0; sy < height; sy++ {
		r := rows[sy]
		line := make([]glyph, width)
		for sx := 0; sx < width; sx++ {
			c := cols[sx]
			if r < 0 || c < 0 {
				line[sx] = glyph{text: " "}
				continue
			}
			g := glyph{text: " "}
			if v := m.store.Cell(r, c); v.IsEmpty() {
				g.bg = emptyShadeA
				if (r+c)%2 == 1 {
					g.bg = emptyShadeB
				}
			} else {
				g.bg = termColor(string(v))
			}
			if color := overlay[sy*width+sx]; color != "" {
				g.text, g.fg = strokeGlyph, color
			}
			if showCursor && r == m.cursorY && c == m.cursorX {
				g.text, g.fg = cursorGlyph, "#f8fafc"
			}
			line[sx] = g
		}
		lines[sy] = renderRuns(line)
	}
	return lines
}

// renderRuns styles consecutive glyphs with the same colors together.
func renderRuns(line []glyph) string {
	var b strings.Builder
	for start := 0; start < len(line); {
		end := start + 1
		for end < len(line) && line[end].fg == line[start].fg && line[end].bg == line[start].bg {
			end++
		}
		var text strings.Builder
		for _, g := range line[start:end] {
			text.WriteString(g.text)
		}
		style := lipgloss.NewStyle()
		if line[start].bg != "" {
			style = style.Background(lipgloss.Color(line[start].bg))
		}
		if line[start].fg != "" {
			style = style.Foreground(lipgloss.Color(line[start].fg))
		}
		b.WriteString(style.Render(text.String()))
		start = end
	}
	return b.String()
}

// strokeOverlay marks terminal cells covered by a paint stroke with the
// stroke's color. Later strokes draw over earlier ones.
func (m *model) strokeOverlay(width, height int, cols, rows []int) []string {
	overlay := make([]string, width*height)
	strokes := m.store.Strokes()
	if len(strokes) == 0 {
		return overlay
	}
	// Thin strokes still cover the character they pass through.
	minRadius := 0.5 / (termCellUnits * m.termZoom())

	for _, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		radius := math.Max(s.Width/2, minRadius)
		lo, hi := bounds(s.Points)
		color := termColor(s.Color)
		for sy := 0; sy < height; sy++ {
			if rows[sy] < 0 {
				continue
			}
			for sx := 0; sx < width; sx++ {
				if cols[sx] < 0 {
					continue
				}
				p, ok := m.strokePointAt(sx, sy)
				if !ok || p.X < lo.X-radius || p.X > hi.X+radius || p.Y < lo.Y-radius || p.Y > hi.Y+radius {
					continue
				}
				if distToPolyline(p, s.Points) <= radius {
					overlay[sy*width+sx] = color
				}
			}
		}
	}
	return overlay
}

func bounds(pts []canvas.Point) (lo, hi canvas.Point) {
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

func distToPolyline(p canvas.Point, pts []canvas.Point) float64 {
	if len(pts) == 1 {
		return math.Hypot(p.X-pts[0].X, p.Y-pts[0].Y)
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, distToSegment(p, pts[i-1], pts[i]))
	}
	return best
}

func distToSegment(p, a, b canvas.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
