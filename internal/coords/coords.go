// Package coords maps pointer positions on a drawing surface to grid cells
// and fractional stroke points, and clamps pan offsets.
package coords

import (
	"math"

	"cellpaint/internal/canvas"
)

const (
	// BaseCellSize is the edge of one cell in surface pixels at zoom 1.
	BaseCellSize = 24.0
	// MinVisible is how many pixels of content must stay inside the viewport.
	MinVisible = 48.0

	MinZoom = 0.5
	MaxZoom = 4.0
)

// Vec is a 2-D pair in surface pixels (or a per-axis scale factor).
type Vec struct {
	X, Y float64
}

// Mapper converts surface positions for a given cell size and pan margin.
// The zero value is not usable; start from Default.
type Mapper struct {
	CellSize float64
	Margin   float64
}

// Default is the mapper for a pixel surface.
var Default = Mapper{CellSize: BaseCellSize, Margin: MinVisible}

func finitePositive(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// backing converts a pointer position to backing-store pixels.
func backing(pointer, origin, scale Vec) (float64, float64) {
	return (pointer.X - origin.X) * scale.X, (pointer.Y - origin.Y) * scale.Y
}

// ScreenToCell returns the (row, col) under pointer. origin is the top-left of
// the surface on screen, scale the ratio of backing-store pixels to on-screen
// pixels per axis. Backing-store pixels are divided by the zoomed cell size
// and floored; dpr is only validated. ok is false when any factor is not a
// finite positive number; the result may still be out of the grid.
func (m Mapper) ScreenToCell(pointer, origin, scale Vec, zoom, dpr float64) (row, col int, ok bool) {
	if !finitePositive(scale.X, scale.Y, zoom, dpr, m.CellSize) || !finite(pointer.X, pointer.Y, origin.X, origin.Y) {
		return 0, 0, false
	}
	x, y := backing(pointer, origin, scale)
	cell := m.CellSize * zoom
	return int(math.Floor(y / cell)), int(math.Floor(x / cell)), true
}

// ScreenToStrokePoint is ScreenToCell without flooring: backing-store pixels
// are divided by the device pixel ratio and then by the zoomed cell size.
func (m Mapper) ScreenToStrokePoint(pointer, origin, scale Vec, zoom, dpr float64) (canvas.Point, bool) {
	if !finitePositive(scale.X, scale.Y, zoom, dpr, m.CellSize) || !finite(pointer.X, pointer.Y, origin.X, origin.Y) {
		return canvas.Point{}, false
	}
	x, y := backing(pointer, origin, scale)
	cell := m.CellSize * zoom
	return canvas.Point{X: x / dpr / cell, Y: y / dpr / cell}, true
}

// ContentSize is the on-surface extent of a rows x cols grid at zoom.
func (m Mapper) ContentSize(rows, cols int, zoom float64) Vec {
	return Vec{X: float64(cols) * m.CellSize * zoom, Y: float64(rows) * m.CellSize * zoom}
}

// ClampPan keeps at least m.Margin pixels of content visible on each axis.
func (m Mapper) ClampPan(pan, content, viewport Vec) Vec {
	return Vec{
		X: clampAxis(pan.X, content.X, viewport.X, m.Margin),
		Y: clampAxis(pan.Y, content.Y, viewport.Y, m.Margin),
	}
}

func clampAxis(v, content, view, margin float64) float64 {
	lo := margin - content
	hi := math.Min(view, content) - margin
	if lo > hi {
		// Content too small to honor the margin; leave the axis alone.
		return v
	}
	return math.Max(lo, math.Min(hi, v))
}

// ScreenToCell uses the Default mapper.
func ScreenToCell(pointer, origin, scale Vec, zoom, dpr float64) (int, int, bool) {
	return Default.ScreenToCell(pointer, origin, scale, zoom, dpr)
}

// ScreenToStrokePoint uses the Default mapper.
func ScreenToStrokePoint(pointer, origin, scale Vec, zoom, dpr float64) (canvas.Point, bool) {
	return Default.ScreenToStrokePoint(pointer, origin, scale, zoom, dpr)
}

// ClampPan clamps (x, y) so MinVisible pixels of a contentW x contentH
// surface stay inside a viewW x viewH viewport.
func ClampPan(x, y, contentW, contentH, viewW, viewH float64) (float64, float64) {
	v := Default.ClampPan(Vec{x, y}, Vec{contentW, contentH}, Vec{viewW, viewH})
	return v.X, v.Y
}

// ClampZoom bounds z to [MinZoom, MaxZoom]. Non-finite input yields 1.
func ClampZoom(z float64) float64 {
	if !finite(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
