// Package render rasterizes a persisted editor state to PNG.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"cellpaint/internal/canvas"
	"cellpaint/internal/codec"
)

const DefaultCellSize = 24.0

// Options controls the raster. Zero fields take defaults.
type Options struct {
	// CellSize is the edge of a cell in pixels.
	CellSize float64
	// GridLines draws a hairline between cells.
	GridLines bool
	// Rulers adds row and column numbers along the top and left edges.
	Rulers bool

	Background color.Color
	LineColor  color.Color
	// Fallback paints cells and strokes whose color cannot be parsed.
	Fallback color.Color
}

func (o Options) withDefaults() Options {
	if !(o.CellSize > 0) || math.IsInf(o.CellSize, 0) {
		o.CellSize = DefaultCellSize
	}
	if o.Background == nil {
		o.Background = color.White
	}
	if o.LineColor == nil {
		o.LineColor = color.Gray{Y: 0xdd}
	}
	if o.Fallback == nil {
		o.Fallback, _ = ParseColor(codec.DefaultColor)
	}
	return o
}

// ParseColor reads "#rgb" or "#rrggbb".
func ParseColor(s string) (color.Color, bool) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, false
	}
	return c.Clamped(), true
}

func (o Options) colorOf(s string) color.Color {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return o.Fallback
}

// Image draws s and returns the raster.
func Image(s codec.State, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	cell := opts.CellSize
	rows, cols := s.Grid.Rows(), s.Grid.Cols()

	var face font.Face
	offset := 0.0
	if opts.Rulers {
		var err error
		face, err = rulerFace(cell)
		if err != nil {
			return nil, err
		}
		defer face.Close()
		offset = rulerWidth(face, rows, cols)
	}

	width := int(math.Ceil(offset + float64(cols)*cell))
	height := int(math.Ceil(offset + float64(rows)*cell))
	dc := gg.NewContext(width, height)
	dc.SetColor(opts.Background)
	dc.Clear()

	dc.Push()
	dc.Translate(offset, offset)
	drawCells(dc, s.Grid, opts)
	if opts.GridLines {
		drawGridLines(dc, rows, cols, opts)
	}
	drawStrokes(dc, s.Strokes, opts)
	dc.Pop()

	if face != nil {
		drawRulers(dc, face, rows, cols, offset, opts)
	}
	return dc.Image(), nil
}

// PNG writes s as a PNG image to w.
func PNG(w io.Writer, s codec.State, opts Options) error {
	img, err := Image(s, opts)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(img).EncodePNG(w)
}

// SavePNG writes s as a PNG file at path.
func SavePNG(path string, s codec.State, opts Options) error {
	img, err := Image(s, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

func drawCells(dc *gg.Context, g canvas.Grid, opts Options) {
	cell := opts.CellSize
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			v := g.At(r, c)
			if v.IsEmpty() {
				continue
			}
			dc.SetColor(opts.colorOf(string(v)))
			dc.DrawRectangle(float64(c)*cell, float64(r)*cell, cell, cell)
			dc.Fill()
		}
	}
}

func drawGridLines(dc *gg.Context, rows, cols int, opts Options) {
	cell := opts.CellSize
	w, h := float64(cols)*cell, float64(rows)*cell
	dc.SetColor(opts.LineColor)
	dc.SetLineWidth(1)
	for c := 0; c <= cols; c++ {
		x := float64(c) * cell
		dc.DrawLine(x, 0, x, h)
	}
	for r := 0; r <= rows; r++ {
		y := float64(r) * cell
		dc.DrawLine(0, y, w, y)
	}
	dc.Stroke()
}

// drawStrokes paints strokes in order. Points are in cell units; a
// single-point stroke is a dot of the stroke's width.
func drawStrokes(dc *gg.Context, strokes []canvas.Stroke, opts Options) {
	cell := opts.CellSize
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for _, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		width := s.Width * cell
		dc.SetColor(opts.colorOf(s.Color))
		if len(s.Points) == 1 {
			p := s.Points[0]
			dc.DrawCircle(p.X*cell, p.Y*cell, width/2)
			dc.Fill()
			continue
		}
		dc.SetLineWidth(width)
		dc.MoveTo(s.Points[0].X*cell, s.Points[0].Y*cell)
		for _, p := range s.Points[1:] {
			dc.LineTo(p.X*cell, p.Y*cell)
		}
		dc.Stroke()
	}
}

func rulerFace(cell float64) (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	size := math.Max(8, math.Min(12, cell*0.5))
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// rulerWidth is wide enough for the longest label plus padding.
func rulerWidth(face font.Face, rows, cols int) float64 {
	label := strconv.Itoa(max(rows, cols) - 1)
	adv := font.MeasureString(face, label)
	return math.Ceil(float64(adv)/64) + 8
}

// rulerStep spaces labels so neighbours do not overlap.
func rulerStep(labelWidth, cell float64) int {
	step := 1
	for float64(step)*cell < labelWidth+4 {
		step *= 2
	}
	return step
}

func drawRulers(dc *gg.Context, face font.Face, rows, cols int, offset float64, opts Options) {
	cell := opts.CellSize
	dc.SetFontFace(face)
	dc.SetColor(color.Gray{Y: 0x55})

	widest, _ := dc.MeasureString(strconv.Itoa(max(rows, cols) - 1))
	colStep := rulerStep(widest, cell)
	for c := 0; c < cols; c += colStep {
		x := offset + (float64(c)+0.5)*cell
		dc.DrawStringAnchored(strconv.Itoa(c), x, offset/2, 0.5, 0.5)
	}

	_, lineHeight := dc.MeasureString("0")
	rowStep := rulerStep(lineHeight, cell)
	for r := 0; r < rows; r += rowStep {
		y := offset + (float64(r)+0.5)*cell
		dc.DrawStringAnchored(strconv.Itoa(r), offset/2, y, 0.5, 0.5)
	}
}
