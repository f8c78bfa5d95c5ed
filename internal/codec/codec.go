// Package codec encodes the persisted editor state to JSON and decodes
// arbitrary JSON back into a valid state, defaulting or dropping bad fields.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"cellpaint/internal/canvas"
	"cellpaint/internal/coords"
)

const (
	DefaultColor       = "#0ea5e9"
	DefaultZoom        = 1.0
	DefaultStrokeWidth = 0.35
)

// ErrInvalidPayload is wrapped by every DecodeError.
var ErrInvalidPayload = errors.New("invalid payload")

// DecodeError explains why a payload was rejected as a whole.
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", ErrInvalidPayload, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %s", ErrInvalidPayload, e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidPayload
}

// State is the persisted projection of the editor: no mode, history or
// active stroke.
type State struct {
	Rows          int
	Cols          int
	Grid          canvas.Grid
	Zoom          float64
	SelectedColor string
	PanX          float64
	PanY          float64
	Strokes       []canvas.Stroke
}

type document struct {
	Rows          int             `json:"rows"`
	Cols          int             `json:"cols"`
	Grid          [][]*string     `json:"grid"`
	Zoom          float64         `json:"zoom"`
	SelectedColor string          `json:"selectedColor"`
	PanX          float64         `json:"panX"`
	PanY          float64         `json:"panY"`
	PaintStrokes  []canvas.Stroke `json:"paintStrokes"`
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Encode projects s to JSON. It does not fail: non-finite numbers are
// written as their defaults.
func Encode(s State) []byte {
	rows := make([][]*string, s.Grid.Rows())
	for r := range rows {
		rows[r] = make([]*string, s.Grid.Cols())
		for c := range rows[r] {
			if v := s.Grid.At(r, c); !v.IsEmpty() {
				color := string(v)
				rows[r][c] = &color
			}
		}
	}

	strokes := make([]canvas.Stroke, 0, len(s.Strokes))
	for _, st := range s.Strokes {
		st = st.Clone()
		if st.Points == nil {
			st.Points = []canvas.Point{}
		}
		st.Width = finiteOr(st.Width, DefaultStrokeWidth)
		for i, p := range st.Points {
			st.Points[i] = canvas.Point{X: finiteOr(p.X, 0), Y: finiteOr(p.Y, 0)}
		}
		strokes = append(strokes, st)
	}

	doc := document{
		Rows:          s.Rows,
		Cols:          s.Cols,
		Grid:          rows,
		Zoom:          finiteOr(s.Zoom, DefaultZoom),
		SelectedColor: s.SelectedColor,
		PanX:          finiteOr(s.PanX, 0),
		PanY:          finiteOr(s.PanY, 0),
		PaintStrokes:  strokes,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		// Only strings and finite numbers reach Marshal.
		panic(fmt.Sprintf("codec: marshal state: %v", err))
	}
	return data
}

// Report lists the adjustments Decode made to an accepted payload.
type Report struct {
	ClampedDims     bool
	CoercedCells    int
	DroppedStrokes  int
	DroppedPoints   int
	DefaultedFields []string
}

// Clean reports whether the payload was taken as-is.
func (r Report) Clean() bool {
	return !r.ClampedDims && r.CoercedCells == 0 && r.DroppedStrokes == 0 &&
		r.DroppedPoints == 0 && len(r.DefaultedFields) == 0
}

// Decode parses payload tolerantly. See DecodeReport.
func Decode(payload []byte) (State, error) {
	s, _, err := DecodeReport(payload)
	return s, err
}

// DecodeReport parses payload. rows and cols must be numbers and grid an
// array, otherwise a *DecodeError is returned and the State is zero. Every
// other field is normalized: dimensions clamped, cells coerced (legacy 0 is
// empty, other positive numbers are DefaultColor), strokes without usable
// points dropped, missing viewport fields defaulted.
func DecodeReport(payload []byte) (State, Report, error) {
	var rep Report

	var doc interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return State{}, rep, &DecodeError{Reason: fmt.Sprintf("parse json: %v", err)}
	}
	if err := validateShape(doc); err != nil {
		return State{}, rep, err
	}
	obj := doc.(map[string]interface{})

	rows, clampedRows := dim(obj["rows"].(float64))
	cols, clampedCols := dim(obj["cols"].(float64))
	rep.ClampedDims = clampedRows || clampedCols

	s := State{
		Rows: rows,
		Cols: cols,
		Grid: decodeGrid(obj["grid"].([]interface{}), rows, cols, &rep),
	}

	s.Zoom = DefaultZoom
	if z, ok := number(obj["zoom"]); ok {
		s.Zoom = coords.ClampZoom(z)
	} else {
		rep.DefaultedFields = append(rep.DefaultedFields, "zoom")
	}

	s.SelectedColor = DefaultColor
	if c, ok := obj["selectedColor"].(string); ok && c != "" {
		s.SelectedColor = c
	} else {
		rep.DefaultedFields = append(rep.DefaultedFields, "selectedColor")
	}

	if x, ok := number(obj["panX"]); ok {
		s.PanX = x
	} else {
		rep.DefaultedFields = append(rep.DefaultedFields, "panX")
	}
	if y, ok := number(obj["panY"]); ok {
		s.PanY = y
	} else {
		rep.DefaultedFields = append(rep.DefaultedFields, "panY")
	}

	s.Strokes = decodeStrokes(obj["paintStrokes"], &rep)
	return s, rep, nil
}

func dim(v float64) (int, bool) {
	n := math.Trunc(v)
	clamped := math.Max(canvas.MinDim, math.Min(canvas.MaxDim, n))
	return int(clamped), clamped != v
}

func number(v interface{}) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func decodeGrid(raw []interface{}, rows, cols int, rep *Report) canvas.Grid {
	g := canvas.NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		var row []interface{}
		if r < len(raw) {
			row, _ = raw[r].([]interface{})
		}
		for c := 0; c < cols; c++ {
			if c >= len(row) {
				rep.CoercedCells++
				continue
			}
			switch v := row[c].(type) {
			case string:
				g.Set(r, c, canvas.Cell(v))
			case nil:
			case float64:
				// Legacy on/off grids.
				if v > 0 {
					g.Set(r, c, DefaultColor)
				} else if v != 0 {
					rep.CoercedCells++
				}
			default:
				rep.CoercedCells++
			}
		}
	}
	return g
}

func decodeStrokes(raw interface{}, rep *Report) []canvas.Stroke {
	list, ok := raw.([]interface{})
	if !ok {
		if raw != nil {
			rep.DefaultedFields = append(rep.DefaultedFields, "paintStrokes")
		}
		return []canvas.Stroke{}
	}

	strokes := make([]canvas.Stroke, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			rep.DroppedStrokes++
			continue
		}
		rawPoints, ok := obj["points"].([]interface{})
		if !ok {
			rep.DroppedStrokes++
			continue
		}

		st := canvas.Stroke{Color: DefaultColor, Width: DefaultStrokeWidth}
		for _, rp := range rawPoints {
			p, ok := rp.(map[string]interface{})
			if !ok {
				rep.DroppedPoints++
				continue
			}
			x, okX := number(p["x"])
			y, okY := number(p["y"])
			if !okX || !okY {
				rep.DroppedPoints++
				continue
			}
			st.Points = append(st.Points, canvas.Point{X: x, Y: y})
		}
		if len(st.Points) == 0 {
			rep.DroppedStrokes++
			continue
		}

		if c, ok := obj["color"].(string); ok && c != "" {
			st.Color = c
		}
		if w, ok := number(obj["width"]); ok && w > 0 {
			st.Width = w
		}
		strokes = append(strokes, st)
	}
	return strokes
}
