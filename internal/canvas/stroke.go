package canvas

// Point is a fractional position in grid space: X along columns, Y along rows.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous freehand gesture.
type Stroke struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}

// Append adds p unless it is exactly equal to the last point.
func (s *Stroke) Append(p Point) bool {
	if n := len(s.Points); n > 0 && s.Points[n-1] == p {
		return false
	}
	s.Points = append(s.Points, p)
	return true
}

func (s Stroke) Clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

// CloneStrokes deep-copies a stroke list, including each point list.
func CloneStrokes(strokes []Stroke) []Stroke {
	if strokes == nil {
		return nil
	}
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Clone()
	}
	return out
}

// StrokesEqual compares two stroke lists structurally.
func StrokesEqual(a, b []Stroke) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Color != b[i].Color || a[i].Width != b[i].Width || len(a[i].Points) != len(b[i].Points) {
			return false
		}
		for j := range a[i].Points {
			if a[i].Points[j] != b[i].Points[j] {
				return false
			}
		}
	}
	return true
}
