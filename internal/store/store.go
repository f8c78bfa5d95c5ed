// Package store is the editor's state container. It owns the grid, paint
// strokes, viewport, mode and history, and writes the persisted projection to
// a key-value store after each edit.
//
// A Store is not safe for concurrent use; callers serialize access (the
// terminal front end does so through its update loop).
package store

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"cellpaint/internal/canvas"
	"cellpaint/internal/codec"
	"cellpaint/internal/coords"
	"cellpaint/internal/history"
	"cellpaint/internal/storage"
)

const (
	DefaultRows       = 32
	DefaultCols       = 32
	DefaultStorageKey = "cellpaint.state"
)

// Options configures New. Zero fields take defaults.
type Options struct {
	Rows          int
	Cols          int
	SelectedColor string
	BrushWidth    float64
	MaxHistory    int

	// Storage receives the persisted state after each edit. Nil disables
	// persistence.
	Storage    storage.KV
	StorageKey string

	Logger *log.Logger
}

// Store holds the canonical editor state.
type Store struct {
	grid    canvas.Grid
	strokes []canvas.Stroke
	active  int // index of the stroke being extended, -1 for none

	zoom       float64
	panX, panY float64

	mode          Mode
	selectedColor string
	brushWidth    float64

	history *history.Manager

	kv     storage.KV
	key    string
	logger *log.Logger

	listeners []subscription
	nextID    int

	// last storage write failure, nil after a successful write
	persistErr error
}

// New builds a store with an empty grid. It does not read storage; call
// LoadFromStorage for that.
func New(opts Options) *Store {
	rows, cols := opts.Rows, opts.Cols
	if rows == 0 {
		rows = DefaultRows
	}
	if cols == 0 {
		cols = DefaultCols
	}
	color := opts.SelectedColor
	if color == "" {
		color = codec.DefaultColor
	}
	width := opts.BrushWidth
	if !(width > 0) || math.IsInf(width, 0) {
		width = codec.DefaultStrokeWidth
	}
	key := opts.StorageKey
	if key == "" {
		key = DefaultStorageKey
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Store{
		grid:          canvas.NewGrid(canvas.ClampDim(rows), canvas.ClampDim(cols)),
		strokes:       []canvas.Stroke{},
		active:        -1,
		zoom:          codec.DefaultZoom,
		mode:          ModeDraw,
		selectedColor: color,
		brushWidth:    width,
		history:       history.New(opts.MaxHistory),
		kv:            opts.Storage,
		key:           key,
		logger:        logger,
	}
}

func (s *Store) Rows() int { return s.grid.Rows() }
func (s *Store) Cols() int { return s.grid.Cols() }

// Cell returns the cell at (row, col), empty when out of bounds.
func (s *Store) Cell(row, col int) canvas.Cell {
	return s.grid.At(row, col)
}

// Grid returns a copy of the grid.
func (s *Store) Grid() canvas.Grid {
	return s.grid.Clone()
}

// Strokes returns a copy of the paint strokes.
func (s *Store) Strokes() []canvas.Stroke {
	return canvas.CloneStrokes(s.strokes)
}

// ActiveStroke returns the index of the stroke being painted.
func (s *Store) ActiveStroke() (int, bool) {
	return s.active, s.active >= 0
}

func (s *Store) Zoom() float64 { return s.zoom }
func (s *Store) Pan() (float64, float64) { return s.panX, s.panY }
func (s *Store) Mode() Mode { return s.mode }
func (s *Store) SelectedColor() string { return s.selectedColor }
func (s *Store) BrushWidth() float64 { return s.brushWidth }
func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }
func (s *Store) HistoryDepth() (int, int) { return s.history.Depth() }

// PersistedState is the serializable projection of the store.
func (s *Store) PersistedState() codec.State {
	return codec.State{
		Rows:          s.grid.Rows(),
		Cols:          s.grid.Cols(),
		Grid:          s.grid.Clone(),
		Zoom:          s.zoom,
		SelectedColor: s.selectedColor,
		PanX:          s.panX,
		PanY:          s.panY,
		Strokes:       canvas.CloneStrokes(s.strokes),
	}
}

// Serialize encodes the persisted state as JSON.
func (s *Store) Serialize() string {
	return string(codec.Encode(s.PersistedState()))
}

// persist writes the persisted state. Failures are logged; the in-memory
// state is kept either way.
func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	data := codec.Encode(s.PersistedState())
	if err := s.kv.Set(s.key, data); err != nil {
		s.persistErr = err
		s.logger.Warn("failed to persist state", "key", s.key, "bytes", len(data), "err", err)
		return
	}
	s.persistErr = nil
	s.logger.Debug("state persisted", "key", s.key, "bytes", len(data))
}

// PersistError reports the failure of the most recent storage write, or nil.
// Editing never fails on it; headless callers whose only effect is the write
// check it.
func (s *Store) PersistError() error {
	return s.persistErr
}

// Deserialize replaces the persisted part of the state with payload. On a
// rejected payload the store is unchanged, a warning is logged and the
// *codec.DecodeError is returned. An accepted payload resets history.
func (s *Store) Deserialize(payload []byte) error {
	st, rep, err := codec.DecodeReport(payload)
	if err != nil {
		s.logger.Warn("import rejected", "err", err)
		return err
	}
	if !rep.Clean() {
		s.logger.Info("import normalized",
			"clamped_dims", rep.ClampedDims,
			"coerced_cells", rep.CoercedCells,
			"dropped_strokes", rep.DroppedStrokes,
			"dropped_points", rep.DroppedPoints,
			"defaulted", rep.DefaultedFields,
		)
	}
	s.install(st)
	s.persist()
	s.emit(EventReplaced)
	return nil
}

// LoadFromStorage restores the persisted state. It reports whether a stored
// state was installed; a missing, unreadable or invalid value leaves the
// store as it is.
func (s *Store) LoadFromStorage() bool {
	if s.kv == nil {
		return false
	}
	data, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn("failed to read stored state", "key", s.key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	st, err := codec.Decode(data)
	if err != nil {
		s.logger.Warn("stored state ignored", "key", s.key, "err", err)
		return false
	}
	s.install(st)
	s.emit(EventReplaced)
	return true
}

func (s *Store) install(st codec.State) {
	s.grid = st.Grid
	s.strokes = st.Strokes
	if s.strokes == nil {
		s.strokes = []canvas.Stroke{}
	}
	s.active = -1
	s.zoom = coords.ClampZoom(st.Zoom)
	s.panX, s.panY = st.PanX, st.PanY
	if st.SelectedColor != "" {
		s.selectedColor = st.SelectedColor
	}
	s.history.Reset()
}
