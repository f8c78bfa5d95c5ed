package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"cellpaint/internal/canvas"
	"cellpaint/internal/codec"
	"cellpaint/internal/coords"
	"cellpaint/internal/history"
	"cellpaint/internal/storage"
)

// newTestStore returns an 8x8 store backed by in-memory storage.
func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory(0)
	return New(Options{Rows: 8, Cols: 8, Storage: kv}), kv
}

func stored(t *testing.T, kv storage.KV) codec.State {
	t.Helper()
	data, ok, err := kv.Get(DefaultStorageKey)
	if err != nil || !ok {
		t.Fatalf("nothing persisted (ok=%v err=%v)", ok, err)
	}
	st, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("persisted state does not decode: %v", err)
	}
	return st
}

func content(s *Store) history.Snapshot {
	return history.Capture(s.Grid(), s.Strokes())
}

func TestNewDefaults(t *testing.T) {
	s := New(Options{})
	if s.Rows() != DefaultRows || s.Cols() != DefaultCols {
		t.Errorf("dims: got %dx%d", s.Rows(), s.Cols())
	}
	if s.Mode() != ModeDraw {
		t.Errorf("Mode: got %v, want draw", s.Mode())
	}
	if s.Zoom() != 1 || s.SelectedColor() != codec.DefaultColor {
		t.Errorf("viewport/color defaults: zoom=%v color=%q", s.Zoom(), s.SelectedColor())
	}
	if _, active := s.ActiveStroke(); active {
		t.Errorf("fresh store has an active stroke")
	}

	clamped := New(Options{Rows: 3, Cols: 900})
	if clamped.Rows() != canvas.MinDim || clamped.Cols() != canvas.MaxDim {
		t.Errorf("clamped dims: got %dx%d", clamped.Rows(), clamped.Cols())
	}
}

func TestDrawAndErase(t *testing.T) {
	s, kv := newTestStore(t)
	s.SetSelectedColor("#111111")

	if !s.ApplyCellAction(2, 3) {
		t.Fatalf("draw on empty cell reported no change")
	}
	if s.Cell(2, 3) != "#111111" {
		t.Fatalf("cell not drawn: %q", s.Cell(2, 3))
	}
	if s.ApplyCellAction(2, 3) {
		t.Errorf("drawing the same color twice should be a no-op")
	}
	if u, _ := s.HistoryDepth(); u != 1 {
		t.Errorf("undo depth: got %d, want 1", u)
	}
	if got := stored(t, kv).Grid.At(2, 3); got != "#111111" {
		t.Errorf("persisted cell: got %q", got)
	}

	s.SetMode(ModeErase)
	if !s.ApplyCellAction(2, 3) || !s.Cell(2, 3).IsEmpty() {
		t.Fatalf("erase did not clear the cell")
	}
	if s.ApplyCellAction(2, 3) {
		t.Errorf("erasing an empty cell should be a no-op")
	}
	if u, _ := s.HistoryDepth(); u != 2 {
		t.Errorf("undo depth: got %d, want 2", u)
	}
}

func TestApplyCellActionOutOfBoundsAndInertModes(t *testing.T) {
	s, _ := newTestStore(t)
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if s.ApplyCellAction(pos[0], pos[1]) {
			t.Errorf("(%d,%d) out of bounds should be a no-op", pos[0], pos[1])
		}
	}
	for _, m := range []Mode{ModePan, ModePaint} {
		s.SetMode(m)
		if s.ApplyCellAction(1, 1) {
			t.Errorf("mode %v should not edit cells", m)
		}
	}
	if s.CanUndo() {
		t.Errorf("no-ops pushed history")
	}
}

func TestFillWholeGrid(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSelectedColor("#111111")
	s.SetMode(ModeFill)
	if !s.ApplyCellAction(1, 1) {
		t.Fatalf("fill reported no change")
	}
	for r := 0; r < s.Rows(); r++ {
		for c := 0; c < s.Cols(); c++ {
			if s.Cell(r, c) != "#111111" {
				t.Fatalf("(%d,%d) = %q after fill", r, c, s.Cell(r, c))
			}
		}
	}
	if s.ApplyCellAction(4, 4) {
		t.Errorf("filling with the clicked cell's color should be a no-op")
	}
	if u, _ := s.HistoryDepth(); u != 1 {
		t.Errorf("undo depth: got %d, want 1", u)
	}
}

func TestFillForwardRespectsDirection(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSelectedColor("#999999")
	s.ApplyCellAction(1, 0)
	s.ApplyCellAction(0, 1)

	s.SetSelectedColor("#111111")
	s.SetMode(ModeFillForward)
	if !s.ApplyCellAction(0, 0) {
		t.Fatalf("fillForward reported no change")
	}
	if s.Cell(0, 0) != "#111111" {
		t.Errorf("origin not filled")
	}
	if s.Cell(1, 1) != canvas.Empty || s.Cell(7, 7) != canvas.Empty {
		t.Errorf("fill leaked past the blocked neighbors")
	}

	s.SetMode(ModeFillForward)
	s.ApplyCellAction(4, 4)
	for r := 0; r < s.Rows(); r++ {
		for c := 0; c < s.Cols(); c++ {
			filled := s.Cell(r, c) == "#111111"
			want := (r >= 4 && c >= 4) || (r == 0 && c == 0)
			if filled != want {
				t.Errorf("(%d,%d): filled=%v want %v", r, c, filled, want)
			}
		}
	}
}

func TestUndoRestoresPriorContent(t *testing.T) {
	s, _ := newTestStore(t)
	steps := []func(){
		func() { s.ApplyCellAction(0, 0) },
		func() { s.SetSelectedColor("#ff0000"); s.SetMode(ModeFill); s.ApplyCellAction(3, 3) },
		func() {
			s.SetMode(ModePaint)
			s.StartPaintStroke(canvas.Point{X: 1, Y: 1})
			s.UpdatePaintStroke(canvas.Point{X: 2, Y: 1.5})
			s.EndPaintStroke()
		},
		func() { s.SetMode(ModeErase); s.ApplyCellAction(0, 0) },
		func() { s.SetMode(ModeFillForward); s.SetSelectedColor("#00ff00"); s.ApplyCellAction(5, 5) },
	}

	var before []history.Snapshot
	for _, step := range steps {
		before = append(before, content(s))
		step()
	}
	after := content(s)

	for i := len(steps) - 1; i >= 0; i-- {
		if !s.Undo() {
			t.Fatalf("Undo %d failed", i)
		}
		if !content(s).Equal(before[i]) {
			t.Fatalf("undo %d did not restore the prior content", i)
		}
	}
	if s.Undo() {
		t.Fatalf("Undo past the first edit should be a no-op")
	}

	for i := range steps {
		if !s.Redo() {
			t.Fatalf("Redo %d failed", i)
		}
		want := after
		if i+1 < len(before) {
			want = before[i+1]
		}
		if !content(s).Equal(want) {
			t.Fatalf("redo %d did not restore the undone content", i)
		}
	}
	if s.Redo() {
		t.Fatalf("Redo with an empty future should be a no-op")
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	s, _ := newTestStore(t)
	s.ApplyCellAction(0, 0)
	s.ApplyCellAction(0, 1)
	s.Undo()
	if !s.CanRedo() {
		t.Fatalf("expected a redo entry")
	}
	s.ApplyCellAction(5, 5)
	if s.CanRedo() {
		t.Fatalf("a new edit must clear the redo stack")
	}

	s.Undo()
	s.SetMode(ModePaint)
	s.StartPaintStroke(canvas.Point{X: 1, Y: 1})
	if s.CanRedo() {
		t.Fatalf("starting a stroke must clear the redo stack")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	s := New(Options{Rows: 16, Cols: 16})
	colors := []string{"#000001", "#000002"}
	for i := 0; i < history.MaxHistory+20; i++ {
		s.SetSelectedColor(colors[i%2])
		s.ApplyCellAction(0, 0)
	}
	if u, _ := s.HistoryDepth(); u != history.MaxHistory {
		t.Fatalf("undo depth: got %d, want %d", u, history.MaxHistory)
	}
}

func TestUndoRedoEmptyAreNoops(t *testing.T) {
	s, kv := newTestStore(t)
	if s.Undo() || s.Redo() {
		t.Fatalf("undo/redo on empty stacks should report false")
	}
	if _, ok, _ := kv.Get(DefaultStorageKey); ok {
		t.Fatalf("no-op undo/redo wrote storage")
	}
}

func TestClearIsNotUndoable(t *testing.T) {
	s, kv := newTestStore(t)
	s.ApplyCellAction(1, 1)
	s.SetMode(ModePaint)
	s.StartPaintStroke(canvas.Point{X: 0.5, Y: 0.5})
	s.EndPaintStroke()
	s.Undo()
	if !s.CanUndo() || !s.CanRedo() {
		t.Fatalf("setup: expected both stacks populated")
	}

	s.Clear()

	// Clearing discards history and future on purpose.
	if s.CanUndo() || s.CanRedo() {
		t.Fatalf("Clear must discard undo and redo")
	}
	if !s.Grid().Equal(canvas.NewGrid(8, 8)) || len(s.Strokes()) != 0 {
		t.Fatalf("Clear left content behind")
	}
	if st := stored(t, kv); !st.Grid.Equal(canvas.NewGrid(8, 8)) {
		t.Fatalf("cleared grid not persisted")
	}
}

func TestSetGridSize(t *testing.T) {
	s, kv := newTestStore(t)
	s.SetMode(ModeFill)
	s.SetSelectedColor("#123456")
	s.ApplyCellAction(0, 0)
	s.SetMode(ModePaint)
	s.StartPaintStroke(canvas.Point{X: 1, Y: 1})
	s.SetPan(30, -20, true)

	if !s.SetGridSize(12, 10) {
		t.Fatalf("SetGridSize reported no change")
	}
	if s.Rows() != 12 || s.Cols() != 10 {
		t.Fatalf("dims: got %dx%d", s.Rows(), s.Cols())
	}
	for r := 0; r < 12; r++ {
		for c := 0; c < 10; c++ {
			want := canvas.Empty
			if r < 8 && c < 8 {
				want = "#123456"
			}
			if got := s.Cell(r, c); got != want {
				t.Fatalf("(%d,%d): got %q, want %q", r, c, got, want)
			}
		}
	}
	if len(s.Strokes()) != 0 {
		t.Errorf("strokes survived resize")
	}
	if _, active := s.ActiveStroke(); active {
		t.Errorf("active stroke survived resize")
	}
	if x, y := s.Pan(); x != 0 || y != 0 {
		t.Errorf("pan not reset: (%v,%v)", x, y)
	}
	// Resizing discards history on purpose.
	if s.CanUndo() || s.CanRedo() {
		t.Errorf("resize must discard history")
	}
	if st := stored(t, kv); st.Rows != 12 || st.Cols != 10 {
		t.Errorf("persisted dims: %dx%d", st.Rows, st.Cols)
	}

	if s.SetGridSize(12, 10) {
		t.Errorf("same size should be a no-op")
	}
	s.SetGridSize(1, 1000)
	if s.Rows() != canvas.MinDim || s.Cols() != canvas.MaxDim {
		t.Errorf("clamp: got %dx%d", s.Rows(), s.Cols())
	}
	if s.SetGridSize(-5, 4000) {
		t.Errorf("request clamping to the current size should be a no-op")
	}
}

func TestZoomClampedAndNotInHistory(t *testing.T) {
	s, kv := newTestStore(t)
	s.SetZoom(10)
	if s.Zoom() != coords.MaxZoom {
		t.Errorf("Zoom: got %v", s.Zoom())
	}
	s.BumpZoom(-100)
	if s.Zoom() != coords.MinZoom {
		t.Errorf("Zoom: got %v", s.Zoom())
	}
	s.BumpZoom(0.25)
	if s.Zoom() != 0.75 {
		t.Errorf("Zoom: got %v", s.Zoom())
	}
	if s.CanUndo() {
		t.Errorf("zoom pushed history")
	}
	if st := stored(t, kv); st.Zoom != 0.75 {
		t.Errorf("persisted zoom: %v", st.Zoom)
	}
}

func TestSetPanPersistFlag(t *testing.T) {
	s, kv := newTestStore(t)
	s.SetPan(10, 20, false)
	if _, ok, _ := kv.Get(DefaultStorageKey); ok {
		t.Fatalf("SetPan without persist wrote storage")
	}
	if x, y := s.Pan(); x != 10 || y != 20 {
		t.Fatalf("Pan: got (%v,%v)", x, y)
	}
	s.SetPan(11, 21, true)
	if st := stored(t, kv); st.PanX != 11 || st.PanY != 21 {
		t.Fatalf("persisted pan: (%v,%v)", st.PanX, st.PanY)
	}
}

func TestClampPanAgainstViewport(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetPan(-10000, 10000, false)
	s.ClampPan(coords.Default, coords.Vec{X: 300, Y: 300}, false)
	x, y := s.Pan()
	// 8 cells of 24px at zoom 1.
	if x != coords.MinVisible-192 || y != 192-coords.MinVisible {
		t.Fatalf("Pan: got (%v,%v)", x, y)
	}
	if !s.Grid().Equal(canvas.NewGrid(8, 8)) {
		t.Fatalf("ClampPan touched grid content")
	}
}

func TestSelectedColorIgnoresEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSelectedColor("#abcdef")
	s.SetSelectedColor("")
	if s.SelectedColor() != "#abcdef" {
		t.Fatalf("SelectedColor: got %q", s.SelectedColor())
	}
}

func TestPersistFailureKeepsEdit(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	s := New(Options{Rows: 8, Cols: 8, Storage: storage.NewMemory(10), Logger: logger})

	if !s.ApplyCellAction(0, 0) {
		t.Fatalf("edit reported no change")
	}
	if s.Cell(0, 0) != codec.DefaultColor {
		t.Fatalf("edit lost after storage failure")
	}
	if !strings.Contains(buf.String(), "failed to persist state") {
		t.Fatalf("expected a warning, log was: %q", buf.String())
	}
	if !errors.Is(s.PersistError(), storage.ErrQuotaExceeded) {
		t.Fatalf("PersistError: got %v, want ErrQuotaExceeded", s.PersistError())
	}
}

func TestPersistErrorClearsAfterWrite(t *testing.T) {
	s, _ := newTestStore(t)
	if s.PersistError() != nil {
		t.Fatalf("fresh store: %v", s.PersistError())
	}
	s.ApplyCellAction(0, 0)
	if s.PersistError() != nil {
		t.Fatalf("after successful write: %v", s.PersistError())
	}
}

func TestPaintStrokeLifecycle(t *testing.T) {
	p := func(x, y float64) canvas.Point { return canvas.Point{X: x, Y: y} }
	notPersisted := func(t *testing.T, kv storage.KV) {
		t.Helper()
		if _, ok, _ := kv.Get(DefaultStorageKey); ok {
			t.Fatalf("stroke persisted before it ended")
		}
	}

	tests := []struct {
		name       string
		run        func(t *testing.T, s *Store, kv storage.KV)
		wantPoints [][]canvas.Point
		wantUndo   int
		// strokes in storage afterwards, -1 when nothing was written
		wantStored int
	}{
		{
			name: "repeated point dropped, one history entry",
			run: func(t *testing.T, s *Store, kv storage.KV) {
				s.StartPaintStroke(p(1, 1))
				s.UpdatePaintStroke(p(2, 1))
				if s.UpdatePaintStroke(p(2, 1)) {
					t.Errorf("repeated point accepted")
				}
				notPersisted(t, kv)
				if !s.EndPaintStroke() {
					t.Errorf("EndPaintStroke reported no active stroke")
				}
			},
			wantPoints: [][]canvas.Point{{p(1, 1), p(2, 1)}},
			wantUndo:   1,
			wantStored: 1,
		},
		{
			name: "start while active is ignored",
			run: func(t *testing.T, s *Store, kv storage.KV) {
				s.StartPaintStroke(p(1, 1))
				if s.StartPaintStroke(p(5, 5)) {
					t.Errorf("second stroke started while one was active")
				}
				s.UpdatePaintStroke(p(1, 2))
				s.EndPaintStroke()
			},
			wantPoints: [][]canvas.Point{{p(1, 1), p(1, 2)}},
			wantUndo:   1,
			wantStored: 1,
		},
		{
			name: "update and end without a stroke",
			run: func(t *testing.T, s *Store, kv storage.KV) {
				if s.UpdatePaintStroke(p(1, 1)) || s.EndPaintStroke() {
					t.Errorf("no-op reported a change")
				}
			},
			wantPoints: [][]canvas.Point{},
			wantUndo:   0,
			wantStored: -1,
		},
		{
			name: "leaving paint mode finalizes",
			run: func(t *testing.T, s *Store, kv storage.KV) {
				s.StartPaintStroke(p(1, 1))
				s.UpdatePaintStroke(p(3, 3))
				s.SetMode(ModeDraw)
			},
			wantPoints: [][]canvas.Point{{p(1, 1), p(3, 3)}},
			wantUndo:   1,
			wantStored: 1,
		},
		{
			name: "undo clears the active stroke",
			run: func(t *testing.T, s *Store, kv storage.KV) {
				s.StartPaintStroke(p(1, 1))
				s.UpdatePaintStroke(p(2, 2))
				if !s.Undo() {
					t.Errorf("Undo had nothing to undo")
				}
				if s.UpdatePaintStroke(p(3, 3)) {
					t.Errorf("stroke still extends after undo")
				}
			},
			wantPoints: [][]canvas.Point{},
			wantUndo:   0,
			wantStored: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestStore(t)
			s.SetMode(ModePaint)
			tt.run(t, s, kv)

			if _, active := s.ActiveStroke(); active {
				t.Errorf("stroke still active")
			}
			strokes := s.Strokes()
			if len(strokes) != len(tt.wantPoints) {
				t.Fatalf("strokes: got %d, want %d", len(strokes), len(tt.wantPoints))
			}
			for i, want := range tt.wantPoints {
				got := strokes[i].Points
				if len(got) != len(want) {
					t.Fatalf("stroke %d points: got %v, want %v", i, got, want)
				}
				for j := range want {
					if got[j] != want[j] {
						t.Fatalf("stroke %d points: got %v, want %v", i, got, want)
					}
				}
			}
			if undo, _ := s.HistoryDepth(); undo != tt.wantUndo {
				t.Errorf("undo depth: got %d, want %d", undo, tt.wantUndo)
			}
			if tt.wantStored < 0 {
				notPersisted(t, kv)
				return
			}
			if got := len(stored(t, kv).Strokes); got != tt.wantStored {
				t.Errorf("stored strokes: got %d, want %d", got, tt.wantStored)
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetSelectedColor("#101010")
	s.ApplyCellAction(0, 0)
	s.SetMode(ModeFillForward)
	s.SetSelectedColor("#202020")
	s.ApplyCellAction(3, 2)
	s.SetMode(ModePaint)
	s.SetBrushWidth(1.25)
	s.StartPaintStroke(canvas.Point{X: 0.1, Y: 0.7})
	s.UpdatePaintStroke(canvas.Point{X: 1.0 / 3, Y: 2.2})
	s.EndPaintStroke()
	s.SetZoom(2.5)
	s.SetPan(-33.5, 12, true)

	first := s.Serialize()
	other, _ := newTestStore(t)
	if err := other.Deserialize([]byte(first)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if second := other.Serialize(); second != first {
		t.Fatalf("round trip differs\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestDeserializeRejectsBadPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.WarnLevel})
	kv := storage.NewMemory(0)
	s := New(Options{Rows: 8, Cols: 8, Storage: kv, Logger: logger})
	s.ApplyCellAction(4, 4)
	s.SetMode(ModeErase)
	before := s.Serialize()
	persisted, _, _ := kv.Get(DefaultStorageKey)

	err := s.Deserialize([]byte(`{"rows":"16","cols":16,"grid":[]}`))
	if !errors.Is(err, codec.ErrInvalidPayload) {
		t.Fatalf("Deserialize: got %v, want ErrInvalidPayload", err)
	}
	if s.Serialize() != before || s.Mode() != ModeErase || !s.CanUndo() {
		t.Fatalf("state changed after a rejected import")
	}
	if after, _, _ := kv.Get(DefaultStorageKey); !bytes.Equal(after, persisted) {
		t.Fatalf("rejected import touched storage")
	}
	if !strings.Contains(buf.String(), "import rejected") {
		t.Fatalf("expected a warning, log was: %q", buf.String())
	}
}

func TestDeserializeReplacesStateAndResetsHistory(t *testing.T) {
	s, kv := newTestStore(t)
	s.ApplyCellAction(0, 0)
	payload := `{"rows":10,"cols":9,"grid":[[1,0,"#fff"]],"zoom":2,"selectedColor":"#333",
		"panX":5,"panY":6,"paintStrokes":[{"color":"#f00","width":1,"points":[{"x":1,"y":1}]}]}`
	if err := s.Deserialize([]byte(payload)); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if s.Rows() != 10 || s.Cols() != 9 {
		t.Errorf("dims: %dx%d", s.Rows(), s.Cols())
	}
	if s.Cell(0, 0) != codec.DefaultColor || s.Cell(0, 1) != canvas.Empty || s.Cell(0, 2) != "#fff" {
		t.Errorf("cells: %v", s.Grid().RowsCopy()[0][:3])
	}
	if s.Zoom() != 2 || s.SelectedColor() != "#333" {
		t.Errorf("zoom/color: %v %q", s.Zoom(), s.SelectedColor())
	}
	if x, y := s.Pan(); x != 5 || y != 6 {
		t.Errorf("pan: (%v,%v)", x, y)
	}
	if len(s.Strokes()) != 1 {
		t.Errorf("strokes: %+v", s.Strokes())
	}
	if s.CanUndo() {
		t.Errorf("import should reset history")
	}
	if st := stored(t, kv); st.Rows != 10 {
		t.Errorf("import not persisted")
	}
}

func TestLoadFromStorage(t *testing.T) {
	kv := storage.NewMemory(0)
	src := New(Options{Rows: 12, Cols: 12, Storage: kv})
	src.SetSelectedColor("#0a0a0a")
	src.ApplyCellAction(11, 11)

	dst := New(Options{Storage: kv})
	if !dst.LoadFromStorage() {
		t.Fatalf("LoadFromStorage reported nothing loaded")
	}
	if dst.Serialize() != src.Serialize() {
		t.Fatalf("loaded state differs")
	}

	empty := New(Options{Rows: 9, Cols: 9, Storage: storage.NewMemory(0)})
	if empty.LoadFromStorage() {
		t.Fatalf("LoadFromStorage on empty storage reported success")
	}
	if empty.Rows() != 9 {
		t.Fatalf("defaults changed")
	}

	bad := storage.NewMemory(0)
	bad.Set(DefaultStorageKey, []byte("{garbage"))
	junk := New(Options{Rows: 9, Cols: 9, Storage: bad})
	if junk.LoadFromStorage() || junk.Rows() != 9 {
		t.Fatalf("unreadable stored state should leave defaults")
	}
}

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore(t)
	var got []EventKind
	cancel := s.Subscribe(func(e Event) { got = append(got, e.Kind) })

	s.ApplyCellAction(0, 0)
	s.SetMode(ModeFill)
	s.SetZoom(2)
	s.Undo()
	s.Clear()
	s.ApplyCellAction(9, 9) // out of bounds: no event

	want := []EventKind{EventGrid, EventMode, EventViewport, EventHistory, EventReplaced}
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events: got %v, want %v", got, want)
		}
	}

	cancel()
	s.SetZoom(3)
	if len(got) != len(want) {
		t.Fatalf("listener called after cancel")
	}
}

func TestSubscribeOrder(t *testing.T) {
	s, _ := newTestStore(t)
	var calls []string
	for _, name := range []string{"a", "b", "c", "d"} {
		name := name
		cancel := s.Subscribe(func(Event) { calls = append(calls, name) })
		if name == "b" {
			defer cancel()
		}
		if name == "c" {
			cancel()
		}
	}
	for i := 0; i < 3; i++ {
		s.SetZoom(1 + float64(i+1)*0.5)
	}
	want := "abdabdabd"
	if got := strings.Join(calls, ""); got != want {
		t.Fatalf("listener order: got %q, want %q", got, want)
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"draw":         ModeDraw,
		" Erase ":      ModeErase,
		"fill":         ModeFill,
		"fillForward":  ModeFillForward,
		"fill-forward": ModeFillForward,
		"FILL_FORWARD": ModeFillForward,
		"paint":        ModePaint,
		"pan":          ModePan,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q): got (%v, %v), want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("spray"); err == nil {
		t.Errorf("ParseMode(spray) should fail")
	}
}

func TestSetModeIgnoresUnknown(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetMode(Mode("spray"))
	if s.Mode() != ModeDraw {
		t.Fatalf("Mode: got %v", s.Mode())
	}
}
