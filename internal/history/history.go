// Package history keeps bounded, linear undo/redo stacks of canvas snapshots.
package history

import "cellpaint/internal/canvas"

// MaxHistory is the default undo depth.
const MaxHistory = 100

// Snapshot is a deep copy of the editable content.
type Snapshot struct {
	Grid    canvas.Grid
	Strokes []canvas.Stroke
}

// Capture deep-copies grid and strokes.
func Capture(g canvas.Grid, strokes []canvas.Stroke) Snapshot {
	return Snapshot{Grid: g.Clone(), Strokes: canvas.CloneStrokes(strokes)}
}

func (s Snapshot) Equal(other Snapshot) bool {
	return s.Grid.Equal(other.Grid) && canvas.StrokesEqual(s.Strokes, other.Strokes)
}

// Manager holds the undo and redo stacks. The top of each stack is the last
// element.
type Manager struct {
	limit int
	undo  []Snapshot
	redo  []Snapshot
}

// New returns a manager keeping at most limit undo entries. A limit below 1
// falls back to MaxHistory.
func New(limit int) *Manager {
	if limit < 1 {
		limit = MaxHistory
	}
	return &Manager{limit: limit}
}

// Push records the state before an edit and drops the redo stack.
func (m *Manager) Push(s Snapshot) {
	m.undo = append(m.undo, s)
	if over := len(m.undo) - m.limit; over > 0 {
		m.undo = append(m.undo[:0:0], m.undo[over:]...)
	}
	m.redo = nil
}

// Undo pops the last snapshot and moves current onto the redo stack.
func (m *Manager) Undo(current Snapshot) (Snapshot, bool) {
	if len(m.undo) == 0 {
		return Snapshot{}, false
	}
	last := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, current)
	return last, true
}

// Redo is the inverse of Undo.
func (m *Manager) Redo(current Snapshot) (Snapshot, bool) {
	if len(m.redo) == 0 {
		return Snapshot{}, false
	}
	next := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, current)
	if over := len(m.undo) - m.limit; over > 0 {
		m.undo = append(m.undo[:0:0], m.undo[over:]...)
	}
	return next, true
}

// Reset drops both stacks.
func (m *Manager) Reset() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Depth returns the undo and redo stack sizes.
func (m *Manager) Depth() (undo, redo int) {
	return len(m.undo), len(m.redo)
}

func (m *Manager) Limit() int {
	return m.limit
}
