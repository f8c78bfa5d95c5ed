package store

// EventKind names what part of the state changed.
type EventKind int

const (
	EventGrid EventKind = iota
	EventStrokes
	EventViewport
	EventMode
	EventColor
	EventHistory
	// EventReplaced follows clear, resize, import and load.
	EventReplaced
)

func (k EventKind) String() string {
	switch k {
	case EventGrid:
		return "grid"
	case EventStrokes:
		return "strokes"
	case EventViewport:
		return "viewport"
	case EventMode:
		return "mode"
	case EventColor:
		return "color"
	case EventHistory:
		return "history"
	case EventReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after a mutation completes.
type Event struct {
	Kind EventKind
}

// Listener observes store changes. It runs synchronously inside the
// mutating call and must not call back into the store.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn and returns a function that removes it. Listeners
// are called in subscription order.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) emit(kind EventKind) {
	for _, sub := range s.listeners {
		sub.fn(Event{Kind: kind})
	}
}
