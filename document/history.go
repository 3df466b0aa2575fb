package document

import "notemap/snapshot"

// History is a linear undo stack of snapshots. states[:current+1] is the
// undo stack with the live state on top; states[current+1:] are redoable.
type History struct {
	states  []*snapshot.Snapshot
	current int
	max     int
}

// NewHistory creates a history keeping at most max states. Zero or a
// negative max keeps every state.
func NewHistory(max int) *History {
	if max < 0 {
		max = 0
	}
	return &History{current: -1, max: max}
}

// Push records s as the new live state and drops anything redoable.
func (h *History) Push(s *snapshot.Snapshot) {
	if h.current < len(h.states)-1 {
		clear(h.states[h.current+1:])
		h.states = h.states[:h.current+1]
	}
	h.states = append(h.states, s.Clone())

	if h.max > 0 && len(h.states) > h.max {
		h.states = h.states[len(h.states)-h.max:]
	}
	h.current = len(h.states) - 1
}

// CanUndo reports whether a state older than the live one exists.
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo reports whether an undone state can be reapplied.
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo steps back and returns the state to restore, or nil.
func (h *History) Undo() *snapshot.Snapshot {
	if !h.CanUndo() {
		return nil
	}
	h.current--
	return h.states[h.current].Clone()
}

// Redo steps forward and returns the state to restore, or nil.
func (h *History) Redo() *snapshot.Snapshot {
	if !h.CanRedo() {
		return nil
	}
	h.current++
	return h.states[h.current].Clone()
}

// Current returns a copy of the live state, or nil before the first Push.
func (h *History) Current() *snapshot.Snapshot {
	if h.current < 0 {
		return nil
	}
	return h.states[h.current].Clone()
}

// Clear drops every state.
func (h *History) Clear() {
	clear(h.states)
	h.states = h.states[:0]
	h.current = -1
}

// Stats returns the undo depth and the total number of states kept.
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
