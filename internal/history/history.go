// Package history keeps a linear undo/redo timeline of table snapshots.
package history

import "seating-planner/internal/models"

// History is a timeline of snapshots with a cursor. Every entry is a complete
// table collection. The zero value is not usable; call New.
//
// History trusts its input: validity of a snapshot is the responsibility of
// the code that produced it.
type History struct {
	timeline []models.Tables
	index    int
}

// New starts a timeline holding only initial.
func New(initial models.Tables) *History {
	return &History{timeline: []models.Tables{initial.Clone()}}
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() models.Tables {
	return h.timeline[h.index].Clone()
}

// Commit appends next after the cursor, dropping any redo entries. A
// snapshot equal to the current one is ignored. It reports whether the
// timeline changed.
func (h *History) Commit(next models.Tables) bool {
	if next.Equal(h.timeline[h.index]) {
		return false
	}
	h.timeline = append(h.timeline[:h.index+1:h.index+1], next.Clone())
	h.index++
	return true
}

// Undo moves the cursor one step back. It reports whether it moved.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.index--
	return true
}

// Redo moves the cursor one step forward. It reports whether it moved.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.index++
	return true
}

// Reset replaces the whole timeline with a single baseline entry.
func (h *History) Reset(baseline models.Tables) {
	h.timeline = []models.Tables{baseline.Clone()}
	h.index = 0
}

// Rewrite applies fn to every entry of the timeline, as needed when data the
// snapshots refer to goes away. Neighbouring entries that become equal are
// merged and the cursor stays on the entry it pointed at.
func (h *History) Rewrite(fn func(models.Tables) models.Tables) {
	timeline := make([]models.Tables, 0, len(h.timeline))
	index := 0
	for i, entry := range h.timeline {
		next := fn(entry.Clone())
		if n := len(timeline); n == 0 || !next.Equal(timeline[n-1]) {
			timeline = append(timeline, next)
		}
		if i == h.index {
			index = len(timeline) - 1
		}
	}
	h.timeline = timeline
	h.index = index
}

// CanUndo reports whether Undo would move.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether Redo would move.
func (h *History) CanRedo() bool {
	return h.index < len(h.timeline)-1
}

// Len returns the number of timeline entries.
func (h *History) Len() int {
	return len(h.timeline)
}

// Index returns the cursor position.
func (h *History) Index() int {
	return h.index
}
