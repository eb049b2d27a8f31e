package nodegraph

import (
	"context"
	"time"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/observability"
)

// entry is one recorded mutation. before and after are encoded documents;
// they are never modified once recorded and may be shared with neighbours.
type entry struct {
	description string
	timestamp   time.Time
	before      []byte
	after       []byte
	selBefore   []ID
	selAfter    []ID
}

// EntryInfo describes a history entry.
type EntryInfo struct {
	Description string
	Timestamp   time.Time
}

// History is the undo/redo stack of a scene.
//
// Entries before the cursor can be undone and entries from the cursor on can
// be redone. Recording a new entry discards the redoable ones. When a limit
// is set and reached, the oldest entry is dropped.
type History struct {
	scene   *Scene
	entries []*entry
	cursor  int
	limit   int
}

func newHistory(s *Scene, limit int) *History {
	return &History{scene: s, limit: limit}
}

// record appends e after the cursor.
func (h *History) record(e *entry) {
	h.entries = append(h.entries[:h.cursor], e)
	h.cursor++
	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		h.entries = append([]*entry(nil), h.entries[drop:]...)
		h.cursor -= drop
	}
	observability.LogHistory(h.scene.logger, "stored", h.cursor, len(h.entries))
}

// Undo restores the scene to its state before the entry behind the cursor.
// It does nothing when there is nothing to undo.
func (h *History) Undo() error {
	return h.step("undo", -1)
}

// Redo reapplies the entry at the cursor. It does nothing when there is
// nothing to redo.
func (h *History) Redo() error {
	return h.step("redo", 1)
}

func (h *History) step(op string, dir int) error {
	s := h.scene
	if err := s.begin(op); err != nil {
		return s.fail(op, err)
	}
	defer s.end()

	var err error
	switch {
	case dir < 0 && h.cursor > 0:
		e := h.entries[h.cursor-1]
		if err = s.restore(e.before, e.selBefore, e.description); err == nil {
			h.cursor--
		}
	case dir > 0 && h.cursor < len(h.entries):
		e := h.entries[h.cursor]
		if err = s.restore(e.after, e.selAfter, e.description); err == nil {
			h.cursor++
		}
	default:
		return nil
	}
	if err != nil {
		s.pending = nil
		return s.fail(op, err)
	}

	observability.LogHistory(s.logger, op, h.cursor, len(h.entries))
	s.cfg.metrics.RecordHistoryDepth(context.Background(), len(h.entries))
	s.flush()
	return nil
}

// CanUndo reports whether Undo would change the scene.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether Redo would change the scene.
func (h *History) CanRedo() bool { return h.cursor < len(h.entries) }

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the number of undoable entries.
func (h *History) Cursor() int { return h.cursor }

// Limit returns the maximum number of entries, or 0 when unbounded.
func (h *History) Limit() int { return h.limit }

// UndoDescription returns the description of the entry Undo would revert.
func (h *History) UndoDescription() (string, bool) {
	if !h.CanUndo() {
		return "", false
	}
	return h.entries[h.cursor-1].description, true
}

// RedoDescription returns the description of the entry Redo would reapply.
func (h *History) RedoDescription() (string, bool) {
	if !h.CanRedo() {
		return "", false
	}
	return h.entries[h.cursor].description, true
}

// Entries describes all entries, oldest first.
func (h *History) Entries() []EntryInfo {
	out := make([]EntryInfo, len(h.entries))
	for i, e := range h.entries {
		out[i] = EntryInfo{Description: e.description, Timestamp: e.timestamp}
	}
	return out
}

// Clear drops every entry. The scene itself is unchanged.
func (h *History) Clear() error {
	s := h.scene
	if err := s.begin("clear_history"); err != nil {
		return s.fail("clear_history", err)
	}
	defer s.end()

	h.reset()
	return nil
}

func (h *History) reset() {
	h.entries = nil
	h.cursor = 0
	observability.LogHistory(h.scene.logger, "cleared", 0, 0)
}
