package nodegraph

import (
	"slices"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/event"
)

// Selection is transient: changing it is never recorded on its own, but
// every history entry remembers the selection before and after its change
// and undo or redo puts it back.

// Select adds nodes or edges to the selection. Every id must exist.
func (s *Scene) Select(ids ...ID) error {
	if err := s.begin("select"); err != nil {
		return err
	}
	defer s.end()

	for _, id := range ids {
		if !s.g.has(id) {
			return &NotFoundError{Kind: "item", ID: id}
		}
	}
	for _, id := range ids {
		if _, ok := s.selection[id]; !ok {
			s.selection[id] = struct{}{}
			s.selectionChanged()
		}
	}
	s.flush()
	return nil
}

// Deselect removes ids from the selection. Unselected ids are ignored.
func (s *Scene) Deselect(ids ...ID) error {
	if err := s.begin("deselect"); err != nil {
		return err
	}
	defer s.end()

	for _, id := range ids {
		s.deselect(id)
	}
	s.flush()
	return nil
}

// ClearSelection empties the selection.
func (s *Scene) ClearSelection() error {
	if err := s.begin("clear_selection"); err != nil {
		return err
	}
	defer s.end()

	s.setSelection(nil)
	s.flush()
	return nil
}

// Selection returns the selected ids, nodes first, each in scene order.
func (s *Scene) Selection() []ID {
	return s.selectionIDs()
}

// IsSelected reports whether id is selected.
func (s *Scene) IsSelected(id ID) bool {
	_, ok := s.selection[id]
	return ok
}

func (s *Scene) selectionIDs() []ID {
	if len(s.selection) == 0 {
		return nil
	}
	out := make([]ID, 0, len(s.selection))
	for _, id := range s.g.nodeOrder {
		if _, ok := s.selection[id]; ok {
			out = append(out, id)
		}
	}
	for _, id := range s.g.edgeOrder {
		if _, ok := s.selection[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// setSelection replaces the selection, skipping ids not in the scene.
func (s *Scene) setSelection(ids []ID) {
	next := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		if s.g.has(id) {
			next[id] = struct{}{}
		}
	}
	if !sameSet(s.selection, next) {
		s.selectionChanged()
	}
	s.selection = next
}

func (s *Scene) deselect(id ID) {
	if _, ok := s.selection[id]; !ok {
		return
	}
	delete(s.selection, id)
	s.selectionChanged()
}

// selectionChanged queues one selection event per operation.
func (s *Scene) selectionChanged() {
	if slices.ContainsFunc(s.pending, func(e event.Event) bool { return e.Kind == event.SelectionChanged }) {
		return
	}
	s.queue(event.SelectionChanged, "")
}

func sameSet(a, b map[ID]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
