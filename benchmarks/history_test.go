package benchmarks

import (
	"testing"
)

// BenchmarkUndoRedo_Chain_10 measures one undo and one redo on a small scene.
func BenchmarkUndoRedo_Chain_10(b *testing.B) {
	s := buildChain(b, 10)
	h := s.History()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h.Undo()
		_ = h.Redo()
	}
}

// BenchmarkUndoRedo_Chain_100 measures one undo and one redo on a large scene.
func BenchmarkUndoRedo_Chain_100(b *testing.B) {
	s := buildChain(b, 100)
	h := s.History()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = h.Undo()
		_ = h.Redo()
	}
}

// BenchmarkUndoAll_Chain_50 walks the whole history back and forward.
func BenchmarkUndoAll_Chain_50(b *testing.B) {
	s := buildChain(b, 50)
	h := s.History()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for h.CanUndo() {
			_ = h.Undo()
		}
		for h.CanRedo() {
			_ = h.Redo()
		}
	}
}
