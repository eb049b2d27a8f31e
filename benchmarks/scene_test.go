package benchmarks

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newScene(opts ...nodegraph.Option) *nodegraph.Scene {
	return nodegraph.NewScene(append([]nodegraph.Option{nodegraph.WithLogger(quiet)}, opts...)...)
}

func passSpec(title string) nodegraph.NodeSpec {
	return nodegraph.NodeSpec{
		Title:   title,
		Inputs:  []nodegraph.SocketDef{{}},
		Outputs: []nodegraph.SocketDef{{}},
	}
}

func nodeTitle(n int) string {
	return fmt.Sprintf("node-%d", n)
}

// buildChain returns a scene holding n nodes connected in a line.
func buildChain(b *testing.B, n int) *nodegraph.Scene {
	b.Helper()
	s := newScene(nodegraph.WithHistoryLimit(0))
	var prev *nodegraph.Node
	for i := 0; i < n; i++ {
		node, err := s.AddNode(passSpec(nodeTitle(i)))
		if err != nil {
			b.Fatal(err)
		}
		if prev != nil {
			if _, err := s.AddEdge(prev.Output(0).ID(), node.Input(0).ID()); err != nil {
				b.Fatal(err)
			}
		}
		prev = node
	}
	return s
}

// BenchmarkNewScene measures scene creation overhead.
func BenchmarkNewScene(b *testing.B) {
	for i := 0; i < b.N; i++ {
		newScene()
	}
}

// BenchmarkAddNode measures adding one node to an empty scene.
func BenchmarkAddNode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := newScene()
		_, _ = s.AddNode(passSpec("node"))
	}
}

// BenchmarkAddNode_100 measures adding 100 nodes; each add snapshots the
// growing scene.
func BenchmarkAddNode_100(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := newScene()
		for j := 0; j < 100; j++ {
			_, _ = s.AddNode(passSpec(nodeTitle(j)))
		}
	}
}

// BenchmarkAddEdge_Chain_10 builds a 10-node chain.
func BenchmarkAddEdge_Chain_10(b *testing.B) {
	for i := 0; i < b.N; i++ {
		buildChain(b, 10)
	}
}

// BenchmarkMoveNode_Chain_100 measures a small edit on a large scene.
func BenchmarkMoveNode_Chain_100(b *testing.B) {
	s := buildChain(b, 100)
	id := s.Nodes()[50].ID()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.MoveNode(id, nodegraph.Point{X: float64(i)})
	}
}

// BenchmarkSerialize_Chain_100 measures encoding a 100-node scene.
func BenchmarkSerialize_Chain_100(b *testing.B) {
	s := buildChain(b, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Serialize()
	}
}

// BenchmarkDeserialize_Chain_100 measures loading a 100-node document.
func BenchmarkDeserialize_Chain_100(b *testing.B) {
	doc, err := buildChain(b, 100).Serialize()
	if err != nil {
		b.Fatal(err)
	}
	s := newScene()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Deserialize(doc)
	}
}

// BenchmarkPaste_Chain_10 measures pasting a 10-node fragment.
func BenchmarkPaste_Chain_10(b *testing.B) {
	src := buildChain(b, 10)
	ids := make([]nodegraph.ID, 0, 10)
	for _, n := range src.Nodes() {
		ids = append(ids, n.ID())
	}
	frag, err := src.Copy(ids...)
	if err != nil {
		b.Fatal(err)
	}

	s := newScene(nodegraph.WithHistoryLimit(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Paste(frag, nodegraph.Point{X: 10})
	}
}
