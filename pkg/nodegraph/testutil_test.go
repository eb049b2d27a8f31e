package nodegraph

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/content"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/document"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/event"
)

// Test content types used across tests

// value is a registered content type holding a number.
type value struct {
	N float64 `json:"n"`
}

func (v *value) ContentType() string { return "test.value" }

func (v *value) MarshalContent() (json.RawMessage, error) { return json.Marshal(v) }

func (v *value) UnmarshalContent(data json.RawMessage) error { return json.Unmarshal(data, v) }

// failing cannot be encoded.
type failing struct{}

func (failing) ContentType() string { return "test.failing" }

func (failing) MarshalContent() (json.RawMessage, error) { return nil, errors.New("cannot encode") }

func (failing) UnmarshalContent(json.RawMessage) error { return errors.New("cannot decode") }

func testRegistry() *content.Registry {
	r := content.NewRegistry()
	r.MustRegister("test.value", func() content.Content { return &value{} })
	return r
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestScene returns a scene with logging discarded.
func newTestScene(opts ...Option) *Scene {
	opts = append([]Option{WithLogger(quietLogger()), WithContentRegistry(testRegistry())}, opts...)
	return NewScene(opts...)
}

// addPassNode adds a node with one input and one output.
func addPassNode(t *testing.T, s *Scene, title string) *Node {
	t.Helper()
	n, err := s.AddNode(NodeSpec{
		Title:   title,
		Inputs:  []SocketDef{{}},
		Outputs: []SocketDef{{}},
	})
	require.NoError(t, err)
	return n
}

// connect links the first output of a to the first input of b.
func connect(t *testing.T, s *Scene, a, b *Node) *Edge {
	t.Helper()
	e, err := s.AddEdge(a.Output(0).ID(), b.Input(0).ID())
	require.NoError(t, err)
	return e
}

// state encodes the scene for equality checks.
func state(t *testing.T, s *Scene) string {
	t.Helper()
	doc, err := s.Serialize()
	require.NoError(t, err)
	data, err := document.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

// withoutEdgeIDs replaces the given edge ids in an encoded state so that
// states reached through different edges can be compared.
func withoutEdgeIDs(t *testing.T, encoded string, ids ...ID) string {
	t.Helper()
	for _, id := range ids {
		require.Contains(t, encoded, string(id))
		encoded = strings.ReplaceAll(encoded, string(id), "edge")
	}
	return encoded
}

// requireValid fails the test if the scene invariants do not hold.
func requireValid(t *testing.T, s *Scene) {
	t.Helper()
	require.NoError(t, s.Validate())
}

// recorder collects published events.
type recorder struct {
	events []event.Event
}

func record(s *Scene) *recorder {
	r := &recorder{}
	s.Events().SubscribeAll(func(e event.Event) { r.events = append(r.events, e) })
	return r
}

func (r *recorder) kinds() []event.Kind {
	out := make([]event.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

func (r *recorder) items(kind event.Kind) []string {
	var out []string
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e.ItemID)
		}
	}
	return out
}

func (r *recorder) reset() { r.events = nil }
