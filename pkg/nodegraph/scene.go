package nodegraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/document"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/event"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/observability"
)

// Scene owns the nodes and edges of one graph and is the only way to change
// them. Every mutation is validated before anything changes, recorded as one
// history entry and announced on the event hub once fully applied.
//
// A Scene is used from a single goroutine and does no locking. Starting an
// operation from inside an event handler of another operation fails with a
// *ReentrancyError.
type Scene struct {
	cfg    sceneConfig
	id     ID
	extra  map[string]json.RawMessage
	g      *graph
	logger *slog.Logger

	hub     *event.Hub
	history *History

	selection map[ID]struct{}
	modified  bool
	busy      bool
	disposed  bool
	pending   []event.Event

	// disposeDue is set when Dispose is called while busy.
	disposeDue bool

	// baseline is the encoded graph as of the last committed change.
	baseline []byte
}

// NewScene creates an empty scene.
//
// Example:
//
//	scene := nodegraph.NewScene(
//	    nodegraph.WithHistoryLimit(100),
//	    nodegraph.WithEdgeValidator(nodegraph.ForbidSelfLoops),
//	)
func NewScene(opts ...Option) *Scene {
	cfg := defaultSceneConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = ID(uuid.NewString())
	}

	s := &Scene{
		cfg:       cfg,
		id:        cfg.id,
		g:         newGraph(),
		hub:       event.NewHub(),
		selection: make(map[ID]struct{}),
	}
	s.history = newHistory(s, cfg.historyLimit)
	s.setLogger()
	s.baseline, _ = s.encodeState()
	return s
}

// ID returns the scene id.
func (s *Scene) ID() ID { return s.id }

// Events returns the hub the scene publishes on.
func (s *Scene) Events() *event.Hub { return s.hub }

// History returns the undo history.
func (s *Scene) History() *History { return s.history }

// Modified reports whether the scene changed since it was created, loaded or
// last marked saved.
func (s *Scene) Modified() bool { return s.modified }

// Disposed reports whether Dispose has been called.
func (s *Scene) Disposed() bool { return s.disposed }

// Node returns the node with the given id.
func (s *Scene) Node(id ID) (*Node, bool) {
	n, ok := s.g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given id.
func (s *Scene) Edge(id ID) (*Edge, bool) {
	e, ok := s.g.edges[id]
	return e, ok
}

// Socket returns the socket with the given id.
func (s *Scene) Socket(id ID) (*Socket, bool) {
	sock, ok := s.g.sockets[id]
	return sock, ok
}

// Nodes returns all nodes in insertion order.
func (s *Scene) Nodes() []*Node { return s.g.orderedNodes() }

// Edges returns all edges in insertion order.
func (s *Scene) Edges() []*Edge { return s.g.orderedEdges() }

// NodeCount returns the number of nodes.
func (s *Scene) NodeCount() int { return len(s.g.nodes) }

// EdgeCount returns the number of edges.
func (s *Scene) EdgeCount() int { return len(s.g.edges) }

// EdgesAt returns the edges attached to a socket, in connection order.
func (s *Scene) EdgesAt(socketID ID) []*Edge {
	ids := s.g.links[socketID]
	out := make([]*Edge, len(ids))
	for i, id := range ids {
		out[i] = s.g.edges[id]
	}
	return out
}

// HasID reports whether id is in use by a node, socket or edge.
func (s *Scene) HasID(id ID) bool { return s.g.ids.Has(id) }

// AddHasBeenModifiedListener registers fn to be called with the new flag
// whenever the scene becomes modified, when it is marked saved and when a
// load clears a modified scene.
func (s *Scene) AddHasBeenModifiedListener(fn func(modified bool)) event.Subscription {
	return s.hub.Subscribe([]event.Kind{event.Modified}, func(e event.Event) {
		fn(e.Modified)
	})
}

// MarkSaved clears the modified flag and notifies modified listeners.
func (s *Scene) MarkSaved() error {
	if err := s.begin("mark_saved"); err != nil {
		return err
	}
	defer s.end()

	s.modified = false
	s.queue(event.Modified, "")
	s.flush()
	return nil
}

// Serialize returns the scene as a document. Selection and the modified
// flag are not part of it.
func (s *Scene) Serialize() (*document.Document, error) {
	return encodeGraph(s.g, s.id, s.extra)
}

// Deserialize replaces the scene contents with doc. The whole document is
// checked first; on error the scene is left exactly as it was.
//
// Loading defines a new baseline: history and selection are cleared and
// the scene is not modified afterwards. A non-empty doc.ID becomes the
// scene id.
func (s *Scene) Deserialize(doc *document.Document) error {
	return s.load("deserialize", doc)
}

// Reset empties the scene and starts a new baseline, as if an empty
// document had been loaded.
func (s *Scene) Reset() error {
	return s.load("reset", document.New(s.id))
}

// Dispose releases the scene. Every later mutation, undo or redo fails with
// ErrDisposed. Subscriptions are dropped. Calling Dispose twice is harmless.
//
// Called from an event handler, Dispose takes effect once the operation that
// published the event returns. The operation still succeeds and the remaining
// handlers still see its result.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	if s.busy {
		s.disposeDue = true
		return
	}
	s.disposeDue = false
	s.disposed = true
	s.hub.Clear()
	s.history.reset()
	s.g = newGraph()
	s.selection = make(map[ID]struct{})
	s.pending = nil
	s.logger.Debug("scene disposed")
}

func (s *Scene) load(op string, doc *document.Document) error {
	if err := s.begin(op); err != nil {
		return s.fail(op, err)
	}
	defer s.end()

	if doc == nil {
		return s.fail(op, malformed(nil, "nil document"))
	}
	if doc.Version > document.Version {
		s.logger.Warn("document version is newer than supported, loading known fields",
			slog.Int("version", doc.Version),
			slog.Int("supported", document.Version),
		)
	}

	sceneID := s.id
	if doc.ID != "" {
		sceneID = doc.ID
	}
	g, err := s.builder(sceneID).build(doc)
	if err != nil {
		return s.fail(op, err)
	}
	encoded, err := encodeGraph(g, sceneID, doc.Extra)
	if err != nil {
		return s.fail(op, err)
	}
	data, err := document.Marshal(encoded)
	if err != nil {
		return s.fail(op, err)
	}

	s.id = sceneID
	s.extra = cloneExtra(doc.Extra)
	s.g = g
	s.baseline = data
	s.selection = make(map[ID]struct{})
	s.history.reset()
	s.setLogger()

	if s.modified {
		s.modified = false
		s.queue(event.Modified, "")
	}
	s.queue(event.Loaded, "")

	observability.LogDocument(s.logger, "loaded", string(s.id), len(g.nodes), len(g.edges), len(data))
	s.flush()
	return nil
}

// edit runs fn as one recorded mutation. fn must check everything that can
// fail before it changes the graph; when it returns an error the scene is
// untouched. Mutations that leave the encoded graph unchanged record nothing.
func (s *Scene) edit(op, desc string, fn func() error) error {
	if err := s.begin(op); err != nil {
		return s.fail(op, err)
	}
	defer s.end()

	done := observability.TimedOperation()
	selBefore := s.selectionIDs()

	if err := fn(); err != nil {
		s.pending = nil
		return s.fail(op, err)
	}

	after, err := s.encodeState()
	if err != nil {
		s.rollback(selBefore)
		return s.fail(op, err)
	}
	if bytes.Equal(after, s.baseline) {
		// Nothing to record. A selection change still gets announced.
		s.pending = slices.DeleteFunc(s.pending, func(e event.Event) bool {
			return e.Kind != event.SelectionChanged
		})
		s.flush()
		return nil
	}

	s.history.record(&entry{
		description: desc,
		timestamp:   time.Now().UTC(),
		before:      s.baseline,
		after:       after,
		selBefore:   selBefore,
		selAfter:    s.selectionIDs(),
	})
	s.baseline = after
	s.markModified()
	s.queueDescribed(event.HistoryStored, desc)

	durationMs := done()
	var itemID string
	if len(s.pending) > 0 {
		itemID = s.pending[0].ItemID
	}
	s.cfg.metrics.RecordMutation(context.Background(), op, time.Duration(durationMs*float64(time.Millisecond)), nil)
	s.cfg.metrics.RecordHistoryDepth(context.Background(), s.history.Len())
	observability.LogMutation(s.logger, op, itemID, durationMs)

	s.flush()
	return nil
}

// restore replaces the graph with an encoded state from history.
func (s *Scene) restore(data []byte, sel []ID, desc string) error {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("restore %q: %w", desc, err)
	}
	g, err := s.builder(s.id).build(doc)
	if err != nil {
		return fmt.Errorf("restore %q: %w", desc, err)
	}

	s.queueDiff(s.g, g)
	s.g = g
	s.baseline = data
	s.setSelection(sel)
	s.markModified()
	s.queueDescribed(event.HistoryRestored, desc)
	return nil
}

// rollback rebuilds the graph from the last committed state. It runs only
// when content that encoded during validation fails to encode afterwards.
func (s *Scene) rollback(sel []ID) {
	s.pending = nil
	doc, err := document.Unmarshal(s.baseline)
	if err == nil {
		var g *graph
		if g, err = s.builder(s.id).build(doc); err == nil {
			s.g = g
		}
	}
	if err != nil {
		s.logger.Error("rollback failed", slog.String("error", err.Error()))
	}
	s.selection = make(map[ID]struct{}, len(sel))
	for _, id := range sel {
		if s.g.has(id) {
			s.selection[id] = struct{}{}
		}
	}
}

func (s *Scene) encodeState() ([]byte, error) {
	doc, err := encodeGraph(s.g, s.id, s.extra)
	if err != nil {
		return nil, err
	}
	return document.Marshal(doc)
}

func (s *Scene) begin(op string) error {
	if err := s.idle(op); err != nil {
		return err
	}
	s.busy = true
	return nil
}

// idle reports whether op may start now.
func (s *Scene) idle(op string) error {
	if s.disposed {
		return ErrDisposed
	}
	if s.busy {
		return &ReentrancyError{Op: op}
	}
	return nil
}

func (s *Scene) end() {
	s.pending = nil
	s.busy = false
	if s.disposeDue {
		s.Dispose()
	}
}

func (s *Scene) fail(op string, err error) error {
	observability.LogMutationError(s.logger, op, "", err)
	s.cfg.metrics.RecordMutation(context.Background(), op, 0, err)
	return err
}

func (s *Scene) queue(kind event.Kind, itemID ID) {
	s.pending = append(s.pending, event.Event{
		Kind:    kind,
		SceneID: string(s.id),
		ItemID:  string(itemID),
	})
}

func (s *Scene) queueDescribed(kind event.Kind, desc string) {
	s.pending = append(s.pending, event.Event{
		Kind:        kind,
		SceneID:     string(s.id),
		Description: desc,
	})
}

// flush delivers queued events. The scene stays busy until it returns.
func (s *Scene) flush() {
	events := s.pending
	s.pending = nil
	for _, e := range events {
		e.Modified = s.modified
		s.hub.Publish(e)
	}
}

func (s *Scene) markModified() {
	if !s.modified {
		s.modified = true
		s.queue(event.Modified, "")
	}
}

// queueDiff queues the item events that turn old into next.
func (s *Scene) queueDiff(old, next *graph) {
	sameEdge := func(a, b *Edge) bool {
		return a.source == b.source && a.target == b.target && a.edgeType == b.edgeType
	}
	for _, id := range old.edgeOrder {
		if ne, ok := next.edges[id]; !ok || !sameEdge(old.edges[id], ne) {
			s.queue(event.EdgeRemoved, id)
		}
	}
	for _, id := range old.nodeOrder {
		if _, ok := next.nodes[id]; !ok {
			s.queue(event.NodeRemoved, id)
		}
	}
	for _, id := range next.nodeOrder {
		on, ok := old.nodes[id]
		switch {
		case !ok:
			s.queue(event.NodeAdded, id)
		case !sameNode(on, next.nodes[id]):
			s.queue(event.NodeUpdated, id)
		}
	}
	for _, id := range next.edgeOrder {
		if oe, ok := old.edges[id]; !ok || !sameEdge(oe, next.edges[id]) {
			s.queue(event.EdgeAdded, id)
		}
	}
}

func sameNode(a, b *Node) bool {
	da, errA := encodeNode(a)
	db, errB := encodeNode(b)
	return errA == nil && errB == nil && reflect.DeepEqual(da, db)
}

func (s *Scene) setLogger() {
	base := s.cfg.logger
	if base == nil {
		base = slog.Default()
	}
	s.logger = observability.EnrichLogger(base, string(s.id))
}

// Validate checks the internal invariants of the scene: every edge runs
// from an output socket to an input socket of nodes in the scene, socket
// limits hold and the indexes agree with each other.
func (s *Scene) Validate() error {
	g := s.g
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...))
	}

	if len(g.nodeOrder) != len(g.nodes) || len(g.edgeOrder) != len(g.edges) {
		return fail("order lists out of sync")
	}

	ids := 0
	for _, n := range g.orderedNodes() {
		if n == nil {
			return fail("order list names a missing node")
		}
		ids++
		for i, sock := range n.inputs {
			if sock.nodeID != n.id || sock.kind != Input || sock.index != i || g.sockets[sock.id] != sock {
				return fail("input %d of node %s is not indexed correctly", i, n.id)
			}
		}
		for i, sock := range n.outputs {
			if sock.nodeID != n.id || sock.kind != Output || sock.index != i || g.sockets[sock.id] != sock {
				return fail("output %d of node %s is not indexed correctly", i, n.id)
			}
		}
		ids += len(n.inputs) + len(n.outputs)
	}
	if ids != len(g.nodes)+len(g.sockets) {
		return fail("socket index holds sockets of removed nodes")
	}

	for _, e := range g.orderedEdges() {
		if e == nil {
			return fail("order list names a missing edge")
		}
		ids++
		src, okS := g.sockets[e.source]
		tgt, okT := g.sockets[e.target]
		if !okS || !okT {
			return fail("edge %s has a dangling endpoint", e.id)
		}
		if src.kind != Output || tgt.kind != Input {
			return fail("edge %s runs %s -> %s", e.id, src.kind, tgt.kind)
		}
		if !slices.Contains(g.links[src.id], e.id) || !slices.Contains(g.links[tgt.id], e.id) {
			return fail("edge %s missing from socket links", e.id)
		}
	}

	for sockID, edges := range g.links {
		sock, ok := g.sockets[sockID]
		if !ok {
			return fail("links held for unknown socket %s", sockID)
		}
		if sock.maxConnections != Unlimited && len(edges) > sock.maxConnections {
			return fail("socket %s has %d edges, limit %d", sockID, len(edges), sock.maxConnections)
		}
		for _, id := range edges {
			if _, ok := g.edges[id]; !ok {
				return fail("socket %s links unknown edge %s", sockID, id)
			}
		}
	}

	if ids != g.ids.Len() {
		return fail("id registry holds %d ids, scene uses %d", g.ids.Len(), ids)
	}
	for id := range s.selection {
		if !g.has(id) {
			return fail("selection holds unknown item %s", id)
		}
	}
	return nil
}
