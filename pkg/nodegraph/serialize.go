package nodegraph

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/content"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/document"
)

// encodeGraph converts g into a document. Node and edge order follow
// insertion order so that equal scenes encode to equal bytes.
func encodeGraph(g *graph, sceneID ID, extra map[string]json.RawMessage) (*document.Document, error) {
	doc := document.New(sceneID)
	doc.Extra = cloneExtra(extra)
	for _, n := range g.orderedNodes() {
		dn, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, dn)
	}
	for _, e := range g.orderedEdges() {
		doc.Edges = append(doc.Edges, encodeEdge(e))
	}
	return doc, nil
}

func encodeNode(n *Node) (document.Node, error) {
	dn := document.Node{
		ID:      n.id,
		Title:   n.title,
		X:       n.pos.X,
		Y:       n.pos.Y,
		Inputs:  encodeSockets(n.inputs),
		Outputs: encodeSockets(n.outputs),
		Extra:   cloneExtra(n.extra),
	}
	typeName, data, err := content.Encode(n.content)
	if err != nil {
		return document.Node{}, fmt.Errorf("node %s: %w", n.id, err)
	}
	if typeName != "" {
		dn.Content = &document.Content{Type: typeName, Data: data}
	}
	return dn, nil
}

func encodeSockets(sockets []*Socket) []document.Socket {
	out := make([]document.Socket, len(sockets))
	for i, s := range sockets {
		out[i] = document.Socket{
			ID:             s.id,
			Index:          s.index,
			SocketType:     s.socketType,
			MaxConnections: s.maxConnections,
			Extra:          cloneExtra(s.extra),
		}
	}
	return out
}

func encodeEdge(e *Edge) document.Edge {
	return document.Edge{
		ID:       e.id,
		EdgeType: int(e.edgeType),
		Start:    e.source,
		End:      e.target,
		Extra:    cloneExtra(e.extra),
	}
}

// builder turns documents into graphs, checking every reference on the way.
// It never touches a scene; callers swap the result in only on success.
type builder struct {
	sceneID   ID
	registry  *content.Registry
	inputCap  int
	outputCap int
}

func (s *Scene) builder(sceneID ID) builder {
	return builder{
		sceneID:   sceneID,
		registry:  s.cfg.registry,
		inputCap:  s.cfg.inputCap,
		outputCap: s.cfg.outputCap,
	}
}

// build returns a new graph holding doc.
func (b builder) build(doc *document.Document) (*graph, error) {
	g := newGraph()
	for i := range doc.Nodes {
		if err := b.addNode(g, &doc.Nodes[i], i); err != nil {
			return nil, err
		}
	}
	for i := range doc.Edges {
		if err := b.addEdge(g, &doc.Edges[i], i); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (b builder) addNode(g *graph, dn *document.Node, pos int) error {
	if dn.ID == "" {
		return malformed(nil, "node at position %d has no id", pos)
	}
	if err := g.ids.Reserve(dn.ID); err != nil {
		return malformed(err, "node %s", dn.ID)
	}

	n := &Node{
		id:      dn.ID,
		sceneID: b.sceneID,
		title:   dn.Title,
		pos:     Point{X: dn.X, Y: dn.Y},
		extra:   cloneExtra(dn.Extra),
	}
	if !n.pos.finite() {
		return malformed(&InvalidPositionError{Pos: n.pos}, "node %s", dn.ID)
	}

	var err error
	if n.inputs, err = b.sockets(g, n, Input, dn.Inputs); err != nil {
		return err
	}
	if n.outputs, err = b.sockets(g, n, Output, dn.Outputs); err != nil {
		return err
	}

	if dn.Content != nil {
		c, err := b.registry.Decode(dn.Content.Type, dn.Content.Data)
		if err != nil {
			return malformed(err, "node %s content", dn.ID)
		}
		n.content = c
	}

	g.insertNode(n)
	return nil
}

func (b builder) sockets(g *graph, n *Node, kind SocketKind, defs []document.Socket) ([]*Socket, error) {
	def := b.inputCap
	if kind == Output {
		def = b.outputCap
	}

	out := make([]*Socket, 0, len(defs))
	for i, ds := range defs {
		if ds.ID == "" {
			return nil, malformed(nil, "node %s %s %d has no id", n.id, kind, i)
		}
		if err := g.ids.Reserve(ds.ID); err != nil {
			return nil, malformed(err, "node %s socket %s", n.id, ds.ID)
		}
		if ds.Index != i {
			return nil, malformed(nil, "socket %s has index %d at position %d", ds.ID, ds.Index, i)
		}
		if ds.MaxConnections < Unlimited {
			return nil, malformed(nil, "socket %s has max_connections %d", ds.ID, ds.MaxConnections)
		}
		capacity := ds.MaxConnections
		if capacity == 0 {
			c, err := multiEdgesCapacity(ds)
			if err != nil {
				return nil, err
			}
			capacity = c
		}
		out = append(out, &Socket{
			id:             ds.ID,
			nodeID:         n.id,
			index:          i,
			kind:           kind,
			socketType:     ds.SocketType,
			maxConnections: normalizeCapacity(capacity, def),
			extra:          cloneExtra(ds.Extra),
		})
	}
	return out, nil
}

// multiEdgesKey is the older boolean form of max_connections. It is read only
// when max_connections is absent and stays in the socket's extra fields.
const multiEdgesKey = "multi_edges"

// multiEdgesCapacity maps multi_edges to a capacity: true is Unlimited, false
// is a single connection. Zero means the key is absent.
func multiEdgesCapacity(ds document.Socket) (int, error) {
	raw, ok := ds.Extra[multiEdgesKey]
	if !ok {
		return 0, nil
	}
	var multi bool
	if err := json.Unmarshal(raw, &multi); err != nil {
		return 0, malformed(err, "socket %s has non-boolean %s", ds.ID, multiEdgesKey)
	}
	if multi {
		return Unlimited, nil
	}
	return 1, nil
}

func (b builder) addEdge(g *graph, de *document.Edge, pos int) error {
	if de.ID == "" {
		return malformed(nil, "edge at position %d has no id", pos)
	}
	if err := g.ids.Reserve(de.ID); err != nil {
		return malformed(err, "edge %s", de.ID)
	}

	src, ok := g.sockets[de.Start]
	if !ok {
		return malformed(nil, "edge %s references unknown socket %q", de.ID, de.Start)
	}
	tgt, ok := g.sockets[de.End]
	if !ok {
		return malformed(nil, "edge %s references unknown socket %q", de.ID, de.End)
	}
	if src.kind != Output {
		return malformed(&KindMismatchError{SocketID: src.id, Want: Output, Got: src.kind}, "edge %s", de.ID)
	}
	if tgt.kind != Input {
		return malformed(&KindMismatchError{SocketID: tgt.id, Want: Input, Got: tgt.kind}, "edge %s", de.ID)
	}
	if g.connected(src.id, tgt.id) {
		return malformed(nil, "edge %s repeats the connection %s -> %s", de.ID, src.id, tgt.id)
	}
	for _, sock := range []*Socket{src, tgt} {
		if !sock.accepts(len(g.links[sock.id])) {
			return malformed(&CapacityExceededError{SocketID: sock.id, Max: sock.maxConnections}, "edge %s", de.ID)
		}
	}

	g.insertEdge(&Edge{
		id:       de.ID,
		sceneID:  b.sceneID,
		source:   src.id,
		target:   tgt.id,
		edgeType: normalizeEdgeType(EdgeType(de.EdgeType)),
		extra:    cloneExtra(de.Extra),
	})
	return nil
}
