package nodegraph

import (
	"encoding/json"
	"slices"
)

// graph is the node, edge and socket state of a scene plus the indexes that
// keep lookups constant time. Every method assumes its arguments were
// validated by the caller.
type graph struct {
	ids *IDRegistry

	nodes     map[ID]*Node
	nodeOrder []ID
	edges     map[ID]*Edge
	edgeOrder []ID

	sockets map[ID]*Socket
	// links maps a socket to its edges in connection order.
	links map[ID][]ID
}

func newGraph() *graph {
	return &graph{
		ids:     NewIDRegistry(),
		nodes:   make(map[ID]*Node),
		edges:   make(map[ID]*Edge),
		sockets: make(map[ID]*Socket),
		links:   make(map[ID][]ID),
	}
}

// insertNode adds n and its sockets. Their ids must already be registered.
func (g *graph) insertNode(n *Node) {
	g.nodes[n.id] = n
	g.nodeOrder = append(g.nodeOrder, n.id)
	for _, s := range n.Sockets() {
		g.sockets[s.id] = s
	}
}

// deleteNode removes n and its sockets and releases their ids.
// n must have no edges.
func (g *graph) deleteNode(id ID) {
	n := g.nodes[id]
	for _, s := range n.Sockets() {
		delete(g.sockets, s.id)
		delete(g.links, s.id)
		g.ids.Release(s.id)
	}
	delete(g.nodes, id)
	g.nodeOrder = remove(g.nodeOrder, id)
	g.ids.Release(id)
}

// insertEdge adds e. Its id must already be registered.
func (g *graph) insertEdge(e *Edge) {
	g.edges[e.id] = e
	g.edgeOrder = append(g.edgeOrder, e.id)
	g.links[e.source] = append(g.links[e.source], e.id)
	g.links[e.target] = append(g.links[e.target], e.id)
}

// deleteEdge removes e and releases its id.
func (g *graph) deleteEdge(id ID) {
	e := g.edges[id]
	g.unlink(e.source, id)
	g.unlink(e.target, id)
	delete(g.edges, id)
	g.edgeOrder = remove(g.edgeOrder, id)
	g.ids.Release(id)
}

func (g *graph) unlink(socketID, edgeID ID) {
	rest := remove(g.links[socketID], edgeID)
	if len(rest) == 0 {
		delete(g.links, socketID)
		return
	}
	g.links[socketID] = rest
}

// connected reports whether an edge already runs from source to target.
func (g *graph) connected(source, target ID) bool {
	for _, id := range g.links[source] {
		if g.edges[id].target == target {
			return true
		}
	}
	return false
}

// incident returns the ids of the edges touching any socket of the given
// nodes, in scene order.
func (g *graph) incident(nodeIDs map[ID]bool) []ID {
	var out []ID
	for _, id := range g.edgeOrder {
		e := g.edges[id]
		if nodeIDs[g.sockets[e.source].nodeID] || nodeIDs[g.sockets[e.target].nodeID] {
			out = append(out, id)
		}
	}
	return out
}

func (g *graph) orderedNodes() []*Node {
	out := make([]*Node, len(g.nodeOrder))
	for i, id := range g.nodeOrder {
		out[i] = g.nodes[id]
	}
	return out
}

func (g *graph) orderedEdges() []*Edge {
	out := make([]*Edge, len(g.edgeOrder))
	for i, id := range g.edgeOrder {
		out[i] = g.edges[id]
	}
	return out
}

// has reports whether id names a node or an edge.
func (g *graph) has(id ID) bool {
	_, isNode := g.nodes[id]
	_, isEdge := g.edges[id]
	return isNode || isEdge
}

func remove(ids []ID, id ID) []ID {
	i := slices.Index(ids, id)
	if i < 0 {
		return ids
	}
	return slices.Delete(ids, i, i+1)
}

func cloneExtra(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}
