package nodegraph

import (
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/content"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/event"
)

// AddNode creates a node with fresh ids for it and its sockets.
// It fails when the scene is disposed, the call is reentrant, the position is
// not finite (*InvalidPositionError) or the content cannot be encoded.
func (s *Scene) AddNode(spec NodeSpec) (*Node, error) {
	var n *Node
	err := s.edit("add_node", "Add node", func() error {
		if err := checkPosition(spec.Position); err != nil {
			return err
		}
		if _, _, err := content.Encode(spec.Content); err != nil {
			return err
		}
		n = s.newNode(spec)
		s.g.insertNode(n)
		s.queue(event.NodeAdded, n.id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Scene) newNode(spec NodeSpec) *Node {
	n := &Node{
		id:      s.g.ids.Allocate(),
		sceneID: s.id,
		title:   spec.Title,
		pos:     spec.Position,
		content: spec.Content,
	}
	n.inputs = s.newSockets(n.id, Input, spec.Inputs, s.cfg.inputCap)
	n.outputs = s.newSockets(n.id, Output, spec.Outputs, s.cfg.outputCap)
	return n
}

func (s *Scene) newSockets(nodeID ID, kind SocketKind, defs []SocketDef, def int) []*Socket {
	out := make([]*Socket, len(defs))
	for i, d := range defs {
		out[i] = &Socket{
			id:             s.g.ids.Allocate(),
			nodeID:         nodeID,
			index:          i,
			kind:           kind,
			socketType:     d.Type,
			maxConnections: normalizeCapacity(d.MaxConnections, def),
		}
	}
	return out
}

// RemoveNode removes a node and every edge attached to its sockets as one
// history entry.
func (s *Scene) RemoveNode(id ID) error {
	return s.edit("remove_node", "Remove node", func() error {
		if _, ok := s.g.nodes[id]; !ok {
			return &NotFoundError{Kind: "node", ID: id}
		}
		s.removeNodes([]ID{id})
		return nil
	})
}

// AddEdge connects an output socket to an input socket with a Bezier edge.
// See AddEdgeOfType.
func (s *Scene) AddEdge(source, target ID) (*Edge, error) {
	return s.AddEdgeOfType(source, target, Bezier)
}

// AddEdgeOfType connects the output socket source to the input socket target.
//
// Checks run in this order: both sockets exist (*InvalidEndpointError),
// source is an output and target an input (*KindMismatchError), the pair is
// not already connected (*InvalidEndpointError), every edge validator
// accepts (*InvalidEndpointError), both sockets have room
// (*CapacityExceededError).
//
// A full socket with a limit of exactly one is freed first under
// ReplaceOnConnect: its edge is removed in the same history entry, so a single
// undo restores it. Under RejectOnConnect, or with a larger limit, a full
// socket fails the call.
func (s *Scene) AddEdgeOfType(source, target ID, t EdgeType) (*Edge, error) {
	var e *Edge
	err := s.edit("add_edge", "Connect", func() error {
		replaced, err := s.checkConnect(source, target)
		if err != nil {
			return err
		}
		for _, id := range replaced {
			s.removeEdge(id)
		}
		e = &Edge{
			id:       s.g.ids.Allocate(),
			sceneID:  s.id,
			source:   source,
			target:   target,
			edgeType: normalizeEdgeType(t),
		}
		s.g.insertEdge(e)
		s.queue(event.EdgeAdded, e.id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// checkConnect validates a new edge and returns the edges it replaces.
func (s *Scene) checkConnect(source, target ID) ([]ID, error) {
	src, ok := s.g.sockets[source]
	if !ok {
		return nil, &InvalidEndpointError{Source: source, Target: target, Reason: "unknown source socket"}
	}
	tgt, ok := s.g.sockets[target]
	if !ok {
		return nil, &InvalidEndpointError{Source: source, Target: target, Reason: "unknown target socket"}
	}
	if src.kind != Output {
		return nil, &KindMismatchError{SocketID: source, Want: Output, Got: src.kind}
	}
	if tgt.kind != Input {
		return nil, &KindMismatchError{SocketID: target, Want: Input, Got: tgt.kind}
	}
	if s.g.connected(source, target) {
		return nil, &InvalidEndpointError{Source: source, Target: target, Reason: "sockets already connected"}
	}
	for _, v := range s.cfg.validators {
		if err := v(src, tgt); err != nil {
			return nil, &InvalidEndpointError{Source: source, Target: target, Reason: err.Error(), Err: err}
		}
	}

	var replaced []ID
	for _, sock := range []*Socket{src, tgt} {
		links := s.g.links[sock.id]
		if sock.accepts(len(links)) {
			continue
		}
		if sock.maxConnections == 1 && s.cfg.policy == ReplaceOnConnect {
			replaced = append(replaced, links[0])
			continue
		}
		return nil, &CapacityExceededError{SocketID: sock.id, Max: sock.maxConnections}
	}
	return replaced, nil
}

// RemoveEdge removes an edge.
func (s *Scene) RemoveEdge(id ID) error {
	return s.edit("remove_edge", "Disconnect", func() error {
		if _, ok := s.g.edges[id]; !ok {
			return &NotFoundError{Kind: "edge", ID: id}
		}
		s.removeEdge(id)
		return nil
	})
}

// Clear removes every node and edge as one history entry. Clearing an empty
// scene records nothing.
func (s *Scene) Clear() error {
	return s.edit("clear", "Clear scene", func() error {
		s.removeNodes(append([]ID(nil), s.g.nodeOrder...))
		return nil
	})
}

// MoveNode sets a node's position. A NaN or infinite pos fails with an
// *InvalidPositionError.
func (s *Scene) MoveNode(id ID, pos Point) error {
	return s.updateNode("move_node", "Move node", id, func(n *Node) error {
		if err := checkPosition(pos); err != nil {
			return err
		}
		n.pos = pos
		return nil
	})
}

// RenameNode sets a node's title.
func (s *Scene) RenameNode(id ID, title string) error {
	return s.updateNode("rename_node", "Rename node", id, func(n *Node) error {
		n.title = title
		return nil
	})
}

// SetContent replaces a node's payload. A nil c removes it.
func (s *Scene) SetContent(id ID, c content.Content) error {
	return s.updateNode("set_content", "Set content", id, func(n *Node) error {
		if _, _, err := content.Encode(c); err != nil {
			return err
		}
		n.content = c
		return nil
	})
}

func (s *Scene) updateNode(op, desc string, id ID, fn func(*Node) error) error {
	return s.edit(op, desc, func() error {
		n, ok := s.g.nodes[id]
		if !ok {
			return &NotFoundError{Kind: "node", ID: id}
		}
		if err := fn(n); err != nil {
			return err
		}
		s.queue(event.NodeUpdated, id)
		return nil
	})
}

// RemoveItems removes the given edges and nodes, with the edges of removed
// nodes, as one history entry. Every id must exist.
func (s *Scene) RemoveItems(nodeIDs, edgeIDs []ID) error {
	return s.removeItems("remove_items", "Delete items", nodeIDs, edgeIDs)
}

// RemoveSelected removes the selected nodes and edges as one history entry.
func (s *Scene) RemoveSelected() error {
	var nodes, edges []ID
	for _, id := range s.Selection() {
		if _, ok := s.g.nodes[id]; ok {
			nodes = append(nodes, id)
		} else {
			edges = append(edges, id)
		}
	}
	return s.removeItems("remove_selected", "Delete selection", nodes, edges)
}

func (s *Scene) removeItems(op, desc string, nodeIDs, edgeIDs []ID) error {
	return s.edit(op, desc, func() error {
		for _, id := range nodeIDs {
			if _, ok := s.g.nodes[id]; !ok {
				return &NotFoundError{Kind: "node", ID: id}
			}
		}
		for _, id := range edgeIDs {
			if _, ok := s.g.edges[id]; !ok {
				return &NotFoundError{Kind: "edge", ID: id}
			}
		}
		for _, id := range edgeIDs {
			if _, ok := s.g.edges[id]; ok {
				s.removeEdge(id)
			}
		}
		s.removeNodes(nodeIDs)
		return nil
	})
}

// removeNodes removes nodes and their edges. The ids must exist; repeats
// are ignored.
func (s *Scene) removeNodes(ids []ID) {
	set := make(map[ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	for _, edgeID := range s.g.incident(set) {
		s.removeEdge(edgeID)
	}
	for _, id := range ids {
		if _, ok := s.g.nodes[id]; !ok {
			continue
		}
		s.g.deleteNode(id)
		s.queue(event.NodeRemoved, id)
		s.deselect(id)
	}
}

func (s *Scene) removeEdge(id ID) {
	s.g.deleteEdge(id)
	s.queue(event.EdgeRemoved, id)
	s.deselect(id)
}
