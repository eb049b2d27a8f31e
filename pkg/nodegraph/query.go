package nodegraph

// InputNodes returns the nodes feeding input index of node nodeID, in the
// order their edges were connected. It returns nil for an unknown node or
// index.
func (s *Scene) InputNodes(nodeID ID, index int) []*Node {
	n, ok := s.g.nodes[nodeID]
	if !ok {
		return nil
	}
	return s.peers(n.Input(index))
}

// OutputNodes returns the nodes fed by output index of node nodeID, in the
// order their edges were connected. It returns nil for an unknown node or
// index.
func (s *Scene) OutputNodes(nodeID ID, index int) []*Node {
	n, ok := s.g.nodes[nodeID]
	if !ok {
		return nil
	}
	return s.peers(n.Output(index))
}

// Children returns the nodes connected to any output of node nodeID. Outputs
// are walked in index order and each node is listed once, at its first
// connection.
func (s *Scene) Children(nodeID ID) []*Node {
	n, ok := s.g.nodes[nodeID]
	if !ok {
		return nil
	}
	return s.neighbours(n.outputs)
}

// Parents returns the nodes connected to any input of node nodeID, listed
// the same way as Children.
func (s *Scene) Parents(nodeID ID) []*Node {
	n, ok := s.g.nodes[nodeID]
	if !ok {
		return nil
	}
	return s.neighbours(n.inputs)
}

// peers returns the node at the far end of each edge on sock.
func (s *Scene) peers(sock *Socket) []*Node {
	if sock == nil {
		return nil
	}
	ids := s.g.links[sock.id]
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		e := s.g.edges[id]
		far := e.source
		if sock.kind == Output {
			far = e.target
		}
		out = append(out, s.g.nodes[s.g.sockets[far].nodeID])
	}
	return out
}

func (s *Scene) neighbours(sockets []*Socket) []*Node {
	var out []*Node
	seen := make(map[ID]struct{})
	for _, sock := range sockets {
		for _, n := range s.peers(sock) {
			if _, ok := seen[n.id]; ok {
				continue
			}
			seen[n.id] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
