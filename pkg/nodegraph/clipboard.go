package nodegraph

import (
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/document"
	"github.com/randalmurphal/nodegraph/pkg/nodegraph/event"
)

// Copy returns a fragment holding the given nodes and the edges that run
// between two of them. Edges to nodes outside the set are left out.
func (s *Scene) Copy(nodeIDs ...ID) (*document.Document, error) {
	set := make(map[ID]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		if _, ok := s.g.nodes[id]; !ok {
			return nil, &NotFoundError{Kind: "node", ID: id}
		}
		set[id] = true
	}

	frag := document.New("")
	for _, n := range s.g.orderedNodes() {
		if !set[n.id] {
			continue
		}
		dn, err := encodeNode(n)
		if err != nil {
			return nil, err
		}
		frag.Nodes = append(frag.Nodes, dn)
	}
	for _, e := range s.g.orderedEdges() {
		if set[s.g.sockets[e.source].nodeID] && set[s.g.sockets[e.target].nodeID] {
			frag.Edges = append(frag.Edges, encodeEdge(e))
		}
	}
	return frag, nil
}

// CopySelected copies the selected nodes.
func (s *Scene) CopySelected() (*document.Document, error) {
	var ids []ID
	for _, id := range s.Selection() {
		if _, ok := s.g.nodes[id]; ok {
			ids = append(ids, id)
		}
	}
	return s.Copy(ids...)
}

// Cut copies the given nodes and removes them as one history entry.
func (s *Scene) Cut(nodeIDs ...ID) (*document.Document, error) {
	frag, err := s.Copy(nodeIDs...)
	if err != nil {
		return nil, err
	}
	if err := s.removeItems("cut", "Cut", nodeIDs, nil); err != nil {
		return nil, err
	}
	return frag, nil
}

// Paste adds a copy of frag with fresh ids for every node, socket and edge,
// moved by offset, as one history entry. Edges whose endpoints are not both
// in frag are skipped. The pasted nodes become the selection.
//
// The fragment is checked like a loaded document; a malformed one fails
// with a *MalformedDocumentError and changes nothing. A non-finite offset
// fails with an *InvalidPositionError.
func (s *Scene) Paste(frag *document.Document, offset Point) ([]*Node, error) {
	var pasted []*Node
	err := s.edit("paste", "Paste", func() error {
		if frag == nil {
			return malformed(nil, "nil fragment")
		}
		if err := checkPosition(offset); err != nil {
			return err
		}

		remapped, allocated := s.remap(frag, offset)
		g, err := s.builder(s.id).build(remapped)
		if err != nil {
			for _, id := range allocated {
				s.g.ids.Release(id)
			}
			return err
		}

		// The ids are registered in s.g already; move the items over.
		for _, n := range g.orderedNodes() {
			s.g.insertNode(n)
			s.queue(event.NodeAdded, n.id)
			pasted = append(pasted, n)
		}
		for _, e := range g.orderedEdges() {
			s.g.insertEdge(e)
			s.queue(event.EdgeAdded, e.id)
		}

		sel := make([]ID, len(pasted))
		for i, n := range pasted {
			sel[i] = n.id
		}
		s.setSelection(sel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pasted, nil
}

// remap copies frag with every id replaced by one allocated in the scene
// registry. Ids missing from frag stay empty so the builder rejects them.
func (s *Scene) remap(frag *document.Document, offset Point) (*document.Document, []ID) {
	var allocated []ID
	fresh := make(map[ID]ID)
	newID := func(old ID) ID {
		if old == "" {
			return ""
		}
		if id, ok := fresh[old]; ok {
			return id
		}
		id := s.g.ids.Allocate()
		allocated = append(allocated, id)
		fresh[old] = id
		return id
	}

	out := document.New(s.id)
	for _, n := range frag.Nodes {
		n = n.Clone()
		n.ID = newID(n.ID)
		n.X += offset.X
		n.Y += offset.Y
		for i := range n.Inputs {
			n.Inputs[i].ID = newID(n.Inputs[i].ID)
		}
		for i := range n.Outputs {
			n.Outputs[i].ID = newID(n.Outputs[i].ID)
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range frag.Edges {
		start, okS := fresh[e.Start]
		end, okT := fresh[e.End]
		if !okS || !okT {
			continue
		}
		e.Extra = cloneExtra(e.Extra)
		e.ID = newID(e.ID)
		e.Start, e.End = start, end
		out.Edges = append(out.Edges, e)
	}
	return out, allocated
}
