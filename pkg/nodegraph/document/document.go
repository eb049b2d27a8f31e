// Package document defines the persisted form of a node editor scene.
//
// A Document is an ordered description of nodes (with their sockets in index
// order) and the edges between their sockets. It is the payload for files,
// history snapshots, the clipboard and the document store.
//
// Fields this build does not know about are kept in the Extra maps and written
// back unchanged, so a document produced by a newer build survives a
// load/save cycle in an older one.
package document

import (
	"encoding/json"
)

// Version is the current document format version.
// Increment when making breaking changes to the document structure.
const Version = 1

// Document is the serialized form of a scene.
type Document struct {
	Version int    `json:"version"`
	ID      ID     `json:"id,omitempty"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`

	// Extra holds unrecognized top-level fields.
	Extra map[string]json.RawMessage `json:"-"`
}

// Node is the serialized form of a node.
type Node struct {
	ID      ID       `json:"id"`
	Title   string   `json:"title"`
	X       float64  `json:"pos_x"`
	Y       float64  `json:"pos_y"`
	Inputs  []Socket `json:"inputs"`
	Outputs []Socket `json:"outputs"`
	Content *Content `json:"content,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Socket is the serialized form of a socket.
// MaxConnections is -1 for unbounded sockets and 0 when the writer did not
// record a limit, in which case the reader applies its default for the kind.
type Socket struct {
	ID             ID  `json:"id"`
	Index          int `json:"index"`
	SocketType     int `json:"socket_type"`
	MaxConnections int `json:"max_connections,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Edge is the serialized form of an edge. Start is always the output socket
// and End the input socket.
type Edge struct {
	ID       ID  `json:"id"`
	EdgeType int `json:"edge_type"`
	Start    ID  `json:"start"`
	End      ID  `json:"end"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Content is the opaque per-node payload, tagged with its registered type.
type Content struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// New returns an empty document at the current version.
func New(id ID) *Document {
	return &Document{
		Version: Version,
		ID:      id,
		Nodes:   []Node{},
		Edges:   []Edge{},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Version: d.Version,
		ID:      d.ID,
		Nodes:   make([]Node, len(d.Nodes)),
		Edges:   make([]Edge, len(d.Edges)),
		Extra:   cloneExtra(d.Extra),
	}
	for i, n := range d.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range d.Edges {
		e.Extra = cloneExtra(e.Extra)
		out.Edges[i] = e
	}
	return out
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	out := n
	out.Inputs = cloneSockets(n.Inputs)
	out.Outputs = cloneSockets(n.Outputs)
	out.Extra = cloneExtra(n.Extra)
	if n.Content != nil {
		c := *n.Content
		c.Data = cloneRaw(n.Content.Data)
		out.Content = &c
	}
	return out
}

// Sockets returns the inputs followed by the outputs.
func (n Node) Sockets() []Socket {
	out := make([]Socket, 0, len(n.Inputs)+len(n.Outputs))
	out = append(out, n.Inputs...)
	return append(out, n.Outputs...)
}

func cloneSockets(in []Socket) []Socket {
	if in == nil {
		return nil
	}
	out := make([]Socket, len(in))
	for i, s := range in {
		s.Extra = cloneExtra(s.Extra)
		out[i] = s
	}
	return out
}

func cloneExtra(in map[string]json.RawMessage) map[string]json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(in))
	for k, v := range in {
		out[k] = cloneRaw(v)
	}
	return out
}

func cloneRaw(in json.RawMessage) json.RawMessage {
	if in == nil {
		return nil
	}
	out := make(json.RawMessage, len(in))
	copy(out, in)
	return out
}
