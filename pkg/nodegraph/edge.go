package nodegraph

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EdgeType is a rendering hint stored with an edge.
type EdgeType int

// Edge types. Zero is read as Bezier.
const (
	Direct EdgeType = 1
	Bezier EdgeType = 2
)

// String returns the edge type name.
func (t EdgeType) String() string {
	switch t {
	case Direct:
		return "direct"
	case Bezier:
		return "bezier"
	default:
		return fmt.Sprintf("edge_type(%d)", int(t))
	}
}

// Edge is a read-only view of a connection from an output socket to an
// input socket. Edges are immutable.
type Edge struct {
	id       ID
	sceneID  ID
	source   ID
	target   ID
	edgeType EdgeType
	extra    map[string]json.RawMessage
}

// ID returns the edge id.
func (e *Edge) ID() ID { return e.id }

// SceneID returns the id of the owning scene.
func (e *Edge) SceneID() ID { return e.sceneID }

// Source returns the output socket id.
func (e *Edge) Source() ID { return e.source }

// Target returns the input socket id.
func (e *Edge) Target() ID { return e.target }

// Type returns the edge type.
func (e *Edge) Type() EdgeType { return e.edgeType }

// EdgeValidator vets a new edge after the kind checks pass. A non-nil error
// refuses the edge with an *InvalidEndpointError wrapping it.
type EdgeValidator func(source, target *Socket) error

// Validator errors.
var (
	ErrSelfLoop       = errors.New("edge connects a node to itself")
	ErrSocketMismatch = errors.New("socket types differ")
)

// ForbidSelfLoops refuses edges between two sockets of the same node.
func ForbidSelfLoops(source, target *Socket) error {
	if source.NodeID() == target.NodeID() {
		return ErrSelfLoop
	}
	return nil
}

// MatchSocketTypes refuses edges between sockets of different types.
func MatchSocketTypes(source, target *Socket) error {
	if source.Type() != target.Type() {
		return fmt.Errorf("%w: %d and %d", ErrSocketMismatch, source.Type(), target.Type())
	}
	return nil
}

func normalizeEdgeType(t EdgeType) EdgeType {
	if t == 0 {
		return Bezier
	}
	return t
}
