package nodegraph

import (
	"encoding/json"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/config"
)

// SocketKind is the direction of a socket.
type SocketKind int

const (
	// Input sockets are edge targets.
	Input SocketKind = iota
	// Output sockets are edge sources.
	Output
)

// String returns "input" or "output".
func (k SocketKind) String() string {
	if k == Output {
		return "output"
	}
	return "input"
}

// Unlimited marks a socket with no connection limit.
const Unlimited = config.Unlimited

// SocketDef describes a socket to create with a node.
type SocketDef struct {
	// Type is an application-defined socket type, compared by MatchSocketTypes.
	Type int

	// MaxConnections caps the edges on the socket. 0 uses the scene default
	// for the kind and Unlimited (or any negative value) removes the cap.
	MaxConnections int
}

// Socket is a connection point on a node. Sockets are read-only views;
// change the graph through the Scene.
type Socket struct {
	id             ID
	nodeID         ID
	index          int
	kind           SocketKind
	socketType     int
	maxConnections int
	extra          map[string]json.RawMessage
}

// ID returns the socket id.
func (s *Socket) ID() ID { return s.id }

// NodeID returns the id of the owning node. It never changes.
func (s *Socket) NodeID() ID { return s.nodeID }

// Index returns the position of the socket in its node's input or output list.
func (s *Socket) Index() int { return s.index }

// Kind returns Input or Output.
func (s *Socket) Kind() SocketKind { return s.kind }

// Type returns the application-defined socket type.
func (s *Socket) Type() int { return s.socketType }

// MaxConnections returns the connection limit, or Unlimited.
func (s *Socket) MaxConnections() int { return s.maxConnections }

// accepts reports whether one more edge fits given n existing ones.
func (s *Socket) accepts(n int) bool {
	return s.maxConnections == Unlimited || n < s.maxConnections
}

// normalizeCapacity maps a requested limit to a stored one. 0 picks def.
func normalizeCapacity(n, def int) int {
	switch {
	case n == 0:
		return def
	case n < 0:
		return Unlimited
	default:
		return n
	}
}
