package nodegraph

import (
	"github.com/google/uuid"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/document"
)

// ID identifies a scene, node, socket or edge.
type ID = document.ID

// IDRegistry tracks the ids in use in one scene. Nodes, sockets and edges
// share a single namespace.
//
// IDRegistry is not safe for concurrent use.
type IDRegistry struct {
	ids map[ID]struct{}
}

// NewIDRegistry returns an empty registry.
func NewIDRegistry() *IDRegistry {
	return &IDRegistry{ids: make(map[ID]struct{})}
}

// Allocate registers and returns a fresh id.
func (r *IDRegistry) Allocate() ID {
	for {
		id := ID(uuid.NewString())
		if _, taken := r.ids[id]; !taken {
			r.ids[id] = struct{}{}
			return id
		}
	}
}

// Reserve registers an externally supplied id.
// Returns ErrEmptyID for an empty id and a *DuplicateIDError if the id is
// already in use.
func (r *IDRegistry) Reserve(id ID) error {
	if id == "" {
		return ErrEmptyID
	}
	if _, taken := r.ids[id]; taken {
		return &DuplicateIDError{ID: id}
	}
	r.ids[id] = struct{}{}
	return nil
}

// Release frees id. Releasing an unknown id does nothing.
func (r *IDRegistry) Release(id ID) {
	delete(r.ids, id)
}

// Has reports whether id is in use.
func (r *IDRegistry) Has(id ID) bool {
	_, ok := r.ids[id]
	return ok
}

// Len returns the number of ids in use.
func (r *IDRegistry) Len() int {
	return len(r.ids)
}
