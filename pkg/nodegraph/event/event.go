// Package event provides the change notification hub a scene uses to tell
// collaborators what happened without depending on them.
//
// Delivery is synchronous: Publish calls every matching handler before it
// returns, in subscription order. A Hub belongs to one scene and, like the
// scene, is used from a single goroutine; it does no locking.
package event

// Kind identifies what changed.
type Kind string

// Event kinds published by a scene.
const (
	NodeAdded   Kind = "node.added"
	NodeRemoved Kind = "node.removed"
	NodeUpdated Kind = "node.updated"

	EdgeAdded   Kind = "edge.added"
	EdgeRemoved Kind = "edge.removed"

	SelectionChanged Kind = "selection.changed"

	// Modified is published when the modified flag turns on and on every
	// explicit saved reset. Event.Modified carries the new value.
	Modified Kind = "scene.modified"

	// Loaded is published after a document replaced the scene contents.
	Loaded Kind = "scene.loaded"

	HistoryStored   Kind = "history.stored"
	HistoryRestored Kind = "history.restored"
)

// Event describes one change.
type Event struct {
	Kind    Kind
	SceneID string

	// ItemID is the node or edge id for node.* and edge.* kinds.
	ItemID string

	// Modified is the modified flag after the change.
	Modified bool

	// Description is the history entry description for history.* kinds.
	Description string

	// Seq is assigned by the hub, increasing per published event.
	Seq uint64
}

// Handler receives events.
type Handler func(Event)
