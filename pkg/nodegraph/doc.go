/*
Package nodegraph is the model behind a visual node editor: a Scene of nodes
whose sockets are joined by edges, with validated mutations, undo and redo,
change notifications and lossless persistence.

# Overview

The package renders nothing. A windowing shell, an input layer and a view
call Scene operations and subscribe to its events. The Scene guarantees that
after any public call returns, every edge runs from an output socket to an
input socket of nodes that are in the scene.

# Basic Usage

	scene := nodegraph.NewScene()

	a, _ := scene.AddNode(nodegraph.NodeSpec{
	    Title:   "Source",
	    Outputs: []nodegraph.SocketDef{{}},
	})
	b, _ := scene.AddNode(nodegraph.NodeSpec{
	    Title:    "Sink",
	    Position: nodegraph.Point{X: 200},
	    Inputs:   []nodegraph.SocketDef{{}},
	})

	_, err := scene.AddEdge(a.Output(0).ID(), b.Input(0).ID())
	if err != nil {
	    log.Fatal(err)
	}

	_ = scene.History().Undo() // the edge is gone
	_ = scene.History().Redo() // and back, with the same id

# Sockets and Capacity

Inputs accept one edge and outputs any number unless a SocketDef or
WithDefaultCapacity says otherwise. Connecting to a full socket whose limit
is one replaces its edge under the default ReplaceOnConnect policy; the
replacement and the new edge are one history entry. RejectOnConnect turns
that case into a *CapacityExceededError.

# History

Each mutation records one entry holding encoded snapshots of the scene
before and after it, plus the selection. Removing a node removes its edges
in the same entry, so one Undo brings both back. Undo and redo rebuild the
scene from the snapshot; Node, Edge and Socket values obtained earlier then
describe the old state and should be looked up again by id.

# Events

Scene.Events returns a synchronous hub (package event). Events are queued
while a mutation runs and delivered after it is complete. A handler may read
the scene, but starting another mutation, undo or redo from inside it fails
with a *ReentrancyError.

# Persistence

Serialize and Deserialize convert to and from document.Document. Loading
checks the whole document before touching the scene. SaveScene and
LoadScene move documents through a store.Store, such as the SQLite store,
with tracing spans and metrics when those are configured.

# Errors

Every failure is returned to the caller and leaves the scene unchanged.
Typed errors match sentinels with errors.Is:

	if errors.Is(err, nodegraph.ErrCapacityExceeded) { ... }

	var dup *nodegraph.DuplicateIDError
	if errors.As(err, &dup) { ... }
*/
package nodegraph
