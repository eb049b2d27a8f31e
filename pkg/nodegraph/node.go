package nodegraph

import (
	"encoding/json"
	"math"

	"github.com/randalmurphal/nodegraph/pkg/nodegraph/content"
)

// Point is a position on the canvas.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func checkPosition(p Point) error {
	if !p.finite() {
		return &InvalidPositionError{Pos: p}
	}
	return nil
}

// NodeSpec describes a node to add.
type NodeSpec struct {
	Title    string
	Position Point
	Inputs   []SocketDef
	Outputs  []SocketDef
	Content  content.Content
}

// Node is a read-only view of a node in a scene.
//
// Handles stay valid across ordinary mutations. Undo, redo, Deserialize and
// Reset rebuild the scene, after which a handle describes the old state;
// look the node up again by id.
type Node struct {
	id      ID
	sceneID ID
	title   string
	pos     Point
	inputs  []*Socket
	outputs []*Socket
	content content.Content

	// extra holds document fields this build does not interpret.
	extra map[string]json.RawMessage
}

// ID returns the node id.
func (n *Node) ID() ID { return n.id }

// SceneID returns the id of the owning scene.
func (n *Node) SceneID() ID { return n.sceneID }

// Title returns the node title.
func (n *Node) Title() string { return n.title }

// Position returns the node position.
func (n *Node) Position() Point { return n.pos }

// Content returns the node payload, or nil.
func (n *Node) Content() content.Content { return n.content }

// Inputs returns the input sockets in index order.
func (n *Node) Inputs() []*Socket { return append([]*Socket(nil), n.inputs...) }

// Outputs returns the output sockets in index order.
func (n *Node) Outputs() []*Socket { return append([]*Socket(nil), n.outputs...) }

// Input returns the input socket at index i, or nil.
func (n *Node) Input(i int) *Socket {
	if i < 0 || i >= len(n.inputs) {
		return nil
	}
	return n.inputs[i]
}

// Output returns the output socket at index i, or nil.
func (n *Node) Output(i int) *Socket {
	if i < 0 || i >= len(n.outputs) {
		return nil
	}
	return n.outputs[i]
}

// Sockets returns the inputs followed by the outputs.
func (n *Node) Sockets() []*Socket {
	out := make([]*Socket, 0, len(n.inputs)+len(n.outputs))
	out = append(out, n.inputs...)
	return append(out, n.outputs...)
}
