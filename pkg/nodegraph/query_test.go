package nodegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeIDs(nodes []*Node) []ID {
	var out []ID
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

// fanGraph builds
//
//	A.out0 -> C.in0, A.out0 -> B.in0, A.out1 -> B.in1
//	B.out0 -> E.in0, C.out0 -> E.in0
func fanGraph(t *testing.T, s *Scene) (a, b, c, e *Node) {
	t.Helper()
	var err error
	a, err = s.AddNode(NodeSpec{Title: "A", Outputs: []SocketDef{{}, {}}})
	require.NoError(t, err)
	b, err = s.AddNode(NodeSpec{Title: "B", Inputs: []SocketDef{{}, {}}, Outputs: []SocketDef{{}}})
	require.NoError(t, err)
	c = addPassNode(t, s, "C")
	e, err = s.AddNode(NodeSpec{Title: "E", Inputs: []SocketDef{{MaxConnections: Unlimited}}})
	require.NoError(t, err)

	for _, pair := range [][2]*Socket{
		{a.Output(0), c.Input(0)},
		{a.Output(0), b.Input(0)},
		{a.Output(1), b.Input(1)},
		{b.Output(0), e.Input(0)},
		{c.Output(0), e.Input(0)},
	} {
		_, err := s.AddEdge(pair[0].ID(), pair[1].ID())
		require.NoError(t, err)
	}
	return a, b, c, e
}

func TestInputOutputNodes(t *testing.T) {
	s := newTestScene()
	a, b, c, e := fanGraph(t, s)

	assert.Equal(t, []ID{c.ID(), b.ID()}, nodeIDs(s.OutputNodes(a.ID(), 0)), "connection order")
	assert.Equal(t, []ID{b.ID()}, nodeIDs(s.OutputNodes(a.ID(), 1)))
	assert.Equal(t, []ID{a.ID()}, nodeIDs(s.InputNodes(b.ID(), 0)))
	assert.Equal(t, []ID{a.ID()}, nodeIDs(s.InputNodes(b.ID(), 1)))
	assert.Equal(t, []ID{b.ID(), c.ID()}, nodeIDs(s.InputNodes(e.ID(), 0)))

	got := s.InputNodes(c.ID(), 0)
	require.Len(t, got, 1)
	assert.Same(t, a, got[0], "results are the scene's handles")

	assert.Empty(t, s.OutputNodes(e.ID(), 0), "no such output")
	assert.Nil(t, s.OutputNodes(a.ID(), 2))
	assert.Nil(t, s.OutputNodes(a.ID(), -1))
	assert.Nil(t, s.InputNodes("missing", 0))
	assert.Empty(t, s.InputNodes(a.ID(), 0))
}

func TestChildrenParents(t *testing.T) {
	s := newTestScene()
	a, b, c, e := fanGraph(t, s)

	assert.Equal(t, []ID{c.ID(), b.ID()}, nodeIDs(s.Children(a.ID())), "B is listed once")
	assert.Equal(t, []ID{e.ID()}, nodeIDs(s.Children(b.ID())))
	assert.Empty(t, s.Children(e.ID()))
	assert.Nil(t, s.Children("missing"))

	assert.Equal(t, []ID{a.ID()}, nodeIDs(s.Parents(b.ID())))
	assert.Equal(t, []ID{b.ID(), c.ID()}, nodeIDs(s.Parents(e.ID())))
	assert.Empty(t, s.Parents(a.ID()))
	assert.Nil(t, s.Parents("missing"))
}

func TestQueries_FollowEdits(t *testing.T) {
	s := newTestScene()
	a, b, c, e := fanGraph(t, s)

	require.NoError(t, s.RemoveNode(c.ID()))
	assert.Equal(t, []ID{b.ID()}, nodeIDs(s.OutputNodes(a.ID(), 0)))
	assert.Equal(t, []ID{b.ID()}, nodeIDs(s.Parents(e.ID())))

	require.NoError(t, s.History().Undo())
	assert.Equal(t, []ID{c.ID(), b.ID()}, nodeIDs(s.Children(a.ID())), "undo restores connection order")
	assert.Equal(t, []ID{b.ID(), c.ID()}, nodeIDs(s.InputNodes(e.ID(), 0)))
}
