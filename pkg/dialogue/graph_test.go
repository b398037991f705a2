package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeAssignsSequentialIDs(t *testing.T) {
	g := NewGraph()

	a := g.AddNode(NewStart("a"))
	b := g.AddNode(NewText("b"))

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 2, g.NextID())
}

func TestPutNodeBumpsCounter(t *testing.T) {
	g := NewGraph()

	g.PutNode(10, NewText("far out"))
	assert.Equal(t, 11, g.AddNode(NewText("next")))
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewStart("a"))
	b := g.AddNode(NewText("b"))
	c := g.AddNode(NewEnd("c"))
	g.AddEdge(a, b)
	g.AddEdge(b, c)

	g.RemoveNode(b)

	_, err := g.NodeByID(b)
	require.ErrorIs(t, err, ErrNodeNotFound)
	// No edge may reference the removed node in either direction.
	for _, e := range g.Edges() {
		assert.NotEqual(t, b, e.Source)
		assert.NotEqual(t, b, e.Target)
	}
	assert.Empty(t, g.Edges())
}

func TestFindNodeIDUsesIdentity(t *testing.T) {
	g := NewGraph()
	n := NewText("hello")
	id := g.AddNode(n)

	assert.Equal(t, id, g.FindNodeID(n))
	// An equal but distinct node is not found.
	assert.Equal(t, NodeNotFound, g.FindNodeID(NewText("hello")))
}

func TestStartNodeLookup(t *testing.T) {
	g := NewGraph()
	_, err := g.StartNodeID()
	require.ErrorIs(t, err, ErrNoStartNode)

	g.AddNode(NewText("not a start"))
	id := g.AddNode(NewStart("hi"))

	got, err := g.StartNodeID()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	n, err := g.StartNode()
	require.NoError(t, err)
	assert.Equal(t, "hi", n.Text)
}

func TestNodeByIDNotFound(t *testing.T) {
	g := NewGraph()
	_, err := g.NodeByID(99)
	require.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNextNodeForOption(t *testing.T) {
	g := NewGraph()
	choice := NewChoice("pick")
	choice.AddOption("left")
	choice.AddOption("right")
	c := g.AddNode(choice)
	l := g.AddNode(NewText("left path"))
	r := g.AddNode(NewText("right path"))
	g.AddChoiceEdge(c, 0, l)
	g.AddChoiceEdge(c, 1, r)

	next, ok := g.NextNodeForOption(c, 1)
	require.True(t, ok)
	assert.Equal(t, r, next)

	// A plain edge does not answer an option lookup and vice versa.
	_, ok = g.NextNode(c)
	assert.False(t, ok)
	_, ok = g.NextNodeForOption(c, 5)
	assert.False(t, ok)
}

func TestRemoveChoiceEdgeIsExact(t *testing.T) {
	g := NewGraph()
	choice := NewChoice("pick")
	choice.AddOption("a")
	choice.AddOption("b")
	c := g.AddNode(choice)
	x := g.AddNode(NewText("x"))
	g.AddChoiceEdge(c, 0, x)
	g.AddChoiceEdge(c, 1, x)

	g.RemoveChoiceEdge(c, 0, x)

	require.Len(t, g.Edges(), 1)
	assert.Equal(t, 1, g.Edges()[0].Option)
}

func TestCopySharesNodesButNotContainers(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewStart("a"))
	b := g.AddNode(NewEnd("b"))
	g.AddEdge(a, b)

	c := g.Copy()
	c.AddNode(NewText("extra"))
	c.AddEdge(b, a)

	assert.Equal(t, 2, g.Len())
	assert.Len(t, g.Edges(), 1)
	assert.Equal(t, 3, c.Len())

	// Node values are shared by reference.
	orig, err := g.NodeByID(a)
	require.NoError(t, err)
	copied, err := c.NodeByID(a)
	require.NoError(t, err)
	assert.Same(t, orig, copied)
}

func TestRebaseShiftsEverything(t *testing.T) {
	g := NewGraph()
	a := g.AddNode(NewStart("a"))
	choice := NewChoice("pick")
	choice.AddOption("only")
	c := g.AddNode(choice)
	b := g.AddNode(NewEnd("b"))
	g.AddEdge(a, c)
	g.AddChoiceEdge(c, 0, b)

	g.Rebase(100)

	assert.Equal(t, []int{100, 101, 102}, g.NodeIDs())
	assert.Equal(t, 103, g.NextID())

	next, ok := g.NextNode(100)
	require.True(t, ok)
	assert.Equal(t, 101, next)

	next, ok = g.NextNodeForOption(101, 0)
	require.True(t, ok)
	assert.Equal(t, 102, next)
}

func TestFindNodeIDByKind(t *testing.T) {
	g := NewGraph()
	g.AddNode(NewStart("a"))
	sub := g.AddNode(NewSubDialogue("side-quest"))

	assert.Equal(t, sub, g.FindNodeIDByKind(KindSubDialogue))
	assert.Equal(t, NodeNotFound, g.FindNodeIDByKind(KindBranch))
}
