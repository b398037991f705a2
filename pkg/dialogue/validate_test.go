package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCleanGraph(t *testing.T) {
	g := NewGraph()
	s := g.AddNode(NewStart("hi"))
	e := g.AddNode(NewEnd("bye"))
	g.AddEdge(s, e)

	assert.Empty(t, Validate(g))
}

func TestValidateStartNodeCount(t *testing.T) {
	g := NewGraph()
	g.AddNode(NewText("floating"))
	problems := Validate(g)
	assert.NotEmpty(t, problems)

	g.AddNode(NewStart("one"))
	assert.Empty(t, Validate(g))

	g.AddNode(NewStart("two"))
	assert.NotEmpty(t, Validate(g))
}

func TestValidateChoiceWithoutOptions(t *testing.T) {
	g := NewGraph()
	g.AddNode(NewStart("hi"))
	g.AddNode(NewChoice("empty"))

	assert.NotEmpty(t, Validate(g))
}

func TestValidateBranchNeedsBothBranches(t *testing.T) {
	g := NewGraph()
	s := g.AddNode(NewStart("hi"))
	b := g.AddNode(NewBranch("$hp > 0"))
	alive := g.AddNode(NewEnd("alive"))
	g.AddEdge(s, b)
	g.AddChoiceEdge(b, 0, alive)

	// The false branch (option 1) is missing.
	problems := Validate(g)
	assert.Len(t, problems, 1)

	dead := g.AddNode(NewEnd("dead"))
	g.AddChoiceEdge(b, 1, dead)
	assert.Empty(t, Validate(g))
}

func TestValidateDanglingEdgeEndpoints(t *testing.T) {
	g := NewGraph()
	s := g.AddNode(NewStart("hi"))
	g.AddEdge(s, 42)

	assert.NotEmpty(t, Validate(g))
}

func TestValidateChoiceEdgeOptionMustExist(t *testing.T) {
	g := NewGraph()
	s := g.AddNode(NewStart("hi"))
	choice := NewChoice("pick")
	choice.AddOption("only")
	c := g.AddNode(choice)
	e := g.AddNode(NewEnd("bye"))
	g.AddEdge(s, c)
	g.AddChoiceEdge(c, 3, e)

	assert.NotEmpty(t, Validate(g))
}

func TestValidateChoiceEdgeFromPlainNode(t *testing.T) {
	g := NewGraph()
	s := g.AddNode(NewStart("hi"))
	e := g.AddNode(NewEnd("bye"))
	g.AddChoiceEdge(s, 0, e)

	assert.NotEmpty(t, Validate(g))
}
