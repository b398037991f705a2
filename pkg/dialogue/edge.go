package dialogue

import "fmt"

// PlainOption marks an edge as unconditional (not keyed by an option id).
const PlainOption = -1

// Edge is a directed link between two node ids.
//
// A plain edge has Option == PlainOption. A choice edge carries the local
// option id of its source node: for Choice nodes that is the selected player
// line, for Branch nodes option 0 is the true branch and option 1 the false
// branch.
type Edge struct {
	Source int
	Option int
	Target int
}

// NewEdge creates a plain edge.
func NewEdge(source, target int) Edge {
	return Edge{Source: source, Option: PlainOption, Target: target}
}

// NewChoiceEdge creates an edge keyed by a local option id.
func NewChoiceEdge(source, option, target int) Edge {
	return Edge{Source: source, Option: option, Target: target}
}

// IsChoice reports whether the edge is keyed by an option id.
func (e Edge) IsChoice() bool {
	return e.Option != PlainOption
}

func (e Edge) String() string {
	if e.IsChoice() {
		return fmt.Sprintf("%d, %d -> %d", e.Source, e.Option, e.Target)
	}
	return fmt.Sprintf("%d -> %d", e.Source, e.Target)
}
