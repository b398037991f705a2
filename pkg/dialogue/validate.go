package dialogue

import "fmt"

// Validate runs structural checks over the graph and returns every problem
// found. A nil slice means the graph is traversable.
//
// It catches the authoring defects the session would otherwise degrade on:
// missing or duplicated Start nodes, dangling edge endpoints, choice edges
// hanging off nodes without options.
func Validate(g *Graph) []error {
	var problems []error

	starts := 0
	for _, id := range g.NodeIDs() {
		n := g.nodes[id]

		switch n.Kind {
		case KindStart:
			starts++
		case KindChoice:
			if len(n.Options) == 0 {
				problems = append(problems, fmt.Errorf("choice node %d has no options", id))
			}
		case KindBranch:
			if _, ok := g.NextNodeForOption(id, 0); !ok {
				problems = append(problems, fmt.Errorf("branch node %d has no true branch (option 0)", id))
			}
			if _, ok := g.NextNodeForOption(id, 1); !ok {
				problems = append(problems, fmt.Errorf("branch node %d has no false branch (option 1)", id))
			}
		}
	}

	if starts == 0 {
		problems = append(problems, ErrNoStartNode)
	}
	if starts > 1 {
		problems = append(problems, fmt.Errorf("graph has %d start nodes, want 1", starts))
	}

	for _, e := range g.edges {
		src, ok := g.nodes[e.Source]
		if !ok {
			problems = append(problems, fmt.Errorf("edge %v: source %d not in graph", e, e.Source))
			continue
		}
		if _, ok := g.nodes[e.Target]; !ok {
			problems = append(problems, fmt.Errorf("edge %v: target %d not in graph", e, e.Target))
		}

		if e.IsChoice() {
			switch src.Kind {
			case KindChoice:
				if _, ok := src.Options[e.Option]; !ok {
					problems = append(problems, fmt.Errorf("edge %v: choice node %d has no option %d", e, e.Source, e.Option))
				}
			case KindBranch:
				if e.Option != 0 && e.Option != 1 {
					problems = append(problems, fmt.Errorf("edge %v: branch option must be 0 or 1", e))
				}
			default:
				problems = append(problems, fmt.Errorf("edge %v: choice edge from %s node", e, src.Kind))
			}
		}
	}

	return problems
}
