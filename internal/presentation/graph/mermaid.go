// Package graph renders dialogue graphs as Mermaid flowcharts for
// inspection and documentation.
package graph

import (
	"fmt"
	"strings"

	"github.com/parleyio/parley/pkg/dialogue"
)

// Overlay contains dynamic session state to visualize on the graph.
type Overlay struct {
	VisitedNodes []int
	CurrentNode  int
}

// GenerateMermaid produces Mermaid flowchart syntax for a dialogue graph.
// Node shapes follow the kind:
//   - Start/End: ((circle))
//   - Choice: [/parallelogram/] (player input)
//   - Branch: {diamond}
//   - Function: [[subroutine]]
//   - Text and everything else: [rectangle]
//
// Choice and branch edges carry their option id (and option text, for
// choices) as the edge label. An overlay highlights visited and current
// nodes.
func GenerateMermaid(g *dialogue.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range g.NodeIDs() {
		n, err := g.NodeByID(id)
		if err != nil {
			continue
		}

		opener, closer := "[", "]"
		switch n.Kind {
		case dialogue.KindStart, dialogue.KindEnd:
			opener, closer = "((", "))"
		case dialogue.KindChoice:
			opener, closer = "[/", "/]"
		case dialogue.KindBranch:
			opener, closer = "{", "}"
		case dialogue.KindFunction:
			opener, closer = "[[", "]]"
		}

		sb.WriteString(fmt.Sprintf("    n%d%s\"%s\"%s\n", id, opener, nodeLabel(n), closer))
	}

	for _, e := range g.Edges() {
		arrow := "-->"
		if e.IsChoice() {
			label := fmt.Sprintf("%d", e.Option)
			if n, err := g.NodeByID(e.Source); err == nil {
				if text, ok := n.Options[e.Option]; ok && text != "" {
					label = escapeLabel(text)
				} else if n.Kind == dialogue.KindBranch {
					if e.Option == 0 {
						label = "true"
					} else {
						label = "false"
					}
				}
			}
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		sb.WriteString(fmt.Sprintf("    n%d %s n%d\n", e.Source, arrow, e.Target))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, id := range overlay.VisitedNodes {
			if seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class n%d visited;\n", id))
		}
		sb.WriteString(fmt.Sprintf("    class n%d current;\n", overlay.CurrentNode))
	}

	return sb.String()
}

// nodeLabel is the node's kind plus a trimmed slice of its text, since
// full dialogue lines make unreadable diagrams.
func nodeLabel(n *dialogue.Node) string {
	text := strings.TrimSpace(n.Text)
	if len(text) > 30 {
		text = text[:27] + "..."
	}
	if text == "" {
		return n.Kind.String()
	}
	return fmt.Sprintf("%s: %s", n.Kind, escapeLabel(text))
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}
