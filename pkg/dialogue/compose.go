package dialogue

// AppendGraph splices sub between the source and target nodes of the host
// graph, so that traversal detours through the sub-conversation.
//
// The sub-graph's Start node and each of its End nodes are demoted to fresh
// Text nodes in the host (once inlined they are no longer conversation
// boundaries). All other sub-graph nodes are inserted by reference under
// their existing ids: callers must ensure those ids do not collide with ids
// already present in the host, typically by calling Rebase(host.NextID()) on
// a private copy of sub first.
//
// sub itself is left unmodified.
func AppendGraph(host *Graph, source, target int, sub *Graph) error {
	startID, err := sub.StartNodeID()
	if err != nil {
		return err
	}
	start := sub.nodes[startID]

	endIDs := make(map[int]bool)
	for id, n := range sub.nodes {
		if n.Kind == KindEnd {
			endIDs[id] = true
		}
	}

	// The boundary nodes below must not reuse any of the sub-graph's ids,
	// or PutNode would overwrite them.
	host.SetNextID(sub.NextID())

	// Boundary nodes become plain text lines in the host.
	newStartID := host.AddNode(NewText(start.Text))

	newEndIDs := make(map[int]int, len(endIDs))
	for id := range endIDs {
		newEndIDs[id] = host.AddNode(NewText(sub.nodes[id].Text))
	}

	// The rest of the sub-graph is inserted as is.
	inserted := make(map[int]bool, sub.Len())
	for id, n := range sub.nodes {
		if id == startID || endIDs[id] {
			continue
		}
		host.PutNode(id, n)
		inserted[id] = true
	}

	// Internal edges survive unchanged.
	for _, e := range sub.edges {
		if inserted[e.Source] && inserted[e.Target] {
			host.edges = append(host.edges, e)
		}
	}

	// Rewire the boundary: source -> newStart -> ... -> newEnd -> target.
	host.AddEdge(source, newStartID)

	// Edges into End nodes are redirected below, which covers a start that
	// connects straight to an end.
	if next, ok := sub.NextNode(startID); ok && !endIDs[next] {
		host.AddEdge(newStartID, next)
	}

	for _, e := range sub.edges {
		newEnd, ok := newEndIDs[e.Target]
		if !ok {
			continue
		}

		from := e.Source
		if from == startID {
			from = newStartID
		}

		if e.IsChoice() {
			host.AddChoiceEdge(from, e.Option, newEnd)
		} else {
			host.AddEdge(from, newEnd)
		}
	}

	for _, newEnd := range newEndIDs {
		host.AddEdge(newEnd, target)
	}

	return nil
}
