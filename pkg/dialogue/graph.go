package dialogue

import (
	"fmt"
	"sort"
)

// Graph is an identity-keyed node arena plus an ordered edge list.
//
// Node ids are assigned by AddNode from a monotonically increasing counter
// scoped to one graph instance. Copy duplicates the containers only: node
// content is shared by reference with the original, which is the contract the
// composer and the session rely on.
type Graph struct {
	nodes  map[int]*Node
	edges  []Edge
	nextID int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[int]*Node)}
}

// AddNode inserts the node under a freshly assigned id and returns that id.
func (g *Graph) AddNode(n *Node) int {
	id := g.nextID
	g.nextID++
	g.nodes[id] = n
	return id
}

// PutNode inserts the node under an explicit id, bumping the id counter past
// it. Used by the composer and the serializer; callers must not reuse an id
// already present in the graph.
func (g *Graph) PutNode(id int, n *Node) {
	g.nodes[id] = n
	if id >= g.nextID {
		g.nextID = id + 1
	}
}

// RemoveNode deletes the node and every incident edge.
func (g *Graph) RemoveNode(id int) {
	delete(g.nodes, id)

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	g.edges = kept
}

// AddEdge adds a plain edge between source and target ids.
func (g *Graph) AddEdge(source, target int) {
	g.edges = append(g.edges, NewEdge(source, target))
}

// AddChoiceEdge adds an edge keyed by the source node's local option id.
func (g *Graph) AddChoiceEdge(source, option, target int) {
	g.edges = append(g.edges, NewChoiceEdge(source, option, target))
}

// RemoveEdge removes all plain edges between source and target.
func (g *Graph) RemoveEdge(source, target int) {
	g.removeEdges(func(e Edge) bool {
		return !e.IsChoice() && e.Source == source && e.Target == target
	})
}

// RemoveChoiceEdge removes all matching choice edges.
func (g *Graph) RemoveChoiceEdge(source, option, target int) {
	g.removeEdges(func(e Edge) bool {
		return e.IsChoice() && e.Source == source && e.Option == option && e.Target == target
	})
}

func (g *Graph) removeEdges(match func(Edge) bool) {
	kept := g.edges[:0]
	for _, e := range g.edges {
		if !match(e) {
			kept = append(kept, e)
		}
	}
	g.edges = kept
}

// ContainsNode reports whether the node instance is in the graph.
func (g *Graph) ContainsNode(n *Node) bool {
	return g.FindNodeID(n) != NodeNotFound
}

// FindNodeID scans for the node instance and returns its id,
// or NodeNotFound when absent.
func (g *Graph) FindNodeID(n *Node) int {
	for id, candidate := range g.nodes {
		if candidate == n {
			return id
		}
	}
	return NodeNotFound
}

// NodeByID returns the node under id.
func (g *Graph) NodeByID(id int) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
	}
	return n, nil
}

// StartNodeID returns the id of the graph's Start node.
// There must be exactly one at traversal time; absence is an error.
func (g *Graph) StartNodeID() (int, error) {
	for _, id := range g.NodeIDs() {
		if g.nodes[id].Kind == KindStart {
			return id, nil
		}
	}
	return NodeNotFound, ErrNoStartNode
}

// StartNode returns the graph's Start node.
func (g *Graph) StartNode() (*Node, error) {
	id, err := g.StartNodeID()
	if err != nil {
		return nil, err
	}
	return g.nodes[id], nil
}

// NextNode follows the first plain edge out of the node.
// The second return is false when no such edge exists.
func (g *Graph) NextNode(from int) (int, bool) {
	for _, e := range g.edges {
		if !e.IsChoice() && e.Source == from {
			return e.Target, true
		}
	}
	return NodeNotFound, false
}

// NextNodeForOption follows the first choice edge out of the node matching
// the local option id. The second return is false when no such edge exists.
func (g *Graph) NextNodeForOption(from, option int) (int, bool) {
	for _, e := range g.edges {
		if e.IsChoice() && e.Source == from && e.Option == option {
			return e.Target, true
		}
	}
	return NodeNotFound, false
}

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Nodes returns the live id->node table. Callers must not add or remove
// entries directly.
func (g *Graph) Nodes() map[int]*Node {
	return g.nodes
}

// Edges returns the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// NextID returns the id the next AddNode call would assign.
func (g *Graph) NextID() int {
	return g.nextID
}

// SetNextID moves the id counter forward. Used by the serializer to restore
// a persisted counter that is ahead of the highest node id.
func (g *Graph) SetNextID(id int) {
	if id > g.nextID {
		g.nextID = id
	}
}

// FindNodeIDByKind returns the id of the first node of the given kind in
// ascending id order, or NodeNotFound.
func (g *Graph) FindNodeIDByKind(kind Kind) int {
	for _, id := range g.NodeIDs() {
		if g.nodes[id].Kind == kind {
			return id
		}
	}
	return NodeNotFound
}

// Copy returns a shallow copy: a new graph with the same id counter whose
// node and edge containers are duplicated, but whose nodes are shared by
// reference with the original.
func (g *Graph) Copy() *Graph {
	c := &Graph{
		nodes:  make(map[int]*Node, len(g.nodes)),
		edges:  make([]Edge, len(g.edges)),
		nextID: g.nextID,
	}
	for id, n := range g.nodes {
		c.nodes[id] = n
	}
	copy(c.edges, g.edges)
	return c
}

// Rebase shifts every node id (and edge endpoint) by offset and moves the id
// counter accordingly. It exists so a sub-graph can be made id-disjoint from
// a host graph before splicing; see AppendGraph.
func (g *Graph) Rebase(offset int) {
	if offset == 0 {
		return
	}

	rebased := make(map[int]*Node, len(g.nodes))
	for id, n := range g.nodes {
		rebased[id+offset] = n
	}
	g.nodes = rebased

	for i, e := range g.edges {
		g.edges[i].Source = e.Source + offset
		g.edges[i].Target = e.Target + offset
	}
	g.nextID += offset
}
