package dialogue

import "errors"

// ErrNodeNotFound is returned when a node id is absent from the graph.
var ErrNodeNotFound = errors.New("node not found")

// ErrNoStartNode is returned when a graph has no Start node at traversal time.
var ErrNoStartNode = errors.New("graph has no start node")

// NodeNotFound marks a graph as not containing the queried node.
// It is the sentinel returned by FindNodeID.
const NodeNotFound = -1
