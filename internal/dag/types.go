package dag

// Graph is a set of string-identified nodes and directed dependency edges.
// Node and edge order is insertion order, so every traversal is
// deterministic. A Graph is not safe for concurrent mutation.
type Graph struct {
	// order lists node IDs in the order they were added.
	order []string
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
}

// node represents a single vertex in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using string IDs),
// not by direct struct manipulation.
type node struct {
	id string
	// deps holds the IDs of the nodes this node depends on (predecessors).
	deps []string
	// dependents holds the IDs of the nodes that depend on this node (successors).
	dependents []string
}
