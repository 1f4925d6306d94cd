package dag

import (
	"fmt"
	"slices"
	"strings"
)

// CycleError reports that the graph is not acyclic. Nodes lists the nodes
// that could not be ordered, Path one concrete cycle through them.
type CycleError struct {
	Nodes []string
	Path  []string
}

func (e *CycleError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("cycle detected involving node '%s': %s", e.Path[0], strings.Join(e.Path, " -> "))
	}
	return fmt.Sprintf("cycle detected involving nodes %v", e.Nodes)
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &node{id: id}
	g.order = append(g.order, id)
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. A self edge is
// accepted and makes the graph cyclic. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(fromID, toID string) error {
	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}
	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}
	if slices.Contains(toNode.deps, fromID) {
		return nil
	}
	toNode.deps = append(toNode.deps, fromID)
	fromNode.dependents = append(fromNode.dependents, toID)
	return nil
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Dependencies returns the IDs of the nodes that the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return slices.Clone(n.deps), nil
}

// Dependents returns the IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return slices.Clone(n.dependents), nil
}

// TopologicalSort returns all node IDs ordered so that every node comes
// after its dependencies. Among nodes that become ready together, insertion
// order wins. A cyclic graph yields a *CycleError.
func (g *Graph) TopologicalSort() ([]string, error) {
	pending := make(map[string]int, len(g.nodes))
	var ready []string
	for _, id := range g.order {
		pending[id] = len(g.nodes[id].deps)
		if pending[id] == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		sorted = append(sorted, id)
		for _, dependent := range g.nodes[id].dependents {
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(sorted) == len(g.order) {
		return sorted, nil
	}
	var stuck []string
	for _, id := range g.order {
		if pending[id] > 0 {
			stuck = append(stuck, id)
		}
	}
	err := &CycleError{Nodes: stuck}
	if cerr, ok := g.DetectCycles().(*CycleError); ok {
		err.Path = cerr.Path
	}
	return nil, err
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// naming one cycle if found.
func (g *Graph) DetectCycles() error {
	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently on the path of the current traversal.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)
	var path []string

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			start := slices.Index(path, n.id)
			cycle := append(slices.Clone(path[start:]), n.id)
			return &CycleError{Nodes: slices.Clone(path[start:]), Path: cycle}
		}

		temporary[n.id] = true
		path = append(path, n.id)
		for _, dependent := range n.dependents {
			if err := visit(g.nodes[dependent]); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		delete(temporary, n.id)
		permanent[n.id] = true
		return nil
	}

	for _, id := range g.order {
		if err := visit(g.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}
