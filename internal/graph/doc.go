// Package graph holds the coordinate conversion graph: an immutable mapping
// from coordinate name to the rule.Rule that produces it.
//
// # Construction
//
// A graph is built either from rules directly (New) or from a declarative
// Spec (FromSpec), where every entry lists its output names and a producer:
//
//	g, err := graph.FromSpec(graph.Spec{
//	    graph.Alias("b", "a"),
//	    graph.Func("tof", []string{"t", "t0"}, tofKernel),
//	})
//
// Each output name belongs to exactly one rule. Declaring an output twice
// fails with a *DuplicateOutputError at construction time.
//
// # Queries
//
// ParentsOf and ChildrenOf expose the dependency edges, NodesTopologically
// orders all names (inputs included) and reports loops as *CycleError, and
// DepthFirst walks the edges lazily. GraphFor reduces the graph to what a
// given DataArray needs for a set of targets, replacing names that are
// already present with FetchRules; WriteDOT renders any graph for
// inspection.
package graph
