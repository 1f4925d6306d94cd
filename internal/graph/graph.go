package graph

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/ctxlog"
	"github.com/specialistvlad/coordgraph/internal/dag"
	"github.com/specialistvlad/coordgraph/internal/rule"
)

// Direction selects which edges DepthFirst follows.
type Direction int

const (
	// Parents follows edges towards the dependencies of a node.
	Parents Direction = iota
	// Children follows edges towards the nodes that depend on a node.
	Children
)

// Graph maps output names to the rule producing them. A Graph is immutable
// after construction and safe for concurrent reads.
type Graph struct {
	order []string
	rules map[string]rule.Rule
}

// New builds a graph from rules keyed by output name. Every rule must list
// its key among its outputs.
func New(rules map[string]rule.Rule) (*Graph, error) {
	g := &Graph{rules: make(map[string]rule.Rule, len(rules))}
	for name, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("no rule for '%s'", name)
		}
		if !slices.Contains(r.Outputs(), name) {
			return nil, fmt.Errorf("rule for '%s' does not produce it: %s", name, r)
		}
		g.rules[name] = r
		g.order = append(g.order, name)
	}
	slices.Sort(g.order)
	return g, nil
}

// Rule returns the rule producing name.
func (g *Graph) Rule(name string) (rule.Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

// Nodes returns all output names: sorted for New, in declaration order for
// FromSpec.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Len returns the number of output names.
func (g *Graph) Len() int { return len(g.order) }

// ParentsOf returns the dependencies of the rule producing name. Names
// without a rule are inputs and have no parents.
func (g *Graph) ParentsOf(name string) []string {
	r, ok := g.rules[name]
	if !ok {
		return nil
	}
	return r.Dependencies()
}

// ChildrenOf returns the outputs whose rule depends on name.
func (g *Graph) ChildrenOf(name string) []string {
	var children []string
	for _, out := range g.order {
		if slices.Contains(g.rules[out].Dependencies(), name) {
			children = append(children, out)
		}
	}
	return children
}

// NodesTopologically orders every output and every input name so that each
// comes after its dependencies. A dependency loop yields a *CycleError.
func (g *Graph) NodesTopologically() ([]string, error) {
	d := dag.New()
	for _, out := range g.order {
		d.AddNode(out)
		for _, dep := range g.rules[out].Dependencies() {
			d.AddNode(dep)
		}
	}
	for _, out := range g.order {
		for _, dep := range g.rules[out].Dependencies() {
			if err := d.AddEdge(dep, out); err != nil {
				return nil, err
			}
		}
	}
	order, err := d.TopologicalSort()
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		if len(cycleErr.Path) == 0 {
			return nil, &CycleError{Name: cycleErr.Nodes[0]}
		}
		return nil, &CycleError{Name: cycleErr.Path[len(cycleErr.Path)-1], Path: cycleErr.Path}
	}
	return order, err
}

// RuleSequence returns the rules in dependency order, each rule once.
func (g *Graph) RuleSequence() ([]rule.Rule, error) {
	order, err := g.NodesTopologically()
	if err != nil {
		return nil, err
	}
	var seq []rule.Rule
	for _, name := range order {
		r, ok := g.rules[name]
		if ok && !slices.Contains(seq, r) {
			seq = append(seq, r)
		}
	}
	return seq, nil
}

// DepthFirst lazily yields the names reachable from start along the given
// direction, start names included. Every name is yielded at most once. The
// traversal uses an explicit stack: the most recently discovered name is
// visited next.
func (g *Graph) DepthFirst(start []string, dir Direction) iter.Seq[string] {
	return func(yield func(string) bool) {
		pending := slices.Clone(start)
		visited := make(map[string]struct{})
		for len(pending) > 0 {
			name := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			if _, seen := visited[name]; seen {
				continue
			}
			visited[name] = struct{}{}
			if !yield(name) {
				return
			}
			if dir == Children {
				pending = append(pending, g.ChildrenOf(name)...)
			} else {
				pending = append(pending, g.ParentsOf(name)...)
			}
		}
	}
}

// GraphFor returns the subgraph needed to produce targets from the metadata
// of da. Names already present on da, at the dense or the event level, get
// a FetchRule and their own dependencies are not followed. A name that is
// neither present nor produced by a rule yields a *NotFoundError.
func (g *Graph) GraphFor(ctx context.Context, da *array.DataArray, targets []string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	sub := &Graph{rules: make(map[string]rule.Rule)}

	pending := slices.Clone(targets)
	visited := make(map[string]struct{})
	for len(pending) > 0 {
		name := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, seen := visited[name]; seen {
			continue
		}
		visited[name] = struct{}{}

		r, err := g.ruleFor(name, da)
		if err != nil {
			return nil, err
		}
		for _, out := range r.Outputs() {
			if _, exists := sub.rules[out]; !exists {
				sub.order = append(sub.order, out)
			}
			sub.rules[out] = r
		}
		pending = append(pending, r.Dependencies()...)
	}
	logger.Debug("Reduced conversion graph.", "targets", targets, "rules", sub.Len())
	return sub, nil
}

func (g *Graph) ruleFor(name string, da *array.DataArray) (rule.Rule, error) {
	if hasMeta(da, name) {
		return rule.NewFetch(name)
	}
	if r, ok := g.rules[name]; ok {
		return r, nil
	}
	return nil, &NotFoundError{Name: name}
}

func hasMeta(da *array.DataArray, name string) bool {
	if da.HasMeta(name) {
		return true
	}
	return da.Bins() != nil && da.Bins().HasMeta(name)
}
