package config

import (
	"context"
	"fmt"

	"github.com/specialistvlad/coordgraph/internal/ctxlog"
	"github.com/specialistvlad/coordgraph/internal/exprrule"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"github.com/specialistvlad/coordgraph/internal/registry"
)

// Build turns the model into a graph. Function names are looked up in reg.
// Output names declared twice are rejected by graph.FromSpec.
func Build(ctx context.Context, m *Model, reg *registry.Registry) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	spec := make(graph.Spec, 0, len(m.Rules))
	for _, r := range m.Rules {
		entry, err := entryFor(r, reg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Source, err)
		}
		spec = append(spec, entry)
	}
	g, err := graph.FromSpec(spec)
	if err != nil {
		return nil, err
	}
	logger.Debug("Conversion graph built.", "rules", len(spec), "outputs", g.Len())
	return g, nil
}

func entryFor(r *Rule, reg *registry.Registry) (graph.Entry, error) {
	if len(r.Outputs) == 0 {
		return graph.Entry{}, fmt.Errorf("rule declares no outputs")
	}
	switch r.Kind {
	case KindRename:
		if r.From == "" {
			return graph.Entry{}, fmt.Errorf("rename of %v has no source", r.Outputs)
		}
		return graph.Entry{Outputs: r.Outputs, Producer: graph.Rename(r.From)}, nil

	case KindCompute:
		switch {
		case r.Expr != nil && r.Func != "":
			return graph.Entry{}, fmt.Errorf("compute of %v sets both 'func' and 'expr'", r.Outputs)
		case r.Expr != nil:
			if len(r.Outputs) != 1 {
				return graph.Entry{}, fmt.Errorf("expression yields one output, %d declared", len(r.Outputs))
			}
			if len(r.Args) > 0 {
				return graph.Entry{}, fmt.Errorf("'args' only applies to 'func'")
			}
			inputs, kernel, err := exprrule.Kernel(r.Expr, r.Unit)
			if err != nil {
				return graph.Entry{}, err
			}
			return graph.Func(r.Outputs[0], inputs, kernel), nil
		case r.Func != "":
			fn, ok := reg.Lookup(r.Func)
			if !ok {
				return graph.Entry{}, fmt.Errorf("unknown function '%s'", r.Func)
			}
			return fn.Entry(r.Outputs, r.Args)
		default:
			return graph.Entry{}, fmt.Errorf("compute of %v needs 'func' or 'expr'", r.Outputs)
		}
	}
	return graph.Entry{}, fmt.Errorf("unknown rule kind %d", r.Kind)
}
