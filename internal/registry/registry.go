package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"github.com/specialistvlad/coordgraph/internal/rule"
)

// Module is the interface that all function modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Function is a named kernel with declared parameters. Exactly one of
// Kernel and Multi is set. Outputs lists the result keys of Multi.
type Function struct {
	Name    string
	Params  []string
	Outputs []string
	Kernel  rule.Kernel
	Multi   rule.MultiKernel
}

// Registry holds all registered functions for a single application instance.
type Registry struct {
	functions map[string]*Function
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		functions: make(map[string]*Function),
	}
}

// Register adds fn. It panics if the name is taken or fn is malformed.
func (r *Registry) Register(fn *Function) {
	if _, exists := r.functions[fn.Name]; exists {
		panic(fmt.Sprintf("function with name '%s' already registered", fn.Name))
	}
	if (fn.Kernel == nil) == (fn.Multi == nil) {
		panic(fmt.Sprintf("function '%s' must set exactly one of Kernel and Multi", fn.Name))
	}
	if fn.Multi != nil && len(fn.Outputs) == 0 {
		panic(fmt.Sprintf("multi-output function '%s' declares no outputs", fn.Name))
	}
	slog.Debug("Registering function.", "name", fn.Name, "params", fn.Params)
	r.functions[fn.Name] = fn
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (*Function, bool) {
	fn, ok := r.functions[name]
	return fn, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.functions))
}

// Entry binds fn into a graph entry. args maps parameter names to the
// coordinates they read; unbound parameters read the coordinate of the same
// name. For single-output functions outputs must hold one name. For
// multi-output functions outputs renames fn.Outputs positionally and
// defaults to them when empty.
func (fn *Function) Entry(outputs []string, args map[string]string) (graph.Entry, error) {
	for param := range args {
		if !slices.Contains(fn.Params, param) {
			return graph.Entry{}, fmt.Errorf("function '%s' has no parameter '%s'", fn.Name, param)
		}
	}
	inputs := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		inputs[i] = param
		if coord, ok := args[param]; ok {
			inputs[i] = coord
		}
	}
	bind := func(in rule.Args) rule.Args {
		out := make(rule.Args, len(fn.Params))
		for i, param := range fn.Params {
			out[param] = in[inputs[i]]
		}
		return out
	}

	if fn.Kernel != nil {
		if len(outputs) != 1 {
			return graph.Entry{}, fmt.Errorf("function '%s' produces one output, %d requested", fn.Name, len(outputs))
		}
		return graph.Entry{
			Outputs: outputs,
			Producer: graph.Compute{
				Name:   fn.Name,
				Inputs: inputs,
				Kernel: func(in rule.Args) (*array.Variable, error) { return fn.Kernel(bind(in)) },
			},
		}, nil
	}

	if len(outputs) == 0 {
		outputs = fn.Outputs
	}
	if len(outputs) != len(fn.Outputs) {
		return graph.Entry{}, fmt.Errorf("function '%s' produces %v, %d output names given", fn.Name, fn.Outputs, len(outputs))
	}
	rename := make(map[string]string, len(outputs))
	for i, key := range fn.Outputs {
		rename[key] = outputs[i]
	}
	return graph.Entry{
		Outputs: slices.Clone(outputs),
		Producer: graph.Compute{
			Name:   fn.Name,
			Inputs: inputs,
			Multi: func(in rule.Args) (map[string]*array.Variable, error) {
				res, err := fn.Multi(bind(in))
				if err != nil {
					return nil, err
				}
				out := make(map[string]*array.Variable, len(res))
				for key, v := range res {
					name, ok := rename[key]
					if !ok {
						return nil, fmt.Errorf("produced undeclared output '%s'", key)
					}
					out[name] = v
				}
				return out, nil
			},
		},
	}, nil
}
