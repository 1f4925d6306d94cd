// Package rule defines the nodes of a coordinate transformation graph. A
// Rule describes how one or more named coordinates are produced: by
// renaming an existing coordinate, by computing them from named inputs, or
// by fetching them from metadata that is already present.
//
// Rules are immutable once constructed. The set of rule kinds is closed;
// callers switch on the concrete type.
package rule

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/coordgraph/internal/array"
)

// Rule is implemented by *RenameRule, *ComputeRule and *FetchRule.
type Rule interface {
	// Outputs returns the names produced by the rule, in declaration order.
	Outputs() []string
	// Dependencies returns the names the rule reads, in declaration order.
	Dependencies() []string
	// String returns a short human readable description.
	String() string

	isRule()
}

// Args maps input names to the values bound to them for one invocation.
type Args map[string]*array.Variable

// Kernel computes a single coordinate. Its result is stored under the name
// that was requested from the rule.
type Kernel func(args Args) (*array.Variable, error)

// MultiKernel computes several coordinates at once. Every key of the
// returned map must be one of the rule's outputs.
type MultiKernel func(args Args) (map[string]*array.Variable, error)

// RenameRule makes an existing coordinate available under new names.
type RenameRule struct {
	outputs []string
	from    string
}

// NewRename creates a rule producing outputs as aliases of from.
func NewRename(outputs []string, from string) (*RenameRule, error) {
	if err := checkOutputs(outputs); err != nil {
		return nil, err
	}
	if from == "" {
		return nil, fmt.Errorf("rename rule for %v has no source name", outputs)
	}
	return &RenameRule{outputs: slices.Clone(outputs), from: from}, nil
}

func (r *RenameRule) Outputs() []string      { return slices.Clone(r.outputs) }
func (r *RenameRule) Dependencies() []string { return []string{r.from} }

// From returns the renamed input.
func (r *RenameRule) From() string { return r.from }

func (r *RenameRule) String() string {
	return fmt.Sprintf("rename %s -> %v", r.from, r.outputs)
}

func (*RenameRule) isRule() {}

// ComputeRule produces its outputs by calling a kernel with its inputs.
type ComputeRule struct {
	name    string
	outputs []string
	inputs  []string
	kernel  Kernel
	multi   MultiKernel
}

// NewCompute creates a rule whose kernel yields one value. name labels the
// kernel in diagnostics; inputs lists the argument names explicitly.
func NewCompute(name string, outputs, inputs []string, kernel Kernel) (*ComputeRule, error) {
	if kernel == nil {
		return nil, fmt.Errorf("compute rule %q has no kernel", name)
	}
	return newCompute(name, outputs, inputs, kernel, nil)
}

// NewMultiCompute creates a rule whose kernel yields a map of outputs.
func NewMultiCompute(name string, outputs, inputs []string, kernel MultiKernel) (*ComputeRule, error) {
	if kernel == nil {
		return nil, fmt.Errorf("compute rule %q has no kernel", name)
	}
	return newCompute(name, outputs, inputs, nil, kernel)
}

func newCompute(name string, outputs, inputs []string, k Kernel, m MultiKernel) (*ComputeRule, error) {
	if err := checkOutputs(outputs); err != nil {
		return nil, err
	}
	for i, in := range inputs {
		if in == "" {
			return nil, fmt.Errorf("compute rule %q has an empty input name", name)
		}
		if slices.Index(inputs, in) != i {
			return nil, fmt.Errorf("compute rule %q lists input '%s' twice", name, in)
		}
	}
	return &ComputeRule{
		name:    name,
		outputs: slices.Clone(outputs),
		inputs:  slices.Clone(inputs),
		kernel:  k,
		multi:   m,
	}, nil
}

func (r *ComputeRule) Outputs() []string      { return slices.Clone(r.outputs) }
func (r *ComputeRule) Dependencies() []string { return slices.Clone(r.inputs) }

// Name returns the kernel name.
func (r *ComputeRule) Name() string { return r.name }

func (r *ComputeRule) String() string {
	return fmt.Sprintf("%s(%v) -> %v", r.name, r.inputs, r.outputs)
}

// Apply calls the kernel. A single-value kernel's result is keyed by
// requested. The returned map only contains declared outputs.
func (r *ComputeRule) Apply(requested string, args Args) (map[string]*array.Variable, error) {
	if r.kernel != nil {
		v, err := r.kernel(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.name, err)
		}
		if v == nil {
			return nil, fmt.Errorf("%s: kernel returned no value for '%s'", r.name, requested)
		}
		return map[string]*array.Variable{requested: v}, nil
	}
	out, err := r.multi(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.name, err)
	}
	for key, v := range out {
		if !slices.Contains(r.outputs, key) {
			return nil, fmt.Errorf("%s: produced undeclared output '%s'", r.name, key)
		}
		if v == nil {
			return nil, fmt.Errorf("%s: kernel returned no value for '%s'", r.name, key)
		}
	}
	return out, nil
}

func (*ComputeRule) isRule() {}

// FetchRule stands for coordinates that already exist on the input object.
// It has no dependencies.
type FetchRule struct {
	outputs []string
}

// NewFetch creates a fetch rule for the given names.
func NewFetch(outputs ...string) (*FetchRule, error) {
	if err := checkOutputs(outputs); err != nil {
		return nil, err
	}
	return &FetchRule{outputs: slices.Clone(outputs)}, nil
}

func (r *FetchRule) Outputs() []string    { return slices.Clone(r.outputs) }
func (*FetchRule) Dependencies() []string { return nil }
func (r *FetchRule) String() string       { return fmt.Sprintf("fetch %v", r.outputs) }
func (*FetchRule) isRule()                {}

func checkOutputs(outputs []string) error {
	if len(outputs) == 0 {
		return fmt.Errorf("rule has no outputs")
	}
	for i, out := range outputs {
		if out == "" {
			return fmt.Errorf("rule has an empty output name")
		}
		if slices.Index(outputs, out) != i {
			return fmt.Errorf("rule lists output '%s' twice", out)
		}
	}
	return nil
}
