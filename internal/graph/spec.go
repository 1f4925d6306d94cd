package graph

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/coordgraph/internal/rule"
)

// Spec is the declarative form of a graph. Each entry names one or more
// outputs and how they are produced.
type Spec []Entry

// Entry declares that Outputs are produced by Producer. Several outputs in
// one entry share a single rule.
type Entry struct {
	Outputs  []string
	Producer Producer
}

// Producer is either a Rename or a Compute.
type Producer interface {
	producer()
}

// Rename produces the entry's outputs as aliases of the named coordinate.
type Rename string

func (Rename) producer() {}

// Compute produces the entry's outputs by calling a kernel with the
// coordinates named in Inputs. Exactly one of Kernel and Multi is set.
type Compute struct {
	Name   string
	Inputs []string
	Kernel rule.Kernel
	Multi  rule.MultiKernel
}

func (Compute) producer() {}

// Alias is shorthand for an entry renaming from to out.
func Alias(out, from string) Entry {
	return Entry{Outputs: []string{out}, Producer: Rename(from)}
}

// Func is shorthand for a single-output compute entry.
func Func(out string, inputs []string, kernel rule.Kernel) Entry {
	return Entry{
		Outputs:  []string{out},
		Producer: Compute{Name: out, Inputs: inputs, Kernel: kernel},
	}
}

// MultiFunc is shorthand for a compute entry with several outputs.
func MultiFunc(outs, inputs []string, kernel rule.MultiKernel) Entry {
	return Entry{
		Outputs:  outs,
		Producer: Compute{Name: strings.Join(outs, "_"), Inputs: inputs, Multi: kernel},
	}
}

// FromSpec builds a graph from its declarative form. Each entry becomes one
// rule. An output declared by two entries is rejected with a
// *DuplicateOutputError before any rule is used.
func FromSpec(spec Spec) (*Graph, error) {
	g := &Graph{rules: make(map[string]rule.Rule)}
	for i, entry := range spec {
		r, err := makeRule(entry)
		if err != nil {
			return nil, fmt.Errorf("graph entry %d: %w", i, err)
		}
		for _, out := range r.Outputs() {
			if _, exists := g.rules[out]; exists {
				return nil, &DuplicateOutputError{Name: out}
			}
			g.rules[out] = r
			g.order = append(g.order, out)
		}
	}
	return g, nil
}

func makeRule(entry Entry) (rule.Rule, error) {
	switch p := entry.Producer.(type) {
	case Rename:
		return rule.NewRename(entry.Outputs, string(p))
	case Compute:
		name := p.Name
		if name == "" {
			name = strings.Join(entry.Outputs, "_")
		}
		switch {
		case p.Kernel != nil && p.Multi != nil:
			return nil, fmt.Errorf("compute rule %q sets both a single and a multi kernel", name)
		case p.Multi != nil:
			return rule.NewMultiCompute(name, entry.Outputs, p.Inputs, p.Multi)
		default:
			return rule.NewCompute(name, entry.Outputs, p.Inputs, p.Kernel)
		}
	case nil:
		return nil, fmt.Errorf("entry for %v has no producer", entry.Outputs)
	default:
		return nil, fmt.Errorf("entry for %v has unsupported producer %T", entry.Outputs, p)
	}
}
