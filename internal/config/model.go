package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Kind selects how a Rule produces its outputs.
type Kind int

const (
	KindRename Kind = iota
	KindCompute
)

// Model is the unified, format-agnostic representation of one or more
// graph files.
type Model struct {
	Rules []*Rule
}

// Rule is the format-agnostic representation of a `rename` or `compute`
// declaration.
type Rule struct {
	Kind    Kind
	Outputs []string
	// From is the source of a rename.
	From string
	// Func names a registered function; Args binds its parameters to
	// coordinate names.
	Func string
	Args map[string]string
	// Expr is an inline expression, used instead of Func.
	Expr hcl.Expression
	// Unit overrides the unit of an expression result.
	Unit string
	// Source locates the declaration for error messages.
	Source string
}

// Merge appends the rules of other.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Rules = append(m.Rules, other.Rules...)
}
