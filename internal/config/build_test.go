package config

import (
	"context"
	"testing"

	"github.com/specialistvlad/coordgraph/internal/exprrule"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"github.com/specialistvlad/coordgraph/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *registry.Registry {
	r := registry.New()
	registry.Builtins{}.Register(r)
	return r
}

func expr(t *testing.T, src string) *Rule {
	t.Helper()
	e, err := exprrule.Parse(src, "test")
	require.NoError(t, err)
	return &Rule{Kind: KindCompute, Outputs: []string{"v"}, Expr: e, Source: "test:1"}
}

func TestBuild(t *testing.T) {
	m := &Model{}
	m.Merge(&Model{Rules: []*Rule{
		{Kind: KindRename, Outputs: []string{"x"}, From: "position", Source: "a:1"},
		{Kind: KindCompute, Outputs: []string{"r", "phi"}, Func: "polar", Source: "a:2"},
	}})
	m.Merge(&Model{Rules: []*Rule{expr(t, "r / 2")}})
	m.Merge(nil)

	g, err := Build(context.Background(), m, testRegistry())
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "r", "phi", "v"}, g.Nodes())
	assert.Equal(t, []string{"position"}, g.ParentsOf("x"))
	assert.Equal(t, []string{"x", "y"}, g.ParentsOf("phi"))
	assert.Equal(t, []string{"r"}, g.ParentsOf("v"))
}

func TestBuild_Errors(t *testing.T) {
	withArgs := expr(t, "x")
	withArgs.Args = map[string]string{"x": "y"}
	both := expr(t, "x")
	both.Func = "norm"
	twoOutputs := expr(t, "x")
	twoOutputs.Outputs = []string{"a", "b"}

	testCases := []struct {
		name string
		rule *Rule
		want string
	}{
		{"no outputs", &Rule{Kind: KindRename, From: "a", Source: "f:1"}, "f:1: rule declares no outputs"},
		{"rename without source", &Rule{Kind: KindRename, Outputs: []string{"b"}, Source: "f:2"}, "rename of [b] has no source"},
		{"compute without producer", &Rule{Kind: KindCompute, Outputs: []string{"b"}, Source: "f:3"}, "needs 'func' or 'expr'"},
		{"unknown function", &Rule{Kind: KindCompute, Outputs: []string{"b"}, Func: "nope", Source: "f:4"}, "unknown function 'nope'"},
		{"func and expr", both, "sets both 'func' and 'expr'"},
		{"expr with args", withArgs, "'args' only applies to 'func'"},
		{"expr with two outputs", twoOutputs, "expression yields one output, 2 declared"},
		{"unknown kind", &Rule{Kind: Kind(7), Outputs: []string{"b"}, Source: "f:5"}, "unknown rule kind 7"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(context.Background(), &Model{Rules: []*Rule{tc.rule}}, testRegistry())
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestBuild_DuplicateOutput(t *testing.T) {
	m := &Model{Rules: []*Rule{
		{Kind: KindRename, Outputs: []string{"x"}, From: "a", Source: "f:1"},
		{Kind: KindRename, Outputs: []string{"x"}, From: "b", Source: "f:2"},
	}}
	_, err := Build(context.Background(), m, testRegistry())

	var dup *graph.DuplicateOutputError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.Name)
}
