package registry

import (
	"testing"

	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"github.com/specialistvlad/coordgraph/internal/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withBuiltins(t *testing.T) *Registry {
	t.Helper()
	r := New()
	Builtins{}.Register(r)
	return r
}

func TestRegister_Panics(t *testing.T) {
	kernel := func(a rule.Args) (*array.Variable, error) { return a["x"], nil }

	r := New()
	r.Register(&Function{Name: "f", Params: []string{"x"}, Kernel: kernel})

	assert.PanicsWithValue(t, "function with name 'f' already registered", func() {
		r.Register(&Function{Name: "f", Kernel: kernel})
	})
	assert.Panics(t, func() { r.Register(&Function{Name: "none"}) })
	assert.Panics(t, func() {
		r.Register(&Function{Name: "multi", Multi: func(rule.Args) (map[string]*array.Variable, error) { return nil, nil }})
	})
}

func TestNames(t *testing.T) {
	r := withBuiltins(t)
	assert.Equal(t, []string{"difference", "identity", "norm", "polar", "ratio", "sqrt"}, r.Names())

	_, ok := r.Lookup("norm")
	assert.True(t, ok)
	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestEntry_BindsParameters(t *testing.T) {
	r := withBuiltins(t)
	fn, _ := r.Lookup("difference")

	entry, err := fn.Entry([]string{"dt"}, map[string]string{"a": "t1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dt"}, entry.Outputs)

	g, err := graph.FromSpec(graph.Spec{entry})
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "b"}, g.ParentsOf("dt"))

	rl, _ := g.Rule("dt")
	out, err := rl.(*rule.ComputeRule).Apply("dt", rule.Args{
		"t1": array.Vector("x", []float64{5, 7}, "s"),
		"b":  array.Scalar(1, "s"),
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, out["dt"].Values())
}

func TestEntry_Errors(t *testing.T) {
	r := withBuiltins(t)
	norm, _ := r.Lookup("norm")
	polar, _ := r.Lookup("polar")

	_, err := norm.Entry([]string{"n"}, map[string]string{"w": "x"})
	assert.ErrorContains(t, err, "function 'norm' has no parameter 'w'")

	_, err = norm.Entry([]string{"a", "b"}, nil)
	assert.ErrorContains(t, err, "produces one output, 2 requested")

	_, err = polar.Entry([]string{"r"}, nil)
	assert.ErrorContains(t, err, "1 output names given")
}

func TestEntry_MultiOutputRenames(t *testing.T) {
	r := withBuiltins(t)
	polar, _ := r.Lookup("polar")

	entry, err := polar.Entry([]string{"radius", "angle"}, nil)
	require.NoError(t, err)
	g, err := graph.FromSpec(graph.Spec{entry})
	require.NoError(t, err)

	rl, ok := g.Rule("angle")
	require.True(t, ok)
	out, err := rl.(*rule.ComputeRule).Apply("angle", rule.Args{
		"x": array.Vector("p", []float64{3, 0}, "m"),
		"y": array.Vector("p", []float64{4, 2}, "m"),
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 2}, out["radius"].Values())
	assert.Equal(t, "m", out["radius"].Unit())
	assert.InDeltaSlice(t, []float64{0.9273, 1.5708}, out["angle"].Values(), 1e-4)
	assert.Equal(t, "rad", out["angle"].Unit())

	defaults, err := polar.Entry(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "phi"}, defaults.Outputs)
}

func TestBuiltins(t *testing.T) {
	r := withBuiltins(t)
	x := array.Vector("p", []float64{3, 0, 1}, "m")
	y := array.Vector("p", []float64{4, 0, 2}, "m")
	z := array.Vector("p", []float64{0, 2, 2}, "m")

	call := func(name string, args rule.Args) *array.Variable {
		t.Helper()
		fn, ok := r.Lookup(name)
		require.True(t, ok)
		v, err := fn.Kernel(args)
		require.NoError(t, err)
		return v
	}

	n := call("norm", rule.Args{"x": x, "y": y, "z": z})
	assert.Equal(t, []float64{5, 2, 3}, n.Values())
	assert.Equal(t, "m", n.Unit())

	assert.Same(t, x, call("identity", rule.Args{"x": x}))
	assert.Equal(t, []float64{2, 0, 1}, call("ratio", rule.Args{"a": y, "b": array.Scalar(2, "")}).Values())
	assert.Equal(t, []float64{2, 0, 1}, call("sqrt", rule.Args{"x": array.Vector("p", []float64{4, 0, 1}, "")}).Values())
}
