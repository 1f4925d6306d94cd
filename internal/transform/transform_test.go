package transform

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/graph"
	"github.com/specialistvlad/coordgraph/internal/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line returns a 1-d DataArray along x with coord x = [1 2 3].
func line() *array.DataArray {
	da := array.NewDataArray("line", array.Vector("x", []float64{10, 20, 30}, "counts"))
	da.Coords().Set("x", array.Vector("x", []float64{1, 2, 3}, "m"))
	return da
}

func mustGraph(t *testing.T, spec graph.Spec) *graph.Graph {
	t.Helper()
	g, err := graph.FromSpec(spec)
	require.NoError(t, err)
	return g
}

func scale(input string, factor float64) rule.Kernel {
	return func(a rule.Args) (*array.Variable, error) { return a[input].Scale(factor), nil }
}

func values(t *testing.T, m *array.Meta, name string) []float64 {
	t.Helper()
	v, ok := m.Get(name)
	require.True(t, ok, "'%s' not found among %v", name, m.Names())
	return v.Values()
}

func TestCoords_ExistingCoordIsNotRecomputed(t *testing.T) {
	calls := 0
	g := mustGraph(t, graph.Spec{
		graph.Func("x", []string{"y"}, func(a rule.Args) (*array.Variable, error) {
			calls++
			return a["y"], nil
		}),
	})

	da := line()
	out, err := Coords(context.Background(), da, []string{"x"}, g)
	require.NoError(t, err)

	assert.Zero(t, calls)
	want, _ := da.Coords().Get("x")
	got, _ := out.Coords().Get("x")
	assert.Same(t, want, got)
}

func TestCoords_AttrIsPromotedToCoord(t *testing.T) {
	da := line()
	da.Attrs().Set("L", array.Scalar(25, "m"))
	g := mustGraph(t, graph.Spec{graph.Alias("b", "x")})

	out, err := Coords(context.Background(), da, []string{"L"}, g)
	require.NoError(t, err)

	assert.True(t, out.Coords().Has("L"))
	assert.False(t, out.Attrs().Has("L"))
	assert.True(t, da.Attrs().Has("L"), "input must keep its attr")
}

func TestCoords_RenameIsTransparent(t *testing.T) {
	g := mustGraph(t, graph.Spec{graph.Alias("b", "x")})

	out, err := Coords(context.Background(), line(), []string{"b"}, g)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, values(t, out.Coords(), "b"))
	b, _ := out.Coords().Get("b")
	assert.Equal(t, "m", b.Unit())
}

func TestCoords_Cycle(t *testing.T) {
	g := mustGraph(t, graph.Spec{
		graph.Func("a", []string{"b"}, scale("b", 1)),
		graph.Func("b", []string{"a"}, scale("a", 1)),
	})

	for _, target := range []string{"a", "b"} {
		t.Run(target, func(t *testing.T) {
			_, err := Coords(context.Background(), line(), []string{target}, g)
			require.ErrorIs(t, err, graph.ErrCycle)

			var cycleErr *graph.CycleError
			require.ErrorAs(t, err, &cycleErr)
			assert.Equal(t, target, cycleErr.Name)
			assert.Len(t, cycleErr.Path, 3)
		})
	}
}

func TestCoords_NotFoundNamesMissingInput(t *testing.T) {
	g := mustGraph(t, graph.Spec{graph.Func("p", []string{"q"}, scale("q", 2))})

	_, err := Coords(context.Background(), line(), []string{"p"}, g)

	require.ErrorIs(t, err, graph.ErrNotFound)
	var nf *graph.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "q", nf.Name)
}

func TestCoords_UnknownTarget(t *testing.T) {
	g := mustGraph(t, graph.Spec{graph.Alias("b", "x")})

	_, err := Coords(context.Background(), line(), []string{"nope"}, g)

	var nf *graph.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Name)
}

func TestCoords_FailureLeavesInputUntouched(t *testing.T) {
	g := mustGraph(t, graph.Spec{
		graph.Func("y", []string{"x"}, scale("x", 2)),
		graph.Func("z", []string{"y", "missing"}, scale("y", 1)),
	})
	da := line()

	out, err := Coords(context.Background(), da, []string{"z"}, g)

	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, []string{"x"}, da.Coords().Names())
	assert.Zero(t, da.Attrs().Len())
	assert.Equal(t, []string{"x"}, da.Dims())
}

func TestCoords_KernelErrorIsWrapped(t *testing.T) {
	boom := fmt.Errorf("boom")
	g := mustGraph(t, graph.Spec{
		graph.Func("y", []string{"x"}, func(rule.Args) (*array.Variable, error) { return nil, boom }),
	})

	_, err := Coords(context.Background(), line(), []string{"y"}, g)

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "computing 'y'")
}

func TestCoords_DimensionRename(t *testing.T) {
	testCases := []struct {
		name    string
		spec    graph.Spec
		targets []string
		opts    []Option
		dims    []string
	}{
		{
			name:    "one-to-one conversion renames",
			spec:    graph.Spec{graph.Func("y", []string{"x"}, scale("x", 2))},
			targets: []string{"y"},
			dims:    []string{"y"},
		},
		{
			name: "splitting node keeps dim",
			spec: graph.Spec{
				graph.Func("y", []string{"x"}, scale("x", 2)),
				graph.Func("z", []string{"x"}, scale("x", 3)),
			},
			targets: []string{"y", "z"},
			dims:    []string{"x"},
		},
		{
			name:    "keep dims",
			spec:    graph.Spec{graph.Func("y", []string{"x"}, scale("x", 2))},
			targets: []string{"y"},
			opts:    []Option{KeepDims()},
			dims:    []string{"x"},
		},
		{
			name: "two outputs keep dim",
			spec: graph.Spec{
				graph.MultiFunc([]string{"y", "z"}, []string{"x"}, func(a rule.Args) (map[string]*array.Variable, error) {
					return map[string]*array.Variable{"y": a["x"], "z": a["x"]}, nil
				}),
			},
			targets: []string{"y"},
			dims:    []string{"x"},
		},
		{
			name:    "chain renames step by step",
			spec:    graph.Spec{graph.Alias("b", "x"), graph.Func("c", []string{"b"}, scale("b", 2))},
			targets: []string{"c"},
			dims:    []string{"c"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Coords(context.Background(), line(), tc.targets, mustGraph(t, tc.spec), tc.opts...)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.dims, out.Dims()); diff != "" {
				t.Errorf("dims mismatch (-want +got):\n%s", diff)
			}
			for _, name := range out.MetaNames() {
				v, _ := out.Meta(name)
				for _, dim := range v.Dims() {
					assert.Contains(t, tc.dims, dim, "metadata '%s' has stale dim", name)
				}
			}
		})
	}
}

func TestCoords_AliasCleanup(t *testing.T) {
	g := mustGraph(t, graph.Spec{graph.Alias("b", "x"), graph.Alias("c", "b")})

	t.Run("removed by default", func(t *testing.T) {
		out, err := Coords(context.Background(), line(), []string{"c"}, g)
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, out.Coords().Names())
		assert.Equal(t, []string{"x"}, out.Attrs().Names())
	})

	t.Run("kept on request", func(t *testing.T) {
		out, err := Coords(context.Background(), line(), []string{"c"}, g, KeepAliases())
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, out.Coords().Names())
		assert.Equal(t, []string{"x", "b"}, out.Attrs().Names())
	})
}

func TestCoords_MultiOutputRuleRunsOnce(t *testing.T) {
	calls := 0
	g := mustGraph(t, graph.Spec{
		graph.MultiFunc([]string{"lo", "hi"}, []string{"x"}, func(a rule.Args) (map[string]*array.Variable, error) {
			calls++
			return map[string]*array.Variable{"lo": a["x"].Scale(0.5), "hi": a["x"].Scale(2)}, nil
		}),
	})

	out, err := Coords(context.Background(), line(), []string{"lo", "hi"}, g)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []float64{0.5, 1, 1.5}, values(t, out.Coords(), "lo"))
	assert.Equal(t, []float64{2, 4, 6}, values(t, out.Coords(), "hi"))
}

func TestCoords_MultiOutputRuleMissingRequestedOutput(t *testing.T) {
	g := mustGraph(t, graph.Spec{
		graph.MultiFunc([]string{"r", "phi"}, []string{"x"}, func(a rule.Args) (map[string]*array.Variable, error) {
			return map[string]*array.Variable{"phi": a["x"]}, nil
		}),
	})
	da := line()

	out, err := Coords(context.Background(), da, []string{"r"}, g)

	assert.Nil(t, out)
	require.ErrorContains(t, err, "computing 'r'")
	assert.ErrorContains(t, err, "produced no value")
	assert.False(t, da.Coords().Has("phi"))
}

func TestCoords_SharedDependencyIsResolvedOnce(t *testing.T) {
	calls := 0
	g := mustGraph(t, graph.Spec{
		graph.Func("y", []string{"x"}, func(a rule.Args) (*array.Variable, error) {
			calls++
			return a["x"].Scale(2), nil
		}),
		graph.Func("z", []string{"y", "x"}, func(a rule.Args) (*array.Variable, error) { return a["y"].Add(a["x"]) }),
		graph.Func("w", []string{"y", "z"}, func(a rule.Args) (*array.Variable, error) { return a["y"].Add(a["z"]) }),
	})

	out, err := Coords(context.Background(), line(), []string{"w"}, g, KeepDims())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []float64{5, 10, 15}, values(t, out.Coords(), "w"))
	assert.ElementsMatch(t, []string{"x", "y", "z"}, out.Attrs().Names())
}

func TestCoords_DeepChainDoesNotRecurse(t *testing.T) {
	const depth = 5000
	spec := graph.Spec{graph.Alias("c0", "x")}
	for i := 1; i < depth; i++ {
		spec = append(spec, graph.Alias(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", i-1)))
	}

	out, err := Coords(context.Background(), line(), []string{fmt.Sprintf("c%d", depth-1)}, mustGraph(t, spec), KeepDims())
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, values(t, out.Coords(), fmt.Sprintf("c%d", depth-1)))
}
