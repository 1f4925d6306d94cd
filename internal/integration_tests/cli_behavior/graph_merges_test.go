package integration_tests

import (
	"testing"

	"github.com/specialistvlad/coordgraph/internal/app"
	"github.com/specialistvlad/coordgraph/internal/testutil"
	"github.com/stretchr/testify/require"
)

const lineData = `
name: counts
dims: [x]
values: [1, 1, 1]
coords:
  x: {dims: [x], values: [1, 2, 3], unit: m}
`

// TestCLI_MergesGraphFiles_FromDirectoryPath validates that rules from HCL
// and YAML files in one directory form a single graph.
func TestCLI_MergesGraphFiles_FromDirectoryPath(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"graph/a.hcl":        `rename "position" { from = "x" }`,
		"graph/nested/b.yml": "rules:\n  - outputs: scaled\n    expr: position * 10\n",
		"data.yaml":          lineData,
	}

	result := testutil.RunIntegrationTest(t, files, app.Config{Coords: []string{"scaled"}, KeepDims: true})

	out := testutil.DecodeOutput(t, result)
	testutil.RequireCoord(t, out.Array, "scaled", []float64{10, 20, 30})
	require.Equal(t, []string{"x"}, out.Array.Dims())
	require.Contains(t, result.LogOutput, "rules=2")
}

func TestCLI_FailsWithoutRules(t *testing.T) {
	t.Parallel()

	files := map[string]string{"data.yaml": lineData}

	result := testutil.RunIntegrationTest(t, files, app.Config{Coords: []string{"x"}})

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "no rules found")
}
