package testutil

import (
	"testing"

	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/datafile"
	"github.com/stretchr/testify/require"
)

// DecodeOutput parses the YAML written by a successful run.
func DecodeOutput(t *testing.T, result *HarnessResult) *datafile.Content {
	t.Helper()
	require.NoError(t, result.Err)
	c, err := datafile.Parse([]byte(result.Output))
	require.NoError(t, err, "run output is not a valid data document:\n%s", result.Output)
	return c
}

// RequireCoord checks that da has a coordinate name holding want.
func RequireCoord(t *testing.T, da *array.DataArray, name string, want []float64) {
	t.Helper()
	v, ok := da.Coords().Get(name)
	require.True(t, ok, "expected coord '%s', have coords %v and attrs %v", name, da.Coords().Names(), da.Attrs().Names())
	require.InDeltaSlice(t, want, v.Values(), 1e-9, "values of coord '%s'", name)
}
