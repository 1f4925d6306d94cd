// Package exprrule turns HCL expressions into compute kernels. An
// expression such as `sqrt(x * x + y * y)` reads the coordinates named by
// its variables and is evaluated once per element, with scalar and per-bin
// broadcasting as in array.Binary.
package exprrule

import (
	"fmt"
	"math"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/coordgraph/internal/array"
	"github.com/specialistvlad/coordgraph/internal/rule"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Parse parses a standalone expression, for formats that carry expressions
// as strings.
func Parse(src, filename string) (hcl.Expression, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse expression %q: %w", src, diags)
	}
	return expr, nil
}

// Inputs returns the coordinate names expr reads, sorted and unique. Only
// plain variable references are allowed.
func Inputs(expr hcl.Expression) ([]string, error) {
	var names []string
	for _, traversal := range expr.Variables() {
		if len(traversal) > 1 {
			return nil, fmt.Errorf("unsupported reference to '%s' at %s: only plain coordinate names can be used", traversalString(traversal), traversal.SourceRange())
		}
		if !slices.Contains(names, traversal.RootName()) {
			names = append(names, traversal.RootName())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Kernel builds a kernel that evaluates expr for every element. The result
// carries unit, or the unit of the first input when unit is empty.
func Kernel(expr hcl.Expression, unit string) ([]string, rule.Kernel, error) {
	inputs, err := Inputs(expr)
	if err != nil {
		return nil, nil, err
	}
	kernel := func(args rule.Args) (*array.Variable, error) {
		vars := make([]*array.Variable, len(inputs))
		for i, name := range inputs {
			v, ok := args[name]
			if !ok {
				return nil, fmt.Errorf("missing input '%s'", name)
			}
			vars[i] = v
		}
		layout, index, err := array.BroadcastIndex(vars...)
		if err != nil {
			return nil, err
		}

		evalCtx := &hcl.EvalContext{
			Variables: make(map[string]cty.Value, len(inputs)),
			Functions: Functions(),
		}
		values := make([]float64, layout.Len())
		for i := range values {
			for j, name := range inputs {
				x := vars[j].At(index[j](i))
				if math.IsNaN(x) {
					return nil, fmt.Errorf("input '%s' is NaN at element %d", name, i)
				}
				evalCtx.Variables[name] = cty.NumberFloatVal(x)
			}
			val, diags := expr.Value(evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("evaluating element %d: %w", i, diags)
			}
			if values[i], err = toFloat(val); err != nil {
				return nil, fmt.Errorf("element %d: expression must yield a number: %w", i, err)
			}
		}

		u := unit
		if u == "" && len(vars) > 0 {
			u = vars[0].Unit()
		}
		return layout.WithValues(values, u)
	}
	return inputs, kernel, nil
}

// toFloat accepts anything cty can convert to a number, such as bools and
// numeric strings.
func toFloat(val cty.Value) (float64, error) {
	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, err
	}
	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return 0, err
	}
	return f, nil
}

func traversalString(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}
