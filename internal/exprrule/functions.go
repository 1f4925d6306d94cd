package exprrule

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions returns the functions callable from expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"floor":  stdlib.FloorFunc,
		"log":    stdlib.LogFunc,
		"pow":    stdlib.PowFunc,
		"min":    stdlib.MinFunc,
		"max":    stdlib.MaxFunc,
		"signum": stdlib.SignumFunc,
		"sqrt":   unaryFunc(math.Sqrt),
		"sin":    unaryFunc(math.Sin),
		"cos":    unaryFunc(math.Cos),
		"tan":    unaryFunc(math.Tan),
		"exp":    unaryFunc(math.Exp),
		"atan2":  atan2Func,
	}
}

func unaryFunc(f func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{{Name: "num", Type: cty.Number}},
		Type:   function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			return numberVal(f(x))
		},
	})
}

var atan2Func = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "y", Type: cty.Number},
		{Name: "x", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		y, _ := args[0].AsBigFloat().Float64()
		x, _ := args[1].AsBigFloat().Float64()
		return numberVal(math.Atan2(y, x))
	},
})

// numberVal rejects NaN, which cty numbers cannot represent.
func numberVal(x float64) (cty.Value, error) {
	if math.IsNaN(x) {
		return cty.NilVal, fmt.Errorf("result is not a number")
	}
	return cty.NumberFloatVal(x), nil
}
